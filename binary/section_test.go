package binary

import (
	"bytes"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/tinywasm/tinywasm/wasm"
)

func TestDecodeLimits_minOnly(t *testing.T) {
	min, max, err := decodeLimits(bytes.NewReader([]byte{0x00, 0x03}))
	require.NoError(t, err)
	assert.EqualValues(t, 3, min)
	assert.Nil(t, max)
}

func TestDecodeLimits_minAndMax(t *testing.T) {
	min, max, err := decodeLimits(bytes.NewReader([]byte{0x01, 0x01, 0x02}))
	require.NoError(t, err)
	assert.EqualValues(t, 1, min)
	require.NotNil(t, max)
	assert.EqualValues(t, 2, *max)
}

func TestDecodeLimits_badFlags(t *testing.T) {
	_, _, err := decodeLimits(bytes.NewReader([]byte{0x02, 0x01}))
	assert.ErrorIs(t, err, wasm.ErrInvalidByte)
}

func TestDecodeImportSection_unsupportedKind(t *testing.T) {
	_, err := decodeImportSection(bytes.NewReader([]byte{
		0x01,
		0x00, // empty module name
		0x00, // empty field name
		0x01, // kind 1 (table) — unsupported
	}))
	assert.ErrorIs(t, err, wasm.ErrInvalidByte)
}

func TestDecodeExportSection_unsupportedKind(t *testing.T) {
	_, err := decodeExportSection(bytes.NewReader([]byte{
		0x01,
		0x00, // empty name
		0x02, // kind 2 (memory) — unsupported
		0x00,
	}))
	assert.ErrorIs(t, err, wasm.ErrInvalidByte)
}

func TestDecodeFuncType_wrongForm(t *testing.T) {
	_, err := decodeFuncType(bytes.NewReader([]byte{0x00}))
	assert.ErrorIs(t, err, wasm.ErrInvalidByte)
}
