package binary

import (
	"bytes"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/tinywasm/tinywasm/wasm"
)

func TestDecodeInstructions_ifEnd(t *testing.T) {
	// local.get 0, if (void), i32.const 1, end, end
	body := []byte{
		0x20, 0x00,
		0x04, 0x40,
		0x41, 0x01,
		0x0B,
		0x0B,
	}
	insts, err := decodeInstructions(bytes.NewReader(body))
	require.NoError(t, err)
	require.Len(t, insts, 5)
	assert.Equal(t, wasm.OpcodeLocalGet, insts[0].Opcode)
	assert.Equal(t, wasm.OpcodeIf, insts[1].Opcode)
	assert.True(t, insts[1].BlockType.Void)
	assert.Equal(t, wasm.OpcodeI32Const, insts[2].Opcode)
	assert.EqualValues(t, 1, insts[2].I32Const)
	assert.Equal(t, wasm.OpcodeEnd, insts[3].Opcode)
	assert.Equal(t, wasm.OpcodeEnd, insts[4].Opcode)
}

func TestDecodeInstructions_arithmeticAndMemory(t *testing.T) {
	body := []byte{
		0x20, 0x00, // local.get 0
		0x20, 0x01, // local.get 1
		0x6A,             // i32.add
		0x36, 0x02, 0x00, // i32.store align=2 offset=0
		0x0B,
	}
	insts, err := decodeInstructions(bytes.NewReader(body))
	require.NoError(t, err)
	require.Len(t, insts, 5)
	assert.Equal(t, wasm.OpcodeI32Add, insts[2].Opcode)
	assert.Equal(t, wasm.OpcodeI32Store, insts[3].Opcode)
	assert.EqualValues(t, 2, insts[3].Align)
	assert.EqualValues(t, 0, insts[3].Offset)
}

func TestDecodeInstructions_unknownOpcode(t *testing.T) {
	_, err := decodeInstructions(bytes.NewReader([]byte{0xFF}))
	assert.ErrorIs(t, err, wasm.ErrInvalidOpcode)
}

func TestDecodeConstExpr(t *testing.T) {
	v, err := decodeConstExpr(bytes.NewReader([]byte{0x41, 0x7F, 0x0B})) // i32.const -1, end
	require.NoError(t, err)
	assert.EqualValues(t, -1, v)
}

func TestDecodeConstExpr_wrongOpcode(t *testing.T) {
	_, err := decodeConstExpr(bytes.NewReader([]byte{0x20, 0x00, 0x0B}))
	assert.ErrorIs(t, err, wasm.ErrInvalidOpcode)
}
