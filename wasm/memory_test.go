package wasm

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestMemoryInstance_ValidateAddrRange(t *testing.T) {
	m := &MemoryInst{Data: make([]byte, 10)}
	for _, tc := range []struct {
		name      string
		addr      uint32
		rangeSize uint64
		exp       bool
	}{
		{"fits exactly", 0, 10, true},
		{"fits within", 3, 4, true},
		{"starts past end", 11, 0, false},
		{"addr at end, even with zero range", 10, 0, false},
		{"overruns end", 8, 3, false},
	} {
		tc := tc
		t.Run(tc.name, func(t *testing.T) {
			assert.Equal(t, tc.exp, m.ValidateAddrRange(tc.addr, tc.rangeSize))
		})
	}
}

func TestMemoryInstance_PutUint32_GetUint32(t *testing.T) {
	m := &MemoryInst{Data: make([]byte, 8)}

	ok := m.PutUint32(2, 0xdeadbeef)
	require.True(t, ok)

	v, ok := m.GetUint32(2)
	require.True(t, ok)
	assert.EqualValues(t, 0xdeadbeef, v)

	_, ok = m.GetUint32(5)
	assert.False(t, ok)

	ok = m.PutUint32(5, 1)
	assert.False(t, ok)
}

func TestMemoryInstance_ReadWrite(t *testing.T) {
	m := &MemoryInst{Data: make([]byte, 8)}

	ok := m.Write(1, []byte("abcd"))
	require.True(t, ok)

	view, ok := m.Read(1, 4)
	require.True(t, ok)
	assert.Equal(t, "abcd", string(view))

	// Read returns a write-through view.
	view[0] = 'z'
	assert.Equal(t, byte('z'), m.Data[1])

	_, ok = m.Read(6, 4)
	assert.False(t, ok)
}
