package wasm

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func u32ptr(v uint32) *uint32 { return &v }

func TestNewStore_funcIndexSpace(t *testing.T) {
	// Imports occupy the low indices in import order, internal functions
	// follow in code-section order (spec.md §4.3 step 1-2).
	m := &Module{
		TypeSection: []*FuncType{
			{Params: []ValueType{ValueTypeI32}, Results: []ValueType{ValueTypeI32}},
		},
		ImportSection: []*Import{
			{ModuleName: "env", FieldName: "double", Kind: ExternKindFunc, TypeIndex: 0},
		},
		FunctionSection: []Index{0},
		CodeSection:     []*Code{{Body: []Instruction{{Opcode: OpcodeEnd}}}},
	}

	s, err := NewStore(m)
	require.NoError(t, err)
	require.Len(t, s.Funcs, 2)

	ext, ok := s.Funcs[0].(*ExternalFuncInst)
	require.True(t, ok)
	assert.Equal(t, "env", ext.ModuleName)
	assert.Equal(t, "double", ext.FieldName)
	assert.Equal(t, "env.double", ext.DebugName())

	internal, ok := s.Funcs[1].(*InternalFuncInst)
	require.True(t, ok)
	assert.Same(t, m.CodeSection[0], internal.Code)
	assert.Equal(t, "$1", internal.DebugName())
}

func TestNewStore_exports(t *testing.T) {
	m := &Module{
		TypeSection:     []*FuncType{{}},
		FunctionSection: []Index{0},
		CodeSection:     []*Code{{Body: []Instruction{{Opcode: OpcodeEnd}}}},
		ExportSection:   []*Export{{Name: "run", Kind: ExternKindFunc, Index: 0}},
	}

	s, err := NewStore(m)
	require.NoError(t, err)
	exp, ok := s.Module.Exports["run"]
	require.True(t, ok)
	assert.EqualValues(t, 0, exp.FuncIndex)
}

func TestNewStore_exportOutOfRange(t *testing.T) {
	m := &Module{ExportSection: []*Export{{Name: "run", Kind: ExternKindFunc, Index: 0}}}
	_, err := NewStore(m)
	assert.Error(t, err)
}

func TestNewStore_memoryAndDataSegments(t *testing.T) {
	m := &Module{
		MemorySection: []*MemoryType{{Min: 1}},
		DataSection: []*DataSegment{
			{MemoryIndex: 0, Offset: 0, Init: []byte("hello")},
			{MemoryIndex: 0, Offset: 5, Init: []byte("world")},
		},
	}

	s, err := NewStore(m)
	require.NoError(t, err)
	require.Len(t, s.Memories, 1)
	mem := s.Memory()
	assert.Equal(t, MemoryPageSize, len(mem.Data))
	assert.Equal(t, "helloworld", string(mem.Data[0:10]))
	for _, b := range mem.Data[10:] {
		assert.EqualValues(t, 0, b)
	}
}

func TestNewStore_dataSegmentOutOfBounds(t *testing.T) {
	m := &Module{
		MemorySection: []*MemoryType{{Min: 1}},
		DataSection:   []*DataSegment{{MemoryIndex: 0, Offset: MemoryPageSize - 2, Init: []byte("hello")}},
	}
	_, err := NewStore(m)
	assert.ErrorIs(t, err, ErrDataSegmentOutOfBounds)
}

func TestNewStore_memoryMaxSentinel(t *testing.T) {
	s, err := NewStore(&Module{MemorySection: []*MemoryType{{Min: 1}}})
	require.NoError(t, err)
	assert.Equal(t, NoMax, s.Memory().Max)

	s, err = NewStore(&Module{MemorySection: []*MemoryType{{Min: 1, Max: u32ptr(2)}}})
	require.NoError(t, err)
	assert.EqualValues(t, 2, s.Memory().Max)
}
