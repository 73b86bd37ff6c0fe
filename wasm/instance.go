package wasm

import "fmt"

// FuncInst is either an internally-defined function or one resolved to an
// import. Indexed 0..N-1 in Store.Funcs: imports occupy the low indices in
// import order, internal functions follow in code-section order.
type FuncInst interface {
	Signature() *FuncType

	// DebugName is a best-effort label for fatal error messages — an
	// index-based fallback like "$3" for internal functions, or
	// "module.field" for imports — not a guaranteed-unique identifier.
	DebugName() string
}

// InternalFuncInst is a function defined in the module's own code section.
type InternalFuncInst struct {
	Index Index
	Type  *FuncType
	Code  *Code
}

func (f *InternalFuncInst) Signature() *FuncType { return f.Type }
func (f *InternalFuncInst) DebugName() string    { return fmt.Sprintf("$%d", f.Index) }

// ExternalFuncInst is a function imported from another module or the host.
type ExternalFuncInst struct {
	Index      Index
	ModuleName string
	FieldName  string
	Type       *FuncType
}

func (f *ExternalFuncInst) Signature() *FuncType { return f.Type }
func (f *ExternalFuncInst) DebugName() string    { return fmt.Sprintf("%s.%s", f.ModuleName, f.FieldName) }

// ExportInst is a single exported binding. Only function exports exist in
// this subset.
type ExportInst struct {
	Name      string
	FuncIndex Index
}

// ModuleInst is the instantiated module's public surface: its exports,
// keyed by name.
type ModuleInst struct {
	Exports map[string]*ExportInst
}

// NoMax marks a memory as having no declared maximum (the sentinel from
// spec.md §3's MemoryInst.max).
const NoMax = ^Index(0)

// MemoryInst is a module's linear memory: a flat byte array sized in
// 65536-byte pages, pre-filled from data segments at instantiation.
type MemoryInst struct {
	Data []byte
	Max  Index // in pages, or NoMax
}

// Store is the runtime result of instantiating a Module: the function
// table, export map, and linear memories needed to execute calls. A Module
// is consumed building a Store; after that point only the Store matters.
type Store struct {
	Funcs    []FuncInst
	Memories []*MemoryInst
	Module   *ModuleInst
}

// Memory returns the module's sole memory, or nil if it declared none.
// This subset never has more than one (spec.md §1 Non-goals: multi-memory).
func (s *Store) Memory() *MemoryInst {
	if len(s.Memories) == 0 {
		return nil
	}
	return s.Memories[0]
}

// NewStore builds a Store from a decoded Module, per spec.md §4.3.
func NewStore(m *Module) (*Store, error) {
	s := &Store{Module: &ModuleInst{Exports: map[string]*ExportInst{}}}

	for _, imp := range m.ImportSection {
		if imp.Kind != ExternKindFunc {
			return nil, wrapf(ErrInvalidByte, "import %q.%q: unsupported kind %#x", imp.ModuleName, imp.FieldName, imp.Kind)
		}
		if int(imp.TypeIndex) >= len(m.TypeSection) {
			return nil, wrapf(ErrInvalidByte, "import %q.%q: type index %d out of range", imp.ModuleName, imp.FieldName, imp.TypeIndex)
		}
		s.Funcs = append(s.Funcs, &ExternalFuncInst{
			Index:      Index(len(s.Funcs)),
			ModuleName: imp.ModuleName,
			FieldName:  imp.FieldName,
			Type:       m.TypeSection[imp.TypeIndex],
		})
	}

	if len(m.FunctionSection) != len(m.CodeSection) {
		return nil, wrapf(ErrInvalidByte, "function section has %d entries but code section has %d", len(m.FunctionSection), len(m.CodeSection))
	}
	for i, typeIdx := range m.FunctionSection {
		if int(typeIdx) >= len(m.TypeSection) {
			return nil, wrapf(ErrInvalidByte, "function[%d]: type index %d out of range", i, typeIdx)
		}
		s.Funcs = append(s.Funcs, &InternalFuncInst{
			Index: Index(len(s.Funcs)),
			Type:  m.TypeSection[typeIdx],
			Code:  m.CodeSection[i],
		})
	}

	for _, exp := range m.ExportSection {
		if exp.Kind != ExternKindFunc {
			return nil, wrapf(ErrInvalidByte, "export %q: unsupported kind %#x", exp.Name, exp.Kind)
		}
		if int(exp.Index) >= len(s.Funcs) {
			return nil, wrapf(ErrInvalidByte, "export %q: function index %d out of range", exp.Name, exp.Index)
		}
		s.Module.Exports[exp.Name] = &ExportInst{Name: exp.Name, FuncIndex: exp.Index}
	}

	for _, mt := range m.MemorySection {
		max := NoMax
		if mt.Max != nil {
			max = *mt.Max
		}
		s.Memories = append(s.Memories, &MemoryInst{
			Data: make([]byte, uint64(mt.Min)*MemoryPageSize),
			Max:  max,
		})
	}

	for i, seg := range m.DataSection {
		if int(seg.MemoryIndex) >= len(s.Memories) {
			return nil, wrapf(ErrInvalidByte, "data[%d]: memory index %d out of range", i, seg.MemoryIndex)
		}
		mem := s.Memories[seg.MemoryIndex]
		offset := int64(seg.Offset)
		end := offset + int64(len(seg.Init))
		if offset < 0 || end > int64(len(mem.Data)) {
			return nil, wrapf(ErrDataSegmentOutOfBounds, "data[%d]: offset %d size %d memory size %d", i, offset, len(seg.Init), len(mem.Data))
		}
		copy(mem.Data[offset:end], seg.Init)
	}

	return s, nil
}
