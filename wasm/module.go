package wasm

// Index is a position in one of a module's index spaces (types, funcs,
// memories). Named the same as wazero's wasm.Index for the same reason: it
// documents intent better than a bare uint32 at call sites.
type Index = uint32

const (
	// ExternKindFunc is the only import/export kind this subset decodes.
	ExternKindFunc byte = 0x00
)

// Import is a module-level import declaration. Only function imports are
// supported; any other Kind fails decoding.
type Import struct {
	ModuleName string
	FieldName  string
	Kind       byte
	TypeIndex  Index
}

// Export is a module-level export declaration. Only function exports are
// supported; any other Kind fails decoding.
type Export struct {
	Name  string
	Kind  byte
	Index Index
}

// MemoryType is the Limits pair for a memory declaration: a minimum page
// count and an optional maximum. Max is nil when the binary's flags byte
// indicated "no maximum" (the sentinel case from spec.md §4.2).
type MemoryType struct {
	Min Index
	Max *Index
}

// MemoryPageSize is the fixed size, in bytes, of one unit of linear memory.
const MemoryPageSize = 65536

// DataSegment initializes a window of linear memory at instantiation time.
// Offset is the evaluated constant expression (an i32.const immediate in
// this subset); Init is the raw bytes to copy starting at that offset.
type DataSegment struct {
	MemoryIndex Index
	Offset      int32
	Init        []byte
}

// Code is a decoded function body: its locals (already expanded from the
// run-length (count, type) pairs the binary format uses) and its decoded
// instruction sequence.
type Code struct {
	Locals []ValueType
	Body   []Instruction
}

// Module is the structural result of decoding a Wasm binary: a plain
// collection of decoded sections, with no runtime behavior of its own. See
// Store for what makes a Module executable.
type Module struct {
	TypeSection     []*FuncType
	ImportSection   []*Import
	FunctionSection []Index // type index per internally-defined function
	MemorySection   []*MemoryType
	ExportSection   []*Export
	CodeSection     []*Code
	DataSection     []*DataSegment
}
