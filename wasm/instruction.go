package wasm

import "fmt"

// Opcode identifies an Instruction variant. Values match the Wasm binary
// encoding so the decoder can switch on the raw byte directly.
type Opcode byte

const (
	OpcodeIf        Opcode = 0x04
	OpcodeEnd       Opcode = 0x0B
	OpcodeReturn    Opcode = 0x0F
	OpcodeCall      Opcode = 0x10
	OpcodeLocalGet  Opcode = 0x20
	OpcodeLocalSet  Opcode = 0x21
	OpcodeI32Store  Opcode = 0x36
	OpcodeI32Const  Opcode = 0x41
	OpcodeI32LtS    Opcode = 0x48
	OpcodeI32Add    Opcode = 0x6A
	OpcodeI32Sub    Opcode = 0x6B
)

func (op Opcode) String() string {
	switch op {
	case OpcodeIf:
		return "if"
	case OpcodeEnd:
		return "end"
	case OpcodeReturn:
		return "return"
	case OpcodeCall:
		return "call"
	case OpcodeLocalGet:
		return "local.get"
	case OpcodeLocalSet:
		return "local.set"
	case OpcodeI32Store:
		return "i32.store"
	case OpcodeI32Const:
		return "i32.const"
	case OpcodeI32LtS:
		return "i32.lt_s"
	case OpcodeI32Add:
		return "i32.add"
	case OpcodeI32Sub:
		return "i32.sub"
	default:
		return fmt.Sprintf("opcode(%#x)", byte(op))
	}
}

// BlockType is the immediate of If: either void or a single result type.
type BlockType struct {
	Void   bool
	Result ValueType
}

// Arity is the number of values the block produces: 0 for void, 1 otherwise.
func (b BlockType) Arity() int {
	if b.Void {
		return 0
	}
	return 1
}

// Instruction is a decoded opcode plus whatever immediates it carries. Only
// the fields relevant to Opcode are populated; this is a tagged variant
// represented as one struct (rather than an interface per opcode) because
// the set of opcodes is small and fixed, and dispatch lives in one place
// (the interpreter's step loop), not scattered across per-case types.
type Instruction struct {
	Opcode Opcode

	// BlockType is populated for If.
	BlockType BlockType

	// Index is populated for LocalGet, LocalSet, and Call.
	Index Index

	// I32Const is populated for I32Const.
	I32Const int32

	// Align and Offset are populated for I32Store.
	Align  Index
	Offset Index
}
