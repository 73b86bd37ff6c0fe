package binary

import (
	"io"

	"github.com/tinywasm/tinywasm/leb128"
	"github.com/tinywasm/tinywasm/wasm"
)

// decodeBlockType reads an If instruction's block type immediate: either
// 0x40 (void) or a single value type (spec.md §2's block type encoding).
func decodeBlockType(r io.ByteReader) (wasm.BlockType, error) {
	b, err := r.ReadByte()
	if err != nil {
		return wasm.BlockType{}, wasm.Wrapf(wasm.ErrInvalidByte, "block type: %v", err)
	}
	const blockTypeVoid = 0x40
	if b == blockTypeVoid {
		return wasm.BlockType{Void: true}, nil
	}
	switch wasm.ValueType(b) {
	case wasm.ValueTypeI32, wasm.ValueTypeI64:
		return wasm.BlockType{Result: wasm.ValueType(b)}, nil
	default:
		return wasm.BlockType{}, wasm.Wrapf(wasm.ErrInvalidByte, "block type %#x", b)
	}
}

// decodeInstructions decodes a function body's instruction sequence up to
// and including its terminating End (spec.md §2/§9). The returned slice's
// last element is always an End.
func decodeInstructions(r io.ByteReader) ([]wasm.Instruction, error) {
	var out []wasm.Instruction
	depth := 0 // nesting of still-open If blocks; 0 means "function body level"
	for {
		op, err := r.ReadByte()
		if err != nil {
			return nil, wasm.Wrapf(wasm.ErrInvalidByte, "opcode: %v", err)
		}

		inst := wasm.Instruction{Opcode: wasm.Opcode(op)}
		switch wasm.Opcode(op) {
		case wasm.OpcodeIf:
			bt, err := decodeBlockType(r)
			if err != nil {
				return nil, err
			}
			inst.BlockType = bt
			depth++
		case wasm.OpcodeReturn:
			// no immediates
		case wasm.OpcodeEnd:
			// no immediates; handled below
		case wasm.OpcodeCall, wasm.OpcodeLocalGet, wasm.OpcodeLocalSet:
			idx, _, err := leb128.DecodeUint32(r)
			if err != nil {
				return nil, wasm.Wrapf(wasm.ErrInvalidByte, "%s index: %v", wasm.Opcode(op), err)
			}
			inst.Index = idx
		case wasm.OpcodeI32Const:
			v, _, err := leb128.DecodeInt32(r)
			if err != nil {
				return nil, wasm.Wrapf(wasm.ErrInvalidByte, "i32.const: %v", err)
			}
			inst.I32Const = v
		case wasm.OpcodeI32Store:
			align, _, err := leb128.DecodeUint32(r)
			if err != nil {
				return nil, wasm.Wrapf(wasm.ErrInvalidByte, "i32.store align: %v", err)
			}
			offset, _, err := leb128.DecodeUint32(r)
			if err != nil {
				return nil, wasm.Wrapf(wasm.ErrInvalidByte, "i32.store offset: %v", err)
			}
			inst.Align, inst.Offset = align, offset
		case wasm.OpcodeI32LtS, wasm.OpcodeI32Add, wasm.OpcodeI32Sub:
			// no immediates
		default:
			return nil, wasm.Wrapf(wasm.ErrInvalidOpcode, "%#x", op)
		}

		out = append(out, inst)

		if wasm.Opcode(op) == wasm.OpcodeEnd {
			if depth == 0 {
				break // closes the function body itself
			}
			depth--
		}
	}
	return out, nil
}
