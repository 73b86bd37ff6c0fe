package binary

import (
	"bytes"
	"io"

	"github.com/tinywasm/tinywasm/leb128"
	"github.com/tinywasm/tinywasm/wasm"
)

// decodeLocals expands the run-length (count, type) pairs a function body
// uses to declare its locals into a flat []ValueType.
func decodeLocals(r io.ByteReader) ([]wasm.ValueType, error) {
	numEntries, _, err := leb128.DecodeUint32(r)
	if err != nil {
		return nil, wasm.Wrapf(wasm.ErrInvalidByte, "local entry count: %v", err)
	}
	var locals []wasm.ValueType
	for i := uint32(0); i < numEntries; i++ {
		count, _, err := leb128.DecodeUint32(r)
		if err != nil {
			return nil, wasm.Wrapf(wasm.ErrInvalidByte, "local entry[%d] count: %v", i, err)
		}
		vt, err := readValueType(r)
		if err != nil {
			return nil, wasm.Wrapf(wasm.ErrInvalidByte, "local entry[%d] type: %v", i, err)
		}
		for j := uint32(0); j < count; j++ {
			locals = append(locals, vt)
		}
	}
	return locals, nil
}

func decodeFunctionBody(body []byte) (*wasm.Code, error) {
	r := bytes.NewReader(body)
	locals, err := decodeLocals(r)
	if err != nil {
		return nil, err
	}
	insts, err := decodeInstructions(r)
	if err != nil {
		return nil, err
	}
	return &wasm.Code{Locals: locals, Body: insts}, nil
}

func decodeCodeSection(r io.ByteReader) ([]*wasm.Code, error) {
	count, _, err := leb128.DecodeUint32(r)
	if err != nil {
		return nil, wasm.Wrapf(wasm.ErrInvalidByte, "code section count: %v", err)
	}
	out := make([]*wasm.Code, count)
	for i := range out {
		size, _, err := leb128.DecodeUint32(r)
		if err != nil {
			return nil, wasm.Wrapf(wasm.ErrInvalidByte, "code[%d] size: %v", i, err)
		}
		body := make([]byte, size)
		for j := range body {
			if body[j], err = r.ReadByte(); err != nil {
				return nil, wasm.Wrapf(wasm.ErrInvalidByte, "code[%d] byte %d: %v", i, j, err)
			}
		}
		if out[i], err = decodeFunctionBody(body); err != nil {
			return nil, wasm.Wrapf(wasm.ErrInvalidByte, "code[%d]: %v", i, err)
		}
	}
	return out, nil
}

// decodeConstExpr reads a data segment's offset expression: an i32.const
// immediate followed by End (spec.md §2's constant-expression subset — no
// global.get or other constant-expression opcode is supported).
func decodeConstExpr(r io.ByteReader) (int32, error) {
	op, err := r.ReadByte()
	if err != nil {
		return 0, wasm.Wrapf(wasm.ErrInvalidByte, "const expr opcode: %v", err)
	}
	if wasm.Opcode(op) != wasm.OpcodeI32Const {
		return 0, wasm.Wrapf(wasm.ErrInvalidOpcode, "const expr: expected i32.const, got %#x", op)
	}
	v, _, err := leb128.DecodeInt32(r)
	if err != nil {
		return 0, wasm.Wrapf(wasm.ErrInvalidByte, "const expr value: %v", err)
	}
	end, err := r.ReadByte()
	if err != nil {
		return 0, wasm.Wrapf(wasm.ErrInvalidByte, "const expr end: %v", err)
	}
	if wasm.Opcode(end) != wasm.OpcodeEnd {
		return 0, wasm.Wrapf(wasm.ErrInvalidOpcode, "const expr: expected end, got %#x", end)
	}
	return v, nil
}

func decodeDataSection(r io.ByteReader) ([]*wasm.DataSegment, error) {
	count, _, err := leb128.DecodeUint32(r)
	if err != nil {
		return nil, wasm.Wrapf(wasm.ErrInvalidByte, "data section count: %v", err)
	}
	out := make([]*wasm.DataSegment, count)
	for i := range out {
		memIdx, _, err := leb128.DecodeUint32(r)
		if err != nil {
			return nil, wasm.Wrapf(wasm.ErrInvalidByte, "data[%d] memory index: %v", i, err)
		}
		offset, err := decodeConstExpr(r)
		if err != nil {
			return nil, wasm.Wrapf(wasm.ErrInvalidByte, "data[%d] offset: %v", i, err)
		}
		size, _, err := leb128.DecodeUint32(r)
		if err != nil {
			return nil, wasm.Wrapf(wasm.ErrInvalidByte, "data[%d] size: %v", i, err)
		}
		init := make([]byte, size)
		for j := range init {
			if init[j], err = r.ReadByte(); err != nil {
				return nil, wasm.Wrapf(wasm.ErrInvalidByte, "data[%d] byte %d: %v", i, j, err)
			}
		}
		out[i] = &wasm.DataSegment{MemoryIndex: memIdx, Offset: offset, Init: init}
	}
	return out, nil
}
