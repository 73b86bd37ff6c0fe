package binary

import (
	"io"

	"github.com/tinywasm/tinywasm/leb128"
	"github.com/tinywasm/tinywasm/wasm"
)

func readValueType(r io.ByteReader) (wasm.ValueType, error) {
	b, err := r.ReadByte()
	if err != nil {
		return 0, wasm.Wrapf(wasm.ErrInvalidByte, "value type: %v", err)
	}
	switch wasm.ValueType(b) {
	case wasm.ValueTypeI32, wasm.ValueTypeI64:
		return wasm.ValueType(b), nil
	default:
		return 0, wasm.Wrapf(wasm.ErrInvalidByte, "unsupported value type %#x", b)
	}
}

func readName(r io.ByteReader) (string, error) {
	n, _, err := leb128.DecodeUint32(r)
	if err != nil {
		return "", wasm.Wrapf(wasm.ErrInvalidByte, "name length: %v", err)
	}
	buf := make([]byte, n)
	for i := range buf {
		b, err := r.ReadByte()
		if err != nil {
			return "", wasm.Wrapf(wasm.ErrInvalidByte, "name byte %d: %v", i, err)
		}
		buf[i] = b
	}
	return string(buf), nil
}

func decodeFuncType(r io.ByteReader) (*wasm.FuncType, error) {
	form, err := r.ReadByte()
	if err != nil {
		return nil, wasm.Wrapf(wasm.ErrInvalidByte, "func type form: %v", err)
	}
	const funcTypeForm = 0x60
	if form != funcTypeForm {
		return nil, wasm.Wrapf(wasm.ErrInvalidByte, "func type form %#x, expected %#x", form, funcTypeForm)
	}

	numParams, _, err := leb128.DecodeUint32(r)
	if err != nil {
		return nil, wasm.Wrapf(wasm.ErrInvalidByte, "param count: %v", err)
	}
	params := make([]wasm.ValueType, numParams)
	for i := range params {
		if params[i], err = readValueType(r); err != nil {
			return nil, wasm.Wrapf(wasm.ErrInvalidByte, "param[%d]: %v", i, err)
		}
	}

	numResults, _, err := leb128.DecodeUint32(r)
	if err != nil {
		return nil, wasm.Wrapf(wasm.ErrInvalidByte, "result count: %v", err)
	}
	results := make([]wasm.ValueType, numResults)
	for i := range results {
		if results[i], err = readValueType(r); err != nil {
			return nil, wasm.Wrapf(wasm.ErrInvalidByte, "result[%d]: %v", i, err)
		}
	}

	return &wasm.FuncType{Params: params, Results: results}, nil
}

func decodeTypeSection(r io.ByteReader) ([]*wasm.FuncType, error) {
	count, _, err := leb128.DecodeUint32(r)
	if err != nil {
		return nil, wasm.Wrapf(wasm.ErrInvalidByte, "type section count: %v", err)
	}
	out := make([]*wasm.FuncType, count)
	for i := range out {
		if out[i], err = decodeFuncType(r); err != nil {
			return nil, wasm.Wrapf(wasm.ErrInvalidByte, "type[%d]: %v", i, err)
		}
	}
	return out, nil
}

func decodeImportSection(r io.ByteReader) ([]*wasm.Import, error) {
	count, _, err := leb128.DecodeUint32(r)
	if err != nil {
		return nil, wasm.Wrapf(wasm.ErrInvalidByte, "import section count: %v", err)
	}
	out := make([]*wasm.Import, count)
	for i := range out {
		moduleName, err := readName(r)
		if err != nil {
			return nil, wasm.Wrapf(wasm.ErrInvalidByte, "import[%d] module name: %v", i, err)
		}
		fieldName, err := readName(r)
		if err != nil {
			return nil, wasm.Wrapf(wasm.ErrInvalidByte, "import[%d] field name: %v", i, err)
		}
		kind, err := r.ReadByte()
		if err != nil {
			return nil, wasm.Wrapf(wasm.ErrInvalidByte, "import[%d] kind: %v", i, err)
		}
		if kind != wasm.ExternKindFunc {
			return nil, wasm.Wrapf(wasm.ErrInvalidByte, "import[%d]: unsupported kind %#x", i, kind)
		}
		typeIdx, _, err := leb128.DecodeUint32(r)
		if err != nil {
			return nil, wasm.Wrapf(wasm.ErrInvalidByte, "import[%d] type index: %v", i, err)
		}
		out[i] = &wasm.Import{ModuleName: moduleName, FieldName: fieldName, Kind: kind, TypeIndex: typeIdx}
	}
	return out, nil
}

func decodeFunctionSection(r io.ByteReader) ([]wasm.Index, error) {
	count, _, err := leb128.DecodeUint32(r)
	if err != nil {
		return nil, wasm.Wrapf(wasm.ErrInvalidByte, "function section count: %v", err)
	}
	out := make([]wasm.Index, count)
	for i := range out {
		if out[i], _, err = leb128.DecodeUint32(r); err != nil {
			return nil, wasm.Wrapf(wasm.ErrInvalidByte, "function[%d] type index: %v", i, err)
		}
	}
	return out, nil
}

// decodeLimits decodes a Wasm "limits" structure: a flags byte (0 = min only, 1 =
// min and max), then the min and optionally max page counts.
func decodeLimits(r io.ByteReader) (min wasm.Index, max *wasm.Index, err error) {
	flags, err := r.ReadByte()
	if err != nil {
		return 0, nil, wasm.Wrapf(wasm.ErrInvalidByte, "limits flags: %v", err)
	}
	if min, _, err = leb128.DecodeUint32(r); err != nil {
		return 0, nil, wasm.Wrapf(wasm.ErrInvalidByte, "limits min: %v", err)
	}
	if flags == 1 {
		m, _, err := leb128.DecodeUint32(r)
		if err != nil {
			return 0, nil, wasm.Wrapf(wasm.ErrInvalidByte, "limits max: %v", err)
		}
		max = &m
	} else if flags != 0 {
		return 0, nil, wasm.Wrapf(wasm.ErrInvalidByte, "limits flags %#x", flags)
	}
	return min, max, nil
}

func decodeMemorySection(r io.ByteReader) ([]*wasm.MemoryType, error) {
	count, _, err := leb128.DecodeUint32(r)
	if err != nil {
		return nil, wasm.Wrapf(wasm.ErrInvalidByte, "memory section count: %v", err)
	}
	out := make([]*wasm.MemoryType, count)
	for i := range out {
		min, max, err := decodeLimits(r)
		if err != nil {
			return nil, wasm.Wrapf(wasm.ErrInvalidByte, "memory[%d]: %v", i, err)
		}
		out[i] = &wasm.MemoryType{Min: min, Max: max}
	}
	return out, nil
}

func decodeExportSection(r io.ByteReader) ([]*wasm.Export, error) {
	count, _, err := leb128.DecodeUint32(r)
	if err != nil {
		return nil, wasm.Wrapf(wasm.ErrInvalidByte, "export section count: %v", err)
	}
	out := make([]*wasm.Export, count)
	for i := range out {
		name, err := readName(r)
		if err != nil {
			return nil, wasm.Wrapf(wasm.ErrInvalidByte, "export[%d] name: %v", i, err)
		}
		kind, err := r.ReadByte()
		if err != nil {
			return nil, wasm.Wrapf(wasm.ErrInvalidByte, "export[%d] kind: %v", i, err)
		}
		if kind != wasm.ExternKindFunc {
			return nil, wasm.Wrapf(wasm.ErrInvalidByte, "export[%d] %q: unsupported kind %#x", i, name, kind)
		}
		idx, _, err := leb128.DecodeUint32(r)
		if err != nil {
			return nil, wasm.Wrapf(wasm.ErrInvalidByte, "export[%d] index: %v", i, err)
		}
		out[i] = &wasm.Export{Name: name, Kind: kind, Index: idx}
	}
	return out, nil
}
