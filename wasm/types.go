package wasm

import "fmt"

// ValueType is the type of a local, parameter, or result in this subset of
// the Wasm MVP type system.
//
// See https://www.w3.org/TR/2019/REC-wasm-core-1-20191205/#binary-valtype
type ValueType byte

const (
	ValueTypeI32 ValueType = 0x7f
	ValueTypeI64 ValueType = 0x7e
)

// String returns the Wasm text format name of t, matching wazero's
// ValueTypeName convention.
func (t ValueType) String() string {
	switch t {
	case ValueTypeI32:
		return "i32"
	case ValueTypeI64:
		return "i64"
	default:
		return fmt.Sprintf("valueType(%#x)", byte(t))
	}
}

// FuncType is a function signature: an ordered list of parameter types and
// an ordered list of result types.
type FuncType struct {
	Params  []ValueType
	Results []ValueType
}

func (t *FuncType) String() string {
	return fmt.Sprintf("%v -> %v", t.Params, t.Results)
}

// hasSameSignature reports whether a and b name the same ordered types. It
// backs FuncType.Equal.
func hasSameSignature(a, b []ValueType) bool {
	if len(a) != len(b) {
		return false
	}
	for i, v := range a {
		if v != b[i] {
			return false
		}
	}
	return true
}

// Equal reports whether two function types have identical parameter and
// result lists.
func (t *FuncType) Equal(o *FuncType) bool {
	if t == nil || o == nil {
		return t == o
	}
	return hasSameSignature(t.Params, o.Params) && hasSameSignature(t.Results, o.Results)
}
