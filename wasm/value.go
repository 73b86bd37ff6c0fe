package wasm

import "fmt"

// Value is the tagged union every operand-stack slot and local carries:
// either an I32 or an I64. There is deliberately no per-type stack: a single
// growable stack of Value keeps unwinding arithmetic (sp/arity bookkeeping)
// independent of operand type.
type Value struct {
	Type ValueType
	i32  int32
	i64  int64
}

// I32 constructs an I32-typed Value.
func I32(v int32) Value { return Value{Type: ValueTypeI32, i32: v} }

// I64 constructs an I64-typed Value.
func I64(v int64) Value { return Value{Type: ValueTypeI64, i64: v} }

// ToI32 returns the value as an int32, or an error if it isn't one.
func (v Value) ToI32() (int32, error) {
	if v.Type != ValueTypeI32 {
		return 0, fmt.Errorf("%w: wanted i32, got %s", ErrTypeMismatch, v.Type)
	}
	return v.i32, nil
}

// ToI64 returns the value as an int64, or an error if it isn't one.
func (v Value) ToI64() (int64, error) {
	if v.Type != ValueTypeI64 {
		return 0, fmt.Errorf("%w: wanted i64, got %s", ErrTypeMismatch, v.Type)
	}
	return v.i64, nil
}

// ZeroValue returns the default value for t, used to initialize declared
// locals that weren't supplied as call arguments.
func ZeroValue(t ValueType) Value {
	switch t {
	case ValueTypeI64:
		return I64(0)
	default:
		return I32(0)
	}
}

func (v Value) String() string {
	switch v.Type {
	case ValueTypeI64:
		return fmt.Sprintf("i64:%d", v.i64)
	default:
		return fmt.Sprintf("i32:%d", v.i32)
	}
}
