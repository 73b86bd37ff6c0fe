package wasm

import (
	"errors"
	"fmt"
)

// Decode errors: malformed binary input. Fatal to instantiation.
var (
	ErrInvalidMagic     = errors.New("wasm: invalid magic number")
	ErrInvalidVersion   = errors.New("wasm: invalid version header")
	ErrInvalidSectionID = errors.New("wasm: invalid section id")
	ErrInvalidOpcode    = errors.New("wasm: invalid opcode")
	ErrInvalidByte      = errors.New("wasm: invalid byte")
	ErrTruncated        = errors.New("wasm: truncated input")
)

// Instantiation errors.
var ErrDataSegmentOutOfBounds = errors.New("wasm: data is too large to fit in memory")

// Lookup errors, returned from Runtime.Call.
var (
	ErrExportNotFound   = errors.New("wasm: not found export function")
	ErrModuleNotFound   = errors.New("wasm: not found module")
	ErrFunctionNotFound = errors.New("wasm: not found function")
)

// Execution errors. All fatal: they indicate a malformed or unvalidated
// module, which this engine does not attempt to recover from mid-call.
var (
	ErrTypeMismatch       = errors.New("wasm: type mismatch")
	ErrStackUnderflow     = errors.New("wasm: stack underflow")
	ErrOutOfBoundsMemory  = errors.New("wasm: out of bounds memory access")
	ErrCallStackUnderflow = errors.New("wasm: call stack underflow")
)

// Wrapf attaches positional context to a sentinel error without losing its
// identity for errors.Is. Exported so decoder and interpreter packages can
// report errors against the same sentinels as the wasm package itself.
func Wrapf(sentinel error, format string, args ...interface{}) error {
	return fmt.Errorf("%w: "+format, append([]interface{}{sentinel}, args...)...)
}

// wrapf is the in-package alias used throughout this package's own files.
func wrapf(sentinel error, format string, args ...interface{}) error {
	return Wrapf(sentinel, format, args...)
}
