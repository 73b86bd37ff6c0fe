// Package tinywasm is the public embedding surface: decode a Wasm binary,
// build its store, and obtain a Runtime ready to receive imports and calls
// (spec.md §6).
package tinywasm

import (
	"io"

	"github.com/tinywasm/tinywasm/binary"
	"github.com/tinywasm/tinywasm/interpreter"
	"github.com/tinywasm/tinywasm/wasi_snapshot_preview1"
	"github.com/tinywasm/tinywasm/wasm"
)

// Runtime re-exports interpreter.Runtime so callers of this package never
// need to import the interpreter package directly.
type Runtime = interpreter.Runtime

// HostFunc re-exports interpreter.HostFunc for the same reason.
type HostFunc = interpreter.HostFunc

// Option configures Instantiate.
type Option func(*Runtime)

// WithWASI attaches a wasi_snapshot_preview1 handler whose stdout/stderr
// are wired to the given writers (spec.md §6's "instantiate(wasm_bytes,
// wasi)").
func WithWASI(stdout, stderr io.Writer) Option {
	return func(r *Runtime) {
		r.WASI = wasi_snapshot_preview1.NewHandler(stdout, stderr)
	}
}

// Instantiate decodes wasmBytes, builds its Store, and returns a Runtime
// with an empty import table, applying any Options (e.g. WithWASI).
func Instantiate(wasmBytes []byte, opts ...Option) (*Runtime, error) {
	m, err := binary.DecodeModule(wasmBytes)
	if err != nil {
		return nil, err
	}

	s, err := wasm.NewStore(m)
	if err != nil {
		return nil, err
	}

	r := interpreter.NewRuntime(s)
	for _, opt := range opts {
		opt(r)
	}
	return r, nil
}
