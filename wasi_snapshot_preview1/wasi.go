// Package wasi_snapshot_preview1 implements the slice of the WASI
// snapshot_preview1 ABI needed to run a "hello world" program: fd_write
// against a host-configured, index-addressed file table (spec.md §4.5).
package wasi_snapshot_preview1

import (
	"io"

	"github.com/tinywasm/tinywasm/wasm"
)

// Errno is a WASI result code. Only the subset this handler can actually
// return is named; unused codes from the full ABI are not declared.
type Errno uint32

const (
	ErrnoSuccess Errno = 0
	ErrnoBadf    Errno = 8
	ErrnoFault   Errno = 21
	ErrnoIo      Errno = 29
)

// ModuleName is the import module name a WASI-backed function is declared
// under in a Wasm module ("env.fd_write" style imports don't apply here;
// WASI imports are always under this module name).
const ModuleName = "wasi_snapshot_preview1"

// Handler dispatches WASI snapshot_preview1 calls against an indexed file
// table. By convention fd 0/1/2 are stdin/stdout/stderr.
type Handler struct {
	Files []io.Writer
}

// NewHandler builds a Handler whose fd 0/1/2 are stdin (discarded, as this
// subset never reads), stdout, and stderr.
func NewHandler(stdout, stderr io.Writer) *Handler {
	return &Handler{Files: []io.Writer{io.Discard, stdout, stderr}}
}

// Invoke dispatches a single WASI call by field name, per spec.md §4.5.
// Unknown function names are fatal in this subset.
func (h *Handler) Invoke(s *wasm.Store, fieldName string, args []wasm.Value) (*wasm.Value, error) {
	switch fieldName {
	case "fd_write":
		return h.fdWrite(s, args)
	default:
		return nil, wasm.Wrapf(wasm.ErrFunctionNotFound, "wasi_snapshot_preview1.%s", fieldName)
	}
}

// fdWrite implements wasi_snapshot_preview1::fd_write(fd, iovs, iovs_len,
// rp) -> errno. args are the four I32 arguments in order; the result is
// the errno, packed as an I32.
func (h *Handler) fdWrite(s *wasm.Store, args []wasm.Value) (*wasm.Value, error) {
	fd, iovs, iovsLen, rp, err := unpackFdWriteArgs(args)
	if err != nil {
		return nil, err
	}

	if int(fd) >= len(h.Files) || fd < 0 {
		return errnoResult(ErrnoBadf), nil
	}
	w := h.Files[fd]

	mem := s.Memory()
	var nwritten uint32
	cursor := uint32(iovs)
	for i := uint32(0); i < uint32(iovsLen); i++ {
		start, ok := mem.GetUint32(cursor)
		if !ok {
			return errnoResult(ErrnoFault), nil
		}
		length, ok := mem.GetUint32(cursor + 4)
		if !ok {
			return errnoResult(ErrnoFault), nil
		}
		cursor += 8

		b, ok := mem.Read(start, length)
		if !ok {
			return errnoResult(ErrnoFault), nil
		}
		n, err := w.Write(b)
		if err != nil {
			return errnoResult(ErrnoIo), nil
		}
		nwritten += uint32(n)
	}

	if !mem.PutUint32(uint32(rp), nwritten) {
		return errnoResult(ErrnoFault), nil
	}
	return errnoResult(ErrnoSuccess), nil
}

func unpackFdWriteArgs(args []wasm.Value) (fd, iovs, iovsLen, rp int32, err error) {
	if len(args) != 4 {
		return 0, 0, 0, 0, wasm.Wrapf(wasm.ErrTypeMismatch, "fd_write: expected 4 args, got %d", len(args))
	}
	vals := make([]int32, 4)
	for i, a := range args {
		if vals[i], err = a.ToI32(); err != nil {
			return 0, 0, 0, 0, err
		}
	}
	return vals[0], vals[1], vals[2], vals[3], nil
}

func errnoResult(e Errno) *wasm.Value {
	v := wasm.I32(int32(e))
	return &v
}
