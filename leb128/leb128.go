// Package leb128 decodes the variable-length integer encoding used
// throughout the WebAssembly binary format: one continuation bit per byte,
// seven payload bits, least-significant group first.
package leb128

import (
	"errors"
	"fmt"
	"io"
)

// ErrOverflow is returned when an encoded integer would need more bits than
// the target type holds.
var ErrOverflow = errors.New("leb128: integer overflows target width")

// DecodeUint32 reads an unsigned LEB128 integer from r, returning the value
// and the number of bytes consumed.
func DecodeUint32(r io.ByteReader) (uint32, uint64, error) {
	var result uint32
	var shift uint
	var read uint64
	for {
		b, err := r.ReadByte()
		if err != nil {
			return 0, 0, fmt.Errorf("leb128: reading byte %d: %w", read, err)
		}
		read++

		if shift >= 32 {
			return 0, 0, ErrOverflow
		}

		result |= uint32(b&0x7f) << shift
		if b&0x80 == 0 {
			return result, read, nil
		}
		shift += 7
	}
}

// DecodeInt32 reads a signed LEB128 integer from r, returning the value and
// the number of bytes consumed.
func DecodeInt32(r io.ByteReader) (int32, uint64, error) {
	var result int32
	var shift uint
	var read uint64
	for {
		b, err := r.ReadByte()
		if err != nil {
			return 0, 0, fmt.Errorf("leb128: reading byte %d: %w", read, err)
		}
		read++

		if shift >= 32 {
			return 0, 0, ErrOverflow
		}

		result |= int32(b&0x7f) << shift
		shift += 7
		if b&0x80 == 0 {
			if shift < 32 && b&0x40 != 0 {
				result |= -1 << shift
			}
			return result, read, nil
		}
	}
}
