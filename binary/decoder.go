// Package binary decodes the Wasm binary format (spec.md §2) into the
// structures defined by package wasm.
package binary

import (
	"bytes"
	"io"

	"github.com/tinywasm/tinywasm/leb128"
	"github.com/tinywasm/tinywasm/wasm"
)

var magic = []byte{0x00, 0x61, 0x73, 0x6d} // "\0asm"
var version = []byte{0x01, 0x00, 0x00, 0x00}

// Section IDs, per spec.md §2's section table.
const (
	SectionIDCustom   = 0
	SectionIDType     = 1
	SectionIDImport   = 2
	SectionIDFunction = 3
	SectionIDMemory   = 5
	SectionIDExport   = 7
	SectionIDCode     = 10
	SectionIDData     = 11
)

// DecodeModule parses a complete Wasm binary into a *wasm.Module. Sections
// may appear at most once and, where order matters for index-space
// resolution (Function before Code), are assumed to already be in file
// order: this decoder does not reorder or defer section processing.
func DecodeModule(bin []byte) (*wasm.Module, error) {
	r := bytes.NewReader(bin)

	buf := make([]byte, 4)
	if _, err := io.ReadFull(r, buf); err != nil || !bytes.Equal(buf, magic) {
		return nil, wasm.ErrInvalidMagic
	}
	if _, err := io.ReadFull(r, buf); err != nil || !bytes.Equal(buf, version) {
		return nil, wasm.ErrInvalidVersion
	}

	m := &wasm.Module{}
	for {
		id, err := r.ReadByte()
		if err == io.EOF {
			break
		}
		if err != nil {
			return nil, wasm.Wrapf(wasm.ErrInvalidByte, "reading section id: %v", err)
		}

		size, _, err := leb128.DecodeUint32(r)
		if err != nil {
			return nil, wasm.Wrapf(wasm.ErrInvalidByte, "section %d: size: %v", id, err)
		}

		body := make([]byte, size)
		if _, err := io.ReadFull(r, body); err != nil {
			return nil, wasm.Wrapf(wasm.ErrInvalidByte, "section %d: reading %d bytes: %v", id, size, err)
		}
		sr := bytes.NewReader(body)

		switch id {
		case SectionIDCustom:
			// Custom sections (e.g. name/debug info) carry no semantics this
			// subset executes; skip the body outright (spec.md §2).
		case SectionIDType:
			m.TypeSection, err = decodeTypeSection(sr)
		case SectionIDImport:
			m.ImportSection, err = decodeImportSection(sr)
		case SectionIDFunction:
			m.FunctionSection, err = decodeFunctionSection(sr)
		case SectionIDMemory:
			m.MemorySection, err = decodeMemorySection(sr)
		case SectionIDExport:
			m.ExportSection, err = decodeExportSection(sr)
		case SectionIDCode:
			m.CodeSection, err = decodeCodeSection(sr)
		case SectionIDData:
			m.DataSection, err = decodeDataSection(sr)
		default:
			err = wasm.Wrapf(wasm.ErrInvalidByte, "unknown section id %d", id)
		}
		if err != nil {
			return nil, err
		}
	}

	return m, nil
}
