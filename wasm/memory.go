package wasm

import "encoding/binary"

// ValidateAddrRange reports whether a [addr, addr+rangeSize) byte window
// lies entirely inside the memory, matching wazero's MemoryInstance
// convention of checking range validity before every access. addr at or
// past the memory size is always invalid, even for a zero-length range.
func (m *MemoryInst) ValidateAddrRange(addr uint32, rangeSize uint64) bool {
	size := uint64(len(m.Data))
	if uint64(addr) >= size {
		return false
	}
	return rangeSize <= size-uint64(addr)
}

// GetUint32 reads a little-endian uint32 at addr, or returns false if the
// read would go out of bounds.
func (m *MemoryInst) GetUint32(addr uint32) (uint32, bool) {
	if !m.ValidateAddrRange(addr, 4) {
		return 0, false
	}
	return binary.LittleEndian.Uint32(m.Data[addr : addr+4]), true
}

// PutUint32 writes v as little-endian bytes at addr, or returns false if the
// write would go out of bounds.
func (m *MemoryInst) PutUint32(addr uint32, v uint32) bool {
	if !m.ValidateAddrRange(addr, 4) {
		return false
	}
	binary.LittleEndian.PutUint32(m.Data[addr:addr+4], v)
	return true
}

// Read returns a view of byteCount bytes starting at addr, or false if out
// of range. Like wazero's api.Memory.Read, this is a write-through view:
// mutating the returned slice mutates the memory.
func (m *MemoryInst) Read(addr, byteCount uint32) ([]byte, bool) {
	if !m.ValidateAddrRange(addr, uint64(byteCount)) {
		return nil, false
	}
	return m.Data[addr : addr+byteCount], true
}

// Write copies v into memory starting at addr, or returns false if out of
// range.
func (m *MemoryInst) Write(addr uint32, v []byte) bool {
	if !m.ValidateAddrRange(addr, uint64(len(v))) {
		return false
	}
	copy(m.Data[addr:], v)
	return true
}
