package wasm

import (
	"bytes"
	"fmt"

	"github.com/tetratelabs/wazero/api"

	"github.com/wippyai/jtalk"
)

// Memory adapts wazero linear memory to jtalk.Memory.
type Memory struct {
	Mem api.Memory
}

// WrapMemory wraps a wazero api.Memory. It returns nil for nil.
func WrapMemory(mem api.Memory) *Memory {
	if mem == nil {
		return nil
	}
	return &Memory{Mem: mem}
}

var _ jtalk.Memory = (*Memory)(nil)

func offset(p jtalk.Ptr) (uint32, error) {
	if p > 0xFFFFFFFF {
		return 0, fmt.Errorf("pointer %#x outside 32-bit address space", uint64(p))
	}
	return uint32(p), nil
}

// Read returns a copy of length bytes at p.
func (m *Memory) Read(p jtalk.Ptr, length uint32) ([]byte, error) {
	off, err := offset(p)
	if err != nil {
		return nil, err
	}
	data, ok := m.Mem.Read(off, length)
	if !ok {
		return nil, fmt.Errorf("memory read out of bounds: offset=%d, length=%d", off, length)
	}
	return bytes.Clone(data), nil
}

// Write writes data at p.
func (m *Memory) Write(p jtalk.Ptr, data []byte) error {
	off, err := offset(p)
	if err != nil {
		return err
	}
	if !m.Mem.Write(off, data) {
		return fmt.Errorf("memory write out of bounds: offset=%d, length=%d", off, len(data))
	}
	return nil
}

// ReadU32 reads an unsigned 32-bit little-endian value.
func (m *Memory) ReadU32(p jtalk.Ptr) (uint32, error) {
	off, err := offset(p)
	if err != nil {
		return 0, err
	}
	v, ok := m.Mem.ReadUint32Le(off)
	if !ok {
		return 0, fmt.Errorf("memory read out of bounds: offset=%d", off)
	}
	return v, nil
}

// ReadU64 reads an unsigned 64-bit little-endian value.
func (m *Memory) ReadU64(p jtalk.Ptr) (uint64, error) {
	off, err := offset(p)
	if err != nil {
		return 0, err
	}
	v, ok := m.Mem.ReadUint64Le(off)
	if !ok {
		return 0, fmt.Errorf("memory read out of bounds: offset=%d", off)
	}
	return v, nil
}

// WriteU32 writes an unsigned 32-bit little-endian value.
func (m *Memory) WriteU32(p jtalk.Ptr, value uint32) error {
	off, err := offset(p)
	if err != nil {
		return err
	}
	if !m.Mem.WriteUint32Le(off, value) {
		return fmt.Errorf("memory write out of bounds: offset=%d", off)
	}
	return nil
}

// WriteU64 writes an unsigned 64-bit little-endian value.
func (m *Memory) WriteU64(p jtalk.Ptr, value uint64) error {
	off, err := offset(p)
	if err != nil {
		return err
	}
	if !m.Mem.WriteUint64Le(off, value) {
		return fmt.Errorf("memory write out of bounds: offset=%d", off)
	}
	return nil
}

// ReadCString returns a copy of the bytes at p up to the first NUL.
func (m *Memory) ReadCString(p jtalk.Ptr) ([]byte, error) {
	off, err := offset(p)
	if err != nil {
		return nil, err
	}
	size := m.Mem.Size()
	if off >= size {
		return nil, fmt.Errorf("memory read out of bounds: offset=%d", off)
	}
	data, _ := m.Mem.Read(off, size-off)
	n := bytes.IndexByte(data, 0)
	if n < 0 {
		return nil, fmt.Errorf("unterminated string at offset=%d", off)
	}
	return bytes.Clone(data[:n]), nil
}
