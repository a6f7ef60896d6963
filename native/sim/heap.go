package sim

import (
	"bytes"
	"encoding/binary"
	"fmt"
	"sync"

	"github.com/wippyai/jtalk"
	"github.com/wippyai/jtalk/errors"
)

const (
	heapAlign = 8
	heapBase  = 16 // first usable address; everything below stays unmapped
)

type span struct {
	ptr  uint32
	size uint32
}

// block is a live allocation: size bytes are addressable, span bytes are
// reserved.
type block struct {
	size uint32
	span uint32
}

// Heap is a checked malloc/free heap over a growable byte arena.
// Every access must fall inside a live block, so use-after-free and
// out-of-bounds access in the bindings surface as errors instead of
// silently corrupting memory. Double free and freeing an unknown pointer
// panic.
type Heap struct {
	mem      []byte
	live     []bool
	blocks   map[uint32]block
	freeList []span
	allocs   uint64
	frees    uint64
	limit    uint32
	mu       sync.Mutex
}

// NewHeap creates a heap that refuses to grow beyond limit bytes
// (0 means 64 MiB).
func NewHeap(limit uint32) *Heap {
	if limit == 0 {
		limit = 64 << 20
	}
	return &Heap{
		mem:    make([]byte, heapBase, 4096),
		live:   make([]bool, heapBase, 4096),
		blocks: make(map[uint32]block),
		limit:  limit,
	}
}

func roundUp(n uint32) uint32 {
	if n == 0 {
		n = 1
	}
	return (n + heapAlign - 1) &^ (heapAlign - 1)
}

// Malloc allocates size bytes, first-fit from the free list.
func (h *Heap) Malloc(size uint32) (jtalk.Ptr, error) {
	h.mu.Lock()
	defer h.mu.Unlock()

	need := roundUp(size)
	for i, s := range h.freeList {
		if s.size < need {
			continue
		}
		if s.size == need {
			h.freeList = append(h.freeList[:i], h.freeList[i+1:]...)
		} else {
			h.freeList[i] = span{ptr: s.ptr + need, size: s.size - need}
		}
		h.claim(s.ptr, size, need)
		return jtalk.Ptr(s.ptr), nil
	}

	ptr := uint32(len(h.mem))
	if uint64(ptr)+uint64(need) > uint64(h.limit) {
		return 0, errors.AllocationFailed(errors.PhaseNative, size)
	}
	h.mem = append(h.mem, make([]byte, need)...)
	h.live = append(h.live, make([]bool, need)...)
	h.claim(ptr, size, need)
	return jtalk.Ptr(ptr), nil
}

// claim reserves reserved bytes at ptr but makes only the requested size
// addressable, so the alignment padding still faults.
func (h *Heap) claim(ptr, size, reserved uint32) {
	clear(h.mem[ptr : ptr+reserved])
	for i := ptr; i < ptr+size; i++ {
		h.live[i] = true
	}
	h.blocks[ptr] = block{size: size, span: reserved}
	h.allocs++
}

// Free releases a block. Free(0) is a no-op.
func (h *Heap) Free(p jtalk.Ptr) {
	if p == 0 {
		return
	}

	h.mu.Lock()
	defer h.mu.Unlock()

	ptr := uint32(p)
	blk, ok := h.blocks[ptr]
	if !ok || uint64(ptr) != uint64(p) {
		panic(fmt.Sprintf("sim: free of pointer %#x that is not a live allocation", uint64(p)))
	}
	delete(h.blocks, ptr)
	for i := ptr; i < ptr+blk.size; i++ {
		h.live[i] = false
	}
	h.freeList = append(h.freeList, span{ptr: ptr, size: blk.span})
	h.frees++
}

// Live returns the number of blocks allocated and not yet freed.
func (h *Heap) Live() int {
	h.mu.Lock()
	defer h.mu.Unlock()
	return len(h.blocks)
}

// Stats returns the total number of Malloc and Free calls.
func (h *Heap) Stats() (allocs, frees uint64) {
	h.mu.Lock()
	defer h.mu.Unlock()
	return h.allocs, h.frees
}

// IsLive reports whether p is the start of a live block.
func (h *Heap) IsLive(p jtalk.Ptr) bool {
	h.mu.Lock()
	defer h.mu.Unlock()
	_, ok := h.blocks[uint32(p)]
	return ok && uint64(uint32(p)) == uint64(p)
}

// check must be called with mu held.
func (h *Heap) check(p jtalk.Ptr, length uint32) ([]byte, error) {
	end := uint64(p) + uint64(length)
	if p == 0 || end > uint64(len(h.mem)) {
		return nil, errors.OutOfBounds(errors.PhaseNative, uint64(p), length)
	}
	for i := uint64(p); i < end; i++ {
		if !h.live[i] {
			return nil, errors.OutOfBounds(errors.PhaseNative, uint64(p), length)
		}
	}
	return h.mem[p:end], nil
}

// Read returns a copy of length bytes at p.
func (h *Heap) Read(p jtalk.Ptr, length uint32) ([]byte, error) {
	h.mu.Lock()
	defer h.mu.Unlock()
	b, err := h.check(p, length)
	if err != nil {
		return nil, err
	}
	return bytes.Clone(b), nil
}

// Write writes data at p.
func (h *Heap) Write(p jtalk.Ptr, data []byte) error {
	h.mu.Lock()
	defer h.mu.Unlock()
	b, err := h.check(p, uint32(len(data)))
	if err != nil {
		return err
	}
	copy(b, data)
	return nil
}

// ReadU32 reads an unsigned 32-bit little-endian value.
func (h *Heap) ReadU32(p jtalk.Ptr) (uint32, error) {
	h.mu.Lock()
	defer h.mu.Unlock()
	b, err := h.check(p, 4)
	if err != nil {
		return 0, err
	}
	return binary.LittleEndian.Uint32(b), nil
}

// ReadU64 reads an unsigned 64-bit little-endian value.
func (h *Heap) ReadU64(p jtalk.Ptr) (uint64, error) {
	h.mu.Lock()
	defer h.mu.Unlock()
	b, err := h.check(p, 8)
	if err != nil {
		return 0, err
	}
	return binary.LittleEndian.Uint64(b), nil
}

// WriteU32 writes an unsigned 32-bit little-endian value.
func (h *Heap) WriteU32(p jtalk.Ptr, value uint32) error {
	h.mu.Lock()
	defer h.mu.Unlock()
	b, err := h.check(p, 4)
	if err != nil {
		return err
	}
	binary.LittleEndian.PutUint32(b, value)
	return nil
}

// WriteU64 writes an unsigned 64-bit little-endian value.
func (h *Heap) WriteU64(p jtalk.Ptr, value uint64) error {
	h.mu.Lock()
	defer h.mu.Unlock()
	b, err := h.check(p, 8)
	if err != nil {
		return err
	}
	binary.LittleEndian.PutUint64(b, value)
	return nil
}

// ReadCString returns the bytes at p up to the first NUL. The terminator
// must lie inside the same live region.
func (h *Heap) ReadCString(p jtalk.Ptr) ([]byte, error) {
	h.mu.Lock()
	defer h.mu.Unlock()
	if p == 0 || uint64(p) >= uint64(len(h.mem)) {
		return nil, errors.OutOfBounds(errors.PhaseNative, uint64(p), 1)
	}
	for i := uint64(p); i < uint64(len(h.mem)); i++ {
		if !h.live[i] {
			break
		}
		if h.mem[i] == 0 {
			return bytes.Clone(h.mem[p:i]), nil
		}
	}
	return nil, errors.New(errors.PhaseNative, errors.KindOutOfBounds).
		Detail("unterminated string at %#x", uint64(p)).
		Build()
}
