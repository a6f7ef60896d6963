package jtalk

// Ptr is an address in the native collaborator's address space.
// Zero is NULL.
type Ptr uint64

// Memory represents the native collaborator's memory.
type Memory interface {
	Read(p Ptr, length uint32) ([]byte, error)
	Write(p Ptr, data []byte) error
	ReadU32(p Ptr) (uint32, error)
	ReadU64(p Ptr) (uint64, error)
	WriteU32(p Ptr, value uint32) error
	WriteU64(p Ptr, value uint64) error

	// ReadCString returns a copy of the NUL-terminated bytes at p,
	// without the terminator.
	ReadCString(p Ptr) ([]byte, error)
}

// Allocator allocates from the native general-purpose heap (malloc/free).
// Buffers handed to the collaborator must come from here, since the
// collaborator frees them itself.
type Allocator interface {
	Malloc(size uint32) (Ptr, error)
	Free(p Ptr)
}
