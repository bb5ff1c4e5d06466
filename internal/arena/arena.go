// Package arena provides a bump allocator for the intermediate values of a
// single evaluation pass.
//
// Every allocation hands out a fresh Slot that is never reused or freed on
// its own. The whole arena is dropped at once with Reset. The arena does not
// know what lives in its slots and never runs destructors; whoever owns a
// value is responsible for destructing it before the arena goes away.
package arena

import "fmt"

// DefaultChunkSize is the number of slots reserved per chunk.
const DefaultChunkSize = 64

// Slot is a single cell of arena storage. A zero Slot is empty.
type Slot struct {
	v     any
	full  bool
	size  uintptr
	align uintptr
}

// Store places v into the slot. The slot must be empty.
func (s *Slot) Store(v any) {
	if s.full {
		panic("arena: store into an initialized slot")
	}
	s.v = v
	s.full = true
}

// Load returns the value held by the slot.
func (s *Slot) Load() any {
	return s.v
}

// Clear empties the slot and returns the value it held.
func (s *Slot) Clear() any {
	v := s.v
	s.v = nil
	s.full = false
	return v
}

// Initialized reports whether the slot currently holds a value.
func (s *Slot) Initialized() bool {
	return s.full
}

// Size returns the byte size requested when the slot was allocated.
func (s *Slot) Size() uintptr {
	return s.size
}

// Stats summarizes what an arena handed out since it was created or reset.
type Stats struct {
	Allocations int
	Bytes       uintptr
	Chunks      int
}

// Arena is a monotonically growing allocator. It is not safe for concurrent
// use.
type Arena struct {
	chunks    [][]Slot
	next      int
	chunkSize int
	offset    uintptr
	allocs    int
}

// Option configures an Arena.
type Option func(*Arena)

// WithChunkSize sets how many slots are reserved at a time.
func WithChunkSize(n int) Option {
	return func(a *Arena) {
		if n > 0 {
			a.chunkSize = n
		}
	}
}

// New creates an empty arena.
func New(opts ...Option) *Arena {
	a := &Arena{chunkSize: DefaultChunkSize}
	for _, opt := range opts {
		opt(a)
	}
	return a
}

// Allocate reserves storage for a value of the given size and alignment.
// Alignment must be a power of two.
func (a *Arena) Allocate(size, align uintptr) *Slot {
	if align == 0 || align&(align-1) != 0 {
		panic(fmt.Sprintf("arena: alignment %d is not a power of two", align))
	}
	if len(a.chunks) == 0 || a.next == len(a.chunks[len(a.chunks)-1]) {
		a.chunks = append(a.chunks, make([]Slot, a.chunkSize))
		a.next = 0
	}
	slot := &a.chunks[len(a.chunks)-1][a.next]
	a.next++

	a.offset = alignUp(a.offset, align) + size
	a.allocs++

	slot.size = size
	slot.align = align
	return slot
}

// Stats reports allocation counters.
func (a *Arena) Stats() Stats {
	return Stats{Allocations: a.allocs, Bytes: a.offset, Chunks: len(a.chunks)}
}

// Reset drops every chunk. Slots handed out earlier must not be used
// afterwards. Values still stored in slots are not destructed.
func (a *Arena) Reset() {
	a.chunks = nil
	a.next = 0
	a.offset = 0
	a.allocs = 0
}

func alignUp(offset, align uintptr) uintptr {
	return (offset + align - 1) &^ (align - 1)
}
