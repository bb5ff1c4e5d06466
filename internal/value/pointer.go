package value

import (
	"fmt"

	"github.com/vk/geonodes/internal/arena"
)

// Pointer is a typed reference to a value living in an arena slot.
type Pointer struct {
	typ  *Type
	slot *arena.Slot
}

// NewPointer pairs a descriptor with a slot.
func NewPointer(t *Type, slot *arena.Slot) Pointer {
	return Pointer{typ: t, slot: slot}
}

// Allocate reserves an uninitialized slot sized for t.
func Allocate(a *arena.Arena, t *Type) *arena.Slot {
	return a.Allocate(t.Size(), t.Alignment())
}

// New allocates a slot for t and moves v into it.
func New(a *arena.Arena, t *Type, v any) Pointer {
	slot := Allocate(a, t)
	slot.Store(v)
	return Pointer{typ: t, slot: slot}
}

// NewDefault allocates a slot for t holding a copy of its default value.
func NewDefault(a *arena.Arena, t *Type) Pointer {
	slot := Allocate(a, t)
	t.CopyToUninitialized(t.DefaultValue(), slot)
	return Pointer{typ: t, slot: slot}
}

// Type returns the value's descriptor.
func (p Pointer) Type() *Type { return p.typ }

// Slot returns the underlying storage.
func (p Pointer) Slot() *arena.Slot { return p.slot }

// IsValid reports whether p refers to an initialized value.
func (p Pointer) IsValid() bool {
	return p.typ != nil && p.slot != nil && p.slot.Initialized()
}

// Get returns the value without transferring ownership.
func (p Pointer) Get() any {
	return p.slot.Load()
}

// Destruct ends the value's lifetime and empties its slot.
func (p Pointer) Destruct() {
	if !p.IsValid() {
		return
	}
	p.typ.Destruct(p.slot.Clear())
}

// Take moves the value out of its slot. The caller becomes responsible for
// it; the slot is left empty and nothing is destructed.
func (p Pointer) Take() any {
	return p.slot.Clear()
}

// String implements fmt.Stringer.
func (p Pointer) String() string {
	if !p.IsValid() {
		return "<invalid>"
	}
	return fmt.Sprintf("%s(%v)", p.typ.Name(), p.slot.Load())
}

// Get returns the value p refers to as T. It panics when the stored value
// is not a T.
func Get[T any](p Pointer) T {
	return p.Get().(T)
}
