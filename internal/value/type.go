// Package value implements the type-erased socket values that travel through
// a node tree during evaluation.
//
// A Type is a run-time descriptor carrying the operations needed to manage a
// value without knowing its Go type: size and alignment for allocation, a
// read-only default, copy and destruct. A Pointer pairs a descriptor with the
// arena slot holding the value. Whoever holds a Pointer must know whether it
// owns it; owners destruct, borrowers only read.
package value

import (
	"reflect"
	"unsafe"

	"github.com/zclconf/go-cty/cty"
)

// Type describes a socket value type.
type Type struct {
	name       string
	goType     reflect.Type
	size       uintptr
	align      uintptr
	cty        cty.Type
	def        any
	copyFn     func(any) any
	destructFn func(any)
}

// TypeSpec is the description used to build a Type for values of Go type T.
type TypeSpec[T any] struct {
	// Name is the socket type name, e.g. "float".
	Name string
	// Default is the value unconnected sockets of this type fall back to.
	Default T
	// Cty is the cty type used by generic conversions. Types without a cty
	// counterpart leave it unset.
	Cty cty.Type
	// Copy returns an independent copy. Nil means plain assignment.
	Copy func(T) T
	// Destruct releases whatever the value holds. Nil means nothing to do.
	Destruct func(T)
}

// NewType builds a descriptor for T.
func NewType[T any](spec TypeSpec[T]) *Type {
	var zero T
	t := &Type{
		name:   spec.Name,
		goType: reflect.TypeFor[T](),
		size:   unsafe.Sizeof(zero),
		align:  unsafe.Alignof(zero),
		cty:    spec.Cty,
		def:    spec.Default,
	}
	if t.cty == cty.NilType {
		t.cty = cty.DynamicPseudoType
	}
	if t.size == 0 {
		t.size = 1
	}
	if spec.Copy != nil {
		t.copyFn = func(v any) any { return spec.Copy(v.(T)) }
	} else {
		t.copyFn = func(v any) any { return v }
	}
	if spec.Destruct != nil {
		t.destructFn = func(v any) { spec.Destruct(v.(T)) }
	} else {
		t.destructFn = func(any) {}
	}
	return t
}

// Name returns the socket type name.
func (t *Type) Name() string { return t.name }

// String implements fmt.Stringer.
func (t *Type) String() string { return t.name }

// GoType returns the Go type of the values described by t.
func (t *Type) GoType() reflect.Type { return t.goType }

// Size returns the storage size of a value in bytes.
func (t *Type) Size() uintptr { return t.size }

// Alignment returns the required storage alignment in bytes.
func (t *Type) Alignment() uintptr { return t.align }

// CtyType returns the cty counterpart, or cty.DynamicPseudoType when none
// exists.
func (t *Type) CtyType() cty.Type { return t.cty }

// DefaultValue returns the type's default. The result is shared and must not
// be modified; use CopyToUninitialized to obtain an owned copy.
func (t *Type) DefaultValue() any { return t.def }

// CopyToUninitialized stores an independent copy of src into the empty slot
// dst.
func (t *Type) CopyToUninitialized(src any, dst Storage) {
	dst.Store(t.copyFn(src))
}

// Destruct ends the lifetime of v.
func (t *Type) Destruct(v any) {
	t.destructFn(v)
}

// Equals reports whether t and other describe the same type.
func (t *Type) Equals(other *Type) bool {
	return t == other
}

// Storage is the destination of a copy or conversion. It is satisfied by
// *arena.Slot.
type Storage interface {
	Store(v any)
}
