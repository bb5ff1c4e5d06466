// Package settings holds the persisted parameters of a modifier: one typed
// property per group input socket identifier.
package settings

import (
	"errors"
	"fmt"
	"sort"

	"github.com/vk/geonodes/internal/geometry"
	"github.com/vk/geonodes/internal/value"
	"github.com/zclconf/go-cty/cty"
	"github.com/zclconf/go-cty/cty/gocty"
)

// ErrKindMismatch is returned when a value does not fit a property kind.
var ErrKindMismatch = errors.New("value does not match property kind")

// Kind is the stored type of a property.
type Kind int

const (
	KindFloat Kind = iota
	KindInt
	KindVector
	KindBool
)

// String implements fmt.Stringer.
func (k Kind) String() string {
	switch k {
	case KindFloat:
		return "float"
	case KindInt:
		return "int"
	case KindVector:
		return "vector"
	case KindBool:
		return "bool"
	default:
		return "unknown"
	}
}

// KindFor returns the property kind used for sockets of type t. Types
// without one (geometry, string) cannot be set from settings.
func KindFor(t *value.Type) (Kind, bool) {
	switch t {
	case value.Float:
		return KindFloat, true
	case value.Int:
		return KindInt, true
	case value.Vector:
		return KindVector, true
	case value.Bool:
		return KindBool, true
	default:
		return 0, false
	}
}

// Property is one stored parameter.
type Property struct {
	Kind  Kind
	Value cty.Value
}

// NewProperty stores the Go value v, which must be the Go type of kind.
func NewProperty(kind Kind, v any) (Property, error) {
	switch kind {
	case KindFloat:
		f, ok := v.(float64)
		if !ok {
			return Property{}, fmt.Errorf("%w: %T for %s", ErrKindMismatch, v, kind)
		}
		return Property{Kind: kind, Value: cty.NumberFloatVal(f)}, nil
	case KindInt:
		i, ok := v.(int)
		if !ok {
			return Property{}, fmt.Errorf("%w: %T for %s", ErrKindMismatch, v, kind)
		}
		return Property{Kind: kind, Value: cty.NumberIntVal(int64(i))}, nil
	case KindVector:
		f3, ok := v.(geometry.Float3)
		if !ok {
			return Property{}, fmt.Errorf("%w: %T for %s", ErrKindMismatch, v, kind)
		}
		return Property{Kind: kind, Value: cty.TupleVal([]cty.Value{
			cty.NumberFloatVal(f3[0]), cty.NumberFloatVal(f3[1]), cty.NumberFloatVal(f3[2]),
		})}, nil
	case KindBool:
		b, ok := v.(bool)
		if !ok {
			return Property{}, fmt.Errorf("%w: %T for %s", ErrKindMismatch, v, kind)
		}
		return Property{Kind: kind, Value: cty.BoolVal(b)}, nil
	default:
		return Property{}, fmt.Errorf("%w: unknown kind %d", ErrKindMismatch, kind)
	}
}

// Infer builds a property from a cty value. Whole numbers become int
// properties, other numbers float, three element number sequences vector.
func Infer(v cty.Value) (Property, error) {
	if v.IsNull() || !v.IsKnown() {
		return Property{}, fmt.Errorf("%w: null or unknown value", ErrKindMismatch)
	}
	t := v.Type()
	switch {
	case t == cty.Number:
		if v.AsBigFloat().IsInt() {
			return Property{Kind: KindInt, Value: v}, nil
		}
		return Property{Kind: KindFloat, Value: v}, nil
	case t == cty.Bool:
		return Property{Kind: KindBool, Value: v}, nil
	case t.IsTupleType() || t.IsListType():
		if _, err := toFloat3(v); err != nil {
			return Property{}, err
		}
		return Property{Kind: KindVector, Value: v}, nil
	default:
		return Property{}, fmt.Errorf("%w: unsupported type %s", ErrKindMismatch, t.FriendlyName())
	}
}

// Accepts reports whether p can initialize a socket whose property kind is
// kind. Bool sockets also take int properties.
func (p Property) Accepts(kind Kind) bool {
	return p.Kind == kind || (kind == KindBool && p.Kind == KindInt)
}

// ValueFor returns the stored value as the Go type of kind. An int read as a
// bool is true when nonzero.
func (p Property) ValueFor(kind Kind) (any, error) {
	if !p.Accepts(kind) {
		return nil, fmt.Errorf("%w: %s property for %s", ErrKindMismatch, p.Kind, kind)
	}
	v, err := p.GoValue()
	if err != nil {
		return nil, err
	}
	if i, ok := v.(int); ok && kind == KindBool {
		return i != 0, nil
	}
	return v, nil
}

// Coerce converts v to a property of the given kind, so that 2 can be
// stored as a float.
func Coerce(kind Kind, v cty.Value) (Property, error) {
	p := Property{Kind: kind, Value: v}
	goValue, err := p.GoValue()
	if err != nil {
		return Property{}, err
	}
	return NewProperty(kind, goValue)
}

// GoValue returns the stored value as the Go type of its kind.
func (p Property) GoValue() (any, error) {
	switch p.Kind {
	case KindFloat:
		var f float64
		if err := gocty.FromCtyValue(p.Value, &f); err != nil {
			return nil, fmt.Errorf("%w: %v", ErrKindMismatch, err)
		}
		return f, nil
	case KindInt:
		var i int
		if err := gocty.FromCtyValue(p.Value, &i); err != nil {
			return nil, fmt.Errorf("%w: %v", ErrKindMismatch, err)
		}
		return i, nil
	case KindVector:
		return toFloat3(p.Value)
	case KindBool:
		var b bool
		if err := gocty.FromCtyValue(p.Value, &b); err != nil {
			return nil, fmt.Errorf("%w: %v", ErrKindMismatch, err)
		}
		return b, nil
	default:
		return nil, fmt.Errorf("%w: unknown kind %d", ErrKindMismatch, p.Kind)
	}
}

func toFloat3(v cty.Value) (geometry.Float3, error) {
	var out geometry.Float3
	t := v.Type()
	if !(t.IsTupleType() || t.IsListType()) || v.IsNull() || v.LengthInt() != 3 {
		return out, fmt.Errorf("%w: vector needs three numbers, got %s", ErrKindMismatch, t.FriendlyName())
	}
	i := 0
	for it := v.ElementIterator(); it.Next(); i++ {
		_, el := it.Element()
		if el.IsNull() || el.Type() != cty.Number {
			return out, fmt.Errorf("%w: vector element %d is not a number", ErrKindMismatch, i)
		}
		out[i], _ = el.AsBigFloat().Float64()
	}
	return out, nil
}

// Settings maps group input socket identifiers to properties.
type Settings struct {
	props map[string]Property
}

// New returns empty settings.
func New() *Settings {
	return &Settings{props: make(map[string]Property)}
}

// Get returns the property stored for identifier.
func (s *Settings) Get(identifier string) (Property, bool) {
	if s == nil {
		return Property{}, false
	}
	p, ok := s.props[identifier]
	return p, ok
}

// Set stores p under identifier, replacing any previous property.
func (s *Settings) Set(identifier string, p Property) {
	s.props[identifier] = p
}

// Remove deletes the property stored for identifier.
func (s *Settings) Remove(identifier string) {
	delete(s.props, identifier)
}

// Len returns the number of properties.
func (s *Settings) Len() int {
	if s == nil {
		return 0
	}
	return len(s.props)
}

// Identifiers returns the stored identifiers, sorted.
func (s *Settings) Identifiers() []string {
	if s == nil {
		return nil
	}
	ids := make([]string, 0, len(s.props))
	for id := range s.props {
		ids = append(ids, id)
	}
	sort.Strings(ids)
	return ids
}
