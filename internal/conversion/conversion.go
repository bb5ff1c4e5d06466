// Package conversion answers whether a socket value of one type can be
// delivered to a socket of another type and performs the conversion.
//
// Explicitly registered conversions take precedence. When none is registered
// and both types have primitive cty counterparts, the registry falls back to
// the safe conversions of cty/convert (for example number to string). The
// registry never invents a value: callers decide what to do with a pair that
// is not convertible.
package conversion

import (
	"errors"
	"fmt"
	"math"
	"reflect"
	"sort"

	"github.com/vk/geonodes/internal/value"
	"github.com/zclconf/go-cty/cty"
	"github.com/zclconf/go-cty/cty/convert"
	"github.com/zclconf/go-cty/cty/gocty"
)

// ErrNonFinite is returned when a NaN or infinite float would have to pass
// through cty, which only represents finite numbers.
var ErrNonFinite = errors.New("non-finite number")

// Func converts a value of the source type into a value of the target type.
type Func func(src any) any

// Pair names a conversion from one type to another.
type Pair struct {
	From *value.Type
	To   *value.Type
}

// String implements fmt.Stringer.
func (p Pair) String() string {
	return p.From.Name() + " -> " + p.To.Name()
}

// Registry holds the known conversions. It is safe for concurrent reads once
// populated.
type Registry struct {
	fns       map[Pair]Func
	ctyBridge bool
}

// Option configures a Registry.
type Option func(*Registry)

// WithoutCtyBridge disables the cty/convert fallback.
func WithoutCtyBridge() Option {
	return func(r *Registry) { r.ctyBridge = false }
}

// New creates an empty registry.
func New(opts ...Option) *Registry {
	r := &Registry{fns: make(map[Pair]Func), ctyBridge: true}
	for _, opt := range opts {
		opt(r)
	}
	return r
}

// Register adds a conversion. Registering the same pair twice is a
// programming error.
func (r *Registry) Register(from, to *value.Type, fn Func) {
	pair := Pair{From: from, To: to}
	if _, exists := r.fns[pair]; exists {
		panic(fmt.Sprintf("conversion %s already registered", pair))
	}
	r.fns[pair] = fn
}

// RegisterFunc adds a typed conversion.
func RegisterFunc[F, T any](r *Registry, from, to *value.Type, fn func(F) T) {
	r.Register(from, to, func(src any) any { return fn(src.(F)) })
}

// IsConvertible reports whether values of type from can be converted to to.
func (r *Registry) IsConvertible(from, to *value.Type) bool {
	if _, ok := r.fns[Pair{From: from, To: to}]; ok {
		return true
	}
	return r.ctyConversion(from, to) != nil
}

// Convert writes the conversion of src into the empty storage dst. dst is
// left untouched when an error is returned.
func (r *Registry) Convert(from, to *value.Type, src any, dst value.Storage) error {
	if fn, ok := r.fns[Pair{From: from, To: to}]; ok {
		dst.Store(fn(src))
		return nil
	}
	conv := r.ctyConversion(from, to)
	if conv == nil {
		return fmt.Errorf("no conversion from %s to %s", from.Name(), to.Name())
	}
	out, err := convertCty(conv, from, to, src)
	if err != nil {
		return fmt.Errorf("converting %s to %s: %w", from.Name(), to.Name(), err)
	}
	dst.Store(out)
	return nil
}

// Pairs returns every explicitly registered conversion, sorted by name.
func (r *Registry) Pairs() []Pair {
	pairs := make([]Pair, 0, len(r.fns))
	for p := range r.fns {
		pairs = append(pairs, p)
	}
	sort.Slice(pairs, func(i, j int) bool { return pairs[i].String() < pairs[j].String() })
	return pairs
}

func (r *Registry) ctyConversion(from, to *value.Type) convert.Conversion {
	if !r.ctyBridge || from.Equals(to) {
		return nil
	}
	fromCty, toCty := from.CtyType(), to.CtyType()
	if !fromCty.IsPrimitiveType() || !toCty.IsPrimitiveType() {
		return nil
	}
	return convert.GetConversion(fromCty, toCty)
}

func convertCty(conv convert.Conversion, from, to *value.Type, src any) (any, error) {
	if f, ok := src.(float64); ok && (math.IsNaN(f) || math.IsInf(f, 0)) {
		return nil, fmt.Errorf("%w: %v", ErrNonFinite, f)
	}
	in, err := gocty.ToCtyValue(src, from.CtyType())
	if err != nil {
		return nil, err
	}
	out, err := conv(in)
	if err != nil {
		return nil, err
	}
	if out.IsNull() || !out.IsKnown() {
		return nil, fmt.Errorf("conversion produced %s", describe(out))
	}
	target := reflect.New(to.GoType())
	if err := gocty.FromCtyValue(out, target.Interface()); err != nil {
		return nil, err
	}
	return target.Elem().Interface(), nil
}

func describe(v cty.Value) string {
	if v.IsNull() {
		return "a null value"
	}
	return "an unknown value"
}
