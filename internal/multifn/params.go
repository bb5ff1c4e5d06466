package multifn

import (
	"fmt"

	"github.com/vk/geonodes/internal/value"
)

// Span is a read-only sequence of values of one type.
type Span struct {
	typ  *value.Type
	data []any
}

// NewSpan wraps data as a span of type t.
func NewSpan(t *value.Type, data ...any) Span {
	return Span{typ: t, data: data}
}

// Type returns the element type.
func (s Span) Type() *value.Type { return s.typ }

// Len returns the number of elements.
func (s Span) Len() int { return len(s.data) }

// At returns element i.
func (s Span) At(i int) any { return s.data[i] }

// MutableSpan is a sequence of uninitialized storage for values of one type.
type MutableSpan struct {
	typ   *value.Type
	slots []value.Storage
}

// NewMutableSpan wraps slots as a span of type t.
func NewMutableSpan(t *value.Type, slots ...value.Storage) MutableSpan {
	return MutableSpan{typ: t, slots: slots}
}

// Type returns the element type.
func (s MutableSpan) Type() *value.Type { return s.typ }

// Len returns the number of elements.
func (s MutableSpan) Len() int { return len(s.slots) }

// Set initializes element i with v.
func (s MutableSpan) Set(i int, v any) { s.slots[i].Store(v) }

// Params carries the arguments of one Call, in signature order.
type Params struct {
	sig     Signature
	size    int
	inputs  []Span
	outputs []MutableSpan
	order   []int
}

// ParamsBuilder assembles Params for a function and a batch size.
type ParamsBuilder struct {
	params *Params
}

// NewParamsBuilder starts building parameters for fn over size rows.
func NewParamsBuilder(fn MultiFunction, size int) *ParamsBuilder {
	return &ParamsBuilder{params: &Params{sig: fn.Signature(), size: size}}
}

// AddReadonlySingleInput appends the next input span.
func (b *ParamsBuilder) AddReadonlySingleInput(span Span) *ParamsBuilder {
	b.expect(SingleInput, span.Type(), span.Len())
	b.params.order = append(b.params.order, len(b.params.inputs))
	b.params.inputs = append(b.params.inputs, span)
	return b
}

// AddUninitializedSingleOutput appends the next output span.
func (b *ParamsBuilder) AddUninitializedSingleOutput(span MutableSpan) *ParamsBuilder {
	b.expect(SingleOutput, span.Type(), span.Len())
	b.params.order = append(b.params.order, len(b.params.outputs))
	b.params.outputs = append(b.params.outputs, span)
	return b
}

// Build returns the assembled parameters. Every signature parameter must
// have been supplied.
func (b *ParamsBuilder) Build() *Params {
	if len(b.params.order) != len(b.params.sig.Params) {
		panic(fmt.Sprintf("multifn %q: %d of %d params supplied",
			b.params.sig.Name, len(b.params.order), len(b.params.sig.Params)))
	}
	return b.params
}

func (b *ParamsBuilder) expect(kind ParamKind, t *value.Type, n int) {
	index := len(b.params.order)
	sig := b.params.sig
	if index >= len(sig.Params) {
		panic(fmt.Sprintf("multifn %q: too many params", sig.Name))
	}
	p := sig.Params[index]
	if p.Kind != kind || !p.Type.Equals(t) {
		panic(fmt.Sprintf("multifn %q: param %d %q expects %s %s, got %s %s",
			sig.Name, index, p.Name, p.Kind, p.Type.Name(), kind, t.Name()))
	}
	if n < b.params.size {
		panic(fmt.Sprintf("multifn %q: param %q has %d rows, need %d", sig.Name, p.Name, n, b.params.size))
	}
}

// ReadonlySingleInput returns the span of signature parameter index.
func (p *Params) ReadonlySingleInput(index int) Span {
	p.check(index, SingleInput)
	return p.inputs[p.order[index]]
}

// UninitializedSingleOutput returns the span of signature parameter index.
func (p *Params) UninitializedSingleOutput(index int) MutableSpan {
	p.check(index, SingleOutput)
	return p.outputs[p.order[index]]
}

func (p *Params) check(index int, kind ParamKind) {
	if got := p.sig.Params[index].Kind; got != kind {
		panic(fmt.Sprintf("multifn %q: param %d is %s, not %s", p.sig.Name, index, got, kind))
	}
}
