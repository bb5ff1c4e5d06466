package multifn

import "github.com/vk/geonodes/internal/value"

type customFn struct {
	sig  Signature
	call func(mask Mask, params *Params)
}

func (f *customFn) Signature() Signature { return f.sig }

func (f *customFn) Call(mask Mask, params *Params) { f.call(mask, params) }

// NewSISO builds a function with one input and one output.
func NewSISO[A, R any](name string, a, r *value.Type, fn func(A) R) MultiFunction {
	return &customFn{
		sig: Signature{Name: name, Params: []Param{
			{Name: "A", Type: a, Kind: SingleInput},
			{Name: "Result", Type: r, Kind: SingleOutput},
		}},
		call: func(mask Mask, params *Params) {
			in := params.ReadonlySingleInput(0)
			out := params.UninitializedSingleOutput(1)
			for _, i := range mask.Indices() {
				out.Set(i, fn(in.At(i).(A)))
			}
		},
	}
}

// NewSI2SO builds a function with two inputs and one output.
func NewSI2SO[A, B, R any](name string, a, b, r *value.Type, fn func(A, B) R) MultiFunction {
	return &customFn{
		sig: Signature{Name: name, Params: []Param{
			{Name: "A", Type: a, Kind: SingleInput},
			{Name: "B", Type: b, Kind: SingleInput},
			{Name: "Result", Type: r, Kind: SingleOutput},
		}},
		call: func(mask Mask, params *Params) {
			inA := params.ReadonlySingleInput(0)
			inB := params.ReadonlySingleInput(1)
			out := params.UninitializedSingleOutput(2)
			for _, i := range mask.Indices() {
				out.Set(i, fn(inA.At(i).(A), inB.At(i).(B)))
			}
		},
	}
}

// NewSI3SO builds a function with three inputs and one output.
func NewSI3SO[A, B, C, R any](name string, a, b, c, r *value.Type, fn func(A, B, C) R) MultiFunction {
	return &customFn{
		sig: Signature{Name: name, Params: []Param{
			{Name: "A", Type: a, Kind: SingleInput},
			{Name: "B", Type: b, Kind: SingleInput},
			{Name: "C", Type: c, Kind: SingleInput},
			{Name: "Result", Type: r, Kind: SingleOutput},
		}},
		call: func(mask Mask, params *Params) {
			inA := params.ReadonlySingleInput(0)
			inB := params.ReadonlySingleInput(1)
			inC := params.ReadonlySingleInput(2)
			out := params.UninitializedSingleOutput(3)
			for _, i := range mask.Indices() {
				out.Set(i, fn(inA.At(i).(A), inB.At(i).(B), inC.At(i).(C)))
			}
		},
	}
}
