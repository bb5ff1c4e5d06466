// Package multifn defines batch-callable, side-effect free functions over
// type-erased values.
//
// A MultiFunction declares a Signature of single-value inputs and outputs and
// is invoked over a Mask of row indices. Inputs arrive as read-only spans,
// outputs as uninitialized spans the function must fill for every masked row.
package multifn

import "github.com/vk/geonodes/internal/value"

// MultiFunction is a pure function evaluated over many rows at once.
type MultiFunction interface {
	Signature() Signature
	Call(mask Mask, params *Params)
}

// ParamKind says how a parameter is passed.
type ParamKind int

const (
	// SingleInput is a read-only value per row.
	SingleInput ParamKind = iota
	// SingleOutput is an uninitialized value per row the function must set.
	SingleOutput
)

// String implements fmt.Stringer.
func (k ParamKind) String() string {
	switch k {
	case SingleInput:
		return "single_input"
	case SingleOutput:
		return "single_output"
	default:
		return "unknown"
	}
}

// Param describes one parameter of a signature.
type Param struct {
	Name string
	Type *value.Type
	Kind ParamKind
}

// Signature is the ordered parameter list of a MultiFunction.
type Signature struct {
	Name   string
	Params []Param
}

// Inputs returns the input parameters in order.
func (s Signature) Inputs() []Param {
	return s.filter(SingleInput)
}

// Outputs returns the output parameters in order.
func (s Signature) Outputs() []Param {
	return s.filter(SingleOutput)
}

func (s Signature) filter(kind ParamKind) []Param {
	var out []Param
	for _, p := range s.Params {
		if p.Kind == kind {
			out = append(out, p)
		}
	}
	return out
}

// Mask is a contiguous range of row indices.
type Mask struct {
	Start int
	Size  int
}

// Range returns the mask [0, size).
func Range(size int) Mask {
	return Mask{Size: size}
}

// Indices returns the masked row indices.
func (m Mask) Indices() []int {
	out := make([]int, m.Size)
	for i := range out {
		out[i] = m.Start + i
	}
	return out
}

// End returns one past the last masked index.
func (m Mask) End() int {
	return m.Start + m.Size
}
