package arith

import (
	"github.com/vk/geonodes/internal/geometry"
	"github.com/vk/geonodes/internal/multifn"
	"github.com/vk/geonodes/internal/nodetree"
	"github.com/vk/geonodes/internal/registry"
	"github.com/vk/geonodes/internal/value"
)

// Module implements the registry.Module interface for this package.
type Module struct{}

// Node type names.
const (
	AddType        = "MathAdd"
	MultiplyType   = "MathMultiply"
	CombineXYZType = "CombineXYZ"
)

var (
	addFn = multifn.NewSI2SO("Add", value.Float, value.Float, value.Float,
		func(a, b float64) float64 { return a + b })
	multiplyFn = multifn.NewSI2SO("Multiply", value.Float, value.Float, value.Float,
		func(a, b float64) float64 { return a * b })
	combineFn = multifn.NewSI3SO("Combine XYZ", value.Float, value.Float, value.Float, value.Vector,
		func(x, y, z float64) geometry.Float3 { return geometry.Float3{x, y, z} })
)

func floats(ids ...string) []nodetree.SocketSpec {
	out := make([]nodetree.SocketSpec, len(ids))
	for i, id := range ids {
		out[i] = nodetree.SocketSpec{Identifier: id, Type: value.Float}
	}
	return out
}

// Register registers the scalar and vector math node types.
func (m *Module) Register(r *registry.Registry) {
	r.Register(&registry.NodeType{
		Name:     AddType,
		Inputs:   floats("A", "B"),
		Outputs:  floats("Value"),
		Executor: registry.PureFunction{Fn: addFn},
	})
	r.Register(&registry.NodeType{
		Name: MultiplyType,
		Inputs: []nodetree.SocketSpec{
			{Identifier: "A", Type: value.Float, Default: 1.0},
			{Identifier: "B", Type: value.Float, Default: 1.0},
		},
		Outputs:  floats("Value"),
		Executor: registry.PureFunction{Fn: multiplyFn},
	})
	r.Register(&registry.NodeType{
		Name:     CombineXYZType,
		Inputs:   floats("X", "Y", "Z"),
		Outputs:  []nodetree.SocketSpec{{Identifier: "Vector", Type: value.Vector}},
		Executor: registry.PureFunction{Fn: combineFn},
	})
}
