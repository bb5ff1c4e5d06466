package transform

import (
	"math"

	"github.com/vk/geonodes/internal/geometry"
	"github.com/vk/geonodes/internal/nodetree"
	"github.com/vk/geonodes/internal/registry"
	"github.com/vk/geonodes/internal/value"
)

// Module implements the registry.Module interface for this package.
type Module struct{}

// Node type names.
const (
	PassThroughType = "PassThrough"
	ScaleType       = "Scale"
	TranslateType   = "Translate"
)

var geometrySocket = nodetree.SocketSpec{Identifier: "Geometry", Type: value.Geometry}

// PassThrough hands the input geometry on untouched.
func PassThrough(p *registry.Params) {
	p.SetOutput("Geometry", registry.Input[*geometry.Geometry](p, "Geometry"))
}

// Scale multiplies every position by the Scale input. Point radii are scaled
// by its magnitude.
func Scale(p *registry.Params) {
	g := registry.Input[*geometry.Geometry](p, "Geometry")
	s := registry.Input[float64](p, "Scale")

	g.TransformPositions(func(v geometry.Float3) geometry.Float3 { return v.Scale(s) })
	if pc := g.PointCloud(); pc != nil {
		for i := range pc.Radii {
			pc.Radii[i] *= math.Abs(s)
		}
	}
	p.Logger().Debug("Scaled geometry.", "node", p.Node().ID(), "scale", s)
	p.SetOutput("Geometry", g)
}

// Translate adds the Offset input to every position.
func Translate(p *registry.Params) {
	g := registry.Input[*geometry.Geometry](p, "Geometry")
	offset := registry.Input[geometry.Float3](p, "Offset")

	g.TransformPositions(func(v geometry.Float3) geometry.Float3 { return v.Add(offset) })
	p.SetOutput("Geometry", g)
}

// Register registers the geometry transform node types.
func (m *Module) Register(r *registry.Registry) {
	r.Register(&registry.NodeType{
		Name:     PassThroughType,
		Inputs:   []nodetree.SocketSpec{geometrySocket},
		Outputs:  []nodetree.SocketSpec{geometrySocket},
		Executor: registry.CustomExecute{Fn: PassThrough},
	})
	r.Register(&registry.NodeType{
		Name: ScaleType,
		Inputs: []nodetree.SocketSpec{
			geometrySocket,
			{Identifier: "Scale", Type: value.Float, Default: 1.0},
		},
		Outputs:  []nodetree.SocketSpec{geometrySocket},
		Executor: registry.CustomExecute{Fn: Scale},
	})
	r.Register(&registry.NodeType{
		Name: TranslateType,
		Inputs: []nodetree.SocketSpec{
			geometrySocket,
			{Identifier: "Offset", Type: value.Vector},
		},
		Outputs:  []nodetree.SocketSpec{geometrySocket},
		Executor: registry.CustomExecute{Fn: Translate},
	})
}
