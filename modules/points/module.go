package points

import (
	"github.com/vk/geonodes/internal/geometry"
	"github.com/vk/geonodes/internal/nodetree"
	"github.com/vk/geonodes/internal/registry"
	"github.com/vk/geonodes/internal/value"
)

// Module implements the registry.Module interface for this package.
type Module struct{}

// FromMeshType is the node type name of FromMesh.
const FromMeshType = "PointsFromMesh"

// FromMesh replaces the mesh component with a point cloud holding one point
// per vertex, each with the Radius input.
func FromMesh(p *registry.Params) {
	g := registry.Input[*geometry.Geometry](p, "Geometry")
	radius := registry.Input[float64](p, "Radius")

	mesh := g.ReleaseMesh()
	if mesh == nil {
		p.Logger().Debug("No mesh to convert.", "node", p.Node().ID())
		p.SetOutput("Geometry", g)
		return
	}
	pc := &geometry.PointCloud{
		Positions: append([]geometry.Float3(nil), mesh.Positions...),
		Radii:     make([]float64, len(mesh.Positions)),
	}
	for i := range pc.Radii {
		pc.Radii[i] = radius
	}
	g.ReplacePointCloud(pc)
	p.SetOutput("Geometry", g)
}

// Register registers the point node types.
func (m *Module) Register(r *registry.Registry) {
	r.Register(&registry.NodeType{
		Name: FromMeshType,
		Inputs: []nodetree.SocketSpec{
			{Identifier: "Geometry", Type: value.Geometry},
			{Identifier: "Radius", Type: value.Float, Default: 0.05},
		},
		Outputs:  []nodetree.SocketSpec{{Identifier: "Geometry", Type: value.Geometry}},
		Executor: registry.CustomExecute{Fn: FromMesh},
	})
}
