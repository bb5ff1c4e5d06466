package group

import (
	"github.com/vk/geonodes/internal/nodetree"
	"github.com/vk/geonodes/internal/registry"
)

// Module implements the registry.Module interface for this package.
type Module struct{}

// Register registers the group boundary node types. They have no executor:
// group input outputs are seeded by the caller and group output inputs are
// what the caller requests.
func (m *Module) Register(r *registry.Registry) {
	r.Register(&registry.NodeType{Name: nodetree.GroupInputType})
	r.Register(&registry.NodeType{Name: nodetree.GroupOutputType})
}
