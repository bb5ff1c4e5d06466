package registry

import (
	"errors"
	"fmt"
	"log/slog"
	"sort"

	"github.com/vk/geonodes/internal/nodetree"
)

// ErrUnknownNodeType is returned when a tree refers to an unregistered type.
var ErrUnknownNodeType = errors.New("unknown node type")

// Module is the interface that all node modules must implement to be registered.
type Module interface {
	Register(r *Registry)
}

// NodeType describes one kind of node.
type NodeType struct {
	Name string
	// Inputs and Outputs are the declared sockets. Group boundary nodes
	// leave them empty; their sockets come from the tree's interface.
	Inputs  []nodetree.SocketSpec
	Outputs []nodetree.SocketSpec
	// Executor computes the outputs. Nil only for group boundary nodes,
	// which are never executed.
	Executor Executor
}

// Registry holds the node types of a single application instance.
type Registry struct {
	types map[string]*NodeType
}

// New creates an empty Registry.
func New() *Registry {
	return &Registry{types: make(map[string]*NodeType)}
}

// Register adds a node type. It panics on duplicate names and on non-group
// types without an executor.
func (r *Registry) Register(nt *NodeType) {
	if _, exists := r.types[nt.Name]; exists {
		panic(fmt.Sprintf("node type '%s' already registered", nt.Name))
	}
	if nt.Executor == nil && !isGroupType(nt.Name) {
		panic(fmt.Sprintf("node type '%s' has no executor", nt.Name))
	}
	slog.Debug("Registering node type.", "name", nt.Name)
	r.types[nt.Name] = nt
}

// Lookup returns the node type registered under name.
func (r *Registry) Lookup(name string) (*NodeType, bool) {
	nt, ok := r.types[name]
	return nt, ok
}

// Names returns the registered type names, sorted.
func (r *Registry) Names() []string {
	names := make([]string, 0, len(r.types))
	for name := range r.types {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

// AddNode instantiates a node of a registered type on b. defaults overrides
// the declared literal of input sockets by identifier.
func (r *Registry) AddNode(b *nodetree.Builder, id, typeName string, defaults map[string]any) (*nodetree.Node, error) {
	nt, ok := r.types[typeName]
	if !ok {
		return nil, fmt.Errorf("node %s: %w: %s", id, ErrUnknownNodeType, typeName)
	}
	inputs := make([]nodetree.SocketSpec, len(nt.Inputs))
	copy(inputs, nt.Inputs)
	used := 0
	for i := range inputs {
		if v, ok := defaults[inputs[i].Identifier]; ok {
			inputs[i].Default = v
			used++
		}
	}
	if used != len(defaults) {
		for key := range defaults {
			if !hasSocket(inputs, key) {
				return nil, fmt.Errorf("node %s: %w: %s has no input %q", id, nodetree.ErrUnknownSocket, typeName, key)
			}
		}
	}
	return b.AddNode(id, typeName, inputs, nt.Outputs)
}

func hasSocket(specs []nodetree.SocketSpec, identifier string) bool {
	for _, s := range specs {
		if s.Identifier == identifier {
			return true
		}
	}
	return false
}

func isGroupType(name string) bool {
	return name == nodetree.GroupInputType || name == nodetree.GroupOutputType
}
