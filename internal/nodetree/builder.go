package nodetree

import (
	"errors"
	"fmt"
	"reflect"

	"github.com/vk/geonodes/internal/value"
)

var (
	// ErrInvalidNodeID is returned when a node id is empty.
	ErrInvalidNodeID = errors.New("node ID must not be empty")
	// ErrDuplicateNodeID is returned when a node id is already taken.
	ErrDuplicateNodeID = errors.New("duplicate node ID")
	// ErrDuplicateSocket is returned when two sockets of one direction share
	// an identifier.
	ErrDuplicateSocket = errors.New("duplicate socket identifier")
	// ErrMissingType is returned when a socket or slot has no value type.
	ErrMissingType = errors.New("socket type must be set")
	// ErrDefaultType is returned when a literal default does not match the
	// socket type.
	ErrDefaultType = errors.New("default value does not match socket type")
	// ErrUnknownNode is returned when a link refers to a missing node.
	ErrUnknownNode = errors.New("unknown node")
	// ErrUnknownSocket is returned when a link refers to a missing socket.
	ErrUnknownSocket = errors.New("unknown socket")
	// ErrUnknownGroupInput is returned when a link refers to a missing
	// group-level input slot.
	ErrUnknownGroupInput = errors.New("unknown group input")
)

// SocketSpec declares one socket of a node.
type SocketSpec struct {
	Identifier string
	// Name defaults to Identifier.
	Name string
	Type *value.Type
	// Default is the socket literal. Nil means the type's default.
	Default any
	// Unavailable excludes the socket from evaluation.
	Unavailable bool
}

// Builder assembles a Tree. It is not safe for concurrent use.
type Builder struct {
	tree *Tree
}

// NewBuilder starts an empty tree.
func NewBuilder(name string) *Builder {
	return &Builder{tree: &Tree{name: name, byID: make(map[string]*Node)}}
}

// AddNode adds a node with the given sockets.
func (b *Builder) AddNode(id, typeName string, inputs, outputs []SocketSpec) (*Node, error) {
	if id == "" {
		return nil, ErrInvalidNodeID
	}
	if _, exists := b.tree.byID[id]; exists {
		return nil, fmt.Errorf("%w: %s", ErrDuplicateNodeID, id)
	}
	n := &Node{id: id, typeName: typeName}

	seen := make(map[string]struct{})
	for i, spec := range inputs {
		s, err := newSocket(n, spec, i, seen)
		if err != nil {
			return nil, fmt.Errorf("node %s input: %w", id, err)
		}
		n.inputs = append(n.inputs, &InputSocket{socket: s})
	}

	seen = make(map[string]struct{})
	for i, spec := range outputs {
		s, err := newSocket(n, spec, i, seen)
		if err != nil {
			return nil, fmt.Errorf("node %s output: %w", id, err)
		}
		n.outputs = append(n.outputs, &OutputSocket{socket: s})
	}

	b.tree.nodes = append(b.tree.nodes, n)
	b.tree.byID[id] = n
	return n, nil
}

func newSocket(n *Node, spec SocketSpec, index int, seen map[string]struct{}) (socket, error) {
	if spec.Type == nil {
		return socket{}, fmt.Errorf("%s: %w", spec.Identifier, ErrMissingType)
	}
	if _, dup := seen[spec.Identifier]; dup {
		return socket{}, fmt.Errorf("%w: %s", ErrDuplicateSocket, spec.Identifier)
	}
	def, err := checkDefault(spec.Type, spec.Default)
	if err != nil {
		return socket{}, fmt.Errorf("%s: %w", spec.Identifier, err)
	}
	seen[spec.Identifier] = struct{}{}
	name := spec.Name
	if name == "" {
		name = spec.Identifier
	}
	return socket{
		node:       n,
		identifier: spec.Identifier,
		name:       name,
		typ:        spec.Type,
		available:  !spec.Unavailable,
		index:      index,
		def:        def,
	}, nil
}

func checkDefault(t *value.Type, def any) (any, error) {
	if def == nil {
		return t.DefaultValue(), nil
	}
	if reflect.TypeOf(def) != t.GoType() {
		return nil, fmt.Errorf("%w: %T is not %s", ErrDefaultType, def, t.Name())
	}
	return def, nil
}

// Link connects an output socket to an input socket. Links are recorded in
// call order; feeding an input twice is accepted here and reported by
// Validate.
func (b *Builder) Link(fromNode, fromSocket, toNode, toSocket string) error {
	from, err := b.output(fromNode, fromSocket)
	if err != nil {
		return err
	}
	to, err := b.input(toNode, toSocket)
	if err != nil {
		return err
	}
	from.linked = append(from.linked, to)
	to.linked = append(to.linked, from)
	return nil
}

// AddGroupInput declares a group-level input slot.
func (b *Builder) AddGroupInput(identifier string, t *value.Type, def any) (*GroupInput, error) {
	if t == nil {
		return nil, fmt.Errorf("group input %s: %w", identifier, ErrMissingType)
	}
	def, err := checkDefault(t, def)
	if err != nil {
		return nil, fmt.Errorf("group input %s: %w", identifier, err)
	}
	g := &GroupInput{identifier: identifier, typ: t, def: def}
	b.tree.groupInputs = append(b.tree.groupInputs, g)
	return g, nil
}

// LinkGroupInput feeds an input socket from a group-level input slot.
func (b *Builder) LinkGroupInput(identifier, toNode, toSocket string) error {
	var slot *GroupInput
	for _, g := range b.tree.groupInputs {
		if g.identifier == identifier {
			slot = g
			break
		}
	}
	if slot == nil {
		return fmt.Errorf("%w: %s", ErrUnknownGroupInput, identifier)
	}
	to, err := b.input(toNode, toSocket)
	if err != nil {
		return err
	}
	to.linkedGroupInputs = append(to.linkedGroupInputs, slot)
	return nil
}

// Build returns the assembled tree. The builder must not be used afterwards.
func (b *Builder) Build() *Tree {
	t := b.tree
	b.tree = nil
	return t
}

func (b *Builder) output(nodeID, identifier string) (*OutputSocket, error) {
	n, ok := b.tree.byID[nodeID]
	if !ok {
		return nil, fmt.Errorf("%w: %s", ErrUnknownNode, nodeID)
	}
	s, ok := n.Output(identifier)
	if !ok {
		return nil, fmt.Errorf("%w: %s has no output %q", ErrUnknownSocket, nodeID, identifier)
	}
	return s, nil
}

func (b *Builder) input(nodeID, identifier string) (*InputSocket, error) {
	n, ok := b.tree.byID[nodeID]
	if !ok {
		return nil, fmt.Errorf("%w: %s", ErrUnknownNode, nodeID)
	}
	s, ok := n.Input(identifier)
	if !ok {
		return nil, fmt.Errorf("%w: %s has no input %q", ErrUnknownSocket, nodeID, identifier)
	}
	return s, nil
}
