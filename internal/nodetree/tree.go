package nodetree

import (
	"github.com/vk/geonodes/internal/value"
)

// Node type names of the group boundary nodes.
const (
	GroupInputType  = "NodeGroupInput"
	GroupOutputType = "NodeGroupOutput"
)

// Tree is a node graph.
type Tree struct {
	name        string
	nodes       []*Node
	byID        map[string]*Node
	groupInputs []*GroupInput
}

// Name returns the tree name.
func (t *Tree) Name() string { return t.name }

// Nodes returns all nodes in insertion order.
func (t *Tree) Nodes() []*Node { return t.nodes }

// Node looks up a node by id.
func (t *Tree) Node(id string) (*Node, bool) {
	n, ok := t.byID[id]
	return n, ok
}

// NodesByType returns the nodes of the given type in insertion order.
func (t *Tree) NodesByType(typeName string) []*Node {
	var out []*Node
	for _, n := range t.nodes {
		if n.typeName == typeName {
			out = append(out, n)
		}
	}
	return out
}

// GroupInputs returns the group-level input slots.
func (t *Tree) GroupInputs() []*GroupInput { return t.groupInputs }

// Node is a vertex of the tree.
type Node struct {
	id       string
	typeName string
	inputs   []*InputSocket
	outputs  []*OutputSocket
}

// ID returns the node's stable identifier.
func (n *Node) ID() string { return n.id }

// Type returns the node type name used to look up its behavior.
func (n *Node) Type() string { return n.typeName }

// Inputs returns the input sockets in declaration order.
func (n *Node) Inputs() []*InputSocket { return n.inputs }

// Outputs returns the output sockets in declaration order.
func (n *Node) Outputs() []*OutputSocket { return n.outputs }

// Input looks up an input socket by identifier.
func (n *Node) Input(identifier string) (*InputSocket, bool) {
	for _, s := range n.inputs {
		if s.identifier == identifier {
			return s, true
		}
	}
	return nil, false
}

// Output looks up an output socket by identifier.
func (n *Node) Output(identifier string) (*OutputSocket, bool) {
	for _, s := range n.outputs {
		if s.identifier == identifier {
			return s, true
		}
	}
	return nil, false
}

// IsGroupInput reports whether n is a group input node.
func (n *Node) IsGroupInput() bool { return n.typeName == GroupInputType }

// IsGroupOutput reports whether n is a group output node.
func (n *Node) IsGroupOutput() bool { return n.typeName == GroupOutputType }

// String implements fmt.Stringer.
func (n *Node) String() string { return n.id }

type socket struct {
	node       *Node
	identifier string
	name       string
	typ        *value.Type
	available  bool
	index      int
	def        any
}

// Node returns the owning node.
func (s *socket) Node() *Node { return s.node }

// Identifier returns the socket identifier, unique per node and direction.
func (s *socket) Identifier() string { return s.identifier }

// Name returns the display name.
func (s *socket) Name() string { return s.name }

// Type returns the socket value type.
func (s *socket) Type() *value.Type { return s.typ }

// Available reports whether the socket takes part in evaluation given the
// node's current state.
func (s *socket) Available() bool { return s.available }

// SetAvailable toggles availability.
func (s *socket) SetAvailable(available bool) { s.available = available }

// Index returns the socket position on its node.
func (s *socket) Index() int { return s.index }

// DefaultValue returns the socket's literal value. Inputs read it when
// nothing is connected; group input nodes expose it on their outputs. It is
// shared and must be copied before use.
func (s *socket) DefaultValue() any { return s.def }

// InputSocket is an input port.
type InputSocket struct {
	socket
	linked            []*OutputSocket
	linkedGroupInputs []*GroupInput
}

// LinkedSockets returns the upstream output sockets.
func (s *InputSocket) LinkedSockets() []*OutputSocket { return s.linked }

// LinkedGroupInputs returns the upstream group-level input slots.
func (s *InputSocket) LinkedGroupInputs() []*GroupInput { return s.linkedGroupInputs }

// UpstreamCount returns how many sources feed s.
func (s *InputSocket) UpstreamCount() int {
	return len(s.linked) + len(s.linkedGroupInputs)
}

// String implements fmt.Stringer.
func (s *InputSocket) String() string { return s.node.id + ".in." + s.identifier }

// OutputSocket is an output port.
type OutputSocket struct {
	socket
	linked []*InputSocket
}

// LinkedSockets returns the downstream input sockets in link order.
func (s *OutputSocket) LinkedSockets() []*InputSocket { return s.linked }

// String implements fmt.Stringer.
func (s *OutputSocket) String() string { return s.node.id + ".out." + s.identifier }

// GroupInput is an input slot of an enclosing group that is not connected
// any further. Sockets linked to it read its default value.
type GroupInput struct {
	identifier string
	typ        *value.Type
	def        any
}

// Identifier returns the slot identifier.
func (g *GroupInput) Identifier() string { return g.identifier }

// Type returns the slot value type.
func (g *GroupInput) Type() *value.Type { return g.typ }

// DefaultValue returns the slot's literal value. It is shared and must be
// copied before use.
func (g *GroupInput) DefaultValue() any { return g.def }
