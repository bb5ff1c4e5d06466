// Package modifier applies a geometry node tree to incoming geometry.
//
// It binds the modifier's input geometry and its persisted settings to the
// tree's group input sockets, evaluates the single geometry output and
// hands the result back. Trees with an unsupported shape leave the input
// untouched.
package modifier

import (
	"context"
	"errors"
	"fmt"

	"github.com/vk/geonodes/internal/conversion"
	"github.com/vk/geonodes/internal/ctxlog"
	"github.com/vk/geonodes/internal/evaluator"
	"github.com/vk/geonodes/internal/geometry"
	"github.com/vk/geonodes/internal/nodetree"
	"github.com/vk/geonodes/internal/registry"
	"github.com/vk/geonodes/internal/settings"
	"github.com/vk/geonodes/internal/value"
)

var (
	// ErrGroupInputs is reported for trees with more than one group input node.
	ErrGroupInputs = errors.New("tree must have at most one group input node")
	// ErrGroupOutput is reported unless the tree has exactly one group output
	// node with a single geometry socket.
	ErrGroupOutput = errors.New("tree must have exactly one group output node with a single geometry socket")
)

// Option configures a Modifier.
type Option func(*Modifier)

// WithConversions sets the conversion registry used during evaluation.
func WithConversions(c *conversion.Registry) Option {
	return func(m *Modifier) {
		m.conversions = c
	}
}

// Modifier evaluates one node tree with one set of settings.
type Modifier struct {
	tree        *nodetree.Tree
	registry    *registry.Registry
	settings    *settings.Settings
	conversions *conversion.Registry
}

// New creates a modifier. A nil s behaves like empty settings.
func New(tree *nodetree.Tree, reg *registry.Registry, s *settings.Settings, opts ...Option) *Modifier {
	if s == nil {
		s = settings.New()
	}
	m := &Modifier{tree: tree, registry: reg, settings: s}
	for _, opt := range opts {
		opt(m)
	}
	return m
}

// Settings returns the modifier's settings.
func (m *Modifier) Settings() *settings.Settings { return m.settings }

// Result is the outcome of ModifyGeometry.
type Result struct {
	Geometry *geometry.Geometry
	// Applied is false when the tree was not evaluated and Geometry is the
	// input itself.
	Applied bool
	// Skipped explains why the tree was not evaluated.
	Skipped     error
	Diagnostics []evaluator.Diagnostic
}

// ModifyGeometry evaluates the tree on g. g may be modified in place. When
// the tree cannot be evaluated g is returned as is.
func (m *Modifier) ModifyGeometry(ctx context.Context, g *geometry.Geometry) Result {
	logger := ctxlog.FromContext(ctx)

	groupInputs, requested, binding, err := m.prepare()
	if err != nil {
		logger.Warn("Node tree not evaluated, returning input unchanged.", "tree", m.tree.Name(), "error", err)
		return Result{Geometry: g, Skipped: err}
	}

	var opts []evaluator.Option
	if m.conversions != nil {
		opts = append(opts, evaluator.WithConversions(m.conversions))
	}
	out, diags := ComputeGeometry(ctx, binding, groupInputs, requested, g, m.settings, opts...)
	for _, d := range diags {
		logger.Warn("Socket value replaced by default.", "diagnostic", d.String())
	}
	return Result{Geometry: out, Applied: true, Diagnostics: diags}
}

// ModifyMesh evaluates the tree on mesh and returns the resulting mesh. A
// tree with an unsupported shape returns mesh itself. A result without a
// mesh component yields an empty mesh.
func (m *Modifier) ModifyMesh(ctx context.Context, mesh *geometry.Mesh) *geometry.Mesh {
	res := m.ModifyGeometry(ctx, geometry.FromMesh(mesh))
	if !res.Applied {
		return mesh
	}
	out := res.Geometry.ReleaseMesh()
	if out == nil {
		return geometry.NewEmptyMesh()
	}
	return out
}

// ModifyPointCloud returns pc unchanged; trees are evaluated on meshes only.
func (m *Modifier) ModifyPointCloud(_ context.Context, pc *geometry.PointCloud) *geometry.PointCloud {
	return pc
}

// prepare checks the tree shape and resolves everything evaluation needs.
func (m *Modifier) prepare() ([]*nodetree.OutputSocket, *nodetree.InputSocket, *registry.Binding, error) {
	inputNodes := m.tree.NodesByType(nodetree.GroupInputType)
	if len(inputNodes) > 1 {
		return nil, nil, nil, fmt.Errorf("%w: found %d", ErrGroupInputs, len(inputNodes))
	}
	outputNodes := m.tree.NodesByType(nodetree.GroupOutputType)
	if len(outputNodes) != 1 {
		return nil, nil, nil, fmt.Errorf("%w: found %d output nodes", ErrGroupOutput, len(outputNodes))
	}
	sockets := outputNodes[0].Inputs()
	if len(sockets) != 1 {
		return nil, nil, nil, fmt.Errorf("%w: found %d sockets", ErrGroupOutput, len(sockets))
	}
	if !sockets[0].Type().Equals(value.Geometry) {
		return nil, nil, nil, fmt.Errorf("%w: socket is %s", ErrGroupOutput, sockets[0].Type())
	}

	if err := m.tree.Validate(); err != nil {
		return nil, nil, nil, err
	}
	binding, err := m.registry.Bind(m.tree)
	if err != nil {
		return nil, nil, nil, err
	}

	var groupInputs []*nodetree.OutputSocket
	if len(inputNodes) == 1 {
		groupInputs = inputNodes[0].Outputs()
	}
	return groupInputs, sockets[0], binding, nil
}
