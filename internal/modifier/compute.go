package modifier

import (
	"context"

	"github.com/vk/geonodes/internal/arena"
	"github.com/vk/geonodes/internal/ctxlog"
	"github.com/vk/geonodes/internal/evaluator"
	"github.com/vk/geonodes/internal/geometry"
	"github.com/vk/geonodes/internal/nodetree"
	"github.com/vk/geonodes/internal/registry"
	"github.com/vk/geonodes/internal/settings"
	"github.com/vk/geonodes/internal/value"
)

// ComputeGeometry evaluates the socket requested and returns the geometry it
// receives. groupInputs are the outputs of the group input node: the first
// one takes input when it is a geometry socket, the others are initialized
// from s. Ownership of input passes to the evaluation; it is cleared when
// the tree has no geometry input.
func ComputeGeometry(
	ctx context.Context,
	binding *registry.Binding,
	groupInputs []*nodetree.OutputSocket,
	requested *nodetree.InputSocket,
	input *geometry.Geometry,
	s *settings.Settings,
	opts ...evaluator.Option,
) (*geometry.Geometry, []evaluator.Diagnostic) {
	return computeGeometry(ctx, arena.New(), binding, groupInputs, requested, input, s, opts...)
}

// computeGeometry runs one pass in a and resets it once the output geometry
// has been taken out.
func computeGeometry(
	ctx context.Context,
	a *arena.Arena,
	binding *registry.Binding,
	groupInputs []*nodetree.OutputSocket,
	requested *nodetree.InputSocket,
	input *geometry.Geometry,
	s *settings.Settings,
	opts ...evaluator.Option,
) (*geometry.Geometry, []evaluator.Diagnostic) {
	defer a.Reset()
	opts = append([]evaluator.Option{evaluator.WithArena(a)}, opts...)
	ev := evaluator.New(binding, opts...)
	logger := ctxlog.FromContext(ctx)
	if input == nil {
		input = &geometry.Geometry{}
	}

	initial := make(map[*nodetree.OutputSocket]value.Pointer, len(groupInputs))
	remaining := groupInputs
	if len(remaining) > 0 && remaining[0].Type().Equals(value.Geometry) {
		initial[remaining[0]] = value.New(a, value.Geometry, input)
		remaining = remaining[1:]
	} else {
		logger.Debug("Tree has no geometry input, dropping input geometry.")
		value.Geometry.Destruct(input)
	}
	for _, socket := range remaining {
		initial[socket] = value.New(a, socket.Type(), initializeGroupInput(ctx, socket, s))
	}

	results := ev.Evaluate(ctx, initial, []*nodetree.InputSocket{requested})
	out := results[0].Take().(*geometry.Geometry)
	return out, ev.Diagnostics()
}

// initializeGroupInput returns an owned value for a group input socket.
// Sockets whose type cannot be stored in settings get the type default.
// Missing properties, properties the socket does not accept and unreadable
// values fall back to the socket default.
func initializeGroupInput(ctx context.Context, socket *nodetree.OutputSocket, s *settings.Settings) any {
	t := socket.Type()
	kind, ok := settings.KindFor(t)
	if !ok {
		return copyOf(t, t.DefaultValue())
	}
	prop, ok := s.Get(socket.Identifier())
	if !ok || !prop.Accepts(kind) {
		return copyOf(t, socket.DefaultValue())
	}
	v, err := prop.ValueFor(kind)
	if err != nil {
		ctxlog.FromContext(ctx).Warn("Unreadable setting, using socket default.", "identifier", socket.Identifier(), "error", err)
		return copyOf(t, socket.DefaultValue())
	}
	return v
}

// copyOf returns an owned copy of src.
func copyOf(t *value.Type, src any) any {
	var holder cell
	t.CopyToUninitialized(src, &holder)
	return holder.v
}

// cell is a single value destination.
type cell struct{ v any }

func (c *cell) Store(v any) { c.v = v }
