package evaluator

import (
	"context"
	"math"
	"testing"

	"github.com/google/go-cmp/cmp"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/vk/geonodes/internal/arena"
	"github.com/vk/geonodes/internal/geometry"
	"github.com/vk/geonodes/internal/multifn"
	"github.com/vk/geonodes/internal/nodetree"
	"github.com/vk/geonodes/internal/registry"
	"github.com/vk/geonodes/internal/value"
)

type counter struct {
	copies    int
	destructs int
}

func countedType(c *counter) *value.Type {
	return value.NewType(value.TypeSpec[int]{
		Name:     "counted",
		Copy:     func(v int) int { c.copies++; return v },
		Destruct: func(int) { c.destructs++ },
	})
}

func sock(id string, t *value.Type) nodetree.SocketSpec {
	return nodetree.SocketSpec{Identifier: id, Type: t}
}

func socks(t *value.Type, ids ...string) []nodetree.SocketSpec {
	out := make([]nodetree.SocketSpec, len(ids))
	for i, id := range ids {
		out[i] = sock(id, t)
	}
	return out
}

// fixture builds a tree and its registry side by side.
type fixture struct {
	t   *testing.T
	reg *registry.Registry
	b   *nodetree.Builder
	a   *arena.Arena
}

func newFixture(t *testing.T) *fixture {
	return &fixture{t: t, reg: registry.New(), b: nodetree.NewBuilder("test"), a: arena.New()}
}

func (f *fixture) node(id, typ string, inputs, outputs []nodetree.SocketSpec) *nodetree.Node {
	n, err := f.b.AddNode(id, typ, inputs, outputs)
	require.NoError(f.t, err)
	return n
}

func (f *fixture) link(from, fromSocket, to, toSocket string) {
	require.NoError(f.t, f.b.Link(from, fromSocket, to, toSocket))
}

func (f *fixture) build() (*nodetree.Tree, *Evaluator) {
	tree := f.b.Build()
	binding, err := f.reg.Bind(tree)
	require.NoError(f.t, err)
	return tree, New(binding, WithArena(f.a))
}

func input(t *testing.T, tree *nodetree.Tree, nodeID, socket string) *nodetree.InputSocket {
	n, ok := tree.Node(nodeID)
	require.True(t, ok)
	s, ok := n.Input(socket)
	require.True(t, ok)
	return s
}

func output(t *testing.T, tree *nodetree.Tree, nodeID, socket string) *nodetree.OutputSocket {
	n, ok := tree.Node(nodeID)
	require.True(t, ok)
	s, ok := n.Output(socket)
	require.True(t, ok)
	return s
}

func registerPass(reg *registry.Registry, t *value.Type) {
	reg.Register(&registry.NodeType{
		Name:    "Pass",
		Inputs:  socks(t, "V"),
		Outputs: socks(t, "V"),
		Executor: registry.CustomExecute{Fn: func(p *registry.Params) {
			p.SetOutput("V", registry.Input[int](p, "V"))
		}},
	})
}

func TestOwnershipCopies(t *testing.T) {
	testCases := []struct {
		name   string
		sinks  int
		copies int
	}{
		{name: "linear chain", sinks: 1, copies: 0},
		{name: "fan-out to two", sinks: 2, copies: 1},
		{name: "fan-out to three", sinks: 3, copies: 2},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			c := &counter{}
			typ := countedType(c)
			f := newFixture(t)
			registerPass(f.reg, typ)

			f.node("in", nodetree.GroupInputType, nil, socks(typ, "V"))
			f.node("a", "Pass", socks(typ, "V"), socks(typ, "V"))
			f.node("b", "Pass", socks(typ, "V"), socks(typ, "V"))
			f.link("in", "V", "a", "V")
			f.link("a", "V", "b", "V")

			var ids []string
			for i := 0; i < tc.sinks; i++ {
				ids = append(ids, string(rune('x'+i)))
			}
			f.node("out", nodetree.GroupOutputType, socks(typ, ids...), nil)
			for _, id := range ids {
				f.link("b", "V", "out", id)
			}

			tree, ev := f.build()
			var requested []*nodetree.InputSocket
			for _, id := range ids {
				requested = append(requested, input(t, tree, "out", id))
			}
			initial := map[*nodetree.OutputSocket]value.Pointer{
				output(t, tree, "in", "V"): value.New(f.a, typ, 42),
			}

			results := ev.Evaluate(context.Background(), initial, requested)
			require.Len(t, results, tc.sinks)
			for _, r := range results {
				assert.Equal(t, 42, value.Get[int](r))
			}
			assert.Equal(t, tc.copies, c.copies)
			assert.Equal(t, 0, c.destructs)
		})
	}
}

func TestDiamondComputesOnce(t *testing.T) {
	f := newFixture(t)
	f.reg.Register(&registry.NodeType{
		Name:    "Source",
		Outputs: socks(value.Float, "Value"),
		Executor: registry.CustomExecute{Fn: func(p *registry.Params) {
			p.SetOutput("Value", 3.0)
		}},
	})
	f.reg.Register(&registry.NodeType{
		Name:    "Add",
		Inputs:  socks(value.Float, "A", "B"),
		Outputs: socks(value.Float, "Value"),
		Executor: registry.PureFunction{Fn: multifn.NewSI2SO("add", value.Float, value.Float, value.Float,
			func(a, b float64) float64 { return a + b })},
	})

	src := f.node("src", "Source", nil, socks(value.Float, "Value"))
	f.node("left", "Add", socks(value.Float, "A", "B"), socks(value.Float, "Value"))
	f.node("right", "Add", socks(value.Float, "A", "B"), socks(value.Float, "Value"))
	join := f.node("join", "Add", socks(value.Float, "A", "B"), socks(value.Float, "Value"))
	f.node("out", nodetree.GroupOutputType, socks(value.Float, "Value"), nil)
	f.link("src", "Value", "left", "A")
	f.link("src", "Value", "right", "A")
	f.link("src", "Value", "right", "B")
	f.link("left", "Value", "join", "A")
	f.link("right", "Value", "join", "B")
	f.link("join", "Value", "out", "Value")

	tree, ev := f.build()
	results := ev.Evaluate(context.Background(), nil, []*nodetree.InputSocket{input(t, tree, "out", "Value")})

	require.Len(t, results, 1)
	// left = 3 + 0 (unconnected B), right = 3 + 3, join = 9
	assert.Equal(t, 9.0, value.Get[float64](results[0]))
	assert.Equal(t, 1, ev.Executions(src))
	assert.Equal(t, 1, ev.Executions(join))
	assert.Empty(t, ev.Diagnostics())
}

func TestDefaultSubstitution(t *testing.T) {
	f := newFixture(t)
	f.node("in", nodetree.GroupInputType, nil, socks(value.Float, "Value"))
	f.node("out", nodetree.GroupOutputType, socks(value.Geometry, "Geometry"), nil)
	f.link("in", "Value", "out", "Geometry")

	tree, ev := f.build()
	initial := map[*nodetree.OutputSocket]value.Pointer{
		output(t, tree, "in", "Value"): value.New(f.a, value.Float, 2.5),
	}
	results := ev.Evaluate(context.Background(), initial, []*nodetree.InputSocket{input(t, tree, "out", "Geometry")})

	require.Len(t, results, 1)
	g := value.Get[*geometry.Geometry](results[0])
	require.NotNil(t, g)
	assert.False(t, g.HasMesh())
	assert.NotSame(t, value.Geometry.DefaultValue(), g, "the default is copied, never shared")

	require.Len(t, ev.Diagnostics(), 1)
	d := ev.Diagnostics()[0]
	assert.Equal(t, NotConvertible, d.Kind)
	assert.Equal(t, "in.out.Value", d.From)
	assert.Equal(t, "out.in.Geometry", d.To)
	assert.Equal(t, "not_convertible: in.out.Value (float) -> out.in.Geometry (geometry)", d.String())
}

func TestImplicitConversion(t *testing.T) {
	f := newFixture(t)
	f.node("in", nodetree.GroupInputType, nil, socks(value.Float, "Value"))
	f.node("out", nodetree.GroupOutputType, []nodetree.SocketSpec{
		sock("Int", value.Int), sock("Float", value.Float), sock("Vector", value.Vector),
	}, nil)
	f.link("in", "Value", "out", "Int")
	f.link("in", "Value", "out", "Float")
	f.link("in", "Value", "out", "Vector")

	tree, ev := f.build()
	initial := map[*nodetree.OutputSocket]value.Pointer{
		output(t, tree, "in", "Value"): value.New(f.a, value.Float, 2.75),
	}
	results := ev.Evaluate(context.Background(), initial, []*nodetree.InputSocket{
		input(t, tree, "out", "Int"),
		input(t, tree, "out", "Float"),
		input(t, tree, "out", "Vector"),
	})

	require.Len(t, results, 3)
	assert.Equal(t, 2, value.Get[int](results[0]))
	assert.Equal(t, 2.75, value.Get[float64](results[1]))
	assert.Equal(t, geometry.Float3{2.75, 2.75, 2.75}, value.Get[geometry.Float3](results[2]))
	assert.Empty(t, ev.Diagnostics())
}

func TestNonFiniteFloatToString(t *testing.T) {
	f := newFixture(t)
	f.node("in", nodetree.GroupInputType, nil, socks(value.Float, "Value"))
	f.node("out", nodetree.GroupOutputType, socks(value.String, "Label"), nil)
	f.link("in", "Value", "out", "Label")

	tree, ev := f.build()
	initial := map[*nodetree.OutputSocket]value.Pointer{
		output(t, tree, "in", "Value"): value.New(f.a, value.Float, math.NaN()),
	}
	var results []value.Pointer
	require.NotPanics(t, func() {
		results = ev.Evaluate(context.Background(), initial, []*nodetree.InputSocket{input(t, tree, "out", "Label")})
	})

	require.Len(t, results, 1)
	assert.Equal(t, "", value.Get[string](results[0]))
	require.Len(t, ev.Diagnostics(), 1)
	assert.Equal(t, ConversionFailed, ev.Diagnostics()[0].Kind)
}

func TestUnconnectedInputs(t *testing.T) {
	f := newFixture(t)
	f.node("out", nodetree.GroupOutputType, []nodetree.SocketSpec{
		{Identifier: "size", Type: value.Float, Default: 1.0},
		{Identifier: "count", Type: value.Int},
	}, nil)

	tree, ev := f.build()
	results := ev.Evaluate(context.Background(), nil, []*nodetree.InputSocket{
		input(t, tree, "out", "size"),
		input(t, tree, "out", "count"),
	})
	assert.Equal(t, 1.0, value.Get[float64](results[0]))
	assert.Equal(t, 0, value.Get[int](results[1]))
}

func TestGroupInputSlots(t *testing.T) {
	f := newFixture(t)
	f.node("out", nodetree.GroupOutputType, socks(value.Float, "Same", "Converted"), nil)
	_, err := f.b.AddGroupInput("size", value.Float, 3.0)
	require.NoError(t, err)
	_, err = f.b.AddGroupInput("count", value.Int, 4)
	require.NoError(t, err)
	require.NoError(t, f.b.LinkGroupInput("size", "out", "Same"))
	require.NoError(t, f.b.LinkGroupInput("count", "out", "Converted"))

	tree, ev := f.build()
	results := ev.Evaluate(context.Background(), nil, []*nodetree.InputSocket{
		input(t, tree, "out", "Same"),
		input(t, tree, "out", "Converted"),
	})
	assert.Equal(t, 3.0, value.Get[float64](results[0]))
	assert.Equal(t, 4.0, value.Get[float64](results[1]))
}

func TestMultipleUpstreamPanics(t *testing.T) {
	f := newFixture(t)
	f.node("out", nodetree.GroupOutputType, socks(value.Float, "Value"), nil)
	_, _ = f.b.AddGroupInput("a", value.Float, nil)
	_, _ = f.b.AddGroupInput("b", value.Float, nil)
	require.NoError(t, f.b.LinkGroupInput("a", "out", "Value"))
	require.NoError(t, f.b.LinkGroupInput("b", "out", "Value"))

	tree, ev := f.build()
	assert.PanicsWithValue(t, "evaluator: input out.in.Value has 2 upstream sources", func() {
		ev.Evaluate(context.Background(), nil, []*nodetree.InputSocket{input(t, tree, "out", "Value")})
	})
}

func TestUnavailableSockets(t *testing.T) {
	f := newFixture(t)
	f.reg.Register(&registry.NodeType{
		Name: "Switch",
		Executor: registry.CustomExecute{Fn: func(p *registry.Params) {
			assert.Panics(t, func() { p.ExtractInput("Hidden") })
			p.SetOutput("Value", registry.Input[float64](p, "Shown")*10)
		}},
	})
	f.node("in", nodetree.GroupInputType, nil, socks(value.Float, "Value"))
	f.node("sw", "Switch", []nodetree.SocketSpec{
		{Identifier: "Hidden", Type: value.Float, Unavailable: true},
		{Identifier: "Shown", Type: value.Float, Default: 2.0},
	}, socks(value.Float, "Value"))
	f.node("out", nodetree.GroupOutputType, []nodetree.SocketSpec{
		sock("Value", value.Float),
		{Identifier: "Off", Type: value.Float, Unavailable: true},
	}, nil)
	f.link("in", "Value", "sw", "Hidden")
	f.link("sw", "Value", "out", "Value")
	f.link("sw", "Value", "out", "Off")

	tree, ev := f.build()
	initial := map[*nodetree.OutputSocket]value.Pointer{
		output(t, tree, "in", "Value"): value.New(f.a, value.Float, 99.0),
	}
	results := ev.Evaluate(context.Background(), initial, []*nodetree.InputSocket{input(t, tree, "out", "Value")})
	assert.Equal(t, 20.0, value.Get[float64](results[0]))
}

func TestUnconsumedValuesAreDestructed(t *testing.T) {
	c := &counter{}
	typ := countedType(c)
	f := newFixture(t)
	registerPass(f.reg, typ)

	f.node("in", nodetree.GroupInputType, nil, socks(typ, "V", "Dead"))
	f.node("a", "Pass", socks(typ, "V"), socks(typ, "V"))
	f.node("out", nodetree.GroupOutputType, socks(typ, "X", "Y"), nil)
	f.link("in", "V", "a", "V")
	f.link("a", "V", "out", "X")
	f.link("a", "V", "out", "Y")

	tree, ev := f.build()
	initial := map[*nodetree.OutputSocket]value.Pointer{
		output(t, tree, "in", "V"):    value.New(f.a, typ, 1),
		output(t, tree, "in", "Dead"): value.New(f.a, typ, 2),
	}
	results := ev.Evaluate(context.Background(), initial, []*nodetree.InputSocket{input(t, tree, "out", "X")})

	require.Len(t, results, 1)
	assert.Equal(t, 1, value.Get[int](results[0]))
	assert.Equal(t, 1, c.copies, "Y received a copy")
	// Dead has no consumer and Y was never requested.
	assert.Equal(t, 2, c.destructs)
	assert.True(t, results[0].IsValid())
}

func TestDeterminism(t *testing.T) {
	run := func() *geometry.Geometry {
		f := newFixture(t)
		f.reg.Register(&registry.NodeType{
			Name:    "Scale",
			Inputs:  []nodetree.SocketSpec{sock("Geometry", value.Geometry), sock("Scale", value.Float)},
			Outputs: socks(value.Geometry, "Geometry"),
			Executor: registry.CustomExecute{Fn: func(p *registry.Params) {
				g := registry.Input[*geometry.Geometry](p, "Geometry")
				s := registry.Input[float64](p, "Scale")
				g.TransformPositions(func(v geometry.Float3) geometry.Float3 { return v.Scale(s) })
				p.SetOutput("Geometry", g)
			}},
		})
		f.node("in", nodetree.GroupInputType, nil, socks(value.Geometry, "Geometry"))
		f.node("s", "Scale", []nodetree.SocketSpec{
			sock("Geometry", value.Geometry),
			{Identifier: "Scale", Type: value.Float, Default: 1.5},
		}, socks(value.Geometry, "Geometry"))
		f.node("out", nodetree.GroupOutputType, socks(value.Geometry, "Geometry"), nil)
		f.link("in", "Geometry", "s", "Geometry")
		f.link("s", "Geometry", "out", "Geometry")

		tree, ev := f.build()
		initial := map[*nodetree.OutputSocket]value.Pointer{
			output(t, tree, "in", "Geometry"): value.New(f.a, value.Geometry, geometry.FromMesh(geometry.NewCube(2))),
		}
		results := ev.Evaluate(context.Background(), initial, []*nodetree.InputSocket{input(t, tree, "out", "Geometry")})
		return value.Get[*geometry.Geometry](results[0])
	}

	first, second := run(), run()
	if diff := cmp.Diff(first.Mesh(), second.Mesh()); diff != "" {
		t.Errorf("evaluation is not deterministic (-first +second):\n%s", diff)
	}
	assert.Equal(t, 8, first.Mesh().VertexCount())
}

func TestEvaluateTwicePanics(t *testing.T) {
	f := newFixture(t)
	f.node("out", nodetree.GroupOutputType, socks(value.Float, "Value"), nil)
	tree, ev := f.build()
	requested := []*nodetree.InputSocket{input(t, tree, "out", "Value")}

	ev.Evaluate(context.Background(), nil, requested)
	assert.Panics(t, func() { ev.Evaluate(context.Background(), nil, requested) })
	assert.Equal(t, 1, ev.ArenaStats().Allocations)
	assert.NotEmpty(t, ev.ID().String())
}
