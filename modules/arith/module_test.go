package arith

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/vk/geonodes/internal/arena"
	"github.com/vk/geonodes/internal/geometry"
	"github.com/vk/geonodes/internal/nodetree"
	"github.com/vk/geonodes/internal/registry"
	"github.com/vk/geonodes/internal/value"
)

func TestMathNodes(t *testing.T) {
	testCases := []struct {
		typeName string
		inputs   map[string]any
		output   string
		want     any
	}{
		{AddType, map[string]any{"A": 1.5, "B": 2.0}, "Value", 3.5},
		{AddType, map[string]any{}, "Value", 0.0},
		{MultiplyType, map[string]any{"A": 1.5, "B": 2.0}, "Value", 3.0},
		{MultiplyType, map[string]any{}, "Value", 1.0},
		{CombineXYZType, map[string]any{"X": 1.0, "Y": 2.0, "Z": 3.0}, "Vector", geometry.Float3{1, 2, 3}},
	}

	for _, tc := range testCases {
		t.Run(tc.typeName, func(t *testing.T) {
			reg := registry.New()
			(&Module{}).Register(reg)
			tree := nodetree.NewBuilder("test")
			n, err := reg.AddNode(tree, "n", tc.typeName, nil)
			require.NoError(t, err)

			_, err = reg.Bind(tree.Build())
			require.NoError(t, err, "signatures match the declared sockets")

			a := arena.New()
			values := make(map[string]value.Pointer)
			for _, s := range n.Inputs() {
				v, ok := tc.inputs[s.Identifier()]
				if !ok {
					v = s.DefaultValue()
				}
				values[s.Identifier()] = value.New(a, s.Type(), v)
			}
			nt, _ := reg.Lookup(tc.typeName)
			p := registry.NewParams(context.Background(), n, a, values)
			registry.Execute(nt.Executor, p)

			out, ok := p.ExtractOutput(tc.output)
			require.True(t, ok)
			assert.Equal(t, tc.want, out.Get())
		})
	}
}
