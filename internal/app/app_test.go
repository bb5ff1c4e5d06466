package app

import (
	"bytes"
	"context"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/vk/geonodes/internal/geometry"
	"github.com/vk/geonodes/internal/meshio"
	"github.com/vk/geonodes/internal/modifier"
	"github.com/vk/geonodes/internal/testutil"
)

const translateTree = `
	name = "lift"

	node "in" {
	  type = "NodeGroupInput"
	  output "Geometry" { type = geometry }
	  output "Height" {
	    type    = float
	    default = 1.0
	  }
	}

	node "offset" {
	  type = "CombineXYZ"
	}

	node "move" {
	  type = "Translate"
	}

	node "out" {
	  type = "NodeGroupOutput"
	  input "Geometry" { type = geometry }
	}

	link {
	  from = "in.Height"
	  to   = "offset.Z"
	}
	link {
	  from = "offset.Vector"
	  to   = "move.Offset"
	}
	link {
	  from = "in.Geometry"
	  to   = "move.Geometry"
	}
	link {
	  from = "move.Geometry"
	  to   = "out.Geometry"
	}
`

func newTestApp(t *testing.T, cfg Config) (*App, *bytes.Buffer, *testutil.SafeBuffer) {
	t.Helper()
	config, err := NewConfig(cfg)
	require.NoError(t, err)
	out := &bytes.Buffer{}
	logs := &testutil.SafeBuffer{}
	return NewApp(out, logs, config), out, logs
}

func TestRunWritesToOutput(t *testing.T) {
	dir := testutil.WriteFiles(t, map[string]string{"tree.hcl": translateTree + `
		settings {
		  Height = 2
		}
	`})

	a, out, logs := newTestApp(t, Config{TreePath: dir, LogLevel: "debug"})
	require.NoError(t, a.Run(context.Background()))

	g, err := meshio.Read(out)
	require.NoError(t, err)
	require.True(t, g.HasMesh())
	assert.Equal(t, geometry.Float3{-1, -1, 1}, g.Mesh().Positions[0])
	assert.Contains(t, logs.String(), "Node tree evaluated.")
}

func TestRunWithMeshFiles(t *testing.T) {
	dir := testutil.WriteFiles(t, map[string]string{
		"tree/tree.hcl": translateTree,
		"in.yaml": `
			mesh:
			  positions: [[1, 2, 3]]
		`,
	})
	outPath := filepath.Join(dir, "out.yaml")

	a, out, _ := newTestApp(t, Config{
		TreePath: filepath.Join(dir, "tree"),
		MeshPath: filepath.Join(dir, "in.yaml"),
		OutPath:  outPath,
	})
	require.NoError(t, a.Run(context.Background()))
	assert.Zero(t, out.Len())

	g, err := meshio.ReadFile(outPath)
	require.NoError(t, err)
	assert.Equal(t, []geometry.Float3{{1, 2, 4}}, g.Mesh().Positions)
}

func TestRunGridPrimitive(t *testing.T) {
	dir := testutil.WriteFiles(t, map[string]string{"tree.hcl": translateTree})

	a, out, _ := newTestApp(t, Config{TreePath: dir, Primitive: PrimitiveGrid})
	require.NoError(t, a.Run(context.Background()))

	g, err := meshio.Read(out)
	require.NoError(t, err)
	assert.Equal(t, 100, g.Mesh().VertexCount())
}

func TestRunUpdateInterface(t *testing.T) {
	dir := testutil.WriteFiles(t, map[string]string{"tree.hcl": translateTree + `
		settings {
		  Height = true
		  Stale  = 1
		}
	`})

	// The wrongly typed Height is replaced by the socket default.
	a, out, logs := newTestApp(t, Config{TreePath: dir, UpdateInterface: true, LogLevel: "debug"})
	require.NoError(t, a.Run(context.Background()))

	g, err := meshio.Read(out)
	require.NoError(t, err)
	assert.Equal(t, geometry.Float3{-1, -1, 0}, g.Mesh().Positions[0])
	assert.Contains(t, logs.String(), "Replacing property of wrong kind")
	assert.NotContains(t, logs.String(), "Removing", "properties without a socket are left alone")
}

func TestRunUnsupportedTree(t *testing.T) {
	unsupported := `
		node "move" {
		  type = "Translate"
		}
	`

	t.Run("passes input through", func(t *testing.T) {
		dir := testutil.WriteFiles(t, map[string]string{"tree.hcl": unsupported})
		a, out, logs := newTestApp(t, Config{TreePath: dir})
		require.NoError(t, a.Run(context.Background()))

		g, err := meshio.Read(out)
		require.NoError(t, err)
		assert.Equal(t, geometry.NewCube(2).Positions, g.Mesh().Positions)
		assert.Contains(t, logs.String(), "returning input unchanged")
	})

	t.Run("strict fails", func(t *testing.T) {
		dir := testutil.WriteFiles(t, map[string]string{"tree.hcl": unsupported})
		a, _, _ := newTestApp(t, Config{TreePath: dir, Strict: true})
		err := a.Run(context.Background())
		require.Error(t, err)
		assert.ErrorIs(t, err, modifier.ErrGroupOutput)
	})
}

func TestRunLoadErrors(t *testing.T) {
	dir := testutil.WriteFiles(t, map[string]string{"tree.hcl": `node "a" {`})
	a, _, _ := newTestApp(t, Config{TreePath: dir})
	err := a.Run(context.Background())
	require.Error(t, err)
	assert.True(t, strings.HasPrefix(err.Error(), "failed to load node tree"))

	dir = testutil.WriteFiles(t, map[string]string{"tree.hcl": translateTree})
	a, _, _ = newTestApp(t, Config{TreePath: dir, MeshPath: filepath.Join(dir, "missing.yaml")})
	err = a.Run(context.Background())
	require.Error(t, err)
	assert.Contains(t, err.Error(), "failed to read input geometry")
}

func TestNewLoggerFormats(t *testing.T) {
	var buf bytes.Buffer
	newLogger("info", "json", &buf).Info("hello", "k", "v")
	assert.Contains(t, buf.String(), `"msg":"hello"`)

	buf.Reset()
	newLogger("warn", "text", &buf).Info("hidden")
	assert.Empty(t, buf.String())

	newLogger("debug", "text", &buf).Debug("shown", "k", "v")
	assert.Contains(t, buf.String(), "shown")
	assert.Contains(t, buf.String(), "k=v")
}
