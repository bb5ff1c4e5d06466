package geometry

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestFloat3(t *testing.T) {
	a := Float3{1, 2, 3}
	assert.Equal(t, Float3{2, 4, 6}, a.Scale(2))
	assert.Equal(t, Float3{2, 3, 4}, a.Add(Float3{1, 1, 1}))
	assert.Equal(t, Float3{1, 4, 9}, a.Mul(a))
	assert.InDelta(t, 5.0, Float3{3, 4, 0}.Length(), 1e-12)
}

func TestCube(t *testing.T) {
	m := NewCube(2)
	assert.Equal(t, 8, m.VertexCount())
	assert.Len(t, m.Edges, 12)
	assert.Len(t, m.Faces, 6)
	for _, p := range m.Positions {
		for _, c := range p {
			assert.InDelta(t, 1.0, abs(c), 1e-12)
		}
	}
}

func TestGrid(t *testing.T) {
	m := NewGrid(2, 3)
	assert.Equal(t, 9, m.VertexCount())
	assert.Len(t, m.Edges, 12)
	assert.Len(t, m.Faces, 4)
	assert.Equal(t, Float3{-1, -1, 0}, m.Positions[0])
	assert.Equal(t, Float3{1, 1, 0}, m.Positions[8])

	assert.Equal(t, 4, NewGrid(1, 0).VertexCount())
}

func TestGeometryCopyIsDeep(t *testing.T) {
	g := FromMesh(NewCube(2))
	g.ReplacePointCloud(&PointCloud{Positions: []Float3{{1, 1, 1}}, Radii: []float64{0.5}})

	c := g.Copy()
	require.NotSame(t, g.Mesh(), c.Mesh())
	require.NotSame(t, g.PointCloud(), c.PointCloud())

	c.TransformPositions(func(p Float3) Float3 { return p.Scale(10) })
	assert.Equal(t, Float3{-1, -1, -1}, g.Mesh().Positions[0])
	assert.Equal(t, Float3{-10, -10, -10}, c.Mesh().Positions[0])
	assert.Equal(t, Float3{1, 1, 1}, g.PointCloud().Positions[0])

	c.Mesh().Faces[0][0] = 99
	assert.Equal(t, 0, g.Mesh().Faces[0][0])
}

func TestGeometryNilSafety(t *testing.T) {
	var g *Geometry
	assert.False(t, g.HasMesh())
	assert.Nil(t, g.Mesh())
	assert.Nil(t, g.ReleaseMesh())
	assert.NotNil(t, g.Copy())
	g.Clear()
	g.TransformPositions(func(p Float3) Float3 { return p })
}

func TestReleaseMesh(t *testing.T) {
	m := NewCube(1)
	g := FromMesh(m)
	assert.Same(t, m, g.ReleaseMesh())
	assert.False(t, g.HasMesh())
	assert.Nil(t, g.ReleaseMesh())
}

func abs(v float64) float64 {
	if v < 0 {
		return -v
	}
	return v
}
