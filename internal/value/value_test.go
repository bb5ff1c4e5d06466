package value

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/vk/geonodes/internal/arena"
	"github.com/vk/geonodes/internal/geometry"
	"github.com/zclconf/go-cty/cty"
)

func TestNewTypeDescriptor(t *testing.T) {
	assert.Equal(t, uintptr(8), Float.Size())
	assert.Equal(t, uintptr(8), Float.Alignment())
	assert.Equal(t, uintptr(1), Bool.Size())
	assert.Equal(t, uintptr(24), Vector.Size())
	assert.Equal(t, 0.0, Float.DefaultValue())
	assert.Equal(t, geometry.Float3{}, Vector.DefaultValue())
	assert.True(t, Float.CtyType().Equals(cty.Number))

	t.Run("zero sized types still take storage", func(t *testing.T) {
		unit := NewType(TypeSpec[struct{}]{Name: "unit"})
		assert.Equal(t, uintptr(1), unit.Size())
		assert.True(t, unit.CtyType().Equals(cty.DynamicPseudoType))
	})
}

func TestTypeEquals(t *testing.T) {
	assert.True(t, Float.Equals(Float))
	assert.False(t, Float.Equals(Int))

	// Two descriptors are distinct even when they share a Go type.
	other := NewType(TypeSpec[float64]{Name: "float"})
	assert.False(t, Float.Equals(other))
}

func TestCopyAndDestruct(t *testing.T) {
	var copies, destructs int
	counted := NewType(TypeSpec[[]int]{
		Name:    "ints",
		Default: []int{1, 2},
		Copy: func(v []int) []int {
			copies++
			return append([]int(nil), v...)
		},
		Destruct: func([]int) { destructs++ },
	})

	a := arena.New()
	p := NewDefault(a, counted)
	require.True(t, p.IsValid())
	assert.Equal(t, 1, copies)

	got := Get[[]int](p)
	got[0] = 100
	assert.Equal(t, []int{1, 2}, counted.DefaultValue(), "default must not alias owned copies")

	p.Destruct()
	assert.Equal(t, 1, destructs)
	assert.False(t, p.IsValid())

	p.Destruct()
	assert.Equal(t, 1, destructs, "destructing an empty pointer is a no-op")
}

func TestTake(t *testing.T) {
	a := arena.New()
	g := geometry.FromMesh(geometry.NewCube(1))
	p := New(a, Geometry, g)

	out := p.Take()
	assert.Same(t, g, out)
	assert.False(t, p.IsValid())
	assert.True(t, g.HasMesh(), "take must not destruct")
}

func TestGeometryTypeCopiesDeeply(t *testing.T) {
	a := arena.New()
	g := geometry.FromMesh(geometry.NewCube(2))
	slot := Allocate(a, Geometry)
	Geometry.CopyToUninitialized(g, slot)

	c := slot.Load().(*geometry.Geometry)
	require.NotSame(t, g, c)
	require.NotSame(t, g.Mesh(), c.Mesh())
	assert.Equal(t, g.Mesh().Positions, c.Mesh().Positions)
}

func TestLookup(t *testing.T) {
	for _, name := range Names() {
		typ, ok := Lookup(name)
		require.True(t, ok, name)
		assert.Equal(t, name, typ.Name())
	}
	_, ok := Lookup("matrix")
	assert.False(t, ok)
	assert.Equal(t, []string{"bool", "float", "geometry", "int", "string", "vector"}, Names())
}

func TestPointerString(t *testing.T) {
	a := arena.New()
	assert.Equal(t, "float(1.5)", New(a, Float, 1.5).String())
	assert.Equal(t, "<invalid>", Pointer{}.String())
}
