package value

import (
	"reflect"
	"sort"

	"github.com/vk/geonodes/internal/geometry"
	"github.com/zclconf/go-cty/cty"
)

// Built-in socket types.
var (
	Float = NewType(TypeSpec[float64]{
		Name: "float",
		Cty:  cty.Number,
	})
	Int = NewType(TypeSpec[int]{
		Name: "int",
		Cty:  cty.Number,
	})
	Bool = NewType(TypeSpec[bool]{
		Name: "bool",
		Cty:  cty.Bool,
	})
	String = NewType(TypeSpec[string]{
		Name: "string",
		Cty:  cty.String,
	})
	Vector = NewType(TypeSpec[geometry.Float3]{
		Name: "vector",
		Cty:  cty.List(cty.Number),
	})
	Geometry = NewType(TypeSpec[*geometry.Geometry]{
		Name:     "geometry",
		Default:  &geometry.Geometry{},
		Cty:      geometryCapsule,
		Copy:     (*geometry.Geometry).Copy,
		Destruct: (*geometry.Geometry).Clear,
	})
)

var geometryCapsule = cty.Capsule("geometry", reflect.TypeOf(geometry.Geometry{}))

var builtins = map[string]*Type{
	Float.Name():    Float,
	Int.Name():      Int,
	Bool.Name():     Bool,
	String.Name():   String,
	Vector.Name():   Vector,
	Geometry.Name(): Geometry,
}

// Lookup returns the built-in type with the given socket type name.
func Lookup(name string) (*Type, bool) {
	t, ok := builtins[name]
	return t, ok
}

// Names returns the names of all built-in types in sorted order.
func Names() []string {
	names := make([]string, 0, len(builtins))
	for name := range builtins {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}
