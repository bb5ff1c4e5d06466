package conversion

import (
	"github.com/vk/geonodes/internal/geometry"
	"github.com/vk/geonodes/internal/value"
)

// Default returns a registry populated with the implicit conversions between
// the built-in socket types.
func Default() *Registry {
	r := New()

	RegisterFunc(r, value.Float, value.Int, func(a float64) int { return int(a) })
	RegisterFunc(r, value.Float, value.Bool, func(a float64) bool { return a > 0 })
	RegisterFunc(r, value.Float, value.Vector, func(a float64) geometry.Float3 { return geometry.Float3{a, a, a} })

	RegisterFunc(r, value.Int, value.Float, func(a int) float64 { return float64(a) })
	RegisterFunc(r, value.Int, value.Bool, func(a int) bool { return a > 0 })
	RegisterFunc(r, value.Int, value.Vector, func(a int) geometry.Float3 {
		f := float64(a)
		return geometry.Float3{f, f, f}
	})

	RegisterFunc(r, value.Bool, value.Float, func(a bool) float64 { return float64(boolToInt(a)) })
	RegisterFunc(r, value.Bool, value.Int, boolToInt)
	RegisterFunc(r, value.Bool, value.Vector, func(a bool) geometry.Float3 {
		f := float64(boolToInt(a))
		return geometry.Float3{f, f, f}
	})

	RegisterFunc(r, value.Vector, value.Float, geometry.Float3.Length)

	return r
}

func boolToInt(a bool) int {
	if a {
		return 1
	}
	return 0
}
