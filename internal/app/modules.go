package app

import (
	"github.com/vk/geonodes/internal/registry"
	"github.com/vk/geonodes/modules/arith"
	"github.com/vk/geonodes/modules/group"
	"github.com/vk/geonodes/modules/points"
	"github.com/vk/geonodes/modules/transform"
)

// coreModules is the definitive list of all node modules that are compiled
// into the geonodes binary.
var coreModules = []registry.Module{
	&group.Module{},
	&transform.Module{},
	&arith.Module{},
	&points.Module{},
}

// NewRegistry returns a registry holding the given modules, or the core
// modules when none are given.
func NewRegistry(modules ...registry.Module) *registry.Registry {
	reg := registry.New()
	if len(modules) == 0 {
		modules = coreModules
	}
	for _, mod := range modules {
		mod.Register(reg)
	}
	return reg
}
