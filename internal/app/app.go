package app

import (
	"io"
	"log/slog"

	"github.com/vk/geonodes/internal/hcl"
	"github.com/vk/geonodes/internal/registry"
)

// App encapsulates the application's dependencies, configuration, and lifecycle.
type App struct {
	outW     io.Writer
	logger   *slog.Logger
	config   *Config
	registry *registry.Registry
	loader   *hcl.Loader
}

// NewApp is the constructor for the main application. Geometry is written to
// outW unless the config names an output file; logs go to logW. Without
// modules the core node modules are registered.
func NewApp(outW, logW io.Writer, cfg *Config, modules ...registry.Module) *App {
	logger := newLogger(cfg.LogLevel, cfg.LogFormat, logW)
	logger.Debug("Logger configured successfully.")

	reg := NewRegistry(modules...)
	logger.Debug("All node modules registered.", "node_types", len(reg.Names()))

	return &App{
		outW:     outW,
		logger:   logger,
		config:   cfg,
		registry: reg,
		loader:   hcl.NewLoader(reg),
	}
}

// Registry returns the application's registry. This is primarily for testing.
func (a *App) Registry() *registry.Registry {
	return a.registry
}
