package app

import (
	"errors"
	"fmt"
)

// Primitives that can stand in for an input mesh file.
const (
	PrimitiveCube = "cube"
	PrimitiveGrid = "grid"
)

// Config holds all the necessary configuration for an App instance to run.
type Config struct {
	TreePath string // hcl file or directory
	MeshPath string // input geometry yaml; Primitive is used when empty
	OutPath  string // output geometry yaml; stdout when empty

	Primitive string
	// UpdateInterface syncs the loaded settings with the tree's group
	// inputs before evaluating.
	UpdateInterface bool
	// Strict turns a tree that cannot be evaluated into an error instead of
	// passing the input through.
	Strict bool

	LogFormat string
	LogLevel  string
}

// NewConfig validates cfg and fills in defaults.
func NewConfig(cfg Config) (*Config, error) {
	if cfg.TreePath == "" {
		return nil, errors.New("TreePath is a required configuration field and cannot be empty")
	}

	if cfg.Primitive == "" {
		cfg.Primitive = PrimitiveCube
	}
	switch cfg.Primitive {
	case PrimitiveCube, PrimitiveGrid:
	default:
		return nil, fmt.Errorf("invalid primitive %q: must be '%s' or '%s'", cfg.Primitive, PrimitiveCube, PrimitiveGrid)
	}

	if cfg.LogFormat == "" {
		cfg.LogFormat = "text"
	}
	if cfg.LogFormat != "text" && cfg.LogFormat != "json" {
		return nil, errors.New("invalid log-format: must be 'text' or 'json'")
	}

	if cfg.LogLevel == "" {
		cfg.LogLevel = "info"
	}
	switch cfg.LogLevel {
	case "debug", "info", "warn", "error":
	default:
		return nil, errors.New("invalid log-level: must be 'debug', 'info', 'warn', or 'error'")
	}

	return &cfg, nil
}
