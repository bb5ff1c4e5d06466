package app

import (
	"context"
	"fmt"

	"github.com/vk/geonodes/internal/ctxlog"
	"github.com/vk/geonodes/internal/geometry"
	"github.com/vk/geonodes/internal/meshio"
	"github.com/vk/geonodes/internal/modifier"
)

// Run loads the tree, evaluates it on the input geometry and writes the
// result.
func (a *App) Run(ctx context.Context) error {
	ctx = ctxlog.WithLogger(ctx, a.logger)
	a.logger.Debug("App.Run method started.")

	doc, err := a.loader.Load(ctx, a.config.TreePath)
	if err != nil {
		return fmt.Errorf("failed to load node tree: %w", err)
	}
	a.logger.Info("Node tree loaded.", "tree", doc.Tree.Name(), "nodes", len(doc.Tree.Nodes()), "settings", doc.Settings.Len())

	input, err := a.inputGeometry()
	if err != nil {
		return err
	}

	m := modifier.New(doc.Tree, a.registry, doc.Settings)
	if a.config.UpdateInterface {
		m.UpdateInterface(ctx)
	}

	res := m.ModifyGeometry(ctx, input)
	if res.Skipped != nil && a.config.Strict {
		return fmt.Errorf("node tree %s not evaluated: %w", doc.Tree.Name(), res.Skipped)
	}
	a.logger.Info("Node tree evaluated.",
		"applied", res.Applied,
		"vertices", res.Geometry.Mesh().VertexCount(),
		"points", res.Geometry.PointCloud().PointCount(),
		"diagnostics", len(res.Diagnostics),
	)

	if err := a.writeGeometry(res.Geometry); err != nil {
		return err
	}
	a.logger.Debug("App.Run method finished.")
	return nil
}

func (a *App) inputGeometry() (*geometry.Geometry, error) {
	if a.config.MeshPath != "" {
		g, err := meshio.ReadFile(a.config.MeshPath)
		if err != nil {
			return nil, fmt.Errorf("failed to read input geometry: %w", err)
		}
		return g, nil
	}
	a.logger.Debug("No input mesh given, using primitive.", "primitive", a.config.Primitive)
	switch a.config.Primitive {
	case PrimitiveGrid:
		return geometry.FromMesh(geometry.NewGrid(2, 10)), nil
	default:
		return geometry.FromMesh(geometry.NewCube(2)), nil
	}
}

func (a *App) writeGeometry(g *geometry.Geometry) error {
	if a.config.OutPath == "" {
		if err := meshio.Write(a.outW, g); err != nil {
			return fmt.Errorf("failed to write output geometry: %w", err)
		}
		return nil
	}
	if err := meshio.WriteFile(a.config.OutPath, g); err != nil {
		return fmt.Errorf("failed to write output geometry: %w", err)
	}
	a.logger.Info("Output geometry written.", "path", a.config.OutPath)
	return nil
}
