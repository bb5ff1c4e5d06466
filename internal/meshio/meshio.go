// Package meshio reads and writes geometry as YAML documents.
//
//	mesh:
//	  positions: [[0, 0, 0], [1, 0, 0], [0, 1, 0]]
//	  faces: [[0, 1, 2]]
//	point_cloud:
//	  positions: [[0, 0, 1]]
//	  radii: [0.05]
package meshio

import (
	"errors"
	"fmt"
	"io"
	"os"

	"github.com/vk/geonodes/internal/geometry"
	"gopkg.in/yaml.v3"
)

// ErrInvalidGeometry is returned when a document refers to missing vertices
// or carries mismatched point attributes.
var ErrInvalidGeometry = errors.New("invalid geometry")

type document struct {
	Mesh       *geometry.Mesh       `yaml:"mesh,omitempty"`
	PointCloud *geometry.PointCloud `yaml:"point_cloud,omitempty"`
}

// Read decodes a geometry document. Unknown keys are rejected.
func Read(r io.Reader) (*geometry.Geometry, error) {
	dec := yaml.NewDecoder(r)
	dec.KnownFields(true)

	var doc document
	if err := dec.Decode(&doc); err != nil {
		if errors.Is(err, io.EOF) {
			return &geometry.Geometry{}, nil
		}
		return nil, fmt.Errorf("error parsing YAML: %w", err)
	}
	if err := validate(&doc); err != nil {
		return nil, err
	}

	g := &geometry.Geometry{}
	g.ReplaceMesh(doc.Mesh)
	g.ReplacePointCloud(doc.PointCloud)
	return g, nil
}

// ReadFile reads a geometry document from path.
func ReadFile(path string) (*geometry.Geometry, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("error reading geometry file: %w", err)
	}
	defer f.Close()
	return Read(f)
}

// Write encodes g. Absent components are omitted.
func Write(w io.Writer, g *geometry.Geometry) error {
	enc := yaml.NewEncoder(w)
	enc.SetIndent(2)
	if err := enc.Encode(document{Mesh: g.Mesh(), PointCloud: g.PointCloud()}); err != nil {
		return fmt.Errorf("error encoding YAML: %w", err)
	}
	return enc.Close()
}

// WriteFile writes g to path, replacing any existing file.
func WriteFile(path string, g *geometry.Geometry) error {
	f, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("error creating geometry file: %w", err)
	}
	if err := Write(f, g); err != nil {
		f.Close()
		return err
	}
	return f.Close()
}

func validate(doc *document) error {
	if m := doc.Mesh; m != nil {
		n := len(m.Positions)
		for i, e := range m.Edges {
			if !inRange(n, e[0], e[1]) {
				return fmt.Errorf("%w: edge %d refers to a missing vertex", ErrInvalidGeometry, i)
			}
		}
		for i, f := range m.Faces {
			if len(f) < 3 {
				return fmt.Errorf("%w: face %d has %d corners", ErrInvalidGeometry, i, len(f))
			}
			if !inRange(n, f...) {
				return fmt.Errorf("%w: face %d refers to a missing vertex", ErrInvalidGeometry, i)
			}
		}
	}
	if pc := doc.PointCloud; pc != nil && len(pc.Radii) > 0 && len(pc.Radii) != len(pc.Positions) {
		return fmt.Errorf("%w: %d radii for %d points", ErrInvalidGeometry, len(pc.Radii), len(pc.Positions))
	}
	return nil
}

func inRange(n int, indices ...int) bool {
	for _, i := range indices {
		if i < 0 || i >= n {
			return false
		}
	}
	return true
}
