// Package geometry holds the minimal mesh and point cloud containers that
// flow through a node tree as geometry socket values.
package geometry

import "math"

// Float3 is a three component vector.
type Float3 [3]float64

// Add returns a + b.
func (a Float3) Add(b Float3) Float3 {
	return Float3{a[0] + b[0], a[1] + b[1], a[2] + b[2]}
}

// Mul returns the component-wise product of a and b.
func (a Float3) Mul(b Float3) Float3 {
	return Float3{a[0] * b[0], a[1] * b[1], a[2] * b[2]}
}

// Scale returns a multiplied by s.
func (a Float3) Scale(s float64) Float3 {
	return Float3{a[0] * s, a[1] * s, a[2] * s}
}

// Length returns the euclidean length of a.
func (a Float3) Length() float64 {
	return math.Sqrt(a[0]*a[0] + a[1]*a[1] + a[2]*a[2])
}

// Mesh is an indexed polygon mesh.
type Mesh struct {
	Positions []Float3 `yaml:"positions"`
	Edges     [][2]int `yaml:"edges,omitempty"`
	Faces     [][]int  `yaml:"faces,omitempty"`
}

// VertexCount returns the number of vertices.
func (m *Mesh) VertexCount() int {
	if m == nil {
		return 0
	}
	return len(m.Positions)
}

// Copy returns a deep copy of m. A nil mesh copies to nil.
func (m *Mesh) Copy() *Mesh {
	if m == nil {
		return nil
	}
	out := &Mesh{
		Positions: append([]Float3(nil), m.Positions...),
		Edges:     append([][2]int(nil), m.Edges...),
	}
	if m.Faces != nil {
		out.Faces = make([][]int, len(m.Faces))
		for i, f := range m.Faces {
			out.Faces[i] = append([]int(nil), f...)
		}
	}
	return out
}

// PointCloud is an unconnected set of points with per-point radii.
type PointCloud struct {
	Positions []Float3  `yaml:"positions"`
	Radii     []float64 `yaml:"radii,omitempty"`
}

// PointCount returns the number of points.
func (p *PointCloud) PointCount() int {
	if p == nil {
		return 0
	}
	return len(p.Positions)
}

// Copy returns a deep copy of p. A nil point cloud copies to nil.
func (p *PointCloud) Copy() *PointCloud {
	if p == nil {
		return nil
	}
	return &PointCloud{
		Positions: append([]Float3(nil), p.Positions...),
		Radii:     append([]float64(nil), p.Radii...),
	}
}

// Geometry groups the components a node tree operates on. Each component is
// optional. The zero value is an empty geometry.
type Geometry struct {
	mesh       *Mesh
	pointCloud *PointCloud
}

// FromMesh wraps m without copying it.
func FromMesh(m *Mesh) *Geometry {
	return &Geometry{mesh: m}
}

// FromPointCloud wraps p without copying it.
func FromPointCloud(p *PointCloud) *Geometry {
	return &Geometry{pointCloud: p}
}

// HasMesh reports whether g carries a mesh component.
func (g *Geometry) HasMesh() bool {
	return g != nil && g.mesh != nil
}

// HasPointCloud reports whether g carries a point cloud component.
func (g *Geometry) HasPointCloud() bool {
	return g != nil && g.pointCloud != nil
}

// Mesh returns the mesh component, or nil.
func (g *Geometry) Mesh() *Mesh {
	if g == nil {
		return nil
	}
	return g.mesh
}

// PointCloud returns the point cloud component, or nil.
func (g *Geometry) PointCloud() *PointCloud {
	if g == nil {
		return nil
	}
	return g.pointCloud
}

// ReplaceMesh sets the mesh component.
func (g *Geometry) ReplaceMesh(m *Mesh) {
	g.mesh = m
}

// ReplacePointCloud sets the point cloud component.
func (g *Geometry) ReplacePointCloud(p *PointCloud) {
	g.pointCloud = p
}

// ReleaseMesh removes the mesh component from g and hands it to the caller.
func (g *Geometry) ReleaseMesh() *Mesh {
	if g == nil {
		return nil
	}
	m := g.mesh
	g.mesh = nil
	return m
}

// Clear drops both components.
func (g *Geometry) Clear() {
	if g == nil {
		return
	}
	g.mesh = nil
	g.pointCloud = nil
}

// Copy returns a deep copy of g. A nil geometry copies to an empty one.
func (g *Geometry) Copy() *Geometry {
	if g == nil {
		return &Geometry{}
	}
	return &Geometry{mesh: g.mesh.Copy(), pointCloud: g.pointCloud.Copy()}
}

// TransformPositions applies fn to every vertex and point position in place.
func (g *Geometry) TransformPositions(fn func(Float3) Float3) {
	if g == nil {
		return
	}
	if g.mesh != nil {
		for i, p := range g.mesh.Positions {
			g.mesh.Positions[i] = fn(p)
		}
	}
	if g.pointCloud != nil {
		for i, p := range g.pointCloud.Positions {
			g.pointCloud.Positions[i] = fn(p)
		}
	}
}
