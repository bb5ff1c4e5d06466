package geometry

// NewCube returns an axis aligned cube centered on the origin with the given
// edge length. It has 8 vertices, 12 edges and 6 quad faces.
func NewCube(size float64) *Mesh {
	h := size / 2
	return &Mesh{
		Positions: []Float3{
			{-h, -h, -h}, {h, -h, -h}, {h, h, -h}, {-h, h, -h},
			{-h, -h, h}, {h, -h, h}, {h, h, h}, {-h, h, h},
		},
		Edges: [][2]int{
			{0, 1}, {1, 2}, {2, 3}, {3, 0},
			{4, 5}, {5, 6}, {6, 7}, {7, 4},
			{0, 4}, {1, 5}, {2, 6}, {3, 7},
		},
		Faces: [][]int{
			{0, 3, 2, 1},
			{4, 5, 6, 7},
			{0, 1, 5, 4},
			{1, 2, 6, 5},
			{2, 3, 7, 6},
			{3, 0, 4, 7},
		},
	}
}

// NewEmptyMesh returns a mesh without any elements.
func NewEmptyMesh() *Mesh {
	return &Mesh{}
}

// NewGrid returns a flat grid in the XY plane centered on the origin, with
// n vertices along each side spanning size. n below 2 is raised to 2.
func NewGrid(size float64, n int) *Mesh {
	if n < 2 {
		n = 2
	}
	m := &Mesh{}
	step := size / float64(n-1)
	start := -size / 2
	for y := 0; y < n; y++ {
		for x := 0; x < n; x++ {
			m.Positions = append(m.Positions, Float3{start + float64(x)*step, start + float64(y)*step, 0})
		}
	}
	index := func(x, y int) int { return y*n + x }
	for y := 0; y < n; y++ {
		for x := 0; x < n; x++ {
			if x+1 < n {
				m.Edges = append(m.Edges, [2]int{index(x, y), index(x+1, y)})
			}
			if y+1 < n {
				m.Edges = append(m.Edges, [2]int{index(x, y), index(x, y+1)})
			}
			if x+1 < n && y+1 < n {
				m.Faces = append(m.Faces, []int{index(x, y), index(x+1, y), index(x+1, y+1), index(x, y+1)})
			}
		}
	}
	return m
}
