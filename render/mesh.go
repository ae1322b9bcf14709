package render

import (
	"gonum.org/v1/gonum/spatial/r3"
)

// Triangle3 is a 3D triangle.
type Triangle3 struct {
	V [3]r3.Vec
}

// Normal returns the unit normal of the triangle following its winding.
// Degenerate triangles have a zero normal.
func (t Triangle3) Normal() r3.Vec {
	e1 := r3.Sub(t.V[1], t.V[0])
	e2 := r3.Sub(t.V[2], t.V[0])
	n := r3.Cross(e1, e2)
	if r3.Norm2(n) == 0 {
		return r3.Vec{}
	}
	return r3.Unit(n)
}

// Area returns the triangle area.
func (t Triangle3) Area() float64 {
	e1 := r3.Sub(t.V[1], t.V[0])
	e2 := r3.Sub(t.V[2], t.V[0])
	return 0.5 * r3.Norm(r3.Cross(e1, e2))
}

// Mesh is an indexed triangle mesh. Triangles index Vertices and are
// wound counter clockwise when seen from outside.
type Mesh struct {
	Vertices  []r3.Vec
	Triangles [][3]int
}

// Triangle returns the i'th triangle of the mesh.
func (m *Mesh) Triangle(i int) Triangle3 {
	f := m.Triangles[i]
	return Triangle3{V: [3]r3.Vec{m.Vertices[f[0]], m.Vertices[f[1]], m.Vertices[f[2]]}}
}

// Triangles3 expands the mesh into unindexed triangles.
func (m *Mesh) Triangles3() []Triangle3 {
	out := make([]Triangle3, len(m.Triangles))
	for i := range m.Triangles {
		out[i] = m.Triangle(i)
	}
	return out
}

// Area returns the summed triangle area.
func (m *Mesh) Area() (area float64) {
	for i := range m.Triangles {
		area += m.Triangle(i).Area()
	}
	return area
}

// Empty reports whether the mesh has no triangles.
func (m *Mesh) Empty() bool { return len(m.Triangles) == 0 }
