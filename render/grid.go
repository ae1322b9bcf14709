package render

import "gonum.org/v1/gonum/spatial/r3"

// tetFaces winds the 4 faces of a positively oriented tetrahedron outward.
var tetFaces = [4][3]int{{0, 2, 1}, {0, 3, 2}, {0, 1, 3}, {1, 2, 3}}

// GridMesh returns the boundary triangles of every tetrahedron with all
// vertices at x >= xClip. The mesh shares the input vertex numbering.
func GridMesh(points []r3.Vec, tets [][4]int, xClip float64) *Mesh {
	mesh := &Mesh{Vertices: points}
	for _, tet := range tets {
		if clipped(points, tet, xClip) {
			continue
		}
		for _, f := range tetFaces {
			mesh.Triangles = append(mesh.Triangles, [3]int{tet[f[0]], tet[f[1]], tet[f[2]]})
		}
	}
	return mesh
}

func clipped(points []r3.Vec, tet [4]int, xClip float64) bool {
	for _, v := range tet {
		if points[v].X < xClip {
			return true
		}
	}
	return false
}
