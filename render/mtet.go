package render

import (
	"github.com/soypat/mcmt/internal/d3"
	"gonum.org/v1/gonum/spatial/r3"
)

// TetEdges lists the local vertex pairs of the 6 tetrahedron edges in the
// order crossings are visited.
var TetEdges = [6][2]int{{0, 1}, {0, 2}, {0, 3}, {1, 2}, {1, 3}, {2, 3}}

const (
	e01 = iota
	e02
	e03
	e12
	e13
	e23
)

// mtetTable maps the inside mask of a tetrahedron (bit i set when vertex i
// is inside) to triangles over edge crossings. For positively oriented
// tetrahedra the triangles face outside.
var mtetTable = [16][][3]int{
	0x00: nil,
	0x01: {{e01, e02, e03}},
	0x02: {{e01, e13, e12}},
	0x03: {{e03, e13, e02}, {e02, e13, e12}},
	0x04: {{e02, e12, e23}},
	0x05: {{e03, e01, e12}, {e12, e23, e03}},
	0x06: {{e01, e13, e02}, {e13, e23, e02}},
	0x07: {{e03, e13, e23}},
	0x08: {{e13, e03, e23}},
	0x09: {{e01, e02, e13}, {e13, e02, e23}},
	0x0A: {{e03, e12, e01}, {e12, e03, e23}},
	0x0B: {{e12, e02, e23}},
	0x0C: {{e13, e03, e02}, {e02, e12, e13}},
	0x0D: {{e01, e12, e13}},
	0x0E: {{e01, e03, e02}},
	0x0F: nil,
}

// Inside reports whether a field value is inside the level set.
func Inside(v float64) bool { return v < 0 }

// TetMask returns the 4 bit inside mask of the values at the corners of
// a tetrahedron.
func TetMask(values [4]float64) uint8 {
	var mask uint8
	for i, v := range values {
		if Inside(v) {
			mask |= 1 << i
		}
	}
	return mask
}

// MarchingTetrahedra extracts the zero level set of values sampled at
// points over the tetrahedra tets. Every edge crossing is interpolated
// once and shared by all tetrahedra that touch the edge. Vertices are
// created in tetrahedron order and then edge order.
func MarchingTetrahedra(points []r3.Vec, values []float64, tets [][4]int) *Mesh {
	mesh := &Mesh{}
	memo := make(map[[2]int]int)
	for _, tet := range tets {
		var vals [4]float64
		for i, v := range tet {
			vals[i] = values[v]
		}
		mask := TetMask(vals)
		cases := mtetTable[mask]
		if len(cases) == 0 {
			continue
		}
		var crossing [6]int
		for e, lv := range TetEdges {
			a, b := tet[lv[0]], tet[lv[1]]
			if Inside(values[a]) == Inside(values[b]) {
				continue
			}
			if a > b {
				a, b = b, a
			}
			key := [2]int{a, b}
			idx, ok := memo[key]
			if !ok {
				idx = len(mesh.Vertices)
				memo[key] = idx
				mesh.Vertices = append(mesh.Vertices, d3.Interpolate(points[a], points[b], values[a], values[b]))
			}
			crossing[e] = idx
		}
		for _, c := range cases {
			mesh.Triangles = append(mesh.Triangles, [3]int{crossing[c[0]], crossing[c[1]], crossing[c[2]]})
		}
	}
	return mesh
}
