// Package delaunay implements an incremental Bowyer-Watson Delaunay
// tetrahedralization of 3D point sets.
//
// Points are inserted inside an enclosing super tetrahedron whose four
// corners are reported as the sentinel vertex index -1 once the
// triangulation is built. Finite tetrahedra are stored before the ones
// touching a sentinel corner.
package delaunay

import (
	"slices"
	"sort"

	"github.com/soypat/mcmt/internal/d3"
	"gonum.org/v1/gonum/spatial/r3"
)

// Infinite is the vertex index reported for corners of the enclosing
// super tetrahedron.
const Infinite = -1

const (
	// superScale is the size of the super tetrahedron relative to the
	// extent of the input points.
	superScale = 1000
	// Points closer than dupTol*extent to an inserted vertex are skipped.
	dupTol = 1e-12
)

// Triangulation is an immutable Delaunay tetrahedralization.
type Triangulation struct {
	points   []r3.Vec
	tets     [][4]int
	finite   int
	incident [][]int
	twin     []int
}

// New triangulates points. Coincident points are kept as vertices without
// incident tetrahedra, see [Triangulation.Duplicate].
func New(points []r3.Vec) *Triangulation {
	t := &Triangulation{
		points: points,
		twin:   make([]int, len(points)),
	}
	for i := range t.twin {
		t.twin[i] = -1
	}
	if len(points) == 0 {
		return t
	}
	b := newBuilder(points)
	for _, i := range insertionOrder(points, b.box) {
		if twin, ok := b.insert(i); !ok {
			t.twin[i] = twin
		}
	}
	t.finalize(b)
	return t
}

// NumVertices returns the number of input points.
func (t *Triangulation) NumVertices() int { return len(t.points) }

// NumTetrahedra returns the number of tetrahedra including the ones
// touching an infinite vertex.
func (t *Triangulation) NumTetrahedra() int { return len(t.tets) }

// NumFinite returns the number of tetrahedra with four real vertices.
// They are indexed [0, NumFinite).
func (t *Triangulation) NumFinite() int { return t.finite }

// Tet returns the vertex indices of tetrahedron i. Corners of the super
// tetrahedron are reported as Infinite.
func (t *Triangulation) Tet(i int) [4]int { return t.tets[i] }

// Vertex returns the lv'th vertex of tetrahedron tet.
func (t *Triangulation) Vertex(tet, lv int) int { return t.tets[tet][lv] }

// IsFinite reports whether tetrahedron i has no infinite vertex.
func (t *Triangulation) IsFinite(i int) bool { return i < t.finite }

// Point returns the position of vertex v.
func (t *Triangulation) Point(v int) r3.Vec { return t.points[v] }

// Tetra returns the corner positions of a finite tetrahedron.
func (t *Triangulation) Tetra(i int) d3.Tetra {
	v := t.tets[i]
	return d3.Tetra{t.points[v[0]], t.points[v[1]], t.points[v[2]], t.points[v[3]]}
}

// Incident returns the tetrahedra incident to vertex v, finite and infinite.
// The returned slice must not be modified.
func (t *Triangulation) Incident(v int) []int { return t.incident[v] }

// Duplicate returns the vertex v coincides with when v was skipped
// during insertion.
func (t *Triangulation) Duplicate(v int) (twin int, ok bool) {
	twin = t.twin[v]
	return twin, twin >= 0
}

// Neighbors returns the sorted real vertices sharing an edge with v.
func (t *Triangulation) Neighbors(v int) []int {
	var nb []int
	for _, ti := range t.incident[v] {
		for _, w := range t.tets[ti] {
			if w != v && w != Infinite {
				nb = append(nb, w)
			}
		}
	}
	slices.Sort(nb)
	return slices.Compact(nb)
}

func (t *Triangulation) finalize(b *builder) {
	n := len(t.points)
	var finite, infinite [][4]int
	for i := range b.tets {
		tt := &b.tets[i]
		if tt.dead {
			continue
		}
		v := tt.v
		isFinite := true
		for k := range v {
			if v[k] >= n {
				v[k] = Infinite
				isFinite = false
			}
		}
		if isFinite {
			finite = append(finite, v)
		} else {
			infinite = append(infinite, v)
		}
	}
	t.finite = len(finite)
	t.tets = append(finite, infinite...)
	t.incident = make([][]int, n)
	for i, v := range t.tets {
		for _, w := range v {
			if w != Infinite {
				t.incident[w] = append(t.incident[w], i)
			}
		}
	}
	for v := range t.incident {
		if len(t.incident[v]) == 0 && t.twin[v] < 0 {
			panic("delaunay: vertex lost during insertion")
		}
	}
}

// insertionOrder sorts point indices along a Morton curve so consecutive
// insertions are spatially close and point location walks stay short.
func insertionOrder(points []r3.Vec, box d3.Box) []int {
	const bits = 10
	size := box.Size()
	scale := float64(int(1)<<bits - 1)
	quant := func(c, lo, ext float64) uint64 {
		if ext <= 0 {
			return 0
		}
		return uint64((c - lo) / ext * scale)
	}
	codes := make([]uint64, len(points))
	for i, p := range points {
		x := quant(p.X, box.Min.X, size.X)
		y := quant(p.Y, box.Min.Y, size.Y)
		z := quant(p.Z, box.Min.Z, size.Z)
		var code uint64
		for b := 0; b < bits; b++ {
			code |= (x>>b&1)<<(3*b) | (y>>b&1)<<(3*b+1) | (z>>b&1)<<(3*b+2)
		}
		codes[i] = code
	}
	order := make([]int, len(points))
	for i := range order {
		order[i] = i
	}
	sort.SliceStable(order, func(i, j int) bool { return codes[order[i]] < codes[order[j]] })
	return order
}

func orient(a, b, c, d r3.Vec) float64 {
	return r3.Dot(r3.Sub(b, a), r3.Cross(r3.Sub(c, a), r3.Sub(d, a)))
}
