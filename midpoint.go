package mcmt

import (
	"math"
	"slices"
	"time"

	"github.com/soypat/mcmt/internal/d3"
	"github.com/soypat/mcmt/render"
	"gonum.org/v1/gonum/spatial/r3"
)

// subTetFaces are the corner triples that form a sub-tetrahedron with a
// midpoint.
var subTetFaces = [4][3]int{{0, 1, 2}, {0, 2, 3}, {0, 1, 3}, {1, 2, 3}}

// MidPoints returns refinement points for the tetrahedra around the points
// added since the last AddMidPoints call. Each tetrahedron cut by the level
// set contributes the average of its edge crossings. Tetrahedra touching
// the domain boundary are skipped, as are midpoints that would split their
// tetrahedron into a near flat piece.
//
// A vertex is inside when its value is negative, so a value of exactly
// zero counts as outside. An edge from a negative vertex to a zero vertex
// is a crossing located at the zero vertex, matching the vertices
// TriangleMesh emits for it.
//
// If the triangulation has no finite tetrahedron the last AddMidPoints
// batch is discarded, the triangulation rebuilt and no points returned.
func (s *Sampler) MidPoints() []float64 {
	if s.tri.NumFinite() == 0 {
		s.rollback()
		return []float64{}
	}
	start := time.Now()
	tets := s.refinementTets()
	mids := make([]r3.Vec, len(tets))
	ok := make([]bool, len(tets))
	s.parallelFor(len(tets), func(i int) {
		mids[i], ok[i] = s.midpoint(tets[i])
	})
	out := make([]r3.Vec, 0, len(tets))
	for i, m := range mids {
		if ok[i] {
			out = append(out, m)
		}
	}
	s.log.LogMidPoints(len(tets), len(out), time.Since(start))
	return d3.Set(out).Flat()
}

func (s *Sampler) rollback() {
	from := len(s.points)
	s.log.LogRollback(from, s.visited)
	s.truncate(s.visited)
	s.retriangulate("rollback")
}

// refinementTets returns the sorted finite tetrahedra incident to points
// added since the visited count and away from the domain boundary.
func (s *Sampler) refinementTets() []int {
	box := s.domain()
	eps := s.opts.cfg.BoundaryEpsilon
	var tets []int
	for v := s.visited; v < len(s.points); v++ {
	incident:
		for _, ti := range s.tri.Incident(v) {
			if !s.tri.IsFinite(ti) {
				continue
			}
			for _, w := range s.tri.Tet(ti) {
				if box.NearBoundary(s.points[w], eps) {
					continue incident
				}
			}
			tets = append(tets, ti)
		}
	}
	slices.Sort(tets)
	return slices.Compact(tets)
}

// midpoint averages the level set crossings on the edges of tetrahedron
// ti. It reports false when the tetrahedron is not cut or the midpoint is
// degenerate.
func (s *Sampler) midpoint(ti int) (r3.Vec, bool) {
	tet := s.tri.Tet(ti)
	var vals [4]float64
	for i, v := range tet {
		vals[i] = s.values[v]
	}
	mask := render.TetMask(vals)
	if mask == 0 || mask == 0x0F {
		return r3.Vec{}, false
	}
	var sum r3.Vec
	n := 0
	for _, e := range render.TetEdges {
		a, b := e[0], e[1]
		if render.Inside(vals[a]) == render.Inside(vals[b]) {
			continue
		}
		p := d3.Interpolate(s.points[tet[a]], s.points[tet[b]], vals[a], vals[b])
		sum = r3.Add(sum, p)
		n++
	}
	mid := r3.Scale(1/float64(n), sum)
	corners := s.tri.Tetra(ti)
	minVol := s.opts.cfg.MinSubVolume
	for _, f := range subTetFaces {
		vol := math.Abs(d3.SignedVolume(corners[f[0]], corners[f[1]], corners[f[2]], mid))
		if vol < minVol {
			return r3.Vec{}, false
		}
	}
	return mid, true
}
