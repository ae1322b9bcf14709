package mcmt

import (
	"github.com/soypat/mcmt/delaunay"
	"github.com/soypat/mcmt/voronoi"
)

// cell returns the Voronoi cell of point v clipped to the domain cube.
func (s *Sampler) cell(v int) *voronoi.Cell {
	return voronoi.NewCell(s.tri, v, s.domain())
}

// markAdjacentStale flags points [from, to) and every point sharing a
// tetrahedron with them.
func (s *Sampler) markAdjacentStale(from, to int) {
	for v := from; v < to; v++ {
		s.stale[v] = true
		for _, ti := range s.tri.Incident(v) {
			for _, w := range s.tri.Tet(ti) {
				if w != delaunay.Infinite {
					s.stale[w] = true
				}
			}
		}
	}
}

// refreshVolumes recomputes the stale Voronoi volumes in parallel.
func (s *Sampler) refreshVolumes() {
	var todo []int
	for v, st := range s.stale {
		if st {
			todo = append(todo, v)
		}
	}
	if len(todo) == 0 {
		return
	}
	s.parallelFor(len(todo), func(i int) {
		v := todo[i]
		s.volumes[v] = s.cell(v).Volume
	})
	for _, v := range todo {
		s.stale[v] = false
	}
}

// RefreshVolumes recomputes every stale Voronoi cell volume.
func (s *Sampler) RefreshVolumes() { s.refreshVolumes() }

// Volumes returns the clipped Voronoi cell volume of every point.
func (s *Sampler) Volumes() []float64 {
	s.refreshVolumes()
	return append([]float64(nil), s.volumes...)
}

// finiteTets returns the vertex indices of all finite tetrahedra.
func (s *Sampler) finiteTets() [][4]int {
	tets := make([][4]int, s.tri.NumFinite())
	for i := range tets {
		tets[i] = s.tri.Tet(i)
	}
	return tets
}
