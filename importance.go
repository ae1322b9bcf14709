package mcmt

// VoronoiErrors returns error times clipped Voronoi volume for every
// point. Stale volumes are recomputed first.
func (s *Sampler) VoronoiErrors() []float64 {
	s.refreshVolumes()
	out := make([]float64, len(s.points))
	for i := range out {
		out[i] = s.errors[i] * s.volumes[i]
	}
	return out
}

// TetErrors returns, for every finite tetrahedron, the sum of its vertex
// errors times its volume. The order matches Grids.
func (s *Sampler) TetErrors() []float64 {
	out := make([]float64, s.tri.NumFinite())
	s.parallelFor(len(out), func(i int) {
		var sum float64
		for _, v := range s.tri.Tet(i) {
			sum += s.errors[v]
		}
		out[i] = sum * s.tri.Tetra(i).Volume()
	})
	return out
}
