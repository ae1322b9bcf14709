package mcmt

import (
	"math"

	"github.com/soypat/mcmt/delaunay"
	"github.com/soypat/mcmt/internal/d3"
	"github.com/soypat/mcmt/voronoi"
	"gonum.org/v1/gonum/spatial/r3"
)

// LloydRelaxation moves the given points towards the barycenters of their
// Voronoi cells among the stored points and each other. Each iteration
// retriangulates and moves every new point to its cell barycenter,
// wrapping coordinates back into the domain cube. The stored points stay
// fixed and the Sampler is not modified. It returns the relaxed points.
func (s *Sampler) LloydRelaxation(positions []float64, iterations int) ([]float64, error) {
	if len(positions)%3 != 0 {
		return nil, &ErrLengthMismatch{Positions: len(positions), Values: len(positions) / 3}
	}
	if iterations < 0 {
		return nil, ErrInvalidCount
	}
	if err := validateInput(positions, make([]float64, len(positions)/3)); err != nil {
		return nil, err
	}
	if len(positions) == 0 {
		return []float64{}, nil
	}
	if iterations == 0 {
		return append([]float64(nil), positions...), nil
	}
	fresh := d3.FromFlat(positions)
	box := s.domain()
	if !s.hasBounds {
		lo, hi := d3.Min(fresh.Min()), d3.Max(fresh.Max())
		box = d3.Cube(lo, hi)
	}
	lo, hi := box.Min.X, box.Max.X

	off := len(s.points)
	work := make([]r3.Vec, 0, off+len(fresh))
	work = append(append(work, s.points...), fresh...)
	for it := 0; it < iterations; it++ {
		tri := delaunay.New(work)
		next := make([]r3.Vec, len(work))
		copy(next, work)
		s.parallelFor(len(fresh), func(i int) {
			c := voronoi.NewCell(tri, off+i, box).Barycenter
			next[off+i] = r3.Vec{X: wrap(c.X, lo, hi), Y: wrap(c.Y, lo, hi), Z: wrap(c.Z, lo, hi)}
		})
		work = next
	}
	return d3.Set(work[off:]).Flat(), nil
}

// wrap maps c periodically into [lo, hi).
func wrap(c, lo, hi float64) float64 {
	span := hi - lo
	if span <= 0 {
		return c
	}
	return lo + math.Mod(c-lo+span, span)
}
