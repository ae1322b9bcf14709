// Package mcmt adaptively samples a scalar field over a 3D domain and
// extracts its zero level set with marching tetrahedra.
//
// A Sampler holds a growing set of points with their field values. Each
// insertion batch rebuilds a Delaunay tetrahedralization. Refinement
// candidates come from three sources:
//   - midpoints of edge crossings inside tetrahedra cut by the level set,
//   - rejection sampling of an error weighted point density,
//   - Voronoi cells drawn in proportion to error times cell volume.
//
// Lloyd relaxation spreads candidate points before they are evaluated.
package mcmt

import (
	"fmt"
	"math"
	"time"

	"github.com/soypat/mcmt/delaunay"
	"github.com/soypat/mcmt/internal/d3"
	"gonum.org/v1/gonum/spatial/r3"
)

// errorEpsilon keeps the error of points on the level set finite.
const errorEpsilon = 1e-6

// Sampler is an adaptive point sample of a scalar field. A Sampler is not
// safe for concurrent use.
type Sampler struct {
	opts options
	log  *Logger

	points  []r3.Vec
	values  []float64
	errors  []float64
	volumes []float64
	// stale marks volumes that must be recomputed before use.
	stale []bool

	minBound, maxBound float64
	hasBounds          bool

	// visited is the point count before the last AddMidPoints call.
	visited int
	tri     *delaunay.Triangulation
	// calls counts random draws so repeated calls give fresh samples.
	calls uint64
}

// New returns an empty Sampler.
func New(opts ...Option) (*Sampler, error) {
	o := options{
		cfg:    DefaultConfig(),
		logger: NoopLogger(),
	}
	for _, opt := range opts {
		opt(&o)
	}
	if err := o.cfg.Validate(); err != nil {
		return nil, err
	}
	s := &Sampler{opts: o, log: o.logger}
	s.tri = delaunay.New(nil)
	return s, nil
}

// Config returns the sampler configuration.
func (s *Sampler) Config() Config { return s.opts.cfg }

// NumPoints returns the number of stored points.
func (s *Sampler) NumPoints() int { return len(s.points) }

// NumVisited returns the point count recorded by the last AddMidPoints.
func (s *Sampler) NumVisited() int { return s.visited }

// NumFiniteTetrahedra returns the number of tetrahedra of the current
// triangulation with four real vertices.
func (s *Sampler) NumFiniteTetrahedra() int { return s.tri.NumFinite() }

// Bounds returns the scalar bounds of the domain cube. Every coordinate of
// every inserted point lies in [lo, hi].
func (s *Sampler) Bounds() (lo, hi float64) { return s.minBound, s.maxBound }

// Values returns a copy of the stored field values.
func (s *Sampler) Values() []float64 { return append([]float64(nil), s.values...) }

// Errors returns a copy of the per point errors 1/(|value|+1e-6).
func (s *Sampler) Errors() []float64 { return append([]float64(nil), s.errors...) }

// AddPoints appends points with their field values and rebuilds the
// triangulation. positions holds xyz triplets. Voronoi volumes of the new
// points and of points sharing a tetrahedron with them are recomputed.
// Midpoint refinement afterwards considers every stored point.
func (s *Sampler) AddPoints(positions, values []float64) error {
	n, err := s.insert(positions, values)
	if err != nil {
		return err
	}
	s.visited = 0
	s.retriangulate("add_points")
	s.markAdjacentStale(len(s.points)-n, len(s.points))
	s.refreshVolumes()
	return nil
}

// AddMidPoints appends refinement points and rebuilds the triangulation.
// The prior point count is recorded so MidPoints only refines around the
// new points and can roll back a degenerate insertion. Voronoi volumes are
// left stale and recomputed on demand.
func (s *Sampler) AddMidPoints(positions, values []float64) error {
	before := len(s.points)
	n, err := s.insert(positions, values)
	if err != nil {
		return err
	}
	s.visited = before
	s.retriangulate("add_mid_points")
	s.markAdjacentStale(len(s.points)-n, len(s.points))
	return nil
}

// Clear removes all points and resets the bounds.
func (s *Sampler) Clear() {
	s.points = nil
	s.values = nil
	s.errors = nil
	s.volumes = nil
	s.stale = nil
	s.minBound, s.maxBound = 0, 0
	s.hasBounds = false
	s.visited = 0
	s.tri = delaunay.New(nil)
}

func validateInput(positions, values []float64) error {
	if len(positions) != 3*len(values) {
		return &ErrLengthMismatch{Positions: len(positions), Values: len(values)}
	}
	for i, c := range positions {
		if math.IsNaN(c) || math.IsInf(c, 0) {
			return fmt.Errorf("%w: point %d coordinate %d", ErrNonFinite, i/3, i%3)
		}
	}
	for i, v := range values {
		if math.IsNaN(v) || math.IsInf(v, 0) {
			return fmt.Errorf("%w: value %d", ErrNonFinite, i)
		}
	}
	return nil
}

// insert validates and appends points, extending the bounds. It returns
// the number of appended points. All stale flags are raised when the
// bounds grow since boundary cells change with them.
func (s *Sampler) insert(positions, values []float64) (int, error) {
	if err := validateInput(positions, values); err != nil {
		return 0, err
	}
	pts := d3.FromFlat(positions)
	grew := false
	for _, p := range pts {
		lo, hi := d3.Min(p), d3.Max(p)
		if !s.hasBounds {
			s.minBound, s.maxBound = lo, hi
			s.hasBounds = true
			continue
		}
		if lo < s.minBound {
			s.minBound = lo
			grew = true
		}
		if hi > s.maxBound {
			s.maxBound = hi
			grew = true
		}
	}
	if grew {
		for i := range s.stale {
			s.stale[i] = true
		}
	}
	s.points = append(s.points, pts...)
	s.values = append(s.values, values...)
	for _, v := range values {
		s.errors = append(s.errors, 1/(math.Abs(v)+errorEpsilon))
		s.volumes = append(s.volumes, 0)
		s.stale = append(s.stale, true)
	}
	return len(pts), nil
}

// truncate rolls the store back to its first n points.
func (s *Sampler) truncate(n int) {
	s.points = s.points[:n]
	s.values = s.values[:n]
	s.errors = s.errors[:n]
	s.volumes = s.volumes[:n]
	s.stale = s.stale[:n]
}

func (s *Sampler) retriangulate(op string) {
	start := time.Now()
	s.tri = delaunay.New(s.points)
	s.log.LogTriangulation(op, s.tri.NumVertices(), s.tri.NumFinite(), time.Since(start))
}

func (s *Sampler) domain() d3.Box {
	return d3.Cube(s.minBound, s.maxBound)
}
