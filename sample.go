package mcmt

import (
	"math/rand/v2"
	"slices"
	"time"

	"github.com/soypat/mcmt/density"
	"github.com/soypat/mcmt/internal/d3"
	"github.com/soypat/mcmt/voronoi"
	"gonum.org/v1/gonum/floats"
	"gonum.org/v1/gonum/spatial/r3"
	"gonum.org/v1/gonum/stat/distuv"
)

func (s *Sampler) estimator() density.Estimator {
	if s.opts.estimator != nil {
		return s.opts.estimator(s.points, s.errors)
	}
	knn := density.NewKNN(s.points, s.errors, s.opts.cfg.DensityNeighbors)
	s.log.LogDensity(len(s.points), knn.Neighbors(), knn.MeanWeight())
	return knn
}

// SampleRejection returns exactly n points in [lo,hi]^3 distributed like
// the error weighted density of the stored points. Uniform candidates are
// drawn in batches and a candidate is kept when its density exceeds a
// uniform fraction of the largest density in its batch. A batch with no
// density keeps every candidate.
func (s *Sampler) SampleRejection(n int, lo, hi float64) ([]float64, error) {
	if n < 0 {
		return nil, ErrInvalidCount
	}
	if !(lo < hi) {
		return nil, ErrInvalidRange
	}
	start := time.Now()
	est := s.estimator()
	call := s.nextCall()
	batch := s.opts.cfg.RejectionBatch
	cands := make([]r3.Vec, batch)
	dens := make([]float64, batch)
	out := make([]r3.Vec, 0, n)
	tried := 0
	for b := 0; len(out) < n; b++ {
		rng := s.newRand(call, b)
		u := distuv.Uniform{Min: lo, Max: hi, Src: rng}
		for i := range cands {
			cands[i] = r3.Vec{X: u.Rand(), Y: u.Rand(), Z: u.Rand()}
		}
		s.parallelFor(batch, func(i int) {
			dens[i] = est.Density(cands[i])
		})
		out = acceptBatch(out, n, cands, dens, rng)
		tried += batch
	}
	s.log.LogSample("rejection", n, tried, time.Since(start))
	return d3.Set(out).Flat(), nil
}

// acceptBatch appends the candidates whose density exceeds a uniform
// fraction of the batch maximum to dst until dst holds n points.
func acceptBatch(dst []r3.Vec, n int, cands []r3.Vec, dens []float64, rng *rand.Rand) []r3.Vec {
	maxDensity := floats.Max(dens)
	for i, c := range cands {
		if len(dst) >= n {
			break
		}
		u := rng.Float64()
		if maxDensity <= 0 || dens[i] > u*maxDensity {
			dst = append(dst, c)
		}
	}
	return dst
}

// SampleVoronoi returns n points drawn from the union of the Voronoi cells
// of the stored points. A cell is picked with probability proportional to
// its error times volume and a point is drawn uniformly inside it.
func (s *Sampler) SampleVoronoi(n int) ([]float64, error) {
	if n < 0 {
		return nil, ErrInvalidCount
	}
	if len(s.points) == 0 {
		return nil, ErrEmpty
	}
	if n == 0 {
		return []float64{}, nil
	}
	start := time.Now()
	weights := s.VoronoiErrors()
	total := floats.Sum(weights)
	if !(total > 0) {
		return nil, ErrZeroImportance
	}
	cdf := floats.CumSum(make([]float64, len(weights)), weights)
	floats.Scale(1/total, cdf)

	call := s.nextCall()
	chunk := s.opts.cfg.SampleChunk
	nchunks := (n + chunk - 1) / chunk
	rngs := make([]*rand.Rand, nchunks)
	picks := make([]int, n)
	for c := range rngs {
		rngs[c] = s.newRand(call, c)
		for j := c * chunk; j < min(n, (c+1)*chunk); j++ {
			picks[j] = voronoi.SearchCDF(cdf, rngs[c].Float64())
		}
	}

	// Build each picked cell once.
	unique := slices.Clone(picks)
	slices.Sort(unique)
	unique = slices.Compact(unique)
	cells := make([]*voronoi.Cell, len(unique))
	s.parallelFor(len(unique), func(i int) {
		cells[i] = s.cell(unique[i])
	})
	cellOf := make(map[int]*voronoi.Cell, len(unique))
	for i, v := range unique {
		cellOf[v] = cells[i]
	}

	out := make([]r3.Vec, n)
	s.parallelFor(nchunks, func(c int) {
		for j := c * chunk; j < min(n, (c+1)*chunk); j++ {
			out[j] = cellOf[picks[j]].Sample(rngs[c])
		}
	})
	s.log.LogSample("voronoi", n, len(unique), time.Since(start))
	return d3.Set(out).Flat(), nil
}
