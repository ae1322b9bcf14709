package mcmt

import (
	"github.com/soypat/mcmt/density"
	"gonum.org/v1/gonum/spatial/r3"
)

// EstimatorFunc builds a density estimator over weighted points.
type EstimatorFunc func(points []r3.Vec, weights []float64) density.Estimator

type options struct {
	cfg       Config
	logger    *Logger
	estimator EstimatorFunc
}

// Option configures a Sampler.
type Option func(*options)

// WithConfig replaces the whole configuration. Options applied after it
// still override single fields.
func WithConfig(cfg Config) Option {
	return func(o *options) {
		o.cfg = cfg
	}
}

// WithLogger sets the logger. If nil is passed, logging is disabled.
func WithLogger(l *Logger) Option {
	return func(o *options) {
		if l == nil {
			l = NoopLogger()
		}
		o.logger = l
	}
}

// WithWorkers sets the goroutine count of parallel loops.
// Zero uses GOMAXPROCS.
func WithWorkers(n int) Option {
	return func(o *options) {
		o.cfg.Workers = n
	}
}

// WithSeed sets the seed of all random draws.
func WithSeed(seed uint64) Option {
	return func(o *options) {
		o.cfg.Seed = seed
	}
}

// WithRejectionBatch sets the candidate count per rejection batch.
func WithRejectionBatch(n int) Option {
	return func(o *options) {
		o.cfg.RejectionBatch = n
	}
}

// WithDensityNeighbors sets the neighbor count of the default density
// estimator.
func WithDensityNeighbors(k int) Option {
	return func(o *options) {
		o.cfg.DensityNeighbors = k
	}
}

// WithDensityEstimator replaces the k nearest neighbor density estimator
// used by rejection sampling.
func WithDensityEstimator(fn EstimatorFunc) Option {
	return func(o *options) {
		o.estimator = fn
	}
}
