package mcmt

import (
	"math/rand/v2"

	"github.com/unixpickle/essentials"
)

// parallelFor calls fn for every index in [0, n) on the configured number
// of goroutines. fn must only write to state owned by its index.
func (s *Sampler) parallelFor(n int, fn func(i int)) {
	if n == 0 {
		return
	}
	essentials.ConcurrentMap(s.opts.cfg.Workers, n, fn)
}

// nextCall reserves a generator stream prefix for one sampling call.
func (s *Sampler) nextCall() uint64 {
	s.calls++
	return s.calls
}

// newRand returns the generator of chunk within a sampling call. The
// stream only depends on the seed, the call and the chunk so results do
// not depend on goroutine scheduling.
func (s *Sampler) newRand(call uint64, chunk int) *rand.Rand {
	return rand.New(rand.NewPCG(s.opts.cfg.Seed, call<<32|uint64(chunk)))
}
