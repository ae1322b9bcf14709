package field

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gonum.org/v1/gonum/spatial/r3"
)

func TestSphereSign(t *testing.T) {
	s, err := Sphere(1)
	require.NoError(t, err)
	assert.InDelta(t, -1.0, s.Evaluate(r3.Vec{}), 1e-12)
	assert.InDelta(t, 1.0, s.Evaluate(r3.Vec{X: 2}), 1e-12)
	bb := s.Bounds()
	assert.InDelta(t, -1.0, bb.Min.X, 1e-12)
	assert.InDelta(t, 1.0, bb.Max.Z, 1e-12)
}

func TestTorus(t *testing.T) {
	tor := Torus(1, 0.25)
	assert.InDelta(t, -0.25, tor.Evaluate(r3.Vec{X: 1}), 1e-12)
	assert.InDelta(t, 0.75, tor.Evaluate(r3.Vec{}), 1e-12)
}

func TestUnion(t *testing.T) {
	a, err := Sphere(0.5)
	require.NoError(t, err)
	b, err := Translate(a, r3.Vec{X: 2})
	require.NoError(t, err)
	u := Union(0, a, b)
	assert.InDelta(t, -0.5, u.Evaluate(r3.Vec{X: 2}), 1e-12)
	assert.InDelta(t, -0.5, u.Evaluate(r3.Vec{}), 1e-12)
	assert.InDelta(t, 2.5, u.Bounds().Max.X, 1e-12)
	// Blending only lowers the distance.
	smooth := Union(0.5, a, b)
	p := r3.Vec{X: 1}
	assert.LessOrEqual(t, smooth.Evaluate(p), u.Evaluate(p))
}

func TestEvaluateGrid(t *testing.T) {
	s, err := Sphere(0.5)
	require.NoError(t, err)
	pos := Grid(r3.Box{Min: r3.Vec{X: -1, Y: -1, Z: -1}, Max: r3.Vec{X: 1, Y: 1, Z: 1}}, 3)
	require.Len(t, pos, 3*27)
	vals := Evaluate(s, pos, 2)
	require.Len(t, vals, 27)
	// The grid center is the 14th point.
	assert.InDelta(t, -0.5, vals[13], 1e-12)
}

func TestNamed(t *testing.T) {
	inside := map[string]r3.Vec{
		"sphere":   {},
		"box":      {},
		"torus":    {X: 0.5},
		"cylinder": {},
		"union":    {X: 0.3},
	}
	for name, p := range inside {
		f, err := Named(name)
		require.NoError(t, err, name)
		assert.Negative(t, f.Evaluate(p), name)
		assert.Positive(t, f.Evaluate(r3.Vec{X: 5, Y: 5, Z: 5}), name)
	}
	_, err := Named("teapot")
	assert.Error(t, err)
}
