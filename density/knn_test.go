package density

import (
	"math"
	"testing"

	"github.com/stretchr/testify/assert"
	"gonum.org/v1/gonum/spatial/r3"
)

func TestKNNSinglePoint(t *testing.T) {
	e := NewKNN([]r3.Vec{{}}, []float64{2}, 8)
	assert.Equal(t, 1, e.Neighbors())
	got := e.Density(r3.Vec{X: 1})
	assert.InDelta(t, 2/(4.0/3.0*math.Pi), got, 1e-12)
}

func TestKNNWeighting(t *testing.T) {
	pts := []r3.Vec{{X: -1}, {X: 1}, {Y: 1}, {Y: -1}, {Z: 1}, {Z: -1}}
	light := NewKNN(pts, nil, 3)
	heavy := NewKNN(pts, []float64{3, 3, 3, 3, 3, 3}, 3)
	q := r3.Vec{X: 0.9}
	assert.InDelta(t, 3*light.Density(q), heavy.Density(q), 1e-9)
	assert.InDelta(t, 3.0, heavy.MeanWeight(), 0)
	assert.InDelta(t, 1.0, light.MeanWeight(), 0)
}

func TestKNNDenserNearCluster(t *testing.T) {
	var pts []r3.Vec
	for i := 0; i < 20; i++ {
		pts = append(pts, r3.Vec{X: 0.01 * float64(i)})
	}
	pts = append(pts, r3.Vec{X: 5}, r3.Vec{X: 6})
	e := NewKNN(pts, nil, 4)
	assert.Greater(t, e.Density(r3.Vec{X: 0.1}), e.Density(r3.Vec{X: 5.5}))
}

func TestKNNEmpty(t *testing.T) {
	e := NewKNN(nil, nil, 0)
	assert.Zero(t, e.Density(r3.Vec{}))
}
