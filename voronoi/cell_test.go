package voronoi

import (
	"math/rand/v2"
	"testing"

	"github.com/soypat/mcmt/delaunay"
	"github.com/soypat/mcmt/internal/d3"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gonum.org/v1/gonum/spatial/r3"
)

func TestClipBox(t *testing.T) {
	bounds := d3.Cube(-1, 1)
	cell := Clip(r3.Vec{X: 0.3}, nil, bounds)
	require.False(t, cell.Empty())
	assert.InDelta(t, 8.0, cell.Volume, 1e-9)
	assert.True(t, d3.EqualWithin(cell.Barycenter, r3.Vec{}, 1e-9), "barycenter %v", cell.Barycenter)
}

func TestClipBisector(t *testing.T) {
	bounds := d3.Cube(-1, 1)
	cell := Clip(r3.Vec{X: -0.5}, []r3.Vec{{X: 0.5}}, bounds)
	assert.InDelta(t, 4.0, cell.Volume, 1e-9)
	assert.True(t, d3.EqualWithin(cell.Barycenter, r3.Vec{X: -0.5}, 1e-9), "barycenter %v", cell.Barycenter)
}

func TestCellsPartitionBounds(t *testing.T) {
	rng := rand.New(rand.NewPCG(21, 4))
	bounds := d3.Cube(0, 1)
	pts := bounds.RandomSet(rng, 40)
	tri := delaunay.New(pts)
	var total float64
	for v := range pts {
		cell := NewCell(tri, v, bounds)
		total += cell.Volume
		assert.True(t, bounds.Contains(cell.Barycenter))
	}
	assert.InDelta(t, 1.0, total, 1e-6)
}

func TestCellSampleInside(t *testing.T) {
	rng := rand.New(rand.NewPCG(1, 1))
	bounds := d3.Cube(-1, 1)
	cell := Clip(r3.Vec{X: -0.5}, []r3.Vec{{X: 0.5}}, bounds)
	for i := 0; i < 2000; i++ {
		p := cell.Sample(rng)
		require.LessOrEqual(t, p.X, 1e-9)
		require.True(t, bounds.Contains(p), "sample %v outside", p)
	}
}

func TestEmptyCellSample(t *testing.T) {
	cell := emptyCell(r3.Vec{X: 2})
	assert.True(t, cell.Empty())
	assert.Equal(t, r3.Vec{X: 2}, cell.Sample(rand.New(rand.NewPCG(0, 0))))
}

func TestSearchCDF(t *testing.T) {
	cdf := []float64{0.25, 0.5, 0.5, 1}
	assert.Equal(t, 0, SearchCDF(cdf, 0))
	assert.Equal(t, 1, SearchCDF(cdf, 0.25))
	assert.Equal(t, 3, SearchCDF(cdf, 0.5))
	assert.Equal(t, 3, SearchCDF(cdf, 1))
}

func TestClipFlatBounds(t *testing.T) {
	cell := Clip(r3.Vec{X: 1}, nil, d3.Cube(1, 1))
	assert.True(t, cell.Empty())
	assert.Zero(t, cell.Volume)
}
