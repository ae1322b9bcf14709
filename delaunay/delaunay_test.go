package delaunay

import (
	"fmt"
	"math"
	"math/rand/v2"
	"testing"

	"github.com/soypat/mcmt/internal/d3"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gonum.org/v1/gonum/spatial/r3"
)

func randomPoints(rng *rand.Rand, n int) []r3.Vec {
	return d3.Cube(-1, 1).RandomSet(rng, n)
}

// lattice returns an n^3 grid over [-1,1]^3, each coordinate moved by up
// to jitter grid steps.
func lattice(n int, jitter float64, seed uint64) []r3.Vec {
	rng := rand.New(rand.NewPCG(seed, 1))
	h := 2 / float64(n-1)
	var pts []r3.Vec
	for i := 0; i < n; i++ {
		for j := 0; j < n; j++ {
			for k := 0; k < n; k++ {
				pts = append(pts, r3.Vec{
					X: -1 + h*(float64(i)+jitter*(rng.Float64()-0.5)),
					Y: -1 + h*(float64(j)+jitter*(rng.Float64()-0.5)),
					Z: -1 + h*(float64(k)+jitter*(rng.Float64()-0.5)),
				})
			}
		}
	}
	return pts
}

func circumsphere(a, b, c, d r3.Vec) (center r3.Vec, r2 float64) {
	ba := r3.Sub(b, a)
	ca := r3.Sub(c, a)
	da := r3.Sub(d, a)
	den := 2 * r3.Dot(ba, r3.Cross(ca, da))
	if den == 0 {
		return a, math.Inf(1)
	}
	num := r3.Scale(r3.Norm2(ba), r3.Cross(ca, da))
	num = r3.Add(num, r3.Scale(r3.Norm2(ca), r3.Cross(da, ba)))
	num = r3.Add(num, r3.Scale(r3.Norm2(da), r3.Cross(ba, ca)))
	off := r3.Scale(1/den, num)
	return r3.Add(a, off), r3.Norm2(off)
}

// checkDelaunay asserts that every vertex is used, every finite
// tetrahedron is positively oriented and no point lies inside a finite
// circumsphere.
func checkDelaunay(t *testing.T, pts []r3.Vec, tri *Triangulation) {
	t.Helper()
	require.Equal(t, len(pts), tri.NumVertices())
	require.Positive(t, tri.NumFinite())
	for v := range pts {
		if _, dup := tri.Duplicate(v); dup {
			continue
		}
		require.NotEmpty(t, tri.Incident(v), "vertex %d has no tetrahedra", v)
		require.NotEmpty(t, tri.Neighbors(v), "vertex %d has no neighbors", v)
	}
	var vol float64
	for i := 0; i < tri.NumFinite(); i++ {
		tet := tri.Tetra(i)
		sv := tet.SignedVolume()
		require.Positive(t, sv, "tet %d not positively oriented", i)
		vol += sv
		c, r2 := circumsphere(tet[0], tet[1], tet[2], tet[3])
		for j, p := range pts {
			d2 := r3.Norm2(r3.Sub(p, c))
			require.GreaterOrEqual(t, d2, r2*(1-1e-6), "point %d inside circumsphere of tet %d", j, i)
		}
	}
	hull := d3.Box{Min: pts[0], Max: pts[0]}
	for _, p := range pts {
		hull = hull.Include(p)
	}
	assert.LessOrEqual(t, vol, hull.Volume()*(1+1e-9))
}

func TestEmptyCircumsphere(t *testing.T) {
	rng := rand.New(rand.NewPCG(7, 11))
	pts := randomPoints(rng, 300)
	checkDelaunay(t, pts, New(pts))
}

func TestLatticeDelaunay(t *testing.T) {
	tests := []struct {
		n      int
		jitter float64
	}{
		{n: 9, jitter: 0},
		{n: 9, jitter: 1e-4},
		{n: 12, jitter: 0},
		{n: 12, jitter: 1e-4},
	}
	for _, tt := range tests {
		t.Run(fmt.Sprintf("n=%d/jitter=%g", tt.n, tt.jitter), func(t *testing.T) {
			pts := lattice(tt.n, tt.jitter, uint64(tt.n))
			tri := New(pts)
			checkDelaunay(t, pts, tri)
			if tt.jitter == 0 {
				// Lattice cells are tiled without gaps or overlaps.
				var vol float64
				for i := 0; i < tri.NumFinite(); i++ {
					vol += tri.Tetra(i).Volume()
				}
				assert.InDelta(t, 8.0, vol, 1e-9)
			}
		})
	}
}

func TestCospherical(t *testing.T) {
	// Points on one sphere tie every circumsphere test.
	var pts []r3.Vec
	for i := 0; i < 6; i++ {
		for j := 1; j < 6; j++ {
			th, ph := 2*math.Pi*float64(i)/6, math.Pi*float64(j)/6
			pts = append(pts, r3.Vec{
				X: math.Sin(ph) * math.Cos(th),
				Y: math.Sin(ph) * math.Sin(th),
				Z: math.Cos(ph),
			})
		}
	}
	pts = append(pts, r3.Vec{Z: 1}, r3.Vec{Z: -1})
	tri := New(pts)
	for v := range pts {
		assert.NotEmpty(t, tri.Incident(v), "vertex %d", v)
	}
	for i := 0; i < tri.NumFinite(); i++ {
		assert.Positive(t, tri.Tetra(i).SignedVolume())
	}
}

func TestCubeVolume(t *testing.T) {
	pts := d3.Cube(0, 1).Vertices()
	pts = append(pts, r3.Vec{X: 0.5, Y: 0.5, Z: 0.5})
	tri := New(pts)
	var vol float64
	for i := 0; i < tri.NumFinite(); i++ {
		v := tri.Tetra(i).SignedVolume()
		require.Positive(t, v)
		vol += v
	}
	assert.InDelta(t, 1.0, vol, 1e-9)
	// The center connects to every corner.
	assert.Equal(t, []int{0, 1, 2, 3, 4, 5, 6, 7}, tri.Neighbors(8))
}

func TestSentinelOrdering(t *testing.T) {
	rng := rand.New(rand.NewPCG(3, 5))
	tri := New(randomPoints(rng, 50))
	require.Greater(t, tri.NumTetrahedra(), tri.NumFinite())
	for i := 0; i < tri.NumTetrahedra(); i++ {
		hasInf := false
		for lv := 0; lv < 4; lv++ {
			v := tri.Vertex(i, lv)
			if v == Infinite {
				hasInf = true
				continue
			}
			assert.Contains(t, tri.Incident(v), i)
		}
		assert.Equal(t, !tri.IsFinite(i), hasInf, "tet %d", i)
	}
}

func TestDuplicatesSkipped(t *testing.T) {
	pts := []r3.Vec{{}, {X: 1}, {Y: 1}, {Z: 1}, {X: 1}}
	tri := New(pts)
	assert.Equal(t, 1, tri.NumFinite())
	dups := 0
	for v := range pts {
		if twin, ok := tri.Duplicate(v); ok {
			dups++
			assert.Equal(t, pts[v], pts[twin])
			assert.Empty(t, tri.Incident(v))
		}
	}
	assert.Equal(t, 1, dups)
}

func TestDegenerateInputs(t *testing.T) {
	same := []r3.Vec{{X: 1, Y: 1, Z: 1}, {X: 1, Y: 1, Z: 1}, {X: 1, Y: 1, Z: 1}}
	assert.Zero(t, New(same).NumFinite())
	coplanar := []r3.Vec{{}, {X: 1}, {Y: 1}, {X: 1, Y: 1}, {X: 0.5, Y: 0.25}}
	tri := New(coplanar)
	assert.Zero(t, tri.NumFinite())
	assert.Positive(t, tri.NumTetrahedra())
	assert.Zero(t, New(nil).NumTetrahedra())
}
