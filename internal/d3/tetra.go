package d3

import (
	"math"
	"math/rand/v2"

	"gonum.org/v1/gonum/spatial/r3"
)

// InterpolateEpsilon is the value difference below which an edge crossing
// falls back to the edge midpoint.
const InterpolateEpsilon = 1e-6

// Tetra is a tetrahedron given by its four corners.
type Tetra [4]r3.Vec

// SignedVolume returns the signed volume of the tetrahedron. It is positive
// when (b-a, c-a, d-a) is a right handed basis.
func (t Tetra) SignedVolume() float64 {
	return SignedVolume(t[0], t[1], t[2], t[3])
}

// Volume returns the absolute volume of the tetrahedron.
func (t Tetra) Volume() float64 {
	return math.Abs(t.SignedVolume())
}

// Centroid returns the average of the four corners.
func (t Tetra) Centroid() r3.Vec {
	s := r3.Add(r3.Add(t[0], t[1]), r3.Add(t[2], t[3]))
	return r3.Scale(0.25, s)
}

// SignedVolume is the triple product of the edges from a divided by 6.
func SignedVolume(a, b, c, d r3.Vec) float64 {
	return r3.Dot(r3.Sub(b, a), r3.Cross(r3.Sub(c, a), r3.Sub(d, a))) / 6
}

// Interpolate returns the zero crossing of the linear interpolant of values
// v1, v2 along segment p1-p2. Nearly equal values yield the midpoint.
func Interpolate(p1, p2 r3.Vec, v1, v2 float64) r3.Vec {
	t := 0.5
	if math.Abs(v1-v2) >= InterpolateEpsilon {
		t = v1 / (v1 - v2)
	}
	return r3.Add(p1, r3.Scale(t, r3.Sub(p2, p1)))
}

// Sample returns a point uniformly distributed inside the tetrahedron.
// A point of the unit cube is folded into the unit simplex.
func (t Tetra) Sample(rng *rand.Rand) r3.Vec {
	s, u, w := rng.Float64(), rng.Float64(), rng.Float64()
	return t.fold(s, u, w)
}

func (t Tetra) fold(s, u, w float64) r3.Vec {
	if s+u > 1 {
		s = 1 - s
		u = 1 - u
	}
	if u+w > 1 {
		tmp := w
		w = 1 - s - u
		u = 1 - tmp
	} else if s+u+w > 1 {
		tmp := w
		w = s + u + w - 1
		s = 1 - u - tmp
	}
	a := 1 - s - u - w
	p := r3.Scale(a, t[0])
	p = r3.Add(p, r3.Scale(s, t[1]))
	p = r3.Add(p, r3.Scale(u, t[2]))
	return r3.Add(p, r3.Scale(w, t[3]))
}
