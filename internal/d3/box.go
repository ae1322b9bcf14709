package d3

import (
	"math/rand/v2"

	"gonum.org/v1/gonum/spatial/r3"
)

// Box is a 3d axis aligned bounding box.
type Box r3.Box

// NewBox creates a 3d box with a given center and size.
func NewBox(center, size r3.Vec) Box {
	half := r3.Scale(0.5, size)
	return Box{Min: r3.Sub(center, half), Max: r3.Add(center, half)}
}

// Cube returns the box [lo,hi]^3.
func Cube(lo, hi float64) Box {
	return Box{Min: Elem(lo), Max: Elem(hi)}
}

// Equals test the equality of 3d boxes.
func (a Box) Equals(b Box, tol float64) bool {
	return EqualWithin(a.Min, b.Min, tol) && EqualWithin(a.Max, b.Max, tol)
}

// Include enlarges a 3d box to include a point.
func (a Box) Include(v r3.Vec) Box {
	return Box{
		Min: MinElem(a.Min, v),
		Max: MaxElem(a.Max, v),
	}
}

// Size returns the size of a 3d box.
func (a Box) Size() r3.Vec {
	return r3.Sub(a.Max, a.Min)
}

// Center returns the center of a 3d box.
func (a Box) Center() r3.Vec {
	return r3.Add(a.Min, r3.Scale(0.5, a.Size()))
}

// Volume returns the volume of the box.
func (a Box) Volume() float64 {
	sz := a.Size()
	return sz.X * sz.Y * sz.Z
}

// Contains checks if the 3d box contains the given vector (considering bounds as inside).
func (a Box) Contains(v r3.Vec) bool {
	return a.Min.X <= v.X && a.Min.Y <= v.Y && a.Min.Z <= v.Z &&
		v.X <= a.Max.X && v.Y <= a.Max.Y && v.Z <= a.Max.Z
}

// NearBoundary reports whether any component of v lies within eps of
// the corresponding box face.
func (a Box) NearBoundary(v r3.Vec, eps float64) bool {
	for d := 0; d < 3; d++ {
		c := Comp(v, d)
		if c-Comp(a.Min, d) < eps || Comp(a.Max, d)-c < eps {
			return true
		}
	}
	return false
}

// Vertices returns a slice of 3d box corner vertices.
func (a Box) Vertices() Set {
	v := make([]r3.Vec, 8)
	v[0] = a.Min
	v[1] = r3.Vec{X: a.Min.X, Y: a.Min.Y, Z: a.Max.Z}
	v[2] = r3.Vec{X: a.Min.X, Y: a.Max.Y, Z: a.Min.Z}
	v[3] = r3.Vec{X: a.Min.X, Y: a.Max.Y, Z: a.Max.Z}
	v[4] = r3.Vec{X: a.Max.X, Y: a.Min.Y, Z: a.Min.Z}
	v[5] = r3.Vec{X: a.Max.X, Y: a.Min.Y, Z: a.Max.Z}
	v[6] = r3.Vec{X: a.Max.X, Y: a.Max.Y, Z: a.Min.Z}
	v[7] = a.Max
	return v
}

// Random returns a uniformly distributed point within the box.
func (a Box) Random(rng *rand.Rand) r3.Vec {
	return r3.Vec{
		X: randomRange(rng, a.Min.X, a.Max.X),
		Y: randomRange(rng, a.Min.Y, a.Max.Y),
		Z: randomRange(rng, a.Min.Z, a.Max.Z),
	}
}

// RandomSet returns a set of random points from within a bounding box.
func (a Box) RandomSet(rng *rand.Rand, n int) Set {
	s := make([]r3.Vec, n)
	for i := range s {
		s[i] = a.Random(rng)
	}
	return s
}

// randomRange returns a random float64 [a,b)
func randomRange(rng *rand.Rand, a, b float64) float64 {
	return a + (b-a)*rng.Float64()
}
