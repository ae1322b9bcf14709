// Package field provides scalar fields to sample. Fields are signed
// distance functions: negative inside, positive outside.
package field

import (
	"fmt"
	"math"

	"github.com/deadsy/sdfx/sdf"
	v3 "github.com/deadsy/sdfx/vec/v3"
	"github.com/unixpickle/essentials"
	"gonum.org/v1/gonum/spatial/r3"
)

// Field is the interface to a 3d signed distance function object.
type Field interface {
	// Evaluate takes a point in 3D space as input and returns
	// the minimum distance of the field to the point. The distance
	// is negative if the point is contained within the field.
	Evaluate(p r3.Vec) float64
	// Bounds returns the bounding box that completely contains
	// the zero level set.
	Bounds() r3.Box
}

// sdfxField adapts an sdfx SDF3.
type sdfxField struct {
	s sdf.SDF3
}

// FromSDFX wraps an sdfx solid as a Field.
func FromSDFX(s sdf.SDF3) Field {
	return sdfxField{s: s}
}

func (f sdfxField) Evaluate(p r3.Vec) float64 {
	return f.s.Evaluate(v3.Vec{X: p.X, Y: p.Y, Z: p.Z})
}

func (f sdfxField) Bounds() r3.Box {
	bb := f.s.BoundingBox()
	return r3.Box{
		Min: r3.Vec{X: bb.Min.X, Y: bb.Min.Y, Z: bb.Min.Z},
		Max: r3.Vec{X: bb.Max.X, Y: bb.Max.Y, Z: bb.Max.Z},
	}
}

// Sphere returns a sphere of radius r centered at the origin.
func Sphere(r float64) (Field, error) {
	s, err := sdf.Sphere3D(r)
	if err != nil {
		return nil, err
	}
	return FromSDFX(s), nil
}

// Box returns an origin centered box with rounded edges.
func Box(size r3.Vec, round float64) (Field, error) {
	s, err := sdf.Box3D(v3.Vec{X: size.X, Y: size.Y, Z: size.Z}, round)
	if err != nil {
		return nil, err
	}
	return FromSDFX(s), nil
}

// Cylinder returns a z aligned cylinder centered at the origin.
func Cylinder(height, radius, round float64) (Field, error) {
	s, err := sdf.Cylinder3D(height, radius, round)
	if err != nil {
		return nil, err
	}
	return FromSDFX(s), nil
}

// Translate moves a sdfx backed field by v.
func Translate(f Field, v r3.Vec) (Field, error) {
	sf, ok := f.(sdfxField)
	if !ok {
		return nil, fmt.Errorf("translate: unsupported field type %T", f)
	}
	m := sdf.Translate3d(v3.Vec{X: v.X, Y: v.Y, Z: v.Z})
	return FromSDFX(sdf.Transform3D(sf.s, m)), nil
}

// torus lies in the xy plane.
type torus struct {
	major, minor float64
}

// Torus returns a torus around the z axis.
func Torus(major, minor float64) Field {
	return torus{major: major, minor: minor}
}

func (t torus) Evaluate(p r3.Vec) float64 {
	q := math.Hypot(p.X, p.Y) - t.major
	return math.Hypot(q, p.Z) - t.minor
}

func (t torus) Bounds() r3.Box {
	r := t.major + t.minor
	return r3.Box{
		Min: r3.Vec{X: -r, Y: -r, Z: -t.minor},
		Max: r3.Vec{X: r, Y: r, Z: t.minor},
	}
}

// union is a smooth union of fields.
type union struct {
	fields []Field
	k      float64
	bb     r3.Box
}

// Union returns the union of fields blended with a polynomial fillet of
// size k. k = 0 gives a sharp union. Union panics if fields is empty.
func Union(k float64, fields ...Field) Field {
	if len(fields) == 0 {
		panic("union requires at least 1 field")
	}
	bb := fields[0].Bounds()
	for _, f := range fields[1:] {
		b := f.Bounds()
		bb = r3.Box{
			Min: r3.Vec{X: math.Min(bb.Min.X, b.Min.X), Y: math.Min(bb.Min.Y, b.Min.Y), Z: math.Min(bb.Min.Z, b.Min.Z)},
			Max: r3.Vec{X: math.Max(bb.Max.X, b.Max.X), Y: math.Max(bb.Max.Y, b.Max.Y), Z: math.Max(bb.Max.Z, b.Max.Z)},
		}
	}
	return &union{fields: fields, k: k, bb: bb}
}

// Evaluate returns the blended minimum distance to the union.
func (u *union) Evaluate(p r3.Vec) float64 {
	d := u.fields[0].Evaluate(p)
	for _, f := range u.fields[1:] {
		d = polyMin(d, f.Evaluate(p), u.k)
	}
	return d
}

func (u *union) Bounds() r3.Box { return u.bb }

func polyMin(a, b, k float64) float64 {
	if k <= 0 {
		return math.Min(a, b)
	}
	h := math.Min(1, math.Max(0, 0.5+0.5*(b-a)/k))
	return b*(1-h) + a*h - k*h*(1-h)
}

// Evaluate samples f at every xyz triplet of positions on workers
// goroutines. Zero workers uses GOMAXPROCS.
func Evaluate(f Field, positions []float64, workers int) []float64 {
	vals := make([]float64, len(positions)/3)
	essentials.ConcurrentMap(workers, len(vals), func(i int) {
		vals[i] = f.Evaluate(r3.Vec{X: positions[3*i], Y: positions[3*i+1], Z: positions[3*i+2]})
	})
	return vals
}

// Grid returns the xyz triplets of a regular n×n×n grid spanning box.
func Grid(box r3.Box, n int) []float64 {
	if n < 2 {
		n = 2
	}
	size := r3.Sub(box.Max, box.Min)
	step := r3.Scale(1/float64(n-1), size)
	out := make([]float64, 0, 3*n*n*n)
	for i := 0; i < n; i++ {
		for j := 0; j < n; j++ {
			for k := 0; k < n; k++ {
				out = append(out,
					box.Min.X+float64(i)*step.X,
					box.Min.Y+float64(j)*step.Y,
					box.Min.Z+float64(k)*step.Z,
				)
			}
		}
	}
	return out
}

// Named returns one of the demo fields: sphere, box, torus, cylinder or
// union.
func Named(name string) (Field, error) {
	switch name {
	case "sphere":
		return Sphere(0.6)
	case "box":
		return Box(r3.Vec{X: 1, Y: 0.8, Z: 0.6}, 0.1)
	case "torus":
		return Torus(0.5, 0.2), nil
	case "cylinder":
		return Cylinder(1.2, 0.4, 0.05)
	case "union":
		s, err := Sphere(0.35)
		if err != nil {
			return nil, err
		}
		s, err = Translate(s, r3.Vec{X: 0.3})
		if err != nil {
			return nil, err
		}
		return Union(0.1, s, Torus(0.45, 0.15)), nil
	}
	return nil, fmt.Errorf("unknown field %q", name)
}
