package delaunay

import (
	"math"
	"math/big"

	geo "github.com/golang/geo/r3"
	"gonum.org/v1/gonum/spatial/r3"
)

// Relative error bounds of the float64 determinants. A result larger than
// the bound times the operand magnitude has a certain sign; otherwise the
// determinant is recomputed exactly.
const (
	orientErrBound   = 1e-12
	inSphereErrBound = 1e-10
)

// orientSign returns the sign of the signed volume of abcd. It is zero
// only when the four points are exactly coplanar.
func orientSign(a, b, c, d r3.Vec) int {
	ba, ca, da := r3.Sub(b, a), r3.Sub(c, a), r3.Sub(d, a)
	det := r3.Dot(ba, r3.Cross(ca, da))
	m := math.Max(r3.Norm(ba), math.Max(r3.Norm(ca), r3.Norm(da)))
	if math.Abs(det) > orientErrBound*m*m*m {
		return signOf(det)
	}
	return exactOrient(precise(a), precise(b), precise(c), precise(d)).Sign()
}

// inSphere reports whether p[4] lies inside the circumsphere of the
// positively oriented tetrahedron p[0..3]. Ties are broken by perturbing
// the lifted coordinate |p|² of every point by an infinitesimal that
// shrinks with decreasing vertex id, so the answer is consistent across
// calls and no tetrahedron ever needs to be flat.
func inSphere(p [5]r3.Vec, ids [5]int) bool {
	if s := inSphereSign(p); s != 0 {
		return s > 0
	}
	return perturbedInSphere(p, ids)
}

func inSphereSign(p [5]r3.Vec) int {
	var z r3.Vec
	e := p[4]
	a, b, c, d := r3.Sub(p[0], e), r3.Sub(p[1], e), r3.Sub(p[2], e), r3.Sub(p[3], e)
	det := orient(z, b, c, d)*r3.Norm2(a) +
		orient(a, z, c, d)*r3.Norm2(b) +
		orient(a, b, z, d)*r3.Norm2(c) +
		orient(a, b, c, z)*r3.Norm2(d)
	m := math.Max(math.Max(r3.Norm(a), r3.Norm(b)), math.Max(r3.Norm(c), r3.Norm(d)))
	if math.Abs(det) > inSphereErrBound*m*m*m*m*m {
		return signOf(det)
	}
	return exactInSphere(precise(p[0]), precise(p[1]), precise(p[2]), precise(p[3]), precise(e)).Sign()
}

// perturbedInSphere resolves an exactly cospherical configuration. The
// perturbed determinant is a polynomial in the perturbations whose
// coefficients are orientations of four of the five points, so its sign is
// that of the first non-zero coefficient taken in order of decreasing
// perturbation. The query's own coefficient is minus the orientation of
// the tetrahedron, which is never zero.
func perturbedInSphere(p [5]r3.Vec, ids [5]int) bool {
	order := [5]int{0, 1, 2, 3, 4}
	for i := 1; i < 5; i++ {
		for j := i; j > 0 && ids[order[j]] > ids[order[j-1]]; j-- {
			order[j], order[j-1] = order[j-1], order[j]
		}
	}
	for _, k := range order {
		var s int
		if k == 4 {
			s = -orientSign(p[0], p[1], p[2], p[3])
		} else {
			q := p
			q[k] = p[4]
			s = orientSign(q[0], q[1], q[2], q[3])
		}
		if s != 0 {
			return s > 0
		}
	}
	return false
}

func precise(v r3.Vec) geo.PreciseVector {
	return geo.PreciseVectorFromVector(geo.Vector{X: v.X, Y: v.Y, Z: v.Z})
}

func exactOrient(a, b, c, d geo.PreciseVector) *big.Float {
	return b.Sub(a).Dot(c.Sub(a).Cross(d.Sub(a)))
}

// exactInSphere evaluates the lifted determinant of inSphereSign with
// coordinates relative to e. Differences and products of float64 values
// are exact at big.MaxPrec.
func exactInSphere(a, b, c, d, e geo.PreciseVector) *big.Float {
	z := precise(r3.Vec{})
	a, b, c, d = a.Sub(e), b.Sub(e), c.Sub(e), d.Sub(e)
	det := new(big.Float).SetPrec(big.MaxPrec)
	term := new(big.Float).SetPrec(big.MaxPrec)
	det.Add(det, term.Mul(exactOrient(z, b, c, d), a.Dot(a)))
	det.Add(det, term.Mul(exactOrient(a, z, c, d), b.Dot(b)))
	det.Add(det, term.Mul(exactOrient(a, b, z, d), c.Dot(c)))
	det.Add(det, term.Mul(exactOrient(a, b, c, z), d.Dot(d)))
	return det
}

func signOf(x float64) int {
	switch {
	case x > 0:
		return 1
	case x < 0:
		return -1
	}
	return 0
}
