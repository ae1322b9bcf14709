// Package density estimates a weighted point density with k nearest
// neighbor queries on a k-d tree.
package density

import (
	"math"

	"gonum.org/v1/gonum/spatial/kdtree"
	"gonum.org/v1/gonum/spatial/r3"
	"gonum.org/v1/gonum/stat"
)

// DefaultNeighbors is the neighbor count used when a non-positive k is
// passed to NewKNN.
const DefaultNeighbors = 8

// minRadius keeps the density finite at sample points.
const minRadius = 1e-12

// Estimator evaluates a non-negative density anywhere in space.
type Estimator interface {
	Density(p r3.Vec) float64
}

var (
	_ Estimator         = (*KNN)(nil)
	_ kdtree.Interface  = kdPoints{}
	_ kdtree.Comparable = kdPoint{}
	_ kdtree.SortSlicer = kdPlane{}
)

// KNN is a k nearest neighbor density estimator. The density at p is the
// summed weight of the k points nearest to p divided by the volume of the
// ball reaching the k'th neighbor.
type KNN struct {
	tree    *kdtree.Tree
	k       int
	weights []float64
}

// NewKNN builds an estimator over points weighted by weights. weights may
// be nil for unit weights.
func NewKNN(points []r3.Vec, weights []float64, k int) *KNN {
	if k <= 0 {
		k = DefaultNeighbors
	}
	if k > len(points) {
		k = len(points)
	}
	kd := make(kdPoints, len(points))
	for i, p := range points {
		w := 1.0
		if weights != nil {
			w = weights[i]
		}
		kd[i] = kdPoint{Vec: p, weight: w}
	}
	var tree *kdtree.Tree
	if len(kd) > 0 {
		tree = kdtree.New(kd, false)
	}
	return &KNN{tree: tree, k: k, weights: weights}
}

// Neighbors returns the neighbor count used per query.
func (e *KNN) Neighbors() int { return e.k }

// MeanWeight returns the mean point weight.
func (e *KNN) MeanWeight() float64 {
	if len(e.weights) == 0 {
		return 1
	}
	return stat.Mean(e.weights, nil)
}

// Density returns the weighted k nearest neighbor density at p. It is zero
// for an empty estimator.
func (e *KNN) Density(p r3.Vec) float64 {
	if e.tree == nil || e.k == 0 {
		return 0
	}
	keep := kdtree.NewNKeeper(e.k)
	e.tree.NearestSet(keep, kdPoint{Vec: p})
	var (
		wsum  float64
		maxD2 float64
	)
	for _, cd := range keep.Heap {
		if cd.Comparable == nil {
			continue
		}
		wsum += cd.Comparable.(kdPoint).weight
		maxD2 = math.Max(maxD2, cd.Dist)
	}
	r := math.Max(math.Sqrt(maxD2), minRadius)
	return wsum / (4.0 / 3.0 * math.Pi * r * r * r)
}

type kdPoints []kdPoint

type kdPoint struct {
	r3.Vec
	weight float64
}

func (k kdPoints) Index(i int) kdtree.Comparable { return k[i] }

// Len returns the length of the list.
func (k kdPoints) Len() int { return len(k) }

// Pivot partitions the list based on the dimension specified.
func (k kdPoints) Pivot(d kdtree.Dim) int {
	p := kdPlane{dim: int(d), points: k}
	return kdtree.Partition(p, kdtree.MedianOfMedians(p))
}

// Slice returns a slice of the list using zero-based half
// open indexing equivalent to built-in slice indexing.
func (k kdPoints) Slice(start, end int) kdtree.Interface { return k[start:end] }

// Compare returns the signed distance of a from the plane passing through
// b and perpendicular to the dimension d.
//
// Given c = a.Compare(b, d):
//
//	c = a_d - b_d
func (a kdPoint) Compare(b kdtree.Comparable, d kdtree.Dim) float64 {
	return kdComp(a, b.(kdPoint), int(d))
}

// Dims returns the number of dimensions described in the Comparable.
func (a kdPoint) Dims() int { return 3 }

// Distance returns the squared Euclidean distance between the receiver and
// the parameter.
func (a kdPoint) Distance(b kdtree.Comparable) float64 {
	return r3.Norm2(r3.Sub(a.Vec, b.(kdPoint).Vec))
}

// c = a.dim - b.dim
func kdComp(a, b kdPoint, dim int) float64 {
	switch dim {
	case 0:
		return a.X - b.X
	case 1:
		return a.Y - b.Y
	}
	return a.Z - b.Z
}

type kdPlane struct {
	dim    int
	points kdPoints
}

func (p kdPlane) Less(i, j int) bool {
	return kdComp(p.points[i], p.points[j], p.dim) < 0
}
func (p kdPlane) Swap(i, j int) {
	p.points[i], p.points[j] = p.points[j], p.points[i]
}
func (p kdPlane) Len() int {
	return len(p.points)
}
func (p kdPlane) Slice(start, end int) kdtree.SortSlicer {
	p.points = p.points[start:end]
	return p
}
