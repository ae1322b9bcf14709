// Package voronoi builds bounded Voronoi cells of Delaunay vertices and
// samples points inside them.
package voronoi

import (
	"math/rand/v2"
	"sort"

	"github.com/soypat/mcmt/delaunay"
	"github.com/soypat/mcmt/internal/d3"
	"github.com/unixpickle/model3d/model3d"
	"gonum.org/v1/gonum/spatial/r3"
)

// Cell is the Voronoi cell of a site clipped to an axis aligned box. Its
// boundary is triangulated and fanned into tetrahedra around the cell
// barycenter.
type Cell struct {
	Site       r3.Vec
	Volume     float64
	Barycenter r3.Vec
	// Tetrahedra fan the boundary triangles around Barycenter.
	// Degenerate facets are skipped.
	Tetrahedra []d3.Tetra
	// cdf is the cumulative normalized volume of Tetrahedra.
	cdf []float64
}

// Empty reports whether the cell has no volume.
func (c *Cell) Empty() bool { return len(c.Tetrahedra) == 0 || c.Volume <= 0 }

// NewCell computes the Voronoi cell of vertex v of tri clipped to bounds.
// Only Delaunay neighbors contribute bisector planes. Vertices skipped as
// duplicates have an empty cell.
func NewCell(tri *delaunay.Triangulation, v int, bounds d3.Box) *Cell {
	site := tri.Point(v)
	if _, dup := tri.Duplicate(v); dup {
		return emptyCell(site)
	}
	nbs := tri.Neighbors(v)
	others := make([]r3.Vec, len(nbs))
	for i, w := range nbs {
		others[i] = tri.Point(w)
	}
	return Clip(site, others, bounds)
}

// Clip returns the region of bounds closer to site than to any of others.
func Clip(site r3.Vec, others []r3.Vec, bounds d3.Box) *Cell {
	if !(bounds.Volume() > 0) {
		return emptyCell(site)
	}
	poly := model3d.NewConvexPolytopeRect(toCoord(bounds.Min), toCoord(bounds.Max))
	for _, o := range others {
		diff := r3.Sub(o, site)
		n := r3.Norm(diff)
		if n == 0 {
			continue
		}
		normal := r3.Scale(1/n, diff)
		mid := r3.Scale(0.5, r3.Add(o, site))
		poly = append(poly, &model3d.LinearConstraint{
			Normal: toCoord(normal),
			Max:    r3.Dot(normal, mid),
		})
	}
	return fromMesh(site, poly.Mesh())
}

func emptyCell(site r3.Vec) *Cell {
	return &Cell{Site: site, Barycenter: site}
}

func fromMesh(site r3.Vec, mesh *model3d.Mesh) *Cell {
	if mesh == nil {
		return emptyCell(site)
	}
	tris := mesh.TriangleSlice()
	if len(tris) == 0 {
		return emptyCell(site)
	}
	// Order facets and their corners so the decomposition is deterministic.
	for i, t := range tris {
		tris[i] = canonical(t)
	}
	sort.Slice(tris, func(i, j int) bool { return lessTriangle(tris[i], tris[j]) })
	var apex r3.Vec
	nv := 0
	for _, t := range tris {
		for _, c := range t {
			apex = r3.Add(apex, fromCoord(c))
			nv++
		}
	}
	apex = r3.Scale(1/float64(nv), apex)

	// The corner average is interior so its fan yields the barycenter,
	// which then becomes the apex of the final decomposition.
	first := fan(site, apex, tris)
	if first.Empty() {
		return emptyCell(site)
	}
	cell := fan(site, first.Barycenter, tris)
	if cell.Empty() {
		return first
	}
	return cell
}

func fan(site, apex r3.Vec, tris []*model3d.Triangle) *Cell {
	const degenerateArea = 1e-14
	cell := emptyCell(site)
	var moment r3.Vec
	for _, t := range tris {
		if t.Area() < degenerateArea {
			continue
		}
		tet := d3.Tetra{apex, fromCoord(t[0]), fromCoord(t[1]), fromCoord(t[2])}
		vol := tet.Volume()
		if vol == 0 {
			continue
		}
		cell.Tetrahedra = append(cell.Tetrahedra, tet)
		cell.cdf = append(cell.cdf, vol)
		cell.Volume += vol
		moment = r3.Add(moment, r3.Scale(vol, tet.Centroid()))
	}
	if cell.Volume <= 0 {
		return emptyCell(site)
	}
	cell.Barycenter = r3.Scale(1/cell.Volume, moment)
	acc := 0.0
	for i, vol := range cell.cdf {
		acc += vol / cell.Volume
		cell.cdf[i] = acc
	}
	return cell
}

// Sample draws a point uniformly distributed inside the cell. An empty
// cell returns its site.
func (c *Cell) Sample(rng *rand.Rand) r3.Vec {
	if c.Empty() {
		return c.Site
	}
	i := SearchCDF(c.cdf, rng.Float64())
	return c.Tetrahedra[i].Sample(rng)
}

// SearchCDF returns the first index whose cumulative value is strictly
// greater than u, clamped to the last index.
func SearchCDF(cdf []float64, u float64) int {
	i := sort.Search(len(cdf), func(i int) bool { return cdf[i] > u })
	if i >= len(cdf) {
		i = len(cdf) - 1
	}
	return i
}

// canonical rotates the corners of t so the smallest comes first. The
// winding is kept.
func canonical(t *model3d.Triangle) *model3d.Triangle {
	first := 0
	for k := 1; k < 3; k++ {
		if lessCoord(t[k], t[first]) {
			first = k
		}
	}
	return &model3d.Triangle{t[first], t[(first+1)%3], t[(first+2)%3]}
}

func lessCoord(a, b model3d.Coord3D) bool {
	ca, cb := a.Array(), b.Array()
	for d := 0; d < 3; d++ {
		if ca[d] != cb[d] {
			return ca[d] < cb[d]
		}
	}
	return false
}

func lessTriangle(a, b *model3d.Triangle) bool {
	for k := 0; k < 3; k++ {
		if a[k] != b[k] {
			return lessCoord(a[k], b[k])
		}
	}
	return false
}

func toCoord(v r3.Vec) model3d.Coord3D {
	return model3d.XYZ(v.X, v.Y, v.Z)
}

func fromCoord(c model3d.Coord3D) r3.Vec {
	return r3.Vec{X: c.X, Y: c.Y, Z: c.Z}
}
