package delaunay

import (
	"github.com/soypat/mcmt/internal/d3"
	"gonum.org/v1/gonum/spatial/r3"
)

type tetra struct {
	v [4]int
	// nb[i] is the tetrahedron across the face opposite v[i], -1 if none.
	nb   [4]int
	dead bool
}

type faceRef struct {
	tet  int
	slot int
}

type builder struct {
	pts    []r3.Vec // input points followed by the 4 super corners
	n      int
	box    d3.Box
	tol2   float64
	tets   []tetra
	mark   []int
	gen    int
	last   int
	cavity []int
	stack  []int
	edges  map[[2]int]faceRef
}

func newBuilder(points []r3.Vec) *builder {
	box := d3.Box{Min: points[0], Max: points[0]}
	for _, p := range points[1:] {
		box = box.Include(p)
	}
	ext := d3.Max(box.Size())
	if ext == 0 {
		ext = 1
	}
	c := box.Center()
	m := superScale * ext
	pts := make([]r3.Vec, len(points), len(points)+4)
	copy(pts, points)
	pts = append(pts,
		r3.Add(c, r3.Vec{X: -m, Y: -m, Z: -m}),
		r3.Add(c, r3.Vec{X: 5 * m, Y: -m, Z: -m}),
		r3.Add(c, r3.Vec{X: -m, Y: 5 * m, Z: -m}),
		r3.Add(c, r3.Vec{X: -m, Y: -m, Z: 5 * m}),
	)
	n := len(points)
	b := &builder{
		pts:   pts,
		n:     n,
		box:   box,
		tol2:  (dupTol * ext) * (dupTol * ext),
		edges: make(map[[2]int]faceRef),
	}
	b.addTet([4]int{n, n + 1, n + 2, n + 3}, [4]int{-1, -1, -1, -1})
	return b
}

func (b *builder) addTet(v, nb [4]int) int {
	b.tets = append(b.tets, tetra{v: v, nb: nb})
	b.mark = append(b.mark, 0)
	return len(b.tets) - 1
}

// conflicts reports whether point i lies inside the circumsphere of
// tetrahedron ti.
func (b *builder) conflicts(ti, i int) bool {
	v := b.tets[ti].v
	return inSphere(
		[5]r3.Vec{b.pts[v[0]], b.pts[v[1]], b.pts[v[2]], b.pts[v[3]], b.pts[i]},
		[5]int{v[0], v[1], v[2], v[3], i},
	)
}

// insert adds point i. It returns the coincident vertex and false when
// the point duplicates an inserted one.
//
// The cavity is the connected set of tetrahedra in conflict with the
// point. With exact predicates and perturbed ties it is star shaped around
// the point, its boundary faces are strictly visible from it and every
// inserted vertex stays on its boundary.
func (b *builder) insert(i int) (twin int, ok bool) {
	p := b.pts[i]
	start := b.locate(p)
	if w, dup := b.coincident(start, p); dup {
		return w, false
	}
	b.gen++
	b.cavity = b.cavity[:0]
	b.stack = append(b.stack[:0], start)
	b.mark[start] = b.gen
	for len(b.stack) > 0 {
		ti := b.stack[len(b.stack)-1]
		b.stack = b.stack[:len(b.stack)-1]
		b.cavity = append(b.cavity, ti)
		for _, nb := range b.tets[ti].nb {
			if nb >= 0 && b.mark[nb] != b.gen && b.conflicts(nb, i) {
				b.mark[nb] = b.gen
				b.stack = append(b.stack, nb)
			}
		}
	}
	// The nearest inserted vertex always bounds the cavity.
	for _, ti := range b.cavity {
		if w, dup := b.coincident(ti, p); dup {
			return w, false
		}
	}
	b.retetrahedralize(i)
	return -1, true
}

// coincident returns a real vertex of tetrahedron ti within the duplicate
// tolerance of p.
func (b *builder) coincident(ti int, p r3.Vec) (int, bool) {
	for _, w := range b.tets[ti].v {
		if w < b.n && r3.Norm2(r3.Sub(p, b.pts[w])) <= b.tol2 {
			return w, true
		}
	}
	return -1, false
}

func (b *builder) retetrahedralize(i int) {
	clear(b.edges)
	first := len(b.tets)
	for _, ti := range b.cavity {
		t := b.tets[ti]
		for f, nb := range t.nb {
			if nb >= 0 && b.mark[nb] == b.gen {
				continue
			}
			v := t.v
			v[f] = i
			nbs := [4]int{-1, -1, -1, -1}
			nbs[f] = nb
			nt := b.addTet(v, nbs)
			if nb >= 0 {
				outer := &b.tets[nb]
				for s := range outer.nb {
					if outer.nb[s] == ti {
						outer.nb[s] = nt
						break
					}
				}
			}
		}
		b.tets[ti].dead = true
	}
	// Link the new tetrahedra to each other through the faces containing
	// the inserted point. Such a face is keyed by its two other vertices.
	for nt := first; nt < len(b.tets); nt++ {
		v := b.tets[nt].v
		for s := 0; s < 4; s++ {
			if v[s] == i {
				continue
			}
			var key [2]int
			k := 0
			for u := 0; u < 4; u++ {
				if u != s && v[u] != i {
					key[k] = v[u]
					k++
				}
			}
			if key[0] > key[1] {
				key[0], key[1] = key[1], key[0]
			}
			if other, ok := b.edges[key]; ok {
				b.tets[nt].nb[s] = other.tet
				b.tets[other.tet].nb[other.slot] = nt
				delete(b.edges, key)
			} else {
				b.edges[key] = faceRef{tet: nt, slot: s}
			}
		}
	}
	b.last = len(b.tets) - 1
}

// locate finds a live tetrahedron containing p by walking from the last
// created tetrahedron towards p. Cycling walks fall back to a scan.
func (b *builder) locate(p r3.Vec) int {
	cur := b.last
	maxSteps := len(b.tets) + 16
	for step := 0; step < maxSteps; step++ {
		f := b.exitFace(cur, p, step)
		if f < 0 {
			return cur
		}
		next := b.tets[cur].nb[f]
		if next < 0 {
			break
		}
		cur = next
	}
	return b.scan(p)
}

// exitFace returns a face of tetrahedron ti that has p strictly on its
// outer side, or -1 if p lies inside the closed tetrahedron. Faces are
// tried starting at a rotating offset so walks do not cycle.
func (b *builder) exitFace(ti int, p r3.Vec, offset int) int {
	v := b.tets[ti].v
	for k := 0; k < 4; k++ {
		f := (k + offset) % 4
		var q [4]r3.Vec
		for u := range v {
			q[u] = b.pts[v[u]]
		}
		q[f] = p
		if orientSign(q[0], q[1], q[2], q[3]) < 0 {
			return f
		}
	}
	return -1
}

func (b *builder) scan(p r3.Vec) int {
	for ti := range b.tets {
		if !b.tets[ti].dead && b.exitFace(ti, p, 0) < 0 {
			return ti
		}
	}
	// Every input point lies strictly inside the super tetrahedron.
	panic("delaunay: point outside super tetrahedron")
}
