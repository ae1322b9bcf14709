package mcmt

import (
	"fmt"
	"io"
	"os"

	"github.com/soypat/mcmt/internal/d3"
	"github.com/soypat/mcmt/render"
	"gonum.org/v1/gonum/spatial/r3"
)

// TriangleMesh extracts the zero level set over the finite tetrahedra with
// marching tetrahedra. Inside is where the field is negative and triangles
// face outside.
func (s *Sampler) TriangleMesh() *render.Mesh {
	m := render.MarchingTetrahedra(s.points, s.values, s.finiteTets())
	s.log.LogMesh("level_set", len(m.Vertices), len(m.Triangles))
	return m
}

// GridMesh returns the faces of every finite tetrahedron whose vertices
// all have x >= xClip, indexed over all stored points.
func (s *Sampler) GridMesh(xClip float64) *render.Mesh {
	m := render.GridMesh(s.points, s.finiteTets(), xClip)
	s.log.LogMesh("grid", len(m.Vertices), len(m.Triangles))
	return m
}

// GridPoints returns the stored positions as xyz triplets.
func (s *Sampler) GridPoints() []float64 {
	return d3.Set(s.points).Flat()
}

// Grids returns the four vertex indices of every finite tetrahedron.
func (s *Sampler) Grids() []int {
	out := make([]int, 0, 4*s.tri.NumFinite())
	for _, t := range s.finiteTets() {
		out = append(out, t[:]...)
	}
	return out
}

// SaveTriangleMesh writes the level set mesh to an OBJ file.
func (s *Sampler) SaveTriangleMesh(path string) error {
	m := s.TriangleMesh()
	return s.save(path, func(w io.Writer) error { return render.WriteOBJ(w, m) })
}

// SaveGridMesh writes the clipped tetrahedra faces to an OBJ file.
func (s *Sampler) SaveGridMesh(path string, xClip float64) error {
	m := s.GridMesh(xClip)
	return s.save(path, func(w io.Writer) error { return render.WriteOBJ(w, m) })
}

// SaveGridPoints writes the stored positions as an OBJ point cloud.
func (s *Sampler) SaveGridPoints(path string) error {
	pts := append([]r3.Vec(nil), s.points...)
	return s.save(path, func(w io.Writer) error { return render.WriteOBJPoints(w, pts) })
}

func (s *Sampler) save(path string, write func(io.Writer) error) (err error) {
	defer func() { s.log.LogSave(path, err) }()
	fp, err := os.Create(path)
	if err != nil {
		return err
	}
	if err = write(fp); err != nil {
		fp.Close()
		return fmt.Errorf("writing %s: %w", path, err)
	}
	return fp.Close()
}
