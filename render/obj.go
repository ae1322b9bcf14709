package render

import (
	"bufio"
	"io"
	"strconv"

	"gonum.org/v1/gonum/spatial/r3"
)

// WriteOBJ writes the mesh as Wavefront OBJ text with 1 based faces.
func WriteOBJ(w io.Writer, m *Mesh) error {
	bw := bufio.NewWriter(w)
	for _, v := range m.Vertices {
		writeOBJVertex(bw, v)
	}
	var buf []byte
	for _, f := range m.Triangles {
		buf = append(buf[:0], 'f')
		for _, idx := range f {
			buf = append(buf, ' ')
			buf = strconv.AppendInt(buf, int64(idx+1), 10)
		}
		buf = append(buf, '\n')
		bw.Write(buf)
	}
	return bw.Flush()
}

// WriteOBJPoints writes a vertex only OBJ point cloud.
func WriteOBJPoints(w io.Writer, points []r3.Vec) error {
	bw := bufio.NewWriter(w)
	for _, v := range points {
		writeOBJVertex(bw, v)
	}
	return bw.Flush()
}

func writeOBJVertex(bw *bufio.Writer, v r3.Vec) {
	var buf [80]byte
	b := append(buf[:0], 'v', ' ')
	b = strconv.AppendFloat(b, v.X, 'g', -1, 64)
	b = append(b, ' ')
	b = strconv.AppendFloat(b, v.Y, 'g', -1, 64)
	b = append(b, ' ')
	b = strconv.AppendFloat(b, v.Z, 'g', -1, 64)
	b = append(b, '\n')
	bw.Write(b)
}
