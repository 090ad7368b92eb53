package feather2d

import (
	"github.com/akmonengine/feather2d/delaunay"
	"github.com/akmonengine/feather2d/geom"
	"github.com/akmonengine/feather2d/polygon"
	"github.com/pkg/errors"
)

// Mesh is a renderable triangle list: Vertices holds x, y pairs and every three
// Indices form one counter-clockwise triangle.
type Mesh struct {
	Vertices []float32
	Indices  []uint32
}

// BuildMesh triangulates p. Its vertices are p's points in order.
func BuildMesh(p polygon.Polygon) (Mesh, error) {
	result, err := delaunay.TriangulatePolygon(p)
	if err != nil {
		return Mesh{}, errors.Wrap(err, "build mesh")
	}

	points := p.Points()
	mesh := Mesh{
		Vertices: make([]float32, 0, len(points)*2),
		Indices:  make([]uint32, 0, len(result.Triangles)*3),
	}
	for _, pt := range points {
		mesh.Vertices = append(mesh.Vertices, pt[0], pt[1])
	}

	for _, t := range result.Triangles {
		a := geom.IndexOf(points, t.A)
		b := geom.IndexOf(points, t.B)
		c := geom.IndexOf(points, t.C)
		if a < 0 || b < 0 || c < 0 {
			continue
		}
		mesh.Indices = append(mesh.Indices, uint32(a), uint32(b), uint32(c))
	}
	return mesh, nil
}

// Append adds o to m, shifting o's indices past m's vertices.
func (m *Mesh) Append(o Mesh) {
	offset := uint32(len(m.Vertices) / 2)
	m.Vertices = append(m.Vertices, o.Vertices...)
	for _, i := range o.Indices {
		m.Indices = append(m.Indices, i+offset)
	}
}

// TriangleCount is the number of triangles in the mesh.
func (m Mesh) TriangleCount() int {
	return len(m.Indices) / 3
}
