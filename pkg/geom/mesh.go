package geom

import (
	"fmt"

	"github.com/go-gl/mathgl/mgl32"
)

// Mesh is an indexed triangle list.
type Mesh struct {
	Name     string
	Vertices []mgl32.Vec3
	Indices  []uint16
	// TwoSided disables back-face culling (flat planes)
	TwoSided bool
}

// Validate checks that indices form whole triangles and stay in range.
func (m *Mesh) Validate() error {
	if len(m.Indices)%3 != 0 {
		return fmt.Errorf("mesh %q: index count %d is not a multiple of 3", m.Name, len(m.Indices))
	}
	for i, idx := range m.Indices {
		if int(idx) >= len(m.Vertices) {
			return fmt.Errorf("mesh %q: index %d (position %d) out of range, %d vertices", m.Name, idx, i, len(m.Vertices))
		}
	}
	return nil
}

// TriangleCount returns the number of triangles.
func (m *Mesh) TriangleCount() int {
	return len(m.Indices) / 3
}

// Triangle returns triangle i in mesh space.
func (m *Mesh) Triangle(i int) Triangle {
	return Triangle{
		m.Vertices[m.Indices[i*3]],
		m.Vertices[m.Indices[i*3+1]],
		m.Vertices[m.Indices[i*3+2]],
	}
}

// Triangles returns all triangles transformed by world.
func (m *Mesh) Triangles(world mgl32.Mat4) []Triangle {
	out := make([]Triangle, 0, m.TriangleCount())
	for i := 0; i < m.TriangleCount(); i++ {
		out = append(out, m.Triangle(i).Transform(world))
	}
	return out
}

// Bounds returns the mesh-space bounding box.
func (m *Mesh) Bounds() AABB {
	return AABBFromPoints(m.Vertices...)
}

// UnitBox returns a 1x1x1 box centered at the origin, outward CCW faces.
func UnitBox() *Mesh {
	v := []mgl32.Vec3{
		{-0.5, -0.5, -0.5}, {0.5, -0.5, -0.5}, {0.5, 0.5, -0.5}, {-0.5, 0.5, -0.5},
		{-0.5, -0.5, 0.5}, {0.5, -0.5, 0.5}, {0.5, 0.5, 0.5}, {-0.5, 0.5, 0.5},
	}
	idx := []uint16{
		4, 5, 6, 4, 6, 7, // +Z
		1, 0, 3, 1, 3, 2, // -Z
		5, 1, 2, 5, 2, 6, // +X
		0, 4, 7, 0, 7, 3, // -X
		7, 6, 2, 7, 2, 3, // +Y
		0, 1, 5, 0, 5, 4, // -Y
	}
	return &Mesh{Name: "Box", Vertices: v, Indices: idx}
}
