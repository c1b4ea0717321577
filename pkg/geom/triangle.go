package geom

import (
	"github.com/chewxy/math32"
	"github.com/go-gl/mathgl/mgl32"
)

// Triangle is a world or local space triangle.
type Triangle [3]mgl32.Vec3

// Normal returns the unit face normal using counter-clockwise winding.
func (tri Triangle) Normal() mgl32.Vec3 {
	n := tri[1].Sub(tri[0]).Cross(tri[2].Sub(tri[0]))
	if l := n.Len(); l > 0 {
		return n.Mul(1 / l)
	}
	return n
}

// Centroid returns the average of the three corners.
func (tri Triangle) Centroid() mgl32.Vec3 {
	return tri[0].Add(tri[1]).Add(tri[2]).Mul(1.0 / 3.0)
}

// Transform applies m to every corner.
func (tri Triangle) Transform(m mgl32.Mat4) Triangle {
	var out Triangle
	for i, v := range tri {
		out[i] = mgl32.TransformCoordinate(v, m)
	}
	return out
}

const triangleEpsilon = 1e-7

// IntersectTriangle runs the Moller-Trumbore test. Both faces count as hits.
func (r Ray) IntersectTriangle(tri Triangle) (t float32, hit bool) {
	edge1 := tri[1].Sub(tri[0])
	edge2 := tri[2].Sub(tri[0])
	h := r.Direction.Cross(edge2)
	a := edge1.Dot(h)
	if math32.Abs(a) < triangleEpsilon {
		return 0, false
	}

	f := 1 / a
	s := r.Origin.Sub(tri[0])
	u := f * s.Dot(h)
	if u < 0 || u > 1 {
		return 0, false
	}

	q := s.Cross(edge1)
	v := f * r.Direction.Dot(q)
	if v < 0 || u+v > 1 {
		return 0, false
	}

	t = f * edge2.Dot(q)
	if t < triangleEpsilon {
		return 0, false
	}
	return t, true
}
