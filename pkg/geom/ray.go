// Package geom provides the small amount of 3D geometry the chart needs:
// rays, bounding boxes, triangle meshes and camera projection helpers.
package geom

import (
	"github.com/chewxy/math32"
	"github.com/go-gl/mathgl/mgl32"
)

// Ray represents a ray in 3D space with origin and direction.
type Ray struct {
	Origin    mgl32.Vec3
	Direction mgl32.Vec3 // Normalized direction
}

// NewRay creates a ray, normalizing dir.
func NewRay(origin, dir mgl32.Vec3) Ray {
	if l := dir.Len(); l > 0 {
		dir = dir.Mul(1 / l)
	}
	return Ray{Origin: origin, Direction: dir}
}

// At returns the point at distance t along the ray.
func (r Ray) At(t float32) mgl32.Vec3 {
	return r.Origin.Add(r.Direction.Mul(t))
}

// AABB represents an axis-aligned bounding box.
type AABB struct {
	Min mgl32.Vec3
	Max mgl32.Vec3
}

// NewAABB creates an AABB from two corners, handling swapped components.
func NewAABB(a, b mgl32.Vec3) AABB {
	box := AABB{Min: a, Max: b}
	for i := 0; i < 3; i++ {
		if box.Min[i] > box.Max[i] {
			box.Min[i], box.Max[i] = box.Max[i], box.Min[i]
		}
	}
	return box
}

// AABBFromPoints returns the smallest box containing all points.
func AABBFromPoints(points ...mgl32.Vec3) AABB {
	if len(points) == 0 {
		return AABB{}
	}
	box := AABB{Min: points[0], Max: points[0]}
	for _, p := range points[1:] {
		box = box.ExtendPoint(p)
	}
	return box
}

// ExtendPoint grows the box to include p.
func (b AABB) ExtendPoint(p mgl32.Vec3) AABB {
	for i := 0; i < 3; i++ {
		b.Min[i] = math32.Min(b.Min[i], p[i])
		b.Max[i] = math32.Max(b.Max[i], p[i])
	}
	return b
}

// Center returns the box center.
func (b AABB) Center() mgl32.Vec3 {
	return b.Min.Add(b.Max).Mul(0.5)
}

// Size returns the box extent on each axis.
func (b AABB) Size() mgl32.Vec3 {
	return b.Max.Sub(b.Min)
}

// Contains reports whether other lies completely inside b.
func (b AABB) Contains(other AABB) bool {
	for i := 0; i < 3; i++ {
		if other.Min[i] < b.Min[i] || other.Max[i] > b.Max[i] {
			return false
		}
	}
	return true
}

// Intersects reports whether the two boxes overlap (touching counts).
func (b AABB) Intersects(other AABB) bool {
	for i := 0; i < 3; i++ {
		if other.Max[i] < b.Min[i] || other.Min[i] > b.Max[i] {
			return false
		}
	}
	return true
}

// IntersectAABB tests ray intersection with an axis-aligned bounding box.
// Returns the distance to intersection (t) and whether intersection occurred.
// If the ray starts inside the box, returns the exit distance.
func (r Ray) IntersectAABB(box AABB) (t float32, hit bool) {
	tmin := float32(-math32.MaxFloat32)
	tmax := float32(math32.MaxFloat32)

	for axis := 0; axis < 3; axis++ {
		if r.Direction[axis] != 0 {
			t1 := (box.Min[axis] - r.Origin[axis]) / r.Direction[axis]
			t2 := (box.Max[axis] - r.Origin[axis]) / r.Direction[axis]
			if t1 > t2 {
				t1, t2 = t2, t1
			}
			if t1 > tmin {
				tmin = t1
			}
			if t2 < tmax {
				tmax = t2
			}
		} else if r.Origin[axis] < box.Min[axis] || r.Origin[axis] > box.Max[axis] {
			return 0, false
		}
	}

	if tmax < tmin || tmax < 0 {
		return 0, false
	}

	// Return entry point, or exit point if starting inside
	if tmin < 0 {
		return tmax, true
	}
	return tmin, true
}

// IntersectPlaneY intersects a ray with a horizontal plane at the given Y level.
func (r Ray) IntersectPlaneY(planeY float32) (t float32, ok bool) {
	if math32.Abs(r.Direction[1]) < 1e-6 {
		return 0, false // Ray parallel to plane
	}
	t = (planeY - r.Origin[1]) / r.Direction[1]
	if t < 0 {
		return 0, false // Intersection behind ray origin
	}
	return t, true
}
