// Package spatial indexes scene geometry for picking.
//
// The chart only ever asks one question of it: "which drawable does this
// ray hit first". Query captures that so scene code can be tested against
// a fake index.
package spatial

import (
	"slices"

	"github.com/decker502/charts3d/pkg/ecs"
	"github.com/decker502/charts3d/pkg/geom"
	"github.com/go-gl/mathgl/mgl32"
)

// DrawableFlags classifies indexed entries so queries can filter them.
type DrawableFlags uint32

const (
	// FlagGeometry marks solid, pickable meshes
	FlagGeometry DrawableFlags = 1 << iota
	// FlagBillboard marks camera-facing text and sprites
	FlagBillboard

	FlagAny = ^DrawableFlags(0)
)

// Hit is one raycast result.
type Hit struct {
	Entity   ecs.EntityID
	Distance float32
	Position mgl32.Vec3
}

// Query resolves rays against indexed geometry.
type Query interface {
	// RaycastSingle returns at most one hit: the nearest entry matching
	// flags within maxDistance. A miss returns an empty slice.
	RaycastSingle(ray geom.Ray, maxDistance float32, flags DrawableFlags) []Hit
}

// Entry is what the index stores for one entity.
type Entry struct {
	Entity ecs.EntityID
	Bounds geom.AABB
	// Triangles enables triangle-level refinement; when empty the
	// bounding box itself is the hit surface.
	Triangles []geom.Triangle
	Flags     DrawableFlags

	node *octant
}

type octant struct {
	bounds   geom.AABB
	depth    int
	children [8]*octant
	entries  []*Entry
}

// Octree is a plain (non-loose) octree: an entry lives in the deepest octant that
// fully contains its bounds. Entries outside the root bounds stay at root.
type Octree struct {
	root     *octant
	maxDepth int
	entries  map[ecs.EntityID]*Entry
}

// DefaultMaxDepth 默认最大细分深度
const DefaultMaxDepth = 6

// NewOctree creates an octree covering bounds.
func NewOctree(bounds geom.AABB, maxDepth int) *Octree {
	if maxDepth <= 0 {
		maxDepth = DefaultMaxDepth
	}
	return &Octree{
		root:     &octant{bounds: bounds},
		maxDepth: maxDepth,
		entries:  make(map[ecs.EntityID]*Entry),
	}
}

// Len returns the number of indexed entries.
func (o *Octree) Len() int {
	return len(o.entries)
}

// Insert adds or replaces the entry for e.Entity.
func (o *Octree) Insert(e Entry) {
	o.Remove(e.Entity)

	entry := &e
	node := o.root
	for node.depth < o.maxDepth {
		idx := node.childIndexFor(entry.Bounds)
		if idx < 0 {
			break
		}
		if node.children[idx] == nil {
			node.children[idx] = &octant{bounds: node.childBounds(idx), depth: node.depth + 1}
		}
		node = node.children[idx]
	}

	entry.node = node
	node.entries = append(node.entries, entry)
	o.entries[entry.Entity] = entry
}

// Remove drops id from the index. Unknown ids are ignored.
func (o *Octree) Remove(id ecs.EntityID) {
	entry, ok := o.entries[id]
	if !ok {
		return
	}
	node := entry.node
	node.entries = slices.DeleteFunc(node.entries, func(e *Entry) bool { return e == entry })
	delete(o.entries, id)
}

// Raycast returns every hit within maxDistance sorted by distance.
func (o *Octree) Raycast(ray geom.Ray, maxDistance float32, flags DrawableFlags) []Hit {
	hits := make([]Hit, 0)
	o.root.raycast(ray, maxDistance, flags, true, &hits)
	slices.SortFunc(hits, func(a, b Hit) int {
		switch {
		case a.Distance < b.Distance:
			return -1
		case a.Distance > b.Distance:
			return 1
		}
		return int(a.Entity) - int(b.Entity)
	})
	return hits
}

// RaycastSingle implements Query.
func (o *Octree) RaycastSingle(ray geom.Ray, maxDistance float32, flags DrawableFlags) []Hit {
	hits := o.Raycast(ray, maxDistance, flags)
	if len(hits) > 1 {
		hits = hits[:1]
	}
	return hits
}

func (n *octant) raycast(ray geom.Ray, maxDistance float32, flags DrawableFlags, isRoot bool, hits *[]Hit) {
	if !isRoot {
		t, hit := ray.IntersectAABB(n.bounds)
		if !hit || t > maxDistance {
			return
		}
	}

	for _, e := range n.entries {
		if e.Flags&flags == 0 {
			continue
		}
		if d, ok := e.intersect(ray); ok && d <= maxDistance {
			*hits = append(*hits, Hit{Entity: e.Entity, Distance: d, Position: ray.At(d)})
		}
	}

	for _, child := range n.children {
		if child != nil {
			child.raycast(ray, maxDistance, flags, false, hits)
		}
	}
}

func (e *Entry) intersect(ray geom.Ray) (float32, bool) {
	d, hit := ray.IntersectAABB(e.Bounds)
	if !hit {
		return 0, false
	}
	if len(e.Triangles) == 0 {
		return d, true
	}

	best := float32(-1)
	for _, tri := range e.Triangles {
		if t, ok := ray.IntersectTriangle(tri); ok && (best < 0 || t < best) {
			best = t
		}
	}
	return best, best >= 0
}

// childIndexFor returns the octant that fully contains b, or -1.
func (n *octant) childIndexFor(b geom.AABB) int {
	c := n.bounds.Center()
	idx := 0
	for axis := 0; axis < 3; axis++ {
		switch {
		case b.Min[axis] >= c[axis]:
			idx |= 1 << axis
		case b.Max[axis] <= c[axis]:
		default:
			return -1
		}
	}
	if !n.bounds.Contains(b) {
		return -1
	}
	return idx
}

func (n *octant) childBounds(idx int) geom.AABB {
	c := n.bounds.Center()
	child := n.bounds
	for axis := 0; axis < 3; axis++ {
		if idx&(1<<axis) != 0 {
			child.Min[axis] = c[axis]
		} else {
			child.Max[axis] = c[axis]
		}
	}
	return child
}
