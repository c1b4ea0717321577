package systems

import (
	"github.com/decker502/charts3d/pkg/components"
	"github.com/decker502/charts3d/pkg/ecs"
	"github.com/decker502/charts3d/pkg/geom"
	"github.com/decker502/charts3d/pkg/spatial"
)

// SpatialSystem 让八叉树与可拾取网格的世界三角形保持同步
type SpatialSystem struct {
	entityManager *ecs.EntityManager
	transforms    *TransformSystem
	octree        *spatial.Octree
}

// NewSpatialSystem 创建空间索引同步系统
func NewSpatialSystem(em *ecs.EntityManager, ts *TransformSystem, octree *spatial.Octree) *SpatialSystem {
	return &SpatialSystem{
		entityManager: em,
		transforms:    ts,
		octree:        octree,
	}
}

// Octree 返回被同步的八叉树
func (s *SpatialSystem) Octree() *spatial.Octree {
	return s.octree
}

// Update 按当前世界变换重新插入所有网格
// 场景内实体只增不删，条目不会过期
func (s *SpatialSystem) Update(dt float64) {
	for _, id := range ecs.GetEntitiesWith2[*components.DrawableComponent, *components.TransformComponent](s.entityManager) {
		d, _ := ecs.GetComponent[*components.DrawableComponent](s.entityManager, id)
		if d.Mesh == nil || d.Mesh.TriangleCount() == 0 {
			continue
		}
		tris := d.Mesh.Triangles(s.transforms.WorldMatrix(id))
		bounds := geom.AABBFromPoints(tris[0][:]...)
		for _, tri := range tris[1:] {
			bounds = bounds.ExtendPoint(tri[0]).ExtendPoint(tri[1]).ExtendPoint(tri[2])
		}
		s.octree.Insert(spatial.Entry{
			Entity:    id,
			Bounds:    bounds,
			Triangles: tris,
			Flags:     d.Flags,
		})
	}
}
