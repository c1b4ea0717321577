package entities

import (
	"github.com/decker502/charts3d/pkg/components"
	"github.com/decker502/charts3d/pkg/config"
	"github.com/decker502/charts3d/pkg/ecs"
	"github.com/decker502/charts3d/pkg/geom"
	"github.com/decker502/charts3d/pkg/spatial"
	"github.com/go-gl/mathgl/mgl32"
)

// NewNode 创建只有变换的空节点（场景根、plot 等分组节点）
func NewNode(em *ecs.EntityManager, name string, parent ecs.EntityID, position mgl32.Vec3) ecs.EntityID {
	id := em.CreateEntity()
	tr := components.NewTransform(name, parent)
	tr.Position = position
	ecs.AddComponent(em, id, tr)
	return id
}

// NewCamera 创建相机节点
func NewCamera(em *ecs.EntityManager, parent ecs.EntityID, cfg config.CameraConfig) ecs.EntityID {
	id := NewNode(em, "Camera", parent, cfg.Position)
	ecs.AddComponent(em, id, &components.CameraComponent{
		FovY:   cfg.FovY,
		Near:   cfg.Near,
		Far:    cfg.Far,
		Target: cfg.Target,
		Up:     mgl32.Vec3{0, 1, 0},
	})
	return id
}

// NewPointLight 创建点光源节点（通常挂在相机下，随相机移动）
func NewPointLight(em *ecs.EntityManager, parent ecs.EntityID, cfg config.LightConfig) ecs.EntityID {
	id := NewNode(em, "Light", parent, cfg.Offset)
	ecs.AddComponent(em, id, &components.LightComponent{
		Type:       components.LightPoint,
		Color:      config.MustColor(cfg.Color),
		Range:      cfg.Range,
		Brightness: cfg.Brightness,
	})
	return id
}

// NewGround 创建地面节点
// 地面参与拾取但没有所属柱体，命中时被忽略
// 参数：
//   - mesh: 单位平面模型
//   - extent: X/Z 方向的缩放（覆盖整个网格）
func NewGround(em *ecs.EntityManager, parent ecs.EntityID, mesh *geom.Mesh, extent float32, cfg config.GroundConfig) ecs.EntityID {
	id := NewNode(em, "Ground", parent, mgl32.Vec3{})
	tr, _ := ecs.GetComponent[*components.TransformComponent](em, id)
	tr.Scale = mgl32.Vec3{extent, 1, extent}
	ecs.AddComponent(em, id, &components.DrawableComponent{
		Mesh:  mesh,
		Color: config.MustColor(cfg.Color),
		Alpha: 1,
		Flags: spatial.FlagGeometry,
	})
	return id
}
