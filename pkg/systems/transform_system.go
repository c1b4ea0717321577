package systems

import (
	"github.com/decker502/charts3d/pkg/components"
	"github.com/decker502/charts3d/pkg/ecs"
	"github.com/go-gl/mathgl/mgl32"
)

// maxHierarchyDepth 防止父子关系成环时死循环
const maxHierarchyDepth = 64

// TransformSystem 计算场景图节点的世界变换
//
// 节点数量很少（相机、灯光、地面、每个柱体三个节点），
// 因此每次按父链现算，不做脏标记缓存。
type TransformSystem struct {
	entityManager *ecs.EntityManager
}

// NewTransformSystem 创建变换系统
func NewTransformSystem(em *ecs.EntityManager) *TransformSystem {
	return &TransformSystem{entityManager: em}
}

// WorldMatrix 返回节点的世界矩阵
// 没有 TransformComponent 的实体返回单位矩阵
func (s *TransformSystem) WorldMatrix(id ecs.EntityID) mgl32.Mat4 {
	world := mgl32.Ident4()
	for depth := 0; id != ecs.InvalidEntity && depth < maxHierarchyDepth; depth++ {
		tr, ok := ecs.GetComponent[*components.TransformComponent](s.entityManager, id)
		if !ok {
			break
		}
		world = tr.LocalMatrix().Mul4(world)
		id = tr.Parent
	}
	return world
}

// WorldPosition 返回节点原点的世界坐标
func (s *TransformSystem) WorldPosition(id ecs.EntityID) mgl32.Vec3 {
	return s.WorldMatrix(id).Col(3).Vec3()
}

// Parent 返回节点的父节点
func (s *TransformSystem) Parent(id ecs.EntityID) ecs.EntityID {
	tr, ok := ecs.GetComponent[*components.TransformComponent](s.entityManager, id)
	if !ok {
		return ecs.InvalidEntity
	}
	return tr.Parent
}

// Rotate 在本地空间绕 Y 轴旋转节点（角度制）
func (s *TransformSystem) Rotate(id ecs.EntityID, yawDegrees float32) {
	tr, ok := ecs.GetComponent[*components.TransformComponent](s.entityManager, id)
	if !ok {
		return
	}
	delta := mgl32.QuatRotate(mgl32.DegToRad(yawDegrees), mgl32.Vec3{0, 1, 0})
	tr.Rotation = tr.Rotation.Mul(delta).Normalize()
}
