package components

import (
	"github.com/decker502/charts3d/pkg/ecs"
	"github.com/go-gl/mathgl/mgl32"
)

// TransformComponent 场景图节点的本地变换
//
// 世界矩阵 = 父节点世界矩阵 × 本地矩阵（见 systems.TransformSystem）。
// 本地矩阵按 平移 × 旋转 × 缩放 组合，因此缩放以节点原点为中心。
type TransformComponent struct {
	// Name 节点名称（调试用）
	Name string

	// Parent 父节点，ecs.InvalidEntity 表示根节点
	Parent ecs.EntityID

	// Position 相对父节点的位置
	Position mgl32.Vec3

	// Scale 缩放（1 = 原始大小）
	Scale mgl32.Vec3

	// Rotation 相对父节点的旋转
	Rotation mgl32.Quat
}

// NewTransform 创建单位变换
func NewTransform(name string, parent ecs.EntityID) *TransformComponent {
	return &TransformComponent{
		Name:     name,
		Parent:   parent,
		Scale:    mgl32.Vec3{1, 1, 1},
		Rotation: mgl32.QuatIdent(),
	}
}

// LocalMatrix 返回本地变换矩阵
func (t *TransformComponent) LocalMatrix() mgl32.Mat4 {
	translate := mgl32.Translate3D(t.Position.X(), t.Position.Y(), t.Position.Z())
	scale := mgl32.Scale3D(t.Scale.X(), t.Scale.Y(), t.Scale.Z())
	return translate.Mul4(t.Rotation.Mat4()).Mul4(scale)
}
