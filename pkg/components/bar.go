package components

import (
	"github.com/decker502/charts3d/pkg/ecs"
	"github.com/go-gl/mathgl/mgl32"
	"github.com/lucasb-eyer/go-colorful"
)

// BarComponent 图表柱体（挂在柱体根节点上）
//
// 柱体根节点位于网格格点上，子节点：
//   - BoxEntity: 按值缩放的立方体
//   - LabelEntity: 显示数值的文字
//
// 选中状态不保存在这里，由图表场景统一持有。
type BarComponent struct {
	BoxEntity   ecs.EntityID
	LabelEntity ecs.EntityID

	// BaseColor 原始颜色（取消选中时回到此颜色）
	BaseColor colorful.Color

	// LabelOffset 标签相对柱顶的偏移（Y 会加上当前高度）
	LabelOffset mgl32.Vec3
}
