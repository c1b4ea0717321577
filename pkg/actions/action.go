// Package actions 提供非阻塞的定时属性过渡（缩放、着色、旋转）
//
// 动作本身只描述"做什么"，由 Runner（见 systems.ActionSystem）按帧推进。
// 每个实体的动作按标签（tag）分轨：在同一标签上运行新动作会取消旧动作，
// 不同标签上的动作互不干扰（例如高度动画与闪烁可以同时进行）。
package actions

import (
	"github.com/decker502/charts3d/pkg/ecs"
	"github.com/go-gl/mathgl/mgl32"
	"github.com/lucasb-eyer/go-colorful"
)

// 常用动作轨道标签
const (
	TagScale    = "scale"
	TagTint     = "tint"
	TagRotation = "rotation"
)

// Node 动作作用的目标节点
type Node interface {
	Scale() mgl32.Vec3
	SetScale(mgl32.Vec3)
	Rotation() mgl32.Quat
	SetRotation(mgl32.Quat)
	Tint() colorful.Color
	SetTint(colorful.Color)
}

// Action 动作描述，可重复启动
type Action interface {
	// Start 在节点上启动动作，返回运行实例
	// 起始值（如当前缩放）在启动时读取
	Start(n Node) Instance
}

// Instance 正在运行的动作
type Instance interface {
	// Step 推进 dt 秒
	// 返回：
	//   - done: 动作是否已结束
	//   - overflow: 结束后剩余未消耗的时间（秒），未结束时为 0
	Step(dt float64) (done bool, overflow float64)
}

// Runner 按实体和标签调度动作
type Runner interface {
	// Run 在 tag 轨道上运行动作，取代该轨道上正在运行的动作
	Run(id ecs.EntityID, tag string, a Action)
	// Cancel 取消 tag 轨道上的动作（不恢复属性）
	Cancel(id ecs.EntityID, tag string)
	// CancelAll 取消实体上的所有动作
	CancelAll(id ecs.EntityID)
	// IsRunning 检查 tag 轨道上是否有动作
	IsRunning(id ecs.EntityID, tag string) bool
}
