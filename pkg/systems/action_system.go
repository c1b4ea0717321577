package systems

import (
	"slices"

	"github.com/decker502/charts3d/pkg/actions"
	"github.com/decker502/charts3d/pkg/components"
	"github.com/decker502/charts3d/pkg/ecs"
	"github.com/go-gl/mathgl/mgl32"
	"github.com/lucasb-eyer/go-colorful"
)

// ActionSystem 按帧推进实体上的动作，实现 actions.Runner
type ActionSystem struct {
	entityManager *ecs.EntityManager
}

var _ actions.Runner = (*ActionSystem)(nil)

// NewActionSystem 创建动作系统
func NewActionSystem(em *ecs.EntityManager) *ActionSystem {
	return &ActionSystem{entityManager: em}
}

// Run 在实体的 tag 轨道上启动动作，取代该轨道上已有的动作
func (s *ActionSystem) Run(id ecs.EntityID, tag string, a actions.Action) {
	comp, ok := ecs.GetComponent[*components.ActionComponent](s.entityManager, id)
	if !ok {
		comp = components.NewActionComponent()
		ecs.AddComponent(s.entityManager, id, comp)
	}
	comp.Tracks[tag] = a.Start(&entityNode{em: s.entityManager, id: id})
}

// Cancel 取消 tag 轨道上的动作，属性停在当前值
func (s *ActionSystem) Cancel(id ecs.EntityID, tag string) {
	if comp, ok := ecs.GetComponent[*components.ActionComponent](s.entityManager, id); ok {
		delete(comp.Tracks, tag)
	}
}

// CancelAll 取消实体上的所有动作
func (s *ActionSystem) CancelAll(id ecs.EntityID) {
	if comp, ok := ecs.GetComponent[*components.ActionComponent](s.entityManager, id); ok {
		clear(comp.Tracks)
	}
}

// IsRunning 检查 tag 轨道上是否有动作
func (s *ActionSystem) IsRunning(id ecs.EntityID, tag string) bool {
	comp, ok := ecs.GetComponent[*components.ActionComponent](s.entityManager, id)
	if !ok {
		return false
	}
	_, running := comp.Tracks[tag]
	return running
}

// Update 推进所有动作
// 参数：
//   - dt: 时间增量（秒）
func (s *ActionSystem) Update(dt float64) {
	for _, id := range ecs.GetEntitiesWith1[*components.ActionComponent](s.entityManager) {
		comp, ok := ecs.GetComponent[*components.ActionComponent](s.entityManager, id)
		if !ok || len(comp.Tracks) == 0 {
			continue
		}

		tags := make([]string, 0, len(comp.Tracks))
		for tag := range comp.Tracks {
			tags = append(tags, tag)
		}
		slices.Sort(tags)

		for _, tag := range tags {
			inst, ok := comp.Tracks[tag]
			if !ok {
				continue // 被同一帧内的回调取消
			}
			done, _ := inst.Step(dt)
			// 回调可能已在同一轨道上启动了新动作，只移除自己
			if done && comp.Tracks[tag] == inst {
				delete(comp.Tracks, tag)
			}
		}
	}
}

// entityNode 把 ECS 实体适配为 actions.Node
type entityNode struct {
	em *ecs.EntityManager
	id ecs.EntityID
}

func (n *entityNode) transform() *components.TransformComponent {
	tr, _ := ecs.GetComponent[*components.TransformComponent](n.em, n.id)
	return tr
}

func (n *entityNode) Scale() mgl32.Vec3 {
	if tr := n.transform(); tr != nil {
		return tr.Scale
	}
	return mgl32.Vec3{1, 1, 1}
}

// SetScale 写入缩放；柱体的 Y 轴缩放不会低于最小高度
func (n *entityNode) SetScale(scale mgl32.Vec3) {
	tr := n.transform()
	if tr == nil {
		return
	}
	if box, ok := ecs.GetComponent[*components.BoxComponent](n.em, n.id); ok {
		scale[1] = box.ClampHeight(scale[1])
	}
	tr.Scale = scale
}

func (n *entityNode) Rotation() mgl32.Quat {
	if tr := n.transform(); tr != nil {
		return tr.Rotation
	}
	return mgl32.QuatIdent()
}

func (n *entityNode) SetRotation(q mgl32.Quat) {
	if tr := n.transform(); tr != nil {
		tr.Rotation = q
	}
}

func (n *entityNode) Tint() colorful.Color {
	if d, ok := ecs.GetComponent[*components.DrawableComponent](n.em, n.id); ok {
		return d.Color
	}
	return colorful.Color{R: 1, G: 1, B: 1}
}

func (n *entityNode) SetTint(c colorful.Color) {
	if d, ok := ecs.GetComponent[*components.DrawableComponent](n.em, n.id); ok {
		d.Color = c
	}
}
