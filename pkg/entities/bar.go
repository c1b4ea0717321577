package entities

import (
	"fmt"
	"log"

	"github.com/decker502/charts3d/pkg/actions"
	"github.com/decker502/charts3d/pkg/components"
	"github.com/decker502/charts3d/pkg/config"
	"github.com/decker502/charts3d/pkg/ecs"
	"github.com/decker502/charts3d/pkg/geom"
	"github.com/decker502/charts3d/pkg/spatial"
	"github.com/decker502/charts3d/pkg/utils"
	"github.com/go-gl/mathgl/mgl32"
	"github.com/lucasb-eyer/go-colorful"
)

// BarOptions 柱体的外观与动画参数
type BarOptions struct {
	MinHeight     float32
	Alpha         float64
	LabelOffset   mgl32.Vec3
	LabelColor    colorful.Color
	LabelFontSize float64
	BlinkColor    colorful.Color

	ValueDuration    float64
	BlinkPeriod      float64
	DeselectDuration float64

	// 为 nil 时使用 utils.EaseOutBack
	ValueEasing    utils.EasingFunc
	DeselectEasing utils.EasingFunc
}

// BarOptionsFromConfig 从图表配置提取柱体参数
func BarOptionsFromConfig(cfg *config.ChartConfig) BarOptions {
	return BarOptions{
		MinHeight:        cfg.Bar.MinHeight,
		Alpha:            cfg.Bar.Alpha,
		LabelOffset:      cfg.Label.Offset,
		LabelColor:       config.MustColor(cfg.Label.Color),
		LabelFontSize:    cfg.Label.FontSize,
		BlinkColor:       config.MustColor(cfg.Bar.BlinkColor),
		ValueDuration:    cfg.Animation.ValueDuration,
		BlinkPeriod:      cfg.Animation.BlinkPeriod,
		DeselectDuration: cfg.Animation.DeselectDuration,
		ValueEasing:      config.Easing(cfg.Animation.ValueEasing),
		DeselectEasing:   config.Easing(cfg.Animation.DeselectEasing),
	}
}

// unitBox 所有柱体共享的网格
var unitBox = geom.UnitBox()

// Bar 图表中的一根柱体
//
// 节点结构：
//
//	Bar（根，位于网格格点）
//	├── Box（立方体，Y 缩放 = 数值）
//	└── Label（数值文字）
//
// 选中状态由图表场景持有；Select/Deselect 只负责视觉反馈。
type Bar struct {
	em     *ecs.EntityManager
	runner actions.Runner
	opts   BarOptions

	root  ecs.EntityID
	box   ecs.EntityID
	label ecs.EntityID

	baseColor colorful.Color
	selected  []func(*Bar)
	blinking  bool
}

// NewBar 创建柱体及其子节点
// 参数：
//   - parent: 父节点（图表的 plot 节点）
//   - position: 相对父节点的格点位置
//   - color: 基础颜色
//
// 初始高度为 MinHeight，调用方通常随后调用 SetValueWithAnimation
func NewBar(em *ecs.EntityManager, runner actions.Runner, parent ecs.EntityID, name string, position mgl32.Vec3, color colorful.Color, opts BarOptions) *Bar {
	b := &Bar{
		em:        em,
		runner:    runner,
		opts:      opts,
		baseColor: color,
	}

	b.root = em.CreateEntity()
	rootTr := components.NewTransform(name, parent)
	rootTr.Position = position
	ecs.AddComponent(em, b.root, rootTr)

	b.box = em.CreateEntity()
	boxTr := components.NewTransform(name+"/Box", b.root)
	boxTr.Scale = mgl32.Vec3{1, opts.MinHeight, 1}
	boxTr.Position = mgl32.Vec3{0, opts.MinHeight / 2, 0}
	ecs.AddComponent(em, b.box, boxTr)
	ecs.AddComponent(em, b.box, &components.DrawableComponent{
		Mesh:  unitBox,
		Color: color,
		Alpha: opts.Alpha,
		Flags: spatial.FlagGeometry,
	})
	ecs.AddComponent(em, b.box, &components.BoxComponent{MinHeight: opts.MinHeight})

	b.label = em.CreateEntity()
	labelTr := components.NewTransform(name+"/Label", b.root)
	labelTr.Position = mgl32.Vec3{opts.LabelOffset.X(), opts.MinHeight + opts.LabelOffset.Y(), opts.LabelOffset.Z()}
	ecs.AddComponent(em, b.label, labelTr)
	ecs.AddComponent(em, b.label, &components.LabelComponent{
		Color:    opts.LabelColor,
		FontSize: opts.LabelFontSize,
	})

	ecs.AddComponent(em, b.root, &components.BarComponent{
		BoxEntity:   b.box,
		LabelEntity: b.label,
		BaseColor:   color,
		LabelOffset: opts.LabelOffset,
	})

	log.Printf("[Bar] 创建柱体 %s (root=%d, box=%d, label=%d)", name, b.root, b.box, b.label)
	return b
}

// Entity 返回柱体根节点
func (b *Bar) Entity() ecs.EntityID {
	return b.root
}

// BoxEntity 返回立方体节点（射线命中的节点）
func (b *Bar) BoxEntity() ecs.EntityID {
	return b.box
}

// Name 返回柱体名称
func (b *Bar) Name() string {
	if tr, ok := ecs.GetComponent[*components.TransformComponent](b.em, b.root); ok {
		return tr.Name
	}
	return fmt.Sprintf("Bar#%d", b.root)
}

// Value 返回当前数值（立方体的 Y 缩放，动画进行中为中间值）
func (b *Bar) Value() float32 {
	tr, ok := ecs.GetComponent[*components.TransformComponent](b.em, b.box)
	if !ok {
		return 0
	}
	return tr.Scale.Y()
}

// SetValue 立即设置数值（不低于最小高度），并取消正在进行的数值动画
func (b *Bar) SetValue(v float32) {
	b.runner.Cancel(b.box, actions.TagScale)
	tr, ok := ecs.GetComponent[*components.TransformComponent](b.em, b.box)
	if !ok {
		return
	}
	tr.Scale = mgl32.Vec3{1, max(v, b.opts.MinHeight), 1}
}

// SetValueWithAnimation 以缓动（默认回弹）过渡到新数值
// 过冲阶段同样受最小高度约束
func (b *Bar) SetValueWithAnimation(v float32) {
	b.runner.Run(b.box, actions.TagScale,
		easeOrBackOut(actions.NewScaleTo(b.opts.ValueDuration, 1, v, 1), b.opts.ValueEasing))
}

// Select 通知监听者后开始闪烁
func (b *Bar) Select() {
	for _, fn := range b.selected {
		fn(b)
	}

	blink := b.opts.BlinkColor
	base := b.baseColor
	b.runner.Run(b.box, actions.TagTint, actions.RepeatForever(
		actions.NewTintTo(b.opts.BlinkPeriod, blink.R, blink.G, blink.B),
		actions.NewTintTo(b.opts.BlinkPeriod, base.R, base.G, base.B),
	))
	b.blinking = true
}

// Deselect 停止闪烁并平滑恢复基础颜色
func (b *Bar) Deselect() {
	b.blinking = false
	base := b.baseColor
	b.runner.Run(b.box, actions.TagTint,
		easeOrBackOut(actions.NewTintTo(b.opts.DeselectDuration, base.R, base.G, base.B), b.opts.DeselectEasing))
}

func easeOrBackOut(a actions.FiniteTimeAction, ease utils.EasingFunc) actions.FiniteTimeAction {
	if ease == nil {
		return actions.EaseBackOut(a)
	}
	return actions.Ease(a, ease)
}

// OnSelected 注册选中回调（在闪烁开始前调用）
func (b *Bar) OnSelected(fn func(*Bar)) {
	b.selected = append(b.selected, fn)
}

// IsBlinking 处于选中闪烁状态时返回 true
func (b *Bar) IsBlinking() bool {
	return b.blinking
}

// Color 返回基础颜色
func (b *Bar) Color() colorful.Color {
	return b.baseColor
}

// CurrentColor 返回当前显示颜色（闪烁中为中间色）
func (b *Bar) CurrentColor() colorful.Color {
	if d, ok := ecs.GetComponent[*components.DrawableComponent](b.em, b.box); ok {
		return d.Color
	}
	return b.baseColor
}

// Label 返回标签当前文字
func (b *Bar) Label() string {
	if lc, ok := ecs.GetComponent[*components.LabelComponent](b.em, b.label); ok {
		return lc.Text
	}
	return ""
}
