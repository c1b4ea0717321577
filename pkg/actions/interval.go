package actions

import (
	"github.com/decker502/charts3d/pkg/utils"
	"github.com/go-gl/mathgl/mgl32"
	"github.com/lucasb-eyer/go-colorful"
)

// FiniteTimeAction 有固定时长的动作，可以被缓动包装
type FiniteTimeAction interface {
	Action
	Duration() float64
	// begin 读取起始状态，返回按进度更新属性的函数
	begin(n Node) updater
}

// updater 接收进度 p（通常在 [0,1]，缓动过冲时可能超出）
type updater func(p float64)

type intervalInstance struct {
	duration float64
	elapsed  float64
	update   updater
}

func startInterval(a FiniteTimeAction, n Node) Instance {
	return &intervalInstance{duration: a.Duration(), update: a.begin(n)}
}

func (i *intervalInstance) Step(dt float64) (bool, float64) {
	i.elapsed += dt
	if i.duration <= 0 {
		i.update(1)
		return true, dt
	}
	p := utils.Clamp01(i.elapsed / i.duration)
	i.update(p)
	if i.elapsed >= i.duration {
		return true, i.elapsed - i.duration
	}
	return false, 0
}

// ScaleTo 将节点缩放过渡到目标值
type ScaleTo struct {
	Seconds float64
	Target  mgl32.Vec3
}

// NewScaleTo 创建缩放动作
func NewScaleTo(duration float64, x, y, z float32) *ScaleTo {
	return &ScaleTo{Seconds: duration, Target: mgl32.Vec3{x, y, z}}
}

func (a *ScaleTo) Duration() float64 { return a.Seconds }

func (a *ScaleTo) Start(n Node) Instance { return startInterval(a, n) }

func (a *ScaleTo) begin(n Node) updater {
	from := n.Scale()
	delta := a.Target.Sub(from)
	return func(p float64) {
		n.SetScale(from.Add(delta.Mul(float32(p))))
	}
}

// TintTo 将节点颜色过渡到目标色
type TintTo struct {
	Seconds float64
	Color   colorful.Color
}

// NewTintTo 创建着色动作，r/g/b 取值 [0,1]
func NewTintTo(duration float64, r, g, b float64) *TintTo {
	return &TintTo{Seconds: duration, Color: colorful.Color{R: r, G: g, B: b}}
}

func (a *TintTo) Duration() float64 { return a.Seconds }

func (a *TintTo) Start(n Node) Instance { return startInterval(a, n) }

func (a *TintTo) begin(n Node) updater {
	from := n.Tint()
	return func(p float64) {
		n.SetTint(from.BlendRgb(a.Color, p).Clamped())
	}
}

// RotateBy 绕本地轴增量旋转（角度制，欧拉角 X/Y/Z）
//
// 旋转是增量叠加的：每帧只施加本帧新增的角度，
// 因此与拖拽等外部旋转可以共存。
type RotateBy struct {
	Seconds float64
	Delta   mgl32.Vec3
}

// NewRotateBy 创建旋转动作
func NewRotateBy(duration float64, x, y, z float32) *RotateBy {
	return &RotateBy{Seconds: duration, Delta: mgl32.Vec3{x, y, z}}
}

func (a *RotateBy) Duration() float64 { return a.Seconds }

func (a *RotateBy) Start(n Node) Instance { return startInterval(a, n) }

func (a *RotateBy) begin(n Node) updater {
	applied := 0.0
	return func(p float64) {
		step := float32(p - applied)
		applied = p
		if step == 0 {
			return
		}
		n.SetRotation(n.Rotation().Mul(EulerToQuat(a.Delta.Mul(step))).Normalize())
	}
}

// EulerToQuat 将角度制欧拉角转换为四元数（先 Y 后 X 再 Z）
func EulerToQuat(deg mgl32.Vec3) mgl32.Quat {
	return mgl32.AnglesToQuat(
		mgl32.DegToRad(deg.Y()),
		mgl32.DegToRad(deg.X()),
		mgl32.DegToRad(deg.Z()),
		mgl32.YXZ,
	)
}

// eased 用缓动曲线包装另一个有限时长动作
type eased struct {
	inner FiniteTimeAction
	ease  func(float64) float64
}

// EaseBackOut 回弹缓出包装：先越过目标再回落
func EaseBackOut(inner FiniteTimeAction) FiniteTimeAction {
	return &eased{inner: inner, ease: utils.EaseOutBack}
}

// Ease 使用任意缓动函数包装动作
func Ease(inner FiniteTimeAction, ease func(float64) float64) FiniteTimeAction {
	return &eased{inner: inner, ease: ease}
}

func (a *eased) Duration() float64 { return a.inner.Duration() }

func (a *eased) Start(n Node) Instance { return startInterval(a, n) }

func (a *eased) begin(n Node) updater {
	inner := a.inner.begin(n)
	return func(p float64) {
		inner(a.ease(p))
	}
}
