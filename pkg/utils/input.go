// Package utils 提供通用工具函数
package utils

import (
	"slices"

	"github.com/hajimehoshi/ebiten/v2"
	"github.com/hajimehoshi/ebiten/v2/inpututil"
)

// MouseTouchID 鼠标模拟触摸时使用的触点 ID
const MouseTouchID = -1

// Touch 一个触点在当前帧的状态
type Touch struct {
	ID int
	// X, Y 当前（或释放前最后）位置
	X, Y int
	// DeltaX, DeltaY 相对上一帧的位移
	DeltaX, DeltaY int
}

// Key 应用关心的按键
type Key int

const (
	// KeyExit 退出（Esc）
	KeyExit Key = iota
	// KeyRandomize 随机化所有柱体（Space）
	KeyRandomize
	// KeyRestart 重新开始（R）
	KeyRestart
)

var ebitenKeys = map[Key]ebiten.Key{
	KeyExit:      ebiten.KeyEscape,
	KeyRandomize: ebiten.KeySpace,
	KeyRestart:   ebiten.KeyR,
}

// InputSource 每帧的输入快照
type InputSource interface {
	// Update 采集本帧输入，每帧调用一次
	Update()
	// Touches 当前按下的触点，按 ID 排序
	Touches() []Touch
	// EndedTouches 本帧释放的触点，位置为释放前最后位置
	EndedTouches() []Touch
	// IsKeyJustPressed 按键是否本帧刚按下
	IsKeyJustPressed(k Key) bool
}

type point struct{ x, y int }

// TouchTracker 根据每帧的触点位置计算位移和释放事件
//
// ebiten 在触摸释放后不再提供位置，因此释放事件使用上一帧记录的位置。
type TouchTracker struct {
	last    map[int]point
	active  []Touch
	ended   []Touch
	scratch map[int]point
}

// NewTouchTracker 创建触点跟踪器
func NewTouchTracker() *TouchTracker {
	return &TouchTracker{
		last:    make(map[int]point),
		scratch: make(map[int]point),
	}
}

// Begin 开始新的一帧
func (t *TouchTracker) Begin() {
	clear(t.scratch)
}

// Set 记录触点本帧位置
func (t *TouchTracker) Set(id, x, y int) {
	t.scratch[id] = point{x, y}
}

// End 结束本帧，计算位移和释放的触点
func (t *TouchTracker) End() {
	t.active = t.active[:0]
	t.ended = t.ended[:0]

	for id, p := range t.scratch {
		touch := Touch{ID: id, X: p.x, Y: p.y}
		if prev, ok := t.last[id]; ok {
			touch.DeltaX = p.x - prev.x
			touch.DeltaY = p.y - prev.y
		}
		t.active = append(t.active, touch)
	}
	for id, p := range t.last {
		if _, ok := t.scratch[id]; !ok {
			t.ended = append(t.ended, Touch{ID: id, X: p.x, Y: p.y})
		}
	}

	byID := func(a, b Touch) int { return a.ID - b.ID }
	slices.SortFunc(t.active, byID)
	slices.SortFunc(t.ended, byID)

	clear(t.last)
	for id, p := range t.scratch {
		t.last[id] = p
	}
}

// Touches 当前按下的触点
func (t *TouchTracker) Touches() []Touch {
	return t.active
}

// EndedTouches 本帧释放的触点
func (t *TouchTracker) EndedTouches() []Touch {
	return t.ended
}

// EbitenInput 基于 ebiten 的输入源
type EbitenInput struct {
	tracker *TouchTracker
	// TouchEmulation 为 true 时鼠标左键视为 ID 为 MouseTouchID 的触点
	TouchEmulation bool
	touchIDs       []ebiten.TouchID
}

var _ InputSource = (*EbitenInput)(nil)

// NewEbitenInput 创建 ebiten 输入源
func NewEbitenInput(touchEmulation bool) *EbitenInput {
	return &EbitenInput{
		tracker:        NewTouchTracker(),
		TouchEmulation: touchEmulation,
	}
}

// Update 采集本帧触摸与鼠标状态
func (in *EbitenInput) Update() {
	in.tracker.Begin()

	in.touchIDs = ebiten.AppendTouchIDs(in.touchIDs[:0])
	for _, id := range in.touchIDs {
		x, y := ebiten.TouchPosition(id)
		in.tracker.Set(int(id), x, y)
	}

	if in.TouchEmulation && ebiten.IsMouseButtonPressed(ebiten.MouseButtonLeft) {
		x, y := ebiten.CursorPosition()
		in.tracker.Set(MouseTouchID, x, y)
	}

	in.tracker.End()
}

// Touches 当前按下的触点
func (in *EbitenInput) Touches() []Touch {
	return in.tracker.Touches()
}

// EndedTouches 本帧释放的触点
func (in *EbitenInput) EndedTouches() []Touch {
	return in.tracker.EndedTouches()
}

// IsKeyJustPressed 按键是否本帧刚按下
func (in *EbitenInput) IsKeyJustPressed(k Key) bool {
	key, ok := ebitenKeys[k]
	return ok && inpututil.IsKeyJustPressed(key)
}
