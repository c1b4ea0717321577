package scenes

import (
	"io/fs"
	"math/rand"
	"os"
	"path/filepath"
	"testing"

	"github.com/decker502/charts3d/pkg/actions"
	"github.com/decker502/charts3d/pkg/config"
	"github.com/decker502/charts3d/pkg/entities"
	"github.com/decker502/charts3d/pkg/game"
	"github.com/decker502/charts3d/pkg/geom"
	"github.com/decker502/charts3d/pkg/spatial"
	"github.com/decker502/charts3d/pkg/systems"
	"github.com/decker502/charts3d/pkg/utils"
	"github.com/go-gl/mathgl/mgl32"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const frame = 1.0 / 60

// fakeInput 脚本化输入，每帧读取后清空一次性事件
type fakeInput struct {
	touches []utils.Touch
	ended   []utils.Touch
	keys    map[utils.Key]bool

	pendingEnded []utils.Touch
	pendingKeys  map[utils.Key]bool
}

func newFakeInput() *fakeInput {
	return &fakeInput{keys: map[utils.Key]bool{}, pendingKeys: map[utils.Key]bool{}}
}

func (f *fakeInput) Update() {
	f.ended, f.pendingEnded = f.pendingEnded, nil
	f.keys, f.pendingKeys = f.pendingKeys, map[utils.Key]bool{}
}
func (f *fakeInput) Touches() []utils.Touch { return f.touches }
func (f *fakeInput) EndedTouches() []utils.Touch { return f.ended }
func (f *fakeInput) IsKeyJustPressed(k utils.Key) bool { return f.keys[k] }

func (f *fakeInput) press(k utils.Key) { f.pendingKeys[k] = true }
func (f *fakeInput) release(x, y int) {
	f.pendingEnded = append(f.pendingEnded, utils.Touch{ID: 0, X: x, Y: y})
}

// fakeQuery 返回预设的命中结果
type fakeQuery struct {
	hits  []spatial.Hit
	calls int
	flags spatial.DrawableFlags
}

func (q *fakeQuery) RaycastSingle(ray geom.Ray, maxDistance float32, flags spatial.DrawableFlags) []spatial.Hit {
	q.calls++
	q.flags = flags
	return q.hits
}

func readRepoFile(path string) ([]byte, error) {
	data, err := os.ReadFile(filepath.Join("..", "..", path))
	if err != nil {
		return nil, fs.ErrNotExist
	}
	return data, nil
}

func newTestScene(t *testing.T, opts ...Option) (*ChartScene, *fakeInput) {
	t.Helper()
	in := newFakeInput()
	cfg := config.DefaultChartConfig()
	rm := game.NewResourceManager(readRepoFile)
	all := append([]Option{WithInput(in), WithRand(rand.New(rand.NewSource(7)))}, opts...)
	s, err := NewChartScene(rm, cfg, all...)
	require.NoError(t, err)
	return s, in
}

func step(s *ChartScene, seconds float64) {
	for elapsed := 0.0; elapsed < seconds; elapsed += frame {
		s.Update(frame)
	}
}

func hitOn(bar *entities.Bar) []spatial.Hit {
	return []spatial.Hit{{Entity: bar.BoxEntity(), Distance: 5}}
}

func TestNewChartSceneStart(t *testing.T) {
	s, _ := newTestScene(t)

	bars := s.Bars()
	require.Len(t, bars, 9)
	assert.Same(t, bars[0], s.SelectedBar(), "启动时选中第一根柱体")
	assert.False(t, s.MovementsEnabled())
	for _, b := range bars {
		assert.GreaterOrEqual(t, b.Value(), float32(0.3))
	}

	step(s, 3.5)
	// 格点 (a, b) 的初始值 = (1.5a + 1.5b + 1) / 2
	assert.InDelta(t, 0.5, bars[0].Value(), 1e-4)
	assert.InDelta(t, 1.25, bars[1].Value(), 1e-4)
	assert.InDelta(t, 2.0, bars[4].Value(), 1e-4)
	assert.InDelta(t, 3.5, bars[8].Value(), 1e-4)
	assert.True(t, s.MovementsEnabled())
}

func TestBarPositionsFollowGrid(t *testing.T) {
	s, _ := newTestScene(t)
	ts := systems.NewTransformSystem(s.entityManager)

	want := []mgl32.Vec3{
		{1.5, 0, 1.5}, {1.5, 0, 0}, {1.5, 0, -1.5},
		{0, 0, 1.5}, {0, 0, 0}, {0, 0, -1.5},
		{-1.5, 0, 1.5}, {-1.5, 0, 0}, {-1.5, 0, -1.5},
	}
	for i, b := range s.Bars() {
		assert.True(t, ts.WorldPosition(b.Entity()).ApproxEqualThreshold(want[i], 1e-5),
			"bar %d at %v, want %v", i, ts.WorldPosition(b.Entity()), want[i])
	}
}

func TestLabelShowsRoundedValue(t *testing.T) {
	s, _ := newTestScene(t)
	step(s, 3.5)

	bars := s.Bars()
	assert.Equal(t, "0.5", bars[0].Label())
	assert.Equal(t, "3.5", bars[8].Label())
	for _, b := range bars {
		assert.Equal(t, systems.FormatBarValue(b.Value()), b.Label())
	}

	// 恰好落在两位之间时取偶数
	bars[1].SetValue(1.25)
	bars[2].SetValue(1.35)
	s.Update(frame)
	assert.Equal(t, "1.2", bars[1].Label())
	assert.Equal(t, "1.4", bars[2].Label())
}

func TestHeightFloor(t *testing.T) {
	s, _ := newTestScene(t)
	bar := s.Bars()[3]

	bar.SetValue(0)
	s.Update(frame)
	assert.InDelta(t, 0.3, bar.Value(), 1e-6)
	assert.Equal(t, "0.3", bar.Label())
}

func TestTouchSelectsHitBar(t *testing.T) {
	q := &fakeQuery{}
	s, in := newTestScene(t, WithQuery(q))
	bars := s.Bars()

	var order []string
	bars[4].OnSelected(func(b *entities.Bar) {
		order = append(order, "select")
		assert.Same(t, bars[4], s.SelectedBar())
		// 新柱体收到通知时，旧柱体已取消选中，新柱体尚未开始闪烁
		assert.False(t, bars[0].IsBlinking(), "旧柱体应先取消选中")
		assert.False(t, bars[4].IsBlinking())
	})
	require.True(t, bars[0].IsBlinking())

	q.hits = hitOn(bars[4])
	in.release(400, 300)
	s.Update(frame)

	assert.Equal(t, 1, q.calls)
	assert.Equal(t, spatial.FlagGeometry, q.flags)
	assert.Same(t, bars[4], s.SelectedBar())
	assert.Equal(t, []string{"select"}, order)
	assert.True(t, bars[4].IsBlinking())
	assert.False(t, bars[0].IsBlinking())

	// 旧柱体的闪烁被恢复动画取代，恢复动画会结束；新柱体持续闪烁
	step(s, 1.2)
	assert.False(t, s.actionSystem.IsRunning(bars[0].BoxEntity(), actions.TagTint))
	assert.True(t, s.actionSystem.IsRunning(bars[4].BoxEntity(), actions.TagTint))
	assert.InDelta(t, bars[0].Color().R, bars[0].CurrentColor().R, 1e-6)
}

func TestReselectIsNoOp(t *testing.T) {
	q := &fakeQuery{}
	s, in := newTestScene(t, WithQuery(q))
	first := s.Bars()[0]

	notified := 0
	first.OnSelected(func(*entities.Bar) { notified++ })

	q.hits = hitOn(first)
	in.release(10, 10)
	s.Update(frame)

	assert.Same(t, first, s.SelectedBar())
	assert.Equal(t, 0, notified, "重复选中不应再次通知")
	assert.True(t, s.actionSystem.IsRunning(first.BoxEntity(), actions.TagTint))
}

func TestMissLeavesSelection(t *testing.T) {
	q := &fakeQuery{}
	s, in := newTestScene(t, WithQuery(q))
	first := s.Bars()[0]

	in.release(1, 1)
	s.Update(frame)
	assert.Same(t, first, s.SelectedBar())

	// 命中地面（没有所属柱体）同样忽略
	q.hits = []spatial.Hit{{Entity: s.ground, Distance: 8}}
	in.release(1, 1)
	s.Update(frame)
	assert.Same(t, first, s.SelectedBar())
	assert.Equal(t, 2, q.calls)
}

func TestSingleSelectionAcrossManyTouches(t *testing.T) {
	q := &fakeQuery{}
	s, in := newTestScene(t, WithQuery(q))
	bars := s.Bars()

	for _, idx := range []int{2, 5, 5, 7, 1} {
		q.hits = hitOn(bars[idx])
		in.release(0, 0)
		s.Update(frame)
		assert.Same(t, bars[idx], s.SelectedBar())
	}

	step(s, 1.5)
	blinking := 0
	for _, b := range bars {
		if s.actionSystem.IsRunning(b.BoxEntity(), actions.TagTint) {
			blinking++
		}
	}
	assert.Equal(t, 1, blinking, "任何时候只有一根柱体在闪烁")
}

func yawDelta(before, after mgl32.Quat) mgl32.Quat {
	return before.Inverse().Mul(after).Normalize()
}

func assertQuatNear(t *testing.T, want, got mgl32.Quat) {
	t.Helper()
	// q 与 -q 表示同一旋转
	if got.W*want.W < 0 {
		got = got.Scale(-1)
	}
	assert.InDelta(t, want.W, got.W, 1e-4, "W: got %v, want %v", got, want)
	for i := 0; i < 3; i++ {
		assert.InDelta(t, want.V[i], got.V[i], 1e-4, "V[%d]: got %v, want %v", i, got, want)
	}
}

func TestDragIgnoredDuringIntro(t *testing.T) {
	s, in := newTestScene(t)
	control, _ := newTestScene(t)

	in.touches = []utils.Touch{{ID: 0, X: 100, Y: 100, DeltaX: 30}}
	for i := 0; i < 10; i++ {
		s.Update(frame)
		control.Update(frame)
	}
	assertQuatNear(t, control.PlotRotation(), s.PlotRotation())
}

func TestDragRotatesAfterIntro(t *testing.T) {
	s, in := newTestScene(t)
	step(s, 2.1)
	require.True(t, s.MovementsEnabled())

	before := s.PlotRotation()
	in.touches = []utils.Touch{{ID: 0, X: 100, Y: 100, DeltaX: 10}}
	s.Update(frame)
	assertQuatNear(t, mgl32.QuatRotate(mgl32.DegToRad(-10), mgl32.Vec3{0, 1, 0}), yawDelta(before, s.PlotRotation()))

	// 两指不旋转
	before = s.PlotRotation()
	in.touches = []utils.Touch{{ID: 0, DeltaX: 10}, {ID: 1, DeltaX: 10}}
	s.Update(frame)
	assertQuatNear(t, before, s.PlotRotation())
}

func TestRotateIsLocalYaw(t *testing.T) {
	s, _ := newTestScene(t)
	before := s.PlotRotation()
	s.Rotate(45)
	assertQuatNear(t, mgl32.QuatRotate(mgl32.DegToRad(45), mgl32.Vec3{0, 1, 0}), yawDelta(before, s.PlotRotation()))
}

func TestIntroSpinsFullTurn(t *testing.T) {
	s, _ := newTestScene(t)
	step(s, 2.1)
	assertQuatNear(t, mgl32.QuatIdent(), s.PlotRotation())
}

func TestSelectByRayWithOctree(t *testing.T) {
	s, _ := newTestScene(t)
	bars := s.Bars()
	down := mgl32.Vec3{0, -1, 0}

	// 正上方垂直向下命中中间柱体的顶面
	s.selectByRay(geom.NewRay(mgl32.Vec3{0.1, 50, 0.2}, down))
	assert.Same(t, bars[4], s.SelectedBar())

	// 柱体之间的空隙只会命中地面
	s.selectByRay(geom.NewRay(mgl32.Vec3{0.75, 50, 0.75}, down))
	assert.Same(t, bars[4], s.SelectedBar())

	// 射向天空
	s.selectByRay(geom.NewRay(mgl32.Vec3{0, 1, 0}, mgl32.Vec3{0, 1, 0}))
	assert.Same(t, bars[4], s.SelectedBar())

	// 超出拾取距离
	s.selectByRay(geom.NewRay(mgl32.Vec3{1.4, 150, 1.4}, down))
	assert.Same(t, bars[4], s.SelectedBar())

	s.selectByRay(geom.NewRay(mgl32.Vec3{1.4, 50, 1.4}, down))
	assert.Same(t, bars[0], s.SelectedBar())
}

func TestOnTouchEndThroughCamera(t *testing.T) {
	s, _ := newTestScene(t)
	bars := s.Bars()

	// 把最后一根柱体顶面中心投影到屏幕，再从该像素拾取
	ts := systems.NewTransformSystem(s.entityManager)
	top := ts.WorldPosition(bars[8].Entity()).Add(mgl32.Vec3{0, bars[8].Value(), 0})
	x, y, _, ok := s.cameraSystem.Project(top.Sub(mgl32.Vec3{0, 0.01, 0}))
	require.True(t, ok)

	s.OnTouchEnd(int(x+0.5), int(y+0.5))
	assert.Same(t, bars[8], s.SelectedBar())
}

func TestKeys(t *testing.T) {
	sm := game.NewSceneManager()
	reloads := 0
	sm.SetSceneFactory(func() (game.Scene, error) {
		reloads++
		return &ChartScene{}, nil
	})
	s, in := newTestScene(t, WithSceneManager(sm))
	sm.SwitchTo(s)

	in.press(utils.KeyRandomize)
	s.Update(frame)
	step(s, 3.5)
	for _, b := range s.Bars() {
		assert.GreaterOrEqual(t, b.Value(), float32(0.3))
		assert.LessOrEqual(t, b.Value(), float32(5.0001))
	}

	in.press(utils.KeyRestart)
	s.Update(frame)
	assert.Equal(t, 1, reloads)
	assert.NotSame(t, s, sm.GetCurrentScene())

	in.press(utils.KeyExit)
	s.Update(frame)
	assert.True(t, sm.ExitRequested())
}

func TestNewChartSceneErrors(t *testing.T) {
	cfg := config.DefaultChartConfig()
	cfg.Ground.Model = "data/models/missing.yaml"
	_, err := NewChartScene(game.NewResourceManager(readRepoFile), cfg, WithInput(newFakeInput()))
	assert.ErrorIs(t, err, fs.ErrNotExist)

	bad := config.DefaultChartConfig()
	bad.GridSize = 0
	_, err = NewChartScene(game.NewResourceManager(readRepoFile), bad, WithInput(newFakeInput()))
	assert.Error(t, err)
}
