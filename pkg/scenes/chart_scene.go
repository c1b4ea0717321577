package scenes

import (
	"fmt"
	"image/color"
	"log"
	"math/rand"
	"time"

	"github.com/decker502/charts3d/pkg/actions"
	"github.com/decker502/charts3d/pkg/components"
	"github.com/decker502/charts3d/pkg/config"
	"github.com/decker502/charts3d/pkg/ecs"
	"github.com/decker502/charts3d/pkg/entities"
	"github.com/decker502/charts3d/pkg/game"
	"github.com/decker502/charts3d/pkg/geom"
	"github.com/decker502/charts3d/pkg/spatial"
	"github.com/decker502/charts3d/pkg/systems"
	"github.com/decker502/charts3d/pkg/utils"
	"github.com/go-gl/mathgl/mgl32"
	"github.com/hajimehoshi/ebiten/v2"
	"github.com/lucasb-eyer/go-colorful"
)

// BackgroundColor 场景背景色
var BackgroundColor = color.RGBA{R: 32, G: 32, B: 40, A: 255}

// worldExtent 八叉树覆盖范围（半边长）
const worldExtent = 50

// ChartScene 3D 柱状图场景
//
// 持有场景图（相机、光源、地面、柱体）和唯一的选中柱体；
// 把触摸结束转成拾取射线，把单指水平拖动转成绕 Y 轴旋转。
type ChartScene struct {
	resourceManager *game.ResourceManager
	sceneManager    *game.SceneManager
	cfg             *config.ChartConfig

	input utils.InputSource
	query spatial.Query
	rng   *rand.Rand

	// ECS
	entityManager   *ecs.EntityManager
	transformSystem *systems.TransformSystem
	actionSystem    *systems.ActionSystem
	barSystem       *systems.BarSystem
	spatialSystem   *systems.SpatialSystem
	cameraSystem    *systems.CameraSystem
	renderSystem    *systems.RenderSystem

	// 场景图节点
	root   ecs.EntityID
	camera ecs.EntityID
	light  ecs.EntityID
	plot   ecs.EntityID
	ground ecs.EntityID

	bars      []*entities.Bar
	barByRoot map[ecs.EntityID]*entities.Bar
	selected  *entities.Bar

	movementsEnabled bool
}

// Option 场景构造选项
type Option func(*ChartScene)

// WithInput 指定输入源（默认使用 ebiten 输入）
func WithInput(in utils.InputSource) Option {
	return func(s *ChartScene) { s.input = in }
}

// WithQuery 指定拾取查询（默认使用场景自身的八叉树）
func WithQuery(q spatial.Query) Option {
	return func(s *ChartScene) { s.query = q }
}

// WithSceneManager 指定场景管理器（用于退出与重启）
func WithSceneManager(sm *game.SceneManager) Option {
	return func(s *ChartScene) { s.sceneManager = sm }
}

// WithRand 指定随机数源
func WithRand(r *rand.Rand) Option {
	return func(s *ChartScene) { s.rng = r }
}

// NewChartScene 创建图表场景
//
// 构建相机（带子节点点光源）、plot 节点（地面 + 柱体网格），
// 选中第一根柱体并启动开场旋转；开场旋转结束前拖动无效。
func NewChartScene(rm *game.ResourceManager, cfg *config.ChartConfig, opts ...Option) (*ChartScene, error) {
	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("invalid chart config: %w", err)
	}

	s := &ChartScene{
		resourceManager: rm,
		cfg:             cfg,
		entityManager:   ecs.NewEntityManager(),
		barByRoot:       make(map[ecs.EntityID]*entities.Bar),
	}
	for _, opt := range opts {
		opt(s)
	}
	if s.input == nil {
		s.input = utils.NewEbitenInput(utils.UseTouchEmulation(cfg.Input.TouchEmulation))
	}
	if s.rng == nil {
		seed := cfg.Seed
		if seed == 0 {
			seed = time.Now().UnixNano()
		}
		s.rng = rand.New(rand.NewSource(seed))
		log.Printf("[ChartScene] 随机种子: %d", seed)
	}

	em := s.entityManager
	s.transformSystem = systems.NewTransformSystem(em)
	s.actionSystem = systems.NewActionSystem(em)
	s.barSystem = systems.NewBarSystem(em)
	extent := mgl32.Vec3{worldExtent, worldExtent, worldExtent}
	s.spatialSystem = systems.NewSpatialSystem(em, s.transformSystem,
		spatial.NewOctree(geom.NewAABB(extent.Mul(-1), extent), spatial.DefaultMaxDepth))
	if s.query == nil {
		s.query = s.spatialSystem.Octree()
	}

	s.root = entities.NewNode(em, "Scene", ecs.InvalidEntity, mgl32.Vec3{})
	s.camera = entities.NewCamera(em, s.root, cfg.Camera)
	s.light = entities.NewPointLight(em, s.camera, cfg.Light)
	s.cameraSystem = systems.NewCameraSystem(em, s.transformSystem, s.camera, config.GameWindowWidth, config.GameWindowHeight)
	s.renderSystem = systems.NewRenderSystem(em, s.transformSystem, s.cameraSystem)

	s.renderSystem.SetFontSource(rm.LoadFontSourceOrDefault(cfg.Label.Font))

	s.plot = entities.NewNode(em, "Plot", s.root, mgl32.Vec3{})

	groundMesh, err := rm.LoadModel(cfg.Ground.Model)
	if err != nil {
		return nil, fmt.Errorf("failed to load ground: %w", err)
	}
	groundBase := entities.NewNode(em, "GroundBase", s.plot, mgl32.Vec3{})
	s.ground = entities.NewGround(em, groundBase, groundMesh, float32(cfg.GridSize)*cfg.Spacing, cfg.Ground)

	s.createBars()

	s.selected = s.bars[0]
	s.selected.Select()

	s.actionSystem.Run(s.plot, actions.TagRotation, actions.Sequence(
		actions.Ease(actions.NewRotateBy(cfg.Animation.IntroDuration, 0, cfg.Animation.IntroAngle, 0),
			config.Easing(cfg.Animation.IntroEasing)),
		actions.CallFunc(func() {
			s.movementsEnabled = true
			log.Printf("[ChartScene] 开场动画结束，允许拖动旋转")
		}),
	))

	s.barSystem.Update(0)
	s.spatialSystem.Update(0)

	log.Printf("[ChartScene] 场景创建完成: %d 根柱体, %d 个实体, %d 个可拾取网格",
		len(s.bars), em.EntityCount(), s.spatialSystem.Octree().Len())
	return s, nil
}

// createBars 按格点创建柱体，颜色随机，初始值确定
func (s *ChartScene) createBars() {
	size := s.cfg.GridSize
	spacing := s.cfg.Spacing
	half := float32(size) / 2
	opts := entities.BarOptionsFromConfig(s.cfg)

	s.bars = make([]*entities.Bar, 0, size*size)
	for a := 0; a < size; a++ {
		for b := 0; b < size; b++ {
			i := float32(a) * spacing
			j := float32(b) * spacing
			c := colorful.Color{R: s.rng.Float64(), G: s.rng.Float64(), B: s.rng.Float64()}

			bar := entities.NewBar(s.entityManager, s.actionSystem, s.plot,
				fmt.Sprintf("Bar_%d_%d", a, b), mgl32.Vec3{half - i, 0, half - j}, c, opts)
			bar.OnSelected(func(sel *entities.Bar) {
				log.Printf("[ChartScene] 选中 %s (值 %.2f)", sel.Name(), sel.Value())
			})
			bar.SetValueWithAnimation((i + j + 1) / 2)

			s.bars = append(s.bars, bar)
			s.barByRoot[bar.Entity()] = bar
		}
	}
}

// Update 处理输入，推进动作，整理柱体并同步空间索引
func (s *ChartScene) Update(deltaTime float64) {
	s.input.Update()

	if s.input.IsKeyJustPressed(utils.KeyExit) && s.sceneManager != nil {
		s.sceneManager.RequestExit()
		return
	}
	if s.input.IsKeyJustPressed(utils.KeyRestart) && s.sceneManager != nil {
		if err := s.sceneManager.Reload(); err != nil {
			log.Printf("[ChartScene] 重启失败: %v", err)
		}
		return
	}
	if s.input.IsKeyJustPressed(utils.KeyRandomize) {
		s.RandomizeValues()
	}

	for _, t := range s.input.EndedTouches() {
		s.OnTouchEnd(t.X, t.Y)
	}

	if touches := s.input.Touches(); len(touches) == 1 && s.movementsEnabled {
		if dx := touches[0].DeltaX; dx != 0 {
			s.Rotate(-float32(dx) * s.cfg.Input.DragDegreesPerPixel)
		}
	}

	s.actionSystem.Update(deltaTime)
	s.barSystem.Update(deltaTime)
	s.spatialSystem.Update(deltaTime)
}

// Draw 渲染场景
func (s *ChartScene) Draw(screen *ebiten.Image) {
	screen.Fill(BackgroundColor)
	s.renderSystem.Draw(screen)
}

// OnTouchEnd 处理触摸结束：从相机发出射线选择柱体
// 未命中或命中没有所属柱体的节点（地面）时不改变选中状态
func (s *ChartScene) OnTouchEnd(x, y int) {
	s.selectByRay(s.cameraSystem.ScreenRay(float32(x), float32(y)))
}

// selectByRay 用射线拾取柱体并切换选中
func (s *ChartScene) selectByRay(ray geom.Ray) {
	hits := s.query.RaycastSingle(ray, s.cfg.Input.PickDistance, spatial.FlagGeometry)
	if len(hits) == 0 {
		return
	}

	bar := s.barByRoot[s.transformSystem.Parent(hits[0].Entity)]
	if bar == nil {
		log.Printf("[ChartScene] 命中实体 %d 不属于任何柱体，忽略", hits[0].Entity)
		return
	}
	s.selectBar(bar)
}

// selectBar 先取消旧选中，再选中新柱体；重复选中同一柱体无效果
func (s *ChartScene) selectBar(bar *entities.Bar) {
	if bar == s.selected {
		return
	}
	if s.selected != nil {
		s.selected.Deselect()
	}
	s.selected = bar
	bar.Select()
}

// Rotate 绕 plot 本地 Y 轴旋转（角度）
func (s *ChartScene) Rotate(degrees float32) {
	s.transformSystem.Rotate(s.plot, degrees)
}

// RandomizeValues 把每根柱体以动画过渡到新的随机值
func (s *ChartScene) RandomizeValues() {
	lo := s.cfg.Bar.MinHeight
	hi := s.cfg.Bar.MaxRandomValue
	for _, bar := range s.bars {
		bar.SetValueWithAnimation(lo + s.rng.Float32()*(hi-lo))
	}
	log.Printf("[ChartScene] 随机化 %d 根柱体", len(s.bars))
}

// Bars 返回所有柱体（创建顺序）
func (s *ChartScene) Bars() []*entities.Bar {
	out := make([]*entities.Bar, len(s.bars))
	copy(out, s.bars)
	return out
}

// SelectedBar 返回当前选中的柱体
func (s *ChartScene) SelectedBar() *entities.Bar {
	return s.selected
}

// MovementsEnabled 开场动画是否已结束（允许拖动旋转）
func (s *ChartScene) MovementsEnabled() bool {
	return s.movementsEnabled
}

// PlotRotation 返回 plot 节点当前的旋转
func (s *ChartScene) PlotRotation() mgl32.Quat {
	tr, ok := ecs.GetComponent[*components.TransformComponent](s.entityManager, s.plot)
	if !ok {
		return mgl32.QuatIdent()
	}
	return tr.Rotation
}
