// Package app 提供图表应用的核心包装器
//
// 该包将初始化逻辑从 main 包提取出来，使其可以被桌面端和移动端共用。
// 桌面端通过 pkg/cli 调用 NewApp()，移动端通过 mobile/mobile.go 调用。
package app

import (
	"fmt"
	"image/color"
	"io"
	"log"
	"os"

	"github.com/decker502/charts3d/pkg/config"
	"github.com/decker502/charts3d/pkg/game"
	"github.com/decker502/charts3d/pkg/scenes"
	"github.com/hajimehoshi/ebiten/v2"
	"github.com/hajimehoshi/ebiten/v2/inpututil"
)

// Config 定义应用启动配置
type Config struct {
	// Verbose 启用详细日志输出
	Verbose bool
	// Chart 图表配置，为 nil 时使用 config.DefaultChartConfig()
	Chart *config.ChartConfig
	// Resources 资源管理器，为 nil 时从嵌入的 data/ 读取
	Resources *game.ResourceManager
	// WindowWidth/WindowHeight 窗口尺寸，退出全屏后恢复到此尺寸；0 表示默认值
	WindowWidth  int
	WindowHeight int
}

// App 是图表应用的核心包装器，实现 ebiten.Game 接口
type App struct {
	sceneManager *game.SceneManager
	verbose      bool
	window       windowResizer
}

// windowResetDelay 退出全屏后等待的帧数，窗口管理器需要时间处理
const windowResetDelay = 3

// windowResizer 退出全屏后延迟若干帧再恢复窗口尺寸
type windowResizer struct {
	width, height int
	countdown     int // 0 表示没有待处理的恢复
}

// schedule 安排一次延迟恢复
func (w *windowResizer) schedule() {
	w.countdown = windowResetDelay
}

// tick 每帧调用一次，到期的那一帧返回 true
func (w *windowResizer) tick() bool {
	if w.countdown == 0 {
		return false
	}
	w.countdown--
	return w.countdown == 0
}

// NewApp 创建并初始化应用
//
// 使用嵌入资源时，调用此函数前必须先调用 embedded.Init()。
func NewApp(cfg Config) (*App, error) {
	// 配置日志输出
	if cfg.Verbose {
		log.SetOutput(os.Stderr)
	} else {
		log.SetOutput(io.Discard)
		log.SetFlags(0)
	}

	chartCfg := cfg.Chart
	if chartCfg == nil {
		chartCfg = config.DefaultChartConfig()
	}
	if err := chartCfg.Validate(); err != nil {
		return nil, fmt.Errorf("图表配置无效: %w", err)
	}

	resourceManager := cfg.Resources
	if resourceManager == nil {
		resourceManager = game.NewResourceManager(nil)
	}

	sceneManager := game.NewSceneManager()
	sceneManager.SetSceneFactory(func() (game.Scene, error) {
		return scenes.NewChartScene(resourceManager, chartCfg, scenes.WithSceneManager(sceneManager))
	})
	if err := sceneManager.Reload(); err != nil {
		return nil, fmt.Errorf("图表场景创建失败: %w", err)
	}
	log.Printf("[App] Chart started: %dx%d bars", chartCfg.GridSize, chartCfg.GridSize)

	width, height := cfg.WindowWidth, cfg.WindowHeight
	if width <= 0 || height <= 0 {
		width, height = config.GameWindowWidth, config.GameWindowHeight
	}

	return &App{
		sceneManager: sceneManager,
		verbose:      cfg.Verbose,
		window:       windowResizer{width: width, height: height},
	}, nil
}

// Update 更新逻辑
// 每个 tick 调用一次（通常每秒 60 次）
func (a *App) Update() error {
	if a.sceneManager.ExitRequested() {
		log.Printf("[App] Exit requested")
		return ebiten.Termination
	}

	if a.window.tick() {
		w, h := a.WindowSize()
		ebiten.SetWindowSize(w, h)
		log.Printf("[App] Delayed SetWindowSize(%d, %d)", w, h)
	}

	// F11 切换全屏
	if inpututil.IsKeyJustPressed(ebiten.KeyF11) {
		a.toggleFullscreen()
	}

	a.sceneManager.Update(config.FixedDeltaTime)
	return nil
}

func (a *App) toggleFullscreen() {
	if !ebiten.IsFullscreen() {
		ebiten.SetFullscreen(true)
		return
	}
	ebiten.SetFullscreen(false)
	if ebiten.IsWindowMaximized() || ebiten.IsWindowMinimized() {
		ebiten.RestoreWindow()
	}
	a.window.schedule()
	log.Printf("[App] Exit fullscreen, will reset window size in %d frames", windowResetDelay)
}

// Draw 绘制画面
func (a *App) Draw(screen *ebiten.Image) {
	a.sceneManager.Draw(screen)
}

// DrawFinalScreen 实现 FinalScreenDrawer 接口
// 用于控制全屏时的缩放和 letterbox 颜色
func (a *App) DrawFinalScreen(screen ebiten.FinalScreen, offscreen *ebiten.Image, geoM ebiten.GeoM) {
	screen.Fill(color.Black)
	op := &ebiten.DrawImageOptions{}
	op.GeoM = geoM
	op.Filter = ebiten.FilterLinear
	screen.DrawImage(offscreen, op)
}

// Layout 返回逻辑屏幕尺寸
// 此尺寸独立于实际窗口大小，Ebitengine 会自动处理缩放
func (a *App) Layout(outsideWidth, outsideHeight int) (int, int) {
	return config.GameWindowWidth, config.GameWindowHeight
}

// GetSceneManager 返回场景管理器
func (a *App) GetSceneManager() *game.SceneManager {
	return a.sceneManager
}

// WindowSize 返回退出全屏后恢复的窗口尺寸
func (a *App) WindowSize() (int, int) {
	return a.window.width, a.window.height
}

// IsVerbose 返回是否启用了详细日志
func (a *App) IsVerbose() bool {
	return a.verbose
}
