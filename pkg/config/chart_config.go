package config

import (
	"fmt"
	"os"

	"github.com/decker502/charts3d/pkg/utils"
	"github.com/go-gl/mathgl/mgl32"
	"github.com/lucasb-eyer/go-colorful"
	"gopkg.in/yaml.v3"
)

// ChartConfig 3D 柱状图配置
//
// 配置文件位置: data/chart.yaml
// 未出现在文件中的字段保留 DefaultChartConfig 的默认值。
type ChartConfig struct {
	// GridSize 每行/每列的柱体数量
	GridSize int `yaml:"gridSize"`

	// Spacing 相邻柱体的间距（世界单位）
	Spacing float32 `yaml:"spacing"`

	// Seed 随机种子（柱体颜色、随机数值），0 表示按当前时间
	Seed int64 `yaml:"seed"`

	Bar       BarConfig       `yaml:"bar"`
	Animation AnimationConfig `yaml:"animation"`
	Camera    CameraConfig    `yaml:"camera"`
	Light     LightConfig     `yaml:"light"`
	Ground    GroundConfig    `yaml:"ground"`
	Label     LabelConfig     `yaml:"label"`
	Input     InputConfig     `yaml:"input"`
}

// BarConfig 柱体外观
type BarConfig struct {
	// MinHeight 最小高度，值为 0 的柱体仍然可见
	MinHeight float32 `yaml:"minHeight"`

	// Alpha 柱体不透明度
	Alpha float64 `yaml:"alpha"`

	// BlinkColor 选中闪烁时的高亮色
	BlinkColor string `yaml:"blinkColor"`

	// MaxRandomValue RandomizeValues 生成的最大值
	MaxRandomValue float32 `yaml:"maxRandomValue"`
}

// AnimationConfig 动画时长（秒）
type AnimationConfig struct {
	ValueDuration    float64 `yaml:"valueDuration"`
	BlinkPeriod      float64 `yaml:"blinkPeriod"`
	DeselectDuration float64 `yaml:"deselectDuration"`
	IntroDuration    float64 `yaml:"introDuration"`

	// IntroAngle 开场绕 Y 轴旋转的角度
	IntroAngle float32 `yaml:"introAngle"`

	// 缓动曲线名称（见 utils.EasingNames），空字符串为 backOut
	ValueEasing    string `yaml:"valueEasing"`
	DeselectEasing string `yaml:"deselectEasing"`
	IntroEasing    string `yaml:"introEasing"`
}

// CameraConfig 相机
type CameraConfig struct {
	Position mgl32.Vec3 `yaml:"position"`
	Target   mgl32.Vec3 `yaml:"target"`
	FovY     float32    `yaml:"fovY"`
	Near     float32    `yaml:"near"`
	Far      float32    `yaml:"far"`
}

// LightConfig 点光源（挂在相机下）
type LightConfig struct {
	// Offset 相对相机的位置
	Offset     mgl32.Vec3 `yaml:"offset"`
	Range      float32    `yaml:"range"`
	Brightness float32    `yaml:"brightness"`
	Color      string     `yaml:"color"`
}

// GroundConfig 地面
type GroundConfig struct {
	// Model 地面模型资源路径
	Model string `yaml:"model"`
	Color string `yaml:"color"`
}

// LabelConfig 数值标签
type LabelConfig struct {
	// Font 字体资源路径，为空或加载失败时使用内置 Go Regular
	Font     string     `yaml:"font"`
	FontSize float64    `yaml:"fontSize"`
	Color    string     `yaml:"color"`
	Offset   mgl32.Vec3 `yaml:"offset"`
}

// InputConfig 输入
type InputConfig struct {
	// TouchEmulation 用鼠标模拟单指触摸
	TouchEmulation bool `yaml:"touchEmulation"`

	// DragDegreesPerPixel 单指水平拖动每像素旋转的角度
	DragDegreesPerPixel float32 `yaml:"dragDegreesPerPixel"`

	// PickDistance 拾取射线的最大长度
	PickDistance float32 `yaml:"pickDistance"`
}

// DefaultChartConfig 返回默认配置
func DefaultChartConfig() *ChartConfig {
	return &ChartConfig{
		GridSize: 3,
		Spacing:  1.5,
		Bar: BarConfig{
			MinHeight:      0.3,
			Alpha:          0.9,
			BlinkColor:     "#ffffff",
			MaxRandomValue: 5,
		},
		Animation: AnimationConfig{
			ValueDuration:    3,
			BlinkPeriod:      0.3,
			DeselectDuration: 1,
			IntroDuration:    2,
			IntroAngle:       360,
			ValueEasing:      "backOut",
			DeselectEasing:   "backOut",
			IntroEasing:      "backOut",
		},
		Camera: CameraConfig{
			Position: mgl32.Vec3{5, 7, 5},
			Target:   mgl32.Vec3{0, 1, 0},
			FovY:     45,
			Near:     0.1,
			Far:      100,
		},
		Light: LightConfig{
			Range:      100,
			Brightness: 1.3,
			Color:      "#ffffff",
		},
		Ground: GroundConfig{
			Model: "data/models/plane.yaml",
			Color: "#b3b3b3",
		},
		Label: LabelConfig{
			FontSize: 18,
			Color:    "#ffffff",
			Offset:   mgl32.Vec3{0.5, 0.2, 0},
		},
		Input: InputConfig{
			TouchEmulation:      true,
			DragDegreesPerPixel: 1,
			PickDistance:        100,
		},
	}
}

// ParseChartConfig 解析 YAML 配置（缺省字段使用默认值）并验证
func ParseChartConfig(data []byte) (*ChartConfig, error) {
	cfg := DefaultChartConfig()
	if err := yaml.Unmarshal(data, cfg); err != nil {
		return nil, fmt.Errorf("failed to parse chart config: %w", err)
	}
	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("invalid chart config: %w", err)
	}
	return cfg, nil
}

// LoadChartConfig 从磁盘加载图表配置
//
// 参数:
//   - path: 配置文件路径（如 "data/chart.yaml"）
func LoadChartConfig(path string) (*ChartConfig, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read chart config: %w", err)
	}
	return ParseChartConfig(data)
}

// Validate 验证配置有效性
func (c *ChartConfig) Validate() error {
	if c.GridSize < 1 {
		return fmt.Errorf("gridSize must be >= 1, got %d", c.GridSize)
	}
	if c.Spacing <= 0 {
		return fmt.Errorf("spacing must be > 0, got %.2f", c.Spacing)
	}
	if c.Bar.MinHeight < 0 {
		return fmt.Errorf("bar.minHeight must be >= 0, got %.2f", c.Bar.MinHeight)
	}
	if c.Bar.Alpha < 0 || c.Bar.Alpha > 1 {
		return fmt.Errorf("bar.alpha must be within [0, 1], got %.2f", c.Bar.Alpha)
	}
	if c.Bar.MaxRandomValue < c.Bar.MinHeight {
		return fmt.Errorf("bar.maxRandomValue(%.2f) < bar.minHeight(%.2f)", c.Bar.MaxRandomValue, c.Bar.MinHeight)
	}

	durations := map[string]float64{
		"animation.valueDuration":    c.Animation.ValueDuration,
		"animation.blinkPeriod":      c.Animation.BlinkPeriod,
		"animation.deselectDuration": c.Animation.DeselectDuration,
		"animation.introDuration":    c.Animation.IntroDuration,
	}
	for name, d := range durations {
		if d <= 0 {
			return fmt.Errorf("%s must be > 0, got %.2f", name, d)
		}
	}

	easings := map[string]string{
		"animation.valueEasing":    c.Animation.ValueEasing,
		"animation.deselectEasing": c.Animation.DeselectEasing,
		"animation.introEasing":    c.Animation.IntroEasing,
	}
	for name, e := range easings {
		if _, err := utils.EasingByName(e); err != nil {
			return fmt.Errorf("%s: %w", name, err)
		}
	}

	if c.Camera.FovY <= 0 || c.Camera.FovY >= 180 {
		return fmt.Errorf("camera.fovY must be within (0, 180), got %.1f", c.Camera.FovY)
	}
	if c.Camera.Near <= 0 || c.Camera.Far <= c.Camera.Near {
		return fmt.Errorf("camera clip planes invalid: near=%.2f far=%.2f", c.Camera.Near, c.Camera.Far)
	}
	if c.Camera.Position.Sub(c.Camera.Target).Len() == 0 {
		return fmt.Errorf("camera.position equals camera.target")
	}
	if c.Light.Range < 0 {
		return fmt.Errorf("light.range must be >= 0, got %.2f", c.Light.Range)
	}
	if c.Label.FontSize <= 0 {
		return fmt.Errorf("label.fontSize must be > 0, got %.1f", c.Label.FontSize)
	}
	if c.Input.PickDistance <= 0 {
		return fmt.Errorf("input.pickDistance must be > 0, got %.2f", c.Input.PickDistance)
	}

	colors := map[string]string{
		"bar.blinkColor": c.Bar.BlinkColor,
		"light.color":    c.Light.Color,
		"ground.color":   c.Ground.Color,
		"label.color":    c.Label.Color,
	}
	for name, hex := range colors {
		if _, err := colorful.Hex(hex); err != nil {
			return fmt.Errorf("%s: %w", name, err)
		}
	}
	return nil
}

// Easing 返回已验证过的缓动曲线，未知名称回退到 backOut
func Easing(name string) utils.EasingFunc {
	fn, err := utils.EasingByName(name)
	if err != nil {
		return utils.EaseOutBack
	}
	return fn
}

// MustColor 解析已验证过的十六进制颜色
func MustColor(hex string) colorful.Color {
	c, err := colorful.Hex(hex)
	if err != nil {
		return colorful.Color{R: 1, G: 1, B: 1}
	}
	return c
}
