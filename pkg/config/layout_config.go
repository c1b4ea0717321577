package config

// 窗口与布局配置常量

const (
	// GameWindowWidth 逻辑屏幕宽度
	GameWindowWidth = 1024

	// GameWindowHeight 逻辑屏幕高度
	GameWindowHeight = 768

	// WindowTitle 窗口标题
	WindowTitle = "Charts 3D"

	// ChartConfigPath 内置图表配置
	ChartConfigPath = "data/chart.yaml"

	// ModelsDir 网格模型目录
	ModelsDir = "data/models"

	// TickRate 固定更新频率（Update 每秒调用次数）
	TickRate = 60
)

// FixedDeltaTime 每次 Update 推进的时间（秒）
const FixedDeltaTime = 1.0 / TickRate
