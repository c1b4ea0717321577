//go:build mobile

// Package mobile 提供 ebitenmobile 绑定入口
//
// 此包用于构建 Android (.aar) 和 iOS (.xcframework) 包。
// 使用 ebitenmobile 工具构建时会自动调用 init() 函数。
//
// 此文件仅在使用 -tags mobile 构建时编译：
//
//	# Android
//	cp -r data mobile/ && ebitenmobile bind -target android -tags mobile -androidapi 23 -javapkg com.decker.charts3d -o build/android/charts3d.aar -v ./mobile
//
//	# iOS (仅 macOS)
//	cp -r data mobile/ && ebitenmobile bind -target ios -tags mobile -o build/ios/Charts3D.xcframework -v ./mobile
package mobile

import (
	"log"

	"github.com/hajimehoshi/ebiten/v2/mobile"

	"github.com/decker502/charts3d/pkg/app"
	"github.com/decker502/charts3d/pkg/config"
	"github.com/decker502/charts3d/pkg/embedded"
)

func init() {
	// dataFS 在 embed.go 中声明
	embedded.Init(dataFS)

	data, err := embedded.ReadFile(config.ChartConfigPath)
	if err != nil {
		log.Fatalf("图表配置读取失败: %v", err)
	}
	chart, err := config.ParseChartConfig(data)
	if err != nil {
		log.Fatalf("图表配置解析失败: %v", err)
	}

	gameApp, err := app.NewApp(app.Config{
		Verbose: true,
		Chart:   chart,
	})
	if err != nil {
		log.Fatalf("初始化失败: %v", err)
	}

	mobile.SetGame(gameApp)
}

// Dummy 是一个空导出函数，确保包被 ebitenmobile 正确识别
func Dummy() {}
