// validate_chart 检查图表配置及其引用的资源文件
//
// 用法:
//
//	go run ./cmd/validate_chart -root . -chart data/chart.yaml
package main

import (
	"errors"
	"flag"
	"fmt"
	"io"
	"io/fs"
	"os"

	"github.com/decker502/charts3d/pkg/config"
	"github.com/decker502/charts3d/pkg/embedded"
	"github.com/decker502/charts3d/pkg/game"
)

func main() {
	root := flag.String("root", ".", "directory containing data/")
	chartPath := flag.String("chart", config.ChartConfigPath, "chart yaml file, relative to -root")
	flag.Parse()

	if err := run(os.DirFS(*root), *chartPath, os.Stdout); err != nil {
		fmt.Printf("❌ %v\n", err)
		os.Exit(1)
	}
}

// run 以与游戏相同的方式（经由 embedded 包）读取并检查所有资源
func run(data fs.FS, chartPath string, w io.Writer) error {
	embedded.Init(data)

	raw, err := embedded.ReadFile(chartPath)
	if err != nil {
		return fmt.Errorf("读取配置失败: %w", err)
	}
	cfg, err := config.ParseChartConfig(raw)
	if err != nil {
		return fmt.Errorf("配置无效: %w", err)
	}
	fmt.Fprintf(w, "✅ 配置有效: %dx%d 柱体, 间距 %.2f\n", cfg.GridSize, cfg.GridSize, cfg.Spacing)

	if !embedded.Exists(cfg.Ground.Model) {
		return fmt.Errorf("地面模型不存在: %s", cfg.Ground.Model)
	}

	// 检查 data/models 下的全部模型，而不只是当前引用的一个
	models, err := embedded.Glob(config.ModelsDir + "/*.yaml")
	if err != nil {
		return fmt.Errorf("列出模型失败: %w", err)
	}
	rm := game.NewResourceManager(nil)
	var errs []error
	for _, path := range models {
		mesh, err := rm.LoadModel(path)
		if err != nil {
			errs = append(errs, err)
			fmt.Fprintf(w, "❌ 模型无效: %s\n", path)
			continue
		}
		fmt.Fprintf(w, "✅ 模型: %s (%d 个三角形)\n", path, mesh.TriangleCount())
	}
	if err := errors.Join(errs...); err != nil {
		return err
	}

	if cfg.Label.Font != "" {
		if !embedded.Exists(cfg.Label.Font) {
			return fmt.Errorf("标签字体不存在: %s", cfg.Label.Font)
		}
		if _, err := rm.LoadFontSource(cfg.Label.Font); err != nil {
			return fmt.Errorf("标签字体无效: %w", err)
		}
		fmt.Fprintf(w, "✅ 标签字体: %s\n", cfg.Label.Font)
	}
	return nil
}
