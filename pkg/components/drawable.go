package components

import (
	"github.com/decker502/charts3d/pkg/geom"
	"github.com/decker502/charts3d/pkg/spatial"
	"github.com/lucasb-eyer/go-colorful"
)

// DrawableComponent 可渲染、可拾取的网格
type DrawableComponent struct {
	// Mesh 模型空间网格
	Mesh *geom.Mesh

	// Color 当前颜色（着色动作直接修改此值）
	Color colorful.Color

	// Alpha 不透明度 0.0 - 1.0
	Alpha float64

	// Flags 空间索引分类，射线查询按此过滤
	Flags spatial.DrawableFlags
}
