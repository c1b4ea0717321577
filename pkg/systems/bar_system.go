package systems

import (
	"math"
	"strconv"

	"github.com/decker502/charts3d/pkg/components"
	"github.com/decker502/charts3d/pkg/ecs"
)

// BarSystem 每帧整理柱体：
// 立方体底部贴地（Y = 高度/2），标签跟随柱顶并显示当前数值
type BarSystem struct {
	entityManager *ecs.EntityManager
}

// NewBarSystem 创建柱体系统
func NewBarSystem(em *ecs.EntityManager) *BarSystem {
	return &BarSystem{entityManager: em}
}

// Update 更新所有柱体
func (s *BarSystem) Update(dt float64) {
	for _, id := range ecs.GetEntitiesWith1[*components.BarComponent](s.entityManager) {
		bar, _ := ecs.GetComponent[*components.BarComponent](s.entityManager, id)
		boxTr, ok := ecs.GetComponent[*components.TransformComponent](s.entityManager, bar.BoxEntity)
		if !ok {
			continue
		}

		h := boxTr.Scale.Y()
		if box, ok := ecs.GetComponent[*components.BoxComponent](s.entityManager, bar.BoxEntity); ok {
			h = box.ClampHeight(h)
			boxTr.Scale[1] = h
		}
		boxTr.Position[1] = h / 2

		if labelTr, ok := ecs.GetComponent[*components.TransformComponent](s.entityManager, bar.LabelEntity); ok {
			labelTr.Position[0] = bar.LabelOffset.X()
			labelTr.Position[1] = h + bar.LabelOffset.Y()
			labelTr.Position[2] = bar.LabelOffset.Z()
		}
		if label, ok := ecs.GetComponent[*components.LabelComponent](s.entityManager, bar.LabelEntity); ok {
			label.Text = FormatBarValue(h)
		}
	}
}

// FormatBarValue 将数值按银行家舍入保留一位小数（"1.5"、"2"、1.25 -> "1.2"）
// 在 float64 中舍入，避免 float32 乘法引入的误差
func FormatBarValue(v float32) string {
	rounded := math.RoundToEven(float64(v)*10) / 10
	return strconv.FormatFloat(rounded, 'f', -1, 64)
}
