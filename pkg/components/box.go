package components

// BoxComponent 标记一个高度可变的柱体网格
//
// 任何对其 Y 轴缩放的写入都不会低于 MinHeight，
// 保证值为 0 的柱体仍然可见、可被射线拾取。
type BoxComponent struct {
	MinHeight float32
}

// ClampHeight 将高度限制在最小值之上
func (b *BoxComponent) ClampHeight(h float32) float32 {
	if h < b.MinHeight {
		return b.MinHeight
	}
	return h
}
