package components

import "github.com/lucasb-eyer/go-colorful"

// LabelComponent 悬浮在节点位置上的文字（始终面向相机）
type LabelComponent struct {
	Text     string
	Color    colorful.Color
	FontSize float64
}
