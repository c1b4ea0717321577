package components

import "github.com/lucasb-eyer/go-colorful"

// LightType 光源类型
type LightType int

const (
	// LightPoint 点光源，按 Range 线性衰减
	LightPoint LightType = iota
	// LightDirectional 方向光（沿节点 -Z 方向）
	LightDirectional
)

// LightComponent 光源
type LightComponent struct {
	Type       LightType
	Color      colorful.Color
	Range      float32
	Brightness float32
}
