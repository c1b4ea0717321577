package components

import "github.com/decker502/charts3d/pkg/actions"

// ActionComponent 实体上正在运行的动作，按轨道标签分组
type ActionComponent struct {
	Tracks map[string]actions.Instance
}

// NewActionComponent 创建空的动作组件
func NewActionComponent() *ActionComponent {
	return &ActionComponent{Tracks: make(map[string]actions.Instance)}
}
