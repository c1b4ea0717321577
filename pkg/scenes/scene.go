package scenes

import (
	"github.com/decker502/charts3d/pkg/game"
)

// Scene is a type alias for game.Scene.
type Scene = game.Scene

var _ Scene = (*ChartScene)(nil)
