package main

import (
	"github.com/decker502/charts3d/pkg/cli"
	"github.com/decker502/charts3d/pkg/embedded"
)

func main() {
	// dataFS 在 embed.go 中声明
	embedded.Init(dataFS)
	cli.Execute()
}
