// embed.go - 资源嵌入声明
// //go:embed 只能嵌入当前包目录及其子目录，因此必须与 data/ 同级
package main

import "embed"

//go:embed data
var dataFS embed.FS
