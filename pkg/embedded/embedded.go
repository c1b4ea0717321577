// Package embedded 提供嵌入资源的统一访问接口
//
// 由于 Go embed 指令只能嵌入当前包目录及其子目录的文件，
// embed.FS 变量声明在项目根目录（embed.go）和 mobile/embed.go。
// 本包提供包装函数，让其他包可以按 "data/..." 路径读取嵌入的资源。
//
// 使用前必须调用 Init() 初始化。
package embedded

import (
	"fmt"
	"io/fs"
	"path/filepath"
	"strings"
)

// DataPrefix 嵌入资源路径前缀
const DataPrefix = "data/"

var (
	dataFS      fs.FS
	initialized bool
)

// Init 初始化资源文件系统
// 必须在 main() 开始时、任何资源加载之前调用
// 参数 data 的根目录下应包含 data/ 目录（与 //go:embed data 一致）
func Init(data fs.FS) {
	dataFS = data
	initialized = data != nil
}

// resolve 标准化路径并检查前缀
func resolve(path string) (string, error) {
	if !initialized {
		return "", fmt.Errorf("embedded package not initialized, call Init() first")
	}

	// embed.FS 使用正斜杠，且不接受 "./" 前缀
	path = strings.TrimPrefix(filepath.ToSlash(path), "./")

	if !strings.HasPrefix(path, DataPrefix) {
		return "", fmt.Errorf("unknown resource path prefix: %s (must start with %q)", path, DataPrefix)
	}
	return path, nil
}

// Open 打开嵌入文件
func Open(path string) (fs.File, error) {
	p, err := resolve(path)
	if err != nil {
		return nil, err
	}
	return dataFS.Open(p)
}

// ReadFile 读取嵌入文件内容
func ReadFile(path string) ([]byte, error) {
	p, err := resolve(path)
	if err != nil {
		return nil, err
	}
	return fs.ReadFile(dataFS, p)
}

// Exists 检查文件是否存在
func Exists(path string) bool {
	file, err := Open(path)
	if err != nil {
		return false
	}
	file.Close()
	return true
}

// Glob 匹配嵌入文件
func Glob(pattern string) ([]string, error) {
	p, err := resolve(pattern)
	if err != nil {
		return nil, err
	}
	return fs.Glob(dataFS, p)
}
