//go:build !mobile

package utils

import "os"

// IsMobile 检测当前是否在移动设备上运行
// 桌面端编译时返回 false；设置 CHARTS3D_MOBILE_EMULATE=1 可强制按移动端处理（关闭鼠标模拟触摸）
func IsMobile() bool {
	return os.Getenv("CHARTS3D_MOBILE_EMULATE") == "1"
}

// UseTouchEmulation 是否需要把鼠标模拟为触摸
// 移动端只使用真实触摸
func UseTouchEmulation(requested bool) bool {
	return requested && !IsMobile()
}
