//go:build mobile

package utils

// IsMobile 移动端编译时返回 true
func IsMobile() bool {
	return true
}

// UseTouchEmulation 移动端只使用真实触摸
func UseTouchEmulation(bool) bool {
	return false
}
