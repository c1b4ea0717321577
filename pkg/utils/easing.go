package utils

import (
	"fmt"
	"math"
	"slices"
	"strings"
)

// EasingFunc 缓动曲线：输入进度 t ∈ [0, 1]，输出缓动后的进度
// 回弹类曲线的输出可以暂时超出 [0, 1]
type EasingFunc func(t float64) float64

// EaseLinear 匀速
func EaseLinear(t float64) float64 {
	return t
}

// EaseOutCubic f(t) = 1 - (1-t)³
func EaseOutCubic(t float64) float64 {
	return 1 - math.Pow(1-t, 3)
}

// EaseInCubic f(t) = t³
func EaseInCubic(t float64) float64 {
	return t * t * t
}

// EaseInOutCubic 前半段 4t³，后半段 1 - (2 - 2t)³ / 2
func EaseInOutCubic(t float64) float64 {
	if t < 0.5 {
		return 4 * t * t * t
	}
	return 1 - math.Pow(-2*t+2, 3)/2
}

// EaseOutQuad f(t) = 1 - (1-t)²
func EaseOutQuad(t float64) float64 {
	return 1 - (1-t)*(1-t)
}

// EaseInQuad f(t) = t²
func EaseInQuad(t float64) float64 {
	return t * t
}

// EaseOutExpo f(t) = 1 - 2^(-10t)，t = 1 时精确返回 1
func EaseOutExpo(t float64) float64 {
	if t >= 1.0 {
		return 1.0
	}
	return 1 - math.Pow(2, -10*t)
}

// BackOvershoot 回弹缓动的默认过冲系数（约 10% 过冲）
const BackOvershoot = 1.70158

// EaseOutBack 回弹缓出：越过终点后回落
// f(t) = 1 + (s+1)(t-1)³ + s(t-1)²，s = BackOvershoot
func EaseOutBack(t float64) float64 {
	u := t - 1
	return u*u*((BackOvershoot+1)*u+BackOvershoot) + 1
}

// easings 配置文件中可用的缓动名称
var easings = map[string]EasingFunc{
	"linear":     EaseLinear,
	"inQuad":     EaseInQuad,
	"outQuad":    EaseOutQuad,
	"inCubic":    EaseInCubic,
	"outCubic":   EaseOutCubic,
	"inOutCubic": EaseInOutCubic,
	"outExpo":    EaseOutExpo,
	"backOut":    EaseOutBack,
}

// EasingByName 按名称查找缓动曲线（不区分大小写），空名称返回 EaseOutBack
func EasingByName(name string) (EasingFunc, error) {
	if name == "" {
		return EaseOutBack, nil
	}
	for key, fn := range easings {
		if strings.EqualFold(key, name) {
			return fn, nil
		}
	}
	return nil, fmt.Errorf("unknown easing %q (available: %s)", name, strings.Join(EasingNames(), ", "))
}

// EasingNames 返回所有可用的缓动名称（已排序）
func EasingNames() []string {
	names := make([]string, 0, len(easings))
	for name := range easings {
		names = append(names, name)
	}
	slices.Sort(names)
	return names
}

// Clamp01 将进度限制在 [0, 1]
func Clamp01(t float64) float64 {
	return math.Max(0, math.Min(1, t))
}

// Lerp t=0 返回 a，t=1 返回 b
func Lerp(a, b, t float64) float64 {
	return a + (b-a)*t
}
