package components

import "github.com/go-gl/mathgl/mgl32"

// CameraComponent 透视相机参数
//
// 相机朝向由 Target/Up 决定（look-at），位置取节点的世界坐标。
type CameraComponent struct {
	// FovY 垂直视场角（角度）
	FovY float32

	// Near/Far 裁剪面
	Near float32
	Far  float32

	// Target 观察目标点（世界坐标）
	Target mgl32.Vec3

	// Up 上方向
	Up mgl32.Vec3
}
