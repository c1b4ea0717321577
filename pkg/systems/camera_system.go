package systems

import (
	"github.com/decker502/charts3d/pkg/components"
	"github.com/decker502/charts3d/pkg/ecs"
	"github.com/decker502/charts3d/pkg/geom"
	"github.com/go-gl/mathgl/mgl32"
)

// CameraSystem 计算相机的观察/投影矩阵，并负责屏幕坐标与世界坐标的互转
type CameraSystem struct {
	entityManager *ecs.EntityManager
	transforms    *TransformSystem
	cameraEntity  ecs.EntityID

	viewportW float32
	viewportH float32
}

// NewCameraSystem 创建相机系统
// 参数：
//   - cameraEntity: 带 CameraComponent 的相机节点
//   - width/height: 视口尺寸（像素）
func NewCameraSystem(em *ecs.EntityManager, ts *TransformSystem, cameraEntity ecs.EntityID, width, height int) *CameraSystem {
	return &CameraSystem{
		entityManager: em,
		transforms:    ts,
		cameraEntity:  cameraEntity,
		viewportW:     float32(width),
		viewportH:     float32(height),
	}
}

// SetViewport 更新视口尺寸
func (cs *CameraSystem) SetViewport(width, height int) {
	if width > 0 && height > 0 {
		cs.viewportW = float32(width)
		cs.viewportH = float32(height)
	}
}

// Viewport 返回视口尺寸
func (cs *CameraSystem) Viewport() (float32, float32) {
	return cs.viewportW, cs.viewportH
}

// Entity 返回相机节点
func (cs *CameraSystem) Entity() ecs.EntityID {
	return cs.cameraEntity
}

// Eye 返回相机世界坐标
func (cs *CameraSystem) Eye() mgl32.Vec3 {
	return cs.transforms.WorldPosition(cs.cameraEntity)
}

// View 返回观察矩阵
func (cs *CameraSystem) View() mgl32.Mat4 {
	cam, ok := ecs.GetComponent[*components.CameraComponent](cs.entityManager, cs.cameraEntity)
	if !ok {
		return mgl32.Ident4()
	}
	up := cam.Up
	if up.Len() == 0 {
		up = mgl32.Vec3{0, 1, 0}
	}
	return mgl32.LookAtV(cs.Eye(), cam.Target, up)
}

// Projection 返回透视投影矩阵
func (cs *CameraSystem) Projection() mgl32.Mat4 {
	cam, ok := ecs.GetComponent[*components.CameraComponent](cs.entityManager, cs.cameraEntity)
	if !ok {
		return mgl32.Ident4()
	}
	aspect := cs.viewportW / cs.viewportH
	return mgl32.Perspective(mgl32.DegToRad(cam.FovY), aspect, cam.Near, cam.Far)
}

// ViewProjection 返回 投影 × 观察 矩阵
func (cs *CameraSystem) ViewProjection() mgl32.Mat4 {
	return cs.Projection().Mul4(cs.View())
}

// ScreenRay 返回经过屏幕像素 (x, y) 的世界空间射线
func (cs *CameraSystem) ScreenRay(x, y float32) geom.Ray {
	return geom.ScreenToRay(x, y, cs.viewportW, cs.viewportH, cs.ViewProjection().Inv())
}

// Project 将世界坐标投影到屏幕像素
// ok 为 false 表示点位于相机之后
func (cs *CameraSystem) Project(p mgl32.Vec3) (x, y, depth float32, ok bool) {
	return geom.ProjectToScreen(p, cs.ViewProjection(), cs.viewportW, cs.viewportH)
}
