package geom

import (
	"github.com/go-gl/mathgl/mgl32"
)

// ScreenToRay converts screen coordinates to a world-space ray.
// screenX, screenY are pixel coordinates, viewportW/H are viewport dimensions.
// invViewProj is the inverse of the view-projection matrix.
func ScreenToRay(screenX, screenY, viewportW, viewportH float32, invViewProj mgl32.Mat4) Ray {
	// Convert screen coords to normalized device coords (-1 to 1)
	ndcX := 2.0*screenX/viewportW - 1.0
	ndcY := 1.0 - 2.0*screenY/viewportH // Flip Y

	nearWorld := invViewProj.Mul4x1(mgl32.Vec4{ndcX, ndcY, -1.0, 1.0})
	farWorld := invViewProj.Mul4x1(mgl32.Vec4{ndcX, ndcY, 1.0, 1.0})

	// Perspective divide
	if nearWorld[3] != 0 {
		nearWorld = nearWorld.Mul(1 / nearWorld[3])
	}
	if farWorld[3] != 0 {
		farWorld = farWorld.Mul(1 / farWorld[3])
	}

	origin := nearWorld.Vec3()
	return NewRay(origin, farWorld.Vec3().Sub(origin))
}

// ProjectToScreen maps a world point to pixel coordinates.
// depth is the clip-space w (distance along the view axis); ok is false
// when the point is behind the camera.
func ProjectToScreen(p mgl32.Vec3, viewProj mgl32.Mat4, viewportW, viewportH float32) (x, y, depth float32, ok bool) {
	clip := viewProj.Mul4x1(p.Vec4(1))
	if clip[3] <= 0 {
		return 0, 0, clip[3], false
	}
	ndcX := clip[0] / clip[3]
	ndcY := clip[1] / clip[3]
	x = (ndcX + 1) / 2 * viewportW
	y = (1 - ndcY) / 2 * viewportH
	return x, y, clip[3], true
}
