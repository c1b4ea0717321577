package systems

import (
	"image"
	"image/color"
	"log"
	"slices"

	"github.com/chewxy/math32"
	"github.com/decker502/charts3d/pkg/components"
	"github.com/decker502/charts3d/pkg/ecs"
	"github.com/decker502/charts3d/pkg/geom"
	"github.com/go-gl/mathgl/mgl32"
	"github.com/hajimehoshi/ebiten/v2"
	"github.com/hajimehoshi/ebiten/v2/text/v2"
	"github.com/lucasb-eyer/go-colorful"
)

// 每批最多的三角形数（uint16 索引上限）
const maxTrianglesPerBatch = 65535 / 3

// AmbientLight 环境光强度，背光面不会全黑
const AmbientLight = 0.35

// renderFace 一个已投影、已着色的三角形
type renderFace struct {
	vertices [3]ebiten.Vertex
	depth    float32
}

// renderLabel 一个已投影的文字标签
type renderLabel struct {
	text  string
	x, y  float32
	depth float32
	size  float64
	color colorful.Color
}

// RenderSystem 软件 3D 渲染：
// 世界三角形经观察/投影变换后按深度从远到近排序（画家算法），
// 一次 DrawTriangles 批量绘制；标签在几何体之后用 text/v2 绘制。
type RenderSystem struct {
	entityManager *ecs.EntityManager
	transforms    *TransformSystem
	camera        *CameraSystem

	// 标签字体源（为空时不绘制标签）
	fontSource *text.GoTextFaceSource
	faces      map[float64]*text.GoTextFace

	// 复用的缓冲，避免每帧分配
	faceBuf   []renderFace
	labelBuf  []renderLabel
	vertices  []ebiten.Vertex
	indices   []uint16
	whiteImg  *ebiten.Image
	triSource *ebiten.Image
}

// NewRenderSystem 创建渲染系统
func NewRenderSystem(em *ecs.EntityManager, ts *TransformSystem, cs *CameraSystem) *RenderSystem {
	return &RenderSystem{
		entityManager: em,
		transforms:    ts,
		camera:        cs,
		faces:         make(map[float64]*text.GoTextFace),
	}
}

// SetFontSource 设置标签字体源
func (s *RenderSystem) SetFontSource(src *text.GoTextFaceSource) {
	s.fontSource = src
	clear(s.faces)
}

// Draw 绘制整个场景
func (s *RenderSystem) Draw(screen *ebiten.Image) {
	bounds := screen.Bounds()
	s.camera.SetViewport(bounds.Dx(), bounds.Dy())

	s.faceBuf = s.collectFaces(s.faceBuf[:0])
	s.drawFaces(screen, s.faceBuf)

	s.labelBuf = s.collectLabels(s.labelBuf[:0])
	s.drawLabels(screen, s.labelBuf)
}

// collectFaces 投影、剔除、着色所有可见三角形，按深度从远到近排序
func (s *RenderSystem) collectFaces(out []renderFace) []renderFace {
	viewProj := s.camera.ViewProjection()
	eye := s.camera.Eye()
	w, h := s.camera.Viewport()
	light, hasLight := s.primaryLight()

	for _, id := range ecs.GetEntitiesWith2[*components.DrawableComponent, *components.TransformComponent](s.entityManager) {
		d, _ := ecs.GetComponent[*components.DrawableComponent](s.entityManager, id)
		if d.Mesh == nil {
			continue
		}

		for _, tri := range d.Mesh.Triangles(s.transforms.WorldMatrix(id)) {
			normal := tri.Normal()
			centroid := tri.Centroid()
			toEye := eye.Sub(centroid)
			if normal.Dot(toEye) <= 0 {
				if !d.Mesh.TwoSided {
					continue // 背面剔除
				}
				normal = normal.Mul(-1)
			}

			intensity := float32(1)
			tint := colorful.Color{R: 1, G: 1, B: 1}
			if hasLight {
				intensity = light.intensity(normal, centroid)
				tint = light.color
			}
			c := shade(d.Color, tint, intensity)

			var f renderFace
			visible := true
			for i, v := range tri {
				x, y, depth, ok := geom.ProjectToScreen(v, viewProj, w, h)
				if !ok {
					visible = false
					break
				}
				f.vertices[i] = ebiten.Vertex{
					DstX:   x,
					DstY:   y,
					SrcX:   1,
					SrcY:   1,
					ColorR: float32(c.R),
					ColorG: float32(c.G),
					ColorB: float32(c.B),
					ColorA: float32(d.Alpha),
				}
				f.depth += depth / 3
			}
			if visible {
				out = append(out, f)
			}
		}
	}

	slices.SortStableFunc(out, func(a, b renderFace) int {
		// 远的先画
		switch {
		case a.depth > b.depth:
			return -1
		case a.depth < b.depth:
			return 1
		}
		return 0
	})
	return out
}

// drawFaces 批量绘制三角形
func (s *RenderSystem) drawFaces(screen *ebiten.Image, faces []renderFace) {
	if len(faces) == 0 {
		return
	}
	src := s.triangleSource()

	for start := 0; start < len(faces); start += maxTrianglesPerBatch {
		end := min(start+maxTrianglesPerBatch, len(faces))

		s.vertices = s.vertices[:0]
		s.indices = s.indices[:0]
		for _, f := range faces[start:end] {
			base := uint16(len(s.vertices))
			s.vertices = append(s.vertices, f.vertices[:]...)
			s.indices = append(s.indices, base, base+1, base+2)
		}

		op := &ebiten.DrawTrianglesOptions{}
		op.AntiAlias = true
		screen.DrawTriangles(s.vertices, s.indices, src, op)
	}
}

// triangleSource 纯白源图（3x3 取中间 1 像素，避免边缘采样）
func (s *RenderSystem) triangleSource() *ebiten.Image {
	if s.triSource == nil {
		s.whiteImg = ebiten.NewImage(3, 3)
		s.whiteImg.Fill(color.White)
		s.triSource = s.whiteImg.SubImage(image.Rect(1, 1, 2, 2)).(*ebiten.Image)
	}
	return s.triSource
}

// collectLabels 投影所有标签，按深度从远到近排序
func (s *RenderSystem) collectLabels(out []renderLabel) []renderLabel {
	for _, id := range ecs.GetEntitiesWith2[*components.LabelComponent, *components.TransformComponent](s.entityManager) {
		label, _ := ecs.GetComponent[*components.LabelComponent](s.entityManager, id)
		if label.Text == "" {
			continue
		}
		x, y, depth, ok := s.camera.Project(s.transforms.WorldPosition(id))
		if !ok {
			continue
		}
		out = append(out, renderLabel{
			text:  label.Text,
			x:     x,
			y:     y,
			depth: depth,
			size:  label.FontSize,
			color: label.Color,
		})
	}
	slices.SortStableFunc(out, func(a, b renderLabel) int {
		switch {
		case a.depth > b.depth:
			return -1
		case a.depth < b.depth:
			return 1
		}
		return 0
	})
	return out
}

func (s *RenderSystem) drawLabels(screen *ebiten.Image, labels []renderLabel) {
	if len(labels) == 0 {
		return
	}
	if s.fontSource == nil {
		log.Printf("[RenderSystem] 未设置标签字体，跳过 %d 个标签", len(labels))
		return
	}
	for _, l := range labels {
		op := &text.DrawOptions{}
		op.GeoM.Translate(float64(l.x), float64(l.y))
		op.PrimaryAlign = text.AlignCenter
		op.SecondaryAlign = text.AlignEnd
		op.ColorScale.ScaleWithColor(l.color.Clamped())
		text.Draw(screen, l.text, s.face(l.size), op)
	}
}

func (s *RenderSystem) face(size float64) *text.GoTextFace {
	if f, ok := s.faces[size]; ok {
		return f
	}
	f := &text.GoTextFace{Source: s.fontSource, Size: size}
	s.faces[size] = f
	return f
}

// sceneLight 世界空间中的主光源
type sceneLight struct {
	position   mgl32.Vec3
	color      colorful.Color
	lightType  components.LightType
	direction  mgl32.Vec3
	rangeLen   float32
	brightness float32
}

// primaryLight 返回 ID 最小的光源
func (s *RenderSystem) primaryLight() (sceneLight, bool) {
	ids := ecs.GetEntitiesWith1[*components.LightComponent](s.entityManager)
	if len(ids) == 0 {
		return sceneLight{}, false
	}
	lc, _ := ecs.GetComponent[*components.LightComponent](s.entityManager, ids[0])
	world := s.transforms.WorldMatrix(ids[0])
	pos := world.Col(3).Vec3()
	dir := world.Col(2).Vec3().Mul(-1)
	if l := dir.Len(); l > 0 {
		dir = dir.Mul(1 / l)
	}
	return sceneLight{
		position:   pos,
		color:      lc.Color,
		lightType:  lc.Type,
		direction:  dir,
		rangeLen:   lc.Range,
		brightness: lc.Brightness,
	}, true
}

// intensity 计算 Lambert 漫反射强度（含环境光与距离衰减）
func (l sceneLight) intensity(normal, point mgl32.Vec3) float32 {
	var toLight mgl32.Vec3
	atten := float32(1)
	if l.lightType == components.LightDirectional {
		toLight = l.direction.Mul(-1)
	} else {
		toLight = l.position.Sub(point)
		dist := toLight.Len()
		if dist > 0 {
			toLight = toLight.Mul(1 / dist)
		}
		if l.rangeLen > 0 {
			atten = math32.Max(0, 1-dist/l.rangeLen)
		}
	}
	diffuse := math32.Max(0, normal.Dot(toLight))
	return AmbientLight + diffuse*atten*l.brightness
}

// shade 按光源颜色和光照强度缩放颜色
func shade(c, light colorful.Color, intensity float32) colorful.Color {
	k := float64(intensity)
	return colorful.Color{R: c.R * light.R * k, G: c.G * light.G * k, B: c.B * light.B * k}.Clamped()
}
