package game

import (
	"bytes"
	"fmt"
	"log"

	"github.com/decker502/charts3d/pkg/embedded"
	"github.com/decker502/charts3d/pkg/geom"
	"github.com/go-gl/mathgl/mgl32"
	"github.com/hajimehoshi/ebiten/v2/text/v2"
	"golang.org/x/image/font/gofont/goregular"
	"gopkg.in/yaml.v3"
)

// FileReader 读取资源文件内容
type FileReader func(path string) ([]byte, error)

// ResourceManager is responsible for centralized management of chart resources.
// It provides loading and caching mechanisms for mesh models and label fonts,
// ensuring that resources are loaded only once and reused by every scene.
//
// Thread Safety Note:
// This implementation is NOT thread-safe. The internal caches use standard Go maps.
// For the single-threaded ebiten loop no synchronization is needed.
//
// Usage:
//
//	rm := NewResourceManager(embedded.ReadFile)
//	plane, err := rm.LoadModel("data/models/plane.yaml")
//	if err != nil {
//	    return fmt.Errorf("load ground: %w", err)
//	}
type ResourceManager struct {
	read FileReader

	modelCache      map[string]*geom.Mesh             // path -> Mesh
	fontSourceCache map[string]*text.GoTextFaceSource // path -> parsed font
}

// NewResourceManager creates and initializes a new ResourceManager instance.
//
// Parameters:
//   - read: reads resource bytes; nil means embedded.ReadFile
func NewResourceManager(read FileReader) *ResourceManager {
	if read == nil {
		read = embedded.ReadFile
	}
	return &ResourceManager{
		read:            read,
		modelCache:      make(map[string]*geom.Mesh),
		fontSourceCache: make(map[string]*text.GoTextFaceSource),
	}
}

// modelFile is the on-disk YAML layout of a mesh model.
type modelFile struct {
	Name     string       `yaml:"name"`
	TwoSided bool         `yaml:"twoSided"`
	Vertices []mgl32.Vec3 `yaml:"vertices"`
	Indices  []uint16     `yaml:"indices"`
}

// LoadModel loads a YAML mesh model and caches it for future use.
// If the model has already been loaded, it returns the cached version.
//
// Parameters:
//   - path: The resource path (e.g., "data/models/plane.yaml").
//
// Returns:
//   - The parsed mesh. Callers must not modify it; it is shared.
//   - An error if the file cannot be read, parsed, or fails validation.
func (rm *ResourceManager) LoadModel(path string) (*geom.Mesh, error) {
	if mesh, ok := rm.modelCache[path]; ok {
		return mesh, nil
	}

	data, err := rm.read(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read model %s: %w", path, err)
	}

	var mf modelFile
	if err := yaml.Unmarshal(data, &mf); err != nil {
		return nil, fmt.Errorf("failed to parse model %s: %w", path, err)
	}

	mesh := &geom.Mesh{
		Name:     mf.Name,
		Vertices: mf.Vertices,
		Indices:  mf.Indices,
		TwoSided: mf.TwoSided,
	}
	if mesh.Name == "" {
		mesh.Name = path
	}
	if err := mesh.Validate(); err != nil {
		return nil, fmt.Errorf("invalid model %s: %w", path, err)
	}

	rm.modelCache[path] = mesh
	log.Printf("[ResourceManager] 加载模型 %s: %d 顶点, %d 三角形", path, len(mesh.Vertices), mesh.TriangleCount())
	return mesh, nil
}

// LoadFontSource parses a TrueType/OpenType font and caches the source.
// An empty path selects the built-in Go Regular font.
func (rm *ResourceManager) LoadFontSource(path string) (*text.GoTextFaceSource, error) {
	if src, ok := rm.fontSourceCache[path]; ok {
		return src, nil
	}

	var fontData []byte
	if path == "" {
		fontData = goregular.TTF
	} else {
		data, err := rm.read(path)
		if err != nil {
			return nil, fmt.Errorf("failed to read font file %s: %w", path, err)
		}
		fontData = data
	}

	src, err := text.NewGoTextFaceSource(bytes.NewReader(fontData))
	if err != nil {
		return nil, fmt.Errorf("failed to create font source for %s: %w", path, err)
	}
	rm.fontSourceCache[path] = src
	return src, nil
}

// LoadFontSourceOrDefault loads path, falling back to Go Regular on failure.
// Faces are sized per label by the renderer, so only the source is shared.
func (rm *ResourceManager) LoadFontSourceOrDefault(path string) *text.GoTextFaceSource {
	src, err := rm.LoadFontSource(path)
	if err == nil {
		return src
	}
	log.Printf("[ResourceManager] 字体加载失败，使用内置 Go Regular: %v", err)
	src, err = rm.LoadFontSource("")
	if err != nil {
		// 内置字体随二进制发布，解析失败说明构建已损坏
		panic(fmt.Sprintf("built-in font unusable: %v", err))
	}
	return src
}
