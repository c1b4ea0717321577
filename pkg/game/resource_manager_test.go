package game

import (
	"errors"
	"io/fs"
	"testing"
)

// memReader 内存资源读取器，记录读取次数
type memReader struct {
	files map[string]string
	reads map[string]int
}

func newMemReader(files map[string]string) *memReader {
	return &memReader{files: files, reads: make(map[string]int)}
}

func (m *memReader) read(path string) ([]byte, error) {
	m.reads[path]++
	data, ok := m.files[path]
	if !ok {
		return nil, fs.ErrNotExist
	}
	return []byte(data), nil
}

const planeYAML = `
name: Plane
twoSided: true
vertices:
  - [-0.5, 0, -0.5]
  - [0.5, 0, -0.5]
  - [0.5, 0, 0.5]
  - [-0.5, 0, 0.5]
indices: [0, 2, 1, 0, 3, 2]
`

func TestLoadModel(t *testing.T) {
	reader := newMemReader(map[string]string{"data/models/plane.yaml": planeYAML})
	rm := NewResourceManager(reader.read)

	mesh, err := rm.LoadModel("data/models/plane.yaml")
	if err != nil {
		t.Fatalf("LoadModel failed: %v", err)
	}
	if mesh.Name != "Plane" || !mesh.TwoSided {
		t.Errorf("mesh = %q twoSided=%v, want Plane twoSided=true", mesh.Name, mesh.TwoSided)
	}
	if mesh.TriangleCount() != 2 {
		t.Errorf("TriangleCount() = %d, want 2", mesh.TriangleCount())
	}
	// 法线朝上
	if n := mesh.Triangle(0).Normal(); n.Y() < 0.99 {
		t.Errorf("plane normal = %v, want +Y", n)
	}

	// 第二次从缓存读取
	again, err := rm.LoadModel("data/models/plane.yaml")
	if err != nil || again != mesh {
		t.Errorf("expected cached mesh, got %p err=%v", again, err)
	}
	if reader.reads["data/models/plane.yaml"] != 1 {
		t.Errorf("file read %d times, want 1", reader.reads["data/models/plane.yaml"])
	}
}

func TestLoadModelErrors(t *testing.T) {
	reader := newMemReader(map[string]string{
		"data/models/broken.yaml": "vertices: [[0, 0",
		"data/models/bad.yaml":    "vertices: [[0, 0, 0]]\nindices: [0, 1, 2]\n",
	})
	rm := NewResourceManager(reader.read)

	tests := []struct {
		name string
		path string
	}{
		{"missing file", "data/models/missing.yaml"},
		{"bad yaml", "data/models/broken.yaml"},
		{"index out of range", "data/models/bad.yaml"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if _, err := rm.LoadModel(tt.path); err == nil {
				t.Errorf("LoadModel(%q) expected error", tt.path)
			}
			// 失败不进入缓存，再次加载会重新读取
			_, _ = rm.LoadModel(tt.path)
			if reader.reads[tt.path] != 2 {
				t.Errorf("failed model %q read %d times, want 2", tt.path, reader.reads[tt.path])
			}
		})
	}

	_, err := rm.LoadModel("data/models/missing.yaml")
	if !errors.Is(err, fs.ErrNotExist) {
		t.Errorf("error should wrap fs.ErrNotExist, got %v", err)
	}
}

func TestLoadFontSourceDefault(t *testing.T) {
	rm := NewResourceManager(newMemReader(nil).read)

	src, err := rm.LoadFontSource("")
	if err != nil {
		t.Fatalf("LoadFontSource(default) failed: %v", err)
	}
	if src == nil {
		t.Fatal("expected a parsed font source")
	}
	if again, _ := rm.LoadFontSource(""); again != src {
		t.Error("second load should return the cached source")
	}
}

func TestLoadFontSourceOrDefaultFallsBack(t *testing.T) {
	reader := newMemReader(map[string]string{
		"data/fonts/broken.ttf": "not a font",
	})
	rm := NewResourceManager(reader.read)

	if _, err := rm.LoadFontSource("data/fonts/broken.ttf"); err == nil {
		t.Fatal("expected error for invalid font data")
	}
	builtin, _ := rm.LoadFontSource("")
	if src := rm.LoadFontSourceOrDefault("data/fonts/broken.ttf"); src != builtin {
		t.Error("expected fallback to the built-in font")
	}
	if src := rm.LoadFontSourceOrDefault("data/fonts/missing.ttf"); src != builtin {
		t.Error("missing font should also fall back")
	}
}
