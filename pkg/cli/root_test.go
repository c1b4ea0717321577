package cli

import (
	"io"
	"log"
	"os"
	"path/filepath"
	"testing"

	"github.com/decker502/charts3d/pkg/config"
	"github.com/decker502/charts3d/pkg/embedded"
	"github.com/spf13/viper"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// captured 记录 runFunc 收到的参数
type captured struct {
	opts  *options
	chart *config.ChartConfig
}

func executeWith(t *testing.T, args ...string) (*captured, error) {
	t.Helper()
	embedded.Init(os.DirFS(filepath.Join("..", "..")))
	t.Cleanup(func() { embedded.Init(nil) })
	// 避免读取 $HOME/.charts3d.yaml
	t.Setenv("HOME", t.TempDir())
	prevLog := log.Writer()
	t.Cleanup(func() { log.SetOutput(prevLog) })

	got := &captured{}
	cmd := newRootCommand(viper.New(), func(opts *options, chart *config.ChartConfig) error {
		got.opts = opts
		got.chart = chart
		return nil
	})
	cmd.SetArgs(args)
	cmd.SetOut(os.Stderr)
	return got, cmd.Execute()
}

func writeFile(t *testing.T, name, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), name)
	require.NoError(t, os.WriteFile(path, []byte(content), 0o644))
	return path
}

func TestDefaultsUseEmbeddedChart(t *testing.T) {
	got, err := executeWith(t)
	require.NoError(t, err)

	assert.Equal(t, 3, got.chart.GridSize)
	assert.InDelta(t, 1.5, got.chart.Spacing, 1e-6)
	assert.True(t, got.chart.Input.TouchEmulation)
	assert.Equal(t, config.GameWindowWidth, got.opts.width)
	assert.Equal(t, config.GameWindowHeight, got.opts.height)
}

func TestFlagsOverrideChart(t *testing.T) {
	got, err := executeWith(t, "--size", "5", "--seed", "42", "--touch-emulation=false", "--width", "640")
	require.NoError(t, err)

	assert.Equal(t, 5, got.chart.GridSize)
	assert.Equal(t, int64(42), got.chart.Seed)
	assert.False(t, got.chart.Input.TouchEmulation)
	assert.Equal(t, 640, got.opts.width)
}

func TestConfigFileFillsUnsetFlags(t *testing.T) {
	cfgFile := writeFile(t, "charts3d.yaml", "size: 4\nseed: 9\ntouchEmulation: false\n")

	got, err := executeWith(t, "--config", cfgFile, "--seed", "11")
	require.NoError(t, err)

	assert.Equal(t, 4, got.chart.GridSize)
	assert.Equal(t, int64(11), got.chart.Seed, "explicit flag wins over config file")
	assert.False(t, got.chart.Input.TouchEmulation)
}

func TestEnvFillsUnsetFlags(t *testing.T) {
	t.Setenv("CHARTS3D_SIZE", "2")

	got, err := executeWith(t)
	require.NoError(t, err)
	assert.Equal(t, 2, got.chart.GridSize)
}

func TestVerboseLogging(t *testing.T) {
	tests := []struct {
		name    string
		args    func(t *testing.T) []string
		env     string
		verbose bool
	}{
		{"default", func(*testing.T) []string { return nil }, "", false},
		{"flag", func(*testing.T) []string { return []string{"-v"} }, "", true},
		{"config file", func(t *testing.T) []string {
			return []string{"--config", writeFile(t, "charts3d.yaml", "verbose: true\n")}
		}, "", true},
		{"env", func(*testing.T) []string { return nil }, "true", true},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if tt.env != "" {
				t.Setenv("CHARTS3D_VERBOSE", tt.env)
			}
			got, err := executeWith(t, tt.args(t)...)
			require.NoError(t, err)

			assert.Equal(t, tt.verbose, got.opts.verbose)
			if tt.verbose {
				assert.Equal(t, io.Writer(os.Stderr), log.Writer())
			} else {
				assert.Equal(t, io.Discard, log.Writer())
			}
		})
	}
}

func TestChartFile(t *testing.T) {
	chartFile := writeFile(t, "chart.yaml", "gridSize: 6\nspacing: 2\n")

	got, err := executeWith(t, "--chart", chartFile)
	require.NoError(t, err)

	assert.Equal(t, 6, got.chart.GridSize)
	assert.InDelta(t, 2.0, got.chart.Spacing, 1e-6)
	// 未出现的字段保持默认值
	assert.InDelta(t, 0.3, got.chart.Bar.MinHeight, 1e-6)
}

func TestInvalidInputs(t *testing.T) {
	tests := []struct {
		name string
		args func(t *testing.T) []string
	}{
		{"zero size", func(*testing.T) []string { return []string{"--size", "0"} }},
		{"missing chart file", func(t *testing.T) []string {
			return []string{"--chart", filepath.Join(t.TempDir(), "missing.yaml")}
		}},
		{"bad config value", func(t *testing.T) []string {
			return []string{"--config", writeFile(t, "bad.yaml", "size: many\n")}
		}},
		{"positional argument", func(*testing.T) []string { return []string{"extra"} }},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := executeWith(t, tt.args(t)...)
			assert.Error(t, err)
		})
	}
}
