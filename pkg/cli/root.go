// Package cli 提供桌面端命令行入口
//
// 命令行参数优先级：显式参数 > 配置文件 / CHARTS3D_* 环境变量 > data/chart.yaml。
package cli

import (
	"errors"
	"fmt"
	"io"
	"log"
	"os"
	"strings"

	"github.com/decker502/charts3d/pkg/app"
	"github.com/decker502/charts3d/pkg/config"
	"github.com/decker502/charts3d/pkg/embedded"
	"github.com/hajimehoshi/ebiten/v2"
	"github.com/spf13/cobra"
	"github.com/spf13/pflag"
	"github.com/spf13/viper"
)

// options 命令行参数
type options struct {
	cfgFile        string
	chartFile      string
	size           int
	seed           int64
	verbose        bool
	touchEmulation bool
	width          int
	height         int
}

// runFunc 使用最终的图表配置启动应用
type runFunc func(opts *options, chart *config.ChartConfig) error

// NewRootCommand 创建根命令
func NewRootCommand() *cobra.Command {
	return newRootCommand(viper.New(), runGame)
}

func newRootCommand(v *viper.Viper, run runFunc) *cobra.Command {
	opts := &options{}

	cmd := &cobra.Command{
		Use:   "charts3d",
		Short: "Interactive 3D bar chart",
		Long: `charts3d renders an N x N grid of 3D bars with value labels.
Tap or click a bar to select it, drag with one finger to spin the chart,
Space randomizes the values, R restarts and Esc quits.`,
		SilenceUsage: true,
		Args:         cobra.NoArgs,
		PersistentPreRunE: func(cmd *cobra.Command, _ []string) error {
			configureLogging(opts.verbose)
			if err := initConfig(v, opts.cfgFile); err != nil {
				return err
			}
			if err := bindFlags(cmd, v); err != nil {
				return err
			}
			// verbose 也可能来自配置文件或环境变量
			configureLogging(opts.verbose)
			return nil
		},
		RunE: func(cmd *cobra.Command, _ []string) error {
			chart, err := loadChartConfig(opts.chartFile)
			if err != nil {
				return err
			}
			applyOverrides(cmd.Flags(), opts, chart)
			if err := chart.Validate(); err != nil {
				return fmt.Errorf("invalid chart config: %w", err)
			}
			return run(opts, chart)
		},
	}

	flags := cmd.Flags()
	flags.StringVar(&opts.cfgFile, "config", "", "config file (default is $HOME/.charts3d.yaml or ./.charts3d.yaml)")
	flags.StringVar(&opts.chartFile, "chart", "", "chart yaml file (default is the embedded "+config.ChartConfigPath+")")
	flags.IntVar(&opts.size, "size", 0, "number of bars per grid side")
	flags.Int64Var(&opts.seed, "seed", 0, "random seed for bar colors (0 = time based)")
	flags.BoolVarP(&opts.verbose, "verbose", "v", false, "enable verbose logging")
	flags.BoolVar(&opts.touchEmulation, "touch-emulation", true, "treat the left mouse button as a touch")
	flags.IntVar(&opts.width, "width", config.GameWindowWidth, "window width")
	flags.IntVar(&opts.height, "height", config.GameWindowHeight, "window height")

	return cmd
}

// Execute 执行根命令，由 main.main() 调用
func Execute() {
	if err := NewRootCommand().Execute(); err != nil {
		os.Exit(1)
	}
}

// configureLogging 非 verbose 时丢弃标准 log 输出
func configureLogging(verbose bool) {
	if verbose {
		log.SetOutput(os.Stderr)
		return
	}
	log.SetOutput(io.Discard)
}

func initConfig(v *viper.Viper, cfgFile string) error {
	if cfgFile != "" {
		log.Printf("[CLI] Using config file: %s", cfgFile)
		v.SetConfigFile(cfgFile)
	} else {
		if home, err := os.UserHomeDir(); err == nil {
			v.AddConfigPath(home)
		}
		v.AddConfigPath(".")
		v.SetConfigType("yaml")
		v.SetConfigName(".charts3d")
	}
	v.SetEnvPrefix("charts3d")
	v.AutomaticEnv()

	if err := v.ReadInConfig(); err != nil {
		var notFound viper.ConfigFileNotFoundError
		if errors.As(err, &notFound) {
			log.Printf("[CLI] No config file found, using flags and defaults")
			return nil
		}
		return fmt.Errorf("failed to read config file: %w", err)
	}
	log.Printf("[CLI] Loaded config file: %s", v.ConfigFileUsed())
	return nil
}

// bindFlags 将配置文件/环境变量中的值写入未显式设置的参数
func bindFlags(cmd *cobra.Command, v *viper.Viper) error {
	var bindErr error
	cmd.Flags().VisitAll(func(f *pflag.Flag) {
		if bindErr != nil || f.Changed {
			return
		}
		// viper 不区分大小写，配置文件里用 camelCase 时只需去掉连字符
		configName := strings.ReplaceAll(f.Name, "-", "")
		if !v.IsSet(configName) {
			return
		}
		val := v.Get(configName)
		if err := cmd.Flags().Set(f.Name, fmt.Sprintf("%v", val)); err != nil {
			bindErr = fmt.Errorf("invalid value %v for %s: %w", val, configName, err)
			return
		}
		log.Printf("[CLI] Flag '%s' set to config value %v", f.Name, val)
	})
	return bindErr
}

// loadChartConfig 读取图表配置；path 为空时使用嵌入的 data/chart.yaml
func loadChartConfig(path string) (*config.ChartConfig, error) {
	if path != "" {
		return config.LoadChartConfig(path)
	}
	data, err := embedded.ReadFile(config.ChartConfigPath)
	if err != nil {
		return nil, fmt.Errorf("failed to read embedded chart config: %w", err)
	}
	return config.ParseChartConfig(data)
}

// applyOverrides 把显式设置（或由配置文件绑定）的参数写入图表配置
func applyOverrides(flags *pflag.FlagSet, opts *options, chart *config.ChartConfig) {
	if flags.Changed("size") {
		chart.GridSize = opts.size
	}
	if flags.Changed("seed") {
		chart.Seed = opts.seed
	}
	if flags.Changed("touch-emulation") {
		chart.Input.TouchEmulation = opts.touchEmulation
	}
}

func runGame(opts *options, chart *config.ChartConfig) error {
	gameApp, err := app.NewApp(app.Config{
		Verbose:      opts.verbose,
		Chart:        chart,
		WindowWidth:  opts.width,
		WindowHeight: opts.height,
	})
	if err != nil {
		return fmt.Errorf("failed to start: %w", err)
	}

	ebiten.SetWindowSize(gameApp.WindowSize())
	ebiten.SetWindowTitle(config.WindowTitle)
	ebiten.SetWindowResizingMode(ebiten.WindowResizingModeEnabled)
	ebiten.SetTPS(config.TickRate)

	if err := ebiten.RunGame(gameApp); err != nil {
		return fmt.Errorf("game loop failed: %w", err)
	}
	return nil
}
