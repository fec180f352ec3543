package main

import (
	"context"
	"flag"
	"fmt"
	"os"
	"runtime"

	glfw "github.com/go-gl/glfw/v3.3/glfw"
	"go.uber.org/zap"

	"github.com/richinsley/goglass/frame"
	"github.com/richinsley/goglass/glfwcontext"
	"github.com/richinsley/goglass/headless"
	"github.com/richinsley/goglass/loader"
	"github.com/richinsley/goglass/options"
	"github.com/richinsley/goglass/renderer"
	"github.com/richinsley/goglass/shader"
	"github.com/richinsley/goglass/viewport"
)

func init() {
	runtime.LockOSThread()
}

// parseOptions layers flags that were set explicitly over the config file,
// which itself sits over the defaults.
func parseOptions() (*options.SceneOptions, error) {
	d := options.Default()

	var configPath = flag.String("config", "", "Path to a TOML config file")
	var help = flag.Bool("help", false, "Show help message")

	var record = flag.Bool("record", false, "Enable recording mode")
	var duration = flag.Float64("duration", d.Duration, "Duration to record in seconds")
	var fps = flag.Int("fps", d.FPS, "Frames per second for recording")
	var width = flag.Int("width", d.Width, "Width of the window or output")
	var height = flag.Int("height", d.Height, "Height of the window or output")
	var outputFile = flag.String("output", d.OutputFile, "Output file name for recording")
	var ffmpegPath = flag.String("ffmpeg", d.FFMPEGPath, "Path to ffmpeg executable")
	var headlessFlag = flag.Bool("headless", d.Headless, "Record through EGL without a window (Linux)")

	var model = flag.String("model", d.Assets.Model, "Path to the .glb model")
	var albedo = flag.String("albedo", d.Assets.Albedo, "Path to the model texture")
	var grain = flag.String("grain", d.Assets.Grain, "Path to the grain texture")

	var shaderDir = flag.String("shaders", d.ShaderDir, "Directory of shader overrides")
	var watch = flag.Bool("watch", d.WatchShader, "Reload shader overrides when they change")
	var progress = flag.Float64("progress", d.Progress, "Initial debug progress value")
	var logLevel = flag.String("log-level", d.LogLevel, "Log level (debug, info, warn, error)")
	var logDev = flag.Bool("log-dev", d.LogDevelopment, "Human readable development logging")

	flag.Parse()

	if *help {
		fmt.Println("goglass: glass model scene viewer/recorder")
		flag.PrintDefaults()
		os.Exit(0)
	}

	opts := d
	if *configPath != "" {
		var err error
		opts, err = options.Load(*configPath)
		if err != nil {
			return nil, err
		}
	}

	flag.Visit(func(f *flag.Flag) {
		switch f.Name {
		case "record":
			if *record {
				opts.Mode = options.ModeRecord
			} else {
				opts.Mode = options.ModeInteractive
			}
		case "duration":
			opts.Duration = *duration
		case "fps":
			opts.FPS = *fps
		case "width":
			opts.Width = *width
		case "height":
			opts.Height = *height
		case "output":
			opts.OutputFile = *outputFile
		case "ffmpeg":
			opts.FFMPEGPath = *ffmpegPath
		case "headless":
			opts.Headless = *headlessFlag
		case "model":
			opts.Assets.Model = *model
		case "albedo":
			opts.Assets.Albedo = *albedo
		case "grain":
			opts.Assets.Grain = *grain
		case "shaders":
			opts.ShaderDir = *shaderDir
		case "watch":
			opts.WatchShader = *watch
		case "progress":
			opts.Progress = *progress
		case "log-level":
			opts.LogLevel = *logLevel
		case "log-dev":
			opts.LogDevelopment = *logDev
		}
	})

	if err := opts.Validate(); err != nil {
		return nil, fmt.Errorf("invalid options: %w", err)
	}
	return opts, nil
}

func newLogger(opts *options.SceneOptions) (*zap.Logger, error) {
	cfg := zap.NewProductionConfig()
	if opts.LogDevelopment {
		cfg = zap.NewDevelopmentConfig()
	}
	level, err := zap.ParseAtomicLevel(opts.LogLevel)
	if err != nil {
		return nil, fmt.Errorf("invalid log level %q: %w", opts.LogLevel, err)
	}
	cfg.Level = level
	return cfg.Build()
}

func main() {
	opts, err := parseOptions()
	if err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(2)
	}

	logger, err := newLogger(opts)
	if err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(2)
	}

	os.Exit(exitCode(logger, run(opts, logger)))
}

// exitCode logs err and flushes the logger. It runs after run has returned,
// so the deferred teardown has already happened.
func exitCode(logger *zap.Logger, err error) int {
	code := 0
	if err != nil {
		logger.Error("goglass failed", zap.Error(err))
		code = 1
	}
	logger.Sync()
	return code
}

// run owns every resource that needs teardown. Errors are returned rather
// than logged fatally so the deferred cleanup always runs.
func run(opts *options.SceneOptions, logger *zap.Logger) error {
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	assets := loader.New(logger)
	assets.Start(ctx, opts.Assets)

	lib := shader.NewLibrary(opts.ShaderDir, logger)
	var watcher *shader.Watcher
	if opts.WatchShader && opts.ShaderDir != "" {
		var err error
		watcher, err = lib.Watch()
		if err != nil {
			logger.Warn("shader hot reload disabled", zap.Error(err))
		} else {
			defer watcher.Close()
		}
	}

	record := opts.Mode == options.ModeRecord

	if record && opts.Headless {
		host, err := headless.New(opts.Width, opts.Height, logger)
		if err != nil {
			return fmt.Errorf("failed to create headless context: %w", err)
		}
		r, err := renderer.NewRenderer(ctx, host, opts, lib, watcher, logger)
		if err != nil {
			return fmt.Errorf("failed to create renderer: %w", err)
		}
		defer r.Shutdown()
		return runRecord(r, assets, opts, logger)
	}

	if err := glfwcontext.InitGraphics(logger); err != nil {
		return fmt.Errorf("failed to initialize graphics: %w", err)
	}
	defer glfwcontext.TerminateGraphics(logger)

	// If recording, the window will be hidden.
	win, err := glfwcontext.New(opts, !record, logger)
	if err != nil {
		return fmt.Errorf("failed to create window: %w", err)
	}

	r, err := renderer.NewRenderer(ctx, win, opts, lib, watcher, logger)
	if err != nil {
		return fmt.Errorf("failed to create renderer: %w", err)
	}
	defer r.Shutdown()

	if record {
		return runRecord(r, assets, opts, logger)
	}

	w, h := win.GetWindowSize()
	driver := newDriver(r, assets, viewport.New(w, h, win.ContentScale()), opts, logger)

	win.OnResize(driver.HandleResize)
	win.OnPointerMove(driver.HandlePointerMove)
	win.RegisterKeyCallback(glfw.KeyUp, func() {
		p := opts.StepProgress(1)
		driver.SetProgress(p)
		logger.Debug("progress changed", zap.Float64("progress", p))
	})
	win.RegisterKeyCallback(glfw.KeyDown, func() {
		p := opts.StepProgress(-1)
		driver.SetProgress(p)
		logger.Debug("progress changed", zap.Float64("progress", p))
	})

	driver.Run(win)
	return nil
}

func newDriver(r *renderer.Renderer, assets *loader.Loader, vp viewport.Viewport, opts *options.SceneOptions, logger *zap.Logger) *frame.Driver {
	state := frame.NewState(vp)
	driver := frame.NewDriver(state, r, assets, logger)
	driver.SetProgress(opts.Progress)
	driver.OnTick(r.ApplyShaderChanges)
	r.Resize(state)
	return driver
}

// runRecord renders the fixed-length recording once every asset has loaded,
// so the first frame already shows the finished scene.
func runRecord(r *renderer.Renderer, assets *loader.Loader, opts *options.SceneOptions, logger *zap.Logger) error {
	if err := assets.Wait(); err != nil {
		logger.Warn("asset loading interrupted", zap.Error(err))
	}
	driver := newDriver(r, assets, viewport.New(opts.Width, opts.Height, 1), opts, logger)
	if err := r.RunRecord(driver, opts); err != nil {
		return fmt.Errorf("recording failed: %w", err)
	}
	return nil
}
