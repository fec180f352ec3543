package options

import (
	"errors"
	"fmt"
	"math"
	"os"

	"github.com/pelletier/go-toml/v2"
)

// Render modes.
const (
	ModeInteractive = "interactive"
	ModeRecord      = "record"
)

// ProgressStep is the granularity of the debug progress knob.
const ProgressStep = 0.1

var (
	errBadSize     = errors.New("width and height must be positive")
	errBadFPS      = errors.New("fps must be positive")
	errBadDuration = errors.New("duration must be positive in record mode")
	errBadProgress = errors.New("progress must be within [0, 1]")
	errBadHeadless = errors.New("headless rendering requires record mode")
)

// Assets names the three external inputs of the scene.
type Assets struct {
	Model  string `toml:"model"`
	Albedo string `toml:"albedo"`
	Grain  string `toml:"grain"`
}

// SceneOptions is the full runtime configuration.
type SceneOptions struct {
	Width      int     `toml:"width"`
	Height     int     `toml:"height"`
	Title      string  `toml:"title"`
	Mode       string  `toml:"mode"`
	Duration   float64 `toml:"duration"`
	FPS        int     `toml:"fps"`
	OutputFile string  `toml:"output"`
	FFMPEGPath string  `toml:"ffmpeg"`
	// Headless records through an EGL pbuffer instead of a hidden window.
	Headless bool `toml:"headless"`

	Assets Assets `toml:"assets"`

	ShaderDir   string `toml:"shader_dir"`
	WatchShader bool   `toml:"watch"`

	// Progress is the inert debug knob forwarded to the post pass.
	Progress float64 `toml:"progress"`

	LogLevel       string `toml:"log_level"`
	LogDevelopment bool   `toml:"log_development"`
}

// Default returns the configuration used when nothing else is supplied.
func Default() *SceneOptions {
	return &SceneOptions{
		Width:      1280,
		Height:     720,
		Title:      "goglass",
		Mode:       ModeInteractive,
		Duration:   10,
		FPS:        60,
		OutputFile: "output.mp4",
		Assets: Assets{
			Model:  "static/cat.glb",
			Albedo: "static/model.webp",
			Grain:  "static/grain.jpg",
		},
		LogLevel: "info",
	}
}

// Load reads a TOML file over the defaults. Keys missing from the file keep
// their default values.
func Load(path string) (*SceneOptions, error) {
	o := Default()
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read config %s: %w", path, err)
	}
	if err := toml.Unmarshal(data, o); err != nil {
		return nil, fmt.Errorf("failed to parse config %s: %w", path, err)
	}
	return o, nil
}

// Validate checks the option ranges.
func (o *SceneOptions) Validate() error {
	if o.Width <= 0 || o.Height <= 0 {
		return errBadSize
	}
	if o.FPS <= 0 {
		return errBadFPS
	}
	switch o.Mode {
	case ModeInteractive:
		if o.Headless {
			return errBadHeadless
		}
	case ModeRecord:
		if o.Duration <= 0 {
			return errBadDuration
		}
	default:
		return fmt.Errorf("unknown mode %q", o.Mode)
	}
	if o.Progress < 0 || o.Progress > 1 {
		return errBadProgress
	}
	return nil
}

// SetProgress clamps p to [0, 1] and snaps it to ProgressStep.
func (o *SceneOptions) SetProgress(p float64) float64 {
	p = math.Max(0, math.Min(1, p))
	o.Progress = math.Round(p/ProgressStep) * ProgressStep
	return o.Progress
}

// StepProgress moves the knob by n steps.
func (o *SceneOptions) StepProgress(n int) float64 {
	return o.SetProgress(o.Progress + float64(n)*ProgressStep)
}
