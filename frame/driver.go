package frame

import (
	"image"

	"github.com/go-gl/mathgl/mgl32"
	"go.uber.org/zap"

	"github.com/richinsley/goglass/loader"
)

// Stages is the GPU side of a frame. The driver calls the three Render
// methods in a fixed order, each exactly once per tick.
type Stages interface {
	// Resize reallocates anything sized to the viewport.
	Resize(s *State)
	// AttachModel uploads a newly loaded model.
	AttachModel(m *Model) error
	// SetTexture swaps in a decoded albedo or grain image.
	SetTexture(kind loader.Kind, img image.Image)

	// RenderModelScene draws the model scene into the offscreen target.
	RenderModelScene(s *State)
	// RenderCompositor draws the quad, sampling the offscreen target, into
	// the default framebuffer.
	RenderCompositor(s *State)
	// RenderPostProcess runs the RGB shift over the default framebuffer.
	RenderPostProcess(s *State)
}

// Assets delivers finished asset loads without blocking.
type Assets interface {
	Poll() []loader.Result
}

// Host is the display side of the loop.
type Host interface {
	ShouldClose() bool
	EndFrame()
	Time() float64
}

// Driver advances the scene one tick at a time.
type Driver struct {
	state  *State
	stages Stages
	assets Assets
	logger *zap.Logger
	hooks  []func()
	start  float64
}

// NewDriver wires state to stages. assets may be nil.
func NewDriver(state *State, stages Stages, assets Assets, logger *zap.Logger) *Driver {
	return &Driver{
		state:  state,
		stages: stages,
		assets: assets,
		logger: logger,
	}
}

// State exposes the driven state.
func (d *Driver) State() *State {
	return d.state
}

// OnTick registers f to run at the start of every tick, after asset results
// are applied and before anything is drawn.
func (d *Driver) OnTick(f func()) {
	d.hooks = append(d.hooks, f)
}

// Reset sets the clock origin used for elapsed time.
func (d *Driver) Reset(start float64) {
	d.start = start
}

// HandleResize applies a new surface size. Zero-area sizes are ignored.
func (d *Driver) HandleResize(width, height int, pixelRatio float64) {
	s := d.state
	if !s.Viewport.Resize(width, height, pixelRatio) {
		d.logger.Debug("ignoring degenerate resize", zap.Int("width", width), zap.Int("height", height))
		return
	}
	s.ModelCamera.SetAspect(s.Viewport.Aspect())
	s.FinalCamera.SetAspect(s.Viewport.Aspect())
	s.Uniforms.Resolution = s.Viewport.Resolution()
	d.stages.Resize(s)
	d.logger.Debug("viewport resized",
		zap.Int("width", width),
		zap.Int("height", height),
		zap.Float64("pixel_ratio", s.Viewport.PixelRatio))
}

// HandlePointerMove records a pointer position in surface units.
func (d *Driver) HandlePointerMove(x, y float64) {
	d.state.Pointer.Move(x, y, d.state.Viewport.Width, d.state.Viewport.Height)
}

// SetProgress forwards the debug knob to the post pass.
func (d *Driver) SetProgress(p float64) {
	d.state.Uniforms.Progress = float32(p)
}

// Tick runs one frame at clock time now.
func (d *Driver) Tick(now float64) {
	s := d.state
	s.Elapsed = now - d.start

	d.consumeAssets()
	for _, h := range d.hooks {
		h()
	}

	smoothed := s.Pointer.Step()
	s.Quad.Position = mgl32.Vec3{smoothed.X() * QuadFollow, smoothed.Y() * QuadFollow, 0}
	if s.Model != nil {
		s.Model.Transform.Position = mgl32.Vec3{-smoothed.X() + ModelOffsetX, -smoothed.Y(), 0}
	}

	s.Uniforms.Time = float32(s.Elapsed)
	s.Uniforms.Resolution = s.Viewport.Resolution()

	d.stages.RenderModelScene(s)
	d.stages.RenderCompositor(s)
	d.stages.RenderPostProcess(s)
	s.Frame++
}

// Run ticks until the host asks to close. Each tick completes, including
// the host's buffer swap and event poll, before the next one starts.
func (d *Driver) Run(host Host) {
	d.Reset(host.Time())
	d.logger.Info("starting interactive render loop")
	for !host.ShouldClose() {
		d.Tick(host.Time())
		host.EndFrame()
	}
	d.logger.Info("render loop finished", zap.Int64("frames", d.state.Frame))
}

func (d *Driver) consumeAssets() {
	if d.assets == nil {
		return
	}
	for _, res := range d.assets.Poll() {
		if res.Err != nil {
			d.logger.Warn("asset unavailable",
				zap.Stringer("kind", res.Kind),
				zap.String("path", res.Path),
				zap.Error(res.Err))
			continue
		}
		switch res.Kind {
		case loader.KindModel:
			d.attachModel(res)
		default:
			d.stages.SetTexture(res.Kind, res.Image)
			d.logger.Info("texture ready", zap.Stringer("kind", res.Kind), zap.String("path", res.Path))
		}
	}
}

func (d *Driver) attachModel(res loader.Result) {
	res.Geometry.RemapUV()
	m := NewModel(res.Geometry)
	if err := d.stages.AttachModel(m); err != nil {
		d.logger.Warn("model upload failed", zap.String("path", res.Path), zap.Error(err))
		return
	}
	d.state.Model = m
	d.logger.Info("model ready",
		zap.String("path", res.Path),
		zap.Int("vertices", res.Geometry.VertexCount()),
		zap.Int("indices", len(res.Geometry.Indices)))
}
