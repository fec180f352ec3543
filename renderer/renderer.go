package renderer

import (
	"context"
	"fmt"
	"image"
	"sync"

	"github.com/go-gl/gl/v4.1-core/gl"
	"go.uber.org/zap"

	"github.com/richinsley/goglass/frame"
	"github.com/richinsley/goglass/graphics"
	"github.com/richinsley/goglass/inputs"
	"github.com/richinsley/goglass/loader"
	"github.com/richinsley/goglass/options"
	"github.com/richinsley/goglass/shader"
)

var glInitOnce sync.Once

// Renderer owns every GL resource of the scene and implements frame.Stages.
// All methods must be called on the thread that owns the context.
type Renderer struct {
	ctx     context.Context
	context graphics.Context
	lib     *shader.Library
	watcher *shader.Watcher
	logger  *zap.Logger

	scene      *modelScene
	compositor *compositor
	post       *postProcess

	// screen stands in for the default framebuffer in record mode.
	screen     *inputs.RenderTarget
	width      int
	height     int
	recordMode bool
}

var _ frame.Stages = (*Renderer)(nil)

// NewRenderer builds all programs and targets. watcher may be nil. On
// failure c has already been shut down.
func NewRenderer(ctx context.Context, c graphics.Context, opts *options.SceneOptions, lib *shader.Library, watcher *shader.Watcher, logger *zap.Logger) (*Renderer, error) {
	r := &Renderer{
		ctx:        ctx,
		context:    c,
		lib:        lib,
		watcher:    watcher,
		logger:     logger,
		recordMode: opts.Mode == options.ModeRecord,
	}

	r.context.MakeCurrent()

	var initErr error
	glInitOnce.Do(func() {
		initErr = gl.Init()
	})
	if initErr != nil {
		r.context.Shutdown()
		return nil, fmt.Errorf("failed to initialize OpenGL: %w", initErr)
	}
	logger.Info("OpenGL initialized",
		zap.String("version", gl.GoStr(gl.GetString(gl.VERSION))),
		zap.String("renderer", gl.GoStr(gl.GetString(gl.RENDERER))))

	var err error
	if r.recordMode {
		r.width, r.height = opts.Width, opts.Height
		r.screen, err = inputs.NewRenderTarget(r.width, r.height)
		if err != nil {
			r.Shutdown()
			return nil, fmt.Errorf("failed to create record target: %w", err)
		}
	} else {
		r.width, r.height = c.GetFramebufferSize()
	}

	r.scene, err = newModelScene(ctx, lib, r.width, r.height)
	if err != nil {
		r.Shutdown()
		return nil, fmt.Errorf("failed to create model scene: %w", err)
	}
	r.compositor, err = newCompositor(ctx, lib)
	if err != nil {
		r.Shutdown()
		return nil, fmt.Errorf("failed to create compositor: %w", err)
	}
	r.post, err = newPostProcess(ctx, lib, r.width, r.height)
	if err != nil {
		r.Shutdown()
		return nil, fmt.Errorf("failed to create post process: %w", err)
	}

	return r, nil
}

// Shutdown releases GL resources and the window.
func (r *Renderer) Shutdown() {
	if r.scene != nil {
		r.scene.destroy()
	}
	if r.compositor != nil {
		r.compositor.destroy()
	}
	if r.post != nil {
		r.post.destroy()
	}
	if r.screen != nil {
		r.screen.Destroy()
	}
	r.context.Shutdown()
}

func (r *Renderer) screenFBO() uint32 {
	if r.screen != nil {
		return r.screen.FBO()
	}
	return 0
}

// Resize follows the viewport. In record mode the output size is fixed and
// only the model scene target follows.
func (r *Renderer) Resize(s *frame.State) {
	if !r.recordMode {
		r.width, r.height = r.context.GetFramebufferSize()
	}
	w, h := s.Viewport.FramebufferSize()
	r.scene.target.Resize(w, h)
	r.logger.Debug("render targets resized",
		zap.Int("scene_width", w),
		zap.Int("scene_height", h),
		zap.Int("screen_width", r.width),
		zap.Int("screen_height", r.height))
}

func (r *Renderer) AttachModel(m *frame.Model) error {
	return r.scene.attach(m.Geometry)
}

func (r *Renderer) SetTexture(kind loader.Kind, img image.Image) {
	switch kind {
	case loader.KindAlbedo:
		r.replaceTexture(&r.scene.albedo, kind, img)
	case loader.KindGrain:
		r.replaceTexture(&r.compositor.grain, kind, img)
	default:
		r.logger.Warn("no texture slot for asset", zap.Stringer("kind", kind))
	}
}

func (r *Renderer) replaceTexture(slot **inputs.ImageTexture, kind loader.Kind, img image.Image) {
	tex, err := inputs.NewImageTexture(img, inputs.DefaultSampler())
	if err != nil {
		r.logger.Warn("texture upload failed", zap.Stringer("kind", kind), zap.Error(err))
		return
	}
	if *slot != nil {
		(*slot).Destroy()
	}
	*slot = tex
}

func (r *Renderer) RenderModelScene(s *frame.State) {
	r.scene.render(s)
}

func (r *Renderer) RenderCompositor(s *frame.State) {
	r.compositor.render(s, r.scene.target, r.screenFBO(), r.width, r.height)
}

func (r *Renderer) RenderPostProcess(s *frame.State) {
	r.post.render(s, r.screenFBO(), r.width, r.height)
}

// ApplyShaderChanges rebuilds every program whose sources changed since the
// last call. A program that fails to rebuild keeps running its old code.
func (r *Renderer) ApplyShaderChanges() {
	if r.watcher == nil {
		return
	}
	changed := r.watcher.Poll()
	if len(changed) == 0 {
		return
	}
	r.logger.Debug("shader sources changed", zap.Strings("names", changed))

	var slots []**program
	slots = append(slots, r.scene.programs()...)
	slots = append(slots, r.compositor.programs()...)
	slots = append(slots, r.post.programs()...)

	for _, slot := range slots {
		old := *slot
		if !old.uses(changed) {
			continue
		}
		p, err := old.rebuild(r.ctx, r.lib)
		if err != nil {
			r.logger.Warn("shader reload failed, keeping previous program",
				zap.String("vertex", old.vertName),
				zap.String("fragment", old.fragName),
				zap.Error(err))
			continue
		}
		old.destroy()
		*slot = p
		r.logger.Info("shader reloaded", zap.String("vertex", p.vertName), zap.String("fragment", p.fragName))
	}
}

// readPixels returns the finished frame as bottom-up RGBA rows.
func (r *Renderer) readPixels() []byte {
	pixels := make([]byte, r.width*r.height*4)
	gl.BindFramebuffer(gl.READ_FRAMEBUFFER, r.screenFBO())
	gl.PixelStorei(gl.PACK_ALIGNMENT, 1)
	gl.ReadPixels(0, 0, int32(r.width), int32(r.height), gl.RGBA, gl.UNSIGNED_BYTE, gl.Ptr(pixels))
	gl.BindFramebuffer(gl.READ_FRAMEBUFFER, 0)
	return pixels
}
