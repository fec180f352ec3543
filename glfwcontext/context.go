package glfwcontext

import (
	"runtime"

	glfw "github.com/go-gl/glfw/v3.3/glfw"
	"go.uber.org/zap"

	"github.com/richinsley/goglass/options"
)

// Context wraps a GLFW window and forwards its input events to registered
// handlers. Handlers run inside EndFrame, on the thread that owns the window.
type Context struct {
	window *glfw.Window
	logger *zap.Logger
	// A map to store functions to be called on key presses.
	keyCallbacks map[glfw.Key]func()

	onResize      func(width, height int, scale float64)
	onPointerMove func(x, y float64)
}

// New creates a GLFW window with a 4.1 core context. A hidden window is used
// for record mode, where the real render target is offscreen.
func New(opts *options.SceneOptions, visible bool, logger *zap.Logger) (*Context, error) {
	glfw.WindowHint(glfw.ContextVersionMajor, 4)
	glfw.WindowHint(glfw.ContextVersionMinor, 1)
	glfw.WindowHint(glfw.OpenGLProfile, glfw.OpenGLCoreProfile)
	glfw.WindowHint(glfw.OpenGLForwardCompatible, glfw.True)

	if visible {
		glfw.WindowHint(glfw.Resizable, glfw.True)
	} else {
		glfw.WindowHint(glfw.Visible, glfw.False)
	}

	win, err := glfw.CreateWindow(opts.Width, opts.Height, opts.Title, nil, nil)
	if err != nil {
		return nil, err
	}

	c := &Context{
		window:       win,
		logger:       logger,
		keyCallbacks: make(map[glfw.Key]func()),
	}

	win.SetKeyCallback(c.glfwKeyCallback)
	win.SetCursorPosCallback(c.glfwCursorPosCallback)
	win.SetSizeCallback(c.glfwSizeCallback)
	win.SetContentScaleCallback(c.glfwContentScaleCallback)

	return c, nil
}

// RegisterKeyCallback allows the main application to register a function to be
// called when a specific key is pressed.
func (c *Context) RegisterKeyCallback(key glfw.Key, f func()) {
	c.keyCallbacks[key] = f
}

// OnResize registers the handler for surface size changes, in logical units
// plus the content scale.
func (c *Context) OnResize(f func(width, height int, scale float64)) {
	c.onResize = f
}

// OnPointerMove registers the handler for cursor movement in logical units.
func (c *Context) OnPointerMove(f func(x, y float64)) {
	c.onPointerMove = f
}

func (c *Context) glfwKeyCallback(w *glfw.Window, key glfw.Key, scancode int, action glfw.Action, mods glfw.ModifierKey) {
	if key == glfw.KeyEscape && action == glfw.Press {
		w.SetShouldClose(true)
	}

	// Held keys repeat, so the progress knob can be swept.
	if action == glfw.Press || action == glfw.Repeat {
		if callback, ok := c.keyCallbacks[key]; ok {
			callback()
		}
	}
}

func (c *Context) glfwCursorPosCallback(w *glfw.Window, x, y float64) {
	if c.onPointerMove != nil {
		c.onPointerMove(x, y)
	}
}

func (c *Context) glfwSizeCallback(w *glfw.Window, width, height int) {
	c.notifyResize()
}

func (c *Context) glfwContentScaleCallback(w *glfw.Window, x, y float32) {
	c.notifyResize()
}

func (c *Context) notifyResize() {
	if c.onResize == nil {
		return
	}
	width, height := c.GetWindowSize()
	c.onResize(width, height, c.ContentScale())
}

// MakeCurrent makes the context current for the calling goroutine.
func (c *Context) MakeCurrent() {
	c.window.MakeContextCurrent()
}

// Shutdown destroys the window.
func (c *Context) Shutdown() {
	c.window.Destroy()
}

func (c *Context) ShouldClose() bool {
	return c.window.ShouldClose()
}

func (c *Context) EndFrame() {
	c.window.SwapBuffers()
	glfw.PollEvents()
}

func (c *Context) GetFramebufferSize() (int, int) {
	return c.window.GetFramebufferSize()
}

func (c *Context) GetWindowSize() (int, int) {
	return c.window.GetSize()
}

// ContentScale reports the horizontal framebuffer to window ratio, falling
// back to the monitor content scale when the window has no area.
func (c *Context) ContentScale() float64 {
	fbw, _ := c.window.GetFramebufferSize()
	ww, _ := c.window.GetSize()
	if ww > 0 && fbw > 0 {
		return float64(fbw) / float64(ww)
	}
	sx, _ := c.window.GetContentScale()
	return float64(sx)
}

func (c *Context) Time() float64 {
	return glfw.GetTime()
}

// InitGraphics initializes the main graphics subsystem (GLFW). Must be called from the main thread.
func InitGraphics(logger *zap.Logger) error {
	runtime.LockOSThread()
	if err := glfw.Init(); err != nil {
		return err
	}
	logger.Info("GLFW initialized")
	return nil
}

// TerminateGraphics shuts down the graphics subsystem. Must be called from the main thread.
func TerminateGraphics(logger *zap.Logger) {
	glfw.Terminate()
	logger.Info("GLFW terminated")
}
