package graphics

// Context defines the interface for an OpenGL context and the surface it
// draws to.
type Context interface {
	MakeCurrent()
	Shutdown()
	ShouldClose() bool
	// EndFrame swaps buffers and delivers pending input events.
	EndFrame()
	GetFramebufferSize() (int, int)
	// GetWindowSize is the surface size in logical units, the space pointer
	// events are reported in.
	GetWindowSize() (int, int)
	// ContentScale is the ratio of framebuffer pixels to logical units.
	ContentScale() float64
	Time() float64
}
