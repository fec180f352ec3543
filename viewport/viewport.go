// Package viewport holds the drawable surface dimensions and the aspect
// correction factors derived from them.
package viewport

import "math"

const (
	// TargetAspect is the aspect ratio of the source imagery the shaders
	// letterbox against.
	TargetAspect = 1.0

	// MaxPixelRatio caps the device pixel density used for render targets.
	MaxPixelRatio = 2.0
)

// Viewport describes the drawable surface in logical (window) units plus the
// pixel density used to size GPU targets.
type Viewport struct {
	Width      int
	Height     int
	PixelRatio float64
}

// Correction is the (a1, a2) pair fed to shaders as resolution.zw.
type Correction struct {
	A1 float32
	A2 float32
}

// New returns a viewport with the pixel ratio clamped to (0, MaxPixelRatio].
func New(width, height int, pixelRatio float64) Viewport {
	return Viewport{
		Width:      width,
		Height:     height,
		PixelRatio: ClampPixelRatio(pixelRatio),
	}
}

// ClampPixelRatio caps the ratio at MaxPixelRatio. Non-positive values map to 1.
func ClampPixelRatio(ratio float64) float64 {
	if ratio <= 0 || math.IsNaN(ratio) {
		return 1
	}
	return math.Min(ratio, MaxPixelRatio)
}

// ComputeAspectCorrection picks a1 and a2 so that the axis with the larger
// ratio against targetAspect is pinned to 1 and the other is scaled.
func ComputeAspectCorrection(width, height, targetAspect float64) (a1, a2 float64) {
	if height/width > targetAspect {
		return (width / height) * targetAspect, 1
	}
	return 1, (height / width) * targetAspect
}

// Degenerate reports whether the viewport has no area.
func (v Viewport) Degenerate() bool {
	return v.Width <= 0 || v.Height <= 0
}

// Aspect is width/height, or 1 for a degenerate viewport.
func (v Viewport) Aspect() float32 {
	if v.Degenerate() {
		return 1
	}
	return float32(v.Width) / float32(v.Height)
}

// Correction returns the aspect correction factors for the current size.
func (v Viewport) Correction() Correction {
	if v.Degenerate() {
		return Correction{A1: 1, A2: 1}
	}
	a1, a2 := ComputeAspectCorrection(float64(v.Width), float64(v.Height), TargetAspect)
	return Correction{A1: float32(a1), A2: float32(a2)}
}

// Resolution packs (width, height, a1, a2) for the uResolution uniform.
func (v Viewport) Resolution() [4]float32 {
	c := v.Correction()
	return [4]float32{float32(v.Width), float32(v.Height), c.A1, c.A2}
}

// FramebufferSize is the size in device pixels that offscreen targets use.
func (v Viewport) FramebufferSize() (int, int) {
	w := int(math.Round(float64(v.Width) * v.PixelRatio))
	h := int(math.Round(float64(v.Height) * v.PixelRatio))
	return max(w, 1), max(h, 1)
}

// Resize applies a new logical size. Zero-area sizes are ignored and Resize
// returns false; the previous dimensions stay in effect.
func (v *Viewport) Resize(width, height int, pixelRatio float64) bool {
	if width <= 0 || height <= 0 {
		return false
	}
	v.Width = width
	v.Height = height
	v.PixelRatio = ClampPixelRatio(pixelRatio)
	return true
}
