package pointer

import (
	"github.com/go-gl/mathgl/mgl32"
)

// Smoothing is the fraction of the remaining distance covered per tick.
// It is applied once per frame with no time-delta scaling, so the
// convergence rate follows the display refresh rate.
const Smoothing = 0.1

// State tracks the raw pointer position and its smoothed follower, both in
// normalised surface space where the centre is (0, 0), x grows right and y
// grows up, each within [-0.5, 0.5].
type State struct {
	Raw      mgl32.Vec2
	Smoothed mgl32.Vec2
}

// Move records a pointer event given in surface pixels.
func (s *State) Move(x, y float64, width, height int) {
	if width <= 0 || height <= 0 {
		return
	}
	s.Raw = Normalize(x, y, width, height)
}

// Normalize maps surface pixels to the centred, y-up space used by the scene.
func Normalize(x, y float64, width, height int) mgl32.Vec2 {
	return mgl32.Vec2{
		float32(x/float64(width) - 0.5),
		-float32(y/float64(height) - 0.5),
	}
}

// Step moves Smoothed toward Raw by Smoothing of the remaining gap.
func (s *State) Step() mgl32.Vec2 {
	s.Smoothed = Lerp(s.Smoothed, s.Raw, Smoothing)
	return s.Smoothed
}

// Reset parks both positions at the centre.
func (s *State) Reset() {
	s.Raw = mgl32.Vec2{}
	s.Smoothed = mgl32.Vec2{}
}

// Lerp returns from + (to - from) * t.
func Lerp(from, to mgl32.Vec2, t float32) mgl32.Vec2 {
	return from.Add(to.Sub(from).Mul(t))
}
