package pointer

import (
	"math"
	"testing"

	"github.com/go-gl/mathgl/mgl32"
	"github.com/stretchr/testify/assert"
)

func TestNormalize(t *testing.T) {
	assert.Equal(t, mgl32.Vec2{0, 0}, Normalize(400, 300, 800, 600))
	assert.Equal(t, mgl32.Vec2{-0.5, 0.5}, Normalize(0, 0, 800, 600))
	assert.Equal(t, mgl32.Vec2{0.5, -0.5}, Normalize(800, 600, 800, 600))
}

func TestMoveIgnoresDegenerateSurface(t *testing.T) {
	var s State
	s.Move(10, 10, 0, 600)
	assert.Equal(t, mgl32.Vec2{}, s.Raw)
}

func TestSmoothingConvergesGeometrically(t *testing.T) {
	var s State
	s.Raw = mgl32.Vec2{0.4, -0.2}
	e0 := s.Raw.Sub(s.Smoothed)

	prevErr := e0.Len()
	for n := 1; n <= 60; n++ {
		s.Step()
		errN := s.Raw.Sub(s.Smoothed)
		want := float64(e0.Len()) * math.Pow(0.9, float64(n))
		assert.InDelta(t, want, float64(errN.Len()), 1e-5, "tick %d", n)

		// never overshoots: the error keeps the sign of the initial error
		assert.GreaterOrEqual(t, errN.X()*e0.X(), float32(0))
		assert.GreaterOrEqual(t, errN.Y()*e0.Y(), float32(0))
		assert.LessOrEqual(t, errN.Len(), prevErr)
		prevErr = errN.Len()
	}
}

func TestStepMovesLessThanRaw(t *testing.T) {
	var s State
	s.Move(800, 0, 800, 600)
	got := s.Step()
	assert.InDelta(t, 0.05, got.X(), 1e-6)
	assert.InDelta(t, 0.05, got.Y(), 1e-6)
	assert.Less(t, got.Len(), s.Raw.Len())
}

func TestReset(t *testing.T) {
	s := State{Raw: mgl32.Vec2{1, 1}, Smoothed: mgl32.Vec2{0.5, 0.5}}
	s.Reset()
	assert.Equal(t, State{}, s)
}
