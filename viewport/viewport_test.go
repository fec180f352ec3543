package viewport

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestComputeAspectCorrectionPortrait(t *testing.T) {
	sizes := [][2]float64{{400, 800}, {720, 1280}, {1, 3}, {999, 1000}}
	for _, s := range sizes {
		a1, a2 := ComputeAspectCorrection(s[0], s[1], TargetAspect)
		assert.Equal(t, 1.0, a2, "size %v", s)
		assert.InDelta(t, s[0]/s[1], a1, 1e-12, "size %v", s)
	}
}

func TestComputeAspectCorrectionLandscape(t *testing.T) {
	sizes := [][2]float64{{800, 400}, {1280, 720}, {500, 500}, {3, 1}}
	for _, s := range sizes {
		a1, a2 := ComputeAspectCorrection(s[0], s[1], TargetAspect)
		assert.Equal(t, 1.0, a1, "size %v", s)
		assert.InDelta(t, s[1]/s[0], a2, 1e-12, "size %v", s)
	}
}

func TestCorrectionHoldsAfterEveryResize(t *testing.T) {
	v := New(1280, 720, 1)
	for _, s := range [][2]int{{300, 900}, {1920, 1080}, {640, 640}, {1000, 1001}} {
		assert.True(t, v.Resize(s[0], s[1], 1))
		c := v.Correction()
		w, h := float32(s[0]), float32(s[1])
		if h/w > TargetAspect {
			assert.Equal(t, float32(1), c.A2)
			assert.InDelta(t, w/h, c.A1, 1e-6)
		} else {
			assert.Equal(t, float32(1), c.A1)
			assert.InDelta(t, h/w, c.A2, 1e-6)
		}
	}
}

func TestResizeIgnoresDegenerate(t *testing.T) {
	v := New(800, 600, 1)
	assert.False(t, v.Resize(0, 600, 1))
	assert.False(t, v.Resize(800, 0, 1))
	assert.Equal(t, 800, v.Width)
	assert.Equal(t, 600, v.Height)
}

func TestPixelRatioCap(t *testing.T) {
	assert.Equal(t, 2.0, ClampPixelRatio(3))
	assert.Equal(t, 1.5, ClampPixelRatio(1.5))
	assert.Equal(t, 1.0, ClampPixelRatio(0))

	v := New(100, 50, 4)
	w, h := v.FramebufferSize()
	assert.Equal(t, 200, w)
	assert.Equal(t, 100, h)
}

func TestResolution(t *testing.T) {
	v := New(1000, 500, 1)
	assert.Equal(t, [4]float32{1000, 500, 1, 0.5}, v.Resolution())
	assert.Equal(t, float32(2), v.Aspect())
}
