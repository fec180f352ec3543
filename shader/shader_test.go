package shader

import (
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/go-gl/mathgl/mgl32"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

func solid(c mgl32.Vec4) func(mgl32.Vec2) mgl32.Vec4 {
	return func(mgl32.Vec2) mgl32.Vec4 { return c }
}

func TestShiftedUVZeroAtCentre(t *testing.T) {
	centre := mgl32.Vec2{0.5, 0.5}
	for _, c := range []int{Red, Green, Blue} {
		assert.Equal(t, centre, ShiftedUV(centre, c))
	}
}

func TestRGBShiftSolidColourAtCentre(t *testing.T) {
	c := mgl32.Vec4{0.2, 0.4, 0.6, 0.5}
	got := RGBShift(solid(c), mgl32.Vec2{0.5, 0.5})
	assert.Equal(t, mgl32.Vec4{0.2, 0.4, 0.6, 1}, got)
}

func TestRGBShiftChannelWeights(t *testing.T) {
	uv := mgl32.Vec2{1, 0}
	sx := float32(0.479425538604203) * RGBShiftAmount // sin(0.5)
	sy := -sx

	r := ShiftedUV(uv, Red)
	assert.InDelta(t, 1+sx*1, r.X(), 1e-6)
	assert.InDelta(t, 0+sy*3, r.Y(), 1e-6)

	g := ShiftedUV(uv, Green)
	assert.InDelta(t, 1+sx*2, g.X(), 1e-6)
	assert.InDelta(t, 0+sy*2, g.Y(), 1e-6)

	b := ShiftedUV(uv, Blue)
	assert.InDelta(t, 1+sx*3, b.X(), 1e-6)
	assert.InDelta(t, 0+sy*1, b.Y(), 1e-6)
}

func TestRGBShiftSamplesEachChannelSeparately(t *testing.T) {
	var seen []mgl32.Vec2
	sample := func(uv mgl32.Vec2) mgl32.Vec4 {
		seen = append(seen, uv)
		return mgl32.Vec4{uv.X(), uv.Y(), uv.X() + uv.Y(), 0}
	}
	uv := mgl32.Vec2{0.9, 0.1}
	out := RGBShift(sample, uv)
	require.Len(t, seen, 3)
	assert.Equal(t, ShiftedUV(uv, Red).X(), out.X())
	assert.Equal(t, ShiftedUV(uv, Green).Y(), out.Y())
	b := ShiftedUV(uv, Blue)
	assert.Equal(t, b.X()+b.Y(), out.Z())
	assert.Equal(t, float32(1), out.W())
}

func TestRGBShiftFragmentSource(t *testing.T) {
	src := RGBShiftFragmentSource()
	assert.True(t, strings.HasPrefix(src, "#version 300 es"))
	assert.Contains(t, src, "float rgbShift = 0.01;")
	assert.Contains(t, src, "rgbShift * 1.0, uv.y + sin(uv.y - 0.5) * rgbShift * 3.0")
	assert.Contains(t, src, "rgbShift * 2.0, uv.y + sin(uv.y - 0.5) * rgbShift * 2.0")
	assert.Contains(t, src, "rgbShift * 3.0, uv.y + sin(uv.y - 0.5) * rgbShift * 1.0")
	for _, u := range []string{"center", "angle", "scale", "tSize", "time", "progress", "tDiffuse"} {
		assert.Contains(t, src, " "+u+";", "uniform %s", u)
	}
}

func TestGrainUVSquareTexels(t *testing.T) {
	tests := map[string]struct {
		w, h   float32
		a1, a2 float32
	}{
		"landscape": {1000, 500, 1, 0.5},
		"portrait":  {500, 1000, 0.5, 1},
		"square":    {800, 800, 1, 1},
	}
	for name, tt := range tests {
		t.Run(name, func(t *testing.T) {
			res := [4]float32{tt.w, tt.h, tt.a1, tt.a2}
			origin := GrainUV(mgl32.Vec2{0.5, 0.5}, res, 0)
			right := GrainUV(mgl32.Vec2{0.5 + 1/tt.w, 0.5}, res, 0)
			up := GrainUV(mgl32.Vec2{0.5, 0.5 + 1/tt.h}, res, 0)

			dx := right.X() - origin.X()
			dy := up.Y() - origin.Y()
			assert.InDelta(t, dx, dy, 1e-6, "one pixel moves the same distance on both axes")
			assert.InDelta(t, 1.0/GrainTile, dx, 1e-6)
		})
	}
}

func TestGrainUVAnimates(t *testing.T) {
	res := [4]float32{1000, 500, 1, 0.5}
	uv := mgl32.Vec2{0.25, 0.75}
	still := GrainUV(uv, res, 0)
	moved := GrainUV(uv, res, 0.1)
	assert.InDelta(t, still.X()+0.7, moved.X(), 1e-5)
	assert.InDelta(t, still.Y()+0.3, moved.Y(), 1e-5)
	assert.Equal(t, still, GrainUV(uv, res, 1), "offsets wrap every second")
}

func TestQuadFragmentAppliesAspectCorrection(t *testing.T) {
	src := builtins[QuadFragment]
	assert.Contains(t, src, "(vUv - vec2(0.5)) * uResolution.zw + vec2(0.5)")
	assert.Contains(t, src, "max(uResolution.x, uResolution.y) / 512.0")
}

func TestGLSLFloat(t *testing.T) {
	assert.Equal(t, "1.0", glslFloat(1))
	assert.Equal(t, "0.01", glslFloat(0.01))
	assert.Equal(t, "1e-07", glslFloat(1e-7))
}

func TestLibraryBuiltins(t *testing.T) {
	lib := NewLibrary("", zap.NewNop())
	for _, name := range Names() {
		src, err := lib.Source(name)
		require.NoError(t, err, name)
		assert.True(t, strings.HasPrefix(src, "#version 300 es"), name)
	}
	_, err := lib.Source("nope.frag")
	assert.Error(t, err)
}

func TestLibraryOverride(t *testing.T) {
	dir := t.TempDir()
	require.NoError(t, os.WriteFile(filepath.Join(dir, QuadFragment), []byte("custom"), 0o644))

	lib := NewLibrary(dir, zap.NewNop())
	src, err := lib.Source(QuadFragment)
	require.NoError(t, err)
	assert.Equal(t, "custom", src)

	builtin, _ := Builtin(ModelFragment)
	src, err = lib.Source(ModelFragment)
	require.NoError(t, err)
	assert.Equal(t, builtin, src)
}

func TestWatcherReportsChanges(t *testing.T) {
	dir := t.TempDir()
	lib := NewLibrary(dir, zap.NewNop())
	w, err := lib.Watch()
	require.NoError(t, err)
	defer w.Close()

	require.NoError(t, os.WriteFile(filepath.Join(dir, "notes.txt"), []byte("x"), 0o644))
	require.NoError(t, os.WriteFile(filepath.Join(dir, PostFragment), []byte("x"), 0o644))

	var got []string
	assert.Eventually(t, func() bool {
		got = append(got, w.Poll()...)
		return len(got) > 0
	}, 2*time.Second, 10*time.Millisecond)
	assert.Equal(t, []string{PostFragment}, got[:1])
	assert.NotContains(t, got, "notes.txt")
}

func TestWatchWithoutDir(t *testing.T) {
	_, err := NewLibrary("", zap.NewNop()).Watch()
	assert.Error(t, err)
}
