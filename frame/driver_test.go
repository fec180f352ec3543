package frame

import (
	"errors"
	"image"
	"testing"

	"github.com/go-gl/mathgl/mgl32"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"github.com/richinsley/goglass/loader"
	"github.com/richinsley/goglass/mesh"
	"github.com/richinsley/goglass/viewport"
)

type recordingStages struct {
	calls        []string
	targetFrame  int64
	sampledStale bool
	resizes      []viewport.Viewport
	models       []*Model
	textures     map[loader.Kind]image.Image
	attachErr    error
	modelSeen    []bool
}

func newRecordingStages() *recordingStages {
	return &recordingStages{targetFrame: -1, textures: map[loader.Kind]image.Image{}}
}

func (r *recordingStages) Resize(s *State) {
	r.calls = append(r.calls, "resize")
	r.resizes = append(r.resizes, s.Viewport)
}

func (r *recordingStages) AttachModel(m *Model) error {
	r.calls = append(r.calls, "attach")
	if r.attachErr != nil {
		return r.attachErr
	}
	r.models = append(r.models, m)
	return nil
}

func (r *recordingStages) SetTexture(kind loader.Kind, img image.Image) {
	r.calls = append(r.calls, "texture:"+kind.String())
	r.textures[kind] = img
}

func (r *recordingStages) RenderModelScene(s *State) {
	r.calls = append(r.calls, "model")
	r.targetFrame = s.Frame
	r.modelSeen = append(r.modelSeen, s.Model != nil)
}

func (r *recordingStages) RenderCompositor(s *State) {
	r.calls = append(r.calls, "compositor")
	if r.targetFrame != s.Frame {
		r.sampledStale = true
	}
}

func (r *recordingStages) RenderPostProcess(s *State) {
	r.calls = append(r.calls, "post")
}

type queuedAssets struct {
	batches [][]loader.Result
}

func (q *queuedAssets) Poll() []loader.Result {
	if len(q.batches) == 0 {
		return nil
	}
	b := q.batches[0]
	q.batches = q.batches[1:]
	return b
}

type fakeHost struct {
	now    float64
	step   float64
	frames int
	limit  int
}

func (h *fakeHost) ShouldClose() bool { return h.frames >= h.limit }
func (h *fakeHost) EndFrame()         { h.frames++; h.now += h.step }
func (h *fakeHost) Time() float64     { return h.now }

func triangle() *mesh.Geometry {
	return &mesh.Geometry{
		Positions: []float32{0, 0, 0, 1, 0, 0, 0, 1, 0},
		UVs:       []float32{0.3, 0.3, 0.6, 0.6, 0.9, 0.9},
		Indices:   []uint32{0, 1, 2},
	}
}

func newTestDriver(assets Assets) (*Driver, *recordingStages) {
	stages := newRecordingStages()
	state := NewState(viewport.New(800, 600, 1))
	return NewDriver(state, stages, assets, zap.NewNop()), stages
}

func TestTickRendersStagesInOrder(t *testing.T) {
	d, stages := newTestDriver(nil)

	d.Tick(0)
	d.Tick(1.0 / 60)

	assert.Equal(t, []string{
		"model", "compositor", "post",
		"model", "compositor", "post",
	}, stages.calls)
	assert.False(t, stages.sampledStale)
	assert.Equal(t, int64(2), d.State().Frame)
}

func TestTickWithoutModel(t *testing.T) {
	d, stages := newTestDriver(&queuedAssets{})

	require.NotPanics(t, func() {
		for i := 0; i < 3; i++ {
			d.Tick(float64(i))
		}
	})
	assert.Nil(t, d.State().Model)
	assert.Equal(t, []bool{false, false, false}, stages.modelSeen)
}

func TestElapsedIsRelativeToReset(t *testing.T) {
	d, _ := newTestDriver(nil)
	d.Reset(10)

	d.Tick(12.5)

	assert.InDelta(t, 2.5, d.State().Elapsed, 1e-9)
	assert.InDelta(t, 2.5, d.State().Uniforms.Time, 1e-6)
}

func TestModelAttachRemapsUVs(t *testing.T) {
	g := triangle()
	assets := &queuedAssets{batches: [][]loader.Result{
		nil,
		{{Kind: loader.KindModel, Path: "cat.glb", Geometry: g}},
	}}
	d, stages := newTestDriver(assets)

	d.Tick(0)
	assert.Nil(t, d.State().Model)

	d.Tick(1)
	m := d.State().Model
	require.NotNil(t, m)
	require.Len(t, stages.models, 1)
	assert.Same(t, m, stages.models[0])
	assert.Equal(t, []float32{0, 0, 1, 0, 0, 0}, m.Geometry.UVs)
	assert.Equal(t, mgl32.Vec3{ModelScale, ModelScale, ModelScale}, m.Transform.Scale)
	assert.Equal(t, ModelRotation, m.Transform.Rotation)
	assert.Equal(t, []bool{false, true}, stages.modelSeen)

	// attach happens before any drawing in the same tick
	assert.Equal(t, []string{"model", "compositor", "post", "attach", "model", "compositor", "post"}, stages.calls)
}

func TestFailedAttachLeavesModelEmpty(t *testing.T) {
	assets := &queuedAssets{batches: [][]loader.Result{
		{{Kind: loader.KindModel, Path: "cat.glb", Geometry: triangle()}},
	}}
	d, stages := newTestDriver(assets)
	stages.attachErr = errors.New("upload failed")

	d.Tick(0)

	assert.Nil(t, d.State().Model)
}

func TestTexturesAndFailedAssets(t *testing.T) {
	albedo := image.NewRGBA(image.Rect(0, 0, 2, 2))
	assets := &queuedAssets{batches: [][]loader.Result{{
		{Kind: loader.KindAlbedo, Path: "model.webp", Image: albedo},
		{Kind: loader.KindGrain, Path: "grain.jpg", Err: errors.New("missing")},
	}}}
	d, stages := newTestDriver(assets)

	d.Tick(0)

	assert.Same(t, albedo, stages.textures[loader.KindAlbedo])
	_, ok := stages.textures[loader.KindGrain]
	assert.False(t, ok)
	assert.Equal(t, []string{"texture:albedo", "model", "compositor", "post"}, stages.calls)
}

func TestQuadAndModelFollowPointer(t *testing.T) {
	assets := &queuedAssets{batches: [][]loader.Result{
		{{Kind: loader.KindModel, Path: "cat.glb", Geometry: triangle()}},
	}}
	d, _ := newTestDriver(assets)

	// top-left corner of an 800x600 surface
	d.HandlePointerMove(0, 0)
	d.Tick(0)

	s := d.State()
	assert.Equal(t, mgl32.Vec2{-0.5, 0.5}, s.Pointer.Raw)
	smoothed := s.Pointer.Smoothed
	assert.InDelta(t, -0.05, smoothed.X(), 1e-6)
	assert.InDelta(t, 0.05, smoothed.Y(), 1e-6)

	assert.InDelta(t, smoothed.X()*QuadFollow, s.Quad.Position.X(), 1e-6)
	assert.InDelta(t, smoothed.Y()*QuadFollow, s.Quad.Position.Y(), 1e-6)
	assert.InDelta(t, -smoothed.X()+ModelOffsetX, s.Model.Transform.Position.X(), 1e-6)
	assert.InDelta(t, -smoothed.Y(), s.Model.Transform.Position.Y(), 1e-6)
}

func TestPointerWithoutMovementStaysCentred(t *testing.T) {
	d, _ := newTestDriver(nil)

	for i := 0; i < 10; i++ {
		d.Tick(float64(i))
	}

	assert.Equal(t, mgl32.Vec3{}, d.State().Quad.Position)
}

func TestHandleResize(t *testing.T) {
	d, stages := newTestDriver(nil)

	d.HandleResize(1000, 500, 3)

	s := d.State()
	require.Len(t, stages.resizes, 1)
	assert.Equal(t, 1000, s.Viewport.Width)
	assert.Equal(t, 500, s.Viewport.Height)
	assert.Equal(t, 2.0, s.Viewport.PixelRatio)
	assert.InDelta(t, 2.0, s.ModelCamera.Aspect, 1e-6)
	assert.InDelta(t, 2.0, s.FinalCamera.Aspect, 1e-6)
	assert.Equal(t, [4]float32{1000, 500, 1, 0.5}, s.Uniforms.Resolution)
}

func TestDegenerateResizeIgnored(t *testing.T) {
	d, stages := newTestDriver(nil)

	d.HandleResize(0, 600, 1)
	d.HandleResize(800, 0, 1)

	assert.Empty(t, stages.resizes)
	assert.Equal(t, 800, d.State().Viewport.Width)
	assert.Equal(t, 600, d.State().Viewport.Height)
	assert.NotPanics(t, func() { d.Tick(0) })
}

func TestOnTickHooksRunBeforeDrawing(t *testing.T) {
	d, stages := newTestDriver(nil)
	d.OnTick(func() { stages.calls = append(stages.calls, "hook") })

	d.Tick(0)

	assert.Equal(t, []string{"hook", "model", "compositor", "post"}, stages.calls)
}

func TestSetProgress(t *testing.T) {
	d, _ := newTestDriver(nil)
	d.SetProgress(0.3)
	assert.InDelta(t, 0.3, d.State().Uniforms.Progress, 1e-6)
}

func TestRunTicksUntilClose(t *testing.T) {
	d, stages := newTestDriver(nil)
	host := &fakeHost{now: 5, step: 0.5, limit: 4}

	d.Run(host)

	assert.Equal(t, 4, host.frames)
	assert.Equal(t, int64(4), d.State().Frame)
	assert.Len(t, stages.calls, 12)
	assert.InDelta(t, 1.5, d.State().Elapsed, 1e-9)
}
