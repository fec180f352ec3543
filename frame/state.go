// Package frame owns the per-frame state of the scene and the driver that
// advances it once per display refresh.
package frame

import (
	"math"

	"github.com/go-gl/mathgl/mgl32"

	"github.com/richinsley/goglass/camera"
	"github.com/richinsley/goglass/inputs"
	"github.com/richinsley/goglass/mesh"
	"github.com/richinsley/goglass/pointer"
	"github.com/richinsley/goglass/viewport"
)

const (
	// QuadFollow scales the smoothed pointer into the compositor quad offset.
	QuadFollow = 0.5
	// ModelOffsetX shifts the model right of centre.
	ModelOffsetX = 0.36
	// ModelScale is the uniform scale applied to the loaded model.
	ModelScale = 0.4
)

// ModelRotation is the fixed Euler rotation applied to the loaded model.
var ModelRotation = mgl32.Vec3{math.Pi * 0.01, math.Pi * 2.2, 0}

// Model is the optional mesh shown in the model scene.
type Model struct {
	Geometry  *mesh.Geometry
	Transform mesh.Transform
}

// State is everything a tick reads and writes. It is only touched from the
// render thread.
type State struct {
	Viewport viewport.Viewport
	Pointer  pointer.State

	ModelCamera *camera.Perspective
	FinalCamera *camera.Orthographic

	// Quad is the compositor quad transform.
	Quad mesh.Transform
	// Model stays nil until the mesh load completes.
	Model *Model

	Uniforms inputs.Uniforms
	Elapsed  float64
	Frame    int64
}

// NewState builds the initial state for vp.
func NewState(vp viewport.Viewport) *State {
	s := &State{
		Viewport:    vp,
		ModelCamera: camera.NewPerspective(vp.Aspect()),
		FinalCamera: camera.NewOrthographic(vp.Aspect()),
		Quad:        mesh.Identity(),
	}
	s.Uniforms.Resolution = vp.Resolution()
	return s
}

// NewModel wraps geometry with the fixed model transform.
func NewModel(g *mesh.Geometry) *Model {
	t := mesh.Identity()
	t.Scale = mgl32.Vec3{ModelScale, ModelScale, ModelScale}
	t.Rotation = ModelRotation
	return &Model{Geometry: g, Transform: t}
}
