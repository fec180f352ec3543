// Package camera provides the two projections used by the demo: a
// perspective camera for the model scene and an orthographic one for the
// compositor scene.
package camera

import (
	"github.com/go-gl/mathgl/mgl32"
)

// Camera is anything that can hand the renderer a projection and view matrix.
type Camera interface {
	Projection() mgl32.Mat4
	View() mgl32.Mat4
	SetAspect(aspect float32)
}

// Perspective is a symmetric perspective camera looking down -Z.
type Perspective struct {
	FovY     float32 // degrees
	Aspect   float32
	Near     float32
	Far      float32
	Position mgl32.Vec3
}

// NewPerspective returns the model scene camera: 75° fov, 0.1 to 1000,
// positioned two units in front of the origin.
func NewPerspective(aspect float32) *Perspective {
	return &Perspective{
		FovY:     75,
		Aspect:   aspect,
		Near:     0.1,
		Far:      1000,
		Position: mgl32.Vec3{0, 0, 2},
	}
}

func (c *Perspective) Projection() mgl32.Mat4 {
	return mgl32.Perspective(mgl32.DegToRad(c.FovY), c.Aspect, c.Near, c.Far)
}

func (c *Perspective) View() mgl32.Mat4 {
	return mgl32.Translate3D(-c.Position.X(), -c.Position.Y(), -c.Position.Z())
}

func (c *Perspective) SetAspect(aspect float32) {
	c.Aspect = aspect
}

// Orthographic spans ±Aspect horizontally and ±1 vertically.
type Orthographic struct {
	Aspect float32
	Near   float32
	Far    float32
}

// NewOrthographic returns the compositor camera with a ±100 depth range.
func NewOrthographic(aspect float32) *Orthographic {
	return &Orthographic{Aspect: aspect, Near: -100, Far: 100}
}

// Bounds returns left, right, bottom, top.
func (c *Orthographic) Bounds() (left, right, bottom, top float32) {
	return -c.Aspect, c.Aspect, -1, 1
}

func (c *Orthographic) Projection() mgl32.Mat4 {
	l, r, b, t := c.Bounds()
	return mgl32.Ortho(l, r, b, t, c.Near, c.Far)
}

func (c *Orthographic) View() mgl32.Mat4 {
	return mgl32.Ident4()
}

func (c *Orthographic) SetAspect(aspect float32) {
	c.Aspect = aspect
}

// ViewProjection is Projection * View.
func ViewProjection(c Camera) mgl32.Mat4 {
	return c.Projection().Mul4(c.View())
}
