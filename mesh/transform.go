package mesh

import (
	"github.com/go-gl/mathgl/mgl32"
)

// Transform is a position, XYZ-order Euler rotation and scale.
type Transform struct {
	Position mgl32.Vec3
	Rotation mgl32.Vec3
	Scale    mgl32.Vec3
}

// Identity returns a transform with unit scale.
func Identity() Transform {
	return Transform{Scale: mgl32.Vec3{1, 1, 1}}
}

// Matrix composes translation * rotation * scale, rotating X then Y then Z
// in the object's own frame.
func (t Transform) Matrix() mgl32.Mat4 {
	rot := mgl32.HomogRotate3DX(t.Rotation.X()).
		Mul4(mgl32.HomogRotate3DY(t.Rotation.Y())).
		Mul4(mgl32.HomogRotate3DZ(t.Rotation.Z()))
	return mgl32.Translate3D(t.Position.X(), t.Position.Y(), t.Position.Z()).
		Mul4(rot).
		Mul4(mgl32.Scale3D(t.Scale.X(), t.Scale.Y(), t.Scale.Z()))
}
