package shader

import (
	"github.com/chewxy/math32"
	"github.com/go-gl/mathgl/mgl32"
)

// GrainTile is the grain texture period in screen pixels.
const GrainTile = 512

// GrainUV returns where quad.frag samples the grain texture for a fragment
// at uv. res is the uResolution uniform (width, height, a1, a2). The aspect
// correction keeps grain texels square on any viewport.
func GrainUV(uv mgl32.Vec2, res [4]float32, t float32) mgl32.Vec2 {
	corrected := mgl32.Vec2{
		(uv.X()-0.5)*res[2] + 0.5,
		(uv.Y()-0.5)*res[3] + 0.5,
	}
	scale := math32.Max(res[0], res[1]) / GrainTile
	return mgl32.Vec2{
		corrected.X()*scale + fract(t*7),
		corrected.Y()*scale + fract(t*13),
	}
}

func fract(x float32) float32 {
	return x - math32.Floor(x)
}
