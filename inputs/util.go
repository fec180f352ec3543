package inputs

import (
	"github.com/go-gl/gl/v4.1-core/gl"
)

// Sampler describes how an image texture is wrapped, filtered and oriented.
type Sampler struct {
	Wrap   string // "repeat" or "clamp"
	Filter string // "mipmap", "linear" or "nearest"
	// VFlip stores the first image row at the top of uv space.
	VFlip bool
}

// DefaultSampler matches the conventions of browser texture loaders:
// repeat wrap, mipmapped, rows flipped so v=1 is the image top.
func DefaultSampler() Sampler {
	return Sampler{Wrap: "repeat", Filter: "mipmap", VFlip: true}
}

// Helper to convert a wrap name to an OpenGL constant.
func getWrapMode(wrap string) int32 {
	switch wrap {
	case "repeat":
		return gl.REPEAT
	case "clamp":
		return gl.CLAMP_TO_EDGE
	default:
		return gl.REPEAT
	}
}

// Helper to convert a filter name to OpenGL constants.
func getFilterMode(filter string) (minFilter, magFilter int32) {
	switch filter {
	case "mipmap":
		return gl.LINEAR_MIPMAP_LINEAR, gl.LINEAR
	case "linear":
		return gl.LINEAR, gl.LINEAR
	case "nearest":
		return gl.NEAREST, gl.NEAREST
	default:
		return gl.LINEAR, gl.LINEAR
	}
}
