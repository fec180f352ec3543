package shader

import (
	"fmt"

	"github.com/chewxy/math32"
	"github.com/go-gl/mathgl/mgl32"
)

// RGBShiftAmount scales the per-channel uv offset.
const RGBShiftAmount = 0.01

// Channel indexes into ChannelWeights.
const (
	Red = iota
	Green
	Blue
)

// ChannelWeights multiply the x and y offsets of each colour channel.
var ChannelWeights = [3][2]float32{
	Red:   {1, 3},
	Green: {2, 2},
	Blue:  {3, 1},
}

// ShiftedUV returns the coordinate channel c is sampled at for a fragment at
// uv. It mirrors the post fragment shader.
func ShiftedUV(uv mgl32.Vec2, c int) mgl32.Vec2 {
	w := ChannelWeights[c]
	return mgl32.Vec2{
		uv.X() + math32.Sin(uv.X()-0.5)*RGBShiftAmount*w[0],
		uv.Y() + math32.Sin(uv.Y()-0.5)*RGBShiftAmount*w[1],
	}
}

// RGBShift evaluates the post effect for a single fragment against sample.
func RGBShift(sample func(uv mgl32.Vec2) mgl32.Vec4, uv mgl32.Vec2) mgl32.Vec4 {
	return mgl32.Vec4{
		sample(ShiftedUV(uv, Red)).X(),
		sample(ShiftedUV(uv, Green)).Y(),
		sample(ShiftedUV(uv, Blue)).Z(),
		1,
	}
}

// RGBShiftFragmentSource renders the post fragment shader from the constants
// above. The dot-screen uniforms (tSize, center, angle, scale) and time and
// progress are declared for interface compatibility; only tDiffuse is read.
func RGBShiftFragmentSource() string {
	r, g, b := ChannelWeights[Red], ChannelWeights[Green], ChannelWeights[Blue]
	return fmt.Sprintf(`#version 300 es
precision highp float;

uniform vec2 center;
uniform float angle;
uniform float scale;
uniform vec2 tSize;
uniform float time;
uniform float progress;

uniform sampler2D tDiffuse;

in vec2 vUv;
out vec4 fragColor;

float pattern() {
    float s = sin(angle), c = cos(angle);
    vec2 tex = vUv * tSize - center;
    vec2 point = vec2(c * tex.x - s * tex.y, s * tex.x + c * tex.y) * scale;
    return (sin(point.x) * sin(point.y)) * 4.0;
}

void main() {
    float rgbShift = %s;
    vec2 uv = vUv;

    vec2 r_uv = vec2(uv.x + sin(uv.x - 0.5) * rgbShift * %s, uv.y + sin(uv.y - 0.5) * rgbShift * %s);
    vec2 g_uv = vec2(uv.x + sin(uv.x - 0.5) * rgbShift * %s, uv.y + sin(uv.y - 0.5) * rgbShift * %s);
    vec2 b_uv = vec2(uv.x + sin(uv.x - 0.5) * rgbShift * %s, uv.y + sin(uv.y - 0.5) * rgbShift * %s);

    float r = texture(tDiffuse, r_uv).r;
    float g = texture(tDiffuse, g_uv).g;
    float b = texture(tDiffuse, b_uv).b;

    fragColor = vec4(r, g, b, 1.0);
}
`,
		glslFloat(RGBShiftAmount),
		glslFloat(r[0]), glslFloat(r[1]),
		glslFloat(g[0]), glslFloat(g[1]),
		glslFloat(b[0]), glslFloat(b[1]),
	)
}

// glslFloat formats f so GLSL parses it as a float literal.
func glslFloat(f float32) string {
	s := fmt.Sprintf("%g", f)
	for _, ch := range s {
		if ch == '.' || ch == 'e' {
			return s
		}
	}
	return s + ".0"
}
