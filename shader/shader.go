package shader

import (
	"fmt"
	"os"
	"path/filepath"

	"go.uber.org/zap"
)

// Source names. With an override directory configured, a file with the same
// name in that directory replaces the built-in source.
const (
	ModelVertex   = "model.vert"
	ModelFragment = "model.frag"
	BasicFragment = "basic.frag"
	QuadFragment  = "quad.frag"
	PostVertex    = "post.vert"
	PostFragment  = "post.frag"
)

// All sources are written against WebGL2 (GLSL ES 3.00) and run through the
// shader translator before they reach the desktop driver.

// ────────────────────────────────── Scene ──────────────────────────────────

const modelVertexSource = `#version 300 es
precision highp float;

layout (location = 0) in vec3 position;
layout (location = 1) in vec2 uv;

uniform mat4 projectionMatrix;
uniform mat4 viewMatrix;
uniform mat4 modelMatrix;

out vec2 vUv;

void main() {
    vUv = uv;
    gl_Position = projectionMatrix * viewMatrix * modelMatrix * vec4(position, 1.0);
}
`

// Samples the albedo with resolution.zw letterboxing around the centre.
const modelFragmentSource = `#version 300 es
precision highp float;

uniform float uTime;
uniform vec4 uResolution;
uniform sampler2D uTexture;

in vec2 vUv;
out vec4 fragColor;

void main() {
    vec2 newUV = (vUv - vec2(0.5)) * uResolution.zw + vec2(0.5);
    vec4 color = texture(uTexture, newUV);
    fragColor = vec4(color.rgb, 1.0);
}
`

const basicFragmentSource = `#version 300 es
precision mediump float;

uniform vec3 uColor;

in vec2 vUv;
out vec4 fragColor;

void main() {
    fragColor = vec4(uColor, 1.0);
}
`

// ──────────────────────────────── Compositor ───────────────────────────────

// Shows the offscreen target with animated film grain on top. GrainUV
// mirrors the grain lookup.
const quadFragmentSource = `#version 300 es
precision highp float;

uniform float uTime;
uniform vec4 uResolution;
uniform sampler2D uTexture;
uniform sampler2D uGrainTexture;

in vec2 vUv;
out vec4 fragColor;

void main() {
    vec2 corrected = (vUv - vec2(0.5)) * uResolution.zw + vec2(0.5);
    vec2 grainUV = corrected * max(uResolution.x, uResolution.y) / 512.0 + vec2(fract(uTime * 7.0), fract(uTime * 13.0));
    vec4 color = texture(uTexture, vUv);
    vec4 grain = texture(uGrainTexture, grainUV);
    fragColor = vec4(color.rgb + (grain.rgb - 0.5) * 0.08, 1.0);
}
`

// ─────────────────────────────── Post process ──────────────────────────────

const postVertexSource = `#version 300 es
precision highp float;

layout (location = 0) in vec2 position;

out vec2 vUv;

void main() {
    vUv = position * 0.5 + 0.5;
    gl_Position = vec4(position, 0.0, 1.0);
}
`

// ─────────────────────────────────── API ───────────────────────────────────

var builtins = map[string]string{
	ModelVertex:   modelVertexSource,
	ModelFragment: modelFragmentSource,
	BasicFragment: basicFragmentSource,
	QuadFragment:  quadFragmentSource,
	PostVertex:    postVertexSource,
	PostFragment:  RGBShiftFragmentSource(),
}

// Names lists every known source name.
func Names() []string {
	return []string{ModelVertex, ModelFragment, BasicFragment, QuadFragment, PostVertex, PostFragment}
}

// Library resolves shader sources, preferring files from an override
// directory when one is set.
type Library struct {
	dir    string
	logger *zap.Logger
}

// NewLibrary returns a library. An empty dir means built-ins only.
func NewLibrary(dir string, logger *zap.Logger) *Library {
	return &Library{dir: dir, logger: logger}
}

// Dir is the override directory, possibly empty.
func (l *Library) Dir() string {
	return l.dir
}

// Source returns the source for name.
func (l *Library) Source(name string) (string, error) {
	builtin, ok := builtins[name]
	if !ok {
		return "", fmt.Errorf("unknown shader source %q", name)
	}
	if l.dir == "" {
		return builtin, nil
	}

	path := filepath.Join(l.dir, name)
	data, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) {
			return builtin, nil
		}
		return "", fmt.Errorf("failed to read shader override %s: %w", path, err)
	}
	l.logger.Debug("using shader override", zap.String("path", path))
	return string(data), nil
}

// Builtin returns the compiled-in source for name.
func Builtin(name string) (string, bool) {
	s, ok := builtins[name]
	return s, ok
}
