package renderer

import (
	"context"
	"fmt"
	"strings"

	"github.com/go-gl/gl/v4.1-core/gl"
	"github.com/go-gl/mathgl/mgl32"
	gst "github.com/richinsley/goshadertranslator"

	"github.com/richinsley/goglass/shader"
	xlate "github.com/richinsley/goglass/translator"
)

// program is a linked shader program plus the locations of the uniforms it
// was asked to resolve. Missing uniforms resolve to -1.
type program struct {
	id         uint32
	vertName   string
	fragName   string
	uniforms   []string
	uniformLoc map[string]int32
}

// buildProgram reads both stages from lib, translates them from WebGL2 and
// links them. uniforms lists the names whose locations are resolved.
func buildProgram(ctx context.Context, lib *shader.Library, vertName, fragName string, uniforms ...string) (*program, error) {
	vsSource, err := lib.Source(vertName)
	if err != nil {
		return nil, err
	}
	fsSource, err := lib.Source(fragName)
	if err != nil {
		return nil, err
	}

	vsCode, vsVars, err := xlate.Translate(ctx, vsSource, xlate.Vertex)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", vertName, err)
	}
	fsCode, fsVars, err := xlate.Translate(ctx, fsSource, xlate.Fragment)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", fragName, err)
	}

	id, err := newProgram(vsCode, fsCode)
	if err != nil {
		return nil, fmt.Errorf("failed to create shader program %s+%s: %w", vertName, fragName, err)
	}

	p := &program{
		id:         id,
		vertName:   vertName,
		fragName:   fragName,
		uniforms:   uniforms,
		uniformLoc: make(map[string]int32, len(uniforms)),
	}
	for _, name := range uniforms {
		loc := getUniformLocation(fsVars, id, name)
		if loc < 0 {
			loc = getUniformLocation(vsVars, id, name)
		}
		p.uniformLoc[name] = loc
	}
	return p, nil
}

// getUniformLocation looks name up through the translator's variable map,
// since the translated source may rename it.
func getUniformLocation(uniformMap map[string]gst.ShaderVariable, prog uint32, name string) int32 {
	if v, ok := uniformMap[name]; ok {
		return gl.GetUniformLocation(prog, gl.Str(v.MappedName+"\x00"))
	}
	return -1
}

// rebuild compiles a fresh program from the current sources. The receiver
// is left untouched.
func (p *program) rebuild(ctx context.Context, lib *shader.Library) (*program, error) {
	return buildProgram(ctx, lib, p.vertName, p.fragName, p.uniforms...)
}

// uses reports whether the program is built from any of the named sources.
func (p *program) uses(names []string) bool {
	for _, n := range names {
		if n == p.vertName || n == p.fragName {
			return true
		}
	}
	return false
}

func (p *program) use() {
	gl.UseProgram(p.id)
}

func (p *program) loc(name string) int32 {
	if l, ok := p.uniformLoc[name]; ok {
		return l
	}
	return -1
}

func (p *program) setFloat(name string, v float32) {
	if l := p.loc(name); l != -1 {
		gl.Uniform1f(l, v)
	}
}

func (p *program) setVec2(name string, v mgl32.Vec2) {
	if l := p.loc(name); l != -1 {
		gl.Uniform2f(l, v[0], v[1])
	}
}

func (p *program) setVec3(name string, v mgl32.Vec3) {
	if l := p.loc(name); l != -1 {
		gl.Uniform3f(l, v[0], v[1], v[2])
	}
}

func (p *program) setVec4(name string, v [4]float32) {
	if l := p.loc(name); l != -1 {
		gl.Uniform4f(l, v[0], v[1], v[2], v[3])
	}
}

func (p *program) setMat4(name string, m mgl32.Mat4) {
	if l := p.loc(name); l != -1 {
		gl.UniformMatrix4fv(l, 1, false, &m[0])
	}
}

// bindTexture binds tex to unit and points the sampler uniform at it.
func (p *program) bindTexture(name string, unit uint32, tex uint32) {
	l := p.loc(name)
	if l == -1 {
		return
	}
	gl.ActiveTexture(gl.TEXTURE0 + unit)
	gl.BindTexture(gl.TEXTURE_2D, tex)
	gl.Uniform1i(l, int32(unit))
}

func (p *program) destroy() {
	gl.DeleteProgram(p.id)
}

func unbindTextures(units int) {
	for i := 0; i < units; i++ {
		gl.ActiveTexture(gl.TEXTURE0 + uint32(i))
		gl.BindTexture(gl.TEXTURE_2D, 0)
	}
	gl.ActiveTexture(gl.TEXTURE0)
}

func newProgram(vertexShaderSource, fragmentShaderSource string) (uint32, error) {
	vertexShader, err := compileShader(vertexShaderSource, gl.VERTEX_SHADER)
	if err != nil {
		return 0, err
	}
	fragmentShader, err := compileShader(fragmentShaderSource, gl.FRAGMENT_SHADER)
	if err != nil {
		gl.DeleteShader(vertexShader)
		return 0, err
	}

	program := gl.CreateProgram()
	gl.AttachShader(program, vertexShader)
	gl.AttachShader(program, fragmentShader)
	gl.LinkProgram(program)

	gl.DeleteShader(vertexShader)
	gl.DeleteShader(fragmentShader)

	var status int32
	gl.GetProgramiv(program, gl.LINK_STATUS, &status)
	if status == gl.FALSE {
		var logLength int32
		gl.GetProgramiv(program, gl.INFO_LOG_LENGTH, &logLength)
		log := strings.Repeat("\x00", int(logLength+1))
		gl.GetProgramInfoLog(program, logLength, nil, gl.Str(log))
		gl.DeleteProgram(program)
		return 0, fmt.Errorf("failed to link program: %v", log)
	}

	return program, nil
}

func compileShader(source string, shaderType uint32) (uint32, error) {
	shader := gl.CreateShader(shaderType)
	csources, free := gl.Strs(source + "\x00")
	gl.ShaderSource(shader, 1, csources, nil)
	free()
	gl.CompileShader(shader)

	var status int32
	gl.GetShaderiv(shader, gl.COMPILE_STATUS, &status)
	if status == gl.FALSE {
		var logLength int32
		gl.GetShaderiv(shader, gl.INFO_LOG_LENGTH, &logLength)
		logText := strings.Repeat("\x00", int(logLength+1))
		gl.GetShaderInfoLog(shader, logLength, nil, gl.Str(logText))
		gl.DeleteShader(shader)
		return 0, fmt.Errorf("failed to compile shader: %v", logText)
	}
	return shader, nil
}
