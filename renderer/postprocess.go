package renderer

import (
	"context"
	"fmt"

	"github.com/go-gl/gl/v4.1-core/gl"
	"github.com/go-gl/mathgl/mgl32"

	"github.com/richinsley/goglass/frame"
	"github.com/richinsley/goglass/inputs"
	"github.com/richinsley/goglass/shader"
)

var postUniforms = []string{"tDiffuse", "tSize", "center", "angle", "scale", "time", "progress"}

// Values for the declared dot-screen uniforms. The RGB shift does not read
// them.
var (
	postTextureSize = mgl32.Vec2{256, 256}
	postCenter      = mgl32.Vec2{0.5, 0.5}
)

const (
	postAngle = 1.57
	postScale = 1.0
)

// postProcess copies the composited frame into its own texture and draws it
// back through the RGB shift shader.
type postProcess struct {
	program *program
	vao     uint32
	vbo     uint32
	source  *inputs.RenderTarget
}

func newPostProcess(ctx context.Context, lib *shader.Library, width, height int) (*postProcess, error) {
	p := &postProcess{}
	var err error

	p.program, err = buildProgram(ctx, lib, shader.PostVertex, shader.PostFragment, postUniforms...)
	if err != nil {
		return nil, err
	}
	p.source, err = inputs.NewRenderTarget(width, height)
	if err != nil {
		p.destroy()
		return nil, fmt.Errorf("failed to create post source target: %w", err)
	}
	p.vao, p.vbo = newFullscreenQuad()
	return p, nil
}

// render runs the pass in place on framebuffer fbo.
func (p *postProcess) render(s *frame.State, fbo uint32, width, height int) {
	p.source.Resize(width, height)
	p.source.CaptureFrom(fbo)

	gl.BindFramebuffer(gl.FRAMEBUFFER, fbo)
	gl.Viewport(0, 0, int32(width), int32(height))

	p.program.use()
	p.program.bindTexture("tDiffuse", 0, p.source.GetTextureID())
	p.program.setVec2("tSize", postTextureSize)
	p.program.setVec2("center", postCenter)
	p.program.setFloat("angle", postAngle)
	p.program.setFloat("scale", postScale)
	p.program.setFloat("time", s.Uniforms.Time)
	p.program.setFloat("progress", s.Uniforms.Progress)

	gl.BindVertexArray(p.vao)
	gl.DrawArrays(gl.TRIANGLES, 0, 6)
	gl.BindVertexArray(0)
	unbindTextures(1)
}

func (p *postProcess) programs() []**program {
	return []**program{&p.program}
}

func (p *postProcess) destroy() {
	if p.program != nil {
		p.program.destroy()
	}
	if p.source != nil {
		p.source.Destroy()
	}
	if p.vao != 0 {
		gl.DeleteVertexArrays(1, &p.vao)
		gl.DeleteBuffers(1, &p.vbo)
	}
}
