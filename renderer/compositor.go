package renderer

import (
	"context"
	"fmt"
	"image/color"

	"github.com/go-gl/gl/v4.1-core/gl"

	"github.com/richinsley/goglass/frame"
	"github.com/richinsley/goglass/inputs"
	"github.com/richinsley/goglass/mesh"
	"github.com/richinsley/goglass/shader"
)

const quadSize = 1.5

var quadUniforms = []string{"projectionMatrix", "viewMatrix", "modelMatrix", "uTime", "uResolution", "uTexture", "uGrainTexture"}

// compositor draws the pointer-displaced quad that shows the model scene,
// with grain, through the orthographic camera.
type compositor struct {
	program *program
	quad    *gpuMesh
	grain   *inputs.ImageTexture
}

func newCompositor(ctx context.Context, lib *shader.Library) (*compositor, error) {
	c := &compositor{}
	var err error

	c.program, err = buildProgram(ctx, lib, shader.ModelVertex, shader.QuadFragment, quadUniforms...)
	if err != nil {
		return nil, err
	}
	c.quad, err = newGPUMesh(mesh.NewPlane(quadSize, quadSize, 1, 1))
	if err != nil {
		c.destroy()
		return nil, fmt.Errorf("failed to upload compositor quad: %w", err)
	}
	c.grain = inputs.NewSolidTexture(color.Gray{Y: 128})
	return c, nil
}

// render draws into framebuffer fbo. source is sampled as uTexture and is
// rebound on every call.
func (c *compositor) render(s *frame.State, source inputs.Texture, fbo uint32, width, height int) {
	gl.BindFramebuffer(gl.FRAMEBUFFER, fbo)
	gl.Viewport(0, 0, int32(width), int32(height))
	gl.ClearColor(0, 0, 0, 1)
	gl.Clear(gl.COLOR_BUFFER_BIT | gl.DEPTH_BUFFER_BIT)

	c.program.use()
	c.program.setMat4("projectionMatrix", s.FinalCamera.Projection())
	c.program.setMat4("viewMatrix", s.FinalCamera.View())
	c.program.setMat4("modelMatrix", s.Quad.Matrix())
	c.program.setFloat("uTime", s.Uniforms.Time)
	c.program.setVec4("uResolution", s.Uniforms.Resolution)
	c.program.bindTexture("uTexture", 0, source.GetTextureID())
	c.program.bindTexture("uGrainTexture", 1, c.grain.GetTextureID())
	c.quad.draw()
	unbindTextures(2)
}

func (c *compositor) programs() []**program {
	return []**program{&c.program}
}

func (c *compositor) destroy() {
	if c.program != nil {
		c.program.destroy()
	}
	if c.quad != nil {
		c.quad.destroy()
	}
	if c.grain != nil {
		c.grain.Destroy()
	}
}
