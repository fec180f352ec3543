package renderer

import (
	"context"
	"fmt"
	"image/color"

	"github.com/go-gl/gl/v4.1-core/gl"
	"github.com/go-gl/mathgl/mgl32"

	"github.com/richinsley/goglass/frame"
	"github.com/richinsley/goglass/inputs"
	"github.com/richinsley/goglass/mesh"
	"github.com/richinsley/goglass/shader"
)

const (
	backgroundSize = 100
	backgroundZ    = -2
)

var (
	basicUniforms    = []string{"projectionMatrix", "viewMatrix", "modelMatrix", "uColor"}
	materialUniforms = []string{"projectionMatrix", "viewMatrix", "modelMatrix", "uTime", "uResolution", "uTexture"}

	backgroundColor = mgl32.Vec3{1, 1, 1}
)

// modelScene draws the white background plane and, once loaded, the model
// with the shared shader material into its own render target.
type modelScene struct {
	target *inputs.RenderTarget

	basic      *program
	material   *program
	background *gpuMesh
	backdrop   mesh.Transform
	model      *gpuMesh
	albedo     *inputs.ImageTexture
}

func newModelScene(ctx context.Context, lib *shader.Library, width, height int) (*modelScene, error) {
	m := &modelScene{}
	var err error

	m.target, err = inputs.NewRenderTarget(width, height)
	if err != nil {
		return nil, fmt.Errorf("failed to create model scene target: %w", err)
	}

	m.basic, err = buildProgram(ctx, lib, shader.ModelVertex, shader.BasicFragment, basicUniforms...)
	if err != nil {
		m.destroy()
		return nil, err
	}
	m.material, err = buildProgram(ctx, lib, shader.ModelVertex, shader.ModelFragment, materialUniforms...)
	if err != nil {
		m.destroy()
		return nil, err
	}

	m.background, err = newGPUMesh(mesh.NewPlane(backgroundSize, backgroundSize, 1, 1))
	if err != nil {
		m.destroy()
		return nil, fmt.Errorf("failed to upload background plane: %w", err)
	}
	m.backdrop = mesh.Identity()
	m.backdrop.Position = mgl32.Vec3{0, 0, backgroundZ}

	m.albedo = inputs.NewSolidTexture(color.White)
	return m, nil
}

// attach replaces the model geometry.
func (m *modelScene) attach(g *mesh.Geometry) error {
	gm, err := newGPUMesh(g)
	if err != nil {
		return err
	}
	if m.model != nil {
		m.model.destroy()
	}
	m.model = gm
	return nil
}

func (m *modelScene) render(s *frame.State) {
	m.target.BindForWriting()
	gl.Enable(gl.DEPTH_TEST)
	gl.ClearColor(0, 0, 0, 1)
	gl.Clear(gl.COLOR_BUFFER_BIT | gl.DEPTH_BUFFER_BIT)

	projection := s.ModelCamera.Projection()
	view := s.ModelCamera.View()

	m.basic.use()
	m.basic.setMat4("projectionMatrix", projection)
	m.basic.setMat4("viewMatrix", view)
	m.basic.setMat4("modelMatrix", m.backdrop.Matrix())
	m.basic.setVec3("uColor", backgroundColor)
	m.background.draw()

	if s.Model != nil && m.model != nil {
		m.material.use()
		m.material.setMat4("projectionMatrix", projection)
		m.material.setMat4("viewMatrix", view)
		m.material.setMat4("modelMatrix", s.Model.Transform.Matrix())
		m.material.setFloat("uTime", s.Uniforms.Time)
		m.material.setVec4("uResolution", s.Uniforms.Resolution)
		m.material.bindTexture("uTexture", 0, m.albedo.GetTextureID())
		m.model.draw()
		unbindTextures(1)
	}

	gl.Disable(gl.DEPTH_TEST)
	m.target.UnbindForWriting()
}

func (m *modelScene) programs() []**program {
	return []**program{&m.basic, &m.material}
}

func (m *modelScene) destroy() {
	if m.target != nil {
		m.target.Destroy()
	}
	if m.basic != nil {
		m.basic.destroy()
	}
	if m.material != nil {
		m.material.destroy()
	}
	if m.background != nil {
		m.background.destroy()
	}
	if m.model != nil {
		m.model.destroy()
	}
	if m.albedo != nil {
		m.albedo.Destroy()
	}
}
