package mesh

import (
	"math"
	"testing"

	"github.com/go-gl/mathgl/mgl32"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestRemapUVPattern(t *testing.T) {
	for _, n := range []int{0, 4, 8, 64, 1024} {
		uvs := make([]float32, n)
		for i := range uvs {
			uvs[i] = float32(i) * 0.37
		}
		RemapUV(uvs)
		for i := 0; i < n; i += 4 {
			assert.Equal(t, []float32{0, 0, 1, 0}, uvs[i:i+4], "group at %d", i)
		}
	}
}

func TestRemapUVIdempotent(t *testing.T) {
	once := []float32{0.1, 0.2, 0.3, 0.4, 0.5, 0.6, 0.7, 0.8}
	RemapUV(once)
	twice := append([]float32(nil), once...)
	RemapUV(twice)
	assert.Equal(t, once, twice)
}

func TestRemapUVPartialGroup(t *testing.T) {
	uvs := []float32{9, 9, 9, 9, 9, 9}
	RemapUV(uvs)
	assert.Equal(t, []float32{0, 0, 1, 0, 0, 0}, uvs)
}

func TestNewPlane(t *testing.T) {
	g := NewPlane(1.5, 1.5, 1, 1)
	require.NoError(t, g.Validate())
	assert.Equal(t, 4, g.VertexCount())
	assert.Equal(t, []uint32{0, 2, 1, 2, 3, 1}, g.Indices)

	// top-left corner first, uv origin at the bottom
	assert.Equal(t, []float32{-0.75, 0.75, 0}, g.Positions[0:3])
	assert.Equal(t, []float32{0, 1}, g.UVs[0:2])
	assert.Equal(t, []float32{0.75, -0.75, 0}, g.Positions[9:12])
	assert.Equal(t, []float32{1, 0}, g.UVs[6:8])
}

func TestNewPlaneSegments(t *testing.T) {
	g := NewPlane(100, 100, 3, 2)
	require.NoError(t, g.Validate())
	assert.Equal(t, 12, g.VertexCount())
	assert.Len(t, g.Indices, 3*2*6)
}

func TestValidate(t *testing.T) {
	g := &Geometry{Positions: []float32{0, 0, 0}, UVs: []float32{0, 0}, Indices: []uint32{1}}
	assert.Error(t, g.Validate())

	g = &Geometry{Positions: []float32{0, 0, 0, 1}, UVs: []float32{0, 0}}
	assert.Error(t, g.Validate())

	g = &Geometry{Positions: []float32{0, 0, 0}, UVs: []float32{0}}
	assert.Error(t, g.Validate())
}

func TestInterleaved(t *testing.T) {
	g := &Geometry{
		Positions: []float32{1, 2, 3, 4, 5, 6},
		UVs:       []float32{0.1, 0.2, 0.3, 0.4},
	}
	assert.Equal(t, []float32{1, 2, 3, 0.1, 0.2, 4, 5, 6, 0.3, 0.4}, g.Interleaved())
}

func TestTransformMatrix(t *testing.T) {
	tr := Identity()
	assert.Equal(t, mgl32.Ident4(), tr.Matrix())

	tr.Position = mgl32.Vec3{1, 2, 3}
	tr.Scale = mgl32.Vec3{2, 2, 2}
	p := tr.Matrix().Mul4x1(mgl32.Vec4{1, 0, 0, 1})
	assert.True(t, p.ApproxEqual(mgl32.Vec4{3, 2, 3, 1}))

	tr = Identity()
	tr.Rotation = mgl32.Vec3{0, math.Pi / 2, 0}
	p = tr.Matrix().Mul4x1(mgl32.Vec4{1, 0, 0, 1})
	assert.True(t, p.ApproxEqualThreshold(mgl32.Vec4{0, 0, -1, 1}, 1e-6))
}
