// Package mesh holds CPU-side geometry and object transforms.
package mesh

import (
	"fmt"
)

// Geometry is an indexed triangle list with tightly packed attributes.
type Geometry struct {
	Positions []float32 // x, y, z per vertex
	Normals   []float32 // x, y, z per vertex, may be empty
	UVs       []float32 // u, v per vertex
	Indices   []uint32
}

// VertexCount is the number of vertices described by Positions.
func (g *Geometry) VertexCount() int {
	return len(g.Positions) / 3
}

// Validate checks attribute lengths and index bounds.
func (g *Geometry) Validate() error {
	if len(g.Positions)%3 != 0 {
		return fmt.Errorf("position array length %d is not a multiple of 3", len(g.Positions))
	}
	n := g.VertexCount()
	if len(g.UVs) != n*2 {
		return fmt.Errorf("uv array length %d does not match %d vertices", len(g.UVs), n)
	}
	if len(g.Normals) != 0 && len(g.Normals) != n*3 {
		return fmt.Errorf("normal array length %d does not match %d vertices", len(g.Normals), n)
	}
	for i, idx := range g.Indices {
		if int(idx) >= n {
			return fmt.Errorf("index %d at %d out of range for %d vertices", idx, i, n)
		}
	}
	return nil
}

// Interleaved packs position and uv into a single stride-5 float buffer.
func (g *Geometry) Interleaved() []float32 {
	n := g.VertexCount()
	out := make([]float32, 0, n*5)
	for i := 0; i < n; i++ {
		out = append(out, g.Positions[i*3:i*3+3]...)
		if i*2+1 < len(g.UVs) {
			out = append(out, g.UVs[i*2], g.UVs[i*2+1])
		} else {
			out = append(out, 0, 0)
		}
	}
	return out
}

// NewPlane builds a plane in the XY plane facing +Z, centred on the origin,
// with the same vertex order and uv layout as three.js PlaneGeometry.
func NewPlane(width, height float32, widthSegments, heightSegments int) *Geometry {
	gridX := max(widthSegments, 1)
	gridY := max(heightSegments, 1)
	gridX1 := gridX + 1
	gridY1 := gridY + 1
	segW := width / float32(gridX)
	segH := height / float32(gridY)

	g := &Geometry{
		Positions: make([]float32, 0, gridX1*gridY1*3),
		Normals:   make([]float32, 0, gridX1*gridY1*3),
		UVs:       make([]float32, 0, gridX1*gridY1*2),
		Indices:   make([]uint32, 0, gridX*gridY*6),
	}

	for iy := 0; iy < gridY1; iy++ {
		y := float32(iy)*segH - height/2
		for ix := 0; ix < gridX1; ix++ {
			x := float32(ix)*segW - width/2
			g.Positions = append(g.Positions, x, -y, 0)
			g.Normals = append(g.Normals, 0, 0, 1)
			g.UVs = append(g.UVs, float32(ix)/float32(gridX), 1-float32(iy)/float32(gridY))
		}
	}

	for iy := 0; iy < gridY; iy++ {
		for ix := 0; ix < gridX; ix++ {
			a := uint32(ix + gridX1*iy)
			b := uint32(ix + gridX1*(iy+1))
			c := uint32(ix + 1 + gridX1*(iy+1))
			d := uint32(ix + 1 + gridX1*iy)
			g.Indices = append(g.Indices, a, b, d, b, c, d)
		}
	}
	return g
}
