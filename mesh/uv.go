package mesh

// uvPattern is written over every group of four uv floats. It collapses the
// model's texture mapping onto two fixed samples: (0,0) and (1,0).
var uvPattern = [4]float32{0, 0, 1, 0}

// RemapUV overwrites uvs in place, four floats at a time, with the fixed
// (0, 0, 1, 0) pattern. A trailing partial group is filled as far as it goes.
func RemapUV(uvs []float32) {
	for i := 0; i < len(uvs); i += 4 {
		copy(uvs[i:], uvPattern[:])
	}
}

// RemapUV applies the fixed uv overwrite to the geometry.
func (g *Geometry) RemapUV() {
	RemapUV(g.UVs)
}
