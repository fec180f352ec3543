package inputs

// Uniforms holds the per-frame values every material reads.
type Uniforms struct {
	Time float32
	// Resolution is (width, height, a1, a2).
	Resolution [4]float32
	// Progress is the debug knob; only the post pass declares it.
	Progress float32
}

// Texture is anything that can be bound to a sampler2D.
type Texture interface {
	// GetTextureID returns the OpenGL texture ID that should be bound.
	GetTextureID() uint32

	// Size returns the texture dimensions in pixels.
	Size() (int, int)

	// Destroy releases any resources held by the texture.
	Destroy()
}
