package inputs

import (
	"fmt"
	"image"
	"image/color"
	"image/draw"

	"github.com/go-gl/gl/v4.1-core/gl"
)

// ImageTexture is a static RGBA8 texture. Its contents can be replaced in
// place with Upload, so materials holding the texture see the new image
// without rebinding.
type ImageTexture struct {
	textureID uint32
	width     int
	height    int
	sampler   Sampler
}

// ToRGBA converts img to tightly packed RGBA, flipping rows when asked.
func ToRGBA(img image.Image, flip bool) *image.RGBA {
	rgba := image.NewRGBA(image.Rect(0, 0, img.Bounds().Dx(), img.Bounds().Dy()))
	draw.Draw(rgba, rgba.Bounds(), img, img.Bounds().Min, draw.Src)
	if flip {
		rgba = vflip(rgba)
	}
	return rgba
}

// vflip vertically flips the provided RGBA image.
func vflip(src *image.RGBA) *image.RGBA {
	bounds := src.Bounds()
	flipped := image.NewRGBA(bounds)
	height := bounds.Dy()

	rowSize := bounds.Dx() * 4
	for y := 0; y < height; y++ {
		srcRow := src.Pix[((height-1)-y)*src.Stride:]
		dstRow := flipped.Pix[y*flipped.Stride:]
		copy(dstRow, srcRow[:rowSize])
	}
	return flipped
}

// NewImageTexture creates a texture from img.
func NewImageTexture(img image.Image, sampler Sampler) (*ImageTexture, error) {
	if img == nil {
		return nil, fmt.Errorf("input image is nil")
	}
	t := &ImageTexture{sampler: sampler}
	gl.GenTextures(1, &t.textureID)
	t.Upload(img)
	return t, nil
}

// NewSolidTexture creates a 1x1 texture of a single colour, used while the
// real image is still loading.
func NewSolidTexture(c color.Color) *ImageTexture {
	img := image.NewRGBA(image.Rect(0, 0, 1, 1))
	img.Set(0, 0, c)
	t, _ := NewImageTexture(img, Sampler{Wrap: "repeat", Filter: "nearest"})
	return t
}

// Upload replaces the texture contents with img.
func (t *ImageTexture) Upload(img image.Image) {
	rgba := ToRGBA(img, t.sampler.VFlip)
	t.width = rgba.Rect.Dx()
	t.height = rgba.Rect.Dy()

	gl.BindTexture(gl.TEXTURE_2D, t.textureID)
	gl.TexParameteri(gl.TEXTURE_2D, gl.TEXTURE_WRAP_S, getWrapMode(t.sampler.Wrap))
	gl.TexParameteri(gl.TEXTURE_2D, gl.TEXTURE_WRAP_T, getWrapMode(t.sampler.Wrap))
	minFilter, magFilter := getFilterMode(t.sampler.Filter)
	gl.TexParameteri(gl.TEXTURE_2D, gl.TEXTURE_MIN_FILTER, minFilter)
	gl.TexParameteri(gl.TEXTURE_2D, gl.TEXTURE_MAG_FILTER, magFilter)

	gl.PixelStorei(gl.UNPACK_ALIGNMENT, 1)
	gl.TexImage2D(
		gl.TEXTURE_2D,
		0,
		gl.RGBA8,
		int32(t.width),
		int32(t.height),
		0,
		gl.RGBA,
		gl.UNSIGNED_BYTE,
		gl.Ptr(rgba.Pix),
	)
	if t.sampler.Filter == "mipmap" {
		gl.GenerateMipmap(gl.TEXTURE_2D)
	}
	gl.BindTexture(gl.TEXTURE_2D, 0)
}

// Texture interface implementation.
func (t *ImageTexture) GetTextureID() uint32 { return t.textureID }
func (t *ImageTexture) Size() (int, int)     { return t.width, t.height }
func (t *ImageTexture) Destroy() {
	gl.DeleteTextures(1, &t.textureID)
}
