package loader

import (
	"bytes"
	"fmt"
	"image"
	"os"

	"github.com/h2non/filetype"

	// Decoders registered with image.Decode.
	_ "image/jpeg"
	_ "image/png"

	_ "golang.org/x/image/webp"
)

var supportedImages = map[string]bool{
	"jpg":  true,
	"png":  true,
	"webp": true,
}

// LoadImage reads and decodes a jpeg, png or webp file.
func LoadImage(path string) (image.Image, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read image %s: %w", path, err)
	}
	img, err := DecodeImage(data)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", path, err)
	}
	return img, nil
}

// DecodeImage sniffs data and decodes it if it is a supported image type.
func DecodeImage(data []byte) (image.Image, error) {
	kind, err := filetype.Match(data)
	if err != nil {
		return nil, fmt.Errorf("failed to detect file type: %w", err)
	}
	if !supportedImages[kind.Extension] {
		return nil, fmt.Errorf("unsupported image type %q", kind.MIME.Value)
	}
	img, _, err := image.Decode(bytes.NewReader(data))
	if err != nil {
		return nil, fmt.Errorf("failed to decode %s: %w", kind.Extension, err)
	}
	return img, nil
}
