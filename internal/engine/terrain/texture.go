package terrain

import (
	"fmt"
	"image"

	"golang.org/x/image/draw"
)

// LoadTexture decodes a surface texture in any format LoadHeightmap accepts
// and returns it as tightly packed RGBA, ready for upload.
func LoadTexture(path string) (*image.RGBA, error) {
	img, format, err := readImage(path)
	if err != nil {
		return nil, err
	}
	b := img.Bounds()
	if b.Empty() {
		return nil, fmt.Errorf("%w: %s (%s): empty image", ErrImageLoad, path, format)
	}
	return toRGBA(img), nil
}

// toRGBA copies img into a new RGBA with its origin at (0, 0).
func toRGBA(img image.Image) *image.RGBA {
	b := img.Bounds()
	dst := image.NewRGBA(image.Rect(0, 0, b.Dx(), b.Dy()))
	draw.Draw(dst, dst.Bounds(), img, b.Min, draw.Src)
	return dst
}
