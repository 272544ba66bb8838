package terrain

import (
	"errors"
	"image"
	"image/color"
	"os"
	"path/filepath"
	"testing"
)

func TestLoadTexturePNG(t *testing.T) {
	src := image.NewNRGBA(image.Rect(0, 0, 2, 1))
	src.SetNRGBA(0, 0, color.NRGBA{R: 10, G: 20, B: 30, A: 255})
	src.SetNRGBA(1, 0, color.NRGBA{R: 200, G: 100, B: 50, A: 255})

	tex, err := LoadTexture(writePNG(t, src))
	if err != nil {
		t.Fatalf("LoadTexture: %v", err)
	}
	if tex.Bounds() != image.Rect(0, 0, 2, 1) {
		t.Fatalf("bounds = %v", tex.Bounds())
	}
	if got := tex.RGBAAt(1, 0); got != (color.RGBA{R: 200, G: 100, B: 50, A: 255}) {
		t.Errorf("pixel (1, 0) = %v", got)
	}
}

func TestLoadTextureTGA(t *testing.T) {
	// Bottom-up B, G, R rows
	data := tgaHeader(tgaTrueColor, 24, 1, 2, false)
	data = append(data, 3, 2, 1)
	data = append(data, 30, 20, 10)
	path := filepath.Join(t.TempDir(), "tex.tga")
	if err := os.WriteFile(path, data, 0644); err != nil {
		t.Fatalf("write: %v", err)
	}

	tex, err := LoadTexture(path)
	if err != nil {
		t.Fatalf("LoadTexture: %v", err)
	}
	if got := tex.RGBAAt(0, 0); got != (color.RGBA{R: 10, G: 20, B: 30, A: 255}) {
		t.Errorf("top pixel = %v", got)
	}
	if got := tex.RGBAAt(0, 1); got != (color.RGBA{R: 1, G: 2, B: 3, A: 255}) {
		t.Errorf("bottom pixel = %v", got)
	}
}

func TestLoadTextureMissing(t *testing.T) {
	if _, err := LoadTexture(filepath.Join(t.TempDir(), "none.png")); !errors.Is(err, ErrImageLoad) {
		t.Errorf("expected ErrImageLoad, got %v", err)
	}
}

func TestToRGBAMovesOrigin(t *testing.T) {
	src := image.NewGray(image.Rect(2, 3, 4, 5))
	src.SetGray(3, 4, color.Gray{Y: 99})

	dst := toRGBA(src)
	if dst.Bounds() != image.Rect(0, 0, 2, 2) {
		t.Fatalf("bounds = %v", dst.Bounds())
	}
	if got := dst.RGBAAt(1, 1); got != (color.RGBA{R: 99, G: 99, B: 99, A: 255}) {
		t.Errorf("moved pixel = %v", got)
	}
}
