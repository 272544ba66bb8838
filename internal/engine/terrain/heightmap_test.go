package terrain

import (
	"errors"
	"image"
	"image/color"
	"image/png"
	gomath "math"
	"os"
	"path/filepath"
	"testing"
)

func writePNG(t *testing.T, img image.Image) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "heightmap.png")
	f, err := os.Create(path)
	if err != nil {
		t.Fatalf("create: %v", err)
	}
	defer f.Close()
	if err := png.Encode(f, img); err != nil {
		t.Fatalf("encode: %v", err)
	}
	return path
}

func TestLoadHeightmapReadsRedChannel(t *testing.T) {
	img := image.NewNRGBA(image.Rect(0, 0, 3, 2))
	for y := range 2 {
		for x := range 3 {
			img.SetNRGBA(x, y, color.NRGBA{R: uint8(10*x + 100*y), G: 7, B: 9, A: 255})
		}
	}

	hm, err := LoadHeightmap(writePNG(t, img), 0)
	if err != nil {
		t.Fatalf("LoadHeightmap: %v", err)
	}
	if hm.Width != 3 || hm.Height != 2 {
		t.Fatalf("size = %dx%d, want 3x2", hm.Width, hm.Height)
	}
	for y := range 2 {
		for x := range 3 {
			if got, want := hm.At(x, y), uint8(10*x+100*y); got != want {
				t.Errorf("At(%d,%d) = %d, want %d", x, y, got, want)
			}
		}
	}
}

func TestLoadHeightmapGray(t *testing.T) {
	img := image.NewGray(image.Rect(0, 0, 4, 4))
	for i := range img.Pix {
		img.Pix[i] = 77
	}

	hm, err := LoadHeightmap(writePNG(t, img), 0)
	if err != nil {
		t.Fatalf("LoadHeightmap: %v", err)
	}
	for i, r := range hm.Red {
		if r != 77 {
			t.Fatalf("sample %d = %d, want 77", i, r)
		}
	}
}

func TestLoadHeightmapErrors(t *testing.T) {
	if _, err := LoadHeightmap(filepath.Join(t.TempDir(), "missing.png"), 0); !errors.Is(err, ErrImageLoad) {
		t.Errorf("missing file: expected ErrImageLoad, got %v", err)
	}

	garbage := filepath.Join(t.TempDir(), "garbage.png")
	if err := os.WriteFile(garbage, []byte("not an image"), 0644); err != nil {
		t.Fatalf("write: %v", err)
	}
	if _, err := LoadHeightmap(garbage, 0); !errors.Is(err, ErrImageLoad) {
		t.Errorf("garbage file: expected ErrImageLoad, got %v", err)
	}

	path := writePNG(t, image.NewGray(image.Rect(0, 0, 2, 2)))
	if _, err := LoadHeightmap(path, -1); !errors.Is(err, ErrInvalidConfig) {
		t.Errorf("negative blur: expected ErrInvalidConfig, got %v", err)
	}
}

func TestFromImageSubImage(t *testing.T) {
	img := image.NewRGBA(image.Rect(0, 0, 4, 4))
	img.SetRGBA(2, 3, color.RGBA{R: 200, A: 255})

	sub := img.SubImage(image.Rect(2, 2, 4, 4))
	hm := FromImage(sub)
	if hm.Width != 2 || hm.Height != 2 {
		t.Fatalf("size = %dx%d, want 2x2", hm.Width, hm.Height)
	}
	if hm.At(0, 1) != 200 {
		t.Errorf("At(0,1) = %d, want 200", hm.At(0, 1))
	}
}

func TestFromImageGenericPath(t *testing.T) {
	img := image.NewRGBA64(image.Rect(0, 0, 2, 1))
	img.SetRGBA64(1, 0, color.RGBA64{R: 0x8080, A: 0xffff})

	hm := FromImage(img)
	if hm.At(1, 0) != 0x80 {
		t.Errorf("At(1,0) = %d, want 128", hm.At(1, 0))
	}
}

func TestSampleTruncatesAndClamps(t *testing.T) {
	hm := &Heightmap{Width: 4, Height: 1, Red: []uint8{10, 20, 30, 40}}

	tests := []struct {
		u    float32
		want uint8
	}{
		{0, 10},
		{0.24, 10},
		{0.25, 20},
		{0.74, 30},
		{0.99, 40},
		{1, 40},
		{1.5, 40},
		{-0.5, 10},
	}
	for _, tt := range tests {
		if got := hm.Sample(tt.u, 0); got != tt.want {
			t.Errorf("Sample(%v) = %d, want %d", tt.u, got, tt.want)
		}
	}
}

func TestBlurKeepsUniformImage(t *testing.T) {
	for _, v := range []uint8{0, 1, 128, 255} {
		hm := Uniform(9, 7, v).Blur(2.5)
		for i, r := range hm.Red {
			if r != v {
				t.Fatalf("value %d: sample %d = %d after blur", v, i, r)
			}
		}
	}
}

func TestBlurSpreadsPeak(t *testing.T) {
	hm := Uniform(9, 9, 0)
	hm.Red[4*9+4] = 255

	blurred := hm.Blur(1)
	centre := blurred.At(4, 4)
	neighbour := blurred.At(5, 4)
	corner := blurred.At(0, 0)

	if centre >= 255 || centre == 0 {
		t.Errorf("centre = %d, want strictly between 0 and 255", centre)
	}
	if neighbour == 0 || neighbour >= centre {
		t.Errorf("neighbour = %d, want between 0 and centre %d", neighbour, centre)
	}
	if corner != 0 {
		t.Errorf("far corner = %d, want 0", corner)
	}
	if hm.Red[4*9+4] != 255 {
		t.Error("Blur must not modify the source heightmap")
	}
}

func TestGaussianKernelNormalized(t *testing.T) {
	for _, sigma := range []float32{0.1, 1, 3, 7.5} {
		k := gaussianKernel(sigma)
		if len(k)%2 != 1 {
			t.Errorf("sigma %v: kernel length %d should be odd", sigma, len(k))
		}
		var sum float32
		for _, w := range k {
			sum += w
		}
		if abs32(sum-1) > 1e-5 {
			t.Errorf("sigma %v: kernel sum = %v, want 1", sigma, sum)
		}
	}
	if k := gaussianKernel(0); len(k) != 1 || k[0] != 1 {
		t.Errorf("sigma 0 should be the identity kernel, got %v", k)
	}
}

func TestGaussianKernelCapsSigma(t *testing.T) {
	want := len(gaussianKernel(MaxBlur))
	if want != 6*MaxBlur+1 {
		t.Fatalf("MaxBlur kernel has %d taps, want %d", want, 6*MaxBlur+1)
	}
	if got := len(gaussianKernel(1e9)); got != want {
		t.Errorf("sigma 1e9 kernel has %d taps, want the MaxBlur size %d", got, want)
	}

	nan := float32(gomath.NaN())
	if k := gaussianKernel(nan); len(k) != 1 {
		t.Errorf("NaN sigma should be the identity kernel, got %d taps", len(k))
	}
	if k := Uniform(3, 3, 7).Blur(1e9); k.Red[4] != 7 {
		t.Errorf("huge blur of a uniform image = %d, want 7", k.Red[4])
	}
}

func TestLoadHeightmapBlurs(t *testing.T) {
	img := image.NewGray(image.Rect(0, 0, 5, 5))
	img.Pix[2*5+2] = 255

	hm, err := LoadHeightmap(writePNG(t, img), 1)
	if err != nil {
		t.Fatalf("LoadHeightmap: %v", err)
	}
	if hm.At(2, 2) == 255 || hm.At(1, 2) == 0 {
		t.Errorf("expected blurred peak, got centre %d neighbour %d", hm.At(2, 2), hm.At(1, 2))
	}
}
