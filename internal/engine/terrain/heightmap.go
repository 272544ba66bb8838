package terrain

import (
	"bytes"
	"fmt"
	"image"
	"image/color"
	_ "image/jpeg" // JPEG decoder registration
	_ "image/png"  // PNG decoder registration
	gomath "math"
	"os"
	"path/filepath"
	"strings"

	_ "golang.org/x/image/bmp"  // BMP decoder registration
	_ "golang.org/x/image/tiff" // TIFF decoder registration
)

// Heightmap is the red channel of a raster image, row-major from the top-left.
type Heightmap struct {
	Width  int
	Height int
	Red    []uint8
}

// LoadHeightmap decodes an image file and returns its red channel, blurred
// with a Gaussian of the given sigma when blur > 0.
func LoadHeightmap(path string, blur float32) (*Heightmap, error) {
	if !finite(blur) || blur < 0 {
		return nil, fmt.Errorf("%w: blur %v must be non-negative", ErrInvalidConfig, blur)
	}

	img, format, err := readImage(path)
	if err != nil {
		return nil, err
	}
	hm := FromImage(img)
	if err := hm.Validate(); err != nil {
		return nil, fmt.Errorf("%w: %s (%s): %w", ErrImageLoad, path, format, err)
	}
	if blur > 0 {
		hm = hm.Blur(blur)
	}
	return hm, nil
}

// readImage decodes the image at path. TGA is chosen by extension, every
// other format by image.Decode's registered decoders.
func readImage(path string) (image.Image, string, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, "", fmt.Errorf("%w: %w", ErrImageLoad, err)
	}

	if strings.EqualFold(filepath.Ext(path), ".tga") {
		img, err := DecodeTGAImage(data)
		if err != nil {
			return nil, "", fmt.Errorf("%w: decoding %s: %w", ErrImageLoad, path, err)
		}
		return img, "tga", nil
	}
	img, format, err := image.Decode(bytes.NewReader(data))
	if err != nil {
		return nil, "", fmt.Errorf("%w: decoding %s: %w", ErrImageLoad, path, err)
	}
	return img, format, nil
}

// FromImage copies the red channel of img. Alpha is ignored.
func FromImage(img image.Image) *Heightmap {
	bounds := img.Bounds()
	w, h := bounds.Dx(), bounds.Dy()
	hm := &Heightmap{Width: w, Height: h, Red: make([]uint8, w*h)}

	switch src := img.(type) {
	case *image.Gray:
		for y := range h {
			copy(hm.Red[y*w:(y+1)*w], src.Pix[y*src.Stride:y*src.Stride+w])
		}
	case *image.NRGBA:
		for y := range h {
			row := src.Pix[y*src.Stride:]
			for x := range w {
				hm.Red[y*w+x] = row[x*4]
			}
		}
	case *image.RGBA:
		for y := range h {
			row := src.Pix[y*src.Stride:]
			for x := range w {
				hm.Red[y*w+x] = row[x*4]
			}
		}
	default:
		for y := range h {
			for x := range w {
				c := color.NRGBAModel.Convert(img.At(bounds.Min.X+x, bounds.Min.Y+y)).(color.NRGBA)
				hm.Red[y*w+x] = c.R
			}
		}
	}
	return hm
}

// Uniform returns a w x h heightmap filled with value.
func Uniform(w, h int, value uint8) *Heightmap {
	hm := &Heightmap{Width: w, Height: h, Red: make([]uint8, w*h)}
	for i := range hm.Red {
		hm.Red[i] = value
	}
	return hm
}

// Validate reports whether the heightmap has samples to read.
func (hm *Heightmap) Validate() error {
	if hm == nil {
		return fmt.Errorf("%w: nil heightmap", ErrInvalidHeightmap)
	}
	if hm.Width <= 0 || hm.Height <= 0 {
		return fmt.Errorf("%w: size %dx%d", ErrInvalidHeightmap, hm.Width, hm.Height)
	}
	if len(hm.Red) != hm.Width*hm.Height {
		return fmt.Errorf("%w: %d samples for %dx%d", ErrInvalidHeightmap, len(hm.Red), hm.Width, hm.Height)
	}
	return nil
}

// At returns the sample at texel (x, y), clamped to the image.
func (hm *Heightmap) At(x, y int) uint8 {
	x = clampi(x, 0, hm.Width-1)
	y = clampi(y, 0, hm.Height-1)
	return hm.Red[y*hm.Width+x]
}

// Sample returns the nearest texel at normalized (u, v), truncating toward the
// top-left texel. u or v of 1 clamps to the last row/column.
func (hm *Heightmap) Sample(u, v float32) uint8 {
	return hm.At(int(u*float32(hm.Width)), int(v*float32(hm.Height)))
}

// Blur returns a copy smoothed with a separable Gaussian of standard deviation
// sigma. Edges are clamped.
func (hm *Heightmap) Blur(sigma float32) *Heightmap {
	kernel := gaussianKernel(sigma)
	if len(kernel) <= 1 {
		out := *hm
		out.Red = append([]uint8(nil), hm.Red...)
		return &out
	}
	radius := len(kernel) / 2
	w, h := hm.Width, hm.Height

	// Horizontal pass into float, vertical pass back to bytes.
	tmp := make([]float32, w*h)
	for y := range h {
		for x := range w {
			var sum float32
			for k, weight := range kernel {
				sum += weight * float32(hm.At(x+k-radius, y))
			}
			tmp[y*w+x] = sum
		}
	}

	out := &Heightmap{Width: w, Height: h, Red: make([]uint8, w*h)}
	for y := range h {
		for x := range w {
			var sum float32
			for k, weight := range kernel {
				yy := clampi(y+k-radius, 0, h-1)
				sum += weight * tmp[yy*w+x]
			}
			out.Red[y*w+x] = uint8(clampf(sum+0.5, 0, 255))
		}
	}
	return out
}

// gaussianKernel returns normalized weights covering +-3 sigma. Sigma is
// capped at MaxBlur.
func gaussianKernel(sigma float32) []float32 {
	if !(sigma > 0) {
		return []float32{1}
	}
	sigma = min(sigma, MaxBlur)
	radius := int(gomath.Ceil(float64(3 * sigma)))
	kernel := make([]float32, 2*radius+1)

	var sum float64
	s2 := 2 * float64(sigma) * float64(sigma)
	for i := -radius; i <= radius; i++ {
		w := gomath.Exp(-float64(i*i) / s2)
		kernel[i+radius] = float32(w)
		sum += w
	}
	for i := range kernel {
		kernel[i] = float32(float64(kernel[i]) / sum)
	}
	return kernel
}

func clampi(v, lo, hi int) int {
	if v < lo {
		return lo
	}
	if v > hi {
		return hi
	}
	return v
}
