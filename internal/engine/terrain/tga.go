package terrain

import (
	"errors"
	"fmt"
	"image"
)

// TGA image types.
const (
	tgaTrueColor    = 2
	tgaGray         = 3
	tgaTrueColorRLE = 10
	tgaGrayRLE      = 11
)

var errTGATruncated = errors.New("tga: pixel data truncated")

// DecodeTGA decodes a TGA and keeps its red channel. TGA has no magic number,
// so image.Decode cannot detect it; LoadHeightmap picks this decoder by file
// extension.
func DecodeTGA(data []byte) (*Heightmap, error) {
	img, err := DecodeTGAImage(data)
	if err != nil {
		return nil, err
	}
	return FromImage(img), nil
}

// DecodeTGAImage decodes an uncompressed or RLE TGA in 8-bit grayscale or
// 24/32-bit true colour. Grayscale and 24-bit images come back opaque.
func DecodeTGAImage(data []byte) (*image.NRGBA, error) {
	if len(data) < 18 {
		return nil, fmt.Errorf("tga: header too short (%d bytes)", len(data))
	}

	idLength := int(data[0])
	colorMapType := data[1]
	imageType := data[2]
	width := int(data[12]) | int(data[13])<<8
	height := int(data[14]) | int(data[15])<<8
	bpp := int(data[16])
	topToBottom := data[17]&0x20 != 0

	if colorMapType != 0 {
		return nil, fmt.Errorf("tga: colour-mapped images not supported")
	}
	gray := imageType == tgaGray || imageType == tgaGrayRLE
	rle := imageType == tgaTrueColorRLE || imageType == tgaGrayRLE
	switch {
	case gray && bpp != 8:
		return nil, fmt.Errorf("tga: grayscale depth %d not supported", bpp)
	case !gray && imageType != tgaTrueColor && imageType != tgaTrueColorRLE:
		return nil, fmt.Errorf("tga: image type %d not supported", imageType)
	case !gray && bpp != 24 && bpp != 32:
		return nil, fmt.Errorf("tga: colour depth %d not supported", bpp)
	}
	if width == 0 || height == 0 {
		return nil, fmt.Errorf("tga: empty image %dx%d", width, height)
	}

	offset := 18 + idLength
	if offset > len(data) {
		return nil, errTGATruncated
	}

	bytesPerPixel := bpp / 8
	img := image.NewNRGBA(image.Rect(0, 0, width, height))

	// Pixels are stored B, G, R[, A]; grayscale stores the value alone.
	put := func(i int, px []byte) {
		x, y := i%width, i/width
		if !topToBottom {
			y = height - 1 - y
		}
		dst := img.Pix[y*img.Stride+x*4 : y*img.Stride+x*4+4]
		switch {
		case gray:
			dst[0], dst[1], dst[2], dst[3] = px[0], px[0], px[0], 255
		case bytesPerPixel == 4:
			dst[0], dst[1], dst[2], dst[3] = px[2], px[1], px[0], px[3]
		default:
			dst[0], dst[1], dst[2], dst[3] = px[2], px[1], px[0], 255
		}
	}

	src := data[offset:]
	count := width * height
	if !rle {
		if len(src) < count*bytesPerPixel {
			return nil, errTGATruncated
		}
		for i := range count {
			put(i, src[i*bytesPerPixel:])
		}
		return img, nil
	}

	for i, pos := 0, 0; i < count; {
		if pos >= len(src) {
			return nil, errTGATruncated
		}
		packet := src[pos]
		pos++
		n := int(packet&0x7f) + 1

		if packet&0x80 != 0 {
			// Run: one pixel repeated n times
			if pos+bytesPerPixel > len(src) {
				return nil, errTGATruncated
			}
			px := src[pos : pos+bytesPerPixel]
			pos += bytesPerPixel
			for ; n > 0 && i < count; n-- {
				put(i, px)
				i++
			}
			continue
		}

		// Raw: n literal pixels
		if pos+n*bytesPerPixel > len(src) {
			return nil, errTGATruncated
		}
		for ; n > 0 && i < count; n-- {
			put(i, src[pos:pos+bytesPerPixel])
			pos += bytesPerPixel
			i++
		}
	}
	return img, nil
}

// Image returns the samples as a grayscale image.
func (hm *Heightmap) Image() *image.Gray {
	img := image.NewGray(image.Rect(0, 0, hm.Width, hm.Height))
	copy(img.Pix, hm.Red)
	return img
}
