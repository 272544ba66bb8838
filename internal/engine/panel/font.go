package panel

import (
	"image"
	"strings"

	"golang.org/x/image/font"
	"golang.org/x/image/font/basicfont"
	"golang.org/x/image/math/fixed"
)

// Printable ASCII is baked into the atlas; anything else draws as '?'.
const (
	firstGlyph   = ' '
	lastGlyph    = '~'
	atlasColumns = 16
)

// Font is a fixed-width glyph atlas baked from basicfont.Face7x13.
type Font struct {
	Atlas *image.Alpha

	glyphW, glyphH int
}

// NewFont rasterizes the atlas. Uploading it is the renderer's job.
func NewFont() *Font {
	face := basicfont.Face7x13
	gw, gh := face.Advance, face.Height

	count := int(lastGlyph-firstGlyph) + 1
	rows := (count + atlasColumns - 1) / atlasColumns
	atlas := image.NewAlpha(image.Rect(0, 0, atlasColumns*gw, rows*gh))

	d := font.Drawer{Dst: atlas, Src: image.Opaque, Face: face}
	for r := firstGlyph; r <= lastGlyph; r++ {
		i := int(r - firstGlyph)
		x, y := (i%atlasColumns)*gw, (i/atlasColumns)*gh
		d.Dot = fixed.P(x, y+face.Ascent)
		d.DrawString(string(r))
	}

	return &Font{Atlas: atlas, glyphW: gw, glyphH: gh}
}

// GlyphSize returns the unscaled cell size in pixels.
func (f *Font) GlyphSize() (int, int) {
	return f.glyphW, f.glyphH
}

// GlyphUV returns the atlas rectangle of r in texture coordinates.
func (f *Font) GlyphUV(r rune) (u0, v0, u1, v1 float32) {
	if r < firstGlyph || r > lastGlyph {
		r = '?'
	}
	i := int(r - firstGlyph)
	b := f.Atlas.Bounds()
	x, y := (i%atlasColumns)*f.glyphW, (i/atlasColumns)*f.glyphH

	u0 = float32(x) / float32(b.Dx())
	v0 = float32(y) / float32(b.Dy())
	u1 = float32(x+f.glyphW) / float32(b.Dx())
	v1 = float32(y+f.glyphH) / float32(b.Dy())
	return u0, v0, u1, v1
}

// MeasureText returns the size of text drawn at scale.
func (f *Font) MeasureText(text string, scale float32) (float32, float32) {
	if text == "" {
		return 0, 0
	}
	lines := strings.Split(text, "\n")
	widest := 0
	for _, l := range lines {
		if n := len([]rune(l)); n > widest {
			widest = n
		}
	}
	return float32(widest*f.glyphW) * scale, float32(len(lines)*f.glyphH) * scale
}
