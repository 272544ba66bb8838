package panel

// Vertex layouts of the two batches.
const (
	SolidStride = 6 // x, y, r, g, b, a
	TextStride  = 8 // x, y, u, v, r, g, b, a
)

// DrawList batches one frame of UI geometry in screen pixels, origin top-left.
type DrawList struct {
	Solid []float32
	Text  []float32

	font *Font
}

// NewDrawList creates an empty list drawing text with font.
func NewDrawList(font *Font) *DrawList {
	return &DrawList{
		Solid: make([]float32, 0, 4096),
		Text:  make([]float32, 0, 4096),
		font:  font,
	}
}

// Reset empties both batches.
func (dl *DrawList) Reset() {
	dl.Solid = dl.Solid[:0]
	dl.Text = dl.Text[:0]
}

// Empty reports whether there is nothing to draw.
func (dl *DrawList) Empty() bool {
	return len(dl.Solid) == 0 && len(dl.Text) == 0
}

// Rect draws a filled rectangle.
func (dl *DrawList) Rect(x, y, w, h float32, c Color) {
	dl.Solid = append(dl.Solid,
		x, y, c.R, c.G, c.B, c.A,
		x+w, y, c.R, c.G, c.B, c.A,
		x+w, y+h, c.R, c.G, c.B, c.A,

		x, y, c.R, c.G, c.B, c.A,
		x+w, y+h, c.R, c.G, c.B, c.A,
		x, y+h, c.R, c.G, c.B, c.A,
	)
}

// RectOutline draws a rectangle border of the given thickness.
func (dl *DrawList) RectOutline(x, y, w, h, t float32, c Color) {
	dl.Rect(x, y, w, t, c)
	dl.Rect(x, y+h-t, w, t, c)
	dl.Rect(x, y+t, t, h-t*2, c)
	dl.Rect(x+w-t, y+t, t, h-t*2, c)
}

// Panel draws a filled rectangle with a one pixel border.
func (dl *DrawList) Panel(x, y, w, h float32, bg, border Color) {
	dl.Rect(x, y, w, h, bg)
	dl.RectOutline(x, y, w, h, 1, border)
}

// Text draws text with its top-left corner at (x, y).
func (dl *DrawList) Text(x, y float32, text string, scale float32, c Color) {
	if dl.font == nil {
		return
	}

	gw, gh := dl.font.GlyphSize()
	cw, ch := float32(gw)*scale, float32(gh)*scale

	cx := x
	for _, r := range text {
		if r == '\n' {
			cx = x
			y += ch
			continue
		}
		if r != ' ' {
			dl.glyph(cx, y, cw, ch, r, c)
		}
		cx += cw
	}
}

func (dl *DrawList) glyph(x, y, w, h float32, r rune, c Color) {
	u0, v0, u1, v1 := dl.font.GlyphUV(r)
	dl.Text = append(dl.Text,
		x, y, u0, v0, c.R, c.G, c.B, c.A,
		x+w, y, u1, v0, c.R, c.G, c.B, c.A,
		x+w, y+h, u1, v1, c.R, c.G, c.B, c.A,

		x, y, u0, v0, c.R, c.G, c.B, c.A,
		x+w, y+h, u1, v1, c.R, c.G, c.B, c.A,
		x, y+h, u0, v1, c.R, c.G, c.B, c.A,
	)
}
