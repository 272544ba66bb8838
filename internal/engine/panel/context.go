// Package panel is a small immediate-mode UI for the viewer's settings
// window. Widgets append geometry to a DrawList; Renderer draws it with GL.
package panel

import (
	"fmt"
	"strconv"
)

const (
	titleBarH  = 22
	padding    = 8
	spacing    = 4
	defaultRow = 20
	textScale  = 1
)

// Context is the main UI context that manages layout and input.
type Context struct {
	font  *Font
	list  *DrawList
	input InputState

	width, height float32

	windows map[string]*windowState
	current *windowState

	// Widget holding the mouse, e.g. a dragged slider or title bar
	active string
	// Whether the mouse is over a window this frame
	hovering bool

	cursorX, cursorY float32
	rowH             float32
}

type windowState struct {
	id        string
	X, Y      float32
	W, H      float32
	Collapsed bool

	bgIndex int
}

// NewContext creates a UI context drawing text with font.
func NewContext(font *Font) *Context {
	return &Context{
		font:    font,
		list:    NewDrawList(font),
		windows: make(map[string]*windowState),
	}
}

// Input returns the input state for the caller to update before Begin.
func (c *Context) Input() *InputState {
	return &c.input
}

// Begin starts a new UI frame for a screen of the given size.
func (c *Context) Begin(width, height float32) {
	c.width, c.height = width, height
	c.input.update()
	c.list.Reset()
	c.hovering = false
	if c.input.Released {
		c.active = ""
	}
}

// End finishes the frame and returns its geometry.
func (c *Context) End() *DrawList {
	c.current = nil
	return c.list
}

// WantsMouse reports whether the last frame's UI owns the mouse, so clicks
// should not reach the scene.
func (c *Context) WantsMouse() bool {
	return c.hovering || c.active != ""
}

// BeginWindow starts a window at (x, y) on first use. The title bar drags the
// window and its [-] box collapses it. Returns false while collapsed; in
// that case EndWindow must still be called.
func (c *Context) BeginWindow(id, title string, x, y, w float32) bool {
	ws, ok := c.windows[id]
	if !ok {
		ws = &windowState{id: id, X: x, Y: y, W: w, H: titleBarH}
		c.windows[id] = ws
	}
	c.current = ws
	in := &c.input

	if (Rect{ws.X, ws.Y, ws.W, ws.H}).Contains(in.MouseX, in.MouseY) {
		c.hovering = true
	}

	toggle := Rect{ws.X + ws.W - titleBarH, ws.Y, titleBarH, titleBarH}
	bar := Rect{ws.X, ws.Y, ws.W - titleBarH, titleBarH}
	dragID := id + "#title"
	switch {
	case toggle.Contains(in.MouseX, in.MouseY) && in.takeClick():
		ws.Collapsed = !ws.Collapsed
	case bar.Contains(in.MouseX, in.MouseY) && in.takeClick():
		c.active = dragID
	}
	if c.active == dragID && in.MouseDown {
		ws.X = clampf(ws.X+in.DeltaX, 0, maxf(c.width-ws.W, 0))
		ws.Y = clampf(ws.Y+in.DeltaY, 0, maxf(c.height-titleBarH, 0))
	}

	// Background is patched to the real height in EndWindow
	ws.bgIndex = len(c.list.Solid)
	c.list.Panel(ws.X, ws.Y, ws.W, ws.H, ColorPanelBg, ColorPanelBorder)

	c.list.Rect(ws.X+1, ws.Y+1, ws.W-2, titleBarH-1, ColorButtonNormal)
	_, th := c.font.MeasureText(title, textScale)
	c.list.Text(ws.X+padding, ws.Y+(titleBarH-th)/2, title, textScale, ColorText)
	mark := "-"
	if ws.Collapsed {
		mark = "+"
	}
	c.list.Text(toggle.X+(titleBarH-7)/2, ws.Y+(titleBarH-th)/2, mark, textScale, ColorText)

	c.cursorX = ws.X + padding
	c.cursorY = ws.Y + titleBarH + padding
	c.rowH = 0
	return !ws.Collapsed
}

// EndWindow closes the current window and sizes it to its content.
func (c *Context) EndWindow() {
	ws := c.current
	if ws == nil {
		return
	}
	h := float32(titleBarH)
	if !ws.Collapsed {
		h = c.cursorY + c.rowH + padding - ws.Y
	}
	ws.H = h

	bg := NewDrawList(nil)
	bg.Panel(ws.X, ws.Y, ws.W, ws.H, ColorPanelBg, ColorPanelBorder)
	copy(c.list.Solid[ws.bgIndex:], bg.Solid)

	c.current = nil
}

// Row moves the cursor to a new line of the given height.
func (c *Context) Row(height float32) {
	if c.current == nil {
		return
	}
	if height <= 0 {
		height = defaultRow
	}
	c.cursorX = c.current.X + padding
	if c.rowH > 0 {
		c.cursorY += c.rowH + spacing
	}
	c.rowH = height
}

// Separator draws a horizontal line and starts a fresh row.
func (c *Context) Separator() {
	if c.current == nil {
		return
	}
	c.cursorY += c.rowH + spacing
	c.rowH = 0
	x := c.current.X + padding
	c.list.Rect(x, c.cursorY, c.current.W-2*padding, 1, ColorPanelBorder)
	c.cursorY += spacing
	c.cursorX = x
}

// place reserves width pixels in the current row; 0 takes the rest of it.
func (c *Context) place(width float32) Rect {
	if c.rowH == 0 {
		c.Row(defaultRow)
	}
	if width <= 0 {
		width = c.current.X + c.current.W - padding - c.cursorX
	}
	r := Rect{c.cursorX, c.cursorY, width, c.rowH}
	c.cursorX += width + spacing
	return r
}

func (c *Context) widgetID(id string) string {
	return c.current.id + "/" + id
}

func (c *Context) textIn(r Rect, text string, col Color, centred bool) {
	tw, th := c.font.MeasureText(text, textScale)
	x := r.X + spacing
	if centred {
		x = r.X + (r.W-tw)/2
	}
	c.list.Text(x, r.Y+(r.H-th)/2, text, textScale, col)
}

// Label draws a text label sized to its content.
func (c *Context) Label(text string) {
	c.LabelColored(text, ColorText)
}

// LabelColored draws a text label with a specific color.
func (c *Context) LabelColored(text string, col Color) {
	if c.current == nil {
		return
	}
	tw, th := c.font.MeasureText(text, textScale)
	r := c.place(tw)
	c.list.Text(r.X, r.Y+(r.H-th)/2, text, textScale, col)
}

// Button draws a button and returns true on the frame it is pressed.
func (c *Context) Button(id, label string, width float32) bool {
	if c.current == nil {
		return false
	}
	r := c.place(width)
	hovered := r.Contains(c.input.MouseX, c.input.MouseY)
	clicked := hovered && c.input.takeClick()

	col := ColorButtonNormal
	if clicked || (hovered && c.input.MouseDown) {
		col = ColorButtonActive
	} else if hovered {
		col = ColorButtonHover
	}
	c.list.Rect(r.X, r.Y, r.W, r.H, col)
	c.list.RectOutline(r.X, r.Y, r.W, r.H, 1, ColorPanelBorder)
	c.textIn(r, label, ColorText, true)
	return clicked
}

// Checkbox toggles *v when clicked and reports whether it changed.
func (c *Context) Checkbox(id, label string, v *bool) bool {
	if c.current == nil {
		return false
	}
	r := c.place(0)
	box := Rect{r.X, r.Y + (r.H-14)/2, 14, 14}

	changed := false
	if r.Contains(c.input.MouseX, c.input.MouseY) && c.input.takeClick() {
		*v = !*v
		changed = true
	}

	c.list.Rect(box.X, box.Y, box.W, box.H, ColorTrack)
	c.list.RectOutline(box.X, box.Y, box.W, box.H, 1, ColorPanelBorder)
	if *v {
		c.list.Rect(box.X+3, box.Y+3, box.W-6, box.H-6, ColorHighlight)
	}
	c.textIn(Rect{box.X + box.W, r.Y, r.W - box.W, r.H}, label, ColorText, false)
	return changed
}

// SliderFloat edits *v in [lo, hi] by dragging and reports whether it changed.
func (c *Context) SliderFloat(id, label string, v *float32, lo, hi float32) bool {
	if c.current == nil || hi <= lo {
		return false
	}
	return c.slider(id, label, v, lo, hi, 0)
}

// SliderFloat3 edits the three components of *v side by side, sharing the
// rest of the row. Reports whether any changed.
func (c *Context) SliderFloat3(id string, labels [3]string, v *[3]float32, lo, hi float32) bool {
	if c.current == nil || hi <= lo {
		return false
	}
	if c.rowH == 0 {
		c.Row(defaultRow)
	}
	rest := c.current.X + c.current.W - padding - c.cursorX
	w := (rest - 2*spacing) / 3

	changed := false
	for i := range v {
		if c.slider(fmt.Sprintf("%s/%d", id, i), labels[i], &v[i], lo, hi, w) {
			changed = true
		}
	}
	return changed
}

// ColorEdit shows a swatch of *col followed by red, green and blue sliders.
func (c *Context) ColorEdit(id string, col *[3]float32) bool {
	if c.current == nil {
		return false
	}
	c.Swatch(*col, 20)
	return c.SliderFloat3(id, [3]string{"R", "G", "B"}, col, 0, 1)
}

func (c *Context) slider(id, label string, v *float32, lo, hi, width float32) bool {
	r := c.place(width)
	changed := false
	if t, ok := c.drag(id, r); ok {
		if nv := lo + t*(hi-lo); nv != *v {
			*v = nv
			changed = true
		}
	}

	c.track(r, clampf((*v-lo)/(hi-lo), 0, 1), label+": "+formatFloat(*v))
	return changed
}

// SliderInt edits *v in [lo, hi] by dragging and reports whether it changed.
func (c *Context) SliderInt(id, label string, v *int, lo, hi int) bool {
	if c.current == nil || hi <= lo {
		return false
	}
	r := c.place(0)
	changed := false
	if t, ok := c.drag(id, r); ok {
		if nv := lo + int(t*float32(hi-lo)+0.5); nv != *v {
			*v = nv
			changed = true
		}
	}

	t := clampf(float32(*v-lo)/float32(hi-lo), 0, 1)
	c.track(r, t, fmt.Sprintf("%s: %d", label, *v))
	return changed
}

// drag grabs the slider on press and returns the mouse position across r as
// t in [0, 1] while the button stays down.
func (c *Context) drag(id string, r Rect) (float32, bool) {
	wid := c.widgetID(id)
	if r.Contains(c.input.MouseX, c.input.MouseY) && c.input.takeClick() {
		c.active = wid
	}
	if c.active != wid || !c.input.MouseDown {
		return 0, false
	}
	return clampf((c.input.MouseX-r.X)/r.W, 0, 1), true
}

func (c *Context) track(r Rect, t float32, text string) {
	c.list.Rect(r.X, r.Y, r.W, r.H, ColorTrack)
	c.list.Rect(r.X, r.Y, r.W*t, r.H, ColorButtonActive)
	c.list.RectOutline(r.X, r.Y, r.W, r.H, 1, ColorPanelBorder)
	c.textIn(r, text, ColorText, false)
}

// Tabs draws one button per label across the row and keeps *selected on the
// pressed one. Reports whether the selection changed.
func (c *Context) Tabs(id string, labels []string, selected *int) bool {
	if c.current == nil || len(labels) == 0 {
		return false
	}
	c.Row(defaultRow)
	inner := c.current.W - 2*padding
	w := (inner - spacing*float32(len(labels)-1)) / float32(len(labels))

	changed := false
	for i, l := range labels {
		r := c.place(w)
		if i == *selected {
			c.list.Rect(r.X, r.Y, r.W, r.H, ColorButtonActive)
		} else {
			c.list.Rect(r.X, r.Y, r.W, r.H, ColorButtonNormal)
		}
		c.list.RectOutline(r.X, r.Y, r.W, r.H, 1, ColorPanelBorder)
		c.textIn(r, l, ColorText, true)

		if i != *selected && r.Contains(c.input.MouseX, c.input.MouseY) && c.input.takeClick() {
			*selected = i
			changed = true
		}
	}
	return changed
}

// Swatch draws a solid color box of the given width.
func (c *Context) Swatch(col [3]float32, width float32) {
	if c.current == nil {
		return
	}
	r := c.place(width)
	c.list.Rect(r.X, r.Y, r.W, r.H, RGB(col))
	c.list.RectOutline(r.X, r.Y, r.W, r.H, 1, ColorPanelBorder)
}

func formatFloat(v float32) string {
	return strconv.FormatFloat(float64(v), 'f', 3, 32)
}

func clampf(v, lo, hi float32) float32 {
	if v < lo {
		return lo
	}
	if v > hi {
		return hi
	}
	return v
}

func maxf(a, b float32) float32 {
	if a > b {
		return a
	}
	return b
}
