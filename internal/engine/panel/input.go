package panel

// InputState holds the mouse as the panel sees it for one frame.
type InputState struct {
	MouseX, MouseY float32
	MouseDown      bool

	// Edges, valid between Context.Begin and Context.End
	Pressed  bool
	Released bool
	DeltaX   float32
	DeltaY   float32

	prevDown   bool
	prevX      float32
	prevY      float32
	clickTaken bool
}

// update derives this frame's edges from the raw values.
func (i *InputState) update() {
	i.DeltaX = i.MouseX - i.prevX
	i.DeltaY = i.MouseY - i.prevY
	i.Pressed = i.MouseDown && !i.prevDown
	i.Released = !i.MouseDown && i.prevDown
	i.clickTaken = false

	i.prevDown = i.MouseDown
	i.prevX = i.MouseX
	i.prevY = i.MouseY
}

// takeClick consumes the press so only one widget reacts to it.
func (i *InputState) takeClick() bool {
	if !i.Pressed || i.clickTaken {
		return false
	}
	i.clickTaken = true
	return true
}

// Rect is a simple rectangle struct.
type Rect struct {
	X, Y, W, H float32
}

// Contains checks if a point is inside the rectangle.
func (r Rect) Contains(x, y float32) bool {
	return x >= r.X && x < r.X+r.W && y >= r.Y && y < r.Y+r.H
}
