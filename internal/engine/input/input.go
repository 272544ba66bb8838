// Package input handles SDL2 input events.
package input

import (
	"github.com/veandco/go-sdl2/sdl"
)

// EventType classifies an Event.
type EventType int

const (
	EventNone EventType = iota
	EventQuit
	EventWindowResize
	EventKeyDown
	EventKeyUp
	EventMouseMove
	EventMouseDown
	EventMouseUp
	EventMouseWheel
)

// Event represents a processed input event.
type Event struct {
	Type   EventType
	Key    sdl.Scancode
	Width  int
	Height int
	MouseX int
	MouseY int
	DeltaX int
	DeltaY int
	Wheel  float32
	Button uint8
}

// Input collects the events of one frame and tracks held keys and buttons.
type Input struct {
	events  []Event
	held    map[sdl.Scancode]bool
	buttons map[uint8]bool

	mouseX, mouseY   int
	mouseDX, mouseDY int
	wheel            float32
}

// New creates a new input handler.
func New() *Input {
	return &Input{
		events:  make([]Event, 0, 16),
		held:    make(map[sdl.Scancode]bool),
		buttons: make(map[uint8]bool),
	}
}

// Update polls SDL events for this frame.
// Returns true if the application should quit.
func (i *Input) Update() bool {
	i.events = i.events[:0]
	i.mouseDX, i.mouseDY = 0, 0
	i.wheel = 0

	quit := false
	for event := sdl.PollEvent(); event != nil; event = sdl.PollEvent() {
		e, ok := translate(event)
		if !ok {
			continue
		}
		i.apply(e)
		if e.Type == EventQuit {
			quit = true
		}
	}
	return quit
}

func translate(event sdl.Event) (Event, bool) {
	switch e := event.(type) {
	case *sdl.QuitEvent:
		return Event{Type: EventQuit}, true

	case *sdl.WindowEvent:
		if e.Event == sdl.WINDOWEVENT_RESIZED || e.Event == sdl.WINDOWEVENT_SIZE_CHANGED {
			return Event{Type: EventWindowResize, Width: int(e.Data1), Height: int(e.Data2)}, true
		}

	case *sdl.KeyboardEvent:
		if e.Repeat != 0 {
			return Event{}, false
		}
		if e.Type == sdl.KEYDOWN {
			return Event{Type: EventKeyDown, Key: e.Keysym.Scancode}, true
		}
		return Event{Type: EventKeyUp, Key: e.Keysym.Scancode}, true

	case *sdl.MouseMotionEvent:
		return Event{
			Type:   EventMouseMove,
			MouseX: int(e.X),
			MouseY: int(e.Y),
			DeltaX: int(e.XRel),
			DeltaY: int(e.YRel),
		}, true

	case *sdl.MouseButtonEvent:
		t := EventMouseUp
		if e.Type == sdl.MOUSEBUTTONDOWN {
			t = EventMouseDown
		}
		return Event{Type: t, MouseX: int(e.X), MouseY: int(e.Y), Button: e.Button}, true

	case *sdl.MouseWheelEvent:
		return Event{Type: EventMouseWheel, Wheel: float32(e.Y)}, true
	}
	return Event{}, false
}

func (i *Input) apply(e Event) {
	i.events = append(i.events, e)
	switch e.Type {
	case EventKeyDown:
		i.held[e.Key] = true
	case EventKeyUp:
		delete(i.held, e.Key)
	case EventMouseDown:
		i.buttons[e.Button] = true
		i.mouseX, i.mouseY = e.MouseX, e.MouseY
	case EventMouseUp:
		delete(i.buttons, e.Button)
		i.mouseX, i.mouseY = e.MouseX, e.MouseY
	case EventMouseMove:
		i.mouseX, i.mouseY = e.MouseX, e.MouseY
		i.mouseDX += e.DeltaX
		i.mouseDY += e.DeltaY
	case EventMouseWheel:
		i.wheel += e.Wheel
	}
}

// Events returns the events from the last Update.
func (i *Input) Events() []Event {
	return i.events
}

// IsKeyPressed reports whether the key went down this frame.
func (i *Input) IsKeyPressed(scancode sdl.Scancode) bool {
	for _, e := range i.events {
		if e.Type == EventKeyDown && e.Key == scancode {
			return true
		}
	}
	return false
}

// IsKeyHeld reports whether the key is currently down.
func (i *Input) IsKeyHeld(scancode sdl.Scancode) bool {
	return i.held[scancode]
}

// IsButtonHeld reports whether the mouse button is currently down.
func (i *Input) IsButtonHeld(button uint8) bool {
	return i.buttons[button]
}

// MousePosition returns the last known cursor position in window coordinates.
func (i *Input) MousePosition() (int, int) {
	return i.mouseX, i.mouseY
}

// MouseDelta returns the accumulated relative mouse motion this frame.
func (i *Input) MouseDelta() (int, int) {
	return i.mouseDX, i.mouseDY
}

// Wheel returns the accumulated vertical scroll this frame.
func (i *Input) Wheel() float32 {
	return i.wheel
}

// Axis returns +1 if pos is held, -1 if neg is held, 0 for both or neither.
func (i *Input) Axis(neg, pos sdl.Scancode) float32 {
	var v float32
	if i.held[pos] {
		v++
	}
	if i.held[neg] {
		v--
	}
	return v
}
