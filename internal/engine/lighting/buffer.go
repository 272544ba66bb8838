package lighting

// MaxLightsPerKind is the array size of each light kind in the terrain shader.
const MaxLightsPerKind = 8

// Buffer groups lights by kind for GPU upload.
type Buffer struct {
	lights [4][]Light
}

// NewBuffer creates an empty light buffer.
func NewBuffer() *Buffer {
	b := &Buffer{}
	for k := range b.lights {
		b.lights[k] = make([]Light, 0, MaxLightsPerKind)
	}
	return b
}

// Clear removes all lights.
func (b *Buffer) Clear() {
	for k := range b.lights {
		b.lights[k] = b.lights[k][:0]
	}
}

// Add appends a light. Returns false if its kind is full or the light is invalid.
func (b *Buffer) Add(l Light) bool {
	if l.Validate() != nil {
		return false
	}
	if len(b.lights[l.Kind]) >= MaxLightsPerKind {
		return false
	}
	b.lights[l.Kind] = append(b.lights[l.Kind], l)
	return true
}

// SetLights replaces the contents, dropping lights that do not fit.
// Returns how many were kept.
func (b *Buffer) SetLights(lights []Light) int {
	b.Clear()
	kept := 0
	for _, l := range lights {
		if b.Add(l) {
			kept++
		}
	}
	return kept
}

// Count returns the number of lights of the given kind.
func (b *Buffer) Count(k Kind) int {
	return len(b.lights[k])
}

// Lights returns the lights of the given kind.
func (b *Buffer) Lights(k Kind) []Light {
	return b.lights[k]
}

// AmbientColor sums every ambient light, scaled by intensity.
func (b *Buffer) AmbientColor() [3]float32 {
	var c [3]float32
	for _, l := range b.lights[Ambient] {
		for i := range c {
			c[i] += l.Color[i] * l.Intensity
		}
	}
	return c
}

// Positions returns x, y, z per light, padded to MaxLightsPerKind.
func (b *Buffer) Positions(k Kind) []float32 {
	out := make([]float32, MaxLightsPerKind*3)
	for i, l := range b.lights[k] {
		out[i*3+0] = l.Position.X
		out[i*3+1] = l.Position.Y
		out[i*3+2] = l.Position.Z
	}
	return out
}

// Directions returns the normalized direction per light, padded.
func (b *Buffer) Directions(k Kind) []float32 {
	out := make([]float32, MaxLightsPerKind*3)
	for i, l := range b.lights[k] {
		d := l.Direction.Normalize()
		out[i*3+0] = d.X
		out[i*3+1] = d.Y
		out[i*3+2] = d.Z
	}
	return out
}

// Colors returns color * intensity per light, padded.
func (b *Buffer) Colors(k Kind) []float32 {
	out := make([]float32, MaxLightsPerKind*3)
	for i, l := range b.lights[k] {
		out[i*3+0] = l.Color[0] * l.Intensity
		out[i*3+1] = l.Color[1] * l.Intensity
		out[i*3+2] = l.Color[2] * l.Intensity
	}
	return out
}

// Falloff returns constant, linear, quadratic per light, padded.
func (b *Buffer) Falloff(k Kind) []float32 {
	out := make([]float32, MaxLightsPerKind*3)
	for i, l := range b.lights[k] {
		out[i*3+0] = l.Constant
		out[i*3+1] = l.Linear
		out[i*3+2] = l.Quadratic
	}
	return out
}

// Cones returns min angle cos, max angle cos, exponent per spot light, padded.
func (b *Buffer) Cones() []float32 {
	out := make([]float32, MaxLightsPerKind*3)
	for i, l := range b.lights[Spot] {
		out[i*3+0] = l.MinAngleCos()
		out[i*3+1] = l.MaxAngleCos()
		out[i*3+2] = l.Exponent
	}
	return out
}
