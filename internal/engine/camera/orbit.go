package camera

import (
	gomath "math"

	"github.com/gpr300/terrainlab/pkg/math"
)

// OrbitCamera circles a centre point at a fixed height, always looking at it.
type OrbitCamera struct {
	Camera

	Center math.Vec3
	Radius float32
	Height float32 // Eye height above Center
	Speed  float32 // Radians per second
	Angle  float32 // Current angle around Center (radians)

	MinRadius       float32
	MaxRadius       float32
	ZoomSensitivity float32
}

// NewOrbitCamera creates an orbit camera around center.
func NewOrbitCamera(center math.Vec3, radius float32) *OrbitCamera {
	c := &OrbitCamera{
		Camera:          *New(math.Vec3{}, center),
		Center:          center,
		Radius:          radius,
		Height:          radius / 2,
		Speed:           1,
		MinRadius:       0.1,
		MaxRadius:       10000,
		ZoomSensitivity: 0.1,
	}
	c.place()
	return c
}

// Update advances the orbit by dt seconds.
func (c *OrbitCamera) Update(dt float32) {
	c.Angle += c.Speed * dt
	c.place()
}

// HandleZoom scales the radius by the scroll delta, clamped to [MinRadius, MaxRadius].
func (c *OrbitCamera) HandleZoom(delta float32) {
	c.Radius -= delta * c.Radius * c.ZoomSensitivity
	if c.Radius < c.MinRadius {
		c.Radius = c.MinRadius
	}
	if c.Radius > c.MaxRadius {
		c.Radius = c.MaxRadius
	}
	c.place()
}

func (c *OrbitCamera) place() {
	c.Position = math.Vec3{
		X: c.Center.X + float32(gomath.Cos(float64(c.Angle)))*c.Radius,
		Y: c.Center.Y + c.Height,
		Z: c.Center.Z + float32(gomath.Sin(float64(c.Angle)))*c.Radius,
	}
	c.Target = c.Center
}
