package camera

import (
	gomath "math"

	"github.com/gpr300/terrainlab/pkg/math"
)

// Pitch is clamped short of straight up/down so forward never becomes parallel to WorldUp.
const maxPitch = 89

// FlyCamera is a free-look camera driven by yaw and pitch in degrees.
// Its target is always one unit in front of Position.
type FlyCamera struct {
	Camera

	Yaw   float32
	Pitch float32

	MoveSpeed   float32 // World units per second
	Sensitivity float32 // Degrees per pixel of mouse movement
	ZoomSpeed   float32 // Degrees of FOV per scroll step
}

// NewFlyCamera creates a fly camera at position looking down -Z.
func NewFlyCamera(position math.Vec3) *FlyCamera {
	c := &FlyCamera{
		Camera:      *New(position, position.Add(math.Vec3{Z: -1})),
		Yaw:         -90,
		MoveSpeed:   15,
		Sensitivity: 0.1,
		ZoomSpeed:   3,
	}
	c.aim()
	return c
}

// Forward returns the unit view direction for the current yaw and pitch.
func (c *FlyCamera) Forward() math.Vec3 {
	yaw := float64(math.Radians(c.Yaw))
	pitch := float64(math.Radians(c.Pitch))
	return math.Vec3{
		X: float32(gomath.Cos(yaw) * gomath.Cos(pitch)),
		Y: float32(gomath.Sin(pitch)),
		Z: float32(gomath.Sin(yaw) * gomath.Cos(pitch)),
	}.Normalize()
}

// Right returns the horizontal right vector.
func (c *FlyCamera) Right() math.Vec3 {
	return c.Forward().Cross(WorldUp).Normalize()
}

// Look applies a mouse delta in pixels. Positive dy looks up.
func (c *FlyCamera) Look(dx, dy float32) {
	c.Yaw += dx * c.Sensitivity
	c.Pitch += dy * c.Sensitivity
	if c.Pitch > maxPitch {
		c.Pitch = maxPitch
	}
	if c.Pitch < -maxPitch {
		c.Pitch = -maxPitch
	}
	c.aim()
}

// Move translates the camera along forward, right and world up, scaled by dt.
func (c *FlyCamera) Move(forward, right, up, dt float32) {
	step := c.MoveSpeed * dt
	delta := c.Forward().Scale(forward * step).
		Add(c.Right().Scale(right * step)).
		Add(WorldUp.Scale(up * step))
	c.Position = c.Position.Add(delta)
	c.aim()
}

// Zoom narrows the field of view for positive delta, keeping it inside (0, 180).
func (c *FlyCamera) Zoom(delta float32) {
	c.FOV -= delta * c.ZoomSpeed
	if c.FOV < 1 {
		c.FOV = 1
	}
	if c.FOV > 179 {
		c.FOV = 179
	}
}

func (c *FlyCamera) aim() {
	c.Target = c.Position.Add(c.Forward())
}
