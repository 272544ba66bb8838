package lighting

import (
	gomath "math"

	"github.com/gpr300/terrainlab/pkg/math"
)

// SunDirection converts longitude/latitude angles in degrees to the unit
// vector pointing towards the sun. Longitude rotates around Y starting at +Z,
// latitude is the elevation above the horizon.
func SunDirection(longitude, latitude float32) math.Vec3 {
	lon := float64(math.Radians(longitude))
	lat := float64(math.Radians(latitude))

	return math.Vec3{
		X: float32(gomath.Cos(lat) * gomath.Sin(lon)),
		Y: float32(gomath.Sin(lat)),
		Z: float32(gomath.Cos(lat) * gomath.Cos(lon)),
	}
}

// NewSun returns a directional light shining from the sun position.
func NewSun(longitude, latitude float32) Light {
	l := NewDirectional()
	l.Direction = SunDirection(longitude, latitude).Negate()
	return l
}
