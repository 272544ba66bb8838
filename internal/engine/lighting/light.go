// Package lighting describes the lights and material used to shade the terrain.
package lighting

import (
	"errors"
	"fmt"
	gomath "math"

	"github.com/gpr300/terrainlab/pkg/math"
)

// ErrInvalidLight is returned by Validate.
var ErrInvalidLight = errors.New("invalid light")

// Kind selects which fields of a Light are meaningful.
type Kind int

const (
	Ambient Kind = iota
	Directional
	Point
	Spot
)

func (k Kind) String() string {
	switch k {
	case Ambient:
		return "ambient"
	case Directional:
		return "directional"
	case Point:
		return "point"
	case Spot:
		return "spot"
	}
	return fmt.Sprintf("Kind(%d)", int(k))
}

// Light is a single light source. Position is used by point and spot lights,
// Direction by directional and spot lights.
type Light struct {
	Kind      Kind
	Color     [3]float32
	Intensity float32

	Position  math.Vec3
	Direction math.Vec3

	// Point and spot distance falloff: 1 / (Constant + Linear*d + Quadratic*d^2)
	Constant  float32
	Linear    float32
	Quadratic float32

	// Spot cone in degrees. Full intensity inside Penumbra, zero outside Umbra.
	Penumbra float32
	Umbra    float32
	Exponent float32
}

// NewAmbient returns a white ambient light.
func NewAmbient() Light {
	return Light{Kind: Ambient, Color: [3]float32{1, 1, 1}, Intensity: 1}
}

// NewDirectional returns a white light shining straight down.
func NewDirectional() Light {
	return Light{
		Kind:      Directional,
		Color:     [3]float32{1, 1, 1},
		Intensity: 1,
		Direction: math.Vec3{X: 0, Y: -1, Z: 0},
	}
}

// NewPoint returns a red point light at pos.
func NewPoint(pos math.Vec3) Light {
	return Light{
		Kind:      Point,
		Color:     [3]float32{1, 0, 0},
		Intensity: 1,
		Position:  pos,
		Constant:  0.3,
		Linear:    0.3,
		Quadratic: 0.3,
	}
}

// NewSpot returns a blue spot light at pos aimed straight down.
func NewSpot(pos math.Vec3) Light {
	return Light{
		Kind:      Spot,
		Color:     [3]float32{0, 0, 1},
		Intensity: 1,
		Position:  pos,
		Direction: math.Vec3{X: 0, Y: -1, Z: 0},
		Constant:  0.3,
		Linear:    0.3,
		Quadratic: 0.3,
		Penumbra:  32,
		Umbra:     39,
		Exponent:  1,
	}
}

// Validate checks the fields the light's kind reads.
func (l Light) Validate() error {
	if l.Intensity < 0 {
		return fmt.Errorf("%w: %s intensity %v", ErrInvalidLight, l.Kind, l.Intensity)
	}
	switch l.Kind {
	case Ambient:
	case Directional:
		if l.Direction.Length() == 0 || !l.Direction.IsFinite() {
			return fmt.Errorf("%w: directional light needs a direction", ErrInvalidLight)
		}
	case Point:
		if err := l.validateFalloff(); err != nil {
			return err
		}
	case Spot:
		if l.Direction.Length() == 0 || !l.Direction.IsFinite() {
			return fmt.Errorf("%w: spot light needs a direction", ErrInvalidLight)
		}
		if err := l.validateFalloff(); err != nil {
			return err
		}
		if l.Penumbra < 0 || l.Penumbra > l.Umbra || l.Umbra >= 180 {
			return fmt.Errorf("%w: spot cone penumbra=%v umbra=%v", ErrInvalidLight, l.Penumbra, l.Umbra)
		}
		if l.Exponent < 0 {
			return fmt.Errorf("%w: spot exponent %v", ErrInvalidLight, l.Exponent)
		}
	default:
		return fmt.Errorf("%w: unknown kind %d", ErrInvalidLight, int(l.Kind))
	}
	return nil
}

func (l Light) validateFalloff() error {
	if l.Constant < 0 || l.Linear < 0 || l.Quadratic < 0 {
		return fmt.Errorf("%w: negative falloff coefficient", ErrInvalidLight)
	}
	if l.Constant+l.Linear+l.Quadratic == 0 {
		return fmt.Errorf("%w: falloff coefficients are all zero", ErrInvalidLight)
	}
	return nil
}

// Attenuation returns the distance falloff factor. Ambient and directional
// lights do not fall off.
func (l Light) Attenuation(distance float32) float32 {
	if l.Kind != Point && l.Kind != Spot {
		return 1
	}
	denom := l.Constant + l.Linear*distance + l.Quadratic*distance*distance
	if denom <= 0 {
		return 1
	}
	return 1 / denom
}

// SpotFactor returns the cone intensity in [0, 1] for a fragment in direction
// toFragment from the light. Non-spot lights return 1.
func (l Light) SpotFactor(toFragment math.Vec3) float32 {
	if l.Kind != Spot {
		return 1
	}
	cosTheta := toFragment.Normalize().Dot(l.Direction.Normalize())
	minCos := cosDeg(l.Penumbra)
	maxCos := cosDeg(l.Umbra)

	if cosTheta >= minCos {
		return 1
	}
	if cosTheta <= maxCos || minCos == maxCos {
		return 0
	}
	t := (cosTheta - maxCos) / (minCos - maxCos)
	return float32(gomath.Pow(float64(t), float64(l.Exponent)))
}

// MinAngleCos and MaxAngleCos are the cone bounds in the form the shader uses.
func (l Light) MinAngleCos() float32 { return cosDeg(l.Penumbra) }
func (l Light) MaxAngleCos() float32 { return cosDeg(l.Umbra) }

func cosDeg(deg float32) float32 {
	return float32(gomath.Cos(float64(math.Radians(deg))))
}

// Material holds the Phong coefficients applied to the terrain surface.
type Material struct {
	Color     [3]float32
	Ambient   float32 // Coefficients in [0, 1]
	Diffuse   float32
	Specular  float32
	Shininess float32
}

// DefaultMaterial returns a white, mostly diffuse material.
func DefaultMaterial() Material {
	return Material{
		Color:     [3]float32{1, 1, 1},
		Ambient:   0.1,
		Diffuse:   0.5,
		Specular:  0.5,
		Shininess: 8,
	}
}
