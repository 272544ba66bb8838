// Package terrain builds triangulated terrain grids, optionally displaced by a heightmap.
package terrain

import (
	"errors"
	"fmt"
	gomath "math"
)

var (
	// ErrInvalidConfig is returned for a resolution below 1, non-positive extents
	// or a negative redistribution exponent.
	ErrInvalidConfig = errors.New("invalid terrain config")

	// ErrInvalidHeightmap is returned when the heightmap is nil or has no samples.
	ErrInvalidHeightmap = errors.New("invalid heightmap")

	// ErrImageLoad wraps failures to open or decode a heightmap image.
	ErrImageLoad = errors.New("heightmap image load failed")
)

// MaxBlur bounds the heightmap pre-blur sigma. The kernel spans 6*sigma+1 taps.
const MaxBlur = 100

// FloatsPerVertex is the interleaved layout size: 3 position + 2 UV.
const FloatsPerVertex = 5

// Vertex is a terrain vertex. Normals are not generated.
type Vertex struct {
	Position [3]float32
	UV       [2]float32
}

// Mesh holds the terrain mesh data ready for GPU upload.
type Mesh struct {
	Vertices []Vertex
	Indices  []uint32 // Triangle list
	Bounds   Bounds
}

// Bounds holds the axis-aligned bounding box of the terrain.
type Bounds struct {
	Min [3]float32
	Max [3]float32
}

// Config describes the terrain grid and height mapping.
type Config struct {
	Resolution int     `yaml:"resolution"` // Cells per side
	Width      float32 `yaml:"width"`      // World extent along X
	Length     float32 `yaml:"length"`     // World extent along Z
	MinHeight  float32 `yaml:"min_height"`
	MaxHeight  float32 `yaml:"max_height"`

	// Redistribution is applied as normalized^Redistribution before remapping.
	// 1 is linear.
	Redistribution float32 `yaml:"redistribution"`

	// Blur is the heightmap pre-blur radius. Only the image loader reads it.
	Blur float32 `yaml:"blur"`
}

// DefaultConfig returns the settings used by the terrain demo.
func DefaultConfig() Config {
	return Config{
		Resolution:     1000,
		Width:          1000,
		Length:         1000,
		MinHeight:      -20,
		MaxHeight:      120,
		Redistribution: 4,
		Blur:           3,
	}
}

// Validate checks the config before a build.
func (c Config) Validate() error {
	if c.Resolution < 1 {
		return fmt.Errorf("%w: resolution %d must be at least 1", ErrInvalidConfig, c.Resolution)
	}
	if c.Resolution > MaxResolution {
		return fmt.Errorf("%w: resolution %d exceeds %d", ErrInvalidConfig, c.Resolution, MaxResolution)
	}
	if !finite(c.Width) || c.Width <= 0 {
		return fmt.Errorf("%w: width %v must be positive", ErrInvalidConfig, c.Width)
	}
	if !finite(c.Length) || c.Length <= 0 {
		return fmt.Errorf("%w: length %v must be positive", ErrInvalidConfig, c.Length)
	}
	if !finite(c.MinHeight) || !finite(c.MaxHeight) {
		return fmt.Errorf("%w: height range [%v, %v] must be finite", ErrInvalidConfig, c.MinHeight, c.MaxHeight)
	}
	if !finite(c.Redistribution) || c.Redistribution < 0 {
		return fmt.Errorf("%w: redistribution %v must be non-negative", ErrInvalidConfig, c.Redistribution)
	}
	if !finite(c.Blur) || c.Blur < 0 || c.Blur > MaxBlur {
		return fmt.Errorf("%w: blur %v must be in [0, %d]", ErrInvalidConfig, c.Blur, MaxBlur)
	}
	return nil
}

// Cells returns the number of cells in the mesh built from c.
func (c Config) Cells() int {
	return c.Resolution * c.Resolution
}

func finite(v float32) bool {
	f := float64(v)
	return !gomath.IsNaN(f) && !gomath.IsInf(f, 0)
}
