package terrain

import (
	"errors"
	"fmt"
	"os"

	"gopkg.in/yaml.v3"
)

// MaxColorBands matches the size of the colour arrays in the terrain shader.
const MaxColorBands = 32

// ErrTooManyBands is returned when adding past MaxColorBands.
var ErrTooManyBands = errors.New("too many colour bands")

// ColorBand colours every normalized height up to and including Threshold.
type ColorBand struct {
	Threshold float32    `yaml:"threshold"`
	Color     [3]float32 `yaml:"color"`
}

// ColorBands is an ordered palette. Thresholds are non-decreasing and the last
// one is always 1.
type ColorBands struct {
	bands []ColorBand
}

// DefaultColorBands returns the water-to-snow palette.
func DefaultColorBands() ColorBands {
	return ColorBands{bands: []ColorBand{
		{0.04, [3]float32{0, 0.031, 0.678}},     // Deep water
		{0.10, [3]float32{0, 0.608, 0.961}},     // Water
		{0.18, [3]float32{1, 0.945, 0.475}},     // Sand
		{0.28, [3]float32{0.631, 0.427, 0.192}}, // Light dirt
		{0.40, [3]float32{0, 0.431, 0.027}},     // Dark grass
		{0.50, [3]float32{0.329, 0.878, 0.349}}, // Grass
		{0.55, [3]float32{0.627, 0.71, 0.467}},  // Dead grass
		{0.60, [3]float32{0.361, 0.361, 0.361}}, // Dark rock
		{1, [3]float32{1, 1, 1}},                // Snow
	}}
}

// NewColorBands validates bands and pins the last threshold to 1.
func NewColorBands(bands []ColorBand) (ColorBands, error) {
	if len(bands) == 0 {
		return ColorBands{}, fmt.Errorf("%w: at least one colour band is required", ErrInvalidConfig)
	}
	if len(bands) > MaxColorBands {
		return ColorBands{}, fmt.Errorf("%w: %d bands, max %d", ErrTooManyBands, len(bands), MaxColorBands)
	}

	prev := float32(0)
	for i, b := range bands {
		if !finite(b.Threshold) || b.Threshold < prev || b.Threshold > 1 {
			return ColorBands{}, fmt.Errorf("%w: band %d threshold %v must be in [%v, 1]", ErrInvalidConfig, i, b.Threshold, prev)
		}
		prev = b.Threshold
	}

	cb := ColorBands{bands: append([]ColorBand(nil), bands...)}
	cb.bands[len(cb.bands)-1].Threshold = 1
	return cb, nil
}

// LoadColorBands reads a YAML list of bands.
func LoadColorBands(path string) (ColorBands, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return ColorBands{}, err
	}
	var bands []ColorBand
	if err := yaml.Unmarshal(data, &bands); err != nil {
		return ColorBands{}, fmt.Errorf("parsing %s: %w", path, err)
	}
	return NewColorBands(bands)
}

// Len returns the number of bands.
func (cb ColorBands) Len() int {
	return len(cb.bands)
}

// Band returns band i.
func (cb ColorBands) Band(i int) ColorBand {
	return cb.bands[i]
}

// Bands returns a copy of all bands.
func (cb ColorBands) Bands() []ColorBand {
	return append([]ColorBand(nil), cb.bands...)
}

// SetThreshold moves band i's threshold, clamped between its neighbours.
// The last band stays pinned to 1.
func (cb *ColorBands) SetThreshold(i int, t float32) {
	if i < 0 || i >= len(cb.bands) {
		return
	}
	if i == len(cb.bands)-1 {
		cb.bands[i].Threshold = 1
		return
	}

	lo := float32(0)
	if i > 0 {
		lo = cb.bands[i-1].Threshold
	}
	hi := cb.bands[i+1].Threshold
	if !finite(t) {
		t = lo
	}
	cb.bands[i].Threshold = clampf(t, lo, hi)
}

// SetColor replaces band i's colour.
func (cb *ColorBands) SetColor(i int, c [3]float32) {
	if i < 0 || i >= len(cb.bands) {
		return
	}
	cb.bands[i].Color = c
}

// Add appends a copy of the last colour. The previous last band moves halfway
// between its predecessor's threshold and 1.
func (cb *ColorBands) Add() error {
	if len(cb.bands) >= MaxColorBands {
		return ErrTooManyBands
	}
	if len(cb.bands) == 0 {
		cb.bands = append(cb.bands, ColorBand{Threshold: 1, Color: [3]float32{1, 1, 1}})
		return nil
	}

	last := len(cb.bands) - 1
	lower := float32(0)
	if last > 0 {
		lower = cb.bands[last-1].Threshold
	}
	cb.bands[last].Threshold = lower + (1-lower)*0.5
	cb.bands = append(cb.bands, ColorBand{Threshold: 1, Color: cb.bands[last].Color})
	return nil
}

// Remove drops the last band and re-pins the new last threshold to 1.
// The final band is never removed.
func (cb *ColorBands) Remove() bool {
	if len(cb.bands) <= 1 {
		return false
	}
	cb.bands = cb.bands[:len(cb.bands)-1]
	cb.bands[len(cb.bands)-1].Threshold = 1
	return true
}

// ColorFor returns the colour of the first band whose threshold is at least h.
func (cb ColorBands) ColorFor(h float32) [3]float32 {
	for _, b := range cb.bands {
		if h <= b.Threshold {
			return b.Color
		}
	}
	if len(cb.bands) == 0 {
		return [3]float32{}
	}
	return cb.bands[len(cb.bands)-1].Color
}

// Thresholds returns the thresholds for uniform upload.
func (cb ColorBands) Thresholds() []float32 {
	out := make([]float32, len(cb.bands))
	for i, b := range cb.bands {
		out[i] = b.Threshold
	}
	return out
}

// Colors returns the colours flattened as r, g, b triples for uniform upload.
func (cb ColorBands) Colors() []float32 {
	out := make([]float32, 0, 3*len(cb.bands))
	for _, b := range cb.bands {
		out = append(out, b.Color[0], b.Color[1], b.Color[2])
	}
	return out
}
