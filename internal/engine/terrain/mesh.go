package terrain

import (
	"fmt"
	gomath "math"
)

// MaxResolution keeps 4*Resolution^2 vertex indices inside uint32.
const MaxResolution = 16384

// Per-cell UV rectangle, in corner order. Every cell carries the full texture.
var cellUVs = [4][2]float32{{0, 0}, {0, 1}, {1, 1}, {1, 0}}

// BuildGrid creates a flat terrain grid at y = 0 from the config dimensions.
// Height range and redistribution are ignored.
func BuildGrid(cfg Config) (*Mesh, error) {
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return buildCells(cfg, func(gx, gy int) float32 { return 0 }), nil
}

// Build creates a terrain mesh displaced by the heightmap's red channel.
//
// The grid has cfg.Resolution cells per side. Grid point (gx, gy) samples the
// heightmap at (gx/res, gy/res); the last row and column land on u or v = 1
// and clamp to the final texel.
func Build(cfg Config, hm *Heightmap) (*Mesh, error) {
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	if err := hm.Validate(); err != nil {
		return nil, err
	}

	return buildCells(cfg, func(gx, gy int) float32 {
		return cfg.gridHeight(hm, gx, gy)
	}), nil
}

// gridHeight is the height of grid point (gx, gy) in the mesh Build makes
// from c and hm.
func (c Config) gridHeight(hm *Heightmap, gx, gy int) float32 {
	res := float32(c.Resolution)
	return c.HeightAt(hm.Sample(float32(gx)/res, float32(gy)/res))
}

// SurfaceHeight returns the height at world (x, z) of the mesh Build makes
// from c and hm, interpolated across the triangle that contains the point.
// Positions outside the terrain clamp to its edge.
func (c Config) SurfaceHeight(hm *Heightmap, x, z float32) float32 {
	res := c.Resolution
	gx := clampf((x+c.Width/2)/c.Width*float32(res), 0, float32(res))
	gy := clampf((z+c.Length/2)/c.Length*float32(res), 0, float32(res))

	cx := min(int(gx), res-1)
	cy := min(int(gy), res-1)
	fx := gx - float32(cx)
	fy := gy - float32(cy)

	h00 := c.gridHeight(hm, cx, cy)
	h11 := c.gridHeight(hm, cx+1, cy+1)

	// The corner 0 to corner 2 diagonal splits the cell into (0, 1, 2) on
	// the fy >= fx side and (0, 2, 3) on the other.
	if fy >= fx {
		h01 := c.gridHeight(hm, cx, cy+1)
		return h00 + fx*(h11-h01) + fy*(h01-h00)
	}
	h10 := c.gridHeight(hm, cx+1, cy)
	return h00 + fx*(h10-h00) + fy*(h11-h10)
}

// HeightAt maps a red sample to world height: (red/255)^Redistribution remapped
// into [MinHeight, MaxHeight].
func (c Config) HeightAt(red uint8) float32 {
	n := gomath.Pow(float64(red)/255, float64(c.Redistribution))
	return c.MinHeight + float32(n)*(c.MaxHeight-c.MinHeight)
}

// buildCells emits 4 vertices and 6 indices per cell, in row-major order.
// Corners are not shared between cells.
func buildCells(cfg Config, height func(gx, gy int) float32) *Mesh {
	res := cfg.Resolution
	cellWidth := cfg.Width / float32(res)
	cellLength := cfg.Length / float32(res)
	halfWidth := cfg.Width / 2
	halfLength := cfg.Length / 2

	// Each grid point is shared by up to four cells; sample it once.
	stride := res + 1
	heights := make([]float32, stride*stride)
	for gy := 0; gy <= res; gy++ {
		for gx := 0; gx <= res; gx++ {
			heights[gy*stride+gx] = height(gx, gy)
		}
	}

	point := func(gx, gy int) [3]float32 {
		return [3]float32{
			-halfWidth + float32(gx)*cellWidth,
			heights[gy*stride+gx],
			-halfLength + float32(gy)*cellLength,
		}
	}

	vertices := make([]Vertex, 0, 4*res*res)
	indices := make([]uint32, 0, 6*res*res)

	for y := range res {
		for x := range res {
			// Clockwise viewed from above:
			//   1 ____ 2
			//    |   /|
			//    |  / |
			//    | /  |
			//   0 ---- 3
			corners := [4][3]float32{
				point(x, y),
				point(x, y+1),
				point(x+1, y+1),
				point(x+1, y),
			}

			base := uint32(len(vertices))
			for i, c := range corners {
				vertices = append(vertices, Vertex{Position: c, UV: cellUVs[i]})
			}

			indices = append(indices,
				base, base+1, base+2,
				base, base+2, base+3,
			)
		}
	}

	return &Mesh{
		Vertices: vertices,
		Indices:  indices,
		Bounds:   computeBounds(vertices),
	}
}

// Validate checks the triangle-list invariants.
func (m *Mesh) Validate() error {
	if len(m.Indices)%3 != 0 {
		return fmt.Errorf("index count %d is not a multiple of 3", len(m.Indices))
	}
	n := uint32(len(m.Vertices))
	for i, idx := range m.Indices {
		if idx >= n {
			return fmt.Errorf("index %d at %d out of range (%d vertices)", idx, i, n)
		}
	}
	return nil
}

// TriangleCount returns the number of triangles.
func (m *Mesh) TriangleCount() int {
	return len(m.Indices) / 3
}

// Interleaved flattens the vertices as x, y, z, u, v per vertex.
func (m *Mesh) Interleaved() []float32 {
	out := make([]float32, 0, len(m.Vertices)*FloatsPerVertex)
	for _, v := range m.Vertices {
		out = append(out, v.Position[0], v.Position[1], v.Position[2], v.UV[0], v.UV[1])
	}
	return out
}

// Heights returns the raw (uncoloured) height of each vertex.
func (m *Mesh) Heights() []float32 {
	out := make([]float32, len(m.Vertices))
	for i, v := range m.Vertices {
		out[i] = v.Position[1]
	}
	return out
}

// NormalizedHeight maps h from [minHeight, maxHeight] into [0, 1], clamped.
// A zero-width range maps everything to 0.
func NormalizedHeight(h, minHeight, maxHeight float32) float32 {
	span := maxHeight - minHeight
	if span == 0 {
		return 0
	}
	return clampf((h-minHeight)/span, 0, 1)
}

func computeBounds(vertices []Vertex) Bounds {
	if len(vertices) == 0 {
		return Bounds{}
	}
	b := Bounds{Min: vertices[0].Position, Max: vertices[0].Position}
	for _, v := range vertices[1:] {
		updateBounds(&b, v.Position)
	}
	return b
}

func updateBounds(b *Bounds, p [3]float32) {
	for i := range 3 {
		if p[i] < b.Min[i] {
			b.Min[i] = p[i]
		}
		if p[i] > b.Max[i] {
			b.Max[i] = p[i]
		}
	}
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
