package terrain

import (
	"errors"
	gomath "math"
	"testing"

	"github.com/gpr300/terrainlab/pkg/math"
)

func smallConfig(res int) Config {
	return Config{
		Resolution:     res,
		Width:          2,
		Length:         2,
		MinHeight:      0,
		MaxHeight:      10,
		Redistribution: 1,
	}
}

func TestBuildUniformScenario(t *testing.T) {
	mesh, err := Build(smallConfig(2), Uniform(8, 8, 255))
	if err != nil {
		t.Fatalf("Build: %v", err)
	}

	if len(mesh.Vertices) != 16 {
		t.Errorf("vertex count = %d, want 16", len(mesh.Vertices))
	}
	if len(mesh.Indices) != 24 {
		t.Errorf("index count = %d, want 24", len(mesh.Indices))
	}
	for i, v := range mesh.Vertices {
		if v.Position[1] != 10 {
			t.Errorf("vertex %d height = %v, want 10", i, v.Position[1])
		}
	}

	want := Bounds{Min: [3]float32{-1, 10, -1}, Max: [3]float32{1, 10, 1}}
	if mesh.Bounds != want {
		t.Errorf("Bounds = %+v, want %+v", mesh.Bounds, want)
	}
}

func TestBuildConstantHeight(t *testing.T) {
	tests := []struct {
		name   string
		cfg    Config
		sample uint8
	}{
		{"linear", Config{Resolution: 5, Width: 100, Length: 50, MinHeight: -20, MaxHeight: 120, Redistribution: 1}, 128},
		{"squared", Config{Resolution: 3, Width: 10, Length: 10, MinHeight: 0, MaxHeight: 1, Redistribution: 2}, 128},
		{"sharp", Config{Resolution: 4, Width: 1, Length: 1, MinHeight: 5, MaxHeight: 50, Redistribution: 4}, 200},
		{"flatten", Config{Resolution: 2, Width: 1, Length: 1, MinHeight: -1, MaxHeight: 1, Redistribution: 0.5}, 64},
		{"zero exponent", Config{Resolution: 2, Width: 1, Length: 1, MinHeight: 3, MaxHeight: 7, Redistribution: 0}, 0},
		{"inverted range", Config{Resolution: 2, Width: 1, Length: 1, MinHeight: 10, MaxHeight: -10, Redistribution: 1}, 128},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			mesh, err := Build(tt.cfg, Uniform(16, 16, tt.sample))
			if err != nil {
				t.Fatalf("Build: %v", err)
			}

			n := gomath.Pow(float64(tt.sample)/255, float64(tt.cfg.Redistribution))
			want := float64(tt.cfg.MinHeight) + n*float64(tt.cfg.MaxHeight-tt.cfg.MinHeight)

			for i, v := range mesh.Vertices {
				if gomath.Abs(float64(v.Position[1])-want) > 1e-4 {
					t.Fatalf("vertex %d height = %v, want %v", i, v.Position[1], want)
				}
			}
		})
	}
}

func TestCountsAndIndexRange(t *testing.T) {
	for _, res := range []int{1, 2, 3, 7, 16} {
		cfg := smallConfig(res)

		for name, build := range map[string]func() (*Mesh, error){
			"grid":      func() (*Mesh, error) { return BuildGrid(cfg) },
			"heightmap": func() (*Mesh, error) { return Build(cfg, gradient(9, 5)) },
		} {
			mesh, err := build()
			if err != nil {
				t.Fatalf("%s res=%d: %v", name, res, err)
			}

			cells := res * res
			if len(mesh.Vertices) != 4*cells {
				t.Errorf("%s res=%d: vertices = %d, want %d", name, res, len(mesh.Vertices), 4*cells)
			}
			if len(mesh.Indices) != 6*cells {
				t.Errorf("%s res=%d: indices = %d, want %d", name, res, len(mesh.Indices), 6*cells)
			}
			if err := mesh.Validate(); err != nil {
				t.Errorf("%s res=%d: Validate: %v", name, res, err)
			}
		}
	}
}

func TestCellsDoNotShareVertices(t *testing.T) {
	mesh, err := BuildGrid(smallConfig(4))
	if err != nil {
		t.Fatalf("BuildGrid: %v", err)
	}

	// Every index of cell k must point into [4k, 4k+4).
	for i, idx := range mesh.Indices {
		cell := uint32(i / 6)
		if idx < 4*cell || idx >= 4*cell+4 {
			t.Fatalf("index %d (%d) of cell %d reaches outside the cell", i, idx, cell)
		}
	}
}

func TestWindingIsClockwiseFromAbove(t *testing.T) {
	mesh, err := Build(Config{Resolution: 6, Width: 30, Length: 12, MinHeight: 0, MaxHeight: 5, Redistribution: 1}, gradient(7, 7))
	if err != nil {
		t.Fatalf("Build: %v", err)
	}

	xz := func(i uint32) math.Vec2 {
		p := mesh.Vertices[i].Position
		return math.Vec2{X: p[0], Y: p[2]}
	}

	for i := 0; i < len(mesh.Indices); i += 3 {
		a, b, c := xz(mesh.Indices[i]), xz(mesh.Indices[i+1]), xz(mesh.Indices[i+2])
		cross := b.Sub(a).Cross(c.Sub(a))
		// Plotted with X right and Z up, every triangle turns clockwise.
		if cross >= 0 {
			t.Fatalf("triangle %d has cross %v, want < 0 like every other triangle", i/3, cross)
		}
	}
}

func TestCornerLayout(t *testing.T) {
	cfg := Config{Resolution: 2, Width: 4, Length: 8, Redistribution: 1}
	mesh, err := BuildGrid(cfg)
	if err != nil {
		t.Fatalf("BuildGrid: %v", err)
	}

	// Cell (x=1, y=0) is the second cell in row-major order.
	cell := mesh.Vertices[4:8]
	wantPos := [4][3]float32{
		{0, 0, -4},
		{0, 0, 0},
		{2, 0, 0},
		{2, 0, -4},
	}
	wantUV := [4][2]float32{{0, 0}, {0, 1}, {1, 1}, {1, 0}}

	for i := range cell {
		if cell[i].Position != wantPos[i] {
			t.Errorf("corner %d position = %v, want %v", i, cell[i].Position, wantPos[i])
		}
		if cell[i].UV != wantUV[i] {
			t.Errorf("corner %d uv = %v, want %v", i, cell[i].UV, wantUV[i])
		}
	}

	wantIdx := []uint32{4, 5, 6, 4, 6, 7}
	for i, idx := range mesh.Indices[6:12] {
		if idx != wantIdx[i] {
			t.Errorf("index %d = %d, want %d", i, idx, wantIdx[i])
		}
	}
}

func TestHeightSamplingFollowsGrid(t *testing.T) {
	// 2x2 image: top-left 0, top-right 255, bottom-left 51, bottom-right 102.
	hm := &Heightmap{Width: 2, Height: 2, Red: []uint8{0, 255, 51, 102}}
	cfg := Config{Resolution: 2, Width: 2, Length: 2, MinHeight: 0, MaxHeight: 255, Redistribution: 1}

	mesh, err := Build(cfg, hm)
	if err != nil {
		t.Fatalf("Build: %v", err)
	}

	// Grid point (gx, gy) samples texel (gx*2/2, gy*2/2), the last one clamped.
	heightAt := map[[2]float32]float32{}
	for _, v := range mesh.Vertices {
		heightAt[[2]float32{v.Position[0], v.Position[2]}] = v.Position[1]
	}
	want := map[[2]float32]float32{
		{-1, -1}: 0, {0, -1}: 255, {1, -1}: 255,
		{-1, 0}: 51, {0, 0}: 102, {1, 0}: 102,
		{-1, 1}: 51, {0, 1}: 102, {1, 1}: 102,
	}
	for pos, h := range want {
		if got := heightAt[pos]; abs32(got-h) > 1e-3 {
			t.Errorf("height at %v = %v, want %v", pos, got, h)
		}
	}
}

func TestBuildRejectsInvalidConfig(t *testing.T) {
	nan := float32(gomath.NaN())

	tests := []struct {
		name string
		cfg  Config
	}{
		{"zero resolution", Config{Resolution: 0, Width: 1, Length: 1}},
		{"negative resolution", Config{Resolution: -3, Width: 1, Length: 1}},
		{"too fine", Config{Resolution: MaxResolution + 1, Width: 1, Length: 1}},
		{"zero width", Config{Resolution: 1, Width: 0, Length: 1}},
		{"negative length", Config{Resolution: 1, Width: 1, Length: -1}},
		{"nan width", Config{Resolution: 1, Width: nan, Length: 1}},
		{"negative redistribution", Config{Resolution: 1, Width: 1, Length: 1, Redistribution: -1}},
		{"negative blur", Config{Resolution: 1, Width: 1, Length: 1, Blur: -2}},
		{"huge blur", Config{Resolution: 1, Width: 1, Length: 1, Blur: 1e9}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			mesh, err := Build(tt.cfg, Uniform(2, 2, 0))
			if !errors.Is(err, ErrInvalidConfig) {
				t.Errorf("Build: expected ErrInvalidConfig, got %v", err)
			}
			if mesh != nil {
				t.Error("Build should not return a partial mesh")
			}

			if _, err := BuildGrid(tt.cfg); !errors.Is(err, ErrInvalidConfig) {
				t.Errorf("BuildGrid: expected ErrInvalidConfig, got %v", err)
			}
		})
	}
}

func TestBuildRejectsMissingHeightmap(t *testing.T) {
	cfg := smallConfig(2)

	if _, err := Build(cfg, nil); !errors.Is(err, ErrInvalidHeightmap) {
		t.Errorf("nil heightmap: expected ErrInvalidHeightmap, got %v", err)
	}
	if _, err := Build(cfg, &Heightmap{}); !errors.Is(err, ErrInvalidHeightmap) {
		t.Errorf("empty heightmap: expected ErrInvalidHeightmap, got %v", err)
	}
	if _, err := Build(cfg, &Heightmap{Width: 4, Height: 4, Red: make([]uint8, 3)}); !errors.Is(err, ErrInvalidHeightmap) {
		t.Errorf("short heightmap: expected ErrInvalidHeightmap, got %v", err)
	}
}

func TestInterleavedLayout(t *testing.T) {
	mesh, err := Build(smallConfig(1), Uniform(1, 1, 255))
	if err != nil {
		t.Fatalf("Build: %v", err)
	}

	data := mesh.Interleaved()
	if len(data) != len(mesh.Vertices)*FloatsPerVertex {
		t.Fatalf("interleaved length = %d, want %d", len(data), len(mesh.Vertices)*FloatsPerVertex)
	}

	// Corner 2 of the only cell: position (1, 10, 1), uv (1, 1).
	got := data[2*FloatsPerVertex : 3*FloatsPerVertex]
	want := []float32{1, 10, 1, 1, 1}
	for i := range want {
		if got[i] != want[i] {
			t.Errorf("interleaved[%d] = %v, want %v", i, got[i], want[i])
		}
	}
}

func TestHeightsAreRaw(t *testing.T) {
	cfg := Config{Resolution: 2, Width: 1, Length: 1, MinHeight: -5, MaxHeight: 5, Redistribution: 1}
	mesh, err := Build(cfg, Uniform(4, 4, 0))
	if err != nil {
		t.Fatalf("Build: %v", err)
	}

	for i, h := range mesh.Heights() {
		if h != -5 {
			t.Fatalf("height %d = %v, want -5", i, h)
		}
		if n := NormalizedHeight(h, cfg.MinHeight, cfg.MaxHeight); n != 0 {
			t.Fatalf("normalized height %d = %v, want 0", i, n)
		}
	}
}

func TestNormalizedHeight(t *testing.T) {
	tests := []struct {
		h, lo, hi, want float32
	}{
		{5, 0, 10, 0.5},
		{-20, -20, 120, 0},
		{120, -20, 120, 1},
		{200, 0, 10, 1},
		{-1, 0, 10, 0},
		{3, 3, 3, 0},
	}
	for _, tt := range tests {
		if got := NormalizedHeight(tt.h, tt.lo, tt.hi); abs32(got-tt.want) > 1e-6 {
			t.Errorf("NormalizedHeight(%v, %v, %v) = %v, want %v", tt.h, tt.lo, tt.hi, got, tt.want)
		}
	}
}

func TestValidateDetectsBadIndices(t *testing.T) {
	m := &Mesh{Vertices: make([]Vertex, 3), Indices: []uint32{0, 1, 3}}
	if err := m.Validate(); err == nil {
		t.Error("expected out-of-range index error")
	}

	m.Indices = []uint32{0, 1}
	if err := m.Validate(); err == nil {
		t.Error("expected non-multiple-of-3 error")
	}
}

func TestSurfaceHeightMatchesVertices(t *testing.T) {
	tests := []struct {
		name string
		cfg  Config
		hm   *Heightmap
	}{
		{"gradient", Config{Resolution: 5, Width: 7, Length: 3, MinHeight: -4, MaxHeight: 10, Redistribution: 2}, gradient(8, 8)},
		{"step", Config{Resolution: 4, Width: 4, Length: 4, MinHeight: 0, MaxHeight: 100, Redistribution: 1},
			&Heightmap{Width: 4, Height: 1, Red: []uint8{0, 0, 255, 255}}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			mesh, err := Build(tt.cfg, tt.hm)
			if err != nil {
				t.Fatalf("Build: %v", err)
			}
			for i, v := range mesh.Vertices {
				got := tt.cfg.SurfaceHeight(tt.hm, v.Position[0], v.Position[2])
				if abs32(got-v.Position[1]) > 1e-3 {
					t.Fatalf("vertex %d at (%v, %v): surface %v, mesh %v",
						i, v.Position[0], v.Position[2], got, v.Position[1])
				}
			}
		})
	}
}

func TestSurfaceHeightFollowsTriangles(t *testing.T) {
	// One cell with grid points (0, 0) and (1, 1) high, (0, 1) and (1, 0) low.
	// The shared diagonal stays high where a bilinear patch would sag to 5.
	hm := &Heightmap{Width: 2, Height: 2, Red: []uint8{255, 0, 0, 255}}
	cfg := Config{Resolution: 1, Width: 2, Length: 2, MinHeight: 0, MaxHeight: 10, Redistribution: 1}

	tests := []struct {
		name string
		x, z float32
		want float32
	}{
		{"centre on the diagonal", 0, 0, 10},
		{"further along the diagonal", 0.5, 0.5, 10},
		{"triangle 0 1 2", -0.5, 0.5, 5},
		{"triangle 0 2 3", 0.5, -0.5, 5},
		{"corner 1", -1, 1, 0},
		{"corner 3", 1, -1, 0},
		{"outside clamps to the edge", -5, 0, 5},
	}
	for _, tt := range tests {
		if got := cfg.SurfaceHeight(hm, tt.x, tt.z); abs32(got-tt.want) > 1e-5 {
			t.Errorf("%s: SurfaceHeight(%v, %v) = %v, want %v", tt.name, tt.x, tt.z, got, tt.want)
		}
	}
}

// gradient returns a w x h heightmap increasing left to right and top to bottom.
func gradient(w, h int) *Heightmap {
	hm := &Heightmap{Width: w, Height: h, Red: make([]uint8, w*h)}
	for y := range h {
		for x := range w {
			hm.Red[y*w+x] = uint8((x + y) * 255 / (w + h - 2))
		}
	}
	return hm
}

func abs32(x float32) float32 {
	if x < 0 {
		return -x
	}
	return x
}
