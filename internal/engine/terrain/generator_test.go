package terrain

import (
	"errors"
	"path/filepath"
	"testing"
)

func generatorConfig() Config {
	return Config{Resolution: 4, Width: 8, Length: 8, MinHeight: 0, MaxHeight: 10, Redistribution: 1}
}

func TestGeneratorWithoutSourceBuildsGrid(t *testing.T) {
	g := NewGenerator(nil)
	if g.Mesh() != nil {
		t.Fatal("mesh before first build should be nil")
	}

	mesh, err := g.Regenerate(generatorConfig())
	if err != nil {
		t.Fatalf("Regenerate: %v", err)
	}
	if len(mesh.Vertices) != 4*16 {
		t.Errorf("vertices = %d, want 64", len(mesh.Vertices))
	}
	for i, v := range mesh.Vertices {
		if v.Position[1] != 0 {
			t.Fatalf("vertex %d height = %v, want 0", i, v.Position[1])
		}
	}
	if g.Generation() != 1 {
		t.Errorf("Generation = %d, want 1", g.Generation())
	}
}

func TestGeneratorKeepsMeshOnFailure(t *testing.T) {
	g := NewGenerator(StaticSource(Uniform(4, 4, 255)))

	first, err := g.Regenerate(generatorConfig())
	if err != nil {
		t.Fatalf("Regenerate: %v", err)
	}

	bad := generatorConfig()
	bad.Resolution = 0
	if _, err := g.Regenerate(bad); !errors.Is(err, ErrInvalidConfig) {
		t.Fatalf("expected ErrInvalidConfig, got %v", err)
	}
	if g.Mesh() != first {
		t.Error("failed rebuild replaced the mesh")
	}
	if g.Config() != generatorConfig() {
		t.Errorf("Config = %+v, want the last good config", g.Config())
	}
	if g.Generation() != 1 {
		t.Errorf("Generation = %d, want 1", g.Generation())
	}
}

func TestGeneratorSourceError(t *testing.T) {
	g := NewGenerator(FileSource(filepath.Join(t.TempDir(), "missing.png")))
	if _, err := g.Regenerate(generatorConfig()); !errors.Is(err, ErrImageLoad) {
		t.Fatalf("expected ErrImageLoad, got %v", err)
	}
	if g.Mesh() != nil {
		t.Error("mesh should stay nil after a failed first build")
	}
}

func TestGeneratorRebuildsWithNewConfig(t *testing.T) {
	g := NewGenerator(StaticSource(Uniform(4, 4, 255)))
	if _, err := g.Regenerate(generatorConfig()); err != nil {
		t.Fatalf("Regenerate: %v", err)
	}

	cfg := generatorConfig()
	cfg.Resolution = 2
	cfg.MaxHeight = 50
	mesh, err := g.Regenerate(cfg)
	if err != nil {
		t.Fatalf("Regenerate: %v", err)
	}
	if len(mesh.Vertices) != 16 {
		t.Errorf("vertices = %d, want 16", len(mesh.Vertices))
	}
	if mesh.Bounds.Max[1] != 50 {
		t.Errorf("max height = %v, want 50", mesh.Bounds.Max[1])
	}
	if g.Generation() != 2 {
		t.Errorf("Generation = %d, want 2", g.Generation())
	}
}

func TestStaticSourceBlursCopy(t *testing.T) {
	hm := Uniform(5, 5, 0)
	hm.Red[12] = 255

	blurred, err := StaticSource(hm)(1)
	if err != nil {
		t.Fatalf("source: %v", err)
	}
	if blurred == hm || hm.Red[12] != 255 {
		t.Error("StaticSource must blur a copy")
	}

	if _, err := StaticSource(nil)(0); !errors.Is(err, ErrInvalidHeightmap) {
		t.Errorf("expected ErrInvalidHeightmap, got %v", err)
	}
}

func TestGeneratorGroundHeight(t *testing.T) {
	g := NewGenerator(StaticSource(Uniform(4, 4, 255)))
	if got := g.GroundHeight(0, 0); got != 0 {
		t.Errorf("before build = %v, want 0", got)
	}

	if _, err := g.Regenerate(generatorConfig()); err != nil {
		t.Fatalf("Regenerate: %v", err)
	}
	if g.Heightmap() == nil {
		t.Fatal("Heightmap should be kept after a build")
	}
	if got := g.GroundHeight(1, -2); abs32(got-10) > 1e-5 {
		t.Errorf("GroundHeight = %v, want 10", got)
	}

	flat := NewGenerator(nil)
	if _, err := flat.Regenerate(generatorConfig()); err != nil {
		t.Fatalf("Regenerate: %v", err)
	}
	if got := flat.GroundHeight(1, 1); got != 0 {
		t.Errorf("flat grid GroundHeight = %v, want 0", got)
	}
}

func TestGeneratorGroundHeightMatchesMesh(t *testing.T) {
	hm := &Heightmap{Width: 4, Height: 1, Red: []uint8{0, 0, 255, 255}}
	cfg := Config{Resolution: 4, Width: 4, Length: 4, MinHeight: 0, MaxHeight: 100, Redistribution: 1}

	g := NewGenerator(StaticSource(hm))
	mesh, err := g.Regenerate(cfg)
	if err != nil {
		t.Fatalf("Regenerate: %v", err)
	}

	for i, v := range mesh.Vertices {
		if got := g.GroundHeight(v.Position[0], v.Position[2]); abs32(got-v.Position[1]) > 1e-4 {
			t.Errorf("vertex %d at (%v, %v): GroundHeight %v, mesh %v",
				i, v.Position[0], v.Position[2], got, v.Position[1])
		}
	}

	// Halfway up the step between grid columns 1 and 2
	if got := g.GroundHeight(-0.5, 0.3); abs32(got-50) > 1e-4 {
		t.Errorf("GroundHeight mid-slope = %v, want 50", got)
	}
}
