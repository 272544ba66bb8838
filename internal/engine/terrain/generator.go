package terrain

import (
	"time"

	"go.uber.org/zap"

	"github.com/gpr300/terrainlab/internal/logger"
)

// HeightmapSource provides a heightmap blurred by the given amount.
type HeightmapSource func(blur float32) (*Heightmap, error)

// FileSource reloads the image at path on every regeneration.
func FileSource(path string) HeightmapSource {
	return func(blur float32) (*Heightmap, error) {
		return LoadHeightmap(path, blur)
	}
}

// StaticSource serves an in-memory heightmap, blurring a copy when asked.
func StaticSource(hm *Heightmap) HeightmapSource {
	return func(blur float32) (*Heightmap, error) {
		if err := hm.Validate(); err != nil {
			return nil, err
		}
		if blur > 0 {
			return hm.Blur(blur), nil
		}
		return hm, nil
	}
}

// Generator owns the current terrain mesh and rebuilds it on demand.
// A failed rebuild keeps the previous mesh.
type Generator struct {
	source     HeightmapSource // nil builds flat grids
	heightmap  *Heightmap
	mesh       *Mesh
	config     Config
	generation int
}

// NewGenerator creates a generator reading heights from source.
func NewGenerator(source HeightmapSource) *Generator {
	return &Generator{source: source}
}

// Regenerate builds a new mesh from cfg. On success it replaces the current
// mesh; on failure the current mesh is left untouched and the error returned.
func (g *Generator) Regenerate(cfg Config) (*Mesh, error) {
	start := time.Now()

	mesh, hm, err := g.build(cfg)
	if err != nil {
		logger.Error("terrain rebuild failed, keeping previous mesh",
			zap.Error(err),
			zap.Int("resolution", cfg.Resolution),
			zap.Int("generation", g.generation),
		)
		return nil, err
	}

	g.mesh = mesh
	g.heightmap = hm
	g.config = cfg
	g.generation++

	logger.Info("terrain rebuilt",
		zap.Int("generation", g.generation),
		zap.Int("resolution", cfg.Resolution),
		zap.Int("vertices", len(mesh.Vertices)),
		zap.Int("triangles", mesh.TriangleCount()),
		zap.Duration("took", time.Since(start)),
	)
	return mesh, nil
}

func (g *Generator) build(cfg Config) (*Mesh, *Heightmap, error) {
	if err := cfg.Validate(); err != nil {
		return nil, nil, err
	}
	if g.source == nil {
		mesh, err := BuildGrid(cfg)
		return mesh, nil, err
	}

	hm, err := g.source(cfg.Blur)
	if err != nil {
		return nil, nil, err
	}
	logger.Debug("heightmap ready",
		zap.Int("width", hm.Width),
		zap.Int("height", hm.Height),
		zap.Float32("blur", cfg.Blur),
	)
	mesh, err := Build(cfg, hm)
	return mesh, hm, err
}

// Mesh returns the current mesh, or nil before the first successful build.
func (g *Generator) Mesh() *Mesh {
	return g.mesh
}

// Heightmap returns the heightmap behind the current mesh, or nil for a flat grid.
func (g *Generator) Heightmap() *Heightmap {
	return g.heightmap
}

// GroundHeight returns the height of the current mesh surface at world
// (x, z), 0 before the first build or on a flat grid.
func (g *Generator) GroundHeight(x, z float32) float32 {
	if g.mesh == nil || g.heightmap == nil {
		return 0
	}
	return g.config.SurfaceHeight(g.heightmap, x, z)
}

// Config returns the config of the current mesh.
func (g *Generator) Config() Config {
	return g.config
}

// Generation counts successful rebuilds.
func (g *Generator) Generation() int {
	return g.generation
}
