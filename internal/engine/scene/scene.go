// Package scene renders a generated terrain with height-banded colours and
// a set of lights.
package scene

import (
	"fmt"
	"image"

	"go.uber.org/zap"

	"github.com/gpr300/terrainlab/internal/engine/camera"
	"github.com/gpr300/terrainlab/internal/engine/lighting"
	"github.com/gpr300/terrainlab/internal/engine/terrain"
	"github.com/gpr300/terrainlab/internal/engine/transform"
	"github.com/gpr300/terrainlab/internal/logger"
	"github.com/gpr300/terrainlab/pkg/math"
)

// Scene owns the terrain generator, its GPU copy and the shading inputs.
type Scene struct {
	generator *terrain.Generator
	renderer  *TerrainRenderer

	// Shading
	Bands          terrain.ColorBands
	BlendThreshold float32
	NoiseInfluence float32
	Lights         *lighting.Buffer
	Material       lighting.Material

	// Placement of the terrain in the world
	Transform transform.Transform
}

// New creates a scene reading heights from source. A nil source renders a
// flat grid. Requires a current GL context.
func New(source terrain.HeightmapSource) (*Scene, error) {
	renderer, err := NewTerrainRenderer()
	if err != nil {
		return nil, fmt.Errorf("creating terrain renderer: %w", err)
	}

	lights := lighting.NewBuffer()
	ambient := lighting.NewAmbient()
	ambient.Intensity = 0.3
	lights.Add(ambient)
	lights.Add(lighting.NewSun(45, 50))
	lights.Add(DefaultPoint())
	lights.Add(DefaultSpot())

	return &Scene{
		generator:      terrain.NewGenerator(source),
		renderer:       renderer,
		Bands:          terrain.DefaultColorBands(),
		BlendThreshold: 0.01,
		NoiseInfluence: 0.4,
		Lights:         lights,
		Material:       lighting.DefaultMaterial(),
		Transform:      transform.New(),
	}, nil
}

// Regenerate rebuilds the terrain and uploads it. On failure the previous
// mesh stays on screen.
func (s *Scene) Regenerate(cfg terrain.Config) error {
	mesh, err := s.generator.Regenerate(cfg)
	if err != nil {
		return err
	}
	if err := s.renderer.Upload(mesh, cfg); err != nil {
		return err
	}
	logger.Debug("terrain uploaded", zap.Int32("indices", s.renderer.IndexCount()))
	return nil
}

// SetTextures replaces the surface and noise textures. A nil image shades
// as plain white.
func (s *Scene) SetTextures(surface, noise *image.RGBA) {
	s.renderer.SetTexture(surface)
	s.renderer.SetNoiseTexture(noise)
}

// Generator exposes the terrain generator for height queries.
func (s *Scene) Generator() *terrain.Generator {
	return s.generator
}

// Render draws the scene as seen by cam. Degenerate camera settings skip the
// frame and return the error.
func (s *Scene) Render(cam *camera.Camera, aspect float32) error {
	view, err := cam.ViewMatrix()
	if err != nil {
		return err
	}
	proj, err := cam.ProjectionMatrix(aspect)
	if err != nil {
		return err
	}

	s.renderer.Render(Frame{
		Model:          s.Transform.ModelMatrix(),
		View:           view,
		Projection:     proj,
		CameraPos:      cam.Position,
		Bands:          s.Bands,
		BlendThreshold: s.BlendThreshold,
		NoiseInfluence: s.NoiseInfluence,
		Lights:         s.Lights,
		Material:       s.Material,
	})
	return nil
}

// Destroy releases GPU resources.
func (s *Scene) Destroy() {
	if s.renderer != nil {
		s.renderer.Destroy()
		s.renderer = nil
	}
}

// DefaultPoint is the point light a new scene starts with, hovering over the
// middle of a default-sized terrain.
func DefaultPoint() lighting.Light {
	l := lighting.NewPoint(math.Vec3{X: 120, Y: 140, Z: 120})
	l.Constant = 1
	l.Linear = 0.01
	l.Quadratic = 0
	return l
}

// DefaultSpot is the spot light a new scene starts with, aimed at the origin
// from above one corner.
func DefaultSpot() lighting.Light {
	pos := math.Vec3{X: -200, Y: 220, Z: -200}
	l := lighting.NewSpot(pos)
	l.Direction = pos.Negate().Normalize()
	l.Constant = 1
	l.Linear = 0.002
	l.Quadratic = 0
	return l
}
