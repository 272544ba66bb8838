package picking

import (
	"github.com/gpr300/terrainlab/internal/engine/terrain"
	"github.com/gpr300/terrainlab/pkg/math"
)

// PickTerrain returns the terrain point under the given screen pixel.
// invMVP is the inverse of projection * view * model, so the ray and the hit
// are in terrain space. The march samples twice per grid cell.
func PickTerrain(gen *terrain.Generator, invMVP math.Mat4, screenX, screenY, viewportW, viewportH float32) (math.Vec3, bool) {
	mesh := gen.Mesh()
	if mesh == nil || viewportW <= 0 || viewportH <= 0 {
		return math.Vec3{}, false
	}

	cfg := gen.Config()
	step := cfg.Width / float32(cfg.Resolution)
	if s := cfg.Length / float32(cfg.Resolution); s < step {
		step = s
	}

	bounds := NewAABB(mesh.Bounds.Min, mesh.Bounds.Max)
	bounds.Min[1]--
	bounds.Max[1]++

	ray := ScreenToRay(screenX, screenY, viewportW, viewportH, invMVP)
	return ray.IntersectHeightfield(gen.GroundHeight, bounds, step/2)
}
