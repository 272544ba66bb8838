// Package picking casts rays from screen coordinates into the terrain.
package picking

import (
	gomath "math"

	"github.com/gpr300/terrainlab/pkg/math"
)

// Ray represents a ray in 3D space with origin and direction.
type Ray struct {
	Origin    math.Vec3
	Direction math.Vec3 // Normalized direction
}

// At returns the point at distance t along the ray.
func (r Ray) At(t float32) math.Vec3 {
	return r.Origin.Add(r.Direction.Scale(t))
}

// AABB represents an axis-aligned bounding box.
type AABB struct {
	Min [3]float32
	Max [3]float32
}

// ScreenToRay converts screen coordinates to a world-space ray.
// screenX, screenY are pixel coordinates, viewportW/H are viewport dimensions.
// invViewProj is the inverse of the view-projection matrix.
func ScreenToRay(screenX, screenY, viewportW, viewportH float32, invViewProj math.Mat4) Ray {
	ndcX := 2*screenX/viewportW - 1
	ndcY := 1 - 2*screenY/viewportH // Flip Y

	near := invViewProj.TransformPoint(math.Vec3{X: ndcX, Y: ndcY, Z: -1})
	far := invViewProj.TransformPoint(math.Vec3{X: ndcX, Y: ndcY, Z: 1})

	return Ray{Origin: near, Direction: far.Sub(near).Normalize()}
}

// IntersectPlaneY intersects a ray with a horizontal plane at the given Y level.
// Returns the intersection point (X, Z) and whether the intersection is valid.
func (r Ray) IntersectPlaneY(planeY float32) (x, z float32, ok bool) {
	if gomath.Abs(float64(r.Direction.Y)) < 0.001 {
		return 0, 0, false // Ray parallel to plane
	}

	t := (planeY - r.Origin.Y) / r.Direction.Y
	if t < 0 {
		return 0, 0, false // Behind the origin
	}

	p := r.At(t)
	return p.X, p.Z, true
}

// Slab returns the distances at which the ray enters and leaves box.
// tmin is clamped to 0 when the ray starts inside.
func (r Ray) Slab(box AABB) (tmin, tmax float32, hit bool) {
	tmin = -gomath.MaxFloat32
	tmax = gomath.MaxFloat32

	origin := r.Origin.Array()
	dir := r.Direction.Array()
	for i := 0; i < 3; i++ {
		if dir[i] == 0 {
			if origin[i] < box.Min[i] || origin[i] > box.Max[i] {
				return 0, 0, false
			}
			continue
		}
		t1 := (box.Min[i] - origin[i]) / dir[i]
		t2 := (box.Max[i] - origin[i]) / dir[i]
		if t1 > t2 {
			t1, t2 = t2, t1
		}
		if t1 > tmin {
			tmin = t1
		}
		if t2 < tmax {
			tmax = t2
		}
	}

	if tmax < tmin || tmax < 0 {
		return 0, 0, false
	}
	if tmin < 0 {
		tmin = 0
	}
	return tmin, tmax, true
}

// IntersectAABB returns the entry distance, or the exit distance when the
// ray starts inside the box.
func (r Ray) IntersectAABB(box AABB) (t float32, hit bool) {
	tmin, tmax, hit := r.Slab(box)
	if !hit {
		return 0, false
	}
	if tmin == 0 {
		return tmax, true
	}
	return tmin, true
}

// NewAABB creates an AABB from two corners in any order.
func NewAABB(a, b [3]float32) AABB {
	box := AABB{Min: a, Max: b}
	for i := 0; i < 3; i++ {
		if box.Min[i] > box.Max[i] {
			box.Min[i], box.Max[i] = box.Max[i], box.Min[i]
		}
	}
	return box
}

// HeightFunc returns the ground height at world (x, z).
type HeightFunc func(x, z float32) float32

// refineSteps bisections after the march brackets a crossing.
const refineSteps = 12

// IntersectHeightfield marches the ray through bounds in fixed steps and
// returns the first point where it drops below ground. bounds should enclose
// the terrain; the march is limited to the part of the ray inside it.
func (r Ray) IntersectHeightfield(ground HeightFunc, bounds AABB, step float32) (math.Vec3, bool) {
	if step <= 0 {
		return math.Vec3{}, false
	}
	tmin, tmax, hit := r.Slab(bounds)
	if !hit {
		return math.Vec3{}, false
	}

	above := func(t float32) bool {
		p := r.At(t)
		return p.Y > ground(p.X, p.Z)
	}

	if !above(tmin) {
		return r.At(tmin), true
	}

	prev := tmin
	for t := tmin + step; ; t += step {
		if t > tmax {
			t = tmax
		}
		if !above(t) {
			lo, hi := prev, t
			for i := 0; i < refineSteps; i++ {
				mid := (lo + hi) / 2
				if above(mid) {
					lo = mid
				} else {
					hi = mid
				}
			}
			return r.At(hi), true
		}
		if t == tmax {
			return math.Vec3{}, false
		}
		prev = t
	}
}
