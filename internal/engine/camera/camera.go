// Package camera provides look-at cameras with hand-built view and projection matrices.
package camera

import (
	"errors"
	"fmt"
	gomath "math"

	"github.com/gpr300/terrainlab/pkg/math"
)

var (
	// ErrDegenerateProjection is returned when the lens parameters would put
	// NaN or Inf into the projection matrix.
	ErrDegenerateProjection = errors.New("degenerate projection")

	// ErrDegenerateView is returned when no orthonormal basis can be built
	// from position, target and up.
	ErrDegenerateView = errors.New("degenerate view")
)

// WorldUp is the default up direction.
var WorldUp = math.Vec3{X: 0, Y: 1, Z: 0}

// Camera is the canonical position + target + up camera.
type Camera struct {
	Position math.Vec3
	Target   math.Vec3 // World position to look at
	Up       math.Vec3

	FOV              float32 // Vertical field of view in degrees
	OrthographicSize float32 // Full view height when Orthographic is set
	Orthographic     bool

	NearPlane float32
	FarPlane  float32
}

// New creates a perspective camera with default lens settings.
func New(position, target math.Vec3) *Camera {
	return &Camera{
		Position:         position,
		Target:           target,
		Up:               WorldUp,
		FOV:              60,
		OrthographicSize: 20,
		NearPlane:        0.1,
		FarPlane:         100,
	}
}

// Basis returns the right, up and forward unit vectors of the camera.
func (c *Camera) Basis() (right, up, forward math.Vec3, err error) {
	worldUp := c.Up
	if worldUp == (math.Vec3{}) {
		worldUp = WorldUp
	}

	forward = c.Target.Sub(c.Position)
	if forward.Length() == 0 || !forward.IsFinite() {
		return right, up, forward, fmt.Errorf("%w: position equals target", ErrDegenerateView)
	}
	forward = forward.Normalize()

	right = forward.Cross(worldUp)
	if right.Length() < 1e-6 {
		return right, up, forward, fmt.Errorf("%w: forward is parallel to up", ErrDegenerateView)
	}
	right = right.Normalize()
	up = right.Cross(forward).Normalize()

	return right, up, forward, nil
}

// ViewMatrix returns the world-to-view matrix.
// Rows of the rotation part are right, up and -forward (right-handed, looking down -Z).
func (c *Camera) ViewMatrix() (math.Mat4, error) {
	right, up, forward, err := c.Basis()
	if err != nil {
		return math.Identity(), err
	}
	back := forward.Negate()

	basis := math.Identity()
	basis.SetCol(0, right.Vec4(0))
	basis.SetCol(1, up.Vec4(0))
	basis.SetCol(2, back.Vec4(0))

	view := basis.Transpose().Mul(math.TranslateVec3(c.Position.Negate()))
	if !view.IsFinite() {
		return math.Identity(), fmt.Errorf("%w: non-finite view matrix", ErrDegenerateView)
	}
	return view, nil
}

// Validate checks that a projection can be built for the given aspect ratio.
func (c *Camera) Validate(aspect float32) error {
	if !finite(aspect, c.NearPlane, c.FarPlane) {
		return fmt.Errorf("%w: non-finite aspect or clip planes", ErrDegenerateProjection)
	}
	if aspect <= 0 {
		return fmt.Errorf("%w: aspect ratio %v must be positive", ErrDegenerateProjection, aspect)
	}
	if c.FarPlane <= c.NearPlane {
		return fmt.Errorf("%w: far plane %v must exceed near plane %v", ErrDegenerateProjection, c.FarPlane, c.NearPlane)
	}
	if c.Orthographic {
		if !finite(c.OrthographicSize) || c.OrthographicSize <= 0 {
			return fmt.Errorf("%w: orthographic size %v must be positive", ErrDegenerateProjection, c.OrthographicSize)
		}
		return nil
	}
	if !finite(c.FOV) || c.FOV <= 0 || c.FOV >= 180 {
		return fmt.Errorf("%w: fov %v outside (0, 180)", ErrDegenerateProjection, c.FOV)
	}
	return nil
}

// ProjectionMatrix returns the perspective or orthographic projection.
func (c *Camera) ProjectionMatrix(aspect float32) (math.Mat4, error) {
	if err := c.Validate(aspect); err != nil {
		return math.Identity(), err
	}

	var m math.Mat4
	if c.Orthographic {
		m = Orthographic(c.OrthographicSize, aspect, c.NearPlane, c.FarPlane)
	} else {
		m = Perspective(c.FOV, aspect, c.NearPlane, c.FarPlane)
	}
	if !m.IsFinite() {
		return math.Identity(), fmt.Errorf("%w: non-finite projection matrix", ErrDegenerateProjection)
	}
	return m, nil
}

// ViewProjection returns projection * view.
func (c *Camera) ViewProjection(aspect float32) (math.Mat4, error) {
	view, err := c.ViewMatrix()
	if err != nil {
		return math.Identity(), err
	}
	proj, err := c.ProjectionMatrix(aspect)
	if err != nil {
		return math.Identity(), err
	}
	return proj.Mul(view), nil
}

// MVP returns projection * view * model.
func (c *Camera) MVP(model math.Mat4, aspect float32) (math.Mat4, error) {
	vp, err := c.ViewProjection(aspect)
	if err != nil {
		return math.Identity(), err
	}
	return vp.Mul(model), nil
}

// Perspective builds a symmetric-frustum projection. fovDeg is the vertical
// field of view in degrees. Callers must validate the inputs first.
func Perspective(fovDeg, aspect, near, far float32) math.Mat4 {
	c := float32(gomath.Tan(float64(math.Radians(fovDeg)) / 2))
	depth := far - near

	var m math.Mat4
	m.Set(0, 0, 1/(c*aspect))
	m.Set(1, 1, 1/c)
	m.Set(2, 2, -(far+near)/depth)
	m.Set(2, 3, -2*far*near/depth)
	m.Set(3, 2, -1)
	return m
}

// Orthographic builds a centred orthographic projection whose view height is
// size and width is size*aspect.
func Orthographic(size, aspect, near, far float32) math.Mat4 {
	width := size * aspect
	depth := far - near

	m := math.Identity()
	m.Set(0, 0, 2/width)
	m.Set(1, 1, 2/size)
	m.Set(2, 2, -2/depth)
	m.Set(2, 3, -(far+near)/depth)
	return m
}

func finite(vs ...float32) bool {
	for _, v := range vs {
		f := float64(v)
		if gomath.IsNaN(f) || gomath.IsInf(f, 0) {
			return false
		}
	}
	return true
}
