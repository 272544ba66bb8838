// Package transform builds model matrices from position, Euler rotation and scale.
package transform

import "github.com/gpr300/terrainlab/pkg/math"

// Transform places an object in the world. There is no parent/child hierarchy.
type Transform struct {
	Position math.Vec3
	Rotation math.Vec3 // Euler angles in radians, applied X then Y then Z
	Scale    math.Vec3
}

// New returns a transform at the origin with no rotation and unit scale.
func New() Transform {
	return Transform{Scale: math.Vec3{X: 1, Y: 1, Z: 1}}
}

// At returns a transform at position with no rotation and unit scale.
func At(position math.Vec3) Transform {
	t := New()
	t.Position = position
	return t
}

// TranslationMatrix returns the translation part of the model matrix.
func (t Transform) TranslationMatrix() math.Mat4 {
	return math.TranslateVec3(t.Position)
}

// ScaleMatrix returns the scale part of the model matrix.
func (t Transform) ScaleMatrix() math.Mat4 {
	return math.Scale(t.Scale.X, t.Scale.Y, t.Scale.Z)
}

// RotationMatrix returns Rx * Ry * Rz.
func (t Transform) RotationMatrix() math.Mat4 {
	rx := math.RotateX(t.Rotation.X)
	ry := math.RotateY(t.Rotation.Y)
	rz := math.RotateZ(t.Rotation.Z)
	return rx.Mul(ry).Mul(rz)
}

// ModelMatrix returns T * R * S: scale first, then rotate, then translate.
func (t Transform) ModelMatrix() math.Mat4 {
	return t.TranslationMatrix().Mul(t.RotationMatrix()).Mul(t.ScaleMatrix())
}

// Apply transforms a local-space point into world space.
func (t Transform) Apply(p math.Vec3) math.Vec3 {
	return t.ModelMatrix().TransformPoint(p)
}
