package math

import (
	"errors"
	"math"

	"github.com/go-gl/mathgl/mgl32"
)

// Decomposition errors.
var (
	ErrDegenerateMatrix = errors.New("matrix has a degenerate scale axis")
	ErrMirroredMatrix   = errors.New("matrix has negative (mirrored) scale")
)

// minScale is the smallest axis length treated as non-degenerate.
const minScale = 1e-6

// Compose builds T * R * S from a translation, euler rotation and scale.
func Compose(position, euler, scale Vec3, order RotationOrder) Mat4 {
	return TranslateVec3(position).
		Mul(EulerToMat4(euler, order)).
		Mul(Scale(scale.X, scale.Y, scale.Z))
}

// ComposeQuat builds T * R * S from a translation, quaternion and scale.
func ComposeQuat(position Vec3, rotation Quat, scale Vec3) Mat4 {
	return TranslateVec3(position).
		Mul(rotation.ToMat4()).
		Mul(Scale(scale.X, scale.Y, scale.Z))
}

// Decompose splits an affine matrix composed as T * R * S into its scale,
// rotation and translation. Shear is not detected; a sheared matrix yields an
// approximate rotation.
func Decompose(m Mat4) (scale Vec3, rotation Quat, translation Vec3, err error) {
	translation = m.Translation()

	c0 := Vec3{m[0], m[1], m[2]}
	c1 := Vec3{m[4], m[5], m[6]}
	c2 := Vec3{m[8], m[9], m[10]}

	scale = Vec3{c0.Length(), c1.Length(), c2.Length()}
	if scale.X < minScale || scale.Y < minScale || scale.Z < minScale {
		return Vec3{}, QuatIdentity(), Vec3{}, ErrDegenerateMatrix
	}

	if mgl32.Mat4(m).Mat3().Det() < 0 {
		return Vec3{}, QuatIdentity(), Vec3{}, ErrMirroredMatrix
	}

	c0 = c0.Scale(1 / scale.X)
	c1 = c1.Scale(1 / scale.Y)
	c2 = c2.Scale(1 / scale.Z)

	rot := mgl32.Mat4{
		c0.X, c0.Y, c0.Z, 0,
		c1.X, c1.Y, c1.Z, 0,
		c2.X, c2.Y, c2.Z, 0,
		0, 0, 0, 1,
	}
	q := mgl32.Mat4ToQuat(rot).Normalize()
	rotation = Quat{X: q.V[0], Y: q.V[1], Z: q.V[2], W: q.W}

	return scale, rotation, translation, nil
}

// DecomposeEuler decomposes m and converts the rotation to euler angles in
// the given order.
func DecomposeEuler(m Mat4, order RotationOrder) (position, euler, scale Vec3, err error) {
	s, r, p, err := Decompose(m)
	if err != nil {
		return Vec3{}, Vec3{}, Vec3{}, err
	}
	return p, r.ToEuler(order), s, nil
}

// DegToRad converts degrees to radians.
func DegToRad(deg float32) float32 {
	return float32(float64(deg) * math.Pi / 180)
}
