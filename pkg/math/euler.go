package math

import "math"

// RotationOrder selects the axis order used when composing euler angles.
type RotationOrder uint8

const (
	// OrderXYZ rotates around X first, then Y, then Z (R = Rz*Ry*Rx).
	OrderXYZ RotationOrder = iota
	// OrderZYX rotates around Z first, then Y, then X (R = Rx*Ry*Rz).
	OrderZYX
)

// String returns the order name.
func (o RotationOrder) String() string {
	if o == OrderZYX {
		return "ZYX"
	}
	return "XYZ"
}

// EulerToMat4 returns the rotation matrix for euler angles in the given order.
func EulerToMat4(euler Vec3, order RotationOrder) Mat4 {
	rx, ry, rz := RotateX(euler.X), RotateY(euler.Y), RotateZ(euler.Z)
	if order == OrderZYX {
		return rx.Mul(ry).Mul(rz)
	}
	return rz.Mul(ry).Mul(rx)
}

// PositiveAngle maps an angle in radians into [0, 2*pi).
func PositiveAngle(a float32) float32 {
	r := math.Mod(float64(a), 2*math.Pi)
	if r < 0 {
		r += 2 * math.Pi
	}
	f := float32(r)
	if f >= float32(2*math.Pi) {
		return 0
	}
	return f
}

// PositiveEuler maps every component of euler into [0, 2*pi).
func PositiveEuler(euler Vec3) Vec3 {
	return Vec3{
		X: PositiveAngle(euler.X),
		Y: PositiveAngle(euler.Y),
		Z: PositiveAngle(euler.Z),
	}
}
