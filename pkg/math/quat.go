package math

import "math"

// Quat represents a quaternion for 3D rotations.
// Components are stored as X, Y, Z, W where W is the scalar part.
type Quat struct {
	X, Y, Z, W float32
}

// QuatIdentity returns an identity quaternion (no rotation).
func QuatIdentity() Quat {
	return Quat{X: 0, Y: 0, Z: 0, W: 1}
}

// QuatFromAxisAngle creates a quaternion from axis-angle rotation.
// axis should be normalized, angle is in radians.
func QuatFromAxisAngle(axis Vec3, angle float32) Quat {
	halfAngle := angle / 2
	s := float32(math.Sin(float64(halfAngle)))
	return Quat{
		X: axis.X * s,
		Y: axis.Y * s,
		Z: axis.Z * s,
		W: float32(math.Cos(float64(halfAngle))),
	}
}

// QuatFromEuler builds the rotation described by euler angles (radians)
// applied in the given order.
func QuatFromEuler(euler Vec3, order RotationOrder) Quat {
	qx := QuatFromAxisAngle(Vec3{X: 1}, euler.X)
	qy := QuatFromAxisAngle(Vec3{Y: 1}, euler.Y)
	qz := QuatFromAxisAngle(Vec3{Z: 1}, euler.Z)

	if order == OrderZYX {
		return qx.Mul(qy).Mul(qz)
	}
	return qz.Mul(qy).Mul(qx)
}

// Normalize returns a normalized quaternion.
func (q Quat) Normalize() Quat {
	length := float32(math.Sqrt(float64(q.X*q.X + q.Y*q.Y + q.Z*q.Z + q.W*q.W)))
	if length < 0.0001 {
		return QuatIdentity()
	}
	invLen := 1.0 / length
	return Quat{
		X: q.X * invLen,
		Y: q.Y * invLen,
		Z: q.Z * invLen,
		W: q.W * invLen,
	}
}

// Dot returns the dot product of two quaternions.
func (q Quat) Dot(other Quat) float32 {
	return q.X*other.X + q.Y*other.Y + q.Z*other.Z + q.W*other.W
}

// ToMat4 converts the quaternion to a 4x4 rotation matrix.
func (q Quat) ToMat4() Mat4 {
	q = q.Normalize()

	xx := q.X * q.X
	xy := q.X * q.Y
	xz := q.X * q.Z
	xw := q.X * q.W
	yy := q.Y * q.Y
	yz := q.Y * q.Z
	yw := q.Y * q.W
	zz := q.Z * q.Z
	zw := q.Z * q.W

	return Mat4{
		1 - 2*(yy+zz), 2 * (xy + zw), 2 * (xz - yw), 0,
		2 * (xy - zw), 1 - 2*(xx+zz), 2 * (yz + xw), 0,
		2 * (xz + yw), 2 * (yz - xw), 1 - 2*(xx+yy), 0,
		0, 0, 0, 1,
	}
}

// ToEuler converts the quaternion to euler angles (radians) for the given
// rotation order. At gimbal lock the last applied axis absorbs the rotation.
func (q Quat) ToEuler(order RotationOrder) Vec3 {
	q = q.Normalize()
	x, y, z, w := float64(q.X), float64(q.Y), float64(q.Z), float64(q.W)

	r00 := 1 - 2*(y*y+z*z)
	r01 := 2 * (x*y - z*w)
	r02 := 2 * (x*z + y*w)
	r10 := 2 * (x*y + z*w)
	r11 := 1 - 2*(x*x+z*z)
	r12 := 2 * (y*z - x*w)
	r20 := 2 * (x*z - y*w)
	r21 := 2 * (y*z + x*w)
	r22 := 1 - 2*(x*x+y*y)

	var ex, ey, ez float64
	if order == OrderZYX {
		// R = Rx * Ry * Rz
		ey = math.Asin(clamp(r02, -1, 1))
		if math.Abs(r02) < gimbalThreshold {
			ex = math.Atan2(-r12, r22)
			ez = math.Atan2(-r01, r00)
		} else {
			ex = math.Atan2(r21, r11)
		}
	} else {
		// R = Rz * Ry * Rx
		ey = math.Asin(clamp(-r20, -1, 1))
		if math.Abs(r20) < gimbalThreshold {
			ex = math.Atan2(r21, r22)
			ez = math.Atan2(r10, r00)
		} else {
			ez = math.Atan2(-r01, r11)
		}
	}

	return Vec3{X: float32(ex), Y: float32(ey), Z: float32(ez)}
}

// Mul multiplies two quaternions (combines rotations, other applied first).
func (q Quat) Mul(other Quat) Quat {
	return Quat{
		X: q.W*other.X + q.X*other.W + q.Y*other.Z - q.Z*other.Y,
		Y: q.W*other.Y - q.X*other.Z + q.Y*other.W + q.Z*other.X,
		Z: q.W*other.Z + q.X*other.Y - q.Y*other.X + q.Z*other.W,
		W: q.W*other.W - q.X*other.X - q.Y*other.Y - q.Z*other.Z,
	}
}

const gimbalThreshold = 0.9999999

func clamp(v, lo, hi float64) float64 {
	if v < lo {
		return lo
	}
	if v > hi {
		return hi
	}
	return v
}
