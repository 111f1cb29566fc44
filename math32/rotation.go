// Copyright (c) 2025, The Gomaya Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package math32

// RotationOrder is the order in which rotations about the three
// coordinate axes are applied: XYZ applies the x rotation first, then
// y, then z. The numeric values match the transform node's rotateOrder
// enum fields.
type RotationOrder int32

const (
	XYZ RotationOrder = iota
	YZX
	ZXY
	XZY
	YXZ
	ZYX
)

// RotationOrderNames are the lower-case names of the rotation orders,
// indexed by their values.
var RotationOrderNames = []string{"xyz", "yzx", "zxy", "xzy", "yxz", "zyx"}

func (ro RotationOrder) String() string {
	if ro < 0 || int(ro) >= len(RotationOrderNames) {
		return "invalid"
	}
	return RotationOrderNames[ro]
}

// Euler is a rotation expressed as angles in radians about the x, y,
// and z axes, applied in the given [RotationOrder].
type Euler struct {
	X     float32
	Y     float32
	Z     float32
	Order RotationOrder
}

// EulerFromVector3 returns an Euler rotation with the angles taken from
// the given vector and the given order.
func EulerFromVector3(v Vector3, order RotationOrder) Euler {
	return Euler{X: v.X, Y: v.Y, Z: v.Z, Order: order}
}

// Vector3 returns the three angles as a [Vector3], dropping the order.
func (e Euler) Vector3() Vector3 {
	return Vector3{e.X, e.Y, e.Z}
}

// ToMatrix returns the rotation matrix for this Euler rotation: the
// product of the per-axis rotations with the first-applied axis
// rightmost, so that it multiplies column vectors in application order.
func (e Euler) ToMatrix() Matrix4 {
	var rx, ry, rz Matrix4
	rx.SetRotationX(e.X)
	ry.SetRotationY(e.Y)
	rz.SetRotationZ(e.Z)
	out := Matrix4{}
	switch e.Order {
	case XYZ:
		out.MulMatrices(&rz, &ry)
		tmp := out
		out.MulMatrices(&tmp, &rx)
	case YZX:
		out.MulMatrices(&rx, &rz)
		tmp := out
		out.MulMatrices(&tmp, &ry)
	case ZXY:
		out.MulMatrices(&ry, &rx)
		tmp := out
		out.MulMatrices(&tmp, &rz)
	case XZY:
		out.MulMatrices(&ry, &rz)
		tmp := out
		out.MulMatrices(&tmp, &rx)
	case YXZ:
		out.MulMatrices(&rz, &rx)
		tmp := out
		out.MulMatrices(&tmp, &ry)
	case ZYX:
		out.MulMatrices(&rx, &ry)
		tmp := out
		out.MulMatrices(&tmp, &rz)
	default:
		out.SetIdentity()
	}
	return out
}

// EulerFromMatrix extracts the Euler angles in the given order from the
// given pure rotation matrix (no scale or shear).
func EulerFromMatrix(m *Matrix4, order RotationOrder) Euler {
	m00, m01, m02 := m[0], m[4], m[8]
	m10, m11, m12 := m[1], m[5], m[9]
	m20, m21, m22 := m[2], m[6], m[10]

	e := Euler{Order: order}
	const gimbal = 0.9999999

	switch order {
	case XYZ:
		e.Y = Asin(Clamp(-m20, -1, 1))
		if Abs(m20) < gimbal {
			e.X = Atan2(m21, m22)
			e.Z = Atan2(m10, m00)
		} else {
			e.X = 0
			e.Z = Atan2(-m01, m11)
		}
	case YZX:
		e.Z = Asin(Clamp(-m01, -1, 1))
		if Abs(m01) < gimbal {
			e.X = Atan2(m21, m11)
			e.Y = Atan2(m02, m00)
		} else {
			e.X = Atan2(-m12, m22)
			e.Y = 0
		}
	case ZXY:
		e.X = Asin(Clamp(-m12, -1, 1))
		if Abs(m12) < gimbal {
			e.Y = Atan2(m02, m22)
			e.Z = Atan2(m10, m11)
		} else {
			e.Y = Atan2(-m20, m00)
			e.Z = 0
		}
	case XZY:
		e.Z = Asin(Clamp(m10, -1, 1))
		if Abs(m10) < gimbal {
			e.X = Atan2(-m12, m11)
			e.Y = Atan2(-m20, m00)
		} else {
			e.X = 0
			e.Y = Atan2(m02, m22)
		}
	case YXZ:
		e.X = Asin(Clamp(m21, -1, 1))
		if Abs(m21) < gimbal {
			e.Y = Atan2(-m20, m22)
			e.Z = Atan2(-m01, m11)
		} else {
			e.Y = 0
			e.Z = Atan2(m10, m00)
		}
	case ZYX:
		e.Y = Asin(Clamp(m02, -1, 1))
		if Abs(m02) < gimbal {
			e.X = Atan2(-m12, m22)
			e.Z = Atan2(-m01, m00)
		} else {
			e.X = Atan2(m21, m11)
			e.Z = 0
		}
	}
	return e
}

// Reorder returns this rotation expressed in the given order,
// describing the same net orientation.
func (e Euler) Reorder(order RotationOrder) Euler {
	if order == e.Order {
		return e
	}
	m := e.ToMatrix()
	return EulerFromMatrix(&m, order)
}
