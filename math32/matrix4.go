// Copyright (c) 2025, The Gomaya Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package math32

import "fmt"

// Matrix4 is a 4x4 matrix stored in column-major order, operating on
// column vectors (transformed = M * v). Transform composition therefore
// reads right to left: M = T * R * Sh * S applies scale first.
type Matrix4 [16]float32

// Identity4 returns a new identity [Matrix4].
func Identity4() Matrix4 {
	m := Matrix4{}
	m.SetIdentity()
	return m
}

// Set sets all components of this matrix from the given values,
// passed in row-major order for readability.
func (m *Matrix4) Set(n11, n12, n13, n14, n21, n22, n23, n24, n31, n32, n33, n34, n41, n42, n43, n44 float32) {
	m[0] = n11
	m[4] = n12
	m[8] = n13
	m[12] = n14
	m[1] = n21
	m[5] = n22
	m[9] = n23
	m[13] = n24
	m[2] = n31
	m[6] = n32
	m[10] = n33
	m[14] = n34
	m[3] = n41
	m[7] = n42
	m[11] = n43
	m[15] = n44
}

// SetIdentity sets this matrix to the identity matrix.
func (m *Matrix4) SetIdentity() {
	m.Set(
		1, 0, 0, 0,
		0, 1, 0, 0,
		0, 0, 1, 0,
		0, 0, 0, 1,
	)
}

// SetZero sets this matrix to all zeros.
func (m *Matrix4) SetZero() {
	for i := range m {
		m[i] = 0
	}
}

// FromSlice sets this matrix from the given slice of 16 values,
// in column-major order, starting at offset.
func (m *Matrix4) FromSlice(array []float32, offset int) {
	for i := 0; i < 16; i++ {
		m[i] = array[i+offset]
	}
}

// ToSlice copies this matrix to the given slice, in column-major order,
// starting at offset.
func (m *Matrix4) ToSlice(array []float32, offset int) {
	for i := 0; i < 16; i++ {
		array[i+offset] = m[i]
	}
}

func (m *Matrix4) String() string {
	return fmt.Sprintf("[%g %g %g %g; %g %g %g %g; %g %g %g %g; %g %g %g %g]",
		m[0], m[4], m[8], m[12],
		m[1], m[5], m[9], m[13],
		m[2], m[6], m[10], m[14],
		m[3], m[7], m[11], m[15])
}

// Pos returns the translation component of this matrix.
func (m *Matrix4) Pos() Vector3 {
	return Vector3{m[12], m[13], m[14]}
}

// SetPos sets the translation component of this matrix, leaving the
// rest unchanged.
func (m *Matrix4) SetPos(v Vector3) {
	m[12] = v.X
	m[13] = v.Y
	m[14] = v.Z
}

// SetTranslation sets this matrix to a pure translation matrix.
func (m *Matrix4) SetTranslation(v Vector3) {
	m.Set(
		1, 0, 0, v.X,
		0, 1, 0, v.Y,
		0, 0, 1, v.Z,
		0, 0, 0, 1,
	)
}

// SetScale sets this matrix to a pure scale matrix.
func (m *Matrix4) SetScale(v Vector3) {
	m.Set(
		v.X, 0, 0, 0,
		0, v.Y, 0, 0,
		0, 0, v.Z, 0,
		0, 0, 0, 1,
	)
}

// SetShear sets this matrix to a pure shear matrix from the (XY, XZ, YZ)
// shear factors: XY tilts the y axis toward x, XZ tilts the z axis
// toward x, and YZ tilts the z axis toward y.
func (m *Matrix4) SetShear(shear Vector3) {
	m.Set(
		1, shear.X, shear.Y, 0,
		0, 1, shear.Z, 0,
		0, 0, 1, 0,
		0, 0, 0, 1,
	)
}

// SetRotationX sets this matrix to a rotation of theta radians about
// the x axis.
func (m *Matrix4) SetRotationX(theta float32) {
	c, s := Cos(theta), Sin(theta)
	m.Set(
		1, 0, 0, 0,
		0, c, -s, 0,
		0, s, c, 0,
		0, 0, 0, 1,
	)
}

// SetRotationY sets this matrix to a rotation of theta radians about
// the y axis.
func (m *Matrix4) SetRotationY(theta float32) {
	c, s := Cos(theta), Sin(theta)
	m.Set(
		c, 0, s, 0,
		0, 1, 0, 0,
		-s, 0, c, 0,
		0, 0, 0, 1,
	)
}

// SetRotationZ sets this matrix to a rotation of theta radians about
// the z axis.
func (m *Matrix4) SetRotationZ(theta float32) {
	c, s := Cos(theta), Sin(theta)
	m.Set(
		c, -s, 0, 0,
		s, c, 0, 0,
		0, 0, 1, 0,
		0, 0, 0, 1,
	)
}

// Mul returns this matrix times the other matrix (m * other).
func (m *Matrix4) Mul(other *Matrix4) Matrix4 {
	out := Matrix4{}
	out.MulMatrices(m, other)
	return out
}

// MulMatrices sets this matrix to a * b.
func (m *Matrix4) MulMatrices(a, b *Matrix4) {
	a11, a12, a13, a14 := a[0], a[4], a[8], a[12]
	a21, a22, a23, a24 := a[1], a[5], a[9], a[13]
	a31, a32, a33, a34 := a[2], a[6], a[10], a[14]
	a41, a42, a43, a44 := a[3], a[7], a[11], a[15]

	b11, b12, b13, b14 := b[0], b[4], b[8], b[12]
	b21, b22, b23, b24 := b[1], b[5], b[9], b[13]
	b31, b32, b33, b34 := b[2], b[6], b[10], b[14]
	b41, b42, b43, b44 := b[3], b[7], b[11], b[15]

	m[0] = a11*b11 + a12*b21 + a13*b31 + a14*b41
	m[4] = a11*b12 + a12*b22 + a13*b32 + a14*b42
	m[8] = a11*b13 + a12*b23 + a13*b33 + a14*b43
	m[12] = a11*b14 + a12*b24 + a13*b34 + a14*b44

	m[1] = a21*b11 + a22*b21 + a23*b31 + a24*b41
	m[5] = a21*b12 + a22*b22 + a23*b32 + a24*b42
	m[9] = a21*b13 + a22*b23 + a23*b33 + a24*b43
	m[13] = a21*b14 + a22*b24 + a23*b34 + a24*b44

	m[2] = a31*b11 + a32*b21 + a33*b31 + a34*b41
	m[6] = a31*b12 + a32*b22 + a33*b32 + a34*b42
	m[10] = a31*b13 + a32*b23 + a33*b33 + a34*b43
	m[14] = a31*b14 + a32*b24 + a33*b34 + a34*b44

	m[3] = a41*b11 + a42*b21 + a43*b31 + a44*b41
	m[7] = a41*b12 + a42*b22 + a43*b32 + a44*b42
	m[11] = a41*b13 + a42*b23 + a43*b33 + a44*b43
	m[15] = a41*b14 + a42*b24 + a43*b34 + a44*b44
}

// Transpose returns the transpose of this matrix.
func (m *Matrix4) Transpose() Matrix4 {
	out := Matrix4{}
	out.Set(
		m[0], m[1], m[2], m[3],
		m[4], m[5], m[6], m[7],
		m[8], m[9], m[10], m[11],
		m[12], m[13], m[14], m[15],
	)
	return out
}

// Determinant returns the determinant of this matrix.
func (m *Matrix4) Determinant() float32 {
	n11, n12, n13, n14 := m[0], m[4], m[8], m[12]
	n21, n22, n23, n24 := m[1], m[5], m[9], m[13]
	n31, n32, n33, n34 := m[2], m[6], m[10], m[14]
	n41, n42, n43, n44 := m[3], m[7], m[11], m[15]

	return n41*(n14*n23*n32-n13*n24*n32-n14*n22*n33+n12*n24*n33+n13*n22*n34-n12*n23*n34) +
		n42*(n11*n23*n34-n11*n24*n33+n14*n21*n33-n13*n21*n34+n13*n24*n31-n14*n23*n31) +
		n43*(n11*n24*n32-n11*n22*n34-n14*n21*n32+n12*n21*n34+n14*n22*n31-n12*n24*n31) +
		n44*(-n13*n22*n31-n11*n23*n32+n11*n22*n33+n13*n21*n32-n12*n21*n33+n12*n23*n31)
}

// Inverse returns the inverse of this matrix.
// If the matrix is singular, it returns the zero matrix.
func (m *Matrix4) Inverse() Matrix4 {
	out := Matrix4{}
	out.SetInverse(m)
	return out
}

// SetInverse sets this matrix to the inverse of src.
// If src is singular, this matrix is set to all zeros.
func (m *Matrix4) SetInverse(src *Matrix4) {
	n11, n12, n13, n14 := src[0], src[4], src[8], src[12]
	n21, n22, n23, n24 := src[1], src[5], src[9], src[13]
	n31, n32, n33, n34 := src[2], src[6], src[10], src[14]
	n41, n42, n43, n44 := src[3], src[7], src[11], src[15]

	t11 := n23*n34*n42 - n24*n33*n42 + n24*n32*n43 - n22*n34*n43 - n23*n32*n44 + n22*n33*n44
	t12 := n14*n33*n42 - n13*n34*n42 - n14*n32*n43 + n12*n34*n43 + n13*n32*n44 - n12*n33*n44
	t13 := n13*n24*n42 - n14*n23*n42 + n14*n22*n43 - n12*n24*n43 - n13*n22*n44 + n12*n23*n44
	t14 := n14*n23*n32 - n13*n24*n32 - n14*n22*n33 + n12*n24*n33 + n13*n22*n34 - n12*n23*n34

	det := n11*t11 + n21*t12 + n31*t13 + n41*t14
	if det == 0 {
		m.SetZero()
		return
	}
	idet := 1 / det

	m[0] = t11 * idet
	m[1] = (n24*n33*n41 - n23*n34*n41 - n24*n31*n43 + n21*n34*n43 + n23*n31*n44 - n21*n33*n44) * idet
	m[2] = (n22*n34*n41 - n24*n32*n41 + n24*n31*n42 - n21*n34*n42 - n22*n31*n44 + n21*n32*n44) * idet
	m[3] = (n23*n32*n41 - n22*n33*n41 - n23*n31*n42 + n21*n33*n42 + n22*n31*n43 - n21*n32*n43) * idet

	m[4] = t12 * idet
	m[5] = (n13*n34*n41 - n14*n33*n41 + n14*n31*n43 - n11*n34*n43 - n13*n31*n44 + n11*n33*n44) * idet
	m[6] = (n14*n32*n41 - n12*n34*n41 - n14*n31*n42 + n11*n34*n42 + n12*n31*n44 - n11*n32*n44) * idet
	m[7] = (n12*n33*n41 - n13*n32*n41 + n13*n31*n42 - n11*n33*n42 - n12*n31*n43 + n11*n32*n43) * idet

	m[8] = t13 * idet
	m[9] = (n14*n23*n41 - n13*n24*n41 - n14*n21*n43 + n11*n24*n43 + n13*n21*n44 - n11*n23*n44) * idet
	m[10] = (n12*n24*n41 - n14*n22*n41 + n14*n21*n42 - n11*n24*n42 - n12*n21*n44 + n11*n22*n44) * idet
	m[11] = (n13*n22*n41 - n12*n23*n41 - n13*n21*n42 + n11*n23*n42 + n12*n21*n43 - n11*n22*n43) * idet

	m[12] = t14 * idet
	m[13] = (n13*n24*n31 - n14*n23*n31 + n14*n21*n33 - n11*n24*n33 - n13*n21*n34 + n11*n23*n34) * idet
	m[14] = (n14*n22*n31 - n12*n24*n31 - n14*n21*n32 + n11*n24*n32 + n12*n21*n34 - n11*n22*n34) * idet
	m[15] = (n12*n23*n31 - n13*n22*n31 + n13*n21*n32 - n11*n23*n32 - n12*n21*n33 + n11*n22*n33) * idet
}

// Compose sets this matrix to T * rot * Sh * S from the given
// translation, rotation matrix, shear factors (XY, XZ, YZ), and scale:
// the transform order used by transform nodes.
func (m *Matrix4) Compose(pos Vector3, rot *Matrix4, shear, scale Vector3) {
	sh := Matrix4{}
	sh.SetShear(shear)
	sc := Matrix4{}
	sc.SetScale(scale)
	m.MulMatrices(rot, &sh)
	tmp := *m
	m.MulMatrices(&tmp, &sc)
	m.SetPos(pos)
}

// Decompose extracts the translation, pure rotation matrix, shear
// factors (XY, XZ, YZ), and scale whose composition (as in [Compose])
// reproduces this matrix. A negative-determinant (mirrored) matrix
// yields a negative X scale.
func (m *Matrix4) Decompose() (pos Vector3, rot Matrix4, shear, scale Vector3) {
	pos = m.Pos()

	c0 := Vec3(m[0], m[1], m[2])
	c1 := Vec3(m[4], m[5], m[6])
	c2 := Vec3(m[8], m[9], m[10])

	// Gram-Schmidt: peel scale and shear off the basis columns.
	scale.X = c0.Length()
	r0 := c0.DivScalar(scale.X)

	d01 := r0.Dot(c1)
	c1 = c1.Sub(r0.MulScalar(d01))
	scale.Y = c1.Length()
	r1 := c1.DivScalar(scale.Y)
	shear.X = d01 / scale.Y // XY

	d02 := r0.Dot(c2)
	d12 := r1.Dot(c2)
	c2 = c2.Sub(r0.MulScalar(d02)).Sub(r1.MulScalar(d12))
	scale.Z = c2.Length()
	r2 := c2.DivScalar(scale.Z)
	shear.Y = d02 / scale.Z // XZ
	shear.Z = d12 / scale.Z // YZ

	if r0.Dot(r1.Cross(r2)) < 0 {
		scale.X = -scale.X
		r0 = r0.Negate()
		// shears projected onto r0 flip with it
		shear.X = -shear.X
		shear.Y = -shear.Y
	}

	rot.Set(
		r0.X, r1.X, r2.X, 0,
		r0.Y, r1.Y, r2.Y, 0,
		r0.Z, r1.Z, r2.Z, 0,
		0, 0, 0, 1,
	)
	return
}
