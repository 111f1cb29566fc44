// Copyright (c) 2025, The Gomaya Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package math32

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

var allOrders = []RotationOrder{XYZ, YZX, ZXY, XZY, YXZ, ZYX}

func TestEulerMatrixRoundTrip(t *testing.T) {
	for _, order := range allOrders {
		e := Euler{X: 0.3, Y: -0.7, Z: 1.2, Order: order}
		m := e.ToMatrix()
		got := EulerFromMatrix(&m, order)
		assert.InDelta(t, e.X, got.X, tolerance, "order %v x", order)
		assert.InDelta(t, e.Y, got.Y, tolerance, "order %v y", order)
		assert.InDelta(t, e.Z, got.Z, tolerance, "order %v z", order)
	}
}

func TestEulerSingleAxis(t *testing.T) {
	// a pure 90 degree x rotation maps y to z in every order
	for _, order := range allOrders {
		e := Euler{X: Pi / 2, Order: order}
		m := e.ToMatrix()
		p := Vec3(0, 1, 0).MulMatrix4AsPoint(&m)
		assert.InDelta(t, float32(0), p.X, tolerance)
		assert.InDelta(t, float32(0), p.Y, tolerance)
		assert.InDelta(t, float32(1), p.Z, tolerance)
	}
}

func TestEulerApplicationOrder(t *testing.T) {
	// XYZ applies x before z: a point on the y axis first tips to z
	// (via x), and the later z rotation leaves the z axis fixed.
	e := Euler{X: Pi / 2, Z: Pi / 2, Order: XYZ}
	m := e.ToMatrix()
	p := Vec3(0, 1, 0).MulMatrix4AsPoint(&m)
	assert.InDelta(t, float32(0), p.X, tolerance)
	assert.InDelta(t, float32(0), p.Y, tolerance)
	assert.InDelta(t, float32(1), p.Z, tolerance)

	// reversed order: z first sends y to -x, then x leaves -x fixed
	e = Euler{X: Pi / 2, Z: Pi / 2, Order: ZYX}
	m = e.ToMatrix()
	p = Vec3(0, 1, 0).MulMatrix4AsPoint(&m)
	assert.InDelta(t, float32(-1), p.X, tolerance)
	assert.InDelta(t, float32(0), p.Y, tolerance)
	assert.InDelta(t, float32(0), p.Z, tolerance)
}

func TestEulerReorder(t *testing.T) {
	e := Euler{X: 0.25, Y: 0.5, Z: -0.75, Order: XYZ}
	for _, order := range allOrders {
		re := e.Reorder(order)
		assert.Equal(t, order, re.Order)
		em := e.ToMatrix()
		rm := re.ToMatrix()
		assertMatrixEqual(t, &em, &rm)
	}
}

func TestRotationOrderNames(t *testing.T) {
	assert.Equal(t, "xyz", XYZ.String())
	assert.Equal(t, "zyx", ZYX.String())
	assert.Equal(t, "invalid", RotationOrder(17).String())
}
