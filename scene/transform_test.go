// Copyright (c) 2025, The Gomaya Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package scene

import (
	"testing"

	"github.com/Pahuska/gomaya/math32"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const matTol = 1.0e-5

func setChannel(t *testing.T, n *Node, name string, v any) {
	t.Helper()
	p, err := n.FindPlug(name)
	require.NoError(t, err)
	require.NoError(t, p.setValue(v))
}

func assertVec3Near(t *testing.T, want, got math32.Vector3) {
	t.Helper()
	assert.InDelta(t, want.X, got.X, matTol, "x")
	assert.InDelta(t, want.Y, got.Y, matTol, "y")
	assert.InDelta(t, want.Z, got.Z, matTol, "z")
}

func assertMatNear(t *testing.T, want, got math32.Matrix4) {
	t.Helper()
	for i := 0; i < 16; i++ {
		assert.InDelta(t, want[i], got[i], matTol, "element %d", i)
	}
}

func TestLocalMatrixTranslate(t *testing.T) {
	g := NewGraph()
	n, err := g.NewNode("transform", "t1", nil)
	require.NoError(t, err)
	setChannel(t, n, "tx", float32(1))
	setChannel(t, n, "ty", float32(2))
	setChannel(t, n, "tz", float32(3))

	m := g.LocalMatrix(n)
	assertVec3Near(t, math32.Vec3(1, 2, 3), m.Pos())
}

func TestLocalMatrixComposition(t *testing.T) {
	g := NewGraph()
	n, err := g.NewNode("transform", "t1", nil)
	require.NoError(t, err)
	setChannel(t, n, "sx", float32(2))
	setChannel(t, n, "shearXY", float32(1))
	setChannel(t, n, "rz", math32.DegToRad(90))

	// scale applies first, then shear, then rotate:
	// (0,1,0) scales in place, shears to (1,1,0), rotates to (-1,1,0)
	m := g.LocalMatrix(n)
	p := math32.Vec3(0, 1, 0).MulMatrix4AsPoint(&m)
	assertVec3Near(t, math32.Vec3(-1, 1, 0), p)

	p = math32.Vec3(1, 0, 0).MulMatrix4AsPoint(&m)
	assertVec3Near(t, math32.Vec3(0, 2, 0), p)
}

func TestWorldMatrixHierarchy(t *testing.T) {
	g := NewGraph()
	parent, err := g.NewNode("transform", "grp", nil)
	require.NoError(t, err)
	child, err := g.NewNode("transform", "leaf", parent)
	require.NoError(t, err)
	setChannel(t, parent, "tx", float32(1))
	setChannel(t, parent, "rz", math32.DegToRad(90))
	setChannel(t, child, "ty", float32(2))

	// the child origin sits at (0,2,0) locally, which the parent
	// rotates to (-2,0,0) and shifts to (-1,0,0)
	wm := g.WorldMatrix(child)
	assertVec3Near(t, math32.Vec3(-1, 0, 0), wm.Pos())

	pl := g.LocalMatrix(parent)
	cl := g.LocalMatrix(child)
	assertMatNear(t, pl.Mul(&cl), wm)

	// roots compose against nothing
	assertMatNear(t, pl, g.WorldMatrix(parent))
}

func TestJointOrient(t *testing.T) {
	g := NewGraph()
	j, err := g.NewNode("joint", "j1", nil)
	require.NoError(t, err)
	setChannel(t, j, "jointOrientZ", math32.DegToRad(90))
	setChannel(t, j, "rx", math32.DegToRad(90))

	// rotate applies before the orient: x stays on x through the
	// x rotation, then the z orient carries it to y
	m := g.LocalMatrix(j)
	p := math32.Vec3(1, 0, 0).MulMatrix4AsPoint(&m)
	assertVec3Near(t, math32.Vec3(0, 1, 0), p)
}

func TestRotateOrderChannel(t *testing.T) {
	g := NewGraph()
	n, err := g.NewNode("transform", "t1", nil)
	require.NoError(t, err)
	setChannel(t, n, "rx", math32.DegToRad(90))
	setChannel(t, n, "rz", math32.DegToRad(90))

	assert.Equal(t, math32.XYZ, g.RotateOrder(n))
	m := g.LocalMatrix(n)
	p := math32.Vec3(0, 1, 0).MulMatrix4AsPoint(&m)
	assertVec3Near(t, math32.Vec3(0, 0, 1), p)

	setChannel(t, n, "rotateOrder", 5)
	assert.Equal(t, math32.ZYX, g.RotateOrder(n))
	m = g.LocalMatrix(n)
	p = math32.Vec3(0, 1, 0).MulMatrix4AsPoint(&m)
	assertVec3Near(t, math32.Vec3(-1, 0, 0), p)
}

func TestShapeMatrixIdentity(t *testing.T) {
	g := NewGraph()
	xform, err := g.NewNode("transform", "pCube1", nil)
	require.NoError(t, err)
	shape, err := g.NewNode("mesh", "pCubeShape1", xform)
	require.NoError(t, err)
	setChannel(t, xform, "tx", float32(4))

	assertMatNear(t, math32.Identity4(), g.LocalMatrix(shape))
	assertMatNear(t, g.WorldMatrix(xform), g.WorldMatrix(shape))
}

func TestComputedMatrixPlugs(t *testing.T) {
	g := NewGraph()
	parent, err := g.NewNode("transform", "grp", nil)
	require.NoError(t, err)
	child, err := g.NewNode("transform", "leaf", parent)
	require.NoError(t, err)
	setChannel(t, parent, "tx", float32(1))
	setChannel(t, child, "ty", float32(2))

	read := func(n *Node, attr string) math32.Matrix4 {
		t.Helper()
		p, err := n.FindPlug(attr)
		require.NoError(t, err)
		v, err := p.Value()
		require.NoError(t, err)
		m, ok := v.(math32.Matrix4)
		require.True(t, ok, "%s value type %T", attr, v)
		return m
	}

	m := read(child, "matrix")
	assertMatNear(t, g.LocalMatrix(child), m)

	im := read(child, "inverseMatrix")
	assertMatNear(t, math32.Identity4(), m.Mul(&im))

	wm := read(child, "wm")
	assertVec3Near(t, math32.Vec3(1, 2, 0), wm.Pos())
	wim := read(child, "worldInverseMatrix")
	assertMatNear(t, math32.Identity4(), wm.Mul(&wim))

	assertMatNear(t, read(parent, "worldMatrix"), read(child, "parentMatrix"))
	assertMatNear(t, math32.Identity4(), read(parent, "parentMatrix"))
	pim := read(child, "parentInverseMatrix")
	pm := read(child, "parentMatrix")
	assertMatNear(t, math32.Identity4(), pm.Mul(&pim))
}

func TestComputedUnknownAttr(t *testing.T) {
	g := NewGraph()
	n, err := g.NewNode("network", "n1", nil)
	require.NoError(t, err)
	n.addAttrValue(NewAttrDef("derived", KindMatrix).SetComputed())

	p, err := n.FindPlug("derived")
	require.NoError(t, err)
	_, err = p.Value()
	assert.ErrorIs(t, err, ErrValueType)
}
