// Copyright (c) 2025, The Gomaya Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package core

import (
	"testing"

	"github.com/Pahuska/gomaya/math32"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const matTol = 1.0e-4

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

// transformScene builds grp with box under it and returns their
// wrappers.
func transformScene(t *testing.T) (*Session, *Transform, *Transform) {
	t.Helper()
	s := NewSession()
	grp, err := s.CreateNode("transform", "grp", nil)
	require.NoError(t, err)
	box, err := s.CreateNode("transform", "box", grp)
	require.NoError(t, err)
	return s, grp.(*Transform), box.(*Transform)
}

func TestTranslation(t *testing.T) {
	s, grp, box := transformScene(t)

	_, err := box.SetTranslation(math32.Vec3(1, 2, 3), SpaceObject)
	require.NoError(t, err)
	pos, err := box.Translation(SpaceObject)
	require.NoError(t, err)
	assertVec3Near(t, math32.Vec3(1, 2, 3), pos)

	// with the parent at the origin both frames agree
	pos, err = box.Translation(SpaceWorld)
	require.NoError(t, err)
	assertVec3Near(t, math32.Vec3(1, 2, 3), pos)

	_, err = grp.SetTranslation(math32.Vec3(10, 0, 0), SpaceObject)
	require.NoError(t, err)
	pos, err = box.Translation(SpaceWorld)
	require.NoError(t, err)
	assertVec3Near(t, math32.Vec3(11, 2, 3), pos)

	// a world-space write lands in local channels
	_, err = box.SetTranslation(math32.Vec3(5, 5, 5), SpaceWorld)
	require.NoError(t, err)
	pos, err = box.Translation(SpaceObject)
	require.NoError(t, err)
	assertVec3Near(t, math32.Vec3(-5, 5, 5), pos)
	pos, err = box.Translation(SpaceWorld)
	require.NoError(t, err)
	assertVec3Near(t, math32.Vec3(5, 5, 5), pos)

	_, err = s.Undo()
	require.NoError(t, err)
	pos, err = box.Translation(SpaceObject)
	require.NoError(t, err)
	assertVec3Near(t, math32.Vec3(1, 2, 3), pos)
}

func TestRotation(t *testing.T) {
	s, _, box := transformScene(t)

	_, err := box.SetRotation(math32.Vec3(90, 0, 0))
	require.NoError(t, err)
	rot, err := box.Rotation()
	require.NoError(t, err)
	assertVec3Near(t, math32.Vec3(90, 0, 0), rot)

	// channels hold radians internally
	rx, err := s.Get("box.rotateX")
	require.NoError(t, err)
	internal, err := rx.(*UnitAttribute).GetInternal()
	require.NoError(t, err)
	assert.InDelta(t, math32.DegToRad(90), internal, matTol)

	// a quarter turn about x carries y onto z
	m, err := box.Matrix(SpaceObject)
	require.NoError(t, err)
	assertVec3Near(t, math32.Vec3(0, 0, 1), math32.Vec3(0, 1, 0).MulMatrix4AsPoint(&m))
}

func TestScaleShear(t *testing.T) {
	_, _, box := transformScene(t)

	_, err := box.SetScale(math32.Vec3(2, 3, 4))
	require.NoError(t, err)
	sc, err := box.Scale()
	require.NoError(t, err)
	assertVec3Near(t, math32.Vec3(2, 3, 4), sc)

	_, err = box.SetShear(math32.Vec3(0.5, 0, 0))
	require.NoError(t, err)
	sh, err := box.Shear()
	require.NoError(t, err)
	assertVec3Near(t, math32.Vec3(0.5, 0, 0), sh)

	m, err := box.Matrix(SpaceObject)
	require.NoError(t, err)
	assertVec3Near(t, math32.Vec3(2, 0, 0), math32.Vec3(1, 0, 0).MulMatrix4AsPoint(&m))
}

func TestMatrixRoundTrip(t *testing.T) {
	s, grp, box := transformScene(t)

	_, err := box.SetTranslation(math32.Vec3(1, 2, 3), SpaceObject)
	require.NoError(t, err)
	_, err = box.SetRotation(math32.Vec3(0, 0, 90))
	require.NoError(t, err)
	_, err = box.SetScale(math32.Vec3(2, 2, 2))
	require.NoError(t, err)
	m, err := box.Matrix(SpaceObject)
	require.NoError(t, err)

	// writing the matrix back through another node recovers the
	// channels
	other, err := s.CreateNode("transform", "copy", nil)
	require.NoError(t, err)
	cp := other.(*Transform)
	_, err = cp.SetMatrix(m, SpaceObject)
	require.NoError(t, err)
	pos, err := cp.Translation(SpaceObject)
	require.NoError(t, err)
	assertVec3Near(t, math32.Vec3(1, 2, 3), pos)
	rot, err := cp.Rotation()
	require.NoError(t, err)
	assertVec3Near(t, math32.Vec3(0, 0, 90), rot)
	sc, err := cp.Scale()
	require.NoError(t, err)
	assertVec3Near(t, math32.Vec3(2, 2, 2), sc)
	cm, err := cp.Matrix(SpaceObject)
	require.NoError(t, err)
	assertMatNear(t, m, cm)

	// the world matrix folds the parent in
	_, err = grp.SetTranslation(math32.Vec3(10, 0, 0), SpaceObject)
	require.NoError(t, err)
	wm, err := box.Matrix(SpaceWorld)
	require.NoError(t, err)
	assertVec3Near(t, math32.Vec3(11, 2, 3), wm.Pos())

	// a world-space matrix write compensates for the parent
	twin, err := s.CreateNode("transform", "twin", grp)
	require.NoError(t, err)
	_, err = twin.(*Transform).SetMatrix(wm, SpaceWorld)
	require.NoError(t, err)
	pos, err = twin.(*Transform).Translation(SpaceObject)
	require.NoError(t, err)
	assertVec3Near(t, math32.Vec3(1, 2, 3), pos)
	twm, err := twin.(*Transform).Matrix(SpaceWorld)
	require.NoError(t, err)
	assertMatNear(t, wm, twm)
}

func TestSetRotateOrder(t *testing.T) {
	s, _, box := transformScene(t)

	order, err := box.RotateOrder()
	require.NoError(t, err)
	assert.Equal(t, math32.XYZ, order)

	_, err = box.SetRotation(math32.Vec3(30, 45, 60))
	require.NoError(t, err)
	wm, err := box.Matrix(SpaceWorld)
	require.NoError(t, err)

	// preserving rewrites the channels so the placement holds
	_, err = box.SetRotateOrder(math32.ZYX, true)
	require.NoError(t, err)
	order, err = box.RotateOrder()
	require.NoError(t, err)
	assert.Equal(t, math32.ZYX, order)
	after, err := box.Matrix(SpaceWorld)
	require.NoError(t, err)
	assertMatNear(t, wm, after)

	// one undo steps back both the order and the channels
	_, err = s.Undo()
	require.NoError(t, err)
	order, err = box.RotateOrder()
	require.NoError(t, err)
	assert.Equal(t, math32.XYZ, order)
	rot, err := box.Rotation()
	require.NoError(t, err)
	assertVec3Near(t, math32.Vec3(30, 45, 60), rot)

	// without preserve the channels stand and the placement moves
	_, err = box.SetRotateOrder(math32.YXZ, false)
	require.NoError(t, err)
	rot, err = box.Rotation()
	require.NoError(t, err)
	assertVec3Near(t, math32.Vec3(30, 45, 60), rot)
	after, err = box.Matrix(SpaceWorld)
	require.NoError(t, err)
	assert.NotEqual(t, wm, after)
}

func TestJointOrient(t *testing.T) {
	s := NewSession()
	jt, err := s.CreateNode("joint", "hip", nil)
	require.NoError(t, err)
	hip := jt.(*Joint)

	_, err = hip.SetJointOrient(math32.Vec3(0, 0, 90))
	require.NoError(t, err)
	jo, err := hip.JointOrient()
	require.NoError(t, err)
	assertVec3Near(t, math32.Vec3(0, 0, 90), jo)

	// the orient rotates the frame even with zero rotate channels
	m, err := hip.Matrix(SpaceObject)
	require.NoError(t, err)
	assertVec3Near(t, math32.Vec3(0, 1, 0), math32.Vec3(1, 0, 0).MulMatrix4AsPoint(&m))
}

func TestFreezeRotation(t *testing.T) {
	s := NewSession()
	jt, err := s.CreateNode("joint", "hip", nil)
	require.NoError(t, err)
	hip := jt.(*Joint)
	_, err = hip.SetRotation(math32.Vec3(30, 40, 0))
	require.NoError(t, err)
	wm, err := hip.Matrix(SpaceWorld)
	require.NoError(t, err)

	_, err = hip.FreezeRotation()
	require.NoError(t, err)
	rot, err := hip.Rotation()
	require.NoError(t, err)
	assertVec3Near(t, math32.Vec3(0, 0, 0), rot)
	jo, err := hip.JointOrient()
	require.NoError(t, err)
	assertVec3Near(t, math32.Vec3(30, 40, 0), jo)
	after, err := hip.Matrix(SpaceWorld)
	require.NoError(t, err)
	assertMatNear(t, wm, after)

	action, err := s.Undo()
	require.NoError(t, err)
	assert.Equal(t, "freezeRotation", action)
	rot, err = hip.Rotation()
	require.NoError(t, err)
	assertVec3Near(t, math32.Vec3(30, 40, 0), rot)
}

func TestClearOrient(t *testing.T) {
	s := NewSession()
	jt, err := s.CreateNode("joint", "hip", nil)
	require.NoError(t, err)
	hip := jt.(*Joint)
	_, err = hip.SetJointOrient(math32.Vec3(0, 60, 0))
	require.NoError(t, err)
	_, err = hip.SetRotation(math32.Vec3(0, 0, 45))
	require.NoError(t, err)
	wm, err := hip.Matrix(SpaceWorld)
	require.NoError(t, err)

	_, err = hip.ClearOrient()
	require.NoError(t, err)
	jo, err := hip.JointOrient()
	require.NoError(t, err)
	assertVec3Near(t, math32.Vec3(0, 0, 0), jo)
	after, err := hip.Matrix(SpaceWorld)
	require.NoError(t, err)
	assertMatNear(t, wm, after)

	action, err := s.Undo()
	require.NoError(t, err)
	assert.Equal(t, "clearOrient", action)
	jo, err = hip.JointOrient()
	require.NoError(t, err)
	assertVec3Near(t, math32.Vec3(0, 60, 0), jo)
}

func TestSessionTransform(t *testing.T) {
	s, _, box := transformScene(t)

	pos := math32.Vec3(1, 2, 3)
	_, err := s.Transform("box", &TransformOptions{Translation: &pos})
	require.NoError(t, err)
	got, err := box.Translation(SpaceObject)
	require.NoError(t, err)
	assertVec3Near(t, pos, got)

	// relative edits fold into the current values
	delta := math32.Vec3(1, 0, 0)
	_, err = s.Transform("box", &TransformOptions{Translation: &delta, Relative: true})
	require.NoError(t, err)
	got, err = box.Translation(SpaceObject)
	require.NoError(t, err)
	assertVec3Near(t, math32.Vec3(2, 2, 3), got)

	rot := math32.Vec3(0, 0, 90)
	_, err = s.Transform("box", &TransformOptions{Rotation: &rot})
	require.NoError(t, err)
	_, err = s.Transform("box", &TransformOptions{Rotation: &rot, Relative: true})
	require.NoError(t, err)
	gotRot, err := box.Rotation()
	require.NoError(t, err)
	assertVec3Near(t, math32.Vec3(0, 0, 180), gotRot)

	sc := math32.Vec3(2, 2, 2)
	_, err = s.Transform("box", &TransformOptions{Scale: &sc})
	require.NoError(t, err)
	rel := math32.Vec3(3, 1, 1)
	_, err = s.Transform("box", &TransformOptions{Scale: &rel, Relative: true})
	require.NoError(t, err)
	gotSc, err := box.Scale()
	require.NoError(t, err)
	assertVec3Near(t, math32.Vec3(6, 2, 2), gotSc)

	cmd, err := s.Transform("box", nil)
	require.NoError(t, err)
	assert.Nil(t, cmd)
}

func TestSessionTransformRejects(t *testing.T) {
	s, _, _ := transformScene(t)
	_, err := s.CreateNode("network", "util", nil)
	require.NoError(t, err)

	rot := math32.Vec3(0, 0, 90)
	_, err = s.Transform("box", &TransformOptions{Rotation: &rot, Space: SpaceWorld})
	assert.ErrorIs(t, err, ErrTypeMismatch)
	assert.ErrorContains(t, err, "object space")

	m := math32.Identity4()
	pos := math32.Vec3(1, 0, 0)
	_, err = s.Transform("box", &TransformOptions{Matrix: &m, Translation: &pos})
	assert.ErrorIs(t, err, ErrTypeMismatch)
	assert.ErrorContains(t, err, "matrix excludes")

	_, err = s.Transform("util", &TransformOptions{Translation: &pos})
	assert.ErrorIs(t, err, ErrTypeMismatch)
	assert.ErrorContains(t, err, "transformation channels")
}

func TestSessionTransformWorld(t *testing.T) {
	s, grp, box := transformScene(t)
	_, err := grp.SetTranslation(math32.Vec3(10, 0, 0), SpaceObject)
	require.NoError(t, err)

	// world-space translation compensates for the parent
	pos := math32.Vec3(4, 4, 4)
	_, err = s.Transform("box", &TransformOptions{Translation: &pos, Space: SpaceWorld})
	require.NoError(t, err)
	got, err := box.Translation(SpaceObject)
	require.NoError(t, err)
	assertVec3Near(t, math32.Vec3(-6, 4, 4), got)

	// so does a world-space matrix
	target := math32.Identity4()
	target.SetPos(math32.Vec3(12, 1, 0))
	_, err = s.Transform("box", &TransformOptions{Matrix: &target, Space: SpaceWorld})
	require.NoError(t, err)
	got, err = box.Translation(SpaceObject)
	require.NoError(t, err)
	assertVec3Near(t, math32.Vec3(2, 1, 0), got)
	wm, err := box.Matrix(SpaceWorld)
	require.NoError(t, err)
	assertVec3Near(t, math32.Vec3(12, 1, 0), wm.Pos())
}

func TestParentPreservesWorld(t *testing.T) {
	s := NewSession()
	grpObj, err := s.CreateNode("transform", "grp", nil)
	require.NoError(t, err)
	grp := grpObj.(*Transform)
	_, err = grp.SetTranslation(math32.Vec3(10, 0, 0), SpaceObject)
	require.NoError(t, err)
	_, err = grp.SetRotation(math32.Vec3(0, 0, 90))
	require.NoError(t, err)
	boxObj, err := s.CreateNode("transform", "box", nil)
	require.NoError(t, err)
	box := boxObj.(*Transform)
	_, err = box.SetTranslation(math32.Vec3(1, 2, 3), SpaceObject)
	require.NoError(t, err)

	before := s.Ledger.Len()
	_, err = s.Parent(box, grp, nil)
	require.NoError(t, err)
	assert.Equal(t, before+1, s.Ledger.Len())

	parent, err := box.Parent()
	require.NoError(t, err)
	name, err := parent.DisplayName(false)
	require.NoError(t, err)
	assert.Equal(t, "grp", name)

	// the world position held while the local channels moved
	world, err := box.Translation(SpaceWorld)
	require.NoError(t, err)
	assertVec3Near(t, math32.Vec3(1, 2, 3), world)
	local, err := box.Translation(SpaceObject)
	require.NoError(t, err)
	assert.NotEqual(t, math32.Vec3(1, 2, 3), local)

	// one undo restores both the hierarchy and the channels
	action, err := s.Undo()
	require.NoError(t, err)
	assert.Equal(t, "parent", action)
	parent, err = box.Parent()
	require.NoError(t, err)
	assert.Nil(t, parent)
	local, err = box.Translation(SpaceObject)
	require.NoError(t, err)
	assertVec3Near(t, math32.Vec3(1, 2, 3), local)
}

func TestParentRelativeAndWorld(t *testing.T) {
	s := NewSession()
	grpObj, err := s.CreateNode("transform", "grp", nil)
	require.NoError(t, err)
	grp := grpObj.(*Transform)
	_, err = grp.SetTranslation(math32.Vec3(10, 0, 0), SpaceObject)
	require.NoError(t, err)
	boxObj, err := s.CreateNode("transform", "box", nil)
	require.NoError(t, err)
	box := boxObj.(*Transform)
	_, err = box.SetTranslation(math32.Vec3(1, 2, 3), SpaceObject)
	require.NoError(t, err)

	// relative keeps the channels and lets the placement jump
	_, err = s.Parent(box, grp, &ParentOptions{Relative: true})
	require.NoError(t, err)
	local, err := box.Translation(SpaceObject)
	require.NoError(t, err)
	assertVec3Near(t, math32.Vec3(1, 2, 3), local)
	world, err := box.Translation(SpaceWorld)
	require.NoError(t, err)
	assertVec3Near(t, math32.Vec3(11, 2, 3), world)

	// the world flag moves back under the root, holding placement
	_, err = s.Parent(box, nil, &ParentOptions{World: true})
	require.NoError(t, err)
	parent, err := box.Parent()
	require.NoError(t, err)
	assert.Nil(t, parent)
	local, err = box.Translation(SpaceObject)
	require.NoError(t, err)
	assertVec3Near(t, math32.Vec3(11, 2, 3), local)
}

func TestSetParentWrapper(t *testing.T) {
	s := NewSession()
	grp, err := s.CreateNode("transform", "grp", nil)
	require.NoError(t, err)
	box, err := s.CreateNode("transform", "box", nil)
	require.NoError(t, err)

	_, err = box.(*Transform).SetParent(grp, nil)
	require.NoError(t, err)
	full, err := box.DisplayName(true)
	require.NoError(t, err)
	assert.Equal(t, "|grp|box", full)

	_, err = s.Undo()
	require.NoError(t, err)
	full, err = box.DisplayName(true)
	require.NoError(t, err)
	assert.Equal(t, "|box", full)
}
