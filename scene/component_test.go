// Copyright (c) 2025, The Gomaya Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package scene

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParseComponentRanges(t *testing.T) {
	counts := []int{8}

	els, err := parseComponentRanges(CompMeshVertex, []string{"3"}, counts)
	require.NoError(t, err)
	assert.Equal(t, [][3]int{{3, 0, 0}}, els)

	els, err = parseComponentRanges(CompMeshVertex, []string{"1,3,5"}, counts)
	require.NoError(t, err)
	assert.Equal(t, [][3]int{{1, 0, 0}, {3, 0, 0}, {5, 0, 0}}, els)

	// range stops are inclusive
	els, err = parseComponentRanges(CompMeshVertex, []string{"2:4"}, counts)
	require.NoError(t, err)
	assert.Equal(t, [][3]int{{2, 0, 0}, {3, 0, 0}, {4, 0, 0}}, els)

	els, err = parseComponentRanges(CompMeshVertex, []string{"*"}, counts)
	require.NoError(t, err)
	assert.Len(t, els, 8)

	// negatives count back from the end
	els, err = parseComponentRanges(CompMeshVertex, []string{"-2"}, counts)
	require.NoError(t, err)
	assert.Equal(t, [][3]int{{6, 0, 0}}, els)

	els, err = parseComponentRanges(CompMeshVertex, []string{"-3:-1"}, counts)
	require.NoError(t, err)
	assert.Equal(t, [][3]int{{5, 0, 0}, {6, 0, 0}, {7, 0, 0}}, els)
}

func TestParseComponentMultiDim(t *testing.T) {
	counts := []int{4, 3}

	els, err := parseComponentRanges(CompSurfaceCV, []string{"1", "2"}, counts)
	require.NoError(t, err)
	assert.Equal(t, [][3]int{{1, 2, 0}}, els)

	// groups expand as a cartesian product
	els, err = parseComponentRanges(CompSurfaceCV, []string{"0:1", "0,2"}, counts)
	require.NoError(t, err)
	assert.Equal(t, [][3]int{{0, 0, 0}, {0, 2, 0}, {1, 0, 0}, {1, 2, 0}}, els)

	_, err = parseComponentRanges(CompSurfaceCV, []string{"1"}, counts)
	assert.ErrorIs(t, err, ErrOutOfRange)
	_, err = parseComponentRanges(CompMeshVertex, []string{"1", "2"}, []int{8})
	assert.ErrorIs(t, err, ErrOutOfRange)
}

func TestParseComponentErrors(t *testing.T) {
	counts := []int{8}

	_, err := parseComponentRanges(CompMeshVertex, []string{""}, counts)
	assert.ErrorIs(t, err, ErrNotFound)
	_, err = parseComponentRanges(CompMeshVertex, []string{"x"}, counts)
	assert.ErrorIs(t, err, ErrNotFound)
	_, err = parseComponentRanges(CompMeshVertex, []string{"1:2:3"}, counts)
	assert.ErrorIs(t, err, ErrNotFound)

	// a descending range selects nothing, which is an error
	_, err = parseComponentRanges(CompMeshVertex, []string{"5:2"}, counts)
	assert.ErrorIs(t, err, ErrOutOfRange)
}

func TestSplitBracketGroups(t *testing.T) {
	groups, err := splitBracketGroups("[1,3][0:2]")
	require.NoError(t, err)
	assert.Equal(t, []string{"1,3", "0:2"}, groups)

	_, err = splitBracketGroups("[1")
	assert.ErrorIs(t, err, ErrNotFound)
	_, err = splitBracketGroups("1]")
	assert.ErrorIs(t, err, ErrNotFound)
}

func TestComponentSubscript(t *testing.T) {
	c := NewComponent(CompMeshVertex, [3]int{1, 0, 0}, [3]int{3, 0, 0}, [3]int{5, 0, 0})
	assert.Equal(t, "vtx[1,3,5]", c.Subscript())
	assert.Equal(t, []int{1, 3, 5}, c.Indices())
	assert.Equal(t, 3, c.Len())

	c = NewComponent(CompMeshEdge, [3]int{7, 0, 0})
	assert.Equal(t, "e[7]", c.String())

	c = NewComponent(CompSurfaceCV, [3]int{0, 2, 0}, [3]int{1, 3, 0})
	assert.Equal(t, "cv[0][2],cv[1][3]", c.Subscript())

	c = NewComponent(CompLatticePoint, [3]int{1, 0, 2})
	assert.Equal(t, "pt[1][0][2]", c.Subscript())
}

func TestComponentValidate(t *testing.T) {
	mesh := NewCubeMesh(1)

	c := NewComponent(CompMeshEdge, [3]int{11, 0, 0})
	assert.NoError(t, c.Validate(mesh))

	c = NewComponent(CompMeshEdge, [3]int{12, 0, 0})
	assert.ErrorIs(t, c.Validate(mesh), ErrOutOfRange)

	// a negative survives parsing only when it resolves in range
	c = NewComponent(CompMeshVertex, [3]int{-1, 0, 0})
	assert.ErrorIs(t, c.Validate(mesh), ErrOutOfRange)

	c = NewComponent(CompCurveCV, [3]int{0, 0, 0})
	assert.ErrorIs(t, c.Validate(mesh), ErrValueType)
}

func TestComponentKindFor(t *testing.T) {
	assert.Equal(t, CompMeshVertex, componentKindFor(FnMesh, "vtx"))
	assert.Equal(t, CompMeshEdge, componentKindFor(FnMesh, "e"))
	assert.Equal(t, CompMeshFace, componentKindFor(FnMesh, "f"))
	assert.Equal(t, CompCurveCV, componentKindFor(FnNurbsCurve, "cv"))
	assert.Equal(t, CompSurfaceCV, componentKindFor(FnNurbsSurface, "cv"))
	assert.Equal(t, CompLatticePoint, componentKindFor(FnLattice, "pt"))

	assert.Equal(t, CompInvalid, componentKindFor(FnMesh, "cv"))
	assert.Equal(t, CompInvalid, componentKindFor(FnLattice, "vtx"))
}

func TestComponentKindDims(t *testing.T) {
	assert.Equal(t, 1, CompMeshVertex.Dims())
	assert.Equal(t, 1, CompCurveCV.Dims())
	assert.Equal(t, 2, CompSurfaceCV.Dims())
	assert.Equal(t, 3, CompLatticePoint.Dims())
}
