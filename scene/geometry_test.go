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

func TestCubeMeshTopology(t *testing.T) {
	m := NewCubeMesh(2)
	assert.Equal(t, 8, m.NumVertices())
	assert.Equal(t, 6, m.NumFaces())
	assert.Equal(t, 12, m.NumEdges())

	counts, ok := m.CountsFor(CompMeshVertex)
	require.True(t, ok)
	assert.Equal(t, []int{8}, counts)
	counts, ok = m.CountsFor(CompMeshEdge)
	require.True(t, ok)
	assert.Equal(t, []int{12}, counts)
	counts, ok = m.CountsFor(CompMeshFace)
	require.True(t, ok)
	assert.Equal(t, []int{6}, counts)
	_, ok = m.CountsFor(CompCurveCV)
	assert.False(t, ok)

	// every cube vertex borders exactly 3 faces, 3 edges, 3 neighbors
	for vi := range m.Points {
		faces, err := m.VertexFaces(vi)
		require.NoError(t, err)
		assert.Len(t, faces, 3)
		edges, err := m.VertexEdges(vi)
		require.NoError(t, err)
		assert.Len(t, edges, 3)
		nbrs, err := m.VertexNeighbors(vi)
		require.NoError(t, err)
		assert.Len(t, nbrs, 3)
	}

	// every edge of a closed mesh borders exactly 2 faces
	for ei := range m.Edges() {
		faces, err := m.EdgeFaces(ei)
		require.NoError(t, err)
		assert.Len(t, faces, 2)
	}

	fv, err := m.FaceVertices(0)
	require.NoError(t, err)
	assert.Equal(t, m.Faces[0], fv)
	_, err = m.FaceVertices(6)
	assert.ErrorIs(t, err, ErrOutOfRange)
}

func TestMeshEdgeOrderStable(t *testing.T) {
	m := NewCubeMesh(1)
	first := m.Edges()
	again := NewCubeMesh(1).Edges()
	assert.Equal(t, first, again)
	for _, e := range first {
		assert.Less(t, e[0], e[1])
	}

	m.InvalidateTopology()
	assert.Equal(t, first, m.Edges())
}

func TestMeshPositions(t *testing.T) {
	m := NewCubeMesh(2)
	p, err := m.Position(CompMeshVertex, [3]int{0, 0, 0})
	require.NoError(t, err)
	assert.Equal(t, math32.Vec3(-1, -1, -1), p)

	err = m.SetPosition(CompMeshVertex, [3]int{0, 0, 0}, math32.Vec3(5, 5, 5))
	require.NoError(t, err)
	p, err = m.Position(CompMeshVertex, [3]int{0, 0, 0})
	require.NoError(t, err)
	assert.Equal(t, math32.Vec3(5, 5, 5), p)

	_, err = m.Position(CompMeshVertex, [3]int{8, 0, 0})
	assert.ErrorIs(t, err, ErrOutOfRange)
	_, err = m.Position(CompMeshEdge, [3]int{0, 0, 0})
	assert.ErrorIs(t, err, ErrValueType)
}

func TestCurveEvaluation(t *testing.T) {
	// a straight degree 3 curve: arc length equals the chord
	cvs := []math32.Vector3{
		math32.Vec3(0, 0, 0),
		math32.Vec3(1, 0, 0),
		math32.Vec3(2, 0, 0),
		math32.Vec3(3, 0, 0),
	}
	c := NewCurveData(cvs, 3)
	assert.Equal(t, 4, c.NumCVs())
	assert.Len(t, c.Knots, 8)

	lo, hi := c.KnotDomain()
	assert.Equal(t, float32(0), lo)
	assert.Equal(t, float32(1), hi)

	p := c.PointAt(lo)
	assert.InDelta(t, 0, p.X, 1e-5)
	p = c.PointAt(hi)
	assert.InDelta(t, 3, p.X, 1e-5)
	p = c.PointAt((lo + hi) / 2)
	assert.InDelta(t, 1.5, p.X, 1e-4)
	assert.InDelta(t, 0, p.Y, 1e-5)

	// parameters outside the domain clamp to the ends
	p = c.PointAt(hi + 10)
	assert.InDelta(t, 3, p.X, 1e-5)

	assert.InDelta(t, 3, c.Length(), 1e-3)
}

func TestCurveDegreeCapped(t *testing.T) {
	cvs := []math32.Vector3{
		math32.Vec3(0, 0, 0),
		math32.Vec3(1, 1, 0),
		math32.Vec3(2, 0, 0),
	}
	c := NewCurveData(cvs, 3)
	assert.Equal(t, 2, c.Degree)
}

func TestCurveLengthCache(t *testing.T) {
	cvs := []math32.Vector3{
		math32.Vec3(0, 0, 0),
		math32.Vec3(1, 0, 0),
		math32.Vec3(2, 0, 0),
		math32.Vec3(3, 0, 0),
	}
	c := NewCurveData(cvs, 3)
	first := c.Length()
	assert.InDelta(t, 3, first, 1e-3)

	// moving a CV through SetPosition drops the cached length
	err := c.SetPosition(CompCurveCV, [3]int{3, 0, 0}, math32.Vec3(6, 0, 0))
	require.NoError(t, err)
	assert.Greater(t, c.Length(), first)
}

func TestCurveCounts(t *testing.T) {
	cvs := []math32.Vector3{
		math32.Vec3(0, 0, 0),
		math32.Vec3(1, 1, 0),
		math32.Vec3(2, 0, 0),
	}
	c := NewCurveData(cvs, 2)
	counts, ok := c.CountsFor(CompCurveCV)
	require.True(t, ok)
	assert.Equal(t, []int{3}, counts)
	_, ok = c.CountsFor(CompMeshVertex)
	assert.False(t, ok)
}

func TestPlaneSurface(t *testing.T) {
	s := NewPlaneSurface(4, 3, 2)
	assert.Equal(t, 4, s.NumCVsU())
	assert.Equal(t, 3, s.NumCVsV())
	counts, ok := s.CountsFor(CompSurfaceCV)
	require.True(t, ok)
	assert.Equal(t, []int{4, 3}, counts)

	p, err := s.Position(CompSurfaceCV, [3]int{0, 0, 0})
	require.NoError(t, err)
	assert.Equal(t, float32(-1), p.X)
	assert.Equal(t, float32(-1), p.Z)

	err = s.SetPosition(CompSurfaceCV, [3]int{1, 2, 0}, math32.Vec3(0, 9, 0))
	require.NoError(t, err)
	p, err = s.Position(CompSurfaceCV, [3]int{1, 2, 0})
	require.NoError(t, err)
	assert.Equal(t, float32(9), p.Y)

	_, err = s.Position(CompSurfaceCV, [3]int{4, 0, 0})
	assert.ErrorIs(t, err, ErrOutOfRange)
	_, err = s.Position(CompCurveCV, [3]int{0, 0, 0})
	assert.ErrorIs(t, err, ErrValueType)
}

func TestLatticeIndexing(t *testing.T) {
	l := NewLatticeData(2, 3, 4)
	counts, ok := l.CountsFor(CompLatticePoint)
	require.True(t, ok)
	assert.Equal(t, []int{2, 3, 4}, counts)
	assert.Len(t, l.Points, 24)

	p, err := l.Point(0, 0, 0)
	require.NoError(t, err)
	assert.Equal(t, math32.Vec3(-0.5, -0.5, -0.5), p)
	p, err = l.Point(1, 2, 3)
	require.NoError(t, err)
	assert.Equal(t, math32.Vec3(0.5, 0.5, 0.5), p)

	err = l.SetPoint(1, 1, 1, math32.Vec3(1, 2, 3))
	require.NoError(t, err)
	p, err = l.Point(1, 1, 1)
	require.NoError(t, err)
	assert.Equal(t, math32.Vec3(1, 2, 3), p)

	p, err = l.Position(CompLatticePoint, [3]int{1, 1, 1})
	require.NoError(t, err)
	assert.Equal(t, math32.Vec3(1, 2, 3), p)

	_, err = l.Point(2, 0, 0)
	assert.ErrorIs(t, err, ErrOutOfRange)
	_, err = l.Position(CompMeshVertex, [3]int{0, 0, 0})
	assert.ErrorIs(t, err, ErrValueType)
}
