// Copyright (c) 2025, The Gomaya Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package core

import (
	"fmt"

	"github.com/Pahuska/gomaya/math32"
	"github.com/Pahuska/gomaya/scene"
	"github.com/Pahuska/gomaya/units"
)

// GeometryShape wraps a shape node carrying a geometry payload.
type GeometryShape struct {
	DagNode
}

// AsGeometryShape returns the embedded geometry shape base.
func (gs *GeometryShape) AsGeometryShape() *GeometryShape { return gs }

// Geometry returns the shape's geometry payload.
func (gs *GeometryShape) Geometry() (scene.Geometry, error) {
	nd, err := gs.Node()
	if err != nil {
		return nil, err
	}
	g := nd.Geometry()
	if g == nil {
		return nil, fmt.Errorf("%w: %s carries no geometry", ErrTypeMismatch, nd.Name())
	}
	return g, nil
}

// fullComponent returns the component wrapper covering every element
// of the given kind on this shape.
func (gs *GeometryShape) fullComponent(kind scene.ComponentKind) (Comp, error) {
	nd, err := gs.Node()
	if err != nil {
		return nil, err
	}
	g, err := gs.Geometry()
	if err != nil {
		return nil, err
	}
	counts, ok := g.CountsFor(kind)
	if !ok {
		return nil, fmt.Errorf("%w: %s has no %s elements", ErrTypeMismatch, nd.Name(), kind)
	}
	comp := scene.NewComponent(kind, expandElements(counts)...)
	obj, err := gs.Ses.Resolve(ComponentHandle(nd.Path(), comp), nil)
	if err != nil {
		return nil, err
	}
	return obj.(Comp), nil
}

////////  Mesh

// Mesh wraps a polygonal mesh shape.
type Mesh struct {
	GeometryShape
}

// AsMesh returns the embedded mesh base.
func (m *Mesh) AsMesh() *Mesh { return m }

func (m *Mesh) meshData() (*scene.MeshData, error) {
	g, err := m.Geometry()
	if err != nil {
		return nil, err
	}
	md, ok := g.(*scene.MeshData)
	if !ok {
		return nil, fmt.Errorf("%w: %T is not mesh data", ErrTypeMismatch, g)
	}
	return md, nil
}

// NumVertices returns the vertex count.
func (m *Mesh) NumVertices() (int, error) {
	md, err := m.meshData()
	if err != nil {
		return 0, err
	}
	return md.NumVertices(), nil
}

// NumEdges returns the edge count.
func (m *Mesh) NumEdges() (int, error) {
	md, err := m.meshData()
	if err != nil {
		return 0, err
	}
	return md.NumEdges(), nil
}

// NumFaces returns the face count.
func (m *Mesh) NumFaces() (int, error) {
	md, err := m.meshData()
	if err != nil {
		return 0, err
	}
	return md.NumFaces(), nil
}

// Vtx returns the component holding every vertex.
func (m *Mesh) Vtx() (Comp, error) { return m.fullComponent(scene.CompMeshVertex) }

// Edge returns the component holding every edge.
func (m *Mesh) Edge() (Comp, error) { return m.fullComponent(scene.CompMeshEdge) }

// Face returns the component holding every face.
func (m *Mesh) Face() (Comp, error) { return m.fullComponent(scene.CompMeshFace) }

// EdgeVertices returns the two vertices of an edge.
func (m *Mesh) EdgeVertices(e int) ([2]int, error) {
	md, err := m.meshData()
	if err != nil {
		return [2]int{}, err
	}
	ev, err := md.Edge(e)
	if err != nil {
		return [2]int{}, wrapErr(err)
	}
	return ev, nil
}

// FaceVertices returns the vertices around a face, in winding order.
func (m *Mesh) FaceVertices(f int) ([]int, error) {
	md, err := m.meshData()
	if err != nil {
		return nil, err
	}
	fv, err := md.FaceVertices(f)
	if err != nil {
		return nil, wrapErr(err)
	}
	return fv, nil
}

// VertexFaces returns the faces sharing a vertex.
func (m *Mesh) VertexFaces(v int) ([]int, error) {
	md, err := m.meshData()
	if err != nil {
		return nil, err
	}
	vf, err := md.VertexFaces(v)
	if err != nil {
		return nil, wrapErr(err)
	}
	return vf, nil
}

// VertexEdges returns the edges meeting at a vertex.
func (m *Mesh) VertexEdges(v int) ([]int, error) {
	md, err := m.meshData()
	if err != nil {
		return nil, err
	}
	ve, err := md.VertexEdges(v)
	if err != nil {
		return nil, wrapErr(err)
	}
	return ve, nil
}

// VertexNeighbors returns the vertices sharing an edge with a vertex.
func (m *Mesh) VertexNeighbors(v int) ([]int, error) {
	md, err := m.meshData()
	if err != nil {
		return nil, err
	}
	vn, err := md.VertexNeighbors(v)
	if err != nil {
		return nil, wrapErr(err)
	}
	return vn, nil
}

// EdgeFaces returns the faces on either side of an edge.
func (m *Mesh) EdgeFaces(e int) ([]int, error) {
	md, err := m.meshData()
	if err != nil {
		return nil, err
	}
	ef, err := md.EdgeFaces(e)
	if err != nil {
		return nil, wrapErr(err)
	}
	return ef, nil
}

////////  NurbsCurve

// NurbsCurve wraps a NURBS curve shape.
type NurbsCurve struct {
	GeometryShape
}

// AsNurbsCurve returns the embedded curve base.
func (c *NurbsCurve) AsNurbsCurve() *NurbsCurve { return c }

func (c *NurbsCurve) curveData() (*scene.CurveData, error) {
	g, err := c.Geometry()
	if err != nil {
		return nil, err
	}
	cd, ok := g.(*scene.CurveData)
	if !ok {
		return nil, fmt.Errorf("%w: %T is not curve data", ErrTypeMismatch, g)
	}
	return cd, nil
}

// CV returns the component holding every control vertex.
func (c *NurbsCurve) CV() (Comp, error) { return c.fullComponent(scene.CompCurveCV) }

// NumCVs returns the control vertex count.
func (c *NurbsCurve) NumCVs() (int, error) {
	cd, err := c.curveData()
	if err != nil {
		return 0, err
	}
	return cd.NumCVs(), nil
}

// Degree returns the basis degree.
func (c *NurbsCurve) Degree() (int, error) {
	cd, err := c.curveData()
	if err != nil {
		return 0, err
	}
	return cd.Degree, nil
}

// Form returns how the curve closes.
func (c *NurbsCurve) Form() (scene.CurveForm, error) {
	cd, err := c.curveData()
	if err != nil {
		return scene.FormOpen, err
	}
	return cd.Form, nil
}

// KnotDomain returns the parameter range the curve is defined over.
func (c *NurbsCurve) KnotDomain() (float32, float32, error) {
	cd, err := c.curveData()
	if err != nil {
		return 0, 0, err
	}
	lo, hi := cd.KnotDomain()
	return lo, hi, nil
}

// PointAt evaluates the curve at the given parameter, in object space
// and UI distance units.
func (c *NurbsCurve) PointAt(u float32) (math32.Vector3, error) {
	cd, err := c.curveData()
	if err != nil {
		return math32.Vector3{}, err
	}
	return distanceToUIVec3(cd.PointAt(u)), nil
}

// Length returns the arc length in UI distance units.
func (c *NurbsCurve) Length() (float32, error) {
	cd, err := c.curveData()
	if err != nil {
		return 0, err
	}
	return units.DistanceToUI(cd.Length()), nil
}

////////  NurbsSurface

// NurbsSurface wraps a NURBS surface shape.
type NurbsSurface struct {
	GeometryShape
}

// AsNurbsSurface returns the embedded surface base.
func (s *NurbsSurface) AsNurbsSurface() *NurbsSurface { return s }

func (s *NurbsSurface) surfaceData() (*scene.SurfaceData, error) {
	g, err := s.Geometry()
	if err != nil {
		return nil, err
	}
	sd, ok := g.(*scene.SurfaceData)
	if !ok {
		return nil, fmt.Errorf("%w: %T is not surface data", ErrTypeMismatch, g)
	}
	return sd, nil
}

// CV returns the component holding every control vertex of the grid.
func (s *NurbsSurface) CV() (Comp, error) { return s.fullComponent(scene.CompSurfaceCV) }

// NumCVsU returns the CV count in the U direction.
func (s *NurbsSurface) NumCVsU() (int, error) {
	sd, err := s.surfaceData()
	if err != nil {
		return 0, err
	}
	return sd.NumCVsU(), nil
}

// NumCVsV returns the CV count in the V direction.
func (s *NurbsSurface) NumCVsV() (int, error) {
	sd, err := s.surfaceData()
	if err != nil {
		return 0, err
	}
	return sd.NumCVsV(), nil
}

// DegreeU returns the basis degree in the U direction.
func (s *NurbsSurface) DegreeU() (int, error) {
	sd, err := s.surfaceData()
	if err != nil {
		return 0, err
	}
	return sd.DegreeU, nil
}

// DegreeV returns the basis degree in the V direction.
func (s *NurbsSurface) DegreeV() (int, error) {
	sd, err := s.surfaceData()
	if err != nil {
		return 0, err
	}
	return sd.DegreeV, nil
}

////////  Lattice

// Lattice wraps a free-form deformation lattice shape.
type Lattice struct {
	GeometryShape
}

// AsLattice returns the embedded lattice base.
func (l *Lattice) AsLattice() *Lattice { return l }

func (l *Lattice) latticeData() (*scene.LatticeData, error) {
	g, err := l.Geometry()
	if err != nil {
		return nil, err
	}
	ld, ok := g.(*scene.LatticeData)
	if !ok {
		return nil, fmt.Errorf("%w: %T is not lattice data", ErrTypeMismatch, g)
	}
	return ld, nil
}

// Pt returns the component holding every lattice point.
func (l *Lattice) Pt() (Comp, error) { return l.fullComponent(scene.CompLatticePoint) }

// Divisions returns the per-axis point counts.
func (l *Lattice) Divisions() (s, t, u int, err error) {
	ld, err := l.latticeData()
	if err != nil {
		return 0, 0, 0, err
	}
	return ld.S, ld.T, ld.U, nil
}
