// Copyright (c) 2025, The Gomaya Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package scene

import (
	"fmt"

	"github.com/Pahuska/gomaya/math32"
)

// Geometry is the payload carried by shape nodes. Each implementation
// answers component queries for the kinds it supports and exposes
// positions for its point-like elements.
type Geometry interface {

	// ShapeFn returns the shape capability this payload implements.
	ShapeFn() Fn

	// CountsFor returns the per-dimension element counts for the
	// given kind, false when the kind does not apply to this payload.
	CountsFor(kind ComponentKind) ([]int, bool)

	// Position returns the position of one element. Only point-like
	// kinds (vertices, CVs, lattice points) have positions.
	Position(kind ComponentKind, el [3]int) (math32.Vector3, error)

	// SetPosition moves one point-like element.
	SetPosition(kind ComponentKind, el [3]int, pos math32.Vector3) error
}

////////  MeshData

// MeshData is a polygonal mesh: a point array and per-face vertex
// index loops. Edges are derived from the faces on first use.
type MeshData struct {

	// Points are the vertex positions in local space.
	Points []math32.Vector3

	// Faces are the per-face vertex index loops, counter-clockwise.
	Faces [][]int

	// edges is the derived unique edge list, in order of first
	// appearance walking the faces. Each edge stores its endpoints
	// with the lower index first.
	edges [][2]int
}

// NewCubeMesh returns a cube of the given edge length centered at the
// origin, with 8 vertices and 6 quad faces.
func NewCubeMesh(size float32) *MeshData {
	h := size / 2
	return &MeshData{
		Points: []math32.Vector3{
			{X: -h, Y: -h, Z: -h}, {X: h, Y: -h, Z: -h},
			{X: h, Y: -h, Z: h}, {X: -h, Y: -h, Z: h},
			{X: -h, Y: h, Z: -h}, {X: h, Y: h, Z: -h},
			{X: h, Y: h, Z: h}, {X: -h, Y: h, Z: h},
		},
		Faces: [][]int{
			{0, 1, 2, 3}, {4, 7, 6, 5},
			{0, 4, 5, 1}, {1, 5, 6, 2},
			{2, 6, 7, 3}, {3, 7, 4, 0},
		},
	}
}

func (md *MeshData) ShapeFn() Fn { return FnMesh }

// NumVertices returns the vertex count.
func (md *MeshData) NumVertices() int { return len(md.Points) }

// NumFaces returns the face count.
func (md *MeshData) NumFaces() int { return len(md.Faces) }

// NumEdges returns the unique edge count.
func (md *MeshData) NumEdges() int { return len(md.Edges()) }

// Edges returns the derived unique edge list, building it on first
// use. Callers must not modify it.
func (md *MeshData) Edges() [][2]int {
	if md.edges == nil {
		seen := map[[2]int]bool{}
		for _, face := range md.Faces {
			for i := range face {
				a, b := face[i], face[(i+1)%len(face)]
				if a > b {
					a, b = b, a
				}
				e := [2]int{a, b}
				if !seen[e] {
					seen[e] = true
					md.edges = append(md.edges, e)
				}
			}
		}
		if md.edges == nil {
			md.edges = [][2]int{}
		}
	}
	return md.edges
}

// InvalidateTopology discards derived data after Faces change.
func (md *MeshData) InvalidateTopology() {
	md.edges = nil
}

// Edge returns the endpoints of the given edge, lower index first.
func (md *MeshData) Edge(i int) ([2]int, error) {
	edges := md.Edges()
	if i < 0 || i >= len(edges) {
		return [2]int{}, fmt.Errorf("%w: edge %d of %d", ErrOutOfRange, i, len(edges))
	}
	return edges[i], nil
}

// FaceVertices returns the vertex loop of the given face.
func (md *MeshData) FaceVertices(f int) ([]int, error) {
	if f < 0 || f >= len(md.Faces) {
		return nil, fmt.Errorf("%w: face %d of %d", ErrOutOfRange, f, len(md.Faces))
	}
	return md.Faces[f], nil
}

// VertexFaces returns the faces using the given vertex, in face order.
func (md *MeshData) VertexFaces(v int) ([]int, error) {
	if v < 0 || v >= len(md.Points) {
		return nil, fmt.Errorf("%w: vertex %d of %d", ErrOutOfRange, v, len(md.Points))
	}
	var out []int
	for f, face := range md.Faces {
		for _, fv := range face {
			if fv == v {
				out = append(out, f)
				break
			}
		}
	}
	return out, nil
}

// VertexEdges returns the edges using the given vertex, in edge order.
func (md *MeshData) VertexEdges(v int) ([]int, error) {
	if v < 0 || v >= len(md.Points) {
		return nil, fmt.Errorf("%w: vertex %d of %d", ErrOutOfRange, v, len(md.Points))
	}
	var out []int
	for i, e := range md.Edges() {
		if e[0] == v || e[1] == v {
			out = append(out, i)
		}
	}
	return out, nil
}

// VertexNeighbors returns the vertices sharing an edge with the given
// vertex, in edge order.
func (md *MeshData) VertexNeighbors(v int) ([]int, error) {
	if v < 0 || v >= len(md.Points) {
		return nil, fmt.Errorf("%w: vertex %d of %d", ErrOutOfRange, v, len(md.Points))
	}
	var out []int
	for _, e := range md.Edges() {
		switch v {
		case e[0]:
			out = append(out, e[1])
		case e[1]:
			out = append(out, e[0])
		}
	}
	return out, nil
}

// EdgeFaces returns the faces bordering the given edge.
func (md *MeshData) EdgeFaces(i int) ([]int, error) {
	e, err := md.Edge(i)
	if err != nil {
		return nil, err
	}
	var out []int
	for f, face := range md.Faces {
		for j := range face {
			a, b := face[j], face[(j+1)%len(face)]
			if a > b {
				a, b = b, a
			}
			if a == e[0] && b == e[1] {
				out = append(out, f)
				break
			}
		}
	}
	return out, nil
}

func (md *MeshData) CountsFor(kind ComponentKind) ([]int, bool) {
	switch kind {
	case CompMeshVertex:
		return []int{len(md.Points)}, true
	case CompMeshEdge:
		return []int{md.NumEdges()}, true
	case CompMeshFace:
		return []int{len(md.Faces)}, true
	}
	return nil, false
}

func (md *MeshData) Position(kind ComponentKind, el [3]int) (math32.Vector3, error) {
	if kind != CompMeshVertex {
		return math32.Vector3{}, fmt.Errorf("%w: %s has no point position", ErrValueType, kind)
	}
	v := el[0]
	if v < 0 || v >= len(md.Points) {
		return math32.Vector3{}, fmt.Errorf("%w: vertex %d of %d", ErrOutOfRange, v, len(md.Points))
	}
	return md.Points[v], nil
}

func (md *MeshData) SetPosition(kind ComponentKind, el [3]int, pos math32.Vector3) error {
	if kind != CompMeshVertex {
		return fmt.Errorf("%w: %s has no point position", ErrValueType, kind)
	}
	v := el[0]
	if v < 0 || v >= len(md.Points) {
		return fmt.Errorf("%w: vertex %d of %d", ErrOutOfRange, v, len(md.Points))
	}
	md.Points[v] = pos
	return nil
}

////////  CurveData

// CurveForm describes how a NURBS curve or surface direction closes.
type CurveForm int32

const (
	FormOpen CurveForm = iota
	FormClosed
	FormPeriodic
	FormN
)

var curveFormNames = []string{"open", "closed", "periodic", "n"}

func (cf CurveForm) String() string {
	if cf < 0 || cf >= FormN {
		return "open"
	}
	return curveFormNames[cf]
}

// CurveData is a NURBS curve: control vertices, a degree and a knot
// vector. Arc length is computed on demand and cached until a CV
// moves.
type CurveData struct {

	// CVs are the control vertex positions in local space.
	CVs []math32.Vector3

	// Degree is the basis degree, at least 1.
	Degree int

	// Form is how the curve closes.
	Form CurveForm

	// Knots is the knot vector, length len(CVs)+Degree+1.
	Knots []float32

	// length is the cached arc length, valid while lengthValid.
	length      float32
	lengthValid bool
}

// NewCurveData returns an open curve through the given CVs with a
// clamped uniform knot vector. The degree is capped at len(cvs)-1.
func NewCurveData(cvs []math32.Vector3, degree int) *CurveData {
	if degree < 1 {
		degree = 1
	}
	if degree > len(cvs)-1 {
		degree = len(cvs) - 1
	}
	cd := &CurveData{CVs: cvs, Degree: degree, Form: FormOpen}
	cd.Knots = clampedKnots(len(cvs), degree)
	return cd
}

// clampedKnots builds the open uniform knot vector: degree+1 repeats
// at each end with unit steps between.
func clampedKnots(numCVs, degree int) []float32 {
	n := numCVs + degree + 1
	knots := make([]float32, n)
	spans := numCVs - degree
	for i := range knots {
		switch {
		case i <= degree:
			knots[i] = 0
		case i >= n-degree-1:
			knots[i] = float32(spans)
		default:
			knots[i] = float32(i - degree)
		}
	}
	return knots
}

func (cd *CurveData) ShapeFn() Fn { return FnNurbsCurve }

// NumCVs returns the control vertex count.
func (cd *CurveData) NumCVs() int { return len(cd.CVs) }

// KnotDomain returns the parameter range the curve is defined over.
func (cd *CurveData) KnotDomain() (float32, float32) {
	return cd.Knots[cd.Degree], cd.Knots[len(cd.Knots)-cd.Degree-1]
}

// PointAt evaluates the curve at the given parameter using de Boor's
// algorithm, clamping the parameter to the knot domain.
func (cd *CurveData) PointAt(u float32) math32.Vector3 {
	lo, hi := cd.KnotDomain()
	u = math32.Clamp(u, lo, hi)
	p := cd.Degree
	// knot span: largest k with Knots[k] <= u, within [p, len-p-2]
	k := p
	for k < len(cd.Knots)-p-2 && u >= cd.Knots[k+1] {
		k++
	}
	d := make([]math32.Vector3, p+1)
	copy(d, cd.CVs[k-p:k+1])
	for r := 1; r <= p; r++ {
		for j := p; j >= r; j-- {
			i := k - p + j
			den := cd.Knots[i+p-r+1] - cd.Knots[i]
			var alpha float32
			if den != 0 {
				alpha = (u - cd.Knots[i]) / den
			}
			d[j] = d[j-1].MulScalar(1 - alpha).Add(d[j].MulScalar(alpha))
		}
	}
	return d[p]
}

// lengthSamples is the polyline resolution for arc length.
const lengthSamples = 64

// Length returns the approximate arc length, sampled as a polyline
// over the knot domain. The result is cached until a CV moves.
func (cd *CurveData) Length() float32 {
	if cd.lengthValid {
		return cd.length
	}
	lo, hi := cd.KnotDomain()
	step := (hi - lo) / float32(lengthSamples)
	var total float32
	prev := cd.PointAt(lo)
	for i := 1; i <= lengthSamples; i++ {
		pt := cd.PointAt(lo + step*float32(i))
		total += prev.DistanceTo(pt)
		prev = pt
	}
	cd.length = total
	cd.lengthValid = true
	return total
}

// InvalidateLength discards the cached arc length.
func (cd *CurveData) InvalidateLength() {
	cd.lengthValid = false
}

func (cd *CurveData) CountsFor(kind ComponentKind) ([]int, bool) {
	if kind == CompCurveCV {
		return []int{len(cd.CVs)}, true
	}
	return nil, false
}

func (cd *CurveData) Position(kind ComponentKind, el [3]int) (math32.Vector3, error) {
	if kind != CompCurveCV {
		return math32.Vector3{}, fmt.Errorf("%w: %s on a curve", ErrValueType, kind)
	}
	i := el[0]
	if i < 0 || i >= len(cd.CVs) {
		return math32.Vector3{}, fmt.Errorf("%w: cv %d of %d", ErrOutOfRange, i, len(cd.CVs))
	}
	return cd.CVs[i], nil
}

func (cd *CurveData) SetPosition(kind ComponentKind, el [3]int, pos math32.Vector3) error {
	if kind != CompCurveCV {
		return fmt.Errorf("%w: %s on a curve", ErrValueType, kind)
	}
	i := el[0]
	if i < 0 || i >= len(cd.CVs) {
		return fmt.Errorf("%w: cv %d of %d", ErrOutOfRange, i, len(cd.CVs))
	}
	cd.CVs[i] = pos
	cd.lengthValid = false
	return nil
}

////////  SurfaceData

// SurfaceData is a NURBS surface: a U-major CV grid with a degree per
// direction.
type SurfaceData struct {

	// CVs is the control vertex grid, indexed [u][v].
	CVs [][]math32.Vector3

	// DegreeU and DegreeV are the basis degrees per direction.
	DegreeU, DegreeV int

	// FormU and FormV are how each direction closes.
	FormU, FormV CurveForm
}

// NewPlaneSurface returns a flat surface of the given size in the XZ
// plane with an nu by nv CV grid.
func NewPlaneSurface(nu, nv int, size float32) *SurfaceData {
	cvs := make([][]math32.Vector3, nu)
	for u := range cvs {
		cvs[u] = make([]math32.Vector3, nv)
		for v := range cvs[u] {
			cvs[u][v] = math32.Vector3{
				X: size * (float32(u)/float32(nu-1) - 0.5),
				Z: size * (float32(v)/float32(nv-1) - 0.5),
			}
		}
	}
	du, dv := 3, 3
	if du > nu-1 {
		du = nu - 1
	}
	if dv > nv-1 {
		dv = nv - 1
	}
	return &SurfaceData{CVs: cvs, DegreeU: du, DegreeV: dv}
}

func (sd *SurfaceData) ShapeFn() Fn { return FnNurbsSurface }

// NumCVsU returns the CV count in the U direction.
func (sd *SurfaceData) NumCVsU() int { return len(sd.CVs) }

// NumCVsV returns the CV count in the V direction.
func (sd *SurfaceData) NumCVsV() int {
	if len(sd.CVs) == 0 {
		return 0
	}
	return len(sd.CVs[0])
}

func (sd *SurfaceData) CountsFor(kind ComponentKind) ([]int, bool) {
	if kind == CompSurfaceCV {
		return []int{sd.NumCVsU(), sd.NumCVsV()}, true
	}
	return nil, false
}

func (sd *SurfaceData) Position(kind ComponentKind, el [3]int) (math32.Vector3, error) {
	if kind != CompSurfaceCV {
		return math32.Vector3{}, fmt.Errorf("%w: %s on a surface", ErrValueType, kind)
	}
	u, v := el[0], el[1]
	if u < 0 || u >= sd.NumCVsU() || v < 0 || v >= sd.NumCVsV() {
		return math32.Vector3{}, fmt.Errorf("%w: cv [%d][%d] of [%d][%d]", ErrOutOfRange, u, v, sd.NumCVsU(), sd.NumCVsV())
	}
	return sd.CVs[u][v], nil
}

func (sd *SurfaceData) SetPosition(kind ComponentKind, el [3]int, pos math32.Vector3) error {
	if kind != CompSurfaceCV {
		return fmt.Errorf("%w: %s on a surface", ErrValueType, kind)
	}
	u, v := el[0], el[1]
	if u < 0 || u >= sd.NumCVsU() || v < 0 || v >= sd.NumCVsV() {
		return fmt.Errorf("%w: cv [%d][%d] of [%d][%d]", ErrOutOfRange, u, v, sd.NumCVsU(), sd.NumCVsV())
	}
	sd.CVs[u][v] = pos
	return nil
}

////////  LatticeData

// LatticeData is a free-form deformation lattice: an S by T by U point
// grid, flattened U-major then T then S.
type LatticeData struct {

	// S, T, U are the per-axis division counts, each at least 2.
	S, T, U int

	// Points are the lattice point positions, indexed
	// (u*T+t)*S+s.
	Points []math32.Vector3
}

// NewLatticeData returns a lattice spanning the unit cube centered at
// the origin with the given divisions.
func NewLatticeData(s, t, u int) *LatticeData {
	if s < 2 {
		s = 2
	}
	if t < 2 {
		t = 2
	}
	if u < 2 {
		u = 2
	}
	ld := &LatticeData{S: s, T: t, U: u, Points: make([]math32.Vector3, s*t*u)}
	for ui := 0; ui < u; ui++ {
		for ti := 0; ti < t; ti++ {
			for si := 0; si < s; si++ {
				ld.Points[(ui*t+ti)*s+si] = math32.Vector3{
					X: float32(si)/float32(s-1) - 0.5,
					Y: float32(ti)/float32(t-1) - 0.5,
					Z: float32(ui)/float32(u-1) - 0.5,
				}
			}
		}
	}
	return ld
}

func (ld *LatticeData) ShapeFn() Fn { return FnLattice }

func (ld *LatticeData) index(s, t, u int) (int, error) {
	if s < 0 || s >= ld.S || t < 0 || t >= ld.T || u < 0 || u >= ld.U {
		return 0, fmt.Errorf("%w: pt [%d][%d][%d] of [%d][%d][%d]", ErrOutOfRange, s, t, u, ld.S, ld.T, ld.U)
	}
	return (u*ld.T+t)*ld.S + s, nil
}

// Point returns the lattice point at the given per-axis indices.
func (ld *LatticeData) Point(s, t, u int) (math32.Vector3, error) {
	i, err := ld.index(s, t, u)
	if err != nil {
		return math32.Vector3{}, err
	}
	return ld.Points[i], nil
}

// SetPoint moves the lattice point at the given per-axis indices.
func (ld *LatticeData) SetPoint(s, t, u int, pos math32.Vector3) error {
	i, err := ld.index(s, t, u)
	if err != nil {
		return err
	}
	ld.Points[i] = pos
	return nil
}

func (ld *LatticeData) CountsFor(kind ComponentKind) ([]int, bool) {
	if kind == CompLatticePoint {
		return []int{ld.S, ld.T, ld.U}, true
	}
	return nil, false
}

func (ld *LatticeData) Position(kind ComponentKind, el [3]int) (math32.Vector3, error) {
	if kind != CompLatticePoint {
		return math32.Vector3{}, fmt.Errorf("%w: %s on a lattice", ErrValueType, kind)
	}
	return ld.Point(el[0], el[1], el[2])
}

func (ld *LatticeData) SetPosition(kind ComponentKind, el [3]int, pos math32.Vector3) error {
	if kind != CompLatticePoint {
		return fmt.Errorf("%w: %s on a lattice", ErrValueType, kind)
	}
	return ld.SetPoint(el[0], el[1], el[2], pos)
}
