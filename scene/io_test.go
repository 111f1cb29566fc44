// Copyright (c) 2025, The Gomaya Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package scene

import (
	"bytes"
	"path/filepath"
	"strings"
	"testing"

	"github.com/Pahuska/gomaya/math32"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// buildRichScene assembles a graph touching every saved feature:
// hierarchy, every geometry kind, dynamic attributes, connections,
// sets, locks and a selection.
func buildRichScene(t *testing.T) *Graph {
	t.Helper()
	g := NewGraph()

	grp, err := g.NewNode("transform", "grp", nil)
	require.NoError(t, err)
	setChannel(t, grp, "tx", float32(1.5))
	setChannel(t, grp, "rotateOrder", 2)

	cube, err := g.NewNode("transform", "pCube1", grp)
	require.NoError(t, err)
	setChannel(t, cube, "ty", float32(2))
	tz, err := cube.FindPlug("tz")
	require.NoError(t, err)
	tz.SetLocked(true)

	cubeShape, err := g.NewNode("mesh", "pCubeShape1", cube)
	require.NoError(t, err)
	cubeShape.SetGeometry(NewCubeMesh(2))

	curveX, err := g.NewNode("transform", "curve1", nil)
	require.NoError(t, err)
	curveShape, err := g.NewNode("nurbsCurve", "curveShape1", curveX)
	require.NoError(t, err)
	curveShape.SetGeometry(NewCurveData([]math32.Vector3{
		math32.Vec3(0, 0, 0),
		math32.Vec3(1, 0, 0),
		math32.Vec3(2, 0.5, 0),
		math32.Vec3(3, 0, 0),
	}, 3))

	planeX, err := g.NewNode("transform", "plane1", nil)
	require.NoError(t, err)
	planeShape, err := g.NewNode("nurbsSurface", "planeShape1", planeX)
	require.NoError(t, err)
	planeShape.SetGeometry(NewPlaneSurface(4, 3, 2))

	ffdX, err := g.NewNode("transform", "ffd1", nil)
	require.NoError(t, err)
	ffdShape, err := g.NewNode("lattice", "ffdShape1", ffdX)
	require.NoError(t, err)
	ffdShape.SetGeometry(NewLatticeData(2, 2, 2))

	add, err := g.NewNode("addDoubleLinear", "add1", nil)
	require.NoError(t, err)
	setChannel(t, add, "input1", float32(0.5))

	util, err := g.NewNode("network", "util1", nil)
	require.NoError(t, err)
	util.SetLocked(true)
	notes := NewAttrDef("notes", KindString).SetShort("nts")
	notes.setDynamicAll(true)
	util.addAttrValue(notes)
	weights := NewAttrDef("weights", KindNumeric).SetShort("wts").SetNumeric(NumFloat).SetArray(true)
	weights.setDynamicAll(true)
	util.addAttrValue(weights)
	quality := NewAttrDef("quality", KindEnum).AddField("low", 0).AddField("medium", 1).AddField("high", 2)
	quality.setDynamicAll(true)
	util.addAttrValue(quality)
	offset := NewAttrDef("offsetMat", KindMatrix)
	offset.setDynamicAll(true)
	util.addAttrValue(offset)
	pivot := NewAttrDef("pivot", KindNumeric).SetNumeric(NumFloat3)
	pivot.setDynamicAll(true)
	util.addAttrValue(pivot)

	setChannel(t, util, "notes", "hello world")
	setChannel(t, util, "quality", 2)
	setChannel(t, util, "pivot", math32.Vec3(1, 2, 3))
	var mat math32.Matrix4
	mat.SetTranslation(math32.Vec3(4, 0, 0))
	setChannel(t, util, "offsetMat", mat)
	wroot, err := util.FindPlug("weights")
	require.NoError(t, err)
	w0, err := wroot.Element(0)
	require.NoError(t, err)
	require.NoError(t, w0.setValue(float32(0.25)))
	w2, err := wroot.Element(2)
	require.NoError(t, err)
	require.NoError(t, w2.setValue(float32(0.75)))

	out, err := add.FindPlug("output")
	require.NoError(t, err)
	gtx, err := grp.FindPlug("tx")
	require.NoError(t, err)
	connectPlugs(out, gtx)

	set, err := g.NewNode("objectSet", "set1", nil)
	require.NoError(t, err)
	set.Members().AddNode(cube)
	set.Members().AddComponent(cubeShape, NewComponent(CompMeshVertex, [3]int{1, 0, 0}, [3]int{3, 0, 0}))

	sel := NewSelectionList()
	sel.AddNode(cube)
	in1, err := add.FindPlug("input1")
	require.NoError(t, err)
	sel.AddPlug(in1)
	g.SetActiveSelection(sel)

	return g
}

// assertRichScene checks a freshly loaded graph against what
// buildRichScene put in.
func assertRichScene(t *testing.T, g *Graph) {
	t.Helper()

	cube, err := g.LookupNode("|grp|pCube1")
	require.NoError(t, err)
	v := plugValue(t, cube, "ty")
	assert.Equal(t, float32(2), v)
	tz, err := cube.FindPlug("tz")
	require.NoError(t, err)
	assert.True(t, tz.IsLocked())

	grp, err := g.LookupNode("grp")
	require.NoError(t, err)
	assert.Equal(t, float32(1.5), plugValue(t, grp, "tx"))
	assert.Equal(t, 2, plugValue(t, grp, "rotateOrder"))

	// the connection must be live again
	gtx, err := grp.FindPlug("tx")
	require.NoError(t, err)
	require.True(t, gtx.IsDestination())
	assert.Equal(t, "add1.output", gtx.Source().Name())

	cubeShape, err := g.LookupNode("pCubeShape1")
	require.NoError(t, err)
	mesh, ok := cubeShape.Geometry().(*MeshData)
	require.True(t, ok)
	assert.Equal(t, 8, mesh.NumVertices())
	assert.Equal(t, 6, mesh.NumFaces())
	assert.Equal(t, 12, mesh.NumEdges())
	assert.Equal(t, math32.Vec3(-1, -1, -1), mesh.Points[0])

	curveShape, err := g.LookupNode("curveShape1")
	require.NoError(t, err)
	curve, ok := curveShape.Geometry().(*CurveData)
	require.True(t, ok)
	assert.Equal(t, 4, curve.NumCVs())
	assert.Equal(t, 3, curve.Degree)
	assert.Equal(t, []float32{0, 0, 0, 0, 1, 1, 1, 1}, curve.Knots)
	assert.Equal(t, FormOpen, curve.Form)
	assert.Equal(t, math32.Vec3(2, 0.5, 0), curve.CVs[2])

	planeShape, err := g.LookupNode("planeShape1")
	require.NoError(t, err)
	surface, ok := planeShape.Geometry().(*SurfaceData)
	require.True(t, ok)
	assert.Equal(t, 4, surface.NumCVsU())
	assert.Equal(t, 3, surface.NumCVsV())
	assert.Equal(t, 3, surface.DegreeU)
	assert.Equal(t, 2, surface.DegreeV)

	ffdShape, err := g.LookupNode("ffdShape1")
	require.NoError(t, err)
	lattice, ok := ffdShape.Geometry().(*LatticeData)
	require.True(t, ok)
	assert.Equal(t, [3]int{2, 2, 2}, [3]int{lattice.S, lattice.T, lattice.U})
	assert.Len(t, lattice.Points, 8)

	util, err := g.LookupNode("util1")
	require.NoError(t, err)
	assert.True(t, util.IsLocked())
	assert.Equal(t, "hello world", plugValue(t, util, "notes"))
	assert.Equal(t, 2, plugValue(t, util, "quality"))
	assert.Equal(t, math32.Vec3(1, 2, 3), plugValue(t, util, "pivot"))
	var mat math32.Matrix4
	mat.SetTranslation(math32.Vec3(4, 0, 0))
	assert.Equal(t, mat, plugValue(t, util, "offsetMat"))

	notesDef := util.AttrDefs()[len(util.AttrDefs())-5]
	assert.True(t, notesDef.IsDynamic())
	assert.Equal(t, "notes", notesDef.Name)
	assert.Equal(t, "nts", notesDef.Short)

	wroot, err := util.FindPlug("weights")
	require.NoError(t, err)
	assert.True(t, wroot.IsArray())
	assert.Equal(t, []int{0, 2}, wroot.ExistingIndices())
	w2, err := wroot.Element(2)
	require.NoError(t, err)
	v, err = w2.Value()
	require.NoError(t, err)
	assert.Equal(t, float32(0.75), v)

	set, err := g.LookupNode("set1")
	require.NoError(t, err)
	require.Equal(t, 2, set.Members().Len())
	assert.Equal(t, []string{"pCube1", "pCubeShape1.vtx[1,3]"}, set.Members().Strings())

	assert.Equal(t, []string{"pCube1", "add1.input1"}, g.ActiveSelection().Strings())
}

func plugValue(t *testing.T, n *Node, attr string) any {
	t.Helper()
	p, err := n.FindPlug(attr)
	require.NoError(t, err)
	v, err := p.Value()
	require.NoError(t, err)
	return v
}

func TestSceneRoundTripJSON(t *testing.T) {
	g := buildRichScene(t)
	var buf bytes.Buffer
	require.NoError(t, g.WriteJSON(&buf))

	loaded := NewGraph()
	require.NoError(t, loaded.ReadJSON(&buf))
	assertRichScene(t, loaded)
}

func TestSceneRoundTripYAML(t *testing.T) {
	g := buildRichScene(t)
	var buf bytes.Buffer
	require.NoError(t, g.WriteYAML(&buf))

	loaded := NewGraph()
	require.NoError(t, loaded.ReadYAML(&buf))
	assertRichScene(t, loaded)
}

func TestSceneSaveOpen(t *testing.T) {
	dir := t.TempDir()
	g := buildRichScene(t)

	for _, name := range []string{"scene.json", "scene.yaml"} {
		path := filepath.Join(dir, name)
		require.NoError(t, g.Save(path))
		loaded := NewGraph()
		require.NoError(t, loaded.Open(path))
		assertRichScene(t, loaded)
	}
}

func TestSceneVersionCheck(t *testing.T) {
	loaded := NewGraph()
	err := loaded.ReadJSON(strings.NewReader(`{"version":"2.0.0","nodes":[]}`))
	assert.ErrorIs(t, err, ErrValueType)

	err = loaded.ReadJSON(strings.NewReader(`{"version":"","nodes":[]}`))
	assert.ErrorIs(t, err, ErrValueType)

	err = loaded.ReadJSON(strings.NewReader(`{"version":"not-a-version","nodes":[]}`))
	assert.Error(t, err)

	// same major with a newer minor still loads
	err = loaded.ReadJSON(strings.NewReader(`{"version":"1.3.0","nodes":[]}`))
	assert.NoError(t, err)
}

func TestSceneLoadErrors(t *testing.T) {
	loaded := NewGraph()
	err := loaded.ReadJSON(strings.NewReader(`{"version":"1.0.0","nodes":[{"name":"x","type":"flux"}]}`))
	assert.ErrorIs(t, err, ErrNotFound)

	loaded = NewGraph()
	err = loaded.ReadJSON(strings.NewReader(`{"version":"1.0.0","nodes":[{"name":"n1","type":"network","members":["n1"]}]}`))
	assert.ErrorIs(t, err, ErrValueType)

	loaded = NewGraph()
	err = loaded.ReadJSON(strings.NewReader(`{"version":"1.0.0","nodes":[{"name":"a","type":"transform"}],"connections":[{"src":"a.tx","dst":"a.missing"}]}`))
	assert.ErrorIs(t, err, ErrNotFound)
}
