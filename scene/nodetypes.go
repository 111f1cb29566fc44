// Copyright (c) 2025, The Gomaya Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package scene

import (
	"fmt"
	"slices"
)

// NodeType describes one creatable node type: its name, capability
// chain, and the static attributes every instance starts with.
type NodeType struct {

	// Name is the type name used by create calls and saved files.
	Name string

	// Fns is the capability chain, most specific first, ending in
	// [FnDependencyNode].
	Fns []Fn

	// IsDag marks types that live in the transform hierarchy.
	IsDag bool

	// Attrs returns fresh static attribute definitions for one new
	// instance. Each call must return independent trees; node
	// instances own their definitions.
	Attrs func() []*AttrDef

	// NewGeometry returns the initial shape payload, nil for
	// non-shape types.
	NewGeometry func() Geometry
}

// HasFn reports whether the capability chain carries fn.
func (nt *NodeType) HasFn(fn Fn) bool {
	return slices.Contains(nt.Fns, fn)
}

// nodeTypes is the global type table, in registration order.
var (
	nodeTypes     = map[string]*NodeType{}
	nodeTypeOrder []string
)

// RegisterNodeType adds a node type to the global table. Registering
// a name again replaces the earlier entry.
func RegisterNodeType(nt *NodeType) {
	if _, ok := nodeTypes[nt.Name]; !ok {
		nodeTypeOrder = append(nodeTypeOrder, nt.Name)
	}
	nodeTypes[nt.Name] = nt
}

// NodeTypeByName returns the registered type with the given name.
func NodeTypeByName(name string) (*NodeType, error) {
	nt, ok := nodeTypes[name]
	if !ok {
		return nil, fmt.Errorf("node type %q: %w", name, ErrNotFound)
	}
	return nt, nil
}

// NodeTypeNames returns all registered type names in registration
// order.
func NodeTypeNames() []string {
	return slices.Clone(nodeTypeOrder)
}

////////  Standard types

// dependAttrs are the attributes carried by every node.
func dependAttrs() []*AttrDef {
	return []*AttrDef{
		NewAttrDef("message", KindMessage).SetShort("msg").SetWritable(false),
	}
}

// dagAttrs extends dependAttrs with visibility and the computed
// matrix family shared by all hierarchy nodes.
func dagAttrs() []*AttrDef {
	return append(dependAttrs(),
		NewAttrDef("visibility", KindNumeric).SetShort("v").SetNumeric(NumBool).SetDefault(true).SetKeyable(true),
		NewAttrDef("matrix", KindMatrix).SetShort("m").SetComputed(),
		NewAttrDef("inverseMatrix", KindMatrix).SetShort("im").SetComputed(),
		NewAttrDef("worldMatrix", KindMatrix).SetShort("wm").SetComputed(),
		NewAttrDef("worldInverseMatrix", KindMatrix).SetShort("wim").SetComputed(),
		NewAttrDef("parentMatrix", KindMatrix).SetShort("pm").SetComputed(),
		NewAttrDef("parentInverseMatrix", KindMatrix).SetShort("pim").SetComputed(),
	)
}

// angleTriple builds a compound of three angle children, for example
// rotate with rotateX, rotateY, rotateZ.
func angleTriple(name, short, axisPrefix, axisShort string) *AttrDef {
	return NewAttrDef(name, KindCompound).SetShort(short).SetKeyable(true).AddChildren(
		NewAttrDef(axisPrefix+"X", KindUnit).SetShort(axisShort+"x").SetUnit(UnitAngle).SetKeyable(true),
		NewAttrDef(axisPrefix+"Y", KindUnit).SetShort(axisShort+"y").SetUnit(UnitAngle).SetKeyable(true),
		NewAttrDef(axisPrefix+"Z", KindUnit).SetShort(axisShort+"z").SetUnit(UnitAngle).SetKeyable(true),
	)
}

// transformAttrs extends dagAttrs with the local transformation
// channels.
func transformAttrs() []*AttrDef {
	translate := NewAttrDef("translate", KindCompound).SetShort("t").SetKeyable(true).AddChildren(
		NewAttrDef("translateX", KindUnit).SetShort("tx").SetUnit(UnitDistance).SetKeyable(true),
		NewAttrDef("translateY", KindUnit).SetShort("ty").SetUnit(UnitDistance).SetKeyable(true),
		NewAttrDef("translateZ", KindUnit).SetShort("tz").SetUnit(UnitDistance).SetKeyable(true),
	)
	scale := NewAttrDef("scale", KindCompound).SetShort("s").SetKeyable(true).AddChildren(
		NewAttrDef("scaleX", KindNumeric).SetShort("sx").SetNumeric(NumFloat).SetDefault(float32(1)).SetKeyable(true),
		NewAttrDef("scaleY", KindNumeric).SetShort("sy").SetNumeric(NumFloat).SetDefault(float32(1)).SetKeyable(true),
		NewAttrDef("scaleZ", KindNumeric).SetShort("sz").SetNumeric(NumFloat).SetDefault(float32(1)).SetKeyable(true),
	)
	shear := NewAttrDef("shear", KindCompound).SetShort("sh").AddChildren(
		NewAttrDef("shearXY", KindNumeric).SetShort("shxy").SetNumeric(NumFloat),
		NewAttrDef("shearXZ", KindNumeric).SetShort("shxz").SetNumeric(NumFloat),
		NewAttrDef("shearYZ", KindNumeric).SetShort("shyz").SetNumeric(NumFloat),
	)
	rotateOrder := NewAttrDef("rotateOrder", KindEnum).SetShort("ro")
	for i, name := range RotateOrderFieldNames() {
		rotateOrder.AddField(name, i)
	}
	return append(dagAttrs(),
		translate,
		angleTriple("rotate", "r", "rotate", "r"),
		scale,
		shear,
		rotateOrder,
	)
}

// jointAttrs extends transformAttrs with the joint orient and display
// radius.
func jointAttrs() []*AttrDef {
	return append(transformAttrs(),
		angleTriple("jointOrient", "jo", "jointOrient", "jo"),
		NewAttrDef("radius", KindNumeric).SetShort("radi").SetNumeric(NumFloat).SetDefault(float32(1)).SetMin(0).SetSoftRange(0, 10),
	)
}

func init() {
	RegisterNodeType(&NodeType{
		Name:  "network",
		Fns:   []Fn{FnDependencyNode},
		Attrs: dependAttrs,
	})
	RegisterNodeType(&NodeType{
		Name: "addDoubleLinear",
		Fns:  []Fn{FnDependencyNode},
		Attrs: func() []*AttrDef {
			return append(dependAttrs(),
				NewAttrDef("input1", KindNumeric).SetShort("i1").SetNumeric(NumFloat).SetKeyable(true),
				NewAttrDef("input2", KindNumeric).SetShort("i2").SetNumeric(NumFloat).SetKeyable(true),
				NewAttrDef("output", KindNumeric).SetShort("o").SetNumeric(NumFloat),
			)
		},
	})
	RegisterNodeType(&NodeType{
		Name:  "objectSet",
		Fns:   []Fn{FnSet, FnDependencyNode},
		Attrs: dependAttrs,
	})
	RegisterNodeType(&NodeType{
		Name:  "transform",
		Fns:   []Fn{FnTransform, FnDagNode, FnDependencyNode},
		IsDag: true,
		Attrs: transformAttrs,
	})
	RegisterNodeType(&NodeType{
		Name:  "joint",
		Fns:   []Fn{FnJoint, FnTransform, FnDagNode, FnDependencyNode},
		IsDag: true,
		Attrs: jointAttrs,
	})
	RegisterNodeType(&NodeType{
		Name:        "mesh",
		Fns:         []Fn{FnMesh, FnShape, FnDagNode, FnDependencyNode},
		IsDag:       true,
		Attrs:       dagAttrs,
		NewGeometry: func() Geometry { return &MeshData{} },
	})
	RegisterNodeType(&NodeType{
		Name:        "nurbsCurve",
		Fns:         []Fn{FnNurbsCurve, FnShape, FnDagNode, FnDependencyNode},
		IsDag:       true,
		Attrs:       dagAttrs,
		NewGeometry: func() Geometry { return &CurveData{} },
	})
	RegisterNodeType(&NodeType{
		Name:        "nurbsSurface",
		Fns:         []Fn{FnNurbsSurface, FnShape, FnDagNode, FnDependencyNode},
		IsDag:       true,
		Attrs:       dagAttrs,
		NewGeometry: func() Geometry { return &SurfaceData{} },
	})
	RegisterNodeType(&NodeType{
		Name:        "lattice",
		Fns:         []Fn{FnLattice, FnShape, FnDagNode, FnDependencyNode},
		IsDag:       true,
		Attrs:       dagAttrs,
		NewGeometry: func() Geometry { return &LatticeData{} },
	})
}
