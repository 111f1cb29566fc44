// Copyright (c) 2025, The Gomaya Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package core

import (
	"log/slog"
	"slices"
)

// Type describes one wrapper class: its name, its parent in the
// wrapper class tree, and a constructor for the zero wrapper. The
// built-in classes mirror the node, attribute and component taxonomy;
// virtual classes registered through [RegisterVirtual] hang off the
// same tree.
type Type struct {

	// Name is the class name, unique across the registry.
	Name string

	// Parent is the class this one specializes, nil only for the
	// three scope roots.
	Parent *Type

	// New returns a fresh zero wrapper of this class.
	New func() Object

	// Virtual marks classes registered at runtime with a predicate.
	Virtual bool

	// ID is a unique registration identifier, assigned in order.
	ID uint64
}

func (tp *Type) String() string {
	if tp == nil {
		return "nil"
	}
	return tp.Name
}

// HasAncestor reports whether anc appears in the parent chain. A type
// counts as its own ancestor.
func (tp *Type) HasAncestor(anc *Type) bool {
	for t := tp; t != nil; t = t.Parent {
		if t == anc {
			return true
		}
	}
	return false
}

// Scope returns which resolution scope the class belongs to.
func (tp *Type) Scope() Scope {
	switch {
	case tp.HasAncestor(AttributeType):
		return ScopeAttribute
	case tp.HasAncestor(ComponentType):
		return ScopeComponent
	case tp.HasAncestor(DagNodeType):
		return ScopeHierarchy
	case tp.HasAncestor(DependNodeType):
		return ScopeDepend
	}
	return ScopeInvalid
}

// typeRegistry is the global class table, keyed by name.
var (
	typeRegistry  = map[string]*Type{}
	typeIDCounter uint64
)

// AddType registers a wrapper class, assigning its ID. Registering a
// name twice keeps the first entry.
func AddType(tp *Type) *Type {
	if old, ok := typeRegistry[tp.Name]; ok {
		slog.Debug("core.AddType: type already registered", "name", tp.Name)
		return old
	}
	typeIDCounter++
	tp.ID = typeIDCounter
	typeRegistry[tp.Name] = tp
	return tp
}

// TypeByName returns the registered class with the given name, nil
// when there is none.
func TypeByName(name string) *Type {
	return typeRegistry[name]
}

// TypeNames returns all registered class names, sorted.
func TypeNames() []string {
	names := make([]string, 0, len(typeRegistry))
	for name := range typeRegistry {
		names = append(names, name)
	}
	slices.Sort(names)
	return names
}

// Built-in wrapper classes. The node classes mirror the scene node
// taxonomy; the attribute and component classes mirror attribute
// kinds and component dimensionality.
var (
	DependNodeType = AddType(&Type{Name: "dependNode", New: func() Object { return &DependNode{} }})
	DagNodeType    = AddType(&Type{Name: "dagNode", Parent: DependNodeType, New: func() Object { return &DagNode{} }})
	TransformType  = AddType(&Type{Name: "transform", Parent: DagNodeType, New: func() Object { return &Transform{} }})
	JointType      = AddType(&Type{Name: "joint", Parent: TransformType, New: func() Object { return &Joint{} }})

	GeometryShapeType = AddType(&Type{Name: "geometryShape", Parent: DagNodeType, New: func() Object { return &GeometryShape{} }})
	MeshType          = AddType(&Type{Name: "mesh", Parent: GeometryShapeType, New: func() Object { return &Mesh{} }})
	NurbsCurveType    = AddType(&Type{Name: "nurbsCurve", Parent: GeometryShapeType, New: func() Object { return &NurbsCurve{} }})
	NurbsSurfaceType  = AddType(&Type{Name: "nurbsSurface", Parent: GeometryShapeType, New: func() Object { return &NurbsSurface{} }})
	LatticeType       = AddType(&Type{Name: "lattice", Parent: GeometryShapeType, New: func() Object { return &Lattice{} }})

	ObjectSetType = AddType(&Type{Name: "objectSet", Parent: DependNodeType, New: func() Object { return &ObjectSet{} }})

	AttributeType         = AddType(&Type{Name: "attribute", New: func() Object { return &Attribute{} }})
	NumericAttributeType  = AddType(&Type{Name: "numericAttribute", Parent: AttributeType, New: func() Object { return &NumericAttribute{} }})
	UnitAttributeType     = AddType(&Type{Name: "unitAttribute", Parent: AttributeType, New: func() Object { return &UnitAttribute{} }})
	CompoundAttributeType = AddType(&Type{Name: "compoundAttribute", Parent: AttributeType, New: func() Object { return &CompoundAttribute{} }})

	ComponentType   = AddType(&Type{Name: "component", New: func() Object { return &Component{} }})
	Component1DType = AddType(&Type{Name: "component1D", Parent: ComponentType, New: func() Object { return &Component1D{} }})
	Component2DType = AddType(&Type{Name: "component2D", Parent: ComponentType, New: func() Object { return &Component2D{} }})
	Component3DType = AddType(&Type{Name: "component3D", Parent: ComponentType, New: func() Object { return &Component3D{} }})

	MeshVertexType   = AddType(&Type{Name: "meshVertex", Parent: Component1DType, New: func() Object { return &MeshVertex{} }})
	MeshEdgeType     = AddType(&Type{Name: "meshEdge", Parent: Component1DType, New: func() Object { return &MeshEdge{} }})
	MeshFaceType     = AddType(&Type{Name: "meshFace", Parent: Component1DType, New: func() Object { return &MeshFace{} }})
	CurveCVType      = AddType(&Type{Name: "curveCV", Parent: Component1DType, New: func() Object { return &CurveCV{} }})
	SurfaceCVType    = AddType(&Type{Name: "surfaceCV", Parent: Component2DType, New: func() Object { return &SurfaceCV{} }})
	LatticePointType = AddType(&Type{Name: "latticePoint", Parent: Component3DType, New: func() Object { return &LatticePoint{} }})
)
