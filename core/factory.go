// Copyright (c) 2025, The Gomaya Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package core

import (
	"fmt"

	"github.com/Pahuska/gomaya/scene"
)

// Scope is the resolution domain a handle is probed in. Each scope
// has its own class table; the probe order for unhinted resolution is
// attribute, then component, then hierarchy, then plain dependency
// node, and the first scope the handle supports wins.
type Scope int32

const (
	ScopeInvalid Scope = iota

	// ScopeAttribute resolves plug handles to attribute wrappers.
	ScopeAttribute

	// ScopeComponent resolves component handles to element wrappers.
	ScopeComponent

	// ScopeHierarchy resolves hierarchy nodes to DAG wrappers.
	ScopeHierarchy

	// ScopeDepend resolves any node to a plain node wrapper.
	ScopeDepend

	ScopeN
)

var scopeNames = []string{"invalid", "attribute", "component", "hierarchy", "depend", "n"}

func (sc Scope) String() string {
	if sc < 0 || sc >= ScopeN {
		return "invalid"
	}
	return scopeNames[sc]
}

// scopeFor probes which scope an unhinted handle resolves in.
func scopeFor(h Handle) (Scope, error) {
	switch h.Kind {
	case HandlePlug:
		return ScopeAttribute, nil
	case HandleComponent:
		return ScopeComponent, nil
	case HandlePath, HandleCompound:
		return ScopeHierarchy, nil
	case HandleNode:
		n, err := h.Node.Node()
		if err != nil {
			return ScopeInvalid, wrapErr(err)
		}
		if n.IsDag() {
			return ScopeHierarchy, nil
		}
		return ScopeDepend, nil
	}
	return ScopeInvalid, fmt.Errorf("%w: nil handle", ErrInvalidHandle)
}

// supportsScope reports whether the handle can resolve in the given
// scope. Node-backed handles always support the depend scope, so a
// dependNode hint downcasts any node wrapper.
func supportsScope(h Handle, sc Scope) bool {
	switch sc {
	case ScopeAttribute:
		return h.Kind == HandlePlug
	case ScopeComponent:
		return h.Kind == HandleComponent
	case ScopeHierarchy:
		switch h.Kind {
		case HandlePath, HandleCompound, HandleComponent:
			return true
		case HandleNode:
			n, err := h.Node.Node()
			return err == nil && n.IsDag()
		}
		return false
	case ScopeDepend:
		return h.Kind != HandleInvalid
	}
	return false
}

// hierarchyTable maps shape capabilities onto DAG wrapper classes,
// most specific first. The first capability the node carries wins.
var hierarchyTable = []struct {
	fn scene.Fn
	tp *Type
}{
	{scene.FnJoint, JointType},
	{scene.FnTransform, TransformType},
	{scene.FnMesh, MeshType},
	{scene.FnNurbsCurve, NurbsCurveType},
	{scene.FnNurbsSurface, NurbsSurfaceType},
	{scene.FnLattice, LatticeType},
	{scene.FnShape, GeometryShapeType},
}

// dependTable maps non-DAG capabilities onto node wrapper classes.
var dependTable = []struct {
	fn scene.Fn
	tp *Type
}{
	{scene.FnSet, ObjectSetType},
}

// tableType returns the most specific built-in class for the handle
// in the given scope.
func tableType(h Handle, sc Scope) (*Type, error) {
	switch sc {
	case ScopeAttribute:
		switch h.Plug.Def().Kind {
		case scene.KindCompound:
			return CompoundAttributeType, nil
		case scene.KindNumeric:
			return NumericAttributeType, nil
		case scene.KindUnit:
			return UnitAttributeType, nil
		}
		return AttributeType, nil
	case ScopeComponent:
		switch h.Component.Kind {
		case scene.CompMeshVertex:
			return MeshVertexType, nil
		case scene.CompMeshEdge:
			return MeshEdgeType, nil
		case scene.CompMeshFace:
			return MeshFaceType, nil
		case scene.CompCurveCV:
			return CurveCVType, nil
		case scene.CompSurfaceCV:
			return SurfaceCVType, nil
		case scene.CompLatticePoint:
			return LatticePointType, nil
		}
		return ComponentType, nil
	case ScopeHierarchy:
		n, err := h.OwnerNode()
		if err != nil {
			return nil, err
		}
		for _, ent := range hierarchyTable {
			if n.HasFn(ent.fn) {
				return ent.tp, nil
			}
		}
		return DagNodeType, nil
	case ScopeDepend:
		n, err := h.OwnerNode()
		if err != nil {
			return nil, err
		}
		for _, ent := range dependTable {
			if n.HasFn(ent.fn) {
				return ent.tp, nil
			}
		}
		return DependNodeType, nil
	}
	return nil, fmt.Errorf("%w: no class table for %s scope", ErrTypeMismatch, sc)
}

// virtualEntry is one runtime-registered class: it takes over from
// base classes at or below parent when its predicate accepts the
// handle.
type virtualEntry struct {
	tp   *Type
	pred func(h Handle) bool
}

// virtuals holds the registered virtual classes in registration
// order.
var virtuals []virtualEntry

// RegisterVirtual adds a runtime wrapper class. It resolves instead
// of parent (or any class below parent) whenever pred accepts the
// handle; objects pred rejects keep their built-in class. The
// constructor must return a wrapper embedding the parent class's
// wrapper. Names must be unique across the whole registry.
func RegisterVirtual(name string, parent *Type, pred func(h Handle) bool, ctor func() Object) (*Type, error) {
	if parent == nil {
		return nil, fmt.Errorf("%w: virtual class %q needs a parent class", ErrTypeMismatch, name)
	}
	if pred == nil || ctor == nil {
		return nil, fmt.Errorf("%w: virtual class %q needs a predicate and a constructor", ErrTypeMismatch, name)
	}
	if TypeByName(name) != nil {
		return nil, fmt.Errorf("%w: class %q is already registered", ErrTypeMismatch, name)
	}
	tp := AddType(&Type{Name: name, Parent: parent, New: ctor, Virtual: true})
	virtuals = append(virtuals, virtualEntry{tp: tp, pred: pred})
	return tp, nil
}

// UnregisterVirtual removes a virtual class by name, reporting
// whether it was registered. Wrappers already resolved keep their
// class.
func UnregisterVirtual(name string) bool {
	for i, ent := range virtuals {
		if ent.tp.Name == name {
			virtuals = append(virtuals[:i], virtuals[i+1:]...)
			delete(typeRegistry, name)
			return true
		}
	}
	return false
}

// virtualType runs the registered predicates against a handle whose
// built-in class is base. Exactly one accepting entry replaces the
// class; more than one is a hard error, since silently picking one
// would hide the conflict.
func virtualType(h Handle, base *Type) (*Type, error) {
	var match *Type
	for _, ent := range virtuals {
		if !base.HasAncestor(ent.tp.Parent) {
			continue
		}
		if !ent.pred(h) {
			continue
		}
		if match != nil {
			return nil, fmt.Errorf("%w: %s and %s both claim %s", ErrAmbiguousMatch, match, ent.tp, h)
		}
		match = ent.tp
	}
	if match == nil {
		return base, nil
	}
	return match, nil
}

// Resolve turns a handle into a wrapper of the most specific class.
// A non-nil hint forces the resolution scope and requires the
// resolved class to sit at or below the hint; a referent that cannot
// satisfy the hint is a type mismatch.
func (s *Session) Resolve(h Handle, hint *Type) (Object, error) {
	if err := h.Validate(); err != nil {
		return nil, err
	}
	var sc Scope
	if hint != nil {
		sc = hint.Scope()
		if !supportsScope(h, sc) {
			return nil, fmt.Errorf("%w: %s cannot resolve as %s", ErrTypeMismatch, h, hint)
		}
	} else {
		var err error
		sc, err = scopeFor(h)
		if err != nil {
			return nil, err
		}
	}
	tp, err := tableType(h, sc)
	if err != nil {
		return nil, err
	}
	tp, err = virtualType(h, tp)
	if err != nil {
		return nil, err
	}
	if hint != nil && !tp.HasAncestor(hint) {
		return nil, fmt.Errorf("%w: %s resolves as %s, not %s", ErrTypeMismatch, h, tp, hint)
	}
	obj := tp.New()
	obj.init(obj, s, h, tp)
	return obj, nil
}
