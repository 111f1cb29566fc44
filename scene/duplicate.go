// Copyright (c) 2025, The Gomaya Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package scene

import (
	"fmt"

	"github.com/jinzhu/copier"
)

// buildDuplicate allocates a deep copy of src and its subtree without
// inserting it: the copies carry the source's attribute values,
// dynamic definitions, geometry and set membership, are linked to
// each other, and stay dead until a modifier applies them.
func (g *Graph) buildDuplicate(src *Node, name string) (*Node, error) {
	if name == "" {
		name = src.name
	}
	dup := newNode(g, src.typ, name)
	if err := copyNodeState(src, dup); err != nil {
		return nil, err
	}
	for _, c := range src.children {
		if !c.alive {
			continue
		}
		cc, err := g.buildDuplicate(c, c.name)
		if err != nil {
			return nil, err
		}
		dup.attachChild(cc, -1)
	}
	return dup, nil
}

// copyNodeState copies per-node state from src onto a freshly
// allocated node of the same type. Connections are deliberately not
// copied; a duplicate starts unconnected.
func copyNodeState(src, dst *Node) error {
	for _, sav := range src.attrs {
		if !sav.def.IsDynamic() {
			continue
		}
		def := sav.def.Clone()
		if def == nil {
			return fmt.Errorf("%w: cloning dynamic attribute %q", ErrBadAttrSpec, sav.def.Name)
		}
		dst.addAttrValue(def)
	}
	if len(dst.attrs) != len(src.attrs) {
		return fmt.Errorf("%w: attribute layout mismatch duplicating %s", ErrBadAttrSpec, src.Name())
	}
	for i, sav := range src.attrs {
		copyAttrState(sav, dst.attrs[i])
	}
	if src.geometry != nil {
		geo, err := cloneGeometry(src.geometry)
		if err != nil {
			return err
		}
		dst.geometry = geo
	}
	if src.members != nil {
		dst.members = src.members.Clone()
	}
	dst.locked = src.locked
	return nil
}

// copyAttrState copies values, lock flags and array structure between
// two instance trees of the same definition shape. Canonical values
// are value types, so plain assignment copies them.
func copyAttrState(src, dst *attrValue) {
	dst.value = src.value
	dst.locked = src.locked
	for i, sc := range src.children {
		copyAttrState(sc, dst.children[i])
	}
	for idx, sel := range src.elements {
		del, err := dst.element(idx)
		if err != nil {
			continue
		}
		copyAttrState(sel, del)
	}
}

// cloneGeometry deep-copies a shape payload. Derived caches (mesh
// edges, curve length) are left cold on the copy.
func cloneGeometry(g Geometry) (Geometry, error) {
	opt := copier.Option{DeepCopy: true}
	switch t := g.(type) {
	case *MeshData:
		cp := &MeshData{}
		return cp, copier.CopyWithOption(cp, t, opt)
	case *CurveData:
		cp := &CurveData{}
		return cp, copier.CopyWithOption(cp, t, opt)
	case *SurfaceData:
		cp := &SurfaceData{}
		return cp, copier.CopyWithOption(cp, t, opt)
	case *LatticeData:
		cp := &LatticeData{}
		return cp, copier.CopyWithOption(cp, t, opt)
	}
	return nil, fmt.Errorf("%w: unknown geometry %T", ErrValueType, g)
}
