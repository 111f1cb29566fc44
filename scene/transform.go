// Copyright (c) 2025, The Gomaya Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package scene

import (
	"fmt"

	"github.com/Pahuska/gomaya/math32"
)

// RotateOrderFieldNames returns the enum field names for the
// rotateOrder attribute, index-aligned with [math32.RotationOrder].
func RotateOrderFieldNames() []string {
	return math32.RotationOrderNames
}

// computedValue evaluates a computed attribute on read. The matrix
// family is derived from the transformation channels and the
// hierarchy; nothing is cached at this level.
func (g *Graph) computedValue(p Plug) (any, error) {
	n := p.Node()
	switch p.Def().Name {
	case "matrix":
		return g.LocalMatrix(n), nil
	case "inverseMatrix":
		m := g.LocalMatrix(n)
		return m.Inverse(), nil
	case "worldMatrix":
		return g.WorldMatrix(n), nil
	case "worldInverseMatrix":
		m := g.WorldMatrix(n)
		return m.Inverse(), nil
	case "parentMatrix":
		return g.parentWorld(n), nil
	case "parentInverseMatrix":
		m := g.parentWorld(n)
		return m.Inverse(), nil
	}
	return nil, fmt.Errorf("%w: computed attribute %q", ErrValueType, p.Def().Name)
}

// LocalMatrix returns the node's local transformation matrix,
// composed as translate times joint orient times rotate times shear
// times scale, all column-vector convention. Nodes without
// transformation channels (shapes) are identity.
func (g *Graph) LocalMatrix(n *Node) math32.Matrix4 {
	if !n.HasFn(FnTransform) {
		return math32.Identity4()
	}
	pos := g.channelVec3(n, "translate", 0)
	scale := g.channelVec3(n, "scale", 1)
	shear := g.channelVec3(n, "shear", 0)
	rot := g.RotationEuler(n).ToMatrix()
	if n.HasFn(FnJoint) {
		jo := g.jointOrientEuler(n).ToMatrix()
		rot = jo.Mul(&rot)
	}
	var m math32.Matrix4
	m.Compose(pos, &rot, shear, scale)
	return m
}

// WorldMatrix returns the node's world transformation: the product of
// every local matrix from the root down to the node.
func (g *Graph) WorldMatrix(n *Node) math32.Matrix4 {
	local := g.LocalMatrix(n)
	if n.parent == nil {
		return local
	}
	world := g.WorldMatrix(n.parent)
	return world.Mul(&local)
}

func (g *Graph) parentWorld(n *Node) math32.Matrix4 {
	if n.parent == nil {
		return math32.Identity4()
	}
	return g.WorldMatrix(n.parent)
}

// RotationEuler returns the node's rotate channels as an Euler
// rotation with its rotate order, zero for nodes without them.
func (g *Graph) RotationEuler(n *Node) math32.Euler {
	v := g.channelVec3(n, "rotate", 0)
	return math32.EulerFromVector3(v, g.RotateOrder(n))
}

func (g *Graph) jointOrientEuler(n *Node) math32.Euler {
	v := g.channelVec3(n, "jointOrient", 0)
	return math32.EulerFromVector3(v, math32.XYZ)
}

// RotateOrder returns the node's rotate order, XYZ for nodes without
// the attribute.
func (g *Graph) RotateOrder(n *Node) math32.RotationOrder {
	p, err := n.FindPlug("rotateOrder")
	if err != nil {
		return math32.XYZ
	}
	v, err := p.Value()
	if err != nil {
		return math32.XYZ
	}
	if i, ok := v.(int); ok && i >= 0 && i < len(math32.RotationOrderNames) {
		return math32.RotationOrder(i)
	}
	return math32.XYZ
}

// channelVec3 reads a three-child channel compound into a vector,
// filling the given fallback for a missing attribute. Channel values
// are scalar float32 in internal units.
func (g *Graph) channelVec3(n *Node, name string, fallback float32) math32.Vector3 {
	out := math32.Vec3(fallback, fallback, fallback)
	p, err := n.FindPlug(name)
	if err != nil || p.NumChildren() != 3 {
		return out
	}
	dims := []*float32{&out.X, &out.Y, &out.Z}
	for i := 0; i < 3; i++ {
		c, err := p.Child(i)
		if err != nil {
			continue
		}
		v, err := c.Value()
		if err != nil {
			continue
		}
		if f, ok := v.(float32); ok {
			*dims[i] = f
		}
	}
	return out
}
