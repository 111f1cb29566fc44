// Copyright (c) 2025, The Gomaya Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package scene

// Fn is a node capability. Every node type carries an ordered chain of
// capabilities from most specific to most general, always ending in
// [FnDependencyNode]. Capability checks drive both wrapper selection
// and operation validation (for example, only [FnDagNode] nodes can be
// reparented).
type Fn int32

const (
	FnInvalid Fn = iota

	// FnDependencyNode is the base capability shared by every node.
	FnDependencyNode

	// FnDagNode marks nodes that live in the transform hierarchy.
	FnDagNode

	// FnTransform marks hierarchy nodes carrying translate, rotate,
	// scale and shear channels.
	FnTransform

	// FnJoint marks transforms that additionally carry a joint orient.
	FnJoint

	// FnShape marks leaf hierarchy nodes carrying geometry.
	FnShape

	// FnMesh marks polygonal mesh shapes.
	FnMesh

	// FnNurbsCurve marks NURBS curve shapes.
	FnNurbsCurve

	// FnNurbsSurface marks NURBS surface shapes.
	FnNurbsSurface

	// FnLattice marks free-form deformation lattice shapes.
	FnLattice

	// FnSet marks membership set nodes.
	FnSet

	FnN
)

var fnNames = []string{"invalid", "dependencyNode", "dagNode", "transform", "joint", "shape", "mesh", "nurbsCurve", "nurbsSurface", "lattice", "set", "n"}

func (f Fn) String() string {
	if f < 0 || f >= FnN {
		return "invalid"
	}
	return fnNames[f]
}
