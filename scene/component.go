// Copyright (c) 2025, The Gomaya Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package scene

import (
	"fmt"
	"strconv"
	"strings"
)

// ComponentKind identifies a class of geometry sub-elements.
type ComponentKind int32

const (
	CompInvalid ComponentKind = iota

	// CompMeshVertex is a polygonal mesh vertex, subscripted "vtx".
	CompMeshVertex

	// CompMeshEdge is a polygonal mesh edge, subscripted "e".
	CompMeshEdge

	// CompMeshFace is a polygonal mesh face, subscripted "f".
	CompMeshFace

	// CompCurveCV is a NURBS curve control vertex, subscripted "cv".
	CompCurveCV

	// CompSurfaceCV is a NURBS surface control vertex, subscripted
	// "cv" with two indices.
	CompSurfaceCV

	// CompLatticePoint is a lattice point, subscripted "pt" with
	// three indices.
	CompLatticePoint

	CompN
)

var componentKindNames = []string{"invalid", "meshVertex", "meshEdge", "meshFace", "curveCV", "surfaceCV", "latticePoint", "n"}

func (ck ComponentKind) String() string {
	if ck < 0 || ck >= CompN {
		return "invalid"
	}
	return componentKindNames[ck]
}

// Subscript returns the bracket-notation name used in component
// strings, for example "vtx" in "pCube1.vtx[3]".
func (ck ComponentKind) Subscript() string {
	switch ck {
	case CompMeshVertex:
		return "vtx"
	case CompMeshEdge:
		return "e"
	case CompMeshFace:
		return "f"
	case CompCurveCV, CompSurfaceCV:
		return "cv"
	case CompLatticePoint:
		return "pt"
	}
	return ""
}

// Dims returns the number of indices addressing one element of this
// kind.
func (ck ComponentKind) Dims() int {
	switch ck {
	case CompSurfaceCV:
		return 2
	case CompLatticePoint:
		return 3
	case CompMeshVertex, CompMeshEdge, CompMeshFace, CompCurveCV:
		return 1
	}
	return 0
}

// componentKindFor maps a subscript name to the kind it means on the
// given shape capability, CompInvalid when the pair makes no sense.
func componentKindFor(shapeFn Fn, subscript string) ComponentKind {
	switch shapeFn {
	case FnMesh:
		switch subscript {
		case "vtx":
			return CompMeshVertex
		case "e":
			return CompMeshEdge
		case "f":
			return CompMeshFace
		}
	case FnNurbsCurve:
		if subscript == "cv" {
			return CompCurveCV
		}
	case FnNurbsSurface:
		if subscript == "cv" {
			return CompSurfaceCV
		}
	case FnLattice:
		if subscript == "pt" {
			return CompLatticePoint
		}
	}
	return CompInvalid
}

// Component is a set of same-kind elements on one shape. Elements are
// stored as fixed-width index triples with the first [ComponentKind.Dims]
// entries meaningful, in the order they were selected.
type Component struct {

	// Kind is the element class.
	Kind ComponentKind

	// Elements are the index tuples.
	Elements [][3]int
}

// NewComponent returns a component of the given kind over the given
// element tuples.
func NewComponent(kind ComponentKind, elements ...[3]int) *Component {
	return &Component{Kind: kind, Elements: elements}
}

// Len returns the number of elements.
func (c *Component) Len() int {
	if c == nil {
		return 0
	}
	return len(c.Elements)
}

// Element returns the index tuple at the given position.
func (c *Component) Element(i int) [3]int {
	return c.Elements[i]
}

// Indices returns the first index of every element, the whole address
// for single-dimension kinds.
func (c *Component) Indices() []int {
	out := make([]int, len(c.Elements))
	for i, el := range c.Elements {
		out[i] = el[0]
	}
	return out
}

// Subscript returns the bracket notation for the element set relative
// to a node, for example "vtx[1,3,5]" or "cv[0][2]". Single elements
// render as "vtx[3]"; multi-dimension sets render each element in
// full, joined by commas within the first bracket pair per dimension
// position.
func (c *Component) Subscript() string {
	dims := c.Kind.Dims()
	var b strings.Builder
	b.WriteString(c.Kind.Subscript())
	if dims == 1 {
		b.WriteByte('[')
		for i, el := range c.Elements {
			if i > 0 {
				b.WriteByte(',')
			}
			b.WriteString(strconv.Itoa(el[0]))
		}
		b.WriteByte(']')
		return b.String()
	}
	for i, el := range c.Elements {
		if i > 0 {
			b.WriteByte(',')
			b.WriteString(c.Kind.Subscript())
		}
		for d := 0; d < dims; d++ {
			b.WriteByte('[')
			b.WriteString(strconv.Itoa(el[d]))
			b.WriteByte(']')
		}
	}
	return b.String()
}

// String implements [fmt.Stringer] by returning [Component.Subscript].
func (c *Component) String() string { return c.Subscript() }

// Validate checks every element against the per-dimension counts of
// the given geometry.
func (c *Component) Validate(g Geometry) error {
	counts, ok := g.CountsFor(c.Kind)
	if !ok {
		return fmt.Errorf("%w: %s components on %T", ErrValueType, c.Kind, g)
	}
	dims := c.Kind.Dims()
	for _, el := range c.Elements {
		for d := 0; d < dims; d++ {
			if el[d] < 0 || el[d] >= counts[d] {
				return fmt.Errorf("%w: %s index %d (max %d)", ErrOutOfRange, c.Kind.Subscript(), el[d], counts[d]-1)
			}
		}
	}
	return nil
}

// parseComponentRanges parses the bracket contents of a component
// string into index tuples, expanding inclusive i:j ranges and taking
// the cartesian product across dimensions. Each dimension is one
// bracket group holding comma-separated entries; negative indices and
// bare "*" resolve against the per-dimension counts.
func parseComponentRanges(kind ComponentKind, groups []string, counts []int) ([][3]int, error) {
	dims := kind.Dims()
	if len(groups) != dims {
		return nil, fmt.Errorf("%w: %s takes %d indices, got %d", ErrOutOfRange, kind.Subscript(), dims, len(groups))
	}
	perDim := make([][]int, dims)
	for d, g := range groups {
		idxs, err := parseIndexGroup(g, counts[d])
		if err != nil {
			return nil, err
		}
		perDim[d] = idxs
	}
	var out [][3]int
	var el [3]int
	var expand func(d int)
	expand = func(d int) {
		if d == dims {
			out = append(out, el)
			return
		}
		for _, i := range perDim[d] {
			el[d] = i
			expand(d + 1)
		}
	}
	expand(0)
	return out, nil
}

// parseIndexGroup parses one bracket group: comma-separated indices
// and inclusive i:j ranges, with "*" meaning the whole dimension and
// negative values counting back from the end.
func parseIndexGroup(group string, count int) ([]int, error) {
	var out []int
	for _, part := range strings.Split(group, ",") {
		part = strings.TrimSpace(part)
		if part == "*" {
			for i := 0; i < count; i++ {
				out = append(out, i)
			}
			continue
		}
		if lo, hi, ok := strings.Cut(part, ":"); ok {
			start, err := parseIndex(lo, count)
			if err != nil {
				return nil, err
			}
			stop, err := parseIndex(hi, count)
			if err != nil {
				return nil, err
			}
			for i := start; i <= stop; i++ {
				out = append(out, i)
			}
			continue
		}
		idx, err := parseIndex(part, count)
		if err != nil {
			return nil, err
		}
		out = append(out, idx)
	}
	if len(out) == 0 {
		return nil, fmt.Errorf("%w: empty component subscript", ErrOutOfRange)
	}
	return out, nil
}

// parseIndex parses one index, resolving negative values against the
// dimension count. Bounds checking happens later in
// [Component.Validate] so that error text carries the kind.
func parseIndex(s string, count int) (int, error) {
	idx, err := strconv.Atoi(strings.TrimSpace(s))
	if err != nil {
		return 0, fmt.Errorf("malformed component index %q: %w", s, ErrNotFound)
	}
	if idx < 0 {
		idx += count
	}
	return idx, nil
}
