// Copyright (c) 2025, The Gomaya Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package core

import (
	"fmt"
	"slices"

	"github.com/Pahuska/gomaya/math32"
	"github.com/Pahuska/gomaya/scene"
)

// Component wraps an element set on one shape. Narrowing methods
// address the current element list by position, the way a slice
// would, and return fresh wrappers of the same concrete kind.
type Component struct {
	ObjectBase
}

// AsComponent returns the embedded component base.
func (c *Component) AsComponent() *Component { return c }

// parts returns the owning path and element set after checking the
// handle still points at live geometry.
func (c *Component) parts() (*scene.Path, *scene.Component, error) {
	if err := c.Hdl.Validate(); err != nil {
		return nil, nil, err
	}
	return c.Hdl.Path, c.Hdl.Component, nil
}

func (c *Component) DisplayName(full bool) (string, error) {
	path, comp, err := c.parts()
	if err != nil {
		return "", err
	}
	if full {
		return path.FullName() + "." + comp.Subscript(), nil
	}
	return path.PartialName() + "." + comp.Subscript(), nil
}

// Shape returns the wrapper for the shape the elements live on.
func (c *Component) Shape() (Node, error) {
	path, _, err := c.parts()
	if err != nil {
		return nil, err
	}
	return c.Ses.nodeObject(path.Node())
}

// Geometry returns the geometry payload the elements index into.
func (c *Component) Geometry() (scene.Geometry, error) {
	path, _, err := c.parts()
	if err != nil {
		return nil, err
	}
	g := path.Node().Geometry()
	if g == nil {
		return nil, fmt.Errorf("%w: %s carries no geometry", ErrTypeMismatch, path.Node().Name())
	}
	return g, nil
}

// Kind returns the element class.
func (c *Component) Kind() scene.ComponentKind {
	if c.Hdl.Component == nil {
		return scene.CompInvalid
	}
	return c.Hdl.Component.Kind
}

// Count returns the number of elements in the set.
func (c *Component) Count() int {
	if c.Hdl.Component == nil {
		return 0
	}
	return c.Hdl.Component.Len()
}

// Elements returns a copy of the element index tuples, in set order.
func (c *Component) Elements() [][3]int {
	if c.Hdl.Component == nil {
		return nil
	}
	return slices.Clone(c.Hdl.Component.Elements)
}

// Element returns the index tuple at the given set position.
func (c *Component) Element(i int) ([3]int, error) {
	_, comp, err := c.parts()
	if err != nil {
		return [3]int{}, err
	}
	if i < 0 || i >= comp.Len() {
		return [3]int{}, fmt.Errorf("%w: position %d of %d", ErrOutOfRange, i, comp.Len())
	}
	return comp.Element(i), nil
}

// Index returns the element index at the given set position, for
// single-dimension kinds.
func (c *Component) Index(i int) (int, error) {
	el, err := c.Element(i)
	if err != nil {
		return 0, err
	}
	if c.Kind().Dims() != 1 {
		return 0, fmt.Errorf("%w: %s elements take %d indices", ErrTypeMismatch, c.Kind(), c.Kind().Dims())
	}
	return el[0], nil
}

// Indices returns the element indices in set order, for
// single-dimension kinds.
func (c *Component) Indices() ([]int, error) {
	_, comp, err := c.parts()
	if err != nil {
		return nil, err
	}
	if comp.Kind.Dims() != 1 {
		return nil, fmt.Errorf("%w: %s elements take %d indices", ErrTypeMismatch, comp.Kind, comp.Kind.Dims())
	}
	return comp.Indices(), nil
}

////////  Narrowing

// narrow resolves a sub-set of this component's elements into a fresh
// wrapper.
func (c *Component) narrow(els [][3]int) (Comp, error) {
	obj, err := c.Ses.Resolve(ComponentHandle(c.Hdl.Path, scene.NewComponent(c.Hdl.Component.Kind, els...)), nil)
	if err != nil {
		return nil, err
	}
	return obj.(Comp), nil
}

// At narrows the set to the elements at the given positions. Negative
// positions count back from the end.
func (c *Component) At(positions ...int) (Comp, error) {
	_, comp, err := c.parts()
	if err != nil {
		return nil, err
	}
	els := make([][3]int, 0, len(positions))
	for _, i := range positions {
		if i < 0 {
			i += comp.Len()
		}
		if i < 0 || i >= comp.Len() {
			return nil, fmt.Errorf("%w: position %d of %d", ErrOutOfRange, i, comp.Len())
		}
		els = append(els, comp.Element(i))
	}
	return c.narrow(els)
}

// Range narrows the set to the positions from start through stop,
// inclusive. Negative positions count back from the end.
func (c *Component) Range(start, stop int) (Comp, error) {
	return c.RangeStep(start, stop, 1)
}

// RangeStep narrows like [Component.Range], keeping every step-th
// position.
func (c *Component) RangeStep(start, stop, step int) (Comp, error) {
	_, comp, err := c.parts()
	if err != nil {
		return nil, err
	}
	if step < 1 {
		return nil, fmt.Errorf("%w: step %d", ErrOutOfRange, step)
	}
	if start < 0 {
		start += comp.Len()
	}
	if stop < 0 {
		stop += comp.Len()
	}
	if start < 0 || start >= comp.Len() || stop < 0 || stop >= comp.Len() {
		return nil, fmt.Errorf("%w: range %d:%d of %d", ErrOutOfRange, start, stop, comp.Len())
	}
	if start > stop {
		return nil, fmt.Errorf("%w: reversed range %d:%d", ErrOutOfRange, start, stop)
	}
	var els [][3]int
	for i := start; i <= stop; i += step {
		els = append(els, comp.Element(i))
	}
	return c.narrow(els)
}

// All widens the set back to every element the geometry currently
// has.
func (c *Component) All() (Comp, error) {
	_, comp, err := c.parts()
	if err != nil {
		return nil, err
	}
	g, err := c.Geometry()
	if err != nil {
		return nil, err
	}
	counts, ok := g.CountsFor(comp.Kind)
	if !ok {
		return nil, fmt.Errorf("%w: %s has no %s elements", ErrTypeMismatch, c.Hdl.Path.Node().Name(), comp.Kind)
	}
	return c.narrow(expandElements(counts))
}

// AtElement narrows the set to the element with the given geometry
// indices, which must be present in the set.
func (c *Component) AtElement(coords ...int) (Comp, error) {
	_, comp, err := c.parts()
	if err != nil {
		return nil, err
	}
	dims := comp.Kind.Dims()
	if len(coords) != dims {
		return nil, fmt.Errorf("%w: %d indices for %d-dimensional %s", ErrArityMismatch, len(coords), dims, comp.Kind)
	}
	var want [3]int
	copy(want[:], coords)
	for _, el := range comp.Elements {
		if el == want {
			return c.narrow([][3]int{el})
		}
	}
	return nil, fmt.Errorf("%w: %s%v is not in this set", ErrNotFound, comp.Kind.Subscript(), coords)
}

// expandElements enumerates every index tuple under the given
// per-dimension counts, first dimension outermost.
func expandElements(counts []int) [][3]int {
	total := 1
	for _, n := range counts {
		total *= n
	}
	out := make([][3]int, 0, total)
	var el [3]int
	var walk func(d int)
	walk = func(d int) {
		if d == len(counts) {
			out = append(out, el)
			return
		}
		for i := 0; i < counts[d]; i++ {
			el[d] = i
			walk(d + 1)
		}
	}
	walk(0)
	return out
}

////////  Positions

// worldMatrix returns the world matrix of the owning shape.
func (c *Component) worldMatrix() math32.Matrix4 {
	return c.Ses.Graph.WorldMatrix(c.Hdl.Path.Node())
}

// Positions returns the element positions in the given space, in UI
// distance units, in set order.
func (c *Component) Positions(space Space) ([]math32.Vector3, error) {
	_, comp, err := c.parts()
	if err != nil {
		return nil, err
	}
	g, err := c.Geometry()
	if err != nil {
		return nil, err
	}
	out := make([]math32.Vector3, 0, comp.Len())
	var world math32.Matrix4
	if space == SpaceWorld {
		world = c.worldMatrix()
	}
	for _, el := range comp.Elements {
		p, err := g.Position(comp.Kind, el)
		if err != nil {
			return nil, wrapErr(err)
		}
		if space == SpaceWorld {
			p = p.MulMatrix4AsPoint(&world)
		}
		out = append(out, distanceToUIVec3(p))
	}
	return out, nil
}

// Position returns the position of the element at the given set
// position.
func (c *Component) Position(i int, space Space) (math32.Vector3, error) {
	sub, err := c.At(i)
	if err != nil {
		return math32.Vector3{}, err
	}
	pts, err := sub.AsComponent().Positions(space)
	if err != nil {
		return math32.Vector3{}, err
	}
	return pts[0], nil
}

// SetPositions moves every element to the corresponding position, in
// UI distance units. One position per element, in set order.
func (c *Component) SetPositions(pts []math32.Vector3, space Space, batch ...*scene.Modifier) (*Command, error) {
	_, comp, err := c.parts()
	if err != nil {
		return nil, err
	}
	if len(pts) != comp.Len() {
		return nil, fmt.Errorf("%w: %d positions for %d elements", ErrArityMismatch, len(pts), comp.Len())
	}
	g, err := c.Geometry()
	if err != nil {
		return nil, err
	}
	next := make([]math32.Vector3, len(pts))
	var worldInv math32.Matrix4
	if space == SpaceWorld {
		w := c.worldMatrix()
		worldInv = w.Inverse()
	}
	for i, p := range pts {
		p = distanceToInternalVec3(p)
		if space == SpaceWorld {
			p = p.MulMatrix4AsPoint(&worldInv)
		}
		next[i] = p
	}
	kind := comp.Kind
	els := slices.Clone(comp.Elements)
	write := func(vals []math32.Vector3) error {
		for i, el := range els {
			if err := g.SetPosition(kind, el, vals[i]); err != nil {
				return wrapErr(err)
			}
		}
		return nil
	}
	// Prior positions are captured at first apply, like value stores.
	var prev []math32.Vector3
	md, owned := c.Ses.batch(batch)
	md.AddProxy(
		func() error {
			if prev == nil {
				prev = make([]math32.Vector3, 0, len(els))
				for _, el := range els {
					p, err := g.Position(kind, el)
					if err != nil {
						return wrapErr(err)
					}
					prev = append(prev, p)
				}
			}
			return write(next)
		},
		func() error {
			return write(prev)
		},
	)
	return c.Ses.finish("setPositions", md, owned)
}

// SetPosition moves the element at the given set position, in UI
// distance units.
func (c *Component) SetPosition(i int, pt math32.Vector3, space Space, batch ...*scene.Modifier) (*Command, error) {
	sub, err := c.At(i)
	if err != nil {
		return nil, err
	}
	return sub.AsComponent().SetPositions([]math32.Vector3{pt}, space, batch...)
}

////////  Concrete kinds

// Component1D is a component whose elements take one index.
type Component1D struct {
	Component
}

// AsComponent1D returns the embedded one-dimensional base.
func (c *Component1D) AsComponent1D() *Component1D { return c }

// Component2D is a component whose elements take two indices.
type Component2D struct {
	Component
}

// AsComponent2D returns the embedded two-dimensional base.
func (c *Component2D) AsComponent2D() *Component2D { return c }

// Component3D is a component whose elements take three indices.
type Component3D struct {
	Component
}

// AsComponent3D returns the embedded three-dimensional base.
func (c *Component3D) AsComponent3D() *Component3D { return c }

// MeshVertex is a set of mesh vertices.
type MeshVertex struct {
	Component1D
}

// MeshEdge is a set of mesh edges.
type MeshEdge struct {
	Component1D
}

// MeshFace is a set of mesh faces.
type MeshFace struct {
	Component1D
}

// CurveCV is a set of curve control vertices.
type CurveCV struct {
	Component1D
}

// SurfaceCV is a set of surface control vertices.
type SurfaceCV struct {
	Component2D
}

// LatticePoint is a set of lattice points.
type LatticePoint struct {
	Component3D
}
