// Copyright (c) 2025, The Gomaya Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package core

import (
	"fmt"

	"github.com/Pahuska/gomaya/scene"
)

// HandleKind tags what a [Handle] refers to.
type HandleKind int32

const (
	HandleInvalid HandleKind = iota

	// HandleNode is a bare node with no hierarchy position attached.
	HandleNode

	// HandlePath is a hierarchy node addressed through its path.
	HandlePath

	// HandlePlug is an attribute instance on a node.
	HandlePlug

	// HandleComponent is a set of geometry elements on a shape,
	// carrying the shape's path.
	HandleComponent

	// HandleCompound pairs a hierarchy path with a node, for callers
	// that hand both halves over together.
	HandleCompound

	HandleN
)

var handleKindNames = []string{"invalid", "node", "path", "plug", "component", "compound", "n"}

func (hk HandleKind) String() string {
	if hk < 0 || hk >= HandleN {
		return "invalid"
	}
	return handleKindNames[hk]
}

// Handle is the tagged reference a wrapper object keeps to its scene
// referent. Which fields are set depends on Kind: Node for node and
// compound handles, Path for path, component and compound handles,
// Plug for plug handles and Component for component handles. Handles
// survive deletion of their referent; [Handle.Validate] reports
// whether the referent is still live.
type Handle struct {

	// Kind tags which reference shape this is.
	Kind HandleKind

	// Node identifies the referent node. Set for every kind; for
	// path, plug and component handles it names the owner.
	Node scene.NodeRef

	// Path is the hierarchy path for path, component and compound
	// handles.
	Path *scene.Path

	// Plug is the attribute instance for plug handles.
	Plug scene.Plug

	// Component is the element set for component handles.
	Component *scene.Component
}

// NodeHandle returns a handle to a bare node.
func NodeHandle(n *scene.Node) Handle {
	if n == nil {
		return Handle{}
	}
	return Handle{Kind: HandleNode, Node: n.Ref()}
}

// PathHandle returns a handle to a hierarchy node through its path.
func PathHandle(p *scene.Path) Handle {
	if p == nil || p.Node() == nil {
		return Handle{}
	}
	return Handle{Kind: HandlePath, Node: p.Node().Ref(), Path: p}
}

// PlugHandle returns a handle to an attribute instance.
func PlugHandle(p scene.Plug) Handle {
	if p.IsNil() {
		return Handle{}
	}
	return Handle{Kind: HandlePlug, Node: p.Node().Ref(), Plug: p}
}

// ComponentHandle returns a handle to an element set on the shape at
// the given path.
func ComponentHandle(path *scene.Path, comp *scene.Component) Handle {
	if path == nil || path.Node() == nil || comp == nil {
		return Handle{}
	}
	return Handle{Kind: HandleComponent, Node: path.Node().Ref(), Path: path, Component: comp}
}

// CompoundHandle returns a handle pairing a hierarchy path with a
// node.
func CompoundHandle(path *scene.Path, n *scene.Node) Handle {
	if path == nil || n == nil {
		return Handle{}
	}
	return Handle{Kind: HandleCompound, Node: n.Ref(), Path: path}
}

// IsNil reports whether the handle refers to nothing.
func (h Handle) IsNil() bool { return h.Kind == HandleInvalid }

// OwnerNode returns the node behind the handle: the node itself for
// node and compound handles, the path's node for path and component
// handles, and the owning node for plug handles.
func (h Handle) OwnerNode() (*scene.Node, error) {
	switch h.Kind {
	case HandleNode, HandleCompound:
		n, err := h.Node.Node()
		return n, wrapErr(err)
	case HandlePath, HandleComponent:
		n := h.Path.Node()
		if !n.IsAlive() {
			return nil, fmt.Errorf("%w: node behind path %s is gone", ErrInvalidHandle, h.Path)
		}
		return n, nil
	case HandlePlug:
		n := h.Plug.Node()
		if !n.IsAlive() {
			return nil, fmt.Errorf("%w: node behind plug %s is gone", ErrInvalidHandle, h.Plug)
		}
		return n, nil
	}
	return nil, fmt.Errorf("%w: nil handle", ErrInvalidHandle)
}

// Validate reports whether the referent is still live: the node
// exists, the path still reaches it, the attribute is still on the
// node, the shape still carries geometry of the component's kind.
func (h Handle) Validate() error {
	switch h.Kind {
	case HandleNode:
		if !h.Node.IsValid() {
			return fmt.Errorf("%w: node %d is gone", ErrInvalidHandle, h.Node.ID())
		}
		return nil
	case HandlePath:
		if !h.Path.IsValid() {
			return fmt.Errorf("%w: path %s is gone", ErrInvalidHandle, h.Path)
		}
		return nil
	case HandlePlug:
		n := h.Plug.Node()
		if !n.IsAlive() {
			return fmt.Errorf("%w: node behind plug %s is gone", ErrInvalidHandle, h.Plug)
		}
		if root := h.Plug.Def().Root(); !n.HasAttr(root.Name) {
			return fmt.Errorf("%w: attribute %s was removed", ErrInvalidHandle, h.Plug)
		}
		return nil
	case HandleComponent:
		if !h.Path.IsValid() {
			return fmt.Errorf("%w: shape path %s is gone", ErrInvalidHandle, h.Path)
		}
		geom := h.Path.Node().Geometry()
		if geom == nil {
			return fmt.Errorf("%w: %s carries no geometry", ErrInvalidHandle, h.Path)
		}
		if _, ok := geom.CountsFor(h.Component.Kind); !ok {
			return fmt.Errorf("%w: %s has no %s components", ErrInvalidHandle, h.Path, h.Component.Kind)
		}
		return nil
	case HandleCompound:
		if !h.Path.IsValid() {
			return fmt.Errorf("%w: path %s is gone", ErrInvalidHandle, h.Path)
		}
		if !h.Node.IsValid() {
			return fmt.Errorf("%w: node %d is gone", ErrInvalidHandle, h.Node.ID())
		}
		return nil
	}
	return fmt.Errorf("%w: nil handle", ErrInvalidHandle)
}

// String returns a short description for logs and errors.
func (h Handle) String() string {
	switch h.Kind {
	case HandleNode:
		if n, err := h.Node.Node(); err == nil {
			return n.Name()
		}
		return fmt.Sprintf("node#%d", h.Node.ID())
	case HandlePath:
		return h.Path.PartialName()
	case HandlePlug:
		return h.Plug.Name()
	case HandleComponent:
		return h.Path.PartialName() + "." + h.Component.Subscript()
	case HandleCompound:
		return h.Path.PartialName()
	}
	return "<nil handle>"
}

// Normalize turns any accepted reference into a [Handle]. Accepted
// forms are name strings (resolved through the graph), existing
// handles, wrapper objects, scene nodes, refs, paths, plugs,
// selection items, resolution results, and two-element slices pairing
// a hierarchy reference with a component or node.
func (s *Session) Normalize(ref any) (Handle, error) {
	switch v := ref.(type) {
	case nil:
		return Handle{}, fmt.Errorf("%w: nil reference", ErrTypeMismatch)
	case string:
		r, err := s.Graph.Lookup(v)
		if err != nil {
			return Handle{}, wrapErr(err)
		}
		return handleForResolved(r)
	case Handle:
		return v, nil
	case Object:
		return v.Handle(), nil
	case *scene.Node:
		return NodeHandle(v), nil
	case scene.NodeRef:
		if v.IsNil() {
			return Handle{}, fmt.Errorf("%w: nil node ref", ErrTypeMismatch)
		}
		return Handle{Kind: HandleNode, Node: v}, nil
	case *scene.Path:
		return PathHandle(v), nil
	case scene.Plug:
		return PlugHandle(v), nil
	case *scene.Component:
		return Handle{}, fmt.Errorf("%w: a bare component needs its shape; pass a [path, component] pair", ErrTypeMismatch)
	case scene.SelectionItem:
		return handleForItem(v)
	case scene.Resolved:
		return handleForResolved(v)
	case [2]any:
		return s.normalizePair(v[0], v[1])
	case []any:
		if len(v) != 2 {
			return Handle{}, fmt.Errorf("%w: reference slice must have exactly 2 entries, got %d", ErrTypeMismatch, len(v))
		}
		return s.normalizePair(v[0], v[1])
	}
	return Handle{}, fmt.Errorf("%w: cannot reference a %T", ErrTypeMismatch, ref)
}

// normalizePair builds a component or compound handle from a
// (hierarchy, payload) pair.
func (s *Session) normalizePair(first, second any) (Handle, error) {
	fh, err := s.Normalize(first)
	if err != nil {
		return Handle{}, err
	}
	var path *scene.Path
	switch fh.Kind {
	case HandlePath, HandleCompound, HandleComponent:
		path = fh.Path
	case HandleNode:
		n, err := fh.Node.Node()
		if err != nil {
			return Handle{}, wrapErr(err)
		}
		if !n.IsDag() {
			return Handle{}, fmt.Errorf("%w: pair must start with a hierarchy node, %s is not one", ErrTypeMismatch, n.Name())
		}
		path = n.Path()
	default:
		return Handle{}, fmt.Errorf("%w: pair must start with a hierarchy reference, got %s", ErrTypeMismatch, fh.Kind)
	}
	if comp, ok := second.(*scene.Component); ok {
		return ComponentHandle(shapePath(path), comp), nil
	}
	sh, err := s.Normalize(second)
	if err != nil {
		return Handle{}, err
	}
	switch sh.Kind {
	case HandleComponent:
		return ComponentHandle(shapePath(path), sh.Component), nil
	case HandleNode, HandlePath, HandleCompound:
		n, err := sh.OwnerNode()
		if err != nil {
			return Handle{}, err
		}
		return CompoundHandle(path, n), nil
	}
	return Handle{}, fmt.Errorf("%w: pair must end with a component or node, got %s", ErrTypeMismatch, sh.Kind)
}

// shapePath walks a hierarchy path down to its first shape child, so
// that a component paired with a transform binds to the geometry the
// same way name lookups do. Paths already at a shape, or with no shape
// below, come back unchanged.
func shapePath(p *scene.Path) *scene.Path {
	n := p.Node()
	if n == nil || n.HasFn(scene.FnShape) {
		return p
	}
	for _, c := range n.Children() {
		if c.HasFn(scene.FnShape) {
			return c.Path()
		}
	}
	return p
}

// handleForResolved maps a name resolution result onto a handle.
func handleForResolved(r scene.Resolved) (Handle, error) {
	switch r.Kind {
	case scene.ResolvedNode:
		return NodeHandle(r.Node), nil
	case scene.ResolvedDag:
		return PathHandle(r.Path), nil
	case scene.ResolvedPlug:
		return PlugHandle(r.Plug), nil
	case scene.ResolvedComponent:
		return ComponentHandle(r.Path, r.Component), nil
	}
	return Handle{}, fmt.Errorf("%w: unresolved reference", ErrTypeMismatch)
}

// handleForItem maps a selection item onto a handle.
func handleForItem(si scene.SelectionItem) (Handle, error) {
	switch si.Kind() {
	case scene.ResolvedPlug:
		return PlugHandle(si.Plug), nil
	case scene.ResolvedComponent:
		return ComponentHandle(si.Node.Path(), si.Component), nil
	case scene.ResolvedDag:
		if si.Path != nil {
			return PathHandle(si.Path), nil
		}
		return PathHandle(si.Node.Path()), nil
	case scene.ResolvedNode:
		return NodeHandle(si.Node), nil
	}
	return Handle{}, fmt.Errorf("%w: empty selection item", ErrTypeMismatch)
}
