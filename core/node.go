// Copyright (c) 2025, The Gomaya Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package core

import (
	"fmt"
	"sort"
	"strings"

	"github.com/Pahuska/gomaya/scene"
	"github.com/adrg/strutil"
	"github.com/adrg/strutil/metrics"
)

// DependNode is the base node wrapper: name, lock state and attribute
// access for any node. Attribute wrappers resolve lazily and are
// cached per node wrapper, so asking for the same attribute twice
// returns the same wrapper.
type DependNode struct {
	ObjectBase

	// attrCache holds resolved attribute wrappers keyed by their
	// relative attribute path.
	attrCache map[string]Attr
}

// AsDependNode returns the embedded node base.
func (n *DependNode) AsDependNode() *DependNode { return n }

// Node returns the underlying scene node.
func (n *DependNode) Node() (*scene.Node, error) {
	return n.Hdl.OwnerNode()
}

// DisplayName returns the node's name. Nodes outside the hierarchy
// have no longer form, so full changes nothing here.
func (n *DependNode) DisplayName(full bool) (string, error) {
	nd, err := n.Node()
	if err != nil {
		return "", err
	}
	return nd.Name(), nil
}

// TypeName returns the scene node type name, such as "transform".
func (n *DependNode) TypeName() (string, error) {
	nd, err := n.Node()
	if err != nil {
		return "", err
	}
	return nd.TypeName(), nil
}

// IsLocked reports whether the node refuses structural edits.
func (n *DependNode) IsLocked() (bool, error) {
	nd, err := n.Node()
	if err != nil {
		return false, err
	}
	return nd.IsLocked(), nil
}

// SetLocked sets the node lock flag. Lock state is bookkeeping, not
// an edit; it does not land on the undo ledger.
func (n *DependNode) SetLocked(on bool) error {
	nd, err := n.Node()
	if err != nil {
		return err
	}
	nd.SetLocked(on)
	return nil
}

// HasAttr reports whether the node carries an attribute with the
// given long or short name.
func (n *DependNode) HasAttr(name string) (bool, error) {
	nd, err := n.Node()
	if err != nil {
		return false, err
	}
	return nd.HasAttr(name), nil
}

// AttrNames returns the long names of every attribute on the node,
// children included.
func (n *DependNode) AttrNames() ([]string, error) {
	nd, err := n.Node()
	if err != nil {
		return nil, err
	}
	return nd.AttrNames(), nil
}

// Attr returns the wrapper for the named attribute. Dotted paths and
// element subscripts are accepted, for example "translate.translateX"
// or "target[2]". An unknown name suggests close matches.
func (n *DependNode) Attr(name string) (Attr, error) {
	nd, err := n.Node()
	if err != nil {
		return nil, err
	}
	var p scene.Plug
	if strings.ContainsAny(name, ".[") {
		p, err = nd.PlugByPath(name)
	} else {
		p, err = nd.FindPlug(name)
	}
	if err != nil {
		return nil, fmt.Errorf("%w: %q on %s%s", ErrAttributeNotFound, name, nd.Name(), suggestAttrs(name, nd.AttrNames()))
	}
	key := p.AttrPath()
	if a, ok := n.attrCache[key]; ok {
		return a, nil
	}
	obj, err := n.Ses.Resolve(PlugHandle(p), nil)
	if err != nil {
		return nil, err
	}
	a := obj.(Attr)
	if n.attrCache == nil {
		n.attrCache = map[string]Attr{}
	}
	n.attrCache[key] = a
	return a, nil
}

// suggestSimilarity is how close a name must be to an existing
// attribute before it is offered as a correction.
const suggestSimilarity = 0.75

// suggestAttrs renders a "did you mean" tail for an unknown attribute
// name, empty when nothing comes close.
func suggestAttrs(name string, candidates []string) string {
	metric := metrics.NewJaroWinkler()
	type scored struct {
		name  string
		score float64
	}
	var close []scored
	for _, c := range candidates {
		if s := strutil.Similarity(name, c, metric); s >= suggestSimilarity {
			close = append(close, scored{c, s})
		}
	}
	if len(close) == 0 {
		return ""
	}
	sort.SliceStable(close, func(i, j int) bool { return close[i].score > close[j].score })
	if len(close) > 3 {
		close = close[:3]
	}
	names := make([]string, len(close))
	for i, sc := range close {
		names[i] = sc.name
	}
	return fmt.Sprintf(" (did you mean %s?)", strings.Join(names, ", "))
}

// Rename gives the node a new name through the session.
func (n *DependNode) Rename(newName string, batch ...*scene.Modifier) (*Command, error) {
	return n.Ses.Rename(n.Hdl, newName, batch...)
}

// Delete removes the node and its subtree through the session.
func (n *DependNode) Delete(batch ...*scene.Modifier) (*Command, error) {
	return n.Ses.Delete(n.Hdl, batch...)
}

// AddAttr adds a dynamic attribute described by spec.
func (n *DependNode) AddAttr(spec *AttributeSpec, batch ...*scene.Modifier) (Attr, error) {
	return n.Ses.CreateAttr(n.Hdl, spec, batch...)
}

// RemoveAttr removes a dynamic attribute by name.
func (n *DependNode) RemoveAttr(name string, batch ...*scene.Modifier) (*Command, error) {
	return n.Ses.RemoveAttr(n.Hdl, name, batch...)
}

////////  DagNode

// DagNode extends the node wrapper with hierarchy position,
// navigation and visibility.
type DagNode struct {
	DependNode
}

// AsDagNode returns the embedded hierarchy base.
func (n *DagNode) AsDagNode() *DagNode { return n }

// Path returns the hierarchy path of the referent: the handle's path
// when the wrapper was resolved through one, otherwise the node's
// current path.
func (n *DagNode) Path() (*scene.Path, error) {
	switch n.Hdl.Kind {
	case HandlePath, HandleComponent, HandleCompound:
		if err := n.Hdl.Validate(); err != nil {
			return nil, err
		}
		return n.Hdl.Path, nil
	}
	nd, err := n.Node()
	if err != nil {
		return nil, err
	}
	return nd.Path(), nil
}

// DisplayName returns the shortest unambiguous path name, or the full
// path from the root when full is set.
func (n *DagNode) DisplayName(full bool) (string, error) {
	p, err := n.Path()
	if err != nil {
		return "", err
	}
	if full {
		return p.FullName(), nil
	}
	return p.PartialName(), nil
}

// Parent returns the parent wrapper, nil at the root level.
func (n *DagNode) Parent() (Node, error) {
	nd, err := n.Node()
	if err != nil {
		return nil, err
	}
	p := nd.Parent()
	if p == nil {
		return nil, nil
	}
	return n.Ses.nodeObject(p)
}

// Children returns wrappers for the node's children, in order.
func (n *DagNode) Children() ([]Node, error) {
	nd, err := n.Node()
	if err != nil {
		return nil, err
	}
	kids := nd.Children()
	out := make([]Node, 0, len(kids))
	for _, c := range kids {
		w, err := n.Ses.nodeObject(c)
		if err != nil {
			return nil, err
		}
		out = append(out, w)
	}
	return out, nil
}

// Shape returns the geometry shape this node presents: the node
// itself when it is a shape, otherwise its first live shape child,
// nil when there is none.
func (n *DagNode) Shape() (Node, error) {
	nd, err := n.Node()
	if err != nil {
		return nil, err
	}
	if nd.HasFn(scene.FnShape) {
		if node, ok := n.Ths.(Node); ok {
			return node, nil
		}
		return n.Ses.nodeObject(nd)
	}
	for _, c := range nd.Children() {
		if c.HasFn(scene.FnShape) {
			return n.Ses.nodeObject(c)
		}
	}
	return nil, nil
}

// Visibility returns the node's own visibility flag.
func (n *DagNode) Visibility() (bool, error) {
	nd, err := n.Node()
	if err != nil {
		return false, err
	}
	p, err := nd.FindPlug("visibility")
	if err != nil {
		return false, wrapErr(err)
	}
	v, err := p.Value()
	if err != nil {
		return false, wrapErr(err)
	}
	return v.(bool), nil
}

// SetVisibility sets the node's own visibility flag.
func (n *DagNode) SetVisibility(on bool, batch ...*scene.Modifier) (*Command, error) {
	nd, err := n.Node()
	if err != nil {
		return nil, err
	}
	p, err := nd.FindPlug("visibility")
	if err != nil {
		return nil, wrapErr(err)
	}
	return n.Ses.SetAttr(p, on, batch...)
}

// IsVisible reports effective visibility: the node and every ancestor
// must be visible.
func (n *DagNode) IsVisible() (bool, error) {
	nd, err := n.Node()
	if err != nil {
		return false, err
	}
	for cur := nd; cur != nil; cur = cur.Parent() {
		p, err := cur.FindPlug("visibility")
		if err != nil {
			return false, wrapErr(err)
		}
		v, err := p.Value()
		if err != nil {
			return false, wrapErr(err)
		}
		if !v.(bool) {
			return false, nil
		}
	}
	return true, nil
}

// SetParent moves the node under a new parent through the session,
// preserving world placement unless opts say otherwise.
func (n *DagNode) SetParent(newParent any, opts *ParentOptions, batch ...*scene.Modifier) (*Command, error) {
	return n.Ses.Parent(n.Hdl, newParent, opts, batch...)
}
