// Copyright (c) 2025, The Gomaya Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package scene

import (
	"fmt"
	"slices"
	"strconv"
	"strings"
)

// Node is one entity in the graph store. Nodes are created through a
// [Modifier] (or [Graph.NewNode] for tests) and stay allocated for the
// life of the graph so that a [NodeRef] taken once remains comparable
// across delete and undo. A node removed from the graph is marked dead
// rather than freed.
type Node struct {

	// name is the node name, unique among siblings for hierarchy
	// nodes but not globally.
	name string

	// typ is the node type this node was created as.
	typ *NodeType

	// graph is the owning graph store.
	graph *Graph

	// id is the stable identity, never reused within a graph.
	id uint64

	// parent is the hierarchy parent, nil for roots and for
	// non-hierarchy nodes.
	parent *Node

	// children is the ordered hierarchy child list.
	children []*Node

	// attrs is the top-level attribute instance list, static
	// definitions first in type declaration order, then dynamic
	// definitions in the order they were added.
	attrs []*attrValue

	// attrIndex maps long and short names of every definition level
	// (not array elements) to its instance.
	attrIndex map[string]*attrValue

	// geometry is the shape payload, nil for non-shape nodes.
	geometry Geometry

	// members is the membership list for set nodes.
	members *SelectionList

	// locked blocks delete, rename and reparent.
	locked bool

	// alive is false once the node has been removed from the graph.
	alive bool
}

// attrValue is the per-node storage for one definition level: a scalar
// slot, a compound's child list, or a sparse array's element table.
// Connections terminate on attrValues at any level.
type attrValue struct {

	// def is the definition this instance stores.
	def *AttrDef

	// node is the owning node.
	node *Node

	// parent is the enclosing compound or array instance.
	parent *attrValue

	// elemIndex is the logical index when this instance is an array
	// element, -1 otherwise.
	elemIndex int

	// value is the canonical stored value for scalar leaves.
	value any

	// children are the per-child instances for compounds.
	children []*attrValue

	// elements is the sparse logical-index table for arrays.
	elements map[int]*attrValue

	// locked blocks writes to this instance and everything below it.
	locked bool

	// source is the incoming connection, zero if none.
	source Plug

	// dests are the outgoing connections, in connect order.
	dests []Plug
}

// newAttrValue builds the instance tree for one definition on a node.
// Arrays start empty; elements come into being on first access.
func newAttrValue(n *Node, def *AttrDef, parent *attrValue) *attrValue {
	av := &attrValue{def: def, node: n, parent: parent, elemIndex: -1}
	if def.Array {
		return av
	}
	av.init()
	return av
}

// init fills in the scalar default or compound children, shared by
// definition instances and array elements.
func (av *attrValue) init() {
	if av.def.IsCompound() {
		for _, cd := range av.def.Children {
			av.children = append(av.children, newAttrValue(av.node, cd, av))
		}
		return
	}
	av.value = av.def.defaultValue()
}

// element returns the array element instance for the given logical
// index, creating it if needed. Indices are sparse and only need to be
// non-negative.
func (av *attrValue) element(idx int) (*attrValue, error) {
	if !av.def.Array {
		return nil, fmt.Errorf("%w: %s is not an array", ErrValueType, av.def.Path())
	}
	if idx < 0 {
		return nil, fmt.Errorf("%w: array index %d", ErrOutOfRange, idx)
	}
	if el, ok := av.elements[idx]; ok {
		return el, nil
	}
	el := &attrValue{def: av.def, node: av.node, parent: av, elemIndex: idx}
	el.init()
	if av.elements == nil {
		av.elements = make(map[int]*attrValue)
	}
	av.elements[idx] = el
	return el, nil
}

// child returns the compound child instance matching the given long or
// short name, nil if none.
func (av *attrValue) child(name string) *attrValue {
	for _, c := range av.children {
		if c.def.Name == name || c.def.Short == name {
			return c
		}
	}
	return nil
}

// isElement reports whether this instance is an array element.
func (av *attrValue) isElement() bool {
	return av.elemIndex >= 0
}

// path returns the instance path relative to the node, with array
// subscripts, for example "translate.translateX" or "matrixSum[2]".
func (av *attrValue) path() string {
	var b strings.Builder
	av.buildPath(&b)
	return b.String()
}

func (av *attrValue) buildPath(b *strings.Builder) {
	if av.parent != nil {
		av.parent.buildPath(b)
		if av.isElement() {
			b.WriteByte('[')
			b.WriteString(strconv.Itoa(av.elemIndex))
			b.WriteByte(']')
			return
		}
		b.WriteByte('.')
	}
	b.WriteString(av.def.Name)
}

// walk calls fn on this instance and everything below it, children
// first then existing array elements in index order.
func (av *attrValue) walk(fn func(*attrValue)) {
	fn(av)
	for _, c := range av.children {
		c.walk(fn)
	}
	if len(av.elements) > 0 {
		idxs := make([]int, 0, len(av.elements))
		for i := range av.elements {
			idxs = append(idxs, i)
		}
		slices.Sort(idxs)
		for _, i := range idxs {
			av.elements[i].walk(fn)
		}
	}
}

// newNode allocates a node of the given type with its static attribute
// instances. The node is not yet part of any graph lists; insertion
// happens through the modifier ops.
func newNode(g *Graph, typ *NodeType, name string) *Node {
	n := &Node{name: name, typ: typ, graph: g, id: g.nextID(), attrIndex: map[string]*attrValue{}}
	if typ.Attrs != nil {
		for _, def := range typ.Attrs() {
			n.addAttrValue(def)
		}
	}
	if typ.NewGeometry != nil {
		n.geometry = typ.NewGeometry()
	}
	return n
}

// addAttrValue builds and indexes the instance tree for one top-level
// definition. The definition must already be validated and its names
// free on this node.
func (n *Node) addAttrValue(def *AttrDef) *attrValue {
	av := newAttrValue(n, def, nil)
	n.attrs = append(n.attrs, av)
	n.indexAttr(av)
	return av
}

func (n *Node) indexAttr(av *attrValue) {
	n.attrIndex[av.def.Name] = av
	if av.def.Short != "" {
		n.attrIndex[av.def.Short] = av
	}
	for _, c := range av.children {
		n.indexAttr(c)
	}
}

func (n *Node) unindexAttr(av *attrValue) {
	delete(n.attrIndex, av.def.Name)
	delete(n.attrIndex, av.def.Short)
	for _, c := range av.children {
		n.unindexAttr(c)
	}
}

// removeAttrValue detaches a top-level instance from the node,
// returning it for later restore.
func (n *Node) removeAttrValue(av *attrValue) {
	for i, a := range n.attrs {
		if a == av {
			n.attrs = append(n.attrs[:i], n.attrs[i+1:]...)
			break
		}
	}
	n.unindexAttr(av)
}

// restoreAttrValue reattaches a previously removed instance at the
// given position.
func (n *Node) restoreAttrValue(av *attrValue, idx int) {
	if idx < 0 || idx > len(n.attrs) {
		idx = len(n.attrs)
	}
	n.attrs = append(n.attrs, nil)
	copy(n.attrs[idx+1:], n.attrs[idx:])
	n.attrs[idx] = av
	n.indexAttr(av)
}

// nameTaken reports whether a long or short attribute name is already
// indexed on this node.
func (n *Node) nameTaken(name string) bool {
	_, ok := n.attrIndex[name]
	return ok
}

// String implements [fmt.Stringer] by returning the node name.
func (n *Node) String() string {
	if n == nil {
		return "nil"
	}
	return n.name
}

// Name returns the node name.
func (n *Node) Name() string { return n.name }

// Type returns the node type.
func (n *Node) Type() *NodeType { return n.typ }

// TypeName returns the node type name.
func (n *Node) TypeName() string { return n.typ.Name }

// Graph returns the owning graph.
func (n *Node) Graph() *Graph { return n.graph }

// ID returns the stable node identity.
func (n *Node) ID() uint64 { return n.id }

// IsAlive reports whether the node is currently part of the graph.
func (n *Node) IsAlive() bool { return n != nil && n.alive }

// IsLocked reports whether the node is locked against delete, rename
// and reparent.
func (n *Node) IsLocked() bool { return n.locked }

// SetLocked sets the node lock.
func (n *Node) SetLocked(on bool) { n.locked = on }

// HasFn reports whether the node's type carries the given capability.
func (n *Node) HasFn(fn Fn) bool {
	if n == nil {
		return false
	}
	return n.typ.HasFn(fn)
}

// IsDag reports whether the node lives in the transform hierarchy.
func (n *Node) IsDag() bool { return n.HasFn(FnDagNode) }

// Parent returns the hierarchy parent, nil for roots.
func (n *Node) Parent() *Node { return n.parent }

// Children returns the hierarchy child list. Callers must not modify
// it.
func (n *Node) Children() []*Node { return n.children }

// NumChildren returns the number of hierarchy children.
func (n *Node) NumChildren() int { return len(n.children) }

// Child returns the hierarchy child at the given index, nil if out of
// range.
func (n *Node) Child(i int) *Node {
	if i < 0 || i >= len(n.children) {
		return nil
	}
	return n.children[i]
}

// ChildByName returns the hierarchy child with the given name, nil if
// none.
func (n *Node) ChildByName(name string) *Node {
	for _, c := range n.children {
		if c.name == name {
			return c
		}
	}
	return nil
}

// IndexInParent returns our position in the parent's child list, -1
// for roots.
func (n *Node) IndexInParent() int {
	if n.parent == nil {
		return -1
	}
	for i, c := range n.parent.children {
		if c == n {
			return i
		}
	}
	return -1
}

// attachChild appends c under n at the given index, -1 for the end.
func (n *Node) attachChild(c *Node, idx int) {
	c.parent = n
	if idx < 0 || idx >= len(n.children) {
		n.children = append(n.children, c)
		return
	}
	n.children = append(n.children, nil)
	copy(n.children[idx+1:], n.children[idx:])
	n.children[idx] = c
}

// detachChild removes c from n's child list, returning its former
// index.
func (n *Node) detachChild(c *Node) int {
	for i, ch := range n.children {
		if ch == c {
			n.children = append(n.children[:i], n.children[i+1:]...)
			c.parent = nil
			return i
		}
	}
	return -1
}

// Path returns the hierarchy path from the root to this node. For
// non-hierarchy nodes the path holds just the node itself.
func (n *Node) Path() *Path {
	return NewPath(n)
}

// Ref returns a stable reference that survives delete and undo.
func (n *Node) Ref() NodeRef {
	return NodeRef{graph: n.graph, id: n.id}
}

// Geometry returns the shape payload, nil for non-shape nodes.
func (n *Node) Geometry() Geometry { return n.geometry }

// SetGeometry replaces the shape payload. Creation helpers use this
// to fill a freshly created shape; the swap itself is not recorded in
// any change ledger.
func (n *Node) SetGeometry(g Geometry) { n.geometry = g }

// Members returns the membership list of a set node, creating it on
// first use. It returns nil for non-set nodes.
func (n *Node) Members() *SelectionList {
	if !n.HasFn(FnSet) {
		return nil
	}
	if n.members == nil {
		n.members = NewSelectionList()
	}
	return n.members
}

// AttrDefs returns the top-level attribute definitions, static first
// then dynamic.
func (n *Node) AttrDefs() []*AttrDef {
	defs := make([]*AttrDef, len(n.attrs))
	for i, av := range n.attrs {
		defs[i] = av.def
	}
	return defs
}

// AttrNames returns the long names of every definition level on this
// node, top-level order with children inline after their compound.
func (n *Node) AttrNames() []string {
	var names []string
	var add func(av *attrValue)
	add = func(av *attrValue) {
		names = append(names, av.def.Name)
		for _, c := range av.children {
			add(c)
		}
	}
	for _, av := range n.attrs {
		add(av)
	}
	return names
}

// HasAttr reports whether the given long or short attribute name
// exists on this node at any definition level.
func (n *Node) HasAttr(name string) bool {
	return n.nameTaken(name)
}

// FindPlug returns the plug for the given long or short attribute
// name at any definition level. Array subscripts and dotted paths go
// through [Node.PlugByPath].
func (n *Node) FindPlug(name string) (Plug, error) {
	av, ok := n.attrIndex[name]
	if !ok {
		return Plug{}, fmt.Errorf("attribute %q on %s: %w", name, n.name, ErrNotFound)
	}
	return Plug{v: av}, nil
}

// PlugByPath resolves a dotted attribute path with optional array
// subscripts, for example "translate.translateX" or "wm[2]". The
// first segment resolves like [Node.FindPlug]; later segments must be
// compound children of the segment before them.
func (n *Node) PlugByPath(path string) (Plug, error) {
	segs := strings.Split(path, ".")
	var cur *attrValue
	for i, seg := range segs {
		name, idx, err := splitSubscript(seg)
		if err != nil {
			return Plug{}, err
		}
		if i == 0 {
			av, ok := n.attrIndex[name]
			if !ok {
				return Plug{}, fmt.Errorf("attribute %q on %s: %w", name, n.name, ErrNotFound)
			}
			cur = av
		} else {
			next := cur.child(name)
			if next == nil {
				return Plug{}, fmt.Errorf("attribute %q under %s.%s: %w", name, n.name, cur.path(), ErrNotFound)
			}
			cur = next
		}
		if idx >= 0 {
			el, err := cur.element(idx)
			if err != nil {
				return Plug{}, err
			}
			cur = el
		}
	}
	return Plug{v: cur}, nil
}

// splitSubscript splits one path segment into its name and optional
// trailing [index], returning -1 when there is no subscript.
func splitSubscript(seg string) (string, int, error) {
	open := strings.IndexByte(seg, '[')
	if open < 0 {
		return seg, -1, nil
	}
	if !strings.HasSuffix(seg, "]") {
		return "", 0, fmt.Errorf("malformed subscript in %q: %w", seg, ErrNotFound)
	}
	idx, err := strconv.Atoi(seg[open+1 : len(seg)-1])
	if err != nil {
		return "", 0, fmt.Errorf("malformed subscript in %q: %w", seg, ErrNotFound)
	}
	return seg[:open], idx, nil
}

// NodeRef is a stable reference to a node by identity. It stays
// comparable across delete and undo; [NodeRef.Node] reports whether
// the node is currently alive.
type NodeRef struct {
	graph *Graph
	id    uint64
}

// IsNil reports whether the reference was never set.
func (r NodeRef) IsNil() bool { return r.graph == nil }

// ID returns the referenced node identity.
func (r NodeRef) ID() uint64 { return r.id }

// IsValid reports whether the referenced node is currently alive.
func (r NodeRef) IsValid() bool {
	if r.graph == nil {
		return false
	}
	n := r.graph.nodes[r.id]
	return n.IsAlive()
}

// Node returns the referenced node, or [ErrInvalidHandle] if it has
// been removed from the graph.
func (r NodeRef) Node() (*Node, error) {
	if r.graph == nil {
		return nil, fmt.Errorf("nil node reference: %w", ErrInvalidHandle)
	}
	n := r.graph.nodes[r.id]
	if !n.IsAlive() {
		return nil, fmt.Errorf("node %d: %w", r.id, ErrInvalidHandle)
	}
	return n, nil
}
