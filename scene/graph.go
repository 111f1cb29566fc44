// Copyright (c) 2025, The Gomaya Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package scene

import (
	"fmt"
	"strconv"
	"strings"
)

// Graph is the primitive node store: a flat table of nodes by
// identity, the transform hierarchy over the subset that has one, and
// the active selection. All mutation beyond test setup goes through a
// [Modifier] so that every edit carries its inverse.
//
// The store is single-threaded. Nothing here locks, and callers must
// not share a Graph across goroutines without their own
// synchronization.
type Graph struct {

	// nodes is the identity table, including dead nodes so that
	// references stay resolvable to "deleted".
	nodes map[uint64]*Node

	// list holds every node ever created in creation order. Dead
	// nodes stay in place; iteration filters on liveness. This keeps
	// listing order stable across delete and undo.
	list []*Node

	// idCounter advances for every created node and never reuses.
	idCounter uint64

	// active is the current selection, never nil.
	active *SelectionList
}

// NewGraph returns an empty graph with an empty active selection.
func NewGraph() *Graph {
	return &Graph{nodes: map[uint64]*Node{}, active: NewSelectionList()}
}

func (g *Graph) nextID() uint64 {
	g.idCounter++
	return g.idCounter
}

// NumNodes returns the number of live nodes.
func (g *Graph) NumNodes() int {
	n := 0
	for _, nd := range g.list {
		if nd.alive {
			n++
		}
	}
	return n
}

// Nodes returns the live nodes in creation order.
func (g *Graph) Nodes() []*Node {
	out := make([]*Node, 0, len(g.list))
	for _, nd := range g.list {
		if nd.alive {
			out = append(out, nd)
		}
	}
	return out
}

// Roots returns the live hierarchy roots in creation order.
func (g *Graph) Roots() []*Node {
	var out []*Node
	for _, nd := range g.list {
		if nd.alive && nd.IsDag() && nd.parent == nil {
			out = append(out, nd)
		}
	}
	return out
}

// NodeByID returns the node with the given identity, dead or alive,
// nil if it never existed.
func (g *Graph) NodeByID(id uint64) *Node {
	return g.nodes[id]
}

// ActiveSelection returns the current selection list, never nil.
func (g *Graph) ActiveSelection() *SelectionList {
	return g.active
}

// SetActiveSelection replaces the current selection list.
func (g *Graph) SetActiveSelection(sl *SelectionList) {
	if sl == nil {
		sl = NewSelectionList()
	}
	g.active = sl
}

// NewNode creates and inserts a node directly, bypassing any change
// ledger. It is the right call for tests and file loading; normal
// editing goes through [Modifier.CreateNode]. An empty name derives
// one from the type. Parents are only valid for hierarchy node types.
func (g *Graph) NewNode(typeName, name string, parent *Node) (*Node, error) {
	typ, err := NodeTypeByName(typeName)
	if err != nil {
		return nil, err
	}
	if parent != nil {
		if !typ.IsDag {
			return nil, fmt.Errorf("%w: cannot parent non-hierarchy type %q", ErrValueType, typeName)
		}
		if !parent.IsDag() {
			return nil, fmt.Errorf("%w: parent %s is not a hierarchy node", ErrValueType, parent.Name())
		}
	}
	n := newNode(g, typ, name)
	g.insertNode(n, parent, -1)
	return n, nil
}

// insertNode makes a node live, attaching it under the given parent
// (nil for root) at the given child index (-1 for the end), and
// settles its name against its new siblings.
func (g *Graph) insertNode(n *Node, parent *Node, idx int) {
	if _, ok := g.nodes[n.id]; !ok {
		g.nodes[n.id] = n
		g.list = append(g.list, n)
	}
	n.alive = true
	n.name = g.uniqueName(n, parent, n.name)
	if parent != nil {
		parent.attachChild(n, idx)
	}
}

// removeNode makes a node dead and detaches it from its parent,
// returning the former child index for undo.
func (g *Graph) removeNode(n *Node) int {
	idx := -1
	if n.parent != nil {
		idx = n.parent.detachChild(n)
	}
	n.alive = false
	return idx
}

// reviveNode registers a node built outside insertNode and marks it
// live, keeping its current parent attachment.
func (g *Graph) reviveNode(n *Node) {
	if _, ok := g.nodes[n.id]; !ok {
		g.nodes[n.id] = n
		g.list = append(g.list, n)
	}
	n.alive = true
}

// uniqueName settles a requested name within the sibling scope of the
// given parent: hierarchy nodes must be unique among their siblings,
// everything else within the flat non-hierarchy namespace. An empty
// request derives one from the type name. Clashes resolve by
// appending the first free numeric suffix.
func (g *Graph) uniqueName(n *Node, parent *Node, req string) string {
	base := req
	start := 0
	if base == "" {
		base = n.typ.Name
		start = 1
	}
	name := base
	if start > 0 {
		name = base + strconv.Itoa(start)
	}
	for i := start; g.nameClashes(n, parent, name); i++ {
		name = base + strconv.Itoa(i+1)
	}
	return name
}

func (g *Graph) nameClashes(n *Node, parent *Node, name string) bool {
	if n.IsDag() {
		var siblings []*Node
		if parent != nil {
			siblings = parent.children
		} else {
			siblings = g.Roots()
		}
		for _, s := range siblings {
			if s != n && s.alive && s.name == name {
				return true
			}
		}
		return false
	}
	for _, other := range g.list {
		if other != n && other.alive && !other.IsDag() && other.name == name {
			return true
		}
	}
	return false
}

// FindNodes returns the live nodes with the given leaf name, in
// creation order.
func (g *Graph) FindNodes(name string) []*Node {
	var out []*Node
	for _, nd := range g.list {
		if nd.alive && nd.name == name {
			out = append(out, nd)
		}
	}
	return out
}

// LookupNode resolves a node name string. A name containing pipes is
// a hierarchy path from the root; a bare name searches the whole
// graph and must match exactly one live node.
func (g *Graph) LookupNode(name string) (*Node, error) {
	if name == "" {
		return nil, fmt.Errorf("empty name: %w", ErrNotFound)
	}
	if strings.ContainsRune(name, '|') {
		return g.lookupPath(name)
	}
	matches := g.FindNodes(name)
	switch len(matches) {
	case 0:
		return nil, fmt.Errorf("%q: %w", name, ErrNotFound)
	case 1:
		return matches[0], nil
	}
	return nil, fmt.Errorf("%q: %w", name, ErrNotUnique)
}

func (g *Graph) lookupPath(path string) (*Node, error) {
	parts := strings.Split(strings.TrimPrefix(path, "|"), "|")
	var cur *Node
	for i, part := range parts {
		if part == "" {
			return nil, fmt.Errorf("%q: empty path segment: %w", path, ErrNotFound)
		}
		if i == 0 {
			for _, r := range g.Roots() {
				if r.name == part {
					cur = r
					break
				}
			}
		} else {
			cur = cur.ChildByName(part)
		}
		if cur == nil {
			return nil, fmt.Errorf("%q: %w", path, ErrNotFound)
		}
	}
	return cur, nil
}

// ResolvedKind tags what a name string resolved to.
type ResolvedKind int32

const (
	ResolvedInvalid ResolvedKind = iota

	// ResolvedNode is a node outside the hierarchy.
	ResolvedNode

	// ResolvedDag is a hierarchy node, carrying its path.
	ResolvedDag

	// ResolvedPlug is an attribute instance on a node.
	ResolvedPlug

	// ResolvedComponent is a geometry element set, carrying the path
	// of the shape that owns it.
	ResolvedComponent

	ResolvedN
)

var resolvedKindNames = []string{"invalid", "node", "dag", "plug", "component", "n"}

func (rk ResolvedKind) String() string {
	if rk < 0 || rk >= ResolvedN {
		return "invalid"
	}
	return resolvedKindNames[rk]
}

// Resolved is the result of a full name resolution: the node it
// landed on plus whichever of path, plug and component the string
// addressed.
type Resolved struct {
	Kind      ResolvedKind
	Node      *Node
	Path      *Path
	Plug      Plug
	Component *Component
}

// Lookup resolves a full name string: "node", "|path|to|node",
// "node.attr", "node.attr[2].child", or a component such as
// "pCube1.vtx[1:3]". Component subscripts on a transform resolve
// against its first shape child.
func (g *Graph) Lookup(name string) (Resolved, error) {
	nodePart, rest, hasRest := strings.Cut(name, ".")
	n, err := g.LookupNode(nodePart)
	if err != nil {
		return Resolved{}, err
	}
	if !hasRest {
		r := Resolved{Kind: ResolvedNode, Node: n}
		if n.IsDag() {
			r.Kind = ResolvedDag
			r.Path = n.Path()
		}
		return r, nil
	}
	if shape, comp, ok, err := g.tryComponent(n, rest); ok {
		if err != nil {
			return Resolved{}, err
		}
		return Resolved{Kind: ResolvedComponent, Node: shape, Path: shape.Path(), Component: comp}, nil
	}
	p, err := n.PlugByPath(rest)
	if err != nil {
		return Resolved{}, err
	}
	return Resolved{Kind: ResolvedPlug, Node: n, Plug: p}, nil
}

// tryComponent attempts to read rest as a component subscript on n or
// on the shape below it. ok is false when the subscript name does not
// name a component kind for that shape, in which case the caller
// falls through to plug resolution.
func (g *Graph) tryComponent(n *Node, rest string) (shape *Node, comp *Component, ok bool, err error) {
	open := strings.IndexByte(rest, '[')
	if open <= 0 || !strings.HasSuffix(rest, "]") {
		return nil, nil, false, nil
	}
	sub := rest[:open]
	shape = g.shapeFor(n)
	if shape == nil {
		return nil, nil, false, nil
	}
	kind := componentKindFor(shape.geometry.ShapeFn(), sub)
	if kind == CompInvalid {
		return nil, nil, false, nil
	}
	groups, err := splitBracketGroups(rest[open:])
	if err != nil {
		return nil, nil, true, err
	}
	counts, _ := shape.geometry.CountsFor(kind)
	els, err := parseComponentRanges(kind, groups, counts)
	if err != nil {
		return nil, nil, true, err
	}
	comp = NewComponent(kind, els...)
	if err := comp.Validate(shape.geometry); err != nil {
		return nil, nil, true, err
	}
	return shape, comp, true, nil
}

// shapeFor returns the node itself when it carries geometry, else its
// first live shape child, else nil.
func (g *Graph) shapeFor(n *Node) *Node {
	if n.geometry != nil {
		return n
	}
	for _, c := range n.children {
		if c.alive && c.geometry != nil {
			return c
		}
	}
	return nil
}

// splitBracketGroups splits "[a][b][c]" into its bracket contents.
func splitBracketGroups(s string) ([]string, error) {
	var groups []string
	for len(s) > 0 {
		if s[0] != '[' {
			return nil, fmt.Errorf("malformed subscript %q: %w", s, ErrNotFound)
		}
		end := strings.IndexByte(s, ']')
		if end < 0 {
			return nil, fmt.Errorf("malformed subscript %q: %w", s, ErrNotFound)
		}
		groups = append(groups, s[1:end])
		s = s[end+1:]
	}
	return groups, nil
}
