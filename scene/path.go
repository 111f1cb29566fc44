// Copyright (c) 2025, The Gomaya Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package scene

import "strings"

// Path is the chain of nodes from a hierarchy root down to one node.
// A path captured once can be checked for validity later: it goes
// stale when any node on it is deleted or reparented away.
type Path struct {
	nodes []*Node
}

// NewPath returns the path from the root to the given node by walking
// its parent links.
func NewPath(n *Node) *Path {
	var chain []*Node
	for c := n; c != nil; c = c.parent {
		chain = append(chain, c)
	}
	for i, j := 0, len(chain)-1; i < j; i, j = i+1, j-1 {
		chain[i], chain[j] = chain[j], chain[i]
	}
	return &Path{nodes: chain}
}

// Node returns the node the path leads to, nil for an empty path.
func (p *Path) Node() *Node {
	if p == nil || len(p.nodes) == 0 {
		return nil
	}
	return p.nodes[len(p.nodes)-1]
}

// Len returns the number of nodes on the path.
func (p *Path) Len() int {
	if p == nil {
		return 0
	}
	return len(p.nodes)
}

// At returns the node at the given depth, root first.
func (p *Path) At(i int) *Node {
	if p == nil || i < 0 || i >= len(p.nodes) {
		return nil
	}
	return p.nodes[i]
}

// Parent returns the path shortened by one node, nil at a root.
func (p *Path) Parent() *Path {
	if p.Len() <= 1 {
		return nil
	}
	return &Path{nodes: p.nodes[:len(p.nodes)-1]}
}

// FullName returns the unambiguous pipe-delimited path string, for
// example "|group1|pCube1".
func (p *Path) FullName() string {
	var b strings.Builder
	for _, n := range p.nodes {
		b.WriteByte('|')
		b.WriteString(n.name)
	}
	return b.String()
}

// PartialName returns the shortest name that still identifies the
// node: the bare node name when it is unique in the graph, otherwise
// the full path.
func (p *Path) PartialName() string {
	n := p.Node()
	if n == nil {
		return ""
	}
	if len(n.graph.FindNodes(n.name)) == 1 {
		return n.name
	}
	return p.FullName()
}

// String implements [fmt.Stringer] by returning [Path.FullName].
func (p *Path) String() string { return p.FullName() }

// IsValid reports whether the captured chain still holds: every node
// alive, every link intact, and the first node still a root.
func (p *Path) IsValid() bool {
	if p == nil || len(p.nodes) == 0 {
		return false
	}
	if p.nodes[0].parent != nil {
		return false
	}
	for i, n := range p.nodes {
		if !n.IsAlive() {
			return false
		}
		if i > 0 && n.parent != p.nodes[i-1] {
			return false
		}
	}
	return true
}
