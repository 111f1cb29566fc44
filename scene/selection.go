// Copyright (c) 2025, The Gomaya Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package scene

import "fmt"

// MergeMode controls how one selection list folds into another.
type MergeMode int32

const (
	// MergeAdd unions the incoming items, skipping ones already
	// present.
	MergeAdd MergeMode = iota

	// MergeRemove drops the incoming items from the list.
	MergeRemove

	// MergeToggle removes items already present and adds the rest.
	MergeToggle

	MergeN
)

var mergeModeNames = []string{"add", "remove", "toggle", "n"}

func (mm MergeMode) String() string {
	if mm < 0 || mm >= MergeN {
		return "add"
	}
	return mergeModeNames[mm]
}

// SelectionItem is one entry in a selection list: a node, a plug, or
// a component set on a shape. Exactly one of Plug and Component is
// set for non-node entries; plain node entries carry just the node
// (with its path when it is a hierarchy node).
type SelectionItem struct {

	// Node is the node the item refers to, always set.
	Node *Node

	// Path is the hierarchy path for DAG entries.
	Path *Path

	// Plug is set for attribute entries.
	Plug Plug

	// Component is set for component entries; Node is then the shape
	// that owns the elements.
	Component *Component
}

// Kind returns what the item refers to.
func (si SelectionItem) Kind() ResolvedKind {
	switch {
	case si.Node == nil:
		return ResolvedInvalid
	case !si.Plug.IsNil():
		return ResolvedPlug
	case si.Component != nil:
		return ResolvedComponent
	case si.Node.IsDag():
		return ResolvedDag
	}
	return ResolvedNode
}

// String returns the display name of the item: a node name, a plug
// name, or a component subscript such as "pCubeShape1.vtx[1,3]".
func (si SelectionItem) String() string {
	switch si.Kind() {
	case ResolvedPlug:
		return si.Plug.Name()
	case ResolvedComponent:
		return si.Node.Name() + "." + si.Component.Subscript()
	case ResolvedDag:
		if si.Path != nil {
			return si.Path.PartialName()
		}
		return si.Node.Name()
	case ResolvedNode:
		return si.Node.Name()
	}
	return "<invalid>"
}

// sameAs reports whether two items refer to the same thing. Node and
// plug entries compare by identity; component entries compare by
// shape, kind and exact element set.
func (si SelectionItem) sameAs(other SelectionItem) bool {
	if si.Node != other.Node {
		return false
	}
	if si.Plug != other.Plug {
		return false
	}
	a, b := si.Component, other.Component
	if (a == nil) != (b == nil) {
		return false
	}
	if a == nil {
		return true
	}
	if a.Kind != b.Kind || len(a.Elements) != len(b.Elements) {
		return false
	}
	for i := range a.Elements {
		if a.Elements[i] != b.Elements[i] {
			return false
		}
	}
	return true
}

// SelectionList is an ordered list of selection items. Lists keep the
// order items were added and never hold the same item twice.
type SelectionList struct {
	items []SelectionItem
}

// NewSelectionList returns an empty list.
func NewSelectionList() *SelectionList {
	return &SelectionList{}
}

// Len returns the number of items.
func (sl *SelectionList) Len() int {
	if sl == nil {
		return 0
	}
	return len(sl.items)
}

// IsEmpty reports whether the list holds nothing.
func (sl *SelectionList) IsEmpty() bool { return sl.Len() == 0 }

// Item returns the item at the given position.
func (sl *SelectionList) Item(i int) (SelectionItem, error) {
	if i < 0 || i >= len(sl.items) {
		return SelectionItem{}, fmt.Errorf("%w: selection item %d of %d", ErrOutOfRange, i, len(sl.items))
	}
	return sl.items[i], nil
}

// Items returns the items in order. Callers must not modify the
// returned slice.
func (sl *SelectionList) Items() []SelectionItem {
	if sl == nil {
		return nil
	}
	return sl.items
}

// Contains reports whether an equal item is already on the list.
func (sl *SelectionList) Contains(item SelectionItem) bool {
	return sl.indexOf(item) >= 0
}

func (sl *SelectionList) indexOf(item SelectionItem) int {
	for i, it := range sl.items {
		if it.sameAs(item) {
			return i
		}
	}
	return -1
}

// Add appends an item unless an equal one is already present,
// reporting whether it was added.
func (sl *SelectionList) Add(item SelectionItem) bool {
	if item.Node == nil || sl.Contains(item) {
		return false
	}
	sl.items = append(sl.items, item)
	return true
}

// AddNode appends a node entry, capturing its path for hierarchy
// nodes.
func (sl *SelectionList) AddNode(n *Node) bool {
	item := SelectionItem{Node: n}
	if n != nil && n.IsDag() {
		item.Path = n.Path()
	}
	return sl.Add(item)
}

// AddPlug appends an attribute entry.
func (sl *SelectionList) AddPlug(p Plug) bool {
	if p.IsNil() {
		return false
	}
	return sl.Add(SelectionItem{Node: p.Node(), Plug: p})
}

// AddComponent appends a component entry on the given shape.
func (sl *SelectionList) AddComponent(shape *Node, comp *Component) bool {
	if shape == nil || comp == nil {
		return false
	}
	return sl.Add(SelectionItem{Node: shape, Path: shape.Path(), Component: comp})
}

// AddName resolves a name through the graph and appends the result.
func (sl *SelectionList) AddName(g *Graph, name string) error {
	r, err := g.Lookup(name)
	if err != nil {
		return err
	}
	switch r.Kind {
	case ResolvedPlug:
		sl.AddPlug(r.Plug)
	case ResolvedComponent:
		sl.AddComponent(r.Node, r.Component)
	default:
		sl.AddNode(r.Node)
	}
	return nil
}

// Remove drops the item equal to the given one, reporting whether it
// was present.
func (sl *SelectionList) Remove(item SelectionItem) bool {
	i := sl.indexOf(item)
	if i < 0 {
		return false
	}
	sl.items = append(sl.items[:i], sl.items[i+1:]...)
	return true
}

// Merge folds another list into this one under the given mode.
func (sl *SelectionList) Merge(other *SelectionList, mode MergeMode) {
	if other == nil {
		return
	}
	for _, item := range other.items {
		switch mode {
		case MergeAdd:
			sl.Add(item)
		case MergeRemove:
			sl.Remove(item)
		case MergeToggle:
			if !sl.Remove(item) {
				sl.Add(item)
			}
		}
	}
}

// Clone returns a copy sharing the item values but not the backing
// list.
func (sl *SelectionList) Clone() *SelectionList {
	cp := &SelectionList{items: make([]SelectionItem, len(sl.items))}
	copy(cp.items, sl.items)
	return cp
}

// Prune drops entries whose node is no longer alive, returning the
// dropped entries in order.
func (sl *SelectionList) Prune() []SelectionItem {
	var dropped []SelectionItem
	kept := sl.items[:0]
	for _, item := range sl.items {
		if item.Node.IsAlive() {
			kept = append(kept, item)
		} else {
			dropped = append(dropped, item)
		}
	}
	sl.items = kept
	return dropped
}

// Strings returns the display names of all items in order.
func (sl *SelectionList) Strings() []string {
	out := make([]string, len(sl.items))
	for i, item := range sl.items {
		out[i] = item.String()
	}
	return out
}
