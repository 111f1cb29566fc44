// Copyright (c) 2025, The Gomaya Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package scene

import (
	"fmt"
	"slices"
)

// Plug addresses one attribute instance on one node: a top-level
// attribute, a compound child, an array element, or any nesting of
// those. Plug is a small comparable value; two plugs are equal exactly
// when they address the same instance.
type Plug struct {
	v *attrValue
}

// IsNil reports whether the plug addresses nothing.
func (p Plug) IsNil() bool { return p.v == nil }

// Node returns the owning node.
func (p Plug) Node() *Node {
	if p.v == nil {
		return nil
	}
	return p.v.node
}

// Def returns the attribute definition at this plug's level.
func (p Plug) Def() *AttrDef {
	if p.v == nil {
		return nil
	}
	return p.v.def
}

// Name returns "node.attrPath" with array subscripts, for example
// "pCube1.translate.translateX".
func (p Plug) Name() string {
	if p.v == nil {
		return "<nil plug>"
	}
	return p.v.node.name + "." + p.v.path()
}

// AttrPath returns the attribute path relative to the node.
func (p Plug) AttrPath() string {
	if p.v == nil {
		return ""
	}
	return p.v.path()
}

// String implements [fmt.Stringer] by returning [Plug.Name].
func (p Plug) String() string { return p.Name() }

// IsCompound reports whether this level has child plugs.
func (p Plug) IsCompound() bool { return p.v != nil && p.v.def.IsCompound() }

// IsArray reports whether this plug is an array root, which holds
// elements rather than a value.
func (p Plug) IsArray() bool { return p.v != nil && p.v.def.Array && !p.v.isElement() }

// IsElement reports whether this plug is an array element.
func (p Plug) IsElement() bool { return p.v != nil && p.v.isElement() }

// IsChild reports whether this plug is a compound child.
func (p Plug) IsChild() bool {
	return p.v != nil && p.v.parent != nil && !p.v.isElement()
}

// LogicalIndex returns the array element index, -1 when this plug is
// not an element.
func (p Plug) LogicalIndex() int {
	if p.v == nil {
		return -1
	}
	return p.v.elemIndex
}

// Parent returns the enclosing compound or array plug, zero at top
// level.
func (p Plug) Parent() Plug {
	if p.v == nil || p.v.parent == nil {
		return Plug{}
	}
	return Plug{v: p.v.parent}
}

// NumChildren returns the number of compound children at this level.
func (p Plug) NumChildren() int {
	if p.v == nil {
		return 0
	}
	return len(p.v.children)
}

// Child returns the compound child plug at the given declaration
// index.
func (p Plug) Child(i int) (Plug, error) {
	if p.v == nil || i < 0 || i >= len(p.v.children) {
		return Plug{}, fmt.Errorf("%w: child %d of %s", ErrOutOfRange, i, p.Name())
	}
	return Plug{v: p.v.children[i]}, nil
}

// ChildByName returns the compound child plug with the given long or
// short name.
func (p Plug) ChildByName(name string) (Plug, error) {
	if p.v != nil {
		if c := p.v.child(name); c != nil {
			return Plug{v: c}, nil
		}
	}
	return Plug{}, fmt.Errorf("child %q of %s: %w", name, p.Name(), ErrNotFound)
}

// Children returns all compound child plugs in declaration order.
func (p Plug) Children() []Plug {
	if p.v == nil {
		return nil
	}
	out := make([]Plug, len(p.v.children))
	for i, c := range p.v.children {
		out[i] = Plug{v: c}
	}
	return out
}

// Element returns the array element plug for the given logical index,
// creating the element if it does not exist yet.
func (p Plug) Element(idx int) (Plug, error) {
	if p.v == nil {
		return Plug{}, fmt.Errorf("element of nil plug: %w", ErrInvalidHandle)
	}
	el, err := p.v.element(idx)
	if err != nil {
		return Plug{}, err
	}
	return Plug{v: el}, nil
}

// NumElements returns the number of existing array elements.
func (p Plug) NumElements() int {
	if p.v == nil {
		return 0
	}
	return len(p.v.elements)
}

// ExistingIndices returns the logical indices of existing array
// elements in ascending order.
func (p Plug) ExistingIndices() []int {
	if p.v == nil || len(p.v.elements) == 0 {
		return nil
	}
	idxs := make([]int, 0, len(p.v.elements))
	for i := range p.v.elements {
		idxs = append(idxs, i)
	}
	slices.Sort(idxs)
	return idxs
}

// IsLocked reports whether this instance itself is locked.
func (p Plug) IsLocked() bool { return p.v != nil && p.v.locked }

// SetLocked sets the lock on this instance. Locking is immediate and
// not represented in any change ledger.
func (p Plug) SetLocked(on bool) {
	if p.v != nil {
		p.v.locked = on
	}
}

// lockedInChain reports whether this instance or any enclosing one is
// locked.
func (p Plug) lockedInChain() bool {
	for v := p.v; v != nil; v = v.parent {
		if v.locked {
			return true
		}
	}
	return false
}

// Source returns the plug connected into this one, zero if none.
func (p Plug) Source() Plug {
	if p.v == nil {
		return Plug{}
	}
	return p.v.source
}

// Destinations returns the plugs this one is connected out to, in
// connect order.
func (p Plug) Destinations() []Plug {
	if p.v == nil {
		return nil
	}
	return slices.Clone(p.v.dests)
}

// IsDestination reports whether some plug is connected into this one.
func (p Plug) IsDestination() bool { return p.v != nil && !p.v.source.IsNil() }

// IsSource reports whether this plug is connected out to anything.
func (p Plug) IsSource() bool { return p.v != nil && len(p.v.dests) > 0 }

// IsConnected reports whether the plug participates in any connection
// in either direction.
func (p Plug) IsConnected() bool { return p.IsDestination() || p.IsSource() }

// IsFreeToChange reports whether a write to this plug would be
// accepted: not locked anywhere in its chain, writable, not computed,
// and not driven by a connection at this level or below.
func (p Plug) IsFreeToChange() bool {
	if p.v == nil {
		return false
	}
	if p.v.def.Computed || !p.v.def.Writable {
		return false
	}
	if p.lockedInChain() {
		return false
	}
	return !p.drivenBelow()
}

// drivenBelow reports whether this instance or any instance below it
// is a connection destination.
func (p Plug) drivenBelow() bool {
	driven := false
	p.v.walk(func(av *attrValue) {
		if !av.source.IsNil() {
			driven = true
		}
	})
	return driven
}

// Value returns the canonical stored value. Computed attributes
// evaluate through the graph; compounds return a slice of their child
// values in declaration order; a generic that was never written
// returns nil.
func (p Plug) Value() (any, error) {
	if p.v == nil {
		return nil, fmt.Errorf("value of nil plug: %w", ErrInvalidHandle)
	}
	if p.IsArray() {
		return nil, fmt.Errorf("%w: %s is an array; read an element", ErrValueType, p.Name())
	}
	if p.v.def.Computed {
		return p.v.node.graph.computedValue(p)
	}
	switch p.v.def.Kind {
	case KindMessage:
		return nil, nil
	case KindCompound:
		vals := make([]any, len(p.v.children))
		for i, c := range p.v.children {
			cv, err := (Plug{v: c}).Value()
			if err != nil {
				return nil, err
			}
			vals[i] = cv
		}
		return vals, nil
	}
	return p.v.value, nil
}

// setValue stores a canonical value without lock or writability
// checks; those belong to the modifier ops. The value must match the
// definition's storage category and hard range.
func (p Plug) setValue(v any) error {
	if p.v == nil {
		return fmt.Errorf("set on nil plug: %w", ErrInvalidHandle)
	}
	if p.IsArray() || p.v.def.Kind == KindCompound || p.v.def.Kind == KindMessage {
		return fmt.Errorf("%w: %s holds no scalar value", ErrValueType, p.Name())
	}
	cv, err := canonicalValue(p.v.def, v)
	if err != nil {
		return err
	}
	p.v.value = cv
	return nil
}

// connectPlugs records dst as driven by src. Callers have already
// validated the pair.
func connectPlugs(src, dst Plug) {
	dst.v.source = src
	src.v.dests = append(src.v.dests, dst)
}

// disconnectPlugs removes an existing connection between src and dst.
func disconnectPlugs(src, dst Plug) {
	dst.v.source = Plug{}
	for i, d := range src.v.dests {
		if d == dst {
			src.v.dests = append(src.v.dests[:i], src.v.dests[i+1:]...)
			break
		}
	}
}
