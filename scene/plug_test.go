// Copyright (c) 2025, The Gomaya Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package scene

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestPlugChildrenAndPaths(t *testing.T) {
	g := NewGraph()
	n, err := g.NewNode("transform", "t1", nil)
	require.NoError(t, err)

	tr, err := n.FindPlug("translate")
	require.NoError(t, err)
	assert.True(t, tr.IsCompound())
	assert.Equal(t, 3, tr.NumChildren())
	assert.False(t, tr.IsChild())
	assert.True(t, tr.Parent().IsNil())

	tx, err := tr.ChildByName("translateX")
	require.NoError(t, err)
	short, err := tr.ChildByName("tx")
	require.NoError(t, err)
	assert.Equal(t, tx, short)
	assert.True(t, tx.IsChild())
	assert.Equal(t, tr, tx.Parent())
	assert.Equal(t, "t1.translate.translateX", tx.Name())
	assert.Equal(t, "translate.translateX", tx.AttrPath())

	first, err := tr.Child(0)
	require.NoError(t, err)
	assert.Equal(t, tx, first)
	_, err = tr.Child(3)
	assert.ErrorIs(t, err, ErrOutOfRange)

	_, err = tr.ChildByName("bogus")
	assert.ErrorIs(t, err, ErrNotFound)
}

func TestPlugShortNameIndex(t *testing.T) {
	g := NewGraph()
	n, err := g.NewNode("transform", "t1", nil)
	require.NoError(t, err)

	// long names, short names and dotted paths land on one instance
	byShort, err := n.FindPlug("tx")
	require.NoError(t, err)
	byLong, err := n.FindPlug("translateX")
	require.NoError(t, err)
	byPath, err := n.PlugByPath("translate.translateX")
	require.NoError(t, err)
	byShortPath, err := n.PlugByPath("t.tx")
	require.NoError(t, err)
	assert.Equal(t, byShort, byLong)
	assert.Equal(t, byShort, byPath)
	assert.Equal(t, byShort, byShortPath)
}

func TestPlugDefaults(t *testing.T) {
	g := NewGraph()
	n, err := g.NewNode("joint", "j1", nil)
	require.NoError(t, err)

	for name, want := range map[string]any{
		"translateX":  float32(0),
		"scaleX":      float32(1),
		"visibility":  true,
		"rotateOrder": 0,
		"radius":      float32(1),
	} {
		p, err := n.FindPlug(name)
		require.NoError(t, err)
		v, err := p.Value()
		require.NoError(t, err)
		assert.Equal(t, want, v, name)
	}

	msg, err := n.FindPlug("message")
	require.NoError(t, err)
	v, err := msg.Value()
	require.NoError(t, err)
	assert.Nil(t, v)
}

func TestPlugCompoundValue(t *testing.T) {
	g := NewGraph()
	n, err := g.NewNode("transform", "t1", nil)
	require.NoError(t, err)

	s, err := n.FindPlug("scale")
	require.NoError(t, err)
	v, err := s.Value()
	require.NoError(t, err)
	assert.Equal(t, []any{float32(1), float32(1), float32(1)}, v)
}

func TestPlugArrayElements(t *testing.T) {
	g := NewGraph()
	n, err := g.NewNode("network", "n1", nil)
	require.NoError(t, err)
	def := NewAttrDef("weights", KindNumeric).SetShort("wts").SetNumeric(NumFloat).SetArray(true)
	n.addAttrValue(def)

	root, err := n.FindPlug("weights")
	require.NoError(t, err)
	assert.True(t, root.IsArray())
	assert.False(t, root.IsElement())
	assert.Equal(t, 0, root.NumElements())

	_, err = root.Value()
	assert.ErrorIs(t, err, ErrValueType)

	el, err := root.Element(2)
	require.NoError(t, err)
	assert.True(t, el.IsElement())
	assert.False(t, el.IsArray())
	assert.Equal(t, 2, el.LogicalIndex())
	assert.Equal(t, "n1.weights[2]", el.Name())
	assert.Equal(t, root, el.Parent())

	v, err := el.Value()
	require.NoError(t, err)
	assert.Equal(t, float32(0), v)

	// elements are sparse and report their indices in order
	_, err = root.Element(0)
	require.NoError(t, err)
	assert.Equal(t, 2, root.NumElements())
	assert.Equal(t, []int{0, 2}, root.ExistingIndices())

	again, err := root.Element(2)
	require.NoError(t, err)
	assert.Equal(t, el, again)

	_, err = root.Element(-1)
	assert.ErrorIs(t, err, ErrOutOfRange)

	// subscripts on non-arrays are rejected
	next, err := n.FindPlug("message")
	require.NoError(t, err)
	_, err = next.Element(0)
	assert.ErrorIs(t, err, ErrValueType)

	// dotted path resolution reaches elements
	byPath, err := n.PlugByPath("weights[2]")
	require.NoError(t, err)
	assert.Equal(t, el, byPath)
}

func TestPlugLocks(t *testing.T) {
	g := NewGraph()
	n, err := g.NewNode("transform", "t1", nil)
	require.NoError(t, err)

	tr, err := n.FindPlug("translate")
	require.NoError(t, err)
	tx, err := tr.ChildByName("tx")
	require.NoError(t, err)

	assert.True(t, tx.IsFreeToChange())

	// locking a compound locks everything below it
	tr.SetLocked(true)
	assert.True(t, tr.IsLocked())
	assert.False(t, tx.IsLocked())
	assert.True(t, tx.lockedInChain())
	assert.False(t, tx.IsFreeToChange())

	tr.SetLocked(false)
	assert.True(t, tx.IsFreeToChange())
}

func TestPlugNotFreeToChange(t *testing.T) {
	g := NewGraph()
	n, err := g.NewNode("transform", "t1", nil)
	require.NoError(t, err)

	wm, err := n.FindPlug("worldMatrix")
	require.NoError(t, err)
	assert.False(t, wm.IsFreeToChange())

	msg, err := n.FindPlug("message")
	require.NoError(t, err)
	assert.False(t, msg.IsFreeToChange())
}

func TestPlugSetValueCanonical(t *testing.T) {
	g := NewGraph()
	n, err := g.NewNode("joint", "j1", nil)
	require.NoError(t, err)

	tx, err := n.FindPlug("tx")
	require.NoError(t, err)
	require.NoError(t, tx.setValue(float32(2.5)))
	v, err := tx.Value()
	require.NoError(t, err)
	assert.Equal(t, float32(2.5), v)

	// only canonical storage types are accepted
	assert.ErrorIs(t, tx.setValue(2.5), ErrValueType)
	assert.ErrorIs(t, tx.setValue("far"), ErrValueType)

	radius, err := n.FindPlug("radius")
	require.NoError(t, err)
	assert.ErrorIs(t, radius.setValue(float32(-1)), ErrOutOfRange)

	ro, err := n.FindPlug("rotateOrder")
	require.NoError(t, err)
	require.NoError(t, ro.setValue(2))
	assert.ErrorIs(t, ro.setValue(99), ErrOutOfRange)

	tr, err := n.FindPlug("translate")
	require.NoError(t, err)
	assert.ErrorIs(t, tr.setValue(float32(1)), ErrValueType)
}
