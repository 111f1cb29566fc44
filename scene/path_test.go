// Copyright (c) 2025, The Gomaya Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package scene

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestPathNames(t *testing.T) {
	g := NewGraph()
	grp, err := g.NewNode("transform", "grp", nil)
	require.NoError(t, err)
	mid, err := g.NewNode("transform", "mid", grp)
	require.NoError(t, err)
	leaf, err := g.NewNode("transform", "leaf", mid)
	require.NoError(t, err)

	p := leaf.Path()
	assert.Equal(t, 3, p.Len())
	assert.Equal(t, "|grp|mid|leaf", p.FullName())
	assert.Equal(t, leaf, p.Node())
	assert.Equal(t, grp, p.At(0))
	assert.Equal(t, mid, p.At(1))
	assert.Nil(t, p.At(3))
	assert.Equal(t, "|grp|mid", p.Parent().FullName())
	assert.Nil(t, grp.Path().Parent())

	// a unique leaf name shortens, an ambiguous one does not
	assert.Equal(t, "leaf", p.PartialName())
	other, err := g.NewNode("transform", "other", nil)
	require.NoError(t, err)
	_, err = g.NewNode("transform", "leaf", other)
	require.NoError(t, err)
	assert.Equal(t, "|grp|mid|leaf", p.PartialName())
}

func TestPathValidity(t *testing.T) {
	g := NewGraph()
	grp, err := g.NewNode("transform", "grp", nil)
	require.NoError(t, err)
	leaf, err := g.NewNode("transform", "leaf", grp)
	require.NoError(t, err)
	p := leaf.Path()
	assert.True(t, p.IsValid())

	md := NewModifier(g)
	require.NoError(t, md.DeleteNode(leaf))
	require.NoError(t, md.Do())
	assert.False(t, p.IsValid())

	require.NoError(t, md.Undo())
	assert.True(t, p.IsValid())

	// moving the node away breaks the captured chain
	md2 := NewModifier(g)
	require.NoError(t, md2.Reparent(leaf, nil))
	require.NoError(t, md2.Do())
	assert.False(t, p.IsValid())
	assert.Equal(t, "|leaf", leaf.Path().FullName())
}
