// Copyright (c) 2025, The Gomaya Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package core

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestObjectSetMembership(t *testing.T) {
	s := zooScene(t)
	obj, err := s.Get("sel")
	require.NoError(t, err)
	set := obj.(*ObjectSet)
	box, err := s.Get("box")
	require.NoError(t, err)

	before := s.Ledger.Len()
	require.NoError(t, set.AddMembers(box, "hip.radius", "boxShape.vtx[0:1]"))
	n, err := set.Count()
	require.NoError(t, err)
	assert.Equal(t, 3, n)
	// membership is bookkeeping, not an undoable edit
	assert.Equal(t, before, s.Ledger.Len())

	ok, err := set.IsMember("box")
	require.NoError(t, err)
	assert.True(t, ok)
	ok, err = set.IsMember("hip")
	require.NoError(t, err)
	assert.False(t, ok)
	ok, err = set.IsMember("hip.radius")
	require.NoError(t, err)
	assert.True(t, ok)
	ok, err = set.IsMember("boxShape.vtx[0:1]")
	require.NoError(t, err)
	assert.True(t, ok)
	ok, err = set.IsMember("boxShape.vtx[3]")
	require.NoError(t, err)
	assert.False(t, ok)

	members, err := set.Members()
	require.NoError(t, err)
	require.Len(t, members, 3)
	assert.IsType(t, &Transform{}, members[0])
	assert.IsType(t, &NumericAttribute{}, members[1])
	assert.IsType(t, &MeshVertex{}, members[2])
	assert.Equal(t, 2, members[2].(*MeshVertex).AsComponent().Count())

	// adding an existing member is a no-op
	require.NoError(t, set.AddMembers("box"))
	n, err = set.Count()
	require.NoError(t, err)
	assert.Equal(t, 3, n)

	require.NoError(t, set.RemoveMembers("hip.radius"))
	ok, err = set.IsMember("hip.radius")
	require.NoError(t, err)
	assert.False(t, ok)
	// removing something absent is no error
	require.NoError(t, set.RemoveMembers("hip.radius"))
	n, err = set.Count()
	require.NoError(t, err)
	assert.Equal(t, 2, n)

	err = set.AddMembers("missing")
	assert.ErrorIs(t, err, ErrNotFound)
	err = set.AddMembers(42)
	assert.ErrorIs(t, err, ErrTypeMismatch)
}

func TestObjectSetPrunesDead(t *testing.T) {
	s := zooScene(t)
	obj, err := s.Get("sel")
	require.NoError(t, err)
	set := obj.(*ObjectSet)
	require.NoError(t, set.AddMembers("box", "hip"))

	_, err = s.Delete("hip")
	require.NoError(t, err)
	members, err := set.Members()
	require.NoError(t, err)
	require.Len(t, members, 1)
	assert.IsType(t, &Transform{}, members[0])
	n, err := set.Count()
	require.NoError(t, err)
	assert.Equal(t, 1, n)

	// membership tracks the node itself, not its name
	_, err = s.Rename("box", "crate")
	require.NoError(t, err)
	ok, err := set.IsMember("crate")
	require.NoError(t, err)
	assert.True(t, ok)
}
