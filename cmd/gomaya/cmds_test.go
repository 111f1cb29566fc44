// Copyright (c) 2025, The Gomaya Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package main

import (
	"path/filepath"
	"testing"

	"github.com/Pahuska/gomaya/scene"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// run executes one command line the way main does, with a fresh app.
func run(t *testing.T, args ...string) error {
	t.Helper()
	root := newRootCommand(newApp())
	root.SetArgs(args)
	return root.Execute()
}

func TestParseToken(t *testing.T) {
	assert.Equal(t, true, parseToken("true"))
	assert.Equal(t, true, parseToken("on"))
	assert.Equal(t, false, parseToken("no"))
	assert.Equal(t, 5, parseToken("5"))
	assert.Equal(t, -3, parseToken("-3"))
	assert.Equal(t, 2.5, parseToken("2.5"))
	assert.Equal(t, "zyx", parseToken("zyx"))
	assert.Equal(t, "1.2.3", parseToken("1.2.3"))
}

func TestParseValue(t *testing.T) {
	assert.Equal(t, 2.5, parseValue([]string{"2.5"}))
	assert.Equal(t, []any{1, 2.5, "x"}, parseValue([]string{"1", "2.5", "x"}))
}

func TestOneShotRoundTrip(t *testing.T) {
	t.Setenv("HOME", t.TempDir())
	file := filepath.Join(t.TempDir(), "scene.json")

	steps := [][]string{
		{"-f", file, "create", "transform", "box"},
		{"-f", file, "create", "addDoubleLinear", "add"},
		{"-f", file, "create", "transform", "junk"},
		{"-f", file, "set", "add.input1", "2.5"},
		{"-f", file, "set", "box.translateY", "-3"},
		{"-f", file, "set", "box.visibility", "off"},
		{"-f", file, "connect", "add.output", "box.translateX"},
		{"-f", file, "rename", "box", "crate"},
		{"-f", file, "rm", "junk"},
		{"-f", file, "get", "add.input1"},
		{"-f", file, "ls", "-l"},
		{"-f", file, "undo"},
	}
	for _, args := range steps {
		require.NoError(t, run(t, args...), "%v", args)
	}

	g := scene.NewGraph()
	require.NoError(t, g.Open(file))

	n, err := g.LookupNode("crate")
	require.NoError(t, err)

	ty, err := n.FindPlug("translateY")
	require.NoError(t, err)
	v, err := ty.Value()
	require.NoError(t, err)
	assert.Equal(t, float32(-3), v)

	vis, err := n.FindPlug("visibility")
	require.NoError(t, err)
	v, err = vis.Value()
	require.NoError(t, err)
	assert.Equal(t, false, v)

	tx, err := n.FindPlug("translateX")
	require.NoError(t, err)
	src := tx.Source()
	require.False(t, src.IsNil())
	assert.Equal(t, "add", src.Node().Name())
	assert.Equal(t, "output", src.AttrPath())

	_, err = g.LookupNode("junk")
	assert.ErrorIs(t, err, scene.ErrNotFound)
}

func TestShellBuiltins(t *testing.T) {
	t.Setenv("HOME", t.TempDir())
	file := filepath.Join(t.TempDir(), "kept.yaml")

	a := newApp()
	require.NoError(t, a.load())
	_, err := a.session.CreateNode("transform", "box", nil)
	require.NoError(t, err)
	a.dirty = true

	handled, quit := a.builtin([]string{"save", file})
	assert.True(t, handled)
	assert.False(t, quit)
	assert.False(t, a.dirty)
	assert.Equal(t, file, a.file)

	g := scene.NewGraph()
	require.NoError(t, g.Open(file))
	_, err = g.LookupNode("box")
	assert.NoError(t, err)

	handled, quit = a.builtin([]string{"exit"})
	assert.True(t, handled)
	assert.True(t, quit)

	handled, _ = a.builtin([]string{"create"})
	assert.False(t, handled)
}
