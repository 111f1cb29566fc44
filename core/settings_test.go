// Copyright (c) 2025, The Gomaya Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package core

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/Pahuska/gomaya/undo"
	"github.com/Pahuska/gomaya/units"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestDefaultSettings(t *testing.T) {
	st := DefaultSettings()
	assert.Equal(t, "deg", st.AngleUnit)
	assert.Equal(t, "cm", st.DistanceUnit)
	assert.Equal(t, "film", st.TimeUnit)
	assert.Equal(t, undo.DefaultLimit, st.UndoDepth)
}

func TestSettingsRoundTrip(t *testing.T) {
	// a nested path exercises directory creation
	file := filepath.Join(t.TempDir(), "prefs", "settings.toml")
	st := &Settings{AngleUnit: "rad", DistanceUnit: "m", TimeUnit: "pal", UndoDepth: 7}
	require.NoError(t, st.Save(file))
	got, err := LoadSettings(file)
	require.NoError(t, err)
	assert.Equal(t, st, got)
}

func TestLoadSettingsMissing(t *testing.T) {
	got, err := LoadSettings(filepath.Join(t.TempDir(), "nope.toml"))
	require.NoError(t, err)
	assert.Equal(t, DefaultSettings(), got)
}

func TestLoadSettingsPartial(t *testing.T) {
	file := filepath.Join(t.TempDir(), "settings.toml")
	require.NoError(t, os.WriteFile(file, []byte("undo-depth = 7\n"), 0o644))
	got, err := LoadSettings(file)
	require.NoError(t, err)
	assert.Equal(t, 7, got.UndoDepth)
	assert.Equal(t, "deg", got.AngleUnit)
	assert.Equal(t, "cm", got.DistanceUnit)
}

func TestLoadSettingsMalformed(t *testing.T) {
	file := filepath.Join(t.TempDir(), "settings.toml")
	require.NoError(t, os.WriteFile(file, []byte("angle-unit = [\n"), 0o644))
	_, err := LoadSettings(file)
	require.Error(t, err)
	assert.ErrorContains(t, err, "reading")
}

func TestApplySettings(t *testing.T) {
	restoreUnits(t)
	s := NewSession()
	st := &Settings{AngleUnit: "rad", DistanceUnit: "m", TimeUnit: "pal", UndoDepth: 7}
	require.NoError(t, st.Apply(s))
	assert.Equal(t, units.Radians, units.UIAngle())
	assert.Equal(t, units.Meters, units.UIDistance())
	assert.Equal(t, units.PAL25, units.UITime())
	assert.Equal(t, 7, s.Ledger.Limit)

	// without a session only the units land
	st2 := &Settings{AngleUnit: "deg", DistanceUnit: "cm", TimeUnit: "film", UndoDepth: 3}
	require.NoError(t, st2.Apply(nil))
	assert.Equal(t, units.Degrees, units.UIAngle())
	assert.Equal(t, 7, s.Ledger.Limit)

	// zero depth leaves the ledger alone
	st3 := DefaultSettings()
	st3.UndoDepth = 0
	require.NoError(t, st3.Apply(s))
	assert.Equal(t, 7, s.Ledger.Limit)
}

func TestApplySettingsBadUnits(t *testing.T) {
	restoreUnits(t)
	st := DefaultSettings()
	st.AngleUnit = "furlongs"
	err := st.Apply(nil)
	assert.ErrorIs(t, err, ErrUnsupportedType)
	assert.ErrorContains(t, err, `angle unit "furlongs"`)

	st = DefaultSettings()
	st.DistanceUnit = "cubits"
	err = st.Apply(nil)
	assert.ErrorIs(t, err, ErrUnsupportedType)
	assert.ErrorContains(t, err, "distance unit")

	st = DefaultSettings()
	st.TimeUnit = "fortnight"
	err = st.Apply(nil)
	assert.ErrorIs(t, err, ErrUnsupportedType)
	assert.ErrorContains(t, err, "time unit")
}
