// Copyright (c) 2025, The Gomaya Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package core

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/Pahuska/gomaya/undo"
	"github.com/Pahuska/gomaya/units"
	"github.com/mitchellh/go-homedir"
	"github.com/pelletier/go-toml/v2"
)

// Settings are the user preferences: the UI units values are read and
// written in, and how much history the undo ledger keeps.
type Settings struct {

	// AngleUnit is the UI angle unit name, "deg" or "rad".
	AngleUnit string `toml:"angle-unit"`

	// DistanceUnit is the UI distance unit name: "cm", "mm", "m",
	// "km", "in", "ft" or "yd".
	DistanceUnit string `toml:"distance-unit"`

	// TimeUnit is the UI time unit name: "sec", "ms", "min" or a
	// frame rate name such as "film", "pal" or "ntsc".
	TimeUnit string `toml:"time-unit"`

	// UndoDepth is how many commands the ledger keeps.
	UndoDepth int `toml:"undo-depth"`
}

// DefaultSettings returns the out-of-the-box preferences.
func DefaultSettings() *Settings {
	return &Settings{
		AngleUnit:    units.Degrees.String(),
		DistanceUnit: units.Centimeters.String(),
		TimeUnit:     units.Film24.String(),
		UndoDepth:    undo.DefaultLimit,
	}
}

// SettingsPath returns the default preferences location,
// settings.toml under .gomaya in the home directory.
func SettingsPath() (string, error) {
	home, err := homedir.Dir()
	if err != nil {
		return "", err
	}
	return filepath.Join(home, ".gomaya", "settings.toml"), nil
}

// LoadSettings reads preferences from the given file, from the
// default location when file is empty. A missing file is no error and
// yields the defaults.
func LoadSettings(file string) (*Settings, error) {
	st := DefaultSettings()
	if file == "" {
		p, err := SettingsPath()
		if err != nil {
			return st, err
		}
		file = p
	}
	b, err := os.ReadFile(file)
	if err != nil {
		if os.IsNotExist(err) {
			return st, nil
		}
		return st, err
	}
	if err := toml.Unmarshal(b, st); err != nil {
		return st, fmt.Errorf("reading %s: %w", file, err)
	}
	return st, nil
}

// Save writes the preferences to the given file, to the default
// location when file is empty, creating the directory as needed.
func (st *Settings) Save(file string) error {
	if file == "" {
		p, err := SettingsPath()
		if err != nil {
			return err
		}
		file = p
	}
	if err := os.MkdirAll(filepath.Dir(file), 0o755); err != nil {
		return err
	}
	b, err := toml.Marshal(st)
	if err != nil {
		return err
	}
	return os.WriteFile(file, b, 0o644)
}

// Apply installs the preferences: the UI units process-wide and,
// given a session, the undo depth on its ledger.
func (st *Settings) Apply(s *Session) error {
	au, err := angleUnitByName(st.AngleUnit)
	if err != nil {
		return err
	}
	du, err := distanceUnitByName(st.DistanceUnit)
	if err != nil {
		return err
	}
	tu, err := timeUnitByName(st.TimeUnit)
	if err != nil {
		return err
	}
	units.SetUIAngle(au)
	units.SetUIDistance(du)
	units.SetUITime(tu)
	if s != nil && st.UndoDepth > 0 {
		s.Ledger.Limit = st.UndoDepth
	}
	return nil
}

func angleUnitByName(name string) (units.AngleUnit, error) {
	for u := units.Radians; u <= units.Degrees; u++ {
		if u.String() == name {
			return u, nil
		}
	}
	return 0, fmt.Errorf("%w: angle unit %q", ErrUnsupportedType, name)
}

func distanceUnitByName(name string) (units.DistanceUnit, error) {
	for u := units.Centimeters; u <= units.Yards; u++ {
		if u.String() == name {
			return u, nil
		}
	}
	return 0, fmt.Errorf("%w: distance unit %q", ErrUnsupportedType, name)
}

func timeUnitByName(name string) (units.TimeUnit, error) {
	for u := units.Seconds; u <= units.NTSC60; u++ {
		if u.String() == name {
			return u, nil
		}
	}
	return 0, fmt.Errorf("%w: time unit %q", ErrUnsupportedType, name)
}
