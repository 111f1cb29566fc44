// Copyright (c) 2025, The Gomaya Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package core

import (
	"fmt"

	"github.com/Pahuska/gomaya/scene"
)

// Command is one reversible edit: a forward closure, a reverse
// closure and the action name the ledger shows. Session operations
// return Commands already applied and recorded; no-ops return a nil
// Command instead.
type Command struct {

	// Action is the name shown by the undo ledger.
	Action string

	fwd func() error
	rev func() error
}

// NewCommand returns a command over explicit closures.
func NewCommand(action string, fwd, rev func() error) *Command {
	return &Command{Action: action, fwd: fwd, rev: rev}
}

// newModifierCommand wraps an applied modifier as a command.
func newModifierCommand(action string, md *scene.Modifier) *Command {
	return &Command{Action: action, fwd: md.Do, rev: md.Undo}
}

// Do applies the edit. Modifier-backed commands apply only what is
// not applied yet, so calling Do on a freshly built command is a
// no-op until it has been undone.
func (c *Command) Do() error {
	if c == nil || c.fwd == nil {
		return nil
	}
	return c.fwd()
}

// Undo reverses the edit.
func (c *Command) Undo() error {
	if c == nil || c.rev == nil {
		return nil
	}
	return c.rev()
}

func (c *Command) String() string {
	if c == nil {
		return "<no-op>"
	}
	return c.Action
}

// Multi folds several commands into one. Both directions walk the
// members in the order given; nil members are skipped. The combined
// command is not recorded anywhere, so callers compose first and
// register the result once.
func Multi(action string, cmds ...*Command) *Command {
	run := func(dir func(*Command) error, what string) func() error {
		return func() error {
			for _, c := range cmds {
				if err := dir(c); err != nil {
					return fmt.Errorf("%s %q: %w", what, action, err)
				}
			}
			return nil
		}
	}
	return &Command{
		Action: action,
		fwd:    run((*Command).Do, "do"),
		rev:    run((*Command).Undo, "undo"),
	}
}
