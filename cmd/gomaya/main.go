// Copyright (c) 2025, The Gomaya Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

// Command gomaya edits scene files from the command line. Subcommands
// resolve names through a [core.Session], so the strings that work in
// the library work here too, from "|group|box" down to
// "boxShape.vtx[0:3]".
//
// One-shot invocations load the scene named by --file, apply the edit
// and save it back:
//
//	gomaya -f shot.json create transform box
//	gomaya -f shot.json set box.translateX 5
//	gomaya -f shot.yaml connect add.output box.translateY
//
// The shell subcommand keeps one session open across many commands,
// which is what makes undo and redo effective:
//
//	gomaya -f shot.json shell
package main

import (
	"errors"
	"fmt"
	"io/fs"
	"os"

	"github.com/Pahuska/gomaya/core"
	"github.com/muesli/termenv"
	"github.com/spf13/cobra"
)

// app is the state one run works on: the session, the scene file it
// came from, and whether edits are waiting to be written back.
type app struct {
	session *core.Session
	file    string
	dirty   bool

	// oneShot saves the scene after every editing command; the shell
	// clears it and saves only on request.
	oneShot bool

	out    *termenv.Output
	errOut *termenv.Output
}

func newApp() *app {
	return &app{
		oneShot: true,
		out:     termenv.NewOutput(os.Stdout),
		errOut:  termenv.NewOutput(os.Stderr),
	}
}

// load builds the session on first use: user settings applied, scene
// file read when present. A missing file starts an empty scene so that
// create works against a file yet to be written.
func (a *app) load() error {
	if a.session != nil {
		return nil
	}
	s := core.NewSession()
	st, err := core.LoadSettings("")
	if err != nil {
		a.warnf("settings: %v", err)
	}
	if err := st.Apply(s); err != nil {
		a.warnf("settings: %v", err)
		if err := core.DefaultSettings().Apply(s); err != nil {
			return err
		}
	}
	if a.file != "" {
		if err := s.Graph.Open(a.file); err != nil && !errors.Is(err, fs.ErrNotExist) {
			return err
		}
	}
	a.session = s
	return nil
}

// edited records a completed edit, saving right away in one-shot mode.
func (a *app) edited() error {
	a.dirty = true
	if !a.oneShot {
		return nil
	}
	return a.save("")
}

// save writes the scene to the given file, defaulting to the file it
// was loaded from, and makes that file the current one.
func (a *app) save(file string) error {
	if file == "" {
		file = a.file
	}
	if file == "" {
		return errors.New("no scene file; run with --file or use save <file>")
	}
	if err := a.session.Graph.Save(file); err != nil {
		return err
	}
	a.file = file
	a.dirty = false
	return nil
}

func (a *app) printf(format string, args ...any) {
	fmt.Fprintf(os.Stdout, format+"\n", args...)
}

func (a *app) warnf(format string, args ...any) {
	msg := fmt.Sprintf(format, args...)
	fmt.Fprintln(os.Stderr, a.errOut.String(msg).Foreground(termenv.ANSIYellow))
}

func (a *app) fail(err error) {
	fmt.Fprintln(os.Stderr, a.errOut.String("error: "+err.Error()).Foreground(termenv.ANSIRed))
}

// newRootCommand builds the command tree bound to the given app state.
// The shell rebuilds the tree for every line, so flags reset to their
// defaults between commands.
func newRootCommand(a *app) *cobra.Command {
	root := &cobra.Command{
		Use:   "gomaya",
		Short: "edit gomaya scene files from the command line",
		Long: `gomaya edits scene files (.json, .yaml or .yml) with the same name
resolution the library uses. Nodes go by name or full path, and forms
like "box.translateX" or "boxShape.vtx[0:3]" reach plugs and
components.

Each invocation loads the file named by --file, applies the command and
saves the file back. Run the shell subcommand to keep one session open
across many commands; that is where undo and redo earn their keep.`,
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			if len(args) == 0 {
				return cmd.Help()
			}
			return fmt.Errorf("unknown command %q", args[0])
		},
	}
	root.CompletionOptions.DisableDefaultCmd = true
	root.PersistentFlags().StringVarP(&a.file, "file", "f", a.file, "scene file to edit (.json, .yaml or .yml)")
	root.AddCommand(
		newCreateCommand(a),
		newGetCommand(a),
		newSetCommand(a),
		newConnectCommand(a),
		newDisconnectCommand(a),
		newLsCommand(a),
		newRmCommand(a),
		newRenameCommand(a),
		newUndoCommand(a),
		newRedoCommand(a),
		newShellCommand(a),
	)
	return root
}

func main() {
	a := newApp()
	if err := newRootCommand(a).Execute(); err != nil {
		a.fail(err)
		os.Exit(1)
	}
}
