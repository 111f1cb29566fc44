// Copyright (c) 2025, The Gomaya Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package main

import (
	"bufio"
	"errors"
	"fmt"
	"os"
	"strings"

	"github.com/mattn/go-shellwords"
	"github.com/spf13/cobra"
)

func newShellCommand(a *app) *cobra.Command {
	return &cobra.Command{
		Use:   "shell",
		Short: "edit interactively, one command per line",
		Long: `shell reads commands line by line against a single session, so the
full undo history is in reach. Edits stay in memory until saved.

Any subcommand works as a line, plus the builtins:

	save [file]   write the scene, optionally to a new file
	open file     drop the session and load another scene
	exit          leave the shell (quit works too)

Lines split like a shell, so quoted names survive, and lines starting
with # are skipped.`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			if !a.oneShot {
				return errors.New("already in a shell")
			}
			return runShell(a)
		},
	}
}

// runShell is the interactive loop. Every line rebuilds the command
// tree so flags start from their defaults, while the session and its
// ledger persist across lines.
func runShell(a *app) error {
	if err := a.load(); err != nil {
		return err
	}
	a.oneShot = false
	defer func() { a.oneShot = true }()

	a.banner()
	prompt := a.out.String("gomaya> ").Bold().Foreground(a.out.Color("6")).String()
	sc := bufio.NewScanner(os.Stdin)
	for {
		fmt.Fprint(os.Stdout, prompt)
		if !sc.Scan() {
			fmt.Fprintln(os.Stdout)
			break
		}
		words, err := shellwords.Parse(sc.Text())
		if err != nil {
			a.fail(err)
			continue
		}
		if len(words) == 0 || strings.HasPrefix(words[0], "#") {
			continue
		}
		handled, quit := a.builtin(words)
		if quit {
			break
		}
		if handled {
			continue
		}
		root := newRootCommand(a)
		root.SetArgs(words)
		if err := root.Execute(); err != nil {
			a.fail(err)
		}
	}
	if a.dirty {
		a.warnf("unsaved changes discarded")
	}
	return sc.Err()
}

func (a *app) banner() {
	where := a.file
	if where == "" {
		where = "new scene"
	}
	a.printf("%s: %d nodes (help for commands, exit to leave)", where, a.session.Graph.NumNodes())
}

// builtin handles the shell-only commands. It reports whether the line
// was one of them and whether the loop should end.
func (a *app) builtin(words []string) (handled, quit bool) {
	switch words[0] {
	case "exit", "quit":
		return true, true
	case "save":
		file := ""
		if len(words) > 1 {
			file = words[1]
		}
		if err := a.save(file); err != nil {
			a.fail(err)
			return true, false
		}
		a.printf("saved %s", a.file)
		return true, false
	case "open":
		if len(words) < 2 {
			a.fail(errors.New("open needs a scene file"))
			return true, false
		}
		if a.dirty {
			a.warnf("discarding unsaved changes")
		}
		a.session = nil
		a.file = words[1]
		a.dirty = false
		if err := a.load(); err != nil {
			a.fail(err)
			return true, false
		}
		a.printf("%s: %d nodes", a.file, a.session.Graph.NumNodes())
		return true, false
	}
	return false, false
}
