// Copyright (c) 2025, The Gomaya Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package main

import (
	"errors"
	"fmt"
	"strconv"
	"strings"

	"github.com/Pahuska/gomaya/core"
	"github.com/Pahuska/gomaya/scene"
	"github.com/spf13/cobra"
)

func newCreateCommand(a *app) *cobra.Command {
	var parent string
	cmd := &cobra.Command{
		Use:   "create type [name]",
		Short: "create a node and print its name",
		Long: `create makes a node of the given scene type, for example transform,
joint, mesh or addDoubleLinear. Without a name the node derives one
from the type; the settled name prints either way.`,
		Args: cobra.RangeArgs(1, 2),
		RunE: func(cmd *cobra.Command, args []string) error {
			if err := a.load(); err != nil {
				return err
			}
			name := ""
			if len(args) > 1 {
				name = args[1]
			}
			var under any
			if parent != "" {
				under = parent
			}
			n, err := a.session.CreateNode(args[0], name, under)
			if err != nil {
				return err
			}
			dn, err := n.DisplayName(false)
			if err != nil {
				return err
			}
			if err := a.edited(); err != nil {
				return err
			}
			a.printf("%s", dn)
			return nil
		},
	}
	cmd.Flags().StringVarP(&parent, "parent", "p", "", "parent the new node under this hierarchy node")
	return cmd
}

func newGetCommand(a *app) *cobra.Command {
	return &cobra.Command{
		Use:   "get node.attr",
		Short: "print an attribute value",
		Long: `get prints the value of a plug in UI units, with enum fields shown
by name. Compound values print as their child values.`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			if err := a.load(); err != nil {
				return err
			}
			v, err := a.session.GetAttrString(args[0])
			if err != nil {
				return err
			}
			a.printf("%s", v)
			return nil
		},
	}
}

func newSetCommand(a *app) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "set node.attr value...",
		Short: "write an attribute value",
		Long: `set writes a value to a plug. Tokens parse as numbers where they
can and fall back to plain strings, so enum fields go through by name;
bool accepts true/false along with on/off and yes/no. Several tokens
form a compound value:

	gomaya -f shot.json set box.translate 1 2 3
	gomaya -f shot.json set box.rotateOrder zyx`,
		Args: cobra.MinimumNArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			if err := a.load(); err != nil {
				return err
			}
			if _, err := a.session.SetAttr(args[0], parseValue(args[1:])); err != nil {
				return err
			}
			return a.edited()
		},
	}
	// Negative values would otherwise parse as flags.
	cmd.Flags().SetInterspersed(false)
	return cmd
}

func newConnectCommand(a *app) *cobra.Command {
	var opts core.ConnectOptions
	cmd := &cobra.Command{
		Use:   "connect src.attr dst.attr",
		Short: "connect a source plug into a destination",
		Args:  cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			if err := a.load(); err != nil {
				return err
			}
			if _, err := a.session.ConnectAttr(args[0], args[1], &opts); err != nil {
				return err
			}
			return a.edited()
		},
	}
	cmd.Flags().BoolVar(&opts.Force, "force", false, "replace an existing incoming connection on the destination")
	cmd.Flags().BoolVarP(&opts.NextAvailable, "next-available", "n", false, "connect into the lowest free element of a destination array")
	return cmd
}

func newDisconnectCommand(a *app) *cobra.Command {
	return &cobra.Command{
		Use:   "disconnect src.attr dst.attr",
		Short: "break the connection between two plugs",
		Args:  cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			if err := a.load(); err != nil {
				return err
			}
			if _, err := a.session.DisconnectAttr(args[0], args[1]); err != nil {
				return err
			}
			return a.edited()
		},
	}
}

func newLsCommand(a *app) *cobra.Command {
	var long, selected bool
	cmd := &cobra.Command{
		Use:   "ls [name...]",
		Short: "list nodes",
		Long: `ls without arguments prints the hierarchy as an indented tree
followed by the dependency-only nodes. With names it resolves each one
and prints its unambiguous name, so patterns like "box.translateX" and
"boxShape.vtx[0:3]" list too.`,
		Args: cobra.ArbitraryArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			if err := a.load(); err != nil {
				return err
			}
			if selected {
				return a.printSelection(long)
			}
			if len(args) > 0 {
				return a.printNamed(args, long)
			}
			a.printTree(long)
			return nil
		},
	}
	cmd.Flags().BoolVarP(&long, "long", "l", false, "show types alongside names")
	cmd.Flags().BoolVarP(&selected, "selected", "s", false, "list the active selection instead")
	return cmd
}

func (a *app) printSelection(long bool) error {
	items, err := a.session.Selected()
	if err != nil {
		return err
	}
	for _, it := range items {
		if err := a.printObject(it, long); err != nil {
			return err
		}
	}
	return nil
}

func (a *app) printNamed(names []string, long bool) error {
	for _, name := range names {
		obj, err := a.session.Get(name)
		if err != nil {
			return err
		}
		if err := a.printObject(obj, long); err != nil {
			return err
		}
	}
	return nil
}

func (a *app) printObject(obj core.Object, long bool) error {
	dn, err := obj.DisplayName(true)
	if err != nil {
		return err
	}
	if long {
		a.printf("%s\t%s", dn, obj.Type().Name)
	} else {
		a.printf("%s", dn)
	}
	return nil
}

func (a *app) printTree(long bool) {
	line := func(depth int, name, typ string) {
		indent := strings.Repeat("  ", depth)
		if long {
			a.printf("%s%s\t%s", indent, name, typ)
		} else {
			a.printf("%s%s", indent, name)
		}
	}
	var walk func(n *scene.Node, depth int)
	walk = func(n *scene.Node, depth int) {
		line(depth, n.Name(), n.TypeName())
		for _, c := range n.Children() {
			walk(c, depth+1)
		}
	}
	for _, r := range a.session.Graph.Roots() {
		walk(r, 0)
	}
	for _, n := range a.session.Graph.Nodes() {
		if !n.IsDag() {
			line(0, n.Name(), n.TypeName())
		}
	}
}

func newRmCommand(a *app) *cobra.Command {
	return &cobra.Command{
		Use:   "rm name...",
		Short: "delete nodes and their subtrees",
		Args:  cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			if err := a.load(); err != nil {
				return err
			}
			var errs []error
			removed := false
			for _, name := range args {
				if _, err := a.session.Delete(name); err != nil {
					errs = append(errs, fmt.Errorf("%s: %w", name, err))
					continue
				}
				removed = true
			}
			if removed {
				if err := a.edited(); err != nil {
					errs = append(errs, err)
				}
			}
			return errors.Join(errs...)
		},
	}
}

func newRenameCommand(a *app) *cobra.Command {
	return &cobra.Command{
		Use:   "rename node newName",
		Short: "rename a node and print the settled name",
		Long: `rename gives the node a new name. A clash with a sibling settles
with a numeric suffix; the name that stuck prints.`,
		Args: cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			if err := a.load(); err != nil {
				return err
			}
			obj, err := a.session.Get(args[0])
			if err != nil {
				return err
			}
			if _, err := a.session.Rename(obj, args[1]); err != nil {
				return err
			}
			dn, err := obj.DisplayName(false)
			if err != nil {
				return err
			}
			if err := a.edited(); err != nil {
				return err
			}
			a.printf("%s", dn)
			return nil
		},
	}
}

func newUndoCommand(a *app) *cobra.Command {
	return &cobra.Command{
		Use:   "undo",
		Short: "reverse the most recent command",
		Long: `undo reverses the most recent recorded command and prints its
action name. History lives in one session, so undo pairs with the
shell; a fresh one-shot invocation has nothing to reverse.`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			if err := a.load(); err != nil {
				return err
			}
			action, err := a.session.Undo()
			if err != nil {
				return err
			}
			if action == "" {
				a.printf("nothing to undo")
				return nil
			}
			if err := a.edited(); err != nil {
				return err
			}
			a.printf("undid %s", action)
			return nil
		},
	}
}

func newRedoCommand(a *app) *cobra.Command {
	return &cobra.Command{
		Use:   "redo",
		Short: "re-apply the most recently undone command",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			if err := a.load(); err != nil {
				return err
			}
			action, err := a.session.Redo()
			if err != nil {
				return err
			}
			if action == "" {
				a.printf("nothing to redo")
				return nil
			}
			if err := a.edited(); err != nil {
				return err
			}
			a.printf("redid %s", action)
			return nil
		},
	}
}

// parseValue turns value tokens into what [core.Session.SetAttr]
// accepts: one token stays scalar, several become a compound value.
func parseValue(args []string) any {
	if len(args) == 1 {
		return parseToken(args[0])
	}
	vals := make([]any, len(args))
	for i, tok := range args {
		vals[i] = parseToken(tok)
	}
	return vals
}

// parseToken reads a token as bool, int or float before falling back
// to a plain string, which is how enum fields pass through by name.
func parseToken(tok string) any {
	switch strings.ToLower(tok) {
	case "true", "on", "yes":
		return true
	case "false", "off", "no":
		return false
	}
	if i, err := strconv.Atoi(tok); err == nil {
		return i
	}
	if f, err := strconv.ParseFloat(tok, 64); err == nil {
		return f
	}
	return tok
}
