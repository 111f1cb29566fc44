// Copyright (c) 2025, The Gomaya Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package core

import (
	"fmt"
	"slices"

	"github.com/Pahuska/gomaya/base/errors"
	"github.com/Pahuska/gomaya/math32"
	"github.com/Pahuska/gomaya/scene"
	"github.com/Pahuska/gomaya/undo"
)

// Space selects the coordinate frame of a spatial query or edit.
type Space int32

const (
	// SpaceObject is the node's local frame, relative to its parent.
	SpaceObject Space = iota

	// SpaceWorld is the scene root frame.
	SpaceWorld

	SpaceN
)

var spaceNames = []string{"object", "world", "n"}

func (sp Space) String() string {
	if sp < 0 || sp >= SpaceN {
		return "object"
	}
	return spaceNames[sp]
}

// SelectMode controls how [Session.Select] folds references into the
// active selection.
type SelectMode int32

const (
	// SelectReplace makes the references the new selection.
	SelectReplace SelectMode = iota

	// SelectAdd unions the references into the selection.
	SelectAdd

	// SelectRemove drops the references from the selection.
	SelectRemove

	// SelectToggle removes references already selected and adds the
	// rest.
	SelectToggle

	// SelectClear empties the selection; no references are accepted.
	SelectClear

	SelectN
)

var selectModeNames = []string{"replace", "add", "remove", "toggle", "clear", "n"}

func (sm SelectMode) String() string {
	if sm < 0 || sm >= SelectN {
		return "replace"
	}
	return selectModeNames[sm]
}

// Session owns one scene graph and the undo ledger its edits record
// onto. All wrapper objects belong to the session that resolved them.
//
// Operations that accept a trailing batch modifier enqueue their
// edits into it and return a nil [Command]; the caller applies and
// registers the batch as one unit. Without a batch, the operation
// applies immediately, records itself on the ledger and returns the
// command. When a call with a caller-supplied batch fails partway,
// edits it already enqueued stay in the batch; an owned modifier is
// rolled back whole.
type Session struct {

	// Graph is the primitive node store.
	Graph *scene.Graph

	// Ledger is the undo stack session commands record onto.
	Ledger *undo.Stack
}

// NewSession returns a session over a fresh graph and ledger.
func NewSession() *Session {
	return &Session{Graph: scene.NewGraph(), Ledger: undo.NewStack(undo.DefaultLimit)}
}

// Get resolves any accepted reference into a wrapper of the most
// specific class. See [Session.Normalize] for the accepted forms.
func (s *Session) Get(ref any) (Object, error) {
	h, err := s.Normalize(ref)
	if err != nil {
		return nil, err
	}
	return s.Resolve(h, nil)
}

// GetAs resolves a reference under a class hint. The hint forces the
// resolution scope; a referent that cannot satisfy it is a type
// mismatch.
func (s *Session) GetAs(ref any, tp *Type) (Object, error) {
	h, err := s.Normalize(ref)
	if err != nil {
		return nil, err
	}
	return s.Resolve(h, tp)
}

// nodeObject wraps a live scene node in its most specific node
// wrapper.
func (s *Session) nodeObject(n *scene.Node) (Node, error) {
	if !n.IsAlive() {
		return nil, fmt.Errorf("%w: node is gone", ErrInvalidHandle)
	}
	var h Handle
	if n.IsDag() {
		h = PathHandle(n.Path())
	} else {
		h = NodeHandle(n)
	}
	obj, err := s.Resolve(h, nil)
	if err != nil {
		return nil, err
	}
	return obj.(Node), nil
}

// nodeFor resolves a reference to its underlying scene node.
func (s *Session) nodeFor(ref any) (*scene.Node, error) {
	h, err := s.Normalize(ref)
	if err != nil {
		return nil, err
	}
	return h.OwnerNode()
}

// plugFor resolves a reference to an attribute instance.
func (s *Session) plugFor(ref any) (scene.Plug, error) {
	h, err := s.Normalize(ref)
	if err != nil {
		return scene.Plug{}, err
	}
	if h.Kind != HandlePlug {
		return scene.Plug{}, fmt.Errorf("%w: expected an attribute, got a %s", ErrTypeMismatch, h.Kind)
	}
	if err := h.Validate(); err != nil {
		return scene.Plug{}, err
	}
	return h.Plug, nil
}

// batch returns the modifier an operation enqueues into: the caller's
// batch when one was passed, otherwise a fresh owned one.
func (s *Session) batch(mods []*scene.Modifier) (md *scene.Modifier, owned bool) {
	if len(mods) > 0 && mods[0] != nil {
		return mods[0], false
	}
	return scene.NewModifier(s.Graph), true
}

// finish completes an operation: an owned modifier is applied,
// recorded on the ledger and returned as a command, rolling back
// whole if application fails partway. A caller-owned batch stays
// queued and yields a nil command. Empty modifiers yield nil without
// touching the ledger.
func (s *Session) finish(action string, md *scene.Modifier, owned bool) (*Command, error) {
	if !owned {
		return nil, nil
	}
	if md.IsEmpty() {
		return nil, nil
	}
	if err := md.Do(); err != nil {
		errors.Log(md.Undo())
		return nil, wrapErr(err)
	}
	c := newModifierCommand(action, md)
	s.Register(c)
	return c, nil
}

// Register records an applied command on the ledger. Nil commands are
// ignored, so no-op results can be passed straight through.
func (s *Session) Register(c *Command) {
	if c == nil {
		return
	}
	s.Ledger.Commit(c.Action, c.Undo, c.Do)
}

// Undo reverses the most recent recorded command, returning its
// action name. Nothing to undo returns "" and no error.
func (s *Session) Undo() (string, error) {
	return s.Ledger.Undo()
}

// Redo re-applies the most recently undone command.
func (s *Session) Redo() (string, error) {
	return s.Ledger.Redo()
}

////////  Nodes

// CreateNode creates a node of the given scene type, optionally under
// a parent reference, applies immediately and returns the wrapper.
// An empty name derives one from the type.
func (s *Session) CreateNode(typeName, name string, parent any) (Node, error) {
	var parentNode *scene.Node
	if parent != nil {
		pn, err := s.nodeFor(parent)
		if err != nil {
			return nil, err
		}
		if !pn.IsDag() {
			return nil, fmt.Errorf("%w: parent %s is not a hierarchy node", ErrTypeMismatch, pn.Name())
		}
		parentNode = pn
	}
	md := scene.NewModifier(s.Graph)
	n, err := md.CreateNode(typeName, name, parentNode)
	if err != nil {
		if errors.Is(err, scene.ErrNotFound) {
			return nil, fmt.Errorf("%w: node type %q", ErrUnsupportedType, typeName)
		}
		return nil, wrapErr(err)
	}
	if _, err := s.finish("createNode", md, true); err != nil {
		return nil, err
	}
	return s.nodeObject(n)
}

// Delete removes the node behind the reference and its subtree.
func (s *Session) Delete(ref any, batch ...*scene.Modifier) (*Command, error) {
	n, err := s.nodeFor(ref)
	if err != nil {
		return nil, err
	}
	md, owned := s.batch(batch)
	if err := md.DeleteNode(n); err != nil {
		return nil, wrapErr(err)
	}
	return s.finish("delete", md, owned)
}

// Rename gives the node behind the reference a new name. A clashing
// name settles with a numeric suffix.
func (s *Session) Rename(ref any, newName string, batch ...*scene.Modifier) (*Command, error) {
	n, err := s.nodeFor(ref)
	if err != nil {
		return nil, err
	}
	md, owned := s.batch(batch)
	if err := md.RenameNode(n, newName); err != nil {
		return nil, wrapErr(err)
	}
	return s.finish("rename", md, owned)
}

// Duplicate deep-copies the node behind the reference and its
// subtree, applies immediately and returns the copy's wrapper.
// Values, dynamic attributes, geometry and set membership copy over;
// connections do not. An empty name reuses the source name.
func (s *Session) Duplicate(ref any, name string) (Node, error) {
	n, err := s.nodeFor(ref)
	if err != nil {
		return nil, err
	}
	md := scene.NewModifier(s.Graph)
	dup, err := md.Duplicate(n, name)
	if err != nil {
		return nil, wrapErr(err)
	}
	if _, err := s.finish("duplicate", md, true); err != nil {
		return nil, err
	}
	return s.nodeObject(dup)
}

// ParentOptions adjust [Session.Parent].
type ParentOptions struct {

	// Relative keeps the local channel values unchanged, letting the
	// world placement jump with the new parent.
	Relative bool

	// World moves the node to the hierarchy root instead of under a
	// parent.
	World bool
}

// Parent moves a hierarchy node under a new parent, nil or
// [ParentOptions.World] for the root. By default the node's world
// placement is preserved by rewriting its local channels against the
// new parent; [ParentOptions.Relative] skips that. Channel values are
// computed from the hierarchy as it is when the call is made.
func (s *Session) Parent(child, newParent any, opts *ParentOptions, batch ...*scene.Modifier) (*Command, error) {
	if opts == nil {
		opts = &ParentOptions{}
	}
	n, err := s.nodeFor(child)
	if err != nil {
		return nil, err
	}
	var parentNode *scene.Node
	if !opts.World && newParent != nil {
		parentNode, err = s.nodeFor(newParent)
		if err != nil {
			return nil, err
		}
	}
	md, owned := s.batch(batch)
	if err := md.Reparent(n, parentNode); err != nil {
		return nil, wrapErr(err)
	}
	if !opts.Relative && n.HasFn(scene.FnTransform) {
		world := s.Graph.WorldMatrix(n)
		parentWorld := math32.Identity4()
		if parentNode != nil {
			parentWorld = s.Graph.WorldMatrix(parentNode)
		}
		inv := parentWorld.Inverse()
		local := inv.Mul(&world)
		if err := s.setLocalMatrix(md, n, &local); err != nil {
			return nil, err
		}
	}
	return s.finish("parent", md, owned)
}

////////  Attribute values and connections

// GetAttr returns the value of the attribute behind the reference:
// unit scalars in UI units, enums as int values, message attributes
// as the connected source's node wrapper (nil when unconnected),
// compounds and arrays as value slices.
func (s *Session) GetAttr(ref any) (any, error) {
	p, err := s.plugFor(ref)
	if err != nil {
		return nil, err
	}
	return s.readPlug(p, false)
}

// GetAttrString returns the value with enums rendered as their field
// names and everything else formatted.
func (s *Session) GetAttrString(ref any) (string, error) {
	p, err := s.plugFor(ref)
	if err != nil {
		return "", err
	}
	v, err := s.readPlug(p, true)
	if err != nil {
		return "", err
	}
	switch sv := v.(type) {
	case nil:
		return "", nil
	case string:
		return sv, nil
	}
	return fmt.Sprint(v), nil
}

// SetAttr writes a value to the attribute behind the reference. Plain
// numbers on unit attributes convert from UI units; compound values
// must match the child count exactly.
func (s *Session) SetAttr(ref any, v any, batch ...*scene.Modifier) (*Command, error) {
	p, err := s.plugFor(ref)
	if err != nil {
		return nil, err
	}
	md, owned := s.batch(batch)
	if err := s.writePlug(md, p, v); err != nil {
		return nil, err
	}
	return s.finish("setAttr", md, owned)
}

// ConnectOptions adjust [Session.ConnectAttr].
type ConnectOptions struct {

	// Force replaces an existing incoming connection on the
	// destination; the disconnect joins the same command.
	Force bool

	// NextAvailable connects into the lowest element of a destination
	// array that is not already driven.
	NextAvailable bool
}

// ConnectAttr connects the source attribute into the destination. A
// destination already driven by the same source is a no-op returning
// a nil command; one driven by another source fails unless
// [ConnectOptions.Force] folds the disconnect into the command.
func (s *Session) ConnectAttr(src, dst any, opts *ConnectOptions, batch ...*scene.Modifier) (*Command, error) {
	if opts == nil {
		opts = &ConnectOptions{}
	}
	sp, err := s.plugFor(src)
	if err != nil {
		return nil, err
	}
	dp, err := s.plugFor(dst)
	if err != nil {
		return nil, err
	}
	if opts.NextAvailable {
		if !dp.IsArray() {
			return nil, fmt.Errorf("%w: %s is not an array destination", ErrTypeMismatch, dp.Name())
		}
		dp, err = s.nextAvailable(dp)
		if err != nil {
			return nil, err
		}
	}
	cur := dp.Source()
	if cur == sp {
		return nil, nil
	}
	if !cur.IsNil() && !opts.Force {
		return nil, fmt.Errorf("%w: %s is driven by %s", ErrLockedTarget, dp.Name(), cur.Name())
	}
	md, owned := s.batch(batch)
	if !cur.IsNil() {
		if err := md.Disconnect(cur, dp); err != nil {
			return nil, wrapErr(err)
		}
	}
	if err := md.Connect(sp, dp); err != nil {
		return nil, wrapErr(err)
	}
	return s.finish("connectAttr", md, owned)
}

// nextAvailable returns the element of an array plug with the lowest
// logical index that is not driven by a connection.
func (s *Session) nextAvailable(arr scene.Plug) (scene.Plug, error) {
	for i := 0; ; i++ {
		el, err := arr.Element(i)
		if err != nil {
			return scene.Plug{}, wrapErr(err)
		}
		if el.Source().IsNil() {
			return el, nil
		}
	}
}

// DisconnectAttr removes the connection into the destination. A nil
// source derives it from the destination; a destination with no
// incoming connection (or one from a different source) is a no-op
// returning a nil command.
func (s *Session) DisconnectAttr(src, dst any, batch ...*scene.Modifier) (*Command, error) {
	dp, err := s.plugFor(dst)
	if err != nil {
		return nil, err
	}
	cur := dp.Source()
	if cur.IsNil() {
		return nil, nil
	}
	if src != nil {
		sp, err := s.plugFor(src)
		if err != nil {
			return nil, err
		}
		if cur != sp {
			return nil, nil
		}
	}
	md, owned := s.batch(batch)
	if err := md.Disconnect(cur, dp); err != nil {
		return nil, wrapErr(err)
	}
	return s.finish("disconnectAttr", md, owned)
}

////////  Dynamic attributes

// CreateAttr adds a dynamic attribute described by spec to the node
// behind the reference and returns its wrapper. With a caller-owned
// batch the attribute does not exist until the batch applies, so the
// returned wrapper is nil.
func (s *Session) CreateAttr(node any, spec *AttributeSpec, batch ...*scene.Modifier) (Attr, error) {
	n, err := s.nodeFor(node)
	if err != nil {
		return nil, err
	}
	def, err := spec.toDef()
	if err != nil {
		return nil, err
	}
	md, owned := s.batch(batch)
	if err := md.AddAttr(n, def); err != nil {
		return nil, wrapErr(err)
	}
	if _, err := s.finish("addAttr", md, owned); err != nil {
		return nil, err
	}
	if !owned {
		return nil, nil
	}
	p, err := n.FindPlug(def.Name)
	if err != nil {
		return nil, wrapErr(err)
	}
	obj, err := s.Resolve(PlugHandle(p), nil)
	if err != nil {
		return nil, err
	}
	return obj.(Attr), nil
}

// RemoveAttr removes a dynamic attribute by name from the node behind
// the reference. Static attributes cannot be removed.
func (s *Session) RemoveAttr(node any, name string, batch ...*scene.Modifier) (*Command, error) {
	n, err := s.nodeFor(node)
	if err != nil {
		return nil, err
	}
	md, owned := s.batch(batch)
	if err := md.RemoveAttr(n, name); err != nil {
		return nil, wrapErr(err)
	}
	return s.finish("deleteAttr", md, owned)
}

////////  Selection

// Select folds the references into the active selection per mode and
// records the change as one command. [SelectClear] takes no
// references; an unchanged selection is a no-op returning a nil
// command.
func (s *Session) Select(mode SelectMode, refs ...any) (*Command, error) {
	if mode == SelectClear && len(refs) > 0 {
		return nil, fmt.Errorf("%w: clear takes no references", ErrTypeMismatch)
	}
	incoming := scene.NewSelectionList()
	for _, ref := range refs {
		h, err := s.Normalize(ref)
		if err != nil {
			return nil, err
		}
		item, err := itemForHandle(h)
		if err != nil {
			return nil, err
		}
		incoming.Add(item)
	}
	var next *scene.SelectionList
	switch mode {
	case SelectReplace:
		next = incoming
	case SelectClear:
		next = scene.NewSelectionList()
	case SelectAdd:
		next = s.Graph.ActiveSelection().Clone()
		next.Merge(incoming, scene.MergeAdd)
	case SelectRemove:
		next = s.Graph.ActiveSelection().Clone()
		next.Merge(incoming, scene.MergeRemove)
	case SelectToggle:
		next = s.Graph.ActiveSelection().Clone()
		next.Merge(incoming, scene.MergeToggle)
	default:
		return nil, fmt.Errorf("%w: select mode %d", ErrTypeMismatch, mode)
	}
	cur := s.Graph.ActiveSelection()
	cur.Prune()
	if slices.Equal(cur.Strings(), next.Strings()) {
		return nil, nil
	}
	md := scene.NewModifier(s.Graph)
	if err := md.SetSelection(next); err != nil {
		return nil, wrapErr(err)
	}
	return s.finish("select", md, true)
}

// Selected returns wrappers for the current selection, in selection
// order. Dead entries are pruned first.
func (s *Session) Selected() ([]Object, error) {
	sl := s.Graph.ActiveSelection()
	sl.Prune()
	items := sl.Items()
	out := make([]Object, 0, len(items))
	for _, si := range items {
		h, err := handleForItem(si)
		if err != nil {
			return nil, err
		}
		obj, err := s.Resolve(h, nil)
		if err != nil {
			return nil, err
		}
		out = append(out, obj)
	}
	return out, nil
}

// itemForHandle maps a handle onto a selection item.
func itemForHandle(h Handle) (scene.SelectionItem, error) {
	n, err := h.OwnerNode()
	if err != nil {
		return scene.SelectionItem{}, err
	}
	switch h.Kind {
	case HandleNode:
		return scene.SelectionItem{Node: n}, nil
	case HandlePath, HandleCompound:
		return scene.SelectionItem{Node: n, Path: h.Path}, nil
	case HandlePlug:
		return scene.SelectionItem{Node: n, Plug: h.Plug}, nil
	case HandleComponent:
		return scene.SelectionItem{Node: n, Path: h.Path, Component: h.Component}, nil
	}
	return scene.SelectionItem{}, fmt.Errorf("%w: nil handle", ErrInvalidHandle)
}
