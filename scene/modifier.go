// Copyright (c) 2025, The Gomaya Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package scene

import (
	"fmt"
	"slices"
)

// Modifier queues primitive edits and applies them as one unit. Every
// edit method validates its arguments immediately and fails without
// touching the graph; a failed enqueue leaves the queue unchanged.
// [Modifier.Do] applies queued edits in order, [Modifier.Undo]
// reverses the applied ones in reverse order, and Do again reapplies,
// so a Modifier is directly usable as an undo ledger entry.
//
// Edits capture the state they overwrite at first application, not at
// enqueue, so values written earlier in the same queue are preserved
// correctly.
type Modifier struct {
	g    *Graph
	ops  []modOp
	done int
}

type modOp interface {
	do() error
	undo() error
}

// NewModifier returns an empty modifier over the given graph.
func NewModifier(g *Graph) *Modifier {
	return &Modifier{g: g}
}

// IsEmpty reports whether no edits are queued.
func (md *Modifier) IsEmpty() bool { return len(md.ops) == 0 }

// IsApplied reports whether every queued edit is currently applied.
func (md *Modifier) IsApplied() bool { return md.done == len(md.ops) }

// Do applies the queued edits that are not yet applied, in order.
// On an edit failure it stops with the earlier edits applied.
func (md *Modifier) Do() error {
	for ; md.done < len(md.ops); md.done++ {
		if err := md.ops[md.done].do(); err != nil {
			return err
		}
	}
	return nil
}

// Undo reverses the applied edits in reverse order.
func (md *Modifier) Undo() error {
	for md.done > 0 {
		if err := md.ops[md.done-1].undo(); err != nil {
			return err
		}
		md.done--
	}
	return nil
}

////////  Create, delete, duplicate

type opCreate struct {
	g      *Graph
	node   *Node
	parent *Node
	idx    int
}

func (op *opCreate) do() error {
	op.g.insertNode(op.node, op.parent, op.idx)
	return nil
}

func (op *opCreate) undo() error {
	op.idx = op.g.removeNode(op.node)
	return nil
}

// CreateNode queues the creation of a node and returns it right away.
// The node is allocated with its attributes but stays out of the
// graph until [Modifier.Do]; its name settles against its siblings at
// insert time. Parents are only valid for hierarchy types.
func (md *Modifier) CreateNode(typeName, name string, parent *Node) (*Node, error) {
	typ, err := NodeTypeByName(typeName)
	if err != nil {
		return nil, err
	}
	if parent != nil {
		if !typ.IsDag {
			return nil, fmt.Errorf("%w: cannot parent non-hierarchy type %q", ErrValueType, typeName)
		}
		if !parent.IsDag() {
			return nil, fmt.Errorf("%w: parent %s is not a hierarchy node", ErrValueType, parent.Name())
		}
	}
	n := newNode(md.g, typ, name)
	md.ops = append(md.ops, &opCreate{g: md.g, node: n, parent: parent, idx: -1})
	return n, nil
}

// connRec remembers one severed connection for restore.
type connRec struct {
	src, dst Plug
}

// memberRec remembers set membership entries pruned by a delete.
type memberRec struct {
	set   *Node
	items []SelectionItem
}

type opDelete struct {
	g        *Graph
	root     *Node
	captured bool

	// sub is the subtree in post-order, leaves first.
	sub   []*Node
	inSub map[*Node]bool

	// parents and idxs are parallel to sub: where each node was
	// attached when it died.
	parents []*Node
	idxs    []int

	// ext are connections crossing the subtree boundary.
	ext []connRec

	// members are set entries referencing the subtree.
	members []memberRec

	// sel is the active selection before the delete.
	sel *SelectionList
}

func (op *opDelete) capture() {
	op.sub = subtreeNodes(op.root)
	op.inSub = map[*Node]bool{}
	for _, n := range op.sub {
		op.inSub[n] = true
	}
	op.parents = make([]*Node, len(op.sub))
	op.idxs = make([]int, len(op.sub))
	for _, n := range op.sub {
		for _, av := range n.attrs {
			av.walk(func(v *attrValue) {
				if !v.source.IsNil() && !op.inSub[v.source.Node()] {
					op.ext = append(op.ext, connRec{src: v.source, dst: Plug{v: v}})
				}
				for _, d := range v.dests {
					if !op.inSub[d.Node()] {
						op.ext = append(op.ext, connRec{src: Plug{v: v}, dst: d})
					}
				}
			})
		}
	}
	for _, n := range op.g.list {
		if !n.alive || !n.HasFn(FnSet) || op.inSub[n] || n.members == nil {
			continue
		}
		var pruned []SelectionItem
		for _, item := range n.members.Items() {
			if op.inSub[item.Node] {
				pruned = append(pruned, item)
			}
		}
		if pruned != nil {
			op.members = append(op.members, memberRec{set: n, items: pruned})
		}
	}
	op.sel = op.g.active.Clone()
	op.captured = true
}

func (op *opDelete) do() error {
	if !op.root.IsAlive() {
		return fmt.Errorf("delete %s: %w", op.root.Name(), ErrInvalidHandle)
	}
	if !op.captured {
		op.capture()
	}
	for _, c := range op.ext {
		disconnectPlugs(c.src, c.dst)
	}
	for _, mr := range op.members {
		for _, item := range mr.items {
			mr.set.members.Remove(item)
		}
	}
	for i, n := range op.sub {
		op.parents[i] = n.parent
		op.idxs[i] = op.g.removeNode(n)
	}
	op.g.active.Prune()
	return nil
}

func (op *opDelete) undo() error {
	for i := len(op.sub) - 1; i >= 0; i-- {
		op.g.insertNode(op.sub[i], op.parents[i], op.idxs[i])
	}
	for _, mr := range op.members {
		for _, item := range mr.items {
			mr.set.members.Add(item)
		}
	}
	for _, c := range op.ext {
		connectPlugs(c.src, c.dst)
	}
	op.g.SetActiveSelection(op.sel.Clone())
	return nil
}

// DeleteNode queues the removal of a node and its whole hierarchy
// subtree. Connections crossing the subtree boundary are severed, set
// memberships referencing it are pruned, and the active selection
// drops its entries; undo restores all of it.
func (md *Modifier) DeleteNode(n *Node) error {
	if n == nil {
		return fmt.Errorf("delete nil node: %w", ErrInvalidHandle)
	}
	if n.locked {
		return fmt.Errorf("delete %s: node is locked: %w", n.Name(), ErrLocked)
	}
	md.ops = append(md.ops, &opDelete{g: md.g, root: n})
	return nil
}

type opDuplicate struct {
	g            *Graph
	root         *Node
	insertParent *Node
	idx          int

	// desc are the copied descendants, roots first. They stay
	// attached to their copied parents; do and undo only flip their
	// liveness.
	desc []*Node
}

func (op *opDuplicate) do() error {
	op.g.insertNode(op.root, op.insertParent, op.idx)
	for _, d := range op.desc {
		op.g.reviveNode(d)
	}
	return nil
}

func (op *opDuplicate) undo() error {
	for i := len(op.desc) - 1; i >= 0; i-- {
		op.desc[i].alive = false
	}
	op.idx = op.g.removeNode(op.root)
	return nil
}

// Duplicate queues a deep copy of a node and its subtree under the
// source's parent, returning the copy right away. Attribute values,
// dynamic attributes, geometry and set membership copy over;
// connections do not. An empty name reuses the source name and
// settles against the siblings at apply time.
func (md *Modifier) Duplicate(src *Node, name string) (*Node, error) {
	if src == nil {
		return nil, fmt.Errorf("duplicate nil node: %w", ErrInvalidHandle)
	}
	dup, err := md.g.buildDuplicate(src, name)
	if err != nil {
		return nil, err
	}
	op := &opDuplicate{g: md.g, root: dup, insertParent: src.parent, idx: -1}
	for _, n := range subtreeNodes(dup) {
		if n != dup {
			op.desc = append(op.desc, n)
		}
	}
	slices.Reverse(op.desc)
	md.ops = append(md.ops, op)
	return dup, nil
}

////////  Rename, reparent

type opRename struct {
	g        *Graph
	n        *Node
	newName  string
	oldName  string
	captured bool
}

func (op *opRename) do() error {
	if !op.captured {
		op.oldName = op.n.name
		op.captured = true
	}
	op.n.name = op.g.uniqueName(op.n, op.n.parent, op.newName)
	return nil
}

func (op *opRename) undo() error {
	op.n.name = op.oldName
	return nil
}

// RenameNode queues a rename. A clashing name settles with a numeric
// suffix, matching creation.
func (md *Modifier) RenameNode(n *Node, newName string) error {
	if n == nil {
		return fmt.Errorf("rename nil node: %w", ErrInvalidHandle)
	}
	if n.locked {
		return fmt.Errorf("rename %s: node is locked: %w", n.Name(), ErrLocked)
	}
	if newName == "" {
		return fmt.Errorf("rename %s: empty name: %w", n.Name(), ErrValueType)
	}
	md.ops = append(md.ops, &opRename{g: md.g, n: n, newName: newName})
	return nil
}

type opReparent struct {
	g         *Graph
	n         *Node
	newParent *Node
	oldParent *Node
	oldIdx    int
	oldName   string
	captured  bool
}

func (op *opReparent) do() error {
	if !op.captured {
		op.oldParent = op.n.parent
		op.oldIdx = op.n.IndexInParent()
		op.oldName = op.n.name
		op.captured = true
	}
	if op.n.parent != nil {
		op.n.parent.detachChild(op.n)
	}
	op.n.name = op.g.uniqueName(op.n, op.newParent, op.n.name)
	if op.newParent != nil {
		op.newParent.attachChild(op.n, -1)
	}
	return nil
}

func (op *opReparent) undo() error {
	if op.n.parent != nil {
		op.n.parent.detachChild(op.n)
	}
	op.n.name = op.oldName
	if op.oldParent != nil {
		op.oldParent.attachChild(op.n, op.oldIdx)
	}
	return nil
}

// Reparent queues moving a hierarchy node under a new parent, nil for
// the root level. Moving a node under itself or its own descendant is
// rejected.
func (md *Modifier) Reparent(n *Node, newParent *Node) error {
	if n == nil {
		return fmt.Errorf("reparent nil node: %w", ErrInvalidHandle)
	}
	if !n.IsDag() {
		return fmt.Errorf("reparent %s: not a hierarchy node: %w", n.Name(), ErrValueType)
	}
	if n.locked {
		return fmt.Errorf("reparent %s: node is locked: %w", n.Name(), ErrLocked)
	}
	if newParent != nil {
		if !newParent.IsDag() {
			return fmt.Errorf("reparent %s: %s is not a hierarchy node: %w", n.Name(), newParent.Name(), ErrValueType)
		}
		for p := newParent; p != nil; p = p.parent {
			if p == n {
				return fmt.Errorf("reparent %s: %s is in its own subtree: %w", n.Name(), newParent.Name(), ErrValueType)
			}
		}
	}
	md.ops = append(md.ops, &opReparent{g: md.g, n: n, newParent: newParent})
	return nil
}

////////  Attributes

type opAddAttr struct {
	n   *Node
	def *AttrDef
	av  *attrValue
	idx int
}

func (op *opAddAttr) do() error {
	if op.av == nil {
		op.av = op.n.addAttrValue(op.def)
		op.idx = len(op.n.attrs) - 1
		return nil
	}
	op.n.restoreAttrValue(op.av, op.idx)
	return nil
}

func (op *opAddAttr) undo() error {
	op.n.removeAttrValue(op.av)
	return nil
}

// AddAttr queues adding a dynamic attribute to one node. The
// definition must validate and its names (long and short, at every
// level) must be free on the node.
func (md *Modifier) AddAttr(n *Node, def *AttrDef) error {
	if n == nil {
		return fmt.Errorf("add attribute to nil node: %w", ErrInvalidHandle)
	}
	if err := def.Validate(); err != nil {
		return err
	}
	var clash error
	check := func(d *AttrDef) {
		if n.nameTaken(d.Name) {
			clash = fmt.Errorf("%w: attribute %q already exists on %s", ErrBadAttrSpec, d.Name, n.Name())
		} else if d.Short != "" && d.Short != d.Name && n.nameTaken(d.Short) {
			clash = fmt.Errorf("%w: attribute %q already exists on %s", ErrBadAttrSpec, d.Short, n.Name())
		}
	}
	var walk func(d *AttrDef)
	walk = func(d *AttrDef) {
		check(d)
		for _, c := range d.Children {
			walk(c)
		}
	}
	walk(def)
	if clash != nil {
		return clash
	}
	def.setDynamicAll(true)
	md.ops = append(md.ops, &opAddAttr{n: n, def: def})
	return nil
}

type opRemoveAttr struct {
	n        *Node
	av       *attrValue
	idx      int
	ext      []connRec
	captured bool
}

func (op *opRemoveAttr) do() error {
	if !op.captured {
		op.av.walk(func(v *attrValue) {
			if !v.source.IsNil() {
				op.ext = append(op.ext, connRec{src: v.source, dst: Plug{v: v}})
			}
			for _, d := range v.dests {
				op.ext = append(op.ext, connRec{src: Plug{v: v}, dst: d})
			}
		})
		for i, av := range op.n.attrs {
			if av == op.av {
				op.idx = i
				break
			}
		}
		op.captured = true
	}
	for _, c := range op.ext {
		disconnectPlugs(c.src, c.dst)
	}
	op.n.removeAttrValue(op.av)
	return nil
}

func (op *opRemoveAttr) undo() error {
	op.n.restoreAttrValue(op.av, op.idx)
	for _, c := range op.ext {
		connectPlugs(c.src, c.dst)
	}
	return nil
}

// RemoveAttr queues removing a dynamic attribute by long or short
// name. Static attributes cannot be removed; connections on the
// attribute are severed and restored on undo.
func (md *Modifier) RemoveAttr(n *Node, name string) error {
	if n == nil {
		return fmt.Errorf("remove attribute from nil node: %w", ErrInvalidHandle)
	}
	av, ok := n.attrIndex[name]
	if !ok {
		return fmt.Errorf("attribute %q on %s: %w", name, n.Name(), ErrNotFound)
	}
	if av.parent != nil {
		return fmt.Errorf("%w: %q is a child attribute; remove its root", ErrValueType, name)
	}
	if !av.def.dynamic {
		return fmt.Errorf("%w: %q is a static attribute", ErrValueType, name)
	}
	if (Plug{v: av}).lockedInChain() {
		return fmt.Errorf("remove %s.%s: %w", n.Name(), name, ErrLocked)
	}
	md.ops = append(md.ops, &opRemoveAttr{n: n, av: av})
	return nil
}

////////  Connections and values

type opConnect struct {
	src, dst Plug
}

func (op *opConnect) do() error {
	connectPlugs(op.src, op.dst)
	return nil
}

func (op *opConnect) undo() error {
	disconnectPlugs(op.src, op.dst)
	return nil
}

// Connect queues a connection from src into dst. The destination must
// be writable, unlocked and not already driven, unless an earlier
// entry in the same queue disconnects it first; array roots connect
// through their elements.
func (md *Modifier) Connect(src, dst Plug) error {
	if src.IsNil() || dst.IsNil() {
		return fmt.Errorf("connect nil plug: %w", ErrInvalidHandle)
	}
	if src == dst {
		return fmt.Errorf("%w: connect %s to itself", ErrValueType, src.Name())
	}
	if src.IsArray() || dst.IsArray() {
		return fmt.Errorf("%w: connect through an array element, not the array", ErrValueType)
	}
	if !src.Def().Readable {
		return fmt.Errorf("%w: source %s is not readable", ErrValueType, src.Name())
	}
	if dst.Def().Computed || !dst.Def().Writable {
		return fmt.Errorf("%w: destination %s is not writable", ErrValueType, dst.Name())
	}
	if dst.lockedInChain() {
		return fmt.Errorf("connect into %s: %w", dst.Name(), ErrLocked)
	}
	if cur := dst.Source(); !cur.IsNil() && !md.pendingDisconnect(dst) {
		return fmt.Errorf("%s already driven by %s: %w", dst.Name(), cur.Name(), ErrAlreadyConnected)
	}
	md.ops = append(md.ops, &opConnect{src: src, dst: dst})
	return nil
}

// pendingDisconnect reports whether a not-yet-applied edit in the
// queue disconnects dst.
func (md *Modifier) pendingDisconnect(dst Plug) bool {
	for _, op := range md.ops[md.done:] {
		if d, ok := op.(*opDisconnect); ok && d.dst == dst {
			return true
		}
	}
	return false
}

type opDisconnect struct {
	src, dst Plug
}

func (op *opDisconnect) do() error {
	disconnectPlugs(op.src, op.dst)
	return nil
}

func (op *opDisconnect) undo() error {
	connectPlugs(op.src, op.dst)
	return nil
}

// Disconnect queues removing the connection from src into dst, which
// must exist.
func (md *Modifier) Disconnect(src, dst Plug) error {
	if src.IsNil() || dst.IsNil() {
		return fmt.Errorf("disconnect nil plug: %w", ErrInvalidHandle)
	}
	if dst.Source() != src {
		return fmt.Errorf("%s is not driven by %s: %w", dst.Name(), src.Name(), ErrNotConnected)
	}
	if dst.lockedInChain() {
		return fmt.Errorf("disconnect %s: %w", dst.Name(), ErrLocked)
	}
	md.ops = append(md.ops, &opDisconnect{src: src, dst: dst})
	return nil
}

type opSetValue struct {
	p        Plug
	newVal   any
	oldVal   any
	captured bool
}

func (op *opSetValue) do() error {
	if !op.captured {
		op.oldVal = op.p.v.value
		op.captured = true
	}
	op.p.v.value = op.newVal
	return nil
}

func (op *opSetValue) undo() error {
	op.p.v.value = op.oldVal
	return nil
}

// SetValue queues writing a canonical value to a plug. Lock state,
// writability, connection state, value type and hard range are all
// checked now, before anything is applied; the overwritten value is
// captured at first application.
func (md *Modifier) SetValue(p Plug, v any) error {
	if p.IsNil() {
		return fmt.Errorf("set nil plug: %w", ErrInvalidHandle)
	}
	if p.IsArray() || p.Def().Kind == KindCompound || p.Def().Kind == KindMessage {
		return fmt.Errorf("%w: %s holds no scalar value", ErrValueType, p.Name())
	}
	if p.Def().Computed || !p.Def().Writable {
		return fmt.Errorf("set %s: not writable: %w", p.Name(), ErrLocked)
	}
	if p.lockedInChain() {
		return fmt.Errorf("set %s: %w", p.Name(), ErrLocked)
	}
	if p.drivenBelow() {
		return fmt.Errorf("set %s: driven by a connection: %w", p.Name(), ErrLocked)
	}
	cv, err := canonicalValue(p.Def(), v)
	if err != nil {
		return err
	}
	md.ops = append(md.ops, &opSetValue{p: p, newVal: cv})
	return nil
}

////////  Selection and proxies

type opSetSelection struct {
	g        *Graph
	list     *SelectionList
	old      *SelectionList
	captured bool
}

func (op *opSetSelection) do() error {
	if !op.captured {
		op.old = op.g.active
		op.captured = true
	}
	op.g.SetActiveSelection(op.list)
	return nil
}

func (op *opSetSelection) undo() error {
	op.g.SetActiveSelection(op.old)
	return nil
}

// SetSelection queues replacing the active selection list.
func (md *Modifier) SetSelection(list *SelectionList) error {
	if list == nil {
		list = NewSelectionList()
	}
	md.ops = append(md.ops, &opSetSelection{g: md.g, list: list})
	return nil
}

type opProxy struct {
	doFn, undoFn func() error
}

func (op *opProxy) do() error   { return op.doFn() }
func (op *opProxy) undo() error { return op.undoFn() }

// AddProxy queues an arbitrary edit expressed as paired closures. The
// layers above use this for edits the primitive ops do not cover,
// such as geometry point moves.
func (md *Modifier) AddProxy(doFn, undoFn func() error) {
	md.ops = append(md.ops, &opProxy{doFn: doFn, undoFn: undoFn})
}

// subtreeNodes returns n and its descendants, leaves first.
func subtreeNodes(n *Node) []*Node {
	var out []*Node
	var walk func(m *Node)
	walk = func(m *Node) {
		for _, c := range m.children {
			walk(c)
		}
		out = append(out, m)
	}
	walk(n)
	return slices.Clip(out)
}
