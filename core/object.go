// Copyright (c) 2025, The Gomaya Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

// Package core is the polymorphic wrapper layer over the [scene]
// primitives. A [Session] owns a scene graph and an undo ledger;
// [Session.Get] resolves any reference (a name string, a scene
// handle, another wrapper) into the most specific wrapper class for
// what it refers to, walking nodes, attributes and geometry
// components through one entry point. Wrappers are cheap shells
// around a [Handle]: they resolve lazily, cache what they learn, and
// stay comparable across renames and reparenting because the handle
// tracks identity, not names.
//
// Everything that edits the scene goes through [Session] operations,
// which return [Command] values carrying both directions of the edit
// and record themselves on the session's ledger. Passing a trailing
// *scene.Modifier batch to an operation defers it into a caller-owned
// unit instead.
package core

// Object is the interface common to every wrapper class: nodes,
// attributes and components. Concrete wrappers embed [ObjectBase]
// (through one of the scope bases) and are created by [Session.Get]
// or [Session.Resolve]; the zero value of a wrapper type is not
// usable.
type Object interface {

	// Handle returns the reference this wrapper resolves through.
	Handle() Handle

	// Session returns the owning session.
	Session() *Session

	// Type returns the wrapper class.
	Type() *Type

	// This returns the outermost wrapper value, so that base methods
	// can reach overriding behavior on derived classes.
	This() Object

	// DisplayName returns the name the referent goes by: partial by
	// default, fully qualified when full is set.
	DisplayName(full bool) (string, error)

	// init binds a freshly constructed wrapper to its session and
	// handle. Only [Session.Resolve] calls it.
	init(this Object, s *Session, h Handle, tp *Type)
}

// Node is implemented by every node-backed wrapper.
type Node interface {
	Object

	// AsDependNode returns the embedded node base.
	AsDependNode() *DependNode
}

// Attr is implemented by every attribute wrapper.
type Attr interface {
	Object

	// AsAttribute returns the embedded attribute base.
	AsAttribute() *Attribute
}

// Comp is implemented by every component wrapper.
type Comp interface {
	Object

	// AsComponent returns the embedded component base.
	AsComponent() *Component
}

// ObjectBase is the common state of every wrapper: the session, the
// handle, the resolved class, and the This pointer back to the
// outermost value. Concrete wrappers embed it through [DependNode],
// [Attribute] or [Component].
type ObjectBase struct {

	// Ths is the outermost wrapper value. Base methods call through
	// it so derived classes can override.
	Ths Object

	// Ses is the owning session.
	Ses *Session

	// Hdl is the reference this wrapper resolves through.
	Hdl Handle

	// Typ is the resolved wrapper class.
	Typ *Type
}

func (ob *ObjectBase) init(this Object, s *Session, h Handle, tp *Type) {
	ob.Ths = this
	ob.Ses = s
	ob.Hdl = h
	ob.Typ = tp
}

// This returns the outermost wrapper value.
func (ob *ObjectBase) This() Object { return ob.Ths }

// Handle returns the reference this wrapper resolves through.
func (ob *ObjectBase) Handle() Handle { return ob.Hdl }

// Session returns the owning session.
func (ob *ObjectBase) Session() *Session { return ob.Ses }

// Type returns the wrapper class.
func (ob *ObjectBase) Type() *Type { return ob.Typ }

// AsObjectBase returns the base, for generic code holding an
// [Object].
func (ob *ObjectBase) AsObjectBase() *ObjectBase { return ob }

// IsValid reports whether the referent is still live.
func (ob *ObjectBase) IsValid() bool {
	return ob.Hdl.Validate() == nil
}

// String returns the display name, falling back to the handle
// description when the referent is gone.
func (ob *ObjectBase) String() string {
	if ob.Ths != nil {
		if name, err := ob.Ths.DisplayName(false); err == nil {
			return name
		}
	}
	return ob.Hdl.String()
}
