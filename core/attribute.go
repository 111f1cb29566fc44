// Copyright (c) 2025, The Gomaya Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package core

import (
	"fmt"

	"github.com/Pahuska/gomaya/scene"
	"github.com/Pahuska/gomaya/units"
)

// Attribute wraps a plug. Navigation methods return fresh wrappers;
// value access goes through the session's marshalling layer, so
// getters and setters speak UI units and enum names.
type Attribute struct {
	ObjectBase
}

// AsAttribute returns the embedded attribute base.
func (a *Attribute) AsAttribute() *Attribute { return a }

// Plug returns the wrapped plug after checking the handle still
// points at a live attribute.
func (a *Attribute) Plug() (scene.Plug, error) {
	if err := a.Hdl.Validate(); err != nil {
		return scene.Plug{}, err
	}
	return a.Hdl.Plug, nil
}

// Def returns the attribute definition.
func (a *Attribute) Def() (*scene.AttrDef, error) {
	p, err := a.Plug()
	if err != nil {
		return nil, err
	}
	return p.Def(), nil
}

func (a *Attribute) DisplayName(full bool) (string, error) {
	p, err := a.Plug()
	if err != nil {
		return "", err
	}
	if !full {
		return p.Name(), nil
	}
	n := p.Node()
	if n.IsDag() {
		return n.Path().FullName() + "." + p.AttrPath(), nil
	}
	return p.Name(), nil
}

// OwningNode returns the wrapper for the node the plug lives on.
func (a *Attribute) OwningNode() (Node, error) {
	n, err := a.Hdl.OwnerNode()
	if err != nil {
		return nil, err
	}
	return a.Ses.nodeObject(n)
}

// wrap resolves a related plug into its attribute wrapper.
func (a *Attribute) wrap(p scene.Plug) (Attr, error) {
	obj, err := a.Ses.Resolve(PlugHandle(p), nil)
	if err != nil {
		return nil, err
	}
	return obj.(Attr), nil
}

////////  Navigation

// ParentAttr returns the compound or array this plug belongs to,
// nil for a top-level plug.
func (a *Attribute) ParentAttr() (Attr, error) {
	p, err := a.Plug()
	if err != nil {
		return nil, err
	}
	parent := p.Parent()
	if parent.IsNil() {
		return nil, nil
	}
	return a.wrap(parent)
}

// NumChildren returns the child count of a compound plug, zero
// otherwise.
func (a *Attribute) NumChildren() int {
	if a.Hdl.Validate() != nil {
		return 0
	}
	return a.Hdl.Plug.NumChildren()
}

// ChildAttr returns the i-th child of a compound plug.
func (a *Attribute) ChildAttr(i int) (Attr, error) {
	p, err := a.Plug()
	if err != nil {
		return nil, err
	}
	c, err := p.Child(i)
	if err != nil {
		return nil, wrapErr(err)
	}
	return a.wrap(c)
}

// ChildByName returns the named child of a compound plug, by long or
// short name.
func (a *Attribute) ChildByName(name string) (Attr, error) {
	p, err := a.Plug()
	if err != nil {
		return nil, err
	}
	c, err := p.ChildByName(name)
	if err != nil {
		return nil, wrapErr(err)
	}
	return a.wrap(c)
}

// Element returns the array element with the given logical index,
// bringing it into existence if it is not there yet.
func (a *Attribute) Element(idx int) (Attr, error) {
	p, err := a.Plug()
	if err != nil {
		return nil, err
	}
	if !p.IsArray() {
		return nil, fmt.Errorf("%w: %s is not an array", ErrTypeMismatch, p.Name())
	}
	el, err := p.Element(idx)
	if err != nil {
		return nil, wrapErr(err)
	}
	return a.wrap(el)
}

// NumElements returns the number of existing array elements, zero for
// non-arrays.
func (a *Attribute) NumElements() int {
	if a.Hdl.Validate() != nil {
		return 0
	}
	return a.Hdl.Plug.NumElements()
}

// ExistingIndices returns the logical indices of existing array
// elements, ascending.
func (a *Attribute) ExistingIndices() []int {
	if a.Hdl.Validate() != nil {
		return nil
	}
	return a.Hdl.Plug.ExistingIndices()
}

// LogicalIndex returns the element's logical index, -1 when the plug
// is not an array element.
func (a *Attribute) LogicalIndex() int {
	if a.Hdl.Validate() != nil {
		return -1
	}
	return a.Hdl.Plug.LogicalIndex()
}

// IsArray reports whether the plug is an array root.
func (a *Attribute) IsArray() bool {
	return a.Hdl.Validate() == nil && a.Hdl.Plug.IsArray()
}

// IsCompound reports whether the plug has child plugs.
func (a *Attribute) IsCompound() bool {
	return a.Hdl.Validate() == nil && a.Hdl.Plug.IsCompound()
}

// IsElement reports whether the plug is an array element.
func (a *Attribute) IsElement() bool {
	return a.Hdl.Validate() == nil && a.Hdl.Plug.IsElement()
}

////////  Values

// Get returns the plug's value in UI units. Enum values come back as
// ints, message plugs as their source node wrapper or nil, compounds
// as a slice of child values.
func (a *Attribute) Get() (any, error) {
	p, err := a.Plug()
	if err != nil {
		return nil, err
	}
	return a.Ses.readPlug(p, false)
}

// GetString returns the plug's value rendered as a string. Enum
// values come back as their field name.
func (a *Attribute) GetString() (string, error) {
	p, err := a.Plug()
	if err != nil {
		return "", err
	}
	v, err := a.Ses.readPlug(p, true)
	if err != nil {
		return "", err
	}
	if v == nil {
		return "", nil
	}
	if s, ok := v.(string); ok {
		return s, nil
	}
	return fmt.Sprint(v), nil
}

// Set stores a value on the plug, accepting UI units, enum names and
// per-child slices for compounds.
func (a *Attribute) Set(v any, batch ...*scene.Modifier) (*Command, error) {
	return a.Ses.SetAttr(a.Hdl, v, batch...)
}

////////  Connections

// Source returns the attribute driving this plug, nil when it is not
// a connection destination.
func (a *Attribute) Source() (Attr, error) {
	p, err := a.Plug()
	if err != nil {
		return nil, err
	}
	src := p.Source()
	if src.IsNil() {
		return nil, nil
	}
	return a.wrap(src)
}

// Destinations returns the attributes this plug drives.
func (a *Attribute) Destinations() ([]Attr, error) {
	p, err := a.Plug()
	if err != nil {
		return nil, err
	}
	dests := p.Destinations()
	out := make([]Attr, 0, len(dests))
	for _, d := range dests {
		w, err := a.wrap(d)
		if err != nil {
			return nil, err
		}
		out = append(out, w)
	}
	return out, nil
}

// IsConnected reports whether the plug takes part in any connection.
func (a *Attribute) IsConnected() bool {
	return a.Hdl.Validate() == nil && a.Hdl.Plug.IsConnected()
}

// ConnectTo drives dst from this attribute.
func (a *Attribute) ConnectTo(dst any, opts *ConnectOptions, batch ...*scene.Modifier) (*Command, error) {
	return a.Ses.ConnectAttr(a.Hdl, dst, opts, batch...)
}

// DisconnectFrom breaks the connection into dst, if this attribute
// drives it.
func (a *Attribute) DisconnectFrom(dst any, batch ...*scene.Modifier) (*Command, error) {
	return a.Ses.DisconnectAttr(a.Hdl, dst, batch...)
}

////////  Definition edits

// IsLocked reports whether the plug rejects edits.
func (a *Attribute) IsLocked() bool {
	return a.Hdl.Validate() == nil && a.Hdl.Plug.IsLocked()
}

// SetLocked locks or unlocks the plug. Lock state is bookkeeping, not
// an edit; it does not land on the undo ledger.
func (a *Attribute) SetLocked(on bool) error {
	p, err := a.Plug()
	if err != nil {
		return err
	}
	p.SetLocked(on)
	return nil
}

// IsFreeToChange reports whether a write would currently be accepted.
func (a *Attribute) IsFreeToChange() bool {
	return a.Hdl.Validate() == nil && a.Hdl.Plug.IsFreeToChange()
}

// IsKeyable reports whether the attribute shows up in channel
// editors.
func (a *Attribute) IsKeyable() bool {
	d, err := a.Def()
	return err == nil && d.Keyable
}

// IsDynamic reports whether the attribute was added to its node after
// creation.
func (a *Attribute) IsDynamic() bool {
	d, err := a.Def()
	return err == nil && d.IsDynamic()
}

// editableDef returns the definition if it may be changed in place.
// Static definitions are shared by every node of the type and stay
// fixed.
func (a *Attribute) editableDef() (*scene.AttrDef, error) {
	p, err := a.Plug()
	if err != nil {
		return nil, err
	}
	def := p.Def()
	if !def.IsDynamic() {
		return nil, fmt.Errorf("%w: %s belongs to the node type and cannot be redefined", ErrLockedTarget, p.Name())
	}
	return def, nil
}

// SetKeyable changes the keyable flag. Only dynamic attributes may be
// redefined.
func (a *Attribute) SetKeyable(on bool) error {
	def, err := a.editableDef()
	if err != nil {
		return err
	}
	def.Keyable = on
	return nil
}

// SetRange changes the hard bounds, in UI units. A nil bound clears
// that side. Only scalar dynamic attributes may be redefined.
func (a *Attribute) SetRange(min, max *float32) error {
	def, err := a.editableDef()
	if err != nil {
		return err
	}
	if !rangeable(def) {
		return fmt.Errorf("%w: %s attribute %q takes no range", ErrTypeMismatch, def.Kind, def.Name)
	}
	def.Min = internalBound(def, min)
	def.Max = internalBound(def, max)
	return nil
}

// SetSoftRange changes the advisory bounds, in UI units. A nil bound
// clears that side. Only scalar dynamic attributes may be redefined.
func (a *Attribute) SetSoftRange(min, max *float32) error {
	def, err := a.editableDef()
	if err != nil {
		return err
	}
	if !rangeable(def) {
		return fmt.Errorf("%w: %s attribute %q takes no range", ErrTypeMismatch, def.Kind, def.Name)
	}
	def.SoftMin = internalBound(def, min)
	def.SoftMax = internalBound(def, max)
	return nil
}

// rangeable reports whether the definition is a scalar that bounds
// apply to.
func rangeable(def *scene.AttrDef) bool {
	if def.Kind == scene.KindUnit {
		return true
	}
	return def.Kind == scene.KindNumeric && (def.Numeric == scene.NumInt || def.Numeric == scene.NumFloat)
}

// internalBound converts one UI-unit bound to internal units, passing
// nil through.
func internalBound(def *scene.AttrDef, f *float32) *float32 {
	if f == nil {
		return nil
	}
	v := uiToInternal(def, *f)
	return &v
}

// uiToInternal converts a scalar from UI to internal units for the
// definition's dimension.
func uiToInternal(def *scene.AttrDef, f float32) float32 {
	if def.Kind != scene.KindUnit {
		return f
	}
	switch def.Unit {
	case scene.UnitAngle:
		return units.AngleToInternal(f)
	case scene.UnitDistance:
		return units.DistanceToInternal(f)
	case scene.UnitTime:
		return units.TimeToInternal(f)
	}
	return f
}

// internalToUI converts a scalar from internal to UI units for the
// definition's dimension.
func internalToUI(def *scene.AttrDef, f float32) float32 {
	if def.Kind != scene.KindUnit {
		return f
	}
	switch def.Unit {
	case scene.UnitAngle:
		return units.AngleToUI(f)
	case scene.UnitDistance:
		return units.DistanceToUI(f)
	case scene.UnitTime:
		return units.TimeToUI(f)
	}
	return f
}

// bound reads one range bound off the definition, converted to UI
// units.
func (a *Attribute) bound(pick func(d *scene.AttrDef) *float32) (float32, bool) {
	d, err := a.Def()
	if err != nil {
		return 0, false
	}
	b := pick(d)
	if b == nil {
		return 0, false
	}
	return internalToUI(d, *b), true
}

////////  NumericAttribute

// NumericAttribute wraps a plain numeric plug.
type NumericAttribute struct {
	Attribute
}

// AsNumericAttribute returns the embedded numeric attribute base.
func (a *NumericAttribute) AsNumericAttribute() *NumericAttribute { return a }

// NumericType returns the element layout.
func (a *NumericAttribute) NumericType() (scene.NumericType, error) {
	d, err := a.Def()
	if err != nil {
		return scene.NumInvalid, err
	}
	return d.Numeric, nil
}

// Min returns the hard lower bound, false when unconstrained.
func (a *NumericAttribute) Min() (float32, bool) { return a.bound(func(d *scene.AttrDef) *float32 { return d.Min }) }

// Max returns the hard upper bound, false when unconstrained.
func (a *NumericAttribute) Max() (float32, bool) { return a.bound(func(d *scene.AttrDef) *float32 { return d.Max }) }

// SoftMin returns the advisory lower bound, false when unset.
func (a *NumericAttribute) SoftMin() (float32, bool) {
	return a.bound(func(d *scene.AttrDef) *float32 { return d.SoftMin })
}

// SoftMax returns the advisory upper bound, false when unset.
func (a *NumericAttribute) SoftMax() (float32, bool) {
	return a.bound(func(d *scene.AttrDef) *float32 { return d.SoftMax })
}

////////  UnitAttribute

// UnitAttribute wraps a plug carrying a unit dimension. Get and Set
// speak UI units; GetInternal bypasses the conversion.
type UnitAttribute struct {
	Attribute
}

// AsUnitAttribute returns the embedded unit attribute base.
func (a *UnitAttribute) AsUnitAttribute() *UnitAttribute { return a }

// Unit returns the unit dimension.
func (a *UnitAttribute) Unit() (scene.UnitType, error) {
	d, err := a.Def()
	if err != nil {
		return scene.UnitInvalid, err
	}
	return d.Unit, nil
}

// GetInternal returns the raw stored value in internal units.
func (a *UnitAttribute) GetInternal() (float32, error) {
	p, err := a.Plug()
	if err != nil {
		return 0, err
	}
	v, err := p.Value()
	if err != nil {
		return 0, wrapErr(err)
	}
	f, ok := v.(float32)
	if !ok {
		return 0, fmt.Errorf("%w: %s holds %T", ErrTypeMismatch, p.Name(), v)
	}
	return f, nil
}

// Min returns the hard lower bound in UI units, false when
// unconstrained.
func (a *UnitAttribute) Min() (float32, bool) { return a.bound(func(d *scene.AttrDef) *float32 { return d.Min }) }

// Max returns the hard upper bound in UI units, false when
// unconstrained.
func (a *UnitAttribute) Max() (float32, bool) { return a.bound(func(d *scene.AttrDef) *float32 { return d.Max }) }

////////  CompoundAttribute

// CompoundAttribute wraps a plug with child plugs.
type CompoundAttribute struct {
	Attribute
}

// AsCompoundAttribute returns the embedded compound attribute base.
func (a *CompoundAttribute) AsCompoundAttribute() *CompoundAttribute { return a }

// Children returns wrappers for every child plug, in declaration
// order.
func (a *CompoundAttribute) Children() ([]Attr, error) {
	p, err := a.Plug()
	if err != nil {
		return nil, err
	}
	kids := p.Children()
	out := make([]Attr, 0, len(kids))
	for _, c := range kids {
		w, err := a.wrap(c)
		if err != nil {
			return nil, err
		}
		out = append(out, w)
	}
	return out, nil
}
