// Copyright (c) 2025, The Gomaya Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package scene

import (
	"fmt"
	"strings"

	"github.com/Pahuska/gomaya/math32"
	"github.com/jinzhu/copier"
)

// AttrKind is the storage category of an attribute.
type AttrKind int32

const (
	KindInvalid AttrKind = iota

	// KindNumeric stores a plain number or fixed-width tuple, with the
	// element layout given by [AttrDef.Numeric].
	KindNumeric

	// KindUnit stores a float32 carrying a unit dimension given by
	// [AttrDef.Unit]. Values are held in internal units (radians,
	// centimeters, seconds).
	KindUnit

	// KindString stores a string.
	KindString

	// KindMatrix stores a [math32.Matrix4].
	KindMatrix

	// KindEnum stores an int restricted to the named fields in
	// [AttrDef.Fields].
	KindEnum

	// KindMessage stores no value at all. Message plugs exist only to
	// be connected.
	KindMessage

	// KindCompound stores no value of its own; its children do.
	KindCompound

	// KindGeneric stores any of the scalar categories, fixed by the
	// first write.
	KindGeneric

	KindN
)

var attrKindNames = []string{"invalid", "numeric", "unit", "string", "matrix", "enum", "message", "compound", "generic", "n"}

func (k AttrKind) String() string {
	if k < 0 || k >= KindN {
		return "invalid"
	}
	return attrKindNames[k]
}

// attrKindByName is the inverse of [AttrKind.String], used when
// loading scene files.
func attrKindByName(name string) AttrKind {
	for i, n := range attrKindNames[:KindN] {
		if n == name {
			return AttrKind(i)
		}
	}
	return KindInvalid
}

// NumericType is the element layout of a [KindNumeric] attribute.
type NumericType int32

const (
	NumInvalid NumericType = iota
	NumBool
	NumInt
	NumFloat
	NumFloat2
	NumFloat3
	NumFloat4
	NumInt2
	NumInt3
	NumN
)

var numericTypeNames = []string{"invalid", "bool", "int", "float", "float2", "float3", "float4", "int2", "int3", "n"}

func (n NumericType) String() string {
	if n < 0 || n >= NumN {
		return "invalid"
	}
	return numericTypeNames[n]
}

func numericTypeByName(name string) NumericType {
	for i, n := range numericTypeNames[:NumN] {
		if n == name {
			return NumericType(i)
		}
	}
	return NumInvalid
}

// UnitType is the unit dimension of a [KindUnit] attribute.
type UnitType int32

const (
	UnitInvalid UnitType = iota
	UnitAngle
	UnitDistance
	UnitTime
	UnitN
)

var unitTypeNames = []string{"invalid", "angle", "distance", "time", "n"}

func (u UnitType) String() string {
	if u < 0 || u >= UnitN {
		return "invalid"
	}
	return unitTypeNames[u]
}

func unitTypeByName(name string) UnitType {
	for i, n := range unitTypeNames[:UnitN] {
		if n == name {
			return UnitType(i)
		}
	}
	return UnitInvalid
}

// EnumFields is the ordered name-to-value table of a [KindEnum]
// attribute. Field order is declaration order, independent of the
// numeric values, and lookups go through an index map so that repeated
// name resolution stays cheap.
type EnumFields struct {

	// Names is the ordered list of field names.
	Names []string

	// Values is the numeric value for each field, in the same order
	// as [EnumFields.Names].
	Values []int

	// indexes is the name-to-index mapping.
	indexes map[string]int
}

func (ef *EnumFields) initIndexes() {
	if ef.indexes == nil {
		ef.indexes = make(map[string]int)
	}
}

// Add appends a field with the given name and value. An error is
// returned if the name is already present.
func (ef *EnumFields) Add(name string, value int) error {
	ef.initIndexes()
	if _, ok := ef.indexes[name]; ok {
		return fmt.Errorf("%w: duplicate enum field %q", ErrBadAttrSpec, name)
	}
	ef.indexes[name] = len(ef.Names)
	ef.Names = append(ef.Names, name)
	ef.Values = append(ef.Values, value)
	return nil
}

// Len returns the number of fields.
func (ef *EnumFields) Len() int {
	if ef == nil {
		return 0
	}
	return len(ef.Names)
}

// ValueOf returns the numeric value of the named field,
// with false for a missing name.
func (ef *EnumFields) ValueOf(name string) (int, bool) {
	if ef == nil {
		return 0, false
	}
	idx, ok := ef.indexes[name]
	if !ok {
		return 0, false
	}
	return ef.Values[idx], true
}

// NameOf returns the field name for the given numeric value,
// with false if no field carries it.
func (ef *EnumFields) NameOf(value int) (string, bool) {
	if ef == nil {
		return "", false
	}
	for i, v := range ef.Values {
		if v == value {
			return ef.Names[i], true
		}
	}
	return "", false
}

// HasValue reports whether some field carries the given numeric value.
func (ef *EnumFields) HasValue(value int) bool {
	_, ok := ef.NameOf(value)
	return ok
}

// updateIndexes rebuilds the name index from Names. This must be
// called after loading fields from a file.
func (ef *EnumFields) updateIndexes() {
	ef.indexes = make(map[string]int)
	for i, n := range ef.Names {
		ef.indexes[n] = i
	}
}

func (ef *EnumFields) String() string {
	sv := "{"
	for i, n := range ef.Names {
		sv += fmt.Sprintf("%s=%d, ", n, ef.Values[i])
	}
	sv += "}"
	return sv
}

// AttrDef describes one attribute: its naming, storage category and
// constraints. Static definitions are shared templates owned by a
// [NodeType]; dynamic definitions are owned by the node they were
// added to. Value storage lives in per-node instances, never here.
type AttrDef struct {

	// Name is the long name, unique within a node across all
	// definition levels.
	Name string

	// Short is the abbreviated name, resolvable anywhere the long
	// name is.
	Short string

	// Kind is the storage category.
	Kind AttrKind

	// Numeric is the element layout for [KindNumeric].
	Numeric NumericType

	// Unit is the unit dimension for [KindUnit].
	Unit UnitType

	// Default is the initial value in canonical internal form.
	// A nil Default means the zero value for the category.
	Default any

	// Min and Max are the hard range bounds for scalar numeric and
	// unit attributes, in internal units. Writes outside them are
	// rejected. A nil bound is unconstrained.
	Min, Max *float32

	// SoftMin and SoftMax are advisory display bounds.
	SoftMin, SoftMax *float32

	// Keyable marks the attribute as animateable in channel editors.
	Keyable bool

	// Readable and Writable control connection direction and writes.
	Readable, Writable bool

	// Array marks the attribute as a sparse logical-index array.
	Array bool

	// UsedAsColor marks a float3 numeric as a color value.
	UsedAsColor bool

	// Computed marks the value as derived on read; computed
	// attributes reject writes and connections into them.
	Computed bool

	// Fields is the name table for [KindEnum].
	Fields *EnumFields

	// Children are the child definitions for [KindCompound], in
	// declaration order.
	Children []*AttrDef

	// parent is the owning compound definition, nil at top level.
	parent *AttrDef

	// dynamic marks a definition added to one node after creation,
	// as opposed to part of the node type.
	dynamic bool
}

// NewAttrDef returns a definition with the given long name and kind,
// readable and writable, with the short name defaulted to the long
// name.
func NewAttrDef(name string, kind AttrKind) *AttrDef {
	return &AttrDef{Name: name, Short: name, Kind: kind, Readable: true, Writable: true}
}

// SetShort sets the short name and returns the definition.
func (ad *AttrDef) SetShort(short string) *AttrDef {
	ad.Short = short
	return ad
}

// SetNumeric sets the numeric layout and returns the definition.
func (ad *AttrDef) SetNumeric(n NumericType) *AttrDef {
	ad.Numeric = n
	return ad
}

// SetUnit sets the unit dimension and returns the definition.
func (ad *AttrDef) SetUnit(u UnitType) *AttrDef {
	ad.Unit = u
	return ad
}

// SetDefault sets the default value and returns the definition.
// The value must already be in canonical internal form.
func (ad *AttrDef) SetDefault(v any) *AttrDef {
	ad.Default = v
	return ad
}

// SetRange sets the hard min and max bounds and returns the definition.
func (ad *AttrDef) SetRange(min, max float32) *AttrDef {
	ad.Min = &min
	ad.Max = &max
	return ad
}

// SetMin sets the hard lower bound and returns the definition.
func (ad *AttrDef) SetMin(min float32) *AttrDef {
	ad.Min = &min
	return ad
}

// SetMax sets the hard upper bound and returns the definition.
func (ad *AttrDef) SetMax(max float32) *AttrDef {
	ad.Max = &max
	return ad
}

// SetSoftRange sets the advisory bounds and returns the definition.
func (ad *AttrDef) SetSoftRange(min, max float32) *AttrDef {
	ad.SoftMin = &min
	ad.SoftMax = &max
	return ad
}

// SetKeyable sets the keyable flag and returns the definition.
func (ad *AttrDef) SetKeyable(on bool) *AttrDef {
	ad.Keyable = on
	return ad
}

// SetArray sets the array flag and returns the definition.
func (ad *AttrDef) SetArray(on bool) *AttrDef {
	ad.Array = on
	return ad
}

// SetUsedAsColor sets the color flag and returns the definition.
func (ad *AttrDef) SetUsedAsColor(on bool) *AttrDef {
	ad.UsedAsColor = on
	return ad
}

// SetComputed marks the attribute as derived on read. Computed
// attributes are readable only.
func (ad *AttrDef) SetComputed() *AttrDef {
	ad.Computed = true
	ad.Writable = false
	return ad
}

// SetWritable sets the writable flag and returns the definition.
func (ad *AttrDef) SetWritable(on bool) *AttrDef {
	ad.Writable = on
	return ad
}

// SetReadable sets the readable flag and returns the definition.
func (ad *AttrDef) SetReadable(on bool) *AttrDef {
	ad.Readable = on
	return ad
}

// AddField appends an enum field, allocating the field table on first
// use. Invalid on non-enum definitions.
func (ad *AttrDef) AddField(name string, value int) *AttrDef {
	if ad.Fields == nil {
		ad.Fields = &EnumFields{}
	}
	ad.Fields.Add(name, value)
	return ad
}

// AddChildren appends child definitions to a compound, setting their
// parent link, and returns the definition.
func (ad *AttrDef) AddChildren(children ...*AttrDef) *AttrDef {
	for _, c := range children {
		c.parent = ad
		ad.Children = append(ad.Children, c)
	}
	return ad
}

// Parent returns the owning compound definition, nil at top level.
func (ad *AttrDef) Parent() *AttrDef {
	return ad.parent
}

// Root returns the top-level definition this one descends from,
// which is the definition itself when it has no parent.
func (ad *AttrDef) Root() *AttrDef {
	r := ad
	for r.parent != nil {
		r = r.parent
	}
	return r
}

// IsCompound reports whether the definition has child definitions.
func (ad *AttrDef) IsCompound() bool {
	return ad.Kind == KindCompound
}

// IsDynamic reports whether this definition was added to a node after
// creation rather than being part of its type.
func (ad *AttrDef) IsDynamic() bool {
	return ad.dynamic
}

// Child returns the child definition with the given long or short
// name, nil if none.
func (ad *AttrDef) Child(name string) *AttrDef {
	for _, c := range ad.Children {
		if c.Name == name || c.Short == name {
			return c
		}
	}
	return nil
}

// ChildIndex returns the declaration position of the given child
// definition, -1 if it is not a child of this one.
func (ad *AttrDef) ChildIndex(child *AttrDef) int {
	for i, c := range ad.Children {
		if c == child {
			return i
		}
	}
	return -1
}

// Path returns the dotted definition path from the top level, for
// example "translate.translateX".
func (ad *AttrDef) Path() string {
	if ad.parent == nil {
		return ad.Name
	}
	return ad.parent.Path() + "." + ad.Name
}

// Clone returns a deep copy of the definition tree, with parent links
// rebuilt. Duplication clones dynamic definitions onto the copy so
// that per-node state never aliases another node's definitions.
func (ad *AttrDef) Clone() *AttrDef {
	cp := &AttrDef{}
	if err := copier.CopyWithOption(cp, ad, copier.Option{DeepCopy: true}); err != nil {
		return nil
	}
	cp.relink(nil)
	cp.setDynamicAll(ad.dynamic)
	return cp
}

// setDynamicAll sets the dynamic flag through the whole definition
// tree.
func (ad *AttrDef) setDynamicAll(on bool) {
	ad.dynamic = on
	for _, c := range ad.Children {
		c.setDynamicAll(on)
	}
}

func (ad *AttrDef) relink(parent *AttrDef) {
	ad.parent = parent
	if ad.Fields != nil {
		ad.Fields.updateIndexes()
	}
	for _, c := range ad.Children {
		c.relink(ad)
	}
}

// Validate checks the definition tree for internal consistency.
func (ad *AttrDef) Validate() error {
	if ad.Name == "" {
		return fmt.Errorf("%w: empty name", ErrBadAttrSpec)
	}
	if strings.ContainsAny(ad.Name, ".|[] ") || strings.ContainsAny(ad.Short, ".|[] ") {
		return fmt.Errorf("%w: %q: name contains reserved characters", ErrBadAttrSpec, ad.Name)
	}
	switch ad.Kind {
	case KindNumeric:
		if ad.Numeric <= NumInvalid || ad.Numeric >= NumN {
			return fmt.Errorf("%w: %q: numeric attribute without layout", ErrBadAttrSpec, ad.Name)
		}
	case KindUnit:
		if ad.Unit <= UnitInvalid || ad.Unit >= UnitN {
			return fmt.Errorf("%w: %q: unit attribute without dimension", ErrBadAttrSpec, ad.Name)
		}
	case KindEnum:
		if ad.Fields.Len() == 0 {
			return fmt.Errorf("%w: %q: enum attribute without fields", ErrBadAttrSpec, ad.Name)
		}
	case KindCompound:
		if len(ad.Children) == 0 {
			return fmt.Errorf("%w: %q: compound attribute without children", ErrBadAttrSpec, ad.Name)
		}
	case KindString, KindMatrix, KindMessage, KindGeneric:
	default:
		return fmt.Errorf("%w: %q: invalid kind", ErrBadAttrSpec, ad.Name)
	}
	if ad.Kind != KindCompound && len(ad.Children) > 0 {
		return fmt.Errorf("%w: %q: children on non-compound", ErrBadAttrSpec, ad.Name)
	}
	if ad.Default != nil {
		if _, err := canonicalValue(ad, ad.Default); err != nil {
			return fmt.Errorf("%w: %q: bad default: %w", ErrBadAttrSpec, ad.Name, err)
		}
	}
	for _, c := range ad.Children {
		if err := c.Validate(); err != nil {
			return err
		}
	}
	return nil
}

// defaultValue returns the initial canonical value for one scalar
// instance of the definition, including array elements. Compound and
// message defaults are nil; storage for those lives in their
// children.
func (ad *AttrDef) defaultValue() any {
	if ad.Kind == KindCompound || ad.Kind == KindMessage {
		return nil
	}
	if ad.Default != nil {
		v, err := canonicalValue(ad, ad.Default)
		if err == nil {
			return v
		}
	}
	switch ad.Kind {
	case KindNumeric:
		switch ad.Numeric {
		case NumBool:
			return false
		case NumInt:
			return 0
		case NumFloat:
			return float32(0)
		case NumFloat2:
			return math32.Vector2{}
		case NumFloat3:
			return math32.Vector3{}
		case NumFloat4:
			return math32.Vector4{}
		case NumInt2:
			return [2]int{}
		case NumInt3:
			return [3]int{}
		}
	case KindUnit:
		return float32(0)
	case KindString:
		return ""
	case KindMatrix:
		return math32.Identity4()
	case KindEnum:
		if ad.Fields.Len() > 0 {
			return ad.Fields.Values[0]
		}
		return 0
	case KindGeneric:
		return nil
	}
	return nil
}

// canonicalValue checks v against the definition's storage category
// and returns it in canonical form. It accepts only canonical Go
// types; unit and display conversion happen in the layers above.
func canonicalValue(ad *AttrDef, v any) (any, error) {
	fail := func() (any, error) {
		return nil, fmt.Errorf("%w: %T for %s attribute %q", ErrValueType, v, ad.Kind, ad.Name)
	}
	switch ad.Kind {
	case KindNumeric:
		switch ad.Numeric {
		case NumBool:
			if b, ok := v.(bool); ok {
				return b, nil
			}
		case NumInt:
			if i, ok := v.(int); ok {
				return i, checkRange(ad, float32(i))
			}
		case NumFloat:
			if f, ok := v.(float32); ok {
				return f, checkRange(ad, f)
			}
		case NumFloat2:
			if t, ok := v.(math32.Vector2); ok {
				return t, nil
			}
		case NumFloat3:
			if t, ok := v.(math32.Vector3); ok {
				return t, nil
			}
		case NumFloat4:
			if t, ok := v.(math32.Vector4); ok {
				return t, nil
			}
		case NumInt2:
			if t, ok := v.([2]int); ok {
				return t, nil
			}
		case NumInt3:
			if t, ok := v.([3]int); ok {
				return t, nil
			}
		}
		return fail()
	case KindUnit:
		if f, ok := v.(float32); ok {
			return f, checkRange(ad, f)
		}
		return fail()
	case KindString:
		if s, ok := v.(string); ok {
			return s, nil
		}
		return fail()
	case KindMatrix:
		if m, ok := v.(math32.Matrix4); ok {
			return m, nil
		}
		return fail()
	case KindEnum:
		if i, ok := v.(int); ok {
			if !ad.Fields.HasValue(i) {
				return nil, fmt.Errorf("%w: %d is not a field of enum %q", ErrOutOfRange, i, ad.Name)
			}
			return i, nil
		}
		return fail()
	case KindGeneric:
		switch v.(type) {
		case bool, int, float32, string, math32.Vector2, math32.Vector3, math32.Vector4, math32.Matrix4:
			return v, nil
		}
		return fail()
	case KindMessage:
		return nil, fmt.Errorf("%w: message attribute %q holds no value", ErrValueType, ad.Name)
	case KindCompound:
		return nil, fmt.Errorf("%w: compound attribute %q holds no scalar value", ErrValueType, ad.Name)
	}
	return fail()
}

// checkRange enforces the hard bounds on a scalar, in internal units.
func checkRange(ad *AttrDef, f float32) error {
	if ad.Min != nil && f < *ad.Min {
		return fmt.Errorf("%w: %v below minimum %v for %q", ErrOutOfRange, f, *ad.Min, ad.Name)
	}
	if ad.Max != nil && f > *ad.Max {
		return fmt.Errorf("%w: %v above maximum %v for %q", ErrOutOfRange, f, *ad.Max, ad.Name)
	}
	return nil
}
