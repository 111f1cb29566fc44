// Copyright (c) 2025, The Gomaya Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package core

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/Pahuska/gomaya/scene"
	"github.com/jinzhu/copier"
)

// EnumField is one named value of an enum attribute declaration.
type EnumField struct {
	Name  string
	Value int
}

// AttributeSpec declares a dynamic attribute for [Session.CreateAttr].
// Unlike the storage-level definition it speaks wrapper conventions:
// defaults and bounds in UI units, enum fields by name, read and
// write restrictions as flags.
type AttributeSpec struct {

	// Name is the long name, unique on the node.
	Name string

	// Short is the abbreviated name, defaulted to Name.
	Short string

	// Data is the value category. [DataColor] and [DataPoint] create
	// float3 storage.
	Data DataType

	// Enum declares the fields of a [DataEnum] attribute as a colon
	// list, "blue:green:red" or "one=1:twenty=20". Values count up
	// from zero; an explicit value resets the counter.
	Enum string

	// EnumFields declares the fields directly, taking precedence over
	// Enum.
	EnumFields []EnumField

	// Default is the initial value, in UI units. Enum defaults may be
	// field names.
	Default any

	// Min and Max are the hard bounds, in UI units.
	Min, Max *float32

	// SoftMin and SoftMax are the advisory bounds, in UI units.
	SoftMin, SoftMax *float32

	// Keyable marks the attribute as animateable in channel editors.
	Keyable bool

	// Array makes the attribute a sparse logical-index array.
	Array bool

	// ReadOnly rejects writes and incoming connections; WriteOnly
	// rejects outgoing ones.
	ReadOnly, WriteOnly bool

	// Children are the child declarations of a [DataCompound].
	Children []*AttributeSpec
}

// Clone returns a deep copy of the spec tree.
func (as *AttributeSpec) Clone() *AttributeSpec {
	cp := &AttributeSpec{}
	if err := copier.CopyWithOption(cp, as, copier.Option{DeepCopy: true}); err != nil {
		return nil
	}
	return cp
}

// ParseEnumFields parses a colon-list enum declaration, for example
// "blue:green:red" or "one=1:twenty=20". Values count up from zero;
// an explicit value resets the counter.
func ParseEnumFields(s string) ([]EnumField, error) {
	var out []EnumField
	next := 0
	for _, part := range strings.Split(s, ":") {
		name, val, has := strings.Cut(part, "=")
		name = strings.TrimSpace(name)
		if name == "" {
			return nil, fmt.Errorf("%w: empty enum field in %q", ErrTypeMismatch, s)
		}
		if has {
			v, err := strconv.Atoi(strings.TrimSpace(val))
			if err != nil {
				return nil, fmt.Errorf("%w: enum value %q in %q", ErrTypeMismatch, val, s)
			}
			next = v
		}
		out = append(out, EnumField{Name: name, Value: next})
		next++
	}
	return out, nil
}

// fields returns the declared enum fields, parsing the colon list
// when no direct table is given.
func (as *AttributeSpec) fields() ([]EnumField, error) {
	if len(as.EnumFields) > 0 {
		return as.EnumFields, nil
	}
	if as.Enum == "" {
		return nil, nil
	}
	return ParseEnumFields(as.Enum)
}

// toDef lowers the spec into a storage definition, converting
// defaults and bounds into internal units.
func (as *AttributeSpec) toDef() (*scene.AttrDef, error) {
	if as.Name == "" {
		return nil, fmt.Errorf("%w: attribute spec without a name", ErrTypeMismatch)
	}
	var def *scene.AttrDef
	switch as.Data {
	case DataBool:
		def = scene.NewAttrDef(as.Name, scene.KindNumeric).SetNumeric(scene.NumBool)
	case DataInt:
		def = scene.NewAttrDef(as.Name, scene.KindNumeric).SetNumeric(scene.NumInt)
	case DataFloat:
		def = scene.NewAttrDef(as.Name, scene.KindNumeric).SetNumeric(scene.NumFloat)
	case DataFloat2:
		def = scene.NewAttrDef(as.Name, scene.KindNumeric).SetNumeric(scene.NumFloat2)
	case DataFloat3:
		def = scene.NewAttrDef(as.Name, scene.KindNumeric).SetNumeric(scene.NumFloat3)
	case DataFloat4:
		def = scene.NewAttrDef(as.Name, scene.KindNumeric).SetNumeric(scene.NumFloat4)
	case DataInt2:
		def = scene.NewAttrDef(as.Name, scene.KindNumeric).SetNumeric(scene.NumInt2)
	case DataInt3:
		def = scene.NewAttrDef(as.Name, scene.KindNumeric).SetNumeric(scene.NumInt3)
	case DataColor:
		def = scene.NewAttrDef(as.Name, scene.KindNumeric).SetNumeric(scene.NumFloat3).SetUsedAsColor(true)
	case DataPoint:
		def = scene.NewAttrDef(as.Name, scene.KindNumeric).SetNumeric(scene.NumFloat3)
	case DataString:
		def = scene.NewAttrDef(as.Name, scene.KindString)
	case DataMatrix:
		def = scene.NewAttrDef(as.Name, scene.KindMatrix)
	case DataEnum:
		def = scene.NewAttrDef(as.Name, scene.KindEnum)
	case DataAngle:
		def = scene.NewAttrDef(as.Name, scene.KindUnit).SetUnit(scene.UnitAngle)
	case DataDistance:
		def = scene.NewAttrDef(as.Name, scene.KindUnit).SetUnit(scene.UnitDistance)
	case DataTime:
		def = scene.NewAttrDef(as.Name, scene.KindUnit).SetUnit(scene.UnitTime)
	case DataMessage:
		def = scene.NewAttrDef(as.Name, scene.KindMessage)
	case DataCompound:
		def = scene.NewAttrDef(as.Name, scene.KindCompound)
	case DataGeneric:
		def = scene.NewAttrDef(as.Name, scene.KindGeneric)
	default:
		return nil, fmt.Errorf("%w: %s attributes cannot be created", ErrUnsupportedType, as.Data)
	}
	if as.Short != "" {
		def.SetShort(as.Short)
	}
	if as.Array {
		def.SetArray(true)
	}
	if as.Keyable {
		def.SetKeyable(true)
	}
	if as.ReadOnly && as.WriteOnly {
		return nil, fmt.Errorf("%w: %q is both read-only and write-only", ErrTypeMismatch, as.Name)
	}
	if as.ReadOnly {
		def.SetWritable(false)
	}
	if as.WriteOnly {
		def.SetReadable(false)
	}
	if as.Data == DataEnum {
		fields, err := as.fields()
		if err != nil {
			return nil, err
		}
		if len(fields) == 0 {
			return nil, fmt.Errorf("%w: enum attribute %q without fields", ErrTypeMismatch, as.Name)
		}
		ef := &scene.EnumFields{}
		for _, f := range fields {
			if err := ef.Add(f.Name, f.Value); err != nil {
				return nil, wrapErr(err)
			}
		}
		def.Fields = ef
	}
	if as.Min != nil || as.Max != nil || as.SoftMin != nil || as.SoftMax != nil {
		if !rangeable(def) {
			return nil, fmt.Errorf("%w: %s attribute %q takes no range", ErrTypeMismatch, as.Data, as.Name)
		}
		def.Min = internalBound(def, as.Min)
		def.Max = internalBound(def, as.Max)
		def.SoftMin = internalBound(def, as.SoftMin)
		def.SoftMax = internalBound(def, as.SoftMax)
	}
	if as.Data == DataCompound {
		if as.Default != nil {
			return nil, fmt.Errorf("%w: compound %q takes no default; set them on the children", ErrTypeMismatch, as.Name)
		}
		for _, child := range as.Children {
			cd, err := child.toDef()
			if err != nil {
				return nil, err
			}
			def.AddChildren(cd)
		}
	} else if len(as.Children) > 0 {
		return nil, fmt.Errorf("%w: children on non-compound %q", ErrTypeMismatch, as.Name)
	}
	if as.Default != nil {
		dt := as.Data
		if dt == DataColor || dt == DataPoint {
			dt = DataFloat3
		}
		dv, err := coerceScalar(def, dt, as.Default)
		if err != nil {
			return nil, err
		}
		def.SetDefault(dv)
	}
	return def, nil
}
