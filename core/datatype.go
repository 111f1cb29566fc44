// Copyright (c) 2025, The Gomaya Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package core

import (
	"fmt"

	"github.com/Pahuska/gomaya/math32"
	"github.com/Pahuska/gomaya/scene"
	"github.com/Pahuska/gomaya/units"
)

// DataType is the wrapper-level value category of an attribute. It
// folds the scene storage kinds and their numeric and unit layouts
// into one probeable tag, so value marshalling can switch once
// instead of per kind and layout.
type DataType int32

const (
	DataInvalid DataType = iota

	DataBool
	DataInt
	DataFloat
	DataString
	DataEnum

	// DataAngle, DataDistance and DataTime are unit-bearing scalars.
	// Plain number reads and writes go through the session's UI
	// units; typed [units.Angle], [units.Distance] and [units.Time]
	// values bypass them.
	DataAngle
	DataDistance
	DataTime

	DataMatrix

	// DataMessage is a pure connection point. Reads resolve the
	// source node; writes are rejected.
	DataMessage

	DataFloat2
	DataFloat3
	DataFloat4
	DataInt2
	DataInt3

	// DataCompound reads and writes child values positionally.
	DataCompound

	// DataGeneric holds any scalar category, decided per write.
	DataGeneric

	// DataColor and DataPoint are creation-time aliases for float3,
	// accepted by [AttributeSpec] but never returned by probing.
	DataColor
	DataPoint

	DataN
)

var dataTypeNames = []string{"invalid", "bool", "int", "float", "string", "enum",
	"angle", "distance", "time", "matrix", "message",
	"float2", "float3", "float4", "int2", "int3",
	"compound", "generic", "color", "point", "n"}

func (dt DataType) String() string {
	if dt < 0 || dt >= DataN {
		return "invalid"
	}
	return dataTypeNames[dt]
}

// ProbeDataType returns the value category of an attribute
// definition.
func ProbeDataType(def *scene.AttrDef) (DataType, error) {
	switch def.Kind {
	case scene.KindNumeric:
		switch def.Numeric {
		case scene.NumBool:
			return DataBool, nil
		case scene.NumInt:
			return DataInt, nil
		case scene.NumFloat:
			return DataFloat, nil
		case scene.NumFloat2:
			return DataFloat2, nil
		case scene.NumFloat3:
			return DataFloat3, nil
		case scene.NumFloat4:
			return DataFloat4, nil
		case scene.NumInt2:
			return DataInt2, nil
		case scene.NumInt3:
			return DataInt3, nil
		}
	case scene.KindUnit:
		switch def.Unit {
		case scene.UnitAngle:
			return DataAngle, nil
		case scene.UnitDistance:
			return DataDistance, nil
		case scene.UnitTime:
			return DataTime, nil
		}
	case scene.KindString:
		return DataString, nil
	case scene.KindMatrix:
		return DataMatrix, nil
	case scene.KindEnum:
		return DataEnum, nil
	case scene.KindMessage:
		return DataMessage, nil
	case scene.KindCompound:
		return DataCompound, nil
	case scene.KindGeneric:
		return DataGeneric, nil
	}
	return DataInvalid, fmt.Errorf("%w: attribute %q has no value category", ErrUnsupportedType, def.Name)
}

// readPlug returns the wrapper-level value of a plug: unit scalars in
// the session's UI units, enums as value or field name, message plugs
// as the source's node wrapper (nil when unconnected), compounds as a
// child value slice, array roots as an element value slice over the
// existing indices.
func (s *Session) readPlug(p scene.Plug, asString bool) (any, error) {
	if p.IsArray() {
		idxs := p.ExistingIndices()
		out := make([]any, 0, len(idxs))
		for _, i := range idxs {
			el, err := p.Element(i)
			if err != nil {
				return nil, wrapErr(err)
			}
			v, err := s.readPlug(el, asString)
			if err != nil {
				return nil, err
			}
			out = append(out, v)
		}
		return out, nil
	}
	def := p.Def()
	dt, err := ProbeDataType(def)
	if err != nil {
		return nil, err
	}
	switch dt {
	case DataMessage:
		src := p.Source()
		if src.IsNil() {
			return nil, nil
		}
		return s.nodeObject(src.Node())
	case DataCompound:
		out := make([]any, 0, p.NumChildren())
		for _, c := range p.Children() {
			v, err := s.readPlug(c, asString)
			if err != nil {
				return nil, err
			}
			out = append(out, v)
		}
		return out, nil
	}
	raw, err := p.Value()
	if err != nil {
		return nil, wrapErr(err)
	}
	switch dt {
	case DataEnum:
		iv := raw.(int)
		if asString {
			name, ok := def.Fields.NameOf(iv)
			if !ok {
				return nil, fmt.Errorf("%w: %d is not a field of %s", ErrOutOfRange, iv, p.Name())
			}
			return name, nil
		}
		return iv, nil
	case DataAngle:
		raw = units.AngleToUI(raw.(float32))
	case DataDistance:
		raw = units.DistanceToUI(raw.(float32))
	case DataTime:
		raw = units.TimeToUI(raw.(float32))
	}
	if asString {
		return fmt.Sprint(raw), nil
	}
	return raw, nil
}

// writePlug coerces a wrapper-level value and enqueues the stores on
// the modifier. Compounds recurse positionally and fail closed on any
// length difference; array roots and message plugs reject writes.
func (s *Session) writePlug(md *scene.Modifier, p scene.Plug, v any) error {
	if p.IsArray() {
		return fmt.Errorf("%w: %s is an array; address an element", ErrTypeMismatch, p.Name())
	}
	def := p.Def()
	dt, err := ProbeDataType(def)
	if err != nil {
		return err
	}
	switch dt {
	case DataMessage:
		return fmt.Errorf("%w: message plug %s holds no value; connect to it instead", ErrTypeMismatch, p.Name())
	case DataCompound:
		vals, ok := asSlice(v)
		if !ok {
			return fmt.Errorf("%w: %T for compound %s", ErrTypeMismatch, v, p.Name())
		}
		if len(vals) != p.NumChildren() {
			return fmt.Errorf("%w: %d values for the %d children of %s", ErrArityMismatch, len(vals), p.NumChildren(), p.Name())
		}
		for i, cv := range vals {
			child, err := p.Child(i)
			if err != nil {
				return wrapErr(err)
			}
			if err := s.writePlug(md, child, cv); err != nil {
				return err
			}
		}
		return nil
	}
	cv, err := coerceScalar(def, dt, v)
	if err != nil {
		return err
	}
	return wrapErr(md.SetValue(p, cv))
}

// coerceScalar converts a wrapper-level value into the canonical
// stored form for one scalar plug, applying UI unit conversion for
// plain numbers on unit attributes.
func coerceScalar(def *scene.AttrDef, dt DataType, v any) (any, error) {
	fail := func() (any, error) {
		return nil, fmt.Errorf("%w: %T for %s attribute %q", ErrTypeMismatch, v, dt, def.Name)
	}
	switch dt {
	case DataBool:
		switch b := v.(type) {
		case bool:
			return b, nil
		case int:
			return b != 0, nil
		}
		return fail()
	case DataInt:
		if i, ok := asInt(v); ok {
			return i, nil
		}
		return fail()
	case DataFloat:
		if f, ok := asFloat(v); ok {
			return f, nil
		}
		return fail()
	case DataString:
		if sv, ok := v.(string); ok {
			return sv, nil
		}
		return fail()
	case DataEnum:
		if name, ok := v.(string); ok {
			val, ok := def.Fields.ValueOf(name)
			if !ok {
				return nil, fmt.Errorf("%w: %q is not a field of enum %q", ErrOutOfRange, name, def.Name)
			}
			return val, nil
		}
		if i, ok := asInt(v); ok {
			if _, ok := def.Fields.NameOf(i); !ok {
				return nil, fmt.Errorf("%w: %d is not a field of enum %q", ErrOutOfRange, i, def.Name)
			}
			return i, nil
		}
		return fail()
	case DataAngle:
		if a, ok := v.(units.Angle); ok {
			return a.Radians(), nil
		}
		if f, ok := asFloat(v); ok {
			return units.AngleToInternal(f), nil
		}
		return fail()
	case DataDistance:
		if d, ok := v.(units.Distance); ok {
			return d.Centimeters(), nil
		}
		if f, ok := asFloat(v); ok {
			return units.DistanceToInternal(f), nil
		}
		return fail()
	case DataTime:
		if t, ok := v.(units.Time); ok {
			return t.Seconds(), nil
		}
		if f, ok := asFloat(v); ok {
			return units.TimeToInternal(f), nil
		}
		return fail()
	case DataMatrix:
		switch m := v.(type) {
		case math32.Matrix4:
			return m, nil
		case *math32.Matrix4:
			return *m, nil
		}
		return fail()
	case DataFloat2:
		if t, ok := v.(math32.Vector2); ok {
			return t, nil
		}
		fs, err := asFloatTuple(def, v, 2)
		if err != nil {
			return nil, err
		}
		return math32.Vector2{X: fs[0], Y: fs[1]}, nil
	case DataFloat3:
		if t, ok := v.(math32.Vector3); ok {
			return t, nil
		}
		fs, err := asFloatTuple(def, v, 3)
		if err != nil {
			return nil, err
		}
		return math32.Vector3{X: fs[0], Y: fs[1], Z: fs[2]}, nil
	case DataFloat4:
		if t, ok := v.(math32.Vector4); ok {
			return t, nil
		}
		fs, err := asFloatTuple(def, v, 4)
		if err != nil {
			return nil, err
		}
		return math32.Vector4{X: fs[0], Y: fs[1], Z: fs[2], W: fs[3]}, nil
	case DataInt2:
		if t, ok := v.([2]int); ok {
			return t, nil
		}
		is, err := asIntTuple(def, v, 2)
		if err != nil {
			return nil, err
		}
		return [2]int{is[0], is[1]}, nil
	case DataInt3:
		if t, ok := v.([3]int); ok {
			return t, nil
		}
		is, err := asIntTuple(def, v, 3)
		if err != nil {
			return nil, err
		}
		return [3]int{is[0], is[1], is[2]}, nil
	case DataGeneric:
		return v, nil
	}
	return fail()
}

// asInt widens the integer forms callers commonly hold.
func asInt(v any) (int, bool) {
	switch i := v.(type) {
	case int:
		return i, true
	case int32:
		return int(i), true
	case int64:
		return int(i), true
	}
	return 0, false
}

// asFloat widens the number forms callers commonly hold.
func asFloat(v any) (float32, bool) {
	switch f := v.(type) {
	case float32:
		return f, true
	case float64:
		return float32(f), true
	case int:
		return float32(f), true
	}
	return 0, false
}

// asFloatTuple reads a fixed-length float tuple from a number slice.
// A slice of the wrong length is an arity error; anything else is a
// type error.
func asFloatTuple(def *scene.AttrDef, v any, n int) ([]float32, error) {
	var out []float32
	switch fs := v.(type) {
	case []float32:
		out = fs
	case []float64:
		out = make([]float32, len(fs))
		for i, f := range fs {
			out[i] = float32(f)
		}
	case []int:
		out = make([]float32, len(fs))
		for i, f := range fs {
			out[i] = float32(f)
		}
	default:
		return nil, fmt.Errorf("%w: %T for attribute %q", ErrTypeMismatch, v, def.Name)
	}
	if len(out) != n {
		return nil, fmt.Errorf("%w: %d values for the %d-tuple attribute %q", ErrArityMismatch, len(out), n, def.Name)
	}
	return out, nil
}

// asIntTuple reads a fixed-length int tuple.
func asIntTuple(def *scene.AttrDef, v any, n int) ([]int, error) {
	is, ok := v.([]int)
	if !ok {
		return nil, fmt.Errorf("%w: %T for attribute %q", ErrTypeMismatch, v, def.Name)
	}
	if len(is) != n {
		return nil, fmt.Errorf("%w: %d values for the %d-tuple attribute %q", ErrArityMismatch, len(is), n, def.Name)
	}
	return is, nil
}

// asSlice flattens the accepted compound value forms into a child
// value slice.
func asSlice(v any) ([]any, bool) {
	switch vs := v.(type) {
	case []any:
		return vs, true
	case []float32:
		out := make([]any, len(vs))
		for i, f := range vs {
			out[i] = f
		}
		return out, true
	case []float64:
		out := make([]any, len(vs))
		for i, f := range vs {
			out[i] = f
		}
		return out, true
	case []int:
		out := make([]any, len(vs))
		for i, f := range vs {
			out[i] = f
		}
		return out, true
	case math32.Vector2:
		return []any{vs.X, vs.Y}, true
	case math32.Vector3:
		return []any{vs.X, vs.Y, vs.Z}, true
	case math32.Vector4:
		return []any{vs.X, vs.Y, vs.Z, vs.W}, true
	}
	return nil, false
}
