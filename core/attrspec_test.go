// Copyright (c) 2025, The Gomaya Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package core

import (
	"testing"

	"github.com/Pahuska/gomaya/math32"
	"github.com/Pahuska/gomaya/scene"
	"github.com/Pahuska/gomaya/units"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParseEnumFields(t *testing.T) {
	fields, err := ParseEnumFields("blue:green:red")
	require.NoError(t, err)
	assert.Equal(t, []EnumField{{"blue", 0}, {"green", 1}, {"red", 2}}, fields)

	fields, err = ParseEnumFields("one=1:twenty=20")
	require.NoError(t, err)
	assert.Equal(t, []EnumField{{"one", 1}, {"twenty", 20}}, fields)

	// an explicit value resets the counter
	fields, err = ParseEnumFields("a:b=5:c")
	require.NoError(t, err)
	assert.Equal(t, []EnumField{{"a", 0}, {"b", 5}, {"c", 6}}, fields)

	_, err = ParseEnumFields("=3")
	assert.ErrorIs(t, err, ErrTypeMismatch)
	assert.ErrorContains(t, err, "empty enum field")
	_, err = ParseEnumFields("x=abc")
	assert.ErrorIs(t, err, ErrTypeMismatch)
	assert.ErrorContains(t, err, `enum value "abc"`)
	_, err = ParseEnumFields("")
	assert.ErrorIs(t, err, ErrTypeMismatch)
}

func TestSpecToDef(t *testing.T) {
	restoreUnits(t)
	units.SetUIAngle(units.Degrees)

	def, err := (&AttributeSpec{Name: "amount", Data: DataFloat}).toDef()
	require.NoError(t, err)
	assert.Equal(t, scene.KindNumeric, def.Kind)
	assert.Equal(t, scene.NumFloat, def.Numeric)
	assert.Equal(t, "amount", def.Short)

	def, err = (&AttributeSpec{Name: "amount", Data: DataFloat, Short: "amt", Keyable: true, Array: true}).toDef()
	require.NoError(t, err)
	assert.Equal(t, "amt", def.Short)
	assert.True(t, def.Keyable)
	assert.True(t, def.Array)

	// unit defaults and bounds are given in UI units, stored internal
	def, err = (&AttributeSpec{Name: "swing", Data: DataAngle, Default: 90, Min: fptr(-90), Max: fptr(90)}).toDef()
	require.NoError(t, err)
	assert.Equal(t, scene.KindUnit, def.Kind)
	assert.Equal(t, scene.UnitAngle, def.Unit)
	assert.InDelta(t, math32.DegToRad(90), def.Default, 1e-5)
	require.NotNil(t, def.Min)
	assert.InDelta(t, math32.DegToRad(-90), *def.Min, 1e-5)
	require.NotNil(t, def.Max)
	assert.InDelta(t, math32.DegToRad(90), *def.Max, 1e-5)

	def, err = (&AttributeSpec{Name: "tint", Data: DataColor}).toDef()
	require.NoError(t, err)
	assert.Equal(t, scene.NumFloat3, def.Numeric)
	assert.True(t, def.UsedAsColor)
	def, err = (&AttributeSpec{Name: "pivot", Data: DataPoint}).toDef()
	require.NoError(t, err)
	assert.Equal(t, scene.NumFloat3, def.Numeric)
	assert.False(t, def.UsedAsColor)

	def, err = (&AttributeSpec{Name: "tone", Data: DataEnum, Enum: "a:b=5:c"}).toDef()
	require.NoError(t, err)
	require.NotNil(t, def.Fields)
	v, ok := def.Fields.ValueOf("c")
	assert.True(t, ok)
	assert.Equal(t, 6, v)
	name, ok := def.Fields.NameOf(5)
	assert.True(t, ok)
	assert.Equal(t, "b", name)

	def, err = (&AttributeSpec{Name: "offset", Data: DataCompound, Children: []*AttributeSpec{
		{Name: "offsetX", Data: DataFloat},
		{Name: "offsetY", Data: DataFloat},
	}}).toDef()
	require.NoError(t, err)
	assert.Equal(t, scene.KindCompound, def.Kind)
	require.Len(t, def.Children, 2)
	assert.Equal(t, "offsetX", def.Children[0].Name)

	def, err = (&AttributeSpec{Name: "hidden", Data: DataFloat, ReadOnly: true}).toDef()
	require.NoError(t, err)
	assert.False(t, def.Writable)
	assert.True(t, def.Readable)
	def, err = (&AttributeSpec{Name: "sink", Data: DataFloat, WriteOnly: true}).toDef()
	require.NoError(t, err)
	assert.False(t, def.Readable)
}

func TestSpecToDefErrors(t *testing.T) {
	_, err := (&AttributeSpec{Data: DataFloat}).toDef()
	assert.ErrorIs(t, err, ErrTypeMismatch)
	assert.ErrorContains(t, err, "without a name")

	_, err = (&AttributeSpec{Name: "x", Data: DataInvalid}).toDef()
	assert.ErrorIs(t, err, ErrUnsupportedType)
	assert.ErrorContains(t, err, "cannot be created")

	_, err = (&AttributeSpec{Name: "x", Data: DataFloat, ReadOnly: true, WriteOnly: true}).toDef()
	assert.ErrorIs(t, err, ErrTypeMismatch)
	assert.ErrorContains(t, err, "both read-only and write-only")

	_, err = (&AttributeSpec{Name: "x", Data: DataEnum}).toDef()
	assert.ErrorIs(t, err, ErrTypeMismatch)
	assert.ErrorContains(t, err, "without fields")

	_, err = (&AttributeSpec{Name: "x", Data: DataEnum, EnumFields: []EnumField{{"a", 0}, {"a", 1}}}).toDef()
	assert.ErrorIs(t, err, ErrTypeMismatch)
	assert.ErrorContains(t, err, "duplicate enum field")

	_, err = (&AttributeSpec{Name: "x", Data: DataString, Min: fptr(0)}).toDef()
	assert.ErrorIs(t, err, ErrTypeMismatch)
	assert.ErrorContains(t, err, "takes no range")

	_, err = (&AttributeSpec{Name: "x", Data: DataCompound, Default: 1}).toDef()
	assert.ErrorIs(t, err, ErrTypeMismatch)
	assert.ErrorContains(t, err, "takes no default")

	_, err = (&AttributeSpec{Name: "x", Data: DataFloat, Children: []*AttributeSpec{{Name: "y", Data: DataFloat}}}).toDef()
	assert.ErrorIs(t, err, ErrTypeMismatch)
	assert.ErrorContains(t, err, "children on non-compound")
}

func TestSpecClone(t *testing.T) {
	spec := &AttributeSpec{
		Name:       "offset",
		Data:       DataCompound,
		EnumFields: []EnumField{{"a", 0}},
		Min:        fptr(1),
		Children:   []*AttributeSpec{{Name: "offsetX", Data: DataFloat}},
	}
	cp := spec.Clone()
	require.NotNil(t, cp)
	assert.Equal(t, spec, cp)
	assert.NotSame(t, spec.Min, cp.Min)

	spec.Children[0].Name = "mutated"
	*spec.Min = 99
	spec.EnumFields[0].Name = "mutated"
	assert.Equal(t, "offsetX", cp.Children[0].Name)
	assert.InDelta(t, 1, *cp.Min, 1e-6)
	assert.Equal(t, "a", cp.EnumFields[0].Name)
}
