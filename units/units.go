// Copyright (c) 2025, The Gomaya Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

// Package units provides angle, distance, and time values that carry
// their unit, plus conversion between the scene graph's internal units
// (radians, centimeters, seconds) and the user-facing UI units.
//
// The UI units are process-wide state, like the host application's
// preference settings: attribute reads and writes of unit-typed values
// convert through them. Everything here assumes the single-threaded
// execution model of the rest of the module.
package units

import "fmt"

// AngleUnit is a unit of angular measure.
type AngleUnit int32

const (
	Radians AngleUnit = iota
	Degrees
)

func (u AngleUnit) String() string {
	switch u {
	case Radians:
		return "rad"
	case Degrees:
		return "deg"
	}
	return "invalid"
}

// radiansPer returns the number of radians in one of the given unit.
func radiansPer(u AngleUnit) float32 {
	if u == Degrees {
		return pi / 180
	}
	return 1
}

// DistanceUnit is a unit of linear measure.
type DistanceUnit int32

const (
	Centimeters DistanceUnit = iota
	Millimeters
	Meters
	Kilometers
	Inches
	Feet
	Yards
)

func (u DistanceUnit) String() string {
	switch u {
	case Centimeters:
		return "cm"
	case Millimeters:
		return "mm"
	case Meters:
		return "m"
	case Kilometers:
		return "km"
	case Inches:
		return "in"
	case Feet:
		return "ft"
	case Yards:
		return "yd"
	}
	return "invalid"
}

// centimetersPer returns the number of centimeters in one of the given unit.
func centimetersPer(u DistanceUnit) float32 {
	switch u {
	case Millimeters:
		return 0.1
	case Meters:
		return 100
	case Kilometers:
		return 100000
	case Inches:
		return 2.54
	case Feet:
		return 30.48
	case Yards:
		return 91.44
	}
	return 1
}

// TimeUnit is a unit of time, either an absolute unit or a frame rate.
type TimeUnit int32

const (
	Seconds TimeUnit = iota
	Milliseconds
	Minutes
	Film24   // frames at 24 fps
	PAL25    // frames at 25 fps
	NTSC30   // frames at 30 fps
	Show48   // frames at 48 fps
	PAL50    // fields at 50 fps
	NTSC60   // fields at 60 fps
)

func (u TimeUnit) String() string {
	switch u {
	case Seconds:
		return "sec"
	case Milliseconds:
		return "ms"
	case Minutes:
		return "min"
	case Film24:
		return "film"
	case PAL25:
		return "pal"
	case NTSC30:
		return "ntsc"
	case Show48:
		return "show"
	case PAL50:
		return "palf"
	case NTSC60:
		return "ntscf"
	}
	return "invalid"
}

// secondsPer returns the number of seconds in one of the given unit.
func secondsPer(u TimeUnit) float32 {
	switch u {
	case Milliseconds:
		return 0.001
	case Minutes:
		return 60
	case Film24:
		return 1.0 / 24
	case PAL25:
		return 1.0 / 25
	case NTSC30:
		return 1.0 / 30
	case Show48:
		return 1.0 / 48
	case PAL50:
		return 1.0 / 50
	case NTSC60:
		return 1.0 / 60
	}
	return 1
}

const pi = 3.14159265358979323846

// UI units, defaulting to the host application's defaults.
var (
	uiAngle    = Degrees
	uiDistance = Centimeters
	uiTime     = Film24
)

// UIAngle returns the current UI angle unit.
func UIAngle() AngleUnit { return uiAngle }

// SetUIAngle sets the UI angle unit.
func SetUIAngle(u AngleUnit) { uiAngle = u }

// UIDistance returns the current UI distance unit.
func UIDistance() DistanceUnit { return uiDistance }

// SetUIDistance sets the UI distance unit.
func SetUIDistance(u DistanceUnit) { uiDistance = u }

// UITime returns the current UI time unit.
func UITime() TimeUnit { return uiTime }

// SetUITime sets the UI time unit.
func SetUITime(u TimeUnit) { uiTime = u }

// Angle is an angular value carrying its unit.
type Angle struct {
	Value float32
	Unit  AngleUnit
}

// Rad returns an angle in radians.
func Rad(v float32) Angle { return Angle{Value: v, Unit: Radians} }

// Deg returns an angle in degrees.
func Deg(v float32) Angle { return Angle{Value: v, Unit: Degrees} }

// UIAngleValue returns an angle in the current UI unit.
func UIAngleValue(v float32) Angle { return Angle{Value: v, Unit: uiAngle} }

// Radians returns the value converted to radians.
func (a Angle) Radians() float32 { return a.Value * radiansPer(a.Unit) }

// Degrees returns the value converted to degrees.
func (a Angle) Degrees() float32 { return a.In(Degrees) }

// In returns the value converted to the given unit.
func (a Angle) In(u AngleUnit) float32 {
	return a.Radians() / radiansPer(u)
}

// UI returns the value converted to the current UI angle unit.
func (a Angle) UI() float32 { return a.In(uiAngle) }

func (a Angle) String() string { return fmt.Sprintf("%g%s", a.Value, a.Unit) }

// Distance is a linear value carrying its unit.
type Distance struct {
	Value float32
	Unit  DistanceUnit
}

// Cm returns a distance in centimeters.
func Cm(v float32) Distance { return Distance{Value: v, Unit: Centimeters} }

// Mm returns a distance in millimeters.
func Mm(v float32) Distance { return Distance{Value: v, Unit: Millimeters} }

// M returns a distance in meters.
func M(v float32) Distance { return Distance{Value: v, Unit: Meters} }

// UIDistanceValue returns a distance in the current UI unit.
func UIDistanceValue(v float32) Distance { return Distance{Value: v, Unit: uiDistance} }

// Centimeters returns the value converted to centimeters.
func (d Distance) Centimeters() float32 { return d.Value * centimetersPer(d.Unit) }

// In returns the value converted to the given unit.
func (d Distance) In(u DistanceUnit) float32 {
	return d.Centimeters() / centimetersPer(u)
}

// UI returns the value converted to the current UI distance unit.
func (d Distance) UI() float32 { return d.In(uiDistance) }

func (d Distance) String() string { return fmt.Sprintf("%g%s", d.Value, d.Unit) }

// Time is a time value carrying its unit.
type Time struct {
	Value float32
	Unit  TimeUnit
}

// Sec returns a time in seconds.
func Sec(v float32) Time { return Time{Value: v, Unit: Seconds} }

// Frames returns a time in the current UI time unit, which is normally
// a frame rate.
func Frames(v float32) Time { return Time{Value: v, Unit: uiTime} }

// Seconds returns the value converted to seconds.
func (t Time) Seconds() float32 { return t.Value * secondsPer(t.Unit) }

// In returns the value converted to the given unit.
func (t Time) In(u TimeUnit) float32 {
	return t.Seconds() / secondsPer(u)
}

// UI returns the value converted to the current UI time unit.
func (t Time) UI() float32 { return t.In(uiTime) }

func (t Time) String() string { return fmt.Sprintf("%g%s", t.Value, t.Unit) }

// Internal-vs-UI conversion helpers used by attribute value marshalling.
// Internal units are radians, centimeters, and seconds.

// AngleToUI converts an internal (radians) value to the UI angle unit.
func AngleToUI(internal float32) float32 { return Rad(internal).UI() }

// AngleToInternal converts a UI-unit angle value to radians.
func AngleToInternal(ui float32) float32 { return UIAngleValue(ui).Radians() }

// DistanceToUI converts an internal (centimeters) value to the UI
// distance unit.
func DistanceToUI(internal float32) float32 { return Cm(internal).UI() }

// DistanceToInternal converts a UI-unit distance value to centimeters.
func DistanceToInternal(ui float32) float32 { return UIDistanceValue(ui).Centimeters() }

// TimeToUI converts an internal (seconds) value to the UI time unit.
func TimeToUI(internal float32) float32 { return Sec(internal).UI() }

// TimeToInternal converts a UI-unit time value to seconds.
func TimeToInternal(ui float32) float32 { return Frames(ui).Seconds() }
