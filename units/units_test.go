// Copyright (c) 2025, The Gomaya Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package units

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestAngleConversion(t *testing.T) {
	assert.InDelta(t, pi, Deg(180).Radians(), 1e-5)
	assert.InDelta(t, 180, Rad(pi).Degrees(), 1e-4)
	assert.InDelta(t, 90, Deg(90).In(Degrees), 1e-5)
}

func TestDistanceConversion(t *testing.T) {
	assert.InDelta(t, 100, M(1).Centimeters(), 1e-5)
	assert.InDelta(t, 2.54, Distance{Value: 1, Unit: Inches}.Centimeters(), 1e-5)
	assert.InDelta(t, 1, Cm(100).In(Meters), 1e-5)
	assert.InDelta(t, 1, Mm(10).In(Centimeters), 1e-5)
}

func TestTimeConversion(t *testing.T) {
	assert.InDelta(t, 1, Time{Value: 24, Unit: Film24}.Seconds(), 1e-5)
	assert.InDelta(t, 48, Sec(2).In(Film24), 1e-4)
	assert.InDelta(t, 0.5, Time{Value: 500, Unit: Milliseconds}.Seconds(), 1e-5)
}

func TestUIUnits(t *testing.T) {
	defer func() {
		SetUIAngle(Degrees)
		SetUIDistance(Centimeters)
		SetUITime(Film24)
	}()

	// defaults
	assert.Equal(t, Degrees, UIAngle())
	assert.Equal(t, Centimeters, UIDistance())
	assert.Equal(t, Film24, UITime())

	// internal radians surface as degrees by default
	assert.InDelta(t, 180, AngleToUI(pi), 1e-4)
	assert.InDelta(t, pi, AngleToInternal(180), 1e-5)

	SetUIAngle(Radians)
	assert.InDelta(t, pi, AngleToUI(pi), 1e-6)

	SetUIDistance(Meters)
	assert.InDelta(t, 1, DistanceToUI(100), 1e-5)
	assert.InDelta(t, 100, DistanceToInternal(1), 1e-5)

	// 24 internal seconds is 576 film frames
	assert.InDelta(t, 576, TimeToUI(24), 1e-3)
	assert.InDelta(t, 1, TimeToInternal(24), 1e-5)
}

func TestUnitNames(t *testing.T) {
	assert.Equal(t, "deg", Degrees.String())
	assert.Equal(t, "cm", Centimeters.String())
	assert.Equal(t, "film", Film24.String())
	assert.Equal(t, "90deg", Deg(90).String())
}
