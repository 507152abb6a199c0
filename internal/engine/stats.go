// SPDX-License-Identifier: MIT
package engine

import "math"

// DBFloor is the silence floor used for dB conversions. Gains at or
// below the corresponding linear threshold report the floor instead of a
// diverging logarithm.
const DBFloor = -300.0

// Stats summarizes a completed processing run. InputRMSDB measures the
// dry signal, DiffRMSDB and MaxAbsDiff measure the wet minus dry
// difference, all across the OutputChannels the plugin was driven with.
// A run that processed zero samples leaves every field at zero.
type Stats struct {
	InputRMSDB     float64 `json:"inputRmsDb"`
	DiffRMSDB      float64 `json:"diffRmsDb"`
	MaxAbsDiff     float32 `json:"maxAbsDiff"`
	OutputChannels int     `json:"outputChannels"`
}

// GainToDB converts a linear gain to decibels with a floor: values at or
// below 10^(floor/20) return floor.
func GainToDB(gain, floor float64) float64 {
	if gain <= math.Pow(10, floor/20) {
		return floor
	}
	return 20 * math.Log10(gain)
}
