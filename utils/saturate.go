// SPDX-License-Identifier: EPL-2.0

package utils

import "math"

// SaturateInt16 clamps v to the signed 16-bit range.
func SaturateInt16(v int32) int16 {
	if v > math.MaxInt16 {
		return math.MaxInt16
	}
	if v < math.MinInt16 {
		return math.MinInt16
	}
	return int16(v)
}

// ShiftSaturate converts a raw sigma-delta filter word to PCM: arithmetic
// right shift by shift bits, then clamp to int16.
func ShiftSaturate(raw int32, shift uint8) int16 {
	return SaturateInt16(raw >> shift)
}
