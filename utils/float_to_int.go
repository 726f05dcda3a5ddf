// SPDX-License-Identifier: EPL-2.0

package utils

import "math"

// Float32ToInt16 maps x in [-1, 1] to int16, clamping out-of-range input.
func Float32ToInt16(x float32) int16 {
	if x > 1 {
		x = 1
	} else if x < -1 {
		x = -1
	}

	// 32767 for positive max avoids overflow at x == 1.
	return int16(x * 32767.0)
}

// ScaleToInt16 converts an integer sample of the given bit depth to int16.
// Deeper samples are shifted down, 8-bit samples are shifted up.
func ScaleToInt16(v int, bitDepth int) int16 {
	switch {
	case bitDepth <= 0 || bitDepth == 16:
		return SaturateInt16(int32(v))
	case bitDepth < 16:
		return SaturateInt16(int32(v) << uint(16-bitDepth))
	default:
		return SaturateInt16(int32(int64(v) >> uint(bitDepth-16)))
	}
}

// Int16ToFloat32 maps an int16 sample to [-1, 1).
func Int16ToFloat32(v int16) float32 {
	return float32(v) / (math.MaxInt16 + 1)
}
