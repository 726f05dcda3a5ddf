// SPDX-License-Identifier: EPL-2.0

package audiotest

import "math"

// MicSignal returns the raw filter word a microphone produces at position
// pos. The words carry PCM in the upper bits like a sigma-delta filter
// register.
type MicSignal func(pos int) int32

// Ramp yields (offset+pos)<<shift.
func Ramp(offset int32, shift uint8) MicSignal {
	return func(pos int) int32 {
		return (offset + int32(pos)) << shift
	}
}

// Constant yields raw for every position.
func Constant(raw int32) MicSignal {
	return func(int) int32 { return raw }
}

// Sine yields a sine of the given period in samples and peak amplitude in
// PCM units, shifted into filter word position.
func Sine(period int, amplitude float64, shift uint8) MicSignal {
	return func(pos int) int32 {
		v := amplitude * math.Sin(2*math.Pi*float64(pos)/float64(period))
		return int32(v) << shift
	}
}
