// SPDX-License-Identifier: EPL-2.0

package codec

// Codec volume register ranges.
const (
	OutVolumeMax = 63
	InVolumeMax  = 239
)

// OutVolume converts a 0..100 volume to the output attenuator scale.
func OutVolume(v uint8) uint8 {
	if v > 100 {
		return OutVolumeMax
	}
	return uint8(uint32(v) * OutVolumeMax / 100)
}

// InVolume converts a 0..100 volume to the input gain scale.
func InVolume(v uint8) uint8 {
	if v >= 100 {
		return InVolumeMax
	}
	return uint8(uint32(v) * InVolumeMax / 100)
}

// OutPercent is the inverse of OutVolume, rounded to nearest.
func OutPercent(reg uint8) uint8 {
	if reg >= OutVolumeMax {
		return 100
	}
	return uint8((uint32(reg)*100 + OutVolumeMax/2) / OutVolumeMax)
}

// InPercent is the inverse of InVolume, rounded to nearest.
func InPercent(reg uint8) uint8 {
	if reg >= InVolumeMax {
		return 100
	}
	return uint8((uint32(reg)*100 + InVolumeMax/2) / InVolumeMax)
}
