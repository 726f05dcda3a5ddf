// SPDX-License-Identifier: EPL-2.0

package audio

import "math/bits"

// OutDevice selects the physical playback output.
type OutDevice uint32

// Playback outputs.
const (
	OutDeviceNone      OutDevice = 0
	OutDeviceSpeaker   OutDevice = 1
	OutDeviceHeadphone OutDevice = 2
	OutDeviceBoth      OutDevice = 3
	OutDeviceAuto      OutDevice = 4
)

// String returns the output name.
func (d OutDevice) String() string {
	switch d {
	case OutDeviceNone:
		return "none"
	case OutDeviceSpeaker:
		return "speaker"
	case OutDeviceHeadphone:
		return "headphone"
	case OutDeviceBoth:
		return "speaker+headphone"
	case OutDeviceAuto:
		return "auto"
	default:
		return "unknown"
	}
}

// InDevice selects capture inputs. Digital microphones form a bitmask so a
// capture instance can enable several at once.
type InDevice uint32

// Capture inputs.
const (
	InDeviceAnalogMic   InDevice = 0x001
	InDeviceAnalogLine1 InDevice = 0x002
	InDeviceDigitalMic1 InDevice = 0x010
	InDeviceDigitalMic2 InDevice = 0x020
	InDeviceDigitalMic3 InDevice = 0x040
	InDeviceDigitalMic4 InDevice = 0x080
	InDeviceDigitalMic5 InDevice = 0x100

	// InDeviceDigitalMic is the default stereo pair.
	InDeviceDigitalMic = InDeviceDigitalMic1 | InDeviceDigitalMic2

	// InDeviceDigitalMics covers every digital microphone.
	InDeviceDigitalMics = InDeviceDigitalMic1 | InDeviceDigitalMic2 |
		InDeviceDigitalMic3 | InDeviceDigitalMic4 | InDeviceDigitalMic5
)

// MaxMics is the number of digital microphone channels.
const MaxMics = 5

// Mic returns the device bit for zero-based microphone index i.
func Mic(i int) InDevice {
	return InDeviceDigitalMic1 << uint(i)
}

// MicMask returns the enabled digital microphones as a bitmask indexed from
// zero (bit 0 is microphone 1).
func (d InDevice) MicMask() uint32 {
	return uint32(d&InDeviceDigitalMics) >> 4
}

// MicCount returns how many digital microphones d enables.
func (d InDevice) MicCount() int {
	return bits.OnesCount32(d.MicMask())
}

// Mics returns the zero-based indices of the enabled digital microphones in
// ascending order.
func (d InDevice) Mics() []int {
	mask := d.MicMask()
	out := make([]int, 0, bits.OnesCount32(mask))
	for mask != 0 {
		i := bits.TrailingZeros32(mask)
		out = append(out, i)
		mask &^= 1 << uint(i)
	}
	return out
}

// IsDigital reports whether d selects only digital microphones.
func (d InDevice) IsDigital() bool {
	return d != 0 && d&^InDeviceDigitalMics == 0
}

// String returns the input name for single-device values.
func (d InDevice) String() string {
	switch d {
	case InDeviceAnalogMic:
		return "analog-mic"
	case InDeviceAnalogLine1:
		return "analog-line1"
	case InDeviceDigitalMic1:
		return "digital-mic1"
	case InDeviceDigitalMic:
		return "digital-mic"
	}
	if d.IsDigital() {
		return "digital-mics"
	}
	return "unknown"
}
