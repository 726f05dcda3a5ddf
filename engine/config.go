// SPDX-License-Identifier: EPL-2.0

package engine

import "github.com/ik5/audiobsp/audio"

// Role of a serial audio block on its frame clock.
type Role uint8

// Block roles.
const (
	RoleMaster Role = iota
	// RoleSlave blocks take their clocks from a synchronous sibling block.
	RoleSlave
)

// Slot masks for a four-slot TDM frame.
const (
	Slots0123 uint16 = 0x0F
	Slots13   uint16 = 0x0A
	Slots02   uint16 = 0x05
	Slots01   uint16 = 0x03
	Slot0     uint16 = 0x01
)

// SlotPlan is the TDM frame layout of a serial audio block.
type SlotPlan struct {
	FrameLength       uint16
	ActiveFrameLength uint16
	Slots             uint16
	Mono              bool
}

// OutputSlotPlan returns the frame layout for playback to dev.
func OutputSlotPlan(dev audio.OutDevice, bits audio.Resolution, channels int) SlotPlan {
	p := SlotPlan{FrameLength: 64, ActiveFrameLength: 32, Mono: channels == 1}
	if bits == audio.Resolution32 {
		p.FrameLength, p.ActiveFrameLength = 128, 64
	}
	switch dev {
	case audio.OutDeviceSpeaker:
		p.Slots = Slots13
	case audio.OutDeviceHeadphone:
		p.Slots = Slots02
	default:
		p.Slots = Slots0123
	}
	return p
}

// CodecInputSlotPlan is the frame layout of a codec capture block.
func CodecInputSlotPlan(channels int) SlotPlan {
	return SlotPlan{FrameLength: 128, ActiveFrameLength: 64, Slots: Slots01, Mono: channels == 1}
}

// PDMSlotPlan is the frame layout of a block sampling a PDM microphone
// directly.
func PDMSlotPlan() SlotPlan {
	return SlotPlan{FrameLength: 16, ActiveFrameLength: 1, Slots: Slot0}
}

// PDMOversampling is the bit clock multiple used to sample a PDM microphone
// on a serial audio block.
const PDMOversampling = 8

// Trigger selects how a sigma-delta filter starts conversions.
type Trigger uint8

// Filter triggers.
const (
	TriggerSoftware Trigger = iota
	// TriggerSync starts together with the filter of microphone 1.
	TriggerSync
)

// FilterConfig is the decimation setup of one sigma-delta filter channel.
type FilterConfig struct {
	Mic           int
	Oversampling  uint16
	ClockDivider  uint16
	SincOrder     uint8
	RightBitShift uint8
	Trigger       Trigger
}

// FilterConfigFor returns the decimation parameters producing rate from a
// PDM microphone. Mic and Trigger are left zero.
func FilterConfigFor(rate audio.SampleRate) FilterConfig {
	switch rate {
	case audio.SampleRate8K:
		return FilterConfig{Oversampling: 256, ClockDivider: 24, SincOrder: 3, RightBitShift: 5}
	case audio.SampleRate11K:
		return FilterConfig{Oversampling: 256, ClockDivider: 4, SincOrder: 3, RightBitShift: 6}
	case audio.SampleRate16K:
		return FilterConfig{Oversampling: 128, ClockDivider: 24, SincOrder: 3, RightBitShift: 3}
	case audio.SampleRate22K:
		return FilterConfig{Oversampling: 128, ClockDivider: 4, SincOrder: 3, RightBitShift: 3}
	case audio.SampleRate32K:
		return FilterConfig{Oversampling: 64, ClockDivider: 24, SincOrder: 4, RightBitShift: 6}
	case audio.SampleRate44K:
		return FilterConfig{Oversampling: 64, ClockDivider: 4, SincOrder: 3, RightBitShift: 0}
	case audio.SampleRate48K:
		return FilterConfig{Oversampling: 32, ClockDivider: 32, SincOrder: 4, RightBitShift: 2}
	default:
		return FilterConfig{Oversampling: 16, ClockDivider: 32, SincOrder: 5, RightBitShift: 2}
	}
}

// FilterTrigger returns the trigger of zero-based mic when the device mask
// dev is enabled. Microphones 2 to 4 follow microphone 1 when it runs.
func FilterTrigger(mic int, dev audio.InDevice) Trigger {
	if mic >= 1 && mic <= 3 && dev&audio.InDeviceDigitalMic1 != 0 {
		return TriggerSync
	}
	return TriggerSoftware
}

// LinkConfig is the peripheral side of a configuration: clocking, frame
// layout and, for sigma-delta links, the filter setup.
type LinkConfig struct {
	Role       Role
	SampleRate audio.SampleRate
	// ClockRate is the frame clock when it differs from SampleRate.
	ClockRate uint32
	Bits      audio.Resolution
	Channels  int
	Slots     SlotPlan
	Filter    *FilterConfig
}
