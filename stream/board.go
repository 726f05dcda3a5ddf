// SPDX-License-Identifier: EPL-2.0

package stream

import (
	"github.com/ik5/audiobsp/audio"
	"github.com/ik5/audiobsp/engine"
)

// InputKind is the capture path behind an input instance.
type InputKind uint8

// Capture paths.
const (
	// InputCodec records through the codec's ADC over a serial audio block.
	InputCodec InputKind = iota
	// InputPDM samples one PDM microphone directly on a serial audio block.
	InputPDM
	// InputDFSDM runs one sigma-delta filter per microphone.
	InputDFSDM
)

func (k InputKind) String() string {
	switch k {
	case InputCodec:
		return "codec"
	case InputPDM:
		return "pdm"
	default:
		return "dfsdm"
	}
}

// NoSibling marks a port that does not share the codec.
const NoSibling = -1

// OutPort is a playback instance.
type OutPort struct {
	Link engine.Link
	// Sibling is the input instance sharing the codec, or NoSibling.
	Sibling int
}

// InPort is a capture instance.
type InPort struct {
	Kind InputKind
	// Link is the serial audio block of codec and PDM inputs. DFSDM inputs
	// bind one filter per microphone instead.
	Link engine.Link
	// Devices is the set of accepted devices. For DFSDM inputs it is the set
	// of wired microphones.
	Devices audio.InDevice
	// Sibling is the output instance sharing the codec, or NoSibling.
	Sibling int
}

// Board describes the audio capabilities of one board.
type Board struct {
	Out []OutPort
	In  []InPort
	// MicBufferLen is the ring length in words of each DFSDM microphone.
	MicBufferLen int
	// PrimeFrames is the number of silent frames shifted out to start the
	// frame clock of an idle master block.
	PrimeFrames int
	// LinkedList selects linked-list transfer queues over plain circular
	// channels.
	LinkedList bool
}

// DefaultBoard is the reference discovery kit: a codec on serial audio
// blocks A (playback) and B (capture), a PDM microphone on a second serial
// audio interface and five microphones on the sigma-delta filters.
func DefaultBoard() Board {
	return Board{
		Out: []OutPort{
			{Link: engine.SAI(0), Sibling: 0},
		},
		In: []InPort{
			{
				Kind:    InputCodec,
				Link:    engine.SAI(1),
				Devices: audio.InDeviceAnalogMic | audio.InDeviceAnalogLine1 | audio.InDeviceDigitalMic1,
				Sibling: 0,
			},
			{Kind: InputPDM, Link: engine.SAI(2), Devices: audio.InDeviceDigitalMic1, Sibling: NoSibling},
			{Kind: InputDFSDM, Devices: audio.InDeviceDigitalMics, Sibling: NoSibling},
		},
		MicBufferLen: 2048,
		PrimeFrames:  1,
		LinkedList:   true,
	}
}
