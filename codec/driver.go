// SPDX-License-Identifier: EPL-2.0

package codec

import "github.com/ik5/audiobsp/audio"

// Direction selects the codec path a volume call applies to.
type Direction uint8

// Codec paths.
const (
	Input Direction = iota
	Output
)

// String returns the path name.
func (d Direction) String() string {
	if d == Input {
		return "input"
	}
	return "output"
}

// StopMode selects how much of the codec Stop powers down.
type StopMode uint8

// Stop modes.
const (
	// PowerDownHW cuts codec power; registers are lost.
	PowerDownHW StopMode = 0
	// PowerDownSW mutes and idles the converters, keeping register state so
	// Play can follow without Init.
	PowerDownSW StopMode = 1
)

// InitConfig is what a stream controller resolves before initializing the
// codec. Input is zero when no capture path is active.
type InitConfig struct {
	Input      audio.InDevice
	Output     audio.OutDevice
	Frequency  audio.SampleRate
	Resolution audio.Resolution
	// Volume on the 0..100 scale.
	Volume uint8
}

// Driver is the capability a codec chip exposes to the stream controllers.
// Implementations talk to the chip through an IO.
type Driver interface {
	Init(cfg InitConfig) error
	DeInit() error
	ReadID() (uint32, error)

	Play() error
	Pause() error
	Resume() error
	Stop(mode StopMode) error

	// SetVolume takes a 0..100 value.
	SetVolume(dir Direction, volume uint8) error
	GetVolume(dir Direction) (uint8, error)
	SetMute(on bool) error

	SetFrequency(rate audio.SampleRate) error
	SetResolution(bits audio.Resolution) error
	SetOutputMode(dev audio.OutDevice) error

	Reset() error
}
