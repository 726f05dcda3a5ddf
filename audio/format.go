// SPDX-License-Identifier: EPL-2.0

package audio

import "fmt"

// SampleRate is a stream sample rate in Hz.
type SampleRate uint32

// Supported sample rates.
const (
	SampleRate8K   SampleRate = 8000
	SampleRate11K  SampleRate = 11025
	SampleRate16K  SampleRate = 16000
	SampleRate22K  SampleRate = 22050
	SampleRate32K  SampleRate = 32000
	SampleRate44K  SampleRate = 44100
	SampleRate48K  SampleRate = 48000
	SampleRate88K  SampleRate = 88200
	SampleRate96K  SampleRate = 96000
	SampleRate176K SampleRate = 176400
	SampleRate192K SampleRate = 192000
)

// SampleRates lists every rate the stream controllers accept, ascending.
var SampleRates = []SampleRate{
	SampleRate8K, SampleRate11K, SampleRate16K, SampleRate22K,
	SampleRate32K, SampleRate44K, SampleRate48K, SampleRate88K,
	SampleRate96K, SampleRate176K, SampleRate192K,
}

// Valid reports whether r is one of SampleRates.
func (r SampleRate) Valid() bool {
	for _, s := range SampleRates {
		if s == r {
			return true
		}
	}
	return false
}

// Resolution is the number of bits per sample on the link.
type Resolution uint8

// Link resolutions. Resolution8 exists on the wire format but no instance
// on the supported boards accepts it.
const (
	Resolution8  Resolution = 8
	Resolution16 Resolution = 16
	Resolution24 Resolution = 24
	Resolution32 Resolution = 32
)

// Valid reports whether b is 16, 24 or 32.
func (b Resolution) Valid() bool {
	return b == Resolution16 || b == Resolution24 || b == Resolution32
}

// BytesPerSample is the DMA element width for b. 24-bit samples travel in
// 32-bit slots.
func (b Resolution) BytesPerSample() int {
	switch b {
	case Resolution8:
		return 1
	case Resolution16:
		return 2
	default:
		return 4
	}
}

// MaxTransferCount is the largest element count one DMA request can carry.
const MaxTransferCount = 0xFFFF

// MaxVolume is the upper bound of the 0..100 volume scale.
const MaxVolume = 100

// Elements converts a byte length on the public API to a DMA element count
// for resolution b. The length must be a whole number of elements.
func Elements(byteLen int, b Resolution) (int, error) {
	size := b.BytesPerSample()
	if byteLen <= 0 || byteLen%size != 0 {
		return 0, fmt.Errorf("length %d for %d-bit samples: %w", byteLen, b, ErrWrongParam)
	}
	n := byteLen / size
	if n > MaxTransferCount {
		return 0, fmt.Errorf("%d elements exceeds %d: %w", n, MaxTransferCount, ErrWrongParam)
	}
	return n, nil
}

// Config is the per-instance configuration surface.
type Config struct {
	// Device is an OutDevice for playback instances and an InDevice for
	// capture instances.
	Device        uint32
	SampleRate    SampleRate
	BitsPerSample Resolution
	ChannelsNbr   int
	Volume        int
}

// Validate checks the ranges that do not depend on a particular instance.
func (c Config) Validate() error {
	if !c.SampleRate.Valid() {
		return fmt.Errorf("sample rate %d: %w", c.SampleRate, ErrWrongParam)
	}
	if !c.BitsPerSample.Valid() {
		return fmt.Errorf("bits per sample %d: %w", c.BitsPerSample, ErrWrongParam)
	}
	if c.ChannelsNbr < 1 || c.ChannelsNbr > 2 {
		return fmt.Errorf("channels %d: %w", c.ChannelsNbr, ErrWrongParam)
	}
	if c.Volume < 0 || c.Volume > MaxVolume {
		return fmt.Errorf("volume %d: %w", c.Volume, ErrWrongParam)
	}
	return nil
}
