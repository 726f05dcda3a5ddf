// SPDX-License-Identifier: EPL-2.0

// Package audiotest holds fakes shared by the package tests: PCM sources,
// a scripted codec driver, a register-map bus and microphone generators.
package audiotest

import (
	"io"
	"math"
)

// MockSource generates int16 PCM. It implements audio.Source.
type MockSource struct {
	sampleRate int
	channels   int
	frames     int // total frames to generate
	generated  int
	waveform   func(frame, channel int) int16
	closed     bool
}

// NewMockSource creates a source of frames frames; waveform yields the
// sample for a frame index and channel.
func NewMockSource(sampleRate, channels, frames int, waveform func(frame, channel int) int16) *MockSource {
	return &MockSource{
		sampleRate: sampleRate,
		channels:   channels,
		frames:     frames,
		waveform:   waveform,
	}
}

// NewSilentSource creates a source of zeros.
func NewSilentSource(sampleRate, channels, frames int) *MockSource {
	return NewMockSource(sampleRate, channels, frames, func(int, int) int16 { return 0 })
}

// NewSineSource creates a half-scale sine wave.
func NewSineSource(sampleRate, channels, frames int, frequency float64) *MockSource {
	return NewMockSource(sampleRate, channels, frames, func(f, _ int) int16 {
		t := float64(f) / float64(sampleRate)
		return int16(math.Sin(2*math.Pi*frequency*t) * 16384)
	})
}

// NewConstantSource creates a source repeating v.
func NewConstantSource(sampleRate, channels, frames int, v int16) *MockSource {
	return NewMockSource(sampleRate, channels, frames, func(int, int) int16 { return v })
}

// NewRampSource emits the frame index plus 1000 per channel.
func NewRampSource(sampleRate, channels, frames int) *MockSource {
	return NewMockSource(sampleRate, channels, frames, func(f, c int) int16 {
		return int16(f + c*1000)
	})
}

func (m *MockSource) SampleRate() int { return m.sampleRate }
func (m *MockSource) Channels() int   { return m.channels }
func (m *MockSource) BufSize() int    { return 4096 }

func (m *MockSource) Close() error {
	m.closed = true
	return nil
}

// Closed reports whether Close was called.
func (m *MockSource) Closed() bool { return m.closed }

// Reset rewinds the source.
func (m *MockSource) Reset() {
	m.generated = 0
}

func (m *MockSource) ReadSamples(dst []int16) (int, error) {
	if m.generated >= m.frames {
		return 0, io.EOF
	}

	frames := min(len(dst)/m.channels, m.frames-m.generated)
	for f := range frames {
		for c := range m.channels {
			dst[f*m.channels+c] = m.waveform(m.generated+f, c)
		}
	}
	m.generated += frames

	if m.generated >= m.frames {
		return frames * m.channels, io.EOF
	}
	return frames * m.channels, nil
}
