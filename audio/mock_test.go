// SPDX-License-Identifier: EPL-2.0

package audio

import (
	"errors"
	"io"
	"math"
)

// mockSource generates int16 PCM for tests.
type mockSource struct {
	sampleRate int
	channels   int
	frames     int // total frames to generate
	generated  int
	waveform   func(frame, channel int) int16
	closed     bool
}

func newMockSource(sampleRate, channels, frames int, waveform func(frame, channel int) int16) *mockSource {
	return &mockSource{
		sampleRate: sampleRate,
		channels:   channels,
		frames:     frames,
		waveform:   waveform,
	}
}

func newSilentSource(sampleRate, channels, frames int) *mockSource {
	return newMockSource(sampleRate, channels, frames, func(int, int) int16 { return 0 })
}

func newConstantSource(sampleRate, channels, frames int, v int16) *mockSource {
	return newMockSource(sampleRate, channels, frames, func(int, int) int16 { return v })
}

func newSineSource(sampleRate, channels, frames int, freq float64) *mockSource {
	return newMockSource(sampleRate, channels, frames, func(f, _ int) int16 {
		t := float64(f) / float64(sampleRate)
		return int16(math.Sin(2*math.Pi*freq*t) * 16384)
	})
}

// newRampSource emits frame index + channel*1000 so channel routing is
// visible in assertions.
func newRampSource(sampleRate, channels, frames int) *mockSource {
	return newMockSource(sampleRate, channels, frames, func(f, c int) int16 {
		return int16(f + c*1000)
	})
}

func (m *mockSource) SampleRate() int { return m.sampleRate }
func (m *mockSource) Channels() int   { return m.channels }
func (m *mockSource) BufSize() int    { return 4096 }
func (m *mockSource) Close() error {
	m.closed = true
	return nil
}

func (m *mockSource) ReadSamples(dst []int16) (int, error) {
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

// readAll drains src with a buffer of size bufLen.
func readAll(src Source, bufLen int) ([]int16, error) {
	buf := make([]int16, bufLen)
	var out []int16
	for {
		n, err := src.ReadSamples(buf)
		out = append(out, buf[:n]...)
		if errors.Is(err, io.EOF) {
			return out, nil
		}
		if err != nil {
			return out, err
		}
		if n == 0 {
			return out, nil
		}
	}
}
