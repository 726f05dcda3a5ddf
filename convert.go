// SPDX-License-Identifier: EPL-2.0

package audiobsp

import (
	"errors"
	"fmt"
	"io"

	"github.com/ik5/audiobsp/audio"
)

// Convert adapts src to a playback configuration: the channel count is
// mapped first, then the rate is resampled. Stages that would be identities
// are skipped, so a matching src is returned unchanged.
func Convert(src audio.Source, rate audio.SampleRate, channels int) audio.Source {
	if src.Channels() != channels {
		src = audio.NewChannelMapper(src, channels)
	}
	if src.SampleRate() != int(rate) {
		src = audio.NewResampler(src, int(rate))
	}
	return src
}

// ReadAll drains src into memory, reading bufferSize samples at a time.
func ReadAll(src audio.Source, bufferSize int) ([]int16, error) {
	if bufferSize <= 0 {
		bufferSize = src.BufSize()
	}
	bufferSize -= bufferSize % max(src.Channels(), 1)
	if bufferSize <= 0 {
		return nil, fmt.Errorf("buffer of %d samples: %w", bufferSize, audio.ErrWrongParam)
	}

	// Start with about two seconds and grow by doubling.
	out := make([]int16, 0, src.SampleRate()*src.Channels()*2)
	buf := make([]int16, bufferSize)
	for {
		n, err := src.ReadSamples(buf)
		out = append(out, buf[:n]...)
		if errors.Is(err, io.EOF) {
			return out, nil
		}
		if err != nil {
			return out, fmt.Errorf("read samples: %w", err)
		}
	}
}
