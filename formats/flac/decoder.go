// SPDX-License-Identifier: EPL-2.0

package flac

import (
	"fmt"
	"io"

	"github.com/mewkiz/flac"
	"github.com/mewkiz/flac/frame"

	"github.com/ik5/audiobsp/audio"
	"github.com/ik5/audiobsp/utils"
)

// frameParser is the part of flac.Stream the source needs.
type frameParser interface {
	ParseNext() (*frame.Frame, error)
	Close() error
}

type source struct {
	stream     frameParser
	sampleRate int
	channels   int
	bitDepth   int
	blockSize  int

	// pending holds the interleaved samples of the last frame not yet read.
	pending []int16
	pos     int
	eof     bool
	// err is a decode failure held back behind samples already returned.
	err error
}

func (s *source) SampleRate() int { return s.sampleRate }
func (s *source) Channels() int   { return s.channels }
func (s *source) BufSize() int    { return s.blockSize * s.channels }

func (s *source) Close() error {
	if err := s.stream.Close(); err != nil {
		return fmt.Errorf("flac: %w", err)
	}
	return nil
}

func (s *source) ReadSamples(dst []int16) (int, error) {
	if s.err != nil {
		err := s.err
		s.err = nil
		return 0, err
	}
	n := 0
	for n < len(dst) {
		if s.pos == len(s.pending) {
			if s.eof {
				break
			}
			if err := s.next(); err != nil {
				if n == 0 {
					return 0, err
				}
				if err != io.EOF {
					s.err = err
				}
				return n, nil
			}
			continue
		}
		c := copy(dst[n:], s.pending[s.pos:])
		n += c
		s.pos += c
	}
	if n == 0 && s.eof && len(dst) > 0 {
		return 0, io.EOF
	}
	return n, nil
}

// next decodes one frame into pending.
func (s *source) next() error {
	f, err := s.stream.ParseNext()
	if err == io.EOF {
		s.eof = true
		return io.EOF
	}
	if err != nil {
		return fmt.Errorf("flac: %w", err)
	}
	if len(f.Subframes) == 0 {
		s.pending, s.pos = s.pending[:0], 0
		return nil
	}

	frames := f.Subframes[0].NSamples
	s.pending = s.pending[:0]
	for i := range frames {
		for _, sub := range f.Subframes {
			s.pending = append(s.pending, utils.ScaleToInt16(int(sub.Samples[i]), s.bitDepth))
		}
	}
	s.pos = 0
	return nil
}

// Decoder reads native FLAC streams.
type Decoder struct{}

func (Decoder) Decode(r io.Reader) (audio.Source, error) {
	stream, err := flac.New(r)
	if err != nil {
		return nil, fmt.Errorf("flac: %w", err)
	}
	info := stream.Info
	if info.BitsPerSample > 32 {
		_ = stream.Close()
		return nil, fmt.Errorf("%d bits: %w", info.BitsPerSample, ErrUnsupportedBitDepth)
	}
	return &source{
		stream:     stream,
		sampleRate: int(info.SampleRate),
		channels:   int(info.NChannels),
		bitDepth:   int(info.BitsPerSample),
		blockSize:  int(info.BlockSizeMax),
	}, nil
}
