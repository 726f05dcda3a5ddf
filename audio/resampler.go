// SPDX-License-Identifier: EPL-2.0

package audio

import (
	"errors"
	"fmt"
	"io"
	"math"
)

// Resampler streams from src to a target sample rate using linear
// interpolation between adjacent frames. Works on interleaved samples and
// preserves channel count.
type Resampler struct {
	src      Source
	dstRate  int
	step     float64 // source frames per output frame
	channels int

	prev   []int16
	next   []int16
	primed bool

	// Position between prev (0) and next (1).
	pos float64

	srcBuf []int16
	bufPos int
	bufLen int
	eof    bool
}

func NewResampler(src Source, dstRate int) *Resampler {
	channels := src.Channels()
	return &Resampler{
		src:      src,
		dstRate:  dstRate,
		step:     float64(src.SampleRate()) / float64(dstRate),
		channels: channels,
		prev:     make([]int16, channels),
		next:     make([]int16, channels),
		srcBuf:   make([]int16, 4096-4096%channels),
	}
}

func (r *Resampler) SampleRate() int { return r.dstRate }
func (r *Resampler) Channels() int   { return r.channels }
func (r *Resampler) BufSize() int    { return r.src.BufSize() }

func (r *Resampler) Close() error {
	err := r.src.Close()
	if err != nil {
		return fmt.Errorf("%w", err)
	}
	return nil
}

// readFrame copies the next source frame into dst.
func (r *Resampler) readFrame(dst []int16) error {
	for r.bufPos >= r.bufLen {
		if r.eof {
			return io.EOF
		}
		n, err := r.src.ReadSamples(r.srcBuf)
		r.bufLen = n - n%r.channels
		r.bufPos = 0
		if errors.Is(err, io.EOF) {
			r.eof = true
		} else if err != nil {
			return fmt.Errorf("%w", err)
		} else if n == 0 {
			return io.EOF
		}
	}
	copy(dst, r.srcBuf[r.bufPos:r.bufPos+r.channels])
	r.bufPos += r.channels
	return nil
}

// ReadSamples produces dst samples at the target rate.
// dst length should be a multiple of the channel count.
func (r *Resampler) ReadSamples(dst []int16) (int, error) {
	if len(dst)%r.channels != 0 {
		return 0, ErrInvalidDstSize
	}
	if r.step == 1 {
		return r.src.ReadSamples(dst)
	}

	if !r.primed {
		if err := r.readFrame(r.prev); err != nil {
			return 0, err
		}
		if err := r.readFrame(r.next); err != nil {
			copy(r.next, r.prev)
		}
		r.primed = true
	}

	written := 0
	frames := len(dst) / r.channels
	for written < frames {
		for r.pos >= 1 {
			r.pos--
			r.prev, r.next = r.next, r.prev
			if err := r.readFrame(r.next); err != nil {
				return written * r.channels, err
			}
		}

		out := dst[written*r.channels : (written+1)*r.channels]
		for c := range out {
			a := float64(r.prev[c])
			b := float64(r.next[c])
			out[c] = int16(math.Round(a + (b-a)*r.pos))
		}
		written++
		r.pos += r.step
	}

	return written * r.channels, nil
}
