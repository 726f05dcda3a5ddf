// SPDX-License-Identifier: EPL-2.0

package wav

import (
	"fmt"
	"io"
	"log/slog"
	"sync"
	"sync/atomic"

	goaudio "github.com/go-audio/audio"
	gowav "github.com/go-audio/wav"

	"github.com/ik5/audiobsp/audio"
	"github.com/ik5/audiobsp/internal/logging"
	"github.com/ik5/audiobsp/stream"
	"github.com/ik5/audiobsp/utils"
)

// DefaultQueueDepth is the number of completed halves a Recorder holds
// between two Drain calls.
const DefaultQueueDepth = 16

var _ stream.Listener = (*Recorder)(nil)

// Recorder writes a running capture to a WAV file. Install it as the
// listener of the capture instance recording into buf: every completed half
// of buf is copied off and queued, and Drain or Close encodes the queue.
//
// The listener methods never block or allocate. Halves arriving while every
// queue buffer is taken are dropped and counted.
type Recorder struct {
	buf      []byte
	layout   stream.Layout
	channels int

	free    chan []int16
	halves  chan []int16
	dropped atomic.Int64
	err     atomic.Pointer[error]

	mu     sync.Mutex
	enc    *gowav.Encoder
	intBuf *goaudio.IntBuffer
	closed bool

	log *slog.Logger
}

// NewRecorder prepares a 16-bit WAV of cfg's rate and channel count on w.
// buf is the record buffer handed to AudioIn.Record and layout is what
// AudioIn.Layout reports for the instance. Slots beyond cfg.ChannelsNbr are
// skipped. A zero layout is derived from cfg. depth <= 0 selects
// DefaultQueueDepth.
func NewRecorder(w io.WriteSeeker, buf []byte, cfg audio.Config, layout stream.Layout, depth int) (*Recorder, error) {
	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("recorder: %w", err)
	}
	if layout == (stream.Layout{}) {
		layout = stream.Layout{Width: cfg.BitsPerSample.BytesPerSample(), Slots: cfg.ChannelsNbr}
	}
	if layout.Width <= 0 || layout.Width > 4 || layout.Slots < cfg.ChannelsNbr {
		return nil, fmt.Errorf("recorder: layout %d x %d bytes for %d channels: %w",
			layout.Slots, layout.Width, cfg.ChannelsNbr, audio.ErrWrongParam)
	}
	if len(buf) == 0 || len(buf)%(2*layout.FrameBytes()) != 0 {
		return nil, fmt.Errorf("recorder: buffer of %d bytes does not split into whole frames: %w",
			len(buf), audio.ErrWrongParam)
	}
	if depth <= 0 {
		depth = DefaultQueueDepth
	}
	frames := len(buf) / 2 / layout.FrameBytes()
	free := make(chan []int16, depth)
	for range depth {
		free <- make([]int16, frames*cfg.ChannelsNbr)
	}
	format := &goaudio.Format{NumChannels: cfg.ChannelsNbr, SampleRate: int(cfg.SampleRate)}
	return &Recorder{
		buf:      buf,
		layout:   layout,
		channels: cfg.ChannelsNbr,
		free:     free,
		halves:   make(chan []int16, depth),
		enc:      gowav.NewEncoder(w, int(cfg.SampleRate), 16, cfg.ChannelsNbr, formatPCM),
		intBuf:   &goaudio.IntBuffer{Format: format, SourceBitDepth: 16},
		log:      logging.For(logging.ComponentRecorder),
	}, nil
}

func (r *Recorder) OnHalfComplete(int) { r.push(r.buf[:len(r.buf)/2]) }
func (r *Recorder) OnFullComplete(int) { r.push(r.buf[len(r.buf)/2:]) }

// OnError keeps the first transfer error for Err.
func (r *Recorder) OnError(instance int, err error) {
	r.err.CompareAndSwap(nil, &err)
	r.log.Error("capture error", "instance", instance, "err", err)
}

func (r *Recorder) push(half []byte) {
	var samples []int16
	select {
	case samples = <-r.free:
	default:
		r.dropped.Add(1)
		return
	}
	if r.layout.Slots == r.channels {
		utils.DecodeSamples(samples, r.layout.Width, half)
	} else {
		width, frame := r.layout.Width, r.layout.FrameBytes()
		for f := range len(samples) / r.channels {
			for c := range r.channels {
				samples[f*r.channels+c] = utils.Sample(half[f*frame+c*width:], width)
			}
		}
	}
	// Never blocks: halves holds as many buffers as free.
	r.halves <- samples
}

// Dropped returns how many halves were lost to a full queue.
func (r *Recorder) Dropped() int { return int(r.dropped.Load()) }

// Err returns the first transfer error reported by the capture, if any.
func (r *Recorder) Err() error {
	if p := r.err.Load(); p != nil {
		return *p
	}
	return nil
}

// Drain encodes every queued half and returns the number of samples
// written.
func (r *Recorder) Drain() (int, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	if r.closed {
		return 0, ErrRecorderClosed
	}
	return r.drain()
}

func (r *Recorder) drain() (int, error) {
	written := 0
	for {
		select {
		case samples := <-r.halves:
			if cap(r.intBuf.Data) < len(samples) {
				r.intBuf.Data = make([]int, len(samples))
			}
			r.intBuf.Data = r.intBuf.Data[:len(samples)]
			for i, v := range samples {
				r.intBuf.Data[i] = int(v)
			}
			r.free <- samples
			if err := r.enc.Write(r.intBuf); err != nil {
				return written, fmt.Errorf("recorder: encode: %w", err)
			}
			written += len(samples)
		default:
			return written, nil
		}
	}
}

// Close drains the queue and finalizes the WAV header. Closing twice
// returns ErrRecorderClosed.
func (r *Recorder) Close() error {
	r.mu.Lock()
	defer r.mu.Unlock()

	if r.closed {
		return ErrRecorderClosed
	}
	r.closed = true
	n, err := r.drain()
	if cerr := r.enc.Close(); err == nil && cerr != nil {
		err = fmt.Errorf("recorder: close: %w", cerr)
	}
	if d := r.Dropped(); d > 0 {
		r.log.Warn("halves dropped", "count", d)
	}
	r.log.Debug("recording closed", "tail", n)
	return err
}
