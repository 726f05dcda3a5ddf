// SPDX-License-Identifier: EPL-2.0

package audiobsp

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"sync/atomic"

	"github.com/ik5/audiobsp/audio"
	"github.com/ik5/audiobsp/internal/logging"
	"github.com/ik5/audiobsp/stream"
	"github.com/ik5/audiobsp/utils"
)

// ErrPlayerStarted is returned by Start on a player already streaming.
var ErrPlayerStarted = errors.New("player already started")

// Player streams an audio.Source to one playback instance through a
// double buffer. The drained half is refilled after each half or full
// notification; the notification side only signals and never blocks.
type Player struct {
	out  *stream.AudioOut
	inst int
	src  audio.Source

	width     int
	halfBytes int
	buf       []byte
	pcm       []int16

	refill chan int
	errs   chan error

	started bool
	eof     bool
	last    int

	overruns atomic.Int64
	log      *slog.Logger
}

var _ stream.Listener = (*Player)(nil)

// NewPlayer prepares a player for an initialized playback instance. src is
// converted to the instance rate and channel count; frames is the number
// of frames in each buffer half.
func NewPlayer(out *stream.AudioOut, inst int, src audio.Source, frames int) (*Player, error) {
	if frames <= 0 {
		return nil, fmt.Errorf("player: %d frames per half: %w", frames, audio.ErrWrongParam)
	}
	rate, err := out.GetSampleRate(inst)
	if err != nil {
		return nil, fmt.Errorf("player: %w", err)
	}
	bits, err := out.GetBitsPerSample(inst)
	if err != nil {
		return nil, fmt.Errorf("player: %w", err)
	}
	channels, err := out.GetChannelsNbr(inst)
	if err != nil {
		return nil, fmt.Errorf("player: %w", err)
	}

	width := bits.BytesPerSample()
	half := frames * channels
	return &Player{
		out:       out,
		inst:      inst,
		src:       Convert(src, rate, channels),
		width:     width,
		halfBytes: half * width,
		buf:       make([]byte, 2*half*width),
		pcm:       make([]int16, half),
		refill:    make(chan int, 2),
		errs:      make(chan error, 1),
		last:      -1,
		log: logging.For(logging.ComponentPlayer).With(
			"instance", inst, "rate", int(rate), "channels", channels),
	}, nil
}

// Buffer returns the double buffer handed to the stream.
func (p *Player) Buffer() []byte { return p.buf }

// Overruns counts notifications dropped because two refills were
// already pending.
func (p *Player) Overruns() int64 { return p.overruns.Load() }

func (p *Player) OnHalfComplete(int) { p.signal(0) }
func (p *Player) OnFullComplete(int) { p.signal(1) }

func (p *Player) OnError(_ int, err error) {
	select {
	case p.errs <- err:
	default:
	}
}

func (p *Player) signal(half int) {
	select {
	case p.refill <- half:
	default:
		p.overruns.Add(1)
	}
}

// Start fills both halves and begins playback.
func (p *Player) Start() error {
	if p.started {
		return ErrPlayerStarted
	}
	for h := range 2 {
		if err := p.fill(h); err != nil {
			return err
		}
	}
	if err := p.out.SetListener(p.inst, p); err != nil {
		return fmt.Errorf("player: %w", err)
	}
	if err := p.out.Play(p.inst, p.buf); err != nil {
		_ = p.out.SetListener(p.inst, nil)
		return fmt.Errorf("player: %w", err)
	}
	p.started = true
	p.log.Debug("playback started", "buffer", len(p.buf))
	return nil
}

// Pump handles one refill request, blocking until a notification, an
// error or ctx ends. It reports done once the half holding the end of the
// source has been played.
func (p *Player) Pump(ctx context.Context) (bool, error) {
	select {
	case <-ctx.Done():
		return true, ctx.Err()
	case err := <-p.errs:
		return true, fmt.Errorf("player: %w", err)
	case h := <-p.refill:
		if h == p.last {
			return true, nil
		}
		if err := p.fill(h); err != nil {
			return true, err
		}
		return false, nil
	}
}

// Run starts playback if needed and refills until the source is played
// out, ctx is cancelled or the transfer fails. The stream is stopped on
// return.
func (p *Player) Run(ctx context.Context) error {
	if !p.started {
		if err := p.Start(); err != nil {
			return err
		}
	}
	for {
		done, err := p.Pump(ctx)
		if !done {
			continue
		}
		if serr := p.Stop(); serr != nil {
			err = errors.Join(err, serr)
		}
		if err != nil {
			p.log.Warn("playback ended", "error", err)
		}
		return err
	}
}

// Stop halts the stream and detaches the player.
func (p *Player) Stop() error {
	if !p.started {
		return nil
	}
	p.started = false
	err := p.out.Stop(p.inst)
	_ = p.out.SetListener(p.inst, nil)
	if n := p.overruns.Load(); n > 0 {
		p.log.Warn("refill overruns", "count", n)
	}
	if err != nil {
		return fmt.Errorf("player: %w", err)
	}
	return nil
}

// Close releases the source.
func (p *Player) Close() error {
	return p.src.Close()
}

// fill writes the next half of PCM into half h, padding with silence
// once the source is exhausted.
func (p *Player) fill(h int) error {
	n := 0
	for n < len(p.pcm) && !p.eof {
		m, err := p.src.ReadSamples(p.pcm[n:])
		n += m
		if errors.Is(err, io.EOF) {
			p.eof = true
			p.last = h
			break
		}
		if err != nil {
			return fmt.Errorf("player: read samples: %w", err)
		}
		if m == 0 {
			p.log.Debug("source stalled", "half", h, "samples", n)
			break
		}
	}
	clear(p.pcm[n:])
	utils.EncodeSamples(p.buf[h*p.halfBytes:(h+1)*p.halfBytes], p.width, p.pcm)
	return nil
}
