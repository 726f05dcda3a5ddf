// SPDX-License-Identifier: EPL-2.0

package reassembly

import (
	"fmt"
	"sync/atomic"

	"github.com/ik5/audiobsp/audio"
	"github.com/ik5/audiobsp/engine"
	"github.com/ik5/audiobsp/internal/logging"
	"github.com/ik5/audiobsp/utils"
)

// DefaultShift drops the eight guard bits below the 24-bit filter result.
const DefaultShift = 8

// frameBytes is one combined output frame: two int16 slots.
const frameBytes = 4

// Config describes a combined capture.
type Config struct {
	// Mics is the set of enabled microphones.
	Mics audio.InDevice
	// Channels is 2 to interleave the first two enabled microphones or 1 to
	// duplicate the first into both slots.
	Channels int
	// Shift is the arithmetic right shift applied to raw filter words.
	Shift uint8
	// HalfLen is the number of words in each half of a ChannelBuffer.
	HalfLen int
}

// Reassembler merges per-microphone filter output into one interleaved
// 16-bit buffer. The left slot takes the first enabled microphone and the
// right slot the second. Further microphones are not merged, but every
// enabled microphone must report a half before it is merged.
type Reassembler struct {
	cfg      Config
	bufs     [audio.MaxMics]*ChannelBuffer
	left     int
	right    int
	required uint32

	// out and session are set by Start before the filters run.
	out     []byte
	session string

	ready     [2]atomic.Uint32
	cursor    atomic.Int64
	halfFired atomic.Bool
	chunks    atomic.Uint64
	listener  atomic.Pointer[Listener]
}

var _ Ports = (*Reassembler)(nil)

// New allocates the channel buffers of cfg.Mics.
func New(cfg Config) (*Reassembler, error) {
	if !cfg.Mics.IsDigital() {
		return nil, fmt.Errorf("reassembler devices %#x: %w", uint32(cfg.Mics), audio.ErrWrongParam)
	}
	if cfg.Channels != 1 && cfg.Channels != 2 {
		return nil, fmt.Errorf("reassembler channels %d: %w", cfg.Channels, audio.ErrWrongParam)
	}
	if cfg.Shift > 31 {
		return nil, fmt.Errorf("reassembler shift %d: %w", cfg.Shift, audio.ErrWrongParam)
	}

	r := &Reassembler{cfg: cfg}
	for _, m := range cfg.Mics.Mics() {
		b, err := NewChannelBuffer(cfg.HalfLen)
		if err != nil {
			return nil, err
		}
		r.bufs[m] = b
	}

	mics := cfg.Mics.Mics()
	r.left, r.right = mics[0], mics[0]
	if cfg.Channels == 2 && len(mics) > 1 {
		r.right = mics[1]
	}
	r.required = cfg.Mics.MicMask()
	return r, nil
}

// Config returns the configuration r was built with.
func (r *Reassembler) Config() Config { return r.cfg }

// Buffer returns the ring of zero-based mic, or nil when it is disabled.
func (r *Reassembler) Buffer(mic int) *ChannelBuffer {
	if mic < 0 || mic >= audio.MaxMics {
		return nil
	}
	return r.bufs[mic]
}

// Required returns the zero-based microphones that must report a half
// before it is merged.
func (r *Reassembler) Required() []int { return r.cfg.Mics.Mics() }

// Merged returns the zero-based microphones copied into the left and right
// slots. They are equal for a mono capture.
func (r *Reassembler) Merged() (left, right int) { return r.left, r.right }

// ChunkBytes is the output produced by one merged half.
func (r *Reassembler) ChunkBytes() int { return r.cfg.HalfLen * frameBytes }

// Chunks returns how many halves were merged since New.
func (r *Reassembler) Chunks() uint64 { return r.chunks.Load() }

// SetListener installs l. A nil l drops notifications.
func (r *Reassembler) SetListener(l Listener) {
	if l == nil {
		r.listener.Store(nil)
		return
	}
	r.listener.Store(&l)
}

// Start resets the ready flags and cursor and targets out. The length of out
// must be a non-zero multiple of ChunkBytes.
func (r *Reassembler) Start(out []byte, session string) error {
	chunk := r.ChunkBytes()
	if len(out) == 0 || len(out)%chunk != 0 {
		return fmt.Errorf("record buffer of %d bytes is not a multiple of %d: %w", len(out), chunk, audio.ErrWrongParam)
	}
	r.Reset()
	r.out, r.session = out, session
	return nil
}

// Reset clears the ready flags, the cursor and the half notification
// latch.
func (r *Reassembler) Reset() {
	r.ready[First].Store(0)
	r.ready[Second].Store(0)
	r.cursor.Store(0)
	r.halfFired.Store(false)
}

// Port returns the engine listener for zero-based mic.
func (r *Reassembler) Port(mic int) engine.Listener {
	return port{r: r, mic: mic}
}

// complete marks half h of mic ready. The caller that completes the
// required set merges it.
func (r *Reassembler) complete(mic int, h Half) {
	bit := uint32(1) << uint(mic)
	if r.required&bit == 0 {
		return
	}
	old := r.ready[h].Or(bit)
	if old == r.required || old|bit != r.required {
		return
	}

	end, ok := r.merge(h)
	r.ready[h].Store(0)
	if !ok {
		return
	}
	r.chunks.Add(1)
	r.advance(end)
}

func (r *Reassembler) merge(h Half) (int, bool) {
	left := r.bufs[r.left].Slot(h)
	right := r.bufs[r.right].Slot(h)

	n := len(left) * frameBytes
	end := int(r.cursor.Add(int64(n)))
	start := end - n
	if end > len(r.out) {
		r.cursor.Store(0)
		logging.Error(logging.ComponentReassembly, "cursor past record buffer",
			"session", r.session, "cursor", end, "size", len(r.out))
		return 0, false
	}

	dst := r.out[start:end]
	for i := range left {
		utils.PutSample(dst[i*frameBytes:], 2, utils.ShiftSaturate(left[i], r.cfg.Shift))
		utils.PutSample(dst[i*frameBytes+2:], 2, utils.ShiftSaturate(right[i], r.cfg.Shift))
	}
	return end, true
}

func (r *Reassembler) advance(end int) {
	n := Notice{Session: r.session, Mic: Combined}
	switch {
	case end >= len(r.out):
		r.cursor.Store(0)
		r.halfFired.Store(false)
		if l := r.listener.Load(); l != nil {
			(*l).FullComplete(n)
		}
	case end >= len(r.out)/2:
		if r.halfFired.CompareAndSwap(false, true) {
			if l := r.listener.Load(); l != nil {
				(*l).HalfComplete(n)
			}
		}
	}
}

func (r *Reassembler) fail(mic int, err error) {
	if l := r.listener.Load(); l != nil {
		(*l).TransferError(Notice{Session: r.session, Mic: mic}, err)
	}
}

type port struct {
	r   *Reassembler
	mic int
}

func (p port) HalfComplete(engine.Link)               { p.r.complete(p.mic, First) }
func (p port) FullComplete(engine.Link)               { p.r.complete(p.mic, Second) }
func (p port) TransferError(_ engine.Link, err error) { p.r.fail(p.mic, err) }
