// SPDX-License-Identifier: EPL-2.0

package stream

import (
	"fmt"
	"log/slog"
	"sync"
	"sync/atomic"

	"github.com/ik5/audiobsp/audio"
	"github.com/ik5/audiobsp/codec"
	"github.com/ik5/audiobsp/engine"
	"github.com/ik5/audiobsp/engine/sim"
	"github.com/ik5/audiobsp/internal/logging"
	"github.com/ik5/audiobsp/reassembly"
)

// Option configures a Subsystem.
type Option func(*Subsystem)

// WithLogger routes the subsystem's log lines to l.
func WithLogger(l *slog.Logger) Option {
	return func(s *Subsystem) {
		if l != nil {
			s.log = l.With("component", string(logging.ComponentStream))
		}
	}
}

// WithCodecID sets the chip ID codec detection expects.
func WithCodecID(id uint32) Option {
	return func(s *Subsystem) { s.dev.ID = id }
}

// WithControllers supplies the transfer controller of each link. The
// default is a software simulator per link.
func WithControllers(f func(link engine.Link) engine.Controller) Option {
	return func(s *Subsystem) {
		if f != nil {
			s.newCtrl = f
		}
	}
}

// Subsystem owns every stream instance of a board, their transfer engines
// and the shared codec.
type Subsystem struct {
	mu sync.Mutex

	board   Board
	dev     codec.Device
	power   *codec.Power
	log     *slog.Logger
	newCtrl func(engine.Link) engine.Controller

	queue   engine.Queue
	ctrls   map[engine.Link]engine.Controller
	engines map[engine.Link]*engine.Engine

	outs []*instance
	ins  []*instance
}

// New builds the subsystem of board. dev is the codec shared by the coupled
// instances; it may be nil on boards without one.
func New(board Board, dev *codec.Device, opts ...Option) *Subsystem {
	s := &Subsystem{
		board:   board,
		log:     logging.For(logging.ComponentStream),
		newCtrl: func(engine.Link) engine.Controller { return sim.New() },
		ctrls:   make(map[engine.Link]engine.Controller),
		engines: make(map[engine.Link]*engine.Engine),
	}
	if dev != nil {
		s.dev = *dev
	}
	for _, opt := range opts {
		opt(s)
	}
	s.power = codec.NewPower(&s.dev)

	for i := range board.Out {
		s.outs = append(s.outs, &instance{idx: i, dir: codec.Output, user: codec.User(1) << uint(i)})
	}
	for i, p := range board.In {
		in := &instance{idx: i, dir: codec.Input}
		if p.Kind == InputCodec {
			in.user = codec.User(1) << uint(16+i)
		}
		s.ins = append(s.ins, in)
	}
	return s
}

// Out returns the playback API.
func (s *Subsystem) Out() *AudioOut { return &AudioOut{s: s} }

// In returns the capture API.
func (s *Subsystem) In() *AudioIn { return &AudioIn{s: s} }

// Board returns the board description.
func (s *Subsystem) Board() Board { return s.board }

// Power returns the codec power reference.
func (s *Subsystem) Power() *codec.Power { return s.power }

// Controller returns the transfer controller bound to link, creating it on
// first use.
func (s *Subsystem) Controller(link engine.Link) engine.Controller {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.engine(link)
	return s.ctrls[link]
}

func (s *Subsystem) engine(link engine.Link) *engine.Engine {
	if e, ok := s.engines[link]; ok {
		return e
	}
	c := s.newCtrl(link)
	e := engine.New(link, c, &s.queue)
	s.ctrls[link] = c
	s.engines[link] = e
	return e
}

func (s *Subsystem) mode() engine.Mode {
	if s.board.LinkedList {
		return engine.ModeLinkedList
	}
	return engine.ModeCircular
}

func (s *Subsystem) warn(op string, inst *instance, err error) error {
	s.log.Warn(op+" failed", "dir", inst.dir.String(), "instance", inst.idx, "err", err)
	return err
}

// instance is the state of one playback or capture path.
type instance struct {
	idx  int
	dir  codec.Direction
	user codec.User

	cfg     audio.Config
	state   State
	muted   bool
	session string

	listener atomic.Pointer[Listener]

	// engines is one engine for serial audio paths and one per enabled
	// microphone, in mic order, for DFSDM paths.
	engines []*engine.Engine
	mics    []int
	reasm   *reassembly.Reassembler
	multi   *reassembly.MultiBuffer
	// running and paused are microphone masks of the channel API.
	running uint32
	paused  uint32
}

func (i *instance) name() string {
	if i.dir == codec.Output {
		return fmt.Sprintf("out %d", i.idx)
	}
	return fmt.Sprintf("in %d", i.idx)
}

func (i *instance) setListener(l Listener) {
	if l == nil {
		i.listener.Store(nil)
		return
	}
	i.listener.Store(&l)
}

func (i *instance) reset() {
	i.cfg = audio.Config{}
	i.state = StateReset
	i.muted = false
	i.session = ""
	i.engines, i.mics = nil, nil
	i.reasm, i.multi = nil, nil
	i.running, i.paused = 0, 0
}

// linkPort forwards engine completions of a serial audio path.
type linkPort struct{ inst *instance }

func (p linkPort) HalfComplete(engine.Link) {
	if l := p.inst.listener.Load(); l != nil {
		(*l).OnHalfComplete(p.inst.idx)
	}
}

func (p linkPort) FullComplete(engine.Link) {
	if l := p.inst.listener.Load(); l != nil {
		(*l).OnFullComplete(p.inst.idx)
	}
}

func (p linkPort) TransferError(link engine.Link, err error) {
	if l := p.inst.listener.Load(); l != nil {
		(*l).OnError(p.inst.idx, fmt.Errorf("%v: %w", link, err))
	}
}

// notePort forwards reassembled progress of a DFSDM path.
type notePort struct{ inst *instance }

func (p notePort) HalfComplete(reassembly.Notice) {
	if l := p.inst.listener.Load(); l != nil {
		(*l).OnHalfComplete(p.inst.idx)
	}
}

func (p notePort) FullComplete(reassembly.Notice) {
	if l := p.inst.listener.Load(); l != nil {
		(*l).OnFullComplete(p.inst.idx)
	}
}

func (p notePort) TransferError(n reassembly.Notice, err error) {
	if l := p.inst.listener.Load(); l != nil {
		(*l).OnError(p.inst.idx, fmt.Errorf("mic %d: %w", n.Mic+1, err))
	}
}

func componentErr(op string, err error) error {
	return fmt.Errorf("%s: %w: %w", op, audio.ErrComponentFailure, err)
}

// conflict reports whether a sibling holding the codec runs at another rate
// or depth.
func conflict(sib *instance, rate audio.SampleRate, bits audio.Resolution) bool {
	if sib == nil || sib.state == StateReset {
		return false
	}
	return sib.cfg.SampleRate != rate || sib.cfg.BitsPerSample != bits
}

// undo releases the engines and the codec hold of inst and returns it to
// RESET. The first failure is reported.
func (s *Subsystem) undo(i *instance) error {
	var first error
	for _, e := range i.engines {
		if err := e.Release(); err != nil && first == nil {
			first = err
		}
		e.SetListener(nil)
	}
	if i.user != 0 {
		if err := s.power.Release(i.user); err != nil && first == nil {
			first = err
		}
	}
	i.reset()
	return first
}

// bit returns the channel mask bit of engine k: its microphone on DFSDM
// paths, k otherwise.
func (i *instance) bit(k int) uint32 {
	if i.mics != nil {
		return 1 << uint(i.mics[k])
	}
	return 1 << uint(k)
}

func (i *instance) allMask() uint32 {
	var m uint32
	for k := range i.engines {
		m |= i.bit(k)
	}
	return m
}

// each runs fn on the engines selected by mask, stopping at the first
// error.
func (i *instance) each(mask uint32, fn func(*engine.Engine) error) error {
	for k, e := range i.engines {
		if mask&i.bit(k) == 0 {
			continue
		}
		if err := fn(e); err != nil {
			return err
		}
	}
	return nil
}
