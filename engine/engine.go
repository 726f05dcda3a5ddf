// SPDX-License-Identifier: EPL-2.0

package engine

import (
	"errors"
	"fmt"
	"runtime"
	"sync/atomic"

	"github.com/ik5/audiobsp/audio"
	"github.com/ik5/audiobsp/internal/logging"
)

// Listener receives completion notifications of one Engine. Methods run in
// interrupt context: they must not block and must not call Engine.Stop.
type Listener interface {
	HalfComplete(link Link)
	FullComplete(link Link)
	TransferError(link Link, err error)
}

type state uint32

const (
	stateIdle state = iota
	stateConfigured
	stateRunning
	statePaused
)

func (s state) String() string {
	switch s {
	case stateIdle:
		return "idle"
	case stateConfigured:
		return "configured"
	case stateRunning:
		return "running"
	default:
		return "paused"
	}
}

// Engine drives one transfer queue on a Link.
type Engine struct {
	link  Link
	ctrl  Controller
	queue *Queue

	desc  Descriptor
	state atomic.Uint32
	// inflight counts completion handlers currently running.
	inflight atomic.Int32
	listener atomic.Pointer[Listener]

	count int
}

// New creates an engine for link driven by ctrl. Engines on the same DMA
// controller share queue; a nil queue gives the engine its own.
func New(link Link, ctrl Controller, queue *Queue) *Engine {
	if queue == nil {
		queue = &Queue{}
	}
	e := &Engine{link: link, ctrl: ctrl, queue: queue}
	ctrl.SetHandler(e.irq)
	return e
}

// Link returns the hardware binding.
func (e *Engine) Link() Link { return e.link }

// Descriptor returns the current descriptor.
func (e *Engine) Descriptor() Descriptor { return e.desc }

// Queue returns the linked-list queue the engine appends to.
func (e *Engine) Queue() *Queue { return e.queue }

// Running reports whether a transfer is armed and not paused.
func (e *Engine) Running() bool { return state(e.state.Load()) == stateRunning }

// Active reports whether a transfer is armed, paused or not.
func (e *Engine) Active() bool {
	s := state(e.state.Load())
	return s == stateRunning || s == statePaused
}

// SetListener installs l. A nil l drops notifications.
func (e *Engine) SetListener(l Listener) {
	if l == nil {
		e.listener.Store(nil)
		return
	}
	e.listener.Store(&l)
}

// Configure rebuilds the descriptor and programs the link. It fails with
// audio.ErrBusy while a transfer is active.
func (e *Engine) Configure(dir Direction, width Width, mode Mode, lc LinkConfig) error {
	if e.Active() {
		return fmt.Errorf("%v configure: %w", e.link, audio.ErrBusy)
	}

	d := NewDescriptor(e.link, dir, width, mode)
	if mode == ModeLinkedList {
		e.queue.Ensure(d)
	}
	if err := e.ctrl.Configure(d, lc); err != nil {
		e.state.Store(uint32(stateIdle))
		return wrapPeriph(fmt.Sprintf("%v configure", e.link), err)
	}
	e.desc = d
	e.state.Store(uint32(stateConfigured))
	logging.Debug(logging.ComponentEngine, "configured", "link", e.link.String(),
		"width", int(width), "mode", int(mode), "rate", uint32(lc.SampleRate))
	return nil
}

// Start arms the transfer of count elements of buf. Flags latched while the
// link was disabled are dropped first.
func (e *Engine) Start(buf Buffer, count int) error {
	if count <= 0 || count > audio.MaxTransferCount {
		return fmt.Errorf("%v start: count %d: %w", e.link, count, audio.ErrWrongParam)
	}
	if buf == nil || count > buf.Elements(e.desc.Width) {
		return fmt.Errorf("%v start: buffer shorter than %d elements: %w", e.link, count, audio.ErrWrongParam)
	}
	if !e.state.CompareAndSwap(uint32(stateConfigured), uint32(stateRunning)) {
		return fmt.Errorf("%v start in %v: %w", e.link, state(e.state.Load()), audio.ErrBusy)
	}

	e.count = count
	e.ctrl.ClearFlags()
	if err := e.ctrl.Start(buf, count); err != nil {
		e.state.Store(uint32(stateConfigured))
		return wrapPeriph(fmt.Sprintf("%v start", e.link), err)
	}
	return nil
}

// Pause suspends a running transfer.
func (e *Engine) Pause() error {
	if !e.state.CompareAndSwap(uint32(stateRunning), uint32(statePaused)) {
		return fmt.Errorf("%v pause: %w", e.link, audio.ErrBusy)
	}
	if err := e.ctrl.Pause(); err != nil {
		e.state.Store(uint32(stateRunning))
		return wrapPeriph(fmt.Sprintf("%v pause", e.link), err)
	}
	return nil
}

// Resume continues a paused transfer.
func (e *Engine) Resume() error {
	if !e.state.CompareAndSwap(uint32(statePaused), uint32(stateRunning)) {
		return fmt.Errorf("%v resume: %w", e.link, audio.ErrBusy)
	}
	if err := e.ctrl.Resume(); err != nil {
		e.state.Store(uint32(statePaused))
		return wrapPeriph(fmt.Sprintf("%v resume", e.link), err)
	}
	return nil
}

// Stop disables the transfer and clears pending completion flags. No
// listener method runs after Stop returns. Stopping an idle engine is a
// no-op.
func (e *Engine) Stop() error {
	prev := state(e.state.Load())
	if prev != stateRunning && prev != statePaused {
		return nil
	}
	e.state.Store(uint32(stateConfigured))

	err := e.ctrl.Stop()
	e.ctrl.ClearFlags()
	for e.inflight.Load() != 0 {
		runtime.Gosched()
	}
	if err != nil {
		return wrapPeriph(fmt.Sprintf("%v stop", e.link), err)
	}
	return nil
}

// Prime shifts out frames silent frames on a clock-master link so a
// synchronous slave block receives clocks. Controllers without Primer
// support return nil.
func (e *Engine) Prime(frames int) error {
	p, ok := e.ctrl.(Primer)
	if !ok || e.Active() {
		return nil
	}
	if err := p.Prime(frames); err != nil {
		return wrapPeriph(fmt.Sprintf("%v prime", e.link), err)
	}
	return nil
}

// Release stops the engine and forgets its configuration.
func (e *Engine) Release() error {
	err := e.Stop()
	e.state.Store(uint32(stateIdle))
	return err
}

func (e *Engine) irq(ev Event, err error) {
	e.inflight.Add(1)
	defer e.inflight.Add(-1)

	if state(e.state.Load()) != stateRunning {
		return
	}
	lp := e.listener.Load()
	if lp == nil {
		return
	}
	l := *lp
	switch ev {
	case EventHalf:
		l.HalfComplete(e.link)
	case EventFull:
		l.FullComplete(e.link)
	default:
		if err == nil {
			err = audio.ErrPeriphFailure
		}
		logging.Error(logging.ComponentEngine, "transfer error", "link", e.link.String(), "err", err)
		l.TransferError(e.link, err)
	}
}

func wrapPeriph(op string, err error) error {
	if errors.Is(err, audio.ErrClockFailure) || errors.Is(err, audio.ErrPeriphFailure) {
		return fmt.Errorf("%s: %w", op, err)
	}
	return fmt.Errorf("%s: %w: %w", op, audio.ErrPeriphFailure, err)
}
