// SPDX-License-Identifier: EPL-2.0

package reassembly

import (
	"fmt"
	"sync/atomic"

	"github.com/ik5/audiobsp/audio"
	"github.com/ik5/audiobsp/engine"
)

// MultiBuffer is the pass-through mode: each microphone's filter writes
// straight into its own caller buffer and every completion is forwarded
// with the microphone that raised it.
type MultiBuffer struct {
	mics     audio.InDevice
	session  string
	listener atomic.Pointer[Listener]
}

var _ Ports = (*MultiBuffer)(nil)

// NewMultiBuffer returns a pass-through for the microphones in mics.
func NewMultiBuffer(mics audio.InDevice) (*MultiBuffer, error) {
	if !mics.IsDigital() {
		return nil, fmt.Errorf("multi-buffer devices %#x: %w", uint32(mics), audio.ErrWrongParam)
	}
	return &MultiBuffer{mics: mics}, nil
}

// Mics returns the enabled microphones.
func (m *MultiBuffer) Mics() audio.InDevice { return m.mics }

// Start tags subsequent notices with session.
func (m *MultiBuffer) Start(session string) { m.session = session }

// SetListener installs l. A nil l drops notifications.
func (m *MultiBuffer) SetListener(l Listener) {
	if l == nil {
		m.listener.Store(nil)
		return
	}
	m.listener.Store(&l)
}

// Port returns the engine listener for zero-based mic.
func (m *MultiBuffer) Port(mic int) engine.Listener {
	return multiPort{m: m, mic: mic}
}

type multiPort struct {
	m   *MultiBuffer
	mic int
}

func (p multiPort) notice() Notice { return Notice{Session: p.m.session, Mic: p.mic} }

func (p multiPort) HalfComplete(engine.Link) {
	if l := p.m.listener.Load(); l != nil {
		(*l).HalfComplete(p.notice())
	}
}

func (p multiPort) FullComplete(engine.Link) {
	if l := p.m.listener.Load(); l != nil {
		(*l).FullComplete(p.notice())
	}
}

func (p multiPort) TransferError(_ engine.Link, err error) {
	if l := p.m.listener.Load(); l != nil {
		(*l).TransferError(p.notice(), err)
	}
}
