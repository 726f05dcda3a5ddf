// SPDX-License-Identifier: EPL-2.0

package audiotest

import (
	"encoding/binary"
	"errors"
	"sync"
)

// ErrInjected is returned by fakes configured to fail.
var ErrInjected = errors.New("injected failure")

// FakeBus is a register map behind the codec.Bus interface. Registers are
// 16-bit and stored MSB first like the real transfer.
type FakeBus struct {
	mu sync.Mutex

	regs map[uint16]uint16
	// Writes logs every register write in order.
	Writes []uint16

	FailInit  bool
	FailRead  bool
	FailWrite map[uint16]bool

	InitCalls   int
	DeInitCalls int
}

func NewFakeBus() *FakeBus {
	return &FakeBus{
		regs:      make(map[uint16]uint16),
		FailWrite: make(map[uint16]bool),
	}
}

// Set stores v in reg without logging a write.
func (b *FakeBus) Set(reg, v uint16) {
	b.mu.Lock()
	defer b.mu.Unlock()
	b.regs[reg] = v
}

// Get returns the value of reg.
func (b *FakeBus) Get(reg uint16) uint16 {
	b.mu.Lock()
	defer b.mu.Unlock()
	return b.regs[reg]
}

func (b *FakeBus) Init() error {
	b.mu.Lock()
	defer b.mu.Unlock()
	b.InitCalls++
	if b.FailInit {
		return ErrInjected
	}
	return nil
}

func (b *FakeBus) DeInit() error {
	b.mu.Lock()
	defer b.mu.Unlock()
	b.DeInitCalls++
	return nil
}

func (b *FakeBus) ReadReg(_, reg uint16, buf []byte) error {
	b.mu.Lock()
	defer b.mu.Unlock()
	if b.FailRead {
		return ErrInjected
	}
	var tmp [2]byte
	binary.BigEndian.PutUint16(tmp[:], b.regs[reg])
	copy(buf, tmp[:])
	return nil
}

func (b *FakeBus) WriteReg(_, reg uint16, data []byte) error {
	b.mu.Lock()
	defer b.mu.Unlock()
	if b.FailWrite[reg] {
		return ErrInjected
	}
	if len(data) >= 2 {
		b.regs[reg] = binary.BigEndian.Uint16(data)
	}
	b.Writes = append(b.Writes, reg)
	return nil
}

// FakePlatform counts one millisecond per Tick call and records the reset
// line.
type FakePlatform struct {
	mu     sync.Mutex
	tick   uint32
	Resets []bool
}

func (p *FakePlatform) SetReset(high bool) error {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.Resets = append(p.Resets, high)
	return nil
}

func (p *FakePlatform) Tick() uint32 {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.tick++
	return p.tick
}
