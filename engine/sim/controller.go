// SPDX-License-Identifier: EPL-2.0

// Package sim is a software DMA controller. It walks a buffer in simulated
// time, producing or consuming samples and raising half and full transfer
// events the way a circular hardware channel does.
package sim

import (
	"errors"
	"fmt"
	"sync"

	"github.com/ik5/audiobsp/engine"
	"github.com/ik5/audiobsp/utils"
)

// Errors reported by the simulator.
var (
	ErrNotConfigured = errors.New("sim: controller not configured")
	ErrNotRunning    = errors.New("sim: controller not running")
)

// Controller implements engine.Controller and engine.Primer.
type Controller struct {
	mu sync.Mutex

	desc       engine.Descriptor
	lc         engine.LinkConfig
	configured bool

	buf     engine.Buffer
	count   int
	pos     int
	running bool
	paused  bool
	pending []engine.Event

	handler func(engine.Event, error)

	// Signal produces peripheral-to-memory samples: raw filter words for
	// Words buffers, PCM for Bytes buffers.
	Signal func(pos int) int32
	srcPos int

	// Sink collects memory-to-peripheral data as it is shifted out.
	Sink []byte

	// Fail makes the named primitive ("configure", "start", "pause",
	// "resume", "stop", "prime") return the error.
	Fail map[string]error

	Stats Stats
}

// Stats counts primitive invocations.
type Stats struct {
	Configures int
	Starts     int
	Pauses     int
	Resumes    int
	Stops      int
	Clears     int
	Primes     int
}

var (
	_ engine.Controller = (*Controller)(nil)
	_ engine.Primer     = (*Controller)(nil)
)

func New() *Controller {
	return &Controller{Fail: make(map[string]error)}
}

func (c *Controller) fail(op string) error {
	if err := c.Fail[op]; err != nil {
		return fmt.Errorf("sim %s: %w", op, err)
	}
	return nil
}

// Descriptor returns the last descriptor configured.
func (c *Controller) Descriptor() engine.Descriptor {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.desc
}

// LinkConfig returns the last link configuration.
func (c *Controller) LinkConfig() engine.LinkConfig {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.lc
}

// Running reports whether the channel is armed and not paused.
func (c *Controller) Running() bool {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.running && !c.paused
}

// Position returns the element index the channel transfers next.
func (c *Controller) Position() int {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.pos
}

func (c *Controller) SetHandler(h func(engine.Event, error)) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.handler = h
}

func (c *Controller) Configure(d engine.Descriptor, lc engine.LinkConfig) error {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.Stats.Configures++
	if err := c.fail("configure"); err != nil {
		return err
	}
	c.desc, c.lc, c.configured = d, lc, true
	return nil
}

func (c *Controller) Start(buf engine.Buffer, count int) error {
	c.mu.Lock()
	c.Stats.Starts++
	if err := c.fail("start"); err != nil {
		c.mu.Unlock()
		return err
	}
	if !c.configured {
		c.mu.Unlock()
		return ErrNotConfigured
	}
	c.buf, c.count, c.pos = buf, count, 0
	c.running, c.paused = true, false
	pending := c.pending
	c.pending = nil
	h := c.handler
	c.mu.Unlock()

	// Flags left set while disabled fire as soon as interrupts are enabled.
	for _, ev := range pending {
		if h != nil {
			h(ev, nil)
		}
	}
	return nil
}

func (c *Controller) Pause() error {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.Stats.Pauses++
	if err := c.fail("pause"); err != nil {
		return err
	}
	if !c.running {
		return ErrNotRunning
	}
	c.paused = true
	return nil
}

func (c *Controller) Resume() error {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.Stats.Resumes++
	if err := c.fail("resume"); err != nil {
		return err
	}
	if !c.running {
		return ErrNotRunning
	}
	c.paused = false
	return nil
}

func (c *Controller) Stop() error {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.Stats.Stops++
	c.running, c.paused = false, false
	return c.fail("stop")
}

func (c *Controller) ClearFlags() {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.Stats.Clears++
	c.pending = nil
}

// Prime shifts out frames silent stereo frames.
func (c *Controller) Prime(frames int) error {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.Stats.Primes++
	if err := c.fail("prime"); err != nil {
		return err
	}
	w := int(c.desc.Width)
	if w == 0 {
		w = 2
	}
	c.Sink = append(c.Sink, make([]byte, frames*2*w)...)
	return nil
}

// Raise injects ev. While the channel is disabled the event is latched as
// a pending flag until ClearFlags or the next Start.
func (c *Controller) Raise(ev engine.Event, err error) {
	c.mu.Lock()
	if !c.running {
		c.pending = append(c.pending, ev)
		c.mu.Unlock()
		return
	}
	h := c.handler
	c.mu.Unlock()
	if h != nil {
		h(ev, err)
	}
}

// Step transfers up to n elements and delivers the events crossed on the
// way. It returns the number of elements moved.
func (c *Controller) Step(n int) int {
	var events []engine.Event

	c.mu.Lock()
	if !c.running || c.paused {
		c.mu.Unlock()
		return 0
	}
	moved := 0
	for ; moved < n; moved++ {
		c.transfer(c.pos)
		c.pos++
		if c.pos == c.count/2 {
			events = append(events, engine.EventHalf)
		}
		if c.pos == c.count {
			events = append(events, engine.EventFull)
			c.pos = 0
			if !c.desc.Circular() {
				c.running = false
				moved++
				break
			}
		}
	}
	h := c.handler
	c.mu.Unlock()

	for _, ev := range events {
		if h != nil {
			h(ev, nil)
		}
	}
	return moved
}

// StepHalf transfers up to the next half or full boundary.
func (c *Controller) StepHalf() int {
	c.mu.Lock()
	half := c.count / 2
	n := 0
	if half > 0 {
		n = half - c.pos%half
	}
	c.mu.Unlock()
	return c.Step(n)
}

func (c *Controller) transfer(i int) {
	switch b := c.buf.(type) {
	case engine.Words:
		if c.desc.Direction == engine.PeriphToMem {
			b[i] = c.sample()
		}
	case engine.Bytes:
		w := int(c.desc.Width)
		el := b[i*w : (i+1)*w]
		if c.desc.Direction == engine.MemToPeriph {
			c.Sink = append(c.Sink, el...)
			return
		}
		utils.PutSample(el, w, int16(c.sample()))
	}
}

func (c *Controller) sample() int32 {
	if c.Signal == nil {
		return 0
	}
	v := c.Signal(c.srcPos)
	c.srcPos++
	return v
}
