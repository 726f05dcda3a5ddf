// SPDX-License-Identifier: EPL-2.0

package audiotest

import (
	"fmt"
	"sync"

	"github.com/ik5/audiobsp/audio"
	"github.com/ik5/audiobsp/codec"
)

// FakeCodec is a scripted codec.Driver. It logs every call by name and
// fails the calls listed in Fail.
type FakeCodec struct {
	mu sync.Mutex

	ID    uint32
	Fail  map[string]bool
	calls []string

	Config    codec.InitConfig
	Volume    [2]uint8
	Muted     bool
	Powered   bool
	LastStop  codec.StopMode
	Frequency audio.SampleRate
	Bits      audio.Resolution
	Output    audio.OutDevice
}

var _ codec.Driver = (*FakeCodec)(nil)

// NewFakeCodec returns a codec answering ReadID with id.
func NewFakeCodec(id uint32) *FakeCodec {
	return &FakeCodec{ID: id, Fail: make(map[string]bool)}
}

// Calls returns a copy of the call log.
func (c *FakeCodec) Calls() []string {
	c.mu.Lock()
	defer c.mu.Unlock()
	return append([]string(nil), c.calls...)
}

// Count returns how many times name was called.
func (c *FakeCodec) Count(name string) int {
	c.mu.Lock()
	defer c.mu.Unlock()
	n := 0
	for _, s := range c.calls {
		if s == name {
			n++
		}
	}
	return n
}

// SetFail toggles failure injection for name.
func (c *FakeCodec) SetFail(name string, fail bool) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.Fail[name] = fail
}

// IsPowered reports whether Init was called after the last DeInit.
func (c *FakeCodec) IsPowered() bool {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.Powered
}

func (c *FakeCodec) call(name string) error {
	c.calls = append(c.calls, name)
	if c.Fail[name] {
		return fmt.Errorf("%s: %w", name, ErrInjected)
	}
	return nil
}

func (c *FakeCodec) Init(cfg codec.InitConfig) error {
	c.mu.Lock()
	defer c.mu.Unlock()
	if err := c.call("Init"); err != nil {
		return err
	}
	c.Config = cfg
	c.Powered = true
	c.Frequency = cfg.Frequency
	c.Bits = cfg.Resolution
	c.Output = cfg.Output
	c.Muted = false
	return nil
}

func (c *FakeCodec) DeInit() error {
	c.mu.Lock()
	defer c.mu.Unlock()
	if err := c.call("DeInit"); err != nil {
		return err
	}
	c.Powered = false
	return nil
}

func (c *FakeCodec) ReadID() (uint32, error) {
	c.mu.Lock()
	defer c.mu.Unlock()
	if err := c.call("ReadID"); err != nil {
		return 0, err
	}
	return c.ID, nil
}

func (c *FakeCodec) Play() error {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.call("Play")
}

func (c *FakeCodec) Pause() error {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.call("Pause")
}

func (c *FakeCodec) Resume() error {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.call("Resume")
}

func (c *FakeCodec) Stop(mode codec.StopMode) error {
	c.mu.Lock()
	defer c.mu.Unlock()
	if err := c.call("Stop"); err != nil {
		return err
	}
	c.LastStop = mode
	return nil
}

func (c *FakeCodec) SetVolume(dir codec.Direction, volume uint8) error {
	c.mu.Lock()
	defer c.mu.Unlock()
	if err := c.call("SetVolume"); err != nil {
		return err
	}
	c.Volume[dir] = volume
	return nil
}

func (c *FakeCodec) GetVolume(dir codec.Direction) (uint8, error) {
	c.mu.Lock()
	defer c.mu.Unlock()
	if err := c.call("GetVolume"); err != nil {
		return 0, err
	}
	return c.Volume[dir], nil
}

func (c *FakeCodec) SetMute(on bool) error {
	c.mu.Lock()
	defer c.mu.Unlock()
	if err := c.call("SetMute"); err != nil {
		return err
	}
	c.Muted = on
	return nil
}

func (c *FakeCodec) SetFrequency(rate audio.SampleRate) error {
	c.mu.Lock()
	defer c.mu.Unlock()
	if err := c.call("SetFrequency"); err != nil {
		return err
	}
	c.Frequency = rate
	return nil
}

func (c *FakeCodec) SetResolution(bits audio.Resolution) error {
	c.mu.Lock()
	defer c.mu.Unlock()
	if err := c.call("SetResolution"); err != nil {
		return err
	}
	c.Bits = bits
	return nil
}

func (c *FakeCodec) SetOutputMode(dev audio.OutDevice) error {
	c.mu.Lock()
	defer c.mu.Unlock()
	if err := c.call("SetOutputMode"); err != nil {
		return err
	}
	c.Output = dev
	return nil
}

func (c *FakeCodec) Reset() error {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.call("Reset")
}
