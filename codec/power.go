// SPDX-License-Identifier: EPL-2.0

package codec

import (
	"fmt"
	"math/bits"
	"sync"

	"github.com/ik5/audiobsp/internal/logging"
)

// User identifies one stream instance sharing a codec. Each coupled
// instance needs a distinct bit.
type User uint32

// Power reference-counts codec power across the stream instances wired to
// it. The first Acquire detects the chip, the last Release shuts it down.
type Power struct {
	mu     sync.Mutex
	dev    *Device
	users  User
	cycles int
}

func NewPower(dev *Device) *Power {
	return &Power{dev: dev}
}

// Device returns the codec being managed.
func (p *Power) Device() *Device { return p.dev }

// Acquire registers user. It detects the codec when user is the first one.
// Acquiring twice for the same user is a no-op.
func (p *Power) Acquire(user User) error {
	p.mu.Lock()
	defer p.mu.Unlock()

	if p.users&user != 0 {
		return nil
	}
	if p.users == 0 {
		if err := p.dev.Detect(); err != nil {
			return err
		}
		p.cycles++
		logging.Debug(logging.ComponentCodec, "codec powered up", "user", uint32(user))
	}
	p.users |= user
	return nil
}

// Release drops user. The codec is shut down when no user is left. Releasing
// a user that never acquired is a no-op.
func (p *Power) Release(user User) error {
	p.mu.Lock()
	defer p.mu.Unlock()

	if p.users&user == 0 {
		return nil
	}
	p.users &^= user
	if p.users != 0 {
		return nil
	}
	logging.Debug(logging.ComponentCodec, "codec powered down", "user", uint32(user))
	if err := p.dev.Shutdown(); err != nil {
		return fmt.Errorf("power down: %w", err)
	}
	return nil
}

// Powered reports whether any user holds the codec.
func (p *Power) Powered() bool {
	p.mu.Lock()
	defer p.mu.Unlock()
	return p.users != 0
}

// Users returns how many users hold the codec.
func (p *Power) Users() int {
	p.mu.Lock()
	defer p.mu.Unlock()
	return bits.OnesCount32(uint32(p.users))
}

// Cycles returns how many times the codec was powered up.
func (p *Power) Cycles() int {
	p.mu.Lock()
	defer p.mu.Unlock()
	return p.cycles
}

// Holds reports whether user currently holds the codec.
func (p *Power) Holds(user User) bool {
	p.mu.Lock()
	defer p.mu.Unlock()
	return p.users&user != 0
}

