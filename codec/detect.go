// SPDX-License-Identifier: EPL-2.0

package codec

import (
	"fmt"

	"github.com/ik5/audiobsp/audio"
	"github.com/ik5/audiobsp/internal/logging"
)

// Device is a codec Driver bound to the bus it sits on and the chip ID it
// must answer with.
type Device struct {
	Driver Driver
	IO     IO
	// ID is the expected ReadID answer. Zero skips the comparison.
	ID uint32
	// ResetLowMs is the reset pulse width used when IO has a platform.
	ResetLowMs uint32
}

// Detect brings the bus up, pulses the reset line, soft-resets the chip and
// checks its identity.
func (d *Device) Detect() error {
	if d.Driver == nil {
		return fmt.Errorf("detect: no driver: %w", audio.ErrWrongParam)
	}
	if d.IO.Bus != nil {
		if err := d.IO.Bus.Init(); err != nil {
			return fmt.Errorf("detect: bus init: %w: %w", audio.ErrBusFailure, err)
		}
	}
	if err := ResetPulse(d.IO, d.ResetLowMs); err != nil {
		return fmt.Errorf("detect: %w: %w", audio.ErrBusFailure, err)
	}
	if err := d.Driver.Reset(); err != nil {
		return fmt.Errorf("detect: reset: %w: %w", audio.ErrComponentFailure, err)
	}
	id, err := d.Driver.ReadID()
	if err != nil {
		return fmt.Errorf("detect: read id: %w: %w", audio.ErrComponentFailure, err)
	}
	if d.ID != 0 && id != d.ID {
		logging.Warn(logging.ComponentCodec, "codec id mismatch", "got", id, "want", d.ID)
		return fmt.Errorf("detect: id %#x, want %#x: %w", id, d.ID, audio.ErrUnknownComponent)
	}
	logging.Debug(logging.ComponentCodec, "codec detected", "id", id)
	return nil
}

// Shutdown de-initializes the chip and releases the bus.
func (d *Device) Shutdown() error {
	var acc Accumulator
	acc.Add(d.Driver.DeInit())
	if d.IO.Bus != nil {
		if err := d.IO.Bus.DeInit(); err != nil {
			acc.Add(fmt.Errorf("bus deinit: %w", err))
		}
	}
	return acc.Err()
}
