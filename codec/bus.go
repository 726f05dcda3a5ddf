// SPDX-License-Identifier: EPL-2.0

package codec

import (
	"encoding/binary"
	"fmt"
)

// Bus is an I2C-like control bus supplied by the platform.
type Bus interface {
	Init() error
	DeInit() error
	// ReadReg reads len(buf) bytes starting at register reg of device addr.
	ReadReg(addr, reg uint16, buf []byte) error
	// WriteReg writes data starting at register reg of device addr.
	WriteReg(addr, reg uint16, data []byte) error
}

// Platform supplies the board services a codec needs beyond the bus.
type Platform interface {
	// SetReset drives the codec reset line; false holds the chip in reset.
	SetReset(high bool) error
	// Tick returns a free-running millisecond counter.
	Tick() uint32
}

// IO binds a bus address to its bus and platform services. Registers are
// 16-bit wide and transferred MSB first.
type IO struct {
	Address  uint16
	Bus      Bus
	Platform Platform
}

// Read returns the 16-bit value of register reg.
func (io IO) Read(reg uint16) (uint16, error) {
	var buf [2]byte
	if err := io.Bus.ReadReg(io.Address, reg, buf[:]); err != nil {
		return 0, fmt.Errorf("read reg %#04x: %w", reg, err)
	}
	return binary.BigEndian.Uint16(buf[:]), nil
}

// Write stores v into register reg.
func (io IO) Write(reg, v uint16) error {
	var buf [2]byte
	binary.BigEndian.PutUint16(buf[:], v)
	if err := io.Bus.WriteReg(io.Address, reg, buf[:]); err != nil {
		return fmt.Errorf("write reg %#04x: %w", reg, err)
	}
	return nil
}

// Delay busy-waits ms milliseconds on the platform tick. It returns
// immediately without a platform.
func (io IO) Delay(ms uint32) {
	if io.Platform == nil || ms == 0 {
		return
	}
	start := io.Platform.Tick()
	for io.Platform.Tick()-start < ms {
	}
}

// ResetPulse holds the reset line low for lowMs milliseconds, releases it
// and waits the same time for the chip to come up. It is a no-op without a
// platform.
func ResetPulse(io IO, lowMs uint32) error {
	if io.Platform == nil {
		return nil
	}
	if err := io.Platform.SetReset(false); err != nil {
		return fmt.Errorf("assert reset: %w", err)
	}
	io.Delay(lowMs)
	if err := io.Platform.SetReset(true); err != nil {
		return fmt.Errorf("release reset: %w", err)
	}
	io.Delay(lowMs)
	return nil
}
