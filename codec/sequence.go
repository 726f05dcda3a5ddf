// SPDX-License-Identifier: EPL-2.0

package codec

import (
	"fmt"

	"github.com/ik5/audiobsp/audio"
)

// Accumulator sums register write failures so a whole sequence is
// attempted and reported once.
type Accumulator struct {
	failed int
	first  error
}

// Add records err if it is non-nil.
func (a *Accumulator) Add(err error) {
	if err == nil {
		return
	}
	a.failed++
	if a.first == nil {
		a.first = err
	}
}

// Failed returns how many errors were added.
func (a *Accumulator) Failed() int { return a.failed }

// Err returns nil when nothing failed, otherwise an ErrComponentFailure
// carrying the failure count and the first error.
func (a *Accumulator) Err() error {
	if a.failed == 0 {
		return nil
	}
	return fmt.Errorf("%d register access(es) failed: %w: %w", a.failed, audio.ErrComponentFailure, a.first)
}

// RegWrite is one register assignment.
type RegWrite struct {
	Reg   uint16
	Value uint16
	// DelayMs is waited after the write.
	DelayMs uint32
}

// Sequence is an ordered list of register writes.
type Sequence []RegWrite

// Apply writes every entry of s, continuing past failures.
func (s Sequence) Apply(io IO) error {
	var acc Accumulator
	for _, w := range s {
		acc.Add(io.Write(w.Reg, w.Value))
		io.Delay(w.DelayMs)
	}
	return acc.Err()
}
