// SPDX-License-Identifier: EPL-2.0

package engine

import "github.com/ik5/audiobsp/audio"

// Direction of a DMA transfer.
type Direction uint8

// Transfer directions.
const (
	MemToPeriph Direction = iota
	PeriphToMem
)

// Width is the DMA element size in bytes.
type Width uint8

// Element widths.
const (
	WidthByte     Width = 1
	WidthHalfWord Width = 2
	WidthWord     Width = 4
)

// Mode selects how the controller walks the buffer.
type Mode uint8

// Transfer modes.
const (
	// ModeNormal transfers the buffer once.
	ModeNormal Mode = iota
	// ModeCircular restarts at the buffer head after the last element.
	ModeCircular
	// ModeLinkedList runs a node queue that loops onto itself.
	ModeLinkedList
)

// Priority is the DMA arbitration priority.
type Priority uint8

// Priorities.
const (
	PriorityLow Priority = iota
	PriorityMedium
	PriorityHigh
	PriorityVeryHigh
)

// Descriptor is one DMA binding. It is rebuilt on every reconfiguration and
// belongs to exactly one Engine.
type Descriptor struct {
	Link      Link
	Direction Direction
	Width     Width
	PeriphInc bool
	MemInc    bool
	Mode      Mode
	Priority  Priority
}

// WidthFor returns the element width carrying samples of resolution bits on
// link. Sigma-delta filters always deliver 32-bit words.
func WidthFor(link Link, bits audio.Resolution) Width {
	if link.Kind == LinkDFSDM {
		return WidthWord
	}
	return Width(bits.BytesPerSample())
}

// NewDescriptor builds the descriptor for a stream on link.
func NewDescriptor(link Link, dir Direction, width Width, mode Mode) Descriptor {
	return Descriptor{
		Link:      link,
		Direction: dir,
		Width:     width,
		PeriphInc: false,
		MemInc:    true,
		Mode:      mode,
		Priority:  PriorityHigh,
	}
}

// Circular reports whether the transfer restarts after the last element.
func (d Descriptor) Circular() bool {
	return d.Mode == ModeCircular || d.Mode == ModeLinkedList
}
