// SPDX-License-Identifier: EPL-2.0

package engine

// Event is a completion interrupt raised by a controller.
type Event uint8

// Completion events.
const (
	EventHalf Event = iota
	EventFull
	EventError
)

func (e Event) String() string {
	switch e {
	case EventHalf:
		return "half"
	case EventFull:
		return "full"
	default:
		return "error"
	}
}

// Buffer is DMA-visible memory.
type Buffer interface {
	// Elements returns how many elements of width w fit in the buffer.
	Elements(w Width) int
}

// Bytes is a byte-addressed DMA buffer used by serial audio links.
type Bytes []byte

func (b Bytes) Elements(w Width) int { return len(b) / int(w) }

// Words is a word buffer written by sigma-delta filters.
type Words []int32

func (b Words) Elements(Width) int { return len(b) }

// Controller is the hardware primitive behind one Link. Implementations
// deliver completion interrupts to the function set with SetHandler, from
// interrupt context.
type Controller interface {
	Configure(d Descriptor, lc LinkConfig) error
	// Start arms the transfer of count elements of buf and enables the
	// completion interrupts.
	Start(buf Buffer, count int) error
	Pause() error
	Resume() error
	// Stop disables the transfer and its interrupts.
	Stop() error
	// ClearFlags drops pending completion flags.
	ClearFlags()
	SetHandler(h func(ev Event, err error))
}

// Primer is implemented by controllers of clock-master links that can
// shift out a short burst to start the frame clock for a slave sibling.
type Primer interface {
	Prime(frames int) error
}
