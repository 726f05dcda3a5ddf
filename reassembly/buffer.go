// SPDX-License-Identifier: EPL-2.0

package reassembly

import (
	"fmt"

	"github.com/ik5/audiobsp/audio"
	"github.com/ik5/audiobsp/engine"
)

// Half names one slot of a ChannelBuffer.
type Half uint8

// Buffer halves.
const (
	First Half = iota
	Second
)

func (h Half) String() string {
	if h == First {
		return "first"
	}
	return "second"
}

// ChannelBuffer is the raw word ring of one microphone. The filter DMA
// writes one half while the reassembler reads the other; ownership of a
// half passes to the reader when its completion event fires.
type ChannelBuffer struct {
	words []int32
}

// NewChannelBuffer allocates a ring of two halves of halfLen words.
func NewChannelBuffer(halfLen int) (*ChannelBuffer, error) {
	if halfLen <= 0 || 2*halfLen > audio.MaxTransferCount {
		return nil, fmt.Errorf("channel buffer half of %d words: %w", halfLen, audio.ErrWrongParam)
	}
	return &ChannelBuffer{words: make([]int32, 2*halfLen)}, nil
}

// Words returns the whole ring as a DMA target.
func (b *ChannelBuffer) Words() engine.Words { return b.words }

// Len returns the ring length in words, the DMA transfer count.
func (b *ChannelBuffer) Len() int { return len(b.words) }

// HalfLen returns the number of words in one half.
func (b *ChannelBuffer) HalfLen() int { return len(b.words) / 2 }

// Slot returns the words of half h.
func (b *ChannelBuffer) Slot(h Half) []int32 {
	n := b.HalfLen()
	if h == First {
		return b.words[:n]
	}
	return b.words[n:]
}
