// SPDX-License-Identifier: EPL-2.0

package engine

import "fmt"

// LinkKind tags the hardware block a transfer queue is bound to.
type LinkKind uint8

// Link kinds.
const (
	LinkSAI LinkKind = iota
	LinkI2S
	LinkDFSDM
)

// Link is a tagged hardware binding. Index is the SAI block, the I2S port or
// the sigma-delta filter number depending on Kind.
type Link struct {
	Kind  LinkKind
	Index int
}

// SAI returns the link for serial audio block b (0 = A, 1 = B).
func SAI(b int) Link { return Link{Kind: LinkSAI, Index: b} }

// I2S returns the link for I2S port n.
func I2S(n int) Link { return Link{Kind: LinkI2S, Index: n} }

// DFSDMFilter returns the link for sigma-delta filter n.
func DFSDMFilter(n int) Link { return Link{Kind: LinkDFSDM, Index: n} }

func (l Link) String() string {
	switch l.Kind {
	case LinkSAI:
		return fmt.Sprintf("sai-%c", 'a'+rune(l.Index))
	case LinkI2S:
		return fmt.Sprintf("i2s%d", l.Index)
	case LinkDFSDM:
		return fmt.Sprintf("dfsdm-flt%d", l.Index)
	default:
		return "link?"
	}
}
