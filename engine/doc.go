// SPDX-License-Identifier: EPL-2.0

// Package engine is the transfer engine: circular DMA queues bound to serial
// audio links and sigma-delta filter channels.
//
// An Engine owns the Descriptor of one Link and drives a Controller, the
// hardware primitive behind it. The controller raises half and full
// completion events from interrupt context; the engine forwards them to its
// Listener while a transfer runs and drops them otherwise.
//
//	e := engine.New(engine.SAI(0), ctrl, nil)
//	e.SetListener(l)
//	_ = e.Configure(engine.MemToPeriph, engine.WidthHalfWord, engine.ModeCircular, lc)
//	_ = e.Start(engine.Bytes(buf), len(buf)/2)
//	...
//	_ = e.Stop() // no listener call after this returns
//
// Linked-list transfers share a Queue. Configuring a link appends its node
// once; later configurations refresh the node in place.
//
// The package also carries the board-independent link parameters: TDM slot
// plans for codec links and the sigma-delta decimation table.
package engine
