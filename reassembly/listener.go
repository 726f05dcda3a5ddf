// SPDX-License-Identifier: EPL-2.0

package reassembly

import "github.com/ik5/audiobsp/engine"

// Notice identifies the capture that produced a notification.
type Notice struct {
	// Session is the tag given to Start.
	Session string
	// Mic is the zero-based microphone for per-channel notices and -1 for
	// the combined stream.
	Mic int
}

// Combined is the Mic value of combined-stream notices.
const Combined = -1

// Listener receives reassembled buffer progress. Methods run in interrupt
// context and must not block.
type Listener interface {
	HalfComplete(n Notice)
	FullComplete(n Notice)
	TransferError(n Notice, err error)
}

// Ports hands out the engine.Listener to install on each microphone's
// filter engine.
type Ports interface {
	Port(mic int) engine.Listener
}

// ListenerFuncs adapts plain functions to Listener. Nil fields are skipped.
type ListenerFuncs struct {
	Half  func(Notice)
	Full  func(Notice)
	Error func(Notice, error)
}

func (f ListenerFuncs) HalfComplete(n Notice) {
	if f.Half != nil {
		f.Half(n)
	}
}

func (f ListenerFuncs) FullComplete(n Notice) {
	if f.Full != nil {
		f.Full(n)
	}
}

func (f ListenerFuncs) TransferError(n Notice, err error) {
	if f.Error != nil {
		f.Error(n, err)
	}
}
