// SPDX-License-Identifier: EPL-2.0

package stream

// State is the lifecycle state of a stream instance.
type State uint8

// Instance states.
const (
	StateReset State = iota
	StateStop
	StatePlaying
	StateRecording
	StatePause
)

func (s State) String() string {
	switch s {
	case StateReset:
		return "reset"
	case StateStop:
		return "stop"
	case StatePlaying:
		return "playing"
	case StateRecording:
		return "recording"
	case StatePause:
		return "pause"
	default:
		return "unknown"
	}
}

// Active reports whether a transfer is armed.
func (s State) Active() bool {
	return s == StatePlaying || s == StateRecording || s == StatePause
}

// Listener receives the buffer progress of one instance. Methods run in
// interrupt context: they must not block and must not call back into the
// Subsystem.
type Listener interface {
	OnHalfComplete(instance int)
	OnFullComplete(instance int)
	OnError(instance int, err error)
}

// ListenerFuncs adapts plain functions to Listener. Nil fields are skipped.
type ListenerFuncs struct {
	Half  func(instance int)
	Full  func(instance int)
	Error func(instance int, err error)
}

func (f ListenerFuncs) OnHalfComplete(instance int) {
	if f.Half != nil {
		f.Half(instance)
	}
}

func (f ListenerFuncs) OnFullComplete(instance int) {
	if f.Full != nil {
		f.Full(instance)
	}
}

func (f ListenerFuncs) OnError(instance int, err error) {
	if f.Error != nil {
		f.Error(instance, err)
	}
}
