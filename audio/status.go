// SPDX-License-Identifier: EPL-2.0

package audio

import "errors"

// Status is the numeric result code used by board support firmware.
// It lets callers bridging to C-style APIs translate errors without string
// matching.
type Status int

// Status values.
const (
	StatusOK                  Status = 0
	StatusNoInit              Status = -1
	StatusWrongParam          Status = -2
	StatusBusy                Status = -3
	StatusPeriphFailure       Status = -4
	StatusComponentFailure    Status = -5
	StatusUnknownFailure      Status = -6
	StatusUnknownComponent    Status = -7
	StatusBusFailure          Status = -8
	StatusClockFailure        Status = -9
	StatusMSPFailure          Status = -10
	StatusFeatureNotSupported Status = -11
)

// String returns a string representation of the status.
func (s Status) String() string {
	switch s {
	case StatusOK:
		return "ok"
	case StatusNoInit:
		return "no init"
	case StatusWrongParam:
		return "wrong param"
	case StatusBusy:
		return "busy"
	case StatusPeriphFailure:
		return "periph failure"
	case StatusComponentFailure:
		return "component failure"
	case StatusUnknownComponent:
		return "unknown component"
	case StatusBusFailure:
		return "bus failure"
	case StatusClockFailure:
		return "clock failure"
	case StatusMSPFailure:
		return "msp failure"
	case StatusFeatureNotSupported:
		return "feature not supported"
	default:
		return "unknown failure"
	}
}

// Err returns the sentinel error for the status, or nil for StatusOK.
func (s Status) Err() error {
	switch s {
	case StatusOK:
		return nil
	case StatusNoInit:
		return ErrNoInit
	case StatusWrongParam:
		return ErrWrongParam
	case StatusBusy:
		return ErrBusy
	case StatusPeriphFailure, StatusMSPFailure:
		return ErrPeriphFailure
	case StatusComponentFailure:
		return ErrComponentFailure
	case StatusUnknownComponent:
		return ErrUnknownComponent
	case StatusBusFailure:
		return ErrBusFailure
	case StatusClockFailure:
		return ErrClockFailure
	case StatusFeatureNotSupported:
		return ErrFeatureNotSupported
	default:
		return errors.New(s.String())
	}
}

var statusTable = []struct {
	err    error
	status Status
}{
	{ErrNoInit, StatusNoInit},
	{ErrWrongParam, StatusWrongParam},
	{ErrBusy, StatusBusy},
	{ErrPeriphFailure, StatusPeriphFailure},
	{ErrComponentFailure, StatusComponentFailure},
	{ErrUnknownComponent, StatusUnknownComponent},
	{ErrBusFailure, StatusBusFailure},
	{ErrClockFailure, StatusClockFailure},
	{ErrFeatureNotSupported, StatusFeatureNotSupported},
}

// StatusOf maps err onto a Status. Wrapped sentinels are recognized; any
// other non-nil error is StatusUnknownFailure.
func StatusOf(err error) Status {
	if err == nil {
		return StatusOK
	}
	for _, e := range statusTable {
		if errors.Is(err, e.err) {
			return e.status
		}
	}
	return StatusUnknownFailure
}
