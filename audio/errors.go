// SPDX-License-Identifier: EPL-2.0

package audio

import "errors"

// Stream and driver errors. Every public call in this module returns one of
// these, possibly wrapped with context.
var (
	// ErrNoInit indicates a delegated re-initialization failed.
	ErrNoInit = errors.New("not initialized")

	// ErrWrongParam indicates a bad instance index or argument out of range.
	ErrWrongParam = errors.New("wrong parameter")

	// ErrBusy indicates the state machine precondition was not met.
	ErrBusy = errors.New("busy")

	// ErrPeriphFailure indicates the transfer engine rejected a configuration,
	// start or stop request.
	ErrPeriphFailure = errors.New("peripheral failure")

	// ErrComponentFailure indicates the codec returned an error.
	ErrComponentFailure = errors.New("component failure")

	// ErrUnknownComponent indicates the codec answered with an unexpected ID.
	ErrUnknownComponent = errors.New("unknown component")

	// ErrBusFailure indicates the control bus could not be brought up.
	ErrBusFailure = errors.New("bus failure")

	// ErrClockFailure indicates the platform rejected the clock derivation.
	ErrClockFailure = errors.New("clock failure")

	// ErrFeatureNotSupported indicates a legal request that a sibling
	// instance or the hardware cannot honor.
	ErrFeatureNotSupported = errors.New("feature not supported")

	ErrInvalidDstSize = errors.New("dst size must be multiple of channels")
	ErrUnknownFormat  = errors.New("no decoder registered")
)
