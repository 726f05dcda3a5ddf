// SPDX-License-Identifier: EPL-2.0

// Package codec is the boundary between the stream controllers and an
// audio codec chip.
//
// Driver is the capability the controllers consume. A chip sits on a Bus at
// an address, with reset and tick services from a Platform; IO binds the
// three together and moves 16-bit registers MSB first.
//
// Device pairs a Driver with its IO and expected chip ID, and Detect checks
// the chip is present. Power reference-counts the stream instances sharing
// one codec: the first Acquire detects, the last Release shuts down.
//
// Register programs are Sequences. Every write of a sequence is attempted,
// failures are summed by an Accumulator and reported once as
// audio.ErrComponentFailure. TableDriver implements Driver entirely from a
// Table of such sequences, so a board only supplies datasheet values.
package codec
