// SPDX-License-Identifier: EPL-2.0

// Package reassembly turns per-microphone sigma-delta filter output into
// the PCM the application asked for.
//
// Every enabled microphone owns a ChannelBuffer filled by its own filter
// engine. A Reassembler waits until each merged microphone has reported the
// same half, then shifts, saturates and interleaves that half into the
// caller's record buffer. Half and full notifications fire once per pass
// over the record buffer. The microphones may complete in any order; the
// last one to report does the work.
//
// MultiBuffer skips the merge and forwards each filter's completion as is.
package reassembly
