// SPDX-License-Identifier: EPL-2.0

// Package flac decodes FLAC files with github.com/mewkiz/flac.
//
// Frames are decoded one at a time and interleaved across subframes, so a
// read never holds more than one block in memory.
package flac
