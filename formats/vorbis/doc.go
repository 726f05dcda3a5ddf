// SPDX-License-Identifier: EPL-2.0

// Package vorbis decodes Ogg Vorbis files with github.com/jfreymuth/oggvorbis.
//
// The library decodes to float32; the source clamps and scales every value
// to int16. Reads are trimmed to whole frames.
package vorbis
