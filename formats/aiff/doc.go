// SPDX-License-Identifier: EPL-2.0

// Package aiff decodes AIFF files with github.com/go-audio/aiff.
//
// Samples of 8, 16, 24 and 32 bits are scaled to int16. Inputs that are not
// io.ReadSeekers are read into memory first, since the decoder seeks
// between chunks.
//
//	src, err := aiff.Decoder{}.Decode(f)
//	buf := make([]int16, src.BufSize())
//	n, err := src.ReadSamples(buf)
package aiff
