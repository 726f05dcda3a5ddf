// SPDX-License-Identifier: EPL-2.0

// Package mp3 decodes MP3 files with github.com/hajimehoshi/go-mp3.
//
// The decoder always produces interleaved stereo int16 samples at the
// file's sample rate. Chain it through audiobsp.Convert to feed a mono or
// differently clocked playback instance.
//
//	src, err := mp3.Decoder{}.Decode(f)
//	buf := make([]int16, src.BufSize())
//	n, err := src.ReadSamples(buf)
package mp3
