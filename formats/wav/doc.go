// SPDX-License-Identifier: EPL-2.0

// Package wav reads and writes WAV files around the stream engine.
//
// # Decoding
//
// Decoder wraps the go-audio WAV decoder and yields an audio.Source of
// interleaved int16 samples. PCM files of 16, 24 and 32 bits are accepted;
// deeper samples are scaled down to 16 bits.
//
//	src, err := wav.Decoder{}.Decode(f)
//	buf := make([]int16, src.BufSize())
//	n, err := src.ReadSamples(buf)
//
// # Recording
//
// Recorder is a stream.Listener that copies each completed half of a record
// buffer and encodes it with the go-audio WAV encoder. The layout from
// AudioIn.Layout tells it which slots of each frame carry channels:
//
//	layout, _ := in.Layout(0)
//	rec, _ := wav.NewRecorder(f, buf, cfg, layout, 0)
//	_ = in.SetListener(0, rec)
//	_ = in.Record(0, buf)
//	...
//	_ = in.Stop(0)
//	_ = rec.Close()
//
// # Writing
//
// WriteWAV16 emits a canonical 44-byte header followed by 16-bit samples
// and works on any io.Writer.
package wav
