// SPDX-License-Identifier: EPL-2.0

// Package stream is the public audio API of a board: playback and capture
// instances with a RESET, STOP, PLAYING or RECORDING, PAUSE lifecycle.
//
// A Subsystem owns every instance described by its Board, the transfer
// engines behind them and the codec they share. Output instance 0 and
// input instance 0 of the default board are coupled: they run on one codec,
// must agree on sample rate and depth while both are initialized, and the
// codec stays powered until both are back in RESET.
//
//	sub := stream.New(stream.DefaultBoard(), dev)
//	out := sub.Out()
//	_ = out.Init(0, audio.Config{
//		Device:        uint32(audio.OutDeviceHeadphone),
//		SampleRate:    audio.SampleRate48K,
//		BitsPerSample: audio.Resolution16,
//		ChannelsNbr:   2,
//		Volume:        70,
//	})
//	_ = out.SetListener(0, l)
//	_ = out.Play(0, buf)
//
// Buffers are measured in bytes. Listener methods run in interrupt context
// and must hand work off without blocking.
package stream
