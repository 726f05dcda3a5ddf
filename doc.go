// SPDX-License-Identifier: EPL-2.0

// Package audiobsp is the host-side glue of the audio streaming engine.
//
// The stream package drives playback and capture instances over simulated
// or real transfer links. This package connects those instances to decoded
// audio:
//
//	reg := audiobsp.DefaultRegistry()
//	src, _ := reg.Open(audiobsp.FormatOf("tone.flac"), file)
//
//	out := sub.Out()
//	_ = out.Init(0, cfg)
//	p, _ := audiobsp.NewPlayer(out, 0, src, 512)
//	err := p.Run(ctx)
//
// A Player converts its source to the instance configuration with Convert,
// fills both halves of a double buffer and refills the drained half on
// every half or full notification. Notifications only signal the refill
// loop, so Run is where decoding happens.
//
// Captured audio goes the other way through formats/wav.Recorder.
package audiobsp
