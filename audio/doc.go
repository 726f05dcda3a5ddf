// SPDX-License-Identifier: EPL-2.0

// Package audio holds the shared vocabulary of the streaming engine.
//
// It defines:
//   - the error taxonomy returned by every stream, codec and engine call,
//     with a numeric Status bridge for firmware-style callers
//   - the configuration surface (SampleRate, Resolution, channel count,
//     volume) and the byte/element conversion used at the public boundary
//   - playback and capture device selectors (OutDevice, InDevice)
//   - the Source interface for PCM producers and a decoder Registry
//   - ChannelMapper and Resampler, which adapt a Source to the format a
//     playback instance was initialized with
//
// # Errors
//
// Errors are sentinels compared with errors.Is. Callers needing the numeric
// result codes of board support firmware use StatusOf:
//
//	if err := out.Play(0, buf); err != nil {
//	    if errors.Is(err, audio.ErrBusy) {
//	        // stop first
//	    }
//	    code := audio.StatusOf(err) // audio.StatusBusy == -3
//	}
//
// # Buffer accounting
//
// Public calls take lengths in bytes. Elements converts a byte length into a
// DMA element count once, rejecting partial elements and counts above
// MaxTransferCount.
//
// # Source Interface
//
// Sources produce interleaved signed 16-bit samples:
//
//	type Source interface {
//	    SampleRate() int
//	    Channels() int
//	    ReadSamples(dst []int16) (int, error)
//	    BufSize() int
//	    Close() error
//	}
//
// Decoders under formats/ and the adapters here implement it, so they chain:
//
//	src := audio.NewResampler(audio.NewChannelMapper(dec, 2), 48000)
package audio
