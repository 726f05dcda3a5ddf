// SPDX-License-Identifier: EPL-2.0

package wav

import (
	"encoding/binary"
	"fmt"
	"io"

	"github.com/ik5/audiobsp/utils"
)

// headerSize is the canonical RIFF/WAVE header with a 16-byte fmt chunk.
const headerSize = 44

// WriteWAV16 writes interleaved 16-bit PCM samples as a WAV stream. Unlike
// the go-audio encoder it needs no io.Seeker, so it also serves pipes and
// network writers.
func WriteWAV16(w io.Writer, sampleRate, channels int, samples []int16) error {
	if channels < 1 || len(samples)%channels != 0 {
		return fmt.Errorf("%d samples for %d channels: %w", len(samples), channels, ErrUnsupportedWavLayout)
	}
	blockAlign := channels * 2
	dataSize := uint32(len(samples) * 2)

	header := make([]byte, headerSize)
	copy(header[0:4], "RIFF")
	binary.LittleEndian.PutUint32(header[4:8], headerSize-8+dataSize)
	copy(header[8:12], "WAVE")
	copy(header[12:16], "fmt ")
	binary.LittleEndian.PutUint32(header[16:20], 16)
	binary.LittleEndian.PutUint16(header[20:22], formatPCM)
	binary.LittleEndian.PutUint16(header[22:24], uint16(channels))
	binary.LittleEndian.PutUint32(header[24:28], uint32(sampleRate))
	binary.LittleEndian.PutUint32(header[28:32], uint32(sampleRate*blockAlign))
	binary.LittleEndian.PutUint16(header[32:34], uint16(blockAlign))
	binary.LittleEndian.PutUint16(header[34:36], 16)
	copy(header[36:40], "data")
	binary.LittleEndian.PutUint32(header[40:44], dataSize)

	if _, err := w.Write(header); err != nil {
		return fmt.Errorf("write header: %w", err)
	}

	// Write 8 KiB of samples at a time.
	const chunk = 8192
	if len(samples) == 0 {
		return nil
	}
	buf := make([]byte, min(len(samples), chunk)*2)
	for i := 0; i < len(samples); i += chunk {
		part := samples[i:min(i+chunk, len(samples))]
		n := utils.EncodeSamples(buf, 2, part)
		if _, err := w.Write(buf[:n]); err != nil {
			return fmt.Errorf("write data: %w", err)
		}
	}
	return nil
}
