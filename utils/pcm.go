// SPDX-License-Identifier: EPL-2.0

package utils

import "encoding/binary"

// PutSample stores a 16-bit PCM sample into b using the little-endian slot
// layout of a serial audio link of the given width in bytes. Wider slots
// carry the sample left-justified, as the codec expects MSB first.
func PutSample(b []byte, width int, v int16) {
	switch width {
	case 1:
		b[0] = byte(uint16(v)>>8) ^ 0x80
	case 2:
		binary.LittleEndian.PutUint16(b, uint16(v))
	default:
		binary.LittleEndian.PutUint32(b, uint32(int32(v)<<16))
	}
}

// Sample reads back a 16-bit PCM sample stored by PutSample.
func Sample(b []byte, width int) int16 {
	switch width {
	case 1:
		return int16(uint16(b[0]^0x80) << 8)
	case 2:
		return int16(binary.LittleEndian.Uint16(b))
	default:
		return int16(int32(binary.LittleEndian.Uint32(b)) >> 16)
	}
}

// EncodeSamples writes samples into dst with slots of width bytes and
// returns the number of bytes written.
func EncodeSamples(dst []byte, width int, samples []int16) int {
	n := min(len(samples), len(dst)/width)
	for i := range n {
		PutSample(dst[i*width:], width, samples[i])
	}
	return n * width
}

// DecodeSamples reads samples from src with slots of width bytes into dst
// and returns the number of samples read.
func DecodeSamples(dst []int16, width int, src []byte) int {
	n := min(len(dst), len(src)/width)
	for i := range n {
		dst[i] = Sample(src[i*width:], width)
	}
	return n
}
