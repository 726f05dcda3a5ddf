// SPDX-License-Identifier: EPL-2.0

package audio

// ChannelMapper adapts the channel count of a Source to what a playback
// instance is configured for. Mono is duplicated into every output slot,
// multi-channel input folds to mono by averaging, and a wider source
// narrowed to stereo keeps its first two channels.
type ChannelMapper struct {
	src      Source
	channels int
	tmp      []int16
}

func NewChannelMapper(src Source, channels int) *ChannelMapper {
	if channels < 1 {
		channels = 1
	}
	return &ChannelMapper{
		src:      src,
		channels: channels,
		tmp:      make([]int16, 4096),
	}
}

func (m *ChannelMapper) SampleRate() int { return m.src.SampleRate() }
func (m *ChannelMapper) Channels() int   { return m.channels }
func (m *ChannelMapper) BufSize() int    { return m.src.BufSize() }
func (m *ChannelMapper) Close() error    { return m.src.Close() }

func (m *ChannelMapper) ReadSamples(dst []int16) (int, error) {
	if len(dst)%m.channels != 0 {
		return 0, ErrInvalidDstSize
	}
	in := m.src.Channels()
	if in == m.channels {
		return m.src.ReadSamples(dst)
	}

	frames := len(dst) / m.channels
	if frames == 0 {
		return 0, nil
	}
	need := frames * in
	if cap(m.tmp) < need {
		m.tmp = make([]int16, max(need, 8192))
	}
	m.tmp = m.tmp[:need]

	n, err := m.src.ReadSamples(m.tmp)
	if n == 0 {
		return 0, err
	}
	got := n / in

	switch {
	case in == 1:
		for f := range got {
			v := m.tmp[f]
			out := dst[f*m.channels : (f+1)*m.channels]
			for c := range out {
				out[c] = v
			}
		}
	case m.channels == 1:
		for f := range got {
			var sum int32
			for _, v := range m.tmp[f*in : (f+1)*in] {
				sum += int32(v)
			}
			dst[f] = int16(sum / int32(in))
		}
	default:
		for f := range got {
			copy(dst[f*m.channels:(f+1)*m.channels], m.tmp[f*in:f*in+m.channels])
		}
	}

	return got * m.channels, err
}
