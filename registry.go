// SPDX-License-Identifier: EPL-2.0

package audiobsp

import (
	"path/filepath"
	"strings"

	"github.com/ik5/audiobsp/audio"
	"github.com/ik5/audiobsp/formats/aiff"
	"github.com/ik5/audiobsp/formats/flac"
	"github.com/ik5/audiobsp/formats/mp3"
	"github.com/ik5/audiobsp/formats/vorbis"
	"github.com/ik5/audiobsp/formats/wav"
)

// DefaultRegistry returns a registry with every bundled decoder, keyed by
// the usual file extensions.
func DefaultRegistry() *audio.Registry {
	r := audio.NewRegistry()
	r.Register("wav", wav.Decoder{})
	r.Register("aiff", aiff.Decoder{})
	r.Register("aif", aiff.Decoder{})
	r.Register("mp3", mp3.Decoder{})
	r.Register("ogg", vorbis.Decoder{})
	r.Register("oga", vorbis.Decoder{})
	r.Register("flac", flac.Decoder{})
	return r
}

// FormatOf returns the registry key for a file name: its lower-cased
// extension without the dot.
func FormatOf(name string) string {
	return strings.TrimPrefix(strings.ToLower(filepath.Ext(name)), ".")
}
