// SPDX-License-Identifier: EPL-2.0

package flac

import "errors"

// ErrUnsupportedBitDepth indicates a stream deeper than 32 bits.
var ErrUnsupportedBitDepth = errors.New("unsupported FLAC bit depth")
