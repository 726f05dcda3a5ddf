// SPDX-License-Identifier: EPL-2.0

package audiotest

import (
	"errors"
	"io"
)

// WriteSeeker is an in-memory io.WriteSeeker for encoders that patch their
// headers after the data is written.
type WriteSeeker struct {
	buf []byte
	pos int
}

// Bytes returns everything written so far.
func (ws *WriteSeeker) Bytes() []byte { return ws.buf }

func (ws *WriteSeeker) Write(p []byte) (int, error) {
	if end := ws.pos + len(p); end > len(ws.buf) {
		ws.buf = append(ws.buf, make([]byte, end-len(ws.buf))...)
	}
	copy(ws.buf[ws.pos:], p)
	ws.pos += len(p)
	return len(p), nil
}

func (ws *WriteSeeker) Seek(offset int64, whence int) (int64, error) {
	pos := int(offset)
	switch whence {
	case io.SeekStart:
	case io.SeekCurrent:
		pos += ws.pos
	case io.SeekEnd:
		pos += len(ws.buf)
	default:
		return 0, errors.New("audiotest: invalid whence")
	}
	if pos < 0 {
		return 0, errors.New("audiotest: negative position")
	}
	ws.pos = pos
	return int64(pos), nil
}
