// SPDX-License-Identifier: EPL-2.0

package stream_test

import (
	"sync"
	"testing"

	"github.com/ik5/audiobsp/audio"
	"github.com/ik5/audiobsp/codec"
	"github.com/ik5/audiobsp/engine"
	"github.com/ik5/audiobsp/engine/sim"
	"github.com/ik5/audiobsp/internal/audiotest"
	"github.com/ik5/audiobsp/stream"
)

const codecID = 0x8994

func newSubsystem(t *testing.T, opts ...stream.Option) (*stream.Subsystem, *audiotest.FakeCodec) {
	t.Helper()
	return newBoardSubsystem(t, stream.DefaultBoard(), opts...)
}

func newBoardSubsystem(t *testing.T, board stream.Board, opts ...stream.Option) (*stream.Subsystem, *audiotest.FakeCodec) {
	t.Helper()
	fc := audiotest.NewFakeCodec(codecID)
	opts = append([]stream.Option{stream.WithCodecID(codecID)}, opts...)
	return stream.New(board, &codec.Device{Driver: fc}, opts...), fc
}

func simOf(t *testing.T, sub *stream.Subsystem, link engine.Link) *sim.Controller {
	t.Helper()
	switch c := sub.Controller(link).(type) {
	case *sim.Controller:
		return c
	case *loggedController:
		return c.Controller
	default:
		t.Fatalf("controller of %v is %T", link, c)
		return nil
	}
}

func outConfig(dev audio.OutDevice, rate audio.SampleRate, bits audio.Resolution, channels int) audio.Config {
	return audio.Config{
		Device:        uint32(dev),
		SampleRate:    rate,
		BitsPerSample: bits,
		ChannelsNbr:   channels,
		Volume:        70,
	}
}

func inConfig(dev audio.InDevice, rate audio.SampleRate, bits audio.Resolution, channels int) audio.Config {
	return audio.Config{
		Device:        uint32(dev),
		SampleRate:    rate,
		BitsPerSample: bits,
		ChannelsNbr:   channels,
		Volume:        50,
	}
}

// events records listener calls per instance.
type events struct {
	mu   sync.Mutex
	log  []string
	errs []error
}

func (e *events) OnHalfComplete(int) { e.add("half") }
func (e *events) OnFullComplete(int) { e.add("full") }
func (e *events) OnError(_ int, err error) {
	e.mu.Lock()
	defer e.mu.Unlock()
	e.log = append(e.log, "error")
	e.errs = append(e.errs, err)
}

func (e *events) add(s string) {
	e.mu.Lock()
	defer e.mu.Unlock()
	e.log = append(e.log, s)
}

func (e *events) Log() []string {
	e.mu.Lock()
	defer e.mu.Unlock()
	return append([]string(nil), e.log...)
}

func sameLog(got, want []string) bool {
	if len(got) != len(want) {
		return false
	}
	for i := range got {
		if got[i] != want[i] {
			return false
		}
	}
	return true
}

// loggedController records primitive calls of every link in one shared
// log so tests can check ordering across links.
type loggedController struct {
	*sim.Controller
	link engine.Link
	log  *callLog
}

type callLog struct {
	mu    sync.Mutex
	calls []string
}

func (l *callLog) add(s string) {
	l.mu.Lock()
	defer l.mu.Unlock()
	l.calls = append(l.calls, s)
}

func (l *callLog) Calls() []string {
	l.mu.Lock()
	defer l.mu.Unlock()
	return append([]string(nil), l.calls...)
}

func (c *loggedController) Start(buf engine.Buffer, count int) error {
	c.log.add("start " + c.link.String())
	return c.Controller.Start(buf, count)
}

func (c *loggedController) Stop() error {
	c.log.add("stop " + c.link.String())
	return c.Controller.Stop()
}

func withCallLog(l *callLog) stream.Option {
	return stream.WithControllers(func(link engine.Link) engine.Controller {
		return &loggedController{Controller: sim.New(), link: link, log: l}
	})
}
