// SPDX-License-Identifier: EPL-2.0

package engine_test

import (
	"errors"
	"sync"
	"testing"

	"github.com/ik5/audiobsp/audio"
	"github.com/ik5/audiobsp/engine"
	"github.com/ik5/audiobsp/engine/sim"
)

type recorder struct {
	mu     sync.Mutex
	events []string
	errs   []error
}

func (r *recorder) HalfComplete(engine.Link) { r.add("half") }
func (r *recorder) FullComplete(engine.Link) { r.add("full") }
func (r *recorder) TransferError(_ engine.Link, err error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.events = append(r.events, "error")
	r.errs = append(r.errs, err)
}

func (r *recorder) add(s string) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.events = append(r.events, s)
}

func (r *recorder) Events() []string {
	r.mu.Lock()
	defer r.mu.Unlock()
	return append([]string(nil), r.events...)
}

func newEngine(t *testing.T) (*engine.Engine, *sim.Controller, *recorder) {
	t.Helper()

	ctrl := sim.New()
	e := engine.New(engine.SAI(0), ctrl, nil)
	rec := &recorder{}
	e.SetListener(rec)
	lc := engine.LinkConfig{SampleRate: audio.SampleRate48K, Bits: audio.Resolution16, Channels: 2}
	if err := e.Configure(engine.MemToPeriph, engine.WidthHalfWord, engine.ModeCircular, lc); err != nil {
		t.Fatalf("Configure() error = %v", err)
	}
	return e, ctrl, rec
}

func equal(a, b []string) bool {
	if len(a) != len(b) {
		return false
	}
	for i := range a {
		if a[i] != b[i] {
			return false
		}
	}
	return true
}

func TestEngineHalfFullAlternate(t *testing.T) {
	t.Parallel()

	e, ctrl, rec := newEngine(t)
	buf := make([]byte, 64)
	if err := e.Start(engine.Bytes(buf), 32); err != nil {
		t.Fatalf("Start() error = %v", err)
	}

	for range 4 {
		ctrl.StepHalf()
	}
	want := []string{"half", "full", "half", "full"}
	if got := rec.Events(); !equal(got, want) {
		t.Errorf("events = %v, want %v", got, want)
	}
	if len(ctrl.Sink) != 2*len(buf) {
		t.Errorf("shifted out %d bytes, want %d", len(ctrl.Sink), 2*len(buf))
	}
}

func TestEngineStartLimits(t *testing.T) {
	t.Parallel()

	e, _, _ := newEngine(t)

	tests := []struct {
		name  string
		buf   engine.Buffer
		count int
	}{
		{"zero count", engine.Bytes(make([]byte, 8)), 0},
		{"over transfer width", engine.Bytes(make([]byte, 2*(audio.MaxTransferCount+1))), audio.MaxTransferCount + 1},
		{"short buffer", engine.Bytes(make([]byte, 8)), 5},
		{"nil buffer", nil, 4},
	}
	for _, tt := range tests {
		if err := e.Start(tt.buf, tt.count); !errors.Is(err, audio.ErrWrongParam) {
			t.Errorf("%s: Start() error = %v, want %v", tt.name, err, audio.ErrWrongParam)
		}
	}
}

func TestEngineStartTwiceBusy(t *testing.T) {
	t.Parallel()

	e, _, _ := newEngine(t)
	buf := engine.Bytes(make([]byte, 16))
	if err := e.Start(buf, 8); err != nil {
		t.Fatalf("Start() error = %v", err)
	}
	if err := e.Start(buf, 8); !errors.Is(err, audio.ErrBusy) {
		t.Errorf("second Start() error = %v, want %v", err, audio.ErrBusy)
	}
	lc := engine.LinkConfig{SampleRate: audio.SampleRate16K, Bits: audio.Resolution16}
	if err := e.Configure(engine.MemToPeriph, engine.WidthHalfWord, engine.ModeCircular, lc); !errors.Is(err, audio.ErrBusy) {
		t.Errorf("Configure() while running error = %v, want %v", err, audio.ErrBusy)
	}
}

func TestEngineStopSilencesListener(t *testing.T) {
	t.Parallel()

	e, ctrl, rec := newEngine(t)
	buf := engine.Bytes(make([]byte, 16))
	if err := e.Start(buf, 8); err != nil {
		t.Fatalf("Start() error = %v", err)
	}
	ctrl.StepHalf()
	if err := e.Stop(); err != nil {
		t.Fatalf("Stop() error = %v", err)
	}
	if ctrl.Stats.Clears != 2 {
		t.Errorf("ClearFlags calls = %d, want 2", ctrl.Stats.Clears)
	}
	if ctrl.Running() {
		t.Error("controller still running after Stop()")
	}

	ctrl.Raise(engine.EventFull, nil)
	ctrl.Step(8)
	if got := rec.Events(); !equal(got, []string{"half"}) {
		t.Errorf("events after Stop = %v, want [half]", got)
	}
	if err := e.Stop(); err != nil {
		t.Errorf("idle Stop() error = %v", err)
	}
}

func TestEngineRestartDropsLatchedFlags(t *testing.T) {
	t.Parallel()

	e, ctrl, rec := newEngine(t)
	buf := engine.Bytes(make([]byte, 16))
	if err := e.Start(buf, 8); err != nil {
		t.Fatalf("Start() error = %v", err)
	}
	if err := e.Stop(); err != nil {
		t.Fatalf("Stop() error = %v", err)
	}
	ctrl.Raise(engine.EventHalf, nil)
	ctrl.Raise(engine.EventFull, nil)

	if err := e.Start(buf, 8); err != nil {
		t.Fatalf("restart error = %v", err)
	}
	if got := rec.Events(); len(got) != 0 {
		t.Errorf("events = %v, want none", got)
	}
}

func TestEnginePausedDropsEvents(t *testing.T) {
	t.Parallel()

	e, ctrl, rec := newEngine(t)
	if err := e.Start(engine.Bytes(make([]byte, 16)), 8); err != nil {
		t.Fatalf("Start() error = %v", err)
	}
	if err := e.Pause(); err != nil {
		t.Fatalf("Pause() error = %v", err)
	}
	ctrl.Raise(engine.EventHalf, nil)
	if got := rec.Events(); len(got) != 0 {
		t.Errorf("events while paused = %v, want none", got)
	}
}

func TestEnginePauseResume(t *testing.T) {
	t.Parallel()

	e, ctrl, rec := newEngine(t)
	buf := engine.Bytes(make([]byte, 16))
	if err := e.Resume(); !errors.Is(err, audio.ErrBusy) {
		t.Errorf("Resume() before Start error = %v, want %v", err, audio.ErrBusy)
	}
	if err := e.Start(buf, 8); err != nil {
		t.Fatalf("Start() error = %v", err)
	}
	if err := e.Pause(); err != nil {
		t.Fatalf("Pause() error = %v", err)
	}
	if n := ctrl.StepHalf(); n != 0 {
		t.Errorf("paused controller moved %d elements", n)
	}
	if err := e.Resume(); err != nil {
		t.Fatalf("Resume() error = %v", err)
	}
	ctrl.StepHalf()
	if got := rec.Events(); !equal(got, []string{"half"}) {
		t.Errorf("events = %v, want [half]", got)
	}
}

func TestEngineErrorEvent(t *testing.T) {
	t.Parallel()

	e, ctrl, rec := newEngine(t)
	if err := e.Start(engine.Bytes(make([]byte, 16)), 8); err != nil {
		t.Fatalf("Start() error = %v", err)
	}
	ctrl.Raise(engine.EventError, nil)

	if got := rec.Events(); !equal(got, []string{"error"}) {
		t.Fatalf("events = %v, want [error]", got)
	}
	if !errors.Is(rec.errs[0], audio.ErrPeriphFailure) {
		t.Errorf("error = %v, want %v", rec.errs[0], audio.ErrPeriphFailure)
	}
}

func TestEngineControllerFailures(t *testing.T) {
	t.Parallel()

	ctrl := sim.New()
	e := engine.New(engine.DFSDMFilter(0), ctrl, nil)

	ctrl.Fail["configure"] = audio.ErrClockFailure
	err := e.Configure(engine.PeriphToMem, engine.WidthWord, engine.ModeCircular, engine.LinkConfig{})
	if !errors.Is(err, audio.ErrClockFailure) {
		t.Errorf("Configure() error = %v, want %v", err, audio.ErrClockFailure)
	}

	ctrl.Fail["configure"] = nil
	if err := e.Configure(engine.PeriphToMem, engine.WidthWord, engine.ModeCircular, engine.LinkConfig{}); err != nil {
		t.Fatalf("Configure() error = %v", err)
	}
	ctrl.Fail["start"] = errors.New("dma busy")
	if err := e.Start(engine.Words(make([]int32, 8)), 8); !errors.Is(err, audio.ErrPeriphFailure) {
		t.Errorf("Start() error = %v, want %v", err, audio.ErrPeriphFailure)
	}
	if e.Active() {
		t.Error("failed Start() left the engine active")
	}
}

func TestEngineWordsCapture(t *testing.T) {
	t.Parallel()

	ctrl := sim.New()
	ctrl.Signal = func(pos int) int32 { return int32(pos) << 8 }
	e := engine.New(engine.DFSDMFilter(1), ctrl, nil)
	if err := e.Configure(engine.PeriphToMem, engine.WidthWord, engine.ModeCircular, engine.LinkConfig{}); err != nil {
		t.Fatalf("Configure() error = %v", err)
	}
	buf := make([]int32, 8)
	if err := e.Start(engine.Words(buf), len(buf)); err != nil {
		t.Fatalf("Start() error = %v", err)
	}
	ctrl.Step(8)
	for i, v := range buf {
		if v != int32(i)<<8 {
			t.Errorf("buf[%d] = %d, want %d", i, v, int32(i)<<8)
		}
	}
}

func TestEngineConcurrentStop(t *testing.T) {
	t.Parallel()

	e, ctrl, _ := newEngine(t)
	if err := e.Start(engine.Bytes(make([]byte, 64)), 32); err != nil {
		t.Fatalf("Start() error = %v", err)
	}

	var wg sync.WaitGroup
	wg.Add(1)
	go func() {
		defer wg.Done()
		for range 1000 {
			ctrl.Step(1)
		}
	}()
	if err := e.Stop(); err != nil {
		t.Errorf("Stop() error = %v", err)
	}
	wg.Wait()
}
