// SPDX-License-Identifier: EPL-2.0

package stream_test

import (
	"errors"
	"testing"

	"github.com/ik5/audiobsp/audio"
	"github.com/ik5/audiobsp/engine"
	"github.com/ik5/audiobsp/stream"
)

const (
	inCodec = 0
	inPDM   = 1
	inMics  = 2
)

func TestInRecordCodec(t *testing.T) {
	t.Parallel()

	sub, fc := newSubsystem(t)
	in := sub.In()
	var ev events
	_ = in.SetListener(inCodec, &ev)
	if err := in.Init(inCodec, inConfig(audio.InDeviceAnalogMic, audio.SampleRate48K, audio.Resolution16, 2)); err != nil {
		t.Fatalf("Init() error = %v", err)
	}
	if !fc.IsPowered() {
		t.Fatal("codec not powered after Init()")
	}
	buf := make([]byte, 4096)
	if err := in.Record(inCodec, buf); err != nil {
		t.Fatalf("Record() error = %v", err)
	}
	if st, _ := in.GetState(inCodec); st != stream.StateRecording {
		t.Fatalf("GetState() = %v, want %v", st, stream.StateRecording)
	}
	if n := simOf(t, sub, engine.SAI(0)).Stats.Primes; n != 1 {
		t.Errorf("idle master primed %d times, want 1", n)
	}

	ctrl := simOf(t, sub, engine.SAI(1))
	ctrl.Signal = func(pos int) int32 { return int32(pos) }
	ctrl.StepHalf()
	if got := ev.Log(); !sameLog(got, []string{"half"}) {
		t.Errorf("events = %v, want [half]", got)
	}
	if buf[2] != 1 || buf[4] != 2 {
		t.Errorf("captured % x, want a ramp", buf[:6])
	}

	if err := in.Stop(inCodec); err != nil {
		t.Fatalf("Stop() error = %v", err)
	}
	if st, _ := in.GetState(inCodec); st != stream.StateStop {
		t.Errorf("GetState() = %v, want %v", st, stream.StateStop)
	}
	ctrl.StepHalf()
	if got := len(ev.Log()); got != 1 {
		t.Errorf("%d events after Stop(), want 1", got)
	}
}

func TestInPrimeSkippedWhilePlaying(t *testing.T) {
	t.Parallel()

	sub, _ := newSubsystem(t)
	if err := sub.Out().Init(0, outConfig(audio.OutDeviceHeadphone, audio.SampleRate48K, audio.Resolution16, 2)); err != nil {
		t.Fatalf("out Init() error = %v", err)
	}
	if err := sub.Out().Play(0, make([]byte, 256)); err != nil {
		t.Fatalf("Play() error = %v", err)
	}
	in := sub.In()
	if err := in.Init(inCodec, inConfig(audio.InDeviceAnalogMic, audio.SampleRate48K, audio.Resolution16, 2)); err != nil {
		t.Fatalf("in Init() error = %v", err)
	}
	if err := in.Record(inCodec, make([]byte, 256)); err != nil {
		t.Fatalf("Record() error = %v", err)
	}
	if n := simOf(t, sub, engine.SAI(0)).Stats.Primes; n != 0 {
		t.Errorf("running master primed %d times, want 0", n)
	}
}

func TestCoupledCodecPower(t *testing.T) {
	t.Parallel()

	sub, fc := newSubsystem(t)
	out, in := sub.Out(), sub.In()
	if err := out.Init(0, outConfig(audio.OutDeviceHeadphone, audio.SampleRate48K, audio.Resolution16, 2)); err != nil {
		t.Fatalf("out Init() error = %v", err)
	}
	if err := in.Init(inCodec, inConfig(audio.InDeviceAnalogMic, audio.SampleRate48K, audio.Resolution16, 2)); err != nil {
		t.Fatalf("in Init() error = %v", err)
	}
	if fc.Config.Output != audio.OutDeviceHeadphone {
		t.Errorf("codec init output = %v, want %v", fc.Config.Output, audio.OutDeviceHeadphone)
	}
	if err := in.Record(inCodec, make([]byte, 512)); err != nil {
		t.Fatalf("Record() error = %v", err)
	}

	if err := out.DeInit(0); err != nil {
		t.Fatalf("out DeInit() error = %v", err)
	}
	if !fc.IsPowered() {
		t.Fatal("codec powered down while in 0 records")
	}
	if st, _ := in.GetState(inCodec); st != stream.StateRecording {
		t.Errorf("in GetState() = %v, want %v", st, stream.StateRecording)
	}
	if err := in.DeInit(inCodec); err != nil {
		t.Fatalf("in DeInit() error = %v", err)
	}
	if fc.IsPowered() {
		t.Error("codec still powered with every instance in RESET")
	}
	if got := sub.Power().Cycles(); got != 1 {
		t.Errorf("power cycles = %d, want 1", got)
	}
}

func TestCrossInstanceConflicts(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name string
		cfg  audio.Config
		want error
	}{
		{"rate", inConfig(audio.InDeviceAnalogMic, audio.SampleRate44K, audio.Resolution16, 2), audio.ErrFeatureNotSupported},
		{"depth", inConfig(audio.InDeviceAnalogMic, audio.SampleRate48K, audio.Resolution32, 2), audio.ErrFeatureNotSupported},
		{"24-bit", inConfig(audio.InDeviceAnalogMic, audio.SampleRate48K, audio.Resolution24, 2), audio.ErrFeatureNotSupported},
		{"8-bit", inConfig(audio.InDeviceAnalogMic, audio.SampleRate48K, audio.Resolution8, 2), audio.ErrFeatureNotSupported},
		{"match", inConfig(audio.InDeviceAnalogLine1, audio.SampleRate48K, audio.Resolution16, 1), nil},
	}
	for _, tt := range tests {
		sub, _ := newSubsystem(t)
		if err := sub.Out().Init(0, outConfig(audio.OutDeviceHeadphone, audio.SampleRate48K, audio.Resolution16, 2)); err != nil {
			t.Fatalf("out Init() error = %v", err)
		}
		err := sub.In().Init(inCodec, tt.cfg)
		if !errors.Is(err, tt.want) {
			t.Errorf("%s: in Init() error = %v, want %v", tt.name, err, tt.want)
		}
		if tt.want != nil && sub.Power().Users() != 1 {
			t.Errorf("%s: codec users = %d, want 1", tt.name, sub.Power().Users())
		}
	}
}

func TestOutConflictsWithInput(t *testing.T) {
	t.Parallel()

	sub, _ := newSubsystem(t)
	if err := sub.In().Init(inCodec, inConfig(audio.InDeviceAnalogMic, audio.SampleRate16K, audio.Resolution16, 2)); err != nil {
		t.Fatalf("in Init() error = %v", err)
	}
	out := sub.Out()
	err := out.Init(0, outConfig(audio.OutDeviceSpeaker, audio.SampleRate48K, audio.Resolution16, 2))
	if !errors.Is(err, audio.ErrFeatureNotSupported) {
		t.Fatalf("out Init() error = %v, want %v", err, audio.ErrFeatureNotSupported)
	}
	if err := out.Init(0, outConfig(audio.OutDeviceSpeaker, audio.SampleRate16K, audio.Resolution16, 2)); err != nil {
		t.Fatalf("out Init() error = %v", err)
	}
	if err := out.SetSampleRate(0, audio.SampleRate48K); !errors.Is(err, audio.ErrFeatureNotSupported) {
		t.Errorf("SetSampleRate() error = %v, want %v", err, audio.ErrFeatureNotSupported)
	}
	if err := out.SetBitsPerSample(0, audio.Resolution32); !errors.Is(err, audio.ErrFeatureNotSupported) {
		t.Errorf("SetBitsPerSample() error = %v, want %v", err, audio.ErrFeatureNotSupported)
	}
}

func TestUncoupledInputsIgnoreOutput(t *testing.T) {
	t.Parallel()

	sub, _ := newSubsystem(t)
	if err := sub.Out().Init(0, outConfig(audio.OutDeviceHeadphone, audio.SampleRate48K, audio.Resolution16, 2)); err != nil {
		t.Fatalf("out Init() error = %v", err)
	}
	in := sub.In()
	if err := in.Init(inPDM, inConfig(audio.InDeviceDigitalMic1, audio.SampleRate16K, audio.Resolution16, 1)); err != nil {
		t.Errorf("pdm Init() error = %v", err)
	}
	if err := in.Init(inMics, inConfig(audio.InDeviceDigitalMic, audio.SampleRate8K, audio.Resolution16, 2)); err != nil {
		t.Errorf("dfsdm Init() error = %v", err)
	}
	if got := sub.Power().Users(); got != 1 {
		t.Errorf("codec users = %d, want 1", got)
	}
}

func TestInDeviceRules(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name string
		inst int
		cfg  audio.Config
		want error
	}{
		{"codec analog", inCodec, inConfig(audio.InDeviceAnalogMic, audio.SampleRate16K, audio.Resolution16, 1), nil},
		{"codec digital mic", inCodec, inConfig(audio.InDeviceDigitalMic1, audio.SampleRate16K, audio.Resolution16, 1), nil},
		{"codec two devices", inCodec, inConfig(audio.InDeviceAnalogMic|audio.InDeviceAnalogLine1, audio.SampleRate16K, audio.Resolution16, 1), audio.ErrWrongParam},
		{"codec unwired", inCodec, inConfig(audio.InDeviceDigitalMic2, audio.SampleRate16K, audio.Resolution16, 1), audio.ErrWrongParam},
		{"pdm", inPDM, inConfig(audio.InDeviceDigitalMic1, audio.SampleRate16K, audio.Resolution16, 1), nil},
		{"pdm analog", inPDM, inConfig(audio.InDeviceAnalogMic, audio.SampleRate16K, audio.Resolution16, 1), audio.ErrWrongParam},
		{"pdm 32-bit", inPDM, inConfig(audio.InDeviceDigitalMic1, audio.SampleRate16K, audio.Resolution32, 1), audio.ErrWrongParam},
		{"dfsdm five", inMics, inConfig(audio.InDeviceDigitalMics, audio.SampleRate16K, audio.Resolution16, 2), nil},
		{"dfsdm analog", inMics, inConfig(audio.InDeviceAnalogMic|audio.InDeviceDigitalMic1, audio.SampleRate16K, audio.Resolution16, 2), audio.ErrWrongParam},
		{"dfsdm none", inMics, inConfig(0, audio.SampleRate16K, audio.Resolution16, 2), audio.ErrWrongParam},
		{"no such instance", 3, inConfig(audio.InDeviceDigitalMic1, audio.SampleRate16K, audio.Resolution16, 1), audio.ErrWrongParam},
	}
	for _, tt := range tests {
		sub, _ := newSubsystem(t)
		if err := sub.In().Init(tt.inst, tt.cfg); !errors.Is(err, tt.want) {
			t.Errorf("%s: Init() error = %v, want %v", tt.name, err, tt.want)
		}
	}
}

func TestInVolumeOnlyOnCodec(t *testing.T) {
	t.Parallel()

	sub, _ := newSubsystem(t)
	in := sub.In()
	if err := in.Init(inPDM, inConfig(audio.InDeviceDigitalMic1, audio.SampleRate16K, audio.Resolution16, 1)); err != nil {
		t.Fatalf("Init() error = %v", err)
	}
	if err := in.SetVolume(inPDM, 40); !errors.Is(err, audio.ErrFeatureNotSupported) {
		t.Errorf("SetVolume() error = %v, want %v", err, audio.ErrFeatureNotSupported)
	}
	if _, err := in.GetVolume(inPDM); !errors.Is(err, audio.ErrFeatureNotSupported) {
		t.Errorf("GetVolume() error = %v, want %v", err, audio.ErrFeatureNotSupported)
	}
	if err := in.Mute(inPDM); !errors.Is(err, audio.ErrFeatureNotSupported) {
		t.Errorf("Mute() error = %v, want %v", err, audio.ErrFeatureNotSupported)
	}
	if sub.Power().Powered() {
		t.Error("pdm input powered the codec")
	}

	if err := in.Init(inCodec, inConfig(audio.InDeviceAnalogMic, audio.SampleRate16K, audio.Resolution16, 1)); err != nil {
		t.Fatalf("codec Init() error = %v", err)
	}
	if err := in.SetVolume(inCodec, 80); err != nil {
		t.Fatalf("SetVolume() error = %v", err)
	}
	if v, _ := in.GetVolume(inCodec); v != 80 {
		t.Errorf("GetVolume() = %d, want 80", v)
	}
	if err := in.Mute(inCodec); err != nil {
		t.Fatalf("Mute() error = %v", err)
	}
	if m, _ := in.IsMute(inCodec); !m {
		t.Error("IsMute() = false, want true")
	}
}

func TestInSetDeviceReinitializes(t *testing.T) {
	t.Parallel()

	sub, fc := newSubsystem(t)
	in := sub.In()
	if err := in.Init(inCodec, inConfig(audio.InDeviceAnalogMic, audio.SampleRate16K, audio.Resolution16, 2)); err != nil {
		t.Fatalf("Init() error = %v", err)
	}
	if err := in.SetDevice(inCodec, audio.InDeviceAnalogLine1); err != nil {
		t.Fatalf("SetDevice() error = %v", err)
	}
	if d, _ := in.GetDevice(inCodec); d != audio.InDeviceAnalogLine1 {
		t.Errorf("GetDevice() = %v, want %v", d, audio.InDeviceAnalogLine1)
	}
	if fc.Config.Input != audio.InDeviceAnalogLine1 {
		t.Errorf("codec input = %v, want %v", fc.Config.Input, audio.InDeviceAnalogLine1)
	}
	if got := fc.Count("Init"); got != 2 {
		t.Errorf("codec Init calls = %d, want 2", got)
	}
	if got, _ := in.GetSampleRate(inCodec); got != audio.SampleRate16K {
		t.Errorf("GetSampleRate() = %d, want %d", got, audio.SampleRate16K)
	}

	fc.SetFail("Init", true)
	err := in.SetBitsPerSample(inCodec, audio.Resolution32)
	if !errors.Is(err, audio.ErrNoInit) {
		t.Fatalf("SetBitsPerSample() error = %v, want %v", err, audio.ErrNoInit)
	}
	if st, _ := in.GetState(inCodec); st != stream.StateReset {
		t.Errorf("GetState() after failed re-init = %v, want %v", st, stream.StateReset)
	}
	if sub.Power().Powered() {
		t.Error("codec held after failed re-init")
	}
}

func TestInSetDeviceWhileRecording(t *testing.T) {
	t.Parallel()

	sub, _ := newSubsystem(t)
	in := sub.In()
	if err := in.Init(inCodec, inConfig(audio.InDeviceAnalogMic, audio.SampleRate16K, audio.Resolution16, 2)); err != nil {
		t.Fatalf("Init() error = %v", err)
	}
	if err := in.Record(inCodec, make([]byte, 64)); err != nil {
		t.Fatalf("Record() error = %v", err)
	}
	if err := in.SetDevice(inCodec, audio.InDeviceAnalogLine1); !errors.Is(err, audio.ErrBusy) {
		t.Errorf("SetDevice() error = %v, want %v", err, audio.ErrBusy)
	}
	if err := in.SetChannelsNbr(inCodec, 1); !errors.Is(err, audio.ErrBusy) {
		t.Errorf("SetChannelsNbr() error = %v, want %v", err, audio.ErrBusy)
	}
}

func TestInPauseResume(t *testing.T) {
	t.Parallel()

	sub, fc := newSubsystem(t)
	in := sub.In()
	if err := in.Init(inCodec, inConfig(audio.InDeviceAnalogMic, audio.SampleRate32K, audio.Resolution16, 2)); err != nil {
		t.Fatalf("Init() error = %v", err)
	}
	if err := in.Pause(inCodec); !errors.Is(err, audio.ErrBusy) {
		t.Errorf("Pause() in STOP error = %v, want %v", err, audio.ErrBusy)
	}
	if err := in.Record(inCodec, make([]byte, 128)); err != nil {
		t.Fatalf("Record() error = %v", err)
	}
	if err := in.Pause(inCodec); err != nil {
		t.Fatalf("Pause() error = %v", err)
	}
	ctrl := simOf(t, sub, engine.SAI(1))
	if n := ctrl.StepHalf(); n != 0 {
		t.Errorf("paused capture moved %d elements", n)
	}
	if err := in.Resume(inCodec); err != nil {
		t.Fatalf("Resume() error = %v", err)
	}
	if n := ctrl.StepHalf(); n == 0 {
		t.Error("resumed capture moved nothing")
	}
	calls := fc.Calls()
	if !sameLog(calls[len(calls)-2:], []string{"Pause", "Resume"}) {
		t.Errorf("codec calls end with %v, want [Pause Resume]", calls[len(calls)-2:])
	}
}

func TestInRecordValidation(t *testing.T) {
	t.Parallel()

	sub, _ := newSubsystem(t)
	in := sub.In()
	if err := in.Record(inCodec, make([]byte, 64)); !errors.Is(err, audio.ErrBusy) {
		t.Errorf("Record() in RESET error = %v, want %v", err, audio.ErrBusy)
	}
	if err := in.Init(inCodec, inConfig(audio.InDeviceAnalogMic, audio.SampleRate16K, audio.Resolution16, 2)); err != nil {
		t.Fatalf("Init() error = %v", err)
	}
	if err := in.Record(inCodec, nil); !errors.Is(err, audio.ErrWrongParam) {
		t.Errorf("Record(nil) error = %v, want %v", err, audio.ErrWrongParam)
	}
	if err := in.Record(inCodec, make([]byte, 2*(audio.MaxTransferCount+1))); !errors.Is(err, audio.ErrWrongParam) {
		t.Errorf("Record(oversized) error = %v, want %v", err, audio.ErrWrongParam)
	}
	if st, _ := in.GetState(inCodec); st != stream.StateStop {
		t.Errorf("GetState() = %v, want %v", st, stream.StateStop)
	}
}

func dfsdmBoard() stream.Board {
	b := stream.DefaultBoard()
	b.MicBufferLen = 16
	return b
}

func TestDFSDMMergeWaitsForBothMics(t *testing.T) {
	t.Parallel()

	var calls callLog
	sub, _ := newBoardSubsystem(t, dfsdmBoard(), withCallLog(&calls))
	in := sub.In()
	var ev events
	_ = in.SetListener(inMics, &ev)
	if err := in.Init(inMics, inConfig(audio.InDeviceDigitalMic, audio.SampleRate16K, audio.Resolution16, 2)); err != nil {
		t.Fatalf("Init() error = %v", err)
	}
	if sub.Power().Powered() {
		t.Error("dfsdm input powered the codec")
	}

	mic1 := simOf(t, sub, engine.DFSDMFilter(0))
	mic2 := simOf(t, sub, engine.DFSDMFilter(1))
	mic1.Signal = func(int) int32 { return 0x0100 << 8 }
	mic2.Signal = func(int) int32 { return -0x0200 << 8 }

	buf := make([]byte, 64)
	if err := in.Record(inMics, buf); err != nil {
		t.Fatalf("Record() error = %v", err)
	}
	if got, want := calls.Calls(), []string{"start dfsdm-flt1", "start dfsdm-flt0"}; !sameLog(got, want) {
		t.Errorf("start order = %v, want %v", got, want)
	}

	mic1.StepHalf()
	if got := ev.Log(); len(got) != 0 {
		t.Fatalf("events after mic 1 half = %v, want none", got)
	}
	mic2.StepHalf()
	if got := ev.Log(); !sameLog(got, []string{"half"}) {
		t.Fatalf("events after mic 2 half = %v, want [half]", got)
	}
	// Frame 0: left from mic 1, right from mic 2, little endian.
	if buf[0] != 0x00 || buf[1] != 0x01 || buf[2] != 0x00 || buf[3] != 0xFE {
		t.Errorf("frame 0 = % x, want 00 01 00 fe", buf[:4])
	}

	mic2.StepHalf()
	mic1.StepHalf()
	if got := ev.Log(); !sameLog(got, []string{"half", "full"}) {
		t.Errorf("events = %v, want [half full]", got)
	}

	if err := in.Stop(inMics); err != nil {
		t.Fatalf("Stop() error = %v", err)
	}
	if got := len(calls.Calls()); got != 4 {
		t.Errorf("%d controller calls after Stop(), want 4", got)
	}
}

func TestDFSDMRecordBufferMultipleOfChunk(t *testing.T) {
	t.Parallel()

	sub, _ := newBoardSubsystem(t, dfsdmBoard())
	in := sub.In()
	if err := in.Init(inMics, inConfig(audio.InDeviceDigitalMic, audio.SampleRate16K, audio.Resolution16, 2)); err != nil {
		t.Fatalf("Init() error = %v", err)
	}
	if err := in.Record(inMics, make([]byte, 48)); !errors.Is(err, audio.ErrWrongParam) {
		t.Errorf("Record(48 bytes) error = %v, want %v", err, audio.ErrWrongParam)
	}
	if st, _ := in.GetState(inMics); st != stream.StateStop {
		t.Errorf("GetState() = %v, want %v", st, stream.StateStop)
	}
}

func TestDFSDMFilterFailureStopsStarted(t *testing.T) {
	t.Parallel()

	sub, _ := newBoardSubsystem(t, dfsdmBoard())
	in := sub.In()
	if err := in.Init(inMics, inConfig(audio.InDeviceDigitalMic1|audio.InDeviceDigitalMic2|audio.InDeviceDigitalMic3,
		audio.SampleRate16K, audio.Resolution16, 2)); err != nil {
		t.Fatalf("Init() error = %v", err)
	}
	simOf(t, sub, engine.DFSDMFilter(0)).Fail["start"] = audio.ErrClockFailure

	err := in.Record(inMics, make([]byte, 64))
	if !errors.Is(err, audio.ErrClockFailure) {
		t.Fatalf("Record() error = %v, want %v", err, audio.ErrClockFailure)
	}
	for _, m := range []int{1, 2} {
		c := simOf(t, sub, engine.DFSDMFilter(m))
		if c.Stats.Starts != 1 || c.Stats.Stops != 1 || c.Running() {
			t.Errorf("mic %d: starts = %d stops = %d running = %v, want 1 1 false",
				m+1, c.Stats.Starts, c.Stats.Stops, c.Running())
		}
	}
	if st, _ := in.GetState(inMics); st != stream.StateStop {
		t.Errorf("GetState() = %v, want %v", st, stream.StateStop)
	}
}

func TestDFSDMMonoDuplicatesMic1(t *testing.T) {
	t.Parallel()

	sub, _ := newBoardSubsystem(t, dfsdmBoard())
	in := sub.In()
	if err := in.Init(inMics, inConfig(audio.InDeviceDigitalMic1, audio.SampleRate16K, audio.Resolution16, 1)); err != nil {
		t.Fatalf("Init() error = %v", err)
	}
	var ev events
	_ = in.SetListener(inMics, &ev)
	mic1 := simOf(t, sub, engine.DFSDMFilter(0))
	mic1.Signal = func(int) int32 { return 0x1234 << 8 }
	buf := make([]byte, 64)
	if err := in.Record(inMics, buf); err != nil {
		t.Fatalf("Record() error = %v", err)
	}
	mic1.StepHalf()
	if got := ev.Log(); !sameLog(got, []string{"half"}) {
		t.Fatalf("events = %v, want [half]", got)
	}
	if buf[0] != 0x34 || buf[1] != 0x12 || buf[2] != 0x34 || buf[3] != 0x12 {
		t.Errorf("frame 0 = % x, want 34 12 34 12", buf[:4])
	}
}

func TestDFSDMMonoPairWaitsForMic2(t *testing.T) {
	t.Parallel()

	sub, _ := newBoardSubsystem(t, dfsdmBoard())
	in := sub.In()
	if err := in.Init(inMics, inConfig(audio.InDeviceDigitalMic, audio.SampleRate16K, audio.Resolution16, 1)); err != nil {
		t.Fatalf("Init() error = %v", err)
	}
	var ev events
	_ = in.SetListener(inMics, &ev)
	mic1 := simOf(t, sub, engine.DFSDMFilter(0))
	mic2 := simOf(t, sub, engine.DFSDMFilter(1))
	mic1.Signal = func(int) int32 { return 0x0100 << 8 }
	mic2.Signal = func(int) int32 { return -0x0200 << 8 }
	buf := make([]byte, 64)
	if err := in.Record(inMics, buf); err != nil {
		t.Fatalf("Record() error = %v", err)
	}

	mic1.StepHalf()
	if got := ev.Log(); len(got) != 0 {
		t.Fatalf("events after mic 1 half = %v, want none", got)
	}
	mic2.StepHalf()
	if got := ev.Log(); !sameLog(got, []string{"half"}) {
		t.Fatalf("events after mic 2 half = %v, want [half]", got)
	}
	// Mono takes mic 1 into both slots.
	if buf[0] != 0x00 || buf[1] != 0x01 || buf[2] != 0x00 || buf[3] != 0x01 {
		t.Errorf("frame 0 = % x, want 00 01 00 01", buf[:4])
	}
}

func TestInReinitKeepsMute(t *testing.T) {
	t.Parallel()

	sub, fc := newSubsystem(t)
	in := sub.In()
	if err := in.Init(inCodec, inConfig(audio.InDeviceAnalogMic, audio.SampleRate16K, audio.Resolution16, 2)); err != nil {
		t.Fatalf("Init() error = %v", err)
	}
	if err := in.Mute(inCodec); err != nil {
		t.Fatalf("Mute() error = %v", err)
	}
	if err := in.SetDevice(inCodec, audio.InDeviceAnalogLine1); err != nil {
		t.Fatalf("SetDevice() error = %v", err)
	}
	if m, _ := in.IsMute(inCodec); !m {
		t.Error("IsMute() after SetDevice = false, want true")
	}
	if !fc.Muted {
		t.Error("codec unmuted after SetDevice")
	}
	if got := fc.Count("SetMute"); got != 2 {
		t.Errorf("codec SetMute calls = %d, want 2", got)
	}

	if err := in.UnMute(inCodec); err != nil {
		t.Fatalf("UnMute() error = %v", err)
	}
	if err := in.SetDevice(inCodec, audio.InDeviceAnalogMic); err != nil {
		t.Fatalf("SetDevice() error = %v", err)
	}
	if m, _ := in.IsMute(inCodec); m {
		t.Error("IsMute() after unmuted SetDevice = true, want false")
	}
	if got := fc.Count("SetMute"); got != 3 {
		t.Errorf("codec SetMute calls = %d, want 3", got)
	}
}

func TestDFSDMRecordRejectsOversizedBuffer(t *testing.T) {
	t.Parallel()

	sub, _ := newBoardSubsystem(t, dfsdmBoard())
	in := sub.In()
	if err := in.Init(inMics, inConfig(audio.InDeviceDigitalMic, audio.SampleRate16K, audio.Resolution16, 2)); err != nil {
		t.Fatalf("Init() error = %v", err)
	}
	// Whole merge chunks, one chunk past the transfer limit.
	const chunk = 2 * 16
	size := (2*audio.MaxTransferCount/chunk + 1) * chunk
	if err := in.Record(inMics, make([]byte, size)); !errors.Is(err, audio.ErrWrongParam) {
		t.Errorf("Record(oversized) error = %v, want %v", err, audio.ErrWrongParam)
	}
	if st, _ := in.GetState(inMics); st != stream.StateStop {
		t.Errorf("GetState() = %v, want %v", st, stream.StateStop)
	}
	if err := in.Record(inMics, make([]byte, 64)); err != nil {
		t.Errorf("Record() after rejection error = %v", err)
	}
}
