// SPDX-License-Identifier: EPL-2.0

package stream

import (
	"fmt"
	"math/bits"

	"github.com/google/uuid"

	"github.com/ik5/audiobsp/audio"
	"github.com/ik5/audiobsp/codec"
	"github.com/ik5/audiobsp/engine"
	"github.com/ik5/audiobsp/reassembly"
)

// AudioIn is the capture API. Instances index Board.In.
type AudioIn struct {
	s *Subsystem
}

func (a *AudioIn) get(inst int) (*instance, InPort, error) {
	if inst < 0 || inst >= len(a.s.ins) {
		return nil, InPort{}, fmt.Errorf("in %d: no such instance: %w", inst, audio.ErrWrongParam)
	}
	return a.s.ins[inst], a.s.board.In[inst], nil
}

func (a *AudioIn) sibling(p InPort) *instance {
	if p.Kind != InputCodec || p.Sibling == NoSibling || p.Sibling >= len(a.s.outs) {
		return nil
	}
	return a.s.outs[p.Sibling]
}

func checkDevice(p InPort, dev audio.InDevice) error {
	ok := dev != 0 && dev&^p.Devices == 0
	if p.Kind != InputDFSDM {
		ok = ok && bits.OnesCount32(uint32(dev)) == 1
	} else {
		ok = ok && dev.IsDigital()
	}
	if !ok {
		return fmt.Errorf("%v input device %#x: %w", p.Kind, uint32(dev), audio.ErrWrongParam)
	}
	return nil
}

// checkBits applies the per-path depth rules. The coupled codec path only
// runs the depths the output block can clock.
func checkBits(p InPort, b audio.Resolution) error {
	if p.Kind == InputCodec && p.Sibling != NoSibling && (b == audio.Resolution8 || b == audio.Resolution24) {
		return fmt.Errorf("%d-bit capture on a coupled codec path: %w", b, audio.ErrFeatureNotSupported)
	}
	if !b.Valid() {
		return fmt.Errorf("bits per sample %d: %w", b, audio.ErrWrongParam)
	}
	if p.Kind != InputCodec && b != audio.Resolution16 {
		return fmt.Errorf("%d-bit capture on %v input: %w", b, p.Kind, audio.ErrWrongParam)
	}
	return nil
}

// Init powers what the path needs, programs its links and moves inst to
// STOP.
func (a *AudioIn) Init(inst int, cfg audio.Config) error {
	a.s.mu.Lock()
	defer a.s.mu.Unlock()

	i, p, err := a.get(inst)
	if err != nil {
		return err
	}
	if err := checkBits(p, cfg.BitsPerSample); err != nil {
		return a.s.warn("init", i, fmt.Errorf("%s init: %w", i.name(), err))
	}
	if err := cfg.Validate(); err != nil {
		return a.s.warn("init", i, fmt.Errorf("%s init: %w", i.name(), err))
	}
	if err := checkDevice(p, audio.InDevice(cfg.Device)); err != nil {
		return a.s.warn("init", i, fmt.Errorf("%s init: %w", i.name(), err))
	}
	if i.state != StateReset {
		return fmt.Errorf("%s init in %v: %w", i.name(), i.state, audio.ErrBusy)
	}
	if sib := a.sibling(p); conflict(sib, cfg.SampleRate, cfg.BitsPerSample) {
		return a.s.warn("init", i, fmt.Errorf("%s init: %d Hz %d-bit while %s runs %d Hz %d-bit: %w",
			i.name(), cfg.SampleRate, cfg.BitsPerSample, sib.name(), sib.cfg.SampleRate, sib.cfg.BitsPerSample,
			audio.ErrFeatureNotSupported))
	}
	if err := a.setup(i, p, cfg); err != nil {
		return a.s.warn("init", i, fmt.Errorf("%s init: %w", i.name(), err))
	}
	a.s.log.Debug("initialized", "instance", i.name(), "path", p.Kind.String(),
		"device", audio.InDevice(cfg.Device).String(), "rate", uint32(cfg.SampleRate),
		"bits", int(cfg.BitsPerSample), "channels", cfg.ChannelsNbr)
	return nil
}

// setup builds the engines of inst and initializes the codec for codec
// paths. On failure inst is back in RESET.
func (a *AudioIn) setup(i *instance, p InPort, cfg audio.Config) error {
	dev := audio.InDevice(cfg.Device)

	if i.user != 0 {
		if err := a.s.power.Acquire(i.user); err != nil {
			return err
		}
	}
	switch p.Kind {
	case InputDFSDM:
		i.mics = dev.Mics()
		for _, m := range i.mics {
			i.engines = append(i.engines, a.s.engine(engine.DFSDMFilter(m)))
		}
	default:
		e := a.s.engine(p.Link)
		e.SetListener(linkPort{inst: i})
		i.engines = []*engine.Engine{e}
	}

	if err := a.configure(i, p, cfg); err != nil {
		_ = a.s.undo(i)
		return err
	}
	if p.Kind == InputDFSDM {
		if err := a.buildMerge(i, cfg); err != nil {
			_ = a.s.undo(i)
			return err
		}
	}
	if p.Kind == InputCodec {
		ic := codec.InitConfig{
			Input:      dev,
			Frequency:  cfg.SampleRate,
			Resolution: cfg.BitsPerSample,
			Volume:     uint8(cfg.Volume),
		}
		if sib := a.sibling(p); sib != nil && sib.state != StateReset {
			ic.Output = audio.OutDevice(sib.cfg.Device)
		}
		if err := a.s.dev.Driver.Init(ic); err != nil {
			_ = a.s.undo(i)
			return componentErr("codec init", err)
		}
	}

	i.cfg = cfg
	i.state = StateStop
	return nil
}

func (a *AudioIn) configure(i *instance, p InPort, cfg audio.Config) error {
	mode := a.s.mode()
	switch p.Kind {
	case InputCodec:
		e := i.engines[0]
		lc := engine.LinkConfig{
			Role:       engine.RoleSlave,
			SampleRate: cfg.SampleRate,
			Bits:       cfg.BitsPerSample,
			Channels:   cfg.ChannelsNbr,
			Slots:      engine.CodecInputSlotPlan(cfg.ChannelsNbr),
		}
		return e.Configure(engine.PeriphToMem, engine.WidthFor(e.Link(), cfg.BitsPerSample), mode, lc)
	case InputPDM:
		lc := engine.LinkConfig{
			Role:       engine.RoleMaster,
			SampleRate: cfg.SampleRate,
			ClockRate:  uint32(cfg.SampleRate) * engine.PDMOversampling,
			Bits:       cfg.BitsPerSample,
			Channels:   cfg.ChannelsNbr,
			Slots:      engine.PDMSlotPlan(),
		}
		return i.engines[0].Configure(engine.PeriphToMem, engine.WidthHalfWord, mode, lc)
	default:
		dev := audio.InDevice(cfg.Device)
		for k, m := range i.mics {
			fc := engine.FilterConfigFor(cfg.SampleRate)
			fc.Mic = m
			fc.Trigger = engine.FilterTrigger(m, dev)
			lc := engine.LinkConfig{
				Role:       engine.RoleMaster,
				SampleRate: cfg.SampleRate,
				Bits:       cfg.BitsPerSample,
				Channels:   cfg.ChannelsNbr,
				Filter:     &fc,
			}
			if err := i.engines[k].Configure(engine.PeriphToMem, engine.WidthWord, mode, lc); err != nil {
				return err
			}
		}
		return nil
	}
}

// buildMerge creates the reassembler and the pass-through of a DFSDM path.
func (a *AudioIn) buildMerge(i *instance, cfg audio.Config) error {
	dev := audio.InDevice(cfg.Device)
	r, err := reassembly.New(reassembly.Config{
		Mics:     dev,
		Channels: cfg.ChannelsNbr,
		Shift:    reassembly.DefaultShift,
		HalfLen:  a.s.board.MicBufferLen / 2,
	})
	if err != nil {
		return err
	}
	m, err := reassembly.NewMultiBuffer(dev)
	if err != nil {
		return err
	}
	r.SetListener(notePort{inst: i})
	m.SetListener(notePort{inst: i})
	i.reasm, i.multi = r, m
	return nil
}

// DeInit stops any capture, releases what inst holds and returns it to
// RESET.
func (a *AudioIn) DeInit(inst int) error {
	a.s.mu.Lock()
	defer a.s.mu.Unlock()

	i, _, err := a.get(inst)
	if err != nil {
		return err
	}
	if i.state == StateReset {
		return nil
	}
	if err := a.s.undo(i); err != nil {
		return a.s.warn("deinit", i, fmt.Errorf("%s deinit: %w", i.name(), err))
	}
	a.s.log.Debug("deinitialized", "instance", i.name())
	return nil
}

// Record starts capturing into buf in a loop. DFSDM paths fill buf with
// interleaved 16-bit frames and need a length that is a multiple of the
// merge chunk. On every path buf may hold at most MaxTransferCount
// elements of the configured width.
func (a *AudioIn) Record(inst int, buf []byte) error {
	a.s.mu.Lock()
	defer a.s.mu.Unlock()

	i, p, err := a.get(inst)
	if err != nil {
		return err
	}
	if len(buf) == 0 {
		return fmt.Errorf("%s record: empty buffer: %w", i.name(), audio.ErrWrongParam)
	}
	if i.state != StateStop {
		return fmt.Errorf("%s record in %v: %w", i.name(), i.state, audio.ErrBusy)
	}

	session := uuid.NewString()
	switch p.Kind {
	case InputDFSDM:
		if _, err := audio.Elements(len(buf), audio.Resolution16); err != nil {
			return a.s.warn("record", i, fmt.Errorf("%s record: %w", i.name(), err))
		}
		if err := i.reasm.Start(buf, session); err != nil {
			return a.s.warn("record", i, fmt.Errorf("%s record: %w", i.name(), err))
		}
		for k, e := range i.engines {
			e.SetListener(i.reasm.Port(i.mics[k]))
		}
		err = a.startFilters(i, func(k int) (engine.Buffer, int) {
			b := i.reasm.Buffer(i.mics[k])
			return b.Words(), b.Len()
		})
		if err != nil {
			return a.s.warn("record", i, fmt.Errorf("%s record: %w", i.name(), err))
		}
	default:
		n, err := audio.Elements(len(buf), i.cfg.BitsPerSample)
		if err != nil {
			return a.s.warn("record", i, fmt.Errorf("%s record: %w", i.name(), err))
		}
		if err := a.prime(p); err != nil {
			return a.s.warn("record", i, fmt.Errorf("%s record: %w", i.name(), err))
		}
		e := i.engines[0]
		if err := e.Start(engine.Bytes(buf), n); err != nil {
			return a.s.warn("record", i, fmt.Errorf("%s record: %w", i.name(), err))
		}
		if p.Kind == InputCodec {
			if err := a.s.dev.Driver.Play(); err != nil {
				_ = e.Stop()
				return a.s.warn("record", i, componentErr(i.name()+" codec play", err))
			}
		}
	}

	i.running = i.allMask()
	i.paused = 0
	i.session = session
	i.state = StateRecording
	a.s.log.Debug("recording", "instance", i.name(), "session", session, "bytes", len(buf))
	return nil
}

// prime starts the frame clock of the master block a codec path is slaved
// to when that block is idle.
func (a *AudioIn) prime(p InPort) error {
	if p.Kind != InputCodec || p.Sibling == NoSibling || p.Sibling >= len(a.s.board.Out) {
		return nil
	}
	return a.s.engine(a.s.board.Out[p.Sibling].Link).Prime(a.s.board.PrimeFrames)
}

// startFilters starts the engines of inst from the last microphone to the
// first, so the filters synchronized to microphone 1 are armed before its
// trigger. Engines already started are stopped again on failure.
func (a *AudioIn) startFilters(i *instance, buf func(k int) (engine.Buffer, int)) error {
	for k := len(i.engines) - 1; k >= 0; k-- {
		b, n := buf(k)
		if err := i.engines[k].Start(b, n); err != nil {
			for _, e := range i.engines[k+1:] {
				_ = e.Stop()
			}
			return err
		}
	}
	return nil
}

// Pause holds the capture. Codec paths pause the codec first.
func (a *AudioIn) Pause(inst int) error {
	a.s.mu.Lock()
	defer a.s.mu.Unlock()

	i, p, err := a.get(inst)
	if err != nil {
		return err
	}
	if i.state != StateRecording {
		return fmt.Errorf("%s pause in %v: %w", i.name(), i.state, audio.ErrBusy)
	}
	if p.Kind == InputCodec {
		if err := a.s.dev.Driver.Pause(); err != nil {
			return a.s.warn("pause", i, componentErr(i.name()+" codec pause", err))
		}
	}
	if err := i.each(i.running&^i.paused, (*engine.Engine).Pause); err != nil {
		return a.s.warn("pause", i, fmt.Errorf("%s pause: %w", i.name(), err))
	}
	i.paused = i.running
	i.state = StatePause
	a.s.log.Debug("paused", "instance", i.name(), "session", i.session)
	return nil
}

// Resume continues a paused capture. Codec paths resume the codec first.
func (a *AudioIn) Resume(inst int) error {
	a.s.mu.Lock()
	defer a.s.mu.Unlock()

	i, p, err := a.get(inst)
	if err != nil {
		return err
	}
	if i.state != StatePause {
		return fmt.Errorf("%s resume in %v: %w", i.name(), i.state, audio.ErrBusy)
	}
	if p.Kind == InputCodec {
		if err := a.s.dev.Driver.Resume(); err != nil {
			return a.s.warn("resume", i, componentErr(i.name()+" codec resume", err))
		}
	}
	if err := i.each(i.paused, (*engine.Engine).Resume); err != nil {
		return a.s.warn("resume", i, fmt.Errorf("%s resume: %w", i.name(), err))
	}
	i.paused = 0
	i.state = StateRecording
	a.s.log.Debug("resumed", "instance", i.name(), "session", i.session)
	return nil
}

// Stop ends the capture. No listener call happens after Stop returns.
// Stopping a stopped instance is a no-op.
func (a *AudioIn) Stop(inst int) error {
	a.s.mu.Lock()
	defer a.s.mu.Unlock()

	i, p, err := a.get(inst)
	if err != nil {
		return err
	}
	if i.state == StateStop {
		return nil
	}
	if !i.state.Active() {
		return fmt.Errorf("%s stop in %v: %w", i.name(), i.state, audio.ErrBusy)
	}
	if p.Kind == InputCodec {
		if err := a.s.dev.Driver.Stop(codec.PowerDownSW); err != nil {
			return a.s.warn("stop", i, componentErr(i.name()+" codec stop", err))
		}
	}
	if err := i.each(i.allMask(), (*engine.Engine).Stop); err != nil {
		return a.s.warn("stop", i, fmt.Errorf("%s stop: %w", i.name(), err))
	}
	i.running, i.paused = 0, 0
	i.state = StateStop
	a.s.log.Debug("stopped", "instance", i.name(), "session", i.session)
	return nil
}

// SetVolume sets the codec input gain on the 0..100 scale. Inputs without
// a codec have no gain control.
func (a *AudioIn) SetVolume(inst, volume int) error {
	a.s.mu.Lock()
	defer a.s.mu.Unlock()

	i, p, err := a.get(inst)
	if err != nil {
		return err
	}
	if volume < 0 || volume > audio.MaxVolume {
		return fmt.Errorf("%s volume %d: %w", i.name(), volume, audio.ErrWrongParam)
	}
	if p.Kind != InputCodec {
		return fmt.Errorf("%s volume on %v input: %w", i.name(), p.Kind, audio.ErrFeatureNotSupported)
	}
	if i.state == StateReset {
		return fmt.Errorf("%s set volume in %v: %w", i.name(), i.state, audio.ErrBusy)
	}
	if err := a.s.dev.Driver.SetVolume(codec.Input, uint8(volume)); err != nil {
		return a.s.warn("set volume", i, componentErr(i.name()+" codec volume", err))
	}
	i.cfg.Volume = volume
	return nil
}

// GetVolume returns the cached input gain.
func (a *AudioIn) GetVolume(inst int) (int, error) {
	a.s.mu.Lock()
	defer a.s.mu.Unlock()

	i, p, err := a.initialized(inst)
	if err != nil {
		return 0, err
	}
	if p.Kind != InputCodec {
		return 0, fmt.Errorf("%s volume on %v input: %w", i.name(), p.Kind, audio.ErrFeatureNotSupported)
	}
	return i.cfg.Volume, nil
}

// Mute silences the codec input.
func (a *AudioIn) Mute(inst int) error { return a.mute(inst, true) }

// UnMute undoes Mute.
func (a *AudioIn) UnMute(inst int) error { return a.mute(inst, false) }

func (a *AudioIn) mute(inst int, on bool) error {
	a.s.mu.Lock()
	defer a.s.mu.Unlock()

	i, p, err := a.initialized(inst)
	if err != nil {
		return err
	}
	if p.Kind != InputCodec {
		return fmt.Errorf("%s mute on %v input: %w", i.name(), p.Kind, audio.ErrFeatureNotSupported)
	}
	if i.muted == on {
		return nil
	}
	if err := a.s.dev.Driver.SetMute(on); err != nil {
		return a.s.warn("mute", i, componentErr(i.name()+" codec mute", err))
	}
	i.muted = on
	return nil
}

// IsMute reports the cached mute flag.
func (a *AudioIn) IsMute(inst int) (bool, error) {
	a.s.mu.Lock()
	defer a.s.mu.Unlock()

	i, _, err := a.initialized(inst)
	if err != nil {
		return false, err
	}
	return i.muted, nil
}

// Layout describes how a capture path lays frames out in the record buffer.
type Layout struct {
	// Width is the size in bytes of one sample slot.
	Width int
	// Slots is the number of interleaved slots per frame. It can exceed
	// the configured channel count.
	Slots int
}

// FrameBytes returns the size of one frame.
func (l Layout) FrameBytes() int { return l.Width * l.Slots }

// Layout returns the frame layout Record writes for inst. DFSDM paths
// always fill two 16-bit slots, mono included.
func (a *AudioIn) Layout(inst int) (Layout, error) {
	a.s.mu.Lock()
	defer a.s.mu.Unlock()

	i, p, err := a.initialized(inst)
	if err != nil {
		return Layout{}, err
	}
	if p.Kind == InputDFSDM {
		return Layout{Width: 2, Slots: 2}, nil
	}
	return Layout{Width: i.cfg.BitsPerSample.BytesPerSample(), Slots: i.cfg.ChannelsNbr}, nil
}

// SetDevice re-initializes inst on dev.
func (a *AudioIn) SetDevice(inst int, dev audio.InDevice) error {
	a.s.mu.Lock()
	defer a.s.mu.Unlock()

	i, p, err := a.get(inst)
	if err != nil {
		return err
	}
	if err := checkDevice(p, dev); err != nil {
		return fmt.Errorf("%s set device: %w", i.name(), err)
	}
	if i.state != StateStop {
		return fmt.Errorf("%s set device in %v: %w", i.name(), i.state, audio.ErrBusy)
	}
	cfg := i.cfg
	cfg.Device = uint32(dev)
	return a.reinit(i, p, cfg, "set device")
}

// GetDevice returns the enabled inputs.
func (a *AudioIn) GetDevice(inst int) (audio.InDevice, error) {
	a.s.mu.Lock()
	defer a.s.mu.Unlock()

	i, _, err := a.initialized(inst)
	if err != nil {
		return 0, err
	}
	return audio.InDevice(i.cfg.Device), nil
}

// SetSampleRate reprograms the path for rate.
func (a *AudioIn) SetSampleRate(inst int, rate audio.SampleRate) error {
	a.s.mu.Lock()
	defer a.s.mu.Unlock()

	i, p, err := a.get(inst)
	if err != nil {
		return err
	}
	if !rate.Valid() {
		return fmt.Errorf("%s sample rate %d: %w", i.name(), rate, audio.ErrWrongParam)
	}
	if i.state != StateStop {
		return fmt.Errorf("%s set sample rate in %v: %w", i.name(), i.state, audio.ErrBusy)
	}
	if sib := a.sibling(p); conflict(sib, rate, i.cfg.BitsPerSample) {
		return a.s.warn("set sample rate", i, fmt.Errorf("%s sample rate %d while %s runs %d: %w",
			i.name(), rate, sib.name(), sib.cfg.SampleRate, audio.ErrFeatureNotSupported))
	}
	if rate == i.cfg.SampleRate {
		return nil
	}
	if p.Kind == InputCodec {
		if err := a.s.dev.Driver.SetFrequency(rate); err != nil {
			return a.s.warn("set sample rate", i, componentErr(i.name()+" codec frequency", err))
		}
	}
	cfg := i.cfg
	cfg.SampleRate = rate
	if err := a.configure(i, p, cfg); err != nil {
		return a.s.warn("set sample rate", i, fmt.Errorf("%s set sample rate: %w", i.name(), err))
	}
	i.cfg = cfg
	return nil
}

// GetSampleRate returns the configured rate.
func (a *AudioIn) GetSampleRate(inst int) (audio.SampleRate, error) {
	a.s.mu.Lock()
	defer a.s.mu.Unlock()

	i, _, err := a.initialized(inst)
	if err != nil {
		return 0, err
	}
	return i.cfg.SampleRate, nil
}

// SetBitsPerSample re-initializes inst at depth b.
func (a *AudioIn) SetBitsPerSample(inst int, b audio.Resolution) error {
	a.s.mu.Lock()
	defer a.s.mu.Unlock()

	i, p, err := a.get(inst)
	if err != nil {
		return err
	}
	if err := checkBits(p, b); err != nil {
		return fmt.Errorf("%s set bits per sample: %w", i.name(), err)
	}
	if i.state != StateStop {
		return fmt.Errorf("%s set bits per sample in %v: %w", i.name(), i.state, audio.ErrBusy)
	}
	if sib := a.sibling(p); conflict(sib, i.cfg.SampleRate, b) {
		return a.s.warn("set bits per sample", i, fmt.Errorf("%s %d-bit while %s runs %d-bit: %w",
			i.name(), b, sib.name(), sib.cfg.BitsPerSample, audio.ErrFeatureNotSupported))
	}
	cfg := i.cfg
	cfg.BitsPerSample = b
	return a.reinit(i, p, cfg, "set bits per sample")
}

// GetBitsPerSample returns the sample depth.
func (a *AudioIn) GetBitsPerSample(inst int) (audio.Resolution, error) {
	a.s.mu.Lock()
	defer a.s.mu.Unlock()

	i, _, err := a.initialized(inst)
	if err != nil {
		return 0, err
	}
	return i.cfg.BitsPerSample, nil
}

// SetChannelsNbr switches between mono and stereo capture.
func (a *AudioIn) SetChannelsNbr(inst, channels int) error {
	a.s.mu.Lock()
	defer a.s.mu.Unlock()

	i, p, err := a.get(inst)
	if err != nil {
		return err
	}
	if channels < 1 || channels > 2 {
		return fmt.Errorf("%s channels %d: %w", i.name(), channels, audio.ErrWrongParam)
	}
	if i.state != StateStop {
		return fmt.Errorf("%s set channels in %v: %w", i.name(), i.state, audio.ErrBusy)
	}
	cfg := i.cfg
	cfg.ChannelsNbr = channels
	if err := a.configure(i, p, cfg); err != nil {
		return a.s.warn("set channels", i, fmt.Errorf("%s set channels: %w", i.name(), err))
	}
	if p.Kind == InputDFSDM {
		if err := a.buildMerge(i, cfg); err != nil {
			return a.s.warn("set channels", i, fmt.Errorf("%s set channels: %w", i.name(), err))
		}
	}
	i.cfg = cfg
	return nil
}

// GetChannelsNbr returns the channel count.
func (a *AudioIn) GetChannelsNbr(inst int) (int, error) {
	a.s.mu.Lock()
	defer a.s.mu.Unlock()

	i, _, err := a.initialized(inst)
	if err != nil {
		return 0, err
	}
	return i.cfg.ChannelsNbr, nil
}

// GetState returns the lifecycle state of inst.
func (a *AudioIn) GetState(inst int) (State, error) {
	a.s.mu.Lock()
	defer a.s.mu.Unlock()

	i, _, err := a.get(inst)
	if err != nil {
		return StateReset, err
	}
	return i.state, nil
}

// SetListener installs l for inst. A nil l drops notifications.
func (a *AudioIn) SetListener(inst int, l Listener) error {
	a.s.mu.Lock()
	defer a.s.mu.Unlock()

	i, _, err := a.get(inst)
	if err != nil {
		return err
	}
	i.setListener(l)
	return nil
}

// Session returns the tag of the current or last capture of inst.
func (a *AudioIn) Session(inst int) (string, error) {
	a.s.mu.Lock()
	defer a.s.mu.Unlock()

	i, _, err := a.initialized(inst)
	if err != nil {
		return "", err
	}
	return i.session, nil
}

func (a *AudioIn) initialized(inst int) (*instance, InPort, error) {
	i, p, err := a.get(inst)
	if err != nil {
		return nil, p, err
	}
	if i.state == StateReset {
		return nil, p, fmt.Errorf("%s in %v: %w", i.name(), i.state, audio.ErrBusy)
	}
	return i, p, nil
}

// reinit tears inst down and sets it up again with cfg. A failing teardown
// reports the peripheral error; a failing setup leaves inst in RESET and
// reports ErrNoInit. A muted codec input stays muted.
func (a *AudioIn) reinit(i *instance, p InPort, cfg audio.Config, op string) error {
	muted := i.muted
	if err := a.s.undo(i); err != nil {
		return a.s.warn(op, i, fmt.Errorf("%s %s: %w", i.name(), op, err))
	}
	if err := a.setup(i, p, cfg); err != nil {
		return a.s.warn(op, i, fmt.Errorf("%s %s: %w: %w", i.name(), op, audio.ErrNoInit, err))
	}
	// The codec comes back unmuted from Init.
	if muted && p.Kind == InputCodec {
		if err := a.s.dev.Driver.SetMute(true); err != nil {
			return a.s.warn(op, i, componentErr(i.name()+" codec mute", err))
		}
		i.muted = true
	}
	a.s.log.Debug("reinitialized", "instance", i.name(), "op", op)
	return nil
}
