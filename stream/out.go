// SPDX-License-Identifier: EPL-2.0

package stream

import (
	"fmt"

	"github.com/google/uuid"

	"github.com/ik5/audiobsp/audio"
	"github.com/ik5/audiobsp/codec"
	"github.com/ik5/audiobsp/engine"
)

// AudioOut is the playback API. Instances index Board.Out.
type AudioOut struct {
	s *Subsystem
}

func (a *AudioOut) get(inst int) (*instance, error) {
	if inst < 0 || inst >= len(a.s.outs) {
		return nil, fmt.Errorf("out %d: no such instance: %w", inst, audio.ErrWrongParam)
	}
	return a.s.outs[inst], nil
}

func (a *AudioOut) sibling(o *instance) *instance {
	sib := a.s.board.Out[o.idx].Sibling
	if sib == NoSibling || sib >= len(a.s.ins) {
		return nil
	}
	return a.s.ins[sib]
}

func validOut(d uint32) bool {
	dev := audio.OutDevice(d)
	return dev >= audio.OutDeviceSpeaker && dev <= audio.OutDeviceAuto
}

func (a *AudioOut) configure(o *instance, cfg audio.Config) error {
	e := o.engines[0]
	lc := engine.LinkConfig{
		Role:       engine.RoleMaster,
		SampleRate: cfg.SampleRate,
		Bits:       cfg.BitsPerSample,
		Channels:   cfg.ChannelsNbr,
		Slots:      engine.OutputSlotPlan(audio.OutDevice(cfg.Device), cfg.BitsPerSample, cfg.ChannelsNbr),
	}
	return e.Configure(engine.MemToPeriph, engine.WidthFor(e.Link(), cfg.BitsPerSample), a.s.mode(), lc)
}

// Init powers the codec, programs the link and moves inst to STOP.
func (a *AudioOut) Init(inst int, cfg audio.Config) error {
	a.s.mu.Lock()
	defer a.s.mu.Unlock()

	o, err := a.get(inst)
	if err != nil {
		return err
	}
	if err := cfg.Validate(); err != nil {
		return a.s.warn("init", o, fmt.Errorf("%s init: %w", o.name(), err))
	}
	if !validOut(cfg.Device) {
		return a.s.warn("init", o, fmt.Errorf("%s init: device %d: %w", o.name(), cfg.Device, audio.ErrWrongParam))
	}
	if o.state != StateReset {
		return fmt.Errorf("%s init in %v: %w", o.name(), o.state, audio.ErrBusy)
	}
	sib := a.sibling(o)
	if conflict(sib, cfg.SampleRate, cfg.BitsPerSample) {
		return a.s.warn("init", o, fmt.Errorf("%s init: %d Hz %d-bit while %s runs %d Hz %d-bit: %w",
			o.name(), cfg.SampleRate, cfg.BitsPerSample, sib.name(), sib.cfg.SampleRate, sib.cfg.BitsPerSample,
			audio.ErrFeatureNotSupported))
	}

	if err := a.s.power.Acquire(o.user); err != nil {
		return a.s.warn("init", o, fmt.Errorf("%s init: %w", o.name(), err))
	}
	e := a.s.engine(a.s.board.Out[o.idx].Link)
	e.SetListener(linkPort{inst: o})
	o.engines = []*engine.Engine{e}
	if err := a.configure(o, cfg); err != nil {
		_ = a.s.undo(o)
		return a.s.warn("init", o, fmt.Errorf("%s init: %w", o.name(), err))
	}

	ic := codec.InitConfig{
		Output:     audio.OutDevice(cfg.Device),
		Frequency:  cfg.SampleRate,
		Resolution: cfg.BitsPerSample,
		Volume:     uint8(cfg.Volume),
	}
	if sib != nil && sib.state != StateReset {
		ic.Input = audio.InDevice(sib.cfg.Device)
	}
	if err := a.s.dev.Driver.Init(ic); err != nil {
		_ = a.s.undo(o)
		return a.s.warn("init", o, componentErr(o.name()+" codec init", err))
	}

	o.cfg = cfg
	o.state = StateStop
	a.s.log.Debug("initialized", "instance", o.name(), "device", audio.OutDevice(cfg.Device).String(),
		"rate", uint32(cfg.SampleRate), "bits", int(cfg.BitsPerSample), "channels", cfg.ChannelsNbr)
	return nil
}

// DeInit stops any transfer, releases the codec and returns inst to RESET.
// The codec powers down once every sibling is RESET as well.
func (a *AudioOut) DeInit(inst int) error {
	a.s.mu.Lock()
	defer a.s.mu.Unlock()

	o, err := a.get(inst)
	if err != nil {
		return err
	}
	if o.state == StateReset {
		return nil
	}
	if err := a.s.undo(o); err != nil {
		return a.s.warn("deinit", o, fmt.Errorf("%s deinit: %w", o.name(), err))
	}
	a.s.log.Debug("deinitialized", "instance", o.name())
	return nil
}

// Play starts shifting buf out in a loop. The engine runs before the codec
// leaves its muted state so the converter sees a bit clock.
func (a *AudioOut) Play(inst int, buf []byte) error {
	a.s.mu.Lock()
	defer a.s.mu.Unlock()

	o, err := a.get(inst)
	if err != nil {
		return err
	}
	if len(buf) == 0 {
		return fmt.Errorf("%s play: empty buffer: %w", o.name(), audio.ErrWrongParam)
	}
	if o.state != StateStop {
		return fmt.Errorf("%s play in %v: %w", o.name(), o.state, audio.ErrBusy)
	}
	n, err := audio.Elements(len(buf), o.cfg.BitsPerSample)
	if err != nil {
		return a.s.warn("play", o, fmt.Errorf("%s play: %w", o.name(), err))
	}

	session := uuid.NewString()
	e := o.engines[0]
	if err := e.Start(engine.Bytes(buf), n); err != nil {
		return a.s.warn("play", o, fmt.Errorf("%s play: %w", o.name(), err))
	}
	if err := a.s.dev.Driver.Play(); err != nil {
		_ = e.Stop()
		return a.s.warn("play", o, componentErr(o.name()+" codec play", err))
	}

	o.session = session
	o.state = StatePlaying
	a.s.log.Debug("playing", "instance", o.name(), "session", session, "elements", n)
	return nil
}

// Pause mutes the codec, then holds the transfer.
func (a *AudioOut) Pause(inst int) error {
	a.s.mu.Lock()
	defer a.s.mu.Unlock()

	o, err := a.get(inst)
	if err != nil {
		return err
	}
	if o.state != StatePlaying {
		return fmt.Errorf("%s pause in %v: %w", o.name(), o.state, audio.ErrBusy)
	}
	if err := a.s.dev.Driver.Pause(); err != nil {
		return a.s.warn("pause", o, componentErr(o.name()+" codec pause", err))
	}
	if err := o.engines[0].Pause(); err != nil {
		return a.s.warn("pause", o, fmt.Errorf("%s pause: %w", o.name(), err))
	}
	o.state = StatePause
	a.s.log.Debug("paused", "instance", o.name(), "session", o.session)
	return nil
}

// Resume restarts the codec, then the transfer.
func (a *AudioOut) Resume(inst int) error {
	a.s.mu.Lock()
	defer a.s.mu.Unlock()

	o, err := a.get(inst)
	if err != nil {
		return err
	}
	if o.state != StatePause {
		return fmt.Errorf("%s resume in %v: %w", o.name(), o.state, audio.ErrBusy)
	}
	if err := a.s.dev.Driver.Resume(); err != nil {
		return a.s.warn("resume", o, componentErr(o.name()+" codec resume", err))
	}
	if err := o.engines[0].Resume(); err != nil {
		return a.s.warn("resume", o, fmt.Errorf("%s resume: %w", o.name(), err))
	}
	o.state = StatePlaying
	a.s.log.Debug("resumed", "instance", o.name(), "session", o.session)
	return nil
}

// Stop mutes the codec in software power-down and stops the transfer. No
// listener call happens after Stop returns. Stopping a stopped instance is
// a no-op.
func (a *AudioOut) Stop(inst int) error {
	a.s.mu.Lock()
	defer a.s.mu.Unlock()

	o, err := a.get(inst)
	if err != nil {
		return err
	}
	if o.state == StateStop {
		return nil
	}
	if !o.state.Active() {
		return fmt.Errorf("%s stop in %v: %w", o.name(), o.state, audio.ErrBusy)
	}
	if err := a.s.dev.Driver.Stop(codec.PowerDownSW); err != nil {
		return a.s.warn("stop", o, componentErr(o.name()+" codec stop", err))
	}
	if err := o.engines[0].Stop(); err != nil {
		return a.s.warn("stop", o, fmt.Errorf("%s stop: %w", o.name(), err))
	}
	o.state = StateStop
	a.s.log.Debug("stopped", "instance", o.name(), "session", o.session)
	return nil
}

// SetVolume sets the output level on the 0..100 scale. Zero also marks the
// instance muted.
func (a *AudioOut) SetVolume(inst, volume int) error {
	a.s.mu.Lock()
	defer a.s.mu.Unlock()

	o, err := a.get(inst)
	if err != nil {
		return err
	}
	if volume < 0 || volume > audio.MaxVolume {
		return fmt.Errorf("%s volume %d: %w", o.name(), volume, audio.ErrWrongParam)
	}
	if o.state == StateReset {
		return fmt.Errorf("%s set volume in %v: %w", o.name(), o.state, audio.ErrBusy)
	}
	if err := a.s.dev.Driver.SetVolume(codec.Output, uint8(volume)); err != nil {
		return a.s.warn("set volume", o, componentErr(o.name()+" codec volume", err))
	}
	o.cfg.Volume = volume
	o.muted = volume == 0
	return nil
}

// GetVolume returns the cached output level.
func (a *AudioOut) GetVolume(inst int) (int, error) {
	a.s.mu.Lock()
	defer a.s.mu.Unlock()

	o, err := a.initialized(inst)
	if err != nil {
		return 0, err
	}
	return o.cfg.Volume, nil
}

// Mute silences the output without touching the cached volume.
func (a *AudioOut) Mute(inst int) error { return a.mute(inst, true) }

// UnMute undoes Mute.
func (a *AudioOut) UnMute(inst int) error { return a.mute(inst, false) }

func (a *AudioOut) mute(inst int, on bool) error {
	a.s.mu.Lock()
	defer a.s.mu.Unlock()

	o, err := a.get(inst)
	if err != nil {
		return err
	}
	if o.state == StateReset {
		return fmt.Errorf("%s mute in %v: %w", o.name(), o.state, audio.ErrBusy)
	}
	if o.muted == on {
		return nil
	}
	if err := a.s.dev.Driver.SetMute(on); err != nil {
		return a.s.warn("mute", o, componentErr(o.name()+" codec mute", err))
	}
	o.muted = on
	return nil
}

// IsMute reports the cached mute flag.
func (a *AudioOut) IsMute(inst int) (bool, error) {
	a.s.mu.Lock()
	defer a.s.mu.Unlock()

	o, err := a.initialized(inst)
	if err != nil {
		return false, err
	}
	return o.muted, nil
}

// SetDevice switches the output path.
func (a *AudioOut) SetDevice(inst int, dev audio.OutDevice) error {
	a.s.mu.Lock()
	defer a.s.mu.Unlock()

	o, err := a.stopped(inst, "set device")
	if err != nil {
		return err
	}
	if !validOut(uint32(dev)) {
		return fmt.Errorf("%s device %d: %w", o.name(), dev, audio.ErrWrongParam)
	}
	if err := a.s.dev.Driver.SetOutputMode(dev); err != nil {
		return a.s.warn("set device", o, componentErr(o.name()+" codec output", err))
	}
	cfg := o.cfg
	cfg.Device = uint32(dev)
	return a.apply(o, cfg, "set device")
}

// GetDevice returns the output path.
func (a *AudioOut) GetDevice(inst int) (audio.OutDevice, error) {
	a.s.mu.Lock()
	defer a.s.mu.Unlock()

	o, err := a.initialized(inst)
	if err != nil {
		return audio.OutDeviceNone, err
	}
	return audio.OutDevice(o.cfg.Device), nil
}

// SetSampleRate reprograms the link clock and the codec frequency.
func (a *AudioOut) SetSampleRate(inst int, rate audio.SampleRate) error {
	a.s.mu.Lock()
	defer a.s.mu.Unlock()

	o, err := a.stopped(inst, "set sample rate")
	if err != nil {
		return err
	}
	if !rate.Valid() {
		return fmt.Errorf("%s sample rate %d: %w", o.name(), rate, audio.ErrWrongParam)
	}
	if sib := a.sibling(o); conflict(sib, rate, o.cfg.BitsPerSample) {
		return a.s.warn("set sample rate", o, fmt.Errorf("%s sample rate %d while %s runs %d: %w",
			o.name(), rate, sib.name(), sib.cfg.SampleRate, audio.ErrFeatureNotSupported))
	}
	if rate == o.cfg.SampleRate {
		return nil
	}
	if err := a.s.dev.Driver.SetFrequency(rate); err != nil {
		return a.s.warn("set sample rate", o, componentErr(o.name()+" codec frequency", err))
	}
	cfg := o.cfg
	cfg.SampleRate = rate
	return a.apply(o, cfg, "set sample rate")
}

// GetSampleRate returns the configured rate.
func (a *AudioOut) GetSampleRate(inst int) (audio.SampleRate, error) {
	a.s.mu.Lock()
	defer a.s.mu.Unlock()

	o, err := a.initialized(inst)
	if err != nil {
		return 0, err
	}
	return o.cfg.SampleRate, nil
}

// SetBitsPerSample changes the sample depth and the transfer width.
func (a *AudioOut) SetBitsPerSample(inst int, bits audio.Resolution) error {
	a.s.mu.Lock()
	defer a.s.mu.Unlock()

	o, err := a.stopped(inst, "set bits per sample")
	if err != nil {
		return err
	}
	if !bits.Valid() {
		return fmt.Errorf("%s bits per sample %d: %w", o.name(), bits, audio.ErrWrongParam)
	}
	if sib := a.sibling(o); conflict(sib, o.cfg.SampleRate, bits) {
		return a.s.warn("set bits per sample", o, fmt.Errorf("%s %d-bit while %s runs %d-bit: %w",
			o.name(), bits, sib.name(), sib.cfg.BitsPerSample, audio.ErrFeatureNotSupported))
	}
	if err := a.s.dev.Driver.SetResolution(bits); err != nil {
		return a.s.warn("set bits per sample", o, componentErr(o.name()+" codec resolution", err))
	}
	cfg := o.cfg
	cfg.BitsPerSample = bits
	return a.apply(o, cfg, "set bits per sample")
}

// GetBitsPerSample returns the sample depth.
func (a *AudioOut) GetBitsPerSample(inst int) (audio.Resolution, error) {
	a.s.mu.Lock()
	defer a.s.mu.Unlock()

	o, err := a.initialized(inst)
	if err != nil {
		return 0, err
	}
	return o.cfg.BitsPerSample, nil
}

// SetChannelsNbr switches between mono and stereo frames.
func (a *AudioOut) SetChannelsNbr(inst, channels int) error {
	a.s.mu.Lock()
	defer a.s.mu.Unlock()

	o, err := a.stopped(inst, "set channels")
	if err != nil {
		return err
	}
	if channels < 1 || channels > 2 {
		return fmt.Errorf("%s channels %d: %w", o.name(), channels, audio.ErrWrongParam)
	}
	cfg := o.cfg
	cfg.ChannelsNbr = channels
	return a.apply(o, cfg, "set channels")
}

// GetChannelsNbr returns the channel count.
func (a *AudioOut) GetChannelsNbr(inst int) (int, error) {
	a.s.mu.Lock()
	defer a.s.mu.Unlock()

	o, err := a.initialized(inst)
	if err != nil {
		return 0, err
	}
	return o.cfg.ChannelsNbr, nil
}

// GetState returns the lifecycle state of inst.
func (a *AudioOut) GetState(inst int) (State, error) {
	a.s.mu.Lock()
	defer a.s.mu.Unlock()

	o, err := a.get(inst)
	if err != nil {
		return StateReset, err
	}
	return o.state, nil
}

// SetListener installs l for inst. A nil l drops notifications.
func (a *AudioOut) SetListener(inst int, l Listener) error {
	a.s.mu.Lock()
	defer a.s.mu.Unlock()

	o, err := a.get(inst)
	if err != nil {
		return err
	}
	o.setListener(l)
	return nil
}

// Session returns the tag of the current or last Play of inst.
func (a *AudioOut) Session(inst int) (string, error) {
	a.s.mu.Lock()
	defer a.s.mu.Unlock()

	o, err := a.initialized(inst)
	if err != nil {
		return "", err
	}
	return o.session, nil
}

func (a *AudioOut) initialized(inst int) (*instance, error) {
	o, err := a.get(inst)
	if err != nil {
		return nil, err
	}
	if o.state == StateReset {
		return nil, fmt.Errorf("%s in %v: %w", o.name(), o.state, audio.ErrBusy)
	}
	return o, nil
}

func (a *AudioOut) stopped(inst int, op string) (*instance, error) {
	o, err := a.get(inst)
	if err != nil {
		return nil, err
	}
	if o.state != StateStop {
		return nil, fmt.Errorf("%s %s in %v: %w", o.name(), op, o.state, audio.ErrBusy)
	}
	return o, nil
}

// apply reprograms the link for cfg and caches it on success.
func (a *AudioOut) apply(o *instance, cfg audio.Config, op string) error {
	if err := a.configure(o, cfg); err != nil {
		return a.s.warn(op, o, fmt.Errorf("%s %s: %w", o.name(), op, err))
	}
	o.cfg = cfg
	return nil
}
