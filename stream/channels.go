// SPDX-License-Identifier: EPL-2.0

package stream

import (
	"fmt"

	"github.com/google/uuid"

	"github.com/ik5/audiobsp/audio"
	"github.com/ik5/audiobsp/engine"
)

// RecordChannels starts a DFSDM capture without merging: the filter of the
// k-th enabled microphone writes raw words into bufs[k]. Half and full
// notifications arrive once per microphone.
func (a *AudioIn) RecordChannels(inst int, bufs [][]int32) error {
	a.s.mu.Lock()
	defer a.s.mu.Unlock()

	i, p, err := a.get(inst)
	if err != nil {
		return err
	}
	if p.Kind != InputDFSDM {
		return fmt.Errorf("%s record channels on %v input: %w", i.name(), p.Kind, audio.ErrFeatureNotSupported)
	}
	if i.state != StateStop {
		return fmt.Errorf("%s record channels in %v: %w", i.name(), i.state, audio.ErrBusy)
	}
	if len(bufs) != len(i.mics) {
		return fmt.Errorf("%s record channels: %d buffers for %d microphones: %w",
			i.name(), len(bufs), len(i.mics), audio.ErrWrongParam)
	}
	for k, b := range bufs {
		if len(b) == 0 || len(b) > audio.MaxTransferCount {
			return fmt.Errorf("%s record channels: buffer %d holds %d words: %w", i.name(), k, len(b), audio.ErrWrongParam)
		}
	}

	session := uuid.NewString()
	i.multi.Start(session)
	for k, e := range i.engines {
		e.SetListener(i.multi.Port(i.mics[k]))
	}
	err = a.startFilters(i, func(k int) (engine.Buffer, int) {
		return engine.Words(bufs[k]), len(bufs[k])
	})
	if err != nil {
		return a.s.warn("record channels", i, fmt.Errorf("%s record channels: %w", i.name(), err))
	}

	i.running = i.allMask()
	i.paused = 0
	i.session = session
	i.state = StateRecording
	a.s.log.Debug("recording channels", "instance", i.name(), "session", session, "mics", len(bufs))
	return nil
}

// channelMask checks that mics is a non-empty subset of the microphones
// enabled on inst and returns it as a zero-based mask.
func (a *AudioIn) channelMask(inst int, mics audio.InDevice, op string) (*instance, uint32, error) {
	i, p, err := a.get(inst)
	if err != nil {
		return nil, 0, err
	}
	if p.Kind != InputDFSDM {
		return nil, 0, fmt.Errorf("%s %s on %v input: %w", i.name(), op, p.Kind, audio.ErrFeatureNotSupported)
	}
	enabled := audio.InDevice(i.cfg.Device)
	if !mics.IsDigital() || mics&^enabled != 0 {
		return nil, 0, fmt.Errorf("%s %s: microphones %#x not enabled: %w", i.name(), op, uint32(mics), audio.ErrWrongParam)
	}
	return i, mics.MicMask(), nil
}

// PauseChannels holds the filters of mics. The instance moves to PAUSE.
func (a *AudioIn) PauseChannels(inst int, mics audio.InDevice) error {
	a.s.mu.Lock()
	defer a.s.mu.Unlock()

	i, mask, err := a.channelMask(inst, mics, "pause channels")
	if err != nil {
		return err
	}
	if i.state != StateRecording && i.state != StatePause {
		return fmt.Errorf("%s pause channels in %v: %w", i.name(), i.state, audio.ErrBusy)
	}
	todo := mask & i.running &^ i.paused
	if err := i.each(todo, (*engine.Engine).Pause); err != nil {
		return a.s.warn("pause channels", i, fmt.Errorf("%s pause channels: %w", i.name(), err))
	}
	i.paused |= todo
	i.state = StatePause
	return nil
}

// ResumeChannels continues the filters of mics. The instance is back in
// RECORDING once no microphone is left paused.
func (a *AudioIn) ResumeChannels(inst int, mics audio.InDevice) error {
	a.s.mu.Lock()
	defer a.s.mu.Unlock()

	i, mask, err := a.channelMask(inst, mics, "resume channels")
	if err != nil {
		return err
	}
	if i.state != StatePause {
		return fmt.Errorf("%s resume channels in %v: %w", i.name(), i.state, audio.ErrBusy)
	}
	todo := mask & i.paused
	if err := i.each(todo, (*engine.Engine).Resume); err != nil {
		return a.s.warn("resume channels", i, fmt.Errorf("%s resume channels: %w", i.name(), err))
	}
	i.paused &^= todo
	if i.paused == 0 {
		i.state = StateRecording
	}
	return nil
}

// StopChannels stops the filters of mics. The instance moves to STOP once
// every microphone is stopped.
func (a *AudioIn) StopChannels(inst int, mics audio.InDevice) error {
	a.s.mu.Lock()
	defer a.s.mu.Unlock()

	i, mask, err := a.channelMask(inst, mics, "stop channels")
	if err != nil {
		return err
	}
	if !i.state.Active() {
		return fmt.Errorf("%s stop channels in %v: %w", i.name(), i.state, audio.ErrBusy)
	}
	todo := mask & i.running
	if err := i.each(todo, (*engine.Engine).Stop); err != nil {
		return a.s.warn("stop channels", i, fmt.Errorf("%s stop channels: %w", i.name(), err))
	}
	i.running &^= todo
	i.paused &^= todo
	switch {
	case i.running == 0:
		i.state = StateStop
	case i.paused == 0:
		i.state = StateRecording
	}
	return nil
}
