// SPDX-License-Identifier: EPL-2.0

package codec

import (
	"fmt"

	"github.com/ik5/audiobsp/audio"
)

// Table holds the register program of a codec chip. Board packages fill it
// from the chip datasheet; TableDriver only sequences it.
type Table struct {
	IDReg uint16

	Reset  Sequence
	Init   Sequence
	DeInit Sequence

	Play   Sequence
	Pause  Sequence
	Resume Sequence
	StopSW Sequence
	StopHW Sequence

	MuteOn  Sequence
	MuteOff Sequence

	// Volume registers receive the converted value in the low byte.
	OutVolumeRegs []uint16
	InVolumeRegs  []uint16

	FrequencyReg uint16
	Frequencies  map[audio.SampleRate]uint16

	ResolutionReg uint16
	Resolutions   map[audio.Resolution]uint16

	OutputReg uint16
	Outputs   map[audio.OutDevice]uint16

	InputReg uint16
	Inputs   map[audio.InDevice]uint16
}

// TableDriver implements Driver by replaying a Table over an IO.
type TableDriver struct {
	io    IO
	table *Table
}

var _ Driver = (*TableDriver)(nil)

func NewTableDriver(io IO, table *Table) *TableDriver {
	return &TableDriver{io: io, table: table}
}

func (d *TableDriver) Init(cfg InitConfig) error {
	var acc Accumulator
	acc.Add(d.table.Init.Apply(d.io))

	if cfg.Output != audio.OutDeviceNone {
		acc.Add(d.SetOutputMode(cfg.Output))
	}
	if cfg.Input != 0 {
		v, ok := d.table.Inputs[cfg.Input]
		if !ok {
			return fmt.Errorf("input %v: %w", cfg.Input, audio.ErrWrongParam)
		}
		acc.Add(d.io.Write(d.table.InputReg, v))
	}
	acc.Add(d.SetFrequency(cfg.Frequency))
	acc.Add(d.SetResolution(cfg.Resolution))
	if cfg.Output != audio.OutDeviceNone {
		acc.Add(d.SetVolume(Output, cfg.Volume))
	}
	if cfg.Input != 0 {
		acc.Add(d.SetVolume(Input, cfg.Volume))
	}
	return acc.Err()
}

func (d *TableDriver) DeInit() error { return d.table.DeInit.Apply(d.io) }

func (d *TableDriver) ReadID() (uint32, error) {
	v, err := d.io.Read(d.table.IDReg)
	if err != nil {
		return 0, fmt.Errorf("%w: %w", audio.ErrComponentFailure, err)
	}
	return uint32(v), nil
}

func (d *TableDriver) Play() error   { return d.table.Play.Apply(d.io) }
func (d *TableDriver) Pause() error  { return d.table.Pause.Apply(d.io) }
func (d *TableDriver) Resume() error { return d.table.Resume.Apply(d.io) }
func (d *TableDriver) Reset() error  { return d.table.Reset.Apply(d.io) }

func (d *TableDriver) Stop(mode StopMode) error {
	if mode == PowerDownHW {
		return d.table.StopHW.Apply(d.io)
	}
	return d.table.StopSW.Apply(d.io)
}

func (d *TableDriver) SetMute(on bool) error {
	if on {
		return d.table.MuteOn.Apply(d.io)
	}
	return d.table.MuteOff.Apply(d.io)
}

func (d *TableDriver) volumeRegs(dir Direction) []uint16 {
	if dir == Input {
		return d.table.InVolumeRegs
	}
	return d.table.OutVolumeRegs
}

func (d *TableDriver) SetVolume(dir Direction, volume uint8) error {
	if volume > audio.MaxVolume {
		return fmt.Errorf("volume %d: %w", volume, audio.ErrWrongParam)
	}
	v := OutVolume(volume)
	if dir == Input {
		v = InVolume(volume)
	}
	var acc Accumulator
	for _, reg := range d.volumeRegs(dir) {
		acc.Add(d.io.Write(reg, uint16(v)))
	}
	return acc.Err()
}

func (d *TableDriver) GetVolume(dir Direction) (uint8, error) {
	regs := d.volumeRegs(dir)
	if len(regs) == 0 {
		return 0, fmt.Errorf("%v volume: %w", dir, audio.ErrFeatureNotSupported)
	}
	v, err := d.io.Read(regs[0])
	if err != nil {
		return 0, fmt.Errorf("%w: %w", audio.ErrComponentFailure, err)
	}
	if dir == Input {
		return InPercent(uint8(v)), nil
	}
	return OutPercent(uint8(v)), nil
}

func (d *TableDriver) SetFrequency(rate audio.SampleRate) error {
	v, ok := d.table.Frequencies[rate]
	if !ok {
		return fmt.Errorf("frequency %d: %w", rate, audio.ErrWrongParam)
	}
	return d.write(d.table.FrequencyReg, v)
}

func (d *TableDriver) SetResolution(bits audio.Resolution) error {
	v, ok := d.table.Resolutions[bits]
	if !ok {
		return fmt.Errorf("resolution %d: %w", bits, audio.ErrWrongParam)
	}
	return d.write(d.table.ResolutionReg, v)
}

func (d *TableDriver) SetOutputMode(dev audio.OutDevice) error {
	v, ok := d.table.Outputs[dev]
	if !ok {
		return fmt.Errorf("output %v: %w", dev, audio.ErrWrongParam)
	}
	return d.write(d.table.OutputReg, v)
}

func (d *TableDriver) write(reg, v uint16) error {
	if err := d.io.Write(reg, v); err != nil {
		return fmt.Errorf("%w: %w", audio.ErrComponentFailure, err)
	}
	return nil
}
