// Copyright (c) 2024–2026 The t3awg developers. All rights reserved.
// Project site: https://github.com/gotmc/t3awg
// Use of this source code is governed by a MIT-style license that
// can be found in the LICENSE.txt file for the project.

package t3awg

import (
	"strings"

	"github.com/gotmc/query"
)

// RunMode selects how the sequencer advances through its entries.
type RunMode string

// Run modes accepted by AWGControl:RMODe.
const (
	// Continuous loops each entry per its repetition count and repeats
	// the whole sequence circularly.
	Continuous RunMode = "CONT"
	// Burst waits for a trigger, then repeats the sequence as many
	// times as the burst count; a burst count of 1 is single mode.
	Burst RunMode = "BURS"
	// TriggeredContinuous waits for a trigger, then behaves like
	// Continuous.
	TriggeredContinuous RunMode = "TCON"
	// Stepped waits for a trigger before each sequence entry, holding
	// the boundary sample until the trigger arrives.
	Stepped RunMode = "STEP"
	// Advanced enables conditional, unconditional, and pattern jumps
	// between sequence entries.
	Advanced RunMode = "ADVA"
)

// RunMode queries the sequencer run mode.
func (d *AWG) RunMode() (RunMode, error) {
	s, err := query.String(d.tr, "AWGControl:RMODe?")
	if err != nil {
		return "", err
	}
	return RunMode(strings.TrimSpace(s)), nil
}

// SetRunMode sets the sequencer run mode.
func (d *AWG) SetRunMode(m RunMode) error {
	err := checkSet("run mode", m,
		Continuous, Burst, TriggeredContinuous, Stepped, Advanced)
	if err != nil {
		return err
	}
	return d.tr.Command("AWGControl:RMODe %s", m)
}

// SampleRate queries the sampling clock rate in Hz. The clock is shared
// by both channels.
func (d *AWG) SampleRate() (float64, error) {
	return query.Float64(d.tr, "AWGControl:SRATe?")
}

// SetSampleRate sets the sampling clock rate in Hz. The value is
// forwarded unvalidated; the instrument enforces its own limits.
func (d *AWG) SetSampleRate(hz float64) error {
	return d.tr.Command("AWGControl:SRATe %f", hz)
}

// DisplayUnit selects how voltage ranges are specified on the front
// panel display: as amplitude and offset, or as high and low values.
type DisplayUnit string

// Display units accepted by DISPlay:UNIT:VOLT.
const (
	UnitAmplitude DisplayUnit = "AMPL"
	UnitHighLow   DisplayUnit = "HIGH"
)

// SetDisplayUnit selects the voltage range display mode.
func (d *AWG) SetDisplayUnit(u DisplayUnit) error {
	if err := checkSet("display unit", u, UnitAmplitude, UnitHighLow); err != nil {
		return err
	}
	return d.tr.Command("DISPlay:UNIT:VOLT %s", u)
}

// DisplayUnit always returns ErrWriteOnly: the instrument provides no
// query form for DISPlay:UNIT:VOLT.
func (d *AWG) DisplayUnit() (DisplayUnit, error) {
	return "", ErrWriteOnly
}
