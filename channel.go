// Copyright (c) 2024–2026 The t3awg developers. All rights reserved.
// Project site: https://github.com/gotmc/t3awg
// Use of this source code is governed by a MIT-style license that
// can be found in the LICENSE.txt file for the project.

package t3awg

import (
	"strconv"
	"strings"

	"github.com/gotmc/query"
)

// Channel identifies one of the instrument's two output channels.
type Channel int

// The T3AWG3252 has two output channels.
const (
	Channel1 Channel = 1
	Channel2 Channel = 2
)

func (ch Channel) validate() error {
	return checkSet("channel", ch, Channel1, Channel2)
}

// ParseOnOff normalizes the accepted spellings of an output switch
// state (ON, off, 1, 0, true, false) to a boolean.
func ParseOnOff(s string) (bool, error) {
	switch strings.ToUpper(strings.TrimSpace(s)) {
	case "ON", "1", "TRUE":
		return true, nil
	case "OFF", "0", "FALSE":
		return false, nil
	}
	return false, &ValidationError{
		Property: "output state",
		Value:    s,
		Allowed:  "ON, OFF, 1, 0, true, false",
	}
}

// onOff maps a boolean to the instrument's ON/OFF wire tokens.
func onOff(on bool) string {
	if on {
		return "ON"
	}
	return "OFF"
}

// Output queries whether the channel's front panel output is enabled.
func (d *AWG) Output(ch Channel) (bool, error) {
	if err := ch.validate(); err != nil {
		return false, err
	}
	return query.Boolf(d.tr, "OUTPut%d:STATe?", ch)
}

// SetOutput enables or disables the channel's front panel output.
func (d *AWG) SetOutput(ch Channel, on bool) error {
	if err := ch.validate(); err != nil {
		return err
	}
	return d.tr.Command("OUTPut%d:STATe %s", ch, onOff(on))
}

// Load is the expected load impedance connected to a channel output.
// The output impedance itself is always 50 Ohm; this setting corrects
// the displayed voltage for unmatched loads. Note the asymmetry on the
// wire: the low-impedance correction is the token LOW, not an ohm
// value.
type Load string

// Loads accepted by OUTPut<n>:SERIESIMPedance.
const (
	Load50Ohm Load = "50Ohm"
	LoadLow   Load = "LOW"
)

// OutputLoad queries the channel's expected load impedance setting.
func (d *AWG) OutputLoad(ch Channel) (Load, error) {
	if err := ch.validate(); err != nil {
		return "", err
	}
	s, err := query.Stringf(d.tr, "OUTPut%d:SERIESIMPedance?", ch)
	if err != nil {
		return "", err
	}
	return Load(strings.TrimSpace(s)), nil
}

// SetOutputLoad sets the channel's expected load impedance.
func (d *AWG) SetOutputLoad(ch Channel, l Load) error {
	if err := ch.validate(); err != nil {
		return err
	}
	if err := checkSet("output load", l, Load50Ohm, LoadLow); err != nil {
		return err
	}
	return d.tr.Command("OUTPut%d:SERIESIMPedance %s", ch, l)
}

// Voltage levels must stay within the instrument's output window, and
// high must exceed low by at least 1 mV. The driver enforces only the
// window; the cross-field constraint is left to the instrument.
const (
	minVoltage = -3.0
	maxVoltage = 3.0
)

// VoltageHigh queries the upper voltage of the channel's sequence
// element in volts.
func (d *AWG) VoltageHigh(ch Channel) (float64, error) {
	if err := ch.validate(); err != nil {
		return 0, err
	}
	return query.Float64f(d.tr, "SEQuence:ELEM1:VOLTage:HIGH%d?", ch)
}

// SetVoltageHigh sets the upper voltage of the channel's sequence
// element in volts, from -3 V to 3 V.
func (d *AWG) SetVoltageHigh(ch Channel, v float64) error {
	if err := ch.validate(); err != nil {
		return err
	}
	if err := checkRange("voltage high", v, minVoltage, maxVoltage); err != nil {
		return err
	}
	return d.tr.Command("SEQuence:ELEM1:VOLTage:HIGH%d %g", ch, v)
}

// VoltageLow queries the lower voltage of the channel's sequence
// element in volts.
func (d *AWG) VoltageLow(ch Channel) (float64, error) {
	if err := ch.validate(); err != nil {
		return 0, err
	}
	return query.Float64f(d.tr, "SEQuence:ELEM1:VOLTage:LOW%d?", ch)
}

// SetVoltageLow sets the lower voltage of the channel's sequence
// element in volts, from -3 V to 3 V.
//
// Some drivers in circulation format the channel 2 set command with a
// garbled LOWyyy mnemonic. The query form and channel 1 both use
// VOLTage:LOW<n>, which is the documented spelling used here.
func (d *AWG) SetVoltageLow(ch Channel, v float64) error {
	if err := ch.validate(); err != nil {
		return err
	}
	if err := checkRange("voltage low", v, minVoltage, maxVoltage); err != nil {
		return err
	}
	return d.tr.Command("SEQuence:ELEM1:VOLTage:LOW%d %g", ch, v)
}

// Arg is a command argument that is either a literal number or one of
// the instrument's symbolic levels. Symbolic and literal arguments are
// forwarded as-is; the instrument enforces its own ranges.
type Arg string

// Symbolic levels understood by the instrument.
const (
	Min Arg = "MIN"
	Max Arg = "MAX"
	Def Arg = "DEF"
	Inf Arg = "INF" // loop count only
)

// Float formats a literal floating point command argument.
func Float(v float64) Arg {
	return Arg(strconv.FormatFloat(v, 'g', -1, 64))
}

// Int formats a literal integer command argument.
func Int(n int) Arg {
	return Arg(strconv.Itoa(n))
}

// Amplitude queries the peak-to-peak amplitude in volts for the
// channel's sequence element.
func (d *AWG) Amplitude(ch Channel) (float64, error) {
	if err := ch.validate(); err != nil {
		return 0, err
	}
	return query.Float64f(d.tr, "SEQuence:ELEM1:AMPlitude%d?", ch)
}

// SetAmplitude sets the peak-to-peak amplitude for the channel's
// sequence element: volts via Float, or MIN, MAX, DEF (2 V).
func (d *AWG) SetAmplitude(ch Channel, v Arg) error {
	if err := ch.validate(); err != nil {
		return err
	}
	return d.tr.Command("SEQuence:ELEM1:AMPlitude%d %s", ch, v)
}

// Offset queries the voltage offset in volts for the channel's
// sequence element.
func (d *AWG) Offset(ch Channel) (float64, error) {
	if err := ch.validate(); err != nil {
		return 0, err
	}
	return query.Float64f(d.tr, "SEQuence:ELEM1:OFFset%d?", ch)
}

// SetOffset sets the voltage offset for the channel's sequence
// element: volts via Float, or MIN, MAX, DEF (0 V).
func (d *AWG) SetOffset(ch Channel, v Arg) error {
	if err := ch.validate(); err != nil {
		return err
	}
	return d.tr.Command("SEQuence:ELEM1:OFFset%d %s", ch, v)
}

// Waveform queries the waveform-list entry selected for playback on
// the channel.
func (d *AWG) Waveform(ch Channel) (string, error) {
	if err := ch.validate(); err != nil {
		return "", err
	}
	s, err := query.Stringf(d.tr, "SEQuence:ELEM1:WAVeform%d?", ch)
	if err != nil {
		return "", err
	}
	return strings.Trim(strings.TrimSpace(s), `"`), nil
}

// SetWaveform selects a waveform-list entry for playback on the
// channel. The name must already exist in the waveform list, either as
// one of the predefined waveforms or imported via UploadWaveform; the
// instrument rejects unknown names.
func (d *AWG) SetWaveform(ch Channel, name string) error {
	if err := ch.validate(); err != nil {
		return err
	}
	return d.tr.Command(`SEQuence:ELEM1:WAVeform%d "%s"`, ch, name)
}

// Length queries the sample count of the sequence element. The
// mnemonic carries no channel index; the length is shared by both
// channels.
func (d *AWG) Length() (int, error) {
	return query.Int(d.tr, "SEQuence:ELEM1:LENGth?")
}

// SetLength sets the sample count of the sequence element: a count via
// Int, or MIN, MAX, DEF (2048). It must not exceed the number of
// samples in the waveform selected for playback.
func (d *AWG) SetLength(n Arg) error {
	return d.tr.Command("SEQuence:ELEM1:LENGth %s", n)
}

// LoopCount queries the repetition count of the sequence element. Like
// the length, it is shared by both channels.
func (d *AWG) LoopCount() (int, error) {
	return query.Int(d.tr, "SEQuence:ELEM1:LOOP:COUNt?")
}

// SetLoopCount sets the repetition count of the sequence element: a
// count via Int, or MIN, MAX, DEF (1), INF.
func (d *AWG) SetLoopCount(n Arg) error {
	return d.tr.Command("SEQuence:ELEM1:LOOP:COUNt %s", n)
}
