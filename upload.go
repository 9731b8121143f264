// Copyright (c) 2024–2026 The t3awg developers. All rights reserved.
// Project site: https://github.com/gotmc/t3awg
// Use of this source code is governed by a MIT-style license that
// can be found in the LICENSE.txt file for the project.

package t3awg

import (
	"strconv"
	"strings"

	"github.com/gotmc/t3awg/lib/block"
)

// defaultSquare is the pattern uploaded when no samples are supplied: a
// 0/1 square wave padded to twenty samples. It exists as a convenience
// for manual bring-up, not as a production path.
func defaultSquare() []float64 {
	s := make([]float64, 0, 20)
	for i := 0; i < 10; i++ {
		s = append(s, 0, 1)
	}
	return s
}

// formatSamples serializes samples as CRLF-delimited decimal text, the
// format the instrument's waveform importer expects.
func formatSamples(samples []float64) string {
	lines := make([]string, len(samples))
	for i, v := range samples {
		lines[i] = strconv.FormatFloat(v, 'g', -1, 64)
	}
	return strings.Join(lines, "\r\n")
}

// UploadWaveform transfers samples to the instrument's mass storage as
// the text file <folder>/<name>.txt and imports it into the waveform
// list under name, replacing any existing entry of the same name. An
// empty folder selects the driver's configured folder; nil samples
// select the default square pattern. It returns the final
// operation-complete acknowledgment.
//
// The step order is fixed by the hardware: the instrument must be
// stopped before a download, and a stale waveform-list entry must be
// deleted before the import. The delete is idempotent, so its result is
// not inspected. On error the sequence aborts immediately and the
// instrument may be left with a partially completed transfer; recovery
// is the caller's responsibility.
func (d *AWG) UploadWaveform(name string, samples []float64, folder string) (string, error) {
	if samples == nil {
		samples = defaultSquare()
	}
	data := formatSamples(samples)
	if folder == "" {
		folder = d.folder
	} else {
		folder = strings.TrimSuffix(folder, "/")
	}
	if _, err := d.Stop(); err != nil {
		return "", err
	}
	err := d.tr.Command(`MMEMory:DOWNload:FNAMe "%s/%s.txt"`, folder, name)
	if err != nil {
		return "", err
	}
	err = d.tr.Command("MMEMory:DOWNload:DATA %s", block.Encode([]byte(data)))
	if err != nil {
		return "", err
	}
	if _, err = d.opc(); err != nil {
		return "", err
	}
	if err = d.tr.Command(`WLISt:WAVeform:DELete "%s"`, name); err != nil {
		return "", err
	}
	err = d.tr.Command(`WLISt:WAVeform:IMPort "%s","%s/%s.txt",ANAlog`,
		name, folder, name)
	if err != nil {
		return "", err
	}
	return d.opc()
}

// sequenceTrailer is appended to every trace uploaded through
// ConfigureChannel; the sequencer expects this marker as the final
// sample of a trace.
const sequenceTrailer = 100

// ConfigureChannel uploads samples under name and arms channel ch to
// play them between 0 V and amp volts. A non-zero sampleRate also sets
// the sampling clock, which is shared by both channels. If run is true
// the instrument is started once configuration completes.
//
// The channel output is disabled before the voltage window, waveform
// selection, and length are touched, and re-enabled only once all of
// them are set; reconfiguring a live output is undefined on the
// hardware. The upload stops the instrument before transferring the
// trace. A mid-sequence transport failure leaves whatever the completed
// prefix produced; reissue Stop and the whole call to recover.
func ConfigureChannel(
	d *AWG,
	name string,
	samples []float64,
	amp float64,
	sampleRate float64,
	ch Channel,
	run bool,
) error {
	if err := ch.validate(); err != nil {
		return err
	}
	s := make([]float64, 0, len(samples)+1)
	s = append(s, samples...)
	s = append(s, sequenceTrailer)

	// The steps below set explicit high/low voltages, so switch the
	// voltage range display out of amplitude/offset mode first.
	if err := d.SetDisplayUnit(UnitHighLow); err != nil {
		return err
	}
	if _, err := d.UploadWaveform(name, s, ""); err != nil {
		return err
	}
	if sampleRate != 0 {
		if err := d.SetSampleRate(sampleRate); err != nil {
			return err
		}
	}
	if err := d.SetOutput(ch, false); err != nil {
		return err
	}
	if err := d.SetOutputLoad(ch, Load50Ohm); err != nil {
		return err
	}
	if err := d.SetVoltageHigh(ch, amp); err != nil {
		return err
	}
	if err := d.SetVoltageLow(ch, 0); err != nil {
		return err
	}
	if err := d.SetWaveform(ch, name); err != nil {
		return err
	}
	// The playback length excludes the trailer sample.
	if err := d.SetLength(Int(len(s) - 1)); err != nil {
		return err
	}
	if err := d.SetOutput(ch, true); err != nil {
		return err
	}
	if run {
		_, err := d.Run()
		return err
	}
	return nil
}
