// Copyright (c) 2024–2026 The t3awg developers. All rights reserved.
// Project site: https://github.com/gotmc/t3awg
// Use of this source code is governed by a MIT-style license that
// can be found in the LICENSE.txt file for the project.

// Package t3awg controls a Teledyne T3AWG3252 arbitrary waveform
// generator over any SCPI transport. The driver holds no instrument
// state of its own: every accessor is a fresh round trip on the
// injected Transport, and the caller is responsible for serializing
// access if the driver is shared between goroutines.
package t3awg

import (
	"fmt"
	"strings"

	"github.com/gotmc/query"
)

// Transport is the connection to the instrument. A gpib.Controller or a
// lan.Device satisfies it. Command sends a SCPI command without reading
// a response; Query sends a command and blocks for the reply. The
// transport is opened and closed by its owner, not by the driver.
type Transport interface {
	Command(format string, a ...any) error
	Query(cmd string) (string, error)
}

// AWG models a Teledyne T3AWG3252 arbitrary waveform generator.
type AWG struct {
	tr     Transport
	folder string
}

// Option applies an option to the AWG driver.
type Option func(*AWG)

// DefaultFolder is the instrument-local directory that uploaded
// waveform text files are written to when no other folder is given. The
// path is on the instrument's embedded Windows controller.
const DefaultFolder = "C:/Users/awg3000/Pictures/Saved Pictures"

// WithFolder sets the instrument-local folder, without a trailing
// slash, used as the destination for waveform uploads.
func WithFolder(dir string) Option {
	return func(d *AWG) { d.folder = strings.TrimSuffix(dir, "/") }
}

// New returns an AWG driver speaking over the given transport.
func New(tr Transport, opts ...Option) *AWG {
	d := AWG{
		tr:     tr,
		folder: DefaultFolder,
	}
	for _, opt := range opts {
		opt(&d)
	}
	return &d
}

// opc blocks until all pending instrument operations have finished by
// issuing the IEEE 488.2 operation-complete query, and returns the
// trimmed acknowledgment. The instrument replies 1 once the queue has
// drained; anything else is a protocol fault.
func (d *AWG) opc() (string, error) {
	s, err := d.tr.Query("*OPC?")
	if err != nil {
		return "", err
	}
	s = strings.TrimSpace(s)
	if s != "1" {
		return s, fmt.Errorf("t3awg: malformed *OPC? acknowledgment %q", s)
	}
	return s, nil
}

// Run starts waveform generation and blocks until the instrument
// acknowledges the operation is complete.
func (d *AWG) Run() (string, error) {
	if err := d.tr.Command("AWGControl:RUN"); err != nil {
		return "", err
	}
	return d.opc()
}

// Stop stops waveform generation and blocks until the instrument
// acknowledges the operation is complete.
func (d *AWG) Stop() (string, error) {
	if err := d.tr.Command("AWGControl:STOP"); err != nil {
		return "", err
	}
	return d.opc()
}

// Trigger generates a software trigger event and blocks until the
// instrument acknowledges the operation is complete.
func (d *AWG) Trigger() (string, error) {
	if err := d.tr.Command("*TRG"); err != nil {
		return "", err
	}
	return d.opc()
}

// RunState is the instrument's run state.
type RunState int

// Run states reported by AWGControl:RSTATe?.
const (
	Stopped           RunState = 0
	WaitingForTrigger RunState = 1
	Running           RunState = 2
)

func (s RunState) String() string {
	switch s {
	case Stopped:
		return "stopped"
	case WaitingForTrigger:
		return "waiting for trigger"
	case Running:
		return "running"
	}
	return fmt.Sprintf("RunState(%d)", int(s))
}

// State queries the run state of the instrument. It issues no commands
// other than the state query itself.
func (d *AWG) State() (RunState, error) {
	n, err := query.Int(d.tr, "AWGControl:RSTATe?")
	if err != nil {
		return Stopped, err
	}
	s := RunState(n)
	if s < Stopped || s > Running {
		return Stopped, fmt.Errorf("t3awg: unknown run state %d", n)
	}
	return s, nil
}

// Identify returns the instrument's identification string.
func (d *AWG) Identify() (string, error) {
	s, err := query.String(d.tr, "*IDN?")
	if err != nil {
		return "", err
	}
	return strings.TrimSpace(s), nil
}
