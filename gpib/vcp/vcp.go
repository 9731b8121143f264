// Copyright (c) 2024–2026 The t3awg developers. All rights reserved.
// Project site: https://github.com/gotmc/t3awg
// Use of this source code is governed by a MIT-style license that
// can be found in the LICENSE.txt file for the project.

// Package vcp opens the Virtual COM Port of a USB-attached Prologix
// GPIB controller.
package vcp

import (
	"time"

	"go.bug.st/serial"
	"go.uber.org/multierr"
)

// VCP is a serial connection to a Prologix GPIB-USB controller.
type VCP struct {
	port serial.Port
}

// NewVCP opens the named serial port with the settings the Prologix
// expects: 115200 baud, 8N1.
func NewVCP(name string) (*VCP, error) {
	mode := &serial.Mode{
		BaudRate: 115200,
		DataBits: 8,
		Parity:   serial.NoParity,
		StopBits: serial.OneStopBit,
	}
	port, err := serial.Open(name, mode)
	if err != nil {
		return nil, err
	}
	if err := port.SetReadTimeout(30 * time.Second); err != nil {
		port.Close()
		return nil, err
	}
	return &VCP{port: port}, nil
}

// Write writes the given data to the serial port.
func (v *VCP) Write(p []byte) (n int, err error) {
	return v.port.Write(p)
}

// Read reads from the serial port into the given byte slice.
func (v *VCP) Read(p []byte) (n int, err error) {
	return v.port.Read(p)
}

// Flush discards any unread data on the serial port.
func (v *VCP) Flush() error {
	return v.port.ResetInputBuffer()
}

// Close discards buffered data in both directions and closes the
// serial port.
func (v *VCP) Close() error {
	return multierr.Combine(
		v.port.ResetInputBuffer(),
		v.port.ResetOutputBuffer(),
		v.port.Close(),
	)
}
