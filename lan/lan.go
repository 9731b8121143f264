// Copyright (c) 2024–2026 The t3awg developers. All rights reserved.
// Project site: https://github.com/gotmc/t3awg
// Use of this source code is governed by a MIT-style license that
// can be found in the LICENSE.txt file for the project.

// Package lan provides a raw-socket SCPI session for instruments that
// expose their command port over Ethernet.
package lan

import (
	"bufio"
	"fmt"
	"log"
	"net"
	"strings"
	"time"
)

// Device is a synchronous SCPI session over one TCP connection.
type Device struct {
	Debug   bool // if true, log commands and responses
	conn    net.Conn
	r       *bufio.Reader
	timeout time.Duration
	term    byte
}

// Option applies an option to the device.
type Option func(*Device)

// WithTimeout sets the per-query read deadline. The default is 10
// seconds.
func WithTimeout(d time.Duration) Option {
	return func(dev *Device) { dev.timeout = d }
}

// WithDebug causes commands and responses to be logged.
func WithDebug() Option { return func(dev *Device) { dev.Debug = true } }

// Dial connects to an instrument's SCPI socket, e.g. host:5025.
func Dial(addr string, opts ...Option) (*Device, error) {
	conn, err := net.Dial("tcp", addr)
	if err != nil {
		return nil, err
	}
	dev := Device{
		conn:    conn,
		r:       bufio.NewReader(conn),
		timeout: 10 * time.Second,
		term:    '\n',
	}
	for _, opt := range opts {
		opt(&dev)
	}
	return &dev, nil
}

// Command formats according to a format specifier if arguments are
// given and sends a SCPI/ASCII command to the instrument, terminated
// with a newline.
func (d *Device) Command(format string, a ...any) error {
	cmd := format
	if len(a) > 0 {
		cmd = fmt.Sprintf(format, a...)
	}
	cmd = fmt.Sprintf("%s%c", strings.TrimSpace(cmd), d.term)
	if d.Debug {
		log.Printf("lan cmd %q", cmd)
	}
	if err := d.conn.SetWriteDeadline(time.Now().Add(d.timeout)); err != nil {
		return err
	}
	_, err := d.conn.Write([]byte(cmd))
	return err
}

// Query sends the given SCPI/ASCII command and reads the instrument's
// response up to and including the terminator.
func (d *Device) Query(cmd string) (string, error) {
	if err := d.Command(cmd); err != nil {
		return "", fmt.Errorf("error writing command: %w", err)
	}
	if err := d.conn.SetReadDeadline(time.Now().Add(d.timeout)); err != nil {
		return "", err
	}
	s, err := d.r.ReadString(d.term)
	if d.Debug {
		log.Printf("lan read %q", s)
	}
	return s, err
}

// Close closes the TCP connection.
func (d *Device) Close() error {
	return d.conn.Close()
}
