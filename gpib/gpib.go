// Copyright (c) 2024–2026 The t3awg developers. All rights reserved.
// Project site: https://github.com/gotmc/t3awg
// Use of this source code is governed by a MIT-style license that
// can be found in the LICENSE.txt file for the project.

// Package gpib drives a Prologix-style GPIB controller-in-charge over
// any io.ReadWriter: a Virtual COM Port, USB direct, or Ethernet
// socket. Controller-local commands are prefixed with ++ and consumed
// by the adapter; everything else is forwarded to the instrument at the
// configured GPIB address.
package gpib

import (
	"bufio"
	"fmt"
	"io"
	"log"
	"strconv"
	"strings"
	"time"
)

// Controller models a GPIB controller-in-charge.
type Controller struct {
	Debug            bool // if true, log commands and responses
	rw               io.ReadWriter
	r                *bufio.Reader
	primaryAddr      int
	hasSecondaryAddr bool
	secondaryAddr    int
	auto             bool
	usbTerm          byte
	eotChar          byte
	writeDelay       time.Duration
	ar488            bool
}

// Option applies an option to the controller.
type Option func(*Controller)

// WithSecondaryAddress sets a secondary GPIB address, which must be in
// the range 96 to 126, inclusive.
func WithSecondaryAddress(addr int) Option {
	return func(c *Controller) {
		c.hasSecondaryAddr = true
		c.secondaryAddr = addr
	}
}

// WithDebug causes commands and responses to be logged.
func WithDebug() Option { return func(c *Controller) { c.Debug = true } }

// WithWriteDelay inserts a pause before each controller-local command.
// Arduino-based adapters drop ++ commands that arrive back to back.
func WithWriteDelay(d time.Duration) Option {
	return func(c *Controller) { c.writeDelay = d }
}

// WithAR488 alters the init sequence for compatibility with the
// Arduino-based AR488: verbosity is left alone and savecfg is never
// toggled, since the AR488 stores nothing in EEPROM by default.
func WithAR488() Option { return func(c *Controller) { c.ar488 = true } }

// NewController creates a GPIB controller-in-charge talking to the
// instrument at the given primary address. Enable clear to send the
// Selected Device Clear (SDC) message to the address during setup.
func NewController(rw io.ReadWriter, addr int, clear bool, opts ...Option) (*Controller, error) {
	c := Controller{
		rw:      rw,
		r:       bufio.NewReader(rw),
		usbTerm: '\n',
		eotChar: '\n',
	}
	c.primaryAddr = addr
	for _, opt := range opts {
		opt(&c)
	}

	if c.primaryAddr < 0 || c.primaryAddr > 30 {
		return nil, fmt.Errorf("invalid primary address %d (must be 0-30)", c.primaryAddr)
	}
	addrCmd := fmt.Sprintf("addr %d", c.primaryAddr)
	if c.hasSecondaryAddr {
		if c.secondaryAddr < 96 || c.secondaryAddr > 126 {
			return nil, fmt.Errorf("invalid secondary address %d (must be 96-126)", c.secondaryAddr)
		}
		addrCmd = fmt.Sprintf("addr %d %d", c.primaryAddr, c.secondaryAddr)
	}

	var cmds []string
	if !c.ar488 {
		cmds = append(cmds,
			"verbose 0", // turn off verbosity if on
			"savecfg 0", // stop wearing out the EPROM while we configure
		)
	}
	cmds = append(cmds,
		addrCmd,
		"mode 1",          // controller mode
		"auto 0",          // no read-after-write; we issue ++read ourselves
		"eoi 1",           // assert EOI with the last character
		"eos 0",           // GPIB termination
		"read_tmo_ms 500", // read timeout
		fmt.Sprintf("eot_char %d", c.eotChar),
		"eot_enable 1", // append eot_char when EOI detected
	)
	if !c.ar488 {
		cmds = append(cmds, "savecfg 1")
	}
	if clear {
		cmds = append(cmds, "clr")
	}
	for _, cmd := range cmds {
		if err := c.CommandController(cmd); err != nil {
			return nil, err
		}
	}
	return &c, nil
}

// Write writes the given data to the instrument at the currently
// assigned GPIB address.
func (c *Controller) Write(p []byte) (n int, err error) {
	return c.rw.Write(p)
}

// Read reads from the instrument at the currently assigned GPIB address
// into the given byte slice.
func (c *Controller) Read(p []byte) (n int, err error) {
	return c.r.Read(p)
}

// Command formats according to a format specifier if arguments are
// given and sends a SCPI/ASCII command to the instrument at the
// currently assigned GPIB address. Leading and trailing whitespace is
// trimmed before the USB terminator is appended.
func (c *Controller) Command(format string, a ...any) error {
	cmd := format
	if len(a) > 0 {
		cmd = fmt.Sprintf(format, a...)
	}
	cmd = fmt.Sprintf("%s%c", strings.TrimSpace(cmd), c.usbTerm)
	if c.Debug {
		log.Printf("gpib cmd %q", cmd)
	}
	_, err := fmt.Fprint(c.rw, cmd)
	return err
}

// Query sends the given SCPI/ASCII command to the instrument at the
// currently assigned GPIB address and reads its response up to and
// including the EOT character. Since read-after-write is disabled at
// setup, the controller is told to read with ++read eoi after the
// command is sent.
func (c *Controller) Query(cmd string) (string, error) {
	cmd = fmt.Sprintf("%s%c", strings.TrimSpace(cmd), c.usbTerm)
	if c.Debug {
		log.Printf("gpib query %q", cmd)
	}
	if _, err := fmt.Fprint(c.rw, cmd); err != nil {
		return "", fmt.Errorf("error writing command: %w", err)
	}
	if !c.auto {
		if err := c.CommandController("read eoi"); err != nil {
			return "", fmt.Errorf("error sending `++read eoi`: %w", err)
		}
	}
	s, err := c.r.ReadString(c.eotChar)
	if err == io.EOF {
		// EOT char never arrived; return what the timeout produced.
		return s, nil
	}
	return s, err
}

// MustQuery is Query except any error is fatal. Intended for
// bring-up programs, not libraries.
func (c *Controller) MustQuery(cmd string) string {
	s, err := c.Query(cmd)
	if err != nil {
		log.Fatalf("query %q: %s", cmd, err)
	}
	return s
}

// CommandController sends the given command to the Prologix controller
// itself. Two plus signs are prepended so the adapter consumes the
// command instead of forwarding it over GPIB.
func (c *Controller) CommandController(cmd string) error {
	if c.writeDelay > 0 {
		time.Sleep(c.writeDelay)
	}
	cmd = fmt.Sprintf("++%s%c", strings.ToLower(strings.TrimSpace(cmd)), c.usbTerm)
	if c.Debug {
		log.Printf("gpib ctrl cmd %q", cmd)
	}
	_, err := c.rw.Write([]byte(cmd))
	return err
}

// QueryController sends the given command to the Prologix controller
// itself and returns its response as a string.
func (c *Controller) QueryController(cmd string) (string, error) {
	if err := c.CommandController(cmd); err != nil {
		return "", err
	}
	s, err := c.r.ReadString(c.eotChar)
	if c.Debug {
		log.Printf("gpib ctrl read %q", s)
	}
	return s, err
}

// Version returns the controller's firmware version string.
func (c *Controller) Version() (string, error) {
	s, err := c.QueryController("ver")
	return strings.TrimSpace(s), err
}

// InstrumentAddress returns the GPIB primary address and, if set, the
// secondary address the controller is currently addressing. A
// secondary address of -1 means none is set.
func (c *Controller) InstrumentAddress() (pad, sad int, err error) {
	s, err := c.QueryController("addr")
	if err != nil {
		return 0, -1, err
	}
	fields := strings.Fields(s)
	if len(fields) == 0 {
		return 0, -1, fmt.Errorf("empty addr response")
	}
	pad, err = strconv.Atoi(fields[0])
	if err != nil {
		return 0, -1, fmt.Errorf("bad addr response %q: %w", s, err)
	}
	sad = -1
	if len(fields) > 1 {
		sad, err = strconv.Atoi(fields[1])
		if err != nil {
			return pad, -1, fmt.Errorf("bad addr response %q: %w", s, err)
		}
	}
	return pad, sad, nil
}

// ReadAfterWrite reports whether the controller automatically addresses
// the instrument to talk after each write.
func (c *Controller) ReadAfterWrite() (bool, error) {
	s, err := c.QueryController("auto")
	if err != nil {
		return false, err
	}
	return strings.TrimSpace(s) == "1", nil
}

// ReadTimeout returns the controller's read timeout in milliseconds.
func (c *Controller) ReadTimeout() (int, error) {
	s, err := c.QueryController("read_tmo_ms")
	if err != nil {
		return 0, err
	}
	return strconv.Atoi(strings.TrimSpace(s))
}

// ServiceRequest reports whether the GPIB SRQ line is asserted.
func (c *Controller) ServiceRequest() (bool, error) {
	s, err := c.QueryController("srq")
	if err != nil {
		return false, err
	}
	return strings.TrimSpace(s) == "1", nil
}

// ClearDevice sends the Selected Device Clear (SDC) message to the
// currently addressed instrument.
func (c *Controller) ClearDevice() error {
	return c.CommandController("clr")
}

// FrontPanel returns the instrument to local front panel control when
// local is true, or asserts remote control when false.
func (c *Controller) FrontPanel(local bool) error {
	if local {
		return c.CommandController("loc")
	}
	return c.CommandController("llo")
}

// Term is a GPIB termination appended by the controller to instrument
// commands.
type Term int

// Available GPIB terminations.
const (
	AppendCRLF Term = iota
	AppendCR
	AppendLF
	AppendNothing
)

var termDesc = map[Term]string{
	AppendCRLF:    `Append CR+LF (\r\n) to instrument commands`,
	AppendCR:      `Append CR (\r) to instrument commands`,
	AppendLF:      `Append LF (\n) to instrument commands`,
	AppendNothing: `Do not append anything to instrument commands`,
}

func (t Term) String() string { return termDesc[t] }

// Termination returns the GPIB termination currently appended to
// instrument commands.
func (c *Controller) Termination() (Term, error) {
	s, err := c.QueryController("eos")
	if err != nil {
		return AppendCRLF, err
	}
	n, err := strconv.Atoi(strings.TrimSpace(s))
	if err != nil || n < 0 || n > 3 {
		return AppendCRLF, fmt.Errorf("bad eos response %q", s)
	}
	return Term(n), nil
}

// SetTermination sets the GPIB termination appended to instrument
// commands.
func (c *Controller) SetTermination(t Term) error {
	if t < AppendCRLF || t > AppendNothing {
		return fmt.Errorf("invalid termination %d", t)
	}
	return c.CommandController(fmt.Sprintf("eos %d", t))
}
