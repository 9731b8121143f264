// Package connutil wires up the flags and the serial plumbing shared by
// the example programs: locate the GPIB adapter's tty, open it, and
// construct a controller.
package connutil

import (
	"flag"
	"fmt"
	"io"
	"log"
	"time"

	"github.com/soypat/cereal"
	"go.uber.org/multierr"

	"github.com/gotmc/t3awg/gpib"
	"github.com/gotmc/t3awg/gpib/vcp"
	"github.com/gotmc/t3awg/lib/find"
)

// Conn holds the connection settings for a GPIB-attached instrument.
type Conn struct {
	SerialPort string
	Driver     string // serial stack: "cereal" or "vcp"
	GpibPAD    int
	GpibSAD    int
	Delay      time.Duration
	Debug      bool

	tty     string
	finderr error
}

// AddFlags registers the connection flags. Call before flag.Parse.
func (c *Conn) AddFlags() {
	c.tty, c.finderr = find.Find(find.PrologixFilter)
	if c.finderr != nil {
		c.tty = "ttyUSB0"
	}

	if c.GpibPAD == 0 {
		c.GpibPAD = 10
	}
	if c.GpibSAD == 0 {
		c.GpibSAD = 0xff
	}
	if c.Delay == 0 {
		c.Delay = 100 * time.Millisecond
	}

	flag.StringVar(&c.SerialPort, "port", "/dev/"+c.tty,
		"Serial port for the GPIB controller")
	flag.StringVar(&c.Driver, "driver", "cereal",
		"serial stack to use: cereal or vcp")
	flag.IntVar(&c.GpibPAD, "pad", c.GpibPAD, "GPIB primary address for the device")
	flag.IntVar(&c.GpibSAD, "sad", c.GpibSAD, "GPIB secondary address for the device (255 = none)")
	flag.DurationVar(&c.Delay, "delay", c.Delay, "delay between controller writes")
	flag.BoolVar(&c.Debug, "debug", c.Debug, "log GPIB traffic")
}

// Setup opens the serial port and constructs the GPIB controller. Call
// after flag.Parse. The returned cleanup restores front panel control
// and closes the port.
func (c *Conn) Setup(opts []gpib.Option) (ctrl *gpib.Controller, cleanup func() error, err error) {
	nocleanup := func() error { return nil }

	if c.finderr != nil && c.SerialPort == "/dev/ttyUSB0" {
		// Only worth mentioning when the guess was not overridden.
		log.Printf("locating serial port failed, guessing: %s", c.finderr)
	}
	log.Printf("Serial port = %s", c.SerialPort)

	var port io.ReadWriteCloser
	switch c.Driver {
	case "vcp":
		port, err = vcp.NewVCP(c.SerialPort)
	case "cereal":
		cimpl := cereal.Tarm{}
		port, err = cimpl.OpenPort(c.SerialPort, cereal.Mode{
			BaudRate:    115200,
			ReadTimeout: 30 * time.Second,
		})
	default:
		err = fmt.Errorf("unknown serial driver %q", c.Driver)
	}
	if err != nil {
		return nil, nocleanup, err
	}

	if c.Delay > 0 {
		opts = append(opts, gpib.WithWriteDelay(c.Delay))
	}
	if c.GpibSAD != 0xff {
		opts = append(opts, gpib.WithSecondaryAddress(c.GpibSAD))
	}
	if c.Debug {
		opts = append(opts, gpib.WithDebug())
	}

	ctrl, err = gpib.NewController(port, c.GpibPAD, false, opts...)
	if err != nil {
		port.Close()
		return nil, nocleanup, err
	}

	cleanup = func() error {
		err := ctrl.FrontPanel(true)
		if fl, ok := port.(interface{ Flush() error }); ok {
			err = multierr.Append(err, fl.Flush())
		}
		return multierr.Append(err, port.Close())
	}
	return ctrl, cleanup, nil
}
