// Package find locates USB serial devices, such as a Prologix GPIB-USB
// controller, by scanning /sys/class/tty.
package find

import (
	"errors"
	"fmt"
	"io/fs"
	"log"
	"os"
	"path/filepath"
	"strings"
)

// FilterFn reports whether a tty is the device being searched for.
type FilterFn func(*Usbtty) bool

// PrologixFilter matches Prologix GPIB-USB controllers.
func PrologixFilter(ut *Usbtty) bool {
	return strings.Contains(ut.Mfg, "Prologix") ||
		strings.Contains(ut.Prod, "GPIB")
}

// ArduinoFilter matches Arduino boards, e.g. an AR488 adapter.
func ArduinoFilter(ut *Usbtty) bool {
	return strings.Contains(ut.Mfg, "Arduino")
}

// SerialFilter matches the device with the given USB serial number.
func SerialFilter(s string) FilterFn {
	return func(ut *Usbtty) bool { return ut.Serial == s }
}

// Usbtty describes one USB serial device.
type Usbtty struct {
	Dev, Path string
	IDp, IDv  string
	Mfg, Prod string
	Serial    string
}

func (u Usbtty) String() string {
	return fmt.Sprintf("dev %s path %s pid/vid %s/%s mfg/prod %s/%s serial %s",
		u.Dev, u.Path, u.IDp, u.IDv, u.Mfg, u.Prod, u.Serial)
}

// Usbttys is a list of USB serial devices.
type Usbttys []Usbtty

func (uts Usbttys) String() string {
	s := make([]string, 0, len(uts))
	for _, ut := range uts {
		s = append(s, ut.String())
	}
	return strings.Join(s, "\n")
}

// Find searches the system for a USB serial device. If filter is not
// nil, the first device it accepts is chosen; with a nil filter exactly
// one device must be present.
func Find(filter FilterFn) (string, error) {
	ttys, err := AllUsbTtys()
	if err != nil {
		return "", err
	}
	return Match(ttys, filter)
}

// Match applies filter to ttys and returns the chosen device name. It
// fails when nothing matches, or when no filter is given and the choice
// is ambiguous.
func Match(ttys Usbttys, filter FilterFn) (string, error) {
	if filter != nil {
		for i := range ttys {
			if filter(&ttys[i]) {
				return ttys[i].Dev, nil
			}
		}
		return "", fmt.Errorf("no matching ttys among %d candidates", len(ttys))
	}
	switch len(ttys) {
	case 0:
		return "", fmt.Errorf("no ttys found")
	case 1:
		return ttys[0].Dev, nil
	}
	return "", fmt.Errorf("multiple ttys: %s", ttys)
}

// AllUsbTtys lists the ttys backed by USB devices, by following the
// /sys/class/tty symlinks into /sys/devices.
func AllUsbTtys() (Usbttys, error) {
	var devs Usbttys
	sct := "/sys/class/tty/"
	entries, err := os.ReadDir(sct)
	if err != nil {
		return nil, err
	}
	for _, e := range entries {
		if e.Type()&fs.ModeSymlink == 0 {
			continue
		}
		// A symlink like /sys/class/tty/ttyACM0 ->
		// /sys/devices/.../usb1/1-10/1-10:1.0/tty/ttyACM0
		path := filepath.Join(sct, e.Name())
		abs, err := filepath.EvalSymlinks(path)
		if err != nil {
			log.Printf("error evaluating symlink %s; skipping: %s", path, err)
			continue
		}
		if !strings.Contains(abs, "usb") {
			continue
		}
		dev, err := filepath.EvalSymlinks(filepath.Join(abs, "device"))
		if err != nil {
			log.Printf("usb tty lacking device subdir?! %s %s", abs, err)
			continue
		}
		// The interface dir (1-10:1.0) holds nothing of interest; the
		// descriptor files live one level up on the device itself.
		ut, err := readUsbInfo(filepath.Dir(dev))
		if err != nil {
			log.Printf("%s: %s", abs, err)
		}
		ut.Dev = e.Name()
		ut.Path = abs
		devs = append(devs, ut)
	}
	return devs, nil
}

// readUsbInfo reads the product and vendor ids plus the manufacturer,
// product, and serial strings from a USB device's /sys directory.
//
// The last error encountered is returned, ignoring os.ErrNotExist:
// many devices omit some descriptor files, and a partial record is
// still useful for matching.
func readUsbInfo(dev string) (Usbtty, error) {
	var ut Usbtty
	var err error
	read := func(name string) string {
		b, rerr := os.ReadFile(filepath.Join(dev, name))
		if rerr != nil && !errors.Is(rerr, os.ErrNotExist) {
			err = rerr
		}
		return strings.TrimSpace(string(b))
	}
	ut.IDp = read("idProduct")
	ut.IDv = read("idVendor")
	ut.Mfg = read("manufacturer")
	ut.Prod = read("product")
	ut.Serial = read("serial")
	return ut, err
}
