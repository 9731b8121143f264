// Package block implements the IEEE 488.2 definite length arbitrary
// block format used by SCPI instruments for bulk data transfer.
//
// A block is the byte '#', one digit giving the length of the decimal
// length field, the payload length in decimal, then the raw payload:
//
//	#<digit count><length><payload>
//
// so a five byte payload renders as #15xxxxx.
package block

import (
	"fmt"
	"strconv"
)

// Encode renders p as a definite length block. The payload is copied,
// never escaped: block data is eight-bit clean.
func Encode(p []byte) []byte {
	n := strconv.Itoa(len(p))
	b := make([]byte, 0, len(p)+len(n)+2)
	b = append(b, '#')
	b = append(b, byte('0'+len(n)))
	b = append(b, n...)
	return append(b, p...)
}

// Decode parses a definite length block at the start of b, returning
// the payload and any trailing bytes, such as a terminator appended by
// the instrument.
func Decode(b []byte) (payload, rest []byte, err error) {
	if len(b) < 2 {
		return nil, nil, fmt.Errorf("block: short header, %d bytes", len(b))
	}
	if b[0] != '#' {
		return nil, nil, fmt.Errorf("block: want leading #, got %q", b[0])
	}
	digits := int(b[1] - '0')
	if digits < 1 || digits > 9 {
		return nil, nil, fmt.Errorf("block: bad digit count %q", b[1])
	}
	if len(b) < 2+digits {
		return nil, nil, fmt.Errorf("block: truncated length field")
	}
	n, err := strconv.Atoi(string(b[2 : 2+digits]))
	if err != nil {
		return nil, nil, fmt.Errorf("block: bad length field: %w", err)
	}
	body := b[2+digits:]
	if len(body) < n {
		return nil, nil, fmt.Errorf("block: payload truncated, want %d bytes got %d", n, len(body))
	}
	return body[:n], body[n:], nil
}
