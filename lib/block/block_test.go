package block

import (
	"bytes"
	"strings"
	"testing"
)

func TestEncode(t *testing.T) {
	tests := []struct {
		name    string
		payload string
		want    string
	}{
		{"empty", "", "#10"},
		{"five bytes", "hello", "#15hello"},
		{"ten bytes", "0123456789", "#2100123456789"},
		{"crlf samples", "0\r\n1\r\n100", "#190\r\n1\r\n100"},
		{"hundred bytes", strings.Repeat("x", 100), "#3100" + strings.Repeat("x", 100)},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := Encode([]byte(tt.payload))
			if string(got) != tt.want {
				t.Errorf("Encode(%q) = %q, want %q", tt.payload, got, tt.want)
			}
		})
	}
}

func TestRoundTrip(t *testing.T) {
	payloads := []string{"", "a", "0\r\n1\r\n0\r\n1\r\n100", strings.Repeat("s", 12345)}
	for _, p := range payloads {
		got, rest, err := Decode(Encode([]byte(p)))
		if err != nil {
			t.Fatalf("Decode(Encode(%d bytes)): %s", len(p), err)
		}
		if !bytes.Equal(got, []byte(p)) {
			t.Errorf("round trip of %d bytes lost data", len(p))
		}
		if len(rest) != 0 {
			t.Errorf("unexpected trailing bytes %q", rest)
		}
	}
}

func TestDecodeTrailing(t *testing.T) {
	b := append(Encode([]byte("abc")), '\n')
	payload, rest, err := Decode(b)
	if err != nil {
		t.Fatal(err)
	}
	if string(payload) != "abc" {
		t.Errorf("payload = %q, want %q", payload, "abc")
	}
	if string(rest) != "\n" {
		t.Errorf("rest = %q, want newline", rest)
	}
}

func TestDecodeErrors(t *testing.T) {
	tests := []struct {
		name string
		in   string
	}{
		{"empty", ""},
		{"short", "#"},
		{"no hash", "15hello"},
		{"zero digit count", "#0"},
		{"non-digit count", "#x5"},
		{"truncated length", "#3 12"},
		{"truncated payload", "#15hel"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if _, _, err := Decode([]byte(tt.in)); err == nil {
				t.Errorf("Decode(%q) accepted malformed block", tt.in)
			}
		})
	}
}
