// Copyright (c) 2024–2026 The t3awg developers. All rights reserved.
// Project site: https://github.com/gotmc/t3awg
// Use of this source code is governed by a MIT-style license that
// can be found in the LICENSE.txt file for the project.

package gpib

import (
	"bytes"
	"strings"
	"testing"

	"github.com/gotmc/t3awg"
)

var _ t3awg.Transport = (*Controller)(nil)

// fakeRW plays the adapter: writes land in out, reads drain in.
type fakeRW struct {
	in  bytes.Buffer
	out bytes.Buffer
}

func (f *fakeRW) Read(p []byte) (int, error)  { return f.in.Read(p) }
func (f *fakeRW) Write(p []byte) (int, error) { return f.out.Write(p) }

func TestNewControllerInit(t *testing.T) {
	rw := &fakeRW{}
	_, err := NewController(rw, 6, false)
	if err != nil {
		t.Fatalf("NewController: %s", err)
	}
	got := rw.out.String()
	want := "++verbose 0\n" +
		"++savecfg 0\n" +
		"++addr 6\n" +
		"++mode 1\n" +
		"++auto 0\n" +
		"++eoi 1\n" +
		"++eos 0\n" +
		"++read_tmo_ms 500\n" +
		"++eot_char 10\n" +
		"++eot_enable 1\n" +
		"++savecfg 1\n"
	if got != want {
		t.Errorf("init sequence = %q, want %q", got, want)
	}
}

func TestNewControllerAR488(t *testing.T) {
	rw := &fakeRW{}
	_, err := NewController(rw, 4, true, WithAR488())
	if err != nil {
		t.Fatalf("NewController: %s", err)
	}
	got := rw.out.String()
	for _, banned := range []string{"verbose", "savecfg"} {
		if strings.Contains(got, banned) {
			t.Errorf("AR488 init must not contain %q: %q", banned, got)
		}
	}
	if !strings.HasSuffix(got, "++clr\n") {
		t.Errorf("clear requested but init = %q", got)
	}
}

func TestNewControllerSecondaryAddress(t *testing.T) {
	rw := &fakeRW{}
	_, err := NewController(rw, 6, false, WithSecondaryAddress(101))
	if err != nil {
		t.Fatalf("NewController: %s", err)
	}
	if !strings.Contains(rw.out.String(), "++addr 6 101\n") {
		t.Errorf("init sequence = %q, missing secondary address", rw.out.String())
	}
}

func TestNewControllerBadAddress(t *testing.T) {
	if _, err := NewController(&fakeRW{}, 31, false); err == nil {
		t.Error("primary address 31 accepted")
	}
	if _, err := NewController(&fakeRW{}, -1, false); err == nil {
		t.Error("primary address -1 accepted")
	}
	if _, err := NewController(&fakeRW{}, 6, false, WithSecondaryAddress(95)); err == nil {
		t.Error("secondary address 95 accepted")
	}
}

func TestCommand(t *testing.T) {
	rw := &fakeRW{}
	c, err := NewController(rw, 6, false)
	if err != nil {
		t.Fatal(err)
	}
	rw.out.Reset()
	if err := c.Command("OUTPut%d:STATe %s", 1, "ON"); err != nil {
		t.Fatal(err)
	}
	if got := rw.out.String(); got != "OUTPut1:STATe ON\n" {
		t.Errorf("wrote %q", got)
	}
}

func TestQuery(t *testing.T) {
	rw := &fakeRW{}
	c, err := NewController(rw, 6, false)
	if err != nil {
		t.Fatal(err)
	}
	rw.out.Reset()
	rw.in.WriteString("1\n")

	s, err := c.Query("*OPC?")
	if err != nil {
		t.Fatalf("Query: %s", err)
	}
	if s != "1\n" {
		t.Errorf("Query = %q, want %q", s, "1\n")
	}
	// With read-after-write off the controller must be told to read.
	if got := rw.out.String(); got != "*OPC?\n++read eoi\n" {
		t.Errorf("wrote %q", got)
	}
}

func TestQueryKeepsBufferedData(t *testing.T) {
	rw := &fakeRW{}
	c, err := NewController(rw, 6, false)
	if err != nil {
		t.Fatal(err)
	}
	// Two responses arrive in one read burst; the second must survive
	// for the second query.
	rw.in.WriteString("2.5E+09\n1\n")
	if s, _ := c.Query("AWGControl:SRATe?"); s != "2.5E+09\n" {
		t.Errorf("first query = %q", s)
	}
	if s, _ := c.Query("*OPC?"); s != "1\n" {
		t.Errorf("second query = %q", s)
	}
}

func TestVersion(t *testing.T) {
	rw := &fakeRW{}
	c, err := NewController(rw, 6, false)
	if err != nil {
		t.Fatal(err)
	}
	rw.out.Reset()
	rw.in.WriteString("Prologix GPIB-USB Controller version 6.107\n")
	ver, err := c.Version()
	if err != nil {
		t.Fatal(err)
	}
	if want := "Prologix GPIB-USB Controller version 6.107"; ver != want {
		t.Errorf("Version = %q, want %q", ver, want)
	}
	if got := rw.out.String(); got != "++ver\n" {
		t.Errorf("wrote %q", got)
	}
}

func TestInstrumentAddress(t *testing.T) {
	rw := &fakeRW{}
	c, err := NewController(rw, 6, false)
	if err != nil {
		t.Fatal(err)
	}
	rw.in.WriteString("6 101\n")
	pad, sad, err := c.InstrumentAddress()
	if err != nil {
		t.Fatal(err)
	}
	if pad != 6 || sad != 101 {
		t.Errorf("InstrumentAddress = %d:%d, want 6:101", pad, sad)
	}

	rw.in.WriteString("15\n")
	pad, sad, err = c.InstrumentAddress()
	if err != nil {
		t.Fatal(err)
	}
	if pad != 15 || sad != -1 {
		t.Errorf("InstrumentAddress = %d:%d, want 15:-1", pad, sad)
	}
}

func TestTermination(t *testing.T) {
	rw := &fakeRW{}
	c, err := NewController(rw, 6, false)
	if err != nil {
		t.Fatal(err)
	}
	rw.in.WriteString("2\n")
	term, err := c.Termination()
	if err != nil {
		t.Fatal(err)
	}
	if term != AppendLF {
		t.Errorf("Termination = %v, want AppendLF", term)
	}

	rw.out.Reset()
	if err := c.SetTermination(AppendCR); err != nil {
		t.Fatal(err)
	}
	if got := rw.out.String(); got != "++eos 1\n" {
		t.Errorf("wrote %q", got)
	}
	if err := c.SetTermination(Term(9)); err == nil {
		t.Error("invalid termination accepted")
	}
}

func TestControllerStatusQueries(t *testing.T) {
	rw := &fakeRW{}
	c, err := NewController(rw, 6, false)
	if err != nil {
		t.Fatal(err)
	}
	rw.in.WriteString("0\n")
	auto, err := c.ReadAfterWrite()
	if err != nil || auto {
		t.Errorf("ReadAfterWrite = %t, %v; want false, nil", auto, err)
	}

	rw.in.WriteString("500\n")
	tmo, err := c.ReadTimeout()
	if err != nil || tmo != 500 {
		t.Errorf("ReadTimeout = %d, %v; want 500, nil", tmo, err)
	}

	rw.in.WriteString("1\n")
	srq, err := c.ServiceRequest()
	if err != nil || !srq {
		t.Errorf("ServiceRequest = %t, %v; want true, nil", srq, err)
	}
}
