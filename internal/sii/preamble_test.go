package sii

import (
	"bytes"
	"fmt"
	"testing"
)

// captureLogger collects codec diagnostics for assertions.
type captureLogger struct {
	errors []string
	infos  []string
}

func (l *captureLogger) Error(format string, v ...interface{}) {
	l.errors = append(l.errors, fmt.Sprintf(format, v...))
}

func (l *captureLogger) Info(format string, v ...interface{}) {
	l.infos = append(l.infos, fmt.Sprintf(format, v...))
}

func TestPreambleEncodeAlias(t *testing.T) {
	p := Preamble{Alias: 0x0001}
	got := p.Encode()

	if len(got) != PreambleSize {
		t.Fatalf("Encode() length = %d, want %d", len(got), PreambleSize)
	}
	if got[8] != 0x01 || got[9] != 0x00 {
		t.Errorf("alias bytes = %02X %02X, want 01 00", got[8], got[9])
	}
	// Checksum over the first 14 bytes, widened to 16 bits.
	if got[14] != 0x19 || got[15] != 0x00 {
		t.Errorf("checksum bytes = %02X %02X, want 19 00", got[14], got[15])
	}

	back := decodePreamble(got, NopLogger{})
	if back.Alias != 1 {
		t.Errorf("decoded alias = %d, want 1", back.Alias)
	}
	if back.Checksum != 0x19 {
		t.Errorf("decoded checksum = 0x%04X, want 0x19", back.Checksum)
	}
}

func TestPreambleRoundTrip(t *testing.T) {
	p := Preamble{
		PDICtrl:     0x0605,
		PDIConf:     0x0003,
		SyncImpulse: 0x1000,
		PDIConf2:    0x0040,
		Alias:       0x1234,
		Reserved:    0,
	}
	encoded := p.Encode()
	back := decodePreamble(encoded, NopLogger{})
	if !bytes.Equal(back.Encode(), encoded) {
		t.Errorf("re-encode = %v, want %v", back.Encode(), encoded)
	}
}

func TestPreambleChecksumMismatchNonFatal(t *testing.T) {
	data := make([]byte, PreambleSize)
	data[8] = 0x01 // alias=1
	data[14] = 0x77 // wrong checksum

	var log captureLogger
	p := decodePreamble(data, &log)

	if len(log.errors) != 1 {
		t.Fatalf("got %d diagnostics, want 1: %v", len(log.errors), log.errors)
	}
	// Stored value kept as parsed, not corrected.
	if p.Checksum != 0x77 {
		t.Errorf("Checksum = 0x%04X, want 0x77", p.Checksum)
	}
	if p.Alias != 1 {
		t.Errorf("Alias = %d, want 1", p.Alias)
	}
}

func TestPreambleEncodeRecomputesChecksum(t *testing.T) {
	p := decodePreamble(make([]byte, PreambleSize), NopLogger{})
	p.Alias = 5
	encoded := p.Encode()
	want := CRC8(encoded[:14])
	if encoded[14] != want {
		t.Errorf("checksum = 0x%02X, want recomputed 0x%02X", encoded[14], want)
	}
}
