package capture

import (
	"bytes"
	"encoding/binary"
	"testing"
)

// buildFrame assembles an EtherCAT frame payload from datagrams.
func buildFrame(t *testing.T, dgs ...datagram) []byte {
	t.Helper()
	var body []byte
	for i, dg := range dgs {
		lenWord := uint16(len(dg.Data))
		if i < len(dgs)-1 {
			lenWord |= 1 << 15
		}
		hdr := make([]byte, datagramHeaderLen)
		hdr[0] = dg.Command
		hdr[1] = dg.Index
		binary.LittleEndian.PutUint32(hdr[2:], uint32(dg.Station)|uint32(dg.Register)<<16)
		binary.LittleEndian.PutUint16(hdr[6:], lenWord)
		body = append(body, hdr...)
		body = append(body, dg.Data...)
		body = binary.LittleEndian.AppendUint16(body, dg.Wkc)
	}
	frame := binary.LittleEndian.AppendUint16(nil, uint16(len(body))|1<<12)
	return append(frame, body...)
}

func addrWrite(station uint16, word uint32, wkc uint16) datagram {
	return datagram{
		Command:  cmdFPWR,
		Station:  station,
		Register: regEEPROMAddress,
		Data:     binary.LittleEndian.AppendUint32(nil, word),
		Wkc:      wkc,
	}
}

func dataRead(station uint16, data []byte, wkc uint16) datagram {
	return datagram{
		Command:  cmdFPRD,
		Station:  station,
		Register: regEEPROMData,
		Data:     data,
		Wkc:      wkc,
	}
}

func TestScannerReconstructsImage(t *testing.T) {
	s := NewScanner()

	feeds := [][]byte{
		buildFrame(t, addrWrite(1, 0, 1)),
		buildFrame(t, dataRead(1, []byte{0x05, 0x06, 0x01, 0x00}, 1)),
		buildFrame(t, addrWrite(1, 2, 1)),
		buildFrame(t, dataRead(1, []byte{0x02, 0x00, 0x03, 0x00}, 1)),
	}
	for _, f := range feeds {
		if err := s.Feed(f); err != nil {
			t.Fatalf("Feed() error: %v", err)
		}
	}

	img, ok := s.Image(1)
	if !ok {
		t.Fatal("Image(1) found nothing")
	}
	want := []byte{0x05, 0x06, 0x01, 0x00, 0x02, 0x00, 0x03, 0x00}
	if !bytes.Equal(img, want) {
		t.Errorf("image = % x, want % x", img, want)
	}
}

func TestScannerIgnoresUnacked(t *testing.T) {
	s := NewScanner()
	s.Feed(buildFrame(t, addrWrite(1, 0, 0)))
	s.Feed(buildFrame(t, dataRead(1, []byte{0xAA, 0xBB}, 1)))
	if _, ok := s.Image(1); ok {
		t.Error("read without an acked address write should be dropped")
	}
}

func TestScannerControlWordAddressWrite(t *testing.T) {
	s := NewScanner()
	// Address written through a datagram starting at the control word.
	write := datagram{
		Command:  cmdFPWR,
		Station:  3,
		Register: regEEPROMControl,
		Data:     []byte{0x00, 0x01, 0x04, 0x00, 0x00, 0x00},
		Wkc:      1,
	}
	s.Feed(buildFrame(t, write))
	s.Feed(buildFrame(t, dataRead(3, []byte{0x11, 0x22}, 1)))

	img, ok := s.Image(3)
	if !ok {
		t.Fatal("Image(3) found nothing")
	}
	want := make([]byte, 10)
	for i := range want {
		want[i] = 0xFF
	}
	want[8], want[9] = 0x11, 0x22
	if !bytes.Equal(img, want) {
		t.Errorf("image = % x, want % x", img, want)
	}
}

func TestScannerMultiDatagramFrame(t *testing.T) {
	s := NewScanner()
	frame := buildFrame(t,
		addrWrite(1, 0, 1),
		dataRead(1, []byte{0x05, 0x06}, 1),
	)
	if err := s.Feed(frame); err != nil {
		t.Fatalf("Feed() error: %v", err)
	}
	img, ok := s.Image(1)
	if !ok || !bytes.Equal(img, []byte{0x05, 0x06}) {
		t.Errorf("image = % x, ok = %v", img, ok)
	}
	if got := s.Stations(); len(got) != 1 || got[0] != 1 {
		t.Errorf("Stations() = %v", got)
	}
}

func TestScannerRejectsTruncatedFrame(t *testing.T) {
	frame := buildFrame(t, addrWrite(1, 0, 1))
	if err := NewScanner().Feed(frame[:6]); err == nil {
		t.Error("Feed() should fail on a truncated frame")
	}
}

func TestParseFrameSkipsNonCommandType(t *testing.T) {
	payload := binary.LittleEndian.AppendUint16(nil, 0|4<<12)
	dgs, err := parseFrame(payload)
	if err != nil || dgs != nil {
		t.Errorf("parseFrame() = %v, %v; want nil, nil", dgs, err)
	}
}
