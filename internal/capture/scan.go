package capture

import (
	"fmt"
	"os"
	"sort"

	"github.com/google/gopacket"
	"github.com/google/gopacket/layers"
	"github.com/google/gopacket/pcapgo"
)

// ESC register offsets of the EEPROM interface.
const (
	regEEPROMControl = 0x0502
	regEEPROMAddress = 0x0504
	regEEPROMData    = 0x0508
	eepromDataLen    = 8 // ESCs expose at most 8 data bytes
)

type slaveState struct {
	pendingWord uint32
	havePending bool
	bytes       map[uint32][]byte // byte offset -> chunk
}

// Scanner accumulates EEPROM reads per station address.
type Scanner struct {
	slaves map[uint16]*slaveState
}

// NewScanner returns an empty Scanner.
func NewScanner() *Scanner {
	return &Scanner{slaves: make(map[uint16]*slaveState)}
}

func (s *Scanner) slave(station uint16) *slaveState {
	st, ok := s.slaves[station]
	if !ok {
		st = &slaveState{bytes: make(map[uint32][]byte)}
		s.slaves[station] = st
	}
	return st
}

// Feed scans the payload of one EtherCAT Ethernet frame. Malformed
// frames are reported but leave already collected data intact.
func (s *Scanner) Feed(payload []byte) error {
	dgs, err := parseFrame(payload)
	if err != nil {
		return err
	}
	for _, dg := range dgs {
		if !dg.acked() {
			continue
		}
		switch dg.Command {
		case cmdFPWR:
			s.noteWrite(dg)
		case cmdFPRD, cmdFPRW:
			s.noteRead(dg)
		}
	}
	return nil
}

// noteWrite tracks EEPROM address register writes. Masters either
// write 0x0504 directly or start at the control word 0x0502 with the
// address in the same datagram.
func (s *Scanner) noteWrite(dg datagram) {
	addrOff := -1
	switch {
	case dg.Register == regEEPROMAddress && len(dg.Data) >= 2:
		addrOff = 0
	case dg.Register == regEEPROMControl && len(dg.Data) >= 4:
		addrOff = regEEPROMAddress - regEEPROMControl
	default:
		return
	}

	word := uint32(dg.Data[addrOff]) | uint32(dg.Data[addrOff+1])<<8
	if len(dg.Data) >= addrOff+4 {
		word |= uint32(dg.Data[addrOff+2])<<16 | uint32(dg.Data[addrOff+3])<<24
	}
	st := s.slave(dg.Station)
	st.pendingWord = word
	st.havePending = true
}

// noteRead stores data register reads against the last address written
// to the same station.
func (s *Scanner) noteRead(dg datagram) {
	st, ok := s.slaves[dg.Station]
	if !ok || !st.havePending {
		return
	}

	first := int(dg.Register)
	last := first + len(dg.Data)
	if first > regEEPROMData || last <= regEEPROMData {
		return
	}

	data := dg.Data[regEEPROMData-first:]
	if len(data) > eepromDataLen {
		data = data[:eepromDataLen]
	}
	st.bytes[st.pendingWord*2] = append([]byte(nil), data...)
	st.havePending = false
}

// Stations returns the station addresses seen, sorted.
func (s *Scanner) Stations() []uint16 {
	out := make([]uint16, 0, len(s.slaves))
	for station, st := range s.slaves {
		if len(st.bytes) > 0 {
			out = append(out, station)
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i] < out[j] })
	return out
}

// Image assembles the EEPROM bytes collected for a station. Offsets
// never read are filled with 0xFF, like erased cells. The second
// return value is false when nothing was collected.
func (s *Scanner) Image(station uint16) ([]byte, bool) {
	st, ok := s.slaves[station]
	if !ok || len(st.bytes) == 0 {
		return nil, false
	}

	var size uint32
	for off, chunk := range st.bytes {
		if end := off + uint32(len(chunk)); end > size {
			size = end
		}
	}
	out := make([]byte, size)
	for i := range out {
		out[i] = 0xFF
	}
	for off, chunk := range st.bytes {
		copy(out[off:], chunk)
	}
	return out, true
}

// ScanFile reads a pcap capture and returns a Scanner holding every
// EEPROM image that could be reconstructed from it.
func ScanFile(path string) (*Scanner, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("open pcap file: %w", err)
	}
	defer f.Close()
	handle, err := pcapgo.NewReader(f)
	if err != nil {
		return nil, fmt.Errorf("open pcap file: %w", err)
	}

	s := NewScanner()
	source := gopacket.NewPacketSource(handle, handle.LinkType())
	for packet := range source.Packets() {
		ethLayer := packet.Layer(layers.LayerTypeEthernet)
		if ethLayer == nil {
			continue
		}
		eth, _ := ethLayer.(*layers.Ethernet)
		if uint16(eth.EthernetType) != EtherTypeEtherCAT {
			continue
		}
		// Frames with stray trailers show up in captures; keep going.
		_ = s.Feed(eth.Payload)
	}
	return s, nil
}
