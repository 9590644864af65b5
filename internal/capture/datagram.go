// Package capture reconstructs SII EEPROM images from recorded
// EtherCAT traffic. The master reads a slave's EEPROM through the
// ESC register window at 0x0500, so pairing address writes with the
// data reads that follow recovers the image word by word.
package capture

import (
	"encoding/binary"
	"fmt"
)

// EtherType of EtherCAT frames.
const EtherTypeEtherCAT = 0x88A4

// Datagram commands, as far as the scanner cares.
const (
	cmdAPRD = 1
	cmdAPWR = 2
	cmdFPRD = 4
	cmdFPWR = 5
	cmdFPRW = 6
)

const datagramHeaderLen = 10

// datagram is one EtherCAT datagram with its working counter.
type datagram struct {
	Command  uint8
	Index    uint8
	Station  uint16 // configured station address
	Register uint16 // physical register offset
	Data     []byte
	Wkc      uint16
}

func (dg datagram) acked() bool { return dg.Wkc > 0 }

// parseFrame splits the payload of an 0x88A4 Ethernet frame into
// datagrams. The frame header carries an 11-bit byte count and a type
// nibble; only type 1 (EtherCAT commands) is of interest.
func parseFrame(payload []byte) ([]datagram, error) {
	if len(payload) < 2 {
		return nil, fmt.Errorf("frame too short for header")
	}
	word := binary.LittleEndian.Uint16(payload)
	length := int(word & 0x07FF)
	if word>>12 != 1 {
		return nil, nil
	}
	payload = payload[2:]
	if length > len(payload) {
		return nil, fmt.Errorf("frame header declares %d bytes, have %d", length, len(payload))
	}
	payload = payload[:length]

	var dgs []datagram
	for {
		if len(payload) < datagramHeaderLen {
			return nil, fmt.Errorf("datagram header truncated at %d bytes", len(payload))
		}
		addr := binary.LittleEndian.Uint32(payload[2:6])
		lenWord := binary.LittleEndian.Uint16(payload[6:8])
		dataLen := int(lenWord & 0x07FF)

		rest := payload[datagramHeaderLen:]
		if len(rest) < dataLen+2 {
			return nil, fmt.Errorf("datagram declares %d data bytes, have %d", dataLen, len(rest))
		}

		dgs = append(dgs, datagram{
			Command:  payload[0],
			Index:    payload[1],
			Station:  uint16(addr),
			Register: uint16(addr >> 16),
			Data:     rest[:dataLen],
			Wkc:      binary.LittleEndian.Uint16(rest[dataLen : dataLen+2]),
		})

		payload = rest[dataLen+2:]
		if lenWord&(1<<15) == 0 {
			break
		}
	}
	return dgs, nil
}
