// Package hexfile reads Intel HEX images as produced by most EEPROM
// programmers. Only the record types needed for SII images are
// supported: data, end-of-file and the extended address records.
package hexfile

import (
	"bufio"
	"encoding/hex"
	"fmt"
	"io"
	"sort"
	"strings"
)

// Record types in the Intel HEX format.
const (
	recData             = 0x00
	recEOF              = 0x01
	recExtSegmentAddr   = 0x02
	recExtLinearAddr    = 0x04
	recStartLinearAddr  = 0x05
	recStartSegmentAddr = 0x03
)

// Decode reads an Intel HEX stream and returns the flattened binary
// image. Address gaps are filled with 0xFF, matching erased EEPROM
// cells. Every record checksum is verified.
func Decode(r io.Reader) ([]byte, error) {
	chunks := map[uint32][]byte{}
	var base uint32
	lineNo := 0

	scanner := bufio.NewScanner(r)
	for scanner.Scan() {
		lineNo++
		line := strings.TrimSpace(scanner.Text())
		if line == "" {
			continue
		}
		if line[0] != ':' {
			return nil, fmt.Errorf("line %d: missing record mark", lineNo)
		}

		raw, err := hex.DecodeString(line[1:])
		if err != nil {
			return nil, fmt.Errorf("line %d: %w", lineNo, err)
		}
		if len(raw) < 5 {
			return nil, fmt.Errorf("line %d: record too short", lineNo)
		}

		count := int(raw[0])
		if len(raw) != count+5 {
			return nil, fmt.Errorf("line %d: length byte %d does not match record size", lineNo, count)
		}

		var sum uint8
		for _, b := range raw {
			sum += b
		}
		if sum != 0 {
			return nil, fmt.Errorf("line %d: checksum mismatch", lineNo)
		}

		addr := uint32(raw[1])<<8 | uint32(raw[2])
		data := raw[4 : 4+count]

		switch raw[3] {
		case recData:
			chunks[base+addr] = append([]byte(nil), data...)
		case recEOF:
			return flatten(chunks)
		case recExtSegmentAddr:
			if count != 2 {
				return nil, fmt.Errorf("line %d: bad segment address record", lineNo)
			}
			base = (uint32(data[0])<<8 | uint32(data[1])) << 4
		case recExtLinearAddr:
			if count != 2 {
				return nil, fmt.Errorf("line %d: bad linear address record", lineNo)
			}
			base = (uint32(data[0])<<8 | uint32(data[1])) << 16
		case recStartLinearAddr, recStartSegmentAddr:
			// Entry points have no meaning for an EEPROM image.
		default:
			return nil, fmt.Errorf("line %d: unsupported record type %#02x", lineNo, raw[3])
		}
	}
	if err := scanner.Err(); err != nil {
		return nil, err
	}
	return nil, fmt.Errorf("missing end-of-file record")
}

func flatten(chunks map[uint32][]byte) ([]byte, error) {
	if len(chunks) == 0 {
		return nil, fmt.Errorf("no data records")
	}

	addrs := make([]uint32, 0, len(chunks))
	var size uint32
	for addr, data := range chunks {
		addrs = append(addrs, addr)
		if end := addr + uint32(len(data)); end > size {
			size = end
		}
	}
	sort.Slice(addrs, func(i, j int) bool { return addrs[i] < addrs[j] })

	out := make([]byte, size)
	for i := range out {
		out[i] = 0xFF
	}
	for _, addr := range addrs {
		copy(out[addr:], chunks[addr])
	}
	return out, nil
}

// IsHex reports whether data looks like an Intel HEX stream rather
// than a raw binary image.
func IsHex(data []byte) bool {
	for _, b := range data {
		switch b {
		case ' ', '\t', '\r', '\n':
			continue
		case ':':
			return true
		default:
			return false
		}
	}
	return false
}
