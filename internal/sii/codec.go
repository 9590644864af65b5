package sii

import "encoding/binary"

// All multi-byte fields in an SII image are little-endian.

func appendUint16(dst []byte, value uint16) []byte {
	var buf [2]byte
	binary.LittleEndian.PutUint16(buf[:], value)
	return append(dst, buf[:]...)
}

func appendUint32(dst []byte, value uint32) []byte {
	var buf [4]byte
	binary.LittleEndian.PutUint32(buf[:], value)
	return append(dst, buf[:]...)
}

func readUint16(data []byte) uint16 {
	return binary.LittleEndian.Uint16(data)
}

func readUint32(data []byte) uint32 {
	return binary.LittleEndian.Uint32(data)
}

// padRecord returns data zero-extended to size. A short record is a
// structural mismatch; the caller logs it and decodes what was present.
func padRecord(data []byte, size int) []byte {
	if len(data) >= size {
		return data[:size]
	}
	buf := make([]byte, size)
	copy(buf, data)
	return buf
}
