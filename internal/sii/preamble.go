package sii

// PreambleSize is the byte size of the PDI configuration area at the
// start of the image.
const PreambleSize = 16

// Preamble is the 16-byte PDI configuration area. The checksum field
// covers the 14 bytes preceding it and is widened from 8 to 16 bits in
// storage. Encode always recomputes it; a mismatch found at decode time
// is reported but the stored value is kept as parsed.
type Preamble struct {
	PDICtrl     uint16
	PDIConf     uint16
	SyncImpulse uint16
	PDIConf2    uint16
	Alias       uint16
	Reserved    uint32
	Checksum    uint16
}

func decodePreamble(data []byte, log Logger) Preamble {
	if len(data) != PreambleSize {
		log.Error("preamble: got %d bytes, want %d", len(data), PreambleSize)
		data = padRecord(data, PreambleSize)
	}
	p := Preamble{
		PDICtrl:     readUint16(data[0:]),
		PDIConf:     readUint16(data[2:]),
		SyncImpulse: readUint16(data[4:]),
		PDIConf2:    readUint16(data[6:]),
		Alias:       readUint16(data[8:]),
		Reserved:    readUint32(data[10:]),
		Checksum:    readUint16(data[14:]),
	}
	if crc := CRC8(data[:14]); uint16(crc) != p.Checksum {
		log.Error("preamble: checksum mismatch: computed 0x%02X, stored 0x%04X", crc, p.Checksum)
	}
	return p
}

// Encode emits the 16-byte preamble with a freshly computed checksum.
// The stored Checksum field is not consulted or modified.
func (p Preamble) Encode() []byte {
	out := make([]byte, 0, PreambleSize)
	out = appendUint16(out, p.PDICtrl)
	out = appendUint16(out, p.PDIConf)
	out = appendUint16(out, p.SyncImpulse)
	out = appendUint16(out, p.PDIConf2)
	out = appendUint16(out, p.Alias)
	out = appendUint32(out, p.Reserved)
	out = appendUint16(out, uint16(CRC8(out)))
	return out
}
