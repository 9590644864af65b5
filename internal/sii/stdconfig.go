package sii

// StdConfigSize is the byte size of the standard configuration area
// following the preamble.
const StdConfigSize = 112

// HeaderSize is the fixed offset at which the catalog sequence starts.
const HeaderSize = PreambleSize + StdConfigSize

// Mailbox protocol bits for StdConfig.MailboxProtocol.
const (
	MailboxEoE uint16 = 0x0002
	MailboxCoE uint16 = 0x0004
	MailboxFoE uint16 = 0x0008
	MailboxVoE uint16 = 0x0020
)

// StdConfig is the 112-byte standard configuration area: device
// identity, bootstrap and standard mailbox windows, supported mailbox
// protocols, and the EEPROM size in units of (bytes-128)/128 words.
type StdConfig struct {
	VendorID   uint32
	ProductID  uint32
	RevisionID uint32
	Serial     uint32

	BootRecvMboxOffset uint16
	BootRecvMboxSize   uint16
	BootSendMboxOffset uint16
	BootSendMboxSize   uint16
	StdRecvMboxOffset  uint16
	StdRecvMboxSize    uint16
	StdSendMboxOffset  uint16
	StdSendMboxSize    uint16

	MailboxProtocol uint16

	EEPROMSize uint16
	Version    uint16
}

// EEPROMSizeWords converts an EEPROM byte size to the stored encoding.
func EEPROMSizeWords(byteSize int) uint16 {
	return uint16((byteSize - 0x80) >> 7)
}

func decodeStdConfig(data []byte, log Logger) StdConfig {
	if len(data) != StdConfigSize {
		log.Error("stdconfig: got %d bytes, want %d", len(data), StdConfigSize)
		data = padRecord(data, StdConfigSize)
	}
	return StdConfig{
		VendorID:   readUint32(data[0:]),
		ProductID:  readUint32(data[4:]),
		RevisionID: readUint32(data[8:]),
		Serial:     readUint32(data[12:]),
		// 8 reserved bytes at 16.
		BootRecvMboxOffset: readUint16(data[24:]),
		BootRecvMboxSize:   readUint16(data[26:]),
		BootSendMboxOffset: readUint16(data[28:]),
		BootSendMboxSize:   readUint16(data[30:]),
		StdRecvMboxOffset:  readUint16(data[32:]),
		StdRecvMboxSize:    readUint16(data[34:]),
		StdSendMboxOffset:  readUint16(data[36:]),
		StdSendMboxSize:    readUint16(data[38:]),
		MailboxProtocol:    readUint16(data[40:]),
		// 66 reserved bytes at 42.
		EEPROMSize: readUint16(data[108:]),
		Version:    readUint16(data[110:]),
	}
}

// Encode emits the 112-byte standard configuration area.
func (c StdConfig) Encode() []byte {
	out := make([]byte, 0, StdConfigSize)
	out = appendUint32(out, c.VendorID)
	out = appendUint32(out, c.ProductID)
	out = appendUint32(out, c.RevisionID)
	out = appendUint32(out, c.Serial)
	out = append(out, make([]byte, 8)...)
	out = appendUint16(out, c.BootRecvMboxOffset)
	out = appendUint16(out, c.BootRecvMboxSize)
	out = appendUint16(out, c.BootSendMboxOffset)
	out = appendUint16(out, c.BootSendMboxSize)
	out = appendUint16(out, c.StdRecvMboxOffset)
	out = appendUint16(out, c.StdRecvMboxSize)
	out = appendUint16(out, c.StdSendMboxOffset)
	out = appendUint16(out, c.StdSendMboxSize)
	out = appendUint16(out, c.MailboxProtocol)
	out = append(out, make([]byte, 66)...)
	out = appendUint16(out, c.EEPROMSize)
	out = appendUint16(out, c.Version)
	return out
}
