package sii

// CRC-8 with polynomial 0x07 and initial value 0xFF, as used for the
// configuration area checksum at word 7 of the SII EEPROM.

// CRC8 computes the checksum over data.
func CRC8(data []byte) uint8 {
	crc := uint8(0xFF)
	for _, b := range data {
		crc ^= b
		for i := 0; i < 8; i++ {
			if crc&0x80 != 0 {
				crc = (crc << 1) ^ 0x07
			} else {
				crc <<= 1
			}
		}
	}
	return crc
}
