package sii

import "testing"

func TestCRC8(t *testing.T) {
	tests := []struct {
		name string
		data []byte
		want uint8
	}{
		{"empty", nil, 0xFF},
		{"check sequence 123456789", []byte("123456789"), 0xFB},
		{"zero config area", make([]byte, 14), 0x30},
		{"alias set", []byte{0, 0, 0, 0, 0, 0, 0, 0, 1, 0, 0, 0, 0, 0}, 0x19},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := CRC8(tt.data); got != tt.want {
				t.Errorf("CRC8() = 0x%02X, want 0x%02X", got, tt.want)
			}
		})
	}
}

func TestCRC8Deterministic(t *testing.T) {
	data := []byte{0x05, 0x06, 0x03, 0x00, 0x12, 0x34}
	first := CRC8(data)
	for i := 0; i < 10; i++ {
		if got := CRC8(data); got != first {
			t.Fatalf("CRC8() not deterministic: 0x%02X then 0x%02X", first, got)
		}
	}
}
