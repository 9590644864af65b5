package sii

// dclockSize is the byte size of the distributed-clock catalog payload.
const dclockSize = 24

// DClockCatalog is the 24-byte distributed-clock operation mode record.
// The 4 trailing bytes are preserved verbatim across a round trip.
type DClockCatalog struct {
	CycleTime0       uint32
	ShiftTime0       uint32
	ShiftTime1       uint32
	Sync1CycleFactor uint16
	AssignActivate   uint16
	Sync0CycleFactor uint16
	NameIndex        uint8
	DescIndex        uint8
	Reserved         [4]byte

	raw []byte
}

func (c *DClockCatalog) Category() uint16 { return CategoryDClock }
func (c *DClockCatalog) Raw() []byte      { return c.raw }

func decodeDClock(data []byte, log Logger) *DClockCatalog {
	if len(data) != dclockSize {
		log.Error("dclock catalog: got %d bytes, want %d", len(data), dclockSize)
		data = padRecord(data, dclockSize)
	}
	cat := &DClockCatalog{
		CycleTime0:       readUint32(data[0:]),
		ShiftTime0:       readUint32(data[4:]),
		ShiftTime1:       readUint32(data[8:]),
		Sync1CycleFactor: readUint16(data[12:]),
		AssignActivate:   readUint16(data[14:]),
		Sync0CycleFactor: readUint16(data[16:]),
		NameIndex:        data[18],
		DescIndex:        data[19],
		raw:              data,
	}
	copy(cat.Reserved[:], data[20:24])
	return cat
}

func (c *DClockCatalog) Encode(st *StringTable) []byte {
	out := make([]byte, 0, dclockSize)
	out = appendUint32(out, c.CycleTime0)
	out = appendUint32(out, c.ShiftTime0)
	out = appendUint32(out, c.ShiftTime1)
	out = appendUint16(out, c.Sync1CycleFactor)
	out = appendUint16(out, c.AssignActivate)
	out = appendUint16(out, c.Sync0CycleFactor)
	out = append(out, c.NameIndex, c.DescIndex)
	out = append(out, c.Reserved[:]...)
	return out
}
