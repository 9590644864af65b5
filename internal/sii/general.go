package sii

// generalSize is the byte size of the general catalog payload.
const generalSize = 32

// CoE detail bits for GeneralCatalog.CoEDetails and FoEDetails.
const (
	DetailEnableSDO            uint8 = 1 << 0
	DetailEnableSDOInfo        uint8 = 1 << 1
	DetailEnablePDOAssign      uint8 = 1 << 2
	DetailEnablePDOConfig      uint8 = 1 << 3
	DetailEnableUploadAtStart  uint8 = 1 << 4
	DetailEnableCompleteAccess uint8 = 1 << 5
)

// Physical port media nibbles for the PhysPort fields.
const (
	PortNotUsed uint8 = 0x00
	PortMII     uint8 = 0x01
	PortEBUS    uint8 = 0x03
)

// GeneralCatalog is the 32-byte general device information record.
// Group, image, order and name are indices into the shared string
// table. The two reserved bytes are preserved verbatim across a round
// trip; document import sets Reserved2 to 1 as the reference tool does.
type GeneralCatalog struct {
	GroupIndex uint8
	ImageIndex uint8
	OrderIndex uint8
	NameIndex  uint8
	Reserved1  uint8
	CoEDetails uint8
	FoEDetails uint8
	EoEEnabled uint8

	// SoE channels, DS402 channels and sysman class are reserved in
	// current images but preserved for round trip.
	SoEChannels   uint8
	DS402Channels uint8
	SysmanClass   uint8

	// Flags: bit0 SafeOp, bit1 notLRW, bit2 MboxDataLinkLayer,
	// bits 3-4 identification method.
	Flags uint8

	CurrentEBus     uint16
	Reserved2       uint8
	PhysPort01      uint8
	PhysPort23      uint8
	PhysicalAddress uint16

	raw []byte
}

func (c *GeneralCatalog) Category() uint16 { return CategoryGeneral }
func (c *GeneralCatalog) Raw() []byte      { return c.raw }

func decodeGeneral(data []byte, log Logger) *GeneralCatalog {
	if len(data) != generalSize {
		log.Error("general catalog: got %d bytes, want %d", len(data), generalSize)
		data = padRecord(data, generalSize)
	}
	return &GeneralCatalog{
		GroupIndex:      data[0],
		ImageIndex:      data[1],
		OrderIndex:      data[2],
		NameIndex:       data[3],
		Reserved1:       data[4],
		CoEDetails:      data[5],
		FoEDetails:      data[6],
		EoEEnabled:      data[7],
		SoEChannels:     data[8],
		DS402Channels:   data[9],
		SysmanClass:     data[10],
		Flags:           data[11],
		CurrentEBus:     readUint16(data[12:]),
		Reserved2:       data[14],
		PhysPort01:      data[15],
		PhysPort23:      data[16],
		PhysicalAddress: readUint16(data[17:]),
		// 13 reserved bytes at 19.
		raw: data,
	}
}

func (c *GeneralCatalog) Encode(st *StringTable) []byte {
	out := make([]byte, 0, generalSize)
	out = append(out,
		c.GroupIndex, c.ImageIndex, c.OrderIndex, c.NameIndex,
		c.Reserved1, c.CoEDetails, c.FoEDetails, c.EoEEnabled,
		c.SoEChannels, c.DS402Channels, c.SysmanClass, c.Flags)
	out = appendUint16(out, c.CurrentEBus)
	out = append(out, c.Reserved2, c.PhysPort01, c.PhysPort23)
	out = appendUint16(out, c.PhysicalAddress)
	out = append(out, make([]byte, 13)...)
	return out
}
