package sii

// PDO record byte sizes.
const (
	pdoHeaderSize = 8
	pdoEntrySize  = 8
)

// PDO flag bits for PdoCatalog.Flags.
const (
	PdoMandatory           uint16 = 1 << 0
	PdoFixed               uint16 = 1 << 4
	PdoVirtual             uint16 = 1 << 5
	PdoOverwrittenByModule uint16 = 1 << 7
)

// PdoEntry is one 8-byte mapped object reference within a PDO.
type PdoEntry struct {
	Index     uint16
	SubIndex  uint8
	NameIndex uint8
	DataType  DataType
	BitLength uint8
	Flags     uint16
}

// PdoCatalog describes one process data object: an 8-byte header
// followed by its entries. Code distinguishes TxPDO from RxPDO. The
// stored EntryCount byte is preserved as decoded; the entry list itself
// is derived from the remaining payload length, so the two can disagree
// on a malformed image without losing bytes on re-encode.
type PdoCatalog struct {
	Code        uint16
	Index       uint16
	EntryCount  uint8
	SyncManager uint8
	DCSync      uint8
	NameIndex   uint8
	Flags       uint16
	Entries     []PdoEntry

	raw []byte
}

// NewTxPdo returns an empty transmit (input) PDO catalog.
func NewTxPdo() *PdoCatalog { return &PdoCatalog{Code: CategoryTxPDO} }

// NewRxPdo returns an empty receive (output) PDO catalog.
func NewRxPdo() *PdoCatalog { return &PdoCatalog{Code: CategoryRxPDO} }

func (c *PdoCatalog) Category() uint16 { return c.Code }
func (c *PdoCatalog) Raw() []byte      { return c.raw }

func decodePdo(code uint16, data []byte, log Logger) *PdoCatalog {
	if len(data) < pdoHeaderSize {
		log.Error("%s catalog: got %d bytes, want at least %d", CategoryName(code), len(data), pdoHeaderSize)
		data = padRecord(data, pdoHeaderSize)
	}
	cat := &PdoCatalog{
		Code:        code,
		Index:       readUint16(data[0:]),
		EntryCount:  data[2],
		SyncManager: data[3],
		DCSync:      data[4],
		NameIndex:   data[5],
		Flags:       readUint16(data[6:]),
		raw:         data,
	}
	for offset := pdoHeaderSize; len(data)-offset >= pdoEntrySize; offset += pdoEntrySize {
		e := data[offset:]
		cat.Entries = append(cat.Entries, PdoEntry{
			Index:     readUint16(e[0:]),
			SubIndex:  e[2],
			NameIndex: e[3],
			DataType:  DataType(e[4]),
			BitLength: e[5],
			Flags:     readUint16(e[6:]),
		})
	}
	return cat
}

func (c *PdoCatalog) Encode(st *StringTable) []byte {
	out := make([]byte, 0, pdoHeaderSize+len(c.Entries)*pdoEntrySize)
	out = appendUint16(out, c.Index)
	out = append(out, c.EntryCount, c.SyncManager, c.DCSync, c.NameIndex)
	out = appendUint16(out, c.Flags)
	for _, e := range c.Entries {
		out = appendUint16(out, e.Index)
		out = append(out, e.SubIndex, e.NameIndex, uint8(e.DataType), e.BitLength)
		out = appendUint16(out, e.Flags)
	}
	return out
}
