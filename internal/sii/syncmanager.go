package sii

// syncManagerEntrySize is the byte size of one sync-manager descriptor.
const syncManagerEntrySize = 8

// Sync-manager type codes.
const (
	SyncMUnused     uint8 = 0
	SyncMMailboxOut uint8 = 1
	SyncMMailboxIn  uint8 = 2
	SyncMOutputs    uint8 = 3
	SyncMInputs     uint8 = 4
)

// SyncManagerEntry is one 8-byte sync-manager descriptor.
type SyncManagerEntry struct {
	PhysAddress uint16
	Length      uint16
	Control     uint8
	Status      uint8
	Enable      uint8
	Type        uint8
}

// TypeName returns the conventional name for the type code.
func (e SyncManagerEntry) TypeName() string {
	switch e.Type {
	case SyncMMailboxOut:
		return "MBoxOut"
	case SyncMMailboxIn:
		return "MBoxIn"
	case SyncMOutputs:
		return "Outputs"
	case SyncMInputs:
		return "Inputs"
	}
	return "Unused"
}

// SyncManagerCatalog is a list of sync-manager descriptors.
type SyncManagerCatalog struct {
	Entries []SyncManagerEntry

	raw []byte
}

func (c *SyncManagerCatalog) Category() uint16 { return CategorySyncM }
func (c *SyncManagerCatalog) Raw() []byte      { return c.raw }

func decodeSyncManager(data []byte) *SyncManagerCatalog {
	cat := &SyncManagerCatalog{raw: data}
	for offset := 0; len(data)-offset >= syncManagerEntrySize; offset += syncManagerEntrySize {
		e := data[offset:]
		cat.Entries = append(cat.Entries, SyncManagerEntry{
			PhysAddress: readUint16(e[0:]),
			Length:      readUint16(e[2:]),
			Control:     e[4],
			Status:      e[5],
			Enable:      e[6],
			Type:        e[7],
		})
	}
	return cat
}

func (c *SyncManagerCatalog) Encode(st *StringTable) []byte {
	out := make([]byte, 0, len(c.Entries)*syncManagerEntrySize)
	for _, e := range c.Entries {
		out = appendUint16(out, e.PhysAddress)
		out = appendUint16(out, e.Length)
		out = append(out, e.Control, e.Status, e.Enable, e.Type)
	}
	return out
}
