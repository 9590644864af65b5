package sii

// FMMU usage codes.
const (
	FmmuUnused       uint8 = 0x00
	FmmuOutputs      uint8 = 0x01
	FmmuInputs       uint8 = 0x02
	FmmuMailboxState uint8 = 0x03
)

// FmmuEntry is a single-byte FMMU usage descriptor.
type FmmuEntry struct {
	Usage uint8
}

// UsageName returns the conventional name for the usage code.
func (e FmmuEntry) UsageName() string {
	switch e.Usage {
	case FmmuOutputs:
		return "Outputs"
	case FmmuInputs:
		return "Inputs"
	case FmmuMailboxState:
		return "MBoxState"
	}
	return "Unused"
}

// FmmuCatalog is a list of FMMU usage entries. Every payload byte is an
// entry; a pad byte written to keep the length even decodes as an
// Unused entry, which keeps the round trip exact.
type FmmuCatalog struct {
	Entries []FmmuEntry

	raw []byte
}

func (c *FmmuCatalog) Category() uint16 { return CategoryFMMU }
func (c *FmmuCatalog) Raw() []byte      { return c.raw }

func decodeFmmu(data []byte) *FmmuCatalog {
	cat := &FmmuCatalog{raw: data}
	for _, b := range data {
		cat.Entries = append(cat.Entries, FmmuEntry{Usage: b})
	}
	return cat
}

func (c *FmmuCatalog) Encode(st *StringTable) []byte {
	out := make([]byte, 0, len(c.Entries)+1)
	for _, e := range c.Entries {
		out = append(out, e.Usage)
	}
	if len(out)%2 != 0 {
		out = append(out, 0)
	}
	return out
}
