package sii

// UnknownCatalog preserves the raw payload of a category code without an
// assigned codec, so that small unrecognized sections survive a round
// trip. Payloads of UnknownKeepLimit bytes or more never reach this
// type; the decode loop drops them with a diagnostic.
type UnknownCatalog struct {
	Code uint16
	Data []byte
}

func (c *UnknownCatalog) Category() uint16 { return c.Code }
func (c *UnknownCatalog) Raw() []byte      { return c.Data }

func (c *UnknownCatalog) Encode(st *StringTable) []byte {
	return c.Data
}
