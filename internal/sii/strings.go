package sii

import "strconv"

// StringTable is the ordered, deduplicating collection backing every
// textual field in the image. Index 0 is always the empty string and is
// the sentinel for "unset"; the binary form counts only indices >= 1.
// The table is owned by the Image; record codecs only store indices.
type StringTable struct {
	values []string
}

// NewStringTable returns a table containing only the empty string.
func NewStringTable() *StringTable {
	return &StringTable{values: []string{""}}
}

// Intern returns the index of text, appending it if not yet present.
// Interning is idempotent; comparison is exact equality.
func (t *StringTable) Intern(text string) int {
	for i, v := range t.values {
		if v == text {
			return i
		}
	}
	t.values = append(t.values, text)
	return len(t.values) - 1
}

// Resolve returns the text stored at index. An out-of-range index
// resolves to its decimal representation instead of failing, so that a
// malformed image still renders.
func (t *StringTable) Resolve(index int) string {
	if index >= 0 && index < len(t.values) {
		return t.values[index]
	}
	return strconv.Itoa(index)
}

// Len returns the number of entries including the implicit empty string.
func (t *StringTable) Len() int {
	return len(t.values)
}

// Entries returns the stored values including index 0.
func (t *StringTable) Entries() []string {
	return t.values
}

// StringsCatalog serializes the shared string table. It carries no data
// of its own beyond the pad byte appended when the encoded length is
// odd; decode preserves whatever pad value was read.
type StringsCatalog struct {
	Pad byte

	raw []byte
}

func (c *StringsCatalog) Category() uint16 { return CategoryStrings }
func (c *StringsCatalog) Raw() []byte      { return c.raw }

func (c *StringsCatalog) Encode(st *StringTable) []byte {
	entries := st.Entries()[1:]
	out := []byte{byte(len(entries))}
	for _, text := range entries {
		out = append(out, byte(len(text)))
		out = append(out, text...)
	}
	if len(out)%2 != 0 {
		out = append(out, c.Pad)
	}
	return out
}

// decodeStrings reads the table payload: a count byte followed by
// length-prefixed entries, plus a pad byte when the total is odd.
func decodeStrings(data []byte, log Logger) (*StringTable, *StringsCatalog) {
	st := NewStringTable()
	cat := &StringsCatalog{raw: data}
	if len(data) == 0 {
		log.Error("strings catalog: empty payload")
		return st, cat
	}
	count := int(data[0])
	offset := 1
	for i := 0; i < count; i++ {
		if offset >= len(data) {
			log.Error("strings catalog: truncated after %d of %d entries", i, count)
			return st, cat
		}
		strlen := int(data[offset])
		offset++
		if offset+strlen > len(data) {
			log.Error("strings catalog: entry %d length %d exceeds payload", i, strlen)
			strlen = len(data) - offset
		}
		st.values = append(st.values, string(data[offset:offset+strlen]))
		offset += strlen
	}
	if offset%2 != 0 && offset < len(data) {
		cat.Pad = data[len(data)-1]
	}
	return st, cat
}
