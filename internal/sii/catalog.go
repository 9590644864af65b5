// Package sii implements the binary codec for EtherCAT Slave Information
// Interface (SII) EEPROM images: a 16-byte preamble and 112-byte standard
// configuration area followed by a sequence of typed, length-prefixed
// catalogs. Decode and encode are pure transformations over in-memory
// buffers; all device and file I/O lives outside this package.
package sii

// Category codes identifying catalog sections within the image.
const (
	CategoryNOP       uint16 = 0
	CategoryStrings   uint16 = 10
	CategoryDataTypes uint16 = 20
	CategoryGeneral   uint16 = 30
	CategoryFMMU      uint16 = 40
	CategorySyncM     uint16 = 41
	CategoryTxPDO     uint16 = 50
	CategoryRxPDO     uint16 = 51
	CategoryDClock    uint16 = 60

	// CategoryEnd terminates the catalog sequence.
	CategoryEnd uint16 = 0xFFFF
)

// UnknownKeepLimit is the payload size below which an unrecognized
// catalog is retained verbatim. Larger unknown payloads are dropped with
// a diagnostic, matching the reference tool. Dropping breaks byte-exact
// round trip for such inputs, so the drop is logged as an error.
const UnknownKeepLimit = 100

// Catalog is one typed section of the image. Encode produces the raw
// payload without the 4-byte TLV frame; the string table is passed in
// because string-bearing catalogs store indices into the shared table.
type Catalog interface {
	Category() uint16
	Encode(st *StringTable) []byte

	// Raw returns the payload bytes captured at decode time, or nil for
	// catalogs built from a structured document. Used only by the
	// round-trip diagnostic.
	Raw() []byte
}

// Logger receives non-fatal diagnostics from the codec. Structural
// mismatches and checksum errors are reported here and decoding
// continues; they never abort a conversion.
type Logger interface {
	Error(format string, v ...interface{})
	Info(format string, v ...interface{})
}

// NopLogger discards all diagnostics.
type NopLogger struct{}

func (NopLogger) Error(format string, v ...interface{}) {}
func (NopLogger) Info(format string, v ...interface{})  {}

var categoryNames = map[uint16]string{
	CategoryNOP:       "nop",
	CategoryStrings:   "strings",
	CategoryDataTypes: "datatypes",
	CategoryGeneral:   "general",
	CategoryFMMU:      "fmmu",
	CategorySyncM:     "syncmanager",
	CategoryTxPDO:     "txpdo",
	CategoryRxPDO:     "rxpdo",
	CategoryDClock:    "dclock",
}

// CategoryName returns the conventional name for a category code, or ""
// for codes with no assigned codec.
func CategoryName(code uint16) string {
	return categoryNames[code]
}
