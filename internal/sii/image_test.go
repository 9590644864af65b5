package sii

import (
	"bytes"
	"testing"
)

// buildTestImage assembles a raw image in canonical category order so
// that encode(decode(x)) == x can be asserted byte for byte.
func buildTestImage(t *testing.T) []byte {
	t.Helper()

	preamble := Preamble{PDICtrl: 0x0605, Alias: 0x0001}.Encode()

	cfg := StdConfig{
		VendorID:          0x00000002,
		ProductID:         0x044C2C52,
		RevisionID:        0x00100000,
		StdRecvMboxOffset: 0x1000,
		StdRecvMboxSize:   0x0080,
		StdSendMboxOffset: 0x1080,
		StdSendMboxSize:   0x0080,
		MailboxProtocol:   MailboxCoE | MailboxFoE,
		EEPROMSize:        EEPROMSizeWords(2048),
		Version:           1,
	}.Encode()

	img := append(append([]byte{}, preamble...), cfg...)

	frame := func(code uint16, payload []byte) {
		img = appendUint16(img, code)
		img = appendUint16(img, uint16(len(payload)/2))
		img = append(img, payload...)
	}

	// strings: "Servo", "Drive" -> 13 bytes + pad
	frame(CategoryStrings, []byte{
		0x02,
		0x05, 'S', 'e', 'r', 'v', 'o',
		0x05, 'D', 'r', 'i', 'v', 'e',
		0x00,
	})

	general := make([]byte, generalSize)
	general[0] = 1 // group index
	general[3] = 2 // name index
	general[5] = DetailEnableSDO | DetailEnableSDOInfo
	general[14] = 1    // reserved, always 1 in reference images
	general[15] = 0x01 // port 0 MII
	frame(CategoryGeneral, general)

	frame(CategoryFMMU, []byte{FmmuOutputs, FmmuInputs})

	sm := []byte{}
	sm = appendUint16(sm, 0x1000)
	sm = appendUint16(sm, 0x0080)
	sm = append(sm, 0x26, 0x00, 0x01, SyncMMailboxOut)
	sm = appendUint16(sm, 0x1080)
	sm = appendUint16(sm, 0x0080)
	sm = append(sm, 0x22, 0x00, 0x01, SyncMMailboxIn)
	frame(CategorySyncM, sm)

	tx := []byte{}
	tx = appendUint16(tx, 0x1A00)
	tx = append(tx, 1, 3, 0, 2)
	tx = appendUint16(tx, PdoMandatory)
	tx = appendUint16(tx, 0x6000) // entry
	tx = append(tx, 0x01, 1, uint8(TypeUint), 16)
	tx = appendUint16(tx, 0)
	frame(CategoryTxPDO, tx)

	dc := make([]byte, dclockSize)
	copy(dc, appendUint32(nil, 1000000))
	frame(CategoryDClock, dc)

	img = appendUint16(img, CategoryEnd)
	return img
}

func TestImageRoundTrip(t *testing.T) {
	raw := buildTestImage(t)

	img, err := Decode(raw, NopLogger{})
	if err != nil {
		t.Fatalf("Decode() error: %v", err)
	}

	if img.Preamble.Alias != 1 {
		t.Errorf("Alias = %d, want 1", img.Preamble.Alias)
	}
	if img.Config.VendorID != 2 {
		t.Errorf("VendorID = %d, want 2", img.Config.VendorID)
	}
	if got := img.Strings.Resolve(1); got != "Servo" {
		t.Errorf("Resolve(1) = %q, want Servo", got)
	}
	if len(img.Catalogs) != 6 {
		t.Fatalf("got %d catalogs, want 6", len(img.Catalogs))
	}

	encoded := img.Encode()
	if !bytes.Equal(encoded, raw) {
		diffs := DiffBytes(encoded, raw)
		t.Errorf("round trip differs at %d positions, first: %+v", len(diffs), diffs[0])
	}
}

func TestImageDecodeCatalogTypes(t *testing.T) {
	img, err := Decode(buildTestImage(t), NopLogger{})
	if err != nil {
		t.Fatalf("Decode() error: %v", err)
	}

	g := img.General()
	if g == nil {
		t.Fatal("General() = nil")
	}
	if got := img.Strings.Resolve(int(g.NameIndex)); got != "Drive" {
		t.Errorf("device name = %q, want Drive", got)
	}

	var fmmu *FmmuCatalog
	var sm *SyncManagerCatalog
	var pdo *PdoCatalog
	var dc *DClockCatalog
	for _, cat := range img.Catalogs {
		switch c := cat.(type) {
		case *FmmuCatalog:
			fmmu = c
		case *SyncManagerCatalog:
			sm = c
		case *PdoCatalog:
			pdo = c
		case *DClockCatalog:
			dc = c
		}
	}

	if fmmu == nil || len(fmmu.Entries) != 2 || fmmu.Entries[0].Usage != FmmuOutputs {
		t.Errorf("fmmu = %+v, want 2 entries starting with Outputs", fmmu)
	}
	if sm == nil || len(sm.Entries) != 2 {
		t.Fatalf("syncmanager = %+v, want 2 entries", sm)
	}
	if sm.Entries[1].PhysAddress != 0x1080 || sm.Entries[1].Type != SyncMMailboxIn {
		t.Errorf("sm entry 1 = %+v", sm.Entries[1])
	}
	if pdo == nil || pdo.Code != CategoryTxPDO || pdo.Index != 0x1A00 {
		t.Fatalf("pdo = %+v", pdo)
	}
	if len(pdo.Entries) != 1 || pdo.Entries[0].DataType != TypeUint || pdo.Entries[0].BitLength != 16 {
		t.Errorf("pdo entries = %+v", pdo.Entries)
	}
	if dc == nil || dc.CycleTime0 != 1000000 {
		t.Errorf("dclock = %+v", dc)
	}
}

func TestImageEncodeCanonicalOrder(t *testing.T) {
	// Build a model with catalogs stored out of order; encode must still
	// emit strings, general, fmmu, syncmanager, txpdo, rxpdo, dclock.
	img := NewImage()
	img.Strings.Intern("x")
	tx := NewTxPdo()
	tx.Index = 0x1A00
	rx := NewRxPdo()
	rx.Index = 0x1600
	img.Catalogs = []Catalog{
		&DClockCatalog{CycleTime0: 1},
		rx,
		tx,
		&FmmuCatalog{Entries: []FmmuEntry{{Usage: FmmuInputs}}},
		&GeneralCatalog{NameIndex: 1},
		&StringsCatalog{},
		&SyncManagerCatalog{Entries: []SyncManagerEntry{{Type: SyncMInputs}}},
	}

	encoded := img.Encode()

	var order []uint16
	offset := HeaderSize
	for offset+4 <= len(encoded) {
		code := readUint16(encoded[offset:])
		if code == CategoryEnd {
			break
		}
		size := int(readUint16(encoded[offset+2:])) * 2
		order = append(order, code)
		offset += 4 + size
	}

	want := []uint16{CategoryStrings, CategoryGeneral, CategoryFMMU, CategorySyncM, CategoryTxPDO, CategoryRxPDO, CategoryDClock}
	if len(order) != len(want) {
		t.Fatalf("emitted %d catalogs (%v), want %d", len(order), order, len(want))
	}
	for i, code := range want {
		if order[i] != code {
			t.Errorf("position %d: category %d, want %d", i, order[i], code)
		}
	}
}

func TestImageEncodeOmitsEmptyCatalogs(t *testing.T) {
	img := NewImage()
	img.Catalogs = []Catalog{&FmmuCatalog{}, &SyncManagerCatalog{}}

	encoded := img.Encode()
	// Header, then directly the end sentinel.
	want := HeaderSize + 2
	if len(encoded) != want {
		t.Errorf("Encode() length = %d, want %d (empty catalogs omitted)", len(encoded), want)
	}
	if readUint16(encoded[HeaderSize:]) != CategoryEnd {
		t.Errorf("expected end sentinel at %d", HeaderSize)
	}
}

func TestImageUnknownCatalogKept(t *testing.T) {
	img := NewImage()
	raw := img.Encode()[:HeaderSize]

	payload := make([]byte, 50)
	for i := range payload {
		payload[i] = byte(i)
	}
	raw = appendUint16(raw, 0x1234)
	raw = appendUint16(raw, uint16(len(payload)/2))
	raw = append(raw, payload...)
	raw = appendUint16(raw, CategoryEnd)

	var log captureLogger
	decoded, err := Decode(raw, &log)
	if err != nil {
		t.Fatalf("Decode() error: %v", err)
	}
	if len(decoded.Catalogs) != 1 {
		t.Fatalf("got %d catalogs, want 1", len(decoded.Catalogs))
	}
	u, ok := decoded.Catalogs[0].(*UnknownCatalog)
	if !ok || u.Code != 0x1234 || !bytes.Equal(u.Data, payload) {
		t.Fatalf("catalog = %+v", decoded.Catalogs[0])
	}
	if !bytes.Equal(decoded.Encode(), raw) {
		t.Error("unknown catalog under keep limit must round trip byte-exact")
	}
}

func TestImageUnknownCatalogDropped(t *testing.T) {
	img := NewImage()
	raw := img.Encode()[:HeaderSize]

	payload := make([]byte, 150)
	raw = appendUint16(raw, 0x1234)
	raw = appendUint16(raw, uint16(len(payload)/2))
	raw = append(raw, payload...)
	raw = appendUint16(raw, CategoryEnd)

	var log captureLogger
	decoded, err := Decode(raw, &log)
	if err != nil {
		t.Fatalf("Decode() error: %v", err)
	}
	if len(decoded.Catalogs) != 0 {
		t.Fatalf("got %d catalogs, want 0 (dropped)", len(decoded.Catalogs))
	}
	if len(log.errors) == 0 {
		t.Error("dropping a large unknown catalog must emit a diagnostic")
	}
	// Re-encoding never emits the dropped category.
	encoded := decoded.Encode()
	for offset := HeaderSize; offset+2 <= len(encoded); offset += 2 {
		if readUint16(encoded[offset:]) == 0x1234 {
			t.Fatal("dropped category 0x1234 reappeared in encode output")
		}
	}
}

func TestImageDecodeTooShort(t *testing.T) {
	if _, err := Decode(make([]byte, 64), NopLogger{}); err == nil {
		t.Error("Decode() of 64 bytes should fail")
	}
}

func TestImageDecodeStopsAtSentinel(t *testing.T) {
	img := NewImage()
	raw := img.Encode()
	// Trailing 0xFF padding after the sentinel, as on a real EEPROM.
	raw = append(raw, bytes.Repeat([]byte{0xFF}, 32)...)

	decoded, err := Decode(raw, NopLogger{})
	if err != nil {
		t.Fatalf("Decode() error: %v", err)
	}
	if len(decoded.Catalogs) != 0 {
		t.Errorf("got %d catalogs, want 0", len(decoded.Catalogs))
	}
}

func TestImageTruncatedCatalogDeclared(t *testing.T) {
	img := NewImage()
	raw := img.Encode()[:HeaderSize]
	raw = appendUint16(raw, CategoryFMMU)
	raw = appendUint16(raw, 8) // declares 16 bytes
	raw = append(raw, FmmuOutputs, FmmuInputs)

	var log captureLogger
	decoded, err := Decode(raw, &log)
	if err != nil {
		t.Fatalf("Decode() error: %v", err)
	}
	if len(log.errors) == 0 {
		t.Error("expected diagnostic for over-declared catalog length")
	}
	if len(decoded.Catalogs) != 1 {
		t.Fatalf("got %d catalogs, want 1", len(decoded.Catalogs))
	}
	fmmu := decoded.Catalogs[0].(*FmmuCatalog)
	if len(fmmu.Entries) != 2 {
		t.Errorf("got %d fmmu entries, want 2", len(fmmu.Entries))
	}
}
