package sii

import "fmt"

// Image is the in-memory model of one SII EEPROM image: the fixed
// header records plus the ordered catalog sequence and the shared
// string table. An Image is built once per conversion, either by Decode
// or from a device description document, and Encode is a pure read.
type Image struct {
	Preamble Preamble
	Config   StdConfig
	Catalogs []Catalog
	Strings  *StringTable
}

// NewImage returns an empty image with an initialized string table.
func NewImage() *Image {
	return &Image{Strings: NewStringTable()}
}

// encodeOrder is the canonical category emission order. Encode walks
// this table, not the stored catalog order.
var encodeOrder = []uint16{
	CategoryStrings,
	CategoryGeneral,
	CategoryFMMU,
	CategorySyncM,
	CategoryTxPDO,
	CategoryRxPDO,
	CategoryDClock,
}

// Decode parses a raw EEPROM image. Structural problems inside records
// are reported to log and decoding continues; only an image too short
// to hold the fixed header is an error. A nil log discards diagnostics.
func Decode(data []byte, log Logger) (*Image, error) {
	if log == nil {
		log = NopLogger{}
	}
	if len(data) < HeaderSize {
		return nil, fmt.Errorf("image too short: %d bytes, need %d for preamble and stdconfig", len(data), HeaderSize)
	}
	img := NewImage()
	img.Preamble = decodePreamble(data[:PreambleSize], log)
	img.Config = decodeStdConfig(data[PreambleSize:HeaderSize], log)

	offset := HeaderSize
	for offset+4 <= len(data) {
		code := readUint16(data[offset:])
		size := int(readUint16(data[offset+2:])) * 2
		if code == CategoryEnd {
			break
		}
		offset += 4
		end := offset + size
		if end > len(data) {
			log.Error("catalog 0x%04X: declared %d bytes, only %d remain", code, size, len(data)-offset)
			end = len(data)
		}
		payload := data[offset:end]

		switch code {
		case CategoryStrings:
			st, cat := decodeStrings(payload, log)
			img.Strings = st
			img.Catalogs = append(img.Catalogs, cat)
		case CategoryGeneral:
			img.Catalogs = append(img.Catalogs, decodeGeneral(payload, log))
		case CategoryFMMU:
			img.Catalogs = append(img.Catalogs, decodeFmmu(payload))
		case CategorySyncM:
			img.Catalogs = append(img.Catalogs, decodeSyncManager(payload))
		case CategoryTxPDO, CategoryRxPDO:
			img.Catalogs = append(img.Catalogs, decodePdo(code, payload, log))
		case CategoryDClock:
			img.Catalogs = append(img.Catalogs, decodeDClock(payload, log))
		default:
			if size < UnknownKeepLimit {
				log.Info("unknown catalog 0x%04X (%d bytes), keeping raw payload", code, size)
				img.Catalogs = append(img.Catalogs, &UnknownCatalog{Code: code, Data: payload})
			} else {
				// Intentional compatibility with the reference tool:
				// large unrecognized sections are lost.
				log.Error("unknown catalog 0x%04X (%d bytes), dropping payload; round trip is no longer byte-exact", code, size)
			}
		}
		offset = end
	}
	return img, nil
}

// Encode serializes the image: preamble (with recomputed checksum) and
// stdconfig first, then catalogs in canonical category order, each
// framed as category code and word count, then retained unknown
// catalogs in stored order, then the end sentinel. Catalogs whose
// payload encodes to zero bytes are omitted entirely.
func (img *Image) Encode() []byte {
	out := img.Preamble.Encode()
	out = append(out, img.Config.Encode()...)
	for _, code := range encodeOrder {
		for _, cat := range img.Catalogs {
			if cat.Category() != code {
				continue
			}
			out = appendCatalog(out, code, cat.Encode(img.Strings))
		}
	}
	for _, cat := range img.Catalogs {
		if u, ok := cat.(*UnknownCatalog); ok {
			out = appendCatalog(out, u.Code, u.Encode(img.Strings))
		}
	}
	out = appendUint16(out, CategoryEnd)
	return out
}

func appendCatalog(dst []byte, code uint16, payload []byte) []byte {
	if len(payload) == 0 {
		return dst
	}
	dst = appendUint16(dst, code)
	dst = appendUint16(dst, uint16(len(payload)/2))
	return append(dst, payload...)
}

// General returns the general catalog, or nil if the image has none.
func (img *Image) General() *GeneralCatalog {
	for _, cat := range img.Catalogs {
		if g, ok := cat.(*GeneralCatalog); ok {
			return g
		}
	}
	return nil
}
