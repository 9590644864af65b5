package sii

// Round-trip verification. Re-encoding decoded data and diffing it
// against the captured bytes is purely diagnostic; nothing here mutates
// the model or influences encode/decode behavior.

// Mismatch is one differing byte between two buffers.
type Mismatch struct {
	Offset int
	Got    byte
	Want   byte
}

// DiffBytes compares got against want and returns every differing
// position. A length difference is reported as mismatches against a
// zero byte on the shorter side.
func DiffBytes(got, want []byte) []Mismatch {
	n := len(got)
	if len(want) > n {
		n = len(want)
	}
	var diffs []Mismatch
	for i := 0; i < n; i++ {
		var g, w byte
		if i < len(got) {
			g = got[i]
		}
		if i < len(want) {
			w = want[i]
		}
		if g != w {
			diffs = append(diffs, Mismatch{Offset: i, Got: g, Want: w})
		}
	}
	return diffs
}

// VerifyCatalog re-encodes a decoded catalog and diffs it against the
// payload captured at decode time. It returns (nil, false) for catalogs
// that were not decoded from bytes.
func VerifyCatalog(cat Catalog, st *StringTable) ([]Mismatch, bool) {
	raw := cat.Raw()
	if raw == nil {
		return nil, false
	}
	return DiffBytes(cat.Encode(st), raw), true
}

// VerifyImage re-encodes the whole image and diffs it against the
// original input bytes.
func (img *Image) VerifyImage(original []byte) []Mismatch {
	return DiffBytes(img.Encode(), original)
}
