package esi

import (
	"encoding/xml"
	"strconv"

	"github.com/rvollmer/esitool/internal/sii"
)

// BuildDocument renders a decoded image back into an EtherCATInfo
// document skeleton carrying the values the image holds. The inverse of
// BuildImage is lossy in both directions; this mirrors the reference
// tool's export.
func BuildDocument(img *sii.Image) *EtherCATInfo {
	doc := &EtherCATInfo{}
	doc.Vendor.ID = strconv.FormatUint(uint64(img.Config.VendorID), 10)

	dev := Device{
		Type: DeviceType{
			ProductCode: hexValue(uint64(img.Config.ProductID), 8),
			RevisionNo:  hexValue(uint64(img.Config.RevisionID), 8),
		},
	}

	if g := img.General(); g != nil {
		dev.Name = img.Strings.Resolve(int(g.NameIndex))
		dev.Type.Text = img.Strings.Resolve(int(g.OrderIndex))
	}

	for _, cat := range img.Catalogs {
		switch c := cat.(type) {
		case *sii.SyncManagerCatalog:
			for _, e := range c.Entries {
				dev.Sm = append(dev.Sm, Sm{
					Name:         e.TypeName(),
					Enable:       strconv.Itoa(int(e.Enable)),
					StartAddress: hexValue(uint64(e.PhysAddress), 4),
					ControlByte:  hexValue(uint64(e.Control), 2),
					DefaultSize:  strconv.Itoa(int(e.Length)),
				})
			}
		case *sii.PdoCatalog:
			pdo := exportPdo(img, c)
			if c.Code == sii.CategoryTxPDO {
				dev.TxPdo = append(dev.TxPdo, pdo)
			} else {
				dev.RxPdo = append(dev.RxPdo, pdo)
			}
		}
	}

	doc.Descriptions.Devices = []Device{dev}
	return doc
}

func exportPdo(img *sii.Image, c *sii.PdoCatalog) Pdo {
	pdo := Pdo{
		Sm:        strconv.Itoa(int(c.SyncManager)),
		Fixed:     "true",
		Mandatory: "true",
		Index:     hexValue(uint64(c.Index), 4),
		Name:      img.Strings.Resolve(int(c.NameIndex)),
	}
	for _, e := range c.Entries {
		pdo.Entries = append(pdo.Entries, PdoEntry{
			Index:    hexValue(uint64(e.Index), 4),
			SubIndex: strconv.Itoa(int(e.SubIndex)),
			BitLen:   strconv.Itoa(int(e.BitLength)),
			Name:     img.Strings.Resolve(int(e.NameIndex)),
			DataType: e.DataType.String(),
		})
	}
	return pdo
}

// Marshal renders a document as indented XML with the standard header.
func Marshal(doc *EtherCATInfo) ([]byte, error) {
	out, err := xml.MarshalIndent(doc, "", "  ")
	if err != nil {
		return nil, err
	}
	return append([]byte(xml.Header), append(out, '\n')...), nil
}
