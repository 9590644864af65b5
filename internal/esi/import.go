package esi

import (
	"encoding/binary"
	"encoding/hex"
	"fmt"
	"strings"

	"github.com/rvollmer/esitool/internal/sii"
)

// BuildImage constructs an SII image model from a parsed device
// description. Identity fields have no defaults: a document without a
// vendor id, product code, or revision number cannot produce an image.
func BuildImage(doc *EtherCATInfo) (*sii.Image, error) {
	if len(doc.Descriptions.Devices) == 0 {
		return nil, fmt.Errorf("document describes no device")
	}
	dev := &doc.Descriptions.Devices[0]

	img := sii.NewImage()

	if err := buildStdConfig(img, doc, dev); err != nil {
		return nil, err
	}
	buildPreamble(img, dev)

	// Catalog construction order follows the reference tool; encode
	// reorders by category anyway.
	img.Catalogs = append(img.Catalogs, &sii.StringsCatalog{})
	img.Catalogs = append(img.Catalogs, buildGeneral(img, doc, dev))
	if fmmu := buildFmmu(dev); len(fmmu.Entries) > 0 {
		img.Catalogs = append(img.Catalogs, fmmu)
	}
	if sm := buildSyncManagers(dev); len(sm.Entries) > 0 {
		img.Catalogs = append(img.Catalogs, sm)
	}
	for i := range dev.RxPdo {
		cat, err := buildPdo(img, sii.NewRxPdo(), &dev.RxPdo[i])
		if err != nil {
			return nil, fmt.Errorf("RxPdo %d: %w", i, err)
		}
		img.Catalogs = append(img.Catalogs, cat)
	}
	for i := range dev.TxPdo {
		cat, err := buildPdo(img, sii.NewTxPdo(), &dev.TxPdo[i])
		if err != nil {
			return nil, fmt.Errorf("TxPdo %d: %w", i, err)
		}
		img.Catalogs = append(img.Catalogs, cat)
	}
	if dev.Dc != nil {
		for i := range dev.Dc.OpModes {
			img.Catalogs = append(img.Catalogs, buildDClock(img, &dev.Dc.OpModes[i]))
		}
	}

	return img, nil
}

func buildStdConfig(img *sii.Image, doc *EtherCATInfo, dev *Device) error {
	if strings.TrimSpace(doc.Vendor.ID) == "" {
		return fmt.Errorf("missing Vendor/Id")
	}
	if strings.TrimSpace(dev.Type.ProductCode) == "" {
		return fmt.Errorf("missing Device/Type ProductCode")
	}
	if strings.TrimSpace(dev.Type.RevisionNo) == "" {
		return fmt.Errorf("missing Device/Type RevisionNo")
	}

	cfg := &img.Config
	cfg.VendorID = uint32(parseValue(doc.Vendor.ID))
	cfg.ProductID = uint32(parseValue(dev.Type.ProductCode))
	cfg.RevisionID = uint32(parseValue(dev.Type.RevisionNo))
	cfg.Serial = 0
	cfg.Version = 1

	for _, sm := range dev.Sm {
		switch sm.Name {
		case "MBoxOut":
			cfg.StdRecvMboxOffset = uint16(parseValue(sm.StartAddress))
			cfg.StdRecvMboxSize = uint16(parseValue(sm.DefaultSize))
		case "MBoxIn":
			cfg.StdSendMboxOffset = uint16(parseValue(sm.StartAddress))
			cfg.StdSendMboxSize = uint16(parseValue(sm.DefaultSize))
		}
	}

	if dev.Eeprom != nil {
		if byteSize := parseValue(dev.Eeprom.ByteSize); byteSize > 0 {
			cfg.EEPROMSize = sii.EEPROMSizeWords(int(byteSize))
		}
	}

	if mb := dev.Mailbox; mb != nil {
		if mb.CoE != nil {
			cfg.MailboxProtocol |= sii.MailboxCoE
		}
		if mb.EoE != nil {
			cfg.MailboxProtocol |= sii.MailboxEoE
		}
		if mb.FoE != nil {
			cfg.MailboxProtocol |= sii.MailboxFoE
		}
		if mb.VoE != nil {
			cfg.MailboxProtocol |= sii.MailboxVoE
		}
	}
	return nil
}

// buildPreamble fills the PDI configuration fields from the EEPROM
// ConfigData hex blob when present. Shorter blobs fill what they cover.
func buildPreamble(img *sii.Image, dev *Device) {
	if dev.Eeprom == nil || dev.Eeprom.ConfigData == "" {
		return
	}
	clean := strings.Map(func(r rune) rune {
		if r == ' ' || r == '\n' || r == '\t' || r == '\r' {
			return -1
		}
		return r
	}, dev.Eeprom.ConfigData)
	data, err := hex.DecodeString(clean)
	if err != nil {
		return
	}
	fields := []*uint16{
		&img.Preamble.PDICtrl,
		&img.Preamble.PDIConf,
		&img.Preamble.SyncImpulse,
		&img.Preamble.PDIConf2,
		&img.Preamble.Alias,
	}
	for i, f := range fields {
		if len(data) < (i+1)*2 {
			break
		}
		*f = binary.LittleEndian.Uint16(data[i*2:])
	}
}

func buildGeneral(img *sii.Image, doc *EtherCATInfo, dev *Device) *sii.GeneralCatalog {
	// The group type is interned before the device name; stored string
	// indices depend on this order.
	cat := &sii.GeneralCatalog{Reserved2: 1}
	if len(doc.Descriptions.Groups) > 0 {
		cat.GroupIndex = uint8(img.Strings.Intern(doc.Descriptions.Groups[0].Type))
	}
	cat.NameIndex = uint8(img.Strings.Intern(dev.Name))

	if mb := dev.Mailbox; mb != nil {
		if mb.CoE != nil {
			cat.CoEDetails = serviceDetails(mb.CoE)
		}
		if mb.FoE != nil {
			cat.FoEDetails = serviceDetails(mb.FoE)
		}
	}

	// Physics is one character per port: Y = MII, K = EBUS.
	if dev.Physics != "" {
		var ports [4]uint8
		for i, c := range dev.Physics {
			if i >= len(ports) {
				break
			}
			switch c {
			case 'Y':
				ports[i] = sii.PortMII
			case 'K':
				ports[i] = sii.PortEBUS
			}
		}
		cat.PhysPort01 = ports[3]<<4 | ports[2]
		cat.PhysPort23 = ports[1]<<4 | ports[0]
	}
	return cat
}

func serviceDetails(svc *MailboxService) uint8 {
	details := sii.DetailEnableSDO
	if parseBool(svc.SdoInfo) {
		details |= sii.DetailEnableSDOInfo
	}
	if parseBool(svc.PdoAssign) {
		details |= sii.DetailEnablePDOAssign
	}
	if parseBool(svc.PdoConfig) {
		details |= sii.DetailEnablePDOConfig
	}
	if parseBool(svc.PdoUpload) {
		details |= sii.DetailEnableUploadAtStart
	}
	if parseBool(svc.CompleteAccess) {
		details |= sii.DetailEnableCompleteAccess
	}
	return details
}

func buildFmmu(dev *Device) *sii.FmmuCatalog {
	cat := &sii.FmmuCatalog{}
	for _, name := range dev.Fmmu {
		usage := sii.FmmuUnused
		switch name {
		case "Outputs":
			usage = sii.FmmuOutputs
		case "Inputs":
			usage = sii.FmmuInputs
		case "MBoxState":
			usage = sii.FmmuMailboxState
		}
		cat.Entries = append(cat.Entries, sii.FmmuEntry{Usage: usage})
	}
	return cat
}

func buildSyncManagers(dev *Device) *sii.SyncManagerCatalog {
	cat := &sii.SyncManagerCatalog{}
	for _, sm := range dev.Sm {
		entry := sii.SyncManagerEntry{
			PhysAddress: uint16(parseValue(sm.StartAddress)),
			Length:      uint16(parseValue(sm.DefaultSize)),
			Control:     uint8(parseValue(sm.ControlByte)),
			Enable:      uint8(parseValue(sm.Enable)),
		}
		switch sm.Name {
		case "MBoxOut":
			entry.Type = sii.SyncMMailboxOut
		case "MBoxIn":
			entry.Type = sii.SyncMMailboxIn
		case "Outputs":
			entry.Type = sii.SyncMOutputs
		case "Inputs":
			entry.Type = sii.SyncMInputs
		}
		cat.Entries = append(cat.Entries, entry)
	}
	return cat
}

func buildPdo(img *sii.Image, cat *sii.PdoCatalog, pdo *Pdo) (*sii.PdoCatalog, error) {
	if strings.TrimSpace(pdo.Index) == "" {
		return nil, fmt.Errorf("missing Index")
	}
	if strings.TrimSpace(pdo.Sm) == "" {
		return nil, fmt.Errorf("missing Sm attribute")
	}
	if pdo.Name == "" {
		return nil, fmt.Errorf("missing Name")
	}

	cat.Index = uint16(parseValue(pdo.Index))
	cat.SyncManager = uint8(parseValue(pdo.Sm))
	cat.NameIndex = uint8(img.Strings.Intern(pdo.Name))
	if parseBool(pdo.Mandatory) {
		cat.Flags |= sii.PdoMandatory
	}
	if parseBool(pdo.Fixed) {
		cat.Flags |= sii.PdoFixed
	}
	if parseBool(pdo.Virtual) {
		cat.Flags |= sii.PdoVirtual
	}
	if parseBool(pdo.OverwrittenByModule) {
		cat.Flags |= sii.PdoOverwrittenByModule
	}

	for i := range pdo.Entries {
		e := &pdo.Entries[i]
		if strings.TrimSpace(e.Index) == "" {
			return nil, fmt.Errorf("entry %d: missing Index", i)
		}
		if strings.TrimSpace(e.BitLen) == "" {
			return nil, fmt.Errorf("entry %d: missing BitLen", i)
		}
		cat.Entries = append(cat.Entries, sii.PdoEntry{
			Index:     uint16(parseValue(e.Index)),
			SubIndex:  uint8(parseValue(e.SubIndex)),
			NameIndex: uint8(img.Strings.Intern(e.Name)),
			DataType:  sii.DataTypeFromName(e.DataType),
			BitLength: uint8(parseValue(e.BitLen)),
		})
	}
	cat.EntryCount = uint8(len(cat.Entries))
	return cat, nil
}

func buildDClock(img *sii.Image, op *OpMode) *sii.DClockCatalog {
	return &sii.DClockCatalog{
		NameIndex:  uint8(img.Strings.Intern(op.Name)),
		DescIndex:  uint8(img.Strings.Intern(op.Desc)),
		CycleTime0: uint32(parseValue(op.CycleTimeSync0)),
		ShiftTime0: uint32(parseValue(op.ShiftTimeSync0)),
		ShiftTime1: uint32(parseValue(op.ShiftTimeSync1)),
	}
}
