// Package esi maps EtherCATInfo device description documents to and
// from the SII image model. It only extracts and attaches scalar
// values; all byte-level layout lives in internal/sii.
package esi

import (
	"encoding/xml"
	"fmt"
	"strconv"
	"strings"
)

// EtherCATInfo is the root of a device description document. Only the
// elements the SII image carries are modeled.
type EtherCATInfo struct {
	XMLName      xml.Name     `xml:"EtherCATInfo"`
	Vendor       Vendor       `xml:"Vendor"`
	Descriptions Descriptions `xml:"Descriptions"`
}

type Vendor struct {
	ID string `xml:"Id"`
}

type Descriptions struct {
	Groups  []Group  `xml:"Groups>Group"`
	Devices []Device `xml:"Devices>Device"`
}

type Group struct {
	Type string `xml:"Type"`
	Name string `xml:"Name,omitempty"`
}

type Device struct {
	Physics string     `xml:"Physics,attr,omitempty"`
	Type    DeviceType `xml:"Type"`
	Name    string     `xml:"Name,omitempty"`
	Fmmu    []string   `xml:"Fmmu,omitempty"`
	Sm      []Sm       `xml:"Sm,omitempty"`
	Mailbox *Mailbox   `xml:"Mailbox,omitempty"`
	RxPdo   []Pdo      `xml:"RxPdo,omitempty"`
	TxPdo   []Pdo      `xml:"TxPdo,omitempty"`
	Dc      *Dc        `xml:"Dc,omitempty"`
	Eeprom  *Eeprom    `xml:"Eeprom,omitempty"`
}

type DeviceType struct {
	Text        string `xml:",chardata"`
	ProductCode string `xml:"ProductCode,attr,omitempty"`
	RevisionNo  string `xml:"RevisionNo,attr,omitempty"`
}

// Sm is one sync-manager declaration. The element text names its role
// (MBoxOut, MBoxIn, Outputs, Inputs).
type Sm struct {
	Name         string `xml:",chardata"`
	Enable       string `xml:"Enable,attr,omitempty"`
	StartAddress string `xml:"StartAddress,attr,omitempty"`
	ControlByte  string `xml:"ControlByte,attr,omitempty"`
	DefaultSize  string `xml:"DefaultSize,attr,omitempty"`
}

type Mailbox struct {
	CoE *MailboxService `xml:"CoE,omitempty"`
	EoE *MailboxService `xml:"EoE,omitempty"`
	FoE *MailboxService `xml:"FoE,omitempty"`
	VoE *MailboxService `xml:"VoE,omitempty"`
}

// MailboxService carries the capability attributes of a CoE or FoE
// declaration; for EoE and VoE only presence matters.
type MailboxService struct {
	SdoInfo        string `xml:"SdoInfo,attr,omitempty"`
	PdoAssign      string `xml:"PdoAssign,attr,omitempty"`
	PdoConfig      string `xml:"PdoConfig,attr,omitempty"`
	PdoUpload      string `xml:"PdoUpload,attr,omitempty"`
	CompleteAccess string `xml:"CompleteAccess,attr,omitempty"`
}

type Pdo struct {
	Sm                  string     `xml:"Sm,attr,omitempty"`
	Fixed               string     `xml:"Fixed,attr,omitempty"`
	Mandatory           string     `xml:"Mandatory,attr,omitempty"`
	Virtual             string     `xml:"Virtual,attr,omitempty"`
	OverwrittenByModule string     `xml:"OverwrittenByModule,attr,omitempty"`
	Index               string     `xml:"Index"`
	Name                string     `xml:"Name"`
	Entries             []PdoEntry `xml:"Entry"`
}

type PdoEntry struct {
	Index    string `xml:"Index"`
	SubIndex string `xml:"SubIndex"`
	BitLen   string `xml:"BitLen"`
	Name     string `xml:"Name"`
	DataType string `xml:"DataType"`
}

type Dc struct {
	OpModes []OpMode `xml:"OpMode"`
}

type OpMode struct {
	Name           string `xml:"Name,omitempty"`
	Desc           string `xml:"Desc,omitempty"`
	AssignActivate string `xml:"AssignActivate,omitempty"`
	CycleTimeSync0 string `xml:"CycleTimeSync0,omitempty"`
	ShiftTimeSync0 string `xml:"ShiftTimeSync0,omitempty"`
	CycleTimeSync1 string `xml:"CycleTimeSync1,omitempty"`
	ShiftTimeSync1 string `xml:"ShiftTimeSync1,omitempty"`
}

type Eeprom struct {
	ByteSize   string `xml:"ByteSize,omitempty"`
	ConfigData string `xml:"ConfigData,omitempty"`
}

// Parse reads an EtherCATInfo document.
func Parse(data []byte) (*EtherCATInfo, error) {
	var doc EtherCATInfo
	if err := xml.Unmarshal(data, &doc); err != nil {
		return nil, err
	}
	return &doc, nil
}

// parseValue decodes a document number, which is either decimal or hex
// with the "#x" prefix. Empty or malformed values yield 0.
func parseValue(s string) uint64 {
	s = strings.TrimSpace(s)
	if s == "" {
		return 0
	}
	var (
		n   uint64
		err error
	)
	if strings.HasPrefix(s, "#x") {
		n, err = strconv.ParseUint(s[2:], 16, 64)
	} else {
		n, err = strconv.ParseUint(s, 10, 64)
	}
	if err != nil {
		return 0
	}
	return n
}

// parseBool reports whether a document attribute is set: "true" or "1".
func parseBool(s string) bool {
	return s == "true" || s == "1"
}

// hexValue renders a number in the document's "#x" notation with the
// given number of hex digits.
func hexValue(v uint64, digits int) string {
	return fmt.Sprintf("#x%0*x", digits, v)
}
