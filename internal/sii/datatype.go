package sii

import "strings"

// DataType is the object-dictionary data-type code stored in PDO
// entries.
type DataType uint8

const (
	TypeUndef  DataType = 0x00
	TypeBool   DataType = 0x01
	TypeSint   DataType = 0x02
	TypeInt    DataType = 0x03
	TypeDint   DataType = 0x04
	TypeUsint  DataType = 0x05
	TypeUint   DataType = 0x06
	TypeUdint  DataType = 0x07
	TypeReal   DataType = 0x08
	TypeString DataType = 0x09
	TypeOfByte DataType = 0x0A
	TypeOfUint DataType = 0x0B
	TypeInt24  DataType = 0x10
	TypeLreal  DataType = 0x11
	TypeInt40  DataType = 0x12
	TypeInt48  DataType = 0x13
	TypeInt56  DataType = 0x14
	TypeInt64  DataType = 0x15
	TypeUint24 DataType = 0x16
	TypeUint40 DataType = 0x18
	TypeUint48 DataType = 0x19
	TypeUint56 DataType = 0x1A
	TypeUint64 DataType = 0x1B
)

var dataTypeNames = map[DataType]string{
	TypeUndef:  "UNDEF",
	TypeBool:   "BOOL",
	TypeSint:   "SINT",
	TypeInt:    "INT",
	TypeDint:   "DINT",
	TypeUsint:  "USINT",
	TypeUint:   "UINT",
	TypeUdint:  "UDINT",
	TypeReal:   "REAL",
	TypeString: "STRING",
	TypeOfByte: "OF BYTE",
	TypeOfUint: "OF UINT",
	TypeInt24:  "INT24",
	TypeLreal:  "LREAL",
	TypeInt40:  "INT40",
	TypeInt48:  "INT48",
	TypeInt56:  "INT56",
	TypeInt64:  "INT64",
	TypeUint24: "UINT24",
	TypeUint40: "UINT40",
	TypeUint48: "UINT48",
	TypeUint56: "UINT56",
	TypeUint64: "UINT64",
}

// String returns the CANopen name for the code, or "UNSET" for codes
// outside the table.
func (d DataType) String() string {
	if name, ok := dataTypeNames[d]; ok {
		return name
	}
	return "UNSET"
}

// DataTypeFromName maps a name from a device description to its code.
// The width-suffixed unsigned aliases UINT8, UINT16 and UINT32 all
// normalize to UINT; an unrecognized name maps to UNDEF.
func DataTypeFromName(name string) DataType {
	r := strings.NewReplacer("UINT16", "UINT", "UINT8", "UINT", "UINT32", "UINT")
	name = r.Replace(name)
	for code, n := range dataTypeNames {
		if n == name {
			return code
		}
	}
	return TypeUndef
}
