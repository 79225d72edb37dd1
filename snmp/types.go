package snmp

import (
	"fmt"
	"strconv"
)

// DataType identifies the decoded kind of an SNMP variable's value.
//
// The SNMP-specific application types (IPAddress, Counter32, Gauge32,
// TimeTicks, Opaque, Counter64) and the v2c exception markers
// (NoSuchObject, NoSuchInstance, EndOfMibView) sit alongside the plain
// ASN.1 universal types a varbind value can carry.
type DataType int

const (
	TypeInteger DataType = iota
	TypeOctetString
	TypeOID
	TypeNull

	TypeIPAddress
	TypeCounter32
	TypeGauge32
	TypeTimeTicks
	TypeOpaque
	TypeCounter64

	TypeNoSuchObject
	TypeNoSuchInstance
	TypeEndOfMibView
)

func (d DataType) String() string {
	switch d {
	case TypeInteger:
		return "INTEGER"
	case TypeOctetString:
		return "OCTET STRING"
	case TypeOID:
		return "OBJECT IDENTIFIER"
	case TypeNull:
		return "NULL"
	case TypeIPAddress:
		return "IpAddress"
	case TypeCounter32:
		return "Counter32"
	case TypeGauge32:
		return "Gauge32"
	case TypeTimeTicks:
		return "Timeticks"
	case TypeOpaque:
		return "Opaque"
	case TypeCounter64:
		return "Counter64"
	case TypeNoSuchObject:
		return "noSuchObject"
	case TypeNoSuchInstance:
		return "noSuchInstance"
	case TypeEndOfMibView:
		return "endOfMibView"
	default:
		return fmt.Sprintf("unknown(%d)", int(d))
	}
}

// Value is the decoded payload of a varbind. The concrete Go type behind
// raw depends on Type: int64 for Integer, []byte for OctetString/Opaque,
// OID for OID, [4]byte for IPAddress, uint32 for Counter32/Gauge32/
// TimeTicks, uint64 for Counter64, nil otherwise.
type Value struct {
	Type DataType
	raw  interface{}
}

// NewInteger builds an INTEGER value.
func NewInteger(v int64) Value { return Value{Type: TypeInteger, raw: v} }

// NewOctetString builds an OCTET STRING value.
func NewOctetString(v []byte) Value { return Value{Type: TypeOctetString, raw: append([]byte(nil), v...)} }

// NewOID builds an OBJECT IDENTIFIER value.
func NewOID(v OID) Value { return Value{Type: TypeOID, raw: v.Clone()} }

// NewNull builds a NULL value.
func NewNull() Value { return Value{Type: TypeNull} }

// NewIPAddress builds an IpAddress value from 4 octets.
func NewIPAddress(v [4]byte) Value { return Value{Type: TypeIPAddress, raw: v} }

// NewCounter32 builds a Counter32 value.
func NewCounter32(v uint32) Value { return Value{Type: TypeCounter32, raw: v} }

// NewGauge32 builds a Gauge32 value.
func NewGauge32(v uint32) Value { return Value{Type: TypeGauge32, raw: v} }

// NewTimeTicks builds a Timeticks value, in hundredths of a second.
func NewTimeTicks(v uint32) Value { return Value{Type: TypeTimeTicks, raw: v} }

// NewOpaque builds an Opaque value.
func NewOpaque(v []byte) Value { return Value{Type: TypeOpaque, raw: append([]byte(nil), v...)} }

// NewCounter64 builds a Counter64 value.
func NewCounter64(v uint64) Value { return Value{Type: TypeCounter64, raw: v} }

func exceptionValue(t DataType) Value { return Value{Type: t} }

// Int64 returns the value as a signed integer, if Type is Integer.
func (v Value) Int64() (int64, bool) {
	i, ok := v.raw.(int64)
	return i, ok
}

// Uint32 returns the value as an unsigned 32-bit integer, for
// Counter32/Gauge32/TimeTicks.
func (v Value) Uint32() (uint32, bool) {
	u, ok := v.raw.(uint32)
	return u, ok
}

// Uint64 returns the value as an unsigned 64-bit integer, for Counter64.
func (v Value) Uint64() (uint64, bool) {
	switch n := v.raw.(type) {
	case uint64:
		return n, true
	case uint32:
		return uint64(n), true
	}
	return 0, false
}

// Bytes returns the value as raw bytes, for OctetString/Opaque.
func (v Value) Bytes() ([]byte, bool) {
	b, ok := v.raw.([]byte)
	return b, ok
}

// IPAddress returns the value as a 4-octet address.
func (v Value) IPAddress() ([4]byte, bool) {
	b, ok := v.raw.([4]byte)
	return b, ok
}

// OIDValue returns the value as an OID, for Type OID.
func (v Value) OIDValue() (OID, bool) {
	o, ok := v.raw.(OID)
	return o, ok
}

// IsException reports whether the value is one of the v2c retrieval
// exceptions (noSuchObject, noSuchInstance, endOfMibView).
func (v Value) IsException() bool {
	switch v.Type {
	case TypeNoSuchObject, TypeNoSuchInstance, TypeEndOfMibView:
		return true
	}
	return false
}

// String renders the value in a plain, hint-agnostic form. Printer uses
// the hint-aware rendering rules in printer.go; this is used for logging
// and as the fallback when no hint applies.
func (v Value) String() string {
	switch v.Type {
	case TypeInteger:
		n, _ := v.Int64()
		return strconv.FormatInt(n, 10)
	case TypeOctetString, TypeOpaque:
		b, _ := v.Bytes()
		return string(b)
	case TypeOID:
		o, _ := v.OIDValue()
		return o.String()
	case TypeNull:
		return ""
	case TypeIPAddress:
		a, _ := v.IPAddress()
		return fmt.Sprintf("%d.%d.%d.%d", a[0], a[1], a[2], a[3])
	case TypeCounter32, TypeGauge32, TypeTimeTicks:
		n, _ := v.Uint32()
		return strconv.FormatUint(uint64(n), 10)
	case TypeCounter64:
		n, _ := v.Uint64()
		return strconv.FormatUint(n, 10)
	case TypeNoSuchObject:
		return "No Such Object available on this agent at this OID"
	case TypeNoSuchInstance:
		return "No Such Instance currently exists at this OID"
	case TypeEndOfMibView:
		return "No more variables left in this MIB View"
	default:
		return ""
	}
}

// Varbind is a single (name, value) binding carried by a PDU.
type Varbind struct {
	Name  OID
	Value Value
}

// PDUType identifies the SNMP operation a PDU encodes, using the wire
// value of its context-class tag.
type PDUType byte

const (
	GetRequest     PDUType = 0xA0
	GetNextRequest PDUType = 0xA1
	GetResponse    PDUType = 0xA2
	SetRequest     PDUType = 0xA3
	TrapPDUv1      PDUType = 0xA4
	GetBulkRequest PDUType = 0xA5
	InformRequest  PDUType = 0xA6
	SNMPv2Trap     PDUType = 0xA7
)

func (t PDUType) String() string {
	switch t {
	case GetRequest:
		return "GetRequest-PDU"
	case GetNextRequest:
		return "GetNextRequest-PDU"
	case GetResponse:
		return "GetResponse-PDU"
	case SetRequest:
		return "SetRequest-PDU"
	case TrapPDUv1:
		return "Trap-PDU"
	case GetBulkRequest:
		return "GetBulkRequest-PDU"
	case InformRequest:
		return "InformRequest-PDU"
	case SNMPv2Trap:
		return "SNMPv2-Trap-PDU"
	default:
		return fmt.Sprintf("PDU(0x%02x)", byte(t))
	}
}

// Version is the SNMP message version carried in the envelope.
type Version int

const (
	V1  Version = 0
	V2c Version = 1
)

func (v Version) String() string {
	switch v {
	case V1:
		return "1"
	case V2c:
		return "2c"
	default:
		return strconv.Itoa(int(v))
	}
}

// PDU is a decoded SNMP protocol data unit. For GetBulkRequest, Error
// and ErrorIndex carry NonRepeaters and MaxRepetitions respectively,
// matching the wire overload described by RFC 3416.
type PDU struct {
	Type        PDUType
	RequestID   int32
	Error       ErrorStatus
	ErrorIndex  int32
	Varbinds    []Varbind
}

// NonRepeaters returns the GetBulk non-repeaters field.
func (p *PDU) NonRepeaters() int32 { return int32(p.Error) }

// MaxRepetitions returns the GetBulk max-repetitions field.
func (p *PDU) MaxRepetitions() int32 { return p.ErrorIndex }
