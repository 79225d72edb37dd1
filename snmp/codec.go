// Package snmp implements the protocol core of an SNMPv1/v2c command-line
// client: BER/ASN.1 encoding, the OID model, the MIB symbol table, request
// transport, the agent session/retransmit loop, the walk state machine, and
// hint-aware value presentation.
package snmp

import (
	"encoding/asn1"
	"encoding/binary"

	"github.com/geoffgarside/ber"
	"github.com/pkg/errors"
)

// Class is a BER identifier-octet class.
type Class int

const (
	ClassUniversal Class = iota
	ClassApplication
	ClassContextSpecific
	ClassPrivate
)

// Element is a single decoded/encodable BER TLV: class, constructed flag,
// tag number, and content bytes (unparsed, for constructed elements).
type Element struct {
	Class       Class
	Constructed bool
	Tag         int
	Bytes       []byte
}

func elementFromRaw(raw asn1.RawValue) Element {
	return Element{Class: Class(raw.Class), Constructed: raw.IsCompound, Tag: raw.Tag, Bytes: raw.Bytes}
}

// EncodeElement serializes e using minimal-length identifier and length
// octets around its content, for any class/tag/constructed combination.
func EncodeElement(e Element) ([]byte, error) {
	raw := asn1.RawValue{Class: int(e.Class), Tag: e.Tag, IsCompound: e.Constructed, Bytes: e.Bytes}
	b, err := ber.Marshal(raw)
	if err != nil {
		return nil, errors.Wrap(err, "encode element")
	}
	return b, nil
}

// DecodeElement parses a single BER TLV from b, returning the element and
// the unconsumed remainder of b. Malformed length forms and truncated
// content are reported as *ParseError.
func DecodeElement(b []byte) (Element, []byte, error) {
	var raw asn1.RawValue
	rest, err := ber.Unmarshal(b, &raw)
	if err != nil {
		return Element{}, nil, &ParseError{Message: err.Error(), Offset: len(b) - len(rest)}
	}
	return elementFromRaw(raw), rest, nil
}

// Application-class tags used by SNMP (spec.md §3).
const (
	tagIPAddress = 0x00
	tagCounter32 = 0x01
	tagGauge32   = 0x02
	tagTimeTicks = 0x03
	tagOpaque    = 0x04
	tagCounter64 = 0x06
)

// Context-class tags for the v2c retrieval exceptions, carried as the
// value of a varbind rather than as a PDU type.
const (
	tagNoSuchObject   = 0
	tagNoSuchInstance = 1
	tagEndOfMibView   = 2
)

const (
	tagASN1Integer    = 2
	tagASN1OctetStr   = 4
	tagASN1Null       = 5
	tagASN1ObjectID   = 6
)

// encodeValue builds the BER element for a varbind's value.
func encodeValue(v Value) (asn1.RawValue, error) {
	switch v.Type {
	case TypeNull, TypeNoSuchObject, TypeNoSuchInstance, TypeEndOfMibView:
		return encodeException(v.Type)
	case TypeInteger:
		n, _ := v.Int64()
		b, err := EncodeElement(Element{Class: ClassUniversal, Tag: tagASN1Integer, Bytes: encodeSignedInteger(n)})
		return rawValueOrErr(b, err)
	case TypeOctetString:
		by, _ := v.Bytes()
		b, err := EncodeElement(Element{Class: ClassUniversal, Tag: tagASN1OctetStr, Bytes: by})
		return rawValueOrErr(b, err)
	case TypeOID:
		o, _ := v.OIDValue()
		b, err := EncodeElement(Element{Class: ClassUniversal, Tag: tagASN1ObjectID, Bytes: encodeOIDContent(o)})
		return rawValueOrErr(b, err)
	case TypeIPAddress:
		a, _ := v.IPAddress()
		b, err := EncodeElement(Element{Class: ClassApplication, Tag: tagIPAddress, Bytes: a[:]})
		return rawValueOrErr(b, err)
	case TypeOpaque:
		by, _ := v.Bytes()
		b, err := EncodeElement(Element{Class: ClassApplication, Tag: tagOpaque, Bytes: by})
		return rawValueOrErr(b, err)
	case TypeCounter32:
		n, _ := v.Uint32()
		b, err := EncodeElement(Element{Class: ClassApplication, Tag: tagCounter32, Bytes: encodeUnsignedMinimal(uint64(n))})
		return rawValueOrErr(b, err)
	case TypeGauge32:
		n, _ := v.Uint32()
		b, err := EncodeElement(Element{Class: ClassApplication, Tag: tagGauge32, Bytes: encodeUnsignedMinimal(uint64(n))})
		return rawValueOrErr(b, err)
	case TypeTimeTicks:
		n, _ := v.Uint32()
		b, err := EncodeElement(Element{Class: ClassApplication, Tag: tagTimeTicks, Bytes: encodeUnsignedMinimal(uint64(n))})
		return rawValueOrErr(b, err)
	case TypeCounter64:
		n, _ := v.Uint64()
		b, err := EncodeElement(Element{Class: ClassApplication, Tag: tagCounter64, Bytes: encodeUnsignedMinimal(n)})
		return rawValueOrErr(b, err)
	default:
		return asn1.RawValue{}, errors.Errorf("snmp: cannot encode value of type %v", v.Type)
	}
}

func encodeException(t DataType) (asn1.RawValue, error) {
	if t == TypeNull {
		return asn1.NullRawValue, nil
	}
	tag := map[DataType]int{TypeNoSuchObject: tagNoSuchObject, TypeNoSuchInstance: tagNoSuchInstance, TypeEndOfMibView: tagEndOfMibView}[t]
	b, err := EncodeElement(Element{Class: ClassContextSpecific, Tag: tag})
	return rawValueOrErr(b, err)
}

func rawValueOrErr(b []byte, err error) (asn1.RawValue, error) {
	if err != nil {
		return asn1.RawValue{}, err
	}
	return asn1.RawValue{FullBytes: b}, nil
}

// decodeValue is the inverse of encodeValue: given the raw element for a
// varbind's value (either unmarshaled from the wire or carrying only the
// FullBytes that encodeValue produces), it determines the SNMP data type
// from class/tag and decodes the content accordingly.
func decodeValue(raw *asn1.RawValue) (Value, error) {
	e := elementFromRaw(*raw)
	if raw.Bytes == nil && len(raw.FullBytes) > 0 {
		parsed, _, err := DecodeElement(raw.FullBytes)
		if err != nil {
			return Value{}, err
		}
		e = parsed
	}
	switch e.Class {
	case ClassUniversal:
		switch e.Tag {
		case tagASN1Integer:
			n, err := decodeSignedInteger(e.Bytes)
			if err != nil {
				return Value{}, err
			}
			return NewInteger(n), nil
		case tagASN1OctetStr:
			return NewOctetString(e.Bytes), nil
		case tagASN1Null:
			return NewNull(), nil
		case tagASN1ObjectID:
			oid, err := decodeOIDContent(e.Bytes)
			if err != nil {
				return Value{}, err
			}
			return NewOID(oid), nil
		}
	case ClassApplication:
		switch e.Tag {
		case tagIPAddress:
			if len(e.Bytes) != 4 {
				return Value{}, errors.Errorf("snmp: IpAddress must be 4 octets, got %d", len(e.Bytes))
			}
			var a [4]byte
			copy(a[:], e.Bytes)
			return NewIPAddress(a), nil
		case tagCounter32:
			n, err := decodeUnsigned(e.Bytes)
			return NewCounter32(uint32(n)), err
		case tagGauge32:
			n, err := decodeUnsigned(e.Bytes)
			return NewGauge32(uint32(n)), err
		case tagTimeTicks:
			n, err := decodeUnsigned(e.Bytes)
			return NewTimeTicks(uint32(n)), err
		case tagOpaque:
			return NewOpaque(e.Bytes), nil
		case tagCounter64:
			n, err := decodeUnsigned(e.Bytes)
			return NewCounter64(n), err
		}
	case ClassContextSpecific:
		switch e.Tag {
		case tagNoSuchObject:
			return exceptionValue(TypeNoSuchObject), nil
		case tagNoSuchInstance:
			return exceptionValue(TypeNoSuchInstance), nil
		case tagEndOfMibView:
			return exceptionValue(TypeEndOfMibView), nil
		}
	}
	return Value{}, errors.Errorf("snmp: unsupported class %d tag %d", e.Class, e.Tag)
}

// encodeSignedInteger returns the minimum-length two's-complement
// big-endian representation of v, per spec.md §4.1.
func encodeSignedInteger(v int64) []byte {
	b := make([]byte, 8)
	binary.BigEndian.PutUint64(b, uint64(v))
	for len(b) > 1 && ((b[0] == 0x00 && b[1]&0x80 == 0) || (b[0] == 0xff && b[1]&0x80 != 0)) {
		b = b[1:]
	}
	return b
}

func decodeSignedInteger(b []byte) (int64, error) {
	if len(b) == 0 {
		return 0, errors.New("snmp: empty INTEGER content")
	}
	if len(b) > 8 {
		return 0, errors.New("snmp: INTEGER content too large")
	}
	v := int64(int8(b[0]))
	for _, by := range b[1:] {
		v = v<<8 | int64(by)
	}
	return v, nil
}

// encodeUnsignedMinimal returns the minimum-length BER INTEGER content
// representing the non-negative value v, adding a leading zero byte when
// needed so the value never appears negative. Used for the application
// integer types (Counter32/Gauge32/TimeTicks/Counter64), which share
// INTEGER content encoding but are never signed.
func encodeUnsignedMinimal(v uint64) []byte {
	b := make([]byte, 8)
	binary.BigEndian.PutUint64(b, v)
	for len(b) > 1 && b[0] == 0x00 {
		b = b[1:]
	}
	if b[0]&0x80 != 0 {
		b = append([]byte{0x00}, b...)
	}
	return b
}

func decodeUnsigned(b []byte) (uint64, error) {
	if len(b) == 0 {
		return 0, errors.New("snmp: empty INTEGER content")
	}
	if len(b) > 9 {
		return 0, errors.New("snmp: INTEGER content too large")
	}
	var v uint64
	for _, by := range b {
		v = v<<8 | uint64(by)
	}
	return v, nil
}

// encodeOIDContent packs an OID's sub-identifiers per spec.md §4.1: the
// first two sub-ids as 40*a+b, each following sub-id base-128 with the
// continuation bit set on all but the last byte.
func encodeOIDContent(o OID) []byte {
	if len(o) < 2 {
		padded := make(OID, 2)
		copy(padded, o)
		o = padded
	}
	content := []byte{byte(40*o[0] + o[1])}
	for _, sub := range o[2:] {
		content = append(content, encodeBase128(sub)...)
	}
	return content
}

func encodeBase128(v uint32) []byte {
	if v == 0 {
		return []byte{0}
	}
	var groups []byte
	for v > 0 {
		groups = append([]byte{byte(v & 0x7f)}, groups...)
		v >>= 7
	}
	for i := 0; i < len(groups)-1; i++ {
		groups[i] |= 0x80
	}
	return groups
}

func decodeOIDContent(b []byte) (OID, error) {
	if len(b) == 0 {
		return nil, errors.New("snmp: empty OID content")
	}
	oid := make(OID, 0, len(b)+1)
	first := b[0]
	oid = append(oid, uint32(first/40), uint32(first%40))

	var val uint64
	haveByte := false
	for _, by := range b[1:] {
		val = val<<7 | uint64(by&0x7f)
		haveByte = true
		if by&0x80 == 0 {
			oid = append(oid, uint32(val))
			val = 0
			haveByte = false
		}
	}
	if haveByte {
		return nil, errors.New("snmp: truncated OID sub-identifier")
	}
	return oid, nil
}

func oidToASN1(o OID) asn1.ObjectIdentifier {
	ints := make([]int, len(o))
	for i, v := range o {
		ints[i] = int(v)
	}
	return asn1.ObjectIdentifier(ints)
}

func oidFromASN1(o asn1.ObjectIdentifier) OID {
	out := make(OID, len(o))
	for i, v := range o {
		out[i] = uint32(v)
	}
	return out
}
