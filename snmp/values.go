package snmp

import (
	"strconv"
	"strings"
)

// ParseTypedValue parses a CLI trap varbind literal according to the typed-
// value grammar in spec.md §4.6. tag selects both the wire type and the
// parse rule; table is consulted only for the 'o' (OID) tag, and may be nil.
// Every failure surfaces as *BadValueError{Tag, Literal}.
func ParseTypedValue(tag byte, literal string, table *Table) (Value, error) {
	switch tag {
	case 'a':
		return parseIPAddressLiteral(tag, literal)
	case 'b':
		return parseBitsLiteral(tag, literal)
	case 'c':
		return parseCounter32Literal(tag, literal)
	case 'd':
		return parseDecimalBytesLiteral(tag, literal)
	case 'i', 'u':
		return parseIntegerLiteral(tag, literal)
	case 'n':
		return NewNull(), nil
	case 'o':
		oid, err := ParseOID(literal, table)
		if err != nil {
			return Value{}, &BadValueError{Tag: tag, Literal: literal}
		}
		return NewOID(oid), nil
	case 's':
		return NewOctetString([]byte(literal)), nil
	case 't':
		return parseTimeTicksLiteral(tag, literal)
	case 'x':
		return parseHexBytesLiteral(tag, literal)
	default:
		return Value{}, &BadValueError{Tag: tag, Literal: literal}
	}
}

func parseIPAddressLiteral(tag byte, literal string) (Value, error) {
	parts := strings.Split(literal, ".")
	if len(parts) != 4 {
		return Value{}, &BadValueError{Tag: tag, Literal: literal}
	}
	var addr [4]byte
	for i, p := range parts {
		n, err := strconv.Atoi(p)
		if err != nil || n < 0 || n > 255 {
			return Value{}, &BadValueError{Tag: tag, Literal: literal}
		}
		addr[i] = byte(n)
	}
	return NewIPAddress(addr), nil
}

// parseBitsLiteral encodes a BITS value as an OCTET STRING: literal is a
// whitespace/comma-separated list of non-negative bit indices; byte
// floor(n/8) has bit 0x80>>(n%8) set.
func parseBitsLiteral(tag byte, literal string) (Value, error) {
	fields := splitIndices(literal)
	var maxByte int
	indices := make([]int, 0, len(fields))
	for _, f := range fields {
		n, err := strconv.Atoi(f)
		if err != nil || n < 0 {
			return Value{}, &BadValueError{Tag: tag, Literal: literal}
		}
		indices = append(indices, n)
		if n/8 > maxByte {
			maxByte = n / 8
		}
	}
	if len(indices) == 0 {
		return NewOctetString(nil), nil
	}
	b := make([]byte, maxByte+1)
	for _, n := range indices {
		b[n/8] |= 0x80 >> uint(n%8)
	}
	return NewOctetString(b), nil
}

func splitIndices(literal string) []string {
	return strings.FieldsFunc(literal, func(r rune) bool {
		return r == ',' || r == ' ' || r == '\t'
	})
}

func parseCounter32Literal(tag byte, literal string) (Value, error) {
	n, err := strconv.ParseInt(literal, 10, 32)
	if err != nil {
		return Value{}, &BadValueError{Tag: tag, Literal: literal}
	}
	return NewCounter32(uint32(n)), nil
}

func parseDecimalBytesLiteral(tag byte, literal string) (Value, error) {
	fields := splitIndices(literal)
	b := make([]byte, 0, len(fields))
	for _, f := range fields {
		n, err := strconv.Atoi(f)
		if err != nil || n < 0 || n > 255 {
			return Value{}, &BadValueError{Tag: tag, Literal: literal}
		}
		b = append(b, byte(n))
	}
	return NewOctetString(b), nil
}

func parseIntegerLiteral(tag byte, literal string) (Value, error) {
	n, err := strconv.ParseInt(literal, 10, 64)
	if err != nil {
		return Value{}, &BadValueError{Tag: tag, Literal: literal}
	}
	return NewInteger(n), nil
}

func parseTimeTicksLiteral(tag byte, literal string) (Value, error) {
	n, err := strconv.ParseUint(literal, 10, 32)
	if err != nil {
		return Value{}, &BadValueError{Tag: tag, Literal: literal}
	}
	return NewTimeTicks(uint32(n)), nil
}

func parseHexBytesLiteral(tag byte, literal string) (Value, error) {
	fields := splitIndices(literal)
	b := make([]byte, 0, len(fields))
	for _, f := range fields {
		n, err := strconv.ParseUint(f, 16, 8)
		if err != nil {
			return Value{}, &BadValueError{Tag: tag, Literal: literal}
		}
		b = append(b, byte(n))
	}
	return NewOctetString(b), nil
}
