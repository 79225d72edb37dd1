package snmp

import (
	"testing"

	assert "github.com/stretchr/testify/require"
)

func TestEncodeDecodeValueRoundTrip(t *testing.T) {
	cases := []Value{
		NewInteger(0),
		NewInteger(-1),
		NewInteger(127),
		NewInteger(-128),
		NewInteger(70000),
		NewOctetString([]byte("public")),
		NewOctetString(nil),
		NewOID(OID{1, 3, 6, 1, 2, 1, 1, 5, 0}),
		NewNull(),
		NewIPAddress([4]byte{192, 168, 1, 1}),
		NewCounter32(4294967295),
		NewGauge32(0),
		NewTimeTicks(12345),
		NewOpaque([]byte{0xde, 0xad}),
		NewCounter64(18446744073709551615),
	}

	for _, v := range cases {
		raw, err := encodeValue(v)
		assert.NoError(t, err)
		got, err := decodeValue(&raw)
		assert.NoError(t, err)
		assert.Equal(t, v.Type, got.Type)
		assert.Equal(t, v.raw, got.raw)
	}
}

func TestEncodeOIDContentBase128(t *testing.T) {
	oid := OID{1, 3, 6, 1, 2, 1, 1, 5, 0}
	b := encodeOIDContent(oid)
	decoded, err := decodeOIDContent(b)
	assert.NoError(t, err)
	assert.Equal(t, oid, decoded)
}

func TestEncodeBase128LargeSubIdentifier(t *testing.T) {
	b := encodeBase128(4294967295)
	assert.True(t, len(b) > 1, "a sub-identifier near uint32 max must span multiple base-128 groups")
	assert.Equal(t, byte(0), b[len(b)-1]&0x80, "the final group must not carry the continuation bit")
}

func TestSignedIntegerRoundTrip(t *testing.T) {
	for _, n := range []int64{0, 1, -1, 127, 128, -128, -129, 1<<31 - 1, -(1 << 31)} {
		b := encodeSignedInteger(n)
		got, err := decodeSignedInteger(b)
		assert.NoError(t, err)
		assert.Equal(t, n, got)
	}
}

func TestEncodeElementDecodeElement(t *testing.T) {
	e := Element{Class: ClassContextSpecific, Tag: 0, Constructed: true, Bytes: []byte{0x02, 0x01, 0x01}}
	b, err := EncodeElement(e)
	assert.NoError(t, err)

	got, rest, err := DecodeElement(b)
	assert.NoError(t, err)
	assert.Empty(t, rest)
	assert.Equal(t, e.Class, got.Class)
	assert.Equal(t, e.Tag, got.Tag)
	assert.Equal(t, e.Bytes, got.Bytes)
}
