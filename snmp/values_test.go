package snmp

import (
	"testing"

	assert "github.com/stretchr/testify/require"
)

func TestParseTypedValueInteger(t *testing.T) {
	v, err := ParseTypedValue('i', "-42", nil)
	assert.NoError(t, err)
	n, ok := v.Int64()
	assert.True(t, ok)
	assert.EqualValues(t, -42, n)
}

func TestParseTypedValueOctetString(t *testing.T) {
	v, err := ParseTypedValue('s', "hello", nil)
	assert.NoError(t, err)
	b, ok := v.Bytes()
	assert.True(t, ok)
	assert.Equal(t, "hello", string(b))
}

func TestParseTypedValueIPAddress(t *testing.T) {
	v, err := ParseTypedValue('a', "192.168.1.1", nil)
	assert.NoError(t, err)
	addr, ok := v.IPAddress()
	assert.True(t, ok)
	assert.Equal(t, [4]byte{192, 168, 1, 1}, addr)
}

func TestParseTypedValueIPAddressBadOctet(t *testing.T) {
	_, err := ParseTypedValue('a', "192.168.1.999", nil)
	assert.Error(t, err)
	var bve *BadValueError
	assert.ErrorAs(t, err, &bve)
}

func TestParseTypedValueHex(t *testing.T) {
	v, err := ParseTypedValue('x', "de ad be ef", nil)
	assert.NoError(t, err)
	b, ok := v.Bytes()
	assert.True(t, ok)
	assert.Equal(t, []byte{0xde, 0xad, 0xbe, 0xef}, b)
}

func TestParseTypedValueNull(t *testing.T) {
	v, err := ParseTypedValue('n', "", nil)
	assert.NoError(t, err)
	assert.Equal(t, TypeNull, v.Type)
}

func TestParseTypedValueOIDRequiresTableForSymbolic(t *testing.T) {
	_, err := ParseTypedValue('o', "sysDescr.0", nil)
	assert.Error(t, err)

	table := NewTable()
	table.AddNode(Node{OID: OID{1, 3, 6, 1, 2, 1, 1, 1}, Name: "sysDescr"})
	v, err := ParseTypedValue('o', "sysDescr.0", table)
	assert.NoError(t, err)
	oid, ok := v.OIDValue()
	assert.True(t, ok)
	assert.Equal(t, OID{1, 3, 6, 1, 2, 1, 1, 1, 0}, oid)
}

func TestParseTypedValueBits(t *testing.T) {
	v, err := ParseTypedValue('b', "0,7,8", nil)
	assert.NoError(t, err)
	b, ok := v.Bytes()
	assert.True(t, ok)
	assert.Equal(t, []byte{0x81, 0x80}, b)
}

func TestParseTypedValueUnknownTag(t *testing.T) {
	_, err := ParseTypedValue('z', "1", nil)
	assert.Error(t, err)
}
