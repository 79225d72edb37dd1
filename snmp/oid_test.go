package snmp

import (
	"testing"

	assert "github.com/stretchr/testify/require"
)

func TestOIDCompare(t *testing.T) {
	a := OID{1, 3, 6, 1, 2, 1}
	b := OID{1, 3, 6, 1, 2, 1, 1}
	c := OID{1, 3, 6, 1, 2, 2}

	assert.Equal(t, AAncestorOfB, a.Compare(b))
	assert.Equal(t, BAncestorOfA, b.Compare(a))
	assert.Equal(t, Equal, a.Compare(a.Clone()))
	assert.Equal(t, Less, a.Compare(c))
	assert.Equal(t, Greater, c.Compare(a))
}

func TestParseOIDNumeric(t *testing.T) {
	oid, err := ParseOID("1.3.6.1.2.1.1.5.0", nil)
	assert.NoError(t, err)
	assert.Equal(t, OID{1, 3, 6, 1, 2, 1, 1, 5, 0}, oid)
}

func TestParseOIDLeadingDot(t *testing.T) {
	oid, err := ParseOID(".1.3.6.1", nil)
	assert.NoError(t, err)
	assert.Equal(t, OID{1, 3, 6, 1}, oid)
}

func TestParseOIDSymbolicRequiresTable(t *testing.T) {
	_, err := ParseOID("sysDescr.0", nil)
	assert.Error(t, err)
}

func TestParseOIDSymbolicWithTable(t *testing.T) {
	table := NewTable()
	table.AddNode(Node{OID: OID{1, 3, 6, 1, 2, 1, 1, 1}, Name: "sysDescr"})

	oid, err := ParseOID("sysDescr.0", table)
	assert.NoError(t, err)
	assert.Equal(t, OID{1, 3, 6, 1, 2, 1, 1, 1, 0}, oid)
}

func TestFormatOIDModes(t *testing.T) {
	table := NewTable()
	table.AddNode(Node{OID: OID{1, 3, 6, 1, 2, 1, 1}, Name: "system"})
	table.AddNode(Node{OID: OID{1, 3, 6, 1, 2, 1, 1, 1}, Name: "sysDescr"})

	oid := OID{1, 3, 6, 1, 2, 1, 1, 1, 0}
	assert.Equal(t, "1.3.6.1.2.1.1.1.0", FormatOID(oid, Numeric, table))
	assert.Equal(t, "sysDescr.0", FormatOID(oid, Short, table))
	assert.Equal(t, "1.3.6.1.2.1.1.1.0", FormatOID(oid, Full, nil))
}
