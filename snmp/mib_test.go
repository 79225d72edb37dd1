package snmp

import (
	"testing"

	assert "github.com/stretchr/testify/require"
)

func newTestTable() *Table {
	t := NewTable()
	t.AddNode(Node{OID: OID{1, 3, 6, 1, 2, 1, 1}, Name: "system"})
	t.AddNode(Node{OID: OID{1, 3, 6, 1, 2, 1, 1, 1}, Name: "sysDescr", Hint: "255a"})
	t.AddNode(Node{OID: OID{1, 3, 6, 1, 2, 1, 2, 2, 1, 8}, Name: "ifOperStatus", Enum: map[int64]string{1: "up", 2: "down"}})
	return t
}

func TestTableExactLookup(t *testing.T) {
	table := newTestTable()
	n, ok := table.ExactLookup(OID{1, 3, 6, 1, 2, 1, 1, 1})
	assert.True(t, ok)
	assert.Equal(t, "sysDescr", n.Name)

	_, ok = table.ExactLookup(OID{9, 9, 9})
	assert.False(t, ok)
}

func TestTableLongestPrefixLookup(t *testing.T) {
	table := newTestTable()
	n, matched, ok := table.LongestPrefixLookup(OID{1, 3, 6, 1, 2, 1, 1, 1, 0})
	assert.True(t, ok)
	assert.Equal(t, "sysDescr", n.Name)
	assert.Equal(t, 8, matched)
}

func TestTableHintFor(t *testing.T) {
	table := newTestTable()
	hint, ok := table.HintFor(OID{1, 3, 6, 1, 2, 1, 1, 1, 0})
	assert.True(t, ok)
	assert.Equal(t, "255a", hint)
}

func TestTableEnumForRequiresExactInstance(t *testing.T) {
	table := newTestTable()
	enum, ok := table.EnumFor(OID{1, 3, 6, 1, 2, 1, 2, 2, 1, 8, 1})
	assert.True(t, ok)
	assert.Equal(t, "up", enum[1])

	_, ok = table.EnumFor(OID{1, 3, 6, 1, 2, 1, 2, 2, 1})
	assert.False(t, ok)
}

func TestTableResolveName(t *testing.T) {
	table := newTestTable()
	oid, ok := table.ResolveName("sysDescr")
	assert.True(t, ok)
	assert.Equal(t, OID{1, 3, 6, 1, 2, 1, 1, 1}, oid)

	_, ok = table.ResolveName("noSuchName")
	assert.False(t, ok)
}

func TestTableNodesInOrder(t *testing.T) {
	table := newTestTable()
	nodes := table.Nodes()
	assert.Len(t, nodes, 3)
	assert.Equal(t, "system", nodes[0].Name)
	assert.Equal(t, "sysDescr", nodes[1].Name)
	assert.Equal(t, "ifOperStatus", nodes[2].Name)
}
