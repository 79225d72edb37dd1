package snmp

import (
	"sort"
	"strconv"
	"strings"
)

// Node is a single MIB symbol table entry: the full OID for an object,
// its simple name, and the optional rendering metadata the printer (C8)
// consults. Loading MIB files is out of scope; Table is populated by
// whatever external MIB-parsing collaborator the caller wires in (see
// mibdata for the small embedded seed used by the CLI and tests).
type Node struct {
	OID OID
	// Name is the object's simple (unqualified) identifier, e.g. "sysDescr".
	Name string
	// Hint is the object's DISPLAY-HINT string, if the textual convention
	// declares one.
	Hint string
	// Convention names the textual convention applied to the object, if any.
	Convention string
	// Enum maps an INTEGER value to its label, for objects defined with an
	// enumerated SYNTAX.
	Enum map[int64]string
}

type trieNode struct {
	children map[uint32]*trieNode
	node     *Node
}

func newTrieNode() *trieNode { return &trieNode{children: map[uint32]*trieNode{}} }

// Table is the MIB symbol table (C3): a sub-identifier-keyed trie giving
// O(depth) exact and longest-prefix OID lookup, a flat name index, and an
// in-order traversal. It is built once and treated as read-only afterward.
type Table struct {
	root  *trieNode
	names map[string]OID
}

// NewTable returns an empty, ready-to-populate symbol table.
func NewTable() *Table {
	return &Table{root: newTrieNode(), names: map[string]OID{}}
}

// AddNode inserts n into the table, indexing it by OID and, if non-empty,
// by its simple name.
func (t *Table) AddNode(n Node) {
	cur := t.root
	for _, sub := range n.OID {
		child, ok := cur.children[sub]
		if !ok {
			child = newTrieNode()
			cur.children[sub] = child
		}
		cur = child
	}
	stored := n
	stored.OID = n.OID.Clone()
	cur.node = &stored
	if n.Name != "" {
		t.names[n.Name] = n.OID.Clone()
	}
}

// ResolveName looks up a simple name, returning its absolute OID.
func (t *Table) ResolveName(name string) (OID, bool) {
	oid, ok := t.names[name]
	if !ok {
		return nil, false
	}
	return oid.Clone(), true
}

// ExactLookup returns the node registered at exactly oid.
func (t *Table) ExactLookup(oid OID) (Node, bool) {
	cur := t.root
	for _, sub := range oid {
		child, ok := cur.children[sub]
		if !ok {
			return Node{}, false
		}
		cur = child
	}
	if cur.node == nil {
		return Node{}, false
	}
	return *cur.node, true
}

// LongestPrefixLookup returns the registered node whose OID is the longest
// prefix of (or equal to) oid, along with how many of oid's leading
// sub-identifiers matched that node's OID.
func (t *Table) LongestPrefixLookup(oid OID) (Node, int, bool) {
	cur := t.root
	var best *Node
	bestLen := 0
	if cur.node != nil {
		best, bestLen = cur.node, 0
	}
	for i, sub := range oid {
		child, ok := cur.children[sub]
		if !ok {
			break
		}
		cur = child
		if cur.node != nil {
			best, bestLen = cur.node, i+1
		}
	}
	if best == nil {
		return Node{}, 0, false
	}
	return *best, bestLen, true
}

// LongestPrefixName is a convenience wrapper returning just the matched
// node's name and match length.
func (t *Table) LongestPrefixName(oid OID) (string, int, bool) {
	n, l, ok := t.LongestPrefixLookup(oid)
	if !ok {
		return "", 0, false
	}
	return n.Name, l, true
}

// HintFor returns the DISPLAY-HINT in effect for oid, resolved by
// longest-prefix match, per spec.md §4.8.
func (t *Table) HintFor(oid OID) (string, bool) {
	n, _, ok := t.LongestPrefixLookup(oid)
	if !ok || n.Hint == "" {
		return "", false
	}
	return n.Hint, true
}

// EnumFor returns the integer-enumeration label table in effect for oid,
// resolved by longest-prefix match (so an instance such as ifOperStatus.1
// uses ifOperStatus's labels).
func (t *Table) EnumFor(oid OID) (map[int64]string, bool) {
	n, _, ok := t.LongestPrefixLookup(oid)
	if !ok || n.Enum == nil {
		return nil, false
	}
	return n.Enum, true
}

// FullPath renders the dotted symbolic path from the MIB root to oid,
// falling back to numeric sub-ids for any unnamed or unknown suffix.
func (t *Table) FullPath(oid OID) string {
	var labels []string
	cur := t.root
	for i, sub := range oid {
		child, ok := cur.children[sub]
		if !ok {
			labels = append(labels, OID(oid[i:]).String())
			break
		}
		cur = child
		if cur.node != nil && cur.node.Name != "" {
			labels = append(labels, cur.node.Name)
		} else {
			labels = append(labels, strconv.FormatUint(uint64(sub), 10))
		}
	}
	return strings.Join(labels, ".")
}

// Nodes returns every registered node (named or not) in ascending OID order.
func (t *Table) Nodes() []Node {
	var out []Node
	var walk func(n *trieNode)
	walk = func(n *trieNode) {
		if n.node != nil {
			out = append(out, *n.node)
		}
		keys := make([]uint32, 0, len(n.children))
		for k := range n.children {
			keys = append(keys, k)
		}
		sort.Slice(keys, func(i, j int) bool { return keys[i] < keys[j] })
		for _, k := range keys {
			walk(n.children[k])
		}
	}
	walk(t.root)
	return out
}
