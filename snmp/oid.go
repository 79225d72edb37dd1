package snmp

import (
	"strconv"
	"strings"

	"github.com/pkg/errors"
)

// OID is an ordered sequence of non-negative sub-identifiers, 1..128 of
// them per the spec's data model. It supports the lexicographic total
// order described in spec.md §3: compare sub-ids pairwise, and a
// shorter prefix sorts before any strict extension of itself.
type OID []uint32

// Clone returns an independent copy of the OID.
func (o OID) Clone() OID {
	c := make(OID, len(o))
	copy(c, o)
	return c
}

// Equal reports whether two OIDs have identical sub-identifiers.
func (o OID) Equal(other OID) bool {
	return o.Compare(other) == Equal
}

// Comparison is the result of comparing two OIDs. Besides the familiar
// three-way order it distinguishes strict-prefix (subtree) relationships,
// which the walk engine depends on.
type Comparison int

const (
	Less         Comparison = -1
	Equal        Comparison = 0
	Greater      Comparison = 1
	AAncestorOfB Comparison = 2  // a is a strict prefix of b: b lies under subtree a
	BAncestorOfA Comparison = -2 // b is a strict prefix of a
)

// Compare implements the OID lexicographic order from spec.md §4.2.
func (a OID) Compare(b OID) Comparison {
	n := len(a)
	if len(b) < n {
		n = len(b)
	}
	for i := 0; i < n; i++ {
		switch {
		case a[i] < b[i]:
			return Less
		case a[i] > b[i]:
			return Greater
		}
	}
	switch {
	case len(a) == len(b):
		return Equal
	case len(a) < len(b):
		return AAncestorOfB
	default:
		return BAncestorOfA
	}
}

// IsStrictDescendantOf reports whether o lies strictly under the subtree
// rooted at root (root is a strict prefix of o).
func (o OID) IsStrictDescendantOf(root OID) bool {
	return root.Compare(o) == AAncestorOfB
}

// String renders the OID in dotted numeric form, e.g. "1.3.6.1.2.1.1.1.0".
func (o OID) String() string {
	parts := make([]string, len(o))
	for i, v := range o {
		parts[i] = strconv.FormatUint(uint64(v), 10)
	}
	return strings.Join(parts, ".")
}

// OIDMode selects how FormatOID renders an OID's symbolic portion.
type OIDMode int

const (
	// Numeric renders dot-separated sub-identifiers only.
	Numeric OIDMode = iota
	// Short renders the shortest unambiguous symbolic prefix plus any
	// numeric suffix, e.g. "sysDescr.0".
	Short
	// Full renders the complete symbolic path from the MIB root.
	Full
)

// ParseOID parses s into an OID. s may be pure-numeric ("1.3.6.1.2.1"),
// fully symbolic ("system.sysDescr.0"), or mixed ("sysDescr.0"). A
// leading '.' is permitted and ignored. Symbolic segments are resolved
// against table (which may be nil, in which case any non-numeric
// segment fails with UnknownName).
func ParseOID(s string, table *Table) (OID, error) {
	trimmed := strings.TrimPrefix(strings.TrimSpace(s), ".")
	if trimmed == "" {
		return nil, errors.Wrap(ErrArgument, "empty OID")
	}

	tokens := strings.Split(trimmed, ".")

	if oid, ok := tryParseNumeric(tokens); ok {
		return oid, nil
	}

	return parseSymbolic(tokens, table)
}

func tryParseNumeric(tokens []string) (OID, bool) {
	oid := make(OID, len(tokens))
	for i, tok := range tokens {
		n, err := strconv.ParseUint(tok, 10, 32)
		if err != nil {
			return nil, false
		}
		oid[i] = uint32(n)
	}
	return oid, true
}

// parseSymbolic resolves a name or mixed name/numeric token sequence.
// The last resolvable name token anchors the OID; any purely numeric
// tokens after it are appended as instance sub-identifiers.
func parseSymbolic(tokens []string, table *Table) (OID, error) {
	if table == nil {
		return nil, &UnknownNameError{Name: strings.Join(tokens, ".")}
	}

	anchor := -1
	var anchorOID OID
	for i, tok := range tokens {
		if _, err := strconv.ParseUint(tok, 10, 32); err == nil {
			continue
		}
		oid, ok := table.ResolveName(tok)
		if !ok {
			return nil, &UnknownNameError{Name: tok}
		}
		anchor = i
		anchorOID = oid
	}
	if anchor == -1 {
		return nil, &UnknownNameError{Name: strings.Join(tokens, ".")}
	}

	result := anchorOID.Clone()
	for _, tok := range tokens[anchor+1:] {
		n, err := strconv.ParseUint(tok, 10, 32)
		if err != nil {
			return nil, &UnknownNameError{Name: tok}
		}
		result = append(result, uint32(n))
	}
	return result, nil
}

// FormatOID renders oid according to mode, consulting table for symbolic
// rendering. table may be nil, in which case Short/Full degrade to Numeric.
func FormatOID(oid OID, mode OIDMode, table *Table) string {
	if mode == Numeric || table == nil {
		return oid.String()
	}

	name, prefixLen, ok := table.LongestPrefixName(oid)
	if !ok {
		return oid.String()
	}

	suffix := oid[prefixLen:]
	label := name
	if mode == Full {
		label = table.FullPath(oid[:prefixLen])
	}

	if len(suffix) == 0 {
		return label
	}
	return label + "." + OID(suffix).String()
}
