// Package mibdata decodes the small embedded MIB symbol table shipped with
// the CLI so symbolic OID parsing, Short/Full rendering, and enumerated
// INTEGER display work out of the box without a MIB compiler. Loading real
// MIB files is out of scope; the CLI uses only this embedded table.
package mibdata

import (
	_ "embed"
	"strconv"
	"strings"

	"github.com/pkg/errors"
	"gopkg.in/yaml.v3"

	"github.com/whitemike889/snmpc/snmp"
)

//go:embed nodes.yaml
var seedYAML []byte

type rawFile struct {
	Nodes []rawNode `yaml:"nodes"`
}

type rawNode struct {
	OID  string         `yaml:"oid"`
	Name string         `yaml:"name"`
	Hint string         `yaml:"hint"`
	Enum map[int64]string `yaml:"enum"`
}

// Load parses the embedded seed document into an snmp.Table.
func Load() (*snmp.Table, error) {
	var raw rawFile
	if err := yaml.Unmarshal(seedYAML, &raw); err != nil {
		return nil, errors.Wrap(err, "mibdata: decode seed")
	}

	t := snmp.NewTable()
	for _, n := range raw.Nodes {
		oid, err := parseNumericOID(n.OID)
		if err != nil {
			return nil, errors.Wrapf(err, "mibdata: node %q", n.Name)
		}
		t.AddNode(snmp.Node{
			OID:  oid,
			Name: n.Name,
			Hint: n.Hint,
			Enum: n.Enum,
		})
	}
	return t, nil
}

// MustLoad is Load, panicking on failure. The embedded document is fixed at
// build time, so a failure here means the seed file itself is broken.
func MustLoad() *snmp.Table {
	t, err := Load()
	if err != nil {
		panic(err)
	}
	return t
}

func parseNumericOID(s string) (snmp.OID, error) {
	tokens := strings.Split(strings.TrimPrefix(s, "."), ".")
	oid := make(snmp.OID, len(tokens))
	for i, tok := range tokens {
		n, err := strconv.ParseUint(tok, 10, 32)
		if err != nil {
			return nil, errors.Wrapf(err, "bad sub-identifier %q", tok)
		}
		oid[i] = uint32(n)
	}
	return oid, nil
}
