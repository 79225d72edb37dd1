package main

import (
	"fmt"

	"github.com/whitemike889/snmpc/snmp"
)

// printOptionsFromFlags translates the -O flag characters (spec.md §6:
// "a f n q v x S Q") into snmp.PrintOptions. Unrecognized characters are
// rejected rather than silently ignored.
func printOptionsFromFlags() (snmp.PrintOptions, error) {
	opts := snmp.PrintOptions{
		PrintEquals: true,
		UseHint:     true,
		OIDMode:     snmp.Short,
		Table:       mibTable,
	}

	for _, c := range outputOpts {
		switch c {
		case 'a':
			opts.StringMode = snmp.StringAscii
		case 'x':
			opts.StringMode = snmp.StringHex
		case 'n':
			opts.OIDMode = snmp.Numeric
		case 'S':
			opts.OIDMode = snmp.Short
		case 'f':
			opts.OIDMode = snmp.Full
		case 'q':
			opts.PrintEquals = false
			opts.UseHint = false
		case 'Q':
			opts.UseHint = false
		case 'v':
			opts.VarbindOnly = true
		default:
			return opts, fmt.Errorf("snmpc: unsupported -O flag %q", string(c))
		}
	}
	return opts, nil
}

func printVarbinds(vbs []snmp.Varbind, opts snmp.PrintOptions) {
	for i := range vbs {
		fmt.Println(snmp.FormatVarbind(&vbs[i], opts))
	}
}

// reportServerError surfaces a PDU's non-zero error-status, resolving the
// offending OID from error-index the same way the walk engine does.
func reportServerError(resp *snmp.PDU) error {
	if resp.Error == snmp.NoError {
		return nil
	}
	idx := resp.ErrorIndex
	oid := "?"
	if idx >= 1 && int(idx) <= len(resp.Varbinds) {
		oid = resp.Varbinds[idx-1].Name.String()
	}
	return fmt.Errorf("snmpc: %s at index %d (%s)", resp.Error, idx, oid)
}
