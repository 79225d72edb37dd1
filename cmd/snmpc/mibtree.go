package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/whitemike889/snmpc/snmp"
)

var mibtreeCmd = &cobra.Command{
	Use:   "mibtree",
	Short: "Dump the embedded MIB symbol table in OID order",
	Args:  cobra.NoArgs,
	RunE:  runMibtree,
}

func init() {
	rootCmd.AddCommand(mibtreeCmd)
}

func runMibtree(cmd *cobra.Command, args []string) error {
	mode := snmp.Full
	for _, c := range outputOpts {
		switch c {
		case 'f':
			mode = snmp.Full
		case 'n':
			mode = snmp.Numeric
		case 'S':
			mode = snmp.Short
		default:
			return fmt.Errorf("snmpc: mibtree only supports -O f/n/S, got %q", string(c))
		}
	}

	for _, node := range mibTable.Nodes() {
		fmt.Printf("%s %s\n", snmp.FormatOID(node.OID, mode, mibTable), node.OID.String())
	}
	return nil
}
