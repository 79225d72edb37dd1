package main

import (
	"fmt"
	"strconv"
	"time"

	"github.com/spf13/cobra"

	"github.com/whitemike889/snmpc/snmp"
)

var trapCmd = &cobra.Command{
	Use:   "trap agent uptime trap-oid [oid type value]...",
	Short: "Send an SNMPv2-Trap-PDU",
	Long: `Send an SNMPv2-Trap-PDU. uptime is a non-negative integer in hundredths
of a second, or the empty string "" to use the process's monotonic uptime.
Each trailing triple (oid type value) adds one varbind; type is one of the
single-character tags a/b/c/d/i/u/n/o/s/t/x.`,
	Args: cobra.MinimumNArgs(3),
	RunE: runTrap,
}

func init() {
	rootCmd.AddCommand(trapCmd)
}

// processStart anchors "" uptime arguments to this process's monotonic
// clock, per spec.md §6.
var processStart = time.Now()

func runTrap(cmd *cobra.Command, args []string) error {
	if (len(args)-3)%3 != 0 {
		return fmt.Errorf("snmpc: trap varbind arguments must come in (oid type value) triples")
	}

	uptime, err := parseUptimeArg(args[1])
	if err != nil {
		return err
	}

	trapOID, err := snmp.ParseOID(args[2], mibTable)
	if err != nil {
		return fmt.Errorf("snmpc: bad trap-oid %q: %w", args[2], err)
	}

	var varbinds []snmp.Varbind
	for i := 3; i < len(args); i += 3 {
		oid, err := snmp.ParseOID(args[i], mibTable)
		if err != nil {
			return fmt.Errorf("snmpc: bad OID %q: %w", args[i], err)
		}
		tag := args[i+1]
		if len(tag) != 1 {
			return fmt.Errorf("snmpc: bad type tag %q (want a single character)", tag)
		}
		value, err := snmp.ParseTypedValue(tag[0], args[i+2], mibTable)
		if err != nil {
			return err
		}
		varbinds = append(varbinds, snmp.Varbind{Name: oid, Value: value})
	}

	ctx, cancel := withSignalCancel()
	defer cancel()

	session, err := openSession(ctx, args[0], snmp.Port(162))
	if err != nil {
		return err
	}
	defer session.Close()

	return session.Trap(ctx, uptime, trapOID, varbinds)
}

func parseUptimeArg(s string) (uint32, error) {
	if s == "" {
		return uint32(time.Since(processStart).Milliseconds() / 10), nil
	}
	n, err := strconv.ParseUint(s, 10, 32)
	if err != nil {
		return 0, fmt.Errorf("snmpc: bad uptime %q: %w", s, err)
	}
	return uint32(n), nil
}
