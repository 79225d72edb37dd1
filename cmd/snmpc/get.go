package main

import (
	"context"

	"github.com/spf13/cobra"

	"github.com/whitemike889/snmpc/snmp"
)

var getCmd = &cobra.Command{
	Use:   "get agent oid...",
	Short: "Perform an SNMP GET request",
	Args:  cobra.MinimumNArgs(2),
	RunE:  runGet,
}

var getNextCmd = &cobra.Command{
	Use:   "getnext agent oid...",
	Short: "Perform an SNMP GET-NEXT request",
	Args:  cobra.MinimumNArgs(2),
	RunE:  runGetNext,
}

func init() {
	rootCmd.AddCommand(getCmd)
	rootCmd.AddCommand(getNextCmd)
}

func runGet(cmd *cobra.Command, args []string) error {
	return runOIDRequest(args, func(ctx context.Context, s snmp.Session, oids []snmp.OID) (*snmp.PDU, error) {
		return s.Get(ctx, oids)
	})
}

func runGetNext(cmd *cobra.Command, args []string) error {
	return runOIDRequest(args, func(ctx context.Context, s snmp.Session, oids []snmp.OID) (*snmp.PDU, error) {
		return s.GetNext(ctx, oids)
	})
}

// runOIDRequest is the common skeleton shared by get/getnext: resolve
// flags, open a session against args[0], resolve args[1:] as OIDs, issue
// the request, surface any server error-status, then print the result.
func runOIDRequest(args []string, issue func(context.Context, snmp.Session, []snmp.OID) (*snmp.PDU, error)) error {
	oids, err := parseOIDArgs(args[1:])
	if err != nil {
		return err
	}

	ctx, cancel := withSignalCancel()
	defer cancel()

	session, err := openSession(ctx, args[0])
	if err != nil {
		return err
	}
	defer session.Close()

	resp, err := issue(ctx, session, oids)
	if err != nil {
		return err
	}
	if err := reportServerError(resp); err != nil {
		return err
	}

	opts, err := printOptionsFromFlags()
	if err != nil {
		return err
	}
	printVarbinds(resp.Varbinds, opts)
	return nil
}
