// Command snmpc is an SNMPv1/v2c command-line client: get, getnext, walk,
// bulkget, bulkwalk, trap, and mibtree, against the session/walk/printer
// engine in package snmp.
package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/spf13/cobra"

	"github.com/whitemike889/snmpc/mibdata"
	"github.com/whitemike889/snmpc/snmp"
)

// mibTable is the embedded seed symbol table, shared by every subcommand
// for symbolic OID parsing and rendering.
var mibTable = mibdata.MustLoad()

var (
	community      string
	retries        int
	timeoutSeconds float64
	versionFlag    string
	outputOpts     string
)

var rootCmd = &cobra.Command{
	Use:   "snmpc",
	Short: "SNMPv1/v2c command-line client",
	Long: `snmpc is a command-line client for SNMPv1 and SNMPv2c agents: GET,
GETNEXT, GETBULK, subtree WALK/BULKWALK, trap sending, and a MIB symbol
table dump.`,
	SilenceUsage:  true,
	SilenceErrors: true,
}

func init() {
	rootCmd.PersistentFlags().StringVarP(&community, "community", "c", "public", "community string")
	rootCmd.PersistentFlags().IntVarP(&retries, "retries", "r", 5, "number of retries")
	rootCmd.PersistentFlags().Float64VarP(&timeoutSeconds, "timeout", "t", 1, "request timeout, in seconds")
	rootCmd.PersistentFlags().StringVarP(&versionFlag, "version", "v", "2c", "SNMP version: 1 or 2c")
	rootCmd.PersistentFlags().StringVarP(&outputOpts, "output-options", "O", "", "output formatting flags: a f n q v x S Q")
}

// sessionVersion maps the -v flag to a snmp.Version, rejecting anything
// other than "1"/"2c".
func sessionVersion() (snmp.Version, error) {
	switch versionFlag {
	case "1", "v1":
		return snmp.V1, nil
	case "2c", "v2c", "2":
		return snmp.V2c, nil
	default:
		return 0, fmt.Errorf("snmpc: unsupported -v %q (want 1 or 2c)", versionFlag)
	}
}

// openSession builds a Session against agent using the common flags. extra
// lets a subcommand layer on additional options, such as the trap command's
// non-default agent port (162, spec.md §4.4).
func openSession(ctx context.Context, agent string, extra ...snmp.SessionOption) (snmp.Session, error) {
	v, err := sessionVersion()
	if err != nil {
		return nil, err
	}
	opts := append([]snmp.SessionOption{
		snmp.Community(community),
		snmp.Retries(retries),
		snmp.Timeout(time.Duration(timeoutSeconds*float64(time.Second))),
		snmp.WithVersion(v),
		snmp.WithMIBTable(mibTable),
	}, extra...)
	return snmp.NewSession(ctx, agent, opts...)
}

// withSignalCancel returns a context cancelled either by the caller or by
// SIGINT/SIGTERM, per spec.md §5's "reacts to process signals by
// terminating" cancellation rule.
func withSignalCancel() (context.Context, context.CancelFunc) {
	ctx, cancel := context.WithCancel(context.Background())
	sigCh := make(chan os.Signal, 1)
	signal.Notify(sigCh, syscall.SIGINT, syscall.SIGTERM)
	go func() {
		select {
		case <-sigCh:
			cancel()
		case <-ctx.Done():
		}
		signal.Stop(sigCh)
	}()
	return ctx, cancel
}

func parseOIDArgs(args []string) ([]snmp.OID, error) {
	oids := make([]snmp.OID, len(args))
	for i, a := range args {
		oid, err := snmp.ParseOID(a, mibTable)
		if err != nil {
			return nil, fmt.Errorf("snmpc: bad OID %q: %w", a, err)
		}
		oids[i] = oid
	}
	return oids, nil
}
