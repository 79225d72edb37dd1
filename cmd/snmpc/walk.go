package main

import (
	"fmt"
	"time"

	"github.com/spf13/cobra"

	"github.com/whitemike889/snmpc/snmp"
)

var (
	walkNoCheckIncrease bool
	walkIncludeStart    bool
	walkPrintCount      bool
	walkPrintTime       bool
	walkNoFallback      bool
	walkEndOID          string

	bulkWalkNonRepeaters   int
	bulkWalkMaxRepetitions int
)

var walkCmd = &cobra.Command{
	Use:   "walk agent [oid]",
	Short: "Enumerate an OID subtree via GET-NEXT",
	Args:  cobra.RangeArgs(1, 2),
	RunE:  runWalk,
}

var bulkWalkCmd = &cobra.Command{
	Use:   "bulkwalk agent [oid]",
	Short: "Enumerate an OID subtree via GET-BULK",
	Args:  cobra.RangeArgs(1, 2),
	RunE:  runBulkWalk,
}

func init() {
	rootCmd.AddCommand(walkCmd)
	rootCmd.AddCommand(bulkWalkCmd)

	for _, cmd := range []*cobra.Command{walkCmd, bulkWalkCmd} {
		cmd.Flags().BoolVar(&walkNoCheckIncrease, "no-check-increase", false, "disable monotonicity check (-C c)")
		cmd.Flags().BoolVar(&walkIncludeStart, "include-start", false, "GET the base OID before walking (-C i)")
		cmd.Flags().BoolVar(&walkPrintCount, "print-count", false, "print a summary count on completion (-C p)")
		cmd.Flags().StringVar(&walkEndOID, "end-oid", "", "stop once this OID is reached, exclusive (-C E)")
	}
	walkCmd.Flags().BoolVar(&walkPrintTime, "print-time", false, "print elapsed wall-clock traversal time (-C t)")
	walkCmd.Flags().BoolVar(&walkNoFallback, "no-fallback", false, "disable fallback GET when the walk returns nothing (-C I)")

	bulkWalkCmd.Flags().IntVar(&bulkWalkNonRepeaters, "non-repeaters", 0, "non-repeaters (-C n<N>)")
	bulkWalkCmd.Flags().IntVar(&bulkWalkMaxRepetitions, "max-repetitions", 10, "max-repetitions (-C r<R>)")
}

func runWalk(cmd *cobra.Command, args []string) error {
	return doWalk(args, false)
}

func runBulkWalk(cmd *cobra.Command, args []string) error {
	return doWalk(args, true)
}

func doWalk(args []string, bulk bool) error {
	root := snmp.OID{1, 3, 6, 1} // internet, the conventional walk-everything root
	if len(args) == 2 {
		var err error
		root, err = snmp.ParseOID(args[1], mibTable)
		if err != nil {
			return fmt.Errorf("snmpc: bad OID %q: %w", args[1], err)
		}
	}

	opts := snmp.DefaultWalkOptions()
	opts.Bulk = bulk
	opts.CheckIncrease = !walkNoCheckIncrease
	opts.IncludeStart = walkIncludeStart
	opts.FallbackOnEmpty = !walkNoFallback
	if bulk {
		opts.NonRepeaters = bulkWalkNonRepeaters
		opts.MaxRepetitions = bulkWalkMaxRepetitions
	}
	if walkEndOID != "" {
		end, err := snmp.ParseOID(walkEndOID, mibTable)
		if err != nil {
			return fmt.Errorf("snmpc: bad -C E OID %q: %w", walkEndOID, err)
		}
		opts.End = end
	}

	printOpts, err := printOptionsFromFlags()
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

	start := time.Now()
	count := 0
	err = session.Walk(ctx, root, opts, func(vb *snmp.Varbind) error {
		fmt.Println(snmp.FormatVarbind(vb, printOpts))
		count++
		return nil
	})
	elapsed := time.Since(start)
	if err != nil {
		return err
	}

	if walkPrintCount {
		fmt.Printf("%d varbinds\n", count)
	}
	if walkPrintTime {
		fmt.Printf("elapsed: %s\n", elapsed)
	}
	return nil
}
