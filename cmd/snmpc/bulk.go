package main

import (
	"github.com/spf13/cobra"
)

var (
	bulkNonRepeaters   int
	bulkMaxRepetitions int
)

var bulkGetCmd = &cobra.Command{
	Use:   "bulkget agent oid...",
	Short: "Perform an SNMPv2c GET-BULK request",
	Args:  cobra.MinimumNArgs(2),
	RunE:  runBulkGet,
}

func init() {
	rootCmd.AddCommand(bulkGetCmd)
	bulkGetCmd.Flags().IntVarP(&bulkNonRepeaters, "non-repeaters", "n", 0, "non-repeaters (-C n<N>)")
	bulkGetCmd.Flags().IntVarP(&bulkMaxRepetitions, "max-repetitions", "R", 10, "max-repetitions (-C r<R>)")
}

func runBulkGet(cmd *cobra.Command, args []string) error {
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

	resp, err := session.GetBulk(ctx, oids, bulkNonRepeaters, bulkMaxRepetitions)
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
