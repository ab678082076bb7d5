package cmd

import (
	"fmt"

	"finance-ledger/internal/datecycle"

	"github.com/spf13/cobra"
)

var (
	flagOwner uint
	flagAsOf  string
)

var processBillsCmd = &cobra.Command{
	Use:   "process-bills",
	Short: "Mark overdue bills and expand due recurring bills of an owner",
	RunE:  runProcessBills,
}

func init() {
	processBillsCmd.Flags().UintVar(&flagOwner, "owner", 0, "Owner id (required)")
	processBillsCmd.Flags().StringVar(&flagAsOf, "as-of", "", "Date to process as of, YYYY-MM-DD (default today)")
	_ = processBillsCmd.MarkFlagRequired("owner")
	rootCmd.AddCommand(processBillsCmd)
}

func runProcessBills(cmd *cobra.Command, _ []string) error {
	a, err := openApp()
	if err != nil {
		return err
	}
	defer a.Close()

	asOf, err := resolveAsOf(a, flagAsOf)
	if err != nil {
		return err
	}
	n, err := a.svc.ProcessAllDueMasters(cmd.Context(), flagOwner, asOf)
	if err != nil {
		return err
	}
	fmt.Fprintf(cmd.OutOrStdout(), "expanded %d recurring bill(s) as of %s\n", n, asOf)
	return nil
}

func resolveAsOf(a *app, s string) (datecycle.Date, error) {
	if s != "" {
		return datecycle.Parse(s)
	}
	loc, err := a.cfg.TimeLocation()
	if err != nil {
		return datecycle.Date{}, err
	}
	return datecycle.Today(loc), nil
}
