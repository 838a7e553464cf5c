package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"ReviewSentinel/internal/notifier"
)

func historyCommand() *cobra.Command {
	var limit int
	cmd := &cobra.Command{
		Use:   "history [product-url]",
		Short: "List stored analyses, newest first",
		Args:  cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			a, err := newApp(false)
			if err != nil {
				return err
			}
			defer a.Close()

			productURL := ""
			if len(args) == 1 {
				productURL = args[0]
			}
			runs, err := a.recorder.RecentRuns(cmd.Context(), productURL, limit)
			if err != nil {
				return err
			}
			if jsonOutput {
				return writeJSON(cmd.OutOrStdout(), runs)
			}
			fmt.Fprintln(cmd.OutOrStdout(), notifier.FormatHistory(runs))
			return nil
		},
	}
	cmd.Flags().IntVar(&limit, "limit", 10, "maximum number of runs")
	return cmd
}
