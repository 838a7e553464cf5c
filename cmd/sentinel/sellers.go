package main

import (
	"fmt"
	"strings"

	"github.com/spf13/cobra"

	"ReviewSentinel/internal/notifier"
)

func sellersCommand() *cobra.Command {
	var exclude string
	cmd := &cobra.Command{
		Use:   "sellers <product name...>",
		Short: "Find the most trusted sellers of a product",
		Args:  cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			a, err := newApp(false)
			if err != nil {
				return err
			}
			defer a.Close()

			sellers, err := a.detector.FindTrustedSellers(cmd.Context(), strings.Join(args, " "), exclude)
			if err != nil {
				return err
			}
			if jsonOutput {
				return writeJSON(cmd.OutOrStdout(), sellers)
			}
			fmt.Fprintln(cmd.OutOrStdout(), notifier.FormatTrustedSellers(sellers))
			return nil
		},
	}
	cmd.Flags().StringVar(&exclude, "exclude", "", "shop domain to leave out")
	return cmd
}
