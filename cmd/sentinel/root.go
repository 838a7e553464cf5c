package main

import (
	"context"
	"encoding/json"
	"io"
	"os"

	"github.com/joho/godotenv"
	"github.com/spf13/cobra"
)

var (
	// cfgFile holds the path to the configuration file.
	cfgFile string

	// jsonOutput prints machine-readable output instead of tables.
	jsonOutput bool

	rootCmd = &cobra.Command{
		Use:   "sentinel",
		Short: "Fake review detector for marketplace products",
		Long: `ReviewSentinel scores the reviews of a marketplace product for signs of
fabrication and ranks trustworthy alternative sellers.`,
		SilenceUsage: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			return cmd.Help()
		},
	}
)

// Execute runs the root command.
func Execute(ctx context.Context) error {
	// .env is optional; real environment variables win.
	_ = godotenv.Load()
	return rootCmd.ExecuteContext(ctx)
}

func init() {
	defaultCfg := "configs/config.yaml"
	if v := os.Getenv("CONFIG_PATH"); v != "" {
		defaultCfg = v
	}
	rootCmd.PersistentFlags().StringVar(&cfgFile, "config", defaultCfg, "config file")
	rootCmd.PersistentFlags().BoolVar(&jsonOutput, "json", false, "print JSON instead of tables")

	rootCmd.AddCommand(analyzeCommand())
	rootCmd.AddCommand(quickCommand())
	rootCmd.AddCommand(sellersCommand())
	rootCmd.AddCommand(historyCommand())
	rootCmd.AddCommand(watchCommand())
}

func writeJSON(w io.Writer, v any) error {
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	return enc.Encode(v)
}
