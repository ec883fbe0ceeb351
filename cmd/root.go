package cmd

import (
	"fmt"
	"os"

	"github.com/k-hicham/dailybrief/internal/update"
	"github.com/spf13/cobra"
)

var (
	version = "dev"
	commit  = "none"
	date    = "unknown"
)

var (
	flagConfig  string
	flagTarget  string
	flagWatch   string
	flagVerbose bool
)

var rootCmd = &cobra.Command{
	Use:   "dailybrief [watch keyword...]",
	Short: "Daily news brief generator",
	Long: `dailybrief aggregates short news summaries from curated RSS feeds
(with a keyword-search fallback) into a dated HTML brief and injects it
into a target document. Re-running replaces the previous brief in place.

Positional arguments, when given, set the watch keyword for an extra
ad-hoc section driven by keyword search only.`,
	Args: cobra.ArbitraryArgs,
	RunE: runBrief,
}

func init() {
	rootCmd.PersistentFlags().StringVar(&flagConfig, "config", "", "path to config file")
	rootCmd.PersistentFlags().StringVar(&flagWatch, "watch", "", "watch keyword for an extra keyword-search section")
	rootCmd.PersistentFlags().BoolVar(&flagVerbose, "verbose", false, "print per-source fetch diagnostics")
	rootCmd.Flags().StringVar(&flagTarget, "target", "", "target HTML document (overrides config)")

	rootCmd.AddCommand(versionCmd)
	rootCmd.AddCommand(previewCmd)
	rootCmd.AddCommand(sourcesCmd)
}

var versionCmd = &cobra.Command{
	Use:   "version",
	Short: "Print version information",
	Run: func(cmd *cobra.Command, args []string) {
		fmt.Printf("dailybrief %s (commit: %s, built: %s)\n", version, commit, date)
		if r := update.Check(cmd.Context(), version); r != nil {
			fmt.Printf("A newer version is available: %s\n", r.LatestVersion)
		}
	},
}

func Execute() {
	if err := rootCmd.Execute(); err != nil {
		os.Exit(1)
	}
}

func SetVersionInfo(v, c, d string) {
	version = v
	commit = c
	date = d
}
