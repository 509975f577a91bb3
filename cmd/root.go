package cmd

import (
	"fmt"
	"os"
	"strings"
	"time"

	"github.com/spf13/cobra"

	"github.com/ttakei/newsarc/internal/archive"
	"github.com/ttakei/newsarc/internal/config"
)

var (
	version = "dev"
	commit  = "none"
	date    = "unknown"
)

var (
	flagConfig string
	flagData   string
	flagMonths int
)

var rootCmd = &cobra.Command{
	Use:   "newsarc",
	Short: "Terminal browser for a tiered news archive",
	Long: `newsarc browses a published news archive: the latest window loads
eagerly, older month partitions load on demand as you widen the range.`,
	RunE: runTUI,
}

func init() {
	rootCmd.PersistentFlags().StringVar(&flagConfig, "config", "", "path to config file")
	rootCmd.Flags().StringVar(&flagData, "data", "", "archive root (URL or directory, overrides config)")
	rootCmd.Flags().IntVar(&flagMonths, "months", -1, "initial month range (0 = whole archive)")

	rootCmd.AddCommand(versionCmd)
	rootCmd.AddCommand(collectCmd)
	rootCmd.AddCommand(searchCmd)
	rootCmd.AddCommand(pruneCmd)
	rootCmd.AddCommand(statsCmd)
}

var versionCmd = &cobra.Command{
	Use:   "version",
	Short: "Print version information",
	Run: func(cmd *cobra.Command, args []string) {
		fmt.Printf("newsarc %s (commit: %s, built: %s)\n", version, commit, date)
	},
}

// newFetcher picks the archive transport: an http(s) target gets the
// HTTP fetcher, anything else is a local directory. The --data flag
// overrides the config, which falls back to the collector's local root.
func newFetcher(cfg *config.Config) (archive.Fetcher, error) {
	target := flagData
	if target == "" {
		target = cfg.DataURL
	}
	if strings.HasPrefix(target, "http://") || strings.HasPrefix(target, "https://") {
		return archive.NewHTTPFetcher(target)
	}
	if target != "" {
		return archive.NewDirFetcher(target), nil
	}
	return archive.NewDirFetcher(cfg.ResolvedDataDir()), nil
}

func resolveMonths(cfg *config.Config) int {
	if flagMonths >= 0 {
		return flagMonths
	}
	return cfg.GetLatestMonths()
}

func parseSince(s string) (time.Duration, error) {
	if len(s) > 1 && s[len(s)-1] == 'd' {
		var days int
		if _, err := fmt.Sscanf(s, "%dd", &days); err == nil {
			return time.Duration(days) * 24 * time.Hour, nil
		}
	}
	return time.ParseDuration(s)
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
