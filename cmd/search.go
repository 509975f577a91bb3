package cmd

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/spf13/cobra"

	"github.com/ttakei/newsarc/internal/config"
	"github.com/ttakei/newsarc/internal/facet"
	"github.com/ttakei/newsarc/internal/query"
	"github.com/ttakei/newsarc/internal/session"
)

var (
	flagSearchSource   string
	flagSearchCategory string
	flagSearchLimit    int
)

var searchCmd = &cobra.Command{
	Use:   "search [query...]",
	Short: "Search the archive from the command line",
	Long: `Run one query and print the matches. Words are ANDed, | separates
OR alternatives; an empty query lists everything in range.`,
	RunE: runSearch,
}

func init() {
	searchCmd.Flags().StringVar(&flagSearchSource, "source", "", "restrict to one source")
	searchCmd.Flags().StringVar(&flagSearchCategory, "category", "", "restrict to one category")
	searchCmd.Flags().IntVar(&flagSearchLimit, "limit", 20, "maximum results to print (0 = no limit)")
	searchCmd.Flags().StringVar(&flagData, "data", "", "archive root (URL or directory, overrides config)")
	searchCmd.Flags().IntVar(&flagMonths, "months", -1, "month range to load (0 = whole archive)")
}

func runSearch(cmd *cobra.Command, args []string) error {
	cfg, err := config.Load(flagConfig)
	if err != nil {
		return fmt.Errorf("loading config: %w", err)
	}

	fetcher, err := newFetcher(cfg)
	if err != nil {
		return fmt.Errorf("resolving archive root: %w", err)
	}

	sess := session.New(fetcher, cfg.Location())
	ctx, cancel := context.WithTimeout(context.Background(), 2*time.Minute)
	defer cancel()

	if err := sess.Start(ctx); err != nil {
		return err
	}
	if derr := sess.DirectoryErr(); derr != nil {
		fmt.Printf("  [warn] archive directory unavailable, latest window only: %v\n", derr)
	} else {
		for _, res := range sess.Expand(ctx, resolveMonths(cfg)) {
			if res.Err != nil {
				fmt.Printf("  [warn] partition %s: %v\n", res.Key, res.Err)
			}
		}
	}

	expr := query.Parse(strings.Join(args, " "))
	sel := facet.Selection{Source: flagSearchSource, Category: flagSearchCategory}
	records := sess.Results(expr, sel)

	if len(records) == 0 {
		fmt.Println("No matches.")
		return nil
	}

	total := len(records)
	if flagSearchLimit > 0 && total > flagSearchLimit {
		records = records[:flagSearchLimit]
	}

	for i, r := range records {
		date := "----------"
		if !r.Published.IsZero() {
			date = r.Published.In(cfg.Location()).Format("2006-01-02")
		}
		fmt.Printf("%2d. [%s] %s  %s\n", i+1, r.Source, date, r.Title)
		fmt.Printf("      %s\n", r.ID)
	}
	if len(records) < total {
		fmt.Printf("... and %d more (use --limit to see them)\n", total-len(records))
	}
	return nil
}
