package cmd

import (
	"context"
	"fmt"
	"time"

	"github.com/spf13/cobra"

	"github.com/ttakei/newsarc/internal/config"
	"github.com/ttakei/newsarc/internal/session"
	"github.com/ttakei/newsarc/internal/tui"
)

func runTUI(cmd *cobra.Command, args []string) error {
	cfg, err := config.Load(flagConfig)
	if err != nil {
		return fmt.Errorf("loading config: %w", err)
	}

	fetcher, err := newFetcher(cfg)
	if err != nil {
		return fmt.Errorf("resolving archive root: %w", err)
	}

	// The hot window loads before the program starts; month partitions
	// load inside the TUI as the range widens.
	sess := session.New(fetcher, cfg.Location())
	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	err = sess.Start(ctx)
	cancel()
	if err != nil {
		return err
	}

	if derr := sess.DirectoryErr(); derr != nil {
		fmt.Printf("  [warn] archive directory unavailable, latest window only: %v\n", derr)
	}

	return tui.Run(tui.RunOpts{Sess: sess, Months: resolveMonths(cfg)})
}
