package cmd

import (
	"context"
	"fmt"
	"sort"
	"time"

	"github.com/spf13/cobra"

	"github.com/ttakei/newsarc/internal/archive"
	"github.com/ttakei/newsarc/internal/cache"
	"github.com/ttakei/newsarc/internal/collect"
	"github.com/ttakei/newsarc/internal/config"
	"github.com/ttakei/newsarc/internal/pool"
	"github.com/ttakei/newsarc/internal/record"
)

var collectCmd = &cobra.Command{
	Use:   "collect",
	Short: "Fetch feeds and publish the archive",
	Long: `Fetch every enabled feed, fold the entries into the local cache, and
rebuild the month partitions, the partition directory, and the latest
window under the data root.`,
	RunE: runCollect,
}

func runCollect(cmd *cobra.Command, args []string) error {
	cfg, err := config.Load(flagConfig)
	if err != nil {
		return fmt.Errorf("loading config: %w", err)
	}

	sources := cfg.EnabledSources()
	if len(sources) == 0 {
		return fmt.Errorf("no enabled sources in config")
	}

	fmt.Printf("Fetching %d feed(s)...\n", len(sources))
	ctx, cancel := context.WithTimeout(context.Background(), 2*time.Minute)
	result := collect.FetchAll(ctx, sources)
	cancel()

	for _, e := range result.Errors {
		fmt.Printf("  [warn] %v\n", e)
	}
	if len(result.Records) == 0 && len(result.Errors) > 0 {
		return fmt.Errorf("every feed failed")
	}

	store, err := cache.Open(config.CachePath())
	if err != nil {
		return fmt.Errorf("opening cache: %w", err)
	}
	defer store.Close()

	if err := store.Upsert(result.Records); err != nil {
		return fmt.Errorf("caching records: %w", err)
	}

	all, err := store.All()
	if err != nil {
		return fmt.Errorf("reading cache: %w", err)
	}

	root := cfg.ResolvedDataDir()
	loc := cfg.Location()
	now := time.Now()

	written, err := publishPartitions(root, all, now, loc)
	if err != nil {
		return err
	}

	if deleted, err := archive.PruneMonths(root, cfg.GetKeepYears(), now, loc); err != nil {
		return fmt.Errorf("pruning partitions: %w", err)
	} else if len(deleted) > 0 {
		fmt.Printf("Pruned %d old partition(s).\n", len(deleted))
	}

	months, err := archive.ListMonths(root)
	if err != nil {
		return fmt.Errorf("listing partitions: %w", err)
	}
	if err := archive.WriteIndex(root, months, cfg.GetKeepYears(), cfg.GetLatestMonths(), now); err != nil {
		return fmt.Errorf("writing index: %w", err)
	}

	if err := publishLatest(root, cfg.GetLatestMonths(), now, loc); err != nil {
		return err
	}

	fmt.Printf("Fetched %d record(s), rebuilt %d partition(s), %d month(s) in the archive.\n",
		len(result.Records), written, len(months))
	return nil
}

// publishPartitions rebuilds every month the cache covers, merging the
// cached rows into whatever the partition already holds so a cache
// prune never shrinks the archive.
func publishPartitions(root string, all []record.Record, now time.Time, loc *time.Location) (int, error) {
	byMonth := make(map[string][]record.Record)
	for _, r := range all {
		t := r.Published
		if t.IsZero() {
			t = now
		}
		key := archive.KeyForTime(t, loc)
		byMonth[key] = append(byMonth[key], r)
	}

	keys := make([]string, 0, len(byMonth))
	for k := range byMonth {
		keys = append(keys, k)
	}
	sort.Strings(keys)

	for _, key := range keys {
		existing, err := archive.ReadPartition(root, key)
		if err != nil {
			return 0, fmt.Errorf("reading partition %s: %w", key, err)
		}
		p := pool.New()
		p.Merge(existing)
		p.Merge(byMonth[key])
		if err := archive.WritePartition(root, key, p.Records()); err != nil {
			return 0, fmt.Errorf("writing partition %s: %w", key, err)
		}
	}
	return len(keys), nil
}

// publishLatest rebuilds the eagerly loaded window from the newest
// month partitions.
func publishLatest(root string, latestMonths int, now time.Time, loc *time.Location) error {
	p := pool.New()
	for _, key := range archive.MonthsBack(latestMonths, now, loc) {
		records, err := archive.ReadPartition(root, key)
		if err != nil {
			return fmt.Errorf("reading partition %s: %w", key, err)
		}
		p.Merge(records)
	}
	if err := archive.WriteLatest(root, p.Records()); err != nil {
		return fmt.Errorf("writing latest window: %w", err)
	}
	return nil
}
