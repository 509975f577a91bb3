// Package collect fetches the configured feeds and turns their entries
// into archive records.
package collect

import (
	"context"
	"fmt"
	"strings"
	"sync"
	"time"

	"github.com/mmcdole/gofeed"

	"github.com/ttakei/newsarc/internal/config"
	"github.com/ttakei/newsarc/internal/record"
)

type Fetcher interface {
	Fetch(ctx context.Context, source config.Source) ([]record.Record, error)
}

type RSSFetcher struct {
	parser *gofeed.Parser
}

func NewRSSFetcher() *RSSFetcher {
	p := gofeed.NewParser()
	p.UserAgent = "newsarc/1.0 (+https://github.com/ttakei/newsarc)"
	return &RSSFetcher{parser: p}
}

func (f *RSSFetcher) Fetch(ctx context.Context, source config.Source) ([]record.Record, error) {
	feed, err := f.parser.ParseURLWithContext(source.URL, ctx)
	if err != nil {
		return nil, fmt.Errorf("fetching %s: %w", source.Name, err)
	}

	records := make([]record.Record, 0, len(feed.Items))
	for _, item := range feed.Items {
		rec, ok := fromItem(item, source)
		if !ok {
			continue
		}
		records = append(records, rec)
	}
	return records, nil
}

// fromItem maps one feed entry to a record. Entries without a link have
// no identity and are dropped; entries without a date get the fetch
// time so they land in the current month partition.
func fromItem(item *gofeed.Item, source config.Source) (record.Record, bool) {
	link := strings.TrimSpace(item.Link)
	title := strings.TrimSpace(item.Title)
	if link == "" || title == "" {
		return record.Record{}, false
	}

	pub := time.Now().UTC()
	if item.PublishedParsed != nil {
		pub = item.PublishedParsed.UTC()
	} else if item.UpdatedParsed != nil {
		pub = item.UpdatedParsed.UTC()
	}

	summary := item.Description
	if summary == "" {
		summary = item.Content
	}
	summary = truncate(stripHTML(summary), 300)

	return record.Record{
		ID:        link,
		Title:     title,
		Source:    source.Name,
		Category:  source.Category,
		Summary:   summary,
		Published: pub,
	}, true
}

func truncate(s string, n int) string {
	runes := []rune(s)
	if len(runes) <= n {
		return s
	}
	if n <= 3 {
		return string(runes[:n])
	}
	return string(runes[:n-3]) + "..."
}

func stripHTML(s string) string {
	var b strings.Builder
	inTag := false
	for _, r := range s {
		switch {
		case r == '<':
			inTag = true
		case r == '>':
			inTag = false
		case !inTag:
			b.WriteRune(r)
		}
	}
	return strings.Join(strings.Fields(b.String()), " ")
}

type FetchResult struct {
	Records []record.Record
	Errors  []error
}

// FetchAll fetches every enabled source concurrently. A failing feed
// contributes an error, never aborts the batch.
func FetchAll(ctx context.Context, sources []config.Source) FetchResult {
	var (
		mu     sync.Mutex
		result FetchResult
		wg     sync.WaitGroup
	)

	fetcher := NewRSSFetcher()

	for _, src := range sources {
		wg.Add(1)
		go func(s config.Source) {
			defer wg.Done()
			records, err := fetcher.Fetch(ctx, s)
			mu.Lock()
			defer mu.Unlock()
			if err != nil {
				result.Errors = append(result.Errors, err)
				return
			}
			result.Records = append(result.Records, records...)
		}(src)
	}

	wg.Wait()
	return result
}
