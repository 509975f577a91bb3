package archive

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/ttakei/newsarc/internal/record"
)

// Status is a partition's lifecycle within a session. failed is
// terminal: a partition that failed once is not retried, but it never
// blocks other partitions.
type Status int

const (
	StatusUnrequested Status = iota
	StatusLoading
	StatusLoaded
	StatusFailed
)

type partition struct {
	status  Status
	records []record.Record
	err     error
}

// LoadResult is the outcome for one partition in a batch load. For a
// partition that was already loaded it carries the cached records, so
// re-merging stays idempotent.
type LoadResult struct {
	Key     string
	Records []record.Record
	Err     error
}

// Loader resolves and fetches cold partitions one at a time, caching
// each loaded record set for the session. It is not safe for concurrent
// use; all work happens on the caller's goroutine.
type Loader struct {
	fetcher Fetcher
	loc     *time.Location
	index   *Index
	parts   map[string]*partition

	// Pause between consecutive fetches. Politeness toward the
	// hosting site, not a correctness requirement.
	Pause time.Duration
}

func NewLoader(f Fetcher, loc *time.Location) *Loader {
	if loc == nil {
		loc = time.UTC
	}
	return &Loader{
		fetcher: f,
		loc:     loc,
		parts:   make(map[string]*partition),
		Pause:   200 * time.Millisecond,
	}
}

// FetchIndex retrieves and caches the partition directory. Any failure
// wraps ErrDirectoryUnavailable; the caller degrades to hot-only mode
// instead of failing the session.
func (l *Loader) FetchIndex(ctx context.Context) (*Index, error) {
	if l.index != nil {
		return l.index, nil
	}
	rc, err := l.fetcher.Open(ctx, IndexPath)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrDirectoryUnavailable, err)
	}
	defer rc.Close()

	var ix Index
	if err := json.NewDecoder(rc).Decode(&ix); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrDirectoryUnavailable, err)
	}

	// The directory is remote input. Drop malformed month entries here
	// so no later path resolution trips over them.
	months := ix.Months[:0]
	for _, key := range ix.Months {
		if ValidKey(key) {
			months = append(months, key)
		}
	}
	ix.Months = months

	l.index = &ix
	return l.index, nil
}

// Index returns the cached directory, or nil when it was unavailable.
func (l *Loader) Index() *Index {
	return l.index
}

// FetchHot retrieves and parses the hot dataset. Unlike partitions this
// is not cached here; it is loaded once at session start.
func (l *Loader) FetchHot(ctx context.Context) ([]record.Record, error) {
	rc, err := l.fetcher.Open(ctx, HotPath)
	if err != nil {
		return nil, err
	}
	body, err := decodeBody(rc, HotPath)
	if err != nil {
		return nil, err
	}
	defer body.Close()
	return DecodeRecords(body)
}

// ResolveSpan maps a requested span ("last n months"; n <= 0 for the
// whole archive) to concrete partition keys. Without a directory the
// span degrades to nothing, leaving the caller on hot data only.
func (l *Loader) ResolveSpan(months int, now time.Time) []string {
	if l.index == nil {
		return nil
	}
	return l.index.SpanKeys(months, now, l.loc)
}

// Load brings the given partitions in, strictly one at a time. Already
// loaded keys are served from cache; failed keys report their recorded
// error; everything else is fetched. One partition's failure never
// drops other partitions or aborts the batch — the only early exit is
// the context itself.
func (l *Loader) Load(ctx context.Context, keys []string) []LoadResult {
	results := make([]LoadResult, 0, len(keys))
	for i, key := range keys {
		p := l.parts[key]
		if p == nil {
			p = &partition{}
			l.parts[key] = p
		}

		switch p.status {
		case StatusLoaded:
			results = append(results, LoadResult{Key: key, Records: p.records})
			continue
		case StatusFailed:
			results = append(results, LoadResult{Key: key, Err: p.err})
			continue
		}

		if err := ctx.Err(); err != nil {
			p.status = StatusUnrequested
			results = append(results, LoadResult{Key: key, Err: err})
			continue
		}

		p.status = StatusLoading
		records, err := l.fetchPartition(ctx, key)
		if err != nil {
			p.status = StatusFailed
			p.err = err
			results = append(results, LoadResult{Key: key, Err: err})
		} else {
			p.status = StatusLoaded
			p.records = records
			results = append(results, LoadResult{Key: key, Records: records})
		}

		if l.Pause > 0 && i < len(keys)-1 {
			select {
			case <-time.After(l.Pause):
			case <-ctx.Done():
			}
		}
	}
	return results
}

func (l *Loader) fetchPartition(ctx context.Context, key string) ([]record.Record, error) {
	if l.index == nil {
		return nil, fmt.Errorf("%w: no partition directory", ErrPartitionUnavailable)
	}
	if !ValidKey(key) {
		return nil, fmt.Errorf("%w: invalid partition key %q", ErrPartitionUnavailable, key)
	}
	path := l.index.PartitionPath(key)

	rc, err := l.fetcher.Open(ctx, path)
	if err != nil {
		return nil, fmt.Errorf("%w: %s: %v", ErrPartitionUnavailable, key, err)
	}
	body, err := decodeBody(rc, path)
	if err != nil {
		if errors.Is(err, ErrUnsupportedEncoding) {
			return nil, err
		}
		return nil, fmt.Errorf("%w: %s: %v", ErrPartitionUnavailable, key, err)
	}
	defer body.Close()

	records, err := DecodeRecords(body)
	if err != nil {
		return nil, fmt.Errorf("%w: %s: %v", ErrPartitionUnavailable, key, err)
	}
	return records, nil
}

// Statuses returns the loaded and failed partition counts, for status
// display.
func (l *Loader) Statuses() (loaded, failed int) {
	for _, p := range l.parts {
		switch p.status {
		case StatusLoaded:
			loaded++
		case StatusFailed:
			failed++
		}
	}
	return loaded, failed
}

// FailedKeys returns the keys that failed this session, with their
// reasons.
func (l *Loader) FailedKeys() map[string]error {
	out := make(map[string]error)
	for k, p := range l.parts {
		if p.status == StatusFailed {
			out[k] = p.err
		}
	}
	return out
}
