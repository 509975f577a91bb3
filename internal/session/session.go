// Package session owns the per-session working state: the partition
// loader, the merged record pool, and the query surface over both. It
// replaces the original client's module-level caches with an explicit
// store object.
package session

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/ttakei/newsarc/internal/archive"
	"github.com/ttakei/newsarc/internal/facet"
	"github.com/ttakei/newsarc/internal/pool"
	"github.com/ttakei/newsarc/internal/query"
	"github.com/ttakei/newsarc/internal/record"
)

// ErrHotDataset marks the one fatal failure: without the eagerly loaded
// hot window there is no data to query at all. Every other failure only
// degrades coverage.
var ErrHotDataset = errors.New("hot dataset unavailable")

// Session is single-threaded by design: loads run on the caller's
// goroutine, one partition at a time, and the pool is only written
// after a load completes.
type Session struct {
	fetcher archive.Fetcher
	loc     *time.Location
	now     func() time.Time

	loader *archive.Loader
	pool   *pool.Pool

	dirErr  error
	started bool
}

func New(f archive.Fetcher, loc *time.Location) *Session {
	if loc == nil {
		loc = time.UTC
	}
	s := &Session{fetcher: f, loc: loc, now: time.Now}
	s.Reset()
	return s
}

// Reset discards the pool and all partition state, returning the
// session to its pre-Start condition.
func (s *Session) Reset() {
	s.loader = archive.NewLoader(s.fetcher, s.loc)
	s.pool = pool.New()
	s.dirErr = nil
	s.started = false
}

// Start fetches the partition directory and the hot dataset. A missing
// directory degrades the session to hot-only (recorded, not fatal); a
// missing hot dataset is fatal and leaves the pool unqueryable.
func (s *Session) Start(ctx context.Context) error {
	if s.started {
		s.Reset()
	}

	if _, err := s.loader.FetchIndex(ctx); err != nil {
		s.dirErr = err
	}

	hot, err := s.loader.FetchHot(ctx)
	if err != nil {
		return fmt.Errorf("%w: %v", ErrHotDataset, err)
	}
	s.pool.Merge(hot)
	s.started = true
	return nil
}

// DirectoryErr reports whether the session is running in hot-only mode,
// and why.
func (s *Session) DirectoryErr() error {
	return s.dirErr
}

// Index returns the partition directory, or nil in hot-only mode.
func (s *Session) Index() *archive.Index {
	return s.loader.Index()
}

// Expand widens the loaded range to the last `months` months (<= 0 for
// the whole archive), loading missing partitions sequentially and
// merging each successful one. Per-partition failures come back in the
// results; already-loaded data is never dropped.
func (s *Session) Expand(ctx context.Context, months int) []archive.LoadResult {
	keys := s.loader.ResolveSpan(months, s.now())
	results := s.loader.Load(ctx, keys)
	for _, res := range results {
		if res.Err == nil {
			s.pool.Merge(res.Records)
		}
	}
	return results
}

// Results returns the filtered, ordered record list for rendering:
// facet selection first, then the boolean query, over the pool's
// Published-descending view.
func (s *Session) Results(expr query.Expression, sel facet.Selection) []record.Record {
	var out []record.Record
	for _, r := range s.pool.Records() {
		if !facet.Match(r, sel) {
			continue
		}
		if !query.Matches(r, expr) {
			continue
		}
		out = append(out, r)
	}
	return out
}

// FacetOptions derives the narrowed selector lists from the current
// pool, clamping stale selections. `changed` names the facet the caller
// just set, which is exempt from clamping.
func (s *Session) FacetOptions(sel facet.Selection, changed facet.Changed) (facet.Options, facet.Selection) {
	return facet.Narrow(s.pool.Records(), sel, changed)
}

// PoolSize is the number of distinct records currently queryable.
func (s *Session) PoolSize() int {
	return s.pool.Len()
}

// PartitionStatus reports loaded and failed partition counts.
func (s *Session) PartitionStatus() (loaded, failed int) {
	return s.loader.Statuses()
}

// SetPause adjusts the inter-partition pause (zero disables it).
func (s *Session) SetPause(d time.Duration) {
	s.loader.Pause = d
}
