// Package pool maintains the deduplicated, time-ordered working set of
// records merged from the hot dataset and loaded cold partitions.
package pool

import (
	"sort"

	"github.com/ttakei/newsarc/internal/record"
)

type entry struct {
	rec record.Record
	seq int // insertion order, breaks Published ties stably
}

// Pool maps record identity to the freshest version seen so far.
// Merging is idempotent and order-independent: replaying a batch, or
// merging batches in any order, yields the same logical content.
type Pool struct {
	byID    map[string]int // id -> index into entries
	entries []entry
	nextSeq int
	ordered []record.Record // cached view, nil when stale
}

func New() *Pool {
	return &Pool{byID: make(map[string]int)}
}

// Merge folds a batch of records into the pool. An unseen id is
// inserted; a seen id is replaced only when the incoming Published is
// strictly later, so equal timestamps keep the existing entry.
func (p *Pool) Merge(records []record.Record) {
	for _, r := range records {
		if r.ID == "" {
			continue
		}
		idx, ok := p.byID[r.ID]
		if !ok {
			p.byID[r.ID] = len(p.entries)
			p.entries = append(p.entries, entry{rec: r, seq: p.nextSeq})
			p.nextSeq++
			p.ordered = nil
			continue
		}
		if r.Published.After(p.entries[idx].rec.Published) {
			p.entries[idx].rec = r
			p.ordered = nil
		}
	}
}

// Records returns the queryable view: Published descending, with
// records sharing a timestamp (including the zero time, which sorts
// oldest) kept in insertion order. The returned slice is shared; callers
// must not modify it.
func (p *Pool) Records() []record.Record {
	if p.ordered != nil {
		return p.ordered
	}
	sorted := make([]entry, len(p.entries))
	copy(sorted, p.entries)
	sort.SliceStable(sorted, func(i, j int) bool {
		ti, tj := sorted[i].rec.Published, sorted[j].rec.Published
		if ti.Equal(tj) {
			return sorted[i].seq < sorted[j].seq
		}
		return ti.After(tj)
	})
	p.ordered = make([]record.Record, len(sorted))
	for i, e := range sorted {
		p.ordered[i] = e.rec
	}
	return p.ordered
}

func (p *Pool) Len() int {
	return len(p.entries)
}

// Reset empties the pool for a fresh session.
func (p *Pool) Reset() {
	p.byID = make(map[string]int)
	p.entries = nil
	p.ordered = nil
	p.nextSeq = 0
}
