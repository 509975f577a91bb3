package pool

import (
	"testing"
	"time"

	"github.com/ttakei/newsarc/internal/record"
)

var base = time.Date(2026, 8, 1, 0, 0, 0, 0, time.UTC)

func rec(id string, age time.Duration) record.Record {
	return record.Record{ID: id, Title: "t-" + id, Published: base.Add(-age)}
}

func ids(records []record.Record) []string {
	out := make([]string, len(records))
	for i, r := range records {
		out[i] = r.ID
	}
	return out
}

func TestMergeInsertsAndOrders(t *testing.T) {
	p := New()
	p.Merge([]record.Record{rec("b", 2 * time.Hour), rec("a", time.Hour), rec("c", 3 * time.Hour)})

	got := ids(p.Records())
	want := []string{"a", "b", "c"}
	for i := range want {
		if got[i] != want[i] {
			t.Fatalf("order = %v, want %v", got, want)
		}
	}
}

func TestMergeFreshestWins(t *testing.T) {
	older := record.Record{ID: "x", Title: "old", Published: base.Add(-time.Hour)}
	newer := record.Record{ID: "x", Title: "new", Published: base}

	p1 := New()
	p1.Merge([]record.Record{older})
	p1.Merge([]record.Record{newer})

	p2 := New()
	p2.Merge([]record.Record{newer})
	p2.Merge([]record.Record{older})

	for i, p := range []*Pool{p1, p2} {
		if p.Len() != 1 {
			t.Fatalf("pool %d: len = %d", i, p.Len())
		}
		if got := p.Records()[0].Title; got != "new" {
			t.Errorf("pool %d: kept %q, want \"new\"", i, got)
		}
	}
}

func TestMergeTieKeepsExisting(t *testing.T) {
	first := record.Record{ID: "x", Title: "first", Published: base}
	second := record.Record{ID: "x", Title: "second", Published: base}

	p := New()
	p.Merge([]record.Record{first})
	p.Merge([]record.Record{second})

	if got := p.Records()[0].Title; got != "first" {
		t.Errorf("tie kept %q, want \"first\"", got)
	}
}

func TestMergeIdempotent(t *testing.T) {
	batch := []record.Record{rec("a", time.Hour), rec("b", 2 * time.Hour)}

	p := New()
	p.Merge(batch)
	once := ids(p.Records())
	p.Merge(batch)
	twice := ids(p.Records())

	if p.Len() != 2 {
		t.Fatalf("len = %d after re-merge", p.Len())
	}
	for i := range once {
		if once[i] != twice[i] {
			t.Fatalf("re-merge changed view: %v vs %v", once, twice)
		}
	}
}

func TestUnparseablePublishedSortsOldestButKept(t *testing.T) {
	p := New()
	p.Merge([]record.Record{
		{ID: "undated-1"},
		rec("dated", time.Hour),
		{ID: "undated-2"},
	})

	got := ids(p.Records())
	if len(got) != 3 {
		t.Fatalf("len = %d, want 3", len(got))
	}
	if got[0] != "dated" {
		t.Errorf("dated record should sort first, got %v", got)
	}
	// undated records keep insertion order among themselves
	if got[1] != "undated-1" || got[2] != "undated-2" {
		t.Errorf("undated order = %v", got[1:])
	}
}

func TestOrderingNonIncreasing(t *testing.T) {
	p := New()
	p.Merge([]record.Record{
		rec("a", 5 * time.Hour), rec("b", time.Hour), rec("c", 9 * time.Hour),
		rec("d", 2 * time.Hour), {ID: "e"},
	})
	view := p.Records()
	for i := 1; i < len(view); i++ {
		if view[i].Published.After(view[i-1].Published) {
			t.Fatalf("view not non-increasing at %d: %v", i, ids(view))
		}
	}
}

func TestReset(t *testing.T) {
	p := New()
	p.Merge([]record.Record{rec("a", time.Hour)})
	p.Reset()
	if p.Len() != 0 || len(p.Records()) != 0 {
		t.Error("reset should empty the pool")
	}
	p.Merge([]record.Record{rec("b", time.Hour)})
	if p.Len() != 1 {
		t.Error("pool unusable after reset")
	}
}
