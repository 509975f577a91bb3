package archive

import (
	"reflect"
	"testing"
	"time"
)

var jst = time.FixedZone("JST", 9*3600)

func TestKeyForTime(t *testing.T) {
	// 2026-08-31 23:30 UTC is already September in JST
	ts := time.Date(2026, 8, 31, 23, 30, 0, 0, time.UTC)
	if got := KeyForTime(ts, jst); got != "2026-09" {
		t.Errorf("KeyForTime = %q, want 2026-09", got)
	}
	if got := KeyForTime(ts, time.UTC); got != "2026-08" {
		t.Errorf("KeyForTime UTC = %q, want 2026-08", got)
	}
}

func TestMonthsBack(t *testing.T) {
	now := time.Date(2026, 2, 15, 12, 0, 0, 0, time.UTC)
	got := MonthsBack(3, now, time.UTC)
	want := []string{"2025-12", "2026-01", "2026-02"}
	if !reflect.DeepEqual(got, want) {
		t.Errorf("MonthsBack = %v, want %v", got, want)
	}
	if MonthsBack(0, now, time.UTC) != nil {
		t.Error("MonthsBack(0) should be nil")
	}
}

func TestValidKey(t *testing.T) {
	tests := []struct {
		key  string
		want bool
	}{
		{"2026-08", true},
		{"2026-13", false},
		{"2026-8", false},
		{"202608", false},
		{"latest", false},
	}
	for _, tt := range tests {
		if got := ValidKey(tt.key); got != tt.want {
			t.Errorf("ValidKey(%q) = %v, want %v", tt.key, got, tt.want)
		}
	}
}

func TestIndexSpanKeys(t *testing.T) {
	ix := &Index{Months: []string{"2025-10", "2025-11", "2025-12", "2026-01", "2026-02"}}
	now := time.Date(2026, 2, 15, 0, 0, 0, 0, time.UTC)

	got := ix.SpanKeys(3, now, time.UTC)
	want := []string{"2025-12", "2026-01", "2026-02"}
	if !reflect.DeepEqual(got, want) {
		t.Errorf("SpanKeys(3) = %v, want %v", got, want)
	}

	// span wider than the archive clips to what exists
	if got := ix.SpanKeys(0, now, time.UTC); len(got) != 5 {
		t.Errorf("SpanKeys(all) = %v, want all 5", got)
	}

	// months the directory does not list are not resolved
	got = ix.SpanKeys(48, now, time.UTC)
	if len(got) != 5 {
		t.Errorf("SpanKeys(48) = %v, want the 5 listed", got)
	}
}

func TestIndexPartitionPath(t *testing.T) {
	ix := &Index{}
	if got := ix.PartitionPath("2026-08"); got != "archive/2026/2026-08.ndjson.gz" {
		t.Errorf("PartitionPath = %q", got)
	}
	ix.ArchivePathTemplate = "cold/{YYYY}/{YYYY-MM}.ndjson"
	if got := ix.PartitionPath("2026-08"); got != "cold/2026/2026-08.ndjson" {
		t.Errorf("PartitionPath with template = %q", got)
	}
}
