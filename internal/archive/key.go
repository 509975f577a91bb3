// Package archive handles the tiered news archive layout: a hot
// latest.ndjson window, gzip NDJSON month partitions, and the index.json
// partition directory. It covers both sides: the loader the browser uses
// to widen its time range, and the writer the collector uses to publish.
package archive

import "time"

// Partition keys are "YYYY-MM" month buckets; lexicographic order is
// time order.
const keyLayout = "2006-01"

// KeyForTime buckets a timestamp into its month partition key, in the
// given location (the original archive buckets by JST).
func KeyForTime(t time.Time, loc *time.Location) string {
	return t.In(loc).Format(keyLayout)
}

// ValidKey reports whether s is a well-formed partition key. The
// round-trip check rejects non-canonical spellings like "2026-1",
// which would break the lexicographic-is-chronological property.
func ValidKey(s string) bool {
	t, err := time.Parse(keyLayout, s)
	return err == nil && t.Format(keyLayout) == s
}

// MonthsBack returns the keys for the last n months including the
// current one, ascending.
func MonthsBack(n int, now time.Time, loc *time.Location) []string {
	if n <= 0 {
		return nil
	}
	t := now.In(loc)
	cur := time.Date(t.Year(), t.Month(), 1, 0, 0, 0, 0, loc)
	keys := make([]string, n)
	for i := n - 1; i >= 0; i-- {
		keys[i] = cur.Format(keyLayout)
		cur = cur.AddDate(0, -1, 0)
	}
	return keys
}

// monthStart parses a key back into the first instant of its month.
func monthStart(key string, loc *time.Location) (time.Time, bool) {
	t, err := time.ParseInLocation(keyLayout, key, loc)
	if err != nil {
		return time.Time{}, false
	}
	return t, true
}
