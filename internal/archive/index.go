package archive

import (
	"strings"
	"time"
)

// Relative paths under the data root, shared by the HTTP and directory
// transports and by the collector's writer.
const (
	IndexPath = "data/index.json"
	HotPath   = "data/latest.ndjson"

	defaultPathTemplate = "archive/{YYYY}/{YYYY-MM}.ndjson.gz"
)

// Index is the partition directory published next to the hot dataset.
type Index struct {
	GeneratedAt         string   `json:"generatedAt"`
	KeepYears           int      `json:"keepYears"`
	LatestMonths        int      `json:"latestMonths"`
	MinMonth            string   `json:"minMonth,omitempty"`
	MaxMonth            string   `json:"maxMonth,omitempty"`
	Months              []string `json:"months"`
	ArchivePathTemplate string   `json:"archivePathTemplate"`
}

// PartitionPath resolves a key to its path under the data root using
// the index's template.
func (ix *Index) PartitionPath(key string) string {
	tmpl := ix.ArchivePathTemplate
	if tmpl == "" {
		tmpl = defaultPathTemplate
	}
	path := strings.ReplaceAll(tmpl, "{YYYY-MM}", key)
	return strings.ReplaceAll(path, "{YYYY}", key[:4])
}

// SpanKeys returns the ordered partition keys covering the last
// `months` months, restricted to what the directory actually lists.
// months <= 0 means the whole archive.
func (ix *Index) SpanKeys(months int, now time.Time, loc *time.Location) []string {
	if months <= 0 {
		out := make([]string, len(ix.Months))
		copy(out, ix.Months)
		return out
	}
	want := make(map[string]struct{}, months)
	for _, k := range MonthsBack(months, now, loc) {
		want[k] = struct{}{}
	}
	var keys []string
	for _, k := range ix.Months {
		if _, ok := want[k]; ok {
			keys = append(keys, k)
		}
	}
	return keys
}
