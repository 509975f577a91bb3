// Package record defines the canonical news record and the tolerant
// normalizer that maps raw archive rows onto it.
package record

import (
	"strings"
	"time"
)

// Record is one news item. ID is the item's canonical URL and is the
// record's identity in the pool; records are never mutated after
// normalization, only replaced wholesale by a fresher version.
type Record struct {
	ID        string
	Title     string
	Source    string
	Category  string
	Summary   string
	Published time.Time
}

// Field alias lists, in priority order. Archive rows come from several
// generations of the collector, so each canonical field accepts the key
// names all of them used. First non-empty string value wins.
var (
	idKeys        = []string{"link", "url", "href", "guid"}
	titleKeys     = []string{"title", "headline"}
	sourceKeys    = []string{"source", "publisher", "site"}
	categoryKeys  = []string{"category", "section"}
	summaryKeys   = []string{"summary", "description"}
	publishedKeys = []string{"pubDate", "published", "published_at", "date", "updated"}
)

// publishedLayouts are tried in order when parsing a published timestamp.
var publishedLayouts = []string{
	time.RFC3339,
	"2006-01-02T15:04:05",
	"2006-01-02 15:04:05",
	"2006-01-02",
	time.RFC1123Z,
	time.RFC1123,
}

// Normalize maps a raw row with variable key names onto a Record. It
// reports false when the row has no resolvable identity; such rows are
// dropped by the caller without failing the partition. Pure function.
func Normalize(raw map[string]any) (Record, bool) {
	id := firstString(raw, idKeys)
	if id == "" {
		return Record{}, false
	}

	r := Record{
		ID:       id,
		Title:    firstString(raw, titleKeys),
		Source:   firstString(raw, sourceKeys),
		Category: firstString(raw, categoryKeys),
		Summary:  firstString(raw, summaryKeys),
	}

	if s := firstString(raw, publishedKeys); s != "" {
		r.Published = parsePublished(s)
	}
	return r, true
}

func firstString(raw map[string]any, keys []string) string {
	for _, k := range keys {
		if v, ok := raw[k]; ok {
			if s, ok := v.(string); ok {
				if s = strings.TrimSpace(s); s != "" {
					return s
				}
			}
		}
	}
	return ""
}

// parsePublished returns the zero time when no layout matches. Records
// with a zero Published sort as oldest but are never dropped.
func parsePublished(s string) time.Time {
	for _, layout := range publishedLayouts {
		if t, err := time.Parse(layout, s); err == nil {
			return t
		}
	}
	return time.Time{}
}
