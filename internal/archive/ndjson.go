package archive

import (
	"bufio"
	"encoding/json"
	"io"
	"time"

	"github.com/ttakei/newsarc/internal/record"
)

// wireRecord is the published row shape, one JSON object per line.
// Reading goes through record.Normalize instead, which also accepts the
// older collectors' field names.
type wireRecord struct {
	Title    string `json:"title"`
	Link     string `json:"link"`
	PubDate  string `json:"pubDate"`
	Source   string `json:"source"`
	Category string `json:"category"`
	Summary  string `json:"summary,omitempty"`
}

// Long URLs and summaries can push a line well past bufio's default.
const maxLineBytes = 1 << 20

// DecodeRecords parses a newline-delimited record stream. Malformed
// lines and rows without a resolvable identity are skipped, never fatal
// to the partition; only a read error fails the whole stream.
func DecodeRecords(r io.Reader) ([]record.Record, error) {
	sc := bufio.NewScanner(r)
	sc.Buffer(make([]byte, 0, 64*1024), maxLineBytes)

	var records []record.Record
	for sc.Scan() {
		line := sc.Bytes()
		if len(line) == 0 {
			continue
		}
		var raw map[string]any
		if err := json.Unmarshal(line, &raw); err != nil {
			continue
		}
		if rec, ok := record.Normalize(raw); ok {
			records = append(records, rec)
		}
	}
	if err := sc.Err(); err != nil {
		return nil, err
	}
	return records, nil
}

// EncodeRecords writes records as NDJSON in the published row shape.
func EncodeRecords(w io.Writer, records []record.Record) error {
	enc := json.NewEncoder(w)
	enc.SetEscapeHTML(false)
	for _, r := range records {
		row := wireRecord{
			Title:    r.Title,
			Link:     r.ID,
			Source:   r.Source,
			Category: r.Category,
			Summary:  r.Summary,
		}
		if !r.Published.IsZero() {
			row.PubDate = r.Published.UTC().Format(time.RFC3339)
		}
		if err := enc.Encode(row); err != nil {
			return err
		}
	}
	return nil
}
