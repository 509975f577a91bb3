package archive

import (
	"bytes"
	"strings"
	"testing"
	"time"

	"github.com/ttakei/newsarc/internal/record"
)

func TestDecodeRecordsSkipsMalformedLines(t *testing.T) {
	input := strings.Join([]string{
		`{"title":"良品","link":"https://a.jp/1","pubDate":"2026-08-01T00:00:00Z","source":"JETRO","category":"貿易"}`,
		`{broken json`,
		``,
		`{"title":"no identity"}`,
		`[1,2,3]`,
		`{"title":"二件目","link":"https://a.jp/2","source":"JETRO"}`,
	}, "\n")

	records, err := DecodeRecords(strings.NewReader(input))
	if err != nil {
		t.Fatalf("decode: %v", err)
	}
	if len(records) != 2 {
		t.Fatalf("got %d records, want 2: %+v", len(records), records)
	}
	if records[0].ID != "https://a.jp/1" || records[1].ID != "https://a.jp/2" {
		t.Errorf("ids = %q, %q", records[0].ID, records[1].ID)
	}
}

func TestEncodeDecodeRoundTrip(t *testing.T) {
	in := []record.Record{
		{
			ID:        "https://a.jp/1",
			Title:     "中国の輸出規制",
			Source:    "JETRO",
			Category:  "貿易",
			Summary:   "概要テキスト",
			Published: time.Date(2026, 8, 1, 9, 0, 0, 0, time.UTC),
		},
		{ID: "https://a.jp/undated", Title: "日付なし"},
	}

	var buf bytes.Buffer
	if err := EncodeRecords(&buf, in); err != nil {
		t.Fatalf("encode: %v", err)
	}

	out, err := DecodeRecords(&buf)
	if err != nil {
		t.Fatalf("decode: %v", err)
	}
	if len(out) != 2 {
		t.Fatalf("got %d records", len(out))
	}
	if out[0] != in[0] {
		t.Errorf("round trip changed record:\n in: %+v\nout: %+v", in[0], out[0])
	}
	if !out[1].Published.IsZero() {
		t.Errorf("undated record gained a date: %v", out[1].Published)
	}
}

func TestEncodeDoesNotEscapeHTML(t *testing.T) {
	var buf bytes.Buffer
	err := EncodeRecords(&buf, []record.Record{{ID: "https://a.jp/?q=1&r=2", Title: "A&B"}})
	if err != nil {
		t.Fatalf("encode: %v", err)
	}
	if strings.Contains(buf.String(), `\u0026`) {
		t.Errorf("ampersand escaped: %s", buf.String())
	}
	if !strings.Contains(buf.String(), "A&B") {
		t.Errorf("title mangled: %s", buf.String())
	}
}
