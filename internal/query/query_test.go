package query

import (
	"reflect"
	"testing"

	"github.com/ttakei/newsarc/internal/record"
)

func TestParse(t *testing.T) {
	tests := []struct {
		input string
		want  Expression
	}{
		{"foo", Expression{{"foo"}}},
		{"foo bar", Expression{{"foo", "bar"}}},
		{"foo|bar", Expression{{"foo"}, {"bar"}}},
		{"foo bar|baz", Expression{{"foo", "bar"}, {"baz"}}},
		{"FOO Bar", Expression{{"foo", "bar"}}},
		{"foo OR bar", Expression{{"foo"}, {"bar"}}},
		{"foo or bar", Expression{{"foo"}, {"bar"}}},
		{"中国　輸出｜規制", Expression{{"中国", "輸出"}, {"規制"}}},
		{"  foo   bar  ", Expression{{"foo", "bar"}}},
		{"foo||bar", Expression{{"foo"}, {"bar"}}},
		// ORchid contains "or" but is not a separator
		{"orchid", Expression{{"orchid"}}},
	}
	for _, tt := range tests {
		got := Parse(tt.input)
		if !reflect.DeepEqual(got, tt.want) {
			t.Errorf("Parse(%q) = %v, want %v", tt.input, got, tt.want)
		}
	}
}

func TestParseUniversal(t *testing.T) {
	for _, input := range []string{"", "   ", "　　", "|", "||", "｜", " OR ", "| | |"} {
		if expr := Parse(input); !expr.Universal() {
			t.Errorf("Parse(%q) = %v, want universal", input, expr)
		}
	}
}

func TestMatchesUniversal(t *testing.T) {
	records := []record.Record{
		{},
		{ID: "https://a.jp", Title: "anything"},
	}
	for _, r := range records {
		if !Matches(r, Parse("")) {
			t.Errorf("universal expression should match %+v", r)
		}
	}
}

func TestMatchesPrecedence(t *testing.T) {
	expr := Parse("中国 輸出|規制")

	both := record.Record{ID: "https://a.jp/1", Title: "中国の輸出動向"}
	if !Matches(both, expr) {
		t.Error("record with 中国 and 輸出 should match")
	}

	altOnly := record.Record{ID: "https://a.jp/2", Title: "新しい規制が発表"}
	if !Matches(altOnly, expr) {
		t.Error("record with 規制 alone should match")
	}

	half := record.Record{ID: "https://a.jp/3", Title: "中国の経済"}
	if Matches(half, expr) {
		t.Error("record with only 中国 must not match")
	}
}

func TestMatchesSearchesAllFields(t *testing.T) {
	r := record.Record{
		ID:       "https://example.jp/tariff-update",
		Title:    "見出し",
		Source:   "JETRO",
		Category: "貿易",
	}
	tests := []struct {
		q    string
		want bool
	}{
		{"見出し", true},
		{"jetro", true},  // source, case folded
		{"貿易", true},     // category
		{"tariff", true}, // id/url
		{"summary text", false},
	}
	for _, tt := range tests {
		if got := Matches(r, Parse(tt.q)); got != tt.want {
			t.Errorf("Matches(%q) = %v, want %v", tt.q, got, tt.want)
		}
	}
}

func TestMatchesSubstringOnly(t *testing.T) {
	r := record.Record{ID: "https://a.jp", Title: "scalability"}
	if !Matches(r, Parse("scala")) {
		t.Error("substring containment expected, no word boundaries")
	}
}
