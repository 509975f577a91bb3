package tui

import (
	"testing"

	"github.com/ttakei/newsarc/internal/facet"
)

func TestSelectorOptionsStartWithAll(t *testing.T) {
	s := newSelector("source")
	s.setOptions([]string{"JETRO", "中小企業庁"}, facet.All)

	if len(s.options) != 3 {
		t.Fatalf("options = %d, want 3", len(s.options))
	}
	if s.options[0] != facet.All {
		t.Errorf("first option = %q, want All sentinel", s.options[0])
	}
	if s.pick() != facet.All {
		t.Errorf("pick = %q, want All sentinel", s.pick())
	}
}

func TestSelectorCursorFollowsValue(t *testing.T) {
	s := newSelector("source")
	s.setOptions([]string{"JETRO", "中小企業庁"}, "中小企業庁")

	if s.pick() != "中小企業庁" {
		t.Errorf("pick = %q, want current value", s.pick())
	}

	// Value gone after narrowing falls back to All
	s.setOptions([]string{"JETRO"}, facet.All)
	if s.pick() != facet.All {
		t.Errorf("pick after narrowing = %q, want All sentinel", s.pick())
	}
}

func TestSelectorMoveStaysInBounds(t *testing.T) {
	s := newSelector("source")
	s.setOptions([]string{"JETRO"}, facet.All)

	s.move(-1)
	if s.cursor != 0 {
		t.Errorf("cursor = %d after move past start", s.cursor)
	}
	s.move(1)
	s.move(1)
	if s.cursor != 1 {
		t.Errorf("cursor = %d after move past end", s.cursor)
	}
}

func TestNextSpan(t *testing.T) {
	tests := []struct {
		months int
		want   int
	}{
		{3, 6},
		{6, 12},
		{12, 24},
		{24, 0},
		{4, 6},
		{0, 0},
	}
	for _, tt := range tests {
		if got := nextSpan(tt.months); got != tt.want {
			t.Errorf("nextSpan(%d) = %d, want %d", tt.months, got, tt.want)
		}
	}
}
