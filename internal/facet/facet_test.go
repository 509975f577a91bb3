package facet

import (
	"reflect"
	"testing"

	"github.com/ttakei/newsarc/internal/record"
)

func sample() []record.Record {
	return []record.Record{
		{ID: "1", Source: "JETRO", Category: "貿易"},
		{ID: "2", Source: "JETRO", Category: "金融"},
		{ID: "3", Source: "中小企業庁", Category: "貿易"},
		{ID: "4", Source: "経産省", Category: ""},
	}
}

func TestComputeUnconstrained(t *testing.T) {
	opts := Compute(sample(), Selection{})

	if len(opts.Sources) != 3 {
		t.Errorf("sources = %v", opts.Sources)
	}
	// empty category is not an option value
	if len(opts.Categories) != 2 {
		t.Errorf("categories = %v", opts.Categories)
	}
}

func TestComputeNarrowsByOtherFacet(t *testing.T) {
	// selected category narrows the source list
	opts := Compute(sample(), Selection{Category: "金融"})
	if !reflect.DeepEqual(opts.Sources, []string{"JETRO"}) {
		t.Errorf("sources = %v, want [JETRO]", opts.Sources)
	}
	// ...but the category list ignores the category selection itself
	if len(opts.Categories) != 2 {
		t.Errorf("categories = %v, want both", opts.Categories)
	}

	// selected source narrows the category list
	opts = Compute(sample(), Selection{Source: "中小企業庁"})
	if !reflect.DeepEqual(opts.Categories, []string{"貿易"}) {
		t.Errorf("categories = %v, want [貿易]", opts.Categories)
	}
	if len(opts.Sources) != 3 {
		t.Errorf("sources = %v, want all three", opts.Sources)
	}
}

func TestNarrowResetsStaleCategoryAfterSourcePick(t *testing.T) {
	// category 金融 selected, then a source picked whose narrowed
	// category list no longer offers 金融
	sel := Selection{Source: "中小企業庁", Category: "金融"}

	opts, clamped := Narrow(sample(), sel, ChangedSource)
	if clamped.Category != All {
		t.Errorf("category = %q, want All", clamped.Category)
	}
	if clamped.Source != "中小企業庁" {
		t.Errorf("source = %q, should be untouched", clamped.Source)
	}
	// options re-derived for the clamped selection
	if !reflect.DeepEqual(opts.Categories, []string{"貿易"}) {
		t.Errorf("categories = %v", opts.Categories)
	}
}

func TestNarrowAfterPoolChangeClampsBoth(t *testing.T) {
	// a selection can go stale when the pool rebuilds
	sel := Selection{Source: "gone", Category: "also gone"}
	_, clamped := Narrow(sample(), sel, ChangedNone)
	if clamped != (Selection{}) {
		t.Errorf("clamped = %+v, want all-All", clamped)
	}
}

func TestClampKeepsValidSelection(t *testing.T) {
	sel := Selection{Source: "JETRO", Category: "貿易"}
	got := Clamp(sel, Compute(sample(), sel))
	if got != sel {
		t.Errorf("clamp changed a valid selection: %+v", got)
	}
}

func TestMatch(t *testing.T) {
	r := record.Record{ID: "1", Source: "JETRO", Category: "貿易"}
	tests := []struct {
		sel  Selection
		want bool
	}{
		{Selection{}, true},
		{Selection{Source: "JETRO"}, true},
		{Selection{Source: "経産省"}, false},
		{Selection{Category: "貿易"}, true},
		{Selection{Category: "金融"}, false},
		{Selection{Source: "JETRO", Category: "貿易"}, true},
		{Selection{Source: "JETRO", Category: "金融"}, false},
	}
	for _, tt := range tests {
		if got := Match(r, tt.sel); got != tt.want {
			t.Errorf("Match(%+v) = %v, want %v", tt.sel, got, tt.want)
		}
	}
}
