// Package facet computes the mutually narrowing source/category option
// lists and keeps selections consistent with them.
package facet

import (
	"golang.org/x/text/collate"
	"golang.org/x/text/language"

	"github.com/ttakei/newsarc/internal/record"
)

// All is the selection value meaning "no constraint". The UI renders it
// as a literal "All" entry.
const All = ""

// Selection holds the current source and category picks.
type Selection struct {
	Source   string
	Category string
}

// Options are the narrowed value lists for the two selectors.
type Options struct {
	Sources    []string
	Categories []string
}

var collator = collate.New(language.Japanese)

// Compute derives the option lists from the pool's records. Each list is
// narrowed by the *other* facet's selection only: sources are drawn from
// records in the selected category, categories from records of the
// selected source. The lists are sorted with Japanese collation.
//
// The narrowing is deliberately one-sided, matching the shipped
// behavior: a pair shown in one selector can still combine with the
// other selector's value to an empty result.
func Compute(records []record.Record, sel Selection) Options {
	sources := make(map[string]struct{})
	categories := make(map[string]struct{})

	for _, r := range records {
		if r.Source != "" && (sel.Category == All || r.Category == sel.Category) {
			sources[r.Source] = struct{}{}
		}
		if r.Category != "" && (sel.Source == All || r.Source == sel.Source) {
			categories[r.Category] = struct{}{}
		}
	}

	return Options{
		Sources:    sortedKeys(sources),
		Categories: sortedKeys(categories),
	}
}

// Changed identifies which facet the user just set, so narrowing knows
// which side of the selection may be clamped.
type Changed int

const (
	ChangedNone Changed = iota // pool content changed, not a selection
	ChangedSource
	ChangedCategory
)

// Narrow computes the option lists and resets any selection whose value
// is no longer offered, so the UI never points at a stale choice. The
// facet the user just set is left alone: picking a source clamps only
// the category, and vice versa. After a reset the options are
// recomputed against the clamped selection.
func Narrow(records []record.Record, sel Selection, changed Changed) (Options, Selection) {
	opts := Compute(records, sel)
	clamped := sel
	if changed != ChangedSource && sel.Source != All && !contains(opts.Sources, sel.Source) {
		clamped.Source = All
	}
	if changed != ChangedCategory && sel.Category != All && !contains(opts.Categories, sel.Category) {
		clamped.Category = All
	}
	if clamped != sel {
		opts = Compute(records, clamped)
	}
	return opts, clamped
}

// Clamp resets a selection to All when its value is no longer offered.
func Clamp(sel Selection, opts Options) Selection {
	if sel.Source != All && !contains(opts.Sources, sel.Source) {
		sel.Source = All
	}
	if sel.Category != All && !contains(opts.Categories, sel.Category) {
		sel.Category = All
	}
	return sel
}

// Match reports whether a record passes the selection.
func Match(r record.Record, sel Selection) bool {
	if sel.Source != All && r.Source != sel.Source {
		return false
	}
	if sel.Category != All && r.Category != sel.Category {
		return false
	}
	return true
}

func sortedKeys(set map[string]struct{}) []string {
	out := make([]string, 0, len(set))
	for k := range set {
		out = append(out, k)
	}
	collator.SortStrings(out)
	return out
}

func contains(values []string, v string) bool {
	for _, x := range values {
		if x == v {
			return true
		}
	}
	return false
}
