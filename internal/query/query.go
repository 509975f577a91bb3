// Package query implements the boolean search language: an OR of
// AND-groups of case-folded substring terms.
package query

import (
	"regexp"
	"strings"

	"github.com/ttakei/newsarc/internal/record"
)

// Expression is an OR-list of AND-lists of lowercase terms. A nil or
// empty expression is universal and matches every record.
type Expression [][]string

// Universal reports whether the expression matches everything.
func (e Expression) Universal() bool {
	return len(e) == 0
}

var (
	// All whitespace variants, including the full-width space users
	// type from Japanese IMEs, collapse to one canonical space.
	whitespaceRe = regexp.MustCompile(`[\s\x{3000}]+`)
	// The word OR surrounded by whitespace is an alternation, same as
	// the bar. Applied after whitespace normalization.
	wordOrRe = regexp.MustCompile(`(?i) OR `)
)

// Parse turns a raw search string into an Expression.
//
// Alternation separators are the vertical bar in narrow (|) or wide
// (｜) form, or the literal word OR. Terms inside a group are separated
// by spaces. There is no escaping: a literal bar or space cannot appear
// inside a term.
func Parse(raw string) Expression {
	s := whitespaceRe.ReplaceAllString(strings.TrimSpace(raw), " ")
	s = strings.ReplaceAll(s, "｜", "|")
	s = wordOrRe.ReplaceAllString(s, "|")

	var expr Expression
	for _, group := range strings.Split(s, "|") {
		var terms []string
		for _, term := range strings.Split(group, " ") {
			if term == "" {
				continue
			}
			terms = append(terms, strings.ToLower(term))
		}
		if len(terms) > 0 {
			expr = append(expr, terms)
		}
	}
	return expr
}

// Matches reports whether the record satisfies the expression: at least
// one group must have every term contained in the record's searchable
// text. Matching is plain substring containment after case folding.
func Matches(r record.Record, expr Expression) bool {
	if expr.Universal() {
		return true
	}
	haystack := strings.ToLower(r.Title + "\n" + r.Source + "\n" + r.Category + "\n" + r.ID)
	for _, group := range expr {
		if groupMatches(haystack, group) {
			return true
		}
	}
	return false
}

func groupMatches(haystack string, terms []string) bool {
	for _, term := range terms {
		if !strings.Contains(haystack, term) {
			return false
		}
	}
	return true
}
