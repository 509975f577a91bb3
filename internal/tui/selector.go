package tui

import (
	"strings"

	"github.com/charmbracelet/lipgloss"

	"github.com/ttakei/newsarc/internal/facet"
)

// selector is a single-choice facet picker rendered as a tab row. The
// option list always starts with the "All" sentinel, and exactly one
// option is active at a time.
type selector struct {
	title   string
	options []string
	cursor  int
	value   string
}

func newSelector(title string) selector {
	return selector{title: title, options: []string{facet.All}}
}

// setOptions replaces the pick list with the narrowed facet values and
// re-anchors the cursor on the current value. The value itself is
// expected to be pre-clamped by the session.
func (s *selector) setOptions(values []string, value string) {
	s.options = append([]string{facet.All}, values...)
	s.value = value
	s.cursor = 0
	for i, v := range s.options {
		if v == value {
			s.cursor = i
			break
		}
	}
}

func (s *selector) move(delta int) {
	next := s.cursor + delta
	if next >= 0 && next < len(s.options) {
		s.cursor = next
	}
}

// pick returns the option under the cursor.
func (s *selector) pick() string {
	if s.cursor < len(s.options) {
		return s.options[s.cursor]
	}
	return facet.All
}

func optionLabel(v string) string {
	if v == facet.All {
		return "All"
	}
	return v
}

func (s *selector) render(width int, picking bool) string {
	sep := tabSeparatorStyle.Render(" · ")
	parts := []string{selectorTitleStyle.Render(s.title)}

	for i, v := range s.options {
		style := tabInactiveStyle
		if v == s.value {
			style = tabActiveStyle
		}
		label := optionLabel(v)
		if picking && i == s.cursor {
			label = "[" + label + "]"
		}
		parts = append(parts, style.Render(label))
	}

	// Build row with · separators, stopping when we'd exceed width
	var row string
	for i, part := range parts {
		candidate := row
		if i > 1 {
			candidate += sep
		}
		candidate += part
		if lipgloss.Width(candidate) > width && row != "" {
			break
		}
		row = candidate
	}

	barStyle := lipgloss.NewStyle().
		Width(width).
		PaddingLeft(1)
	return barStyle.Render(row)
}

// renderSelectionBar summarizes both facet picks on one line when no
// selector is open.
func renderSelectionBar(sel facet.Selection, width int) string {
	var parts []string

	sourceLabel := "All sources"
	if sel.Source != facet.All {
		sourceLabel = sel.Source
	}
	categoryLabel := "All categories"
	if sel.Category != facet.All {
		categoryLabel = sel.Category
	}

	sourceStyle := tabInactiveStyle
	if sel.Source != facet.All {
		sourceStyle = tabActiveStyle
	}
	categoryStyle := tabInactiveStyle
	if sel.Category != facet.All {
		categoryStyle = tabActiveStyle
	}

	parts = append(parts, sourceStyle.Render(sourceLabel))
	parts = append(parts, categoryStyle.Render(categoryLabel))

	barStyle := lipgloss.NewStyle().
		Width(width).
		PaddingLeft(1)
	return barStyle.Render(strings.Join(parts, tabSeparatorStyle.Render(" · ")))
}
