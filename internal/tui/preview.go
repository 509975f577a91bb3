package tui

import (
	"strings"

	"github.com/charmbracelet/lipgloss"

	"github.com/ttakei/newsarc/internal/record"
)

func renderPreview(r *record.Record, width, height, scroll int) string {
	if r == nil {
		return lipglossCenter("Select a record", width, height)
	}

	contentWidth := width - 2
	if contentWidth < 10 {
		contentWidth = 10
	}

	title := previewTitleStyle.Width(contentWidth).Render(r.Title)

	meta := r.Source
	if r.Category != "" {
		meta += " · " + r.Category
	}
	if !r.Published.IsZero() {
		meta += " · " + r.Published.Format("Jan 2, 2006")
	}
	source := previewSourceStyle.Render(meta)

	summary := r.Summary
	if summary == "" {
		summary = "(No summary available)"
	}

	body := previewBodyStyle.Width(contentWidth).Render(wrapText(summary, contentWidth))
	link := previewLinkStyle.Width(contentWidth).Render("Read more: " + r.ID)

	content := lipgloss.JoinVertical(lipgloss.Left, title, source, "", body, "", link)

	// Apply scroll offset
	lines := strings.Split(content, "\n")
	if scroll > 0 && scroll < len(lines) {
		lines = lines[scroll:]
	}

	// Pad to fill height
	if len(lines) < height {
		lines = append(lines, make([]string, height-len(lines))...)
	} else if len(lines) > height {
		lines = lines[:height]
	}

	return strings.Join(lines, "\n")
}

func wrapText(s string, width int) string {
	if width <= 0 {
		return s
	}
	words := strings.Fields(s)
	if len(words) == 0 {
		return ""
	}

	var lines []string
	line := words[0]
	for _, w := range words[1:] {
		if len(line)+1+len(w) > width {
			lines = append(lines, line)
			line = w
		} else {
			line += " " + w
		}
	}
	lines = append(lines, line)
	return strings.Join(lines, "\n")
}
