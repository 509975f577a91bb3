package tui

import (
	"fmt"

	"github.com/charmbracelet/lipgloss"
)

func spanLabel(months int) string {
	if months <= 0 {
		return "all"
	}
	return fmt.Sprintf("%dmo", months)
}

func renderStatusBar(recordCount, months, loaded, failed int, hotOnly, searching, loading bool, width int) string {
	left := fmt.Sprintf(" %d records · %s", recordCount, spanLabel(months))
	if loaded > 0 {
		left += fmt.Sprintf(" · %d loaded", loaded)
	}
	if failed > 0 {
		left += lipgloss.NewStyle().Foreground(colorAccent).Render(fmt.Sprintf(" · %d failed", failed))
	}
	if hotOnly {
		left += lipgloss.NewStyle().Foreground(colorAccent).Render(" · latest only")
	}
	if loading {
		left += " (loading...)"
	}

	right := " / search  s source  c category  m widen  q quit "
	if searching {
		right = " esc cancel  enter search "
	}

	gap := width - lipgloss.Width(left) - lipgloss.Width(right)
	if gap < 0 {
		gap = 0
	}

	bar := left + fmt.Sprintf("%*s", gap, "") + right

	return statusBarStyle.Width(width).Render(bar)
}
