// Package tui is the interactive browser over an archive session: a
// record list with preview, incremental search, facet selectors, and
// on-demand widening of the loaded month range.
package tui

import (
	"context"
	"fmt"
	"time"

	"github.com/charmbracelet/bubbles/spinner"
	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"github.com/ttakei/newsarc/internal/browser"
	"github.com/ttakei/newsarc/internal/facet"
	"github.com/ttakei/newsarc/internal/query"
	"github.com/ttakei/newsarc/internal/record"
	"github.com/ttakei/newsarc/internal/session"
)

type focusPane int

const (
	focusList focusPane = iota
	focusPreview
)

type mode int

const (
	modeNormal mode = iota
	modeSearch
	modeSelectSource
	modeSelectCategory
	modeHelp
)

// spanSteps is the widening ladder for the m key; 0 means the whole
// archive.
var spanSteps = []int{3, 6, 12, 24, 0}

func nextSpan(months int) int {
	for _, step := range spanSteps {
		if months > 0 && (step == 0 || step > months) {
			return step
		}
	}
	return 0
}

// App drives the session from the Update goroutine only. Expand runs in
// a command goroutine while `loading` is set; until its message comes
// back every keystroke works on the last pool snapshot, so the session
// is never touched from two goroutines.
type App struct {
	sess    *session.Session
	months  int
	hotOnly bool

	all     []record.Record // full ordered pool snapshot
	records []record.Record // snapshot after facet + query filters
	expr    query.Expression
	sel     facet.Selection

	cursor int
	focus  focusPane
	mode   mode

	width  int
	height int

	searchInput textinput.Model
	spinner     spinner.Model
	sourceSel   selector
	categorySel selector

	loading       bool
	loaded        int
	failed        int
	previewScroll int
	currentDate   string
	err           error
}

// RunOpts holds all parameters for launching the TUI. The session must
// already be started.
type RunOpts struct {
	Sess   *session.Session
	Months int
}

func NewApp(opts RunOpts) *App {
	ti := textinput.New()
	ti.Placeholder = "word word | word..."
	ti.Prompt = searchPromptStyle.Render("/ ")
	ti.CharLimit = 200

	sp := spinner.New()
	sp.Spinner = spinner.MiniDot
	sp.Style = spinnerStyle

	a := &App{
		sess:        opts.Sess,
		months:      opts.Months,
		hotOnly:     opts.Sess.DirectoryErr() != nil,
		searchInput: ti,
		spinner:     sp,
		sourceSel:   newSelector("source"),
		categorySel: newSelector("category"),
		currentDate: time.Now().Format("Jan 2"),
	}
	a.snapshot()
	a.refresh(facet.ChangedNone)
	return a
}

func (a *App) Init() tea.Cmd {
	if a.hotOnly {
		return nil
	}
	a.loading = true
	return tea.Batch(a.expandCmd(a.months), a.spinner.Tick)
}

// snapshot copies the session's full ordered view. Only called from the
// Update goroutine while no expand command is in flight.
func (a *App) snapshot() {
	a.all = a.sess.Results(nil, facet.Selection{})
	a.loaded, a.failed = a.sess.PartitionStatus()
}

// refresh recomputes the filtered list and the narrowed facet options
// from the snapshot. `changed` names the facet the user just set so
// clamping leaves it alone.
func (a *App) refresh(changed facet.Changed) {
	opts, sel := facet.Narrow(a.all, a.sel, changed)
	a.sel = sel
	a.sourceSel.setOptions(opts.Sources, sel.Source)
	a.categorySel.setOptions(opts.Categories, sel.Category)

	a.records = a.records[:0]
	for _, r := range a.all {
		if !facet.Match(r, a.sel) {
			continue
		}
		if !query.Matches(r, a.expr) {
			continue
		}
		a.records = append(a.records, r)
	}
	if a.cursor >= len(a.records) {
		a.cursor = max(0, len(a.records)-1)
	}
	a.previewScroll = 0
}

func (a *App) expandCmd(months int) tea.Cmd {
	sess := a.sess
	return func() tea.Msg {
		ctx, cancel := context.WithTimeout(context.Background(), 2*time.Minute)
		defer cancel()
		return expandDoneMsg{results: sess.Expand(ctx, months)}
	}
}

func openBrowserCmd(url string) tea.Cmd {
	return func() tea.Msg {
		if err := browser.Open(url); err != nil {
			return openErrMsg{err: err}
		}
		return nil
	}
}

func (a *App) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		a.width = msg.Width
		a.height = msg.Height
		return a, nil

	case tea.KeyMsg:
		// Clear sticky error on any keypress
		a.err = nil
		return a.handleKey(msg)

	case expandDoneMsg:
		a.loading = false
		a.snapshot()
		a.refresh(facet.ChangedNone)
		a.err = expandFailure(msg.results)
		return a, nil

	case openErrMsg:
		a.err = msg.err
		return a, nil

	case spinner.TickMsg:
		if a.loading {
			var cmd tea.Cmd
			a.spinner, cmd = a.spinner.Update(msg)
			return a, cmd
		}
		return a, nil
	}

	return a, nil
}

func (a *App) handleKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	if msg.String() == "ctrl+c" {
		return a, tea.Quit
	}

	switch a.mode {
	case modeSearch:
		return a.handleSearchKey(msg)
	case modeSelectSource:
		return a.handleSelectorKey(msg, &a.sourceSel, "s")
	case modeSelectCategory:
		return a.handleSelectorKey(msg, &a.categorySel, "c")
	case modeHelp:
		if msg.String() == "?" || msg.String() == "esc" || msg.String() == "q" {
			a.mode = modeNormal
		}
		return a, nil
	}

	// Normal mode
	switch msg.String() {
	case "q":
		return a, tea.Quit
	case "j", "down":
		if a.focus == focusList && a.cursor < len(a.records)-1 {
			a.cursor++
			a.previewScroll = 0
		} else if a.focus == focusPreview {
			a.previewScroll++
		}
		return a, nil
	case "k", "up":
		if a.focus == focusList && a.cursor > 0 {
			a.cursor--
			a.previewScroll = 0
		} else if a.focus == focusPreview && a.previewScroll > 0 {
			a.previewScroll--
		}
		return a, nil
	case "g":
		if a.focus == focusList {
			a.cursor = 0
			a.previewScroll = 0
		}
		return a, nil
	case "G":
		if a.focus == focusList && len(a.records) > 0 {
			a.cursor = len(a.records) - 1
			a.previewScroll = 0
		}
		return a, nil
	case "tab":
		if a.focus == focusList {
			a.focus = focusPreview
		} else {
			a.focus = focusList
		}
		return a, nil
	case "o", "enter":
		if len(a.records) > 0 && a.cursor < len(a.records) {
			return a, openBrowserCmd(a.records[a.cursor].ID)
		}
		return a, nil
	case "/":
		a.mode = modeSearch
		a.searchInput.Focus()
		return a, textinput.Blink
	case "s":
		if !a.loading {
			a.mode = modeSelectSource
		}
		return a, nil
	case "c":
		if !a.loading {
			a.mode = modeSelectCategory
		}
		return a, nil
	case "m":
		if a.loading || a.hotOnly || a.months <= 0 {
			return a, nil
		}
		a.months = nextSpan(a.months)
		a.loading = true
		return a, tea.Batch(a.expandCmd(a.months), a.spinner.Tick)
	case "?":
		a.mode = modeHelp
		return a, nil
	}

	return a, nil
}

func (a *App) handleSearchKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch msg.String() {
	case "esc":
		a.mode = modeNormal
		a.searchInput.SetValue("")
		a.searchInput.Blur()
		a.expr = query.Parse("")
		a.cursor = 0
		a.refresh(facet.ChangedNone)
		return a, nil
	case "enter":
		a.mode = modeNormal
		a.searchInput.Blur()
		return a, nil
	}

	var cmd tea.Cmd
	before := a.searchInput.Value()
	a.searchInput, cmd = a.searchInput.Update(msg)
	if v := a.searchInput.Value(); v != before {
		a.expr = query.Parse(v)
		a.cursor = 0
		a.refresh(facet.ChangedNone)
	}
	return a, cmd
}

func (a *App) handleSelectorKey(msg tea.KeyMsg, sel *selector, toggleKey string) (tea.Model, tea.Cmd) {
	switch msg.String() {
	case "esc", toggleKey:
		a.mode = modeNormal
		return a, nil
	case "left", "h":
		sel.move(-1)
		return a, nil
	case "right", "l":
		sel.move(1)
		return a, nil
	case " ", "enter":
		changed := facet.ChangedSource
		if sel == &a.categorySel {
			changed = facet.ChangedCategory
		}
		if changed == facet.ChangedSource {
			a.sel.Source = sel.pick()
		} else {
			a.sel.Category = sel.pick()
		}
		a.cursor = 0
		a.refresh(changed)
		a.mode = modeNormal
		return a, nil
	}
	return a, nil
}

func (a *App) View() string {
	if a.width == 0 {
		return lipgloss.NewStyle().Foreground(colorAccent).Render("  newsarc")
	}

	if a.mode == modeHelp {
		return a.renderHelp()
	}

	// Layout calculations
	headerHeight := 1
	facetHeight := 1
	statusHeight := 1
	contentHeight := a.height - headerHeight - facetHeight - statusHeight - 4 // borders

	listWidth := int(float64(a.width) * 0.4)
	previewWidth := a.width - listWidth - 1 // gap

	if contentHeight < 3 {
		contentHeight = 3
	}

	// Header
	headerLeft := headerStyle.Render("newsarc")
	headerRight := headerDateStyle.Render(a.currentDate)
	headerGap := a.width - lipgloss.Width(headerLeft) - lipgloss.Width(headerRight)
	if headerGap < 0 {
		headerGap = 0
	}
	header := headerLeft + fmt.Sprintf("%*s", headerGap, "") + headerRight

	// Facet bar: the open selector, or the selection summary. Search
	// input takes the line over while typing.
	var facetBar string
	switch a.mode {
	case modeSearch:
		facetBar = a.searchInput.View()
	case modeSelectSource:
		facetBar = a.sourceSel.render(a.width, true)
	case modeSelectCategory:
		facetBar = a.categorySel.render(a.width, true)
	default:
		facetBar = renderSelectionBar(a.sel, a.width)
		if a.searchInput.Value() != "" {
			facetBar = a.searchInput.View()
		}
	}

	// List pane
	innerListW := listWidth - 4 // border + padding
	listContent := renderList(a.records, a.cursor, contentHeight, innerListW)

	var listPane string
	if a.focus == focusList {
		listPane = listPaneActiveStyle.Width(listWidth - 2).Height(contentHeight).Render(listContent)
	} else {
		listPane = listPaneStyle.Width(listWidth - 2).Height(contentHeight).Render(listContent)
	}

	// Preview pane
	var selected *record.Record
	if len(a.records) > 0 && a.cursor < len(a.records) {
		selected = &a.records[a.cursor]
	}
	innerPreviewW := previewWidth - 4
	previewContent := renderPreview(selected, innerPreviewW, contentHeight, a.previewScroll)

	var previewPane string
	if a.focus == focusPreview {
		previewPane = previewPaneActiveStyle.Width(previewWidth - 2).Height(contentHeight).Render(previewContent)
	} else {
		previewPane = previewPaneStyle.Width(previewWidth - 2).Height(contentHeight).Render(previewContent)
	}

	// Join panes
	content := lipgloss.JoinHorizontal(lipgloss.Top, listPane, previewPane)

	// Status bar
	status := renderStatusBar(
		len(a.records),
		a.months,
		a.loaded,
		a.failed,
		a.hotOnly,
		a.mode == modeSearch,
		a.loading,
		a.width,
	)

	if a.loading {
		status = a.spinner.View() + " " + status
	}

	// Error display
	if a.err != nil {
		status = lipgloss.NewStyle().Foreground(colorAccent).Render(a.err.Error())
	}

	return lipgloss.JoinVertical(lipgloss.Left, header, facetBar, content, status)
}

func (a *App) renderHelp() string {
	title := lipgloss.NewStyle().Foreground(colorAccent).Bold(true).Render("newsarc")
	dim := helpDimStyle

	help := title + dim.Render(" — Keyboard Shortcuts") + "\n\n" +
		dim.Render("Navigation") + "\n" +
		"  j/k, ↑/↓     Move through the record list\n" +
		"  g/G           Jump to first / last record\n" +
		"  tab           Switch focus between list and preview\n\n" +
		dim.Render("Actions") + "\n" +
		"  o, enter      Open record in browser\n" +
		"  /             Search (words AND, | for OR)\n" +
		"  s             Pick a source\n" +
		"  c             Pick a category\n" +
		"  m             Widen the loaded range (3, 6, 12, 24 months, all)\n\n" +
		dim.Render("Selector Mode") + "\n" +
		"  ←/→, h/l     Move between options\n" +
		"  space/enter   Pick option\n" +
		"  esc           Close selector\n\n" +
		dim.Render("General") + "\n" +
		"  ?             Toggle this help\n" +
		"  q, ctrl+c    Quit"

	card := helpCardStyle.Render(help)

	return lipgloss.Place(a.width, a.height, lipgloss.Center, lipgloss.Center, card)
}

// Run starts the TUI application.
func Run(opts RunOpts) error {
	p := tea.NewProgram(NewApp(opts), tea.WithAltScreen())
	_, err := p.Run()
	return err
}
