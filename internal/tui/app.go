package tui

import (
	"context"
	"fmt"
	"strconv"
	"strings"
	"time"

	"github.com/charmbracelet/bubbles/spinner"
	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"github.com/ellenbowman/satellite-of-love/internal/analytics"
	"github.com/ellenbowman/satellite-of-love/internal/browser"
	"github.com/ellenbowman/satellite-of-love/internal/filter"
	"github.com/ellenbowman/satellite-of-love/internal/listing"
	"github.com/ellenbowman/satellite-of-love/internal/recap"
	"github.com/ellenbowman/satellite-of-love/internal/store"
)

type focusPane int

const (
	focusList focusPane = iota
	focusPreview
)

type mode int

const (
	modeHome mode = iota
	modeNormal
	modeTickers
	modeFilter
	modeHelp
	modeRecap
)

const loadTimeout = 15 * time.Second

type App struct {
	listing *listing.Service
	recaps  *recap.Builder
	refresh func(ctx context.Context) (string, error)
	window  time.Duration

	view   *listing.View
	page   int
	cursor int
	focus  focusPane
	mode   mode

	width  int
	height int

	// Sub-components
	tickerInput textinput.Model
	spinner     spinner.Model
	filterBar   filterBar

	// State
	refreshing    bool
	previewScroll int
	currentDate   string
	lastImport    string
	recap         *recap.Recap
	notice        string
	err           error
}

// RunOpts holds all parameters for launching the TUI.
type RunOpts struct {
	Listing      *listing.Service
	Recaps       *recap.Builder
	Services     []store.Service
	Refresh      func(ctx context.Context) (string, error)
	AuthorWindow time.Duration
	BrowseMode   bool
	Tickers      string
	ServiceIDs   []int
	LastImport   string
}

func NewApp(opts RunOpts) *App {
	ti := textinput.New()
	ti.Placeholder = "AAPL, FB, ..."
	ti.Prompt = tickerPromptStyle.Render("tickers: ")
	ti.CharLimit = 200
	ti.SetValue(opts.Tickers)

	sp := spinner.New()
	sp.Spinner = spinner.MiniDot
	sp.Style = spinnerStyle

	startMode := modeHome
	if opts.BrowseMode {
		startMode = modeNormal
	}

	fb := newFilterBar(opts.Services)
	for _, id := range opts.ServiceIDs {
		fb.active[id] = true
	}

	window := opts.AuthorWindow
	if window <= 0 {
		window = analytics.DefaultAuthorWindow
	}

	return &App{
		listing:     opts.Listing,
		recaps:      opts.Recaps,
		refresh:     opts.Refresh,
		window:      window,
		page:        1,
		filterBar:   fb,
		tickerInput: ti,
		spinner:     sp,
		currentDate: time.Now().Format("Jan 2"),
		lastImport:  opts.LastImport,
		mode:        startMode,
	}
}

func (a *App) Init() tea.Cmd {
	if a.mode == modeNormal {
		return a.loadViewCmd()
	}
	return nil
}

func (a *App) criteria() filter.Criteria {
	return filter.FromIDs(a.tickerInput.Value(), a.filterBar.activeIDs())
}

// loadViewCmd captures current query state into the closure to avoid races.
func (a *App) loadViewCmd() tea.Cmd {
	c := a.criteria()
	page := strconv.Itoa(a.page)
	l := a.listing
	return func() tea.Msg {
		ctx, cancel := context.WithTimeout(context.Background(), loadTimeout)
		defer cancel()
		v, err := l.ViewCriteria(ctx, c, page)
		if err != nil {
			return loadErrMsg{err: err}
		}
		return viewLoadedMsg{view: v}
	}
}

func (a *App) loadRecapCmd() tea.Cmd {
	b := a.recaps
	return func() tea.Msg {
		ctx, cancel := context.WithTimeout(context.Background(), loadTimeout)
		defer cancel()
		r, err := b.Yesterday(ctx, time.Now())
		if err != nil {
			return loadErrMsg{err: err}
		}
		return recapLoadedMsg{recap: r}
	}
}

func (a *App) doRefresh() tea.Cmd {
	refresh := a.refresh
	return func() tea.Msg {
		ctx, cancel := context.WithTimeout(context.Background(), 2*time.Minute)
		defer cancel()
		detail, err := refresh(ctx)
		return refreshDoneMsg{detail: detail, err: err}
	}
}

func openBrowserCmd(url string) tea.Cmd {
	return func() tea.Msg {
		err := browser.Open(url)
		if err != nil {
			return loadErrMsg{err: err}
		}
		return nil
	}
}

func (a *App) entries() []listing.Entry {
	if a.view == nil {
		return nil
	}
	return a.view.Page.Items
}

func (a *App) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		a.width = msg.Width
		a.height = msg.Height
		return a, nil

	case tea.KeyMsg:
		// Clear sticky error and notice on any keypress
		a.err = nil
		a.notice = ""
		return a.handleKey(msg)

	case viewLoadedMsg:
		a.view = msg.view
		a.page = msg.view.Page.Number
		if a.cursor >= len(a.entries()) {
			a.cursor = max(0, len(a.entries())-1)
		}
		return a, nil

	case recapLoadedMsg:
		r := msg.recap
		a.recap = &r
		return a, nil

	case loadErrMsg:
		a.err = msg.err
		return a, nil

	case refreshDoneMsg:
		a.refreshing = false
		if msg.err != nil {
			a.err = msg.err
		} else {
			a.notice = msg.detail
			a.lastImport = time.Now().Format("Jan 2 15:04")
		}
		return a, a.loadViewCmd()

	case spinner.TickMsg:
		if a.refreshing {
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
	case modeHome:
		return a.handleHomeKey(msg)
	case modeRecap:
		return a.handleRecapKey(msg)
	case modeTickers:
		return a.handleTickersKey(msg)
	case modeFilter:
		return a.handleFilterKey(msg)
	case modeHelp:
		if msg.String() == "?" || msg.String() == "esc" || msg.String() == "q" {
			a.mode = modeNormal
		}
		return a, nil
	}

	// Normal mode
	entries := a.entries()
	switch msg.String() {
	case "q":
		return a, tea.Quit
	case "j", "down":
		if a.focus == focusList && a.cursor < len(entries)-1 {
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
	case "n", "right":
		if a.view != nil && a.view.Page.HasNext() {
			a.page++
			a.cursor = 0
			return a, a.loadViewCmd()
		}
		return a, nil
	case "p", "left":
		if a.view != nil && a.view.Page.HasPrevious() {
			a.page--
			a.cursor = 0
			return a, a.loadViewCmd()
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
		if a.cursor < len(entries) {
			return a, openBrowserCmd(entries[a.cursor].URL)
		}
		return a, nil
	case "/":
		a.mode = modeTickers
		a.tickerInput.Focus()
		return a, textinput.Blink
	case "f":
		a.mode = modeFilter
		a.filterBar.filterMode = true
		return a, nil
	case "d":
		a.mode = modeRecap
		return a, a.loadRecapCmd()
	case "r":
		if !a.refreshing && a.refresh != nil {
			a.refreshing = true
			return a, tea.Batch(a.doRefresh(), a.spinner.Tick)
		}
		return a, nil
	case "h":
		a.mode = modeHome
		return a, nil
	case "?":
		a.mode = modeHelp
		return a, nil
	}

	return a, nil
}

func (a *App) handleHomeKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch msg.String() {
	case "a", "1", "enter":
		a.mode = modeNormal
		return a, a.loadViewCmd()
	case "d", "2":
		a.mode = modeRecap
		return a, a.loadRecapCmd()
	case "q":
		return a, tea.Quit
	}
	return a, nil
}

func (a *App) handleRecapKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch msg.String() {
	case "a", "esc":
		a.mode = modeNormal
		return a, a.loadViewCmd()
	case "h":
		a.mode = modeHome
		return a, nil
	case "q":
		return a, tea.Quit
	}
	return a, nil
}

func (a *App) handleTickersKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch msg.String() {
	case "esc":
		a.mode = modeNormal
		a.tickerInput.SetValue("")
		a.tickerInput.Blur()
		a.page, a.cursor = 1, 0
		return a, a.loadViewCmd()
	case "enter":
		a.mode = modeNormal
		a.tickerInput.Blur()
		a.page, a.cursor = 1, 0
		return a, a.loadViewCmd()
	}

	var cmd tea.Cmd
	a.tickerInput, cmd = a.tickerInput.Update(msg)
	return a, cmd
}

func (a *App) handleFilterKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch msg.String() {
	case "esc", "f":
		a.mode = modeNormal
		a.filterBar.filterMode = false
		return a, nil
	case "left", "h":
		if a.filterBar.filterCursor > 0 {
			a.filterBar.filterCursor--
		}
		return a, nil
	case "right", "l":
		if a.filterBar.filterCursor < len(a.filterBar.services)-1 {
			a.filterBar.filterCursor++
		}
		return a, nil
	case " ", "enter":
		a.filterBar.toggleCurrent()
		a.page, a.cursor = 1, 0
		return a, a.loadViewCmd()
	case "1", "2", "3", "4", "5", "6", "7", "8", "9":
		idx := int(msg.String()[0] - '1')
		if idx < len(a.filterBar.services) {
			a.filterBar.toggle(a.filterBar.services[idx].ID)
			a.page, a.cursor = 1, 0
			return a, a.loadViewCmd()
		}
		return a, nil
	}
	return a, nil
}

func (a *App) withBottomBar(content string, hints string) string {
	bar := renderBottomBar(hints, a.width)
	lines := strings.Split(content, "\n")
	for len(lines) < a.height-1 {
		lines = append(lines, "")
	}
	if len(lines) >= a.height {
		lines = lines[:a.height-1]
	}
	lines = append(lines, bar)
	return strings.Join(lines, "\n")
}

func (a *App) View() string {
	if a.width == 0 {
		return lipgloss.NewStyle().Foreground(colorAccent).Render("  satellite")
	}

	switch a.mode {
	case modeHome:
		return a.withBottomBar(renderHomeScreen(a.width, a.height, a.lastImport), "a articles  d recap  q quit")
	case modeRecap:
		if a.recap == nil {
			return a.withBottomBar(lipglossCenter("Building recap...", a.width, a.height), "a articles  h home  q quit")
		}
		return a.withBottomBar(renderRecapScreen(a.recap, a.width, a.height), "a articles  h home  q quit")
	case modeHelp:
		return a.withBottomBar(a.renderHelp(), "? close  q quit")
	}

	// Layout calculations
	headerHeight := 1
	filterHeight := 1
	statusHeight := 1
	contentHeight := a.height - headerHeight - filterHeight - statusHeight - 4 // borders

	listWidth := int(float64(a.width) * 0.4)
	previewWidth := a.width - listWidth - 1 // gap

	if contentHeight < 3 {
		contentHeight = 3
	}

	headerLeft := headerStyle.Render("satellite")
	headerRight := headerDateStyle.Render(a.currentDate)
	headerGap := max(a.width-lipgloss.Width(headerLeft)-lipgloss.Width(headerRight), 0)
	header := headerLeft + fmt.Sprintf("%*s", headerGap, "") + headerRight

	bar := a.filterBar.render(a.width)
	if a.mode == modeTickers {
		bar = a.tickerInput.View()
	}

	entries := a.entries()
	innerListW := listWidth - 4 // border + padding
	listContent := renderList(entries, a.cursor, contentHeight, innerListW)

	var listPane string
	if a.focus == focusList {
		listPane = listPaneActiveStyle.Width(listWidth - 2).Height(contentHeight).Render(listContent)
	} else {
		listPane = listPaneStyle.Width(listWidth - 2).Height(contentHeight).Render(listContent)
	}

	var selected *listing.Entry
	if a.cursor < len(entries) {
		selected = &entries[a.cursor]
	}
	innerPreviewW := previewWidth - 4
	previewContent := renderPreview(selected, a.window, innerPreviewW, contentHeight, a.previewScroll)

	var previewPane string
	if a.focus == focusPreview {
		previewPane = previewPaneActiveStyle.Width(previewWidth - 2).Height(contentHeight).Render(previewContent)
	} else {
		previewPane = previewPaneStyle.Width(previewWidth - 2).Height(contentHeight).Render(previewContent)
	}

	content := lipgloss.JoinHorizontal(lipgloss.Top, listPane, previewPane)

	status := renderStatusBar(a.view, a.filterBar.activeLabel(), a.width, a.mode == modeTickers, a.refreshing)

	if a.refreshing {
		status = a.spinner.View() + " " + status
	}

	if a.err != nil {
		status = lipgloss.NewStyle().Foreground(colorAccent).Render(a.err.Error())
	} else if a.notice != "" && !a.refreshing {
		status = lipgloss.NewStyle().Foreground(colorGreen).Render(a.notice) + " " + status
	}

	return lipgloss.JoinVertical(lipgloss.Left, header, bar, content, status)
}

func (a *App) renderHelp() string {
	title := lipgloss.NewStyle().Foreground(colorAccent).Bold(true).Render("satellite")
	dim := helpDimStyle

	help := title + dim.Render(" · Keyboard Shortcuts") + "\n\n" +
		dim.Render("Navigation") + "\n" +
		"  j/k, ↑/↓     Navigate article list\n" +
		"  n/p, →/←     Next / previous page\n" +
		"  tab           Switch focus between list and preview\n\n" +
		dim.Render("Actions") + "\n" +
		"  o, enter      Open article in browser\n" +
		"  /             Filter by tickers (comma separated)\n" +
		"  f             Toggle service filter mode\n" +
		"  d             Yesterday's recap\n" +
		"  r             Import from service feeds\n\n" +
		dim.Render("Service Filter Mode") + "\n" +
		"  ←/→, h/l     Move between services\n" +
		"  space/enter   Toggle service\n" +
		"  1-9           Toggle service by number\n" +
		"  esc, f        Exit filter mode\n\n" +
		dim.Render("General") + "\n" +
		"  h             Go to home screen\n" +
		"  ?             Toggle this help\n" +
		"  q, ctrl+c    Quit"

	card := helpCardStyle.Render(help)

	return lipgloss.Place(a.width, a.height, lipgloss.Center, lipgloss.Center, card)
}

// Run starts the TUI application.
func Run(opts RunOpts) error {
	app := NewApp(opts)
	p := tea.NewProgram(app, tea.WithAltScreen())
	_, err := p.Run()
	return err
}
