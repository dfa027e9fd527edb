package tui

import (
	"context"
	"errors"
	"fmt"
	"path/filepath"
	"testing"
	"time"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/ellenbowman/satellite-of-love/internal/listing"
	"github.com/ellenbowman/satellite-of-love/internal/store"
)

var testServices = []store.Service{
	{ID: 1, Name: "stock-advisor", PrettyName: "Stock Advisor"},
	{ID: 2, Name: "hidden-gems", PrettyName: "Hidden Gems"},
}

func seededListing(t *testing.T) *listing.Service {
	t.Helper()
	ctx := context.Background()
	db, err := store.Open(filepath.Join(t.TempDir(), "tui.db"))
	require.NoError(t, err)
	t.Cleanup(func() { db.Close() })

	require.NoError(t, db.UpsertServices(ctx, testServices))
	require.NoError(t, db.UpsertTickers(ctx, []store.Ticker{{Symbol: "AAPL"}, {Symbol: "FB"}}))
	now := time.Date(2015, 5, 12, 12, 0, 0, 0, time.UTC)
	var articles []store.Article
	for i := 0; i < 5; i++ {
		ticker := "AAPL"
		if i%2 == 0 {
			ticker = "FB"
		}
		articles = append(articles, store.Article{
			URL:       fmt.Sprintf("https://fool.com/%d", i),
			Title:     fmt.Sprintf("Article %d", i),
			Author:    "Ann",
			Ticker:    ticker,
			ServiceID: 1 + i%2,
			Published: now.Add(-time.Duration(i) * time.Hour),
		})
	}
	require.NoError(t, db.UpsertArticles(ctx, articles))
	return listing.New(db, listing.Options{PageSize: 2, Now: func() time.Time { return now }})
}

func key(s string) tea.KeyMsg {
	return tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune(s)}
}

func TestFilterBarToggle(t *testing.T) {
	fb := newFilterBar(testServices)
	assert.Nil(t, fb.activeIDs())
	assert.Equal(t, "All", fb.activeLabel())

	fb.toggle(2)
	assert.Equal(t, []int{2}, fb.activeIDs())
	assert.Equal(t, "Hidden Gems", fb.activeLabel())

	fb.toggleCurrent()
	assert.Equal(t, []int{1, 2}, fb.activeIDs())
	assert.Equal(t, "Stock Advisor, Hidden Gems", fb.activeLabel())

	fb.toggle(2)
	fb.toggle(1)
	assert.Nil(t, fb.activeIDs())
}

func TestFilterBarRenderMarksCursor(t *testing.T) {
	fb := newFilterBar(testServices)
	fb.filterMode = true
	fb.filterCursor = 1
	out := fb.render(80)
	assert.Contains(t, out, "[Hidden Gems]")
	assert.Contains(t, out, "Stock Advisor")
}

func TestAppLoadsAndPages(t *testing.T) {
	app := NewApp(RunOpts{Listing: seededListing(t), Services: testServices, BrowseMode: true})

	cmd := app.Init()
	require.NotNil(t, cmd)
	app.Update(cmd())

	require.NotNil(t, app.view)
	assert.Equal(t, 1, app.page)
	assert.Equal(t, 3, app.view.Page.TotalPages)
	require.Len(t, app.entries(), 2)
	assert.Equal(t, "https://fool.com/0", app.entries()[0].URL)

	_, cmd = app.Update(key("n"))
	require.NotNil(t, cmd)
	app.Update(cmd())
	assert.Equal(t, 2, app.page)
	assert.Equal(t, "https://fool.com/2", app.entries()[0].URL)

	_, cmd = app.Update(key("p"))
	require.NotNil(t, cmd)
	app.Update(cmd())
	assert.Equal(t, 1, app.page)
}

func TestAppServiceFilter(t *testing.T) {
	app := NewApp(RunOpts{Listing: seededListing(t), Services: testServices, BrowseMode: true, ServiceIDs: []int{2}})
	app.Update(app.Init()())

	require.NotNil(t, app.view)
	assert.Equal(t, 2, app.view.Page.TotalItems)
	for _, e := range app.entries() {
		assert.Equal(t, 2, e.ServiceID)
	}

	app.Update(key("f"))
	assert.Equal(t, modeFilter, app.mode)
	_, cmd := app.Update(key("2"))
	require.NotNil(t, cmd)
	app.Update(cmd())
	assert.Equal(t, 5, app.view.Page.TotalItems)
}

func TestAppUnmatchedTickers(t *testing.T) {
	app := NewApp(RunOpts{Listing: seededListing(t), Services: testServices, BrowseMode: true, Tickers: "fb, zzzz"})
	app.Update(app.Init()())

	require.NotNil(t, app.view)
	assert.Equal(t, []string{"FB", "ZZZZ"}, app.view.Criteria.TickerSymbols)
	assert.Equal(t, []string{"ZZZZ"}, app.view.Unmatched)
	assert.Equal(t, 3, app.view.Page.TotalItems)
}

func TestAppRefreshDone(t *testing.T) {
	app := NewApp(RunOpts{
		Listing:    seededListing(t),
		BrowseMode: true,
		Refresh:    func(context.Context) (string, error) { return "imported 3 articles", nil },
	})

	_, cmd := app.Update(key("r"))
	require.NotNil(t, cmd)
	assert.True(t, app.refreshing)

	_, cmd = app.Update(refreshDoneMsg{detail: "imported 3 articles"})
	assert.False(t, app.refreshing)
	assert.Equal(t, "imported 3 articles", app.notice)
	assert.NotEmpty(t, app.lastImport)
	require.NotNil(t, cmd)

	app.Update(refreshDoneMsg{err: errors.New("feed down")})
	assert.EqualError(t, app.err, "feed down")

	app.Update(key("j"))
	assert.NoError(t, app.err)
}

func TestAppHomeNavigation(t *testing.T) {
	app := NewApp(RunOpts{Listing: seededListing(t)})
	assert.Equal(t, modeHome, app.mode)
	assert.Nil(t, app.Init())

	_, cmd := app.Update(key("a"))
	assert.Equal(t, modeNormal, app.mode)
	require.NotNil(t, cmd)

	app.Update(key("?"))
	assert.Equal(t, modeHelp, app.mode)
	app.Update(key("?"))
	assert.Equal(t, modeNormal, app.mode)

	app.Update(key("h"))
	assert.Equal(t, modeHome, app.mode)
}
