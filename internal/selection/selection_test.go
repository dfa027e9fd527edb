package selection

import (
	"context"
	"errors"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/ellenbowman/satellite-of-love/internal/filter"
	"github.com/ellenbowman/satellite-of-love/internal/store"
)

var base = time.Date(2015, 5, 12, 12, 0, 0, 0, time.UTC)

func corpus() []store.Article {
	return []store.Article{
		{URL: "u3", Ticker: "FB", ServiceID: 2, Published: base.Add(-3 * time.Hour)},
		{URL: "u1", Ticker: "AAPL", ServiceID: 1, Published: base},
		{URL: "u2", Ticker: "aapl", ServiceID: 2, Published: base.Add(-time.Hour)},
		{URL: "u1", Ticker: "FB", ServiceID: 1, Published: base},
		{URL: "u4", Ticker: "TSLA", ServiceID: 1, Published: base.Add(-time.Hour)},
	}
}

func urls(articles []store.Article) []string {
	out := make([]string, len(articles))
	for i, a := range articles {
		out[i] = a.URL
	}
	return out
}

func TestSelect(t *testing.T) {
	tests := []struct {
		name     string
		criteria filter.Criteria
		want     []string
	}{
		{"no constraint", filter.Criteria{}, []string{"u1", "u2", "u4", "u3"}},
		{"ticker", filter.FromIDs("AAPL", nil), []string{"u1", "u2"}},
		{"service", filter.FromIDs("", []int{2}), []string{"u2", "u3"}},
		{"ticker and service", filter.FromIDs("fb", []int{2}), []string{"u3"}},
		{"unknown ticker", filter.FromIDs("ZZZZ", nil), []string{}},
		{"unknown ticker alongside known", filter.FromIDs("ZZZZ,TSLA", nil), []string{"u4"}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := Select(corpus(), tt.criteria)
			assert.Equal(t, tt.want, urls(got))
		})
	}
}

func TestSelectHandBuiltCriteria(t *testing.T) {
	articles := []store.Article{
		{URL: "a", Ticker: "AAPL", ServiceID: 1, Published: base},
		{URL: "b", Ticker: "FB", ServiceID: 3, Published: base.Add(-time.Hour)},
		{URL: "c", Ticker: "FB", ServiceID: 2, Published: base.Add(-2 * time.Hour)},
	}
	c := filter.Criteria{TickerSymbols: []string{"fb", "AAPL"}, ServiceIDs: []int{3, 1}}

	assert.Equal(t, []string{"a", "b"}, urls(Select(articles, c)))
}

func TestSelectMembership(t *testing.T) {
	c := filter.FromIDs("aapl,fb", nil)
	for _, a := range Select(corpus(), c) {
		assert.True(t, c.HasTicker(strings.ToUpper(a.Ticker)), "unexpected ticker %s", a.Ticker)
	}
}

func TestSelectDoesNotMutateInput(t *testing.T) {
	in := corpus()
	Select(in, filter.Criteria{})
	assert.Equal(t, corpus(), in)
}

type fakeStore struct {
	articles []store.Article
	services []store.Service
	tickers  []store.Ticker
	err      error
	lastOpts store.QueryOpts
}

func (f *fakeStore) Articles(_ context.Context, opts store.QueryOpts) ([]store.Article, error) {
	f.lastOpts = opts
	if f.err != nil {
		return nil, f.err
	}
	// Deliberately return storage order untouched
	return f.articles, nil
}

func (f *fakeStore) Services(context.Context) ([]store.Service, error) {
	return f.services, f.err
}

func (f *fakeStore) TickersBySymbols(context.Context, []string) ([]store.Ticker, error) {
	return f.tickers, f.err
}

func TestSelectorPushesDownAndReorders(t *testing.T) {
	fs := &fakeStore{articles: corpus()}
	sel := New(fs)
	c := filter.FromIDs("aapl", []int{1, 2})
	since := base.Add(-24 * time.Hour)

	got, err := sel.Select(context.Background(), c, store.QueryOpts{Since: since})
	require.NoError(t, err)
	assert.Equal(t, []string{"u1", "u2"}, urls(got))
	assert.Equal(t, []string{"AAPL"}, fs.lastOpts.Tickers)
	assert.Equal(t, []int{1, 2}, fs.lastOpts.ServiceIDs)
	assert.Equal(t, since, fs.lastOpts.Since)
}

func TestSelectorCoverageKeepsSyndicatedRows(t *testing.T) {
	sel := New(&fakeStore{articles: corpus()})
	got, err := sel.Coverage(context.Background(), filter.FromIDs("", []int{1}), store.QueryOpts{})
	require.NoError(t, err)
	assert.Equal(t, []string{"u1", "u1", "u4"}, urls(got))
}

func TestSelectorWrapsStoreErrors(t *testing.T) {
	boom := errors.New("database is locked")
	sel := New(&fakeStore{err: boom})

	_, err := sel.Select(context.Background(), filter.FromIDs("AAPL", nil), store.QueryOpts{})
	require.Error(t, err)
	assert.ErrorIs(t, err, boom)
	assert.Contains(t, err.Error(), "fetching articles")

	_, err = sel.Services(context.Background())
	assert.ErrorIs(t, err, boom)
}

func TestSelectorUnmatched(t *testing.T) {
	sel := New(&fakeStore{tickers: []store.Ticker{{Symbol: "AAPL"}}})

	missing, err := sel.Unmatched(context.Background(), filter.FromIDs("aapl,zzzz", nil))
	require.NoError(t, err)
	assert.Equal(t, []string{"ZZZZ"}, missing)

	missing, err = sel.Unmatched(context.Background(), filter.Criteria{})
	require.NoError(t, err)
	assert.Nil(t, missing)
}
