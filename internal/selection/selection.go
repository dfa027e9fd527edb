// Package selection applies filter criteria to articles.
package selection

import (
	"context"
	"fmt"
	"sort"

	"github.com/ellenbowman/satellite-of-love/internal/filter"
	"github.com/ellenbowman/satellite-of-love/internal/store"
)

// RecordStore is the read side of the record store that selection needs.
type RecordStore interface {
	Articles(ctx context.Context, opts store.QueryOpts) ([]store.Article, error)
	Services(ctx context.Context) ([]store.Service, error)
	TickersBySymbols(ctx context.Context, symbols []string) ([]store.Ticker, error)
}

// Select returns the articles matching c, newest first, one per URL. Articles
// published at the same instant keep their input order. The input slice is
// not modified.
func Select(articles []store.Article, c filter.Criteria) []store.Article {
	matched := make([]store.Article, 0, len(articles))
	for _, a := range articles {
		if c.Match(a) {
			matched = append(matched, a)
		}
	}

	sort.SliceStable(matched, func(i, j int) bool {
		return matched[i].Published.After(matched[j].Published)
	})

	seen := make(map[string]struct{}, len(matched))
	out := matched[:0]
	for _, a := range matched {
		if _, ok := seen[a.URL]; ok {
			continue
		}
		seen[a.URL] = struct{}{}
		out = append(out, a)
	}
	return out
}

// Selector runs selections against a RecordStore.
type Selector struct {
	store RecordStore
}

func New(rs RecordStore) *Selector {
	return &Selector{store: rs}
}

// Select narrows the store query with c and window, then applies the pure
// Select so ordering does not depend on the store.
func (s *Selector) Select(ctx context.Context, c filter.Criteria, window store.QueryOpts) ([]store.Article, error) {
	opts := window
	opts.Tickers = c.TickerSymbols
	opts.ServiceIDs = c.ServiceIDs

	articles, err := s.store.Articles(ctx, opts)
	if err != nil {
		return nil, fmt.Errorf("fetching articles for tickers=%v services=%v: %w", c.TickerSymbols, c.ServiceIDs, err)
	}
	return Select(articles, c), nil
}

// Coverage returns every matching article row without URL de-duplication, for
// coverage counts where each (url, ticker) row matters.
func (s *Selector) Coverage(ctx context.Context, c filter.Criteria, window store.QueryOpts) ([]store.Article, error) {
	opts := window
	opts.Tickers = c.TickerSymbols
	opts.ServiceIDs = c.ServiceIDs

	articles, err := s.store.Articles(ctx, opts)
	if err != nil {
		return nil, fmt.Errorf("fetching coverage for tickers=%v services=%v: %w", c.TickerSymbols, c.ServiceIDs, err)
	}
	out := make([]store.Article, 0, len(articles))
	for _, a := range articles {
		if c.Match(a) {
			out = append(out, a)
		}
	}
	sort.SliceStable(out, func(i, j int) bool {
		return out[i].Published.After(out[j].Published)
	})
	return out, nil
}

func (s *Selector) Services(ctx context.Context) ([]store.Service, error) {
	services, err := s.store.Services(ctx)
	if err != nil {
		return nil, fmt.Errorf("fetching services: %w", err)
	}
	return services, nil
}

// Unmatched reports the requested symbols that have no ticker record.
func (s *Selector) Unmatched(ctx context.Context, c filter.Criteria) ([]string, error) {
	if len(c.TickerSymbols) == 0 {
		return nil, nil
	}
	found, err := s.store.TickersBySymbols(ctx, c.TickerSymbols)
	if err != nil {
		return nil, fmt.Errorf("fetching tickers %v: %w", c.TickerSymbols, err)
	}
	return filter.Unmatched(c, found), nil
}
