// Package analytics computes coverage statistics over a selection of articles.
// Every function here is pure: inputs are never mutated and results are fresh
// values.
package analytics

import (
	"sort"
	"strings"
	"time"

	"github.com/ellenbowman/satellite-of-love/internal/store"
)

const (
	DefaultTopTickers   = 15
	DefaultAuthorWindow = 10 * 24 * time.Hour
)

type TickerCount struct {
	Symbol string `json:"symbol"`
	Count  int    `json:"count"`
}

type ServiceCount struct {
	ServiceID  int      `json:"service_id"`
	PrettyName string   `json:"pretty_name"`
	Count      int      `json:"count"`
	Tickers    []string `json:"tickers"`
}

type Summary struct {
	ArticleCount      int            `json:"article_count"`
	UniqueTickerCount int            `json:"unique_ticker_count"`
	MostCommonTickers []TickerCount  `json:"most_common_tickers"`
	PerService        []ServiceCount `json:"per_service_counts"`
}

// Summarize aggregates articles. Services are reported in pretty-name order
// and only when they have at least one article.
func Summarize(articles []store.Article, services []store.Service, topN int) Summary {
	if topN <= 0 {
		topN = DefaultTopTickers
	}

	urls := make(map[string]struct{})
	tickers := make(map[string]struct{})
	for _, a := range articles {
		urls[a.URL] = struct{}{}
		tickers[symbol(a)] = struct{}{}
	}

	return Summary{
		ArticleCount:      len(urls),
		UniqueTickerCount: len(tickers),
		MostCommonTickers: TopTickers(articles, topN),
		PerService:        perService(articles, services),
	}
}

// TopTickers ranks symbols by raw occurrence count. Equal counts keep the
// order in which symbols first appear in articles, not the order in which
// they reached the count: A,B,B,A ranks A before B. The ranking is cut to n
// entries and then at the first entry with a count of one.
func TopTickers(articles []store.Article, n int) []TickerCount {
	counts := make(map[string]int)
	var order []string
	for _, a := range articles {
		sym := symbol(a)
		if _, ok := counts[sym]; !ok {
			order = append(order, sym)
		}
		counts[sym]++
	}

	ranked := make([]TickerCount, 0, len(order))
	for _, sym := range order {
		ranked = append(ranked, TickerCount{Symbol: sym, Count: counts[sym]})
	}
	sort.SliceStable(ranked, func(i, j int) bool {
		return ranked[i].Count > ranked[j].Count
	})

	if n > 0 && len(ranked) > n {
		ranked = ranked[:n]
	}

	out := []TickerCount{}
	for _, tc := range ranked {
		if tc.Count == 1 {
			break
		}
		out = append(out, tc)
	}
	return out
}

func perService(articles []store.Article, services []store.Service) []ServiceCount {
	ordered := make([]store.Service, len(services))
	copy(ordered, services)
	sort.SliceStable(ordered, func(i, j int) bool {
		if ordered[i].PrettyName != ordered[j].PrettyName {
			return ordered[i].PrettyName < ordered[j].PrettyName
		}
		return ordered[i].ID < ordered[j].ID
	})

	type acc struct {
		urls    map[string]struct{}
		tickers map[string]struct{}
	}
	byService := make(map[int]*acc)
	for _, a := range articles {
		s, ok := byService[a.ServiceID]
		if !ok {
			s = &acc{urls: make(map[string]struct{}), tickers: make(map[string]struct{})}
			byService[a.ServiceID] = s
		}
		s.urls[a.URL] = struct{}{}
		s.tickers[symbol(a)] = struct{}{}
	}

	out := []ServiceCount{}
	for _, svc := range ordered {
		s, ok := byService[svc.ID]
		if !ok {
			continue
		}
		out = append(out, ServiceCount{
			ServiceID:  svc.ID,
			PrettyName: svc.PrettyName,
			Count:      len(s.urls),
			Tickers:    sortedKeys(s.tickers),
		})
	}
	return out
}

// Overview describes an already-ordered selection: Newest is taken from the
// first article and Oldest from the last.
type Overview struct {
	ArticleCount int       `json:"article_count"`
	AuthorCount  int       `json:"author_count"`
	Newest       time.Time `json:"newest"`
	Oldest       time.Time `json:"oldest"`
}

func NewOverview(articles []store.Article) Overview {
	if len(articles) == 0 {
		return Overview{}
	}
	authors := make(map[string]struct{})
	for _, a := range articles {
		authors[a.Author] = struct{}{}
	}
	return Overview{
		ArticleCount: len(articles),
		AuthorCount:  len(authors),
		Newest:       articles[0].Published,
		Oldest:       articles[len(articles)-1].Published,
	}
}

// AuthorProfile is an author's output across the whole corpus.
type AuthorProfile struct {
	Author       string   `json:"author"`
	ArticleCount int      `json:"article_count"`
	Services     []string `json:"services"`
	RecentCount  int      `json:"recent_count"`
}

// AuthorProfiles builds a profile for each requested author from corpus.
// RecentCount covers articles published strictly after now-window. Every
// corpus row counts, so an article about two tickers counts twice.
func AuthorProfiles(authors []string, corpus []store.Article, services []store.Service, now time.Time, window time.Duration) map[string]AuthorProfile {
	if window <= 0 {
		window = DefaultAuthorWindow
	}
	cutoff := now.Add(-window)

	names := make(map[int]string, len(services))
	for _, svc := range services {
		names[svc.ID] = svc.PrettyName
	}

	type acc struct {
		count, recent int
		services      map[string]struct{}
	}
	wanted := make(map[string]*acc, len(authors))
	for _, author := range authors {
		wanted[author] = &acc{services: make(map[string]struct{})}
	}

	for _, a := range corpus {
		p, ok := wanted[a.Author]
		if !ok {
			continue
		}
		p.count++
		if name, ok := names[a.ServiceID]; ok {
			p.services[name] = struct{}{}
		}
		if a.Published.After(cutoff) {
			p.recent++
		}
	}

	out := make(map[string]AuthorProfile, len(wanted))
	for author, p := range wanted {
		out[author] = AuthorProfile{
			Author:       author,
			ArticleCount: p.count,
			Services:     sortedKeys(p.services),
			RecentCount:  p.recent,
		}
	}
	return out
}

func symbol(a store.Article) string {
	return strings.ToUpper(strings.TrimSpace(a.Ticker))
}

func sortedKeys(m map[string]struct{}) []string {
	out := make([]string, 0, len(m))
	for k := range m {
		out = append(out, k)
	}
	sort.Strings(out)
	return out
}
