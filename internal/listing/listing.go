// Package listing assembles the filtered, paginated article view shared by the
// API, the CLI and the terminal browser.
package listing

import (
	"context"
	"fmt"
	"time"

	"github.com/ellenbowman/satellite-of-love/internal/analytics"
	"github.com/ellenbowman/satellite-of-love/internal/filter"
	"github.com/ellenbowman/satellite-of-love/internal/paginate"
	"github.com/ellenbowman/satellite-of-love/internal/selection"
	"github.com/ellenbowman/satellite-of-love/internal/store"
)

const DefaultPageSize = 25

// Query is raw, unvalidated listing input.
type Query struct {
	Tickers    string
	ServiceIDs []string
	Page       string
}

type Entry struct {
	store.Article
	ServiceName string                  `json:"service_name"`
	AuthorStats analytics.AuthorProfile `json:"author_stats"`
}

type View struct {
	Criteria           filter.Criteria      `json:"criteria"`
	TickerDescription  string               `json:"ticker_description"`
	ServiceDescription string               `json:"service_description"`
	Unmatched          []string             `json:"unmatched_tickers"`
	Overview           analytics.Overview   `json:"overview"`
	Page               paginate.Page[Entry] `json:"page"`
	Services           []store.Service      `json:"services"`
}

type Options struct {
	PageSize     int
	TopTickers   int
	AuthorWindow time.Duration
	Now          func() time.Time
}

type Service struct {
	sel     *selection.Selector
	records selection.RecordStore
	opts    Options
}

func New(records selection.RecordStore, opts Options) *Service {
	if opts.PageSize <= 0 {
		opts.PageSize = DefaultPageSize
	}
	if opts.TopTickers <= 0 {
		opts.TopTickers = analytics.DefaultTopTickers
	}
	if opts.AuthorWindow <= 0 {
		opts.AuthorWindow = analytics.DefaultAuthorWindow
	}
	if opts.Now == nil {
		opts.Now = time.Now
	}
	return &Service{sel: selection.New(records), records: records, opts: opts}
}

func (s *Service) Selector() *selection.Selector { return s.sel }

// View resolves q, selects and paginates the matching articles, and attaches
// author statistics to every article on the page.
func (s *Service) View(ctx context.Context, q Query) (*View, error) {
	c, err := filter.Resolve(q.Tickers, q.ServiceIDs)
	if err != nil {
		return nil, err
	}
	return s.ViewCriteria(ctx, c, q.Page)
}

// ViewCriteria is View for already-resolved criteria.
func (s *Service) ViewCriteria(ctx context.Context, c filter.Criteria, page string) (*View, error) {
	articles, err := s.sel.Select(ctx, c, store.QueryOpts{})
	if err != nil {
		return nil, err
	}
	services, err := s.sel.Services(ctx)
	if err != nil {
		return nil, err
	}
	unmatched, err := s.sel.Unmatched(ctx, c)
	if err != nil {
		return nil, err
	}

	p, err := paginate.Paginate(articles, s.opts.PageSize, page)
	if err != nil {
		return nil, err
	}

	profiles, err := s.authorProfiles(ctx, p.Items, services)
	if err != nil {
		return nil, err
	}

	names := make(map[int]string, len(services))
	for _, svc := range services {
		names[svc.ID] = svc.PrettyName
	}

	entries := make([]Entry, len(p.Items))
	for i, a := range p.Items {
		entries[i] = Entry{
			Article:     a,
			ServiceName: names[a.ServiceID],
			AuthorStats: profiles[a.Author],
		}
	}

	return &View{
		Criteria:           c,
		TickerDescription:  filter.TickerDescription(c),
		ServiceDescription: filter.ServiceDescription(c, services),
		Unmatched:          unmatched,
		Overview:           analytics.NewOverview(articles),
		Page: paginate.Page[Entry]{
			Items:      entries,
			Number:     p.Number,
			TotalPages: p.TotalPages,
			TotalItems: p.TotalItems,
			PageSize:   p.PageSize,
		},
		Services: services,
	}, nil
}

func (s *Service) authorProfiles(ctx context.Context, page []store.Article, services []store.Service) (map[string]analytics.AuthorProfile, error) {
	seen := make(map[string]struct{})
	var authors []string
	for _, a := range page {
		if _, ok := seen[a.Author]; ok {
			continue
		}
		seen[a.Author] = struct{}{}
		authors = append(authors, a.Author)
	}
	if len(authors) == 0 {
		return map[string]analytics.AuthorProfile{}, nil
	}

	corpus, err := s.records.Articles(ctx, store.QueryOpts{Authors: authors})
	if err != nil {
		return nil, fmt.Errorf("fetching articles by authors %v: %w", authors, err)
	}
	return analytics.AuthorProfiles(authors, corpus, services, s.opts.Now(), s.opts.AuthorWindow), nil
}

// Summary aggregates the articles matching q published in [since, until).
// Zero times leave that side of the window open.
func (s *Service) Summary(ctx context.Context, q Query, since, until time.Time) (analytics.Summary, error) {
	c, err := filter.Resolve(q.Tickers, q.ServiceIDs)
	if err != nil {
		return analytics.Summary{}, err
	}
	articles, err := s.sel.Coverage(ctx, c, store.QueryOpts{Since: since, Until: until})
	if err != nil {
		return analytics.Summary{}, err
	}
	services, err := s.sel.Services(ctx)
	if err != nil {
		return analytics.Summary{}, err
	}
	return analytics.Summarize(articles, services, s.opts.TopTickers), nil
}
