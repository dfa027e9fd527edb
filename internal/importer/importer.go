// Package importer pulls articles from each service's feed into the store.
package importer

import (
	"context"
	"fmt"
	"strings"
	"sync"
	"time"

	"github.com/mmcdole/gofeed"
	"golang.org/x/time/rate"

	"github.com/ellenbowman/satellite-of-love/internal/config"
	"github.com/ellenbowman/satellite-of-love/internal/logger"
	"github.com/ellenbowman/satellite-of-love/internal/metrics"
	"github.com/ellenbowman/satellite-of-love/internal/store"
)

// Batch is what one feed yielded.
type Batch struct {
	Articles []store.Article
	Tickers  []store.Ticker
}

type Fetcher interface {
	Fetch(ctx context.Context, svc config.Service) (Batch, error)
}

type RSSFetcher struct {
	parser *gofeed.Parser
	now    func() time.Time
}

func NewRSSFetcher() *RSSFetcher {
	return &RSSFetcher{parser: gofeed.NewParser(), now: time.Now}
}

func (f *RSSFetcher) Fetch(ctx context.Context, svc config.Service) (Batch, error) {
	feed, err := f.parser.ParseURLWithContext(svc.FeedURL, ctx)
	if err != nil {
		return Batch{}, fmt.Errorf("fetching %s: %w", svc.Name, err)
	}
	return f.batch(feed, svc), nil
}

// batch turns feed items into one Article per tagged ticker. Items that tag no
// ticker are skipped.
func (f *RSSFetcher) batch(feed *gofeed.Feed, svc config.Service) Batch {
	now := f.now()
	var b Batch
	seenTickers := make(map[string]struct{})

	for _, item := range feed.Items {
		if item.Link == "" {
			continue
		}

		pub := now
		if item.PublishedParsed != nil {
			pub = *item.PublishedParsed
		} else if item.UpdatedParsed != nil {
			pub = *item.UpdatedParsed
		}

		title := stripHTML(item.Title)
		author := itemAuthor(item)

		seenInItem := make(map[string]struct{})
		for _, cat := range item.Categories {
			t, ok := parseTicker(cat)
			if !ok {
				continue
			}
			if _, dup := seenInItem[t.Symbol]; dup {
				continue
			}
			seenInItem[t.Symbol] = struct{}{}

			b.Articles = append(b.Articles, store.Article{
				URL:       item.Link,
				Title:     title,
				Author:    author,
				Ticker:    t.Symbol,
				ServiceID: svc.ID,
				Published: pub.UTC(),
				FetchedAt: now.UTC(),
			})
			if _, known := seenTickers[t.Symbol]; !known {
				seenTickers[t.Symbol] = struct{}{}
				b.Tickers = append(b.Tickers, t)
			}
		}
	}
	return b
}

func itemAuthor(item *gofeed.Item) string {
	for _, p := range item.Authors {
		if p != nil && strings.TrimSpace(p.Name) != "" {
			return stripHTML(p.Name)
		}
	}
	if item.Author != nil {
		return stripHTML(item.Author.Name)
	}
	return ""
}

// parseTicker reads categories like "NASDAQ:AAPL", "NYSE: fb" or "$TSLA".
func parseTicker(category string) (store.Ticker, bool) {
	c := strings.TrimSpace(category)
	var exchange, symbol string
	switch {
	case strings.HasPrefix(c, "$"):
		symbol = c[1:]
	case strings.Contains(c, ":"):
		parts := strings.SplitN(c, ":", 2)
		exchange = strings.ToUpper(strings.TrimSpace(parts[0]))
		symbol = parts[1]
	default:
		return store.Ticker{}, false
	}

	symbol = strings.ToUpper(strings.TrimSpace(symbol))
	if !validSymbol(symbol) {
		return store.Ticker{}, false
	}
	return store.Ticker{Symbol: symbol, ExchangeSymbol: exchange}, true
}

func validSymbol(s string) bool {
	if s == "" || len(s) > 10 {
		return false
	}
	for _, r := range s {
		switch {
		case r >= 'A' && r <= 'Z', r >= '0' && r <= '9', r == '.', r == '-':
		default:
			return false
		}
	}
	return true
}

func stripHTML(s string) string {
	var b strings.Builder
	inTag := false
	for _, r := range s {
		switch {
		case r == '<':
			inTag = true
		case r == '>':
			inTag = false
		case !inTag:
			b.WriteRune(r)
		}
	}
	return strings.Join(strings.Fields(b.String()), " ")
}

// Writer is the write side of the record store.
type Writer interface {
	UpsertServices(ctx context.Context, services []store.Service) error
	UpsertTickers(ctx context.Context, tickers []store.Ticker) error
	UpsertArticles(ctx context.Context, articles []store.Article) error
}

type Result struct {
	Articles int
	Tickers  int
	Errors   []error
}

type Importer struct {
	fetcher Fetcher
	store   Writer
	limiter *rate.Limiter
	timeout time.Duration
	log     logger.Logger
}

type Options struct {
	RatePerSecond float64
	Timeout       time.Duration
	Logger        logger.Logger
}

func New(f Fetcher, w Writer, opts Options) *Importer {
	limit := rate.Inf
	if opts.RatePerSecond > 0 {
		limit = rate.Limit(opts.RatePerSecond)
	}
	if opts.Logger == nil {
		opts.Logger = logger.NewNop()
	}
	return &Importer{
		fetcher: f,
		store:   w,
		limiter: rate.NewLimiter(limit, 1),
		timeout: opts.Timeout,
		log:     opts.Logger,
	}
}

// Run registers services, fetches every enabled feed concurrently and stores
// what came back. A failing feed is reported in Result.Errors without
// stopping the others; only store failures are returned as an error.
func (im *Importer) Run(ctx context.Context, services []config.Service) (Result, error) {
	records := make([]store.Service, 0, len(services))
	for _, svc := range services {
		records = append(records, store.Service{ID: svc.ID, Name: svc.Name, PrettyName: svc.DisplayName(), FeedURL: svc.FeedURL})
	}
	if err := im.store.UpsertServices(ctx, records); err != nil {
		return Result{}, fmt.Errorf("registering services: %w", err)
	}

	var (
		mu       sync.Mutex
		wg       sync.WaitGroup
		result   Result
		articles []store.Article
		tickers  []store.Ticker
	)

	for _, svc := range services {
		if !svc.Enabled || svc.FeedURL == "" {
			continue
		}
		wg.Add(1)
		go func(s config.Service) {
			defer wg.Done()
			batch, err := im.fetch(ctx, s)

			mu.Lock()
			defer mu.Unlock()
			if err != nil {
				metrics.RecordFeedError(s.Name)
				im.log.Warn("feed failed", logger.String("service", s.Name), logger.Error(err))
				result.Errors = append(result.Errors, err)
				return
			}
			metrics.RecordImport(s.Name, len(batch.Articles))
			im.log.Debug("feed fetched", logger.String("service", s.Name), logger.Int("articles", len(batch.Articles)))
			articles = append(articles, batch.Articles...)
			tickers = append(tickers, batch.Tickers...)
		}(svc)
	}
	wg.Wait()

	if err := im.store.UpsertTickers(ctx, tickers); err != nil {
		return result, fmt.Errorf("storing tickers: %w", err)
	}
	if err := im.store.UpsertArticles(ctx, articles); err != nil {
		return result, fmt.Errorf("storing articles: %w", err)
	}
	result.Articles = len(articles)
	result.Tickers = len(tickers)
	return result, nil
}

func (im *Importer) fetch(ctx context.Context, svc config.Service) (Batch, error) {
	if err := im.limiter.Wait(ctx); err != nil {
		return Batch{}, fmt.Errorf("waiting to fetch %s: %w", svc.Name, err)
	}
	if im.timeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, im.timeout)
		defer cancel()
	}
	return im.fetcher.Fetch(ctx, svc)
}
