package importer

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/mmcdole/gofeed"

	"github.com/ellenbowman/satellite-of-love/internal/config"
	"github.com/ellenbowman/satellite-of-love/internal/store"
)

func TestParseTicker(t *testing.T) {
	tests := []struct {
		input    string
		symbol   string
		exchange string
		ok       bool
	}{
		{"NASDAQ:AAPL", "AAPL", "NASDAQ", true},
		{"nyse: fb", "FB", "NYSE", true},
		{"$tsla", "TSLA", "", true},
		{"NYSE:BRK.B", "BRK.B", "NYSE", true},
		{"Investing", "", "", false},
		{"NASDAQ:", "", "", false},
		{"$", "", "", false},
		{"NYSE:not a ticker", "", "", false},
	}
	for _, tt := range tests {
		got, ok := parseTicker(tt.input)
		if ok != tt.ok {
			t.Errorf("parseTicker(%q) ok = %v, want %v", tt.input, ok, tt.ok)
			continue
		}
		if got.Symbol != tt.symbol || got.ExchangeSymbol != tt.exchange {
			t.Errorf("parseTicker(%q) = %+v, want %s/%s", tt.input, got, tt.exchange, tt.symbol)
		}
	}
}

func TestStripHTML(t *testing.T) {
	tests := []struct {
		input string
		want  string
	}{
		{"<p>Hello</p>", "Hello"},
		{"<b>Bold</b> and <i>italic</i>", "Bold and italic"},
		{"No tags here", "No tags here"},
		{"<div>  Multiple   spaces  </div>", "Multiple spaces"},
		{"", ""},
		{"<a href=\"url\">Link</a> text", "Link text"},
	}
	for _, tt := range tests {
		got := stripHTML(tt.input)
		if got != tt.want {
			t.Errorf("stripHTML(%q) = %q, want %q", tt.input, got, tt.want)
		}
	}
}

const sampleFeed = `<?xml version="1.0" encoding="UTF-8"?>
<rss version="2.0">
<channel>
  <title>Stock Advisor</title>
  <item>
    <title>Why &lt;b&gt;Apple&lt;/b&gt; and Meta Moved Today</title>
    <link>https://www.fool.com/investing/2015/05/12/apple-meta.aspx</link>
    <author>ann@fool.com (Ann Analyst)</author>
    <pubDate>Tue, 12 May 2015 14:30:00 GMT</pubDate>
    <category>NASDAQ:AAPL</category>
    <category>NASDAQ:FB</category>
    <category>nasdaq:aapl</category>
    <category>Investing</category>
  </item>
  <item>
    <title>Market Wrap</title>
    <link>https://www.fool.com/investing/2015/05/12/wrap.aspx</link>
    <category>Investing</category>
  </item>
  <item>
    <title>Tesla Deliveries</title>
    <link>https://www.fool.com/investing/2015/05/11/tesla.aspx</link>
    <category>$TSLA</category>
  </item>
</channel>
</rss>`

func TestBatch(t *testing.T) {
	feed, err := gofeed.NewParser().ParseString(sampleFeed)
	if err != nil {
		t.Fatalf("parsing sample feed: %v", err)
	}
	now := time.Date(2015, 5, 13, 0, 0, 0, 0, time.UTC)
	f := &RSSFetcher{parser: gofeed.NewParser(), now: func() time.Time { return now }}

	b := f.batch(feed, config.Service{ID: 1, Name: "stock-advisor"})

	if len(b.Articles) != 3 {
		t.Fatalf("expected 3 article rows, got %d: %+v", len(b.Articles), b.Articles)
	}
	first := b.Articles[0]
	if first.Ticker != "AAPL" || b.Articles[1].Ticker != "FB" {
		t.Errorf("expected AAPL then FB, got %s then %s", first.Ticker, b.Articles[1].Ticker)
	}
	if first.URL != b.Articles[1].URL {
		t.Error("expected both tickers to share the article URL")
	}
	if first.Title != "Why Apple and Meta Moved Today" {
		t.Errorf("unexpected title %q", first.Title)
	}
	if first.Author != "Ann Analyst" {
		t.Errorf("unexpected author %q", first.Author)
	}
	if first.ServiceID != 1 {
		t.Errorf("expected service 1, got %d", first.ServiceID)
	}
	if want := time.Date(2015, 5, 12, 14, 30, 0, 0, time.UTC); !first.Published.Equal(want) {
		t.Errorf("expected published %v, got %v", want, first.Published)
	}
	// No pubDate falls back to fetch time
	if !b.Articles[2].Published.Equal(now) {
		t.Errorf("expected fallback to now, got %v", b.Articles[2].Published)
	}
	if len(b.Tickers) != 3 {
		t.Errorf("expected 3 distinct tickers, got %d", len(b.Tickers))
	}
}

type fakeFetcher struct {
	batches map[string]Batch
	errs    map[string]error
}

func (f *fakeFetcher) Fetch(_ context.Context, svc config.Service) (Batch, error) {
	if err := f.errs[svc.Name]; err != nil {
		return Batch{}, err
	}
	return f.batches[svc.Name], nil
}

type fakeWriter struct {
	services []store.Service
	tickers  []store.Ticker
	articles []store.Article
	err      error
}

func (w *fakeWriter) UpsertServices(_ context.Context, s []store.Service) error {
	w.services = append(w.services, s...)
	return nil
}

func (w *fakeWriter) UpsertTickers(_ context.Context, t []store.Ticker) error {
	w.tickers = append(w.tickers, t...)
	return nil
}

func (w *fakeWriter) UpsertArticles(_ context.Context, a []store.Article) error {
	if w.err != nil {
		return w.err
	}
	w.articles = append(w.articles, a...)
	return nil
}

func TestRunCollectsFeedErrors(t *testing.T) {
	f := &fakeFetcher{
		batches: map[string]Batch{
			"good": {
				Articles: []store.Article{{URL: "u1", Ticker: "AAPL", ServiceID: 1}, {URL: "u1", Ticker: "FB", ServiceID: 1}},
				Tickers:  []store.Ticker{{Symbol: "AAPL"}, {Symbol: "FB"}},
			},
		},
		errs: map[string]error{"bad": errors.New("503")},
	}
	w := &fakeWriter{}
	im := New(f, w, Options{})

	services := []config.Service{
		{ID: 1, Name: "good", PrettyName: "Good", FeedURL: "https://example.com/good", Enabled: true},
		{ID: 2, Name: "bad", FeedURL: "https://example.com/bad", Enabled: true},
		{ID: 3, Name: "off", FeedURL: "https://example.com/off", Enabled: false},
		{ID: 4, Name: "manual", Enabled: true},
	}
	res, err := im.Run(context.Background(), services)
	if err != nil {
		t.Fatalf("run: %v", err)
	}
	if res.Articles != 2 || res.Tickers != 2 {
		t.Errorf("expected 2 articles and 2 tickers, got %+v", res)
	}
	if len(res.Errors) != 1 {
		t.Errorf("expected 1 feed error, got %d", len(res.Errors))
	}
	if len(w.services) != 4 {
		t.Errorf("expected every configured service registered, got %d", len(w.services))
	}
	if w.services[1].PrettyName != "bad" {
		t.Errorf("expected pretty name fallback, got %q", w.services[1].PrettyName)
	}
}

func TestRunReturnsStoreErrors(t *testing.T) {
	f := &fakeFetcher{batches: map[string]Batch{"good": {Articles: []store.Article{{URL: "u1", Ticker: "AAPL"}}}}}
	w := &fakeWriter{err: errors.New("disk full")}
	im := New(f, w, Options{RatePerSecond: 100, Timeout: time.Second})

	_, err := im.Run(context.Background(), []config.Service{{ID: 1, Name: "good", FeedURL: "https://example.com", Enabled: true}})
	if err == nil {
		t.Fatal("expected store error")
	}
}

func TestRunHonorsCancelledContext(t *testing.T) {
	f := &fakeFetcher{}
	im := New(f, &fakeWriter{}, Options{RatePerSecond: 0.001})
	// Drain the single burst token so the next wait blocks
	im.limiter.Allow()

	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	res, err := im.Run(ctx, []config.Service{{ID: 1, Name: "slow", FeedURL: "https://example.com", Enabled: true}})
	if err != nil {
		t.Fatalf("run: %v", err)
	}
	if len(res.Errors) != 1 {
		t.Errorf("expected the cancelled fetch to be reported, got %d errors", len(res.Errors))
	}
}
