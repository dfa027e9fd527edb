package importer

import (
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/ellenbowman/satellite-of-love/internal/config"
	"github.com/ellenbowman/satellite-of-love/internal/store"
)

const sampleScorecard = `{
  "OpenPositions": [
    {"TickerSymbol": "AAPL", "UnderlyingTickerSymbol": "", "InstrumentId": 203619, "ExchangeSymbol": "NASDAQ",
     "CompanyName": "Apple Inc.", "IsCore": true, "IsFirst": false, "IsNewest": false, "Action": "Buy",
     "OpenDate": "2014-03-04T00:00:00"},
    {"TickerSymbol": "AAPL150117C00100000", "UnderlyingTickerSymbol": "aapl", "InstrumentId": 203619,
     "ExchangeSymbol": "NASDAQ", "CompanyName": "Apple Inc.", "Action": "Buy Calls",
     "OpenDate": "2015-01-02T00:00:00"},
    {"TickerSymbol": "FB", "InstrumentId": 9, "ExchangeSymbol": "NASDAQ", "CompanyName": "Facebook",
     "IsNewest": true, "Action": "Buy", "OpenDate": "2015-05-01T10:11:12"},
    {"TickerSymbol": "", "UnderlyingTickerSymbol": "", "OpenDate": "2015-05-01T00:00:00"}
  ]
}`

func TestScorecardFetcher(t *testing.T) {
	var gotPath string
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		gotPath = r.URL.Path
		w.Header().Set("Content-Type", "application/json")
		w.Write([]byte(sampleScorecard))
	}))
	defer srv.Close()

	f := NewScorecardFetcher(srv.URL + "/scorecards")
	b, err := f.FetchTakes(context.Background(), config.Scorecard{Name: "usmf", ServiceID: 1})
	if err != nil {
		t.Fatalf("fetch: %v", err)
	}
	if gotPath != "/scorecards/usmf" {
		t.Errorf("expected /scorecards/usmf, got %s", gotPath)
	}
	if len(b.Takes) != 3 {
		t.Fatalf("expected 3 takes, got %d: %+v", len(b.Takes), b.Takes)
	}
	first := b.Takes[0]
	if first.Ticker != "AAPL" || !first.IsCore || first.Action != "Buy" || first.ServiceID != 1 || first.Scorecard != "usmf" {
		t.Errorf("unexpected first take %+v", first)
	}
	if want := time.Date(2014, 3, 4, 0, 0, 0, 0, time.UTC); !first.OpenDate.Equal(want) {
		t.Errorf("expected open date %v, got %v", want, first.OpenDate)
	}
	// Options positions count toward the underlying stock
	if b.Takes[1].Ticker != "AAPL" || b.Takes[1].Action != "Buy Calls" {
		t.Errorf("expected underlying AAPL take, got %+v", b.Takes[1])
	}
	if !b.Takes[2].IsNewest {
		t.Errorf("expected FB to be newest, got %+v", b.Takes[2])
	}
	if len(b.Tickers) != 2 {
		t.Fatalf("expected 2 distinct tickers, got %+v", b.Tickers)
	}
	if b.Tickers[0].CompanyName != "Apple Inc." || b.Tickers[0].InstrumentID != 203619 {
		t.Errorf("unexpected ticker %+v", b.Tickers[0])
	}
}

func TestScorecardFetcherErrors(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		switch r.URL.Path {
		case "/missing":
			http.Error(w, "no such scorecard", http.StatusNotFound)
		case "/baddate":
			w.Write([]byte(`{"OpenPositions":[{"TickerSymbol":"FB","OpenDate":"last tuesday"}]}`))
		default:
			w.Write([]byte(`not json`))
		}
	}))
	defer srv.Close()

	f := NewScorecardFetcher(srv.URL)
	for _, name := range []string{"missing", "baddate", "garbage"} {
		if _, err := f.FetchTakes(context.Background(), config.Scorecard{Name: name}); err == nil {
			t.Errorf("expected an error for %s", name)
		}
	}
	if _, err := NewScorecardFetcher("").FetchTakes(context.Background(), config.Scorecard{Name: "usmf"}); err == nil {
		t.Error("expected an error without a scorecard url")
	}
}

type fakeTakeFetcher struct {
	batches map[string]TakeBatch
	errs    map[string]error
}

func (f *fakeTakeFetcher) FetchTakes(_ context.Context, sc config.Scorecard) (TakeBatch, error) {
	if err := f.errs[sc.Name]; err != nil {
		return TakeBatch{}, err
	}
	return f.batches[sc.Name], nil
}

type fakeTakeWriter struct {
	fakeWriter
	takes map[string][]store.Take
}

func (w *fakeTakeWriter) ReplaceTakes(_ context.Context, scorecard string, takes []store.Take) error {
	if w.err != nil {
		return w.err
	}
	if w.takes == nil {
		w.takes = make(map[string][]store.Take)
	}
	w.takes[scorecard] = takes
	return nil
}

func TestImportTakes(t *testing.T) {
	f := &fakeTakeFetcher{
		batches: map[string]TakeBatch{
			"usmf": {
				Takes:   []store.Take{{Scorecard: "usmf", Ticker: "AAPL"}, {Scorecard: "usmf", Ticker: "FB"}},
				Tickers: []store.Ticker{{Symbol: "AAPL"}, {Symbol: "FB"}},
			},
		},
		errs: map[string]error{"hg": errors.New("503")},
	}
	w := &fakeTakeWriter{}
	im := New(&fakeFetcher{}, w, Options{})

	res, err := im.ImportTakes(context.Background(), f, w, []config.Scorecard{
		{Name: "usmf", ServiceID: 1},
		{Name: "hg", ServiceID: 2},
	})
	if err != nil {
		t.Fatalf("import takes: %v", err)
	}
	if res.Takes != 2 || res.Tickers != 2 || len(res.Errors) != 1 {
		t.Errorf("unexpected result %+v", res)
	}
	if len(w.takes["usmf"]) != 2 {
		t.Errorf("expected usmf takes replaced, got %+v", w.takes)
	}
	if _, touched := w.takes["hg"]; touched {
		t.Error("a failed scorecard should keep its previous takes")
	}
	if len(w.tickers) != 2 {
		t.Errorf("expected tickers upserted, got %+v", w.tickers)
	}
}

func TestImportTakesReturnsStoreErrors(t *testing.T) {
	f := &fakeTakeFetcher{batches: map[string]TakeBatch{"usmf": {Takes: []store.Take{{Ticker: "AAPL"}}}}}
	w := &fakeTakeWriter{fakeWriter: fakeWriter{err: errors.New("disk full")}}
	im := New(&fakeFetcher{}, w, Options{Timeout: time.Second})

	if _, err := im.ImportTakes(context.Background(), f, w, []config.Scorecard{{Name: "usmf", ServiceID: 1}}); err == nil {
		t.Fatal("expected store error")
	}
}
