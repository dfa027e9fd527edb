package importer

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"

	"github.com/ellenbowman/satellite-of-love/internal/config"
	"github.com/ellenbowman/satellite-of-love/internal/logger"
	"github.com/ellenbowman/satellite-of-love/internal/metrics"
	"github.com/ellenbowman/satellite-of-love/internal/store"
)

// TakeBatch is what one scorecard yielded.
type TakeBatch struct {
	Takes   []store.Take
	Tickers []store.Ticker
}

type TakeFetcher interface {
	FetchTakes(ctx context.Context, sc config.Scorecard) (TakeBatch, error)
}

// ScorecardFetcher reads open positions from the scorecard API.
type ScorecardFetcher struct {
	baseURL string
	client  *http.Client
}

func NewScorecardFetcher(baseURL string) *ScorecardFetcher {
	if baseURL != "" && !strings.HasSuffix(baseURL, "/") {
		baseURL += "/"
	}
	return &ScorecardFetcher{baseURL: baseURL, client: &http.Client{Timeout: 30 * time.Second}}
}

type scorecardResponse struct {
	OpenPositions []openPosition `json:"OpenPositions"`
}

type openPosition struct {
	TickerSymbol           string `json:"TickerSymbol"`
	UnderlyingTickerSymbol string `json:"UnderlyingTickerSymbol"`
	InstrumentID           int64  `json:"InstrumentId"`
	ExchangeSymbol         string `json:"ExchangeSymbol"`
	CompanyName            string `json:"CompanyName"`
	IsCore                 bool   `json:"IsCore"`
	IsFirst                bool   `json:"IsFirst"`
	IsNewest               bool   `json:"IsNewest"`
	Action                 string `json:"Action"`
	OpenDate               string `json:"OpenDate"`
}

func (f *ScorecardFetcher) FetchTakes(ctx context.Context, sc config.Scorecard) (TakeBatch, error) {
	if f.baseURL == "" {
		return TakeBatch{}, fmt.Errorf("scorecard %s: no scorecard_url configured", sc.Name)
	}
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, f.baseURL+sc.Name, nil)
	if err != nil {
		return TakeBatch{}, fmt.Errorf("creating request for %s: %w", sc.Name, err)
	}
	req.Header.Set("Accept", "application/json")

	resp, err := f.client.Do(req)
	if err != nil {
		return TakeBatch{}, fmt.Errorf("fetching scorecard %s: %w", sc.Name, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		b, _ := io.ReadAll(io.LimitReader(resp.Body, 512))
		return TakeBatch{}, fmt.Errorf("scorecard %s: status %d: %s", sc.Name, resp.StatusCode, string(b))
	}

	var body scorecardResponse
	if err := json.NewDecoder(resp.Body).Decode(&body); err != nil {
		return TakeBatch{}, fmt.Errorf("decoding scorecard %s: %w", sc.Name, err)
	}
	return takeBatch(body.OpenPositions, sc)
}

// takeBatch converts positions into takes. The underlying symbol wins over the
// listed one, so options positions count toward their stock.
func takeBatch(positions []openPosition, sc config.Scorecard) (TakeBatch, error) {
	var b TakeBatch
	seen := make(map[string]struct{})
	for _, p := range positions {
		symbol := strings.ToUpper(strings.TrimSpace(p.UnderlyingTickerSymbol))
		if symbol == "" {
			symbol = strings.ToUpper(strings.TrimSpace(p.TickerSymbol))
		}
		if symbol == "" {
			continue
		}

		opened, err := parseOpenDate(p.OpenDate)
		if err != nil {
			return TakeBatch{}, fmt.Errorf("scorecard %s, %s: %w", sc.Name, symbol, err)
		}

		b.Takes = append(b.Takes, store.Take{
			Scorecard: sc.Name,
			Ticker:    symbol,
			ServiceID: sc.ServiceID,
			Action:    p.Action,
			IsCore:    p.IsCore,
			IsFirst:   p.IsFirst,
			IsNewest:  p.IsNewest,
			OpenDate:  opened,
		})
		if _, ok := seen[symbol]; !ok {
			seen[symbol] = struct{}{}
			b.Tickers = append(b.Tickers, store.Ticker{
				Symbol:         symbol,
				CompanyName:    strings.TrimSpace(p.CompanyName),
				ExchangeSymbol: strings.TrimSpace(p.ExchangeSymbol),
				InstrumentID:   p.InstrumentID,
			})
		}
	}
	return b, nil
}

// parseOpenDate keeps the date part of "2014-03-04T00:00:00".
func parseOpenDate(s string) (time.Time, error) {
	day, _, _ := strings.Cut(strings.TrimSpace(s), "T")
	t, err := time.Parse("2006-01-02", day)
	if err != nil {
		return time.Time{}, fmt.Errorf("invalid open date %q", s)
	}
	return t, nil
}

// TakeWriter is the write side used for scorecard imports.
type TakeWriter interface {
	UpsertTickers(ctx context.Context, tickers []store.Ticker) error
	ReplaceTakes(ctx context.Context, scorecard string, takes []store.Take) error
}

type TakeResult struct {
	Takes   int
	Tickers int
	Errors  []error
}

// ImportTakes refreshes the open positions of every scorecard. A failing
// scorecard keeps its previous takes and is reported in TakeResult.Errors.
func (im *Importer) ImportTakes(ctx context.Context, f TakeFetcher, w TakeWriter, scorecards []config.Scorecard) (TakeResult, error) {
	var res TakeResult
	for _, sc := range scorecards {
		if err := im.limiter.Wait(ctx); err != nil {
			return res, fmt.Errorf("waiting to fetch %s: %w", sc.Name, err)
		}

		fetchCtx, cancel := ctx, context.CancelFunc(func() {})
		if im.timeout > 0 {
			fetchCtx, cancel = context.WithTimeout(ctx, im.timeout)
		}
		batch, err := f.FetchTakes(fetchCtx, sc)
		cancel()
		if err != nil {
			metrics.RecordFeedError(sc.Name)
			im.log.Warn("scorecard failed", logger.String("scorecard", sc.Name), logger.Error(err))
			res.Errors = append(res.Errors, err)
			continue
		}

		if err := w.UpsertTickers(ctx, batch.Tickers); err != nil {
			return res, fmt.Errorf("storing tickers for %s: %w", sc.Name, err)
		}
		if err := w.ReplaceTakes(ctx, sc.Name, batch.Takes); err != nil {
			return res, fmt.Errorf("storing takes for %s: %w", sc.Name, err)
		}
		im.log.Debug("scorecard imported", logger.String("scorecard", sc.Name), logger.Int("takes", len(batch.Takes)))
		res.Takes += len(batch.Takes)
		res.Tickers += len(batch.Tickers)
	}
	return res, nil
}
