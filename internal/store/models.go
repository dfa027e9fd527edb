package store

import "time"

// Article is one (url, ticker) coverage record. A syndicated article about
// two tickers is stored as two Articles sharing a URL.
type Article struct {
	URL       string    `json:"url"`
	Title     string    `json:"title"`
	Author    string    `json:"author"`
	Ticker    string    `json:"ticker"`
	ServiceID int       `json:"service_id"`
	Published time.Time `json:"date_published"`
	FetchedAt time.Time `json:"-"`
}

type Ticker struct {
	Symbol         string `db:"symbol" json:"symbol"`
	CompanyName    string `db:"company_name" json:"company_name,omitempty"`
	ExchangeSymbol string `db:"exchange_symbol" json:"exchange_symbol,omitempty"`
	InstrumentID   int64  `db:"instrument_id" json:"instrument_id,omitempty"`
}

type Service struct {
	ID         int    `db:"id" json:"id"`
	Name       string `db:"name" json:"name"`
	PrettyName string `db:"pretty_name" json:"pretty_name"`
	FeedURL    string `db:"feed_url" json:"-"`
}

// Take is a service's open position on a ticker, as listed on one of its
// scorecards.
type Take struct {
	Scorecard string    `json:"scorecard"`
	Ticker    string    `json:"ticker"`
	ServiceID int       `json:"service_id"`
	Action    string    `json:"action"`
	IsCore    bool      `json:"is_core"`
	IsFirst   bool      `json:"is_first"`
	IsNewest  bool      `json:"is_newest"`
	OpenDate  time.Time `json:"open_date"`
}

// QueryOpts narrows an article read. Zero values mean "no constraint".
type QueryOpts struct {
	Since      time.Time
	Until      time.Time // exclusive
	Tickers    []string
	ServiceIDs []int
	Authors    []string
}

type articleRow struct {
	URL       string `db:"url"`
	Title     string `db:"title"`
	Author    string `db:"author"`
	Ticker    string `db:"ticker"`
	ServiceID int    `db:"service_id"`
	Published int64  `db:"published"`
	FetchedAt int64  `db:"fetched_at"`
}

func (r articleRow) article() Article {
	return Article{
		URL:       r.URL,
		Title:     r.Title,
		Author:    r.Author,
		Ticker:    r.Ticker,
		ServiceID: r.ServiceID,
		Published: time.Unix(0, r.Published).UTC(),
		FetchedAt: time.Unix(0, r.FetchedAt).UTC(),
	}
}

type takeRow struct {
	Scorecard string `db:"scorecard"`
	Ticker    string `db:"ticker"`
	ServiceID int    `db:"service_id"`
	Action    string `db:"action"`
	IsCore    bool   `db:"is_core"`
	IsFirst   bool   `db:"is_first"`
	IsNewest  bool   `db:"is_newest"`
	OpenDate  int64  `db:"open_date"`
}

func (r takeRow) take() Take {
	return Take{
		Scorecard: r.Scorecard,
		Ticker:    r.Ticker,
		ServiceID: r.ServiceID,
		Action:    r.Action,
		IsCore:    r.IsCore,
		IsFirst:   r.IsFirst,
		IsNewest:  r.IsNewest,
		OpenDate:  time.Unix(0, r.OpenDate).UTC(),
	}
}
