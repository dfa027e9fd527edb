package store

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/jmoiron/sqlx"
	_ "modernc.org/sqlite"
)

// ErrNotFound is returned when a keyed lookup matches nothing.
var ErrNotFound = errors.New("not found")

type Store struct {
	readDB  *sqlx.DB
	writeDB *sqlx.DB
}

func Open(dbPath string) (*Store, error) {
	if err := os.MkdirAll(filepath.Dir(dbPath), 0o755); err != nil {
		return nil, fmt.Errorf("creating store dir: %w", err)
	}

	writeDB, err := sqlx.Open("sqlite", dbPath)
	if err != nil {
		return nil, fmt.Errorf("opening write db: %w", err)
	}
	writeDB.SetMaxOpenConns(1)

	s := &Store{writeDB: writeDB}
	// The schema has to exist before a read-only handle can see it.
	if err := s.init(); err != nil {
		s.Close()
		return nil, err
	}

	readDB, err := sqlx.Open("sqlite", "file:"+dbPath+"?mode=ro")
	if err != nil {
		s.Close()
		return nil, fmt.Errorf("opening read db: %w", err)
	}
	s.readDB = readDB
	return s, nil
}

func (s *Store) init() error {
	_, err := s.writeDB.Exec(`
		CREATE TABLE IF NOT EXISTS services (
			id          INTEGER PRIMARY KEY,
			name        TEXT NOT NULL,
			pretty_name TEXT NOT NULL,
			feed_url    TEXT NOT NULL DEFAULT ''
		);

		CREATE TABLE IF NOT EXISTS tickers (
			symbol          TEXT PRIMARY KEY,
			company_name    TEXT NOT NULL DEFAULT '',
			exchange_symbol TEXT NOT NULL DEFAULT '',
			instrument_id   INTEGER NOT NULL DEFAULT 0
		);

		CREATE TABLE IF NOT EXISTS articles (
			url        TEXT NOT NULL,
			ticker     TEXT NOT NULL,
			service_id INTEGER NOT NULL,
			title      TEXT NOT NULL DEFAULT '',
			author     TEXT NOT NULL DEFAULT '',
			published  INTEGER NOT NULL,
			fetched_at INTEGER NOT NULL,
			PRIMARY KEY (url, ticker)
		);
		CREATE INDEX IF NOT EXISTS idx_articles_published ON articles(published DESC);
		CREATE INDEX IF NOT EXISTS idx_articles_ticker ON articles(ticker);
		CREATE INDEX IF NOT EXISTS idx_articles_service ON articles(service_id);
		CREATE INDEX IF NOT EXISTS idx_articles_author ON articles(author);

		CREATE TABLE IF NOT EXISTS takes (
			scorecard  TEXT NOT NULL,
			ticker     TEXT NOT NULL,
			service_id INTEGER NOT NULL,
			action     TEXT NOT NULL DEFAULT '',
			is_core    INTEGER NOT NULL DEFAULT 0,
			is_first   INTEGER NOT NULL DEFAULT 0,
			is_newest  INTEGER NOT NULL DEFAULT 0,
			open_date  INTEGER NOT NULL,
			PRIMARY KEY (scorecard, ticker)
		);
		CREATE INDEX IF NOT EXISTS idx_takes_ticker ON takes(ticker);

		CREATE TABLE IF NOT EXISTS meta (
			key   TEXT PRIMARY KEY,
			value TEXT NOT NULL
		);
	`)
	if err != nil {
		return fmt.Errorf("initializing schema: %w", err)
	}
	return nil
}

func (s *Store) Close() error {
	var errs []error
	if s.readDB != nil {
		errs = append(errs, s.readDB.Close())
	}
	if s.writeDB != nil {
		errs = append(errs, s.writeDB.Close())
	}
	return errors.Join(errs...)
}

func (s *Store) UpsertServices(ctx context.Context, services []Service) error {
	tx, err := s.writeDB.BeginTxx(ctx, nil)
	if err != nil {
		return err
	}
	defer tx.Rollback()

	for _, svc := range services {
		_, err := tx.ExecContext(ctx, `
			INSERT INTO services (id, name, pretty_name, feed_url)
			VALUES (?, ?, ?, ?)
			ON CONFLICT(id) DO UPDATE SET
				name = excluded.name,
				pretty_name = excluded.pretty_name,
				feed_url = excluded.feed_url
		`, svc.ID, svc.Name, svc.PrettyName, svc.FeedURL)
		if err != nil {
			return fmt.Errorf("upserting service %d: %w", svc.ID, err)
		}
	}
	return tx.Commit()
}

func (s *Store) UpsertTickers(ctx context.Context, tickers []Ticker) error {
	tx, err := s.writeDB.BeginTxx(ctx, nil)
	if err != nil {
		return err
	}
	defer tx.Rollback()

	for _, t := range tickers {
		symbol := strings.ToUpper(strings.TrimSpace(t.Symbol))
		if symbol == "" {
			continue
		}
		// Known tickers keep their descriptive fields unless new ones are supplied.
		_, err := tx.ExecContext(ctx, `
			INSERT INTO tickers (symbol, company_name, exchange_symbol, instrument_id)
			VALUES (?, ?, ?, ?)
			ON CONFLICT(symbol) DO UPDATE SET
				company_name = CASE WHEN excluded.company_name != '' THEN excluded.company_name ELSE company_name END,
				exchange_symbol = CASE WHEN excluded.exchange_symbol != '' THEN excluded.exchange_symbol ELSE exchange_symbol END,
				instrument_id = CASE WHEN excluded.instrument_id != 0 THEN excluded.instrument_id ELSE instrument_id END
		`, symbol, t.CompanyName, t.ExchangeSymbol, t.InstrumentID)
		if err != nil {
			return fmt.Errorf("upserting ticker %s: %w", symbol, err)
		}
	}
	return tx.Commit()
}

func (s *Store) UpsertArticles(ctx context.Context, articles []Article) error {
	tx, err := s.writeDB.BeginTxx(ctx, nil)
	if err != nil {
		return err
	}
	defer tx.Rollback()

	stmt, err := tx.PrepareContext(ctx, `
		INSERT INTO articles (url, ticker, service_id, title, author, published, fetched_at)
		VALUES (?, ?, ?, ?, ?, ?, ?)
		ON CONFLICT(url, ticker) DO UPDATE SET
			title = excluded.title,
			author = excluded.author,
			service_id = excluded.service_id,
			fetched_at = excluded.fetched_at
	`)
	if err != nil {
		return err
	}
	defer stmt.Close()

	for _, a := range articles {
		ticker := strings.ToUpper(strings.TrimSpace(a.Ticker))
		_, err := stmt.ExecContext(ctx, a.URL, ticker, a.ServiceID, a.Title, a.Author,
			a.Published.UnixNano(), a.FetchedAt.UnixNano())
		if err != nil {
			return fmt.Errorf("upserting article %s (%s): %w", a.URL, ticker, err)
		}
	}

	return tx.Commit()
}

// ReplaceTakes swaps the open positions of one scorecard for takes. Positions
// missing from takes are closed and removed.
func (s *Store) ReplaceTakes(ctx context.Context, scorecard string, takes []Take) error {
	tx, err := s.writeDB.BeginTxx(ctx, nil)
	if err != nil {
		return err
	}
	defer tx.Rollback()

	if _, err := tx.ExecContext(ctx, `DELETE FROM takes WHERE scorecard = ?`, scorecard); err != nil {
		return fmt.Errorf("clearing takes for %s: %w", scorecard, err)
	}

	for _, t := range takes {
		ticker := strings.ToUpper(strings.TrimSpace(t.Ticker))
		if ticker == "" {
			continue
		}
		_, err := tx.ExecContext(ctx, `
			INSERT INTO takes (scorecard, ticker, service_id, action, is_core, is_first, is_newest, open_date)
			VALUES (?, ?, ?, ?, ?, ?, ?, ?)
			ON CONFLICT(scorecard, ticker) DO UPDATE SET
				action = excluded.action,
				is_core = excluded.is_core,
				is_first = excluded.is_first,
				is_newest = excluded.is_newest,
				open_date = excluded.open_date
		`, scorecard, ticker, t.ServiceID, t.Action, t.IsCore, t.IsFirst, t.IsNewest, t.OpenDate.UnixNano())
		if err != nil {
			return fmt.Errorf("upserting take %s/%s: %w", scorecard, ticker, err)
		}
	}
	return tx.Commit()
}

// Takes returns the open positions on symbols, by ticker and newest first.
func (s *Store) Takes(ctx context.Context, symbols []string) ([]Take, error) {
	if len(symbols) == 0 {
		return nil, nil
	}
	upper := make([]string, len(symbols))
	for i, sym := range symbols {
		upper[i] = strings.ToUpper(strings.TrimSpace(sym))
	}

	query, args, err := sqlx.In(`
		SELECT scorecard, ticker, service_id, action, is_core, is_first, is_newest, open_date
		FROM takes WHERE ticker IN (?)
		ORDER BY ticker, open_date DESC, scorecard
	`, upper)
	if err != nil {
		return nil, fmt.Errorf("expanding take query: %w", err)
	}

	var rows []takeRow
	if err := s.readDB.SelectContext(ctx, &rows, s.readDB.Rebind(query), args...); err != nil {
		return nil, fmt.Errorf("querying takes: %w", err)
	}
	takes := make([]Take, 0, len(rows))
	for _, r := range rows {
		takes = append(takes, r.take())
	}
	return takes, nil
}

// Articles returns articles matching opts, newest first. Rows published at the
// same instant come back in insertion order.
func (s *Store) Articles(ctx context.Context, opts QueryOpts) ([]Article, error) {
	var (
		where []string
		args  []interface{}
	)

	if !opts.Since.IsZero() {
		where = append(where, "published >= ?")
		args = append(args, opts.Since.UnixNano())
	}
	if !opts.Until.IsZero() {
		where = append(where, "published < ?")
		args = append(args, opts.Until.UnixNano())
	}
	if len(opts.Tickers) > 0 {
		symbols := make([]string, len(opts.Tickers))
		for i, t := range opts.Tickers {
			symbols[i] = strings.ToUpper(strings.TrimSpace(t))
		}
		where = append(where, "ticker IN (?)")
		args = append(args, symbols)
	}
	if len(opts.ServiceIDs) > 0 {
		where = append(where, "service_id IN (?)")
		args = append(args, opts.ServiceIDs)
	}
	if len(opts.Authors) > 0 {
		where = append(where, "author IN (?)")
		args = append(args, opts.Authors)
	}

	query := "SELECT url, title, author, ticker, service_id, published, fetched_at FROM articles"
	if len(where) > 0 {
		query += " WHERE " + strings.Join(where, " AND ")
	}
	query += " ORDER BY published DESC, rowid ASC"

	query, args, err := sqlx.In(query, args...)
	if err != nil {
		return nil, fmt.Errorf("expanding article query: %w", err)
	}

	var rows []articleRow
	if err := s.readDB.SelectContext(ctx, &rows, s.readDB.Rebind(query), args...); err != nil {
		return nil, fmt.Errorf("querying articles: %w", err)
	}

	articles := make([]Article, 0, len(rows))
	for _, r := range rows {
		articles = append(articles, r.article())
	}
	return articles, nil
}

// Services returns every service in pretty-name order.
func (s *Store) Services(ctx context.Context) ([]Service, error) {
	var services []Service
	err := s.readDB.SelectContext(ctx, &services, `
		SELECT id, name, pretty_name, feed_url
		FROM services ORDER BY pretty_name, id
	`)
	if err != nil {
		return nil, fmt.Errorf("querying services: %w", err)
	}
	return services, nil
}

// TickersBySymbols looks symbols up case-insensitively. Unknown symbols are
// simply absent from the result.
func (s *Store) TickersBySymbols(ctx context.Context, symbols []string) ([]Ticker, error) {
	if len(symbols) == 0 {
		return nil, nil
	}
	upper := make([]string, len(symbols))
	for i, sym := range symbols {
		upper[i] = strings.ToUpper(strings.TrimSpace(sym))
	}

	query, args, err := sqlx.In(`
		SELECT symbol, company_name, exchange_symbol, instrument_id
		FROM tickers WHERE symbol IN (?) ORDER BY symbol
	`, upper)
	if err != nil {
		return nil, fmt.Errorf("expanding ticker query: %w", err)
	}

	var tickers []Ticker
	if err := s.readDB.SelectContext(ctx, &tickers, s.readDB.Rebind(query), args...); err != nil {
		return nil, fmt.Errorf("querying tickers: %w", err)
	}
	return tickers, nil
}

// Prune deletes articles published before now-olderThan.
func (s *Store) Prune(ctx context.Context, olderThan time.Duration) (int64, error) {
	cutoff := time.Now().Add(-olderThan)
	res, err := s.writeDB.ExecContext(ctx, "DELETE FROM articles WHERE published < ?", cutoff.UnixNano())
	if err != nil {
		return 0, fmt.Errorf("pruning articles: %w", err)
	}
	n, err := res.RowsAffected()
	if err != nil {
		return 0, err
	}
	if n > 0 {
		if _, err := s.writeDB.ExecContext(ctx, "VACUUM"); err != nil {
			return n, fmt.Errorf("vacuuming: %w", err)
		}
	}
	return n, nil
}

// Stats reports the article row count and the database file size.
func (s *Store) Stats(dbPath string) (int, int64, error) {
	var count int
	if err := s.readDB.Get(&count, "SELECT COUNT(*) FROM articles"); err != nil {
		return 0, 0, fmt.Errorf("counting articles: %w", err)
	}
	info, err := os.Stat(dbPath)
	if err != nil {
		return count, 0, err
	}
	return count, info.Size(), nil
}

func (s *Store) NeedsRefresh(interval time.Duration) bool {
	t, err := s.LastRefresh()
	if err != nil {
		return true
	}
	return time.Since(t) > interval
}

func (s *Store) LastRefresh() (time.Time, error) {
	var value string
	err := s.readDB.Get(&value, "SELECT value FROM meta WHERE key = 'last_refresh'")
	if errors.Is(err, sql.ErrNoRows) {
		return time.Time{}, fmt.Errorf("last refresh: %w", ErrNotFound)
	}
	if err != nil {
		return time.Time{}, err
	}
	return time.Parse(time.RFC3339Nano, value)
}

func (s *Store) SetLastRefresh() error {
	return s.setMeta("last_refresh", time.Now().Format(time.RFC3339Nano))
}

func (s *Store) setMeta(key, value string) error {
	_, err := s.writeDB.Exec(`
		INSERT INTO meta (key, value) VALUES (?, ?)
		ON CONFLICT(key) DO UPDATE SET value = excluded.value
	`, key, value)
	return err
}
