// Package filter turns raw ticker and service input into Criteria.
package filter

import (
	"errors"
	"fmt"
	"sort"
	"strconv"
	"strings"

	"github.com/ellenbowman/satellite-of-love/internal/store"
)

// ErrInvalidFilterInput is returned for filter input that has no safe default,
// such as a service id that is not an integer.
var ErrInvalidFilterInput = errors.New("invalid filter input")

// Criteria is a resolved filter. An empty set places no constraint on its
// dimension.
type Criteria struct {
	TickerSymbols []string `json:"tickers"`
	ServiceIDs    []int    `json:"service_ids"`
}

// Resolve builds Criteria from comma-separated ticker text and a list of raw
// service ids.
func Resolve(tickerText string, serviceIDs []string) (Criteria, error) {
	ids, err := parseIDs(serviceIDs)
	if err != nil {
		return Criteria{}, err
	}
	return Criteria{
		TickerSymbols: ParseTickers(tickerText),
		ServiceIDs:    ids,
	}, nil
}

// ResolveQuery is Resolve with the service ids given as one comma-separated
// string.
func ResolveQuery(tickerText, serviceIDs string) (Criteria, error) {
	if strings.TrimSpace(serviceIDs) == "" {
		return Resolve(tickerText, nil)
	}
	return Resolve(tickerText, strings.Split(serviceIDs, ","))
}

// FromIDs is for callers that already hold validated service ids.
func FromIDs(tickerText string, ids []int) Criteria {
	return Criteria{
		TickerSymbols: ParseTickers(tickerText),
		ServiceIDs:    uniqueInts(ids),
	}
}

// ParseTickers splits on commas, trims, upper-cases and drops empty pieces.
// The result is sorted and free of duplicates.
func ParseTickers(text string) []string {
	seen := make(map[string]struct{})
	var symbols []string
	for _, piece := range strings.Split(text, ",") {
		sym := strings.ToUpper(strings.TrimSpace(piece))
		if sym == "" {
			continue
		}
		if _, ok := seen[sym]; ok {
			continue
		}
		seen[sym] = struct{}{}
		symbols = append(symbols, sym)
	}
	sort.Strings(symbols)
	return symbols
}

func parseIDs(raw []string) ([]int, error) {
	var ids []int
	for _, r := range raw {
		r = strings.TrimSpace(r)
		if r == "" {
			continue
		}
		id, err := strconv.Atoi(r)
		if err != nil {
			return nil, fmt.Errorf("%w: service id %q is not an integer", ErrInvalidFilterInput, r)
		}
		ids = append(ids, id)
	}
	return uniqueInts(ids), nil
}

func uniqueInts(in []int) []int {
	if len(in) == 0 {
		return nil
	}
	seen := make(map[int]struct{}, len(in))
	out := make([]int, 0, len(in))
	for _, v := range in {
		if _, ok := seen[v]; ok {
			continue
		}
		seen[v] = struct{}{}
		out = append(out, v)
	}
	sort.Ints(out)
	return out
}

// Empty reports whether neither dimension is constrained.
func (c Criteria) Empty() bool {
	return len(c.TickerSymbols) == 0 && len(c.ServiceIDs) == 0
}

// HasTicker reports whether sym passes the ticker dimension. Symbols compare
// case-insensitively, so Criteria built by hand need not be normalized.
func (c Criteria) HasTicker(sym string) bool {
	if len(c.TickerSymbols) == 0 {
		return true
	}
	sym = strings.TrimSpace(sym)
	for _, s := range c.TickerSymbols {
		if strings.EqualFold(strings.TrimSpace(s), sym) {
			return true
		}
	}
	return false
}

// HasService reports whether id passes the service dimension.
func (c Criteria) HasService(id int) bool {
	if len(c.ServiceIDs) == 0 {
		return true
	}
	for _, v := range c.ServiceIDs {
		if v == id {
			return true
		}
	}
	return false
}

// Match reports whether a passes both dimensions.
func (c Criteria) Match(a store.Article) bool {
	return c.HasTicker(a.Ticker) && c.HasService(a.ServiceID)
}

// TickerDescription is the comma-joined symbol list, or "" when unconstrained.
func TickerDescription(c Criteria) string {
	return strings.Join(c.TickerSymbols, ", ")
}

// ServiceDescription lists the pretty names of the selected services that
// exist in services, sorted.
func ServiceDescription(c Criteria, services []store.Service) string {
	var names []string
	for _, svc := range services {
		if len(c.ServiceIDs) > 0 && c.HasService(svc.ID) {
			names = append(names, svc.PrettyName)
		}
	}
	sort.Strings(names)
	return strings.Join(names, ", ")
}

// Unmatched returns the requested symbols that have no Ticker record in found.
func Unmatched(c Criteria, found []store.Ticker) []string {
	known := make(map[string]struct{}, len(found))
	for _, t := range found {
		known[strings.ToUpper(t.Symbol)] = struct{}{}
	}
	var missing []string
	for _, sym := range c.TickerSymbols {
		if _, ok := known[strings.ToUpper(strings.TrimSpace(sym))]; !ok {
			missing = append(missing, sym)
		}
	}
	return missing
}
