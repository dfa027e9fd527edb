// Package paginate slices ordered lists into fixed-size pages, correcting
// out-of-range page requests instead of failing.
package paginate

import (
	"errors"
	"math"
	"strconv"
	"strings"
)

var ErrInvalidPageSize = errors.New("page size must be positive")

type Page[T any] struct {
	Items      []T `json:"items"`
	Number     int `json:"page_number"`
	TotalPages int `json:"total_pages"`
	TotalItems int `json:"total_items"`
	PageSize   int `json:"page_size"`
}

func (p Page[T]) HasNext() bool     { return p.Number < p.TotalPages }
func (p Page[T]) HasPrevious() bool { return p.Number > 1 }

// ParsePage converts a raw page parameter. Missing, non-numeric and
// non-positive values all mean page 1. Numbers too large for an int become
// math.MaxInt so they clamp to the last page.
func ParsePage(raw string) int {
	raw = strings.TrimSpace(raw)
	n, err := strconv.Atoi(raw)
	if errors.Is(err, strconv.ErrRange) && !strings.HasPrefix(raw, "-") {
		return math.MaxInt
	}
	if err != nil || n < 1 {
		return 1
	}
	return n
}

// Paginate returns the requested page of items.
func Paginate[T any](items []T, pageSize int, requested string) (Page[T], error) {
	return At(items, pageSize, ParsePage(requested))
}

// At returns page n of items. Pages past the end clamp to the last page;
// pages below 1 become page 1.
func At[T any](items []T, pageSize, n int) (Page[T], error) {
	if pageSize <= 0 {
		return Page[T]{}, ErrInvalidPageSize
	}

	total := len(items)
	pages := (total + pageSize - 1) / pageSize

	if n < 1 {
		n = 1
	}
	if pages > 0 && n > pages {
		n = pages
	}
	if pages == 0 {
		return Page[T]{Items: []T{}, Number: 1, PageSize: pageSize}, nil
	}

	start := (n - 1) * pageSize
	end := min(start+pageSize, total)

	out := make([]T, end-start)
	copy(out, items[start:end])

	return Page[T]{
		Items:      out,
		Number:     n,
		TotalPages: pages,
		TotalItems: total,
		PageSize:   pageSize,
	}, nil
}
