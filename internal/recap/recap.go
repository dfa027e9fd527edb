// Package recap builds the daily article recap text.
package recap

import (
	"fmt"
	"strings"
	"time"

	"github.com/ellenbowman/satellite-of-love/internal/analytics"
)

// DateLayout renders e.g. "Tue, May 12, 2015".
const DateLayout = "Mon, Jan 02, 2006"

const separator = "--------------"

// Format renders s as the recap message for date.
func Format(date time.Time, s analytics.Summary) string {
	lines := []string{
		fmt.Sprintf("*Articles recap for %s *", date.Format(DateLayout)),
		fmt.Sprintf("articles published: %d", s.ArticleCount),
	}

	if s.ArticleCount > 0 {
		lines = append(lines, fmt.Sprintf("```tickers covered: %d", s.UniqueTickerCount))

		if len(s.MostCommonTickers) > 0 {
			lines = append(lines, "tickers with the most coverage: "+FormatTickerCounts(s.MostCommonTickers))
		}

		var byService strings.Builder
		for _, sc := range s.PerService {
			fmt.Fprintf(&byService, "\n   - %s : %d (%s)", sc.PrettyName, sc.Count, strings.Join(sc.Tickers, ", "))
		}

		lines = append(lines,
			separator,
			"articles by service: "+byService.String(),
			"```",
		)
	}

	return strings.Join(lines, "\n")
}

// FormatTickerCounts renders a ranking as "AVAV (3), FB (2)".
func FormatTickerCounts(counts []analytics.TickerCount) string {
	parts := make([]string, len(counts))
	for i, tc := range counts {
		parts[i] = fmt.Sprintf("%s (%d)", tc.Symbol, tc.Count)
	}
	return strings.Join(parts, ", ")
}

// Yesterday returns midnight of the calendar day before now, in loc.
func Yesterday(now time.Time, loc *time.Location) time.Time {
	if loc == nil {
		loc = time.UTC
	}
	n := now.In(loc)
	return time.Date(n.Year(), n.Month(), n.Day()-1, 0, 0, 0, 0, loc)
}

// DayBounds returns [start, end) for the calendar day containing day, in loc.
func DayBounds(day time.Time, loc *time.Location) (time.Time, time.Time) {
	if loc == nil {
		loc = time.UTC
	}
	d := day.In(loc)
	start := time.Date(d.Year(), d.Month(), d.Day(), 0, 0, 0, 0, loc)
	return start, start.AddDate(0, 0, 1)
}

// ParseDate reads a YYYY-MM-DD date as midnight in loc.
func ParseDate(s string, loc *time.Location) (time.Time, error) {
	if loc == nil {
		loc = time.UTC
	}
	t, err := time.ParseInLocation("2006-01-02", strings.TrimSpace(s), loc)
	if err != nil {
		return time.Time{}, fmt.Errorf("parsing recap date %q (want YYYY-MM-DD): %w", s, err)
	}
	return t, nil
}
