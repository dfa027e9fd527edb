package recap

import (
	"context"
	"fmt"
	"time"

	"github.com/ellenbowman/satellite-of-love/internal/analytics"
	"github.com/ellenbowman/satellite-of-love/internal/filter"
	"github.com/ellenbowman/satellite-of-love/internal/selection"
	"github.com/ellenbowman/satellite-of-love/internal/store"
)

// Recap is a rendered recap with the summary it was built from.
type Recap struct {
	Date    string            `json:"date"`
	Text    string            `json:"text"`
	Summary analytics.Summary `json:"summary"`
}

// Builder assembles recaps from the record store.
type Builder struct {
	sel  *selection.Selector
	topN int
	loc  *time.Location
}

func NewBuilder(sel *selection.Selector, topN int, loc *time.Location) *Builder {
	if loc == nil {
		loc = time.UTC
	}
	return &Builder{sel: sel, topN: topN, loc: loc}
}

// Build summarizes every article published on day's calendar date.
func (b *Builder) Build(ctx context.Context, day time.Time) (Recap, error) {
	start, end := DayBounds(day, b.loc)

	articles, err := b.sel.Coverage(ctx, filter.Criteria{}, store.QueryOpts{Since: start, Until: end})
	if err != nil {
		return Recap{}, fmt.Errorf("building recap for %s: %w", start.Format("2006-01-02"), err)
	}
	services, err := b.sel.Services(ctx)
	if err != nil {
		return Recap{}, fmt.Errorf("building recap for %s: %w", start.Format("2006-01-02"), err)
	}

	summary := analytics.Summarize(articles, services, b.topN)
	return Recap{
		Date:    start.Format("2006-01-02"),
		Text:    Format(start, summary),
		Summary: summary,
	}, nil
}

// Yesterday builds the recap for the day before now.
func (b *Builder) Yesterday(ctx context.Context, now time.Time) (Recap, error) {
	return b.Build(ctx, Yesterday(now, b.loc))
}

func (b *Builder) Location() *time.Location {
	return b.loc
}
