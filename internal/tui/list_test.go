package tui

import (
	"strings"
	"testing"
	"time"

	"github.com/ellenbowman/satellite-of-love/internal/analytics"
	"github.com/ellenbowman/satellite-of-love/internal/listing"
	"github.com/ellenbowman/satellite-of-love/internal/store"
)

func TestTruncateStr(t *testing.T) {
	tests := []struct {
		input string
		n     int
		want  string
	}{
		{"hello", 10, "hello"},
		{"hello world", 8, "hello..."},
		{"abc", 3, "abc"},
		{"abcd", 3, "abc"},
		{"", 5, ""},
		{"test", 0, ""},
	}
	for _, tt := range tests {
		got := truncateStr(tt.input, tt.n)
		if got != tt.want {
			t.Errorf("truncateStr(%q, %d) = %q, want %q", tt.input, tt.n, got, tt.want)
		}
	}
}

func TestTruncateStrUTF8(t *testing.T) {
	got := truncateStr("日本語テスト", 5)
	want := "日本..."
	if got != want {
		t.Errorf("truncateStr(Japanese, 5) = %q, want %q", got, want)
	}
}

func TestRelativeTime(t *testing.T) {
	now := time.Now()

	tests := []struct {
		t    time.Time
		want string
	}{
		{now.Add(-30 * time.Second), "just now"},
		{now.Add(-5 * time.Minute), "5m"},
		{now.Add(-3 * time.Hour), "3h"},
		{now.Add(-2 * 24 * time.Hour), "2d"},
	}
	for _, tt := range tests {
		got := relativeTime(tt.t)
		if got != tt.want {
			t.Errorf("relativeTime(%v ago) = %q, want %q", now.Sub(tt.t), got, tt.want)
		}
	}
}

func TestRelativeTimeOld(t *testing.T) {
	old := time.Date(2015, 5, 12, 0, 0, 0, 0, time.UTC)
	got := relativeTime(old)
	if got != "May 12" {
		t.Errorf("relativeTime(old date) = %q, want %q", got, "May 12")
	}
}

func TestRenderListEmpty(t *testing.T) {
	got := renderList(nil, 0, 10, 40)
	if !strings.Contains(got, "No articles found") {
		t.Errorf("expected empty-state message, got %q", got)
	}
}

func TestRenderListItem(t *testing.T) {
	e := listing.Entry{
		Article:     store.Article{Title: "Why Apple Moved", Ticker: "AAPL", Published: time.Now().Add(-2 * time.Hour)},
		ServiceName: "Stock Advisor",
	}
	got := renderListItem(e, true, 40)
	for _, want := range []string{"> Why Apple Moved", "AAPL", "Stock Advisor", "2h"} {
		if !strings.Contains(got, want) {
			t.Errorf("expected %q in list item %q", want, got)
		}
	}
}

func TestAuthorSummary(t *testing.T) {
	tests := []struct {
		p    analytics.AuthorProfile
		want string
	}{
		{analytics.AuthorProfile{}, "No other articles by this author."},
		{
			analytics.AuthorProfile{ArticleCount: 1, Services: []string{"Hidden Gems"}, RecentCount: 1},
			"1 article across Hidden Gems. 1 in the last 10 days.",
		},
		{
			analytics.AuthorProfile{ArticleCount: 12, Services: []string{"Hidden Gems", "Stock Advisor"}, RecentCount: 3},
			"12 articles across Hidden Gems, Stock Advisor. 3 in the last 10 days.",
		},
	}
	for _, tt := range tests {
		got := authorSummary(tt.p, 10*24*time.Hour)
		if got != tt.want {
			t.Errorf("authorSummary(%+v) = %q, want %q", tt.p, got, tt.want)
		}
	}
}

func TestWrapText(t *testing.T) {
	got := wrapText("one two three four", 9)
	if got != "one two\nthree\nfour" {
		t.Errorf("unexpected wrap: %q", got)
	}
}
