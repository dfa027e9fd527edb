package tui

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/lipgloss"

	"github.com/ellenbowman/satellite-of-love/internal/listing"
)

func renderStatusBar(v *listing.View, serviceLabel string, width int, editing bool, refreshing bool) string {
	left := " no articles"
	if v != nil && v.Page.TotalItems > 0 {
		left = fmt.Sprintf(" %d articles · %d authors · page %d/%d",
			v.Overview.ArticleCount, v.Overview.AuthorCount, v.Page.Number, v.Page.TotalPages)
	}
	if v != nil && v.TickerDescription != "" {
		left += " · " + v.TickerDescription
	}
	if serviceLabel != "All" {
		left += " · " + serviceLabel
	}
	if v != nil && len(v.Unmatched) > 0 {
		left += " · " + unmatchedStyle.Render("not found: "+strings.Join(v.Unmatched, ", "))
	}

	right := " n/p page  / tickers  f services  d recap  q quit "

	if editing {
		right = " esc clear  enter apply "
	}
	if refreshing {
		left += " (importing...)"
	}

	gap := width - lipgloss.Width(left) - lipgloss.Width(right)
	if gap < 0 {
		gap = 0
	}

	bar := left + fmt.Sprintf("%*s", gap, "") + right

	return statusBarStyle.Width(width).Render(bar)
}

func renderBottomBar(hints string, width int) string {
	right := " " + hints + " "

	gap := width - lipgloss.Width(right)
	if gap < 0 {
		gap = 0
	}

	bar := fmt.Sprintf("%*s", gap, "") + right

	return statusBarStyle.Width(width).Render(bar)
}
