package tui

import (
	"fmt"
	"strings"
	"time"

	"github.com/charmbracelet/lipgloss"

	"github.com/ellenbowman/satellite-of-love/internal/analytics"
	"github.com/ellenbowman/satellite-of-love/internal/listing"
)

func renderPreview(e *listing.Entry, window time.Duration, width, height, scroll int) string {
	if e == nil {
		return lipglossCenter("Select an article", width, height)
	}

	contentWidth := width - 2
	if contentWidth < 10 {
		contentWidth = 10
	}

	title := previewTitleStyle.Width(contentWidth).Render(e.Title)
	source := previewSourceStyle.Render(
		fmt.Sprintf("%s · %s · %s", e.Ticker, e.ServiceName, e.Published.Format("Jan 2, 2006")),
	)

	author := e.Author
	if author == "" {
		author = "(unknown author)"
	}
	byline := previewBodyStyle.Render("By " + author)
	stats := previewBodyStyle.Width(contentWidth).Render(wrapText(authorSummary(e.AuthorStats, window), contentWidth))
	link := previewLinkStyle.Width(contentWidth).Render("Read more: " + e.URL)

	content := lipgloss.JoinVertical(lipgloss.Left, title, source, byline, "", stats, "", link)

	lines := strings.Split(content, "\n")
	if scroll > 0 && scroll < len(lines) {
		lines = lines[scroll:]
	}

	if len(lines) < height {
		lines = append(lines, make([]string, height-len(lines))...)
	} else if len(lines) > height {
		lines = lines[:height]
	}

	return strings.Join(lines, "\n")
}

// authorSummary renders e.g. "12 articles across Hidden Gems, Stock Advisor. 3 in the last 10 days."
func authorSummary(p analytics.AuthorProfile, window time.Duration) string {
	if p.ArticleCount == 0 {
		return "No other articles by this author."
	}
	noun := "articles"
	if p.ArticleCount == 1 {
		noun = "article"
	}
	s := fmt.Sprintf("%d %s", p.ArticleCount, noun)
	if len(p.Services) > 0 {
		s += " across " + strings.Join(p.Services, ", ")
	}
	days := int(window.Hours() / 24)
	return s + fmt.Sprintf(". %d in the last %d days.", p.RecentCount, days)
}

func wrapText(s string, width int) string {
	if width <= 0 {
		return s
	}
	words := strings.Fields(s)
	if len(words) == 0 {
		return ""
	}

	var lines []string
	line := words[0]
	for _, w := range words[1:] {
		if len(line)+1+len(w) > width {
			lines = append(lines, line)
			line = w
		} else {
			line += " " + w
		}
	}
	lines = append(lines, line)
	return strings.Join(lines, "\n")
}
