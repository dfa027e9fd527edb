package tui

import (
	"fmt"
	"strings"
	"time"

	"github.com/charmbracelet/lipgloss"

	"github.com/ellenbowman/satellite-of-love/internal/recap"
)

func renderRecapScreen(r *recap.Recap, width, height int) string {
	cardWidth := width - 8
	if cardWidth < 30 {
		cardWidth = 30
	}

	label := r.Date
	if d, err := time.Parse("2006-01-02", r.Date); err == nil {
		label = d.Format(recap.DateLayout)
	}

	s := r.Summary
	var body []string
	body = append(body, recapTitleStyle.Render("Articles recap · "+label))
	body = append(body, "")
	body = append(body, recapBodyStyle.Render(fmt.Sprintf("Articles published: %d", s.ArticleCount)))

	if s.ArticleCount > 0 {
		body = append(body, recapBodyStyle.Render(fmt.Sprintf("Tickers covered:    %d", s.UniqueTickerCount)))

		if len(s.MostCommonTickers) > 0 {
			parts := make([]string, len(s.MostCommonTickers))
			for i, tc := range s.MostCommonTickers {
				parts[i] = itemTickerStyle.Render(tc.Symbol) + recapMetaStyle.Render(fmt.Sprintf(" (%d)", tc.Count))
			}
			body = append(body, "")
			body = append(body, recapMetaStyle.Render("Most coverage"))
			body = append(body, wrapText(strings.Join(parts, "  "), cardWidth-2))
		}

		body = append(body, "")
		body = append(body, recapMetaStyle.Render("By service"))
		for _, sc := range s.PerService {
			line := fmt.Sprintf("  %s  %d", sc.PrettyName, sc.Count)
			body = append(body, recapBodyStyle.Render(line)+recapMetaStyle.Render("  "+truncateStr(strings.Join(sc.Tickers, ", "), cardWidth-lipgloss.Width(line)-4)))
		}
	}

	cardBox := lipgloss.NewStyle().
		Border(lipgloss.RoundedBorder()).
		BorderForeground(colorActiveBdr).
		Padding(0, 1).
		Width(cardWidth).
		Render(strings.Join(body, "\n"))

	var lines []string
	lines = append(lines, "")
	for _, l := range strings.Split(cardBox, "\n") {
		lines = append(lines, "  "+l)
	}

	content := strings.Join(lines, "\n")
	contentLines := strings.Count(content, "\n") + 1
	topPad := (height - contentLines) / 3
	if topPad < 0 {
		topPad = 0
	}

	return strings.Repeat("\n", topPad) + content
}
