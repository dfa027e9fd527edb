package tui

import (
	"fmt"
	"strings"
	"time"

	"github.com/ellenbowman/satellite-of-love/internal/listing"
)

func relativeTime(t time.Time) string {
	d := time.Since(t)
	switch {
	case d < time.Minute:
		return "just now"
	case d < time.Hour:
		return fmt.Sprintf("%dm", int(d.Minutes()))
	case d < 24*time.Hour:
		return fmt.Sprintf("%dh", int(d.Hours()))
	case d < 7*24*time.Hour:
		return fmt.Sprintf("%dd", int(d.Hours()/24))
	default:
		return t.Format("Jan 2")
	}
}

func renderListItem(e listing.Entry, selected bool, width int) string {
	if width < 10 {
		width = 30
	}

	var title string
	if selected {
		title = itemSelectedStyle.Render("> " + truncateStr(e.Title, width-4))
	} else {
		title = itemTitleStyle.Render("  " + truncateStr(e.Title, width-4))
	}

	meta := "  " + itemTickerStyle.Render(e.Ticker) + " " +
		itemSourceStyle.Render(truncateStr(e.ServiceName, width/2)) + " " +
		itemTimeStyle.Render("· "+relativeTime(e.Published))

	return title + "\n" + meta
}

func truncateStr(s string, n int) string {
	if n <= 0 {
		return ""
	}
	runes := []rune(s)
	if len(runes) <= n {
		return s
	}
	if n <= 3 {
		return string(runes[:n])
	}
	return string(runes[:n-3]) + "..."
}

func renderList(entries []listing.Entry, cursor int, height int, width int) string {
	if len(entries) == 0 {
		return lipglossCenter("No articles found", width, height)
	}

	// Each item is 2 lines + 1 blank line = 3 lines
	itemHeight := 3
	visible := height / itemHeight
	if visible < 1 {
		visible = 1
	}

	start := 0
	if cursor >= visible {
		start = cursor - visible + 1
	}
	end := start + visible
	if end > len(entries) {
		end = len(entries)
		start = max(end-visible, 0)
	}

	var b strings.Builder
	for i := start; i < end; i++ {
		b.WriteString(renderListItem(entries[i], i == cursor, width))
		if i < end-1 {
			b.WriteString("\n")
		}
	}

	return b.String()
}

func lipglossCenter(s string, width, height int) string {
	return strings.Repeat("\n", height/3) + strings.Repeat(" ", max((width-len(s))/2, 0)) + s
}
