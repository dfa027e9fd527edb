package tui

import (
	"strings"

	"github.com/charmbracelet/lipgloss"
)

var asciiLogo = []string{
	`  ___  __ _ | |_  ___ | || |(_)| |_  ___ `,
	` (_-< / _' ||  _|/ -_)| || || ||  _|/ -_)`,
	` /__/ \__,_| \__|\___||_||_||_| \__|\___|`,
}

func renderHomeScreen(width, height int, lastImport string) string {
	logoStyle := lipgloss.NewStyle().Foreground(colorAccent)
	keyStyle := lipgloss.NewStyle().Foreground(colorAccent).Bold(true)
	labelStyle := lipgloss.NewStyle().Foreground(colorText)

	var lines []string

	for _, l := range asciiLogo {
		lines = append(lines, logoStyle.Render(l))
	}
	lines = append(lines, "")
	lines = append(lines, "")

	lines = append(lines, "          "+keyStyle.Render("[a]")+"  "+labelStyle.Render("All articles"))
	lines = append(lines, "          "+keyStyle.Render("[d]")+"  "+labelStyle.Render("Yesterday's recap"))
	lines = append(lines, "")
	lines = append(lines, "          "+keyStyle.Render("[q]")+"  "+labelStyle.Render("Quit"))

	if lastImport != "" {
		lines = append(lines, "")
		lines = append(lines, "          "+helpDimStyle.Render("Last import: "+lastImport))
	}

	content := strings.Join(lines, "\n")
	contentHeight := strings.Count(content, "\n") + 1

	topPad := (height - contentHeight) / 3
	if topPad < 0 {
		topPad = 0
	}

	return lipgloss.Place(width, height, lipgloss.Center, lipgloss.Top,
		strings.Repeat("\n", topPad)+content)
}
