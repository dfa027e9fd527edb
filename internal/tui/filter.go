package tui

import (
	"strings"

	"github.com/charmbracelet/lipgloss"

	"github.com/ellenbowman/satellite-of-love/internal/store"
)

type filterBar struct {
	services     []store.Service
	active       map[int]bool
	filterMode   bool
	filterCursor int
}

func newFilterBar(services []store.Service) filterBar {
	return filterBar{
		services: services,
		active:   make(map[int]bool),
	}
}

func (f *filterBar) toggle(id int) {
	if f.active[id] {
		delete(f.active, id)
	} else {
		f.active[id] = true
	}
}

func (f *filterBar) toggleCurrent() {
	if f.filterCursor < len(f.services) {
		f.toggle(f.services[f.filterCursor].ID)
	}
}

func (f *filterBar) activeIDs() []int {
	if len(f.active) == 0 {
		return nil // nil = all services
	}
	var out []int
	for _, s := range f.services {
		if f.active[s.ID] {
			out = append(out, s.ID)
		}
	}
	return out
}

func (f *filterBar) activeLabel() string {
	if len(f.active) == 0 {
		return "All"
	}
	var names []string
	for _, s := range f.services {
		if f.active[s.ID] {
			names = append(names, s.PrettyName)
		}
	}
	return strings.Join(names, ", ")
}

func (f *filterBar) render(width int) string {
	sep := tabSeparatorStyle.Render(" · ")
	var parts []string

	// "All" tab
	if len(f.active) == 0 {
		parts = append(parts, tabActiveStyle.Render("All"))
	} else {
		parts = append(parts, tabInactiveStyle.Render("All"))
	}

	for i, s := range f.services {
		style := tabInactiveStyle
		if f.active[s.ID] {
			style = tabActiveStyle
		}
		label := s.PrettyName
		if f.filterMode && i == f.filterCursor {
			label = "[" + label + "]"
		}
		parts = append(parts, style.Render(label))
	}

	// Build row with · separators, stopping when we'd exceed width
	var row string
	for i, part := range parts {
		candidate := row
		if i > 0 {
			candidate += sep
		}
		candidate += part
		if lipgloss.Width(candidate) > width && row != "" {
			break
		}
		row = candidate
	}

	barStyle := lipgloss.NewStyle().
		Background(colorSurface).
		Width(width).
		PaddingLeft(1)
	return barStyle.Render(row)
}
