package tui

import (
	"fmt"
	"strings"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/x/ansi"
	"github.com/marcus/wayfind/internal/mapview"
	"github.com/marcus/wayfind/internal/models"
	"github.com/marcus/wayfind/internal/output"
	"github.com/marcus/wayfind/internal/places"
	"github.com/marcus/wayfind/pkg/tui/keymap"
)

// visiblePlaces is the places list after filtering and sorting.
func (m Model) visiblePlaces() []models.Poi {
	return places.Filter(m.Pois, m.Query)
}

func (m *Model) clampPlacesCursor() {
	n := len(m.visiblePlaces())
	if m.PlacesCursor >= n {
		m.PlacesCursor = n - 1
	}
	if m.PlacesCursor < 0 {
		m.PlacesCursor = 0
	}
}

// nextCategory cycles "all" followed by every category present.
func (m Model) nextCategory() string {
	cycle := append([]string{places.AllCategories}, places.Categories(m.Pois)...)
	for i, c := range cycle {
		if c == m.Query.CategoryID {
			return cycle[(i+1)%len(cycle)]
		}
	}
	return places.AllCategories
}

func (m Model) placesCommand(cmd keymap.Command) (tea.Model, tea.Cmd) {
	visible := m.visiblePlaces()

	switch cmd {
	case keymap.CmdCursorDown:
		if m.PlacesCursor < len(visible)-1 {
			m.PlacesCursor++
		}
	case keymap.CmdCursorUp:
		if m.PlacesCursor > 0 {
			m.PlacesCursor--
		}
	case keymap.CmdCursorTop:
		m.PlacesCursor = 0
	case keymap.CmdCursorBottom:
		if len(visible) > 0 {
			m.PlacesCursor = len(visible) - 1
		}

	case keymap.CmdCycleCategory:
		m.Query.CategoryID = m.nextCategory()
		m.PlacesCursor = 0
	case keymap.CmdCycleSortMode:
		m.Query.Sort = m.Query.Sort.Next()
		m.PlacesCursor = 0

	case keymap.CmdSearch:
		m.SearchMode = true
		m.SearchInput.SetValue(m.Query.Search)
		m.SearchInput.CursorEnd()
		return m, m.SearchInput.Focus()
	case keymap.CmdSearchConfirm:
		m.SearchMode = false
		m.SearchInput.Blur()
		m.Query.Search = m.SearchInput.Value()
		m.clampPlacesCursor()
	case keymap.CmdSearchCancel:
		m.SearchMode = false
		m.SearchInput.Blur()
		m.SearchInput.Reset()
		m.Query.Search = ""
		m.clampPlacesCursor()

	case keymap.CmdRoute:
		route := places.RouteURL(visible)
		if route == "" {
			return m.setStatus("No place in this list has a location", true)
		}
		return m.setStatus(route, false)

	case keymap.CmdOpenOnMap:
		if m.PlacesCursor >= len(visible) {
			return m, nil
		}
		return m.navigate(mapview.Location(visible[m.PlacesCursor].ID))
	}
	return m, nil
}

func (m Model) viewPlaces() string {
	var sb strings.Builder
	sb.WriteString(titleStyle.Render("Places"))
	sb.WriteString("  ")
	sb.WriteString(subtleStyle.Render(fmt.Sprintf("category: %s  sort: %s", m.Query.CategoryID, m.Query.Sort)))
	sb.WriteString("\n")

	if m.SearchMode {
		sb.WriteString(m.SearchInput.View())
	} else if m.Query.Search != "" {
		sb.WriteString(subtleStyle.Render("search: " + m.Query.Search))
	}
	sb.WriteString("\n\n")

	if !m.PoisLoaded {
		sb.WriteString(m.Spinner.View() + " Loading places...")
		return sb.String()
	}

	visible := m.visiblePlaces()
	if len(visible) == 0 {
		sb.WriteString(subtleStyle.Render("No places match."))
		return sb.String()
	}

	mine := models.DecisionIDs(m.Mine)
	width := m.Width - 4
	for i, p := range visible {
		prefix := "  "
		if i == m.PlacesCursor {
			prefix = cursorStyle.Render("> ")
		}
		mark := " "
		if mine[p.ID] {
			mark = likeStyle.Render("♥")
		}
		line := ansi.Truncate(output.FormatPoiShort(p), width-4, "…")
		sb.WriteString(prefix + mark + " " + line + "\n")
	}
	return strings.TrimSuffix(sb.String(), "\n")
}
