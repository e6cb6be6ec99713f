package tui

import (
	"fmt"
	"strings"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
	"github.com/charmbracelet/x/ansi"
	"github.com/marcus/wayfind/internal/gate"
	"github.com/marcus/wayfind/internal/mapview"
	"github.com/marcus/wayfind/internal/output"
	"github.com/marcus/wayfind/pkg/tui/keymap"
)

// syncMap feeds the deep-link poiId to the coordinator and refreshes the
// detail panel if anything changed.
func (m *Model) syncMap() {
	if m.Map.SyncURL(m.mapPoiID) {
		m.logger.Debug("tui: map synced to location", "poi", m.mapPoiID, "state", m.Map.State().PanelMode)
	}
	m.refreshDetail(false)
}

// refreshDetail re-renders the detail viewport when the shown POI changed,
// or always when force is set.
func (m *Model) refreshDetail(force bool) {
	p, ok := m.Map.Selected()
	if !ok {
		m.detailID = ""
		return
	}
	if p.ID == m.detailID && !force {
		return
	}
	m.detailID = p.ID
	m.Detail.SetContent(output.FormatPoiLong(p, m.Detail.Width))
	m.Detail.GotoTop()

	pois := m.Map.Pois()
	m.Neighbors.SetTotal(len(pois))
	for i, q := range pois {
		if q.ID == p.ID {
			m.Neighbors.GoTo(i)
			m.MapCursor = i
			break
		}
	}
}

func (m Model) mapListWidth() int {
	w := m.Width / 3
	if w < 24 {
		w = 24
	}
	return w
}

// resizeDetail fits the detail viewport into the right-hand panel.
func (m *Model) resizeDetail() {
	w := m.Width - m.mapListWidth() - 8
	if w < 20 {
		w = 20
	}
	h := m.Height - 8
	if h < 5 {
		h = 5
	}
	m.Detail.Width = w
	m.Detail.Height = h
	m.refreshDetail(true)
}

func (m Model) mapCommand(cmd keymap.Command) (tea.Model, tea.Cmd) {
	pois := m.Map.Pois()

	switch cmd {
	case keymap.CmdCursorDown:
		if m.MapCursor < len(pois)-1 {
			m.MapCursor++
		}
	case keymap.CmdCursorUp:
		if m.MapCursor > 0 {
			m.MapCursor--
		}
	case keymap.CmdCursorTop:
		m.MapCursor = 0
	case keymap.CmdCursorBottom:
		if len(pois) > 0 {
			m.MapCursor = len(pois) - 1
		}

	case keymap.CmdHalfPageDown:
		m.Detail.SetYOffset(m.Detail.YOffset + m.Detail.Height/2)
	case keymap.CmdHalfPageUp:
		m.Detail.SetYOffset(m.Detail.YOffset - m.Detail.Height/2)

	case keymap.CmdSelect:
		if m.MapCursor >= len(pois) {
			return m, nil
		}
		if err := m.Map.Select(pois[m.MapCursor].ID); err != nil {
			return m.setStatus(err.Error(), true)
		}
		m.refreshDetail(false)

	case keymap.CmdShowAll:
		m.Map.ShowAll()
		m.refreshDetail(false)

	case keymap.CmdExpandPreview:
		if m.Map.ExpandPreview() {
			m.refreshDetail(false)
		}

	case keymap.CmdClose:
		if _, ok := m.Map.Preview(); ok {
			m.Map.ClosePreview()
		} else {
			m.Map.Close()
		}
		// Dismissing drops the deep link so the same poiId can open again.
		m.mapPoiID = ""
		m.Path = gate.PathMap
		m.syncMap()

	case keymap.CmdSlidePrev, keymap.CmdSlideNext:
		if m.Map.State().PanelMode != mapview.DetailView || len(pois) == 0 {
			return m, nil
		}
		if cmd == keymap.CmdSlidePrev {
			m.Neighbors.Previous()
		} else {
			m.Neighbors.Next()
		}
		if err := m.Map.Select(pois[m.Neighbors.Index()].ID); err == nil {
			m.refreshDetail(false)
		}
	}
	return m, nil
}

func (m Model) viewMap() string {
	if !m.PoisLoaded {
		return titleStyle.Render("Map") + "\n\n" + m.Spinner.View() + " Loading places..."
	}

	listWidth := m.mapListWidth()
	pois := m.Map.Pois()
	var rows []string
	for i, p := range pois {
		badge := output.MarkerBadge(m.Map.MarkerState(p.ID))
		name := ansi.Truncate(p.Name, listWidth-ansi.StringWidth(badge)-5, "…")
		row := badge + " " + name
		if i == m.MapCursor {
			row = cursorStyle.Render("> ") + row
		} else {
			row = "  " + row
		}
		rows = append(rows, row)
	}
	if len(rows) == 0 {
		rows = append(rows, subtleStyle.Render("No places loaded."))
	}
	list := panelStyle.Width(listWidth).Render(titleStyle.Render("Places") + "\n" + strings.Join(rows, "\n"))

	return lipgloss.JoinHorizontal(lipgloss.Top, list, " ", m.viewMapPanel())
}

func (m Model) viewMapPanel() string {
	state := m.Map.State()
	width := m.Detail.Width + 2

	if p, ok := m.Map.Preview(); ok && state.PanelMode != mapview.DetailView {
		body := titleStyle.Render(p.Name)
		if p.ShortDesc != "" {
			body += "\n" + output.WrapText(p.ShortDesc, m.Detail.Width)
		}
		body += "\n\n" + helpStyle.Render("e expand  esc dismiss")
		return activePanelStyle.Width(width).Render(body)
	}

	switch state.PanelMode {
	case mapview.DetailView:
		footer := helpStyle.Render(fmt.Sprintf("[ ] neighbours  %d/%d  esc close", m.Neighbors.Index()+1, m.Neighbors.Total()))
		return activePanelStyle.Width(width).Render(m.Detail.View() + "\n" + footer)

	case mapview.ListView:
		var lines []string
		for _, p := range m.Map.Pois() {
			line := ansi.Truncate(p.Name, m.Detail.Width-10, "…")
			if pop := output.FormatPopularity(p.Popularity); pop != "" {
				line += "  " + badgeStyle.Render(pop)
			}
			lines = append(lines, line)
		}
		return activePanelStyle.Width(width).Render(titleStyle.Render("All places") + "\n" + strings.Join(lines, "\n"))
	}

	return panelStyle.Width(width).Render(subtleStyle.Render("enter to open a place, a to list all"))
}
