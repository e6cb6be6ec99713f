package tui

import (
	"strings"

	"github.com/charmbracelet/lipgloss"
	"github.com/marcus/wayfind/internal/gate"
)

var tabs = []struct {
	screen Screen
	key    string
	path   string
}{
	{ScreenHome, "1", gate.PathHome},
	{ScreenSwipe, "2", gate.PathSwipe},
	{ScreenMap, "3", gate.PathMap},
	{ScreenPlaces, "4", gate.PathPlaces},
	{ScreenOnboarding, "p", gate.PathOnboarding},
}

func (m Model) View() string {
	var body string
	if m.HelpOpen {
		body = m.viewHelp()
	} else {
		switch m.Screen {
		case ScreenOnboarding:
			body = m.viewOnboarding()
		case ScreenSwipe:
			body = m.viewSwipe()
		case ScreenMap:
			body = m.viewMap()
		case ScreenPlaces:
			body = m.viewPlaces()
		default:
			body = m.viewHome()
		}
	}

	parts := []string{m.viewTabs(), "", body}
	if status := m.viewStatus(); status != "" {
		parts = append(parts, "", status)
	}
	parts = append(parts, m.viewFooter())
	return lipgloss.JoinVertical(lipgloss.Left, parts...)
}

// viewTabs renders the route bar. Routes the gate would redirect are dimmed.
func (m Model) viewTabs() string {
	var out []string
	for _, t := range tabs {
		label := t.key + " " + t.screen.String()
		switch {
		case t.screen == m.Screen:
			out = append(out, activeTabStyle.Render(label))
		case !gate.Guard(m.session, t.path).Allowed:
			out = append(out, tabStyle.Faint(true).Render(label))
		default:
			out = append(out, tabStyle.Render(label))
		}
	}
	return lipgloss.JoinHorizontal(lipgloss.Top, out...)
}

func (m Model) viewStatus() string {
	if m.StatusMessage == "" {
		return ""
	}
	if m.StatusIsError {
		return statusErrStyle.Render(m.StatusMessage)
	}
	return statusOKStyle.Render(m.StatusMessage)
}

func (m Model) viewFooter() string {
	hints := m.Keymap.FooterHints(m.currentContext(), 5)
	hints = append(hints, "? help", "q quit")
	return helpStyle.Render(strings.Join(hints, "  "))
}

func (m Model) viewHelp() string {
	text := m.Keymap.GenerateHelp(m.Screen.context(), m.Screen.String())
	return panelStyle.Render(strings.TrimSuffix(text, "\n"))
}
