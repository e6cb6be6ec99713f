// Package output provides styled terminal output helpers (success, error,
// warning, POI and session formatting) using lipgloss.
package output

import (
	"encoding/json"
	"fmt"
	"strconv"
	"strings"
	"time"

	"github.com/charmbracelet/lipgloss"
	"github.com/charmbracelet/x/ansi"
	"github.com/charmbracelet/x/cellbuf"
	"github.com/marcus/wayfind/internal/gate"
	"github.com/marcus/wayfind/internal/mapview"
	"github.com/marcus/wayfind/internal/models"
	"github.com/marcus/wayfind/internal/session"
)

var (
	titleStyle   = lipgloss.NewStyle().Bold(true)
	subtleStyle  = lipgloss.NewStyle().Foreground(lipgloss.Color("241"))
	successStyle = lipgloss.NewStyle().Foreground(lipgloss.Color("42"))
	errorStyle   = lipgloss.NewStyle().Foreground(lipgloss.Color("196"))
	warningStyle = lipgloss.NewStyle().Foreground(lipgloss.Color("214"))
	likeStyle    = lipgloss.NewStyle().Foreground(lipgloss.Color("42"))
	dislikeStyle = lipgloss.NewStyle().Foreground(lipgloss.Color("196"))
	markerStyles = map[mapview.Marker]lipgloss.Style{
		mapview.MarkerDefault:  lipgloss.NewStyle().Foreground(lipgloss.Color("45")),
		mapview.MarkerMine:     lipgloss.NewStyle().Foreground(lipgloss.Color("212")),
		mapview.MarkerSelected: lipgloss.NewStyle().Foreground(lipgloss.Color("214")).Bold(true),
	}
)

func say(style lipgloss.Style, prefix, format string, args []any) {
	fmt.Println(style.Render(prefix + fmt.Sprintf(format, args...)))
}

// Success prints a confirmation line in green.
func Success(format string, args ...any) { say(successStyle, "", format, args) }

// Error prints an "ERROR:" line. Commands still return the error to cobra.
func Error(format string, args ...any) { say(errorStyle, "ERROR: ", format, args) }

func Warning(format string, args ...any) { say(warningStyle, "Warning: ", format, args) }

func Info(format string, args ...any) { fmt.Printf(format+"\n", args...) }

// JSON prints v indented by two spaces.
func JSON(v any) error {
	data, err := json.MarshalIndent(v, "", "  ")
	if err != nil {
		return fmt.Errorf("encode json: %w", err)
	}
	_, err = fmt.Printf("%s\n", data)
	return err
}

// FormatPopularity renders popularity as a short score, or "" when unknown.
func FormatPopularity(p float64) string {
	if p <= 0 {
		return ""
	}
	return fmt.Sprintf("★%.1f", p)
}

// FormatPoiShort formats a POI on one line.
func FormatPoiShort(p models.Poi) string {
	parts := []string{titleStyle.Render(p.ID), p.Name}
	if pop := FormatPopularity(p.Popularity); pop != "" {
		parts = append(parts, subtleStyle.Render(pop))
	}
	if p.CategoryID != "" {
		parts = append(parts, subtleStyle.Render(p.CategoryID))
	}
	return strings.Join(parts, "  ")
}

// FormatPoiLong formats a POI with its description rendered as markdown.
// Rendering failures fall back to plain wrapped text.
func FormatPoiLong(p models.Poi, width int) string {
	var sb strings.Builder

	sb.WriteString(titleStyle.Render(fmt.Sprintf("%s: %s", p.ID, p.Name)))
	sb.WriteString("\n")
	if p.ShortDesc != "" && p.ShortDesc != p.Description() {
		sb.WriteString(subtleStyle.Render(p.ShortDesc))
		sb.WriteString("\n")
	}

	var meta []string
	if p.CategoryID != "" {
		meta = append(meta, "Category: "+p.CategoryID)
	}
	if pop := FormatPopularity(p.Popularity); pop != "" {
		meta = append(meta, "Popularity: "+pop)
	}
	if p.HasLocation() {
		meta = append(meta, "Location: "+p.Coordinates())
	}
	if len(meta) > 0 {
		sb.WriteString(strings.Join(meta, " | "))
		sb.WriteString("\n")
	}

	if desc := p.Description(); strings.TrimSpace(desc) != "" {
		sb.WriteString("\n")
		rendered, err := RenderMarkdownWithWidth(desc, width)
		if err != nil {
			rendered = WrapText(desc, width)
		}
		sb.WriteString(rendered)
		sb.WriteString("\n")
	}
	if p.ImageURL != "" {
		sb.WriteString("\n")
		sb.WriteString(subtleStyle.Render("Image: " + p.ImageURL))
		sb.WriteString("\n")
	}
	return sb.String()
}

// FormatCard renders a deck card as a box of the given width.
func FormatCard(c models.Card, width int) string {
	if width < minMarkdownWidth {
		width = minMarkdownWidth
	}
	inner := width - 4

	var lines []string
	lines = append(lines, titleStyle.Render(ansi.Truncate(c.Title, inner, "…")))
	if c.Subtitle != "" {
		lines = append(lines, subtleStyle.Render(ansi.Truncate(c.Subtitle, inner, "…")))
	}
	if c.Description != "" && c.Description != c.Subtitle {
		lines = append(lines, "", WrapText(c.Description, inner))
	}
	if c.Location != "" {
		lines = append(lines, "", subtleStyle.Render("@ "+c.Location))
	}

	return lipgloss.NewStyle().
		Border(lipgloss.RoundedBorder()).
		Padding(0, 1).
		Width(width - 2).
		Render(strings.Join(lines, "\n"))
}

// WrapText soft-wraps s to width cells, breaking on spaces and hyphens.
func WrapText(s string, width int) string {
	if width <= 0 {
		return s
	}
	return cellbuf.Wrap(s, width, "-")
}

// FormatDecision formats a committed like/dislike.
func FormatDecision(d models.Decision) string {
	verdict := dislikeStyle.Render("✗ disliked")
	if d.Liked {
		verdict = likeStyle.Render("♥ liked")
	}
	line := fmt.Sprintf("%s  %s", verdict, d.PoiID)
	if !d.DecidedAt.IsZero() {
		line += "  " + subtleStyle.Render(FormatTimeAgo(d.DecidedAt))
	}
	return line
}

func markerGlyph(m mapview.Marker) string {
	switch m {
	case mapview.MarkerDefault:
		return "●"
	case mapview.MarkerMine:
		return "♥"
	case mapview.MarkerSelected:
		return "◉"
	}
	return "?"
}

// MarkerBadge is the glyph and name of a marker state, e.g. "♥ mine".
func MarkerBadge(m mapview.Marker) string {
	badge := markerGlyph(m) + " " + m.String()
	if style, ok := markerStyles[m]; ok {
		return style.Render(badge)
	}
	return badge
}

// FormatGate describes a navigation decision.
func FormatGate(d gate.Decision) string {
	if d.Allowed {
		return successStyle.Render("allowed") + "  " + d.Path
	}
	return warningStyle.Render("redirected") + fmt.Sprintf("  %s -> %s", d.Path, d.RedirectTo)
}

// FormatSession formats the persisted session state.
func FormatSession(s session.State) string {
	var sb strings.Builder
	user := s.UserID
	if user == "" {
		user = subtleStyle.Render("(none)")
	}
	sb.WriteString(fmt.Sprintf("User:        %s\n", user))

	cats := subtleStyle.Render("(none)")
	if len(s.SelectedCategories) > 0 {
		cats = strings.Join(s.SelectedCategories, ", ")
	}
	sb.WriteString(fmt.Sprintf("Categories:  %s", cats))
	if !s.HasCategories() {
		sb.WriteString(subtleStyle.Render(fmt.Sprintf("  (need %d)", session.MinCategories)))
	}
	sb.WriteString("\n")

	sb.WriteString(fmt.Sprintf("Swipes:      %d", s.SwipeCount))
	if s.Graduated() {
		sb.WriteString("  " + successStyle.Render("graduated"))
	}
	sb.WriteString("\n")
	return sb.String()
}

// FormatTimeAgo is "just now", "5m ago", "3h ago", "2d ago", or the date
// once a week has passed.
func FormatTimeAgo(t time.Time) string {
	const day = 24 * time.Hour
	d := time.Since(t)
	if d < time.Minute {
		return "just now"
	}
	for _, u := range []struct {
		below, per time.Duration
		suffix     string
	}{
		{time.Hour, time.Minute, "m ago"},
		{day, time.Hour, "h ago"},
		{7 * day, day, "d ago"},
	} {
		if d < u.below {
			return strconv.Itoa(int(d/u.per)) + u.suffix
		}
	}
	return t.Format(time.DateOnly)
}

// SectionHeader is an upper-cased title on its own line, padded by a blank
// line above.
func SectionHeader(title string) string {
	return "\n" + strings.ToUpper(title) + ":\n"
}
