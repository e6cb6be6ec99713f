package tui

import (
	"strings"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/marcus/wayfind/internal/mapview"
	"github.com/marcus/wayfind/internal/models"
	"github.com/marcus/wayfind/internal/output"
	"github.com/marcus/wayfind/internal/places"
	"github.com/marcus/wayfind/pkg/tui/keymap"
)

// homeSlideCount is how many of the most popular places the carousel shows.
const homeSlideCount = 5

func (m Model) homeSlides() []models.Poi {
	top := places.Filter(m.Pois, places.Query{Sort: places.SortPopular})
	if len(top) > homeSlideCount {
		top = top[:homeSlideCount]
	}
	return top
}

func (m Model) homeCommand(cmd keymap.Command) (tea.Model, tea.Cmd) {
	switch cmd {
	case keymap.CmdSlidePrev:
		m.Carousel.Previous()
	case keymap.CmdSlideNext:
		m.Carousel.Next()
	case keymap.CmdOpenOnMap:
		slides := m.homeSlides()
		if len(slides) == 0 {
			return m, nil
		}
		return m.navigate(mapview.Location(slides[m.Carousel.Index()].ID))
	}
	return m, nil
}

func (m Model) homeMouse(msg tea.MouseMsg) (tea.Model, tea.Cmd) {
	switch {
	case isLeftPress(msg):
		m.drag = newDrag(msg.X, m.now())
	case msg.Action == tea.MouseActionMotion && m.drag != nil:
		m.drag.move(msg.X, m.now())
	case msg.Action == tea.MouseActionRelease && m.drag != nil:
		m.drag.move(msg.X, m.now())
		m.Carousel.OnDragEnd(m.drag.offset(), m.drag.velocity())
		m.drag = nil
	}
	return m, nil
}

func (m Model) viewHome() string {
	var sb strings.Builder
	sb.WriteString(titleStyle.Render("Popular right now"))
	sb.WriteString("\n\n")

	if !m.PoisLoaded {
		sb.WriteString(m.Spinner.View() + " Loading places...")
		return sb.String()
	}
	slides := m.homeSlides()
	if len(slides) == 0 {
		sb.WriteString(subtleStyle.Render("No places yet."))
		return sb.String()
	}

	p := slides[m.Carousel.Index()]
	sb.WriteString(output.FormatCard(models.CardFromPoi(p), m.cardWidth()))
	sb.WriteString("\n")
	if pop := output.FormatPopularity(p.Popularity); pop != "" {
		sb.WriteString(badgeStyle.Render(pop) + "\n")
	}
	sb.WriteString(m.carouselDots())
	return sb.String()
}

// carouselDots renders one dot per slide with the current one highlighted,
// plus arrows where a move is possible.
func (m Model) carouselDots() string {
	var sb strings.Builder
	if m.Carousel.CanGoPrevious() {
		sb.WriteString("‹ ")
	} else {
		sb.WriteString("  ")
	}
	for i := 0; i < m.Carousel.Total(); i++ {
		if i == m.Carousel.Index() {
			sb.WriteString(cursorStyle.Render("●"))
		} else {
			sb.WriteString(subtleStyle.Render("○"))
		}
	}
	if m.Carousel.CanGoNext() {
		sb.WriteString(" ›")
	}
	return sb.String()
}

func (m Model) cardWidth() int {
	w := m.Width - 4
	if w > 60 {
		w = 60
	}
	if w < 20 {
		w = 20
	}
	return w
}
