package tui

import (
	"context"
	"errors"
	"fmt"
	"strings"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
	"github.com/marcus/wayfind/internal/deck"
	"github.com/marcus/wayfind/internal/models"
	"github.com/marcus/wayfind/internal/output"
	"github.com/marcus/wayfind/internal/session"
	"github.com/marcus/wayfind/pkg/tui/keymap"
)

// nudgeStep is how far one h/l press drags the card, in pixels.
const nudgeStep = 40

// cardIndent is the left margin of an undragged card, in cells.
const cardIndent = 6

// enterSwipe (re)loads the deck under a context that lives as long as the
// swipe screen is mounted.
func (m Model) enterSwipe() (Model, tea.Cmd) {
	m.leaveSwipe()
	userID := m.session.UserID()
	if userID == "" {
		return m.setStatus("Pick your interests before swiping", true)
	}

	ctx, cancel := context.WithCancel(m.ctx)
	m.swipeCancel = cancel
	m.deckSeq++
	m.DeckLoading = true

	seq, loader, limit := m.deckSeq, m.loader, m.deckLimit
	return m, func() tea.Msg {
		res, err := loader.Load(ctx, userID, limit)
		return deckLoadedMsg{Seq: seq, Result: res, Err: err}
	}
}

// leaveSwipe abandons pending loads and retries.
func (m *Model) leaveSwipe() {
	if m.swipeCancel != nil {
		m.swipeCancel()
		m.swipeCancel = nil
	}
	m.DeckLoading = false
	m.drag = nil
}

func (m Model) handleDeckLoaded(msg deckLoadedMsg) (tea.Model, tea.Cmd) {
	if msg.Seq != m.deckSeq {
		return m, nil
	}
	m.DeckLoading = false
	if msg.Err != nil {
		if errors.Is(msg.Err, deck.ErrStale) || errors.Is(msg.Err, context.Canceled) {
			return m, nil
		}
		m.logger.Debug("tui: load recommendations failed", "err", msg.Err)
		return m.setStatus("Could not load recommendations: "+msg.Err.Error(), true)
	}
	m.logger.Debug("tui: deck loaded", "cards", msg.Result.Cards, "attempts", msg.Result.Attempts)
	if msg.Result.Exhausted {
		return m.setStatus("No recommendations right now", false)
	}
	return m, nil
}

func (m Model) swipeCommand(cmd keymap.Command) (tea.Model, tea.Cmd) {
	switch cmd {
	case keymap.CmdNudgeLeft, keymap.CmdNudgeRight:
		offset, _ := m.Deck.Drag()
		if cmd == keymap.CmdNudgeLeft {
			offset -= nudgeStep
		} else {
			offset += nudgeStep
		}
		m.Deck.Handle(deck.DragMoved{Offset: offset})
		return m, nil

	case keymap.CmdRelease:
		offset, _ := m.Deck.Drag()
		if req, ok := m.Deck.Handle(deck.DragEnded{Offset: offset}); ok {
			return m.decide(req)
		}
		return m, nil

	case keymap.CmdLike, keymap.CmdDislike:
		top, ok := m.Deck.Top()
		if !ok {
			return m, nil
		}
		req, _ := m.Deck.Handle(deck.DecisionRequested{CardID: top.PoiID, Liked: cmd == keymap.CmdLike})
		return m.decide(req)
	}
	return m, nil
}

func (m Model) swipeMouse(msg tea.MouseMsg) (tea.Model, tea.Cmd) {
	switch {
	case isLeftPress(msg):
		m.drag = newDrag(msg.X, m.now())
	case msg.Action == tea.MouseActionMotion && m.drag != nil:
		m.drag.move(msg.X, m.now())
		m.Deck.Handle(deck.DragMoved{Offset: m.drag.offset()})
	case msg.Action == tea.MouseActionRelease && m.drag != nil:
		m.drag.move(msg.X, m.now())
		ev := deck.DragEnded{Offset: m.drag.offset(), Velocity: m.drag.velocity()}
		m.drag = nil
		if req, ok := m.Deck.Handle(ev); ok {
			return m.decide(req)
		}
	}
	return m, nil
}

// decide starts a decision and sends it to the backend. A decision made
// while another is in flight is dropped.
func (m Model) decide(req deck.DecisionRequested) (tea.Model, tea.Cmd) {
	p, err := m.Deck.Begin(req.CardID, req.Liked)
	switch {
	case errors.Is(err, deck.ErrBusy):
		return m, nil
	case errors.Is(err, deck.ErrNoUser):
		return m.setStatus("Pick your interests before swiping", true)
	case err != nil:
		m.logger.Debug("tui: decision not started", "poi", req.CardID, "err", err)
		return m, nil
	}

	ctx, backend := m.ctx, m.backend
	return m, func() tea.Msg {
		return decisionDoneMsg{Pending: p, Err: backend.RecordPoiDecision(ctx, p.UserID, p.CardID, p.Liked)}
	}
}

func (m Model) handleDecisionDone(msg decisionDoneMsg) (tea.Model, tea.Cmd) {
	out := m.Deck.Complete(msg.Pending, msg.Err)
	if !out.Committed {
		return m.setStatus("Could not save your choice: "+out.Err.Error(), true)
	}

	d := out.Decision
	d.DecidedAt = m.now().UTC()
	if m.cache != nil {
		if err := m.cache.CacheDecision(msg.Pending.UserID, d); err != nil {
			m.logger.Warn("tui: decision not cached", "poi", d.PoiID, "err", err)
		}
	}
	m.Mine = mergeDecisions(m.Mine, []models.Decision{d})
	m.Map.SetMine(m.Mine)

	text := "Passed"
	if d.Liked {
		text = "Liked!"
	}
	switch {
	case out.Exhausted:
		text += " That's everything for now. Press r for more."
	case out.SwipeCount == session.GraduationSwipes:
		text = "You unlocked the map and places!"
	}
	return m.setStatus(text, false)
}

func (m Model) viewSwipe() string {
	var sb strings.Builder
	sb.WriteString(titleStyle.Render("Discover"))
	sb.WriteString("  " + subtleStyle.Render(fmt.Sprintf("%d swipes", m.session.SwipeCount())))
	sb.WriteString("\n\n")

	if m.DeckLoading {
		sb.WriteString(m.Spinner.View() + " Finding places for you...")
		return sb.String()
	}
	top, ok := m.Deck.Top()
	if !ok {
		sb.WriteString(subtleStyle.Render("No more places. Press r to look again."))
		return sb.String()
	}

	offset, rotation := m.Deck.Drag()
	indent := cardIndent + int(offset)/cellPixels
	if indent < 0 {
		indent = 0
	}
	card := output.FormatCard(top, m.cardWidth())
	sb.WriteString(lipgloss.NewStyle().MarginLeft(indent).Render(card))
	sb.WriteString("\n")
	sb.WriteString(m.swipeIndicator(offset, rotation))
	sb.WriteString("\n")

	if next := m.Deck.Upcoming(3); len(next) > 1 {
		titles := make([]string, 0, len(next)-1)
		for _, c := range next[1:] {
			titles = append(titles, c.Title)
		}
		sb.WriteString(subtleStyle.Render("Up next: " + strings.Join(titles, ", ")))
		sb.WriteString("\n")
	}
	sb.WriteString(subtleStyle.Render(fmt.Sprintf("%d left", m.Deck.Remaining())))
	return sb.String()
}

func (m Model) swipeIndicator(offset, rotation float64) string {
	switch m.Deck.Exit() {
	case deck.ExitRight:
		return likeStyle.Render("♥ saving like...")
	case deck.ExitLeft:
		return dislikeStyle.Render("✗ saving pass...")
	}
	switch {
	case offset > deck.SwipeThreshold:
		return likeStyle.Render("♥ LIKE") + subtleStyle.Render(fmt.Sprintf("  tilt %+.0f°", rotation))
	case offset < -deck.SwipeThreshold:
		return dislikeStyle.Render("✗ NOPE") + subtleStyle.Render(fmt.Sprintf("  tilt %+.0f°", rotation))
	case offset != 0:
		return subtleStyle.Render(fmt.Sprintf("tilt %+.0f°", rotation))
	}
	return ""
}
