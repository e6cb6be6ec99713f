// Package deck runs the POI discovery deck: a stack of cards the visitor
// likes or dislikes one at a time, each decision confirmed by the backend
// before the card leaves the stack.
//
// Decisions are two-phase. Begin marks the top card as committing and starts
// its exit animation; Complete applies the backend's answer. While a card is
// committing every other Begin fails with ErrBusy, so at most one write is in
// flight per deck. A failed write puts the card back exactly as it was.
package deck

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"sync"

	"github.com/marcus/wayfind/internal/models"
)

var (
	// ErrBusy means another decision is still waiting for the backend.
	ErrBusy = errors.New("a decision is already in flight")
	// ErrNotActive means the card is not the one on top of the deck.
	ErrNotActive = errors.New("card is not the active card")
	// ErrNoUser means there is no profile to attribute the decision to.
	ErrNoUser = errors.New("no user profile: decisions are disabled")
	// ErrExhausted means every card of the current deck has been decided.
	ErrExhausted = errors.New("deck exhausted")
	// ErrStale means a newer load superseded this one.
	ErrStale = errors.New("superseded by a newer load")
)

// CardState is where a card sits in the decision lifecycle.
type CardState int

const (
	Pending CardState = iota
	Active
	Committing
	Resolved
)

func (s CardState) String() string {
	switch s {
	case Pending:
		return "pending"
	case Active:
		return "active"
	case Committing:
		return "committing"
	case Resolved:
		return "resolved"
	}
	return fmt.Sprintf("CardState(%d)", int(s))
}

// ExitDirection is the side the top card is flying off to.
type ExitDirection int

const (
	ExitNone ExitDirection = iota
	ExitLeft
	ExitRight
)

func exitFor(liked bool) ExitDirection {
	if liked {
		return ExitRight
	}
	return ExitLeft
}

// Session is the slice of the session store the deck needs.
type Session interface {
	UserID() string
	IncrementSwipeCount() (int, error)
}

// Recorder sends a decision to the backend.
type Recorder interface {
	RecordPoiDecision(ctx context.Context, userID, poiID string, liked bool) error
}

// InFlight is a decision that has begun but not completed.
type InFlight struct {
	CardID     string
	UserID     string
	Liked      bool
	generation uint64
}

// Outcome is the result of completing a decision.
type Outcome struct {
	Committed  bool
	SwipeCount int
	// Exhausted is set on the one completion that empties the deck.
	Exhausted bool
	Decision  models.Decision
	Err       error
}

// Deck is safe for concurrent use.
type Deck struct {
	mu sync.Mutex

	session  Session
	recorder Recorder
	logger   *slog.Logger

	cards      []models.Card
	cursor     int
	generation uint64
	committing bool
	// inFlightGen is the generation the in-flight decision was begun in.
	inFlightGen uint64
	exit       ExitDirection
	dragOffset float64

	exhaustedSignalled bool
	decisions          []models.Decision
}

// New returns an empty deck. recorder may be nil when the caller drives
// decisions through Begin and Complete itself.
func New(sess Session, recorder Recorder, logger *slog.Logger) *Deck {
	if logger == nil {
		logger = slog.Default()
	}
	return &Deck{session: sess, recorder: recorder, logger: logger}
}

// Replace installs a freshly fetched card list as a new generation. An empty
// list is taken as confirmed exhaustion and reported as such. A decision still
// in flight keeps the deck busy until its Complete arrives, since the backend
// may hand the same card back before it records the write.
func (d *Deck) Replace(cards []models.Card) (generation uint64, exhausted bool) {
	d.mu.Lock()
	defer d.mu.Unlock()

	d.generation++
	d.cards = append([]models.Card(nil), cards...)
	d.cursor = 0
	d.exit = ExitNone
	d.dragOffset = 0
	d.exhaustedSignalled = len(cards) == 0

	return d.generation, d.exhaustedSignalled
}

// Begin starts a decision on the active card.
func (d *Deck) Begin(cardID string, liked bool) (InFlight, error) {
	d.mu.Lock()
	defer d.mu.Unlock()

	if d.committing {
		return InFlight{}, ErrBusy
	}
	if d.cursor >= len(d.cards) {
		return InFlight{}, ErrExhausted
	}
	if d.cards[d.cursor].PoiID != cardID {
		return InFlight{}, fmt.Errorf("%w: %s", ErrNotActive, cardID)
	}
	userID := d.session.UserID()
	if userID == "" {
		return InFlight{}, ErrNoUser
	}

	d.committing = true
	d.exit = exitFor(liked)
	d.dragOffset = 0
	d.inFlightGen = d.generation
	return InFlight{CardID: cardID, UserID: userID, Liked: liked, generation: d.generation}, nil
}

// Complete applies the backend result of a decision started with Begin.
func (d *Deck) Complete(p InFlight, writeErr error) Outcome {
	d.mu.Lock()
	defer d.mu.Unlock()

	decision := models.Decision{PoiID: p.CardID, Liked: p.Liked}
	current := p.generation == d.generation

	d.committing = false
	if current {
		d.exit = ExitNone
	}

	if writeErr != nil {
		d.logger.Debug("deck: decision failed", "poi", p.CardID, "liked", p.Liked, "err", writeErr)
		return Outcome{Decision: decision, Err: writeErr}
	}

	out := Outcome{Committed: true, Decision: decision}
	count, err := d.session.IncrementSwipeCount()
	if err != nil {
		d.logger.Warn("deck: swipe count not persisted", "poi", p.CardID, "err", err)
		out.Err = err
	}
	out.SwipeCount = count
	d.decisions = append(d.decisions, decision)

	if !current {
		// The deck was reloaded while the write was in flight; the card
		// already left with the old generation.
		return out
	}

	d.cursor++
	if d.cursor >= len(d.cards) && !d.exhaustedSignalled {
		d.exhaustedSignalled = true
		out.Exhausted = true
	}
	return out
}

// RecordDecision runs a whole decision against the deck's recorder. The
// returned error is non-nil whenever nothing was committed.
func (d *Deck) RecordDecision(ctx context.Context, cardID string, liked bool) (Outcome, error) {
	if d.recorder == nil {
		return Outcome{}, errors.New("deck has no recorder")
	}
	p, err := d.Begin(cardID, liked)
	if err != nil {
		return Outcome{Err: err}, err
	}
	out := d.Complete(p, d.recorder.RecordPoiDecision(ctx, p.UserID, p.CardID, p.Liked))
	if !out.Committed {
		return out, out.Err
	}
	return out, nil
}

// Top returns the active card.
func (d *Deck) Top() (models.Card, bool) {
	d.mu.Lock()
	defer d.mu.Unlock()
	if d.cursor >= len(d.cards) {
		return models.Card{}, false
	}
	return d.cards[d.cursor], true
}

// Upcoming returns up to n cards starting at the active one.
func (d *Deck) Upcoming(n int) []models.Card {
	d.mu.Lock()
	defer d.mu.Unlock()
	end := d.cursor + n
	if end > len(d.cards) {
		end = len(d.cards)
	}
	if d.cursor >= end {
		return nil
	}
	return append([]models.Card(nil), d.cards[d.cursor:end]...)
}

// State reports the lifecycle state of a card in the current generation.
func (d *Deck) State(cardID string) (CardState, bool) {
	d.mu.Lock()
	defer d.mu.Unlock()
	for i, c := range d.cards {
		if c.PoiID != cardID {
			continue
		}
		switch {
		case i < d.cursor:
			return Resolved, true
		case i == d.cursor && d.committing && d.inFlightGen == d.generation:
			return Committing, true
		case i == d.cursor:
			return Active, true
		default:
			return Pending, true
		}
	}
	return Pending, false
}

func (d *Deck) Len() int {
	d.mu.Lock()
	defer d.mu.Unlock()
	return len(d.cards)
}

func (d *Deck) Cursor() int {
	d.mu.Lock()
	defer d.mu.Unlock()
	return d.cursor
}

// Remaining is the number of cards not yet resolved.
func (d *Deck) Remaining() int {
	d.mu.Lock()
	defer d.mu.Unlock()
	return len(d.cards) - d.cursor
}

func (d *Deck) Busy() bool {
	d.mu.Lock()
	defer d.mu.Unlock()
	return d.committing
}

func (d *Deck) Exit() ExitDirection {
	d.mu.Lock()
	defer d.mu.Unlock()
	return d.exit
}

func (d *Deck) Generation() uint64 {
	d.mu.Lock()
	defer d.mu.Unlock()
	return d.generation
}

// Decisions returns every decision committed through this deck, oldest first.
func (d *Deck) Decisions() []models.Decision {
	d.mu.Lock()
	defer d.mu.Unlock()
	return append([]models.Decision(nil), d.decisions...)
}
