package tui

import (
	"context"
	"time"

	"github.com/marcus/wayfind/internal/deck"
	"github.com/marcus/wayfind/internal/gate"
	"github.com/marcus/wayfind/internal/models"
	"github.com/marcus/wayfind/pkg/tui/keymap"
)

// Screen is the view mounted for the current route.
type Screen int

const (
	ScreenHome Screen = iota
	ScreenOnboarding
	ScreenSwipe
	ScreenMap
	ScreenPlaces
)

func (s Screen) String() string {
	switch s {
	case ScreenOnboarding:
		return "interests"
	case ScreenSwipe:
		return "swipe"
	case ScreenMap:
		return "map"
	case ScreenPlaces:
		return "places"
	default:
		return "home"
	}
}

// screenFor maps a normalized route path onto a screen. Unknown paths land
// on home.
func screenFor(path string) Screen {
	switch path {
	case gate.PathOnboarding, gate.PathProfile:
		return ScreenOnboarding
	case gate.PathSwipe:
		return ScreenSwipe
	case gate.PathMap:
		return ScreenMap
	case gate.PathPlaces:
		return ScreenPlaces
	default:
		return ScreenHome
	}
}

func (s Screen) context() keymap.Context {
	switch s {
	case ScreenOnboarding:
		return keymap.ContextOnboarding
	case ScreenSwipe:
		return keymap.ContextSwipe
	case ScreenMap:
		return keymap.ContextMap
	case ScreenPlaces:
		return keymap.ContextPlaces
	default:
		return keymap.ContextHome
	}
}

// Minimum dimensions used before the first WindowSizeMsg.
const (
	defaultWidth  = 80
	defaultHeight = 24
)

// Backend is the remote API the screens talk to. *api.Client satisfies it.
type Backend interface {
	ListCategories(ctx context.Context) ([]models.Category, error)
	CreateOrUpdateProfile(ctx context.Context, choices []models.CategoryChoice) (string, error)
	ListPois(ctx context.Context) ([]models.Poi, error)
	ListRecommendations(ctx context.Context, userID string, limit int) ([]models.Poi, error)
	RecordPoiDecision(ctx context.Context, userID, poiID string, liked bool) error
	ListUserDecisions(ctx context.Context, userID string) ([]models.Decision, error)
}

// DecisionCache keeps acknowledged decisions locally. *db.DB satisfies it.
type DecisionCache interface {
	CacheDecision(userID string, d models.Decision) error
}

// poisLoadedMsg carries the full POI list.
type poisLoadedMsg struct {
	Pois []models.Poi
	Err  error
}

// decisionsLoadedMsg carries the user's prior decisions for "my places".
type decisionsLoadedMsg struct {
	Decisions []models.Decision
	Err       error
}

// categoriesLoadedMsg carries the onboarding categories.
type categoriesLoadedMsg struct {
	Categories []models.Category
	Err        error
}

// profileSavedMsg reports the result of submitting interests.
type profileSavedMsg struct {
	ProfileID  string
	Categories []string
	Err        error
}

// deckLoadedMsg reports a recommendations load. Seq identifies the load so
// results of superseded loads are dropped.
type deckLoadedMsg struct {
	Seq    int
	Result deck.LoadResult
	Err    error
}

// decisionDoneMsg carries the backend answer for a started decision.
type decisionDoneMsg struct {
	Pending deck.InFlight
	Err     error
}

// ClearStatusMsg clears the status message if it is still the one with Seq.
type ClearStatusMsg struct {
	Seq int
}

// dragState tracks a mouse drag across the swipe card or the carousel.
type dragState struct {
	startX int
	lastX  int
	prevX  int
	lastAt time.Time
	prevAt time.Time
}
