package deck

import (
	"context"
	"log/slog"
	"sync"
	"time"

	"github.com/marcus/wayfind/internal/models"
)

// DefaultRetryDelays are the waits before re-asking for recommendations
// after an empty answer.
var DefaultRetryDelays = []time.Duration{1 * time.Second, 2 * time.Second}

// Source lists recommendations for a user.
type Source interface {
	ListRecommendations(ctx context.Context, userID string, limit int) ([]models.Poi, error)
}

// LoadResult describes a load that was applied to the deck.
type LoadResult struct {
	Generation uint64
	Cards      int
	Attempts   int
	Exhausted  bool
}

// Loader fills a deck from a Source. A fresh personalization often answers
// with an empty list at first, so empty results are retried with backoff
// before being accepted. Only the most recent Load may touch the deck.
type Loader struct {
	src    Source
	deck   *Deck
	delays []time.Duration
	logger *slog.Logger

	mu     sync.Mutex
	latest uint64
}

// NewLoader returns a loader. A nil delays slice uses DefaultRetryDelays.
func NewLoader(src Source, d *Deck, delays []time.Duration, logger *slog.Logger) *Loader {
	if delays == nil {
		delays = DefaultRetryDelays
	}
	if logger == nil {
		logger = slog.Default()
	}
	return &Loader{src: src, deck: d, delays: delays, logger: logger}
}

func (l *Loader) start() uint64 {
	l.mu.Lock()
	defer l.mu.Unlock()
	l.latest++
	return l.latest
}

func (l *Loader) isLatest(req uint64) bool {
	l.mu.Lock()
	defer l.mu.Unlock()
	return req == l.latest
}

// Load fetches recommendations and installs them as a new deck generation.
// Cancelling ctx abandons pending retries without touching the deck. A load
// overtaken by a later one returns ErrStale and is discarded.
func (l *Loader) Load(ctx context.Context, userID string, limit int) (LoadResult, error) {
	if userID == "" {
		return LoadResult{}, ErrNoUser
	}
	req := l.start()

	var pois []models.Poi
	attempts := 0
	for {
		var err error
		attempts++
		pois, err = l.src.ListRecommendations(ctx, userID, limit)
		if err != nil {
			return LoadResult{Attempts: attempts}, err
		}
		if len(pois) > 0 || attempts > len(l.delays) {
			break
		}
		if !l.isLatest(req) {
			return LoadResult{Attempts: attempts}, ErrStale
		}
		delay := l.delays[attempts-1]
		l.logger.Debug("deck: empty recommendations, retrying", "attempt", attempts, "delay", delay)
		if err := sleep(ctx, delay); err != nil {
			return LoadResult{Attempts: attempts}, err
		}
	}

	// The check and the swap happen under the loader lock so a newer load
	// cannot start between them.
	l.mu.Lock()
	defer l.mu.Unlock()
	if req != l.latest {
		return LoadResult{Attempts: attempts}, ErrStale
	}
	if err := ctx.Err(); err != nil {
		return LoadResult{Attempts: attempts}, err
	}
	gen, exhausted := l.deck.Replace(models.CardsFromPois(pois))
	return LoadResult{Generation: gen, Cards: len(pois), Attempts: attempts, Exhausted: exhausted}, nil
}

func sleep(ctx context.Context, d time.Duration) error {
	t := time.NewTimer(d)
	defer t.Stop()
	select {
	case <-ctx.Done():
		return ctx.Err()
	case <-t.C:
		return nil
	}
}
