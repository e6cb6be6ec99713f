package deck

import (
	"context"
	"errors"
	"sync"
	"testing"
	"time"

	"github.com/marcus/wayfind/internal/models"
)

// sequenceSource answers each call with the next scripted response.
type sequenceSource struct {
	mu        sync.Mutex
	responses [][]models.Poi
	calls     int
	onCall    func(n int)
}

func (s *sequenceSource) ListRecommendations(ctx context.Context, userID string, limit int) ([]models.Poi, error) {
	s.mu.Lock()
	n := s.calls
	s.calls++
	var resp []models.Poi
	if n < len(s.responses) {
		resp = s.responses[n]
	}
	hook := s.onCall
	s.mu.Unlock()
	if hook != nil {
		hook(n)
	}
	return resp, nil
}

func pois(ids ...string) []models.Poi {
	out := make([]models.Poi, 0, len(ids))
	for _, id := range ids {
		out = append(out, models.Poi{ID: id, Name: "POI " + id})
	}
	return out
}

var fastDelays = []time.Duration{time.Millisecond, 2 * time.Millisecond}

func TestLoadRetriesEmptyThenSucceeds(t *testing.T) {
	src := &sequenceSource{responses: [][]models.Poi{nil, pois("a", "b")}}
	d := New(&fakeSession{userID: "u"}, nil, nil)
	l := NewLoader(src, d, fastDelays, nil)

	res, err := l.Load(context.Background(), "u", 10)
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	if res.Attempts != 2 || res.Cards != 2 || res.Exhausted {
		t.Fatalf("result = %+v", res)
	}
	if top, _ := d.Top(); top.PoiID != "a" || top.Title != "POI a" {
		t.Fatalf("top = %+v", top)
	}
}

func TestLoadGenuinelyEmpty(t *testing.T) {
	src := &sequenceSource{}
	d := New(&fakeSession{userID: "u"}, nil, nil)
	l := NewLoader(src, d, fastDelays, nil)

	res, err := l.Load(context.Background(), "u", 10)
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	if src.calls != 3 {
		t.Fatalf("calls = %d, want 3 (one try plus two retries)", src.calls)
	}
	if !res.Exhausted || res.Cards != 0 {
		t.Fatalf("result = %+v, want exhausted", res)
	}
}

func TestLoadCancelledDuringBackoff(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	src := &sequenceSource{onCall: func(int) { cancel() }}
	d := New(&fakeSession{userID: "u"}, nil, nil)
	l := NewLoader(src, d, []time.Duration{time.Hour}, nil)

	_, err := l.Load(ctx, "u", 10)
	if !errors.Is(err, context.Canceled) {
		t.Fatalf("err = %v, want context.Canceled", err)
	}
	if d.Generation() != 0 {
		t.Fatalf("deck touched after cancellation")
	}
}

func TestLoadLastRequestWins(t *testing.T) {
	release := make(chan struct{})
	entered := make(chan struct{})
	src := &sequenceSource{
		responses: [][]models.Poi{pois("old"), pois("new")},
		onCall: func(n int) {
			if n == 0 {
				close(entered)
				<-release
			}
		},
	}
	d := New(&fakeSession{userID: "u"}, nil, nil)
	l := NewLoader(src, d, fastDelays, nil)

	errc := make(chan error, 1)
	go func() {
		_, err := l.Load(context.Background(), "u", 10)
		errc <- err
	}()
	<-entered

	if _, err := l.Load(context.Background(), "u", 10); err != nil {
		t.Fatalf("second Load: %v", err)
	}
	close(release)

	if err := <-errc; !errors.Is(err, ErrStale) {
		t.Fatalf("first Load err = %v, want ErrStale", err)
	}
	if top, _ := d.Top(); top.PoiID != "new" {
		t.Fatalf("top = %q, want new", top.PoiID)
	}
}

func TestLoadRequiresUser(t *testing.T) {
	l := NewLoader(&sequenceSource{}, New(&fakeSession{}, nil, nil), nil, nil)
	if _, err := l.Load(context.Background(), "", 10); !errors.Is(err, ErrNoUser) {
		t.Fatalf("err = %v, want ErrNoUser", err)
	}
}
