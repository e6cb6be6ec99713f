package cmd

import (
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"
	"strings"
	"sync"
	"testing"

	"github.com/marcus/wayfind/internal/config"
	"github.com/marcus/wayfind/internal/db"
	"github.com/marcus/wayfind/internal/logging"
	"github.com/marcus/wayfind/internal/places"
	"github.com/marcus/wayfind/internal/session"
	"github.com/spf13/cobra"
	"github.com/spf13/pflag"
)

// fakeService is a minimal backend recording decisions it receives.
type fakeService struct {
	mu        sync.Mutex
	decisions []string
	profiles  int
}

func (f *fakeService) handler(t *testing.T) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		switch {
		case r.URL.Path == "/category":
			io.WriteString(w, `[{"id":"art","name":"Art"},{"id":"parks","name":"Parks"},{"id":"sea","name":"Sea"}]`)
		case r.URL.Path == "/user/profile":
			f.mu.Lock()
			f.profiles++
			f.mu.Unlock()
			io.WriteString(w, `{"uuid":"user-1"}`)
		case r.URL.Path == "/poi/p1":
			io.WriteString(w, `{"id":"p1","name":"Old Harbour","locationX":54.1,"locationY":18.6}`)
		case r.URL.Path == "/poi/p2":
			io.WriteString(w, `{"id":"p2","name":"City Museum"}`)
		case strings.HasSuffix(r.URL.Path, "/decision"):
			var body map[string]interface{}
			json.NewDecoder(r.Body).Decode(&body)
			f.mu.Lock()
			f.decisions = append(f.decisions, r.URL.Path)
			f.mu.Unlock()
			w.WriteHeader(http.StatusCreated)
		default:
			t.Logf("unexpected request %s %s", r.Method, r.URL.Path)
			http.NotFound(w, r)
		}
	}
}

func (f *fakeService) counts() (profiles, decisions int) {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.profiles, len(f.decisions)
}

// setupCLI points the CLI at a temp config dir, data dir and fake service.
func setupCLI(t *testing.T) (*fakeService, string) {
	t.Helper()
	svc := &fakeService{}
	srv := httptest.NewServer(svc.handler(t))
	t.Cleanup(srv.Close)

	dataDir := t.TempDir()
	t.Setenv(config.EnvConfigDir, t.TempDir())
	t.Setenv(config.EnvDataDir, dataDir)
	t.Setenv(config.EnvAPIURL, srv.URL)
	t.Setenv(logging.EnvLevel, "error")

	origSort := placesSort
	t.Cleanup(func() {
		placesSort = origSort
		resetFlags(rootCmd)
	})
	return svc, dataDir
}

// resetFlags restores every flag to its default so commands can be run
// repeatedly within one test binary.
func resetFlags(c *cobra.Command) {
	c.Flags().VisitAll(func(f *pflag.Flag) {
		if sv, ok := f.Value.(pflag.SliceValue); ok {
			sv.Replace(nil)
		} else {
			f.Value.Set(f.DefValue)
		}
		f.Changed = false
	})
	for _, sub := range c.Commands() {
		resetFlags(sub)
	}
}

func runCLI(t *testing.T, args ...string) error {
	t.Helper()
	rootCmd.SetArgs(args)
	rootCmd.SetOut(io.Discard)
	rootCmd.SetErr(io.Discard)
	return rootCmd.Execute()
}

func openSession(t *testing.T, dataDir string) session.State {
	t.Helper()
	database, err := db.Open(dataDir)
	if err != nil {
		t.Fatalf("open db: %v", err)
	}
	defer database.Close()
	store, err := session.Open(database, nil)
	if err != nil {
		t.Fatalf("open session: %v", err)
	}
	return store.Snapshot()
}

func TestOnboardWithFlagStoresProfile(t *testing.T) {
	svc, dataDir := setupCLI(t)

	if err := runCLI(t, "onboard", "--categories", "art, parks,sea,art"); err != nil {
		t.Fatalf("onboard: %v", err)
	}

	state := openSession(t, dataDir)
	if state.UserID != "user-1" {
		t.Errorf("user id: got %q, want %q", state.UserID, "user-1")
	}
	if len(state.SelectedCategories) != 3 {
		t.Errorf("categories: got %v, want 3 entries", state.SelectedCategories)
	}
	if profiles, _ := svc.counts(); profiles != 1 {
		t.Errorf("profile requests: got %d, want 1", profiles)
	}
}

func TestOnboardRejectsTooFewCategories(t *testing.T) {
	svc, dataDir := setupCLI(t)

	if err := runCLI(t, "onboard", "--categories", "art,parks"); err == nil {
		t.Fatal("expected error for two categories")
	}
	if profiles, _ := svc.counts(); profiles != 0 {
		t.Errorf("profile should not be saved, got %d requests", profiles)
	}
	if state := openSession(t, dataDir); state.UserID != "" {
		t.Errorf("user id should stay empty, got %q", state.UserID)
	}
}

func TestDeckLikeCountsSwipeAndCaches(t *testing.T) {
	svc, dataDir := setupCLI(t)

	if err := runCLI(t, "onboard", "--categories", "art,parks,sea"); err != nil {
		t.Fatalf("onboard: %v", err)
	}
	if err := runCLI(t, "deck", "--like", "p1"); err != nil {
		t.Fatalf("deck --like: %v", err)
	}
	resetFlags(rootCmd)
	if err := runCLI(t, "deck", "--dislike", "p2"); err != nil {
		t.Fatalf("deck --dislike: %v", err)
	}

	if state := openSession(t, dataDir); state.SwipeCount != 2 {
		t.Errorf("swipe count: got %d, want 2", state.SwipeCount)
	}
	if _, decisions := svc.counts(); decisions != 2 {
		t.Errorf("decision requests: got %d, want 2", decisions)
	}

	database, err := db.Open(dataDir)
	if err != nil {
		t.Fatalf("open db: %v", err)
	}
	defer database.Close()
	cached, err := database.CachedDecisions("user-1")
	if err != nil {
		t.Fatalf("CachedDecisions: %v", err)
	}
	if len(cached) != 2 {
		t.Fatalf("cached decisions: got %d, want 2", len(cached))
	}
}

func TestJustGraduated(t *testing.T) {
	for n, want := range map[int]bool{
		session.GraduationSwipes - 1: false,
		session.GraduationSwipes:     true,
		session.GraduationSwipes + 1: false,
	} {
		if got := justGraduated(n); got != want {
			t.Errorf("justGraduated(%d) = %v, want %v", n, got, want)
		}
	}
}

func TestDeckRequiresProfile(t *testing.T) {
	svc, _ := setupCLI(t)

	if err := runCLI(t, "deck", "--like", "p1"); err == nil {
		t.Fatal("expected error without a profile")
	}
	if _, decisions := svc.counts(); decisions != 0 {
		t.Errorf("no decision should reach the service, got %d", decisions)
	}
}

func TestDeckRejectsBothVerdicts(t *testing.T) {
	_, _ = setupCLI(t)
	if err := runCLI(t, "onboard", "--categories", "art,parks,sea"); err != nil {
		t.Fatalf("onboard: %v", err)
	}
	if err := runCLI(t, "deck", "--like", "p1", "--dislike", "p2"); err == nil {
		t.Fatal("expected error for --like with --dislike")
	}
}

func TestPlacesLockedBeforeGraduation(t *testing.T) {
	_, _ = setupCLI(t)
	if err := runCLI(t, "onboard", "--categories", "art,parks,sea"); err != nil {
		t.Fatalf("onboard: %v", err)
	}
	if err := runCLI(t, "places"); err == nil {
		t.Fatal("places should be locked before three swipes")
	}
	if err := runCLI(t, "map"); err == nil {
		t.Fatal("map should be locked before three swipes")
	}
}

func TestSessionReset(t *testing.T) {
	_, dataDir := setupCLI(t)
	if err := runCLI(t, "onboard", "--categories", "art,parks,sea"); err != nil {
		t.Fatalf("onboard: %v", err)
	}
	if err := runCLI(t, "session", "reset"); err != nil {
		t.Fatalf("session reset: %v", err)
	}
	state := openSession(t, dataDir)
	if state.UserID != "" || len(state.SelectedCategories) != 0 || state.SwipeCount != 0 {
		t.Errorf("session not cleared: %+v", state)
	}
}

func TestRouteFromArgs(t *testing.T) {
	_, _ = setupCLI(t)
	if err := runCLI(t, "route", "p1"); err != nil {
		t.Fatalf("route: %v", err)
	}
	// p2 has no location, so there is nothing to route through.
	if err := runCLI(t, "route", "p2"); err == nil {
		t.Fatal("expected error for a place without location")
	}
}

func TestConfigSetGetUnset(t *testing.T) {
	_, _ = setupCLI(t)

	if err := runCLI(t, "config", "set", config.KeyDeckLimit, "25"); err != nil {
		t.Fatalf("config set: %v", err)
	}
	cfg, err := config.Load(getConfigDir())
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	if v, _ := cfg.Get(config.KeyDeckLimit); v != "25" {
		t.Errorf("deck.limit: got %q, want 25", v)
	}

	if err := runCLI(t, "config", "set", "nope", "1"); err == nil {
		t.Error("expected error for unknown key")
	}

	if err := runCLI(t, "config", "unset", config.KeyDeckLimit); err != nil {
		t.Fatalf("config unset: %v", err)
	}
	cfg, _ = config.Load(getConfigDir())
	if v, _ := cfg.Get(config.KeyDeckLimit); v != "" {
		t.Errorf("deck.limit after unset: got %q", v)
	}
}

func TestPlacesSortFlag(t *testing.T) {
	_, _ = setupCLI(t)

	if err := placesCmd.Flags().Set("sort", "Popular"); err != nil {
		t.Fatalf("set sort: %v", err)
	}
	if placesSort != places.SortPopular {
		t.Errorf("sort: got %q, want %q", placesSort, places.SortPopular)
	}
	if err := placesCmd.Flags().Set("sort", "random"); err == nil {
		t.Error("expected error for unknown sort")
	}
}

func TestCleanIDs(t *testing.T) {
	tests := []struct {
		in   []string
		want string
	}{
		{nil, ""},
		{[]string{" a", "b ", "a", ""}, "a,b"},
		{[]string{"x", "y", "z"}, "x,y,z"},
	}
	for _, tt := range tests {
		if got := strings.Join(cleanIDs(tt.in), ","); got != tt.want {
			t.Errorf("cleanIDs(%v) = %q, want %q", tt.in, got, tt.want)
		}
	}
}

func TestOnboardUnknownCategorySuggests(t *testing.T) {
	svc, _ := setupCLI(t)

	err := runCLI(t, "onboard", "--categories", "art,parkz,sea")
	if err == nil {
		t.Fatal("expected error for unknown category")
	}
	if !strings.Contains(err.Error(), `did you mean parks`) {
		t.Errorf("error should suggest parks: %v", err)
	}
	if profiles, _ := svc.counts(); profiles != 0 {
		t.Errorf("profile should not be saved, got %d requests", profiles)
	}
}

func TestUnknownFlagSuggests(t *testing.T) {
	_, _ = setupCLI(t)

	err := runCLI(t, "places", "--catgory", "art")
	if err == nil {
		t.Fatal("expected unknown flag error")
	}
	if !strings.Contains(err.Error(), "--category") {
		t.Errorf("error should suggest --category: %v", err)
	}

	err = runCLI(t, "places", "--query", "x")
	if err == nil || !strings.Contains(err.Error(), "--search") {
		t.Errorf("expected hint for --query, got %v", err)
	}
}

func TestRouteThroughLikedPlaces(t *testing.T) {
	_, _ = setupCLI(t)
	if err := runCLI(t, "onboard", "--categories", "art,parks,sea"); err != nil {
		t.Fatalf("onboard: %v", err)
	}
	if err := runCLI(t, "deck", "--like", "p1"); err != nil {
		t.Fatalf("deck --like: %v", err)
	}
	resetFlags(rootCmd)

	// The fake service has no decisions endpoint, so the cached like is used.
	if err := runCLI(t, "route"); err != nil {
		t.Fatalf("route: %v", err)
	}
}
