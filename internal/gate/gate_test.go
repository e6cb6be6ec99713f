package gate

import (
	"testing"

	"github.com/marcus/wayfind/internal/session"
)

type fixedSession session.State

func (f fixedSession) Snapshot() session.State { return session.State(f) }

func TestDecide(t *testing.T) {
	tests := []struct {
		name       string
		swipes     int
		cats       int
		path       string
		wantAllow  bool
		wantTarget string
	}{
		{"fresh visitor to deck", 0, 0, "/swipe", false, PathOnboarding},
		{"fresh visitor to onboarding", 0, 0, "/profile/settings", true, PathOnboarding},
		{"fresh visitor to home", 0, 2, "/", false, PathOnboarding},
		{"categories done, home", 0, 3, "/", false, PathSwipe},
		{"categories done, deck", 1, 3, "/swipe", true, PathSwipe},
		{"categories done, onboarding", 2, 4, "/profile/settings", true, PathOnboarding},
		{"categories done, map", 2, 3, "/map?poiId=p1", false, PathSwipe},
		{"graduated, no categories", 5, 0, "/places", true, PathPlaces},
		{"graduated exactly", 3, 0, "/map", true, PathMap},
		{"trailing slash", 0, 0, "/profile/settings/", true, PathOnboarding},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			d := Decide(tt.swipes, tt.cats, tt.path)
			if d.Allowed != tt.wantAllow {
				t.Errorf("Allowed = %v, want %v (%+v)", d.Allowed, tt.wantAllow, d)
			}
			if d.Target() != tt.wantTarget {
				t.Errorf("Target = %q, want %q", d.Target(), tt.wantTarget)
			}
		})
	}
}

func TestDecideIsPure(t *testing.T) {
	for i := 0; i < 3; i++ {
		if got := Decide(1, 3, "/places"); got != (Decision{Path: "/places", RedirectTo: PathSwipe}) {
			t.Fatalf("run %d: got %+v", i, got)
		}
	}
}

func TestGraduationNeverRelocks(t *testing.T) {
	paths := []string{"/", "/swipe", "/map", "/places", "/profile", "/profile/settings", "/reels", "/unknown"}
	for swipes := session.GraduationSwipes; swipes < 10; swipes++ {
		for cats := 0; cats < 5; cats++ {
			for _, p := range paths {
				if d := Decide(swipes, cats, p); !d.Allowed {
					t.Fatalf("Decide(%d, %d, %q) = %+v, want allow", swipes, cats, p, d)
				}
			}
		}
	}
}

func TestGuardReadsLiveSession(t *testing.T) {
	st := fixedSession{SelectedCategories: []string{"a", "b", "c"}}
	if d := Guard(st, "/"); d.Target() != PathSwipe {
		t.Fatalf("Guard = %+v, want redirect to deck", d)
	}

	st.SwipeCount = 3
	if d := Guard(st, "/"); !d.Allowed {
		t.Fatalf("Guard = %+v, want allow after graduation", d)
	}
}

func TestNormalize(t *testing.T) {
	tests := map[string]string{
		"":                  "/",
		"/":                 "/",
		"swipe":             "/swipe",
		"/map?poiId=1":      "/map",
		"/places/":          "/places",
		"/profile#top":      "/profile",
		" /swipe ":          "/swipe",
		"/profile/settings": "/profile/settings",
	}
	for in, want := range tests {
		if got := Normalize(in); got != want {
			t.Errorf("Normalize(%q) = %q, want %q", in, got, want)
		}
	}
}
