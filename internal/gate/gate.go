// Package gate decides which screens a visitor may reach before onboarding is
// complete. It never touches storage or the network; callers hand it the
// session as it stands at navigation time.
package gate

import (
	"net/url"
	"strings"

	"github.com/marcus/wayfind/internal/session"
)

// Client-side routes.
const (
	PathHome       = "/"
	PathOnboarding = "/profile/settings"
	PathSwipe      = "/swipe"
	PathMap        = "/map"
	PathPlaces     = "/places"
	PathProfile    = "/profile"
)

// Decision is the outcome of a navigation attempt. A zero RedirectTo means
// the requested path is allowed.
type Decision struct {
	Path       string `json:"path"`
	Allowed    bool   `json:"allowed"`
	RedirectTo string `json:"redirect_to,omitempty"`
}

// Target is where navigation actually lands.
func (d Decision) Target() string {
	if d.Allowed {
		return d.Path
	}
	return d.RedirectTo
}

// Snapshotter exposes the current session. *session.Store satisfies it.
type Snapshotter interface {
	Snapshot() session.State
}

// Decide applies the onboarding rules in order:
//
//  1. graduated visitors (swipeCount >= 3) may go anywhere;
//  2. with categories complete only onboarding and the deck are reachable;
//  3. otherwise only onboarding is reachable.
func Decide(swipeCount, categoryCount int, path string) Decision {
	p := Normalize(path)
	allow := Decision{Path: p, Allowed: true}

	if swipeCount >= session.GraduationSwipes {
		return allow
	}
	if categoryCount >= session.MinCategories {
		if p == PathOnboarding || p == PathSwipe {
			return allow
		}
		return Decision{Path: p, RedirectTo: PathSwipe}
	}
	if p == PathOnboarding {
		return allow
	}
	return Decision{Path: p, RedirectTo: PathOnboarding}
}

// Guard evaluates the rules against the live session. It is meant to run on
// every navigation attempt; nothing is cached between calls.
func Guard(s Snapshotter, path string) Decision {
	st := s.Snapshot()
	return Decide(st.SwipeCount, len(st.SelectedCategories), path)
}

// Normalize reduces a location to its route path: query and fragment are
// dropped, a trailing slash is trimmed and an empty path becomes "/".
func Normalize(path string) string {
	path = strings.TrimSpace(path)
	if u, err := url.Parse(path); err == nil {
		path = u.Path
	} else if i := strings.IndexAny(path, "?#"); i >= 0 {
		path = path[:i]
	}
	if !strings.HasPrefix(path, "/") {
		path = "/" + path
	}
	if len(path) > 1 {
		path = strings.TrimRight(path, "/")
		if path == "" {
			path = "/"
		}
	}
	return path
}
