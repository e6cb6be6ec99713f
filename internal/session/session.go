// Package session holds the visitor's persisted onboarding state: the profile
// id issued by the backend, the chosen interest categories and the number of
// committed swipe decisions.
package session

import (
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"sort"
	"strconv"
	"strings"
	"sync"
)

// Storage keys. These and their encodings are read by external tooling.
const (
	KeyUserID             = "userId"
	KeySelectedCategories = "selectedCategories"
	KeySwipeCount         = "swipeCount"
)

const (
	// MinCategories is how many categories complete the category step.
	MinCategories = 3
	// GraduationSwipes is how many committed swipes unlock every route.
	GraduationSwipes = 3
)

// ErrNoUser is returned when an action needs a profile id and none is stored.
var ErrNoUser = errors.New("no user profile: complete onboarding first")

// Storage is the durable key/value backend the store writes through.
type Storage interface {
	GetItem(key string) (string, bool, error)
	SetItem(key, value string) error
	RemoveItems(keys ...string) error
}

// State is an immutable view of the session.
type State struct {
	UserID             string   `json:"user_id,omitempty"`
	SelectedCategories []string `json:"selected_categories"`
	SwipeCount         int      `json:"swipe_count"`
}

// HasCategories reports whether enough categories are selected.
func (s State) HasCategories() bool {
	return len(s.SelectedCategories) >= MinCategories
}

// Graduated reports whether the visitor has committed enough swipes.
func (s State) Graduated() bool {
	return s.SwipeCount >= GraduationSwipes
}

// RequireUser returns the user id or ErrNoUser.
func (s State) RequireUser() (string, error) {
	if s.UserID == "" {
		return "", ErrNoUser
	}
	return s.UserID, nil
}

// Store is the single owner of session state. Mutators write storage first
// and only then update memory, so a failed write leaves both unchanged.
type Store struct {
	mu      sync.RWMutex
	storage Storage
	logger  *slog.Logger
	state   State
}

// Open loads the session from storage. Malformed values fall back to their
// defaults and are logged; only storage read failures are returned.
func Open(storage Storage, logger *slog.Logger) (*Store, error) {
	if logger == nil {
		logger = slog.Default()
	}
	s := &Store{storage: storage, logger: logger}

	userID, _, err := storage.GetItem(KeyUserID)
	if err != nil {
		return nil, fmt.Errorf("load %s: %w", KeyUserID, err)
	}
	s.state.UserID = strings.TrimSpace(userID)

	rawCats, ok, err := storage.GetItem(KeySelectedCategories)
	if err != nil {
		return nil, fmt.Errorf("load %s: %w", KeySelectedCategories, err)
	}
	if ok {
		cats, valid := DecodeCategories(rawCats)
		if !valid {
			logger.Warn("session: malformed stored value, using default", "key", KeySelectedCategories, "value", rawCats)
		}
		s.state.SelectedCategories = cats
	}

	rawCount, ok, err := storage.GetItem(KeySwipeCount)
	if err != nil {
		return nil, fmt.Errorf("load %s: %w", KeySwipeCount, err)
	}
	if ok {
		count, valid := DecodeSwipeCount(rawCount)
		if !valid {
			logger.Warn("session: malformed stored value, using default", "key", KeySwipeCount, "value", rawCount)
		}
		s.state.SwipeCount = count
	}

	return s, nil
}

// DecodeSwipeCount parses a stored swipe count. Anything that is not a
// non-negative base-10 integer yields 0 and valid=false.
func DecodeSwipeCount(raw string) (count int, valid bool) {
	n, err := strconv.Atoi(strings.TrimSpace(raw))
	if err != nil || n < 0 {
		return 0, false
	}
	return n, true
}

// DecodeCategories parses a stored JSON array of category ids. Anything that
// is not a JSON array yields an empty set and valid=false. Non-string entries
// are dropped.
func DecodeCategories(raw string) (ids []string, valid bool) {
	var items []any
	if err := json.Unmarshal([]byte(raw), &items); err != nil || items == nil {
		return nil, strings.TrimSpace(raw) == "[]"
	}
	strs := make([]string, 0, len(items))
	valid = true
	for _, item := range items {
		s, ok := item.(string)
		if !ok {
			valid = false
			continue
		}
		strs = append(strs, s)
	}
	return normalizeCategories(strs), valid
}

// EncodeCategories renders category ids the way they are stored.
func EncodeCategories(ids []string) string {
	norm := normalizeCategories(ids)
	if norm == nil {
		norm = []string{}
	}
	data, _ := json.Marshal(norm)
	return string(data)
}

// normalizeCategories dedupes and sorts ids, dropping blanks.
func normalizeCategories(ids []string) []string {
	seen := make(map[string]bool, len(ids))
	var out []string
	for _, id := range ids {
		id = strings.TrimSpace(id)
		if id == "" || seen[id] {
			continue
		}
		seen[id] = true
		out = append(out, id)
	}
	sort.Strings(out)
	return out
}

// Snapshot returns a copy of the current state.
func (s *Store) Snapshot() State {
	s.mu.RLock()
	defer s.mu.RUnlock()
	st := s.state
	st.SelectedCategories = append([]string(nil), s.state.SelectedCategories...)
	return st
}

// UserID returns the stored profile id, or "".
func (s *Store) UserID() string {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.state.UserID
}

// SwipeCount returns the committed swipe count.
func (s *Store) SwipeCount() int {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.state.SwipeCount
}

// SetUserID stores the profile id. An empty id removes it.
func (s *Store) SetUserID(id string) error {
	id = strings.TrimSpace(id)

	s.mu.Lock()
	defer s.mu.Unlock()

	var err error
	if id == "" {
		err = s.storage.RemoveItems(KeyUserID)
	} else {
		err = s.storage.SetItem(KeyUserID, id)
	}
	if err != nil {
		return fmt.Errorf("persist %s: %w", KeyUserID, err)
	}
	s.state.UserID = id
	return nil
}

// SetSelectedCategories replaces the selected category set.
func (s *Store) SetSelectedCategories(ids []string) error {
	norm := normalizeCategories(ids)

	s.mu.Lock()
	defer s.mu.Unlock()

	if err := s.storage.SetItem(KeySelectedCategories, EncodeCategories(norm)); err != nil {
		return fmt.Errorf("persist %s: %w", KeySelectedCategories, err)
	}
	s.state.SelectedCategories = norm
	return nil
}

// IncrementSwipeCount adds exactly one committed swipe and returns the new count.
func (s *Store) IncrementSwipeCount() (int, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	next := s.state.SwipeCount + 1
	if err := s.storage.SetItem(KeySwipeCount, strconv.Itoa(next)); err != nil {
		return s.state.SwipeCount, fmt.Errorf("persist %s: %w", KeySwipeCount, err)
	}
	s.state.SwipeCount = next
	return next, nil
}

// Reset clears every persisted key and restores the defaults.
func (s *Store) Reset() error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if err := s.storage.RemoveItems(KeyUserID, KeySelectedCategories, KeySwipeCount); err != nil {
		return fmt.Errorf("reset session: %w", err)
	}
	s.state = State{}
	s.logger.Info("session: reset")
	return nil
}
