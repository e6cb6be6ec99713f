// Package keymap maps key presses to named TUI commands per screen context,
// with user overrides taken from the "keys" section of config.json.
package keymap

import (
	"strings"
	"sync"
	"time"

	tea "github.com/charmbracelet/bubbletea"
)

// sequenceTimeout is how long the first key of "g g" waits for the second.
const sequenceTimeout = 500 * time.Millisecond

// Context is the part of the UI that receives keys.
type Context string

const (
	ContextGlobal     Context = "global"
	ContextHome       Context = "home"
	ContextOnboarding Context = "onboarding" // huh form owns most keys
	ContextSwipe      Context = "swipe"
	ContextMap        Context = "map"
	ContextPlaces     Context = "places"
	ContextSearch     Context = "search" // places search input focused
	ContextHelp       Context = "help"
)

// Command is a named action. Names are what config.json refers to.
type Command string

const (
	CmdQuit          Command = "quit"
	CmdToggleHelp    Command = "toggle-help"
	CmdRefresh       Command = "refresh"
	CmdGoHome        Command = "go-home"
	CmdGoSwipe       Command = "go-swipe"
	CmdGoMap         Command = "go-map"
	CmdGoPlaces      Command = "go-places"
	CmdGoOnboarding  Command = "go-onboarding"
	CmdCancel        Command = "cancel"
	CmdCursorDown    Command = "cursor-down"
	CmdCursorUp      Command = "cursor-up"
	CmdCursorTop     Command = "cursor-top"
	CmdCursorBottom  Command = "cursor-bottom"
	CmdHalfPageDown  Command = "half-page-down"
	CmdHalfPageUp    Command = "half-page-up"
	CmdSelect        Command = "select"
	CmdClose         Command = "close"
	CmdSlidePrev     Command = "slide-prev"
	CmdSlideNext     Command = "slide-next"
	CmdNudgeLeft     Command = "nudge-left"
	CmdNudgeRight    Command = "nudge-right"
	CmdRelease       Command = "release"
	CmdLike          Command = "like"
	CmdDislike       Command = "dislike"
	CmdShowAll       Command = "show-all"
	CmdExpandPreview Command = "expand-preview"
	CmdCycleCategory Command = "cycle-category"
	CmdCycleSortMode Command = "cycle-sort-mode"
	CmdSearch        Command = "search"
	CmdSearchConfirm Command = "search-confirm"
	CmdSearchCancel  Command = "search-cancel"
	CmdRoute         Command = "route"
	CmdOpenOnMap     Command = "open-on-map"
)

// Binding maps a key, or a space-separated key sequence, to a command.
type Binding struct {
	Key         string
	Command     Command
	Context     Context
	Description string
}

type slot struct {
	ctx Context
	key string
}

// Registry resolves keys to commands. Lookup tries, in order: an override in
// the active context, a global override, a default in the active context and
// a global default.
type Registry struct {
	mu        sync.RWMutex
	defaults  map[slot]Command
	ordered   map[Context][]Binding
	overrides map[slot]Command

	// first key of an unfinished sequence
	pending   string
	pendingAt time.Time
	now       func() time.Time
}

func NewRegistry() *Registry {
	return &Registry{
		defaults:  make(map[slot]Command),
		ordered:   make(map[Context][]Binding),
		overrides: make(map[slot]Command),
		now:       time.Now,
	}
}

// RegisterBinding adds a default binding. The first binding of a key in a
// context wins.
func (r *Registry) RegisterBinding(b Binding) {
	r.mu.Lock()
	defer r.mu.Unlock()
	s := slot{b.Context, b.Key}
	if _, dup := r.defaults[s]; !dup {
		r.defaults[s] = b.Command
	}
	r.ordered[b.Context] = append(r.ordered[b.Context], b)
}

func (r *Registry) RegisterBindings(bindings []Binding) {
	for _, b := range bindings {
		r.RegisterBinding(b)
	}
}

// SetUserOverride binds key to cmd in context, shadowing the defaults.
func (r *Registry) SetUserOverride(context Context, key string, cmd Command) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.overrides[slot{context, key}] = cmd
}

// HasCommand reports whether any default binding names cmd.
func (r *Registry) HasCommand(cmd Command) bool {
	r.mu.RLock()
	defer r.mu.RUnlock()
	for _, c := range r.defaults {
		if c == cmd {
			return true
		}
	}
	return false
}

// scope lists the contexts visible from active, most specific first.
func scope(active Context) []Context {
	if active == "" || active == ContextGlobal {
		return []Context{ContextGlobal}
	}
	return []Context{active, ContextGlobal}
}

func (r *Registry) resolve(key string, active Context) (Command, bool) {
	for _, table := range []map[slot]Command{r.overrides, r.defaults} {
		for _, ctx := range scope(active) {
			if cmd, ok := table[slot{ctx, key}]; ok {
				return cmd, true
			}
		}
	}
	return "", false
}

// startsSequence reports whether key is the first half of a sequence
// visible from active.
func (r *Registry) startsSequence(key string, active Context) bool {
	prefix := key + " "
	for _, table := range []map[slot]Command{r.overrides, r.defaults} {
		for s := range table {
			if strings.HasPrefix(s.key, prefix) && (s.ctx == active || s.ctx == ContextGlobal) {
				return true
			}
		}
	}
	return false
}

// Lookup resolves key in the active context. The first key of a sequence
// returns no command and is held; a following key that does not complete
// the sequence is resolved on its own.
func (r *Registry) Lookup(msg tea.KeyMsg, active Context) (Command, bool) {
	r.mu.Lock()
	defer r.mu.Unlock()

	key := KeyToString(msg)
	if first := r.takePending(); first != "" {
		if cmd, ok := r.resolve(first+" "+key, active); ok {
			return cmd, true
		}
	}
	if r.startsSequence(key, active) {
		r.pending, r.pendingAt = key, r.now()
		return "", false
	}
	return r.resolve(key, active)
}

// takePending returns and clears a pending key that has not expired.
func (r *Registry) takePending() string {
	k := r.pending
	r.pending = ""
	if k == "" || r.now().Sub(r.pendingAt) >= sequenceTimeout {
		return ""
	}
	return k
}

func (r *Registry) ResetPending() {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.pending = ""
}

func (r *Registry) HasPending() bool {
	return r.PendingKey() != ""
}

// PendingKey is the held first key of a sequence, for display.
func (r *Registry) PendingKey() string {
	r.mu.RLock()
	defer r.mu.RUnlock()
	if r.pending == "" || r.now().Sub(r.pendingAt) >= sequenceTimeout {
		return ""
	}
	return r.pending
}

// BindingsForContext returns the defaults of context in registration order,
// followed by the global ones.
func (r *Registry) BindingsForContext(context Context) []Binding {
	r.mu.RLock()
	defer r.mu.RUnlock()
	var out []Binding
	for _, ctx := range scope(context) {
		out = append(out, r.ordered[ctx]...)
	}
	return out
}

// KeyToString renders msg in binding notation ("space", "alt+x", "ctrl+d").
func KeyToString(msg tea.KeyMsg) string {
	switch msg.Type {
	case tea.KeySpace:
		return "space"
	case tea.KeyRunes:
		if msg.Alt {
			return "alt+" + string(msg.Runes)
		}
		return string(msg.Runes)
	}
	return msg.String()
}

// IsPrintable reports a single printable ASCII rune without modifiers.
func IsPrintable(msg tea.KeyMsg) bool {
	if msg.Type != tea.KeyRunes || msg.Alt || len(msg.Runes) != 1 {
		return false
	}
	c := msg.Runes[0]
	return c >= ' ' && c <= '~'
}
