package keymap

import (
	"testing"

	tea "github.com/charmbracelet/bubbletea"
)

func TestApplyConfig(t *testing.T) {
	r := NewRegistry()
	RegisterDefaults(r)

	skipped := ApplyConfig(r, map[string]string{
		"swipe:j":       "dislike",
		"swipe:k":       "like",
		"global:ctrl+q": "quit",
		"swipe:z":       "teleport",
	})
	if len(skipped) != 1 {
		t.Fatalf("skipped = %v, want only the unknown command", skipped)
	}

	cmd, _ := r.Lookup(tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune{'j'}}, ContextSwipe)
	if cmd != CmdDislike {
		t.Errorf("swipe:j = %s, want dislike", cmd)
	}
	cmd, _ = r.Lookup(tea.KeyMsg{Type: tea.KeyCtrlQ}, ContextPlaces)
	if cmd != CmdQuit {
		t.Errorf("global ctrl+q = %s, want quit", cmd)
	}
	if _, found := r.Lookup(tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune{'z'}}, ContextSwipe); found {
		t.Error("unknown command should not be bound")
	}
}

func TestParseBinding(t *testing.T) {
	tests := []struct {
		input   string
		context Context
		key     string
	}{
		{"swipe:space", ContextSwipe, "space"},
		{"map:esc", ContextMap, "esc"},
		{"global:q", ContextGlobal, "q"},
		{"j", ContextGlobal, "j"}, // no colon, assume global
	}

	for _, tt := range tests {
		t.Run(tt.input, func(t *testing.T) {
			ctx, key := parseBinding(tt.input)
			if ctx != tt.context {
				t.Errorf("parseBinding(%s) context = %s, want %s", tt.input, ctx, tt.context)
			}
			if key != tt.key {
				t.Errorf("parseBinding(%s) key = %s, want %s", tt.input, key, tt.key)
			}
		})
	}
}
