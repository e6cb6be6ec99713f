package keymap

import (
	"fmt"
	"strings"
)

// HelpBinding is one help line: every key for a command, joined.
type HelpBinding struct {
	Keys        string // e.g. "h / left"
	Description string
}

// HelpFor groups the bindings visible in context by command, in
// registration order, with user overrides appended to their command.
func (r *Registry) HelpFor(context Context) []HelpBinding {
	bindings := r.BindingsForContext(context)

	r.mu.RLock()
	overrides := make(map[Command][]string)
	for s, cmd := range r.overrides {
		if s.ctx == context || s.ctx == ContextGlobal {
			overrides[cmd] = append(overrides[cmd], s.key)
		}
	}
	r.mu.RUnlock()

	var order []Command
	keys := make(map[Command][]string)
	desc := make(map[Command]string)
	for _, b := range bindings {
		if _, seen := keys[b.Command]; !seen {
			order = append(order, b.Command)
			desc[b.Command] = b.Description
		}
		keys[b.Command] = appendUnique(keys[b.Command], b.Key)
	}

	out := make([]HelpBinding, 0, len(order))
	for _, cmd := range order {
		ks := keys[cmd]
		for _, k := range overrides[cmd] {
			ks = appendUnique(ks, k)
		}
		out = append(out, HelpBinding{Keys: strings.Join(ks, " / "), Description: desc[cmd]})
	}
	return out
}

// GenerateHelp renders HelpFor as an aligned text block.
func (r *Registry) GenerateHelp(context Context, title string) string {
	var sb strings.Builder
	sb.WriteString(strings.ToUpper(title))
	sb.WriteString(":\n")
	for _, b := range r.HelpFor(context) {
		sb.WriteString(fmt.Sprintf("  %-18s %s\n", b.Keys, b.Description))
	}
	return sb.String()
}

// FooterHints returns short "key desc" hints for the context's own
// bindings, at most max entries.
func (r *Registry) FooterHints(context Context, max int) []string {
	r.mu.RLock()
	own := append([]Binding(nil), r.ordered[context]...)
	r.mu.RUnlock()

	seen := make(map[Command]bool)
	var hints []string
	for _, b := range own {
		if seen[b.Command] {
			continue
		}
		seen[b.Command] = true
		hints = append(hints, b.Key+" "+strings.ToLower(b.Description))
		if len(hints) == max {
			break
		}
	}
	return hints
}

func appendUnique(list []string, v string) []string {
	for _, s := range list {
		if s == v {
			return list
		}
	}
	return append(list, v)
}
