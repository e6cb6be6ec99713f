package keymap

import (
	"fmt"
	"sort"
)

// ApplyConfig applies user overrides of the form {"context:key": "command"}.
// Entries naming an unknown command are skipped and reported.
func ApplyConfig(r *Registry, overrides map[string]string) []string {
	var skipped []string
	for binding, cmdStr := range overrides {
		ctx, key := parseBinding(binding)
		if ctx == "" || key == "" {
			skipped = append(skipped, fmt.Sprintf("%s: empty context or key", binding))
			continue
		}
		cmd := Command(cmdStr)
		if !r.HasCommand(cmd) {
			skipped = append(skipped, fmt.Sprintf("%s: unknown command %q", binding, cmdStr))
			continue
		}
		r.SetUserOverride(ctx, key, cmd)
	}
	sort.Strings(skipped)
	return skipped
}

// parseBinding splits "context:key". Without a colon the context is global.
func parseBinding(s string) (Context, string) {
	for i := 0; i < len(s); i++ {
		if s[i] == ':' {
			return Context(s[:i]), s[i+1:]
		}
	}
	return ContextGlobal, s
}
