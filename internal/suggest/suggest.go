// Package suggest finds near misses for mistyped flags, config keys and
// category ids using Levenshtein distance.
package suggest

import (
	"sort"
	"strings"
)

// levenshtein is the edit distance between a and b, computed over two rows.
func levenshtein(a, b string) int {
	if a == "" {
		return len(b)
	}
	if b == "" {
		return len(a)
	}

	prev := make([]int, len(b)+1)
	cur := make([]int, len(b)+1)
	for j := range prev {
		prev[j] = j
	}
	for i := 1; i <= len(a); i++ {
		cur[0] = i
		for j := 1; j <= len(b); j++ {
			cost := 1
			if a[i-1] == b[j-1] {
				cost = 0
			}
			cur[j] = min(prev[j]+1, cur[j-1]+1, prev[j-1]+cost)
		}
		prev, cur = cur, prev
	}
	return prev[len(b)]
}

// Closest returns up to three candidates near unknown, best first. Matching
// ignores case and leading dashes. A candidate qualifies within three edits
// or half the input's length, whichever is larger.
func Closest(unknown string, candidates []string) []string {
	norm := func(s string) string { return strings.ToLower(strings.TrimLeft(s, "-")) }
	u := norm(unknown)
	maxDist := max(3, len(u)/2)

	type scored struct {
		value string
		dist  int
	}
	var hits []scored
	for _, c := range candidates {
		if d := levenshtein(u, norm(c)); d <= maxDist {
			hits = append(hits, scored{c, d})
		}
	}
	sort.SliceStable(hits, func(i, j int) bool { return hits[i].dist < hits[j].dist })

	var out []string
	for i := 0; i < len(hits) && i < 3; i++ {
		out = append(out, hits[i].value)
	}
	return out
}

// flagAliases maps flags people commonly try to the ones wayfind has.
var flagAliases = map[string]string{
	"cat":        "--category",
	"categories": "--category (places) or --categories (onboard)",
	"filter":     "--category or --search",
	"query":      "--search, -s",
	"q":          "--search, -s",
	"order":      "--sort",
	"id":         "--poi (map) or --like/--dislike (deck)",
	"place":      "--poi",
	"yes":        "--like",
	"no":         "--dislike",
	"pass":       "--dislike",
	"n":          "--limit",
	"count":      "--limit",
	"version":    "use: wayfind version",
	"v":          "use: wayfind version",
}

// FlagHint returns a hint for a commonly misused flag, or "".
func FlagHint(flag string) string {
	return flagAliases[strings.ToLower(strings.TrimLeft(flag, "-"))]
}
