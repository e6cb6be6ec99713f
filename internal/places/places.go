// Package places filters and orders the browsable POI list and turns a
// selection of POIs into a Google Maps route.
package places

import (
	"fmt"
	"net/url"
	"sort"
	"strings"

	"github.com/marcus/wayfind/internal/models"
)

// AllCategories disables category filtering.
const AllCategories = "all"

// Sort orders the places list. It implements pflag.Value.
type Sort string

const (
	SortDefault Sort = "default"
	SortPopular Sort = "popular"
	SortName    Sort = "name"
)

// SortModes lists the accepted sort values in display order.
var SortModes = []Sort{SortDefault, SortPopular, SortName}

func (s Sort) String() string {
	if s == "" {
		return string(SortDefault)
	}
	return string(s)
}

func (s *Sort) Set(v string) error {
	v = strings.ToLower(strings.TrimSpace(v))
	for _, m := range SortModes {
		if string(m) == v {
			*s = m
			return nil
		}
	}
	return fmt.Errorf("invalid sort %q (want default, popular or name)", v)
}

func (s *Sort) Type() string { return "sort" }

// Next cycles to the following sort mode.
func (s Sort) Next() Sort {
	for i, m := range SortModes {
		if m == s {
			return SortModes[(i+1)%len(SortModes)]
		}
	}
	return SortDefault
}

// Query narrows and orders a POI list.
type Query struct {
	CategoryID string
	Search     string
	Sort       Sort
}

// Filter applies q to pois without modifying the input.
func Filter(pois []models.Poi, q Query) []models.Poi {
	search := strings.ToLower(strings.TrimSpace(q.Search))
	cat := strings.TrimSpace(q.CategoryID)

	out := make([]models.Poi, 0, len(pois))
	for _, p := range pois {
		if cat != "" && cat != AllCategories && p.CategoryID != cat {
			continue
		}
		if search != "" &&
			!strings.Contains(strings.ToLower(p.Name), search) &&
			!strings.Contains(strings.ToLower(p.ShortDesc), search) {
			continue
		}
		out = append(out, p)
	}

	switch q.Sort {
	case SortPopular:
		sort.SliceStable(out, func(i, j int) bool { return out[i].Popularity > out[j].Popularity })
	case SortName:
		sort.SliceStable(out, func(i, j int) bool {
			return strings.ToLower(out[i].Name) < strings.ToLower(out[j].Name)
		})
	}
	return out
}

// Categories returns the distinct category ids present in pois, sorted.
func Categories(pois []models.Poi) []string {
	seen := map[string]bool{}
	var ids []string
	for _, p := range pois {
		if p.CategoryID == "" || seen[p.CategoryID] {
			continue
		}
		seen[p.CategoryID] = true
		ids = append(ids, p.CategoryID)
	}
	sort.Strings(ids)
	return ids
}

const routeBase = "https://www.google.com/maps/dir/"

// RouteURL builds a Google Maps directions link through pois in the given
// order. POIs without coordinates are skipped; with none left the result is
// empty. A single point becomes the destination. With several, the first is
// the origin, the last the destination and the rest are waypoints.
func RouteURL(pois []models.Poi) string {
	var pts []string
	for _, p := range pois {
		if !p.HasLocation() {
			continue
		}
		pts = append(pts, p.Coordinates())
	}

	switch len(pts) {
	case 0:
		return ""
	case 1:
		return routeBase + "?api=1&destination=" + pts[0]
	}

	q := "api=1" +
		"&origin=" + url.QueryEscape(pts[0]) +
		"&destination=" + url.QueryEscape(pts[len(pts)-1])
	if mid := pts[1 : len(pts)-1]; len(mid) > 0 {
		q += "&waypoints=" + url.QueryEscape(strings.Join(mid, "|"))
	}
	return routeBase + "?" + q
}
