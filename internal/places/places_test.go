package places

import (
	"math"
	"reflect"
	"testing"

	"github.com/marcus/wayfind/internal/models"
)

func samplePois() []models.Poi {
	return []models.Poi{
		{ID: "1", Name: "Opera Nova", ShortDesc: "Theatre on the river", CategoryID: "culture", Popularity: 7},
		{ID: "2", Name: "granary island", ShortDesc: "Old warehouses", CategoryID: "history", Popularity: 9},
		{ID: "3", Name: "Archer", ShortDesc: "Statue by the river", CategoryID: "art", Popularity: 7},
		{ID: "4", Name: "Mill Island", ShortDesc: "Park", CategoryID: "history", Popularity: 3},
	}
}

func ids(pois []models.Poi) []string {
	out := make([]string, 0, len(pois))
	for _, p := range pois {
		out = append(out, p.ID)
	}
	return out
}

func TestFilter(t *testing.T) {
	tests := []struct {
		name string
		q    Query
		want []string
	}{
		{"everything in input order", Query{}, []string{"1", "2", "3", "4"}},
		{"all category", Query{CategoryID: AllCategories}, []string{"1", "2", "3", "4"}},
		{"one category", Query{CategoryID: "history"}, []string{"2", "4"}},
		{"search name case-insensitive", Query{Search: "ISLAND"}, []string{"2", "4"}},
		{"search short description", Query{Search: "river"}, []string{"1", "3"}},
		{"popular is stable", Query{Sort: SortPopular}, []string{"2", "1", "3", "4"}},
		{"by name", Query{Sort: SortName}, []string{"3", "2", "4", "1"}},
		{"combined", Query{CategoryID: "history", Sort: SortPopular, Search: "island"}, []string{"2", "4"}},
		{"no match", Query{CategoryID: "food"}, []string{}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := ids(Filter(samplePois(), tt.q))
			if !reflect.DeepEqual(got, tt.want) {
				t.Errorf("Filter = %v, want %v", got, tt.want)
			}
		})
	}
}

func TestFilterDoesNotReorderInput(t *testing.T) {
	in := samplePois()
	Filter(in, Query{Sort: SortName})
	if got := ids(in); !reflect.DeepEqual(got, []string{"1", "2", "3", "4"}) {
		t.Fatalf("input reordered: %v", got)
	}
}

func TestSortValue(t *testing.T) {
	var s Sort
	if s.String() != "default" {
		t.Errorf("zero Sort = %q", s.String())
	}
	if err := s.Set("Popular"); err != nil || s != SortPopular {
		t.Errorf("Set(Popular) = %v, %q", err, s)
	}
	if err := s.Set("newest"); err == nil {
		t.Errorf("Set(newest) should fail")
	}
	if s.Next() != SortName || SortName.Next() != SortDefault {
		t.Errorf("Next cycle broken")
	}
}

func TestCategories(t *testing.T) {
	got := Categories(samplePois())
	if want := []string{"art", "culture", "history"}; !reflect.DeepEqual(got, want) {
		t.Fatalf("Categories = %v, want %v", got, want)
	}
}

func TestRouteURL(t *testing.T) {
	a := models.Poi{ID: "a"}.WithLocation(53.123, 18.0084)
	b := models.Poi{ID: "b"}.WithLocation(53.1, 18)
	c := models.Poi{ID: "c"}.WithLocation(53.2, 18.1)
	d := models.Poi{ID: "d"}.WithLocation(53.3, 18.2)
	origin := models.Poi{ID: "o"}.WithLocation(0, 0)
	missing := models.Poi{ID: "x"}
	nan := models.Poi{ID: "n"}.WithLocation(math.NaN(), 1)

	tests := []struct {
		name string
		pois []models.Poi
		want string
	}{
		{"none", nil, ""},
		{"no coordinates", []models.Poi{missing, nan}, ""},
		{"single", []models.Poi{missing, a}, "https://www.google.com/maps/dir/?api=1&destination=53.123,18.0084"},
		{"zero is a place", []models.Poi{origin}, "https://www.google.com/maps/dir/?api=1&destination=0,0"},
		{"two", []models.Poi{a, b}, "https://www.google.com/maps/dir/?api=1&origin=53.123%2C18.0084&destination=53.1%2C18"},
		{"four", []models.Poi{a, b, missing, c, d},
			"https://www.google.com/maps/dir/?api=1&origin=53.123%2C18.0084&destination=53.3%2C18.2&waypoints=53.1%2C18%7C53.2%2C18.1"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := RouteURL(tt.pois); got != tt.want {
				t.Errorf("RouteURL =\n  %s\nwant\n  %s", got, tt.want)
			}
		})
	}
}
