package models

import (
	"fmt"
	"math"
	"strings"
	"time"
)

// Poi is a point of interest as the rest of the client sees it.
// Every feature works on this one shape; boundary code maps into it.
// Located is false when the backend sent no coordinates.
type Poi struct {
	ID         string  `json:"id"`
	Name       string  `json:"name"`
	ShortDesc  string  `json:"short_description,omitempty"`
	LongDesc   string  `json:"long_description,omitempty"`
	ImageURL   string  `json:"image_url,omitempty"`
	Popularity float64 `json:"popularity"`
	Lat        float64 `json:"lat"`
	Lng        float64 `json:"lng"`
	Located    bool    `json:"located"`
	CategoryID string  `json:"category_id,omitempty"`
}

// HasLocation reports whether the POI carries usable coordinates. 0,0 is a
// real point; missing or NaN coordinates are not.
func (p Poi) HasLocation() bool {
	return p.Located && !math.IsNaN(p.Lat) && !math.IsNaN(p.Lng)
}

// WithLocation returns p placed at lat,lng.
func (p Poi) WithLocation(lat, lng float64) Poi {
	p.Lat, p.Lng, p.Located = lat, lng, true
	return p
}

// Coordinates formats the location as "lat,lng".
func (p Poi) Coordinates() string {
	return fmt.Sprintf("%g,%g", p.Lat, p.Lng)
}

// Description returns the long description, falling back to the short one.
func (p Poi) Description() string {
	if strings.TrimSpace(p.LongDesc) != "" {
		return p.LongDesc
	}
	return p.ShortDesc
}

// Card is the display form of a POI inside the swipe deck and carousels.
type Card struct {
	PoiID       string `json:"poi_id"`
	Title       string `json:"title"`
	Subtitle    string `json:"subtitle,omitempty"`
	Description string `json:"description,omitempty"`
	ImageURL    string `json:"image_url,omitempty"`
	Location    string `json:"location,omitempty"`
}

// CardFromPoi maps a POI onto a deck card.
func CardFromPoi(p Poi) Card {
	c := Card{
		PoiID:       p.ID,
		Title:       p.Name,
		Subtitle:    p.ShortDesc,
		Description: p.Description(),
		ImageURL:    p.ImageURL,
	}
	if p.HasLocation() {
		c.Location = p.Coordinates()
	}
	return c
}

// CardsFromPois maps a slice of POIs onto cards, preserving order.
func CardsFromPois(pois []Poi) []Card {
	cards := make([]Card, 0, len(pois))
	for _, p := range pois {
		cards = append(cards, CardFromPoi(p))
	}
	return cards
}

// Category is an interest tag a user can pick during onboarding.
type Category struct {
	ID       string `json:"id"`
	Label    string `json:"label"`
	ImageURL string `json:"image_url,omitempty"`
}

// ChoiceSelected is the choice value sent for a picked category.
const ChoiceSelected = "1"

// CategoryChoice is one entry of a profile create/update request.
type CategoryChoice struct {
	CategoryID string `json:"category_id"`
	Choice     string `json:"choice"`
}

// ChoicesFromCategories builds profile choices for the given category ids.
func ChoicesFromCategories(ids []string) []CategoryChoice {
	choices := make([]CategoryChoice, 0, len(ids))
	for _, id := range ids {
		choices = append(choices, CategoryChoice{CategoryID: id, Choice: ChoiceSelected})
	}
	return choices
}

// Decision is a user's like/dislike verdict on a POI.
type Decision struct {
	PoiID     string    `json:"poi_id"`
	Liked     bool      `json:"liked"`
	DecidedAt time.Time `json:"decided_at,omitzero"`
}

// DecisionIDs returns the set of POI ids the user has decided on.
func DecisionIDs(decisions []Decision) map[string]bool {
	ids := make(map[string]bool, len(decisions))
	for _, d := range decisions {
		ids[d.PoiID] = true
	}
	return ids
}

// LikedIDs returns the POI ids the user liked, in decision order.
func LikedIDs(decisions []Decision) []string {
	var ids []string
	for _, d := range decisions {
		if d.Liked {
			ids = append(ids, d.PoiID)
		}
	}
	return ids
}
