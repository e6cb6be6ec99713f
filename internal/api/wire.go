package api

import "github.com/marcus/wayfind/internal/models"

// The backend has shipped both camelCase and snake_case payloads, and a few
// aliases for ids and images. Each wire type accepts every variant and maps
// onto one model in a single place.

type wirePoi struct {
	UUID string `json:"uuid"`
	ID   string `json:"id"`
	Name string `json:"name"`

	ShortDescription      string `json:"shortDescription"`
	ShortDescriptionSnake string `json:"short_description"`
	LongDescription       string `json:"longDescription"`
	LongDescriptionSnake  string `json:"long_description"`

	Image         string `json:"image"`
	ImageURL      string `json:"imageUrl"`
	ImageURLSnake string `json:"image_url"`

	Popularity float64 `json:"popularity"`

	LocationX      *float64 `json:"locationX"`
	LocationXSnake *float64 `json:"location_x"`
	LocationY      *float64 `json:"locationY"`
	LocationYSnake *float64 `json:"location_y"`

	CategoryID      string `json:"categoryId"`
	CategoryIDSnake string `json:"category_id"`
}

func firstNonEmpty(vals ...string) string {
	for _, v := range vals {
		if v != "" {
			return v
		}
	}
	return ""
}

func firstSet(vals ...*float64) *float64 {
	for _, v := range vals {
		if v != nil {
			return v
		}
	}
	return nil
}

// toPoi maps a wire POI. locationX is latitude and locationY longitude; a
// missing or null coordinate leaves the POI unlocated.
func (w wirePoi) toPoi() models.Poi {
	p := models.Poi{
		ID:         firstNonEmpty(w.UUID, w.ID),
		Name:       w.Name,
		ShortDesc:  firstNonEmpty(w.ShortDescription, w.ShortDescriptionSnake),
		LongDesc:   firstNonEmpty(w.LongDescription, w.LongDescriptionSnake),
		ImageURL:   firstNonEmpty(w.ImageURL, w.ImageURLSnake, w.Image),
		Popularity: w.Popularity,
		CategoryID: firstNonEmpty(w.CategoryID, w.CategoryIDSnake),
	}
	lat, lng := firstSet(w.LocationX, w.LocationXSnake), firstSet(w.LocationY, w.LocationYSnake)
	if lat != nil && lng != nil {
		p = p.WithLocation(*lat, *lng)
	}
	return p
}

func toPois(ws []wirePoi) []models.Poi {
	out := make([]models.Poi, 0, len(ws))
	for _, w := range ws {
		out = append(out, w.toPoi())
	}
	return out
}

type wireCategory struct {
	ID            string `json:"id"`
	UUID          string `json:"uuid"`
	Name          string `json:"name"`
	Label         string `json:"label"`
	ImageURL      string `json:"imageUrl"`
	ImageURLSnake string `json:"image_url"`
}

func (w wireCategory) toCategory() models.Category {
	return models.Category{
		ID:       firstNonEmpty(w.ID, w.UUID),
		Label:    firstNonEmpty(w.Name, w.Label),
		ImageURL: firstNonEmpty(w.ImageURL, w.ImageURLSnake),
	}
}

type profileRequest struct {
	Choices []models.CategoryChoice `json:"choices"`
}

type profileResponse struct {
	UUID          string `json:"uuid"`
	ID            string `json:"id"`
	UserProfileID string `json:"userProfileId"`
}

func (r profileResponse) profileID() string {
	return firstNonEmpty(r.UUID, r.ID, r.UserProfileID)
}

type decisionRequest struct {
	Liked bool `json:"liked"`
}

type wireDecision struct {
	PoiID      string `json:"poiId"`
	PoiIDSnake string `json:"poi_id"`
	Liked      bool   `json:"liked"`
}

func (w wireDecision) toDecision() models.Decision {
	return models.Decision{PoiID: firstNonEmpty(w.PoiID, w.PoiIDSnake), Liked: w.Liked}
}
