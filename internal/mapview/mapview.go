// Package mapview coordinates what the map screen shows: which POI is
// selected, whether the side panel lists everything or details one place, and
// the lightweight preview opened by a ?poiId= deep link.
package mapview

import (
	"errors"
	"net/url"

	"github.com/marcus/wayfind/internal/models"
)

// QueryPoiID is the query parameter that deep-links to a POI.
const QueryPoiID = "poiId"

// ErrUnknownPoi is returned when selecting a POI that has not been loaded.
var ErrUnknownPoi = errors.New("unknown poi")

// PanelMode is what the side panel shows.
type PanelMode int

const (
	Closed PanelMode = iota
	ListView
	DetailView
)

func (m PanelMode) String() string {
	switch m {
	case ListView:
		return "list"
	case DetailView:
		return "detail"
	default:
		return "closed"
	}
}

// Marker is the derived look of a POI marker.
type Marker int

const (
	MarkerDefault Marker = iota
	MarkerMine
	MarkerSelected
)

func (m Marker) String() string {
	switch m {
	case MarkerSelected:
		return "selected"
	case MarkerMine:
		return "mine"
	default:
		return "default"
	}
}

// State is the coordinator's full state. LastProcessedPoiID remembers the
// deep link value already acted on so it fires once per value.
type State struct {
	PanelMode          PanelMode `json:"panel_mode"`
	SelectedPoiID      string    `json:"selected_poi_id,omitempty"`
	PreviewPoiID       string    `json:"preview_poi_id,omitempty"`
	LastProcessedPoiID string    `json:"last_processed_poi_id,omitempty"`
}

// Coordinator is not safe for concurrent use; it lives on the UI loop.
type Coordinator struct {
	state State
	pois  []models.Poi
	index map[string]int
	mine  map[string]bool
}

// New returns a closed coordinator with no POIs.
func New() *Coordinator {
	return &Coordinator{index: map[string]int{}, mine: map[string]bool{}}
}

// State returns the current state.
func (c *Coordinator) State() State { return c.state }

// SetPois replaces the known POIs, keeping their order for the list view.
func (c *Coordinator) SetPois(pois []models.Poi) {
	c.pois = append([]models.Poi(nil), pois...)
	c.index = make(map[string]int, len(pois))
	for i, p := range c.pois {
		c.index[p.ID] = i
	}
}

// SetMine marks the POIs the user has already decided on.
func (c *Coordinator) SetMine(decisions []models.Decision) {
	c.mine = models.DecisionIDs(decisions)
}

// Pois returns the known POIs in list order.
func (c *Coordinator) Pois() []models.Poi {
	return append([]models.Poi(nil), c.pois...)
}

// Poi looks up a known POI.
func (c *Coordinator) Poi(id string) (models.Poi, bool) {
	i, ok := c.index[id]
	if !ok {
		return models.Poi{}, false
	}
	return c.pois[i], true
}

// ShowAll opens the list of every POI, leaving any detail view.
func (c *Coordinator) ShowAll() {
	c.state.PanelMode = ListView
	c.state.SelectedPoiID = ""
	c.state.PreviewPoiID = ""
}

// Select opens the detail view for a POI picked from a marker or list row.
func (c *Coordinator) Select(poiID string) error {
	if _, ok := c.index[poiID]; !ok {
		return ErrUnknownPoi
	}
	c.state.PanelMode = DetailView
	c.state.SelectedPoiID = poiID
	c.state.PreviewPoiID = ""
	return nil
}

// Close hides the panel and drops the selection.
func (c *Coordinator) Close() {
	c.state.PanelMode = Closed
	c.state.SelectedPoiID = ""
	c.state.PreviewPoiID = ""
}

// ClosePreview dismisses the deep-link preview.
func (c *Coordinator) ClosePreview() {
	c.state.PreviewPoiID = ""
}

// ExpandPreview turns the preview into the full detail view.
func (c *Coordinator) ExpandPreview() bool {
	id := c.state.PreviewPoiID
	if id == "" {
		return false
	}
	return c.Select(id) == nil
}

// SyncURL reconciles the coordinator with the poiId currently in the URL. It
// is safe to call on every render: a value opens its preview once. An empty
// value forgets the processed marker, but only while nothing is open. A
// value naming a POI that is not loaded yet is left unprocessed so a later
// call after SetPois can act on it. Reports whether the state changed.
func (c *Coordinator) SyncURL(poiID string) bool {
	if poiID == "" {
		if c.state.LastProcessedPoiID == "" || c.isOpen() {
			return false
		}
		c.state.LastProcessedPoiID = ""
		return true
	}
	if poiID == c.state.LastProcessedPoiID {
		return false
	}
	if _, ok := c.index[poiID]; !ok {
		return false
	}
	c.state.PreviewPoiID = poiID
	c.state.LastProcessedPoiID = poiID
	return true
}

func (c *Coordinator) isOpen() bool {
	return c.state.PanelMode != Closed || c.state.PreviewPoiID != ""
}

// MarkerState derives how a POI's marker is drawn: selected beats mine,
// mine beats default.
func (c *Coordinator) MarkerState(poiID string) Marker {
	switch {
	case poiID != "" && (poiID == c.state.SelectedPoiID || poiID == c.state.PreviewPoiID):
		return MarkerSelected
	case c.mine[poiID]:
		return MarkerMine
	default:
		return MarkerDefault
	}
}

// Selected returns the POI in the detail view, if any.
func (c *Coordinator) Selected() (models.Poi, bool) {
	if c.state.PanelMode != DetailView {
		return models.Poi{}, false
	}
	return c.Poi(c.state.SelectedPoiID)
}

// Preview returns the POI in the deep-link preview, if any.
func (c *Coordinator) Preview() (models.Poi, bool) {
	if c.state.PreviewPoiID == "" {
		return models.Poi{}, false
	}
	return c.Poi(c.state.PreviewPoiID)
}

// ParseLocation splits a location such as "/map?poiId=p1" into its path and
// poiId query value.
func ParseLocation(loc string) (path, poiID string) {
	u, err := url.Parse(loc)
	if err != nil {
		return loc, ""
	}
	return u.Path, u.Query().Get(QueryPoiID)
}

// Location builds the map location for a POI deep link.
func Location(poiID string) string {
	if poiID == "" {
		return "/map"
	}
	return "/map?" + url.Values{QueryPoiID: {poiID}}.Encode()
}
