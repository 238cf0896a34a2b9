package maps

import (
	"net/url"

	"mapchat/internal/types"
)

// Result status values. OK and ZERO_RESULTS mirror the provider; WEB_FALLBACK
// and ERROR are produced locally when the provider cannot be used.
const (
	StatusOK          = "OK"
	StatusZeroResults = "ZERO_RESULTS"
	StatusWebFallback = "WEB_FALLBACK"
	StatusError       = "ERROR"
)

const webSearchBase = "https://www.google.com/maps/search/"

// Place is a single search hit.
type Place struct {
	PlaceID          string      `json:"place_id"`
	Name             string      `json:"name"`
	FormattedAddress string      `json:"formatted_address"`
	Geometry         types.Point `json:"geometry"`
	Types            []string    `json:"types"`
	Rating           *float32    `json:"rating"`
	UserRatingsTotal *int        `json:"user_ratings_total"`
	Photos           []Photo     `json:"photos"`
}

// Photo references an image of a place, fetched separately through the Place
// Photos API.
type Photo struct {
	PhotoReference   string   `json:"photo_reference"`
	Height           int      `json:"height"`
	Width            int      `json:"width"`
	HTMLAttributions []string `json:"html_attributions"`
}

// LocationResult is the outcome of a place search. WebURL is set exactly when
// Status is StatusWebFallback, in which case Places is empty.
type LocationResult struct {
	Places []Place `json:"places"`
	Status string  `json:"status"`
	WebURL *string `json:"web_url"`
}

// NewLocationResult builds a non-fallback result. An empty places list with an
// OK status is reported as ZERO_RESULTS.
func NewLocationResult(places []Place, status string) LocationResult {
	if places == nil {
		places = []Place{}
	}
	if status == StatusWebFallback {
		status = StatusError
	}
	if status == StatusOK && len(places) == 0 {
		status = StatusZeroResults
	}
	return LocationResult{Places: places, Status: status}
}

// NewWebFallback builds a result that points at the public web search page for
// query instead of carrying structured places.
func NewWebFallback(query string) LocationResult {
	u := WebSearchURL(query)
	return LocationResult{Places: []Place{}, Status: StatusWebFallback, WebURL: &u}
}

// WebSearchURL returns the public maps search page for query, spaces as '+'.
func WebSearchURL(query string) string {
	return webSearchBase + url.QueryEscape(query)
}

// TextValue pairs a human readable quantity with its numeric value
// (meters or seconds).
type TextValue struct {
	Text  string `json:"text"`
	Value int64  `json:"value"`
}

// Bounds is the viewport enclosing a route.
type Bounds struct {
	NorthEast types.Point `json:"northeast"`
	SouthWest types.Point `json:"southwest"`
}

type Step struct {
	Distance         TextValue   `json:"distance"`
	Duration         TextValue   `json:"duration"`
	HTMLInstructions string      `json:"html_instructions"`
	Polyline         string      `json:"polyline"`
	StartLocation    types.Point `json:"start_location"`
	EndLocation      types.Point `json:"end_location"`
	TravelMode       string      `json:"travel_mode"`
}

type Leg struct {
	Distance      TextValue   `json:"distance"`
	Duration      TextValue   `json:"duration"`
	StartAddress  string      `json:"start_address"`
	EndAddress    string      `json:"end_address"`
	StartLocation types.Point `json:"start_location"`
	EndLocation   types.Point `json:"end_location"`
	Steps         []Step      `json:"steps"`
}

type Route struct {
	Summary          string   `json:"summary"`
	Legs             []Leg    `json:"legs"`
	OverviewPolyline string   `json:"overview_polyline"`
	Warnings         []string `json:"warnings"`
	Bounds           Bounds   `json:"bounds"`
	Copyrights       string   `json:"copyrights"`
}

// DirectionsResult holds the routes found between two places, best first.
type DirectionsResult struct {
	Routes []Route `json:"routes"`
	Status string  `json:"status"`
}

// HasRoutes reports whether at least one route was found.
func (d DirectionsResult) HasRoutes() bool { return len(d.Routes) > 0 }
