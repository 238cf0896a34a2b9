package ai

import (
	"bytes"
	"encoding/json"
	"fmt"
	"strings"

	"mapchat/internal/types"
)

// Intent is the structured reading of a prompt: a place lookup, a directions
// request, or both.
type Intent struct {
	// ResponseText is the natural-language reply shown to the user.
	ResponseText string `json:"response"`

	// LocationQuery is the place to search for. Nil when the prompt is not a place
	// lookup; an empty string is also treated as "no query".
	LocationQuery *string `json:"location_query,omitempty"`

	// WantsDirections reports whether the prompt asks for a route.
	WantsDirections bool `json:"directions_query"`

	Origin      *string `json:"origin,omitempty"`
	Destination *string `json:"destination,omitempty"`

	// TravelMode is always one of the known modes; driving when unspecified.
	TravelMode types.TravelMode `json:"travel_mode"`
}

// Location returns the location query or "" when absent.
func (i Intent) Location() string { return deref(i.LocationQuery) }

// Route returns origin and destination, "" for missing values.
func (i Intent) Route() (origin, destination string) {
	return deref(i.Origin), deref(i.Destination)
}

// intentPayload mirrors the JSON object the model is asked to produce.
type intentPayload struct {
	Response        *string  `json:"response"`
	LocationQuery   *string  `json:"location_query"`
	DirectionsQuery flexBool `json:"directions_query"`
	Origin          *string  `json:"origin"`
	Destination     *string  `json:"destination"`
	TravelMode      *string  `json:"travel_mode"`
}

func (p intentPayload) intent() Intent {
	mode, _ := types.ParseTravelMode(deref(p.TravelMode))
	return Intent{
		ResponseText:    deref(p.Response),
		LocationQuery:   p.LocationQuery,
		WantsDirections: bool(p.DirectionsQuery),
		Origin:          p.Origin,
		Destination:     p.Destination,
		TravelMode:      mode,
	}
}

// flexBool accepts a JSON bool, null, or the strings "true"/"false", which small
// local models often emit.
type flexBool bool

func (b *flexBool) UnmarshalJSON(data []byte) error {
	data = bytes.TrimSpace(data)
	if bytes.Equal(data, []byte("null")) {
		*b = false
		return nil
	}
	var v bool
	if err := json.Unmarshal(data, &v); err == nil {
		*b = flexBool(v)
		return nil
	}
	var s string
	if err := json.Unmarshal(data, &s); err != nil {
		return fmt.Errorf("directions_query: expected bool, got %s", data)
	}
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "true":
		*b = true
	case "false", "":
		*b = false
	default:
		return fmt.Errorf("directions_query: expected bool, got %q", s)
	}
	return nil
}

func deref(s *string) string {
	if s == nil {
		return ""
	}
	return *s
}

func strPtr(s string) *string { return &s }
