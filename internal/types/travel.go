// README: Shared value types for travel modes and coordinates.
package types

import "strings"

// TravelMode is the transport used for a directions request.
type TravelMode string

const (
	TravelModeDriving   TravelMode = "driving"
	TravelModeWalking   TravelMode = "walking"
	TravelModeBicycling TravelMode = "bicycling"
	TravelModeTransit   TravelMode = "transit"
)

// ParseTravelMode normalises s to a known mode. Unknown or empty input yields
// driving and ok=false.
func ParseTravelMode(s string) (TravelMode, bool) {
	switch m := TravelMode(strings.ToLower(strings.TrimSpace(s))); m {
	case TravelModeDriving, TravelModeWalking, TravelModeBicycling, TravelModeTransit:
		return m, true
	}
	return TravelModeDriving, false
}

// Point is a WGS84 coordinate.
type Point struct {
	Lat float64 `json:"lat"`
	Lng float64 `json:"lng"`
}
