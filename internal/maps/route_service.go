package maps

import (
	"context"
	"fmt"
	"strings"
	"time"

	"go.uber.org/zap"
	"googlemaps.github.io/maps"

	"mapchat/internal/types"
)

// RouteService handles interactions with the Google Directions API.
type RouteService struct {
	client *maps.Client
	logger *zap.Logger
}

// NewRouteService wraps an existing maps client.
func NewRouteService(client *maps.Client, logger *zap.Logger) *RouteService {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &RouteService{client: client, logger: logger.Named("routes")}
}

// Directions returns the routes from origin to destination. A provider failure
// yields an empty ERROR result and no routes yields ZERO_RESULTS; neither is an
// error.
func (s *RouteService) Directions(ctx context.Context, origin, destination string, mode types.TravelMode) (DirectionsResult, error) {
	if strings.TrimSpace(origin) == "" || strings.TrimSpace(destination) == "" {
		return DirectionsResult{}, ErrEmptyEndpoint
	}
	if mode == "" {
		mode = types.TravelModeDriving
	}

	r := &maps.DirectionsRequest{
		Origin:      origin,
		Destination: destination,
		Mode:        maps.Mode(mode),
	}

	routes, _, err := s.client.Directions(ctx, r)
	if err != nil {
		if ctxErr := ctx.Err(); ctxErr != nil {
			return DirectionsResult{}, ctxErr
		}
		s.logger.Warn("directions request failed",
			zap.String("origin", origin),
			zap.String("destination", destination),
			zap.String("mode", string(mode)),
			zap.Error(err),
		)
		providerRequestsTotal.WithLabelValues("directions", StatusError).Inc()
		return DirectionsResult{Routes: []Route{}, Status: StatusError}, nil
	}

	out := DirectionsResult{Routes: make([]Route, 0, len(routes)), Status: StatusOK}
	for _, route := range routes {
		out.Routes = append(out.Routes, toRoute(route))
	}
	if len(out.Routes) == 0 {
		out.Status = StatusZeroResults
	}
	providerRequestsTotal.WithLabelValues("directions", out.Status).Inc()
	return out, nil
}

func toRoute(r maps.Route) Route {
	out := Route{
		Summary:          r.Summary,
		Legs:             make([]Leg, 0, len(r.Legs)),
		OverviewPolyline: r.OverviewPolyline.Points,
		Warnings:         r.Warnings,
		Bounds: Bounds{
			NorthEast: point(r.Bounds.NorthEast),
			SouthWest: point(r.Bounds.SouthWest),
		},
		Copyrights: r.Copyrights,
	}
	if out.Warnings == nil {
		out.Warnings = []string{}
	}
	for _, leg := range r.Legs {
		if leg == nil {
			continue
		}
		l := Leg{
			Distance:      distance(leg.Distance),
			Duration:      duration(leg.Duration),
			StartAddress:  leg.StartAddress,
			EndAddress:    leg.EndAddress,
			StartLocation: point(leg.StartLocation),
			EndLocation:   point(leg.EndLocation),
			Steps:         make([]Step, 0, len(leg.Steps)),
		}
		for _, step := range leg.Steps {
			if step == nil {
				continue
			}
			l.Steps = append(l.Steps, Step{
				Distance:         distance(step.Distance),
				Duration:         duration(step.Duration),
				HTMLInstructions: step.HTMLInstructions,
				Polyline:         step.Polyline.Points,
				StartLocation:    point(step.StartLocation),
				EndLocation:      point(step.EndLocation),
				TravelMode:       step.TravelMode,
			})
		}
		out.Legs = append(out.Legs, l)
	}
	return out
}

func point(ll maps.LatLng) types.Point {
	return types.Point{Lat: ll.Lat, Lng: ll.Lng}
}

func distance(d maps.Distance) TextValue {
	return TextValue{Text: d.HumanReadable, Value: int64(d.Meters)}
}

func duration(d time.Duration) TextValue {
	return TextValue{Text: humanDuration(d), Value: int64(d / time.Second)}
}

// humanDuration formats d the way the Directions API labels durations,
// e.g. "1 hour 5 mins".
func humanDuration(d time.Duration) string {
	mins := int64((d + 30*time.Second) / time.Minute)
	if mins < 1 {
		mins = 1
	}
	days, mins := mins/(24*60), mins%(24*60)
	hours, mins := mins/60, mins%60

	var parts []string
	if days > 0 {
		parts = append(parts, plural(days, "day"))
	}
	if hours > 0 {
		parts = append(parts, plural(hours, "hour"))
	}
	if mins > 0 && days == 0 {
		parts = append(parts, plural(mins, "min"))
	}
	return strings.Join(parts, " ")
}

func plural(n int64, unit string) string {
	if n == 1 {
		return fmt.Sprintf("1 %s", unit)
	}
	return fmt.Sprintf("%d %ss", n, unit)
}
