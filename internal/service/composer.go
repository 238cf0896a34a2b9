// README: Result composition: turns an extracted intent into the final response.
package service

import (
	"context"
	"strings"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/trace"
	"go.uber.org/zap"

	"mapchat/internal/ai"
	"mapchat/internal/maps"
	"mapchat/internal/types"
)

const tracerName = "mapchat.service"

// MapsClient is the mapping collaborator used by the Composer.
type MapsClient interface {
	Search(ctx context.Context, query string) (maps.LocationResult, error)
	Directions(ctx context.Context, origin, destination string, mode types.TravelMode) (maps.DirectionsResult, error)
	RenderPlace(p maps.Place) (string, error)
	RenderDirections(d maps.DirectionsResult) (string, error)
}

// FinalResponse is returned to the caller of /api/llm. Absent parts encode as null.
type FinalResponse struct {
	Text       string                 `json:"text"`
	Locations  []maps.LocationResult  `json:"locations"`
	Directions *maps.DirectionsResult `json:"directions"`
	MapHTML    *string                `json:"map_html"`
	WebURL     *string                `json:"web_url"`
}

// Composer calls the mapping collaborator for whatever an Intent asks and
// assembles the FinalResponse.
type Composer struct {
	maps   MapsClient
	logger *zap.Logger
}

func NewComposer(client MapsClient, logger *zap.Logger) *Composer {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Composer{maps: client, logger: logger.Named("composer")}
}

// Compose resolves the location query and the directions request of intent.
// A failed search is retried once; a failed directions call is not. When both
// are present, the directions map replaces the place map. A directions result
// with status ERROR is not a failure: the places found are still returned.
func (c *Composer) Compose(ctx context.Context, intent ai.Intent) (*FinalResponse, error) {
	ctx, span := otel.Tracer(tracerName).Start(ctx, "service.Composer.Compose")
	defer span.End()

	resp := &FinalResponse{Text: intent.ResponseText}

	// Whitespace-only queries are skipped; any other query is searched as given.
	if query := intent.Location(); strings.TrimSpace(query) != "" {
		if err := c.composeLocation(ctx, span, query, resp); err != nil {
			return nil, fail(span, err)
		}
	}

	origin, destination := intent.Route()
	if intent.WantsDirections && strings.TrimSpace(origin) != "" && strings.TrimSpace(destination) != "" {
		if err := c.composeDirections(ctx, span, origin, destination, intent.TravelMode, resp); err != nil {
			return nil, fail(span, err)
		}
	}

	return resp, nil
}

func (c *Composer) composeLocation(ctx context.Context, span trace.Span, query string, resp *FinalResponse) error {
	span.SetAttributes(attribute.String("location.query", query))

	result, err := c.maps.Search(ctx, query)
	if err != nil {
		c.logger.Warn("search failed, retrying once", zap.String("query", query), zap.Error(err))
		span.AddEvent("search.retry")
		result, err = c.maps.Search(ctx, query)
		if err != nil {
			c.logger.Error("search retry failed", zap.String("query", query), zap.Error(err))
			return &UpstreamError{Op: "search", Err: err}
		}
	}

	resp.Locations = []maps.LocationResult{result}
	span.SetAttributes(attribute.String("location.status", result.Status))

	switch {
	case len(result.Places) > 0:
		html, err := c.maps.RenderPlace(result.Places[0])
		if err != nil {
			return &UpstreamError{Op: "render place", Err: err}
		}
		resp.MapHTML = &html
	case result.Status == maps.StatusWebFallback && result.WebURL != nil:
		u := *result.WebURL
		resp.WebURL = &u
	}
	return nil
}

func (c *Composer) composeDirections(ctx context.Context, span trace.Span, origin, destination string, mode types.TravelMode, resp *FinalResponse) error {
	if mode == "" {
		mode = types.TravelModeDriving
	}
	span.SetAttributes(attribute.String("directions.mode", string(mode)))

	result, err := c.maps.Directions(ctx, origin, destination, mode)
	if err != nil {
		c.logger.Error("directions failed",
			zap.String("origin", origin),
			zap.String("destination", destination),
			zap.Error(err),
		)
		return &UpstreamError{Op: "directions", Err: err}
	}

	resp.Directions = &result
	span.SetAttributes(attribute.String("directions.status", result.Status))

	if result.HasRoutes() {
		html, err := c.maps.RenderDirections(result)
		if err != nil {
			return &UpstreamError{Op: "render directions", Err: err}
		}
		resp.MapHTML = &html
	}
	return nil
}

func fail(span trace.Span, err error) error {
	span.RecordError(err)
	span.SetStatus(codes.Error, err.Error())
	return err
}
