package maps

import (
	"context"
	"strings"

	"go.uber.org/zap"
	"googlemaps.github.io/maps"

	"mapchat/internal/types"
)

// PlacesService handles interactions with the Google Places text search API.
type PlacesService struct {
	client *maps.Client
	logger *zap.Logger
}

// NewPlacesService wraps an existing maps client.
func NewPlacesService(client *maps.Client, logger *zap.Logger) *PlacesService {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &PlacesService{client: client, logger: logger.Named("places")}
}

// Search runs a text search for query. Provider failures and empty result sets
// are not errors: both come back as a web fallback result. Only a blank query
// or a cancelled context return an error.
func (s *PlacesService) Search(ctx context.Context, query string) (LocationResult, error) {
	if strings.TrimSpace(query) == "" {
		return LocationResult{}, ErrEmptyQuery
	}

	resp, err := s.client.TextSearch(ctx, &maps.TextSearchRequest{Query: query})
	if err != nil {
		if ctxErr := ctx.Err(); ctxErr != nil {
			return LocationResult{}, ctxErr
		}
		s.logger.Warn("text search failed, using web fallback",
			zap.String("query", query),
			zap.Error(err),
		)
		providerRequestsTotal.WithLabelValues("search", StatusWebFallback).Inc()
		return NewWebFallback(query), nil
	}

	if len(resp.Results) == 0 {
		s.logger.Info("text search found nothing, using web fallback", zap.String("query", query))
		providerRequestsTotal.WithLabelValues("search", StatusWebFallback).Inc()
		return NewWebFallback(query), nil
	}

	places := make([]Place, 0, len(resp.Results))
	for _, r := range resp.Results {
		places = append(places, toPlace(r))
	}
	providerRequestsTotal.WithLabelValues("search", StatusOK).Inc()
	return NewLocationResult(places, StatusOK), nil
}

func toPlace(r maps.PlacesSearchResult) Place {
	p := Place{
		PlaceID:          r.PlaceID,
		Name:             r.Name,
		FormattedAddress: r.FormattedAddress,
		Geometry:         types.Point{Lat: r.Geometry.Location.Lat, Lng: r.Geometry.Location.Lng},
		Types:            r.Types,
	}
	if p.Types == nil {
		p.Types = []string{}
	}
	if r.Rating > 0 {
		rating := r.Rating
		p.Rating = &rating
	}
	if r.UserRatingsTotal > 0 {
		total := r.UserRatingsTotal
		p.UserRatingsTotal = &total
	}
	for _, ph := range r.Photos {
		p.Photos = append(p.Photos, Photo{
			PhotoReference:   ph.PhotoReference,
			Height:           ph.Height,
			Width:            ph.Width,
			HTMLAttributions: ph.HTMLAttributions,
		})
	}
	return p
}
