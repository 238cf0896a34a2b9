// README: Google Maps collaborator: place search, directions and map HTML rendering.
package maps

import (
	"fmt"
	"net/http"

	"go.uber.org/zap"
	"googlemaps.github.io/maps"
)

// Config configures the Google Maps client.
type Config struct {
	APIKey string
	// BaseURL overrides the API host; empty uses the public endpoint.
	BaseURL string
	// HTTPClient overrides the transport; nil uses http.DefaultClient.
	HTTPClient *http.Client
}

// Client bundles place search, directions and rendering behind one value.
type Client struct {
	*PlacesService
	*RouteService
	*Renderer
}

// NewClient creates a Client sharing one underlying maps client.
func NewClient(cfg Config, logger *zap.Logger) (*Client, error) {
	if cfg.APIKey == "" {
		return nil, ErrNoAPIKey
	}
	opts := []maps.ClientOption{maps.WithAPIKey(cfg.APIKey)}
	if cfg.BaseURL != "" {
		opts = append(opts, maps.WithBaseURL(cfg.BaseURL))
	}
	if cfg.HTTPClient != nil {
		opts = append(opts, maps.WithHTTPClient(cfg.HTTPClient))
	}
	client, err := maps.NewClient(opts...)
	if err != nil {
		return nil, fmt.Errorf("failed to create maps client: %w", err)
	}
	if logger == nil {
		logger = zap.NewNop()
	}
	logger = logger.Named("maps")
	return &Client{
		PlacesService: NewPlacesService(client, logger),
		RouteService:  NewRouteService(client, logger),
		Renderer:      NewRenderer(cfg.APIKey),
	}, nil
}
