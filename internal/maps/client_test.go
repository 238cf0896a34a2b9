package maps

import (
	"context"
	"net/http"
	"net/http/httptest"
	"net/url"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap/zaptest"

	"mapchat/internal/types"
)

const textSearchOK = `{
  "status": "OK",
  "results": [{
    "place_id": "ChIJLU7jZClu5kcR4PcOOO6p3I0",
    "name": "Eiffel Tower",
    "formatted_address": "Champ de Mars, 5 Av. Anatole France, 75007 Paris, France",
    "geometry": {"location": {"lat": 48.8584, "lng": 2.2945}},
    "types": ["tourist_attraction", "point_of_interest"],
    "rating": 4.7,
    "user_ratings_total": 345000,
    "photos": [{
      "photo_reference": "AeJbb3fphoto",
      "height": 3024,
      "width": 4032,
      "html_attributions": ["<a href=\"https://maps.google.com/maps/contrib/1\">A Visitor</a>"]
    }]
  }]
}`

const directionsOK = `{
  "status": "OK",
  "geocoded_waypoints": [],
  "routes": [{
    "summary": "Tol Cipularang",
    "copyrights": "Map data",
    "warnings": [],
    "overview_polyline": {"points": "overview"},
    "bounds": {"northeast": {"lat": -6.1, "lng": 107.7}, "southwest": {"lat": -6.95, "lng": 106.8}},
    "legs": [{
      "distance": {"text": "151 km", "value": 151000},
      "duration": {"text": "2 hours 35 mins", "value": 9300},
      "start_address": "Jakarta, Indonesia",
      "end_address": "Bandung, Indonesia",
      "start_location": {"lat": -6.2, "lng": 106.8},
      "end_location": {"lat": -6.9, "lng": 107.6},
      "steps": [{
        "html_instructions": "Head <b>east</b>",
        "distance": {"text": "1.2 km", "value": 1200},
        "duration": {"text": "3 mins", "value": 180},
        "start_location": {"lat": -6.2, "lng": 106.8},
        "end_location": {"lat": -6.21, "lng": 106.81},
        "polyline": {"points": "step"},
        "travel_mode": "DRIVING"
      }]
    }]
  }]
}`

// newTestClient points a Client at a fake Maps REST API serving fixed bodies
// per path suffix.
func newTestClient(t *testing.T, bodies map[string]string) (*Client, *requestLog) {
	t.Helper()
	seen := &requestLog{}
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		seen.add(r)
		for suffix, body := range bodies {
			if strings.HasSuffix(r.URL.Path, suffix) {
				w.Header().Set("Content-Type", "application/json")
				_, _ = w.Write([]byte(body))
				return
			}
		}
		http.NotFound(w, r)
	}))
	t.Cleanup(srv.Close)

	c, err := NewClient(Config{APIKey: "test-key", BaseURL: srv.URL}, zaptest.NewLogger(t))
	require.NoError(t, err)
	return c, seen
}

type requestLog struct {
	mu   sync.Mutex
	urls []*url.URL
}

func (l *requestLog) add(r *http.Request) {
	l.mu.Lock()
	defer l.mu.Unlock()
	l.urls = append(l.urls, r.URL)
}

func (l *requestLog) all() []*url.URL {
	l.mu.Lock()
	defer l.mu.Unlock()
	return append([]*url.URL(nil), l.urls...)
}

func TestNewClient_RequiresKey(t *testing.T) {
	_, err := NewClient(Config{}, nil)
	assert.ErrorIs(t, err, ErrNoAPIKey)
}

func TestSearch_OK(t *testing.T) {
	c, seen := newTestClient(t, map[string]string{"/place/textsearch/json": textSearchOK})

	res, err := c.Search(context.Background(), "the Eiffel Tower")
	require.NoError(t, err)

	assert.Equal(t, StatusOK, res.Status)
	assert.Nil(t, res.WebURL)
	require.Len(t, res.Places, 1)
	p := res.Places[0]
	assert.Equal(t, "Eiffel Tower", p.Name)
	assert.Equal(t, types.Point{Lat: 48.8584, Lng: 2.2945}, p.Geometry)
	require.NotNil(t, p.Rating)
	assert.InDelta(t, 4.7, *p.Rating, 0.001)
	require.NotNil(t, p.UserRatingsTotal)
	assert.Equal(t, 345000, *p.UserRatingsTotal)
	require.Len(t, p.Photos, 1)
	assert.Equal(t, Photo{
		PhotoReference:   "AeJbb3fphoto",
		Height:           3024,
		Width:            4032,
		HTMLAttributions: []string{`<a href="https://maps.google.com/maps/contrib/1">A Visitor</a>`},
	}, p.Photos[0])

	urls := seen.all()
	require.Len(t, urls, 1)
	assert.Equal(t, "the Eiffel Tower", urls[0].Query().Get("query"))
}

func TestSearch_ZeroResultsFallsBackToWeb(t *testing.T) {
	c, _ := newTestClient(t, map[string]string{
		"/place/textsearch/json": `{"status": "ZERO_RESULTS", "results": []}`,
	})

	res, err := c.Search(context.Background(), "Where is the Eiffel Tower")
	require.NoError(t, err)

	assert.Equal(t, StatusWebFallback, res.Status)
	assert.Empty(t, res.Places)
	require.NotNil(t, res.WebURL)
	assert.Equal(t, "https://www.google.com/maps/search/Where+is+the+Eiffel+Tower", *res.WebURL)
}

func TestSearch_ProviderErrorFallsBackToWeb(t *testing.T) {
	c, _ := newTestClient(t, map[string]string{
		"/place/textsearch/json": `{"status": "REQUEST_DENIED", "error_message": "The provided API key is invalid."}`,
	})

	res, err := c.Search(context.Background(), "Times Square")
	require.NoError(t, err)
	assert.Equal(t, StatusWebFallback, res.Status)
	require.NotNil(t, res.WebURL)
	assert.Equal(t, "https://www.google.com/maps/search/Times+Square", *res.WebURL)
}

func TestSearch_Errors(t *testing.T) {
	c, seen := newTestClient(t, map[string]string{"/place/textsearch/json": textSearchOK})

	_, err := c.Search(context.Background(), "   ")
	assert.ErrorIs(t, err, ErrEmptyQuery)

	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	_, err = c.Search(ctx, "Monas")
	assert.ErrorIs(t, err, context.Canceled)

	assert.Empty(t, seen.all())
}

func TestDirections_OK(t *testing.T) {
	c, seen := newTestClient(t, map[string]string{"/directions/json": directionsOK})

	res, err := c.Directions(context.Background(), "jakarta", "bandung", types.TravelModeWalking)
	require.NoError(t, err)

	assert.Equal(t, StatusOK, res.Status)
	require.True(t, res.HasRoutes())
	route := res.Routes[0]
	assert.Equal(t, "Tol Cipularang", route.Summary)
	assert.Equal(t, "overview", route.OverviewPolyline)
	assert.Equal(t, types.Point{Lat: -6.1, Lng: 107.7}, route.Bounds.NorthEast)
	require.Len(t, route.Legs, 1)
	leg := route.Legs[0]
	assert.Equal(t, TextValue{Text: "151 km", Value: 151000}, leg.Distance)
	assert.Equal(t, TextValue{Text: "2 hours 35 mins", Value: 9300}, leg.Duration)
	assert.Equal(t, "Bandung, Indonesia", leg.EndAddress)
	require.Len(t, leg.Steps, 1)
	assert.Equal(t, "Head <b>east</b>", leg.Steps[0].HTMLInstructions)
	assert.Equal(t, "DRIVING", leg.Steps[0].TravelMode)

	urls := seen.all()
	require.Len(t, urls, 1)
	q := urls[0].Query()
	assert.Equal(t, "jakarta", q.Get("origin"))
	assert.Equal(t, "bandung", q.Get("destination"))
	assert.Equal(t, "walking", q.Get("mode"))
}

func TestDirections_StatusValues(t *testing.T) {
	t.Run("zero results", func(t *testing.T) {
		c, _ := newTestClient(t, map[string]string{
			"/directions/json": `{"status": "ZERO_RESULTS", "routes": [], "geocoded_waypoints": []}`,
		})
		res, err := c.Directions(context.Background(), "a", "b", "")
		require.NoError(t, err)
		assert.Equal(t, StatusZeroResults, res.Status)
		assert.False(t, res.HasRoutes())
	})
	t.Run("provider error", func(t *testing.T) {
		c, _ := newTestClient(t, map[string]string{
			"/directions/json": `{"status": "OVER_QUERY_LIMIT", "error_message": "slow down"}`,
		})
		res, err := c.Directions(context.Background(), "a", "b", types.TravelModeDriving)
		require.NoError(t, err)
		assert.Equal(t, StatusError, res.Status)
		assert.NotNil(t, res.Routes)
		assert.Empty(t, res.Routes)
	})
	t.Run("missing endpoint", func(t *testing.T) {
		c, _ := newTestClient(t, nil)
		_, err := c.Directions(context.Background(), "a", " ", types.TravelModeDriving)
		assert.ErrorIs(t, err, ErrEmptyEndpoint)
	})
}

func TestHumanDuration(t *testing.T) {
	cases := map[int64]string{
		20:     "1 min",
		180:    "3 mins",
		3600:   "1 hour",
		9300:   "2 hours 35 mins",
		90000:  "1 day 1 hour",
		172800: "2 days",
	}
	for secs, want := range cases {
		assert.Equal(t, want, duration(secondsDuration(secs)).Text, "secs=%d", secs)
	}
}

func secondsDuration(s int64) time.Duration { return time.Duration(s) * time.Second }
