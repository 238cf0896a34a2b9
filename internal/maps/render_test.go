package maps

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"mapchat/internal/types"
)

func TestRenderPlace(t *testing.T) {
	r := NewRenderer("key&123")
	html, err := r.RenderPlace(Place{
		Name:             "Joe's <Pizza>",
		FormattedAddress: "7 Carmine St, New York",
		Geometry:         types.Point{Lat: 40.7306, Lng: -74.0021},
	})
	require.NoError(t, err)

	assert.Contains(t, html, "<title>Joe&#39;s &lt;Pizza&gt; - Map</title>")
	assert.Contains(t, html, "lat:  40.7306 ")
	assert.Contains(t, html, "-74.0021")
	assert.NotContains(t, html, "<Pizza>")
	assert.Contains(t, html, `src="https://maps.googleapis.com/maps/api/js?key=key%26123&amp;callback=initMap"`)
}

func TestRenderDirections(t *testing.T) {
	r := NewRenderer("k")
	html, err := r.RenderDirections(DirectionsResult{
		Status: StatusOK,
		Routes: []Route{{
			Legs: []Leg{{
				StartAddress:  "Jakarta",
				EndAddress:    "Bandung",
				Distance:      TextValue{Text: "151 km"},
				Duration:      TextValue{Text: "2 hours 35 mins"},
				StartLocation: types.Point{Lat: -6.2, Lng: 106.8},
				EndLocation:   types.Point{Lat: -6.9, Lng: 107.6},
				Steps: []Step{
					{HTMLInstructions: "Head <b>east</b>", Distance: TextValue{Text: "1.2 km"}, TravelMode: "WALKING"},
					{HTMLInstructions: "Turn left", Distance: TextValue{Text: "300 m"}},
				},
			}},
		}},
	})
	require.NoError(t, err)

	assert.Contains(t, html, "<p>From: Jakarta</p>")
	assert.Contains(t, html, "<p>Distance: 151 km, Duration: 2 hours 35 mins</p>")
	assert.Contains(t, html, `<span class="step-number">1.</span>`)
	assert.Contains(t, html, `<span class="step-number">2.</span>`)
	assert.Contains(t, html, "Head <b>east</b>")
	assert.Contains(t, html, `travelMode: "WALKING"`)
}

func TestRenderDirections_NoLegs(t *testing.T) {
	r := NewRenderer("k")
	for _, d := range []DirectionsResult{
		{Status: StatusZeroResults},
		{Status: StatusOK, Routes: []Route{{Summary: "empty"}}},
	} {
		html, err := r.RenderDirections(d)
		require.NoError(t, err)
		assert.Equal(t, noDirectionsHTML, html)
	}
}

func TestLocationResultConstructors(t *testing.T) {
	empty := NewLocationResult(nil, StatusOK)
	assert.Equal(t, StatusZeroResults, empty.Status)
	assert.NotNil(t, empty.Places)
	assert.Nil(t, empty.WebURL)

	forged := NewLocationResult(nil, StatusWebFallback)
	assert.Equal(t, StatusError, forged.Status)
	assert.Nil(t, forged.WebURL)

	web := NewWebFallback("Where is the Eiffel Tower")
	assert.Equal(t, StatusWebFallback, web.Status)
	assert.Empty(t, web.Places)
	require.NotNil(t, web.WebURL)
	assert.Equal(t, "https://www.google.com/maps/search/Where+is+the+Eiffel+Tower", *web.WebURL)
}
