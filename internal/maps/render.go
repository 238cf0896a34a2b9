package maps

import (
	"bytes"
	"fmt"
	"html/template"
	"strings"
)

const noDirectionsHTML = "<p>No directions available</p>"

var placeTemplate = template.Must(template.New("place").Parse(`<!DOCTYPE html>
<html>
<head>
<title>{{.Place.Name}} - Map</title>
<style>
#map {height: 400px; width: 100%;}
body {margin: 0; padding: 0; font-family: Arial, sans-serif;}
.info-window {padding: 10px;}
</style>
</head>
<body>
<div id="map"></div>
<script>
function initMap() {
  const location = {lat: {{.Place.Geometry.Lat}}, lng: {{.Place.Geometry.Lng}}};
  const map = new google.maps.Map(document.getElementById('map'), {zoom: 15, center: location});
  const marker = new google.maps.Marker({position: location, map: map, title: {{.Place.Name}}});
  const content = document.createElement('div');
  content.className = 'info-window';
  const heading = document.createElement('h3');
  heading.textContent = {{.Place.Name}};
  const address = document.createElement('p');
  address.textContent = {{.Place.FormattedAddress}};
  content.append(heading, address);
  const infoWindow = new google.maps.InfoWindow({content: content});
  marker.addListener('click', () => infoWindow.open(map, marker));
  infoWindow.open(map, marker);
}
</script>
<script async defer src="{{.ScriptURL}}"></script>
</body>
</html>
`))

var directionsTemplate = template.Must(template.New("directions").Funcs(template.FuncMap{
	"inc": func(i int) int { return i + 1 },
}).Parse(`<!DOCTYPE html>
<html>
<head>
<title>Directions Map</title>
<style>
#map {height: 400px; width: 100%;}
body {margin: 0; padding: 0; font-family: Arial, sans-serif;}
.directions-container {padding: 15px;}
.direction-step {margin-bottom: 10px; padding: 5px; border-bottom: 1px solid #eee;}
.step-number {font-weight: bold; margin-right: 10px;}
.step-distance {color: #666; margin-left: 10px;}
.route-summary {font-weight: bold; margin-bottom: 15px;}
</style>
</head>
<body>
<div id="map"></div>
<div class="directions-container">
<div class="route-summary">
<p>From: {{.Leg.StartAddress}}</p>
<p>To: {{.Leg.EndAddress}}</p>
<p>Distance: {{.Leg.Distance.Text}}, Duration: {{.Leg.Duration.Text}}</p>
</div>
<h3>Directions:</h3>
<div class="steps-container">
{{range $i, $s := .Steps}}<div class="direction-step">
<span class="step-number">{{inc $i}}.</span>
<span class="step-instruction">{{$s.Instructions}}</span>
<span class="step-distance">{{$s.Distance}}</span>
</div>
{{end}}</div>
</div>
<script>
function initMap() {
  const directionsService = new google.maps.DirectionsService();
  const directionsRenderer = new google.maps.DirectionsRenderer();
  const start = {lat: {{.Leg.StartLocation.Lat}}, lng: {{.Leg.StartLocation.Lng}}};
  const end = {lat: {{.Leg.EndLocation.Lat}}, lng: {{.Leg.EndLocation.Lng}}};
  const map = new google.maps.Map(document.getElementById('map'), {zoom: 7, center: start});
  directionsRenderer.setMap(map);
  directionsService.route({origin: start, destination: end, travelMode: {{.TravelMode}}}, (result, status) => {
    if (status === 'OK') {
      directionsRenderer.setDirections(result);
    }
  });
}
</script>
<script async defer src="{{.ScriptURL}}"></script>
</body>
</html>
`))

// Renderer produces self-contained HTML documents embedding an interactive map.
type Renderer struct {
	apiKey string
}

func NewRenderer(apiKey string) *Renderer {
	return &Renderer{apiKey: apiKey}
}

type renderedStep struct {
	// Instructions arrive as provider-formatted HTML.
	Instructions template.HTML
	Distance     string
}

func (r *Renderer) scriptURL() template.URL {
	return template.URL("https://maps.googleapis.com/maps/api/js?key=" + template.URLQueryEscaper(r.apiKey) + "&callback=initMap")
}

// RenderPlace returns a map centred on p with a marker and info window.
func (r *Renderer) RenderPlace(p Place) (string, error) {
	var buf bytes.Buffer
	err := placeTemplate.Execute(&buf, struct {
		Place     Place
		ScriptURL template.URL
	}{p, r.scriptURL()})
	if err != nil {
		return "", fmt.Errorf("render place map: %w", err)
	}
	return buf.String(), nil
}

// RenderDirections returns a map of the first leg of the first route followed by
// its step list. A result without legs renders a short notice.
func (r *Renderer) RenderDirections(d DirectionsResult) (string, error) {
	if len(d.Routes) == 0 || len(d.Routes[0].Legs) == 0 {
		return noDirectionsHTML, nil
	}
	leg := d.Routes[0].Legs[0]

	steps := make([]renderedStep, 0, len(leg.Steps))
	for _, s := range leg.Steps {
		steps = append(steps, renderedStep{
			Instructions: template.HTML(s.HTMLInstructions), //nolint:gosec
			Distance:     s.Distance.Text,
		})
	}
	mode := "DRIVING"
	if len(leg.Steps) > 0 && leg.Steps[0].TravelMode != "" {
		mode = strings.ToUpper(leg.Steps[0].TravelMode)
	}

	var buf bytes.Buffer
	err := directionsTemplate.Execute(&buf, struct {
		Leg        Leg
		Steps      []renderedStep
		TravelMode string
		ScriptURL  template.URL
	}{leg, steps, mode, r.scriptURL()})
	if err != nil {
		return "", fmt.Errorf("render directions map: %w", err)
	}
	return buf.String(), nil
}
