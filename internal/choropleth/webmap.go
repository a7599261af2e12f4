package choropleth

import (
	"html/template"
	"io"

	"github.com/rotisserie/eris"
)

// MapOptions configures the generated HTML map.
type MapOptions struct {
	Title       string
	Field       string
	Colors      []string
	Labels      []string
	TileURL     string
	Attribution string
}

// DefaultTileURL is the OpenStreetMap tile endpoint used when no tile server
// is configured.
const DefaultTileURL = "https://tile.openstreetmap.org/{z}/{x}/{y}.png"

// WriteHTML renders a self-contained Leaflet choropleth page around the given
// GeoJSON document. Leaflet itself is loaded from its CDN; features are
// styled from the "color" property FeatureProperties emits.
func WriteHTML(w io.Writer, geoJSON []byte, opts MapOptions) error {
	if len(geoJSON) == 0 {
		return eris.New("choropleth: empty GeoJSON document")
	}
	if len(opts.Colors) != len(opts.Labels) {
		return eris.Errorf("choropleth: %d colors for %d legend labels",
			len(opts.Colors), len(opts.Labels))
	}
	if opts.TileURL == "" {
		opts.TileURL = DefaultTileURL
	}
	if opts.Attribution == "" {
		opts.Attribution = "&copy; OpenStreetMap contributors"
	}

	data := struct {
		Title       string
		Field       string
		TileURL     string
		Attribution template.HTML
		GeoJSON     template.JS
		Legend      []legendEntry
	}{
		Title:       opts.Title,
		Field:       opts.Field,
		TileURL:     opts.TileURL,
		Attribution: template.HTML(opts.Attribution),
		GeoJSON:     template.JS(geoJSON),
		Legend:      zipLegend(opts.Colors, opts.Labels),
	}

	if err := mapTemplate.Execute(w, data); err != nil {
		return eris.Wrap(err, "choropleth: render html map")
	}
	return nil
}

type legendEntry struct {
	Color string
	Label string
}

func zipLegend(colors, labels []string) []legendEntry {
	entries := make([]legendEntry, len(colors))
	for i := range colors {
		entries[i] = legendEntry{Color: colors[i], Label: labels[i]}
	}
	return entries
}

var mapTemplate = template.Must(template.New("choropleth").Parse(`<!DOCTYPE html>
<html>
<head>
<meta charset="utf-8">
<title>{{.Title}}</title>
<meta name="viewport" content="width=device-width, initial-scale=1.0">
<link rel="stylesheet" href="https://unpkg.com/leaflet@1.9.4/dist/leaflet.css">
<script src="https://unpkg.com/leaflet@1.9.4/dist/leaflet.js"></script>
<style>
  html, body, #map { height: 100%; margin: 0; }
  .legend { background: white; padding: 8px 10px; line-height: 20px; font: 12px sans-serif; }
  .legend i { width: 14px; height: 14px; float: left; margin-right: 6px; opacity: 0.8; }
</style>
</head>
<body>
<div id="map"></div>
<script>
var data = {{.GeoJSON}};

var map = L.map('map');
L.tileLayer('{{.TileURL}}', { attribution: '{{.Attribution}}' }).addTo(map);

var layer = L.geoJSON(data, {
  style: function (feature) {
    return {
      fillColor: feature.properties.color,
      fillOpacity: 0.7,
      color: '#555',
      weight: 1
    };
  },
  onEachFeature: function (feature, l) {
    l.bindPopup(
      '<b>' + feature.properties.name + '</b><br>' +
      '{{.Field}}: ' + feature.properties['{{.Field}}'] + '<br>' +
      'class: ' + feature.properties.class + ' ' + feature.properties.legend
    );
  }
}).addTo(map);

map.fitBounds(layer.getBounds());

var legend = L.control({ position: 'bottomright' });
legend.onAdd = function () {
  var div = L.DomUtil.create('div', 'legend');
  div.innerHTML += '<b>{{.Field}}</b><br>';
  {{range .Legend}}div.innerHTML += '<i style="background:{{.Color}}"></i>{{.Label}}<br>';
  {{end}}return div;
};
legend.addTo(map);
</script>
</body>
</html>
`))
