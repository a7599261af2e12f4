package geodata

import (
	"encoding/json"
	"io"

	"github.com/rotisserie/eris"
	"github.com/twpayne/go-geom/encoding/geojson"
)

// WriteGeoJSON encodes the table as a GeoJSON FeatureCollection. props, when
// non-nil, supplies per-record feature properties and must align with the
// table's records; the record label is always included as "name".
func WriteGeoJSON(w io.Writer, t *Table, props []map[string]any) error {
	if props != nil && len(props) != t.N() {
		return eris.Errorf("geodata: %d property sets for %d records", len(props), t.N())
	}

	fc := &geojson.FeatureCollection{}
	for i, g := range t.Geoms {
		p := map[string]any{"name": t.Labels[i]}
		if props != nil {
			for k, v := range props[i] {
				p[k] = v
			}
		}
		fc.Features = append(fc.Features, &geojson.Feature{
			ID:         t.Labels[i],
			Geometry:   g,
			Properties: p,
		})
	}

	enc := json.NewEncoder(w)
	if err := enc.Encode(fc); err != nil {
		return eris.Wrap(err, "geodata: encode geojson")
	}
	return nil
}
