// Package geodata loads shapefile attribute tables and geometries into the
// in-memory form the classification and regression workflows consume. Parsing
// is delegated to go-shp; geometries are carried as go-geom values.
package geodata

import (
	"math"
	"strconv"
	"strings"

	"github.com/jonas-p/go-shp"
	"github.com/rotisserie/eris"
	"github.com/twpayne/go-geom"
	"go.uber.org/zap"
)

// Table holds one shapefile's records: geometries, representative centroids,
// a display label per record, and the requested numeric attribute columns.
type Table struct {
	Labels    []string
	Geoms     []geom.T
	Centroids [][2]float64

	// Columns maps a requested field name (lowercased) to its values in
	// record order. Unparseable or missing values are NaN.
	Columns map[string][]float64
}

// N returns the number of records.
func (t *Table) N() int { return len(t.Geoms) }

// Column returns the named numeric column, case-insensitively.
func (t *Table) Column(field string) ([]float64, error) {
	col, ok := t.Columns[strings.ToLower(field)]
	if !ok {
		return nil, eris.Errorf("geodata: column %q not loaded", field)
	}
	return col, nil
}

// ReadTable reads a shapefile and extracts the given numeric fields alongside
// each record's geometry and centroid. labelField selects the attribute used
// as the record label; when empty or absent the record number is used.
// Records without a usable geometry are skipped (and counted in the debug
// log); attribute values that fail numeric parsing come back as NaN so the
// caller can decide how to treat holes.
func ReadTable(path string, fields []string, labelField string) (*Table, error) {
	reader, err := shp.Open(path)
	if err != nil {
		return nil, eris.Wrapf(err, "geodata: open shapefile %s", path)
	}
	defer func() { _ = reader.Close() }()

	// Build field name -> index map.
	fieldIdx := make(map[string]int)
	for i, f := range reader.Fields() {
		name := strings.TrimRight(f.String(), "\x00")
		fieldIdx[strings.ToLower(name)] = i
	}

	wanted := make(map[string]int, len(fields))
	for _, f := range fields {
		key := strings.ToLower(f)
		idx, ok := fieldIdx[key]
		if !ok {
			return nil, eris.Errorf("geodata: field %q not present in %s", f, path)
		}
		wanted[key] = idx
	}
	labelIdx := -1
	if labelField != "" {
		if idx, ok := fieldIdx[strings.ToLower(labelField)]; ok {
			labelIdx = idx
		}
	}

	t := &Table{Columns: make(map[string][]float64, len(wanted))}
	for key := range wanted {
		t.Columns[key] = nil
	}

	var skipped, unparseable int
	for reader.Next() {
		num, shape := reader.Shape()

		g := toGeom(shape)
		if g == nil {
			skipped++
			continue
		}

		label := strconv.Itoa(num)
		if labelIdx >= 0 {
			if v := cleanAttribute(reader.Attribute(labelIdx)); v != "" {
				label = v
			}
		}

		t.Labels = append(t.Labels, label)
		t.Geoms = append(t.Geoms, g)
		t.Centroids = append(t.Centroids, centroid(g))

		for key, idx := range wanted {
			raw := cleanAttribute(reader.Attribute(idx))
			v, perr := strconv.ParseFloat(raw, 64)
			if raw == "" || perr != nil {
				v = math.NaN()
				unparseable++
			}
			t.Columns[key] = append(t.Columns[key], v)
		}
	}

	if skipped > 0 || unparseable > 0 {
		zap.L().Debug("geodata: incomplete shapefile records",
			zap.String("path", path),
			zap.Int("skipped_geometries", skipped),
			zap.Int("unparseable_values", unparseable),
		)
	}

	if t.N() == 0 {
		return nil, eris.Errorf("geodata: no usable records in %s", path)
	}
	return t, nil
}

// cleanAttribute trims NUL padding and whitespace from a DBF attribute.
func cleanAttribute(v string) string {
	return strings.TrimSpace(strings.TrimRight(v, "\x00"))
}
