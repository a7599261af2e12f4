package geodata

import (
	"github.com/jonas-p/go-shp"
	"github.com/twpayne/go-geom"
)

// toGeom converts a go-shp geometry to its go-geom counterpart with SRID
// 4326. Returns nil for unsupported or empty shapes.
func toGeom(shape shp.Shape) geom.T {
	switch s := shape.(type) {
	case *shp.Point:
		return geom.NewPointFlat(geom.XY, []float64{s.X, s.Y}).SetSRID(4326)

	case *shp.PolyLine:
		return polyLineToMultiLineString(s)

	case *shp.Polygon:
		return polygonToMultiPolygon(s)

	default:
		return nil
	}
}

// polyLineToMultiLineString converts a shapefile PolyLine to a geom.MultiLineString.
func polyLineToMultiLineString(pl *shp.PolyLine) geom.T {
	if pl == nil || pl.NumParts == 0 || len(pl.Points) == 0 {
		return nil
	}

	mls := geom.NewMultiLineString(geom.XY).SetSRID(4326)

	for i := int32(0); i < pl.NumParts; i++ {
		flat := partFlatCoords(pl.Points, pl.Parts, i, pl.NumParts)
		ls := geom.NewLineStringFlat(geom.XY, flat)
		if err := mls.Push(ls); err != nil {
			continue
		}
	}

	if mls.NumLineStrings() == 0 {
		return nil
	}
	return mls
}

// polygonToMultiPolygon converts a shapefile Polygon to a geom.MultiPolygon.
func polygonToMultiPolygon(p *shp.Polygon) geom.T {
	if p == nil || p.NumParts == 0 || len(p.Points) == 0 {
		return nil
	}

	mp := geom.NewMultiPolygon(geom.XY).SetSRID(4326)

	for i := int32(0); i < p.NumParts; i++ {
		flat := partFlatCoords(p.Points, p.Parts, i, p.NumParts)
		ring := geom.NewLinearRingFlat(geom.XY, flat)
		poly := geom.NewPolygon(geom.XY)
		if err := poly.Push(ring); err != nil {
			continue
		}
		if err := mp.Push(poly); err != nil {
			continue
		}
	}

	if mp.NumPolygons() == 0 {
		return nil
	}
	return mp
}

// partFlatCoords extracts part i of a multi-part shape as flat XY pairs.
func partFlatCoords(points []shp.Point, parts []int32, i, numParts int32) []float64 {
	start := parts[i]
	end := int32(len(points))
	if i+1 < numParts {
		end = parts[i+1]
	}

	flat := make([]float64, 0, (end-start)*2)
	for j := start; j < end; j++ {
		flat = append(flat, points[j].X, points[j].Y)
	}
	return flat
}

// centroid returns a representative point for a geometry: the point itself,
// the vertex mean for lines, or the area-weighted shoelace centroid of the
// exterior rings for polygons. Used as the KNN coordinate for an areal unit.
func centroid(g geom.T) [2]float64 {
	switch t := g.(type) {
	case *geom.Point:
		return [2]float64{t.X(), t.Y()}

	case *geom.MultiPolygon:
		var cx, cy, area float64
		for i := 0; i < t.NumPolygons(); i++ {
			px, py, pa := ringCentroid(t.Polygon(i).LinearRing(0).FlatCoords())
			cx += px * pa
			cy += py * pa
			area += pa
		}
		if area != 0 {
			return [2]float64{cx / area, cy / area}
		}
	}

	// Fallback: mean of all vertices.
	flat := g.FlatCoords()
	stride := g.Stride()
	n := len(flat) / stride
	if n == 0 {
		return [2]float64{}
	}
	var sx, sy float64
	for i := 0; i < n; i++ {
		sx += flat[i*stride]
		sy += flat[i*stride+1]
	}
	return [2]float64{sx / float64(n), sy / float64(n)}
}

// ringCentroid computes the shoelace centroid and area of a flat XY ring.
func ringCentroid(flat []float64) (cx, cy, area float64) {
	n := len(flat) / 2
	if n < 3 {
		return 0, 0, 0
	}
	var a6 float64
	for i := 0; i < n; i++ {
		j := (i + 1) % n
		xi, yi := flat[i*2], flat[i*2+1]
		xj, yj := flat[j*2], flat[j*2+1]
		cross := xi*yj - xj*yi
		a6 += cross
		cx += (xi + xj) * cross
		cy += (yi + yj) * cross
	}
	if a6 == 0 {
		return 0, 0, 0
	}
	area = a6 / 2
	cx /= 3 * a6
	cy /= 3 * a6
	if area < 0 {
		area = -area
	}
	return cx, cy, area
}
