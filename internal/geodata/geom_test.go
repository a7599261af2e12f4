package geodata

import (
	"testing"

	"github.com/jonas-p/go-shp"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/twpayne/go-geom"
)

func TestToGeom_Point(t *testing.T) {
	g := toGeom(&shp.Point{X: -80.19, Y: 25.77})
	require.NotNil(t, g)

	p, ok := g.(*geom.Point)
	require.True(t, ok)
	assert.Equal(t, -80.19, p.X())
	assert.Equal(t, 25.77, p.Y())
	assert.Equal(t, 4326, p.SRID())
}

func TestToGeom_Polygon(t *testing.T) {
	poly := &shp.Polygon{
		NumParts: 1,
		Parts:    []int32{0},
		Points: []shp.Point{
			{X: 0, Y: 0},
			{X: 0, Y: 2},
			{X: 2, Y: 2},
			{X: 2, Y: 0},
			{X: 0, Y: 0}, // closed ring
		},
	}

	g := toGeom(poly)
	require.NotNil(t, g)

	mp, ok := g.(*geom.MultiPolygon)
	require.True(t, ok)
	assert.Equal(t, 1, mp.NumPolygons())
}

func TestToGeom_PolyLine(t *testing.T) {
	pl := &shp.PolyLine{
		NumParts: 1,
		Parts:    []int32{0},
		Points: []shp.Point{
			{X: 0, Y: 0},
			{X: 1, Y: 1},
			{X: 2, Y: 0},
		},
	}

	g := toGeom(pl)
	require.NotNil(t, g)

	mls, ok := g.(*geom.MultiLineString)
	require.True(t, ok)
	assert.Equal(t, 1, mls.NumLineStrings())
}

func TestToGeom_Empty(t *testing.T) {
	assert.Nil(t, toGeom(nil))
	assert.Nil(t, toGeom(&shp.Polygon{}))
	assert.Nil(t, toGeom(&shp.PolyLine{}))
}

func TestCentroid_Point(t *testing.T) {
	g := toGeom(&shp.Point{X: 3, Y: 4})
	assert.Equal(t, [2]float64{3, 4}, centroid(g))
}

func TestCentroid_Square(t *testing.T) {
	poly := &shp.Polygon{
		NumParts: 1,
		Parts:    []int32{0},
		Points: []shp.Point{
			{X: 0, Y: 0},
			{X: 0, Y: 2},
			{X: 2, Y: 2},
			{X: 2, Y: 0},
			{X: 0, Y: 0},
		},
	}

	c := centroid(toGeom(poly))
	assert.InDelta(t, 1.0, c[0], 1e-9)
	assert.InDelta(t, 1.0, c[1], 1e-9)
}

func TestCentroid_MultiPartAreaWeighted(t *testing.T) {
	// A large square at the origin and a small one far away: the centroid
	// must stay close to the large part.
	poly := &shp.Polygon{
		NumParts: 2,
		Parts:    []int32{0, 5},
		Points: []shp.Point{
			// 4x4 square centered at (2, 2).
			{X: 0, Y: 0},
			{X: 0, Y: 4},
			{X: 4, Y: 4},
			{X: 4, Y: 0},
			{X: 0, Y: 0},
			// 1x1 square centered at (10.5, 10.5).
			{X: 10, Y: 10},
			{X: 10, Y: 11},
			{X: 11, Y: 11},
			{X: 11, Y: 10},
			{X: 10, Y: 10},
		},
	}

	c := centroid(toGeom(poly))
	// Weighted: (16*2 + 1*10.5) / 17 = 2.5 on each axis.
	assert.InDelta(t, 2.5, c[0], 1e-9)
	assert.InDelta(t, 2.5, c[1], 1e-9)
}

func TestCentroid_LineVertexMean(t *testing.T) {
	pl := &shp.PolyLine{
		NumParts: 1,
		Parts:    []int32{0},
		Points: []shp.Point{
			{X: 0, Y: 0},
			{X: 2, Y: 0},
			{X: 4, Y: 0},
		},
	}

	c := centroid(toGeom(pl))
	assert.InDelta(t, 2.0, c[0], 1e-9)
	assert.InDelta(t, 0.0, c[1], 1e-9)
}
