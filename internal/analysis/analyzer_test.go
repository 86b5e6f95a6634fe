package analysis

import (
	"encoding/json"
	"testing"

	"github.com/paulmach/orb"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gopkg.in/yaml.v3"

	"webgis/internal/geom"
)

func TestParseMethod(t *testing.T) {
	m, err := ParseMethod("")
	require.NoError(t, err)
	assert.Equal(t, MethodSpherical, m)

	m, err = ParseMethod("geodesic")
	require.NoError(t, err)
	assert.Equal(t, MethodGeodesic, m)

	_, err = ParseMethod("planar")
	assert.Error(t, err)

	assert.Equal(t, MethodSpherical, New("planar").Method())
}

func TestAnalyze(t *testing.T) {
	a := New(MethodSpherical)

	r := a.Analyze(geom.Feature{Name: "p", Geometry: saoPaulo})
	assert.Nil(t, r.AreaKm2)
	assert.Nil(t, r.PerimeterOrLengthKm)
	require.NotNil(t, r.Centroid)
	assert.Equal(t, saoPaulo, *r.Centroid)

	r = a.Analyze(geom.Feature{Name: "box", Geometry: orb.Polygon{spBox}})
	require.NotNil(t, r.AreaKm2)
	require.NotNil(t, r.PerimeterOrLengthKm)
	require.NotNil(t, r.Centroid)
	assert.InDelta(t, 1.1335, *r.AreaKm2, 1e-3)
	assert.InDelta(t, 4.2626, *r.PerimeterOrLengthKm, 1e-3)

	r = a.Analyze(geom.Feature{Name: "line", Geometry: orb.LineString{saoPaulo, rio}})
	assert.Nil(t, r.AreaKm2)
	require.NotNil(t, r.PerimeterOrLengthKm)
	assert.InDelta(t, 360.7, *r.PerimeterOrLengthKm, 0.5)
}

func TestGeodesicMethod(t *testing.T) {
	sph, geo := New(MethodSpherical), New(MethodGeodesic)

	for _, g := range []orb.Geometry{orb.Polygon{spBox}, orb.Polygon{equatorBox}} {
		want, _ := sph.Area(g)
		got, ok := geo.Area(g)
		require.True(t, ok)
		assert.InEpsilon(t, want, got, 0.01)

		want, _ = sph.PerimeterOrLength(g)
		got, ok = geo.PerimeterOrLength(g)
		require.True(t, ok)
		assert.InEpsilon(t, want, got, 0.01)
	}

	_, ok := geo.Area(orb.LineString{saoPaulo, rio})
	assert.False(t, ok)
	_, ok = geo.PerimeterOrLength(saoPaulo)
	assert.False(t, ok)
}

func TestSummarize(t *testing.T) {
	fl := geom.FeatureList{
		{Name: "box", Geometry: orb.Polygon{equatorBox}},
		{Name: "two boxes", Geometry: orb.MultiPolygon{{equatorBox}, {equatorBox}}},
		{Name: "sp", Geometry: saoPaulo},
		{Name: "trail", Geometry: orb.LineString{{0, 0}, {2, 0}}},
	}
	s := New(MethodSpherical).Summarize(fl)

	assert.Equal(t, "FeatureCollection", s.Type)
	assert.Equal(t, MethodSpherical, s.Method)
	assert.Equal(t, 4, s.TotalFeatures)
	assert.Equal(t, map[string]int{"Polygon": 1, "MultiPolygon": 1, "Point": 1, "LineString": 1}, s.FeatureTypes)

	require.Len(t, s.Areas, 2)
	assert.Equal(t, 1, s.Areas[1].Index)
	assert.InDelta(t, 3*1.2364, s.TotalAreaKm2, 3e-3)
	assert.InDelta(t, s.TotalAreaKm2*100, s.TotalAreaHectares, 1e-9)
	assert.InDelta(t, s.Areas[0].AreaKm2*100, s.Areas[0].AreaHectares, 1e-9)

	require.Len(t, s.Centroids, 4)
	assert.InDelta(t, 1, s.Centroids[3].Lon(), 1e-9)

	require.NotNil(t, s.Bounds)
	assert.Equal(t, -46.6333, s.Bounds.MinLng)
	assert.Equal(t, -23.5505, s.Bounds.MinLat)
	require.NotNil(t, s.Extent)
	assert.Equal(t, 2.0, s.Extent.MaxLng)
	assert.Len(t, s.Features, 4)
}

func TestSummarizeEmpty(t *testing.T) {
	s := New(MethodSpherical).Summarize(nil)
	assert.Zero(t, s.TotalFeatures)
	assert.Nil(t, s.Bounds)
	assert.Nil(t, s.Extent)
	assert.Empty(t, s.Areas)
}

func TestSummaryEncoding(t *testing.T) {
	s := New(MethodSpherical).Summarize(geom.FeatureList{{Name: "sp", Geometry: saoPaulo}})

	b, err := json.Marshal(s)
	require.NoError(t, err)
	var decoded map[string]any
	require.NoError(t, json.Unmarshal(b, &decoded))
	feats := decoded["features"].([]any)
	require.Len(t, feats, 1)
	first := feats[0].(map[string]any)
	assert.Equal(t, "sp", first["name"])
	assert.Nil(t, first["area_km2"])
	assert.Equal(t, []any{-46.6333, -23.5505}, first["centroid"])

	y, err := yaml.Marshal(s)
	require.NoError(t, err)
	assert.Contains(t, string(y), "total_features: 1")
	assert.Contains(t, string(y), "area_km2: null")
}

func TestAnalyzeUnsupported(t *testing.T) {
	r := New(MethodSpherical).Analyze(geom.Feature{Geometry: orb.MultiPoint{{1, 1}}})
	assert.Equal(t, Result{}, r)
	r = New(MethodSpherical).Analyze(geom.Feature{})
	assert.Equal(t, Result{}, r)
}
