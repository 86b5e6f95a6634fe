package main

import (
	"bytes"
	"encoding/json"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gopkg.in/yaml.v3"

	"webgis/internal/config"
	"webgis/internal/session"
)

const pointsGeoJSON = `{"type":"FeatureCollection","features":[
 {"type":"Feature","properties":{"name":"São Paulo"},"geometry":{"type":"Point","coordinates":[-46.6333,-23.5505]}},
 {"type":"Feature","properties":{"name":"Quadra"},"geometry":{"type":"Polygon","coordinates":[[[0,0],[0.01,0],[0.01,0.01],[0,0.01],[0,0]]]}}
]}`

func setup(t *testing.T) (*session.Session, string) {
	t.Helper()
	sess, err := session.New(config.Default(), zerolog.Nop())
	require.NoError(t, err)
	path := filepath.Join(t.TempDir(), "features.geojson")
	require.NoError(t, os.WriteFile(path, []byte(pointsGeoJSON), 0o600))
	return sess, path
}

func TestRunBatchAnalyzeYAML(t *testing.T) {
	sess, path := setup(t)
	opts := Options{Analyze: true, Format: "yaml"}
	opts.Args.File = path

	var out bytes.Buffer
	require.NoError(t, runBatch(opts, sess, &out))

	var got map[string]any
	require.NoError(t, yaml.Unmarshal(out.Bytes(), &got))
	assert.Equal(t, 2, got["total_features"])
	assert.Equal(t, "spherical", got["method"])
	assert.InDelta(t, 1.2364, got["total_area_km2"], 1e-3)
}

func TestRunBatchAnalyzeJSON(t *testing.T) {
	sess, path := setup(t)
	opts := Options{Analyze: true, Format: "json"}
	opts.Args.File = path

	var out bytes.Buffer
	require.NoError(t, runBatch(opts, sess, &out))

	var got struct {
		TotalFeatures int `json:"total_features"`
		Features      []struct {
			Name    string   `json:"name"`
			AreaKm2 *float64 `json:"area_km2"`
		} `json:"features"`
	}
	require.NoError(t, json.Unmarshal(out.Bytes(), &got))
	assert.Equal(t, 2, got.TotalFeatures)
	require.Len(t, got.Features, 2)
	assert.Equal(t, "São Paulo", got.Features[0].Name)
	assert.Nil(t, got.Features[0].AreaKm2)
	require.NotNil(t, got.Features[1].AreaKm2)
}

func TestRunBatchExport(t *testing.T) {
	sess, path := setup(t)

	opts := Options{Export: "wkt"}
	opts.Args.File = path
	var out bytes.Buffer
	require.NoError(t, runBatch(opts, sess, &out))
	lines := strings.Split(strings.TrimSpace(out.String()), "\n")
	require.Len(t, lines, 2)
	assert.True(t, strings.HasPrefix(lines[0], "POINT("), lines[0])
	assert.True(t, strings.HasPrefix(lines[1], "POLYGON(("), lines[1])

	opts.Export = "geojson"
	out.Reset()
	require.NoError(t, runBatch(opts, sess, &out))
	assert.Contains(t, out.String(), `"FeatureCollection"`)
	assert.Contains(t, out.String(), `"name":"Quadra"`)
}

func TestRunBatchErrors(t *testing.T) {
	sess, _ := setup(t)
	assert.ErrorIs(t, runBatch(Options{Analyze: true}, sess, &bytes.Buffer{}), errNoFile)

	opts := Options{Analyze: true}
	opts.Args.File = filepath.Join(t.TempDir(), "missing.kml")
	assert.ErrorIs(t, runBatch(opts, sess, &bytes.Buffer{}), os.ErrNotExist)
}
