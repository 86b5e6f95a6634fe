package config

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func writeConfig(t *testing.T, body string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "config.yaml")
	require.NoError(t, os.WriteFile(path, []byte(body), 0o600))
	return path
}

func TestDefault(t *testing.T) {
	cfg := Default()
	require.NoError(t, cfg.Validate())
	assert.Equal(t, [2]float64{-23.5505, -46.6333}, cfg.Map.Center)
	assert.Equal(t, 10, cfg.Map.Zoom)
	assert.Len(t, cfg.Basemaps, 4)

	b, ok := cfg.Basemap("dark")
	require.True(t, ok)
	assert.Equal(t, "© CARTO", b.Attribution)
	_, ok = cfg.Basemap("nope")
	assert.False(t, ok)
}

func TestLoad(t *testing.T) {
	t.Run("empty path gives defaults", func(t *testing.T) {
		cfg, err := Load("")
		require.NoError(t, err)
		assert.Equal(t, Default(), cfg)
	})

	t.Run("file overrides set keys only", func(t *testing.T) {
		cfg, err := Load(writeConfig(t, `
map:
  zoom: 4
  basemap: terrain
analysis:
  method: geodesic
`))
		require.NoError(t, err)
		assert.Equal(t, 4, cfg.Map.Zoom)
		assert.Equal(t, "terrain", cfg.Map.Basemap)
		assert.Equal(t, "geodesic", cfg.Analysis.Method)
		assert.Equal(t, [2]float64{-23.5505, -46.6333}, cfg.Map.Center)
		assert.Equal(t, "webgis", cfg.App.Name)
	})

	t.Run("basemaps list replaces defaults", func(t *testing.T) {
		cfg, err := Load(writeConfig(t, `
map:
  basemap: local
basemaps:
  - key: local
    name: Local
    url: http://localhost/{z}/{x}/{y}.png
`))
		require.NoError(t, err)
		require.Len(t, cfg.Basemaps, 1)
		assert.Equal(t, "local", cfg.Basemaps[0].Key)
	})

	t.Run("missing file", func(t *testing.T) {
		_, err := Load(filepath.Join(t.TempDir(), "missing.yaml"))
		assert.ErrorIs(t, err, os.ErrNotExist)
	})

	t.Run("bad yaml", func(t *testing.T) {
		_, err := Load(writeConfig(t, "map: [unclosed"))
		assert.Error(t, err)
	})
}

func TestValidate(t *testing.T) {
	tests := []struct {
		name   string
		mutate func(*Config)
		errMsg string
	}{
		{"unknown method", func(c *Config) { c.Analysis.Method = "planar" }, "unknown analysis method"},
		{"latitude", func(c *Config) { c.Map.Center[0] = 91 }, "out of range"},
		{"zoom", func(c *Config) { c.Map.Zoom = 30 }, "zoom 30"},
		{"no basemaps", func(c *Config) { c.Basemaps = nil }, "no basemaps"},
		{"duplicate key", func(c *Config) { c.Basemaps = append(c.Basemaps, Basemap{Key: "osm"}) }, "duplicate basemap key"},
		{"empty key", func(c *Config) { c.Basemaps[1].Key = "" }, "has no key"},
		{"unknown selected basemap", func(c *Config) { c.Map.Basemap = "moon" }, `"moon" is not configured`},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := Default()
			tt.mutate(cfg)
			err := cfg.Validate()
			require.Error(t, err)
			assert.Contains(t, err.Error(), tt.errMsg)
		})
	}
}
