// Package config handles configuration loading.
package config

import (
	"errors"
	"fmt"
	"os"

	"gopkg.in/yaml.v3"

	"webgis/internal/analysis"
)

// Config represents the root configuration file structure.
type Config struct {
	App      App       `yaml:"app" json:"app"`
	Map      Map       `yaml:"map" json:"map"`
	Basemaps []Basemap `yaml:"basemaps" json:"basemaps"`
	Analysis Analysis  `yaml:"analysis" json:"analysis"`
}

// App describes the application itself.
type App struct {
	Name        string `yaml:"name" json:"name"`
	Version     string `yaml:"version" json:"version"`
	Description string `yaml:"description,omitempty" json:"description,omitempty"`
}

// Map holds the initial view.
type Map struct {
	Center  [2]float64 `yaml:"center" json:"center"` // lat, lng
	Zoom    int        `yaml:"zoom" json:"zoom"`
	Basemap string     `yaml:"basemap" json:"basemap"`
}

// Basemap is a named tile source.
type Basemap struct {
	Key         string `yaml:"key" json:"key"`
	Name        string `yaml:"name" json:"name"`
	URL         string `yaml:"url" json:"url"`
	Attribution string `yaml:"attribution,omitempty" json:"attribution,omitempty"`
}

// Analysis selects the measuring method.
type Analysis struct {
	Method string `yaml:"method" json:"method"`
}

const maxZoom = 19

// Default returns the built-in configuration.
func Default() *Config {
	return &Config{
		App: App{
			Name:        "webgis",
			Version:     "1.0.0",
			Description: "Geographic feature viewer and analyzer",
		},
		Map: Map{
			Center:  [2]float64{-23.5505, -46.6333},
			Zoom:    10,
			Basemap: "osm",
		},
		Basemaps: []Basemap{
			{Key: "osm", Name: "OpenStreetMap", URL: "https://{s}.tile.openstreetmap.org/{z}/{x}/{y}.png", Attribution: "© OpenStreetMap contributors"},
			{Key: "satellite", Name: "Satélite", URL: "https://server.arcgisonline.com/ArcGIS/rest/services/World_Imagery/MapServer/tile/{z}/{y}/{x}", Attribution: "© Esri, Earthstar Geographics"},
			{Key: "terrain", Name: "Terreno", URL: "https://{s}.tile.opentopomap.org/{z}/{x}/{y}.png", Attribution: "© OpenTopoMap contributors"},
			{Key: "dark", Name: "Escuro", URL: "https://{s}.basemaps.cartocdn.com/dark_all/{z}/{x}/{y}{r}.png", Attribution: "© CARTO"},
		},
		Analysis: Analysis{Method: string(analysis.MethodSpherical)},
	}
}

// Load reads the YAML configuration at path over the defaults. An empty path
// returns the defaults.
func Load(path string) (*Config, error) {
	cfg := Default()
	if path == "" {
		return cfg, nil
	}

	data, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}
	if err := yaml.Unmarshal(data, cfg); err != nil {
		return nil, fmt.Errorf("%s: %w", path, err)
	}
	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("%s: %w", path, err)
	}

	return cfg, nil
}

// Validate checks the configuration for inconsistent values.
func (c *Config) Validate() error {
	var errs []error
	if _, err := analysis.ParseMethod(c.Analysis.Method); err != nil {
		errs = append(errs, err)
	}
	if lat, lng := c.Map.Center[0], c.Map.Center[1]; lat < -90 || lat > 90 || lng < -180 || lng > 180 {
		errs = append(errs, fmt.Errorf("map center %v out of range", c.Map.Center))
	}
	if c.Map.Zoom < 0 || c.Map.Zoom > maxZoom {
		errs = append(errs, fmt.Errorf("map zoom %d out of range 0-%d", c.Map.Zoom, maxZoom))
	}
	if len(c.Basemaps) == 0 {
		errs = append(errs, errors.New("no basemaps configured"))
	}
	seen := make(map[string]bool, len(c.Basemaps))
	for i, b := range c.Basemaps {
		switch {
		case b.Key == "":
			errs = append(errs, fmt.Errorf("basemap %d has no key", i))
		case seen[b.Key]:
			errs = append(errs, fmt.Errorf("duplicate basemap key %q", b.Key))
		}
		seen[b.Key] = true
	}
	if c.Map.Basemap != "" && len(c.Basemaps) > 0 && !seen[c.Map.Basemap] {
		errs = append(errs, fmt.Errorf("map basemap %q is not configured", c.Map.Basemap))
	}
	return errors.Join(errs...)
}

// Basemap returns the basemap with the given key.
func (c *Config) Basemap(key string) (Basemap, bool) {
	for _, b := range c.Basemaps {
		if b.Key == key {
			return b, true
		}
	}
	return Basemap{}, false
}
