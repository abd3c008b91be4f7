// Package config loads and validates deployment configuration for hotspot
// generation.
package config

import (
	"encoding/json"
	"fmt"
	"path/filepath"
	"time"

	"github.com/civic-data/hotspot.report/internal/fsutil"
)

// Defaults applied when a field is omitted from the config file. Eps is in
// coordinate degrees (~1 km at Irish latitudes); MinPts of 2 means a lone
// report never becomes a hotspot.
const (
	DefaultEps         = 0.01
	DefaultMinPts      = 2
	DefaultRunInterval = 10 * time.Minute
)

// HotspotConfig holds the tunable parameters of a deployment. Fields use
// pointers so partial config files are safe: omitted fields keep their
// defaults through the Get* accessors.
type HotspotConfig struct {
	// Clustering params
	Eps    *float64 `json:"eps,omitempty"`
	MinPts *int     `json:"min_pts,omitempty"`

	// Worker params
	RunInterval *string `json:"run_interval,omitempty"` // duration string like "10m"

	// POI proxy params
	OverpassURL *string `json:"overpass_url,omitempty"`
}

// EmptyConfig returns a HotspotConfig with all fields unset.
func EmptyConfig() *HotspotConfig {
	return &HotspotConfig{}
}

// Load reads a HotspotConfig from a JSON file. The file must have a .json
// extension and stay under a 1MB size cap. Fields omitted from the file
// retain their defaults, so partial configs are safe.
func Load(path string) (*HotspotConfig, error) {
	return LoadFS(fsutil.OSFileSystem{}, path)
}

// LoadFS is Load against an explicit filesystem. Tests use a
// fsutil.MemoryFileSystem to avoid temp files.
func LoadFS(fs fsutil.FileSystem, path string) (*HotspotConfig, error) {
	cleanPath := filepath.Clean(path)
	if ext := filepath.Ext(cleanPath); ext != ".json" {
		return nil, fmt.Errorf("config file must have .json extension, got %q", ext)
	}

	fileInfo, err := fs.Stat(cleanPath)
	if err != nil {
		return nil, fmt.Errorf("failed to stat config file: %w", err)
	}
	const maxFileSize = 1 * 1024 * 1024
	if fileInfo.Size() > maxFileSize {
		return nil, fmt.Errorf("config file too large: %d bytes (max %d)", fileInfo.Size(), maxFileSize)
	}

	data, err := fs.ReadFile(cleanPath)
	if err != nil {
		return nil, fmt.Errorf("failed to read config file: %w", err)
	}

	cfg := EmptyConfig()
	if err := json.Unmarshal(data, cfg); err != nil {
		return nil, fmt.Errorf("failed to parse config JSON: %w", err)
	}

	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("invalid configuration: %w", err)
	}
	return cfg, nil
}

// Validate checks that every set field holds a usable value. Invalid
// clustering parameters are rejected here, before any generation run.
func (c *HotspotConfig) Validate() error {
	if c.Eps != nil && *c.Eps <= 0 {
		return fmt.Errorf("eps must be positive, got %g", *c.Eps)
	}
	if c.MinPts != nil && *c.MinPts < 1 {
		return fmt.Errorf("min_pts must be at least 1, got %d", *c.MinPts)
	}
	if c.RunInterval != nil && *c.RunInterval != "" {
		d, err := time.ParseDuration(*c.RunInterval)
		if err != nil {
			return fmt.Errorf("invalid run_interval %q: %w", *c.RunInterval, err)
		}
		if d <= 0 {
			return fmt.Errorf("run_interval must be positive, got %s", d)
		}
	}
	return nil
}

// GetEps returns the eps value or the default.
func (c *HotspotConfig) GetEps() float64 {
	if c.Eps == nil {
		return DefaultEps
	}
	return *c.Eps
}

// GetMinPts returns the min_pts value or the default.
func (c *HotspotConfig) GetMinPts() int {
	if c.MinPts == nil {
		return DefaultMinPts
	}
	return *c.MinPts
}

// GetRunInterval parses and returns the RunInterval as a time.Duration.
func (c *HotspotConfig) GetRunInterval() time.Duration {
	if c.RunInterval == nil || *c.RunInterval == "" {
		return DefaultRunInterval
	}
	d, err := time.ParseDuration(*c.RunInterval)
	if err != nil {
		return DefaultRunInterval
	}
	return d
}

// GetOverpassURL returns the Overpass API endpoint or the public default.
func (c *HotspotConfig) GetOverpassURL() string {
	if c.OverpassURL == nil || *c.OverpassURL == "" {
		return "https://overpass-api.de/api/interpreter"
	}
	return *c.OverpassURL
}
