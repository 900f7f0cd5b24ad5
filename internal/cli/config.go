package cli

import (
	"fmt"
	"os"

	"github.com/BurntSushi/toml"
)

// BuildConfig mirrors the optional TOML build configuration. Flags given
// on the command line override values loaded from the file.
type BuildConfig struct {
	Graph struct {
		// BBox is [minLat, minLng, maxLat, maxLng]; empty means no filter.
		BBox []float64 `toml:"bbox"`
		// LargestComponent drops everything outside the largest weakly
		// connected component after import.
		LargestComponent bool `toml:"largest_component"`
	} `toml:"graph"`
	Landmarks struct {
		Count      int   `toml:"count"`
		Seed       int64 `toml:"seed"`
		MaxSettled int   `toml:"max_settled"`
	} `toml:"landmarks"`
}

// loadConfig reads and decodes a TOML build configuration file.
func loadConfig(path string) (*BuildConfig, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read config: %w", err)
	}
	var cfg BuildConfig
	if err := toml.Unmarshal(data, &cfg); err != nil {
		return nil, fmt.Errorf("parse config %s: %w", path, err)
	}
	if n := len(cfg.Graph.BBox); n != 0 && n != 4 {
		return nil, fmt.Errorf("config %s: bbox needs 4 values [minLat, minLng, maxLat, maxLng], got %d", path, n)
	}
	return &cfg, nil
}
