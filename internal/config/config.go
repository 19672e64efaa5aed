package config

import (
	"fmt"
	"time"
)

// IconCache configures the session icon cache grid. The dimensions are
// negotiated with the host and fixed for the session lifetime.
type IconCache struct {
	NumCaches       uint32 `yaml:"num_caches" env:"RAILWIN_ICON_CACHES"`
	NumCacheEntries uint32 `yaml:"num_cache_entries" env:"RAILWIN_ICON_CACHE_ENTRIES"`
}

// Launch describes the published application started after the channel
// handshake.
type Launch struct {
	Program    string `yaml:"program" env:"RAILWIN_PROGRAM"`
	WorkingDir string `yaml:"working_dir" env:"RAILWIN_WORKING_DIR"`
	Arguments  string `yaml:"arguments" env:"RAILWIN_ARGUMENTS"`
}

// Config holds the railwin session settings.
type Config struct {
	// Display selects the X display; empty uses $DISPLAY.
	Display string `yaml:"display" env:"RAILWIN_DISPLAY"`

	Launch    Launch    `yaml:"launch"`
	IconCache IconCache `yaml:"icon_cache"`

	// ReconcileIntervalSeconds is how often the drift reconciler compares
	// local window geometry against the authoritative remote geometry.
	ReconcileIntervalSeconds int `yaml:"reconcile_interval_seconds" env:"RAILWIN_RECONCILE_INTERVAL"`
}

// Default returns the built-in configuration: the protocol default icon
// cache grid of 3 caches with 12 entries each and a 10 second reconcile
// interval.
func Default() *Config {
	return &Config{
		IconCache: IconCache{
			NumCaches:       3,
			NumCacheEntries: 12,
		},
		ReconcileIntervalSeconds: 10,
	}
}

// ReconcileInterval returns the reconcile interval as a duration.
func (c *Config) ReconcileInterval() time.Duration {
	return time.Duration(c.ReconcileIntervalSeconds) * time.Second
}

// Validate checks the configuration for values the session cannot run
// with.
func (c *Config) Validate() error {
	if c.IconCache.NumCaches == 0 || c.IconCache.NumCacheEntries == 0 {
		return fmt.Errorf("icon cache grid must be non-empty, got %dx%d",
			c.IconCache.NumCaches, c.IconCache.NumCacheEntries)
	}
	if c.IconCache.NumCaches >= 0xFF {
		return fmt.Errorf("num_caches %d collides with the reserved no-cache id", c.IconCache.NumCaches)
	}
	if c.ReconcileIntervalSeconds <= 0 {
		return fmt.Errorf("reconcile interval must be positive, got %d", c.ReconcileIntervalSeconds)
	}
	return nil
}
