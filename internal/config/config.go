// Package config defines service configuration structures and loading hooks.
//
// Conventions:
//   - Provide New() to build a Config with defaults, Load(ctx) to layer
//     file and environment sources on top.
//   - External errors must be wrapped via this package's error helpers.
package config

import "runtime"

// Config contains process configuration. Extend as needed.
type Config struct {
	// LogLevel controls verbosity: debug, info, warn, error.
	LogLevel string `koanf:"log_level"`

	// Addr configures the HTTP listen address, e.g. ":8080".
	Addr string `koanf:"addr"`

	// DataDir points at the root of the snapshot tree.
	DataDir string `koanf:"data_dir"`

	// QueueSize bounds the in-memory ingest queue.
	QueueSize int `koanf:"queue_size"`

	// WorkerCount sets the number of ingest workers.
	WorkerCount int `koanf:"worker_count"`

	// ShardCount configures the number of shards in the row store.
	ShardCount int `koanf:"shard_count"`

	// MaxLeaderboardLimit caps GET /leaderboard?limit.
	MaxLeaderboardLimit int `koanf:"max_leaderboard_limit"`

	// SourceOrderSeason marks the season whose exports carry an
	// authoritative row ordering that display must preserve.
	SourceOrderSeason int `koanf:"source_order_season"`

	// ReplacementCutoffs overrides the per-position replacement ranks.
	ReplacementCutoffs map[string]int `koanf:"replacement_cutoffs"`

	// BoomThresholds overrides the per-position boom thresholds.
	BoomThresholds map[string]float64 `koanf:"boom_thresholds"`

	// DefaultBoomThreshold applies to positions missing from
	// BoomThresholds.
	DefaultBoomThreshold float64 `koanf:"default_boom_threshold"`
}

// New creates a Config with defaults.
func New() *Config {
	return &Config{
		LogLevel:             "info",
		Addr:                 ":9080",
		DataDir:              "./data",
		QueueSize:            4096,
		WorkerCount:          runtime.NumCPU() * 4,
		ShardCount:           16,
		MaxLeaderboardLimit:  100,
		SourceOrderSeason:    2024,
		DefaultBoomThreshold: 0,
	}
}

// IsSourceOrderSeason reports whether a season's export ordering is
// authoritative for display.
func (c *Config) IsSourceOrderSeason(season int) bool {
	return season == c.SourceOrderSeason
}
