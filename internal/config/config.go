// Package config defines service configuration structures and loading hooks.
//
// Conventions:
// - Provide New() to build a Config carrying defaults, Load(ctx) to layer
//   file and environment sources on top.
// - External errors must be wrapped via this package's error helpers.
package config

import (
	"runtime"
)

// Config contains process configuration. Extend as needed.
type Config struct {
	// LogLevel controls verbosity: debug, info, warn, error.
	LogLevel string `koanf:"log_level"`

	// Addr configures the HTTP listen address, e.g. ":8080".
	Addr string `koanf:"addr"`

	// AuditQueueSize bounds the in-memory audit job queue.
	AuditQueueSize int `koanf:"queue_size"`

	// WorkerCount sets the number of audit pipeline workers.
	WorkerCount int `koanf:"worker_count"`

	// DedupeSize sets the size of the event deduplication cache.
	DedupeSize int `koanf:"dedupe_size"`

	// AllDayHours is the working-hour equivalent credited to an all-day
	// calendar event.
	AllDayHours float64 `koanf:"all_day_hours"`

	// TierRates maps delegate rate keys (e.g. "senior_eng", "ea") to
	// default annual salaries used when a submission carries none.
	TierRates map[string]float64 `koanf:"tier_rates"`
}

// New creates a Config populated with defaults. The default tier rates are
// deliberately conservative market medians; submissions may override any of
// them per audit.
func New() *Config {
	c := &Config{
		LogLevel:       "info",
		Addr:           ":9080",
		AuditQueueSize: 10_000,
		WorkerCount:    runtime.NumCPU() * 2,
		DedupeSize:     100_000,
		AllDayHours:    8,
		TierRates: map[string]float64{
			"senior_eng": 180_000,
			"senior_biz": 160_000,
			"junior_eng": 110_000,
			"junior_biz": 90_000,
			"ea":         65_000,
		},
	}
	return c
}
