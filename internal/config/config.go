// Package config defines service configuration structures and loading hooks.
//
// Conventions:
// - New returns a Config populated with defaults.
// - Load layers defaults, an optional YAML file and GDAX_ environment variables.
// - External errors are wrapped with this package's sentinel kinds.
package config

// Config contains process configuration.
type Config struct {
	// LogLevel controls verbosity: debug, info, warn, error.
	LogLevel string `koanf:"log_level"`
	// LogFormat selects the log handler: text or json.
	LogFormat string `koanf:"log_format"`
	// Addr configures the HTTP listen address, e.g. ":8080".
	Addr string `koanf:"addr"`
	// DatabasePath is the SQLite file holding survey responses.
	DatabasePath string `koanf:"database_path"`
	// PublicBaseURL prefixes report links in outgoing notifications.
	PublicBaseURL string `koanf:"public_base_url"`
	// Timezone names the IANA zone used to stamp diagnosis dates.
	Timezone string `koanf:"timezone"`
	// NotifyQueueSize bounds the in-memory notification job queue.
	NotifyQueueSize int `koanf:"notify_queue_size"`
	// NotifyWorkerCount sets the number of notification workers.
	NotifyWorkerCount int `koanf:"notify_worker_count"`
	// DedupeSize sets how many submission keys are remembered.
	DedupeSize int `koanf:"dedupe_size"`
	// MaxListLimit caps GET /api/surveys?limit.
	MaxListLimit int `koanf:"max_list_limit"`
}

// New creates a Config with defaults.
func New() *Config {
	return &Config{
		LogLevel:          "info",
		LogFormat:         "text",
		Addr:              ":9080",
		DatabasePath:      "gdax.db",
		PublicBaseURL:     "http://localhost:9080",
		Timezone:          "Asia/Seoul",
		NotifyQueueSize:   1_000,
		NotifyWorkerCount: 4,
		DedupeSize:        10_000,
		MaxListLimit:      500,
	}
}
