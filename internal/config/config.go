// Package config defines service configuration structures and loading hooks.
//
// Conventions:
// - Provide New() to build a Config with defaults.
// - Load() layers a YAML file and TRIBUNAL_-prefixed env vars on top.
// - External errors must be wrapped via this package's sentinel errors.
package config

// Config contains process configuration. Extend as needed.
type Config struct {
	// LogLevel controls verbosity: debug, info, warn, error.
	LogLevel string `koanf:"log_level"`

	// Addr configures the HTTP listen address, e.g. ":9080".
	Addr string `koanf:"addr"`

	// DBPath is the SQLite file backing the vote ledger.
	DBPath string `koanf:"db_path"`

	// CachePath is the SQLite file backing view snapshots. Empty means
	// an in-memory snapshot store.
	CachePath string `koanf:"cache_path"`

	// CacheTTLSeconds bounds how long a view snapshot is served fresh.
	CacheTTLSeconds int `koanf:"cache_ttl_seconds"`

	// AttributeOffset is the neutral midpoint of the score chart.
	AttributeOffset float64 `koanf:"attribute_offset"`

	// ChartMin and ChartMax bound every published attribute score.
	ChartMin float64 `koanf:"chart_min"`
	ChartMax float64 `koanf:"chart_max"`

	// Spread scales how far a verdict pulls a score from the offset.
	Spread float64 `koanf:"spread"`

	// RegistryURL is the base URL of the reviewer registry service.
	RegistryURL string `koanf:"registry_url"`

	// CatalogURL is the base URL of the match catalog service.
	CatalogURL string `koanf:"catalog_url"`

	// ClientTimeoutSeconds bounds outbound registry/catalog calls.
	ClientTimeoutSeconds int `koanf:"client_timeout_seconds"`
}

// New creates a Config populated with defaults.
func New() *Config {
	return &Config{
		LogLevel:             "info",
		Addr:                 ":9080",
		DBPath:               "tribunal.db",
		CachePath:            "",
		CacheTTLSeconds:      900,
		AttributeOffset:      5,
		ChartMin:             2,
		ChartMax:             10,
		Spread:               1,
		RegistryURL:          "http://localhost:9081",
		CatalogURL:           "http://localhost:9082",
		ClientTimeoutSeconds: 10,
	}
}
