package config

import (
	"fmt"
	"time"
)

// Storage drivers accepted in Config.StorageDriver.
const (
	StorageDriverFile   = "file"
	StorageDriverSQLite = "sqlite"
)

// Config holds runtime settings for the Taskora CLI.
//
// Fields:
//   - BaseURL: root URL of the backend REST API, including the /api prefix.
//   - RequestTimeout: per-request timeout applied by the HTTP client.
//   - DataDir: directory for local state (session snapshot, sqlite database).
//     Empty means "use the per-user default", resolved by the application at
//     startup via filex.DefaultDataDir.
//   - StorageDriver: which session store to use, "file" or "sqlite".
//   - PingInterval: how often the client probes server reachability.
//
// Units: RequestTimeout and PingInterval are time.Durations
// (e.g., 10*time.Second).
type Config struct {
	BaseURL        string
	DataDir        string
	StorageDriver  string
	RequestTimeout time.Duration
	PingInterval   time.Duration
}

// LoadDefaults populates c with sensible defaults.
func (c *Config) LoadDefaults() {
	c.BaseURL = "http://localhost:5000/api"
	c.DataDir = ""
	c.StorageDriver = StorageDriverFile
	c.RequestTimeout = 10 * time.Second
	c.PingInterval = 30 * time.Second
}

// LoadConfig constructs a Config, applies defaults, then overlays values from
// JSON (if present), environment variables and command-line flags. Later
// sources take precedence over earlier ones.
func LoadConfig() *Config {
	cfg := &Config{}
	cfg.LoadDefaults()
	parseJson(cfg)
	parseEnv(cfg)
	parseFlags(cfg)
	cfg.validate()
	return cfg
}

// validate panics on values that every later stage would choke on anyway.
func (c *Config) validate() {
	if c.StorageDriver != StorageDriverFile && c.StorageDriver != StorageDriverSQLite {
		panic(fmt.Sprintf("config: unknown storage driver %q", c.StorageDriver))
	}
}
