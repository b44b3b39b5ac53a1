// Package config loads runtime configuration for the Taskora CLI.
//
// Sources & precedence
//
//  1. Built-in defaults (see (*Config).LoadDefaults).
//  2. Optional JSON file (see parseJson) selected via flags: -c or -config.
//  3. Environment variables (see parseEnv), with an optional .env overlay.
//  4. Command-line flags (see parseFlags), which override earlier values.
//
// Supported flags
//
//	-a string   base URL of the backend REST API
//	-d string   directory for local data (session snapshot, sqlite database)
//	-s string   session storage driver: file or sqlite
//	-t int      request timeout (seconds)
//	-i int      online status check interval (seconds)
//
// Environment variables
//
//	TASKORA_BASE_URL          base URL of the backend REST API
//	TASKORA_DATA_DIR          directory for local data
//	TASKORA_STORAGE_DRIVER    session storage driver: file or sqlite
//	TASKORA_REQUEST_TIMEOUT   request timeout, ParseDuration syntax ("10s")
//	TASKORA_PING_INTERVAL     online check interval, ParseDuration syntax
//
// # JSON schema
//
// The JSON loader uses timex.Duration for intervals, so values can be either
// strings like "10s" or integer nanoseconds:
//
//	{
//	  "base_url": "http://localhost:5000/api",
//	  "data_dir": "/var/lib/taskora",
//	  "storage_driver": "sqlite",
//	  "request_timeout": "10s",
//	  "ping_interval": "30s"
//	}
//
// Primary API
//
//   - type Config                     — holds the runtime settings listed above
//   - func LoadConfig() *Config       — builds Config by applying defaults, JSON, env, then flags
//   - func (*Config) LoadDefaults()   — sets sensible defaults
package config
