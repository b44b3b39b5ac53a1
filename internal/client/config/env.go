package config

import (
	"os"
	"time"

	"github.com/joho/godotenv"
)

// Environment variables recognized by parseEnv.
const (
	EnvBaseURL        = "TASKORA_BASE_URL"
	EnvDataDir        = "TASKORA_DATA_DIR"
	EnvStorageDriver  = "TASKORA_STORAGE_DRIVER"
	EnvRequestTimeout = "TASKORA_REQUEST_TIMEOUT"
	EnvPingInterval   = "TASKORA_PING_INTERVAL"
)

// parseEnv overlays Config with values from environment variables. A .env
// file in the working directory is loaded first, if present, without
// overriding variables already set in the environment.
//
// Durations use time.ParseDuration syntax ("10s", "1m30s"). Malformed
// values panic, same as the JSON and flag stages.
func parseEnv(cfg *Config) {
	_ = godotenv.Load()

	cfg.BaseURL = envString(EnvBaseURL, cfg.BaseURL)
	cfg.DataDir = envString(EnvDataDir, cfg.DataDir)
	cfg.StorageDriver = envString(EnvStorageDriver, cfg.StorageDriver)
	cfg.RequestTimeout = envDuration(EnvRequestTimeout, cfg.RequestTimeout)
	cfg.PingInterval = envDuration(EnvPingInterval, cfg.PingInterval)
}

func envString(key, current string) string {
	if v, ok := os.LookupEnv(key); ok && v != "" {
		return v
	}
	return current
}

func envDuration(key string, current time.Duration) time.Duration {
	v, ok := os.LookupEnv(key)
	if !ok || v == "" {
		return current
	}
	d, err := time.ParseDuration(v)
	if err != nil {
		panic(err)
	}
	return d
}
