package config

import (
	"encoding/json"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func writeTempJSON(t *testing.T, dir, name string, data map[string]any) string {
	t.Helper()
	if dir == "" {
		dir = t.TempDir()
	}
	if name == "" {
		name = "cfg.json"
	}
	path := filepath.Join(dir, name)
	b, err := json.Marshal(data)
	require.NoError(t, err)
	require.NoError(t, os.WriteFile(path, b, 0o600))
	return path
}

func Test_parseJson_SourcesAndPrecedence(t *testing.T) {
	origArgs := os.Args
	t.Cleanup(func() { os.Args = origArgs })

	dir := t.TempDir()
	pathFlag := writeTempJSON(t, dir, "flag.json", map[string]any{
		"base_url":        "http://api.example:9000/api",
		"storage_driver":  "sqlite",
		"request_timeout": "5s",
		"ping_interval":   "10s",
	})

	t.Run("loads from flags", func(t *testing.T) {
		os.Args = []string{"testbin", "-config", pathFlag}

		cfg := &Config{}
		parseJson(cfg)

		assert.Equal(t, "http://api.example:9000/api", cfg.BaseURL)
		assert.Equal(t, "sqlite", cfg.StorageDriver)
		assert.Equal(t, 5*time.Second, cfg.RequestTimeout)
		assert.Equal(t, 10*time.Second, cfg.PingInterval)
	})

	t.Run("no CONFIG and no flags → no changes", func(t *testing.T) {
		os.Args = []string{"testbin"}

		cfg := &Config{
			BaseURL:        "http://defaults:1234/api",
			PingInterval:   42 * time.Second,
			RequestTimeout: 7 * time.Second,
		}
		parseJson(cfg)

		assert.Equal(t, "http://defaults:1234/api", cfg.BaseURL)
		assert.Equal(t, 42*time.Second, cfg.PingInterval)
		assert.Equal(t, 7*time.Second, cfg.RequestTimeout)
	})

	t.Run("partial file keeps remaining values", func(t *testing.T) {
		partial := writeTempJSON(t, dir, "partial.json", map[string]any{
			"base_url": "http://other:8080/api",
		})
		os.Args = []string{"testbin", "-c", partial}

		cfg := &Config{}
		cfg.LoadDefaults()
		parseJson(cfg)

		assert.Equal(t, "http://other:8080/api", cfg.BaseURL)
		// остальные поля остаются из defaults
		assert.Equal(t, StorageDriverFile, cfg.StorageDriver)
		assert.Equal(t, 10*time.Second, cfg.RequestTimeout)
		assert.Equal(t, 30*time.Second, cfg.PingInterval)
	})

	t.Run("invalid JSON → panics", func(t *testing.T) {
		bad := filepath.Join(dir, "bad.json")
		require.NoError(t, os.WriteFile(bad, []byte(`{ this is not valid json`), 0o600))

		os.Args = []string{"testbin", "-config", bad}

		cfg := &Config{}
		require.Panics(t, func() { parseJson(cfg) })
	})
}
