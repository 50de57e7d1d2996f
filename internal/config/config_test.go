package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func clearEnv(t *testing.T) {
	t.Helper()
	for _, k := range []string{"PORT", "LOG_LEVEL", "LOG_FORMAT", "API_BASE", "FETCH_TIMEOUT",
		"STORE_DRIVER", "STORE_DIR", "DB_PATH", "CLIENT_ORIGIN", "FALLBACK_PUZZLE_FILE"} {
		t.Setenv(k, "")
	}
}

func TestLoad_Defaults(t *testing.T) {
	clearEnv(t)
	cfg, err := Load("")
	require.NoError(t, err)
	assert.Equal(t, Default(), cfg)
}

func TestLoad_FileThenEnv(t *testing.T) {
	clearEnv(t)
	path := filepath.Join(t.TempDir(), "powiazania.yaml")
	require.NoError(t, os.WriteFile(path, []byte(`
port: "8080"
api_base: https://staging.pollar.pl
fetch_timeout: 3s
store_driver: file
`), 0o644))

	t.Run("file only", func(t *testing.T) {
		cfg, err := Load(path)
		require.NoError(t, err)
		assert.Equal(t, "8080", cfg.Port)
		assert.Equal(t, "https://staging.pollar.pl", cfg.APIBase)
		assert.Equal(t, 3*time.Second, cfg.FetchTimeout)
		assert.Equal(t, "file", cfg.StoreDriver)
		assert.Equal(t, "info", cfg.LogLevel)
	})

	t.Run("env overrides file", func(t *testing.T) {
		t.Setenv("PORT", "9090")
		t.Setenv("FETCH_TIMEOUT", "250ms")
		t.Setenv("STORE_DRIVER", "Memory")
		cfg, err := Load(path)
		require.NoError(t, err)
		assert.Equal(t, "9090", cfg.Port)
		assert.Equal(t, 250*time.Millisecond, cfg.FetchTimeout)
		assert.Equal(t, "memory", cfg.StoreDriver)
	})
}

func TestLoad_Errors(t *testing.T) {
	t.Run("missing file", func(t *testing.T) {
		_, err := Load(filepath.Join(t.TempDir(), "nope.yaml"))
		assert.Error(t, err)
	})
	t.Run("bad duration", func(t *testing.T) {
		t.Setenv("FETCH_TIMEOUT", "soon")
		_, err := Load("")
		assert.Error(t, err)
	})
	t.Run("bad driver", func(t *testing.T) {
		t.Setenv("STORE_DRIVER", "redis")
		_, err := Load("")
		assert.Error(t, err)
	})
}
