package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/dbcove/dbcove/internal/errs"
)

func writeConfig(t *testing.T, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "dbcove.yaml")
	require.NoError(t, os.WriteFile(path, []byte(content), 0o600))
	return path
}

func TestLoad_MissingFileYieldsDefaults(t *testing.T) {
	cfg, err := Load(filepath.Join(t.TempDir(), "absent.yaml"))
	require.NoError(t, err)

	assert.Equal(t, "127.0.0.1", cfg.Server.Host)
	assert.Equal(t, 8080, cfg.Server.Port)
	assert.Equal(t, ".dbcove", cfg.Storage.Dir)
	assert.Equal(t, time.Minute, cfg.Health.Interval.Std())
	assert.Equal(t, "info", cfg.Log.Level)
	assert.Nil(t, cfg.Export)
}

func TestLoad_OverridesMergeOverDefaults(t *testing.T) {
	path := writeConfig(t, `
server:
  port: 9090
  shutdownTimeout: 30s
storage:
  dir: /var/lib/dbcove
health:
  interval: 5m
log:
  level: debug
`)
	cfg, err := Load(path)
	require.NoError(t, err)

	assert.Equal(t, 9090, cfg.Server.Port)
	assert.Equal(t, "127.0.0.1", cfg.Server.Host) // untouched default
	assert.Equal(t, 30*time.Second, cfg.Server.ShutdownTimeout.Std())
	assert.Equal(t, "/var/lib/dbcove", cfg.Storage.Dir)
	assert.Equal(t, 5*time.Minute, cfg.Health.Interval.Std())
	assert.Equal(t, "debug", cfg.Log.Level)
}

func TestLoad_ExportSection(t *testing.T) {
	path := writeConfig(t, `
export:
  endpoint: localhost:9000
  accessKey: minioadmin
  secretKey: minioadmin
  bucket: schema-dumps
`)
	cfg, err := Load(path)
	require.NoError(t, err)
	require.NotNil(t, cfg.Export)
	assert.Equal(t, "localhost:9000", cfg.Export.Endpoint)
	assert.Equal(t, "schema-dumps", cfg.Export.Bucket)
}

func TestLoad_Rejections(t *testing.T) {
	tests := []struct {
		name    string
		content string
	}{
		{"malformed yaml", "server: [not a map"},
		{"port too low", "server:\n  port: 0"},
		{"port too high", "server:\n  port: 70000"},
		{"empty storage dir", `storage: {dir: ""}`},
		{"export without endpoint", "export:\n  bucket: x"},
		{"bad duration", "health:\n  interval: soon"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := Load(writeConfig(t, tt.content))
			require.Error(t, err)
			assert.True(t, errs.IsInvalidConfig(err))
		})
	}
}

func TestPaths(t *testing.T) {
	cfg := Default()
	cfg.Storage.Dir = "/srv/dbcove"
	assert.Equal(t, filepath.Join("/srv/dbcove", "connections.json"), cfg.RegistryPath())
	assert.Equal(t, filepath.Join("/srv/dbcove", "vault.key"), cfg.KeyPath())
}
