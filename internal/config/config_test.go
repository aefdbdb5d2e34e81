package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoad_Defaults(t *testing.T) {
	cfg, err := Load("")
	require.NoError(t, err)

	assert.Equal(t, "8080", cfg.Port)
	assert.Equal(t, StorageMemory, cfg.Storage)
	assert.Equal(t, "info", cfg.LogLevel)
	assert.True(t, cfg.AutoMigrate)
	assert.Equal(t, 10*time.Second, cfg.ReadTimeout)
	assert.Equal(t, 10*time.Second, cfg.ShutdownTimeout)
}

func TestLoad_Env(t *testing.T) {
	t.Setenv("PORT", "9090")
	t.Setenv("STORAGE", "POSTGRES")
	t.Setenv("DATABASE_URL", "postgres://u:p@db:5432/tasks")
	t.Setenv("LOG_LEVEL", "debug")
	t.Setenv("WRITE_TIMEOUT", "3s")

	cfg, err := Load("")
	require.NoError(t, err)

	assert.Equal(t, "9090", cfg.Port)
	assert.Equal(t, StoragePostgres, cfg.Storage)
	assert.Equal(t, "postgres://u:p@db:5432/tasks", cfg.DatabaseURL)
	assert.Equal(t, "debug", cfg.LogLevel)
	assert.Equal(t, 3*time.Second, cfg.WriteTimeout)
}

func TestLoad_File(t *testing.T) {
	path := filepath.Join(t.TempDir(), "config.yaml")
	require.NoError(t, os.WriteFile(path, []byte(`
port: "7000"
storage: sqlite
sqlite_path: /tmp/tasks-test.db
auto_migrate: false
shutdown_timeout: 30s
`), 0o600))

	cfg, err := Load(path)
	require.NoError(t, err)

	assert.Equal(t, "7000", cfg.Port)
	assert.Equal(t, StorageSQLite, cfg.Storage)
	assert.Equal(t, "/tmp/tasks-test.db", cfg.SQLitePath)
	assert.False(t, cfg.AutoMigrate)
	assert.Equal(t, 30*time.Second, cfg.ShutdownTimeout)
}

func TestLoad_EnvOverridesFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "config.yaml")
	require.NoError(t, os.WriteFile(path, []byte("port: \"7000\"\n"), 0o600))
	t.Setenv("PORT", "7100")

	cfg, err := Load(path)
	require.NoError(t, err)
	assert.Equal(t, "7100", cfg.Port)
}

func TestLoad_Invalid(t *testing.T) {
	tests := []struct {
		name string
		env  map[string]string
	}{
		{name: "unknown storage", env: map[string]string{"STORAGE": "redis"}},
		{name: "unknown log level", env: map[string]string{"LOG_LEVEL": "loud"}},
		{name: "port is not numeric", env: map[string]string{"PORT": "http"}},
		{name: "postgres without url", env: map[string]string{"STORAGE": "postgres", "DATABASE_URL": " "}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			for k, v := range tt.env {
				t.Setenv(k, v)
			}
			_, err := Load("")
			assert.Error(t, err)
		})
	}
}

func TestLoad_MissingFile(t *testing.T) {
	_, err := Load(filepath.Join(t.TempDir(), "nope.yaml"))
	assert.Error(t, err)
}
