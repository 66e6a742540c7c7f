package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoadConfig_Defaults(t *testing.T) {
	cfg, err := LoadConfig(t.TempDir())
	require.NoError(t, err)

	assert.Equal(t, ":8080", cfg.Server.Address)
	assert.Equal(t, DriverMongo, cfg.Storage.Driver)
	assert.Equal(t, KVMemory, cfg.Storage.KVBackend)
	assert.Equal(t, 24*time.Hour, cfg.JWT.Expiration)
	assert.Equal(t, 2*time.Minute, cfg.Coach.Timeout)
	assert.Equal(t, "UTC", cfg.Calendar.Timezone)
	assert.False(t, cfg.S3.Enabled())
}

func TestLoadConfig_FileAndEnv(t *testing.T) {
	dir := t.TempDir()
	yaml := `
storage:
  driver: kv
  kv_backend: redis
jwt:
  secret: from-file
  expiration: 90m
calendar:
  timezone: Europe/Berlin
`
	require.NoError(t, os.WriteFile(filepath.Join(dir, "config.yaml"), []byte(yaml), 0o600))
	t.Setenv("JWT_SECRET", "from-env")

	cfg, err := LoadConfig(dir)
	require.NoError(t, err)
	assert.Equal(t, DriverKV, cfg.Storage.Driver)
	assert.Equal(t, KVRedis, cfg.Storage.KVBackend)
	assert.Equal(t, "from-env", cfg.JWT.Secret)
	assert.Equal(t, 90*time.Minute, cfg.JWT.Expiration)
	assert.Equal(t, "Europe/Berlin", cfg.Calendar.Timezone)
}

func TestValidate(t *testing.T) {
	base := Config{Storage: StorageConfig{Driver: DriverKV, KVBackend: KVMemory}, Calendar: CalendarConfig{Timezone: "UTC"}}
	require.NoError(t, base.Validate())

	bad := base
	bad.Storage.Driver = "sqlite"
	assert.Error(t, bad.Validate())

	bad = base
	bad.Storage.KVBackend = "etcd"
	assert.Error(t, bad.Validate())

	bad = base
	bad.Storage.Driver = DriverPostgres
	assert.Error(t, bad.Validate(), "dsn required")

	bad = base
	bad.Calendar.Timezone = "Mars/Olympus"
	assert.Error(t, bad.Validate())
}

func TestLoadConfig_WithDefault(t *testing.T) {
	cfg, err := LoadConfig(t.TempDir(), WithDefault("storage.driver", DriverKV), WithDefault("storage.path", "/tmp/state.json"))
	require.NoError(t, err)
	assert.Equal(t, DriverKV, cfg.Storage.Driver)
	assert.Equal(t, "/tmp/state.json", cfg.Storage.Path)

	t.Setenv("STORAGE_DRIVER", DriverMongo)
	cfg, err = LoadConfig(t.TempDir(), WithDefault("storage.driver", DriverKV))
	require.NoError(t, err)
	assert.Equal(t, DriverMongo, cfg.Storage.Driver, "the environment still wins")
}
