package config

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoad_Defaults(t *testing.T) {
	cfg, err := Load()
	require.NoError(t, err)

	assert.Equal(t, Config{
		LogLevel:    "info",
		Store:       StoreSQLite,
		SQLitePath:  "docmapper.db",
		RedisAddr:   "127.0.0.1:6379",
		RedisDB:     0,
		RedisPrefix: "docmapper:",
		Concurrency: 4,
		Timezone:    "UTC",
	}, *cfg)
}

func TestLoad_FromEnvironment(t *testing.T) {
	t.Setenv("DOCMAPPER_LOG_LEVEL", "debug")
	t.Setenv("DOCMAPPER_STORE", "sqlite")
	t.Setenv("DOCMAPPER_SQLITE_PATH", "/tmp/rules.db")
	t.Setenv("DOCMAPPER_CONCURRENCY", "16")
	t.Setenv("DOCMAPPER_TIMEZONE", "Europe/Paris")

	cfg, err := Load()
	require.NoError(t, err)

	assert.Equal(t, "debug", cfg.LogLevel)
	assert.Equal(t, StoreSQLite, cfg.Store)
	assert.Equal(t, "/tmp/rules.db", cfg.SQLitePath)
	assert.Equal(t, 16, cfg.Concurrency)

	loc, err := cfg.Location()
	require.NoError(t, err)
	assert.Equal(t, "Europe/Paris", loc.String())
}

func TestLoad_Invalid(t *testing.T) {
	tests := map[string]string{
		"DOCMAPPER_STORE":       "postgres",
		"DOCMAPPER_LOG_LEVEL":   "loud",
		"DOCMAPPER_CONCURRENCY": "0",
		"DOCMAPPER_TIMEZONE":    "Mars/Olympus",
	}

	for key, value := range tests {
		t.Run(key, func(t *testing.T) {
			t.Setenv(key, value)

			_, err := Load()
			require.Error(t, err)
			assert.Contains(t, err.Error(), "invalid configuration")
		})
	}
}

func TestLoad_Malformed(t *testing.T) {
	t.Setenv("DOCMAPPER_REDIS_DB", "zero")

	_, err := Load()
	require.Error(t, err)
	assert.Contains(t, err.Error(), "failed to decode environment")
}

func TestConfig_Clock(t *testing.T) {
	cfg := Config{Timezone: "Asia/Tokyo"}

	now, err := cfg.Clock()
	require.NoError(t, err)
	assert.Equal(t, "Asia/Tokyo", now().Location().String())
	assert.WithinDuration(t, time.Now(), now(), time.Minute)

	_, err = Config{Timezone: "nowhere"}.Clock()
	require.Error(t, err)
}
