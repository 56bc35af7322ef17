package config

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoadConfig_Defaults(t *testing.T) {
	cfg, err := LoadConfig()
	require.NoError(t, err)

	assert.Equal(t, 8080, cfg.Server.Port)
	assert.Equal(t, "labor_platform", cfg.Database.Database)
	assert.Equal(t, "info", cfg.Logging.Level)
	assert.True(t, cfg.Geocoder.Enabled)
	assert.NotEmpty(t, cfg.BLS.BaseURL)
}

func TestLoadConfig_EnvOverrides(t *testing.T) {
	t.Setenv("SERVER_PORT", "9090")
	t.Setenv("DB_NAME", "labor_test")
	t.Setenv("LOG_LEVEL", "debug")
	t.Setenv("GEOCODER_ENABLED", "false")
	t.Setenv("DB_CONN_MAX_LIFETIME", "10m")

	cfg, err := LoadConfig()
	require.NoError(t, err)

	assert.Equal(t, 9090, cfg.Server.Port)
	assert.Equal(t, "labor_test", cfg.Database.Database)
	assert.Equal(t, "debug", cfg.Logging.Level)
	assert.False(t, cfg.Geocoder.Enabled)
	assert.Equal(t, 10*time.Minute, cfg.Database.ConnMaxLifetime)
}

func TestLoadConfig_InvalidValuesFallBack(t *testing.T) {
	t.Setenv("SERVER_PORT", "not-a-number")
	t.Setenv("GEOCODER_ENABLED", "maybe")

	cfg, err := LoadConfig()
	require.NoError(t, err)

	assert.Equal(t, 8080, cfg.Server.Port)
	assert.True(t, cfg.Geocoder.Enabled)
}

func TestConfig_Validate(t *testing.T) {
	base := func() *Config {
		cfg, err := LoadConfig()
		require.NoError(t, err)
		return cfg
	}

	cfg := base()
	assert.NoError(t, cfg.Validate())

	cfg = base()
	cfg.Server.Port = 0
	assert.Error(t, cfg.Validate())

	cfg = base()
	cfg.Database.Host = ""
	assert.Error(t, cfg.Validate())

	cfg = base()
	cfg.Database.Database = ""
	assert.Error(t, cfg.Validate())

	cfg = base()
	cfg.Database.MaxOpenConns = 0
	assert.Error(t, cfg.Validate())

	cfg = base()
	cfg.Logging.Level = "verbose"
	assert.Error(t, cfg.Validate())
}
