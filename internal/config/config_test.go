package config

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoadConfig_Defaults(t *testing.T) {
	cfg, err := LoadConfig(t.TempDir())
	require.NoError(t, err)

	assert.Equal(t, "8080", cfg.App.Port)
	assert.Equal(t, "local", cfg.Storage.Driver)
	assert.Equal(t, "uploads", cfg.Storage.Root)
	assert.Equal(t, 24*time.Hour, cfg.Auth.TokenLifespan)
	assert.Equal(t, 10*time.Minute, cfg.Cache.ProfileTTL)
}

func TestLoadConfig_EnvOverrides(t *testing.T) {
	t.Setenv("APP_PORT", "9090")
	t.Setenv("STORAGE_DRIVER", "s3")
	t.Setenv("STORAGE_ROOT", "/var/lib/portfolio")
	t.Setenv("TOKEN_LIFESPAN", "2h")
	t.Setenv("DB_DSN", "postgres://localhost/portfolio")

	cfg, err := LoadConfig(t.TempDir())
	require.NoError(t, err)

	assert.Equal(t, "9090", cfg.App.Port)
	assert.Equal(t, "s3", cfg.Storage.Driver)
	assert.Equal(t, "/var/lib/portfolio", cfg.Storage.Root)
	assert.Equal(t, 2*time.Hour, cfg.Auth.TokenLifespan)
	assert.Equal(t, "postgres://localhost/portfolio", cfg.DB.DSN)
}
