package config

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoadConfig_Defaults(t *testing.T) {
	cfg := &Config{}
	err := LoadConfig(cfg)
	require.NoError(t, err)

	assert.Equal(t, "8080", cfg.Server.Port)
	assert.Equal(t, "localhost", cfg.Server.Host)
	assert.Equal(t, "info", cfg.Log.Level)
	assert.Equal(t, "json", cfg.Log.Format)
	assert.Equal(t, "sqlite", cfg.Database.Driver)
	assert.True(t, cfg.Database.AutoMigrate)
	assert.Equal(t, 10, cfg.Auth.BcryptCost)
	assert.Equal(t, 32, cfg.Auth.CodeLength)
	assert.Equal(t, 24*time.Hour, cfg.Auth.VerifyCodeExpiry)
	assert.Equal(t, time.Hour, cfg.Auth.ResetCodeExpiry)
	assert.Equal(t, 24*time.Hour, cfg.JWT.Expiry)
	assert.Equal(t, "userapp", cfg.JWT.Issuer)
	assert.Equal(t, 587, cfg.Mail.Port)
	assert.True(t, cfg.RateLimit.Enabled)
}

func TestLoadConfig_EnvOverrides(t *testing.T) {
	t.Setenv("USERAPP_SERVER_PORT", "9090")
	t.Setenv("USERAPP_DATABASE_DRIVER", "postgres")
	t.Setenv("USERAPP_JWT_SECRET_KEY", "test-secret")
	t.Setenv("USERAPP_AUTH_RESET_CODE_EXPIRY", "30m")

	cfg := &Config{}
	err := LoadConfig(cfg)
	require.NoError(t, err)

	assert.Equal(t, "9090", cfg.Server.Port)
	assert.Equal(t, "postgres", cfg.Database.Driver)
	assert.Equal(t, "test-secret", cfg.JWT.SecretKey)
	assert.Equal(t, 30*time.Minute, cfg.Auth.ResetCodeExpiry)
}
