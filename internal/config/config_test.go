package config_test

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"storefront/internal/config"
)

func setRequiredEnv(t *testing.T) {
	t.Helper()
	t.Setenv("PORT", "8080")
	t.Setenv("POSTGRES_USER", "app")
	t.Setenv("POSTGRES_PASSWORD", "secret")
	t.Setenv("POSTGRES_DB", "storefront")
	t.Setenv("POSTGRES_HOST", "localhost")
	t.Setenv("POSTGRES_PORT", "5432")
	t.Setenv("JWT_SECRET", "test-secret")
	t.Setenv("GO_ENV", "dev")
}

func TestLoad_Success(t *testing.T) {
	setRequiredEnv(t)

	cfg, err := config.Load()
	assert.NoError(t, err)
	assert.Equal(t, "8080", cfg.Port)
	assert.Equal(t, 5432, cfg.PostgresPort)
	assert.Equal(t, "dev", cfg.GoEnv)
	// 未指定ならSecure
	assert.True(t, cfg.CookieSecure)
}

func TestLoad_CookieSecureOff(t *testing.T) {
	setRequiredEnv(t)
	t.Setenv("COOKIE_SECURE", "false")

	cfg, err := config.Load()
	assert.NoError(t, err)
	assert.False(t, cfg.CookieSecure)
}

func TestLoad_MissingJWTSecret(t *testing.T) {
	setRequiredEnv(t)
	t.Setenv("JWT_SECRET", "")

	_, err := config.Load()
	assert.Error(t, err)
}

func TestLoad_BadPostgresPort(t *testing.T) {
	setRequiredEnv(t)
	t.Setenv("POSTGRES_PORT", "not-a-port")

	_, err := config.Load()
	assert.Error(t, err)
}
