package config

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoadRequiresJWTSecret(t *testing.T) {
	t.Setenv("JWT_OAUTH_SECRET", "")

	_, err := Load()
	assert.ErrorIs(t, err, ErrMissingJWTSecret)
}

func TestLoadDefaultsAndEnv(t *testing.T) {
	t.Setenv("JWT_OAUTH_SECRET", "secret")
	t.Setenv("DB_DRIVER", "sqlite")
	t.Setenv("HTTP_PORT", "9090")
	t.Setenv("REDIS_ADDR", "cache:6380")

	cfg, err := Load()
	require.NoError(t, err)

	assert.Equal(t, "secret", cfg.Auth.JWTSecret)
	assert.Equal(t, "sqlite", cfg.DB.Driver)
	assert.Equal(t, 9090, cfg.HTTP.Port)
	assert.Equal(t, "cache:6380", cfg.Redis.Addr)
	assert.Equal(t, 24*time.Hour, cfg.Auth.AccessTokenTTL)
	assert.Equal(t, 5, cfg.Daily.Size)
	assert.Equal(t, 2112, cfg.Metrics.Port)
}

func TestDSNPrefersURL(t *testing.T) {
	db := DB{URL: "postgres://u:p@h/db", Host: "ignored"}
	assert.Equal(t, "postgres://u:p@h/db", db.DSN())

	db = DB{Host: "h", Port: "5432", User: "u", Password: "p", Name: "n", SSLMode: "disable", TimeZone: "UTC"}
	assert.Equal(t, "host=h user=u password=p dbname=n port=5432 sslmode=disable TimeZone=UTC", db.DSN())
}

func TestDailyLocation(t *testing.T) {
	assert.Equal(t, time.UTC, Daily{}.Location())
	assert.Equal(t, time.UTC, Daily{Timezone: "Not/AZone"}.Location())
	assert.Equal(t, time.UTC, Daily{Timezone: "UTC"}.Location())
}
