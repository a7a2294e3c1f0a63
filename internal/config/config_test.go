// internal/config/config_test.go
package config

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/anquilosaurios/backend-core/internal/auth"
)

func clearEnv(t *testing.T) {
	t.Helper()
	for _, key := range []string{
		"PORT", "MONGO_URI", "MONGO_DATABASE",
		"JWT_SECRET", "JWT_ISSUER", "JWT_AUDIENCE", "JWT_EXPIRATION_MINUTES",
		"REDIS_ADDR", "REDIS_DB", "AUDIT_QUEUE_NAME",
		"PAYMENT_PROVIDERS_STRIPE_APIKEY",
		"PAYMENT_PROVIDERS_PAYPAL_CLIENTID", "PAYMENT_PROVIDERS_PAYPAL_SECRET",
	} {
		t.Setenv(key, "")
	}
}

func TestLoadDefaults(t *testing.T) {
	clearEnv(t)

	cfg, err := Load()
	require.NoError(t, err)

	assert.Equal(t, "8080", cfg.Port)
	assert.Equal(t, "mongodb://localhost:27017", cfg.MongoURI)
	assert.Equal(t, "AquilosauriosDB", cfg.MongoDatabase)
	assert.Equal(t, auth.DefaultIssuer, cfg.Token.Issuer)
	assert.Equal(t, auth.DefaultAudience, cfg.Token.Audience)
	assert.Equal(t, auth.DefaultExpirationMinutes, cfg.Token.ExpirationMinutes)
	assert.Empty(t, cfg.RedisAddr)
	assert.Zero(t, cfg.RedisDB)
}

func TestLoadOverrides(t *testing.T) {
	clearEnv(t)
	t.Setenv("PORT", "9090")
	t.Setenv("JWT_SECRET", "s3cret")
	t.Setenv("JWT_ISSUER", "other-issuer")
	t.Setenv("JWT_EXPIRATION_MINUTES", "60")
	t.Setenv("REDIS_ADDR", "localhost:6379")
	t.Setenv("REDIS_DB", "3")

	cfg, err := Load()
	require.NoError(t, err)

	assert.Equal(t, "9090", cfg.Port)
	assert.Equal(t, "s3cret", cfg.Token.Secret)
	assert.Equal(t, "other-issuer", cfg.Token.Issuer)
	assert.Equal(t, 60, cfg.Token.ExpirationMinutes)
	assert.Equal(t, "localhost:6379", cfg.RedisAddr)
	assert.Equal(t, 3, cfg.RedisDB)
}

func TestLoadRejectsNonIntegerExpiry(t *testing.T) {
	clearEnv(t)
	t.Setenv("JWT_EXPIRATION_MINUTES", "soon")

	_, err := Load()
	require.Error(t, err)
	assert.Contains(t, err.Error(), "JWT_EXPIRATION_MINUTES")
}

func TestLoadRejectsNonIntegerRedisDB(t *testing.T) {
	clearEnv(t)
	t.Setenv("REDIS_DB", "primary")

	_, err := Load()
	require.Error(t, err)
	assert.Contains(t, err.Error(), "REDIS_DB")
}
