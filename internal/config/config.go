// internal/config/config.go
package config

import (
	"fmt"
	"os"
	"strconv"

	"github.com/anquilosaurios/backend-core/internal/auth"
)

// Config is the full environment surface of the server, read once at
// startup.
type Config struct {
	Port string

	MongoURI      string
	MongoDatabase string

	Token auth.TokenConfig

	// RedisAddr empty means no audit recorder is wired.
	RedisAddr  string
	RedisDB    int
	AuditQueue string

	StripeAPIKey   string
	PaypalClientID string
	PaypalSecret   string
}

// Load reads configuration from environment variables. A present but
// non-integer JWT_EXPIRATION_MINUTES is a fatal configuration error,
// distinct from the missing-secret error raised by the token service
// constructor.
func Load() (*Config, error) {
	cfg := &Config{
		Port:          getEnv("PORT", "8080"),
		MongoURI:      getEnv("MONGO_URI", "mongodb://localhost:27017"),
		MongoDatabase: getEnv("MONGO_DATABASE", "AquilosauriosDB"),
		Token: auth.TokenConfig{
			Secret:   os.Getenv("JWT_SECRET"),
			Issuer:   getEnv("JWT_ISSUER", auth.DefaultIssuer),
			Audience: getEnv("JWT_AUDIENCE", auth.DefaultAudience),
		},
		RedisAddr:      os.Getenv("REDIS_ADDR"),
		AuditQueue:     getEnv("AUDIT_QUEUE_NAME", ""),
		StripeAPIKey:   os.Getenv("PAYMENT_PROVIDERS_STRIPE_APIKEY"),
		PaypalClientID: os.Getenv("PAYMENT_PROVIDERS_PAYPAL_CLIENTID"),
		PaypalSecret:   os.Getenv("PAYMENT_PROVIDERS_PAYPAL_SECRET"),
	}

	expiry := getEnv("JWT_EXPIRATION_MINUTES", strconv.Itoa(auth.DefaultExpirationMinutes))
	minutes, err := strconv.Atoi(expiry)
	if err != nil {
		return nil, fmt.Errorf("JWT_EXPIRATION_MINUTES is not a valid integer: %q", expiry)
	}
	cfg.Token.ExpirationMinutes = minutes

	db := getEnv("REDIS_DB", "0")
	redisDB, err := strconv.Atoi(db)
	if err != nil {
		return nil, fmt.Errorf("REDIS_DB is not a valid integer: %q", db)
	}
	cfg.RedisDB = redisDB

	return cfg, nil
}

// getEnv is a helper to read an environment variable or return a default value.
func getEnv(key, def string) string {
	if val := os.Getenv(key); val != "" {
		return val
	}
	return def
}
