package config

import (
	"os"
	"strings"
	"time"

	"github.com/joho/godotenv"
)

// Config is centralized process configuration.
// Keep infra values here and pass typed config into builders.
type Config struct {
	ServiceName string
	HTTPPort    string
	PostgresDSN string
	RedisAddr   string

	JWTSecret string
	TokenTTL  time.Duration

	PaymentProviderURL       string
	PaymentProviderSecretKey string
}

func Load() (Config, error) {
	// Optional local env file; real deployments inject the environment.
	_ = godotenv.Load()

	service := os.Getenv("SERVICE_NAME")
	if service == "" {
		service = "phonedeck"
	}

	port := os.Getenv("HTTP_PORT")
	if port == "" {
		port = "8080"
	}

	tokenTTL := 2 * time.Hour
	if raw := strings.TrimSpace(os.Getenv("TOKEN_TTL")); raw != "" {
		parsed, err := time.ParseDuration(raw)
		if err == nil && parsed > 0 {
			tokenTTL = parsed
		}
	}

	providerURL := os.Getenv("PAYMENT_PROVIDER_URL")
	if providerURL == "" {
		providerURL = "https://api.stripe.com"
	}

	return Config{
		ServiceName: service,
		HTTPPort:    port,
		PostgresDSN: os.Getenv("POSTGRES_DSN"),
		RedisAddr:   os.Getenv("REDIS_ADDR"),

		JWTSecret: os.Getenv("JWT_SECRET"),
		TokenTTL:  tokenTTL,

		PaymentProviderURL:       providerURL,
		PaymentProviderSecretKey: os.Getenv("PAYMENT_PROVIDER_SECRET_KEY"),
	}, nil
}
