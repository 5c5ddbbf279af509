package config

import (
	"os"
	"strconv"
	"time"

	"github.com/joho/godotenv"
)

// Config carries everything the client needs at startup. It is built once in
// main and injected; packages never read the environment themselves.
type Config struct {
	// APIBaseURL is the root of the remote gym API, e.g.
	// https://api.example.com/user/api
	APIBaseURL string

	// GeocoderBaseURL is the root of the forward/reverse geocoding service.
	GeocoderBaseURL string

	RequestTimeout time.Duration
	PageSize       int

	// DBPath is the on-device sqlite file holding the session and the
	// offline booking cache.
	DBPath string

	// CheckoutPort is the localhost port the payment callback listener
	// binds to while a checkout is in progress.
	CheckoutPort string

	// PaymentGatewayURL is the checkout page of the payment collaborator.
	PaymentGatewayURL string

	// MetricsPort, when non-empty, enables the localhost prometheus
	// endpoint.
	MetricsPort string
}

func Load() (*Config, error) {
	_ = godotenv.Load()

	cfg := &Config{
		APIBaseURL:        getEnv("API_BASE_URL", "http://localhost:8080/user/api"),
		GeocoderBaseURL:   getEnv("GEOCODER_BASE_URL", "https://nominatim.openstreetmap.org"),
		RequestTimeout:    getDurationEnv("REQUEST_TIMEOUT", 15*time.Second),
		PageSize:          getIntEnv("PAGE_SIZE", 9),
		DBPath:            getEnv("DB_PATH", "gymapp.db"),
		CheckoutPort:      getEnv("CHECKOUT_PORT", "7878"),
		PaymentGatewayURL: getEnv("PAYMENT_GATEWAY_URL", "https://checkout.example.com/pay"),
		MetricsPort:       getEnv("METRICS_PORT", ""),
	}

	return cfg, nil
}

func getEnv(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}

func getIntEnv(key string, defaultValue int) int {
	if value := os.Getenv(key); value != "" {
		if n, err := strconv.Atoi(value); err == nil && n > 0 {
			return n
		}
	}
	return defaultValue
}

func getDurationEnv(key string, defaultValue time.Duration) time.Duration {
	if value := os.Getenv(key); value != "" {
		if d, err := time.ParseDuration(value); err == nil && d > 0 {
			return d
		}
	}
	return defaultValue
}
