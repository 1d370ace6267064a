package config

import (
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/joho/godotenv"
)

// Config holds environment-driven configuration.
type Config struct {
	Addr string

	MongoURI      string
	MongoDatabase string
	StoreTimeout  time.Duration

	StripeSecretKey string
	PaymentCurrency string

	CartSessionSecret string
	CartSessionTTL    time.Duration
	RedisURL          string

	CORSOrigins        string
	StrictCategories   bool
	AllowResetProducts bool
	LogLevel           string
	ShutdownTimeout    time.Duration
}

func getenv(key, def string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return def
}

func atoienv(key string, def int) int {
	v := getenv(key, "")
	if v == "" {
		return def
	}
	n, err := strconv.Atoi(v)
	if err != nil {
		return def
	}
	return n
}

func boolenv(key string) bool {
	v := strings.ToLower(strings.TrimSpace(os.Getenv(key)))
	return v == "1" || v == "true" || v == "yes"
}

// Load reads configuration from a .env file (when present) and the environment.
func Load() Config {
	_ = godotenv.Load()

	return Config{
		Addr:               ":" + getenv("PORT", "5000"),
		MongoURI:           getenv("MONGODB_URI", "mongodb://localhost:27017"),
		MongoDatabase:      getenv("MONGODB_DATABASE", "fatihas-floral-fantasy"),
		StoreTimeout:       time.Duration(atoienv("STORE_TIMEOUT", 5)) * time.Second,
		StripeSecretKey:    os.Getenv("STRIPE_SECRET_KEY"),
		PaymentCurrency:    strings.ToLower(getenv("PAYMENT_CURRENCY", "usd")),
		CartSessionSecret:  getenv("CART_SESSION_SECRET", "dev-cart-secret"),
		CartSessionTTL:     time.Duration(atoienv("CART_SESSION_TTL", 72)) * time.Hour,
		RedisURL:           os.Getenv("REDIS_URL"),
		CORSOrigins:        getenv("CORS_ORIGINS", "*"),
		StrictCategories:   boolenv("CATALOG_STRICT_CATEGORIES"),
		AllowResetProducts: os.Getenv("ALLOW_RESET_PRODUCTS") == "1",
		LogLevel:           getenv("LOG_LEVEL", "info"),
		ShutdownTimeout:    time.Duration(atoienv("SHUTDOWN_TIMEOUT", 10)) * time.Second,
	}
}
