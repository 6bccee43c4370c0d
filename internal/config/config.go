package config

import (
	"os"
	"strconv"
	"time"

	"github.com/joho/godotenv"

	"golang.org/x/crypto/bcrypt"

	"github.com/CoolizzLuo/graphql-demo/internal/auth"
)

// Config holds all service configuration loaded from environment variables.
type Config struct {
	Port         string
	StoreBackend string // memory | postgres | mongo
	PostgresDSN  string
	MongoURI     string
	MongoDB      string
	TokenSecret  string
	TokenTTL     time.Duration
	BcryptCost   int
	SeedDemoData bool
}

func Load() *Config {
	_ = godotenv.Load()

	return &Config{
		Port:         getenv("PORT", "4000"),
		StoreBackend: getenv("STORE_BACKEND", "memory"),
		PostgresDSN:  getenv("POSTGRES_DSN", ""),
		MongoURI:     getenv("MONGO_URI", ""),
		MongoDB:      getenv("MONGO_DB", "social_graph"),
		TokenSecret:  getenv("TOKEN_SECRET", ""),
		TokenTTL:     getduration("TOKEN_TTL", auth.DefaultTokenTTL),
		BcryptCost:   getint("BCRYPT_COST", bcrypt.DefaultCost),
		SeedDemoData: getenv("SEED_DEMO_DATA", "false") == "true",
	}
}

func getenv(key, fallback string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return fallback
}

func getint(key string, fallback int) int {
	if v := os.Getenv(key); v != "" {
		if n, err := strconv.Atoi(v); err == nil {
			return n
		}
	}
	return fallback
}

func getduration(key string, fallback time.Duration) time.Duration {
	if v := os.Getenv(key); v != "" {
		if d, err := time.ParseDuration(v); err == nil {
			return d
		}
	}
	return fallback
}
