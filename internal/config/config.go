package config

import (
	"os"
	"strings"
)

// Get returns the value of an environment variable, or the fallback when the
// variable is unset or empty.
func Get(key, fallback string) string {
	if v := strings.TrimSpace(os.Getenv(key)); v != "" {
		return v
	}
	return fallback
}

// Runtime configuration resolved from the environment.
type Config struct {
	// DatabaseURL, when set, switches storage from local sqlite to Postgres.
	DatabaseURL string
	DBPath      string
	SeedPath    string
	RegionsPath string
	// RedisAddr, when set, switches the stats cache from sqlite to Redis.
	RedisAddr string
	Port      string
}

func Load() Config {
	return Config{
		DatabaseURL: strings.TrimSpace(os.Getenv("DATABASE_URL")),
		DBPath:      Get("DB_PATH", "data/app.db"),
		SeedPath:    Get("SEED_PATH", "data/seeds/shipments.json"),
		RegionsPath: Get("REGIONS_PATH", "data/regions/island_zipcodes.json"),
		RedisAddr:   strings.TrimSpace(os.Getenv("REDIS_ADDR")),
		Port:        Get("PORT", "8080"),
	}
}
