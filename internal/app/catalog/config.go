package catalog

import (
	"os"
	"strings"
)

// Config carries environment-driven settings for the catalog process.
type Config struct {
	Port        string
	PostgresDSN string
	// SeedOnStart upserts the default catalog into PostgreSQL at boot.
	SeedOnStart bool
}

func LoadConfig() Config {
	return Config{
		Port:        envDefault("PORT", "3333"),
		PostgresDSN: strings.TrimSpace(os.Getenv("POSTGRES_DSN")),
		SeedOnStart: isTruthy(envDefault("CATALOG_SEED", "true")),
	}
}

func (c Config) Addr() string {
	return ":" + c.Port
}

func envDefault(key, fallback string) string {
	if val := strings.TrimSpace(os.Getenv(key)); val != "" {
		return val
	}
	return fallback
}

func isTruthy(value string) bool {
	value = strings.TrimSpace(strings.ToLower(value))
	return value == "1" || value == "true" || value == "yes"
}
