package api

import (
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"

	"go.temporal.io/sdk/client"

	cartapp "github.com/Apurer/storefront-cart/internal/domains/cart/application"
)

const (
	BackendMemory   = "memory"
	BackendFile     = "file"
	BackendPostgres = "postgres"
	BackendRedis    = "redis"

	DefaultSnapshotTTL    = 7 * 24 * time.Hour
	DefaultCatalogTimeout = 5 * time.Second
)

// Config carries environment-driven settings for the cart processes.
type Config struct {
	Port              string
	CatalogBaseURL    string
	CatalogTimeout    time.Duration
	SnapshotBackend   string
	SnapshotKeyPrefix string
	SnapshotDir       string
	SnapshotTTL       time.Duration
	PostgresDSN       string
	RedisAddr         string
	RedisPassword     string
	RedisDB           int
	TemporalAddress   string
	TemporalNamespace string
	TemporalDisabled  bool
	CartIdleTimeout   time.Duration
	MaxOpenCarts      int
}

// LoadConfig reads environment variables, applies defaults, and validates basic constraints.
func LoadConfig() (Config, error) {
	cfg := Config{
		Port:              envDefault("PORT", "8080"),
		CatalogBaseURL:    strings.TrimSpace(os.Getenv("CATALOG_BASE_URL")),
		CatalogTimeout:    DefaultCatalogTimeout,
		SnapshotBackend:   strings.ToLower(envDefault("SNAPSHOT_BACKEND", BackendMemory)),
		SnapshotKeyPrefix: envDefault("SNAPSHOT_KEY_PREFIX", cartapp.DefaultKeyPrefix),
		SnapshotDir:       envDefault("SNAPSHOT_DIR", "data/carts"),
		SnapshotTTL:       DefaultSnapshotTTL,
		PostgresDSN:       strings.TrimSpace(os.Getenv("POSTGRES_DSN")),
		RedisAddr:         envDefault("REDIS_ADDR", "localhost:6379"),
		RedisPassword:     os.Getenv("REDIS_PASSWORD"),
		TemporalAddress:   envDefault("TEMPORAL_ADDRESS", client.DefaultHostPort),
		TemporalNamespace: envDefault("TEMPORAL_NAMESPACE", client.DefaultNamespace),
		TemporalDisabled:  isTruthy(os.Getenv("TEMPORAL_DISABLED")),
		CartIdleTimeout:   cartapp.DefaultIdleTimeout,
		MaxOpenCarts:      cartapp.DefaultMaxCarts,
	}
	switch cfg.SnapshotBackend {
	case BackendMemory, BackendFile, BackendRedis:
	case BackendPostgres:
		if cfg.PostgresDSN == "" {
			return Config{}, fmt.Errorf("SNAPSHOT_BACKEND=postgres requires POSTGRES_DSN")
		}
	default:
		return Config{}, fmt.Errorf("SNAPSHOT_BACKEND must be one of memory, file, postgres, redis")
	}
	if raw := strings.TrimSpace(os.Getenv("CATALOG_TIMEOUT_MS")); raw != "" {
		ms, err := strconv.Atoi(raw)
		if err != nil || ms <= 0 {
			return Config{}, fmt.Errorf("CATALOG_TIMEOUT_MS must be a positive integer")
		}
		cfg.CatalogTimeout = time.Duration(ms) * time.Millisecond
	}
	if raw := strings.TrimSpace(os.Getenv("SNAPSHOT_TTL_HOURS")); raw != "" {
		hours, err := strconv.Atoi(raw)
		if err != nil || hours <= 0 {
			return Config{}, fmt.Errorf("SNAPSHOT_TTL_HOURS must be a positive integer")
		}
		cfg.SnapshotTTL = time.Duration(hours) * time.Hour
	}
	if raw := strings.TrimSpace(os.Getenv("REDIS_DB")); raw != "" {
		db, err := strconv.Atoi(raw)
		if err != nil || db < 0 {
			return Config{}, fmt.Errorf("REDIS_DB must be a non-negative integer")
		}
		cfg.RedisDB = db
	}
	if raw := strings.TrimSpace(os.Getenv("CART_IDLE_MINUTES")); raw != "" {
		minutes, err := strconv.Atoi(raw)
		if err != nil || minutes <= 0 {
			return Config{}, fmt.Errorf("CART_IDLE_MINUTES must be a positive integer")
		}
		cfg.CartIdleTimeout = time.Duration(minutes) * time.Minute
	}
	if cfg.CartIdleTimeout >= cfg.SnapshotTTL {
		return Config{}, fmt.Errorf("CART_IDLE_MINUTES must be shorter than SNAPSHOT_TTL_HOURS")
	}
	if raw := strings.TrimSpace(os.Getenv("CART_MAX_OPEN")); raw != "" {
		n, err := strconv.Atoi(raw)
		if err != nil || n <= 0 {
			return Config{}, fmt.Errorf("CART_MAX_OPEN must be a positive integer")
		}
		cfg.MaxOpenCarts = n
	}
	return cfg, nil
}

// Addr is the listen address derived from Port.
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
