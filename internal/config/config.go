// Package config reads service settings from the environment, after an optional .env file.
package config

import (
	"fmt"
	"log/slog"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/joho/godotenv"
)

// Store backends.
const (
	StoreFiles    = "files"
	StorePostgres = "postgres"
	StoreSQLite   = "sqlite"
)

type Config struct {
	Port             string
	Store            string
	DBPath           string
	DatabaseURL      string
	DatasetsManifest string
	BoundariesURL    string
	AliasTablePath   string
	RedisAddr        string
	RedisPassword    string
	RedisDB          int
	TileCacheTTL     time.Duration
}

// Get returns the environment value for key, or fallback when it is unset or empty.
func Get(key, fallback string) string {
	if v := strings.TrimSpace(os.Getenv(key)); v != "" {
		return v
	}
	return fallback
}

// Load reads .env when present and then the environment.
func Load() (Config, error) {
	if err := godotenv.Load(); err != nil {
		slog.Debug("no .env file found, using environment variables")
	}

	cfg := Config{
		Port:             Get("PORT", "8080"),
		Store:            strings.ToLower(Get("STORE", StoreFiles)),
		DBPath:           Get("DB_PATH", "data/travelmap.db"),
		DatabaseURL:      Get("DATABASE_URL", ""),
		DatasetsManifest: Get("DATASETS_MANIFEST", "data/datasets.yaml"),
		BoundariesURL:    Get("BOUNDARIES_URL", "data/countries.geojson"),
		AliasTablePath:   Get("ALIAS_TABLE_PATH", ""),
		RedisAddr:        Get("REDIS_ADDR", ""),
		RedisPassword:    Get("REDIS_PASSWORD", ""),
	}

	db, err := strconv.Atoi(Get("REDIS_DB", "0"))
	if err != nil {
		return Config{}, fmt.Errorf("load config: REDIS_DB: %w", err)
	}
	cfg.RedisDB = db

	ttl, err := time.ParseDuration(Get("TILE_CACHE_TTL", "24h"))
	if err != nil {
		return Config{}, fmt.Errorf("load config: TILE_CACHE_TTL: %w", err)
	}
	cfg.TileCacheTTL = ttl

	switch cfg.Store {
	case StoreFiles:
	case StorePostgres:
		if cfg.DatabaseURL == "" {
			return Config{}, fmt.Errorf("load config: DATABASE_URL is required for STORE=%s", cfg.Store)
		}
	case StoreSQLite:
	default:
		return Config{}, fmt.Errorf("load config: unknown STORE %q", cfg.Store)
	}

	return cfg, nil
}
