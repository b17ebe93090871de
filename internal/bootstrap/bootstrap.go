// Package bootstrap wires concrete adapters behind ports from a Config. Both
// binaries share it so the server and dbtool agree on store and cache selection.
package bootstrap

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"time"

	"travelmap-service/internal/adapters/boundaries"
	"travelmap-service/internal/adapters/cache"
	"travelmap-service/internal/adapters/datasets"
	"travelmap-service/internal/adapters/remote"
	"travelmap-service/internal/adapters/repositories"
	"travelmap-service/internal/config"
	"travelmap-service/internal/platform/db"
	"travelmap-service/internal/ports"
	"travelmap-service/internal/services"
)

const (
	fetchTimeout  = 30 * time.Second
	memoryTileCap = 4096
)

// ErrNoDatabase is returned by commands that need STORE=postgres or sqlite.
var ErrNoDatabase = errors.New("a database store is required (STORE=postgres or STORE=sqlite)")

// Deps holds the wired application and the resources it owns.
type Deps struct {
	App   *services.App
	Repo  ports.LocationRepository
	Tiles ports.TileCache

	// DB is nil for STORE=files.
	DB      *sql.DB
	Dialect db.Dialect

	// Shared reports whether tiles reach a cache outside this process.
	Shared bool

	closers []func() error
}

// Close releases the database and Redis connections.
func (d *Deps) Close() {
	for i := len(d.closers) - 1; i >= 0; i-- {
		if err := d.closers[i](); err != nil {
			slog.Warn("close_failed", "err", err)
		}
	}
}

func NewFetcher() *remote.Fetcher {
	return remote.NewFetcher(&http.Client{Timeout: fetchTimeout})
}

// OpenDB opens the configured database and ensures the schema exists. It
// returns a nil handle for STORE=files.
func OpenDB(ctx context.Context, cfg config.Config) (*sql.DB, db.Dialect, error) {
	var (
		conn    *sql.DB
		dialect db.Dialect
		err     error
	)
	switch cfg.Store {
	case config.StorePostgres:
		conn, err = db.Open(cfg.DatabaseURL)
		dialect = db.Postgres
	case config.StoreSQLite:
		conn, err = db.OpenSQLite(cfg.DBPath)
		dialect = db.SQLite
	default:
		return nil, "", nil
	}
	if err != nil {
		return nil, "", err
	}

	if err := repositories.InitSchema(ctx, conn, dialect); err != nil {
		conn.Close()
		return nil, "", err
	}
	return conn, dialect, nil
}

// Open builds the store, boundaries, alias table, tile cache and App described
// by cfg. It does not load any data.
func Open(ctx context.Context, cfg config.Config) (*Deps, error) {
	d := &Deps{}
	fetcher := NewFetcher()

	conn, dialect, err := OpenDB(ctx, cfg)
	if err != nil {
		return nil, fmt.Errorf("bootstrap: %w", err)
	}
	if conn != nil {
		d.DB, d.Dialect = conn, dialect
		d.closers = append(d.closers, conn.Close)
		d.Repo = repositories.NewSQLLocationRepository(conn, dialect)
	} else {
		d.Repo = datasets.NewRepository(fetcher, cfg.DatasetsManifest)
	}

	aliases := services.DefaultAliasTable()
	if cfg.AliasTablePath != "" {
		aliases, err = services.LoadAliasTableFile(cfg.AliasTablePath)
		if err != nil {
			d.Close()
			return nil, fmt.Errorf("bootstrap: %w", err)
		}
	}

	var bounds ports.BoundaryProvider
	if cfg.BoundariesURL != "" {
		bounds = boundaries.NewGeoJSONProvider(fetcher, cfg.BoundariesURL)
	}

	d.App = services.NewApp(d.Repo, bounds, aliases)
	d.Tiles = d.tileCache(ctx, cfg)

	slog.Info("bootstrap_ok",
		"store", cfg.Store,
		"boundaries", cfg.BoundariesURL,
		"aliases", aliases.Len(),
		"shared_tile_cache", d.Shared,
	)
	return d, nil
}

// tileCache fronts Redis, or the database when Redis is not configured, with
// an in-process LRU.
func (d *Deps) tileCache(ctx context.Context, cfg config.Config) ports.TileCache {
	front := cache.NewMemoryTileCache(memoryTileCap, cfg.TileCacheTTL)

	if client := cache.OpenRedis(cfg.RedisAddr, cfg.RedisPassword, cfg.RedisDB); client != nil {
		d.closers = append(d.closers, client.Close)
		if err := client.Ping(ctx).Err(); err != nil {
			slog.Warn("redis_unavailable", "addr", cfg.RedisAddr, "err", err)
		}
		d.Shared = true
		return cache.NewLayered(front, cache.NewRedisTileCache(client, cfg.TileCacheTTL))
	}

	if d.DB != nil {
		d.Shared = true
		return cache.NewLayered(front, cache.NewSQLTileCache(d.DB, d.Dialect, cfg.TileCacheTTL))
	}

	return cache.NewLayered(front, nil)
}
