package cache

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"strings"
	"time"

	"travelmap-service/internal/platform/db"
	"travelmap-service/internal/platform/obs"
)

// SQLTileCache is a SQL-backed cache for rendered tiles, used when the store is
// a database and no Redis is configured. Entries older than TTL are misses.
type SQLTileCache struct {
	DB      *sql.DB
	Dialect db.Dialect
	TTL     time.Duration
	now     func() time.Time
}

func NewSQLTileCache(conn *sql.DB, d db.Dialect, ttl time.Duration) *SQLTileCache {
	return &SQLTileCache{DB: conn, Dialect: d, TTL: ttl, now: time.Now}
}

func (s *SQLTileCache) Get(ctx context.Context, key string) (_ []byte, _ bool, err error) {
	defer obs.Time(ctx, "tilecache.sql.Get")(&err)

	if s.DB == nil {
		return nil, false, errors.New("tile cache: db is nil")
	}
	if strings.TrimSpace(key) == "" {
		return nil, false, errors.New("get tile cache: key must not be empty")
	}

	q := s.Dialect.Rebind(`
	SELECT png
	FROM tile_cache
	WHERE cache_key = ?
		AND created_at >= ?;
	`)

	var b []byte
	err = s.DB.QueryRowContext(ctx, q, key, s.now().Add(-s.TTL).Unix()).Scan(&b)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, false, nil
	}
	if err != nil {
		return nil, false, fmt.Errorf("get tile cache: query tile_cache table: %w", err)
	}
	return b, true, nil
}

func (s *SQLTileCache) Put(ctx context.Context, key string, png []byte) error {
	if s.DB == nil {
		return errors.New("tile cache: db is nil")
	}
	if strings.TrimSpace(key) == "" {
		return errors.New("insert tile cache: key must not be empty")
	}

	q := s.Dialect.Rebind(`
	INSERT INTO tile_cache (cache_key, png, created_at)
	VALUES (?, ?, ?)
	ON CONFLICT (cache_key) DO UPDATE
	SET png = excluded.png, created_at = excluded.created_at;
	`)

	if _, err := s.DB.ExecContext(ctx, q, key, png, s.now().Unix()); err != nil {
		return fmt.Errorf("insert tile cache key=%q: %w", key, err)
	}
	return nil
}
