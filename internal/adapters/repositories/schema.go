package repositories

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"travelmap-service/internal/domain"
	"travelmap-service/internal/platform/db"
)

// Initialize the database schema. Statements are valid for both PostgreSQL and SQLite.
func InitSchema(ctx context.Context, conn *sql.DB, d db.Dialect) error {
	if conn == nil {
		return errors.New("init schema: DB is nil")
	}

	tx, err := conn.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("init schema: begin tx: %w", err)
	}
	defer func() { _ = tx.Rollback() }()

	statements := []string{
		`
	CREATE TABLE IF NOT EXISTS visitors (
		visitor_id TEXT PRIMARY KEY,
		name TEXT NOT NULL,
		color TEXT NOT NULL,
		position INTEGER NOT NULL
	);`,
		`
	CREATE TABLE IF NOT EXISTS locations (
		location_id INTEGER PRIMARY KEY,
		name TEXT NOT NULL,
		country TEXT NOT NULL,
		lat DOUBLE PRECISION NOT NULL,
		lng DOUBLE PRECISION NOT NULL,
		source TEXT NOT NULL
	);`,
		`
	CREATE TABLE IF NOT EXISTS location_visitors (
		location_id INTEGER NOT NULL REFERENCES locations(location_id) ON DELETE CASCADE,
		visitor_id TEXT NOT NULL,
		position INTEGER NOT NULL,
		PRIMARY KEY (location_id, visitor_id)
	);`,
		`
	CREATE TABLE IF NOT EXISTS routes (
		route_id INTEGER PRIMARY KEY,
		name TEXT NOT NULL
	);`,
		`
	CREATE TABLE IF NOT EXISTS route_visitors (
		route_id INTEGER NOT NULL REFERENCES routes(route_id) ON DELETE CASCADE,
		visitor_id TEXT NOT NULL,
		PRIMARY KEY (route_id, visitor_id)
	);`,
		`
	CREATE TABLE IF NOT EXISTS route_points (
		route_id INTEGER NOT NULL REFERENCES routes(route_id) ON DELETE CASCADE,
		seq INTEGER NOT NULL,
		lat DOUBLE PRECISION NOT NULL,
		lng DOUBLE PRECISION NOT NULL,
		PRIMARY KEY (route_id, seq)
	);`,
		fmt.Sprintf(`
	CREATE TABLE IF NOT EXISTS tile_cache (
		cache_key TEXT PRIMARY KEY,
		png %s NOT NULL,
		created_at BIGINT NOT NULL
	);`, d.BlobType()),
		`
	CREATE INDEX IF NOT EXISTS idx_location_visitors_visitor
	ON location_visitors(visitor_id, location_id);`,
	}

	for i, stmt := range statements {
		if _, err := tx.ExecContext(ctx, stmt); err != nil {
			return fmt.Errorf("init schema: exec statement #%d: %w", i+1, err)
		}
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("init schema: commit tx: %w", err)
	}

	return nil
}

// SeedSnapshot replaces the stored roster, locations and routes with snap.
func SeedSnapshot(ctx context.Context, conn *sql.DB, d db.Dialect, snap *domain.Snapshot) error {
	if conn == nil {
		return errors.New("seed snapshot: DB is nil")
	}
	if snap == nil || snap.Roster == nil {
		return errors.New("seed snapshot: snapshot has no roster")
	}

	tx, err := conn.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("seed snapshot: begin tx: %w", err)
	}
	defer func() { _ = tx.Rollback() }()

	for _, table := range []string{"route_points", "route_visitors", "routes", "location_visitors", "locations", "visitors"} {
		if _, err := tx.ExecContext(ctx, "DELETE FROM "+table); err != nil {
			return fmt.Errorf("seed snapshot: clear %s: %w", table, err)
		}
	}

	exec := func(q string, args ...any) error {
		_, err := tx.ExecContext(ctx, d.Rebind(q), args...)
		return err
	}

	for i, v := range snap.Roster.Visitors() {
		if err := exec(`INSERT INTO visitors (visitor_id, name, color, position) VALUES (?, ?, ?, ?)`,
			v.ID, v.Name, v.Color, i); err != nil {
			return fmt.Errorf("seed snapshot: insert visitor %q: %w", v.ID, err)
		}
	}

	for i, loc := range snap.Locations {
		id := i + 1
		if err := exec(`INSERT INTO locations (location_id, name, country, lat, lng, source) VALUES (?, ?, ?, ?, ?, ?)`,
			id, loc.Name, loc.Country, loc.Lat, loc.Lng, loc.Source); err != nil {
			return fmt.Errorf("seed snapshot: insert location %q: %w", loc.Name, err)
		}
		for pos, vid := range loc.Visitors {
			if err := exec(`INSERT INTO location_visitors (location_id, visitor_id, position) VALUES (?, ?, ?)`,
				id, vid, pos); err != nil {
				return fmt.Errorf("seed snapshot: insert visitor %q of %q: %w", vid, loc.Name, err)
			}
		}
	}

	for i, r := range snap.Routes {
		id := i + 1
		if err := exec(`INSERT INTO routes (route_id, name) VALUES (?, ?)`, id, r.Name); err != nil {
			return fmt.Errorf("seed snapshot: insert route %q: %w", r.Name, err)
		}
		for _, vid := range r.Visitors {
			if err := exec(`INSERT INTO route_visitors (route_id, visitor_id) VALUES (?, ?)`, id, vid); err != nil {
				return fmt.Errorf("seed snapshot: insert visitor %q of route %q: %w", vid, r.Name, err)
			}
		}
		for seq, p := range r.Points {
			if err := exec(`INSERT INTO route_points (route_id, seq, lat, lng) VALUES (?, ?, ?, ?)`,
				id, seq, p.Lat, p.Lng); err != nil {
				return fmt.Errorf("seed snapshot: insert point %d of route %q: %w", seq, r.Name, err)
			}
		}
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("seed snapshot: commit tx: %w", err)
	}

	return nil
}
