package repositories

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"travelmap-service/internal/domain"
	"travelmap-service/internal/platform/db"
	"travelmap-service/internal/platform/obs"
)

// queryer is satisfied by *sql.DB and *sql.Tx.
type queryer interface {
	QueryContext(ctx context.Context, query string, args ...any) (*sql.Rows, error)
}

// SQL-backed implementation of the LocationRepository port, for PostgreSQL or SQLite.
type SQLLocationRepository struct {
	DB      *sql.DB
	Dialect db.Dialect
}

func NewSQLLocationRepository(conn *sql.DB, d db.Dialect) *SQLLocationRepository {
	return &SQLLocationRepository{DB: conn, Dialect: d}
}

func (s *SQLLocationRepository) Roster(ctx context.Context) (_ *domain.Roster, err error) {
	defer obs.Time(ctx, "repo.Roster")(&err)

	if s.DB == nil {
		return nil, errors.New("sql location repository: DB is nil")
	}
	return listRoster(ctx, s.DB)
}

func listRoster(ctx context.Context, q queryer) (*domain.Roster, error) {
	rows, err := q.QueryContext(ctx, `
	SELECT visitor_id, name, color
	FROM visitors
	ORDER BY position;
	`)
	if err != nil {
		return nil, fmt.Errorf("list visitors: query visitors table: %w", err)
	}
	defer rows.Close()

	var visitors []domain.Visitor
	for rows.Next() {
		var v domain.Visitor
		if err := rows.Scan(&v.ID, &v.Name, &v.Color); err != nil {
			return nil, fmt.Errorf("list visitors: scan row: %w", err)
		}
		visitors = append(visitors, v)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("list visitors: row iteration: %w", err)
	}
	if len(visitors) == 0 {
		return nil, errors.New("list visitors: no visitors stored")
	}

	return domain.NewRosterFromVisitors(visitors)
}

// Return every stored location in insertion order.
func (s *SQLLocationRepository) ListLocations(ctx context.Context) (_ []domain.Location, err error) {
	defer obs.Time(ctx, "repo.ListLocations")(&err)

	if s.DB == nil {
		return nil, errors.New("sql location repository: DB is nil")
	}
	return listLocations(ctx, s.DB)
}

func listLocations(ctx context.Context, q queryer) ([]domain.Location, error) {
	rows, err := q.QueryContext(ctx, `
	SELECT l.location_id, l.name, l.country, l.lat, l.lng, l.source, lv.visitor_id
	FROM locations l
	JOIN location_visitors lv ON lv.location_id = l.location_id
	ORDER BY l.location_id, lv.position;
	`)
	if err != nil {
		return nil, fmt.Errorf("list locations: query locations table: %w", err)
	}
	defer rows.Close()

	locations := make([]domain.Location, 0, 64)
	lastID := -1
	for rows.Next() {
		var id int
		var loc domain.Location
		var visitor string
		if err := rows.Scan(&id, &loc.Name, &loc.Country, &loc.Lat, &loc.Lng, &loc.Source, &visitor); err != nil {
			return nil, fmt.Errorf("list locations: scan row: %w", err)
		}
		if id != lastID {
			locations = append(locations, loc)
			lastID = id
		}
		last := &locations[len(locations)-1]
		last.Visitors = append(last.Visitors, visitor)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("list locations: row iteration: %w", err)
	}

	return locations, nil
}

func (s *SQLLocationRepository) ListRoutes(ctx context.Context) (_ []domain.Route, err error) {
	defer obs.Time(ctx, "repo.ListRoutes")(&err)

	if s.DB == nil {
		return nil, errors.New("sql location repository: DB is nil")
	}
	return listRoutes(ctx, s.DB)
}

func listRoutes(ctx context.Context, q queryer) ([]domain.Route, error) {
	routes := make([]domain.Route, 0)
	index := make(map[int]int)

	rows, err := q.QueryContext(ctx, `SELECT route_id, name FROM routes ORDER BY route_id;`)
	if err != nil {
		return nil, fmt.Errorf("list routes: query routes table: %w", err)
	}
	for rows.Next() {
		var id int
		var r domain.Route
		if err := rows.Scan(&id, &r.Name); err != nil {
			rows.Close()
			return nil, fmt.Errorf("list routes: scan row: %w", err)
		}
		index[id] = len(routes)
		routes = append(routes, r)
	}
	rows.Close()
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("list routes: row iteration: %w", err)
	}

	if err := eachRow(ctx, q, `SELECT route_id, visitor_id FROM route_visitors ORDER BY route_id, visitor_id;`,
		func(rows *sql.Rows) error {
			var id int
			var vid string
			if err := rows.Scan(&id, &vid); err != nil {
				return err
			}
			if i, ok := index[id]; ok {
				routes[i].Visitors = append(routes[i].Visitors, vid)
			}
			return nil
		}); err != nil {
		return nil, fmt.Errorf("list routes: visitors: %w", err)
	}

	if err := eachRow(ctx, q, `SELECT route_id, lat, lng FROM route_points ORDER BY route_id, seq;`,
		func(rows *sql.Rows) error {
			var id int
			var p domain.Point
			if err := rows.Scan(&id, &p.Lat, &p.Lng); err != nil {
				return err
			}
			if i, ok := index[id]; ok {
				routes[i].Points = append(routes[i].Points, p)
			}
			return nil
		}); err != nil {
		return nil, fmt.Errorf("list routes: points: %w", err)
	}

	return routes, nil
}

func eachRow(ctx context.Context, q queryer, query string, fn func(*sql.Rows) error) error {
	rows, err := q.QueryContext(ctx, query)
	if err != nil {
		return fmt.Errorf("query: %w", err)
	}
	defer rows.Close()

	for rows.Next() {
		if err := fn(rows); err != nil {
			return fmt.Errorf("scan row: %w", err)
		}
	}
	return rows.Err()
}

// LoadSnapshot reads the roster, locations and routes inside one read-only
// transaction, so a concurrent seed is seen either entirely or not at all.
func (s *SQLLocationRepository) LoadSnapshot(ctx context.Context) (_ *domain.Snapshot, err error) {
	defer obs.Time(ctx, "repo.LoadSnapshot")(&err)

	if s.DB == nil {
		return nil, errors.New("sql location repository: DB is nil")
	}

	tx, err := s.DB.BeginTx(ctx, s.snapshotTxOptions())
	if err != nil {
		return nil, fmt.Errorf("load snapshot: begin: %w", err)
	}
	// Read-only; nothing to commit.
	defer tx.Rollback()

	roster, err := listRoster(ctx, tx)
	if err != nil {
		return nil, fmt.Errorf("load snapshot: %w", err)
	}
	locs, err := listLocations(ctx, tx)
	if err != nil {
		return nil, fmt.Errorf("load snapshot: %w", err)
	}
	routes, err := listRoutes(ctx, tx)
	if err != nil {
		return nil, fmt.Errorf("load snapshot: %w", err)
	}
	return &domain.Snapshot{Roster: roster, Locations: locs, Routes: routes}, nil
}

// snapshotTxOptions asks PostgreSQL for a repeatable-read snapshot. A SQLite
// transaction holds its read lock from the first query to the end, which gives
// the same guarantee with default options.
func (s *SQLLocationRepository) snapshotTxOptions() *sql.TxOptions {
	if s.Dialect == db.Postgres {
		return &sql.TxOptions{Isolation: sql.LevelRepeatableRead, ReadOnly: true}
	}
	return nil
}
