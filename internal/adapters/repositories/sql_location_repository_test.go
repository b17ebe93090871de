package repositories

import (
	"context"
	"database/sql"
	"path/filepath"
	"testing"

	"travelmap-service/internal/domain"
	"travelmap-service/internal/platform/db"
)

func testSnapshot(t *testing.T) *domain.Snapshot {
	t.Helper()
	roster, err := domain.NewRoster(map[string]string{"al": "Al", "bo": "Bo"}, nil)
	if err != nil {
		t.Fatal(err)
	}
	paris, _ := domain.NewLocation("Paris", "France", 48.8566, 2.3522, []string{"bo", "al"}, domain.SourcePrimary)
	rome, _ := domain.NewLocation("Rome", "Italy", 41.9, 12.5, []string{"al"}, "world_cities")
	return &domain.Snapshot{
		Roster:    roster,
		Locations: []domain.Location{paris, rome},
		Routes: []domain.Route{{
			Name:     "A6",
			Visitors: []string{"bo"},
			Points:   []domain.Point{{Lat: 48.8, Lng: 2.3}, {Lat: 45.7, Lng: 4.8}},
		}},
	}
}

func TestSeedAndLoadSQLite(t *testing.T) {
	ctx := context.Background()
	conn, err := db.OpenSQLite(filepath.Join(t.TempDir(), "test.db"))
	if err != nil {
		t.Fatalf("open: %v", err)
	}
	defer conn.Close()

	if err := InitSchema(ctx, conn, db.SQLite); err != nil {
		t.Fatalf("init schema: %v", err)
	}
	want := testSnapshot(t)

	// Seeding twice must not duplicate rows.
	for i := 0; i < 2; i++ {
		if err := SeedSnapshot(ctx, conn, db.SQLite, want); err != nil {
			t.Fatalf("seed #%d: %v", i+1, err)
		}
	}

	repo := NewSQLLocationRepository(conn, db.SQLite)
	got, err := repo.LoadSnapshot(ctx)
	if err != nil {
		t.Fatalf("load: %v", err)
	}

	if got.Roster.Len() != 2 {
		t.Fatalf("roster len = %d, want 2", got.Roster.Len())
	}
	if v, _ := got.Roster.Get("bo"); v.Color != domain.Palette[1] {
		t.Fatalf("bo color = %q, want %q", v.Color, domain.Palette[1])
	}

	if len(got.Locations) != 2 {
		t.Fatalf("locations = %d, want 2", len(got.Locations))
	}
	paris := got.Locations[0]
	if paris.Name != "Paris" || paris.Lat != 48.8566 || paris.Source != domain.SourcePrimary {
		t.Fatalf("paris = %+v", paris)
	}
	if len(paris.Visitors) != 2 || paris.Visitors[0] != "bo" {
		t.Fatalf("paris visitors = %v, want stored order [bo al]", paris.Visitors)
	}

	if len(got.Routes) != 1 || len(got.Routes[0].Points) != 2 || got.Routes[0].Visitors[0] != "bo" {
		t.Fatalf("routes = %+v", got.Routes)
	}
}

func TestRosterEmptyDatabase(t *testing.T) {
	ctx := context.Background()
	conn, err := db.OpenSQLite(filepath.Join(t.TempDir(), "empty.db"))
	if err != nil {
		t.Fatalf("open: %v", err)
	}
	defer conn.Close()

	if err := InitSchema(ctx, conn, db.SQLite); err != nil {
		t.Fatalf("init schema: %v", err)
	}
	if _, err := NewSQLLocationRepository(conn, db.SQLite).Roster(ctx); err == nil {
		t.Fatal("expected error for empty roster")
	}
}

func TestLoadSnapshotReadsInOneTransaction(t *testing.T) {
	pg := NewSQLLocationRepository(nil, db.Postgres).snapshotTxOptions()
	if pg == nil || !pg.ReadOnly || pg.Isolation != sql.LevelRepeatableRead {
		t.Fatalf("postgres tx options = %+v, want read-only repeatable read", pg)
	}

	ctx := context.Background()
	conn, err := db.OpenSQLite(filepath.Join(t.TempDir(), "test.db"))
	if err != nil {
		t.Fatalf("open: %v", err)
	}
	defer conn.Close()
	if err := InitSchema(ctx, conn, db.SQLite); err != nil {
		t.Fatalf("init schema: %v", err)
	}
	if err := SeedSnapshot(ctx, conn, db.SQLite, testSnapshot(t)); err != nil {
		t.Fatalf("seed: %v", err)
	}

	repo := NewSQLLocationRepository(conn, db.SQLite)
	if _, err := repo.LoadSnapshot(ctx); err != nil {
		t.Fatalf("load: %v", err)
	}
	if inUse := conn.Stats().InUse; inUse != 0 {
		t.Fatalf("connections in use after load = %d, want 0", inUse)
	}

	// A reseed after the read is visible in full on the next load.
	next := testSnapshot(t)
	next.Locations = next.Locations[:1]
	next.Routes = nil
	if err := SeedSnapshot(ctx, conn, db.SQLite, next); err != nil {
		t.Fatalf("reseed: %v", err)
	}
	got, err := repo.LoadSnapshot(ctx)
	if err != nil {
		t.Fatalf("load after reseed: %v", err)
	}
	if len(got.Locations) != 1 || len(got.Routes) != 0 {
		t.Fatalf("after reseed locations=%d routes=%d, want 1 and 0", len(got.Locations), len(got.Routes))
	}

	cancelled, cancel := context.WithCancel(ctx)
	cancel()
	if _, err := repo.LoadSnapshot(cancelled); err == nil {
		t.Fatalf("load with cancelled context succeeded")
	}
}
