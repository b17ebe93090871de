package services

import (
	"testing"

	"travelmap-service/internal/domain"
)

// Three visitors; palette order follows sorted ids: al, bo, cy.
func testRoster(t *testing.T) *domain.Roster {
	t.Helper()
	r, err := domain.NewRoster(map[string]string{"al": "Alice", "bo": "Bob", "cy": "Cyd"}, nil)
	if err != nil {
		t.Fatalf("new roster: %v", err)
	}
	return r
}

func loc(t *testing.T, name, country string, lat, lng float64, visitors ...string) domain.Location {
	t.Helper()
	l, err := domain.NewLocation(name, country, lat, lng, visitors, domain.SourcePrimary)
	if err != nil {
		t.Fatalf("new location %q: %v", name, err)
	}
	return l
}

func testSnapshot(t *testing.T, locs ...domain.Location) *domain.Snapshot {
	t.Helper()
	return &domain.Snapshot{Roster: testRoster(t), Locations: locs}
}

func allOn() domain.Visibility { return domain.Visibility{Mode: domain.ModeAll} }

func only(mode domain.Mode, ids ...string) domain.Visibility {
	m := make(map[string]bool, len(ids))
	for _, id := range ids {
		m[id] = true
	}
	return domain.Visibility{Toggled: m, Mode: mode}
}

func square(lat, lng, half float64) domain.Polygon {
	return domain.Polygon{Rings: [][]domain.Point{{
		{Lat: lat - half, Lng: lng - half},
		{Lat: lat - half, Lng: lng + half},
		{Lat: lat + half, Lng: lng + half},
		{Lat: lat + half, Lng: lng - half},
		{Lat: lat - half, Lng: lng - half},
	}}}
}
