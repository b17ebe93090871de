package ports

import (
	"context"

	"travelmap-service/internal/domain"
)

// Port: a boundary for retrieving the visitor roster, locations and routes from a data source.
type LocationRepository interface {
	// Return the visitor roster.
	Roster(ctx context.Context) (*domain.Roster, error)
	// Return every location, with visitor ids as stored.
	ListLocations(ctx context.Context) ([]domain.Location, error)
	// Return every driven route.
	ListRoutes(ctx context.Context) ([]domain.Route, error)
}

// Optional extension of LocationRepository that loads everything in one pass.
type SnapshotLoader interface {
	LocationRepository
	// Return a complete snapshot; locations are merged by the caller.
	LoadSnapshot(ctx context.Context) (*domain.Snapshot, error)
}
