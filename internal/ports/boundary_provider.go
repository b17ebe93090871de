package ports

import (
	"context"

	"travelmap-service/internal/domain"
)

// Contract for retrieving the reference country boundaries.
type BoundaryProvider interface {
	// Return every country feature of the reference map.
	FetchBoundaries(ctx context.Context) ([]domain.CountryFeature, error)
}
