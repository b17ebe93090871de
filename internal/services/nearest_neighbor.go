package services

import (
	"math"

	"travelmap-service/internal/domain"
	"travelmap-service/internal/geo"
)

// NearestPoint selects the candidate closest to p by great-circle distance and
// returns its index and distance in kilometres, or -1 when there are none.
//
// The search is a brute-force scan, which is fine for a few hundred places.
// The first candidate with the strictly smallest distance wins, so the result is
// deterministic for a fixed candidate order.
func NearestPoint(p domain.Point, candidates []domain.Point) (int, float64) {
	best := -1
	minDist := math.Inf(1)

	for i, c := range candidates {
		d := geo.Haversine(p, c)
		if d < minDist {
			minDist = d
			best = i
		}
	}

	return best, minDist
}
