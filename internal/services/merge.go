package services

import (
	"log/slog"
	"strings"

	geohash "github.com/TomiHiltunen/geohash-golang"

	"travelmap-service/internal/domain"
)

// dedupPrecision is the geohash length used to decide two places are the same
// (a cell of roughly 150m).
const dedupPrecision = 7

func dedupKey(loc domain.Location) string {
	return strings.ToLower(loc.Name) + "|" + geohash.EncodeWithPrecision(loc.Lat, loc.Lng, dedupPrecision)
}

// MergeLocations builds the store's location list: primary locations first, then
// derived ones, each group in input order. Visitor ids missing from the roster are
// dropped, and a location left with no visitors is skipped. A derived location
// whose name and geohash cell match one already kept contributes its new visitors
// to that location, appended in order, and is skipped when it adds none. Primary
// locations are always kept.
func MergeLocations(roster *domain.Roster, locs []domain.Location) []domain.Location {
	seen := make(map[string]int)
	out := make([]domain.Location, 0, len(locs))

	add := func(loc domain.Location, dedup bool) {
		known := make([]string, 0, len(loc.Visitors))
		for _, id := range loc.Visitors {
			if roster.Index(id) >= 0 {
				known = append(known, id)
			}
		}
		if len(known) == 0 {
			slog.Debug("location_skipped", "name", loc.Name, "source", loc.Source, "reason", "no known visitors")
			return
		}
		loc.Visitors = known

		key := dedupKey(loc)
		if i, dup := seen[key]; dup && dedup {
			kept := &out[i]
			added := 0
			for _, id := range known {
				if !kept.HasVisitor(id) {
					kept.Visitors = append(kept.Visitors, id)
					added++
				}
			}
			if added == 0 {
				slog.Debug("location_skipped", "name", loc.Name, "source", loc.Source, "reason", "duplicate")
				return
			}
			slog.Debug("location_merged", "name", loc.Name, "source", loc.Source, "into", kept.Source, "added", added)
			return
		}
		if _, ok := seen[key]; !ok {
			seen[key] = len(out)
		}
		out = append(out, loc)
	}

	for _, loc := range locs {
		if loc.Source == domain.SourcePrimary {
			add(loc, false)
		}
	}
	for _, loc := range locs {
		if loc.Source != domain.SourcePrimary {
			add(loc, true)
		}
	}
	return out
}
