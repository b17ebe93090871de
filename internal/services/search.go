package services

import (
	"sort"
	"strings"

	"github.com/agnivade/levenshtein"

	"travelmap-service/internal/domain"
)

// MaxSearchResults caps the result list.
const MaxSearchResults = 15

// SearchResult is a matching location with the colors of its visible visitors.
type SearchResult struct {
	Location domain.Location
	Visible  []string
	Colors   []string
}

// Search does a case-insensitive substring match of query against "name, country"
// over the visible locations. Prefix matches on the name rank first, then the
// edit distance between query and name, then the name itself.
func Search(snap *domain.Snapshot, vis domain.Visibility, query string) []SearchResult {
	q := strings.ToLower(strings.TrimSpace(query))
	if q == "" {
		return nil
	}

	type scored struct {
		res    SearchResult
		prefix bool
		dist   int
		name   string
	}

	var hits []scored
	for _, pin := range VisiblePins(snap, vis) {
		loc := pin.Location
		name := strings.ToLower(loc.Name)
		label := name
		if loc.Country != "" {
			label += ", " + strings.ToLower(loc.Country)
		}
		if !strings.Contains(label, q) {
			continue
		}

		colors := make([]string, 0, len(pin.Visible))
		for _, id := range pin.Visible {
			if v, ok := snap.Roster.Get(id); ok {
				colors = append(colors, v.Color)
			}
		}

		hits = append(hits, scored{
			res:    SearchResult{Location: loc, Visible: pin.Visible, Colors: colors},
			prefix: strings.HasPrefix(name, q),
			dist:   levenshtein.ComputeDistance(q, name),
			name:   name,
		})
	}

	sort.SliceStable(hits, func(i, j int) bool {
		a, b := hits[i], hits[j]
		if a.prefix != b.prefix {
			return a.prefix
		}
		if a.dist != b.dist {
			return a.dist < b.dist
		}
		return a.name < b.name
	})

	if len(hits) > MaxSearchResults {
		hits = hits[:MaxSearchResults]
	}

	out := make([]SearchResult, len(hits))
	for i, h := range hits {
		out[i] = h.res
	}
	return out
}
