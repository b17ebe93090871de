package services

import (
	"sort"

	"travelmap-service/internal/domain"
)

// visibleIDs filters ids to those toggled on, in roster order. Ids missing from the
// roster are dropped. In shared-only mode a result with fewer than two ids is empty.
func visibleIDs(roster *domain.Roster, vis domain.Visibility, ids []string) []string {
	out := make([]string, 0, len(ids))
	seen := make(map[string]struct{}, len(ids))
	for _, id := range ids {
		if _, ok := seen[id]; ok {
			continue
		}
		seen[id] = struct{}{}
		if roster.Index(id) < 0 || !vis.On(id) {
			continue
		}
		out = append(out, id)
	}

	sort.SliceStable(out, func(i, j int) bool {
		return roster.Index(out[i]) < roster.Index(out[j])
	})

	if vis.Mode == domain.ModeShared && len(out) < 2 {
		return nil
	}
	return out
}

// VisibleAt returns the visitors of loc that are currently visible.
func VisibleAt(roster *domain.Roster, vis domain.Visibility, loc domain.Location) []string {
	return visibleIDs(roster, vis, loc.Visitors)
}

// VisibleRoute reports the visible visitors of a driven route, using the same
// rules as for locations.
func VisibleRoute(roster *domain.Roster, vis domain.Visibility, r domain.Route) []string {
	return visibleIDs(roster, vis, r.Visitors)
}

// Pin is a location with its visible visitor set.
type Pin struct {
	Location domain.Location
	Visible  []string
}

// VisiblePins returns every location with at least one visible visitor, in store order.
func VisiblePins(snap *domain.Snapshot, vis domain.Visibility) []Pin {
	pins := make([]Pin, 0, len(snap.Locations))
	for _, loc := range snap.Locations {
		ids := VisibleAt(snap.Roster, vis, loc)
		if len(ids) == 0 {
			continue
		}
		pins = append(pins, Pin{Location: loc, Visible: ids})
	}
	return pins
}
