package domain

import "time"

// Snapshot is an immutable view of the Location Store: the roster, every merged
// location and the driven routes. A reload builds a new Snapshot instead of
// changing the current one.
type Snapshot struct {
	Roster    *Roster
	Locations []Location
	Routes    []Route
	LoadedAt  time.Time
}
