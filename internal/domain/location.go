package domain

import (
	"errors"
	"fmt"
	"strings"
)

var ErrEmptyVisitors = errors.New("visitor set must not be empty")

// SourcePrimary marks locations from the primary visitors dataset.
const SourcePrimary = "visitors"

// Location is a named place annotated with the visitors who have been there.
// Locations are created while loading datasets and never mutated afterwards.
type Location struct {
	Name     string
	Country  string
	Lat      float64
	Lng      float64
	Visitors []string
	// Source names the dataset kind the location was derived from.
	Source string
}

// NewLocation validates and builds a Location. Duplicate visitor ids are collapsed,
// first occurrence wins.
func NewLocation(name, country string, lat, lng float64, visitors []string, source string) (Location, error) {
	name = strings.TrimSpace(name)
	if name == "" {
		return Location{}, errors.New("new location: name must be non-empty")
	}
	if lat < -90 || lat > 90 || lng < -180 || lng > 180 {
		return Location{}, fmt.Errorf("new location %q: coordinates out of range (%f, %f)", name, lat, lng)
	}

	seen := make(map[string]struct{}, len(visitors))
	ids := make([]string, 0, len(visitors))
	for _, v := range visitors {
		v = strings.TrimSpace(v)
		if v == "" {
			continue
		}
		if _, ok := seen[v]; ok {
			continue
		}
		seen[v] = struct{}{}
		ids = append(ids, v)
	}
	if len(ids) == 0 {
		return Location{}, fmt.Errorf("new location %q: %w", name, ErrEmptyVisitors)
	}

	return Location{
		Name:     name,
		Country:  strings.TrimSpace(country),
		Lat:      lat,
		Lng:      lng,
		Visitors: ids,
		Source:   source,
	}, nil
}

func (l Location) Point() Point { return Point{Lat: l.Lat, Lng: l.Lng} }

// HasVisitor reports whether id visited the location.
func (l Location) HasVisitor(id string) bool {
	for _, v := range l.Visitors {
		if v == id {
			return true
		}
	}
	return false
}
