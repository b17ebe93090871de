package datasets

import (
	"encoding/json"
	"fmt"
	"log/slog"
	"sort"

	"travelmap-service/internal/domain"
)

// primaryFile is the visitors dataset: the roster plus the hand-kept locations.
type primaryFile struct {
	Persons   map[string]string `json:"persons"`
	Colors    map[string]string `json:"colors"`
	Locations []struct {
		Name     string   `json:"name"`
		Country  string   `json:"country"`
		Lat      *float64 `json:"lat"`
		Lng      *float64 `json:"lng"`
		Visitors []string `json:"visitors"`
	} `json:"locations"`
}

func parsePrimary(data []byte) (*domain.Roster, []domain.Location, error) {
	var f primaryFile
	if err := json.Unmarshal(data, &f); err != nil {
		return nil, nil, fmt.Errorf("parse visitors dataset: %w", err)
	}

	roster, err := domain.NewRoster(f.Persons, f.Colors)
	if err != nil {
		return nil, nil, fmt.Errorf("parse visitors dataset: %w", err)
	}

	locs := make([]domain.Location, 0, len(f.Locations))
	for _, r := range f.Locations {
		if loc, ok := toLocation(domain.SourcePrimary, r.Name, r.Country, r.Lat, r.Lng, r.Visitors); ok {
			locs = append(locs, loc)
		}
	}
	return roster, locs, nil
}

// toLocation builds a location, skipping records without coordinates or visitors.
func toLocation(kind, name, country string, lat, lng *float64, visitors []string) (domain.Location, bool) {
	if lat == nil || lng == nil {
		slog.Debug("dataset_record_skipped", "kind", kind, "name", name, "reason", "missing coordinates")
		return domain.Location{}, false
	}
	loc, err := domain.NewLocation(name, country, *lat, *lng, visitors, kind)
	if err != nil {
		slog.Debug("dataset_record_skipped", "kind", kind, "name", name, "reason", err.Error())
		return domain.Location{}, false
	}
	return loc, true
}

// locationAdapter maps one supplementary dataset to locations, keeping only
// visited or climbed entries.
type locationAdapter func(data []byte) ([]domain.Location, error)

var locationAdapters = map[string]locationAdapter{
	KindMetros:        parseMetros,
	KindWorldCities:   parseWorldCities,
	KindNationalParks: parseNationalParks,
	KindSkiResorts:    parseSkiResorts,
	KindWonders:       parseWonders,
	KindHighPoints:    parseHighPoints,
	KindPeaks:         parsePeaks,
}

func decode[T any](kind string, data []byte) ([]T, error) {
	var out []T
	if err := json.Unmarshal(data, &out); err != nil {
		return nil, fmt.Errorf("parse %s dataset: %w", kind, err)
	}
	return out, nil
}

type metroRecord struct {
	Metro     string   `json:"metro"`
	Country   string   `json:"country"`
	Lat       *float64 `json:"lat"`
	Lng       *float64 `json:"lng"`
	VisitedBy []string `json:"visited_by"`
}

func parseMetros(data []byte) ([]domain.Location, error) {
	recs, err := decode[metroRecord](KindMetros, data)
	if err != nil {
		return nil, err
	}
	var out []domain.Location
	for _, r := range recs {
		if loc, ok := toLocation(KindMetros, r.Metro, r.Country, r.Lat, r.Lng, r.VisitedBy); ok {
			out = append(out, loc)
		}
	}
	return out, nil
}

type worldCityRecord struct {
	City     string   `json:"city"`
	Country  string   `json:"country"`
	Lat      *float64 `json:"lat"`
	Lon      *float64 `json:"lon"`
	Visitors []string `json:"visitors"`
}

func parseWorldCities(data []byte) ([]domain.Location, error) {
	recs, err := decode[worldCityRecord](KindWorldCities, data)
	if err != nil {
		return nil, err
	}
	var out []domain.Location
	for _, r := range recs {
		if loc, ok := toLocation(KindWorldCities, r.City, r.Country, r.Lat, r.Lon, r.Visitors); ok {
			out = append(out, loc)
		}
	}
	return out, nil
}

type parkRecord struct {
	Park    string   `json:"park"`
	State   string   `json:"state"`
	Country string   `json:"country"`
	Lat     *float64 `json:"lat"`
	Lng     *float64 `json:"lng"`
	Visited []string `json:"visited"`
}

func parseNationalParks(data []byte) ([]domain.Location, error) {
	recs, err := decode[parkRecord](KindNationalParks, data)
	if err != nil {
		return nil, err
	}
	var out []domain.Location
	for _, r := range recs {
		country := r.Country
		if country == "" {
			country = "United States"
		}
		if loc, ok := toLocation(KindNationalParks, r.Park, country, r.Lat, r.Lng, r.Visited); ok {
			out = append(out, loc)
		}
	}
	return out, nil
}

type skiResortRecord struct {
	Resort  string   `json:"resort"`
	Country string   `json:"country"`
	Lat     *float64 `json:"lat"`
	Lng     *float64 `json:"lng"`
	SkiedBy []string `json:"skied_by"`
}

func parseSkiResorts(data []byte) ([]domain.Location, error) {
	recs, err := decode[skiResortRecord](KindSkiResorts, data)
	if err != nil {
		return nil, err
	}
	var out []domain.Location
	for _, r := range recs {
		if loc, ok := toLocation(KindSkiResorts, r.Resort, r.Country, r.Lat, r.Lng, r.SkiedBy); ok {
			out = append(out, loc)
		}
	}
	return out, nil
}

// Wonders carry [lat, lng] pairs.
type wonderRecord struct {
	Wonder      string    `json:"wonder"`
	Country     string    `json:"country"`
	Coordinates []float64 `json:"coordinates"`
	SeenBy      []string  `json:"seen_by"`
}

func parseWonders(data []byte) ([]domain.Location, error) {
	recs, err := decode[wonderRecord](KindWonders, data)
	if err != nil {
		return nil, err
	}
	var out []domain.Location
	for _, r := range recs {
		var lat, lng *float64
		if len(r.Coordinates) == 2 {
			lat, lng = &r.Coordinates[0], &r.Coordinates[1]
		}
		if loc, ok := toLocation(KindWonders, r.Wonder, r.Country, lat, lng, r.SeenBy); ok {
			out = append(out, loc)
		}
	}
	return out, nil
}

type highPointRecord struct {
	Name       string   `json:"name"`
	Region     string   `json:"region"`
	Country    string   `json:"country"`
	Lat        *float64 `json:"lat"`
	Lng        *float64 `json:"lng"`
	ElevationM float64  `json:"elevation_m"`
	ClimbedBy  []string `json:"climbed_by"`
}

func parseHighPoints(data []byte) ([]domain.Location, error) {
	recs, err := decode[highPointRecord](KindHighPoints, data)
	if err != nil {
		return nil, err
	}
	var out []domain.Location
	for _, r := range recs {
		if loc, ok := toLocation(KindHighPoints, r.Name, r.Country, r.Lat, r.Lng, r.ClimbedBy); ok {
			out = append(out, loc)
		}
	}
	return out, nil
}

// Peaks record climbs as visitor id -> summit date.
type peakRecord struct {
	Peak       string            `json:"peak"`
	List       string            `json:"list"`
	Country    string            `json:"country"`
	Lat        *float64          `json:"lat"`
	Lng        *float64          `json:"lng"`
	ElevationM float64           `json:"elevation_m"`
	Climbed    map[string]string `json:"climbed"`
}

func parsePeaks(data []byte) ([]domain.Location, error) {
	recs, err := decode[peakRecord](KindPeaks, data)
	if err != nil {
		return nil, err
	}
	var out []domain.Location
	for _, r := range recs {
		ids := make([]string, 0, len(r.Climbed))
		for id := range r.Climbed {
			ids = append(ids, id)
		}
		sort.Strings(ids)
		if loc, ok := toLocation(KindPeaks, r.Peak, r.Country, r.Lat, r.Lng, ids); ok {
			out = append(out, loc)
		}
	}
	return out, nil
}

// Route paths are [lat, lng] pairs.
type routeRecord struct {
	Name     string      `json:"name"`
	Visitors []string    `json:"visitors"`
	Path     [][]float64 `json:"path"`
}

func parseRoutes(data []byte) ([]domain.Route, error) {
	recs, err := decode[routeRecord](KindRoutes, data)
	if err != nil {
		return nil, err
	}
	var out []domain.Route
	for _, r := range recs {
		if len(r.Visitors) == 0 || len(r.Path) < 2 {
			slog.Debug("dataset_record_skipped", "kind", KindRoutes, "name", r.Name, "reason", "no visitors or path")
			continue
		}
		pts := make([]domain.Point, 0, len(r.Path))
		for _, p := range r.Path {
			if len(p) != 2 {
				continue
			}
			pts = append(pts, domain.Point{Lat: p[0], Lng: p[1]})
		}
		if len(pts) < 2 {
			continue
		}
		out = append(out, domain.Route{Name: r.Name, Visitors: r.Visitors, Points: pts})
	}
	return out, nil
}
