package datasets

import (
	"context"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"travelmap-service/internal/adapters/remote"
	"travelmap-service/internal/domain"
)

func writeFiles(t *testing.T, files map[string]string) string {
	t.Helper()
	dir := t.TempDir()
	for name, body := range files {
		if err := os.WriteFile(filepath.Join(dir, name), []byte(body), 0o644); err != nil {
			t.Fatal(err)
		}
	}
	return dir
}

const primaryJSON = `{
  "persons": {"bo": "Bo", "al": "Al"},
  "colors": {"bo": "#123456"},
  "locations": [
    {"name": "Paris", "country": "France", "lat": 48.85, "lng": 2.35, "visitors": ["al", "bo"]},
    {"name": "Nowhere", "country": "France", "visitors": ["al"]},
    {"name": "Lonely", "country": "France", "lat": 1, "lng": 1, "visitors": []}
  ]
}`

func TestLoadSnapshot(t *testing.T) {
	dir := writeFiles(t, map[string]string{
		"datasets.yaml": `datasets:
  - kind: visitors
    path: visitors.json
  - kind: peaks
    path: peaks.json
  - kind: wonders
    path: wonders.json
  - kind: routes
    path: routes.json
`,
		"visitors.json": primaryJSON,
		"peaks.json": `[
  {"peak": "Mont Blanc", "country": "France", "lat": 45.83, "lng": 6.86, "climbed": {"bo": "2019-08-01"}},
  {"peak": "Unclimbed", "country": "France", "lat": 45.9, "lng": 6.9, "climbed": {}}
]`,
		"wonders.json": `[{"wonder": "Petra", "country": "Jordan", "coordinates": [30.33, 35.44], "seen_by": ["al"]}]`,
		"routes.json":  `[{"name": "A1", "visitors": ["al"], "path": [[48.85, 2.35], [50.6, 3.06]]}]`,
	})

	repo := NewRepository(remote.NewFetcher(nil), filepath.Join(dir, "datasets.yaml"))
	snap, err := repo.LoadSnapshot(context.Background())
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	if snap.Roster.Len() != 2 {
		t.Fatalf("roster len = %d, want 2", snap.Roster.Len())
	}
	if v, _ := snap.Roster.Get("al"); v.Color != domain.Palette[0] {
		t.Fatalf("al color = %q, want %q", v.Color, domain.Palette[0])
	}
	if v, _ := snap.Roster.Get("bo"); v.Color != "#123456" {
		t.Fatalf("bo color = %q, want explicit color", v.Color)
	}

	var names []string
	for _, l := range snap.Locations {
		names = append(names, l.Name)
	}
	if got, want := strings.Join(names, ","), "Paris,Mont Blanc,Petra"; got != want {
		t.Fatalf("locations = %s, want %s", got, want)
	}
	if len(snap.Routes) != 1 || len(snap.Routes[0].Points) != 2 {
		t.Fatalf("routes = %+v, want one route with 2 points", snap.Routes)
	}
}

func TestLoadSnapshotFailsFast(t *testing.T) {
	dir := writeFiles(t, map[string]string{
		"datasets.yaml": `datasets:
  - kind: visitors
    path: visitors.json
  - kind: metros
    path: missing.json
`,
		"visitors.json": primaryJSON,
	})

	repo := NewRepository(remote.NewFetcher(nil), filepath.Join(dir, "datasets.yaml"))
	if _, err := repo.LoadSnapshot(context.Background()); err == nil {
		t.Fatal("expected error for missing dataset")
	}
}

func TestParseManifestValidation(t *testing.T) {
	tests := []struct {
		name string
		yaml string
	}{
		{"no visitors", "datasets:\n  - kind: metros\n    path: m.json\n"},
		{"two visitors", "datasets:\n  - kind: visitors\n    path: a.json\n  - kind: visitors\n    path: b.json\n"},
		{"unknown kind", "datasets:\n  - kind: visitors\n    path: a.json\n  - kind: castles\n    path: c.json\n"},
		{"missing path", "datasets:\n  - kind: visitors\n"},
		{"unknown field", "datasets:\n  - kind: visitors\n    path: a.json\n    url: x\n"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if _, err := ParseManifest([]byte(tt.yaml)); err == nil {
				t.Fatal("expected error")
			}
		})
	}
}

func TestParseNationalParksDefaultsCountry(t *testing.T) {
	locs, err := parseNationalParks([]byte(`[
  {"park": "Zion", "state": "UT", "lat": 37.3, "lng": -113.0, "visited": ["al"]},
  {"park": "Banff", "country": "Canada", "lat": 51.5, "lng": -115.9, "visited": ["bo"]},
  {"park": "Unvisited", "lat": 40, "lng": -100, "visited": []}
]`))
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(locs) != 2 {
		t.Fatalf("len = %d, want 2", len(locs))
	}
	if locs[0].Country != "United States" || locs[1].Country != "Canada" {
		t.Fatalf("countries = %q, %q", locs[0].Country, locs[1].Country)
	}
	if locs[0].Source != KindNationalParks {
		t.Fatalf("Source = %q, want %q", locs[0].Source, KindNationalParks)
	}
}
