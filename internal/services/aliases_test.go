package services

import (
	"reflect"
	"strings"
	"testing"

	"travelmap-service/internal/domain"
)

func TestNormalizeFoldsAndMapsAliases(t *testing.T) {
	tbl := DefaultAliasTable()

	tests := []struct {
		a, b string
	}{
		{"United States of America", "USA"},
		{"Czech Republic", "Czechia"},
		{"Côte d'Ivoire", "Ivory Coast"},
		{"  the   Bahamas ", "Bahamas"},
		{"Bosnia & Herzegovina", "bosnia and herzegovina"},
		{"MÉXICO", "Mexico"},
	}
	for _, tt := range tests {
		if got, want := tbl.Normalize(tt.a), tbl.Normalize(tt.b); got != want {
			t.Errorf("Normalize(%q) = %q, Normalize(%q) = %q; want equal", tt.a, got, tt.b, want)
		}
	}
}

func TestLoadAliasTableRejectsConflicts(t *testing.T) {
	_, err := LoadAliasTable(strings.NewReader(`countries:
  Congo:
    - Congo Republic
  Democratic Republic of the Congo:
    - Congo Republic
`))
	if err == nil {
		t.Fatal("expected error for alias claimed twice")
	}
}

func TestValidateAliases(t *testing.T) {
	features := []domain.CountryFeature{{Admin: "United States of America"}, {Admin: "France"}}
	locs := []domain.Location{
		loc(t, "Denver", "USA", 39.7, -105, "al"),
		loc(t, "Paris", "France", 48.85, 2.35, "al"),
		loc(t, "Atlantis", "Atlantica", 0, 0, "al"),
		loc(t, "Lemuria", "Mu", 0, 1, "bo"),
		loc(t, "Lemuria 2", "Mu", 0, 2, "bo"),
	}

	got := ValidateAliases(DefaultAliasTable(), features, locs)
	if want := []string{"Atlantica", "Mu"}; !reflect.DeepEqual(got, want) {
		t.Fatalf("unmatched = %v, want %v", got, want)
	}
}
