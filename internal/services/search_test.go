package services

import (
	"fmt"
	"testing"

	"travelmap-service/internal/domain"
)

func TestSearchScenario(t *testing.T) {
	snap := testSnapshot(t,
		loc(t, "Paris", "France", 48.85, 2.35, "al", "bo"),
		loc(t, "Park City", "USA", 40.65, -111.5, "cy"),
		loc(t, "Oslo", "Norway", 59.9, 10.75, "al"),
	)

	got := Search(snap, allOn(), "par")
	if len(got) != 2 {
		t.Fatalf("results = %d, want 2", len(got))
	}
	if got[0].Location.Name != "Paris" || got[1].Location.Name != "Park City" {
		t.Fatalf("order = %q, %q; want Paris, Park City", got[0].Location.Name, got[1].Location.Name)
	}
	if len(got[0].Colors) != 2 || got[0].Colors[0] != domain.Palette[0] || got[0].Colors[1] != domain.Palette[1] {
		t.Fatalf("Paris colors = %v", got[0].Colors)
	}
	if len(got[1].Colors) != 1 || got[1].Colors[0] != domain.Palette[2] {
		t.Fatalf("Park City colors = %v", got[1].Colors)
	}

	if got := Search(snap, allOn(), "xyzzy"); len(got) != 0 {
		t.Fatalf("xyzzy results = %v, want none", got)
	}
	if got := Search(snap, allOn(), "   "); got != nil {
		t.Fatalf("blank query results = %v, want nil", got)
	}
}

func TestSearchMatchesCountryAndRespectsVisibility(t *testing.T) {
	snap := testSnapshot(t,
		loc(t, "Bergen", "Norway", 60.39, 5.32, "bo"),
		loc(t, "Oslo", "Norway", 59.9, 10.75, "al"),
	)

	got := Search(snap, only(domain.ModeAll, "al"), "NORWAY")
	if len(got) != 1 || got[0].Location.Name != "Oslo" {
		t.Fatalf("results = %+v, want only Oslo", got)
	}
}

func TestSearchRanksPrefixThenDistanceAndCaps(t *testing.T) {
	var locs []domain.Location
	for i := 0; i < 20; i++ {
		locs = append(locs, loc(t, fmt.Sprintf("Lake %02d", i), "Canada", 50, float64(-100+i), "al"))
	}
	locs = append(locs, loc(t, "Blake", "Canada", 51, -90, "al"))
	locs = append(locs, loc(t, "Lake", "Canada", 52, -91, "al"))
	snap := testSnapshot(t, locs...)

	got := Search(snap, allOn(), "lake")
	if len(got) != MaxSearchResults {
		t.Fatalf("results = %d, want %d", len(got), MaxSearchResults)
	}
	if got[0].Location.Name != "Lake" {
		t.Fatalf("first = %q, want exact prefix match Lake", got[0].Location.Name)
	}
	for _, r := range got {
		if r.Location.Name == "Blake" {
			t.Fatal("non-prefix match ranked inside the capped list")
		}
	}
}
