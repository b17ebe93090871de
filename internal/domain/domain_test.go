package domain

import (
	"errors"
	"testing"
)

func TestNewLocation(t *testing.T) {
	l, err := NewLocation("  Paris ", " France", 48.85, 2.35, []string{"al", " bo", "al", ""}, SourcePrimary)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if l.Name != "Paris" || l.Country != "France" {
		t.Fatalf("name/country = %q/%q, want Paris/France", l.Name, l.Country)
	}
	if len(l.Visitors) != 2 || l.Visitors[0] != "al" || l.Visitors[1] != "bo" {
		t.Fatalf("visitors = %v, want [al bo]", l.Visitors)
	}
	if !l.HasVisitor("bo") || l.HasVisitor("cy") {
		t.Fatalf("HasVisitor mismatch for %v", l.Visitors)
	}

	tests := []struct {
		name     string
		lat, lng float64
		visitors []string
	}{
		{"", 0, 0, []string{"al"}},
		{"North", 91, 0, []string{"al"}},
		{"East", 0, 181, []string{"al"}},
		{"Empty", 0, 0, []string{" "}},
	}
	for _, tt := range tests {
		if _, err := NewLocation(tt.name, "", tt.lat, tt.lng, tt.visitors, SourcePrimary); err == nil {
			t.Fatalf("NewLocation(%q, %v, %v, %v) expected error", tt.name, tt.lat, tt.lng, tt.visitors)
		}
	}

	_, err = NewLocation("Empty", "", 0, 0, nil, SourcePrimary)
	if !errors.Is(err, ErrEmptyVisitors) {
		t.Fatalf("err = %v, want ErrEmptyVisitors", err)
	}
}

func TestNewRoster(t *testing.T) {
	r, err := NewRoster(map[string]string{"cy": "", "al": "Alice", "bo": "Bob"}, map[string]string{"bo": "#000000"})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	vs := r.Visitors()
	if len(vs) != 3 || vs[0].ID != "al" || vs[1].ID != "bo" || vs[2].ID != "cy" {
		t.Fatalf("order = %+v, want al, bo, cy", vs)
	}
	if vs[0].Color != Palette[0] || vs[1].Color != "#000000" || vs[2].Color != Palette[2] {
		t.Fatalf("colors = %s %s %s", vs[0].Color, vs[1].Color, vs[2].Color)
	}
	if vs[2].Name != "cy" {
		t.Fatalf("blank name = %q, want id fallback", vs[2].Name)
	}
	if r.Index("bo") != 1 || r.Index("zed") != -1 {
		t.Fatalf("Index(bo)=%d Index(zed)=%d", r.Index("bo"), r.Index("zed"))
	}

	tooMany := map[string]string{}
	for _, id := range []string{"a", "b", "c", "d", "e", "f", "g"} {
		tooMany[id] = id
	}
	if _, err := NewRoster(tooMany, nil); err == nil {
		t.Fatalf("expected error for %d persons", len(tooMany))
	}
	if _, err := NewRosterFromVisitors([]Visitor{{ID: "a"}, {ID: "a"}}); err == nil {
		t.Fatalf("expected duplicate id error")
	}
}

func TestVisibility(t *testing.T) {
	r, err := NewRoster(map[string]string{"al": "", "bo": "", "cy": ""}, nil)
	if err != nil {
		t.Fatalf("new roster: %v", err)
	}

	all := Visibility{Mode: ModeAll}
	if got := all.Key(r); got != "all:al,bo,cy" {
		t.Fatalf("key = %q, want all:al,bo,cy", got)
	}

	some := Visibility{Toggled: map[string]bool{"cy": true, "al": true}, Mode: ModeShared}
	if some.On("bo") {
		t.Fatalf("bo should be off")
	}
	if got := some.Key(r); got != "shared:al,cy" {
		t.Fatalf("key = %q, want shared:al,cy", got)
	}

	for in, want := range map[string]Mode{"": ModeAll, "ALL": ModeAll, "shared-only": ModeShared} {
		if got, err := ParseMode(in); err != nil || got != want {
			t.Fatalf("ParseMode(%q) = %q, %v; want %q", in, got, err, want)
		}
	}
	if _, err := ParseMode("some"); err == nil {
		t.Fatalf("ParseMode(some) expected error")
	}
}

func TestFillStyleCSS(t *testing.T) {
	tests := []struct {
		fill FillStyle
		want string
	}{
		{FillStyle{Kind: FillColor, Color: "#fff"}, "#fff"},
		{FillStyle{Kind: FillPattern, PatternID: "stripe-al-bo"}, "url(#stripe-al-bo)"},
		{FillStyle{Kind: FillNone}, "none"},
	}
	for _, tt := range tests {
		if got := tt.fill.CSS(); got != tt.want {
			t.Fatalf("CSS() = %q, want %q", got, tt.want)
		}
	}
}
