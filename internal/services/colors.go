package services

import (
	"errors"
	"fmt"
	"html"
	"io"
	"sort"
	"strings"
	"sync"

	"travelmap-service/internal/domain"
)

const (
	// StripeWidth is the width in pixels of one visitor's stripe.
	StripeWidth = 6.0
	// FillOpacity is applied to every visited fill.
	FillOpacity = 0.7

	unvisitedColor   = "#9e9e9e"
	unvisitedOpacity = 0.15
)

// Unvisited is the explicit "no visible visitor" fill, distinct from FillNone.
var Unvisited = domain.FillStyle{Kind: domain.FillColor, Color: unvisitedColor, Opacity: unvisitedOpacity}

// PatternKey returns the stable pattern id for a visitor combination.
// It depends only on the sorted, de-duplicated ids.
func PatternKey(ids []string) string {
	sorted := sortedUnique(ids)
	parts := make([]string, len(sorted))
	for i, id := range sorted {
		parts[i] = sanitizeID(id)
	}
	return "stripe-" + strings.Join(parts, "-")
}

func sortedUnique(ids []string) []string {
	out := append([]string(nil), ids...)
	sort.Strings(out)
	w := 0
	for i, id := range out {
		if i > 0 && id == out[w-1] {
			continue
		}
		out[w] = id
		w++
	}
	return out[:w]
}

// sanitizeID keeps pattern ids usable inside url(#...) references. ASCII letters
// and digits pass through; every other byte, '_' included, becomes _xx in hex so
// distinct ids never share an encoding.
func sanitizeID(id string) string {
	var b strings.Builder
	b.Grow(len(id))
	for i := 0; i < len(id); i++ {
		c := id[i]
		switch {
		case c >= 'a' && c <= 'z', c >= 'A' && c <= 'Z', c >= '0' && c <= '9':
			b.WriteByte(c)
		default:
			fmt.Fprintf(&b, "_%02x", c)
		}
	}
	return b.String()
}

// ColorResolver maps visible visitor sets to fill styles and memoizes the stripe
// patterns it generates for the lifetime of the resolver.
//
// The resolver is safe for concurrent use.
type ColorResolver struct {
	roster *domain.Roster

	mu          sync.Mutex
	patterns    map[string]domain.Pattern
	constructed int
}

func NewColorResolver(roster *domain.Roster) *ColorResolver {
	return &ColorResolver{
		roster:   roster,
		patterns: make(map[string]domain.Pattern),
	}
}

// Resolve returns a flat color for a single visitor and a pattern reference for
// several. The result depends only on the set of ids, not their order.
func (c *ColorResolver) Resolve(ids []string) (domain.FillStyle, error) {
	sorted := sortedUnique(ids)
	if len(sorted) == 0 {
		return domain.FillStyle{}, fmt.Errorf("resolve fill: %w", domain.ErrEmptyVisitors)
	}

	colors := make([]string, 0, len(sorted))
	for _, id := range sorted {
		v, ok := c.roster.Get(id)
		if !ok {
			return domain.FillStyle{}, fmt.Errorf("resolve fill: %q: %w", id, domain.ErrUnknownVisitor)
		}
		colors = append(colors, v.Color)
	}

	if len(sorted) == 1 {
		return domain.FillStyle{Kind: domain.FillColor, Color: colors[0], Opacity: FillOpacity}, nil
	}

	key := PatternKey(sorted)

	c.mu.Lock()
	if _, ok := c.patterns[key]; !ok {
		c.patterns[key] = domain.Pattern{
			ID:          key,
			VisitorIDs:  sorted,
			Colors:      colors,
			StripeWidth: StripeWidth,
		}
		c.constructed++
	}
	c.mu.Unlock()

	return domain.FillStyle{Kind: domain.FillPattern, PatternID: key, Opacity: FillOpacity}, nil
}

// Pattern looks up a registered pattern.
func (c *ColorResolver) Pattern(id string) (domain.Pattern, bool) {
	c.mu.Lock()
	defer c.mu.Unlock()
	p, ok := c.patterns[id]
	return p, ok
}

// Patterns returns every registered pattern ordered by id.
func (c *ColorResolver) Patterns() []domain.Pattern {
	c.mu.Lock()
	out := make([]domain.Pattern, 0, len(c.patterns))
	for _, p := range c.patterns {
		out = append(out, p)
	}
	c.mu.Unlock()

	sort.Slice(out, func(i, j int) bool { return out[i].ID < out[j].ID })
	return out
}

// Constructed reports how many distinct patterns have been built.
func (c *ColorResolver) Constructed() int {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.constructed
}

// WritePatternDefs writes an SVG <defs> block with every registered pattern.
func (c *ColorResolver) WritePatternDefs(w io.Writer) error {
	if w == nil {
		return errors.New("write pattern defs: writer is nil")
	}

	var b strings.Builder
	b.WriteString(`<svg xmlns="http://www.w3.org/2000/svg" width="0" height="0" style="position:absolute"><defs>`)
	for _, p := range c.Patterns() {
		writePattern(&b, p)
	}
	b.WriteString(`</defs></svg>`)

	if _, err := io.WriteString(w, b.String()); err != nil {
		return fmt.Errorf("write pattern defs: %w", err)
	}
	return nil
}

func writePattern(b *strings.Builder, p domain.Pattern) {
	size := p.StripeWidth * float64(len(p.Colors))
	fmt.Fprintf(b,
		`<pattern id="%s" patternUnits="userSpaceOnUse" width="%g" height="%g" patternTransform="rotate(45)">`,
		html.EscapeString(p.ID), size, size,
	)
	for i, col := range p.Colors {
		fmt.Fprintf(b, `<rect x="%g" y="0" width="%g" height="%g" fill="%s"/>`,
			float64(i)*p.StripeWidth, p.StripeWidth, size, html.EscapeString(col))
	}
	b.WriteString(`</pattern>`)
}
