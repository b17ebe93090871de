package domain

// FillKind distinguishes the three ways a region or point can be painted.
type FillKind string

const (
	// FillNone means there is no data for the feature.
	FillNone    FillKind = "none"
	FillColor   FillKind = "color"
	FillPattern FillKind = "pattern"
)

// FillStyle is a flat color or a reference to a generated stripe pattern.
type FillStyle struct {
	Kind      FillKind
	Color     string
	PatternID string
	Opacity   float64
}

// CSS returns the value usable as an SVG fill attribute.
func (f FillStyle) CSS() string {
	switch f.Kind {
	case FillColor:
		return f.Color
	case FillPattern:
		return "url(#" + f.PatternID + ")"
	}
	return "none"
}

// Pattern is a diagonal stripe pattern with one stripe per visitor color.
type Pattern struct {
	ID          string
	VisitorIDs  []string
	Colors      []string
	StripeWidth float64
}
