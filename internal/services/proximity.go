package services

import (
	"fmt"

	"travelmap-service/internal/domain"
	"travelmap-service/internal/geo"
)

// ProximityColorizer paints each country with the style of the visible location
// nearest to the country's centroid.
type ProximityColorizer struct {
	snap     *domain.Snapshot
	resolver *ColorResolver
}

func NewProximityColorizer(snap *domain.Snapshot, resolver *ColorResolver) *ProximityColorizer {
	return &ProximityColorizer{snap: snap, resolver: resolver}
}

// ColorizeAll colors every feature, in feature order. Features without a usable
// outer ring have no data; with no visible pins every country is unvisited.
func (pc *ProximityColorizer) ColorizeAll(features []domain.CountryFeature, vis domain.Visibility) ([]domain.FillStyle, error) {
	pins := VisiblePins(pc.snap, vis)
	points := make([]domain.Point, len(pins))
	for i, p := range pins {
		points[i] = p.Location.Point()
	}

	styles := make(map[int]domain.FillStyle)
	out := make([]domain.FillStyle, 0, len(features))
	for _, f := range features {
		centroid, ok := geo.Centroid(f.Polygons)
		if !ok {
			out = append(out, domain.FillStyle{Kind: domain.FillNone})
			continue
		}

		idx, _ := NearestPoint(centroid, points)
		if idx < 0 {
			out = append(out, Unvisited)
			continue
		}

		style, ok := styles[idx]
		if !ok {
			var err error
			style, err = pc.resolver.Resolve(pins[idx].Visible)
			if err != nil {
				return nil, fmt.Errorf("proximity colorize %q: %w", f.Admin, err)
			}
			styles[idx] = style
		}
		out = append(out, style)
	}
	return out, nil
}
