package boundaries

import (
	"context"
	"fmt"
	"log/slog"

	geojson "github.com/paulmach/go.geojson"

	"travelmap-service/internal/adapters/remote"
	"travelmap-service/internal/domain"
	"travelmap-service/internal/platform/obs"
)

// GeoJSONProvider reads country boundaries from a GeoJSON FeatureCollection
// whose features carry an ADMIN name property.
type GeoJSONProvider struct {
	fetcher *remote.Fetcher
	src     string
}

func NewGeoJSONProvider(f *remote.Fetcher, src string) *GeoJSONProvider {
	return &GeoJSONProvider{fetcher: f, src: src}
}

func (p *GeoJSONProvider) FetchBoundaries(ctx context.Context) (_ []domain.CountryFeature, err error) {
	defer obs.Time(ctx, "boundaries.FetchBoundaries")(&err)

	data, err := p.fetcher.Fetch(ctx, p.src)
	if err != nil {
		return nil, fmt.Errorf("fetch boundaries: %w", err)
	}
	features, err := Parse(data)
	if err != nil {
		return nil, fmt.Errorf("fetch boundaries: %w", err)
	}
	return features, nil
}

// Parse decodes a FeatureCollection. Features with non-polygon geometry are
// skipped; a feature without an ADMIN property keeps an empty Admin.
func Parse(data []byte) ([]domain.CountryFeature, error) {
	fc, err := geojson.UnmarshalFeatureCollection(data)
	if err != nil {
		return nil, fmt.Errorf("parse geojson: %w", err)
	}
	if fc.Type != "FeatureCollection" {
		return nil, fmt.Errorf("parse geojson: type %q, want FeatureCollection", fc.Type)
	}

	out := make([]domain.CountryFeature, 0, len(fc.Features))
	for i, f := range fc.Features {
		admin := f.PropertyMustString("ADMIN", "")

		var polys []domain.Polygon
		switch {
		case f.Geometry == nil:
		case f.Geometry.IsPolygon():
			polys = []domain.Polygon{toPolygon(f.Geometry.Polygon)}
		case f.Geometry.IsMultiPolygon():
			for _, rings := range f.Geometry.MultiPolygon {
				polys = append(polys, toPolygon(rings))
			}
		}
		if len(polys) == 0 {
			slog.Debug("boundary_feature_skipped", "index", i, "admin", admin, "reason", "no polygon geometry")
			continue
		}

		out = append(out, domain.CountryFeature{
			Admin:      admin,
			Polygons:   polys,
			Properties: f.Properties,
		})
	}
	return out, nil
}

// GeoJSON positions are [lng, lat].
func toPolygon(rings [][][]float64) domain.Polygon {
	p := domain.Polygon{Rings: make([][]domain.Point, 0, len(rings))}
	for _, ring := range rings {
		pts := make([]domain.Point, 0, len(ring))
		for _, pos := range ring {
			if len(pos) < 2 {
				continue
			}
			pts = append(pts, domain.Point{Lat: pos[1], Lng: pos[0]})
		}
		p.Rings = append(p.Rings, pts)
	}
	return p
}
