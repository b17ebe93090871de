package dto

import (
	geojson "github.com/paulmach/go.geojson"

	"travelmap-service/internal/domain"
)

// CountriesResponse is a GeoJSON FeatureCollection with extra top-level members.
type CountriesResponse struct {
	Type     string             `json:"type"`
	Style    string             `json:"style"`
	Degraded bool               `json:"degraded"`
	Features []*geojson.Feature `json:"features"`
}

// CountryFeature copies the source properties and adds the computed fill.
func CountryFeature(f domain.CountryFeature, fill domain.FillStyle) *geojson.Feature {
	out := geojson.NewFeature(Geometry(f.Polygons))
	for k, v := range f.Properties {
		out.SetProperty(k, v)
	}
	out.SetProperty("ADMIN", f.Admin)
	out.SetProperty("fill", Fill(fill))
	return out
}

// Geometry converts polygons back to GeoJSON, [lng, lat] positions.
func Geometry(polys []domain.Polygon) *geojson.Geometry {
	out := make([][][][]float64, 0, len(polys))
	for _, p := range polys {
		rings := make([][][]float64, 0, len(p.Rings))
		for _, r := range p.Rings {
			ring := make([][]float64, 0, len(r))
			for _, pt := range r {
				ring = append(ring, pt.CoordsToList())
			}
			rings = append(rings, ring)
		}
		out = append(out, rings)
	}
	if len(out) == 1 {
		return geojson.NewPolygonGeometry(out[0])
	}
	return geojson.NewMultiPolygonGeometry(out...)
}
