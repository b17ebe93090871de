package domain

// Polygon is a GeoJSON polygon: the first ring is the outer boundary, the rest are holes.
type Polygon struct {
	Rings [][]Point
}

// CountryFeature is one admin-level boundary from the reference map data.
type CountryFeature struct {
	Admin    string
	Polygons []Polygon
	// Properties carries the raw feature properties through to the rendered output.
	Properties map[string]any
}
