package domain

// Immutable geographic coordinates in degrees (WGS84).
type Point struct {
	Lat float64
	Lng float64
}

// Return coordinates as [lng, lat] for GeoJSON compatibility.
func (p Point) CoordsToList() []float64 { return []float64{p.Lng, p.Lat} }
