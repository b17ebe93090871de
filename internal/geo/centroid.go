package geo

import (
	"github.com/golang/geo/s2"

	"travelmap-service/internal/domain"
)

// ringLoop converts a GeoJSON ring to an s2 loop. The closing vertex and
// consecutive duplicates are dropped. Returns nil for degenerate rings.
func ringLoop(ring []domain.Point) *s2.Loop {
	pts := make([]s2.Point, 0, len(ring))
	for i, p := range ring {
		if i > 0 && p == ring[i-1] {
			continue
		}
		pts = append(pts, s2.PointFromLatLng(s2.LatLngFromDegrees(p.Lat, p.Lng)))
	}
	if len(pts) > 1 && pts[0] == pts[len(pts)-1] {
		pts = pts[:len(pts)-1]
	}
	if len(pts) < 3 {
		return nil
	}

	loop := s2.LoopFromPoints(pts)
	// GeoJSON sources disagree on winding; treat every ring as the smaller side.
	loop.Normalize()
	return loop
}

// RingArea returns the spherical area of a ring in steradians.
func RingArea(ring []domain.Point) float64 {
	loop := ringLoop(ring)
	if loop == nil {
		return 0
	}
	return loop.Area()
}

// Centroid returns the centroid of the largest outer ring across all polygons.
// ok is false when no polygon has a usable outer ring.
func Centroid(polys []domain.Polygon) (domain.Point, bool) {
	var best *s2.Loop
	var bestRing []domain.Point
	bestArea := -1.0

	for _, poly := range polys {
		if len(poly.Rings) == 0 {
			continue
		}
		loop := ringLoop(poly.Rings[0])
		if loop == nil {
			continue
		}
		if a := loop.Area(); a > bestArea {
			bestArea = a
			best = loop
			bestRing = poly.Rings[0]
		}
	}
	if best == nil {
		return domain.Point{}, false
	}

	c := best.Centroid()
	if c.Norm() == 0 {
		return vertexMean(bestRing), true
	}
	ll := s2.LatLngFromPoint(c)
	return domain.Point{Lat: ll.Lat.Degrees(), Lng: ll.Lng.Degrees()}, true
}

func vertexMean(ring []domain.Point) domain.Point {
	var lat, lng float64
	for _, p := range ring {
		lat += p.Lat
		lng += p.Lng
	}
	n := float64(len(ring))
	return domain.Point{Lat: lat / n, Lng: lng / n}
}
