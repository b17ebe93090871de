package geo

import (
	"math"

	"travelmap-service/internal/domain"
)

const (
	// TileSize is the edge length of a Web-Mercator tile in pixels.
	TileSize = 256
	// MaxLatitude is the Web-Mercator latitude limit.
	MaxLatitude = 85.0511287798

	// earthCircumferenceM matches Leaflet's LatLng.toBounds.
	earthCircumferenceM = 40075017.0
)

// WorldSize returns the width of the whole world in pixels at zoom z.
func WorldSize(z float64) float64 {
	return TileSize * math.Exp2(z)
}

// Project maps a point to world pixel coordinates at zoom z.
func Project(p domain.Point, z float64) (x, y float64) {
	size := WorldSize(z)
	lat := math.Max(-MaxLatitude, math.Min(MaxLatitude, p.Lat))
	sinLat := math.Sin(toRad(lat))
	x = (p.Lng + 180) / 360 * size
	y = (0.5 - math.Log((1+sinLat)/(1-sinLat))/(4*math.Pi)) * size
	return x, y
}

// Unproject maps world pixel coordinates at zoom z back to a point.
func Unproject(x, y, z float64) domain.Point {
	size := WorldSize(z)
	lng := x/size*360 - 180
	n := math.Pi - 2*math.Pi*y/size
	lat := toDeg(math.Atan(math.Sinh(n)))
	return domain.Point{Lat: lat, Lng: lng}
}

// ScreenRadius converts a geographic radius around p into pixels at zoom z.
// The radius box is built like Leaflet's toBounds, so the result grows with
// latitude the same way the projection does. Half width and half height of the
// projected box are averaged.
func ScreenRadius(p domain.Point, radiusKm, z float64) float64 {
	if radiusKm <= 0 {
		return 0
	}
	lat := math.Max(-MaxLatitude, math.Min(MaxLatitude, p.Lat))
	// toBounds takes the box side length, i.e. twice the radius.
	latAcc := 180 * (2 * radiusKm * 1000) / earthCircumferenceM
	lngAcc := latAcc / math.Cos(toRad(lat))

	x1, y1 := Project(domain.Point{Lat: lat - latAcc, Lng: p.Lng - lngAcc}, z)
	x2, y2 := Project(domain.Point{Lat: lat + latAcc, Lng: p.Lng + lngAcc}, z)
	rx := math.Abs(x2-x1) / 2
	ry := math.Abs(y2-y1) / 2
	return (rx + ry) / 2
}

// Viewport is a screen rectangle centred on a point at a fractional zoom.
type Viewport struct {
	Center domain.Point
	Zoom   float64
	Width  float64
	Height float64
}

// Origin returns the world pixel coordinates of the viewport's top-left corner.
func (v Viewport) Origin() (x, y float64) {
	cx, cy := Project(v.Center, v.Zoom)
	return cx - v.Width/2, cy - v.Height/2
}

// ToScreen maps a point to viewport pixel coordinates.
func (v Viewport) ToScreen(p domain.Point) (x, y float64) {
	ox, oy := v.Origin()
	px, py := Project(p, v.Zoom)
	return px - ox, py - oy
}
