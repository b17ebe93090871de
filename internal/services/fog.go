package services

import (
	"fmt"
	"io"
	"math"
	"strings"

	"travelmap-service/internal/domain"
	"travelmap-service/internal/geo"
)

const (
	// FogBlur is the Gaussian blur applied to the cut-outs, in pixels.
	FogBlur = 12.0
	// FogOpacity is the opacity of the textured fog fill.
	FogOpacity = 0.85

	routeMinRadiusKm = 30.0
	fogColor         = "#1b1f24"
)

// FogRequest is the viewport and radius a fog overlay is built for.
type FogRequest struct {
	Viewport   geo.Viewport
	RadiusKm   float64
	Visibility domain.Visibility
}

// Circle is a cut-out around a pin, in viewport pixels.
type Circle struct {
	X, Y, R float64
}

// Corridor is a cut-out along a driven route, in viewport pixels.
type Corridor struct {
	Points [][2]float64
	Width  float64
}

// FogOverlay is the complete description of one fog render. The mask rectangle
// spans the viewport plus PadX/PadY on every side.
type FogOverlay struct {
	Width, Height float64
	PadX, PadY    float64
	Circles       []Circle
	Corridors     []Corridor
}

// BuildFog computes the overlay for the visible pins and routes of snap. With a
// non-positive radius, or nothing visible, the overlay has no cut-outs.
func BuildFog(snap *domain.Snapshot, req FogRequest) FogOverlay {
	vp := req.Viewport
	out := FogOverlay{
		Width:  vp.Width,
		Height: vp.Height,
		PadX:   vp.Width,
		PadY:   vp.Height,
	}
	if req.RadiusKm <= 0 {
		return out
	}

	for _, pin := range VisiblePins(snap, req.Visibility) {
		p := pin.Location.Point()
		x, y := vp.ToScreen(p)
		r := geo.ScreenRadius(p, req.RadiusKm, vp.Zoom)
		if !out.touches(x-r, y-r, x+r, y+r) {
			continue
		}
		out.Circles = append(out.Circles, Circle{X: x, Y: y, R: r})
	}

	corridorKm := math.Max(0.5*req.RadiusKm, routeMinRadiusKm)
	for _, route := range snap.Routes {
		if len(route.Points) < 2 {
			continue
		}
		if len(VisibleRoute(snap.Roster, req.Visibility, route)) == 0 {
			continue
		}

		var latSum float64
		pts := make([][2]float64, len(route.Points))
		for i, p := range route.Points {
			x, y := vp.ToScreen(p)
			pts[i] = [2]float64{x, y}
			latSum += p.Lat
		}
		mid := domain.Point{Lat: latSum / float64(len(route.Points)), Lng: vp.Center.Lng}
		width := 2 * geo.ScreenRadius(mid, corridorKm, vp.Zoom)

		out.Corridors = append(out.Corridors, Corridor{Points: pts, Width: width})
	}

	return out
}

// touches reports whether a screen box intersects the padded mask rectangle.
func (f FogOverlay) touches(minX, minY, maxX, maxY float64) bool {
	return maxX >= -f.PadX && minX <= f.Width+f.PadX &&
		maxY >= -f.PadY && minY <= f.Height+f.PadY
}

// Fogged reports whether the unblurred mask hides the viewport pixel (x, y).
// Points outside the padded rectangle are never fogged.
func (f FogOverlay) Fogged(x, y float64) bool {
	if x < -f.PadX || x > f.Width+f.PadX || y < -f.PadY || y > f.Height+f.PadY {
		return false
	}
	for _, c := range f.Circles {
		if math.Hypot(x-c.X, y-c.Y) <= c.R {
			return false
		}
	}
	for _, cor := range f.Corridors {
		for i := 1; i < len(cor.Points); i++ {
			if segmentDistance(x, y, cor.Points[i-1], cor.Points[i]) <= cor.Width/2 {
				return false
			}
		}
	}
	return true
}

func segmentDistance(x, y float64, a, b [2]float64) float64 {
	dx, dy := b[0]-a[0], b[1]-a[1]
	l2 := dx*dx + dy*dy
	if l2 == 0 {
		return math.Hypot(x-a[0], y-a[1])
	}
	t := ((x-a[0])*dx + (y-a[1])*dy) / l2
	t = math.Max(0, math.Min(1, t))
	return math.Hypot(x-(a[0]+t*dx), y-(a[1]+t*dy))
}

// WriteSVG writes the overlay as a standalone SVG positioned at the viewport's
// top-left corner; viewBox coordinates are viewport pixels.
func (f FogOverlay) WriteSVG(w io.Writer) error {
	var b strings.Builder
	fullW := f.Width + 2*f.PadX
	fullH := f.Height + 2*f.PadY

	fmt.Fprintf(&b,
		`<svg xmlns="http://www.w3.org/2000/svg" width="%g" height="%g" viewBox="%g %g %g %g" class="fog-overlay">`,
		fullW, fullH, -f.PadX, -f.PadY, fullW, fullH)

	b.WriteString(`<defs>`)
	fmt.Fprintf(&b,
		`<filter id="fog-blur" x="-50%%" y="-50%%" width="200%%" height="200%%"><feGaussianBlur stdDeviation="%g"/></filter>`,
		FogBlur)
	b.WriteString(`<filter id="fog-noise" x="0" y="0" width="100%" height="100%">` +
		`<feTurbulence type="fractalNoise" baseFrequency="0.9" numOctaves="3" stitchTiles="stitch"/>` +
		`<feColorMatrix type="saturate" values="0"/></filter>`)

	fmt.Fprintf(&b, `<mask id="fog-mask" maskUnits="userSpaceOnUse" x="%g" y="%g" width="%g" height="%g">`,
		-f.PadX, -f.PadY, fullW, fullH)
	fmt.Fprintf(&b, `<rect x="%g" y="%g" width="%g" height="%g" fill="white"/>`, -f.PadX, -f.PadY, fullW, fullH)
	if len(f.Circles) > 0 || len(f.Corridors) > 0 {
		b.WriteString(`<g filter="url(#fog-blur)">`)
		for _, c := range f.Circles {
			fmt.Fprintf(&b, `<circle cx="%.2f" cy="%.2f" r="%.2f" fill="black"/>`, c.X, c.Y, c.R)
		}
		for _, cor := range f.Corridors {
			b.WriteString(`<polyline points="`)
			for i, p := range cor.Points {
				if i > 0 {
					b.WriteByte(' ')
				}
				fmt.Fprintf(&b, "%.2f,%.2f", p[0], p[1])
			}
			fmt.Fprintf(&b, `" fill="none" stroke="black" stroke-width="%.2f" stroke-linecap="round" stroke-linejoin="round"/>`, cor.Width)
		}
		b.WriteString(`</g>`)
	}
	b.WriteString(`</mask></defs>`)

	fmt.Fprintf(&b, `<g mask="url(#fog-mask)" opacity="%g">`, FogOpacity)
	fmt.Fprintf(&b, `<rect x="%g" y="%g" width="%g" height="%g" fill="%s"/>`, -f.PadX, -f.PadY, fullW, fullH, fogColor)
	fmt.Fprintf(&b, `<rect x="%g" y="%g" width="%g" height="%g" filter="url(#fog-noise)" opacity="0.2"/>`, -f.PadX, -f.PadY, fullW, fullH)
	b.WriteString(`</g></svg>`)

	if _, err := io.WriteString(w, b.String()); err != nil {
		return fmt.Errorf("write fog svg: %w", err)
	}
	return nil
}
