package services

import (
	"bytes"
	"errors"
	"fmt"
	"image"
	"image/color"
	"image/png"
	"strconv"
	"strings"

	"travelmap-service/internal/domain"
	"travelmap-service/internal/geo"
)

const (
	// VoronoiStride is the sampling step in pixels; each sample paints a stride×stride
	// block. The sample point is the block centre (pixel + stride/2), not its top-left
	// pixel, so a block takes the color of the location nearest to its middle.
	VoronoiStride = 3
	// VoronoiAlpha is the fixed opacity of painted cells (0.35).
	VoronoiAlpha uint8 = 89
	// MaxTileZoom bounds tile requests.
	MaxTileZoom = 20
)

var ErrInvalidTile = errors.New("invalid tile coordinates")

// TileRequest addresses one Web-Mercator tile. RadiusKm > 0 limits painting to
// samples within that distance of their nearest location.
type TileRequest struct {
	Z, X, Y  int
	RadiusKm float64
}

func (r TileRequest) Validate() error {
	if r.Z < 0 || r.Z > MaxTileZoom {
		return fmt.Errorf("tile %d/%d/%d: zoom out of range: %w", r.Z, r.X, r.Y, ErrInvalidTile)
	}
	n := 1 << r.Z
	if r.X < 0 || r.X >= n || r.Y < 0 || r.Y >= n {
		return fmt.Errorf("tile %d/%d/%d: %w", r.Z, r.X, r.Y, ErrInvalidTile)
	}
	if r.RadiusKm < 0 {
		return fmt.Errorf("tile %d/%d/%d: negative radius: %w", r.Z, r.X, r.Y, ErrInvalidTile)
	}
	return nil
}

type voronoiSite struct {
	point domain.Point
	color color.NRGBA
}

// voronoiSites returns the locations with exactly one visible visitor. Shared
// places stay pins and never own a cell.
func voronoiSites(snap *domain.Snapshot, vis domain.Visibility) ([]voronoiSite, error) {
	var sites []voronoiSite
	for _, pin := range VisiblePins(snap, vis) {
		if len(pin.Visible) != 1 {
			continue
		}
		v, ok := snap.Roster.Get(pin.Visible[0])
		if !ok {
			continue
		}
		c, err := ParseHexColor(v.Color)
		if err != nil {
			return nil, fmt.Errorf("voronoi sites: visitor %q: %w", v.ID, err)
		}
		c.A = VoronoiAlpha
		sites = append(sites, voronoiSite{point: pin.Location.Point(), color: c})
	}
	return sites, nil
}

// RenderVoronoiTile paints the nearest-location diagram for one tile. A tile with
// no candidate locations is fully transparent.
func RenderVoronoiTile(snap *domain.Snapshot, vis domain.Visibility, req TileRequest) (*image.NRGBA, error) {
	if err := req.Validate(); err != nil {
		return nil, err
	}

	img := image.NewNRGBA(image.Rect(0, 0, geo.TileSize, geo.TileSize))

	sites, err := voronoiSites(snap, vis)
	if err != nil {
		return nil, err
	}
	if len(sites) == 0 {
		return img, nil
	}

	points := make([]domain.Point, len(sites))
	for i, s := range sites {
		points[i] = s.point
	}

	z := float64(req.Z)
	originX := float64(req.X * geo.TileSize)
	originY := float64(req.Y * geo.TileSize)
	half := float64(VoronoiStride) / 2

	for py := 0; py < geo.TileSize; py += VoronoiStride {
		for px := 0; px < geo.TileSize; px += VoronoiStride {
			p := geo.Unproject(originX+float64(px)+half, originY+float64(py)+half, z)
			idx, dist := NearestPoint(p, points)
			if idx < 0 {
				continue
			}
			if req.RadiusKm > 0 && dist > req.RadiusKm {
				continue
			}
			fillBlock(img, px, py, sites[idx].color)
		}
	}

	return img, nil
}

func fillBlock(img *image.NRGBA, x0, y0 int, c color.NRGBA) {
	for y := y0; y < y0+VoronoiStride && y < geo.TileSize; y++ {
		for x := x0; x < x0+VoronoiStride && x < geo.TileSize; x++ {
			img.SetNRGBA(x, y, c)
		}
	}
}

// EncodeTile encodes a tile as PNG.
func EncodeTile(img image.Image) ([]byte, error) {
	var buf bytes.Buffer
	enc := png.Encoder{CompressionLevel: png.BestCompression}
	if err := enc.Encode(&buf, img); err != nil {
		return nil, fmt.Errorf("encode tile: %w", err)
	}
	return buf.Bytes(), nil
}

// ParseHexColor parses #rgb or #rrggbb into an opaque color.
func ParseHexColor(s string) (color.NRGBA, error) {
	h := strings.TrimPrefix(strings.TrimSpace(s), "#")
	if len(h) == 3 {
		h = string([]byte{h[0], h[0], h[1], h[1], h[2], h[2]})
	}
	if len(h) != 6 {
		return color.NRGBA{}, fmt.Errorf("parse color %q: want #rgb or #rrggbb", s)
	}
	v, err := strconv.ParseUint(h, 16, 32)
	if err != nil {
		return color.NRGBA{}, fmt.Errorf("parse color %q: %w", s, err)
	}
	return color.NRGBA{R: uint8(v >> 16), G: uint8(v >> 8), B: uint8(v), A: 0xff}, nil
}
