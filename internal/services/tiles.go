package services

import (
	"context"
	"fmt"
	"log/slog"
	"strconv"
	"sync"

	"github.com/cespare/xxhash/v2"

	"travelmap-service/internal/domain"
	"travelmap-service/internal/platform/metrics"
	"travelmap-service/internal/platform/obs"
	"travelmap-service/internal/ports"
)

// Fingerprint identifies the content a tile depends on: roster colors and the
// location list. It is stable across restarts for the same data.
func Fingerprint(snap *domain.Snapshot) string {
	d := xxhash.New()
	for _, v := range snap.Roster.Visitors() {
		_, _ = d.WriteString(v.ID + "=" + v.Color + ";")
	}
	for _, l := range snap.Locations {
		_, _ = d.WriteString(l.Name)
		_, _ = d.WriteString(strconv.FormatFloat(l.Lat, 'f', 6, 64))
		_, _ = d.WriteString(strconv.FormatFloat(l.Lng, 'f', 6, 64))
		for _, id := range l.Visitors {
			_, _ = d.WriteString("," + id)
		}
		_, _ = d.WriteString(";")
	}
	return strconv.FormatUint(d.Sum64(), 16)
}

// TileKey is the cache key of a Voronoi tile for the given state and visibility.
func TileKey(st *State, vis domain.Visibility, req TileRequest) string {
	return fmt.Sprintf("%s/%d/%d/%d/%s/r%g",
		st.Fingerprint, req.Z, req.X, req.Y, vis.Key(st.Snapshot.Roster), req.RadiusKm)
}

// RenderTile returns the PNG for a Voronoi tile, going through cache when one is
// given. Cache errors never fail the render.
func RenderTile(ctx context.Context, st *State, vis domain.Visibility, req TileRequest, cache ports.TileCache) (_ []byte, err error) {
	defer obs.Time(ctx, "render_tile")(&err)

	if err := req.Validate(); err != nil {
		return nil, err
	}

	key := TileKey(st, vis, req)
	if cache != nil {
		if b, ok, err := cache.Get(ctx, key); err == nil && ok {
			return b, nil
		} else if err != nil {
			slog.WarnContext(ctx, "tile_cache_error", "key", key, "err", err)
		}
	}

	img, err := RenderVoronoiTile(st.Snapshot, vis, req)
	if err != nil {
		return nil, err
	}
	png, err := EncodeTile(img)
	if err != nil {
		return nil, err
	}
	metrics.RendersTotal.WithLabelValues("voronoi").Inc()

	if cache != nil {
		if err := cache.Put(ctx, key, png); err != nil {
			slog.WarnContext(ctx, "tile_cache_error", "key", key, "err", err)
		}
	}
	return png, nil
}

// PrerenderRequest selects the tiles to warm: every tile from zoom 0 to MaxZoom.
type PrerenderRequest struct {
	MaxZoom    int
	RadiusKm   float64
	Visibility domain.Visibility
	// Concurrency bounds parallel renders; 0 means 5.
	Concurrency int
}

// Prerender renders all tiles up to MaxZoom into cache and returns how many it
// rendered. The first error cancels the remaining work.
func Prerender(ctx context.Context, st *State, req PrerenderRequest, cache ports.TileCache) (int, error) {
	if req.MaxZoom < 0 || req.MaxZoom > MaxTileZoom {
		return 0, fmt.Errorf("prerender: max zoom %d out of range [0, %d]", req.MaxZoom, MaxTileZoom)
	}
	workers := req.Concurrency
	if workers <= 0 {
		workers = 5
	}

	ctx, cancel := context.WithCancel(ctx)
	defer cancel()

	sem := make(chan struct{}, workers)
	var (
		wg       sync.WaitGroup
		mu       sync.Mutex
		firstErr error
		rendered int
	)

	fail := func(err error) {
		mu.Lock()
		if firstErr == nil {
			firstErr = err
		}
		mu.Unlock()
		cancel()
	}

loop:
	for z := 0; z <= req.MaxZoom; z++ {
		n := 1 << z
		for x := 0; x < n; x++ {
			for y := 0; y < n; y++ {
				select {
				case <-ctx.Done():
					break loop
				case sem <- struct{}{}:
				}

				wg.Add(1)
				go func(t TileRequest) {
					defer wg.Done()
					defer func() { <-sem }()

					if ctx.Err() != nil {
						return
					}
					if _, err := RenderTile(ctx, st, req.Visibility, t, cache); err != nil {
						fail(fmt.Errorf("prerender: tile %d/%d/%d: %w", t.Z, t.X, t.Y, err))
						return
					}
					mu.Lock()
					rendered++
					mu.Unlock()
				}(TileRequest{Z: z, X: x, Y: y, RadiusKm: req.RadiusKm})
			}
		}
	}

	wg.Wait()

	if firstErr != nil {
		return rendered, firstErr
	}
	if err := ctx.Err(); err != nil {
		return rendered, fmt.Errorf("prerender: %w", err)
	}
	return rendered, nil
}
