package cache

import (
	"context"
	"log/slog"

	"travelmap-service/internal/platform/metrics"
	"travelmap-service/internal/ports"
)

// Layered checks an in-process cache before an optional shared one and fills
// the front on a backing hit. Errors from either layer are logged and treated
// as misses, so it never fails.
type Layered struct {
	front   ports.TileCache
	backing ports.TileCache
}

// NewLayered accepts a nil backing cache.
func NewLayered(front, backing ports.TileCache) *Layered {
	return &Layered{front: front, backing: backing}
}

func (l *Layered) Get(ctx context.Context, key string) ([]byte, bool, error) {
	if b, ok, err := l.front.Get(ctx, key); err == nil && ok {
		metrics.TileCacheHitsTotal.Inc()
		return b, true, nil
	} else if err != nil {
		slog.WarnContext(ctx, "tile_cache_error", "layer", "front", "key", key, "err", err)
	}

	if l.backing != nil {
		b, ok, err := l.backing.Get(ctx, key)
		if err != nil {
			slog.WarnContext(ctx, "tile_cache_error", "layer", "backing", "key", key, "err", err)
		} else if ok {
			metrics.TileCacheHitsTotal.Inc()
			_ = l.front.Put(ctx, key, b)
			return b, true, nil
		}
	}

	metrics.TileCacheMissesTotal.Inc()
	return nil, false, nil
}

func (l *Layered) Put(ctx context.Context, key string, png []byte) error {
	if err := l.front.Put(ctx, key, png); err != nil {
		slog.WarnContext(ctx, "tile_cache_error", "layer", "front", "key", key, "err", err)
	}
	if l.backing != nil {
		if err := l.backing.Put(ctx, key, png); err != nil {
			slog.WarnContext(ctx, "tile_cache_error", "layer", "backing", "key", key, "err", err)
		}
	}
	return nil
}
