package services

import (
	"context"
	"sync"
	"testing"

	"travelmap-service/internal/domain"
)

type mapCache struct {
	mu   sync.Mutex
	m    map[string][]byte
	gets int
}

func newMapCache() *mapCache { return &mapCache{m: make(map[string][]byte)} }

func (c *mapCache) Get(_ context.Context, key string) ([]byte, bool, error) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.gets++
	b, ok := c.m[key]
	return b, ok, nil
}

func (c *mapCache) Put(_ context.Context, key string, png []byte) error {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.m[key] = png
	return nil
}

func testState(t *testing.T, locs ...domain.Location) *State {
	t.Helper()
	snap := testSnapshot(t, locs...)
	return &State{Snapshot: snap, Resolver: NewColorResolver(snap.Roster), Fingerprint: Fingerprint(snap)}
}

func TestRenderTileUsesCache(t *testing.T) {
	st := testState(t, loc(t, "A", "", 0, 0, "al"))
	cache := newMapCache()
	req := TileRequest{Z: 1, X: 1, Y: 0}

	first, err := RenderTile(context.Background(), st, allOn(), req, cache)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	key := TileKey(st, allOn(), req)
	cache.m[key] = []byte("cached")

	second, err := RenderTile(context.Background(), st, allOn(), req, cache)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(first) == 0 || string(second) != "cached" {
		t.Fatalf("second render = %q, want the cached bytes", second)
	}
}

func TestTileKeyDependsOnVisibilityAndData(t *testing.T) {
	a := testState(t, loc(t, "A", "", 0, 0, "al"))
	b := testState(t, loc(t, "A", "", 0, 0, "bo"))
	req := TileRequest{Z: 3, X: 1, Y: 2}

	if TileKey(a, allOn(), req) == TileKey(b, allOn(), req) {
		t.Fatal("different data share a tile key")
	}
	if TileKey(a, allOn(), req) == TileKey(a, only(domain.ModeAll, "al"), req) {
		t.Fatal("different visibility shares a tile key")
	}
	if TileKey(a, allOn(), req) != TileKey(testState(t, loc(t, "A", "", 0, 0, "al")), allOn(), req) {
		t.Fatal("same data yields different tile keys")
	}
}

func TestPrerender(t *testing.T) {
	st := testState(t, loc(t, "A", "", 10, 10, "al"), loc(t, "B", "", -10, -10, "bo"))
	cache := newMapCache()

	n, err := Prerender(context.Background(), st, PrerenderRequest{MaxZoom: 2, Visibility: allOn()}, cache)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if n != 1+4+16 {
		t.Fatalf("rendered = %d, want 21", n)
	}
	if len(cache.m) != 21 {
		t.Fatalf("cached = %d, want 21", len(cache.m))
	}

	if _, err := Prerender(context.Background(), st, PrerenderRequest{MaxZoom: MaxTileZoom + 1}, cache); err == nil {
		t.Fatal("expected error for max zoom out of range")
	}
}

func TestPrerenderCancelled(t *testing.T) {
	st := testState(t, loc(t, "A", "", 10, 10, "al"))
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	if _, err := Prerender(ctx, st, PrerenderRequest{MaxZoom: 4, Visibility: allOn()}, newMapCache()); err == nil {
		t.Fatal("expected error for cancelled context")
	}
}
