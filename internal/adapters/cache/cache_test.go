package cache

import (
	"context"
	"errors"
	"path/filepath"
	"testing"
	"time"

	"github.com/alicebob/miniredis/v2"

	"travelmap-service/internal/adapters/repositories"
	"travelmap-service/internal/platform/db"
)

func TestRedisTileCache(t *testing.T) {
	ctx := context.Background()
	mr := miniredis.RunT(t)
	c := NewRedisTileCache(OpenRedis(mr.Addr(), "", 0), time.Minute)

	if _, ok, err := c.Get(ctx, "3/1/2"); err != nil || ok {
		t.Fatalf("Get on empty cache = ok %v err %v, want miss", ok, err)
	}

	if err := c.Put(ctx, "3/1/2", []byte("png")); err != nil {
		t.Fatalf("Put: %v", err)
	}
	b, ok, err := c.Get(ctx, "3/1/2")
	if err != nil || !ok || string(b) != "png" {
		t.Fatalf("Get = %q, %v, %v; want png, true, nil", b, ok, err)
	}

	mr.FastForward(2 * time.Minute)
	if _, ok, _ := c.Get(ctx, "3/1/2"); ok {
		t.Fatal("entry should expire after the TTL")
	}
}

func TestOpenRedisEmptyAddr(t *testing.T) {
	if c := OpenRedis("", "", 0); c != nil {
		t.Fatal("OpenRedis with empty addr should return nil")
	}
}

func TestMemoryTileCacheEvicts(t *testing.T) {
	ctx := context.Background()
	c := NewMemoryTileCache(2, time.Hour)

	for _, k := range []string{"a", "b", "c"} {
		_ = c.Put(ctx, k, []byte(k))
	}
	if c.Len() != 2 {
		t.Fatalf("Len = %d, want 2", c.Len())
	}
	if _, ok, _ := c.Get(ctx, "a"); ok {
		t.Fatal("oldest entry should be evicted")
	}
	if b, ok, _ := c.Get(ctx, "c"); !ok || string(b) != "c" {
		t.Fatalf("Get(c) = %q, %v", b, ok)
	}
}

func TestSQLTileCache(t *testing.T) {
	ctx := context.Background()
	conn, err := db.OpenSQLite(filepath.Join(t.TempDir(), "tiles.db"))
	if err != nil {
		t.Fatalf("open: %v", err)
	}
	defer conn.Close()
	if err := repositories.InitSchema(ctx, conn, db.SQLite); err != nil {
		t.Fatalf("init schema: %v", err)
	}

	c := NewSQLTileCache(conn, db.SQLite, time.Hour)
	now := time.Date(2026, 1, 1, 12, 0, 0, 0, time.UTC)
	c.now = func() time.Time { return now }

	if err := c.Put(ctx, "k", []byte{1, 2}); err != nil {
		t.Fatalf("Put: %v", err)
	}
	if err := c.Put(ctx, "k", []byte{3}); err != nil {
		t.Fatalf("Put overwrite: %v", err)
	}
	b, ok, err := c.Get(ctx, "k")
	if err != nil || !ok || len(b) != 1 || b[0] != 3 {
		t.Fatalf("Get = %v, %v, %v; want [3], true, nil", b, ok, err)
	}

	now = now.Add(2 * time.Hour)
	if _, ok, _ := c.Get(ctx, "k"); ok {
		t.Fatal("stale entry should be a miss")
	}

	if _, _, err := c.Get(ctx, " "); err == nil {
		t.Fatal("expected error for empty key")
	}
}

type failingCache struct{}

func (failingCache) Get(context.Context, string) ([]byte, bool, error) {
	return nil, false, errors.New("down")
}
func (failingCache) Put(context.Context, string, []byte) error { return errors.New("down") }

func TestLayeredFillsFrontAndToleratesErrors(t *testing.T) {
	ctx := context.Background()
	front := NewMemoryTileCache(8, time.Hour)
	backing := NewMemoryTileCache(8, time.Hour)
	_ = backing.Put(ctx, "k", []byte("v"))

	l := NewLayered(front, backing)
	if b, ok, err := l.Get(ctx, "k"); err != nil || !ok || string(b) != "v" {
		t.Fatalf("Get = %q, %v, %v", b, ok, err)
	}
	if _, ok, _ := front.Get(ctx, "k"); !ok {
		t.Fatal("backing hit should fill the front cache")
	}

	broken := NewLayered(NewMemoryTileCache(8, time.Hour), failingCache{})
	if err := broken.Put(ctx, "x", []byte("y")); err != nil {
		t.Fatalf("Put with failing backing = %v, want nil", err)
	}
	if _, ok, err := broken.Get(ctx, "missing"); err != nil || ok {
		t.Fatalf("Get with failing backing = %v, %v; want miss without error", ok, err)
	}
}
