package datasets

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"golang.org/x/sync/errgroup"

	"travelmap-service/internal/adapters/remote"
	"travelmap-service/internal/domain"
	"travelmap-service/internal/platform/obs"
)

type fetcher interface {
	Fetch(ctx context.Context, src string) ([]byte, error)
}

// Repository loads the Location Store from the datasets listed in a manifest.
// Every load reads all files again; nothing is cached here.
type Repository struct {
	fetcher      fetcher
	manifestPath string
}

func NewRepository(f *remote.Fetcher, manifestPath string) *Repository {
	return &Repository{fetcher: f, manifestPath: manifestPath}
}

type loaded struct {
	roster *domain.Roster
	locs   []domain.Location
	routes []domain.Route
}

// LoadSnapshot fetches every dataset in parallel. Any failure aborts the whole
// load. Locations are returned as read, before merging.
func (r *Repository) LoadSnapshot(ctx context.Context) (_ *domain.Snapshot, err error) {
	defer obs.Time(ctx, "datasets.LoadSnapshot")(&err)

	raw, err := r.fetcher.Fetch(ctx, r.manifestPath)
	if err != nil {
		return nil, fmt.Errorf("load datasets: manifest: %w", err)
	}
	m, err := ParseManifest(raw)
	if err != nil {
		return nil, fmt.Errorf("load datasets: %w", err)
	}

	results := make([]loaded, len(m.Datasets))
	g, gctx := errgroup.WithContext(ctx)
	for i, e := range m.Datasets {
		g.Go(func() error {
			src := remote.Resolve(r.manifestPath, e.Path)
			data, err := r.fetcher.Fetch(gctx, src)
			if err != nil {
				return fmt.Errorf("load datasets: %s: %w", e.Kind, err)
			}

			res, err := parseEntry(e.Kind, data)
			if err != nil {
				return fmt.Errorf("load datasets: %s: %w", src, err)
			}
			results[i] = res

			slog.Debug("dataset_load_ok", "kind", e.Kind, "src", src,
				"locations", len(res.locs), "routes", len(res.routes))
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return nil, err
	}

	snap := &domain.Snapshot{LoadedAt: time.Now().UTC()}
	for _, res := range results {
		if res.roster != nil {
			snap.Roster = res.roster
		}
		snap.Locations = append(snap.Locations, res.locs...)
		snap.Routes = append(snap.Routes, res.routes...)
	}
	return snap, nil
}

func parseEntry(kind string, data []byte) (loaded, error) {
	switch kind {
	case KindVisitors:
		roster, locs, err := parsePrimary(data)
		return loaded{roster: roster, locs: locs}, err
	case KindRoutes:
		routes, err := parseRoutes(data)
		return loaded{routes: routes}, err
	}

	adapt, ok := locationAdapters[kind]
	if !ok {
		return loaded{}, fmt.Errorf("unknown dataset kind %q", kind)
	}
	locs, err := adapt(data)
	return loaded{locs: locs}, err
}

func (r *Repository) Roster(ctx context.Context) (*domain.Roster, error) {
	snap, err := r.LoadSnapshot(ctx)
	if err != nil {
		return nil, err
	}
	return snap.Roster, nil
}

func (r *Repository) ListLocations(ctx context.Context) ([]domain.Location, error) {
	snap, err := r.LoadSnapshot(ctx)
	if err != nil {
		return nil, err
	}
	return snap.Locations, nil
}

func (r *Repository) ListRoutes(ctx context.Context) ([]domain.Route, error) {
	snap, err := r.LoadSnapshot(ctx)
	if err != nil {
		return nil, err
	}
	return snap.Routes, nil
}
