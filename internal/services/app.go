package services

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"sync"
	"time"

	"go.uber.org/atomic"

	"travelmap-service/internal/domain"
	"travelmap-service/internal/platform/metrics"
	"travelmap-service/internal/platform/obs"
	"travelmap-service/internal/ports"
)

// ErrStaleGeneration is returned by Reload when a newer reload started before
// this one finished; its result is discarded.
var ErrStaleGeneration = errors.New("reload superseded by a newer generation")

// State is one immutable generation of application state. Handlers read it
// without locking; a reload replaces the whole value.
type State struct {
	Snapshot    *domain.Snapshot
	Resolver    *ColorResolver
	Regions     *RegionColorizer
	Proximity   *ProximityColorizer
	Features    []domain.CountryFeature
	Degraded    bool
	Unmatched   []string
	Fingerprint string
	Generation  uint64
}

// App owns the current State and the generation token.
type App struct {
	repo       ports.LocationRepository
	boundaries ports.BoundaryProvider
	aliases    *AliasTable

	generation *atomic.Uint64

	mu    sync.RWMutex
	state *State
}

// NewApp accepts a nil boundary provider, in which case the country layer is
// always degraded.
func NewApp(repo ports.LocationRepository, boundaries ports.BoundaryProvider, aliases *AliasTable) *App {
	if aliases == nil {
		aliases = DefaultAliasTable()
	}
	return &App{
		repo:       repo,
		boundaries: boundaries,
		aliases:    aliases,
		generation: atomic.NewUint64(0),
	}
}

// State returns the active state, or nil before the first successful load.
func (a *App) State() *State {
	a.mu.RLock()
	defer a.mu.RUnlock()
	return a.state
}

func (a *App) Aliases() *AliasTable { return a.aliases }

// Reload loads a fresh snapshot and boundaries and activates them. On failure
// the previous state stays active.
func (a *App) Reload(ctx context.Context) (_ *State, err error) {
	defer obs.Time(ctx, "app.Reload")(&err)

	gen := a.generation.Inc()

	snap, err := a.loadSnapshot(ctx)
	if err != nil {
		metrics.ReloadsTotal.WithLabelValues("failed").Inc()
		return nil, err
	}

	prev := a.State()
	features, degraded := a.loadBoundaries(ctx, prev)

	resolver := NewColorResolver(snap.Roster)
	st := &State{
		Snapshot:    snap,
		Resolver:    resolver,
		Regions:     NewRegionColorizer(snap, resolver, a.aliases),
		Proximity:   NewProximityColorizer(snap, resolver),
		Features:    features,
		Degraded:    degraded,
		Unmatched:   ValidateAliases(a.aliases, features, snap.Locations),
		Fingerprint: Fingerprint(snap),
		Generation:  gen,
	}
	if !degraded && len(st.Unmatched) > 0 {
		slog.WarnContext(ctx, "alias_unmatched_countries", "count", len(st.Unmatched), "names", st.Unmatched)
	}

	a.mu.Lock()
	if a.generation.Load() != gen {
		a.mu.Unlock()
		metrics.ReloadsTotal.WithLabelValues("stale").Inc()
		return nil, fmt.Errorf("reload generation %d: %w", gen, ErrStaleGeneration)
	}
	a.state = st
	a.mu.Unlock()

	metrics.ReloadsTotal.WithLabelValues("ok").Inc()
	metrics.PatternsConstructed.Set(0)
	slog.InfoContext(ctx, "dataset_load_ok",
		"generation", gen,
		"visitors", snap.Roster.Len(),
		"locations", len(snap.Locations),
		"routes", len(snap.Routes),
		"countries", len(features),
		"degraded", degraded,
	)
	return st, nil
}

func (a *App) loadSnapshot(ctx context.Context) (*domain.Snapshot, error) {
	var snap *domain.Snapshot
	if sl, ok := a.repo.(ports.SnapshotLoader); ok {
		s, err := sl.LoadSnapshot(ctx)
		if err != nil {
			return nil, fmt.Errorf("reload: load snapshot: %w", err)
		}
		snap = s
	} else {
		roster, err := a.repo.Roster(ctx)
		if err != nil {
			return nil, fmt.Errorf("reload: roster: %w", err)
		}
		locs, err := a.repo.ListLocations(ctx)
		if err != nil {
			return nil, fmt.Errorf("reload: list locations: %w", err)
		}
		routes, err := a.repo.ListRoutes(ctx)
		if err != nil {
			return nil, fmt.Errorf("reload: list routes: %w", err)
		}
		snap = &domain.Snapshot{Roster: roster, Locations: locs, Routes: routes}
	}

	if snap.Roster == nil {
		return nil, errors.New("reload: snapshot has no roster")
	}

	merged := &domain.Snapshot{
		Roster:    snap.Roster,
		Locations: MergeLocations(snap.Roster, snap.Locations),
		Routes:    snap.Routes,
		LoadedAt:  snap.LoadedAt,
	}
	if merged.LoadedAt.IsZero() {
		merged.LoadedAt = time.Now().UTC()
	}
	return merged, nil
}

// loadBoundaries keeps the previous boundaries when a refetch fails.
func (a *App) loadBoundaries(ctx context.Context, prev *State) ([]domain.CountryFeature, bool) {
	if a.boundaries == nil {
		return nil, true
	}

	features, err := a.boundaries.FetchBoundaries(ctx)
	if err == nil {
		return features, false
	}

	if prev != nil && !prev.Degraded {
		slog.WarnContext(ctx, "boundaries_load_failed", "err", err, "fallback", "previous")
		return prev.Features, false
	}
	slog.WarnContext(ctx, "boundaries_load_failed", "err", err, "fallback", "none")
	return nil, true
}
