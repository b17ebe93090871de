package services

import (
	"context"
	"errors"
	"testing"

	"travelmap-service/internal/domain"
)

// fakeRepo implements only the LocationRepository methods.
type fakeRepo struct {
	roster *domain.Roster
	locs   []domain.Location
	err    error
}

func (f *fakeRepo) Roster(context.Context) (*domain.Roster, error) { return f.roster, f.err }
func (f *fakeRepo) ListLocations(context.Context) ([]domain.Location, error) {
	return f.locs, f.err
}
func (f *fakeRepo) ListRoutes(context.Context) ([]domain.Route, error) { return nil, f.err }

// blockingLoader is a SnapshotLoader whose loads wait on a channel.
type blockingLoader struct {
	fakeRepo
	release chan *domain.Snapshot
	started chan struct{}
}

func (b *blockingLoader) LoadSnapshot(ctx context.Context) (*domain.Snapshot, error) {
	b.started <- struct{}{}
	select {
	case s := <-b.release:
		return s, nil
	case <-ctx.Done():
		return nil, ctx.Err()
	}
}

type fakeBoundaries struct {
	features []domain.CountryFeature
	err      error
}

func (f *fakeBoundaries) FetchBoundaries(context.Context) ([]domain.CountryFeature, error) {
	return f.features, f.err
}

func TestAppReload(t *testing.T) {
	repo := &fakeRepo{
		roster: testRoster(t),
		locs: []domain.Location{
			loc(t, "Paris", "France", 48.85, 2.35, "al", "zed"),
			loc(t, "Atlantis", "Atlantica", 0, 0, "bo"),
		},
	}
	bounds := &fakeBoundaries{features: []domain.CountryFeature{{Admin: "France"}}}
	app := NewApp(repo, bounds, nil)

	if app.State() != nil {
		t.Fatal("state before first load should be nil")
	}

	st, err := app.Reload(context.Background())
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if app.State() != st {
		t.Fatal("reloaded state not active")
	}
	if st.Degraded {
		t.Fatal("state should not be degraded")
	}
	if got := st.Snapshot.Locations[0].Visitors; len(got) != 1 || got[0] != "al" {
		t.Fatalf("Paris visitors = %v, want unknown ids dropped", got)
	}
	if len(st.Unmatched) != 1 || st.Unmatched[0] != "Atlantica" {
		t.Fatalf("Unmatched = %v, want [Atlantica]", st.Unmatched)
	}
	if st.Fingerprint == "" || st.Generation != 1 {
		t.Fatalf("fingerprint %q generation %d", st.Fingerprint, st.Generation)
	}
}

func TestAppBoundariesDegrade(t *testing.T) {
	repo := &fakeRepo{roster: testRoster(t)}
	bounds := &fakeBoundaries{err: errors.New("offline")}

	st, err := NewApp(repo, bounds, nil).Reload(context.Background())
	if err != nil {
		t.Fatalf("boundaries failure should not fail the reload: %v", err)
	}
	if !st.Degraded || len(st.Features) != 0 {
		t.Fatalf("Degraded = %v, features = %d; want degraded with none", st.Degraded, len(st.Features))
	}
}

func TestAppBoundariesKeepPrevious(t *testing.T) {
	repo := &fakeRepo{roster: testRoster(t)}
	bounds := &fakeBoundaries{features: []domain.CountryFeature{{Admin: "France"}}}
	app := NewApp(repo, bounds, nil)

	if _, err := app.Reload(context.Background()); err != nil {
		t.Fatal(err)
	}
	bounds.features, bounds.err = nil, errors.New("offline")

	st, err := app.Reload(context.Background())
	if err != nil {
		t.Fatal(err)
	}
	if st.Degraded || len(st.Features) != 1 {
		t.Fatalf("Degraded = %v, features = %d; want previous boundaries kept", st.Degraded, len(st.Features))
	}
}

func TestAppReloadFailureKeepsPrevious(t *testing.T) {
	repo := &fakeRepo{roster: testRoster(t), locs: []domain.Location{loc(t, "Oslo", "Norway", 59.9, 10.75, "al")}}
	app := NewApp(repo, nil, nil)

	first, err := app.Reload(context.Background())
	if err != nil {
		t.Fatal(err)
	}

	repo.err = errors.New("disk on fire")
	if _, err := app.Reload(context.Background()); err == nil {
		t.Fatal("expected reload error")
	}
	if app.State() != first {
		t.Fatal("failed reload replaced the active state")
	}
}

func TestAppStaleGenerationDiscarded(t *testing.T) {
	roster := testRoster(t)
	loader := &blockingLoader{
		release: make(chan *domain.Snapshot),
		started: make(chan struct{}, 2),
	}
	app := NewApp(loader, nil, nil)
	ctx := context.Background()

	slowErr := make(chan error, 1)
	go func() {
		_, err := app.Reload(ctx)
		slowErr <- err
	}()
	<-loader.started

	fastDone := make(chan *State, 1)
	go func() {
		st, err := app.Reload(ctx)
		if err != nil {
			t.Errorf("newer reload failed: %v", err)
		}
		fastDone <- st
	}()
	<-loader.started

	newer := &domain.Snapshot{Roster: roster, Locations: []domain.Location{loc(t, "New", "", 1, 1, "al")}}
	older := &domain.Snapshot{Roster: roster, Locations: []domain.Location{loc(t, "Old", "", 2, 2, "al")}}

	// Both loads are blocked; whichever receives first, the later generation must win.
	loader.release <- newer
	loader.release <- older

	fast := <-fastDone
	err := <-slowErr

	if fast == nil {
		t.Fatal("newer reload returned no state")
	}
	if app.State().Generation != 2 {
		t.Fatalf("active generation = %d, want 2", app.State().Generation)
	}
	if !errors.Is(err, ErrStaleGeneration) {
		t.Fatalf("older reload err = %v, want ErrStaleGeneration", err)
	}
}
