package ingestion

import (
	"context"
	"errors"
	"sync"
	"sync/atomic"
	"testing"
	"time"

	"go.uber.org/goleak"

	"github.com/mr1hm/go-crop-advisor/internal/catalog"
	"github.com/mr1hm/go-crop-advisor/internal/config"
	internalgrpc "github.com/mr1hm/go-crop-advisor/internal/grpc"
	"github.com/mr1hm/go-crop-advisor/internal/models"
	"github.com/mr1hm/go-crop-advisor/internal/repository"
)

func TestMain(m *testing.M) {
	goleak.VerifyTestMain(m)
}

// mockCatalogRepo implements repository.CatalogRepository for testing
type mockCatalogRepo struct {
	mu          sync.Mutex
	districts   map[string]models.District
	crops       map[string]models.Crop
	suitability map[string]models.Suitability
	steps       map[string]models.CultivationStep
	upserts     atomic.Int64
	failCrops   bool
}

func newMockRepo() *mockCatalogRepo {
	return &mockCatalogRepo{
		districts:   make(map[string]models.District),
		crops:       make(map[string]models.Crop),
		suitability: make(map[string]models.Suitability),
		steps:       make(map[string]models.CultivationStep),
	}
}

func upsertMap[T comparable](mu *sync.Mutex, m map[string]T, id string, v T) bool {
	mu.Lock()
	defer mu.Unlock()
	if old, ok := m[id]; ok && old == v {
		return false
	}
	m[id] = v
	return true
}

func (m *mockCatalogRepo) UpsertDistrict(ctx context.Context, d *models.District) (bool, error) {
	m.upserts.Add(1)
	return upsertMap(&m.mu, m.districts, d.ID, *d), nil
}

func (m *mockCatalogRepo) UpsertCrop(ctx context.Context, c *models.Crop) (bool, error) {
	m.upserts.Add(1)
	if m.failCrops {
		return false, errors.New("disk full")
	}
	return upsertMap(&m.mu, m.crops, c.ID, *c), nil
}

func (m *mockCatalogRepo) UpsertSuitability(ctx context.Context, s *models.Suitability) (bool, error) {
	m.upserts.Add(1)
	return upsertMap(&m.mu, m.suitability, s.ID, *s), nil
}

func (m *mockCatalogRepo) UpsertCultivationStep(ctx context.Context, s *models.CultivationStep) (bool, error) {
	m.upserts.Add(1)
	return upsertMap(&m.mu, m.steps, s.ID, *s), nil
}

func (m *mockCatalogRepo) ListDistricts(ctx context.Context) ([]models.District, error) {
	return nil, nil
}

func (m *mockCatalogRepo) GetDistrict(ctx context.Context, nameOrID string) (*models.District, error) {
	return nil, repository.ErrNotFound
}

func (m *mockCatalogRepo) ListBaselines(ctx context.Context, opts repository.Filter) ([]models.CropBaseline, error) {
	return nil, nil
}

func (m *mockCatalogRepo) GetBaseline(ctx context.Context, district, crop string) (*models.CropBaseline, error) {
	return nil, repository.ErrNotFound
}

func (m *mockCatalogRepo) ListCultivationSteps(ctx context.Context, cropID string) ([]models.CultivationStep, error) {
	return nil, nil
}

func (m *mockCatalogRepo) Counts(ctx context.Context) (repository.Counts, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	return repository.Counts{
		Districts:   len(m.districts),
		Crops:       len(m.crops),
		Suitability: len(m.suitability),
		Steps:       len(m.steps),
	}, nil
}

type downProvider struct{ *catalog.Builtin }

func (downProvider) Name() string { return catalog.SourceREST }

func (downProvider) Districts(context.Context) ([]models.District, error) {
	return nil, errors.New("connection refused")
}

type fakeHealth struct{ serving atomic.Bool }

func (f *fakeHealth) SetCatalogServing(serving bool) { f.serving.Store(serving) }

func testConfig(seed bool) *config.Config {
	return &config.Config{
		Worker: config.WorkerConfig{
			Count:      4,
			BufferSize: 100,
		},
		Catalog: config.CatalogConfig{
			Source:       "builtin",
			PollInterval: time.Minute,
			SeedBuiltin:  seed,
		},
	}
}

func waitFor(t *testing.T, cond func() bool) {
	t.Helper()
	deadline := time.Now().Add(5 * time.Second)
	for !cond() {
		if time.Now().After(deadline) {
			t.Fatal("condition not met before deadline")
		}
		time.Sleep(5 * time.Millisecond)
	}
}

func TestManager_StartStop(t *testing.T) {
	repo := newMockRepo()
	broadcaster := internalgrpc.NewBroadcaster()
	defer broadcaster.Close()
	_, events := broadcaster.Subscribe()

	health := &fakeHealth{}
	mgr := NewManager(testConfig(false), catalog.NewBuiltin(), repo, broadcaster)
	mgr.SetHealth(health)

	ctx, cancel := context.WithCancel(context.Background())

	// Start should not block
	mgr.Start(ctx)

	select {
	case e := <-events:
		if e.Kind != models.CatalogEventChanged {
			t.Errorf("expected CHANGED event, got %s", e.Kind)
		}
		if e.Districts != 38 || e.Crops != 26 {
			t.Errorf("unexpected counts in event: %+v", e)
		}
		if e.Changed != 38+26+38*26+26*5 {
			t.Errorf("expected every row to be new, got %d changed", e.Changed)
		}
	case <-time.After(5 * time.Second):
		t.Fatal("timeout waiting for sync event")
	}

	if !mgr.Ready() || !health.serving.Load() {
		t.Error("expected manager to be ready and serving after first sync")
	}

	cancel()
	mgr.Stop()
}

func TestManager_ResyncReportsNoChanges(t *testing.T) {
	repo := newMockRepo()
	mgr := NewManager(testConfig(false), catalog.NewBuiltin(), repo, nil)

	ctx, cancel := context.WithCancel(context.Background())
	mgr.Start(ctx)
	waitFor(t, mgr.Ready)
	waitFor(t, func() bool { return mgr.LastEvent() != nil })

	e, err := mgr.Sync(ctx)
	if err != nil {
		t.Fatalf("Sync failed: %v", err)
	}
	if e.Kind != models.CatalogEventSynced || e.Changed != 0 {
		t.Errorf("expected unchanged SYNCED event, got %s with %d changed", e.Kind, e.Changed)
	}

	cancel()
	mgr.Stop()
}

func TestManager_SeedsWhenSourceIsDown(t *testing.T) {
	repo := newMockRepo()
	mgr := NewManager(testConfig(true), downProvider{catalog.NewBuiltin()}, repo, nil)

	ctx, cancel := context.WithCancel(context.Background())
	mgr.Start(ctx)

	waitFor(t, mgr.Ready)
	waitFor(t, func() bool {
		e := mgr.LastEvent()
		return e != nil && e.Kind == models.CatalogEventSeeded
	})

	counts, _ := repo.Counts(ctx)
	if counts.Districts != 38 {
		t.Errorf("expected 38 seeded districts, got %d", counts.Districts)
	}

	cancel()
	mgr.Stop()
}

func TestManager_FailedSyncKeepsNotReady(t *testing.T) {
	repo := newMockRepo()
	health := &fakeHealth{}
	mgr := NewManager(testConfig(false), downProvider{catalog.NewBuiltin()}, repo, nil)
	mgr.SetHealth(health)

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()
	mgr.Start(ctx)

	waitFor(t, func() bool { return mgr.LastEvent() != nil })

	e := mgr.LastEvent()
	if e.Kind != models.CatalogEventFailed || e.Error == "" {
		t.Errorf("expected FAILED event with error, got %+v", e)
	}
	if mgr.Ready() || health.serving.Load() {
		t.Error("manager should not be ready after a failed first sync")
	}

	cancel()
	mgr.Stop()
}

func TestManager_RowFailuresFailTheSync(t *testing.T) {
	repo := newMockRepo()
	repo.failCrops = true
	mgr := NewManager(testConfig(false), catalog.NewBuiltin(), repo, nil)

	ctx, cancel := context.WithCancel(context.Background())
	mgr.Start(ctx)
	waitFor(t, func() bool { return mgr.LastEvent() != nil })

	e := mgr.LastEvent()
	if e.Kind != models.CatalogEventFailed {
		t.Errorf("expected FAILED event, got %s", e.Kind)
	}
	if int(repo.upserts.Load()) != 38+26+38*26+26*5 {
		t.Errorf("expected every row to be attempted, got %d", repo.upserts.Load())
	}

	cancel()
	mgr.Stop()
}

func TestManager_StopWithoutStart(t *testing.T) {
	mgr := NewManager(testConfig(false), catalog.NewBuiltin(), newMockRepo(), nil)
	mgr.Stop()
}

func TestManager_GracefulShutdown(t *testing.T) {
	repo := newMockRepo()
	mgr := NewManager(testConfig(true), catalog.NewBuiltin(), repo, nil)

	ctx, cancel := context.WithCancel(context.Background())
	mgr.Start(ctx)

	// Immediately cancel
	cancel()

	// Stop should wait for in-flight work
	done := make(chan struct{})
	go func() {
		mgr.Stop()
		close(done)
	}()

	select {
	case <-done:
		// Good, stopped gracefully
	case <-time.After(5 * time.Second):
		t.Fatal("manager.Stop() timed out - possible goroutine leak")
	}
}

func TestManager_MarksReadyFromExistingMirror(t *testing.T) {
	repo := newMockRepo()
	repo.districts["madurai"] = models.District{ID: "madurai", Name: "Madurai"}

	health := &fakeHealth{}
	mgr := NewManager(testConfig(false), downProvider{catalog.NewBuiltin()}, repo, nil)
	mgr.SetHealth(health)

	ctx, cancel := context.WithCancel(context.Background())
	mgr.Start(ctx)

	if !mgr.Ready() || !health.serving.Load() {
		t.Error("expected a non-empty mirror to be served immediately")
	}

	cancel()
	mgr.Stop()
}

func TestManager_SyncOnce(t *testing.T) {
	repo := newMockRepo()
	mgr := NewManager(testConfig(false), catalog.NewBuiltin(), repo, nil)

	e, err := mgr.SyncOnce(context.Background())
	if err != nil {
		t.Fatalf("SyncOnce failed: %v", err)
	}
	if e.Kind != models.CatalogEventChanged {
		t.Errorf("expected CHANGED event on first sync, got %s", e.Kind)
	}
	if !mgr.Ready() {
		t.Error("expected manager to be ready")
	}
	if e.Districts != 38 || e.Crops != 26 {
		t.Errorf("expected 38 districts and 26 crops, got %d and %d", e.Districts, e.Crops)
	}
}
