package ingestion

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"sync"
	"sync/atomic"
	"time"

	"github.com/google/uuid"
	"github.com/sony/gobreaker"

	"github.com/mr1hm/go-crop-advisor/internal/catalog"
	"github.com/mr1hm/go-crop-advisor/internal/config"
	internalgrpc "github.com/mr1hm/go-crop-advisor/internal/grpc"
	"github.com/mr1hm/go-crop-advisor/internal/metrics"
	"github.com/mr1hm/go-crop-advisor/internal/models"
	"github.com/mr1hm/go-crop-advisor/internal/repository"
	"github.com/mr1hm/go-crop-advisor/internal/worker"
)

type HealthReporter interface {
	SetCatalogServing(serving bool)
}

type breakerReporter interface {
	BreakerState() gobreaker.State
}

// Manager keeps the local catalog mirror in step with a catalog provider.
type Manager struct {
	cfg         *config.Config
	provider    catalog.Provider
	repo        repository.CatalogRepository
	broadcaster *internalgrpc.Broadcaster
	health      HealthReporter
	metrics     *metrics.Metrics
	pool        *worker.Pool[rowJob]
	wg          sync.WaitGroup

	ready atomic.Bool
	mu    sync.Mutex
	last  *models.CatalogEvent
}

func NewManager(cfg *config.Config, provider catalog.Provider, repo repository.CatalogRepository, broadcaster *internalgrpc.Broadcaster) *Manager {
	return &Manager{
		cfg:         cfg,
		provider:    provider,
		repo:        repo,
		broadcaster: broadcaster,
	}
}

func (m *Manager) SetHealth(h HealthReporter) { m.health = h }

func (m *Manager) SetMetrics(mt *metrics.Metrics) { m.metrics = mt }

func (m *Manager) Start(ctx context.Context) {
	m.pool = worker.NewPool("catalog", m.cfg.Worker.Count, m.cfg.Worker.BufferSize, processRow)
	m.pool.Start(ctx)

	if counts, err := m.repo.Counts(ctx); err == nil && counts.Districts > 0 {
		m.markReady()
		m.recordCounts(counts)
	}

	m.wg.Add(1)
	go m.runPoller(ctx, m.cfg.Catalog.PollInterval)
}

// SyncOnce mirrors the provider a single time without starting the poller.
func (m *Manager) SyncOnce(ctx context.Context) (*models.CatalogEvent, error) {
	m.pool = worker.NewPool("catalog", m.cfg.Worker.Count, m.cfg.Worker.BufferSize, processRow)
	m.pool.Start(ctx)
	defer m.pool.Stop()

	return m.Sync(ctx)
}

func (m *Manager) runPoller(ctx context.Context, interval time.Duration) {
	defer m.wg.Done()
	slog.Info("starting catalog poller", "source", m.provider.Name(), "interval", interval)

	ticker := time.NewTicker(interval)
	defer ticker.Stop()

	// Initial sync
	if _, err := m.Sync(ctx); err != nil && m.cfg.Catalog.SeedBuiltin && !m.ready.Load() {
		if _, err := m.Seed(ctx); err != nil {
			slog.Error("catalog seed failed", "error", err)
		}
	}

	for {
		select {
		case <-ctx.Done():
			slog.Info("catalog poller shutting down", "source", m.provider.Name())
			return
		case <-ticker.C:
			m.Sync(ctx)
		}
	}
}

// Sync mirrors the provider's current catalog into the repository and
// publishes the outcome. On failure the existing mirror is left as is.
func (m *Manager) Sync(ctx context.Context) (*models.CatalogEvent, error) {
	return m.syncFrom(ctx, m.provider, models.CatalogEventSynced)
}

// Seed loads the built-in catalog, used when the configured source is
// unreachable and nothing has been mirrored yet.
func (m *Manager) Seed(ctx context.Context) (*models.CatalogEvent, error) {
	return m.syncFrom(ctx, catalog.NewBuiltin(), models.CatalogEventSeeded)
}

func (m *Manager) syncFrom(ctx context.Context, p catalog.Provider, kind models.CatalogEventKind) (*models.CatalogEvent, error) {
	start := time.Now()
	slog.Debug("syncing catalog", "source", p.Name())

	changed, err := m.apply(ctx, p)
	m.recordBreaker(p)
	if m.metrics != nil {
		m.metrics.CatalogSync(p.Name(), time.Since(start), changed, err)
	}

	event := &models.CatalogEvent{
		ID:        uuid.NewString(),
		Kind:      kind,
		Source:    p.Name(),
		Changed:   changed,
		CreatedAt: time.Now().UTC(),
	}
	if err != nil {
		event.Kind = models.CatalogEventFailed
		event.Error = err.Error()
		slog.Error("catalog sync failed", "source", p.Name(), "error", err)
	} else {
		if kind == models.CatalogEventSynced && changed > 0 {
			event.Kind = models.CatalogEventChanged
		}
		m.markReady()
	}

	if counts, cerr := m.repo.Counts(ctx); cerr == nil {
		event.Districts, event.Crops, event.Baselines, event.Steps = counts.Districts, counts.Crops, counts.Suitability, counts.Steps
		m.recordCounts(counts)
	}

	m.mu.Lock()
	m.last = event
	m.mu.Unlock()

	if m.broadcaster != nil {
		m.broadcaster.Broadcast(event)
	}
	slog.Info("catalog sync complete", "source", p.Name(), "kind", event.Kind, "changed", changed, "duration", time.Since(start))
	return event, err
}

func (m *Manager) apply(ctx context.Context, p catalog.Provider) (int, error) {
	snap, err := catalog.Fetch(ctx, p)
	if err != nil {
		return 0, err
	}

	b := newBatch(len(snap.Districts) + len(snap.Crops) + len(snap.Suitability) + len(snap.Steps))
	submit := func(fn func(context.Context) (bool, error)) error {
		if err := m.pool.Submit(ctx, rowJob{upsert: fn, batch: b}); err != nil {
			b.done(false, err)
			return err
		}
		return nil
	}

	var submitErr error
	for _, d := range snap.Districts {
		submitErr = errors.Join(submitErr, submit(func(ctx context.Context) (bool, error) { return m.repo.UpsertDistrict(ctx, &d) }))
	}
	for _, c := range snap.Crops {
		submitErr = errors.Join(submitErr, submit(func(ctx context.Context) (bool, error) { return m.repo.UpsertCrop(ctx, &c) }))
	}
	for _, s := range snap.Suitability {
		submitErr = errors.Join(submitErr, submit(func(ctx context.Context) (bool, error) { return m.repo.UpsertSuitability(ctx, &s) }))
	}
	for _, st := range snap.Steps {
		submitErr = errors.Join(submitErr, submit(func(ctx context.Context) (bool, error) { return m.repo.UpsertCultivationStep(ctx, &st) }))
	}
	if submitErr != nil {
		return b.changedCount(), fmt.Errorf("submitting catalog rows: %w", submitErr)
	}

	if err := b.wait(ctx); err != nil {
		return b.changedCount(), err
	}
	if failed := b.failed.Load(); failed > 0 {
		return b.changedCount(), fmt.Errorf("%d of %d catalog rows failed to save: %w", failed, b.total, b.firstErr())
	}
	// TODO: prune mirrored rows that no longer exist upstream.
	return b.changedCount(), nil
}

func (m *Manager) markReady() {
	if m.ready.CompareAndSwap(false, true) && m.health != nil {
		m.health.SetCatalogServing(true)
	}
}

func (m *Manager) recordCounts(c repository.Counts) {
	m.metrics.SetCatalogRows("districts", c.Districts)
	m.metrics.SetCatalogRows("crops", c.Crops)
	m.metrics.SetCatalogRows("suitability", c.Suitability)
	m.metrics.SetCatalogRows("steps", c.Steps)
}

func (m *Manager) recordBreaker(p catalog.Provider) {
	if br, ok := p.(breakerReporter); ok {
		m.metrics.SetCircuitBreakerState("catalog-"+p.Name(), float64(br.BreakerState()))
	}
}

// Ready reports whether the mirror holds a complete catalog.
func (m *Manager) Ready() bool {
	return m.ready.Load()
}

// LastEvent returns the outcome of the most recent sync, or nil.
func (m *Manager) LastEvent() *models.CatalogEvent {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.last
}

func (m *Manager) Stop() {
	m.wg.Wait()
	if m.pool == nil {
		return
	}
	m.pool.Stop()
	saved, failed := m.pool.Stats()
	slog.Info("catalog manager stopped", "rows_saved", saved, "rows_failed", failed)
}
