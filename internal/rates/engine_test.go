package rates

import (
	"context"
	"errors"
	"sync"
	"testing"
	"time"

	"go.uber.org/zap"

	"github.com/oxidacionz/smartbytes-ledger-go/internal/domain"
	"github.com/oxidacionz/smartbytes-ledger-go/internal/infra/observability"
)

type mockRateStore struct {
	mu         sync.Mutex
	stored     *domain.RateSet
	getErr     error
	updateErr  error
	updateSeen []domain.RateSet
	updateHook func()
}

func (m *mockRateStore) GetRates(ctx context.Context) (*domain.RateSet, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.getErr != nil {
		return nil, m.getErr
	}
	if m.stored == nil {
		return nil, nil
	}
	r := *m.stored
	return &r, nil
}

func (m *mockRateStore) UpdateRates(ctx context.Context, rates domain.RateSet) error {
	m.mu.Lock()
	hook := m.updateHook
	if m.updateErr != nil {
		m.mu.Unlock()
		return m.updateErr
	}
	m.updateSeen = append(m.updateSeen, rates)
	m.mu.Unlock()

	if hook != nil {
		hook()
	}
	return nil
}

func (m *mockRateStore) updates() []domain.RateSet {
	m.mu.Lock()
	defer m.mu.Unlock()
	out := make([]domain.RateSet, len(m.updateSeen))
	copy(out, m.updateSeen)
	return out
}

type mockSource struct {
	mu       sync.Mutex
	official *domain.RateSet
	parallel *domain.RateSet
	err      error
	calls    int
}

func (m *mockSource) FetchOfficial(ctx context.Context) (*domain.RateSet, error) {
	m.mu.Lock()
	m.calls++
	m.mu.Unlock()
	if m.err != nil {
		return nil, m.err
	}
	return m.official, nil
}

func (m *mockSource) FetchParallel(ctx context.Context) (*domain.RateSet, error) {
	m.mu.Lock()
	m.calls++
	m.mu.Unlock()
	if m.err != nil {
		return nil, m.err
	}
	return m.parallel, nil
}

func (m *mockSource) fetchCount() int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.calls
}

type mockSink struct {
	mu            sync.Mutex
	notifications []domain.Notification
}

func (m *mockSink) Publish(n domain.Notification) {
	m.mu.Lock()
	m.notifications = append(m.notifications, n)
	m.mu.Unlock()
}

func (m *mockSink) severities() []domain.Severity {
	m.mu.Lock()
	defer m.mu.Unlock()
	out := make([]domain.Severity, 0, len(m.notifications))
	for _, n := range m.notifications {
		out = append(out, n.Severity)
	}
	return out
}

func newEngine(store *mockRateStore, official, parallel *mockSource, sink *mockSink) *Engine {
	return NewEngine(store, official, parallel, sink, observability.NewMetrics(), zap.NewNop())
}

func TestPassiveRefreshLoadsStoredRecord(t *testing.T) {
	store := &mockRateStore{stored: &domain.RateSet{
		OfficialUSD: 45.5, ParallelBuy: 47, UpdatedAt: time.Now(),
	}}
	e := newEngine(store, &mockSource{}, &mockSource{}, &mockSink{})

	e.PassiveRefresh(context.Background())

	if got := e.Current(); got.OfficialUSD != 45.5 || got.ParallelBuy != 47 {
		t.Fatalf("unexpected snapshot: %+v", got)
	}
	if e.Status() != domain.SyncSynced {
		t.Fatalf("expected synced, got %s", e.Status())
	}
}

func TestPassiveRefreshFailureIsSilent(t *testing.T) {
	store := &mockRateStore{getErr: errors.New("down")}
	e := newEngine(store, &mockSource{}, &mockSource{}, &mockSink{})

	e.PassiveRefresh(context.Background())

	if !e.Current().IsZero() {
		t.Fatal("failed passive refresh must not invent rates")
	}
}

func TestForceRefreshPrefersNewerStoredRecord(t *testing.T) {
	store := &mockRateStore{stored: &domain.RateSet{
		OfficialUSD: 46, UpdatedAt: time.Now(),
	}}
	official := &mockSource{err: errors.New("must not be called")}
	sink := &mockSink{}
	e := newEngine(store, official, official, sink)

	got, err := e.ForceRefresh(context.Background())
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if got.OfficialUSD != 46 {
		t.Fatalf("expected stored rate, got %+v", got)
	}
	if e.Status() != domain.SyncSynced {
		t.Fatalf("expected synced, got %s", e.Status())
	}
}

func TestForceRefreshScrapesBothSourcesWhenStoreEmpty(t *testing.T) {
	now := time.Now().UTC()
	store := &mockRateStore{}
	official := &mockSource{official: &domain.RateSet{OfficialUSD: 45.5, OfficialEUR: 49.14, UpdatedAt: now}}
	parallel := &mockSource{parallel: &domain.RateSet{ParallelBuy: 47, ParallelSell: 48, UpdatedAt: now}}
	sink := &mockSink{}
	e := newEngine(store, official, parallel, sink)

	got, err := e.ForceRefresh(context.Background())
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if got.OfficialUSD != 45.5 || got.ParallelSell != 48 {
		t.Fatalf("expected merged scrape, got %+v", got)
	}
	if !got.UpdatedAt.Equal(now) {
		t.Fatalf("expected scrape timestamp, got %v", got.UpdatedAt)
	}
	if e.Status() != domain.SyncSynced {
		t.Fatalf("expected synced, got %s", e.Status())
	}
	if len(store.updates()) != 1 {
		t.Fatalf("refreshed rates must be persisted, got %d updates", len(store.updates()))
	}
	sev := sink.severities()
	if len(sev) != 1 || sev[0] != domain.SeverityInfo {
		t.Fatalf("expected one info notification, got %v", sev)
	}
}

func TestForceRefreshPartialScrapeStillSucceeds(t *testing.T) {
	store := &mockRateStore{}
	official := &mockSource{err: errors.New("bank is down")}
	parallel := &mockSource{parallel: &domain.RateSet{ParallelBuy: 47, UpdatedAt: time.Now()}}
	e := newEngine(store, official, parallel, &mockSink{})

	got, err := e.ForceRefresh(context.Background())
	if err != nil {
		t.Fatalf("partial scrape must succeed: %v", err)
	}
	if got.ParallelBuy != 47 || got.OfficialUSD != 0 {
		t.Fatalf("unexpected snapshot: %+v", got)
	}
	if e.Status() != domain.SyncSynced {
		t.Fatalf("expected synced, got %s", e.Status())
	}
}

func TestForceRefreshTotalFailureKeepsPriorRates(t *testing.T) {
	store := &mockRateStore{}
	broken := &mockSource{err: errors.New("down")}
	sink := &mockSink{}
	e := newEngine(store, broken, broken, sink)

	// Seed a prior snapshot through a manual push.
	if _, err := e.Push(context.Background(), domain.RateSet{OfficialUSD: 44}); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	got, err := e.ForceRefresh(context.Background())
	if err == nil {
		t.Fatal("expected error when every source fails")
	}
	if got.OfficialUSD != 44 {
		t.Fatalf("failed refresh must keep prior rates, got %+v", got)
	}
	if e.Status() != domain.SyncError {
		t.Fatalf("expected error status, got %s", e.Status())
	}
	sev := sink.severities()
	if len(sev) != 1 || sev[0] != domain.SeverityWarning {
		t.Fatalf("expected one warning notification, got %v", sev)
	}
}

func TestPushMergesAndSurvivesRemoteFailure(t *testing.T) {
	store := &mockRateStore{updateErr: errors.New("down")}
	e := newEngine(store, &mockSource{}, &mockSource{}, &mockSink{})

	got, err := e.Push(context.Background(), domain.RateSet{ParallelBuy: 50})
	if err != nil {
		t.Fatalf("push must survive a remote failure: %v", err)
	}
	if got.ParallelBuy != 50 {
		t.Fatalf("unexpected snapshot: %+v", got)
	}
	if e.Status() != domain.SyncSynced {
		t.Fatalf("expected synced, got %s", e.Status())
	}
}

func TestPushRejectsInvalidRates(t *testing.T) {
	e := newEngine(&mockRateStore{}, &mockSource{}, &mockSource{}, &mockSink{})

	if _, err := e.Push(context.Background(), domain.RateSet{OfficialUSD: -1}); err == nil {
		t.Fatal("expected error for negative rate")
	}
	if _, err := e.Push(context.Background(), domain.RateSet{}); err == nil {
		t.Fatal("expected error for empty push")
	}
}

func TestRunTicksStayPassive(t *testing.T) {
	store := &mockRateStore{getErr: errors.New("down")}
	source := &mockSource{err: errors.New("must not be called")}
	e := newEngine(store, source, source, &mockSink{})

	// Seed a snapshot so a misbehaving tick would have state to clobber.
	if _, err := e.Push(context.Background(), domain.RateSet{OfficialUSD: 44}); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	ctx, cancel := context.WithCancel(context.Background())
	done := make(chan struct{})
	go func() {
		e.Run(ctx, 5*time.Millisecond)
		close(done)
	}()

	time.Sleep(50 * time.Millisecond)
	cancel()
	<-done

	if n := source.fetchCount(); n != 0 {
		t.Fatalf("periodic ticks must not scrape live sources, got %d calls", n)
	}
	if e.Status() != domain.SyncSynced {
		t.Fatalf("failed ticks must not flip the status, got %s", e.Status())
	}
	if got := e.Current(); got.OfficialUSD != 44 {
		t.Fatalf("failed ticks must keep the snapshot, got %+v", got)
	}
}

func TestPushSignalsSyncingWhilePersisting(t *testing.T) {
	store := &mockRateStore{}
	e := newEngine(store, &mockSource{}, &mockSource{}, &mockSink{})

	var during domain.SyncStatus
	store.updateHook = func() { during = e.Status() }

	if _, err := e.Push(context.Background(), domain.RateSet{OfficialUSD: 45}); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if during != domain.SyncSyncing {
		t.Fatalf("expected syncing during the remote write, got %s", during)
	}
	if e.Status() != domain.SyncSynced {
		t.Fatalf("expected synced after push, got %s", e.Status())
	}
}

func TestRunStopsOnContextCancel(t *testing.T) {
	e := newEngine(&mockRateStore{}, &mockSource{err: errors.New("down")}, &mockSource{err: errors.New("down")}, &mockSink{})

	ctx, cancel := context.WithCancel(context.Background())
	done := make(chan struct{})
	go func() {
		e.Run(ctx, 10*time.Millisecond)
		close(done)
	}()

	time.Sleep(30 * time.Millisecond)
	cancel()

	select {
	case <-done:
	case <-time.After(time.Second):
		t.Fatal("Run did not stop on cancel")
	}
}
