// Package store implements the session-scoped in-memory ledger state and
// its reconciliation with the remote persistence layer. Writes are
// optimistic: local state changes immediately and the remote write is
// queued on an outbox that preserves per-session order. Failed writes stay
// inspectable and retryable; local state is never rolled back for a remote
// failure.
package store

import (
	"context"
	"sync"

	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"

	"github.com/oxidacionz/smartbytes-ledger-go/internal/domain"
	"github.com/oxidacionz/smartbytes-ledger-go/internal/infra/observability"
	"github.com/oxidacionz/smartbytes-ledger-go/internal/port"
)

// Store holds all ledger collections for one owner session. Every
// collection is guarded by the same mutex; a snapshot accessor returns a
// copy, never the backing slice.
type Store struct {
	ownerID  string
	remote   port.PersistenceStore
	notifier port.NotificationSink
	outbox   *Outbox
	logger   *zap.Logger
	metrics  *observability.Metrics

	mu       sync.RWMutex
	closed   bool
	status   domain.SyncStatus
	items    []domain.LedgerItem
	assets   []domain.PhysicalAsset
	events   []domain.SpecialEvent
	goals    []domain.FinancialGoal
	entities []domain.DirectoryEntity
	shopping []domain.ShoppingItem
}

// NewStore creates a session store for ownerID and starts its outbox
// worker. The caller owns the lifecycle and must call Close.
func NewStore(ownerID string, remote port.PersistenceStore, notifier port.NotificationSink, metrics *observability.Metrics, logger *zap.Logger) *Store {
	s := &Store{
		ownerID:  ownerID,
		remote:   remote,
		notifier: notifier,
		logger:   logger,
		metrics:  metrics,
		status:   domain.SyncSyncing,
	}
	s.outbox = NewOutbox(metrics, logger)
	return s
}

// OwnerID returns the owner this session belongs to.
func (s *Store) OwnerID() string {
	return s.ownerID
}

// Status returns the coarse sync status of the session.
func (s *Store) Status() domain.SyncStatus {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.status
}

// Outbox exposes the reconciliation queue for inspection and retry.
func (s *Store) Outbox() *Outbox {
	return s.outbox
}

// Close tears the session down. The outbox worker drains its queue and
// stops; subsequent writes fail with ErrSessionClosed.
func (s *Store) Close() {
	s.mu.Lock()
	if s.closed {
		s.mu.Unlock()
		return
	}
	s.closed = true
	s.mu.Unlock()

	s.outbox.Stop()
	s.logger.Info("session store closed", zap.String("owner_id", s.ownerID))
}

// Load replaces every local collection with the remote state. Queued
// writes are flushed first, so a reload can never resurrect an entity
// whose delete is still in flight. All six collections are fetched
// concurrently; any failure leaves local state untouched and marks the
// session as errored.
func (s *Store) Load(ctx context.Context) error {
	s.mu.Lock()
	if s.closed {
		s.mu.Unlock()
		return &domain.ErrSessionClosed{OwnerID: s.ownerID}
	}
	s.status = domain.SyncSyncing
	s.mu.Unlock()

	if err := s.outbox.Drain(ctx); err != nil {
		s.markError()
		s.metrics.IncrSync("load", "error")
		s.logger.Error("session load aborted while flushing queued writes",
			zap.String("owner_id", s.ownerID),
			zap.Error(err),
		)
		return err
	}

	var (
		items    []domain.LedgerItem
		assets   []domain.PhysicalAsset
		events   []domain.SpecialEvent
		goals    []domain.FinancialGoal
		entities []domain.DirectoryEntity
		shopping []domain.ShoppingItem
	)

	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() (err error) {
		items, err = s.remote.GetAllItems(gctx, s.ownerID)
		return err
	})
	g.Go(func() (err error) {
		assets, err = s.remote.GetAllAssets(gctx, s.ownerID)
		return err
	})
	g.Go(func() (err error) {
		events, err = s.remote.GetAllEvents(gctx, s.ownerID)
		return err
	})
	g.Go(func() (err error) {
		goals, err = s.remote.GetAllGoals(gctx, s.ownerID)
		return err
	})
	g.Go(func() (err error) {
		entities, err = s.remote.GetAllEntities(gctx, s.ownerID)
		return err
	})
	g.Go(func() (err error) {
		shopping, err = s.remote.GetAllShopping(gctx, s.ownerID)
		return err
	})

	if err := g.Wait(); err != nil {
		s.mu.Lock()
		s.status = domain.SyncError
		s.mu.Unlock()
		s.metrics.IncrSync("load", "error")
		s.logger.Error("session load failed",
			zap.String("owner_id", s.ownerID),
			zap.Error(err),
		)
		return err
	}

	s.mu.Lock()
	s.items = items
	s.assets = assets
	s.events = events
	s.goals = goals
	s.entities = entities
	s.shopping = shopping
	s.status = domain.SyncSynced
	s.mu.Unlock()

	s.metrics.IncrSync("load", "ok")
	s.logger.Info("session loaded",
		zap.String("owner_id", s.ownerID),
		zap.Int("items", len(items)),
		zap.Int("assets", len(assets)),
		zap.Int("goals", len(goals)),
	)
	return nil
}

// Items returns a copy of the ledger-item collection.
func (s *Store) Items() []domain.LedgerItem {
	s.mu.RLock()
	defer s.mu.RUnlock()
	out := make([]domain.LedgerItem, len(s.items))
	copy(out, s.items)
	return out
}

// Assets returns a copy of the physical-asset collection.
func (s *Store) Assets() []domain.PhysicalAsset {
	s.mu.RLock()
	defer s.mu.RUnlock()
	out := make([]domain.PhysicalAsset, len(s.assets))
	copy(out, s.assets)
	return out
}

// Events returns a copy of the calendar-event collection.
func (s *Store) Events() []domain.SpecialEvent {
	s.mu.RLock()
	defer s.mu.RUnlock()
	out := make([]domain.SpecialEvent, len(s.events))
	copy(out, s.events)
	return out
}

// Goals returns a copy of the goal collection.
func (s *Store) Goals() []domain.FinancialGoal {
	s.mu.RLock()
	defer s.mu.RUnlock()
	out := make([]domain.FinancialGoal, len(s.goals))
	copy(out, s.goals)
	return out
}

// Entities returns a copy of the directory collection.
func (s *Store) Entities() []domain.DirectoryEntity {
	s.mu.RLock()
	defer s.mu.RUnlock()
	out := make([]domain.DirectoryEntity, len(s.entities))
	copy(out, s.entities)
	return out
}

// Shopping returns a copy of the discretionary-spend log.
func (s *Store) Shopping() []domain.ShoppingItem {
	s.mu.RLock()
	defer s.mu.RUnlock()
	out := make([]domain.ShoppingItem, len(s.shopping))
	copy(out, s.shopping)
	return out
}

// ItemByID returns the ledger item with the given id.
func (s *Store) ItemByID(id string) (domain.LedgerItem, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	for _, it := range s.items {
		if it.ID == id {
			return it, nil
		}
	}
	return domain.LedgerItem{}, &domain.ErrNotFound{Resource: "item", ID: id}
}

// AssetByID returns the physical asset with the given id.
func (s *Store) AssetByID(id string) (domain.PhysicalAsset, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	for _, a := range s.assets {
		if a.ID == id {
			return a, nil
		}
	}
	return domain.PhysicalAsset{}, &domain.ErrNotFound{Resource: "asset", ID: id}
}

// GoalByID returns the goal with the given id.
func (s *Store) GoalByID(id string) (domain.FinancialGoal, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	for _, g := range s.goals {
		if g.ID == id {
			return g, nil
		}
	}
	return domain.FinancialGoal{}, &domain.ErrNotFound{Resource: "goal", ID: id}
}

// markError flips the session to the error status.
func (s *Store) markError() {
	s.mu.Lock()
	s.status = domain.SyncError
	s.mu.Unlock()
}

// guardWrite acquires the write lock, failing when the session is closed.
// The caller must unlock.
func (s *Store) guardWrite() error {
	s.mu.Lock()
	if s.closed {
		s.mu.Unlock()
		return &domain.ErrSessionClosed{OwnerID: s.ownerID}
	}
	return nil
}
