// Package session tracks one live session per owner. A session bundles
// the state every request needs: the optimistic store and the settlement
// processor bound to it. Sessions are created on first use and torn down
// explicitly; nothing here is a process-wide singleton.
package session

import (
	"context"
	"sync"
	"time"

	"go.uber.org/zap"

	"github.com/oxidacionz/smartbytes-ledger-go/internal/domain"
	"github.com/oxidacionz/smartbytes-ledger-go/internal/infra/observability"
	"github.com/oxidacionz/smartbytes-ledger-go/internal/port"
	"github.com/oxidacionz/smartbytes-ledger-go/internal/settlement"
	"github.com/oxidacionz/smartbytes-ledger-go/internal/store"
)

// Session is the per-owner working set.
type Session struct {
	OwnerID    string
	Store      *store.Store
	Settlement *settlement.Processor
	OpenedAt   time.Time
}

// Registry creates and tracks sessions.
type Registry struct {
	remote   port.PersistenceStore
	notifier port.NotificationSink
	metrics  *observability.Metrics
	logger   *zap.Logger

	mu       sync.Mutex
	sessions map[string]*Session
}

// NewRegistry creates an empty registry. The collaborators are shared by
// every session it opens.
func NewRegistry(remote port.PersistenceStore, notifier port.NotificationSink, metrics *observability.Metrics, logger *zap.Logger) *Registry {
	return &Registry{
		remote:   remote,
		notifier: notifier,
		metrics:  metrics,
		logger:   logger,
		sessions: make(map[string]*Session),
	}
}

// Open returns the owner's session, creating and loading it on first use.
// A failed initial load still returns a usable session: the store reports
// the error status and serves whatever state it holds until the next load.
func (r *Registry) Open(ctx context.Context, ownerID string) (*Session, error) {
	r.mu.Lock()
	if sess, ok := r.sessions[ownerID]; ok {
		r.mu.Unlock()
		return sess, nil
	}

	s := store.NewStore(ownerID, r.remote, r.notifier, r.metrics, r.logger)
	sess := &Session{
		OwnerID:    ownerID,
		Store:      s,
		Settlement: settlement.NewProcessor(s, r.notifier, r.metrics, r.logger),
		OpenedAt:   time.Now().UTC(),
	}
	r.sessions[ownerID] = sess
	r.mu.Unlock()

	if err := s.Load(ctx); err != nil {
		r.logger.Warn("session opened with failed initial load",
			zap.String("owner_id", ownerID),
			zap.Error(err),
		)
		return sess, err
	}

	r.logger.Info("session opened", zap.String("owner_id", ownerID))
	return sess, nil
}

// Get returns an already open session.
func (r *Registry) Get(ownerID string) (*Session, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	if sess, ok := r.sessions[ownerID]; ok {
		return sess, nil
	}
	return nil, &domain.ErrNotFound{Resource: "session", ID: ownerID}
}

// Close tears down the owner's session if one is open.
func (r *Registry) Close(ownerID string) {
	r.mu.Lock()
	sess, ok := r.sessions[ownerID]
	delete(r.sessions, ownerID)
	r.mu.Unlock()

	if ok {
		sess.Store.Close()
	}
}

// CloseAll tears down every session. Used on shutdown so outboxes drain.
func (r *Registry) CloseAll() {
	r.mu.Lock()
	sessions := make([]*Session, 0, len(r.sessions))
	for _, sess := range r.sessions {
		sessions = append(sessions, sess)
	}
	r.sessions = make(map[string]*Session)
	r.mu.Unlock()

	for _, sess := range sessions {
		sess.Store.Close()
	}
}
