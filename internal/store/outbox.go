package store

import (
	"context"
	"sync"
	"time"

	"go.uber.org/zap"

	"github.com/oxidacionz/smartbytes-ledger-go/internal/infra/observability"
)

// applyTimeout bounds a single remote write. The originating request has
// already returned by the time the worker runs, so the op carries its own
// deadline instead of a request context.
const applyTimeout = 15 * time.Second

// Operation is one queued remote write. Apply carries the bound remote
// call; the rest is bookkeeping for inspection.
type Operation struct {
	ID         string
	Kind       string // item, asset, event, goal, directory, shopping
	Op         string // add, update, delete
	EntityID   string
	EnqueuedAt time.Time
	Attempts   int
	LastError  string

	apply func(ctx context.Context) error
}

// QueuedWrite is the inspection view of an Operation.
type QueuedWrite struct {
	ID         string    `json:"id"`
	Kind       string    `json:"kind"`
	Op         string    `json:"op"`
	EntityID   string    `json:"entity_id"`
	EnqueuedAt time.Time `json:"enqueued_at"`
	Attempts   int       `json:"attempts"`
	LastError  string    `json:"last_error,omitempty"`
}

func (o *Operation) view() QueuedWrite {
	return QueuedWrite{
		ID:         o.ID,
		Kind:       o.Kind,
		Op:         o.Op,
		EntityID:   o.EntityID,
		EnqueuedAt: o.EnqueuedAt,
		Attempts:   o.Attempts,
		LastError:  o.LastError,
	}
}

// Outbox is the per-session reconciliation queue. A single worker drains
// it in FIFO order, which preserves the order writes were applied locally.
// An operation that fails is parked on the failed list instead of being
// dropped, where it can be inspected and re-queued.
type Outbox struct {
	mu       sync.Mutex
	queue    []*Operation
	failed   []*Operation
	inFlight bool
	wake     chan struct{}
	done     chan struct{}
	stopped  bool

	logger  *zap.Logger
	metrics *observability.Metrics
}

// NewOutbox creates an outbox and starts its worker goroutine.
func NewOutbox(metrics *observability.Metrics, logger *zap.Logger) *Outbox {
	o := &Outbox{
		wake:    make(chan struct{}, 1),
		done:    make(chan struct{}),
		logger:  logger,
		metrics: metrics,
	}
	go o.run()
	return o
}

// Enqueue queues a remote write. Returns false when the outbox is stopped.
func (o *Outbox) Enqueue(id, kind, op, entityID string, apply func(ctx context.Context) error) bool {
	o.mu.Lock()
	if o.stopped {
		o.mu.Unlock()
		return false
	}
	o.queue = append(o.queue, &Operation{
		ID:         id,
		Kind:       kind,
		Op:         op,
		EntityID:   entityID,
		EnqueuedAt: time.Now().UTC(),
		apply:      apply,
	})
	o.metrics.SetOutboxDepth(len(o.queue))
	o.mu.Unlock()

	o.signal()
	return true
}

// Pending returns the writes still waiting to be applied, in order.
func (o *Outbox) Pending() []QueuedWrite {
	o.mu.Lock()
	defer o.mu.Unlock()
	out := make([]QueuedWrite, 0, len(o.queue))
	for _, op := range o.queue {
		out = append(out, op.view())
	}
	return out
}

// Failed returns the writes that exhausted their attempt and were parked.
func (o *Outbox) Failed() []QueuedWrite {
	o.mu.Lock()
	defer o.mu.Unlock()
	out := make([]QueuedWrite, 0, len(o.failed))
	for _, op := range o.failed {
		out = append(out, op.view())
	}
	return out
}

// Retry moves every parked write back to the front of the queue, ahead of
// newer pending writes, so the original application order is kept.
func (o *Outbox) Retry() int {
	o.mu.Lock()
	n := len(o.failed)
	if n > 0 {
		requeued := make([]*Operation, 0, n+len(o.queue))
		requeued = append(requeued, o.failed...)
		requeued = append(requeued, o.queue...)
		o.queue = requeued
		o.failed = nil
		o.metrics.SetOutboxDepth(len(o.queue))
	}
	o.mu.Unlock()

	if n > 0 {
		o.signal()
	}
	return n
}

// Stop drains the queue and stops the worker. Blocks until the worker has
// exited; writes enqueued after Stop are rejected.
func (o *Outbox) Stop() {
	o.mu.Lock()
	if o.stopped {
		o.mu.Unlock()
		return
	}
	o.stopped = true
	o.mu.Unlock()

	o.signal()
	<-o.done
}

func (o *Outbox) signal() {
	select {
	case o.wake <- struct{}{}:
	default:
	}
}

func (o *Outbox) run() {
	defer close(o.done)

	for {
		o.mu.Lock()
		if len(o.queue) == 0 {
			stopped := o.stopped
			o.mu.Unlock()
			if stopped {
				return
			}
			<-o.wake
			continue
		}
		op := o.queue[0]
		o.queue = o.queue[1:]
		o.inFlight = true
		o.metrics.SetOutboxDepth(len(o.queue))
		o.mu.Unlock()

		o.execute(op)

		o.mu.Lock()
		o.inFlight = false
		o.mu.Unlock()
	}
}

// Drain blocks until every queued write has been attempted or ctx ends.
// Writes that fail stay parked on the failed list; draining only waits
// out the queue and the write in flight.
func (o *Outbox) Drain(ctx context.Context) error {
	for {
		o.mu.Lock()
		idle := len(o.queue) == 0 && !o.inFlight
		o.mu.Unlock()
		if idle {
			return nil
		}

		select {
		case <-ctx.Done():
			return ctx.Err()
		case <-time.After(5 * time.Millisecond):
		}
	}
}

func (o *Outbox) execute(op *Operation) {
	ctx, cancel := context.WithTimeout(context.Background(), applyTimeout)
	defer cancel()

	op.Attempts++
	if err := op.apply(ctx); err != nil {
		op.LastError = err.Error()
		o.mu.Lock()
		o.failed = append(o.failed, op)
		o.mu.Unlock()

		o.metrics.IncrOutboxFailure(op.Kind)
		o.logger.Warn("outbox: remote write failed",
			zap.String("kind", op.Kind),
			zap.String("op", op.Op),
			zap.String("entity_id", op.EntityID),
			zap.Int("attempts", op.Attempts),
			zap.Error(err),
		)
		return
	}

	o.logger.Debug("outbox: remote write applied",
		zap.String("kind", op.Kind),
		zap.String("op", op.Op),
		zap.String("entity_id", op.EntityID),
	)
}
