// Package rates owns the process-wide exchange-rate snapshot: loading it
// from the shared remote record, refreshing it from the two live sources,
// and accepting manual pushes. The snapshot only ever improves; a failed
// refresh never blanks a rate that was previously known.
package rates

import (
	"context"
	"fmt"
	"sync"
	"time"

	"go.uber.org/zap"

	"github.com/oxidacionz/smartbytes-ledger-go/internal/domain"
	"github.com/oxidacionz/smartbytes-ledger-go/internal/infra/observability"
	"github.com/oxidacionz/smartbytes-ledger-go/internal/port"
)

// Engine holds the current rate snapshot and coordinates its refresh.
type Engine struct {
	store    port.RateStore
	official port.OfficialRateSource
	parallel port.ParallelRateSource
	notifier port.NotificationSink
	metrics  *observability.Metrics
	logger   *zap.Logger

	mu      sync.RWMutex
	current domain.RateSet
	status  domain.SyncStatus
}

// NewEngine creates a rate engine. The snapshot starts empty; call
// PassiveRefresh or ForceRefresh to populate it.
func NewEngine(store port.RateStore, official port.OfficialRateSource, parallel port.ParallelRateSource, notifier port.NotificationSink, metrics *observability.Metrics, logger *zap.Logger) *Engine {
	return &Engine{
		store:    store,
		official: official,
		parallel: parallel,
		notifier: notifier,
		metrics:  metrics,
		logger:   logger,
		status:   domain.SyncSyncing,
	}
}

// Current returns the rate snapshot.
func (e *Engine) Current() domain.RateSet {
	e.mu.RLock()
	defer e.mu.RUnlock()
	return e.current
}

// Status returns the sync status of the snapshot.
func (e *Engine) Status() domain.SyncStatus {
	e.mu.RLock()
	defer e.mu.RUnlock()
	return e.status
}

// PassiveRefresh loads the shared remote record if one exists. Failures
// are silent: the caller falls back to whatever snapshot is already held.
func (e *Engine) PassiveRefresh(ctx context.Context) {
	stored, err := e.store.GetRates(ctx)
	if err != nil {
		e.logger.Debug("rates: stored record unavailable", zap.Error(err))
		return
	}
	if stored == nil || stored.IsZero() {
		return
	}

	e.mu.Lock()
	e.current = e.current.Merge(*stored)
	e.status = domain.SyncSynced
	e.mu.Unlock()
}

// ForceRefresh refreshes the snapshot and notifies the user of the
// outcome. The shared record is preferred when it is newer than the
// current snapshot; otherwise both live sources are scraped.
func (e *Engine) ForceRefresh(ctx context.Context) (domain.RateSet, error) {
	return e.refresh(ctx, true)
}

// Run reloads the shared record on a fixed interval until ctx is
// cancelled. Ticks are passive: they never hit the live sources and a
// failed tick leaves the snapshot and status untouched.
func (e *Engine) Run(ctx context.Context, interval time.Duration) {
	ticker := time.NewTicker(interval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			e.PassiveRefresh(ctx)
		}
	}
}

func (e *Engine) refresh(ctx context.Context, notify bool) (domain.RateSet, error) {
	e.mu.Lock()
	e.status = domain.SyncSyncing
	prior := e.current
	e.mu.Unlock()

	// Another client may have already scraped today. A stored record
	// newer than the snapshot wins without touching the live sources.
	if stored, err := e.store.GetRates(ctx); err == nil && stored != nil &&
		!stored.IsZero() && stored.UpdatedAt.After(prior.UpdatedAt) {
		merged := prior.Merge(*stored)
		e.commit(merged, notify, "Rates loaded from the shared record.")
		return merged, nil
	}

	var (
		wg          sync.WaitGroup
		official    *domain.RateSet
		parallel    *domain.RateSet
		officialErr error
		parallelErr error
	)
	wg.Add(2)
	go func() {
		defer wg.Done()
		official, officialErr = e.official.FetchOfficial(ctx)
	}()
	go func() {
		defer wg.Done()
		parallel, parallelErr = e.parallel.FetchParallel(ctx)
	}()
	wg.Wait()

	if officialErr != nil {
		e.metrics.IncrRateFetchError("official")
		e.logger.Warn("rates: official source failed", zap.Error(officialErr))
	}
	if parallelErr != nil {
		e.metrics.IncrRateFetchError("parallel")
		e.logger.Warn("rates: parallel source failed", zap.Error(parallelErr))
	}

	if officialErr != nil && parallelErr != nil {
		e.mu.Lock()
		e.status = domain.SyncError
		e.mu.Unlock()
		if notify {
			e.notifier.Publish(domain.Notification{
				Title:     "Rate refresh failed",
				Message:   "Neither rate source could be reached. Using the last known rates.",
				Severity:  domain.SeverityWarning,
				Timestamp: time.Now().UTC(),
			})
		}
		return prior, fmt.Errorf("all rate sources failed: official: %v; parallel: %v", officialErr, parallelErr)
	}

	// Partial success is success: merge whatever arrived.
	merged := prior
	if official != nil {
		merged = merged.Merge(*official)
	}
	if parallel != nil {
		merged = merged.Merge(*parallel)
	}

	// Share the scrape with other clients. Best effort only.
	if err := e.store.UpdateRates(ctx, merged); err != nil {
		e.logger.Warn("rates: could not persist refreshed rates", zap.Error(err))
	}

	e.commit(merged, notify, "Exchange rates updated.")
	return merged, nil
}

func (e *Engine) commit(merged domain.RateSet, notify bool, message string) {
	e.mu.Lock()
	e.current = merged
	e.status = domain.SyncSynced
	e.mu.Unlock()

	if notify {
		e.notifier.Publish(domain.Notification{
			Title:     "Rates refreshed",
			Message:   message,
			Severity:  domain.SeverityInfo,
			Timestamp: time.Now().UTC(),
		})
	}
	e.logger.Info("rates refreshed",
		zap.Float64("usd_official", merged.OfficialUSD),
		zap.Float64("eur_official", merged.OfficialEUR),
		zap.Float64("parallel_buy", merged.ParallelBuy),
		zap.Float64("parallel_sell", merged.ParallelSell),
		zap.Time("last_updated", merged.UpdatedAt),
	)
}

// Push overlays manually entered rates onto the snapshot. The local
// snapshot always wins; a failed remote write is logged and swallowed.
func (e *Engine) Push(ctx context.Context, in domain.RateSet) (domain.RateSet, error) {
	if in.OfficialUSD < 0 || in.OfficialEUR < 0 || in.ParallelBuy < 0 || in.ParallelSell < 0 {
		return domain.RateSet{}, &domain.ErrValidation{Field: "rates", Message: "rates must be >= 0"}
	}
	if in.IsZero() {
		return domain.RateSet{}, &domain.ErrValidation{Field: "rates", Message: "at least one rate is required"}
	}
	in.UpdatedAt = time.Now().UTC()

	e.mu.Lock()
	e.status = domain.SyncSyncing
	e.current = e.current.Merge(in)
	merged := e.current
	e.mu.Unlock()

	if err := e.store.UpdateRates(ctx, merged); err != nil {
		e.logger.Warn("rates: manual push not persisted", zap.Error(err))
	}

	e.mu.Lock()
	e.status = domain.SyncSynced
	e.mu.Unlock()
	return merged, nil
}
