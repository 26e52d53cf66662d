package handler

import (
	"net/http"

	"github.com/go-chi/chi/v5"
	"go.uber.org/zap"

	"github.com/oxidacionz/smartbytes-ledger-go/internal/advisor"
	"github.com/oxidacionz/smartbytes-ledger-go/internal/domain"
	"github.com/oxidacionz/smartbytes-ledger-go/internal/infra/observability"
	"github.com/oxidacionz/smartbytes-ledger-go/internal/notify"
	"github.com/oxidacionz/smartbytes-ledger-go/internal/rates"
	"github.com/oxidacionz/smartbytes-ledger-go/internal/session"
	"github.com/oxidacionz/smartbytes-ledger-go/internal/settlement"
	"github.com/oxidacionz/smartbytes-ledger-go/internal/valuation"
)

// ============================================================
// Settlement — POST /v1/settlements
// ============================================================

func settleHandler(sessions *session.Registry, logger *zap.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		ctx, span := tracer.Start(r.Context(), "POST /v1/settlements")
		defer span.End()

		var req settlement.Request
		if err := decodeBody(r, &req); err != nil {
			handleServiceError(w, err, logger)
			return
		}
		if req.ItemID == "" {
			writeError(w, http.StatusBadRequest, "item_id is required")
			return
		}

		sess := openSession(r, sessions, logger)
		result, err := sess.Settlement.Settle(ctx, req)
		if err != nil {
			handleServiceError(w, err, logger)
			return
		}
		writeJSON(w, http.StatusOK, result)
	}
}

// ============================================================
// Exchange rates — /v1/rates
// ============================================================

func getRatesHandler(ratesEngine *rates.Engine) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		writeJSON(w, http.StatusOK, map[string]any{
			"rates":  ratesEngine.Current(),
			"status": ratesEngine.Status(),
		})
	}
}

func refreshRatesHandler(ratesEngine *rates.Engine, logger *zap.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		ctx, span := tracer.Start(r.Context(), "POST /v1/rates/refresh")
		defer span.End()

		refreshed, err := ratesEngine.ForceRefresh(ctx)
		if err != nil {
			// The caller still gets the last known snapshot.
			logger.Warn("manual rate refresh failed", zap.Error(err))
			writeJSON(w, http.StatusBadGateway, map[string]any{
				"rates":  refreshed,
				"status": ratesEngine.Status(),
				"error":  err.Error(),
			})
			return
		}
		writeJSON(w, http.StatusOK, map[string]any{
			"rates":  refreshed,
			"status": ratesEngine.Status(),
		})
	}
}

func pushRatesHandler(ratesEngine *rates.Engine, logger *zap.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		ctx, span := tracer.Start(r.Context(), "PUT /v1/rates")
		defer span.End()

		var in domain.RateSet
		if err := decodeBody(r, &in); err != nil {
			handleServiceError(w, err, logger)
			return
		}

		merged, err := ratesEngine.Push(ctx, in)
		if err != nil {
			handleServiceError(w, err, logger)
			return
		}
		writeJSON(w, http.StatusOK, map[string]any{
			"rates":  merged,
			"status": ratesEngine.Status(),
		})
	}
}

// ============================================================
// Valuation and advisory
// ============================================================

func totalsHandler(sessions *session.Registry, ratesEngine *rates.Engine, logger *zap.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		_, span := tracer.Start(r.Context(), "GET /v1/totals")
		defer span.End()

		sess := openSession(r, sessions, logger)
		converter := valuation.NewConverter(logger)
		totals := converter.AggregateWithInventory(sess.Store.Items(), sess.Store.Assets(), ratesEngine.Current())
		writeJSON(w, http.StatusOK, totals)
	}
}

func budgetHandler(logger *zap.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		_, span := tracer.Start(r.Context(), "POST /v1/advisor/budget")
		defer span.End()

		var profile domain.FinancialProfile
		if err := decodeBody(r, &profile); err != nil {
			handleServiceError(w, err, logger)
			return
		}
		writeJSON(w, http.StatusOK, advisor.CalculateBudgetDistribution(profile))
	}
}

func recommendationsHandler(sessions *session.Registry, ratesEngine *rates.Engine, logger *zap.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		_, span := tracer.Start(r.Context(), "POST /v1/advisor/recommendations")
		defer span.End()

		var profile domain.FinancialProfile
		if err := decodeBody(r, &profile); err != nil {
			handleServiceError(w, err, logger)
			return
		}

		sess := openSession(r, sessions, logger)
		converter := valuation.NewConverter(logger)
		totals := converter.AggregateWithInventory(sess.Store.Items(), sess.Store.Assets(), ratesEngine.Current())

		recs := advisor.Recommend(advisor.Input{Profile: profile, Totals: totals})
		if recs == nil {
			recs = []domain.Recommendation{}
		}
		writeJSON(w, http.StatusOK, map[string]any{"recommendations": recs, "totals": totals})
	}
}

// ============================================================
// Notifications — /v1/notifications
// ============================================================

func listNotificationsHandler(center *notify.Center) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		writeJSON(w, http.StatusOK, map[string]any{
			"notifications": center.List(),
			"unread":        center.Unread(),
		})
	}
}

func markNotificationReadHandler(center *notify.Center, logger *zap.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if err := center.MarkRead(chi.URLParam(r, "notificationID")); err != nil {
			handleServiceError(w, err, logger)
			return
		}
		w.WriteHeader(http.StatusNoContent)
	}
}

func markAllNotificationsReadHandler(center *notify.Center) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		center.MarkAllRead()
		w.WriteHeader(http.StatusNoContent)
	}
}

// ============================================================
// Sync and session lifecycle — /v1/sync, /v1/session
// ============================================================

func syncStatusHandler(sessions *session.Registry, logger *zap.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		_, span := tracer.Start(r.Context(), "GET /v1/sync/status")
		defer span.End()

		sess := openSession(r, sessions, logger)
		writeJSON(w, http.StatusOK, map[string]any{
			"status":         sess.Store.Status(),
			"outbox_pending": len(sess.Store.Outbox().Pending()),
			"outbox_failed":  len(sess.Store.Outbox().Failed()),
		})
	}
}

func outboxHandler(sessions *session.Registry, logger *zap.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		_, span := tracer.Start(r.Context(), "GET /v1/sync/outbox")
		defer span.End()

		sess := openSession(r, sessions, logger)
		writeJSON(w, http.StatusOK, map[string]any{
			"pending": sess.Store.Outbox().Pending(),
			"failed":  sess.Store.Outbox().Failed(),
		})
	}
}

func outboxRetryHandler(sessions *session.Registry, logger *zap.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		_, span := tracer.Start(r.Context(), "POST /v1/sync/outbox/retry")
		defer span.End()

		sess := openSession(r, sessions, logger)
		n := sess.Store.Outbox().Retry()
		writeJSON(w, http.StatusOK, map[string]any{"requeued": n})
	}
}

func syncStatsHandler(metrics *observability.Metrics) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		writeJSON(w, http.StatusOK, metrics.GetSyncSnapshot())
	}
}

func reloadSessionHandler(sessions *session.Registry, logger *zap.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		ctx, span := tracer.Start(r.Context(), "POST /v1/session/reload")
		defer span.End()

		sess := openSession(r, sessions, logger)
		if err := sess.Store.Load(ctx); err != nil {
			handleServiceError(w, err, logger)
			return
		}
		writeJSON(w, http.StatusOK, map[string]any{"status": sess.Store.Status()})
	}
}

func closeSessionHandler(sessions *session.Registry) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		sessions.Close(OwnerIDFromContext(r.Context()))
		w.WriteHeader(http.StatusNoContent)
	}
}
