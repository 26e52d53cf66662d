package handler

import (
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"go.opentelemetry.io/otel"
	"go.uber.org/zap"

	"github.com/oxidacionz/smartbytes-ledger-go/internal/infra/observability"
	"github.com/oxidacionz/smartbytes-ledger-go/internal/notify"
	"github.com/oxidacionz/smartbytes-ledger-go/internal/rates"
	"github.com/oxidacionz/smartbytes-ledger-go/internal/session"
)

var tracer = otel.Tracer("handler")

// NewRouter creates the HTTP router with all routes and middleware.
// Everything under /v1 requires a bearer token; the owner id in the token
// selects the session every request operates on.
func NewRouter(sessions *session.Registry, ratesEngine *rates.Engine, center *notify.Center, metrics *observability.Metrics, jwtSecret string, logger *zap.Logger) http.Handler {
	r := chi.NewRouter()

	// --- Middleware ---
	r.Use(middleware.RequestID)
	r.Use(middleware.RealIP)
	r.Use(observability.ZapLoggerMiddleware(logger))
	r.Use(observability.TracingMiddleware)
	r.Use(middleware.Recoverer)
	r.Use(middleware.Heartbeat("/ping"))

	// --- Operational endpoints ---
	r.Get("/healthz", healthzHandler(ratesEngine))
	r.Get("/readyz", readyzHandler())
	r.Handle("/metrics", promhttp.HandlerFor(metrics.Registry, promhttp.HandlerOpts{}))

	// --- API v1 ---
	r.Route("/v1", func(r chi.Router) {
		r.Use(JWTAuthMiddleware(jwtSecret, logger))

		// Ledger items
		r.Get("/items", listItemsHandler(sessions, logger))
		r.Post("/items", createItemHandler(sessions, logger))
		r.Put("/items/{itemID}", updateItemHandler(sessions, logger))
		r.Delete("/items/{itemID}", deleteItemHandler(sessions, logger))

		// Physical assets
		r.Get("/assets", listAssetsHandler(sessions, logger))
		r.Post("/assets", createAssetHandler(sessions, logger))
		r.Put("/assets/{assetID}", updateAssetHandler(sessions, logger))
		r.Delete("/assets/{assetID}", deleteAssetHandler(sessions, logger))
		r.Post("/assets/{assetID}/liquidate", liquidateAssetHandler(sessions, logger))

		// Calendar events and the derived agenda
		r.Get("/events", listEventsHandler(sessions, logger))
		r.Post("/events", createEventHandler(sessions, logger))
		r.Put("/events/{eventID}", updateEventHandler(sessions, logger))
		r.Delete("/events/{eventID}", deleteEventHandler(sessions, logger))
		r.Get("/agenda", agendaHandler(sessions, logger))

		// Goals
		r.Get("/goals", listGoalsHandler(sessions, logger))
		r.Post("/goals", createGoalHandler(sessions, logger))
		r.Put("/goals/{goalID}", updateGoalHandler(sessions, logger))
		r.Delete("/goals/{goalID}", deleteGoalHandler(sessions, logger))
		r.Post("/goals/{goalID}/contributions", contributeHandler(sessions, logger))

		// Directory
		r.Get("/entities", listEntitiesHandler(sessions, logger))
		r.Post("/entities", createEntityHandler(sessions, logger))
		r.Put("/entities/{entityID}", updateEntityHandler(sessions, logger))
		r.Delete("/entities/{entityID}", deleteEntityHandler(sessions, logger))

		// Shopping log
		r.Get("/shopping", listShoppingHandler(sessions, logger))
		r.Post("/shopping", createShoppingHandler(sessions, logger))
		r.Put("/shopping/{shoppingID}", updateShoppingHandler(sessions, logger))
		r.Delete("/shopping/{shoppingID}", deleteShoppingHandler(sessions, logger))

		// Settlement
		r.Post("/settlements", settleHandler(sessions, logger))

		// Exchange rates
		r.Get("/rates", getRatesHandler(ratesEngine))
		r.Post("/rates/refresh", refreshRatesHandler(ratesEngine, logger))
		r.Put("/rates", pushRatesHandler(ratesEngine, logger))

		// Valuation and advisory
		r.Get("/totals", totalsHandler(sessions, ratesEngine, logger))
		r.Post("/advisor/budget", budgetHandler(logger))
		r.Post("/advisor/recommendations", recommendationsHandler(sessions, ratesEngine, logger))

		// Notifications
		r.Get("/notifications", listNotificationsHandler(center))
		r.Post("/notifications/{notificationID}/read", markNotificationReadHandler(center, logger))
		r.Post("/notifications/read-all", markAllNotificationsReadHandler(center))

		// Sync and session lifecycle
		r.Get("/sync/status", syncStatusHandler(sessions, logger))
		r.Get("/sync/outbox", outboxHandler(sessions, logger))
		r.Post("/sync/outbox/retry", outboxRetryHandler(sessions, logger))
		r.Get("/sync/stats", syncStatsHandler(metrics))
		r.Post("/session/reload", reloadSessionHandler(sessions, logger))
		r.Delete("/session", closeSessionHandler(sessions))
	})

	return r
}

func healthzHandler(ratesEngine *rates.Engine) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		writeJSON(w, http.StatusOK, map[string]any{
			"status":       "ok",
			"rates_status": ratesEngine.Status(),
		})
	}
}

func readyzHandler() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		writeJSON(w, http.StatusOK, map[string]string{"status": "ready"})
	}
}

// openSession resolves the authenticated owner's session, creating it on
// first use. A failed initial load is not fatal here: the session serves
// whatever it holds and reports its status through /v1/sync/status.
func openSession(r *http.Request, sessions *session.Registry, logger *zap.Logger) *session.Session {
	ownerID := OwnerIDFromContext(r.Context())
	sess, err := sessions.Open(r.Context(), ownerID)
	if err != nil {
		logger.Warn("session load failed, serving local state",
			zap.String("owner_id", ownerID),
			zap.Error(err),
		)
	}
	return sess
}
