package handler

import (
	"net/http"

	"github.com/go-chi/chi/v5"
	"go.uber.org/zap"

	"github.com/oxidacionz/smartbytes-ledger-go/internal/domain"
	"github.com/oxidacionz/smartbytes-ledger-go/internal/session"
)

// ============================================================
// Goals — /v1/goals
// ============================================================

func listGoalsHandler(sessions *session.Registry, logger *zap.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		_, span := tracer.Start(r.Context(), "GET /v1/goals")
		defer span.End()

		sess := openSession(r, sessions, logger)
		writeJSON(w, http.StatusOK, map[string]any{"goals": sess.Store.Goals()})
	}
}

func createGoalHandler(sessions *session.Registry, logger *zap.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		ctx, span := tracer.Start(r.Context(), "POST /v1/goals")
		defer span.End()

		var goal domain.FinancialGoal
		if err := decodeBody(r, &goal); err != nil {
			handleServiceError(w, err, logger)
			return
		}

		sess := openSession(r, sessions, logger)
		created, err := sess.Store.AddGoal(ctx, goal)
		if err != nil {
			handleServiceError(w, err, logger)
			return
		}
		writeJSON(w, http.StatusCreated, created)
	}
}

func updateGoalHandler(sessions *session.Registry, logger *zap.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		ctx, span := tracer.Start(r.Context(), "PUT /v1/goals/{goalID}")
		defer span.End()

		var goal domain.FinancialGoal
		if err := decodeBody(r, &goal); err != nil {
			handleServiceError(w, err, logger)
			return
		}
		goal.ID = chi.URLParam(r, "goalID")

		sess := openSession(r, sessions, logger)
		if err := sess.Store.UpdateGoal(ctx, goal); err != nil {
			handleServiceError(w, err, logger)
			return
		}
		writeJSON(w, http.StatusOK, goal)
	}
}

func deleteGoalHandler(sessions *session.Registry, logger *zap.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		ctx, span := tracer.Start(r.Context(), "DELETE /v1/goals/{goalID}")
		defer span.End()

		sess := openSession(r, sessions, logger)
		if err := sess.Store.DeleteGoal(ctx, chi.URLParam(r, "goalID")); err != nil {
			handleServiceError(w, err, logger)
			return
		}
		w.WriteHeader(http.StatusNoContent)
	}
}

// contributeHandler applies a contribution. Unlike the rest of the CRUD
// surface this is remote-first, so a failure here means nothing changed.
func contributeHandler(sessions *session.Registry, logger *zap.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		ctx, span := tracer.Start(r.Context(), "POST /v1/goals/{goalID}/contributions")
		defer span.End()

		var req struct {
			Amount float64 `json:"amount" validate:"gt=0"`
		}
		if err := decodeBody(r, &req); err != nil {
			handleServiceError(w, err, logger)
			return
		}

		sess := openSession(r, sessions, logger)
		goal, err := sess.Store.Contribute(ctx, chi.URLParam(r, "goalID"), req.Amount)
		if err != nil {
			handleServiceError(w, err, logger)
			return
		}
		writeJSON(w, http.StatusOK, goal)
	}
}
