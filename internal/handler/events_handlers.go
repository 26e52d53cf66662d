package handler

import (
	"fmt"
	"net/http"
	"sort"
	"strings"
	"time"

	"github.com/go-chi/chi/v5"
	"go.uber.org/zap"

	"github.com/oxidacionz/smartbytes-ledger-go/internal/domain"
	"github.com/oxidacionz/smartbytes-ledger-go/internal/session"
)

// ============================================================
// Calendar events — /v1/events
// ============================================================

func listEventsHandler(sessions *session.Registry, logger *zap.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		_, span := tracer.Start(r.Context(), "GET /v1/events")
		defer span.End()

		sess := openSession(r, sessions, logger)
		writeJSON(w, http.StatusOK, map[string]any{"events": sess.Store.Events()})
	}
}

func createEventHandler(sessions *session.Registry, logger *zap.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		ctx, span := tracer.Start(r.Context(), "POST /v1/events")
		defer span.End()

		var event domain.SpecialEvent
		if err := decodeBody(r, &event); err != nil {
			handleServiceError(w, err, logger)
			return
		}

		sess := openSession(r, sessions, logger)
		created, err := sess.Store.AddEvent(ctx, event)
		if err != nil {
			handleServiceError(w, err, logger)
			return
		}
		writeJSON(w, http.StatusCreated, created)
	}
}

func updateEventHandler(sessions *session.Registry, logger *zap.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		ctx, span := tracer.Start(r.Context(), "PUT /v1/events/{eventID}")
		defer span.End()

		var event domain.SpecialEvent
		if err := decodeBody(r, &event); err != nil {
			handleServiceError(w, err, logger)
			return
		}
		event.ID = chi.URLParam(r, "eventID")

		sess := openSession(r, sessions, logger)
		if err := sess.Store.UpdateEvent(ctx, event); err != nil {
			handleServiceError(w, err, logger)
			return
		}
		writeJSON(w, http.StatusOK, event)
	}
}

func deleteEventHandler(sessions *session.Registry, logger *zap.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		ctx, span := tracer.Start(r.Context(), "DELETE /v1/events/{eventID}")
		defer span.End()

		sess := openSession(r, sessions, logger)
		if err := sess.Store.DeleteEvent(ctx, chi.URLParam(r, "eventID")); err != nil {
			handleServiceError(w, err, logger)
			return
		}
		w.WriteHeader(http.StatusNoContent)
	}
}

// ============================================================
// Agenda — GET /v1/agenda?month=YYYY-MM
// ============================================================

// agendaEntry is one derived calendar line: a stored event, a recurring
// payment taken from the ledger, or a goal deadline.
type agendaEntry struct {
	Date     string `json:"date"` // YYYY-MM-DD
	Name     string `json:"name"`
	Kind     string `json:"kind"` // event, payment, goal
	SourceID string `json:"source_id"`
}

func agendaHandler(sessions *session.Registry, logger *zap.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		_, span := tracer.Start(r.Context(), "GET /v1/agenda")
		defer span.End()

		month := r.URL.Query().Get("month")
		if month == "" {
			month = time.Now().Format("2006-01")
		}
		if _, err := time.Parse("2006-01", month); err != nil {
			writeError(w, http.StatusBadRequest, "month must be YYYY-MM")
			return
		}

		sess := openSession(r, sessions, logger)
		entries := buildAgenda(month, sess.Store.Events(), sess.Store.Items(), sess.Store.Goals())
		writeJSON(w, http.StatusOK, map[string]any{"month": month, "entries": entries})
	}
}

// buildAgenda merges the three date sources for one month. Annual "MM-DD"
// events recur every year; full dates only match their own month.
func buildAgenda(month string, events []domain.SpecialEvent, items []domain.LedgerItem, goals []domain.FinancialGoal) []agendaEntry {
	entries := make([]agendaEntry, 0)

	for _, e := range events {
		switch {
		case len(e.Date) == 5: // MM-DD, annually recurring
			if strings.HasPrefix(e.Date, month[5:7]+"-") {
				entries = append(entries, agendaEntry{
					Date: month + "-" + e.Date[3:], Name: e.Name,
					Kind: "event", SourceID: e.ID,
				})
			}
		case strings.HasPrefix(e.Date, month+"-"):
			entries = append(entries, agendaEntry{
				Date: e.Date, Name: e.Name, Kind: "event", SourceID: e.ID,
			})
		}
	}

	for _, it := range items {
		if !it.Recurring || it.DayOfMonth == nil {
			continue
		}
		entries = append(entries, agendaEntry{
			Date:     fmt.Sprintf("%s-%02d", month, *it.DayOfMonth),
			Name:     it.Name,
			Kind:     "payment",
			SourceID: it.ID,
		})
	}

	for _, g := range goals {
		if g.Status != domain.GoalActive || g.TargetDate == nil {
			continue
		}
		if strings.HasPrefix(*g.TargetDate, month+"-") {
			entries = append(entries, agendaEntry{
				Date: *g.TargetDate, Name: g.Name, Kind: "goal", SourceID: g.ID,
			})
		}
	}

	sort.Slice(entries, func(i, j int) bool {
		if entries[i].Date != entries[j].Date {
			return entries[i].Date < entries[j].Date
		}
		return entries[i].Name < entries[j].Name
	})
	return entries
}
