package observability

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
	dto "github.com/prometheus/client_model/go"
)

// Metrics holds all Prometheus metrics for the ledger engine.
type Metrics struct {
	// Registry is the Prometheus registry that owns these metrics.
	// Exposed so the /metrics endpoint can use it.
	Registry *prometheus.Registry

	outboxDepth     prometheus.Gauge
	outboxFailures  *prometheus.CounterVec
	syncOutcomes    *prometheus.CounterVec
	rateFetchErrors *prometheus.CounterVec
	settlements     *prometheus.CounterVec
	goalCompletions prometheus.Counter
}

// NewMetrics creates a dedicated Prometheus registry and registers all
// application metrics in it. Using a private registry avoids "duplicate
// collector" panics when NewMetrics is called more than once (e.g. in tests).
func NewMetrics() *Metrics {
	reg := prometheus.NewRegistry()
	factory := promauto.With(reg)

	return &Metrics{
		Registry: reg,

		outboxDepth: factory.NewGauge(
			prometheus.GaugeOpts{
				Name: "ledger_outbox_depth",
				Help: "Writes currently queued for remote persistence.",
			},
		),
		outboxFailures: factory.NewCounterVec(
			prometheus.CounterOpts{
				Name: "ledger_outbox_failures_total",
				Help: "Remote persistence failures by entity kind.",
			},
			[]string{"kind"},
		),
		syncOutcomes: factory.NewCounterVec(
			prometheus.CounterOpts{
				Name: "ledger_sync_total",
				Help: "Full-load and contribution sync outcomes.",
			},
			[]string{"operation", "outcome"},
		),
		rateFetchErrors: factory.NewCounterVec(
			prometheus.CounterOpts{
				Name: "ledger_rate_fetch_errors_total",
				Help: "Rate acquisition failures by source.",
			},
			[]string{"source"},
		),
		settlements: factory.NewCounterVec(
			prometheus.CounterOpts{
				Name: "ledger_settlements_total",
				Help: "Completed settlements by method.",
			},
			[]string{"method"},
		),
		goalCompletions: factory.NewCounter(
			prometheus.CounterOpts{
				Name: "ledger_goal_completions_total",
				Help: "Goals that crossed their target.",
			},
		),
	}
}

// SetOutboxDepth records the current reconciliation-queue depth.
func (m *Metrics) SetOutboxDepth(n int) {
	m.outboxDepth.Set(float64(n))
}

// IncrOutboxFailure counts a remote write that could not be persisted.
func (m *Metrics) IncrOutboxFailure(kind string) {
	m.outboxFailures.WithLabelValues(kind).Inc()
}

// IncrSync records the outcome of a load or contribution.
func (m *Metrics) IncrSync(operation, outcome string) {
	m.syncOutcomes.WithLabelValues(operation, outcome).Inc()
}

// IncrRateFetchError counts a failed rate-source call.
func (m *Metrics) IncrRateFetchError(source string) {
	m.rateFetchErrors.WithLabelValues(source).Inc()
}

// IncrSettlement counts a completed settlement by method.
func (m *Metrics) IncrSettlement(method string) {
	m.settlements.WithLabelValues(method).Inc()
}

// IncrGoalCompletion counts a goal crossing its target.
func (m *Metrics) IncrGoalCompletion() {
	m.goalCompletions.Inc()
}

// SyncSnapshot is a point-in-time view of the sync counters, served by the
// GET /v1/sync/stats endpoint.
type SyncSnapshot struct {
	LoadsOK         float64 `json:"loads_ok"`
	LoadsFailed     float64 `json:"loads_failed"`
	OutboxFailures  float64 `json:"outbox_failures"`
	GoalCompletions float64 `json:"goal_completions"`
}

// GetSyncSnapshot reads the cumulative counter values back out of the
// registry. Prometheus counters only expose cumulative values.
func (m *Metrics) GetSyncSnapshot() SyncSnapshot {
	failures := float64(0)
	for _, kind := range []string{"item", "asset", "event", "goal", "directory", "shopping"} {
		failures += getCounterValue(m.outboxFailures, kind)
	}

	return SyncSnapshot{
		LoadsOK:         getCounterValue(m.syncOutcomes, "load", "ok"),
		LoadsFailed:     getCounterValue(m.syncOutcomes, "load", "error"),
		OutboxFailures:  failures,
		GoalCompletions: getGaugeOrCounterValue(m.goalCompletions),
	}
}

// getCounterValue extracts the current float64 value from a CounterVec for
// the given labels.
func getCounterValue(cv *prometheus.CounterVec, labels ...string) float64 {
	counter := cv.WithLabelValues(labels...)
	m := &dto.Metric{}
	if err := counter.(prometheus.Metric).Write(m); err != nil {
		return 0
	}
	if m.Counter != nil && m.Counter.Value != nil {
		return *m.Counter.Value
	}
	return 0
}

func getGaugeOrCounterValue(c prometheus.Counter) float64 {
	m := &dto.Metric{}
	if err := c.Write(m); err != nil {
		return 0
	}
	if m.Counter != nil && m.Counter.Value != nil {
		return *m.Counter.Value
	}
	return 0
}
